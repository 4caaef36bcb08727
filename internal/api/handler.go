package api

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/aurashield/aurashield/internal/config"
	"github.com/aurashield/aurashield/internal/dto"
	"github.com/aurashield/aurashield/internal/models"
	"github.com/aurashield/aurashield/internal/publish"
)

// Analyzer is the slice of the analysis service the handlers need.
type Analyzer interface {
	Configured() bool
	AlertsForVIP(ctx context.Context, vip string) ([]models.Alert, error)
	AnalyzeUpload(ctx context.Context, vip string) models.Alert
	AnalyzeURL(ctx context.Context, rawURL, vip string) (models.Alert, error)
}

type Handler struct {
	analysis  Analyzer
	publisher *publish.Publisher
	config    *config.Config
	log       *zap.SugaredLogger
}

// Constructor for Handler
func NewHandler(analysis Analyzer, publisher *publish.Publisher, cfg *config.Config, log *zap.SugaredLogger) *Handler {
	if log == nil {
		log = zap.NewNop().Sugar()
	}
	return &Handler{
		analysis:  analysis,
		publisher: publisher,
		config:    cfg,
		log:       log,
	}
}

func (handler *Handler) HealthCheck(w http.ResponseWriter, r *http.Request) {
	response := dto.HealthResponse{
		Status:    "healthy",
		Timestamp: time.Now().UTC().Format(time.RFC3339),
		Version:   "1.0.0",
	}
	handler.respondJSON(w, http.StatusOK, response)
}

// GetAlerts serves GET /alerts?vip=<name>. Mentions from every social
// source are classified and returned as a JSON array sorted
// newest-first.
func (handler *Handler) GetAlerts(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		handler.respondError(w, http.StatusMethodNotAllowed, "Method not allowed")
		return
	}

	vip := r.URL.Query().Get("vip")
	if vip == "" {
		handler.respondError(w, http.StatusBadRequest, "vip is required")
		return
	}

	if !handler.analysis.Configured() {
		handler.respondError(w, http.StatusInternalServerError, "Server not configured for Twitter/YouTube")
		return
	}

	alerts, err := handler.analysis.AlertsForVIP(r.Context(), vip)
	if err != nil {
		handler.respondError(w, http.StatusInternalServerError, fmt.Sprintf("Failed to fetch alerts: %v", err))
		return
	}

	handler.publishAlerts(alerts)
	handler.respondJSON(w, http.StatusOK, alerts)
}

// AnalyzeImage serves POST /analyze-image. The upload itself is only
// acknowledged; classification runs on the declared context so a
// failed analysis still produces a best-effort alert.
func (handler *Handler) AnalyzeImage(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		handler.respondError(w, http.StatusMethodNotAllowed, "Method not allowed")
		return
	}

	if err := r.ParseMultipartForm(handler.config.MaxUploadSize); err != nil {
		handler.respondError(w, http.StatusBadRequest, fmt.Sprintf("Failed to parse form: %v", err))
		return
	}

	file, _, err := r.FormFile("image")
	if err != nil {
		handler.respondError(w, http.StatusBadRequest, fmt.Sprintf("Failed to get image file: %v", err))
		return
	}
	file.Close()

	vip := r.FormValue("vip")
	if vip == "" {
		vip = "Unknown"
	}

	alert := handler.analysis.AnalyzeUpload(r.Context(), vip)

	handler.publishAlerts([]models.Alert{alert})
	handler.respondJSON(w, http.StatusOK, alert)
}

// AnalyzeURL serves POST /analyze-url with body {url, vip}.
func (handler *Handler) AnalyzeURL(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		handler.respondError(w, http.StatusMethodNotAllowed, "Method not allowed")
		return
	}

	var req dto.AnalyzeURLRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		handler.respondError(w, http.StatusBadRequest, fmt.Sprintf("Failed to parse request: %v", err))
		return
	}

	if req.URL == "" {
		handler.respondError(w, http.StatusBadRequest, "url is required")
		return
	}
	if req.VIP == "" {
		req.VIP = "Unknown"
	}

	alert, err := handler.analysis.AnalyzeURL(r.Context(), req.URL, req.VIP)
	if err != nil {
		handler.respondError(w, http.StatusInternalServerError, fmt.Sprintf("Failed to analyze url: %v", err))
		return
	}

	handler.publishAlerts([]models.Alert{alert})
	handler.respondJSON(w, http.StatusOK, alert)
}

// publishAlerts pushes produced alerts to RabbitMQ, best-effort.
func (handler *Handler) publishAlerts(alerts []models.Alert) {
	for _, a := range alerts {
		if err := handler.publisher.PublishAlert(a); err != nil {
			handler.log.Warnw("Failed to publish alert", "id", a.ID, "error", err)
		}
	}
}

// Helper methods for responses
func (handler *Handler) respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func (handler *Handler) respondError(w http.ResponseWriter, status int, message string) {
	handler.respondJSON(w, status, dto.ErrorResponse{
		Error:   http.StatusText(status),
		Message: message,
		Code:    status,
	})
}
