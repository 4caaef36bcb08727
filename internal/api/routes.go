package api

import (
	"net/http"

	"go.uber.org/zap"
)

func SetupRoutes(alertHandler *Handler, log *zap.SugaredLogger) http.Handler {
	mux := http.NewServeMux()

	// Health check
	mux.HandleFunc("/api/v1/health", alertHandler.HealthCheck)

	// Alert proxy endpoints
	mux.HandleFunc("/alerts", alertHandler.GetAlerts)
	mux.HandleFunc("/analyze-image", alertHandler.AnalyzeImage)
	mux.HandleFunc("/analyze-url", alertHandler.AnalyzeURL)

	// Apply middleware
	handler := LoggingMiddleware(mux, log)
	handler = RecoveryMiddleware(handler, log)
	handler = CORSMiddleware(handler, alertHandler.config.CORSOrigin)

	return handler
}
