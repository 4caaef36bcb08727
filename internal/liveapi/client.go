package liveapi

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"go.uber.org/zap"

	"github.com/aurashield/aurashield/internal/dto"
	"github.com/aurashield/aurashield/internal/mockapi"
	"github.com/aurashield/aurashield/internal/models"
)

// ErrLiveDisabled is returned by the analysis flows when the live
// backend is switched off; those flows have no mock fallback.
var ErrLiveDisabled = fmt.Errorf("live API disabled")

// Client talks to the remote alert backend and translates its tolerant
// JSON into canonical alerts. Successfully fetched alerts are imported
// into the mock store in the background so mock-only views stay
// consistent.
type Client struct {
	baseURL string
	enabled bool
	client  *http.Client
	store   *mockapi.Store
	log     *zap.SugaredLogger
}

func NewClient(baseURL string, enabled bool, timeout time.Duration, store *mockapi.Store, log *zap.SugaredLogger) *Client {
	if log == nil {
		log = zap.NewNop().Sugar()
	}
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	return &Client{
		baseURL: baseURL,
		enabled: enabled,
		client: &http.Client{
			Timeout: timeout,
			Transport: &http.Transport{
				MaxIdleConns:        100,
				MaxIdleConnsPerHost: 10,
				IdleConnTimeout:     90 * time.Second,
			},
		},
		store: store,
		log:   log,
	}
}

// Enabled reports whether the live backend is in use.
func (c *Client) Enabled() bool {
	return c.enabled
}

// GetAlerts fetches and normalizes the alert list for a target. A
// non-2xx response or malformed body is an error; the reconciler
// substitutes an empty result in that case.
func (c *Client) GetAlerts(ctx context.Context, vip string, opts dto.ListOptions) (dto.AlertsResponse, error) {
	params := url.Values{}
	if vip != "" {
		params.Set("vip", vip)
	}
	if opts.Search != "" {
		params.Set("q", opts.Search)
	}
	if opts.Severity != "" && opts.Severity != "all" {
		params.Set("severity", opts.Severity)
	}
	if opts.Limit > 0 {
		params.Set("limit", strconv.Itoa(opts.Limit))
	}

	var raw []models.RawAlert
	if err := c.getJSON(ctx, "/alerts?"+params.Encode(), &raw); err != nil {
		return dto.AlertsResponse{}, err
	}

	alerts := make([]models.Alert, 0, len(raw))
	for _, r := range raw {
		alerts = append(alerts, r.Normalize(vip))
	}

	c.importAsync(alerts)
	return dto.AlertsResponse{Alerts: alerts, Total: len(alerts)}, nil
}

// AnalyzeImage uploads an evidence image for classification and
// returns the resulting alert.
func (c *Client) AnalyzeImage(ctx context.Context, imagePath, vip string) (models.Alert, error) {
	if !c.enabled {
		return models.Alert{}, ErrLiveDisabled
	}

	file, err := os.Open(imagePath)
	if err != nil {
		return models.Alert{}, fmt.Errorf("failed to open image: %w", err)
	}
	defer file.Close()

	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)
	if vip != "" {
		if err := writer.WriteField("vip", vip); err != nil {
			return models.Alert{}, fmt.Errorf("failed to build form: %w", err)
		}
	}
	part, err := writer.CreateFormFile("image", filepath.Base(imagePath))
	if err != nil {
		return models.Alert{}, fmt.Errorf("failed to build form: %w", err)
	}
	if _, err := io.Copy(part, file); err != nil {
		return models.Alert{}, fmt.Errorf("failed to read image: %w", err)
	}
	if err := writer.Close(); err != nil {
		return models.Alert{}, fmt.Errorf("failed to finish form: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/analyze-image", body)
	if err != nil {
		return models.Alert{}, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", writer.FormDataContentType())

	return c.doAlertRequest(req, vip)
}

// AnalyzeURL submits a URL for platform-aware classification and
// returns the resulting alert.
func (c *Client) AnalyzeURL(ctx context.Context, rawURL, vip string) (models.Alert, error) {
	if !c.enabled {
		return models.Alert{}, ErrLiveDisabled
	}

	payload, err := json.Marshal(dto.AnalyzeURLRequest{URL: rawURL, VIP: vip})
	if err != nil {
		return models.Alert{}, fmt.Errorf("failed to encode request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/analyze-url", bytes.NewReader(payload))
	if err != nil {
		return models.Alert{}, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	return c.doAlertRequest(req, vip)
}

func (c *Client) doAlertRequest(req *http.Request, vip string) (models.Alert, error) {
	resp, err := c.client.Do(req)
	if err != nil {
		return models.Alert{}, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return models.Alert{}, fmt.Errorf("request failed: status %d", resp.StatusCode)
	}

	var raw models.RawAlert
	if err := json.NewDecoder(resp.Body).Decode(&raw); err != nil {
		return models.Alert{}, fmt.Errorf("failed to decode alert: %w", err)
	}

	alert := raw.Normalize(vip)
	c.importAsync([]models.Alert{alert})
	return alert, nil
}

func (c *Client) getJSON(ctx context.Context, path string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fmt.Errorf("request failed: status %d", resp.StatusCode)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}

// importAsync pushes fetched alerts into the mock store without
// blocking the caller. Import cannot fail; the goroutine exists so a
// slow subscriber never delays alert delivery.
func (c *Client) importAsync(alerts []models.Alert) {
	if c.store == nil || len(alerts) == 0 {
		return
	}
	go c.store.Import(alerts)
}
