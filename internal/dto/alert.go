package dto

import "github.com/aurashield/aurashield/internal/models"

// AlertsResponse is the envelope handed to presentation code by both
// the mock source and the reconciliation layer.
type AlertsResponse struct {
	Alerts []models.Alert `json:"alerts"`
	Total  int            `json:"total"`
}

// ListOptions filters an alert listing. Severity "all" (or empty)
// means no severity filter.
type ListOptions struct {
	Search   string
	Severity string
	Limit    int
}

// AnalyzeURLRequest is the body of POST /analyze-url.
type AnalyzeURLRequest struct {
	URL string `json:"url"`
	VIP string `json:"vip"`
}
