package models

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
)

// RawAlert is the tolerant wire shape for alerts coming from the remote
// backend. Remote payloads carry numeric ids, string confidences and
// free-form timestamps, so every field is coerced independently.
type RawAlert struct {
	ID          any    `json:"id"`
	Title       string `json:"title"`
	Description string `json:"description"`
	Severity    string `json:"severity"`
	VIPName     string `json:"vipName"`
	Source      string `json:"source"`
	Timestamp   string `json:"timestamp"`
	Confidence  any    `json:"confidence"`
	Type        string `json:"type"`
}

// Normalize converts a raw record into a canonical Alert. Each rule
// applies on its own: a malformed confidence does not affect the
// severity coercion, and so on.
func (r RawAlert) Normalize(vipFallback string) Alert {
	a := Alert{
		ID:          stringifyID(r.ID),
		Title:       r.Title,
		Description: r.Description,
		Severity:    r.Severity,
		VIPName:     r.VIPName,
		Source:      r.Source,
		Timestamp:   parseTimestamp(r.Timestamp),
		Confidence:  coerceConfidence(r.Confidence),
		Type:        r.Type,
	}
	return a.Normalize(vipFallback)
}

// stringifyID renders any JSON id value as a string. An absent id maps
// to a fresh UUID so two idless records never collide.
func stringifyID(v any) string {
	switch id := v.(type) {
	case nil:
		return uuid.NewString()
	case string:
		if strings.TrimSpace(id) == "" {
			return uuid.NewString()
		}
		return id
	case json.Number:
		return id.String()
	case float64:
		return strconv.FormatFloat(id, 'f', -1, 64)
	default:
		return fmt.Sprintf("%v", id)
	}
}

// coerceConfidence applies numeric coercion and clamps to [0,1].
// Absent or non-numeric values fall back to DefaultConfidence.
func coerceConfidence(v any) float64 {
	switch c := v.(type) {
	case float64:
		return ClampConfidence(c)
	case json.Number:
		if f, err := c.Float64(); err == nil {
			return ClampConfidence(f)
		}
	case string:
		if f, err := strconv.ParseFloat(strings.TrimSpace(c), 64); err == nil {
			return ClampConfidence(f)
		}
	case int:
		return ClampConfidence(float64(c))
	}
	return DefaultConfidence
}

// parseTimestamp accepts RFC3339 (with or without sub-second precision)
// and falls back to the current instant. The fallback biases ordering
// for late-normalized alerts; callers that know the true occurrence
// time should set it before normalization.
func parseTimestamp(s string) time.Time {
	if s == "" {
		return time.Now().UTC()
	}
	for _, layout := range []string{time.RFC3339Nano, time.RFC3339} {
		if ts, err := time.Parse(layout, s); err == nil {
			return ts
		}
	}
	return time.Now().UTC()
}
