package models

import (
	"time"

	"github.com/google/uuid"
)

// Severity levels for an alert. Drives UI emphasis only.
const (
	SeverityHigh   = "high"
	SeverityMedium = "medium"
	SeverityLow    = "low"
)

// Alert types form a closed set; anything else is coerced to TypeThreat.
const (
	TypeImpersonation      = "impersonation"
	TypeCoordination       = "coordination"
	TypeMediaReuse         = "media_reuse"
	TypeThreat             = "threat"
	TypeMisinformation     = "misinformation"
	TypeDeepfake           = "deepfake"
	TypeBrandImpersonation = "brand_impersonation"
)

// Default values applied during normalization when a field is missing
// or outside its closed set.
const (
	DefaultSeverity   = SeverityMedium
	DefaultType       = TypeThreat
	DefaultConfidence = 0.6
)

// Alert is the canonical threat event. The id is the dedup and
// resolution key across every source.
type Alert struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Severity    string    `json:"severity"`
	VIPName     string    `json:"vipName"`
	Source      string    `json:"source"`
	Timestamp   time.Time `json:"timestamp"`
	Confidence  float64   `json:"confidence"`
	Type        string    `json:"type"`
}

// ValidSeverity reports whether s is a member of the closed severity set.
func ValidSeverity(s string) bool {
	return s == SeverityHigh || s == SeverityMedium || s == SeverityLow
}

// ValidType reports whether t is a member of the closed type set.
func ValidType(t string) bool {
	switch t {
	case TypeImpersonation, TypeCoordination, TypeMediaReuse, TypeThreat,
		TypeMisinformation, TypeDeepfake, TypeBrandImpersonation:
		return true
	}
	return false
}

// ClampConfidence clamps v to [0,1].
func ClampConfidence(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

// Normalize coerces every field of the alert into its canonical range,
// field by field, so one bad field never invalidates the record.
// Missing ids get a fresh UUID rather than a timestamp-derived number,
// which keeps ids unique even when several records arrive at once.
func (a Alert) Normalize(vipFallback string) Alert {
	if a.ID == "" {
		a.ID = uuid.NewString()
	}
	if a.Title == "" {
		a.Title = "New threat detected"
	}
	if !ValidSeverity(a.Severity) {
		a.Severity = DefaultSeverity
	}
	if a.VIPName == "" {
		if vipFallback != "" {
			a.VIPName = vipFallback
		} else {
			a.VIPName = "Unknown"
		}
	}
	if a.Source == "" {
		a.Source = "Unknown"
	}
	if a.Timestamp.IsZero() {
		a.Timestamp = time.Now().UTC()
	}
	a.Confidence = ClampConfidence(a.Confidence)
	if !ValidType(a.Type) {
		a.Type = DefaultType
	}
	return a
}
