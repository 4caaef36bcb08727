package service

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aurashield/aurashield/internal/gemini"
	"github.com/aurashield/aurashield/internal/models"
	"github.com/aurashield/aurashield/internal/sources"
)

// newOfflineService wires a service with no credentials anywhere, so
// every classification takes the deterministic fallback path.
func newOfflineService() *AnalysisService {
	return NewAnalysisService(
		sources.NewTwitterClient("", 2*time.Second),
		sources.NewYouTubeClient("", 2*time.Second),
		sources.NewWebFetcher(2*time.Second),
		gemini.NewClient("", "", 2*time.Second, nil),
		nil,
	)
}

func TestConfiguredNeedsBothSocialSources(t *testing.T) {
	assert.False(t, newOfflineService().Configured())

	s := NewAnalysisService(
		sources.NewTwitterClient("token", time.Second),
		sources.NewYouTubeClient("", time.Second),
		sources.NewWebFetcher(time.Second),
		gemini.NewClient("", "", time.Second, nil),
		nil,
	)
	assert.False(t, s.Configured())

	s = NewAnalysisService(
		sources.NewTwitterClient("token", time.Second),
		sources.NewYouTubeClient("key", time.Second),
		sources.NewWebFetcher(time.Second),
		gemini.NewClient("", "", time.Second, nil),
		nil,
	)
	assert.True(t, s.Configured())
}

func TestAlertsForVIPRequiresVIP(t *testing.T) {
	_, err := newOfflineService().AlertsForVIP(context.Background(), "")
	assert.Error(t, err)
}

func TestAnalyzeUploadAlwaysProducesAlert(t *testing.T) {
	alert := newOfflineService().AnalyzeUpload(context.Background(), "John Doe")

	assert.NotEmpty(t, alert.ID)
	assert.Equal(t, "Potential threat", alert.Title)
	assert.Equal(t, models.DefaultSeverity, alert.Severity)
	assert.Equal(t, models.DefaultType, alert.Type)
	assert.Equal(t, "John Doe", alert.VIPName)
	assert.Equal(t, "User Upload", alert.Source)
	assert.Equal(t, models.DefaultConfidence, alert.Confidence)
	assert.WithinDuration(t, time.Now().UTC(), alert.Timestamp, time.Minute)
}

func TestAnalyzeURLRequiresURL(t *testing.T) {
	_, err := newOfflineService().AnalyzeURL(context.Background(), "", "John Doe")
	assert.Error(t, err)
}

func TestAnalyzeURLWebBranchUsesPageMetadata(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`<html><head>
			<meta property="og:title" content="Exposed: shocking claims"/>
			<meta name="description" content="An article making claims about the VIP."/>
		</head></html>`))
	}))
	defer server.Close()

	alert, err := newOfflineService().AnalyzeURL(context.Background(), server.URL, "John Doe")
	require.NoError(t, err)

	// Fallback classification, enriched with the scraped page title.
	assert.Equal(t, "Exposed: shocking claims", alert.Title)
	assert.Contains(t, alert.Description, "An article making claims about the VIP.")
	assert.Equal(t, "Web", alert.Source)
	assert.Equal(t, "John Doe", alert.VIPName)
	assert.Equal(t, models.DefaultSeverity, alert.Severity)
	assert.NotEmpty(t, alert.ID)
}

func TestAnalyzeURLUnreachablePageStillProducesAlert(t *testing.T) {
	alert, err := newOfflineService().AnalyzeURL(context.Background(), "http://127.0.0.1:1/page", "John Doe")
	require.NoError(t, err)

	assert.NotEmpty(t, alert.ID)
	assert.Contains(t, alert.Description, "http://127.0.0.1:1/page")
	assert.Equal(t, models.DefaultType, alert.Type)
}

func TestParseSourceTime(t *testing.T) {
	ts := parseSourceTime("2025-05-01T10:00:00Z")
	assert.Equal(t, time.Date(2025, 5, 1, 10, 0, 0, 0, time.UTC), ts)

	assert.True(t, parseSourceTime("").IsZero())
	assert.True(t, parseSourceTime("yesterday").IsZero())
}
