package service

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/aurashield/aurashield/internal/gemini"
	"github.com/aurashield/aurashield/internal/models"
	"github.com/aurashield/aurashield/internal/sources"
)

// AnalysisService turns third-party content into classified alerts.
// It owns the server side of the pipeline: fetch mentions, run the
// LLM classifier with a deterministic fallback, normalize.
type AnalysisService struct {
	twitter  *sources.TwitterClient
	youtube  *sources.YouTubeClient
	web      *sources.WebFetcher
	analyzer *gemini.Client
	log      *zap.SugaredLogger
}

func NewAnalysisService(twitter *sources.TwitterClient, youtube *sources.YouTubeClient, web *sources.WebFetcher, analyzer *gemini.Client, log *zap.SugaredLogger) *AnalysisService {
	if log == nil {
		log = zap.NewNop().Sugar()
	}
	return &AnalysisService{
		twitter:  twitter,
		youtube:  youtube,
		web:      web,
		analyzer: analyzer,
		log:      log,
	}
}

// Configured reports whether both social sources have credentials.
func (s *AnalysisService) Configured() bool {
	return s.twitter.Configured() && s.youtube.Configured()
}

// AlertsForVIP fetches Twitter and YouTube mentions concurrently,
// classifies each one and returns the combined list sorted
// newest-first. A failed source contributes nothing instead of
// failing the call.
func (s *AnalysisService) AlertsForVIP(ctx context.Context, vip string) ([]models.Alert, error) {
	if vip == "" {
		return nil, fmt.Errorf("vip is required")
	}

	var (
		wg     sync.WaitGroup
		tweets []sources.Tweet
		videos []sources.Video
	)

	wg.Add(2)
	go func() {
		defer wg.Done()
		var err error
		tweets, err = s.twitter.SearchMentions(ctx, vip)
		if err != nil {
			s.log.Warnw("Twitter fetch failed", "vip", vip, "error", err)
		}
	}()
	go func() {
		defer wg.Done()
		var err error
		videos, err = s.youtube.SearchMentions(ctx, vip)
		if err != nil {
			s.log.Warnw("YouTube fetch failed", "vip", vip, "error", err)
		}
	}()
	wg.Wait()

	alerts := make([]models.Alert, 0, len(tweets)+len(videos))
	for _, t := range tweets {
		alerts = append(alerts, s.tweetToAlert(ctx, t, vip))
	}
	for _, v := range videos {
		alerts = append(alerts, s.videoToAlert(ctx, v, vip))
	}

	sort.SliceStable(alerts, func(i, j int) bool {
		return alerts[i].Timestamp.After(alerts[j].Timestamp)
	})

	return alerts, nil
}

// AnalyzeUpload classifies user-uploaded evidence. Classification
// failure still yields a best-effort alert so the upload is not lost.
func (s *AnalysisService) AnalyzeUpload(ctx context.Context, vip string) models.Alert {
	input := gemini.AnalysisInput{
		Text:     "User-uploaded evidence",
		VIPName:  vip,
		Platform: "User Upload",
	}
	analysis := s.classify(ctx, input)

	return models.Alert{
		ID:          uuid.NewString(),
		Title:       analysis.Title,
		Description: analysis.Description,
		Severity:    analysis.Severity,
		VIPName:     analysis.VIPName,
		Source:      analysis.Source,
		Timestamp:   time.Now().UTC(),
		Confidence:  analysis.Confidence,
		Type:        analysis.Type,
	}.Normalize(vip)
}

// AnalyzeURL classifies the content behind a URL. The lookup branch
// differs by platform but the returned contract is identical.
func (s *AnalysisService) AnalyzeURL(ctx context.Context, rawURL, vip string) (models.Alert, error) {
	if rawURL == "" {
		return models.Alert{}, fmt.Errorf("url is required")
	}

	parsed := sources.ParseURL(rawURL)

	switch {
	case parsed.Platform == sources.PlatformTwitter && parsed.TweetID != "" && s.twitter.Configured():
		text := rawURL
		timestamp := time.Time{}
		if tweet, err := s.twitter.TweetByID(ctx, parsed.TweetID); err == nil {
			if tweet.Text != "" {
				text = tweet.Text
			}
			timestamp = parseSourceTime(tweet.CreatedAt)
		} else {
			s.log.Warnw("Tweet lookup failed", "id", parsed.TweetID, "error", err)
		}
		analysis := s.classify(ctx, gemini.AnalysisInput{Text: text, VIPName: vip, Platform: sources.PlatformTwitter})
		return s.buildAlert(parsed.TweetID, analysis, vip, sources.PlatformTwitter, timestamp), nil

	case parsed.Platform == sources.PlatformYouTube && parsed.VideoID != "" && s.youtube.Configured():
		text := rawURL
		timestamp := time.Time{}
		if video, err := s.youtube.VideoByID(ctx, parsed.VideoID); err == nil {
			combined := strings.TrimSpace(video.Snippet.Title + "\n" + video.Snippet.Description)
			if combined != "" {
				text = combined
			}
			timestamp = parseSourceTime(video.Snippet.PublishedAt)
		} else {
			s.log.Warnw("Video lookup failed", "id", parsed.VideoID, "error", err)
		}
		analysis := s.classify(ctx, gemini.AnalysisInput{Text: text, VIPName: vip, Platform: sources.PlatformYouTube})
		return s.buildAlert(parsed.VideoID, analysis, vip, sources.PlatformYouTube, timestamp), nil

	default:
		page := s.web.FetchContent(ctx, rawURL)
		analysis := s.classify(ctx, gemini.AnalysisInput{Text: page.Text, VIPName: vip, Platform: page.Platform})
		if analysis.Title == "Potential threat" && page.Title != "" {
			analysis.Title = page.Title
		}
		return s.buildAlert("", analysis, vip, page.Platform, time.Time{}), nil
	}
}

// classify runs the LLM analysis, substituting the deterministic
// fallback when the model is unreachable or returns garbage.
func (s *AnalysisService) classify(ctx context.Context, input gemini.AnalysisInput) gemini.Classification {
	analysis, err := s.analyzer.Analyze(ctx, input)
	if err != nil {
		s.log.Warnw("Classification failed, using fallback", "platform", input.Platform, "error", err)
		return gemini.Fallback(input)
	}
	return analysis
}

func (s *AnalysisService) buildAlert(id string, analysis gemini.Classification, vip, platform string, timestamp time.Time) models.Alert {
	if id == "" {
		id = uuid.NewString()
	}
	if timestamp.IsZero() {
		timestamp = time.Now().UTC()
	}
	return models.Alert{
		ID:          id,
		Title:       analysis.Title,
		Description: analysis.Description,
		Severity:    analysis.Severity,
		VIPName:     analysis.VIPName,
		Source:      platform,
		Timestamp:   timestamp,
		Confidence:  analysis.Confidence,
		Type:        analysis.Type,
	}.Normalize(vip)
}

func (s *AnalysisService) tweetToAlert(ctx context.Context, t sources.Tweet, vip string) models.Alert {
	analysis := s.classify(ctx, gemini.AnalysisInput{Text: t.Text, VIPName: vip, Platform: sources.PlatformTwitter})
	if analysis.Description == "" {
		analysis.Description = t.Text
	}
	return s.buildAlert(t.ID, analysis, vip, sources.PlatformTwitter, parseSourceTime(t.CreatedAt))
}

func (s *AnalysisService) videoToAlert(ctx context.Context, v sources.Video, vip string) models.Alert {
	text := strings.TrimSpace(v.Snippet.Title + "\n" + v.Snippet.Description)
	analysis := s.classify(ctx, gemini.AnalysisInput{Text: text, VIPName: vip, Platform: sources.PlatformYouTube})
	if analysis.Title == "Potential threat" && v.Snippet.Title != "" {
		analysis.Title = v.Snippet.Title
	}
	return s.buildAlert(v.ID.VideoID, analysis, vip, sources.PlatformYouTube, parseSourceTime(v.Snippet.PublishedAt))
}

func parseSourceTime(s string) time.Time {
	if s == "" {
		return time.Time{}
	}
	for _, layout := range []string{time.RFC3339Nano, time.RFC3339} {
		if ts, err := time.Parse(layout, s); err == nil {
			return ts
		}
	}
	return time.Time{}
}
