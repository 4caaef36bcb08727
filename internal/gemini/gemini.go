package gemini

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"regexp"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/aurashield/aurashield/internal/models"
)

// AnalysisInput is the content handed to the classifier.
type AnalysisInput struct {
	Text     string
	VIPName  string
	Platform string
}

// Classification is the structured result of an LLM content analysis.
// Severity and Type are always members of their closed sets and
// Confidence is clamped; callers can use a Classification without
// re-validating it.
type Classification struct {
	Platform    string  `json:"platform"`
	Type        string  `json:"type"`
	Title       string  `json:"title"`
	Description string  `json:"description"`
	Severity    string  `json:"severity"`
	VIPName     string  `json:"vipName"`
	Source      string  `json:"source"`
	Confidence  float64 `json:"confidence"`
}

// Client calls the Gemini generateContent API and coerces its output
// into a Classification.
type Client struct {
	apiKey string
	model  string
	client *http.Client
	log    *zap.SugaredLogger
}

func NewClient(apiKey, model string, timeout time.Duration, log *zap.SugaredLogger) *Client {
	if log == nil {
		log = zap.NewNop().Sugar()
	}
	if model == "" {
		model = "gemini-2.0-flash"
	}
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	return &Client{
		apiKey: apiKey,
		model:  model,
		client: &http.Client{Timeout: timeout},
		log:    log,
	}
}

// Configured reports whether an API key is present.
func (c *Client) Configured() bool {
	return c.apiKey != ""
}

const classifyPrompt = "You are Aura Shield's security analyst. Classify the following content " +
	"and return ONLY compact JSON with keys: platform, type, title, description, severity, " +
	"vipName, source, confidence (0..1). Keep title/description concise."

type generateRequest struct {
	Contents         []content        `json:"contents"`
	GenerationConfig generationConfig `json:"generationConfig"`
}

type content struct {
	Parts []part `json:"parts"`
}

type part struct {
	Text string `json:"text"`
}

type generationConfig struct {
	Temperature     float64 `json:"temperature"`
	MaxOutputTokens int     `json:"maxOutputTokens"`
}

type generateResponse struct {
	Candidates []struct {
		Content struct {
			Parts []struct {
				Text string `json:"text"`
			} `json:"parts"`
		} `json:"content"`
	} `json:"candidates"`
}

var jsonObjectRe = regexp.MustCompile(`(?s)\{.*\}`)

// Analyze classifies the given content. The model is asked for compact
// JSON; the first JSON object in its reply is parsed and every field is
// coerced into its closed set.
func (c *Client) Analyze(ctx context.Context, input AnalysisInput) (Classification, error) {
	if c.apiKey == "" {
		return Classification{}, fmt.Errorf("GEMINI_API_KEY missing")
	}

	reqBody := generateRequest{
		Contents: []content{{Parts: []part{
			{Text: classifyPrompt + "\n\nContent:"},
			{Text: input.Text},
		}}},
		GenerationConfig: generationConfig{Temperature: 0.2, MaxOutputTokens: 512},
	}

	payload, err := json.Marshal(reqBody)
	if err != nil {
		return Classification{}, fmt.Errorf("failed to encode request: %w", err)
	}

	endpoint := fmt.Sprintf(
		"https://generativelanguage.googleapis.com/v1beta/models/%s:generateContent?key=%s",
		c.model, c.apiKey,
	)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(payload))
	if err != nil {
		return Classification{}, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return Classification{}, fmt.Errorf("gemini request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return Classification{}, fmt.Errorf("gemini request failed: status %d", resp.StatusCode)
	}

	var decoded generateResponse
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		return Classification{}, fmt.Errorf("failed to decode gemini response: %w", err)
	}

	text := ""
	if len(decoded.Candidates) > 0 && len(decoded.Candidates[0].Content.Parts) > 0 {
		text = decoded.Candidates[0].Content.Parts[0].Text
	}
	if text == "" {
		return Classification{}, fmt.Errorf("no content from gemini")
	}

	return ParseClassification(text, input)
}

// ParseClassification extracts the JSON object from a model reply and
// coerces it into a valid Classification.
func ParseClassification(text string, input AnalysisInput) (Classification, error) {
	raw := text
	if m := jsonObjectRe.FindString(text); m != "" {
		raw = m
	}

	// Confidence decodes through a pointer so an explicit 0 from the
	// model is kept and only an absent field takes the default.
	var wire struct {
		Platform    string   `json:"platform"`
		Type        string   `json:"type"`
		Title       string   `json:"title"`
		Description string   `json:"description"`
		Severity    string   `json:"severity"`
		VIPName     string   `json:"vipName"`
		Source      string   `json:"source"`
		Confidence  *float64 `json:"confidence"`
	}
	if err := json.Unmarshal([]byte(raw), &wire); err != nil {
		return Classification{}, fmt.Errorf("failed to parse classification: %w", err)
	}

	parsed := Classification{
		Platform:    wire.Platform,
		Type:        wire.Type,
		Title:       wire.Title,
		Description: wire.Description,
		Severity:    wire.Severity,
		VIPName:     wire.VIPName,
		Source:      wire.Source,
		Confidence:  models.DefaultConfidence,
	}
	if wire.Confidence != nil {
		parsed.Confidence = *wire.Confidence
	}

	if parsed.Platform == "" {
		parsed.Platform = input.Platform
	}
	parsed.Type = NormalizeType(parsed.Type)
	if parsed.Title == "" {
		parsed.Title = "New threat detected"
	}
	if parsed.Description == "" {
		parsed.Description = "Potential VIP-related threat identified."
	}
	parsed.Severity = NormalizeSeverity(parsed.Severity)
	if parsed.VIPName == "" {
		parsed.VIPName = input.VIPName
	}
	if parsed.Source == "" {
		parsed.Source = parsed.Platform
	}
	parsed.Confidence = models.ClampConfidence(parsed.Confidence)

	return parsed, nil
}

// Fallback builds the deterministic classification used when the model
// is unavailable or returns garbage. The user's action is never lost
// to a failed analysis.
func Fallback(input AnalysisInput) Classification {
	return Classification{
		Platform:    input.Platform,
		Type:        models.DefaultType,
		Title:       "Potential threat",
		Description: input.Text,
		Severity:    models.DefaultSeverity,
		VIPName:     input.VIPName,
		Source:      input.Platform,
		Confidence:  models.DefaultConfidence,
	}
}

// NormalizeType maps free-form model output onto the closed type set.
func NormalizeType(t string) string {
	s := strings.ToLower(t)
	switch {
	case strings.Contains(s, "deepfake"):
		return models.TypeDeepfake
	case strings.Contains(s, "brand"):
		return models.TypeBrandImpersonation
	case strings.Contains(s, "imperson"):
		return models.TypeImpersonation
	case strings.Contains(s, "media") && strings.Contains(s, "reuse"):
		return models.TypeMediaReuse
	case strings.Contains(s, "misinfo") || strings.Contains(s, "fake news"):
		return models.TypeMisinformation
	case strings.Contains(s, "coord"):
		return models.TypeCoordination
	default:
		return models.TypeThreat
	}
}

// NormalizeSeverity maps free-form model output onto the closed
// severity set; anything unrecognized is medium.
func NormalizeSeverity(s string) string {
	switch {
	case strings.HasPrefix(strings.ToLower(s), "h"):
		return models.SeverityHigh
	case strings.HasPrefix(strings.ToLower(s), "l"):
		return models.SeverityLow
	default:
		return models.SeverityMedium
	}
}
