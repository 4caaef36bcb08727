package sources

import (
	"context"
	"fmt"
	"html"
	"io"
	"net/http"
	"regexp"
	"strings"
	"time"
)

// PageContent is what a generic web page yields for classification.
type PageContent struct {
	Title    string
	Text     string
	Image    string
	Platform string
}

// WebFetcher scrapes title/description metadata from arbitrary pages.
type WebFetcher struct {
	client *http.Client
}

func NewWebFetcher(timeout time.Duration) *WebFetcher {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &WebFetcher{client: &http.Client{Timeout: timeout}}
}

var (
	ogTitleRe     = regexp.MustCompile(`(?i)<meta[^>]+property=["']og:title["'][^>]+content=["']([^"']*)["']`)
	ogDescRe      = regexp.MustCompile(`(?i)<meta[^>]+property=["']og:description["'][^>]+content=["']([^"']*)["']`)
	ogImageRe     = regexp.MustCompile(`(?i)<meta[^>]+property=["']og:image["'][^>]+content=["']([^"']*)["']`)
	metaDescRe    = regexp.MustCompile(`(?i)<meta[^>]+name=["']description["'][^>]+content=["']([^"']*)["']`)
	titleTagRe    = regexp.MustCompile(`(?is)<title[^>]*>(.*?)</title>`)
	whitespaceRe  = regexp.MustCompile(`\s+`)
	maxScrapeSize = int64(512 * 1024)
)

// FetchContent downloads a page and extracts OpenGraph/title metadata.
// Failures degrade to the raw URL as content so classification can
// still run.
func (f *WebFetcher) FetchContent(ctx context.Context, pageURL string) PageContent {
	fallback := PageContent{Text: pageURL, Platform: ParseURL(pageURL).Platform}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, pageURL, nil)
	if err != nil {
		return fallback
	}
	req.Header.Set("User-Agent", "Mozilla/5.0 AuraShieldBot")

	resp, err := f.client.Do(req)
	if err != nil {
		return fallback
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fallback
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxScrapeSize))
	if err != nil {
		return fallback
	}
	page := string(body)

	title := firstMatch(ogTitleRe, page)
	if title == "" {
		title = firstMatch(titleTagRe, page)
	}
	desc := firstMatch(metaDescRe, page)
	if desc == "" {
		desc = firstMatch(ogDescRe, page)
	}

	text := strings.TrimSpace(fmt.Sprintf("%s\n%s", title, desc))
	if text == "" {
		text = pageURL
	}

	return PageContent{
		Title:    title,
		Text:     text,
		Image:    firstMatch(ogImageRe, page),
		Platform: fallback.Platform,
	}
}

func firstMatch(re *regexp.Regexp, page string) string {
	m := re.FindStringSubmatch(page)
	if m == nil {
		return ""
	}
	clean := html.UnescapeString(m[1])
	return strings.TrimSpace(whitespaceRe.ReplaceAllString(clean, " "))
}
