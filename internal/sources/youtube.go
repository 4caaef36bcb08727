package sources

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"
)

// Video is the subset of the YouTube Data API payload the classifier
// needs. Search results nest the video id; direct lookups do not.
type Video struct {
	ID      VideoID `json:"id"`
	Snippet Snippet `json:"snippet"`
}

type VideoID struct {
	VideoID string `json:"videoId"`
}

type Snippet struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	PublishedAt string `json:"publishedAt"`
}

type youtubeSearchResponse struct {
	Items []Video `json:"items"`
}

type youtubeVideosResponse struct {
	Items []struct {
		ID      string  `json:"id"`
		Snippet Snippet `json:"snippet"`
	} `json:"items"`
}

// YouTubeClient queries the YouTube Data API v3.
type YouTubeClient struct {
	apiKey string
	client *http.Client
}

func NewYouTubeClient(apiKey string, timeout time.Duration) *YouTubeClient {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &YouTubeClient{
		apiKey: apiKey,
		client: &http.Client{Timeout: timeout},
	}
}

// Configured reports whether an API key is present.
func (c *YouTubeClient) Configured() bool {
	return c.apiKey != ""
}

// SearchMentions returns recent videos mentioning the target.
func (c *YouTubeClient) SearchMentions(ctx context.Context, vip string) ([]Video, error) {
	params := url.Values{}
	params.Set("part", "snippet")
	params.Set("q", vip)
	params.Set("type", "video")
	params.Set("maxResults", "10")
	params.Set("key", c.apiKey)

	var out youtubeSearchResponse
	if err := c.get(ctx, "https://www.googleapis.com/youtube/v3/search?"+params.Encode(), &out); err != nil {
		return nil, err
	}
	return out.Items, nil
}

// VideoByID looks up a single video's snippet.
func (c *YouTubeClient) VideoByID(ctx context.Context, id string) (Video, error) {
	params := url.Values{}
	params.Set("part", "snippet")
	params.Set("id", id)
	params.Set("key", c.apiKey)

	var out youtubeVideosResponse
	if err := c.get(ctx, "https://www.googleapis.com/youtube/v3/videos?"+params.Encode(), &out); err != nil {
		return Video{}, err
	}
	if len(out.Items) == 0 {
		return Video{}, fmt.Errorf("video not found: %s", id)
	}
	item := out.Items[0]
	return Video{ID: VideoID{VideoID: item.ID}, Snippet: item.Snippet}, nil
}

func (c *YouTubeClient) get(ctx context.Context, endpoint string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("youtube request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("youtube API failed: status %d", resp.StatusCode)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode youtube response: %w", err)
	}
	return nil
}
