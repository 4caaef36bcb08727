package sources

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// Tweet is the subset of the Twitter v2 payload the classifier needs.
type Tweet struct {
	ID        string `json:"id"`
	Text      string `json:"text"`
	AuthorID  string `json:"author_id"`
	CreatedAt string `json:"created_at"`
}

type twitterSearchResponse struct {
	Data []Tweet `json:"data"`
}

type twitterLookupResponse struct {
	Data Tweet `json:"data"`
}

// TwitterClient queries the Twitter/X recent search API.
type TwitterClient struct {
	bearer string
	client *http.Client
}

func NewTwitterClient(bearer string, timeout time.Duration) *TwitterClient {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &TwitterClient{
		bearer: bearer,
		client: &http.Client{Timeout: timeout},
	}
}

// Configured reports whether a bearer token is present.
func (c *TwitterClient) Configured() bool {
	return c.bearer != ""
}

// SearchMentions returns recent original tweets mentioning the target,
// excluding retweets and replies.
func (c *TwitterClient) SearchMentions(ctx context.Context, vip string) ([]Tweet, error) {
	handle := strings.ReplaceAll(vip, " ", "")
	params := url.Values{}
	params.Set("query", fmt.Sprintf("(%s OR @%s) -is:retweet -is:reply lang:en", vip, handle))
	params.Set("tweet.fields", "created_at,lang,author_id,public_metrics")

	var out twitterSearchResponse
	if err := c.get(ctx, "https://api.twitter.com/2/tweets/search/recent?"+params.Encode(), &out); err != nil {
		return nil, err
	}
	return out.Data, nil
}

// TweetByID looks up a single tweet.
func (c *TwitterClient) TweetByID(ctx context.Context, id string) (Tweet, error) {
	params := url.Values{}
	params.Set("tweet.fields", "created_at,lang,public_metrics,entities")

	var out twitterLookupResponse
	endpoint := fmt.Sprintf("https://api.twitter.com/2/tweets/%s?%s", url.PathEscape(id), params.Encode())
	if err := c.get(ctx, endpoint, &out); err != nil {
		return Tweet{}, err
	}
	return out.Data, nil
}

func (c *TwitterClient) get(ctx context.Context, endpoint string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.bearer)

	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("twitter request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("twitter API failed: status %d", resp.StatusCode)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode twitter response: %w", err)
	}
	return nil
}
