package sources

import (
	"net/url"
	"regexp"
	"strings"
)

// Platform labels for analyzed URLs.
const (
	PlatformTwitter = "Twitter"
	PlatformYouTube = "YouTube"
	PlatformWeb     = "Web"
)

// ParsedURL is the result of platform detection on a submitted URL.
type ParsedURL struct {
	Platform string
	TweetID  string
	VideoID  string
}

var tweetStatusRe = regexp.MustCompile(`status/(\d+)`)

// ParseURL detects the platform behind a URL and extracts the post or
// video id when one is present. Unparseable input is treated as a
// generic web page.
func ParseURL(rawURL string) ParsedURL {
	u, err := url.Parse(rawURL)
	if err != nil || u.Host == "" {
		return ParsedURL{Platform: PlatformWeb}
	}
	host := strings.ToLower(u.Hostname())

	if strings.Contains(host, "twitter.com") || strings.Contains(host, "x.com") {
		if m := tweetStatusRe.FindStringSubmatch(u.Path); m != nil {
			return ParsedURL{Platform: PlatformTwitter, TweetID: m[1]}
		}
		return ParsedURL{Platform: PlatformTwitter}
	}

	if strings.Contains(host, "youtube.com") || strings.Contains(host, "youtu.be") {
		var id string
		if strings.Contains(host, "youtu.be") {
			id = strings.TrimPrefix(u.Path, "/")
		} else {
			id = u.Query().Get("v")
		}
		if id != "" {
			return ParsedURL{Platform: PlatformYouTube, VideoID: id}
		}
		return ParsedURL{Platform: PlatformYouTube}
	}

	return ParsedURL{Platform: PlatformWeb}
}
