package sources

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestFetchContentExtractsOpenGraphMetadata(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`<html><head>
			<title>Plain Title</title>
			<meta property="og:title" content="Breaking: CEO scandal"/>
			<meta name="description" content="A fabricated story about the CEO."/>
			<meta property="og:image" content="https://cdn.example.com/img.jpg"/>
		</head><body></body></html>`))
	}))
	defer server.Close()

	f := NewWebFetcher(time.Second)
	page := f.FetchContent(context.Background(), server.URL)

	assert.Equal(t, "Breaking: CEO scandal", page.Title)
	assert.Contains(t, page.Text, "Breaking: CEO scandal")
	assert.Contains(t, page.Text, "A fabricated story about the CEO.")
	assert.Equal(t, "https://cdn.example.com/img.jpg", page.Image)
	assert.Equal(t, PlatformWeb, page.Platform)
}

func TestFetchContentFallsBackToTitleTag(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`<html><head><title>  Just a
			title  </title></head></html>`))
	}))
	defer server.Close()

	f := NewWebFetcher(time.Second)
	page := f.FetchContent(context.Background(), server.URL)

	assert.Equal(t, "Just a title", page.Title)
}

func TestFetchContentDegradesToURLOnFailure(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "gone", http.StatusNotFound)
	}))
	defer server.Close()

	f := NewWebFetcher(time.Second)
	page := f.FetchContent(context.Background(), server.URL)

	assert.Equal(t, server.URL, page.Text)
	assert.Equal(t, PlatformWeb, page.Platform)
}

func TestFetchContentUnreachableHost(t *testing.T) {
	f := NewWebFetcher(100 * time.Millisecond)
	page := f.FetchContent(context.Background(), "http://127.0.0.1:1/nothing")

	assert.Equal(t, "http://127.0.0.1:1/nothing", page.Text)
}
