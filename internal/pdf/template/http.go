package template

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
)

// HTTPSource downloads the template from a web origin. The request URL is
// Origin, then BasePath (for sites hosted under a sub-path), then Asset.
type HTTPSource struct {
	Origin   string
	BasePath string
	Asset    string
	MaxSize  int64
	Client   *http.Client
}

// NewHTTPSource returns an HTTPSource with the default client and size limit.
// The client sets no timeout; the ctx passed to Fetch bounds the request.
func NewHTTPSource(origin, basePath, asset string) *HTTPSource {
	return &HTTPSource{
		Origin:   origin,
		BasePath: basePath,
		Asset:    asset,
		MaxSize:  DefaultMaxSize,
		Client:   &http.Client{},
	}
}

// URL is the address Fetch requests.
func (s *HTTPSource) URL() string {
	return JoinURL(s.Origin, s.BasePath, s.Asset)
}

func (s *HTTPSource) Name() string { return s.URL() }

func (s *HTTPSource) Fetch(ctx context.Context) ([]byte, error) {
	name := s.URL()
	if _, err := url.ParseRequestURI(name); err != nil {
		return nil, unavailable(name, fmt.Errorf("invalid template URL: %w", err))
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, name, nil)
	if err != nil {
		return nil, unavailable(name, err)
	}

	client := s.Client
	if client == nil {
		client = http.DefaultClient
	}
	resp, err := client.Do(req)
	if err != nil {
		return nil, unavailable(name, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, unavailable(name, fmt.Errorf("unexpected status %s", resp.Status))
	}

	body := io.Reader(resp.Body)
	if s.MaxSize > 0 {
		// one extra byte so an oversized body is detected rather than truncated
		body = io.LimitReader(resp.Body, s.MaxSize+1)
	}
	b, err := io.ReadAll(body)
	if err != nil {
		return nil, unavailable(name, err)
	}
	if err := Check(b, s.MaxSize); err != nil {
		return nil, malformed(name, err)
	}
	return b, nil
}

// JoinURL concatenates an origin, an optional base path and an asset name
// with exactly one slash between non-empty parts.
func JoinURL(origin, basePath, asset string) string {
	parts := []string{strings.TrimRight(origin, "/")}
	if p := strings.Trim(basePath, "/"); p != "" {
		parts = append(parts, p)
	}
	if a := strings.TrimLeft(asset, "/"); a != "" {
		parts = append(parts, a)
	}
	return strings.Join(parts, "/")
}
