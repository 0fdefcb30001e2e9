// Package aliastable loads university alias tables from files, HTTP
// endpoints or the table embedded in the binary, with an optional Redis
// cache in front of the source.
package aliastable

import (
	"context"
	_ "embed"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"time"
)

//go:embed aliases.json
var embeddedTable []byte

const (
	defaultHTTPTimeout = 10 * time.Second
	maxPayloadBytes    = 4 << 20
)

// Source fetches a raw alias table payload.
type Source interface {
	// Name identifies the source in logs, metrics and cache keys.
	Name() string
	Fetch(ctx context.Context) ([]byte, error)
}

// EmbeddedSource serves the default table shipped with the binary.
type EmbeddedSource struct{}

// Name implements Source.
func (EmbeddedSource) Name() string { return "embedded" }

// Fetch implements Source.
func (EmbeddedSource) Fetch(context.Context) ([]byte, error) {
	out := make([]byte, len(embeddedTable))
	copy(out, embeddedTable)
	return out, nil
}

// FileSource reads the table from a local JSON file.
type FileSource struct {
	Path string
}

// Name implements Source.
func (s FileSource) Name() string { return "file:" + s.Path }

// Fetch implements Source.
func (s FileSource) Fetch(ctx context.Context) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	data, err := os.ReadFile(s.Path)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrSourceUnavailable, err)
	}
	return data, nil
}

// HTTPSource downloads the table from a URL.
type HTTPSource struct {
	URL    string
	Client *http.Client
}

// NewHTTPSource returns an HTTPSource with a bounded client timeout.
func NewHTTPSource(url string, timeout time.Duration) HTTPSource {
	if timeout <= 0 {
		timeout = defaultHTTPTimeout
	}
	return HTTPSource{URL: url, Client: &http.Client{Timeout: timeout}}
}

// Name implements Source.
func (s HTTPSource) Name() string { return s.URL }

// Fetch implements Source.
func (s HTTPSource) Fetch(ctx context.Context) ([]byte, error) {
	client := s.Client
	if client == nil {
		client = &http.Client{Timeout: defaultHTTPTimeout}
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.URL, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrSourceUnavailable, err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrSourceUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: %s returned %d", ErrSourceUnavailable, s.URL, resp.StatusCode)
	}
	data, err := io.ReadAll(io.LimitReader(resp.Body, maxPayloadBytes))
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrSourceUnavailable, err)
	}
	return data, nil
}

// ParseSource maps a configured location to a Source: "embedded" (or
// empty), an http(s) URL, or a file path with an optional "file:" prefix.
func ParseSource(location string, timeout time.Duration) (Source, error) {
	loc := strings.TrimSpace(location)
	switch {
	case loc == "" || loc == "embedded":
		return EmbeddedSource{}, nil
	case strings.HasPrefix(loc, "http://"), strings.HasPrefix(loc, "https://"):
		return NewHTTPSource(loc, timeout), nil
	case strings.HasPrefix(loc, "file:"):
		return FileSource{Path: strings.TrimPrefix(loc, "file:")}, nil
	case strings.Contains(loc, "://"):
		return nil, fmt.Errorf("%w: %s", ErrUnknownSource, loc)
	default:
		return FileSource{Path: loc}, nil
	}
}
