package dataset

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"
)

const (
	// cacheBusterParam carries a millisecond timestamp on remote loads so
	// intermediate caches never serve a stale document.
	cacheBusterParam = "t"

	defaultHTTPTimeout = 30 * time.Second
)

// Source reads the dataset document from a local file or an HTTP(S) URL.
// Every Load fetches and validates the document from scratch; the dashboard
// reloads per request, so edits to the document show up without a restart.
type Source struct {
	location string
	remote   bool
	client   *http.Client
	now      func() time.Time
}

// Snapshot is one validated read of the dataset document.
type Snapshot struct {
	Data      *Dataset
	FetchedAt time.Time
}

// Option configures a Source.
type Option func(*Source)

// WithTimeout sets the HTTP timeout for remote loads. Non-positive values
// keep the default.
func WithTimeout(d time.Duration) Option {
	return func(s *Source) {
		if d > 0 {
			s.client.Timeout = d
		}
	}
}

// NewSource returns a Source for location. Locations starting with http://
// or https:// are fetched over the network; everything else is treated as a
// file path.
func NewSource(location string, opts ...Option) *Source {
	s := &Source{
		location: location,
		remote:   strings.HasPrefix(location, "http://") || strings.HasPrefix(location, "https://"),
		client:   &http.Client{Timeout: defaultHTTPTimeout},
		now:      time.Now,
	}

	for _, opt := range opts {
		opt(s)
	}

	return s
}

// Location returns the configured document location.
func (s *Source) Location() string {
	return s.location
}

// Remote reports whether the location is fetched over HTTP.
func (s *Source) Remote() bool {
	return s.remote
}

// Load reads, validates and decodes the document. Failures carry
// ErrUnavailable or ErrEmpty in their chain.
func (s *Source) Load(ctx context.Context) (*Snapshot, error) {
	raw, err := s.read(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: read %s: %w", ErrUnavailable, s.location, err)
	}

	ds, err := Parse(raw)
	if err != nil {
		return nil, err
	}

	return &Snapshot{Data: ds, FetchedAt: s.now()}, nil
}

func (s *Source) read(ctx context.Context) ([]byte, error) {
	if s.remote {
		return s.fetch(ctx)
	}

	return os.ReadFile(s.location)
}

func (s *Source) fetch(ctx context.Context) ([]byte, error) {
	u, err := url.Parse(s.location)
	if err != nil {
		return nil, fmt.Errorf("parse url: %w", err)
	}

	query := u.Query()
	query.Set(cacheBusterParam, strconv.FormatInt(s.now().UnixMilli(), 10))
	u.RawQuery = query.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}

	req.Header.Set("Cache-Control", "no-cache")

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("fetch: unexpected status %s", resp.Status)
	}

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}

	return raw, nil
}
