package metadata

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	gobreaker "github.com/sony/gobreaker/v2"
	"github.com/templui/shelf/internal/metrics"
)

const (
	ProviderTMDb        = "tmdb"
	ProviderOpenLibrary = "open_library"
)

var (
	ErrNotConfigured = errors.New("metadata provider not configured")
	ErrNotFound      = errors.New("metadata not found")
)

// StatusError is returned for a non-2xx provider response.
type StatusError struct {
	Provider string
	Status   int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("%s responded with status %d", e.Provider, e.Status)
}

type Config struct {
	TMDbAPIKey           string
	TMDbBaseURL          string
	TMDbImageBase        string
	TMDbLanguage         string
	TMDbIncludeAdult     bool
	OpenLibraryBaseURL   string
	OpenLibraryCoverBase string
	Timeout              time.Duration
	BreakerFailures      int
	BreakerCooldown      time.Duration
}

// Client talks to TMDb and Open Library. Each provider sits behind its own
// circuit breaker so a dead provider fails fast instead of holding requests.
type Client struct {
	cfg         Config
	http        *http.Client
	tmdb        *gobreaker.CircuitBreaker[[]byte]
	openLibrary *gobreaker.CircuitBreaker[[]byte]
	metrics     metrics.Recorder
}

func New(cfg Config, rec metrics.Recorder) *Client {
	if cfg.Timeout <= 0 {
		cfg.Timeout = 5 * time.Second
	}
	if cfg.BreakerFailures <= 0 {
		cfg.BreakerFailures = 5
	}
	if cfg.BreakerCooldown <= 0 {
		cfg.BreakerCooldown = 30 * time.Second
	}
	if rec == nil {
		rec = metrics.Nop{}
	}

	return &Client{
		cfg:         cfg,
		http:        &http.Client{Timeout: cfg.Timeout},
		tmdb:        newBreaker(ProviderTMDb, cfg),
		openLibrary: newBreaker(ProviderOpenLibrary, cfg),
		metrics:     rec,
	}
}

func newBreaker(name string, cfg Config) *gobreaker.CircuitBreaker[[]byte] {
	failures := uint32(cfg.BreakerFailures)

	return gobreaker.NewCircuitBreaker[[]byte](gobreaker.Settings{
		Name:        name,
		MaxRequests: 1,
		Timeout:     cfg.BreakerCooldown,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= failures
		},
		// A missing title says nothing about provider health
		IsSuccessful: func(err error) bool {
			return err == nil || errors.Is(err, ErrNotFound)
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			slog.Warn("metadata circuit breaker state change",
				"provider", name,
				"from", from.String(),
				"to", to.String(),
			)
		},
	})
}

// get fetches endpoint through the provider's breaker and returns the body.
func (c *Client) get(ctx context.Context, provider string, cb *gobreaker.CircuitBreaker[[]byte], endpoint string) ([]byte, error) {
	start := time.Now()

	body, err := cb.Execute(func() ([]byte, error) {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
		if err != nil {
			return nil, err
		}
		req.Header.Set("Accept", "application/json")

		resp, err := c.http.Do(req)
		if err != nil {
			return nil, err
		}
		defer func() { _ = resp.Body.Close() }()

		if resp.StatusCode == http.StatusNotFound {
			return nil, ErrNotFound
		}
		if resp.StatusCode < 200 || resp.StatusCode > 299 {
			return nil, &StatusError{Provider: provider, Status: resp.StatusCode}
		}

		return io.ReadAll(io.LimitReader(resp.Body, 4<<20))
	})

	c.metrics.RecordMetadataFetch(provider, outcome(err), time.Since(start))
	return body, err
}

func outcome(err error) string {
	switch {
	case err == nil:
		return "success"
	case errors.Is(err, ErrNotFound):
		return "not_found"
	case errors.Is(err, gobreaker.ErrOpenState), errors.Is(err, gobreaker.ErrTooManyRequests):
		return "rejected"
	default:
		return "error"
	}
}

func buildURL(base, path string, params url.Values) string {
	return strings.TrimSuffix(base, "/") + path + "?" + params.Encode()
}
