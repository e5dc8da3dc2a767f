// Package cover resolves cover image URLs from the Open Library covers API.
package cover

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/tidwall/gjson"
	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"

	"github.com/xiebiao/booknotes/pkg/circuitbreaker"
	"github.com/xiebiao/booknotes/pkg/metrics"
	"github.com/xiebiao/booknotes/pkg/tracing"
)

const (
	breakerName = "openlibrary-covers"
	tracerName  = "booknotes/cover"

	// maxBody caps the metadata document read from the API
	maxBody = 64 << 10
)

// Config resolver settings
type Config struct {
	BaseURL         string        // e.g. https://covers.openlibrary.org
	Timeout         time.Duration // per lookup
	BreakerFailures uint32        // consecutive failures that open the breaker
	BreakerTimeout  time.Duration // how long the breaker stays open
}

// Resolver implements book.CoverResolver.
// GET {base}/b/isbn/{isbn}.json answers with metadata whose source_url is
// the image. A 404 is "no cover"; other failures count against the breaker.
type Resolver struct {
	baseURL string
	client  *http.Client
	breaker *circuitbreaker.CircuitBreaker
	logger  *zap.Logger
}

// NewResolver creates a cover resolver
func NewResolver(cfg Config, logger *zap.Logger) *Resolver {
	if logger == nil {
		logger = zap.NewNop()
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 3 * time.Second
	}
	failures := cfg.BreakerFailures
	if failures == 0 {
		failures = 5
	}

	cb := circuitbreaker.NewCircuitBreaker(breakerName, circuitbreaker.Config{
		MaxRequests: 1,
		Timeout:     cfg.BreakerTimeout,
		ReadyToTrip: circuitbreaker.ConsecutiveFailures(failures),
	})
	log := logger.Named("cover")
	cb.SetStateChangeCallback(func(name string, from, to circuitbreaker.State) {
		metrics.SetBreakerState(name, int(to))
		log.Warn("circuit breaker state changed",
			zap.String("breaker", name),
			zap.Stringer("from", from),
			zap.Stringer("to", to))
	})

	return &Resolver{
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
		client:  &http.Client{Timeout: timeout},
		breaker: cb,
		logger:  log,
	}
}

// Resolve returns the cover URL for isbn, or "" when there is none.
func (r *Resolver) Resolve(ctx context.Context, isbn string) (string, error) {
	isbn = strings.TrimSpace(isbn)
	if isbn == "" {
		return "", nil
	}

	ctx, span := tracing.StartSpan(ctx, tracerName, "cover.Resolve")
	defer span.End()
	span.SetAttributes(attribute.String("isbn", isbn))

	start := time.Now()
	var coverURL string
	err := r.breaker.Execute(func() error {
		var err error
		coverURL, err = r.fetch(ctx, isbn)
		return err
	})

	switch {
	case errors.Is(err, circuitbreaker.ErrOpenState):
		metrics.IncBreakerRequest(breakerName, "rejected")
		metrics.ObserveCoverLookup("rejected", -1)
		return "", err
	case err != nil:
		metrics.IncBreakerRequest(breakerName, "failure")
		metrics.ObserveCoverLookup("error", time.Since(start))
		tracing.RecordError(span, err)
		return "", err
	}

	metrics.IncBreakerRequest(breakerName, "success")
	result := "found"
	if coverURL == "" {
		result = "none"
	}
	metrics.ObserveCoverLookup(result, time.Since(start))
	r.logger.Debug("cover resolved", zap.String("isbn", isbn), zap.String("result", result))
	return coverURL, nil
}

// fetch performs one lookup. Not-found is a successful empty answer.
func (r *Resolver) fetch(ctx context.Context, isbn string) (string, error) {
	endpoint := fmt.Sprintf("%s/b/isbn/%s.json", r.baseURL, url.PathEscape(isbn))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return "", fmt.Errorf("build cover request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := r.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("cover lookup: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return "", nil
	}
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("cover lookup: unexpected status %d", resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBody))
	if err != nil {
		return "", fmt.Errorf("read cover response: %w", err)
	}
	if !gjson.ValidBytes(body) {
		return "", fmt.Errorf("cover lookup: malformed response")
	}

	source := gjson.GetBytes(body, "source_url")
	if !source.Exists() || source.Type != gjson.String {
		return "", nil
	}
	return strings.TrimSpace(source.String()), nil
}

// BreakerState exposes the breaker state
func (r *Resolver) BreakerState() circuitbreaker.State {
	return r.breaker.State()
}

// Ping fails while the breaker is open; the health server reports it
// without failing the service
func (r *Resolver) Ping(context.Context) error {
	if r.BreakerState() == circuitbreaker.StateOpen {
		return circuitbreaker.ErrOpenState
	}
	return nil
}
