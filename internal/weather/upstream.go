package weather

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/sony/gobreaker"
	"golang.org/x/sync/singleflight"
	"golang.org/x/time/rate"

	"github.com/neexbeast/trekmate/internal/metrics"
)

const (
	httpTimeout     = 10 * time.Second
	maxResponseSize = 4 << 20
)

// newHTTPClient returns an http.Client with a 10-second timeout.
func newHTTPClient() *http.Client {
	return &http.Client{Timeout: httpTimeout}
}

// ResponseCache stores raw upstream response bodies. Get returns nil, nil on a miss.
type ResponseCache interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, body []byte, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
}

// StatusError reports a non-200 response from an upstream provider.
type StatusError struct {
	URL  string
	Code int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("GET %s returned status %d", e.URL, e.Code)
}

// statusOf extracts the HTTP status from an upstream error, or 0.
func statusOf(err error) int {
	var sErr *StatusError
	if errors.As(err, &sErr) {
		return sErr.Code
	}
	return 0
}

// UpstreamOptions configures an Upstream. Zero values disable the feature they
// control: no cache, no rate limit.
type UpstreamOptions struct {
	Client   *http.Client
	RPS      float64
	Burst    int
	Cache    ResponseCache
	CacheTTL time.Duration
	Log      *slog.Logger
}

// Upstream is the guarded GET path shared by the geocoding and forecast clients.
// Requests are rate limited, pass through a circuit breaker, and identical
// in-flight URLs are collapsed into a single call. Successful bodies are cached
// when a cache is configured.
type Upstream struct {
	name    string
	client  *http.Client
	limiter *rate.Limiter
	breaker *gobreaker.CircuitBreaker
	cache   ResponseCache
	ttl     time.Duration
	group   singleflight.Group
	log     *slog.Logger
}

// NewUpstream constructs an Upstream for the named provider.
func NewUpstream(name string, opts UpstreamOptions) *Upstream {
	log := opts.Log
	if log == nil {
		log = slog.Default()
	}
	client := opts.Client
	if client == nil {
		client = newHTTPClient()
	}

	limit := rate.Inf
	if opts.RPS > 0 {
		limit = rate.Limit(opts.RPS)
	}
	burst := opts.Burst
	if burst <= 0 {
		burst = 1
	}

	breaker := gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        name,
		MaxRequests: 1,
		Timeout:     30 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			failureRatio := float64(counts.TotalFailures) / float64(counts.Requests)
			return counts.Requests >= 3 && failureRatio >= 0.6
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			log.Warn("circuit breaker state changed", "upstream", name, "from", from.String(), "to", to.String())
		},
	})

	return &Upstream{
		name:    name,
		client:  client,
		limiter: rate.NewLimiter(limit, burst),
		breaker: breaker,
		cache:   opts.Cache,
		ttl:     opts.CacheTTL,
		log:     log,
	}
}

// Get returns the body of a successful GET of rawURL. Callers sharing a flight
// each wait on their own context; the shared request is not cancelled when one
// of them gives up and stays bounded by the client timeout.
func (u *Upstream) Get(ctx context.Context, rawURL string) ([]byte, error) {
	key := u.cacheKey(rawURL)

	if body := u.cached(ctx, key); body != nil {
		return body, nil
	}

	if err := u.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limit wait for %s: %w", u.name, err)
	}

	flightCtx := context.WithoutCancel(ctx)
	ch := u.group.DoChan(key, func() (any, error) {
		body, err := u.breaker.Execute(func() (any, error) {
			return u.doGet(flightCtx, rawURL)
		})
		if err != nil {
			return nil, err
		}

		b := body.([]byte)
		u.store(flightCtx, key, b)
		return b, nil
	})

	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("waiting for %s response: %w", u.name, ctx.Err())
	case res := <-ch:
		if res.Err != nil {
			return nil, res.Err
		}
		return res.Val.([]byte), nil
	}
}

// Evict drops the cached body for rawURL, used when a cached body turns out
// to be undecodable.
func (u *Upstream) Evict(ctx context.Context, rawURL string) {
	if u.cache == nil {
		return
	}
	if err := u.cache.Delete(ctx, u.cacheKey(rawURL)); err != nil {
		u.log.Warn("response cache delete failed", "upstream", u.name, "err", err)
	}
}

func (u *Upstream) cacheKey(rawURL string) string {
	return "upstream:" + u.name + ":" + rawURL
}

func (u *Upstream) cached(ctx context.Context, key string) []byte {
	if u.cache == nil {
		return nil
	}
	body, err := u.cache.Get(ctx, key)
	switch {
	case err != nil:
		metrics.ResponseCacheTotal.WithLabelValues(u.name, "error").Inc()
		u.log.Warn("response cache get failed", "upstream", u.name, "err", err)
		return nil
	case body == nil:
		metrics.ResponseCacheTotal.WithLabelValues(u.name, "miss").Inc()
		return nil
	default:
		metrics.ResponseCacheTotal.WithLabelValues(u.name, "hit").Inc()
		return body
	}
}

func (u *Upstream) store(ctx context.Context, key string, body []byte) {
	if u.cache == nil || u.ttl <= 0 {
		return
	}
	if err := u.cache.Set(ctx, key, body, u.ttl); err != nil {
		u.log.Warn("response cache set failed", "upstream", u.name, "err", err)
	}
}

// doGet performs a GET request and returns the response body.
func (u *Upstream) doGet(ctx context.Context, rawURL string) ([]byte, error) {
	start := time.Now()
	defer func() {
		metrics.UpstreamLatency.WithLabelValues(u.name).Observe(time.Since(start).Seconds())
	}()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, fmt.Errorf("creating request for %s: %w", rawURL, err)
	}

	resp, err := u.client.Do(req)
	if err != nil {
		metrics.UpstreamCallsTotal.WithLabelValues(u.name, "error").Inc()
		return nil, fmt.Errorf("GET %s: %w", rawURL, err)
	}
	defer resp.Body.Close()

	metrics.UpstreamCallsTotal.WithLabelValues(u.name, strconv.Itoa(resp.StatusCode)).Inc()
	if resp.StatusCode != http.StatusOK {
		return nil, &StatusError{URL: rawURL, Code: resp.StatusCode}
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseSize))
	if err != nil {
		return nil, fmt.Errorf("reading response from %s: %w", rawURL, err)
	}
	return body, nil
}
