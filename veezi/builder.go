package veezi

import (
	"fmt"
	"maps"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel/trace"
	"go.opentelemetry.io/otel/trace/noop"
	"golang.org/x/time/rate"
)

// DefaultTimeout applies to the HTTP client the builder creates itself
const DefaultTimeout = 30 * time.Second

// Builder assembles a Client. It is a value type: every With method returns a
// modified copy and leaves the receiver untouched, so a partially configured
// builder can be shared and specialised.
type Builder struct {
	baseURL        string
	apiKey         string
	httpClient     HTTPDoer
	timeout        time.Duration
	logger         zerolog.Logger
	cache          CachePolicy
	executor       Executor
	clock          func() time.Time
	rateLimit      rate.Limit
	burst          int
	registerer     prometheus.Registerer
	tracerProvider trace.TracerProvider
}

// NewBuilder returns a builder with caching disabled and a silent logger
func NewBuilder() Builder {
	return Builder{
		timeout: DefaultTimeout,
		logger:  zerolog.Nop(),
		cache:   NoCache(),
	}
}

// WithBaseURL sets the API root, e.g. https://api.us.veezi.com
func (b Builder) WithBaseURL(baseURL string) Builder {
	b.baseURL = baseURL
	return b
}

// WithAPIKey sets the site access token
func (b Builder) WithAPIKey(apiKey string) Builder {
	b.apiKey = apiKey
	return b
}

// WithHTTPClient replaces the HTTP transport. Timeouts set with WithTimeout
// are ignored when a custom transport is supplied.
func (b Builder) WithHTTPClient(doer HTTPDoer) Builder {
	b.httpClient = doer
	return b
}

// WithTimeout sets the request timeout of the default HTTP client
func (b Builder) WithTimeout(timeout time.Duration) Builder {
	b.timeout = timeout
	return b
}

// WithLogger sets the logger used for request and cache debug output
func (b Builder) WithLogger(logger zerolog.Logger) Builder {
	b.logger = logger
	return b
}

// WithDefaultCaching enables caching with DefaultCacheTTL for every route
func (b Builder) WithDefaultCaching() Builder {
	b.cache = DefaultCaching()
	return b
}

// WithCacheTTL enables caching with ttl for every route
func (b Builder) WithCacheTTL(ttl time.Duration) Builder {
	b.cache = CustomTTL(ttl)
	return b
}

// WithRouteTTL overrides the TTL of a single route and switches the builder to
// per-route caching. Routes without an override keep the TTL that was in
// effect before. A non-positive ttl disables caching for the route.
func (b Builder) WithRouteTTL(route Route, ttl time.Duration) Builder {
	policy := CachePolicy{Mode: CachePerRoute, TTL: b.cache.TTL, Routes: maps.Clone(b.cache.Routes)}
	if b.cache.Mode == CacheDisabled || policy.TTL <= 0 {
		policy.TTL = DefaultCacheTTL
	}
	if policy.Routes == nil {
		policy.Routes = make(map[Route]time.Duration)
	}
	policy.Routes[route] = ttl
	b.cache = policy
	return b
}

// WithoutCache disables caching
func (b Builder) WithoutCache() Builder {
	b.cache = NoCache()
	return b
}

// WithCachePolicy sets the cache policy wholesale
func (b Builder) WithCachePolicy(policy CachePolicy) Builder {
	b.cache = policy.clone()
	return b
}

// WithExecutor replaces the HTTP executor, typically with a test double.
// Transport, rate limit, tracing and request metrics settings are then unused.
func (b Builder) WithExecutor(executor Executor) Builder {
	b.executor = executor
	return b
}

// WithClock sets the time source used for cache expiry
func (b Builder) WithClock(now func() time.Time) Builder {
	b.clock = now
	return b
}

// WithRateLimit limits outbound requests to rps per second with the given
// burst. A non-positive rps removes the limit.
func (b Builder) WithRateLimit(rps float64, burst int) Builder {
	if rps <= 0 {
		b.rateLimit, b.burst = 0, 0
		return b
	}
	b.rateLimit = rate.Limit(rps)
	b.burst = max(burst, 1)
	return b
}

// WithMetrics registers request and cache collectors on reg
func (b Builder) WithMetrics(reg prometheus.Registerer) Builder {
	b.registerer = reg
	return b
}

// WithTracerProvider enables a span per outbound request
func (b Builder) WithTracerProvider(tp trace.TracerProvider) Builder {
	b.tracerProvider = tp
	return b
}

// CachePolicy returns the cache policy the builder would apply
func (b Builder) CachePolicy() CachePolicy {
	return b.cache.clone()
}

// Build validates the configuration and returns a ready client. No network
// activity happens here.
func (b Builder) Build() (*Client, error) {
	baseURL, err := validateBaseURL(b.baseURL)
	if err != nil {
		return nil, err
	}
	if strings.TrimSpace(b.apiKey) == "" {
		return nil, &ConfigError{Field: "api key", Reason: "is required"}
	}
	if b.cache.Mode == CacheCustomTTL && b.cache.TTL <= 0 {
		return nil, &ConfigError{Field: "cache ttl", Reason: "must be positive"}
	}

	m, err := newMetrics(b.registerer)
	if err != nil {
		return nil, fmt.Errorf("register metrics: %w", err)
	}

	executor := b.executor
	if executor == nil {
		doer := b.httpClient
		if doer == nil {
			doer = &http.Client{Timeout: b.timeout}
		}
		tp := b.tracerProvider
		if tp == nil {
			tp = noop.NewTracerProvider()
		}
		var limiter *rate.Limiter
		if b.rateLimit > 0 {
			limiter = rate.NewLimiter(b.rateLimit, b.burst)
		}
		executor = &httpExecutor{
			baseURL: baseURL,
			apiKey:  b.apiKey,
			http:    doer,
			limiter: limiter,
			tracer:  tp.Tracer(tracerName),
			metrics: m,
			logger:  b.logger,
		}
	}

	c := &Client{
		executor: executor,
		metrics:  m,
		logger:   b.logger,
		clock:    b.clock,
	}
	if b.cache.Enabled() {
		c.cache = newResponseCache(b.cache, b.clock)
	}
	return c, nil
}

func validateBaseURL(raw string) (string, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return "", &ConfigError{Field: "base url", Reason: "is required"}
	}
	u, err := url.Parse(raw)
	if err != nil {
		return "", &ConfigError{Field: "base url", Reason: fmt.Sprintf("is malformed: %v", err)}
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return "", &ConfigError{Field: "base url", Reason: "must use http or https"}
	}
	if u.Host == "" {
		return "", &ConfigError{Field: "base url", Reason: "must include a host"}
	}
	return strings.TrimRight(raw, "/"), nil
}

// Option configures a client created with NewClient
type Option func(Builder) Builder

// WithTimeout sets the HTTP timeout
func WithTimeout(timeout time.Duration) Option {
	return func(b Builder) Builder { return b.WithTimeout(timeout) }
}

// WithCache sets the cache policy
func WithCache(policy CachePolicy) Option {
	return func(b Builder) Builder { return b.WithCachePolicy(policy) }
}

// WithTransport sets the HTTP transport
func WithTransport(doer HTTPDoer) Option {
	return func(b Builder) Builder { return b.WithHTTPClient(doer) }
}

// WithRequestLimit limits outbound requests per second
func WithRequestLimit(rps float64, burst int) Option {
	return func(b Builder) Builder { return b.WithRateLimit(rps, burst) }
}

// WithRegisterer registers client metrics on reg
func WithRegisterer(reg prometheus.Registerer) Option {
	return func(b Builder) Builder { return b.WithMetrics(reg) }
}

// WithTracing enables request spans from tp
func WithTracing(tp trace.TracerProvider) Option {
	return func(b Builder) Builder { return b.WithTracerProvider(tp) }
}

// NewClient creates a new Veezi client
func NewClient(baseURL, apiKey string, logger zerolog.Logger, opts ...Option) (*Client, error) {
	b := NewBuilder().
		WithBaseURL(baseURL).
		WithAPIKey(apiKey).
		WithLogger(logger)
	for _, opt := range opts {
		b = opt(b)
	}
	return b.Build()
}
