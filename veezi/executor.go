package veezi

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/time/rate"
)

const (
	// AccessTokenHeader carries the API key on every request
	AccessTokenHeader = "VeeziAccessToken"

	tracerName   = "github.com/s0up4200/veezi"
	maxErrorBody = 512
)

// HTTPDoer is the transport capability the executor consumes. *http.Client
// satisfies it.
type HTTPDoer interface {
	Do(req *http.Request) (*http.Response, error)
}

// Executor performs a single GET against a route and returns the raw body.
// Implementations must not retry and must not cache.
type Executor interface {
	Execute(ctx context.Context, route Route, params ...string) ([]byte, error)
}

// httpExecutor is the default Executor backed by an HTTPDoer
type httpExecutor struct {
	baseURL string
	apiKey  string
	http    HTTPDoer
	limiter *rate.Limiter
	tracer  trace.Tracer
	metrics *metrics
	logger  zerolog.Logger
}

// Execute performs an authenticated GET for route
func (e *httpExecutor) Execute(ctx context.Context, route Route, params ...string) ([]byte, error) {
	path, err := route.Path(params...)
	if err != nil {
		return nil, err
	}
	url := e.baseURL + "/" + path

	ctx, span := e.tracer.Start(ctx, "veezi GET "+route.String(),
		trace.WithSpanKind(trace.SpanKindClient),
		trace.WithAttributes(
			attribute.String("veezi.route", route.String()),
			attribute.String("http.request.method", http.MethodGet),
			attribute.String("url.full", url),
		),
	)
	defer span.End()

	body, status, err := e.do(ctx, route, url)
	if status > 0 {
		span.SetAttributes(attribute.Int("http.response.status_code", status))
	}
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}
	return body, nil
}

func (e *httpExecutor) do(ctx context.Context, route Route, url string) ([]byte, int, error) {
	if e.limiter != nil {
		if err := e.limiter.Wait(ctx); err != nil {
			return nil, 0, &TransportError{Route: route, URL: url, Err: fmt.Errorf("rate limit wait: %w", err)}
		}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, 0, &TransportError{Route: route, URL: url, Err: fmt.Errorf("failed to create request: %w", err)}
	}
	req.Header.Set(AccessTokenHeader, e.apiKey)
	req.Header.Set("Accept", "application/json")

	e.logger.Debug().
		Str("method", http.MethodGet).
		Str("url", url).
		Msg("Making Veezi API request")

	start := time.Now()
	resp, err := e.http.Do(req)
	if err != nil {
		e.metrics.observeRequest(route, 0, time.Since(start))
		return nil, 0, &TransportError{Route: route, URL: url, Err: fmt.Errorf("request failed: %w", err)}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	e.metrics.observeRequest(route, resp.StatusCode, time.Since(start))
	if err != nil {
		return nil, resp.StatusCode, &TransportError{
			StatusCode: resp.StatusCode,
			Route:      route,
			URL:        url,
			Err:        fmt.Errorf("failed to read response body: %w", err),
		}
	}

	e.logger.Debug().
		Str("route", route.String()).
		Int("status", resp.StatusCode).
		Int("bytes", len(body)).
		Dur("elapsed", time.Since(start)).
		Msg("Veezi API response")

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, resp.StatusCode, &TransportError{
			StatusCode: resp.StatusCode,
			Route:      route,
			URL:        url,
			Body:       truncate(strings.TrimSpace(string(body)), maxErrorBody),
		}
	}

	return body, resp.StatusCode, nil
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n]
}
