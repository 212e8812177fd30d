package veezi

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/rs/zerolog"
)

// Client is a typed, read-only Veezi API client. It is safe for concurrent
// use. Each client owns its cache; clients never share cached responses.
type Client struct {
	executor Executor
	cache    *responseCache
	metrics  *metrics
	logger   zerolog.Logger
	clock    func() time.Time
}

// fetch resolves one route through the cache and the executor and decodes the
// body into T. Only successfully decoded values are cached, and callers always
// receive their own copy of a cached value.
func fetch[T any](ctx context.Context, c *Client, route Route, params ...string) (T, error) {
	var zero T
	key := NewKey(route, params...)

	if c.cache != nil && c.cache.cacheable(key) {
		if cached, ok := c.cache.get(key); ok {
			if value, ok := cached.(T); ok {
				c.metrics.cacheHit(route)
				c.logger.Debug().
					Str("route", route.String()).
					Str("key", key.String()).
					Msg("Veezi cache hit")
				return cloneValue(value), nil
			}
		}
		c.metrics.cacheMiss(route)
		c.logger.Debug().
			Str("route", route.String()).
			Str("key", key.String()).
			Msg("Veezi cache miss")
	}

	body, err := c.executor.Execute(ctx, route, params...)
	if err != nil {
		return zero, err
	}
	if err := ctx.Err(); err != nil {
		return zero, err
	}

	if bytes.Equal(bytes.TrimSpace(body), []byte("null")) {
		return zero, &DeserializationError{Route: route, Err: errNullBody}
	}

	var value T
	if err := json.Unmarshal(body, &value); err != nil {
		return zero, &DeserializationError{Route: route, Err: err}
	}

	if c.cache != nil {
		c.cache.put(key, cloneValue(value))
	}
	return value, nil
}

var errNullBody = errors.New("response body is null")

func (c *Client) now() time.Time {
	if c.clock != nil {
		return c.clock()
	}
	return time.Now()
}

// TestConnection verifies the base URL and API key by requesting the site.
// It bypasses the cache.
func (c *Client) TestConnection(ctx context.Context) error {
	if _, err := c.executor.Execute(ctx, RouteSite); err != nil {
		return fmt.Errorf("failed to connect to Veezi: %w", err)
	}
	c.logger.Debug().Msg("Successfully connected to Veezi")
	return nil
}

// ListSessions retrieves every scheduled session
func (c *Client) ListSessions(ctx context.Context) (SessionList, error) {
	return fetch[SessionList](ctx, c, RouteSessions)
}

// ListWebSessions retrieves sessions that are sold online
func (c *Client) ListWebSessions(ctx context.Context) (SessionList, error) {
	return fetch[SessionList](ctx, c, RouteWebSessions)
}

// GetSession retrieves a single session by ID
func (c *Client) GetSession(ctx context.Context, id int) (*Session, error) {
	s, err := fetch[Session](ctx, c, RouteSession, strconv.Itoa(id))
	if err != nil {
		return nil, err
	}
	return &s, nil
}

// ListFilms retrieves every film known to the site
func (c *Client) ListFilms(ctx context.Context) (FilmList, error) {
	return fetch[FilmList](ctx, c, RouteFilms)
}

// GetFilm retrieves a single film by ID
func (c *Client) GetFilm(ctx context.Context, id string) (*Film, error) {
	f, err := fetch[Film](ctx, c, RouteFilm, id)
	if err != nil {
		return nil, err
	}
	return &f, nil
}

// ListFilmPackages retrieves every film package
func (c *Client) ListFilmPackages(ctx context.Context) ([]FilmPackage, error) {
	return fetch[[]FilmPackage](ctx, c, RouteFilmPackages)
}

// GetFilmPackage retrieves a single film package by ID
func (c *Client) GetFilmPackage(ctx context.Context, id int) (*FilmPackage, error) {
	p, err := fetch[FilmPackage](ctx, c, RouteFilmPackage, strconv.Itoa(id))
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// ListScreens retrieves every screen
func (c *Client) ListScreens(ctx context.Context) ([]Screen, error) {
	return fetch[[]Screen](ctx, c, RouteScreens)
}

// GetScreen retrieves a single screen by ID
func (c *Client) GetScreen(ctx context.Context, id int) (*Screen, error) {
	s, err := fetch[Screen](ctx, c, RouteScreen, strconv.Itoa(id))
	if err != nil {
		return nil, err
	}
	return &s, nil
}

// GetSite retrieves the site the API key belongs to
func (c *Client) GetSite(ctx context.Context) (*Site, error) {
	s, err := fetch[Site](ctx, c, RouteSite)
	if err != nil {
		return nil, err
	}
	return &s, nil
}

// ListAttributes retrieves every session attribute
func (c *Client) ListAttributes(ctx context.Context) ([]Attribute, error) {
	return fetch[[]Attribute](ctx, c, RouteAttributes)
}

// GetAttribute retrieves a single attribute by ID
func (c *Client) GetAttribute(ctx context.Context, id string) (*Attribute, error) {
	a, err := fetch[Attribute](ctx, c, RouteAttribute, id)
	if err != nil {
		return nil, err
	}
	return &a, nil
}

// ListSessionsToday retrieves sessions starting on the current date
func (c *Client) ListSessionsToday(ctx context.Context) (SessionList, error) {
	sessions, err := c.ListSessions(ctx)
	if err != nil {
		return nil, err
	}
	return sessions.FilterTodayAt(c.now()), nil
}

// ListOpenSessions retrieves sessions that can currently be sold
func (c *Client) ListOpenSessions(ctx context.Context) (SessionList, error) {
	sessions, err := c.ListSessions(ctx)
	if err != nil {
		return nil, err
	}
	return sessions.FilterOpenForSalesAt(c.now()), nil
}

// ListActiveFilms retrieves films that can currently be scheduled
func (c *Client) ListActiveFilms(ctx context.Context) (FilmList, error) {
	films, err := c.ListFilms(ctx)
	if err != nil {
		return nil, err
	}
	return films.FilterActive(), nil
}

// FilmSessions retrieves the sessions of a film
func (c *Client) FilmSessions(ctx context.Context, filmID string) (SessionList, error) {
	sessions, err := c.ListSessions(ctx)
	if err != nil {
		return nil, err
	}
	return sessions.FilterByFilm(filmID), nil
}

// FilmWebSessions retrieves the online sessions of a film
func (c *Client) FilmWebSessions(ctx context.Context, filmID string) (SessionList, error) {
	sessions, err := c.ListWebSessions(ctx)
	if err != nil {
		return nil, err
	}
	return sessions.FilterByFilm(filmID), nil
}

// ScreenSessions retrieves the sessions on a screen
func (c *Client) ScreenSessions(ctx context.Context, screenID int) (SessionList, error) {
	sessions, err := c.ListSessions(ctx)
	if err != nil {
		return nil, err
	}
	return sessions.FilterByScreen(screenID), nil
}

// AttributeSessions retrieves the sessions carrying an attribute
func (c *Client) AttributeSessions(ctx context.Context, attributeID string) (SessionList, error) {
	sessions, err := c.ListSessions(ctx)
	if err != nil {
		return nil, err
	}
	return sessions.FilterContainingAttribute(attributeID), nil
}

// CacheEnabled reports whether the client caches responses
func (c *Client) CacheEnabled() bool {
	return c.cache != nil
}

// CachePolicy returns the client's cache policy
func (c *Client) CachePolicy() CachePolicy {
	if c.cache == nil {
		return NoCache()
	}
	return c.cache.policy.clone()
}

// InvalidateRoute drops the cached response for route and params, forcing the
// next call to refetch.
func (c *Client) InvalidateRoute(route Route, params ...string) {
	if c.cache == nil {
		return
	}
	c.cache.invalidate(NewKey(route, params...))
}

// ClearCache drops every cached response
func (c *Client) ClearCache() {
	if c.cache == nil {
		return
	}
	c.cache.clear()
	c.logger.Debug().Msg("Veezi cache cleared")
}

// CacheLen returns the number of cached responses, including expired entries
// that have not been looked up since expiring.
func (c *Client) CacheLen() int {
	if c.cache == nil {
		return 0
	}
	return c.cache.len()
}
