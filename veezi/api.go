package veezi

import (
	"context"
)

// API defines the read operations of the Veezi client
type API interface {
	// TestConnection verifies the client can reach Veezi with its key
	TestConnection(ctx context.Context) error

	ListSessions(ctx context.Context) (SessionList, error)
	ListWebSessions(ctx context.Context) (SessionList, error)
	GetSession(ctx context.Context, id int) (*Session, error)

	ListFilms(ctx context.Context) (FilmList, error)
	GetFilm(ctx context.Context, id string) (*Film, error)

	ListFilmPackages(ctx context.Context) ([]FilmPackage, error)
	GetFilmPackage(ctx context.Context, id int) (*FilmPackage, error)

	ListScreens(ctx context.Context) ([]Screen, error)
	GetScreen(ctx context.Context, id int) (*Screen, error)

	GetSite(ctx context.Context) (*Site, error)

	ListAttributes(ctx context.Context) ([]Attribute, error)
	GetAttribute(ctx context.Context, id string) (*Attribute, error)
}

// CacheController manages a client's response cache
type CacheController interface {
	// CacheEnabled reports whether responses are cached at all
	CacheEnabled() bool

	// InvalidateRoute drops one cached response
	InvalidateRoute(route Route, params ...string)

	// ClearCache drops every cached response
	ClearCache()
}

var (
	_ API             = (*Client)(nil)
	_ CacheController = (*Client)(nil)
	_ Executor        = (*httpExecutor)(nil)
)
