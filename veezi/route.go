package veezi

import (
	"fmt"
	"net/url"
	"strings"
)

// Route is a fixed upstream route template. Placeholders are written as {id}.
type Route string

// Known routes
const (
	RouteSessions     Route = "v1/session"
	RouteWebSessions  Route = "v1/websession"
	RouteSession      Route = "v1/session/{id}"
	RouteFilms        Route = "v4/film"
	RouteFilm         Route = "v4/film/{id}"
	RouteFilmPackages Route = "v1/filmpackage"
	RouteFilmPackage  Route = "v1/filmpackage/{id}"
	RouteScreens      Route = "v1/screen"
	RouteScreen       Route = "v1/screen/{id}"
	RouteSite         Route = "v1/site"
	RouteAttributes   Route = "v1/attribute"
	RouteAttribute    Route = "v1/attribute/{id}"
)

const (
	placeholder       = "{id}"
	keyParamSeparator = "/"
)

var knownRoutes = map[Route]struct{}{
	RouteSessions:     {},
	RouteWebSessions:  {},
	RouteSession:      {},
	RouteFilms:        {},
	RouteFilm:         {},
	RouteFilmPackages: {},
	RouteFilmPackage:  {},
	RouteScreens:      {},
	RouteScreen:       {},
	RouteSite:         {},
	RouteAttributes:   {},
	RouteAttribute:    {},
}

// Routes returns every route the client knows about
func Routes() []Route {
	return []Route{
		RouteSessions, RouteWebSessions, RouteSession,
		RouteFilms, RouteFilm,
		RouteFilmPackages, RouteFilmPackage,
		RouteScreens, RouteScreen,
		RouteSite,
		RouteAttributes, RouteAttribute,
	}
}

// ParseRoute resolves a route template string such as "v4/film"
func ParseRoute(s string) (Route, error) {
	r := Route(strings.Trim(s, "/"))
	if !r.Known() {
		return "", fmt.Errorf("%w: %q", ErrUnknownRoute, s)
	}
	return r, nil
}

// Known reports whether r is one of the client's route templates
func (r Route) Known() bool {
	_, ok := knownRoutes[r]
	return ok
}

// Arity returns the number of parameters the route expects
func (r Route) Arity() int {
	return strings.Count(string(r), placeholder)
}

// Path renders the route with the given parameters, path-escaping each one.
func (r Route) Path(params ...string) (string, error) {
	if !r.Known() {
		return "", fmt.Errorf("%w: %q", ErrUnknownRoute, string(r))
	}
	if len(params) != r.Arity() {
		return "", fmt.Errorf("route %s expects %d parameter(s), got %d", r, r.Arity(), len(params))
	}

	path := string(r)
	for _, p := range params {
		if p == "" {
			return "", fmt.Errorf("route %s: empty parameter", r)
		}
		path = strings.Replace(path, placeholder, url.PathEscape(p), 1)
	}
	return path, nil
}

// String returns the route template
func (r Route) String() string {
	return string(r)
}

// Key is the endpoint identity used as the cache key: a route template plus
// its ordered parameter values. Keys are comparable and parameter order is
// significant.
type Key struct {
	route  Route
	params string
}

// NewKey builds the identity of a call to route with params
func NewKey(route Route, params ...string) Key {
	escaped := make([]string, len(params))
	for i, p := range params {
		escaped[i] = url.PathEscape(p)
	}
	return Key{route: route, params: strings.Join(escaped, keyParamSeparator)}
}

// Route returns the route template of the key
func (k Key) Route() Route {
	return k.route
}

// String renders the key for logging
func (k Key) String() string {
	if k.params == "" {
		return string(k.route)
	}
	return string(k.route) + "?" + k.params
}
