// Package veezi provides a typed client for the Veezi cinema ticketing API.
//
// Veezi exposes a site's schedule over a read-only REST API authenticated
// with a per-site access token. This package maps its routes onto typed
// records (sessions, films, film packages, screens, attributes and the site
// itself), caches decoded responses per client, and offers chainable query
// helpers over the returned collections.
//
// # Usage
//
// Create a client with the builder:
//
//	client, err := veezi.NewBuilder().
//		WithBaseURL("https://api.us.veezi.com").
//		WithAPIKey("your-access-token").
//		WithDefaultCaching().
//		Build()
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	sessions, err := client.ListSessions(ctx)
//	if err != nil {
//		log.Fatal(err)
//	}
//	tonight := sessions.FilterToday().FilterHasAvailableSeats().SortByStartTime()
//
// NewClient offers the same configuration through functional options.
//
// # Caching
//
// Caching is disabled unless requested. When enabled, each decoded response is
// stored under its route and parameters and served until its TTL elapses.
// Expired entries are evicted lazily on lookup. Failed calls are never cached.
// Cached values are shared between callers and must be treated as read-only;
// query helpers always return fresh slices.
//
// # Error Handling
//
// The package defines several error types:
//
//   - ConfigError: rejected builder settings, matches ErrInvalidConfig
//   - TransportError: network failures and non-2xx responses, matches ErrTransport
//   - DeserializationError: malformed bodies, matches ErrDeserialization
//
// Transport errors include helper methods for classification:
//
//	var terr *veezi.TransportError
//	if errors.As(err, &terr) && terr.IsUnauthorized() {
//		// Handle auth failure
//	}
//
// The client never retries.
package veezi
