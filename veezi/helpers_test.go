package veezi

import (
	"context"
	"encoding/json"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

// mockExecutor serves canned bodies per route and counts calls per endpoint
type mockExecutor struct {
	mu        sync.Mutex
	responses map[Route]func(params []string) ([]byte, error)
	calls     map[string]int
}

func newMockExecutor() *mockExecutor {
	return &mockExecutor{
		responses: make(map[Route]func(params []string) ([]byte, error)),
		calls:     make(map[string]int),
	}
}

func (m *mockExecutor) on(route Route, fn func(params []string) ([]byte, error)) *mockExecutor {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.responses[route] = fn
	return m
}

func (m *mockExecutor) body(route Route, body []byte) *mockExecutor {
	return m.on(route, func([]string) ([]byte, error) { return body, nil })
}

func (m *mockExecutor) Execute(ctx context.Context, route Route, params ...string) ([]byte, error) {
	m.mu.Lock()
	m.calls[NewKey(route, params...).String()]++
	fn, ok := m.responses[route]
	m.mu.Unlock()
	if !ok {
		return nil, &TransportError{StatusCode: 404, Route: route}
	}
	return fn(params)
}

func (m *mockExecutor) callsFor(route Route, params ...string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.calls[NewKey(route, params...).String()]
}

func (m *mockExecutor) totalCalls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	n := 0
	for _, c := range m.calls {
		n += c
	}
	return n
}

// fakeClock is a manually advanced time source
type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func newFakeClock() *fakeClock {
	return &fakeClock{now: time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)}
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	c.now = c.now.Add(d)
	c.mu.Unlock()
}

func mustJSON(t *testing.T, v any) []byte {
	t.Helper()
	data, err := json.Marshal(v)
	require.NoError(t, err)
	return data
}

func mustLocal(t *testing.T, s string) LocalTime {
	t.Helper()
	lt, err := ParseLocalTime(s)
	require.NoError(t, err)
	return lt
}

// testSession returns a fully populated open session starting at start
func testSession(t *testing.T, id int, filmID string, screenID int, start string) Session {
	t.Helper()
	pre := mustLocal(t, start)
	return Session{
		ID:               id,
		FilmID:           filmID,
		Title:            strings.ToUpper(filmID),
		ScreenID:         screenID,
		Seating:          SeatingAllocated,
		ShowType:         ShowTypePublic,
		SalesVia:         SalesVia{POS: true, WWW: true},
		Status:           SessionStatusOpen,
		PreShowStartTime: pre,
		SalesCutOffTime:  LocalTime{pre.Add(20 * time.Minute)},
		FeatureStartTime: LocalTime{pre.Add(15 * time.Minute)},
		FeatureEndTime:   LocalTime{pre.Add(135 * time.Minute)},
		CleanupEndTime:   LocalTime{pre.Add(150 * time.Minute)},
		SeatsAvailable:   50,
		SeatsSold:        50,
		FilmFormat:       FormatDigital2D,
		PriceCardName:    "Standard",
		Attributes:       []string{},
	}
}

func testFilm(id, title string) Film {
	return Film{
		ID:                     id,
		Title:                  title,
		ShortName:              title,
		Genre:                  "Drama",
		SignageText:            title,
		Distributor:            "Acme",
		OpeningDate:            LocalTime{time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)},
		Status:                 FilmStatusActive,
		Duration:               120,
		Format:                 FormatDigital2D,
		People:                 []Person{},
		FilmPosterThumbnailURL: "https://example.com/" + id + ".jpg",
	}
}

func newTestClient(t *testing.T, exec Executor, b Builder) *Client {
	t.Helper()
	c, err := b.
		WithBaseURL("https://api.example.com").
		WithAPIKey("test-key").
		WithExecutor(exec).
		Build()
	require.NoError(t, err)
	return c
}

func ptr[T any](v T) *T {
	return &v
}
