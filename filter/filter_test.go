package filter

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/s0up4200/veezi/veezi"
)

var fixedNow = time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)

func clock() time.Time { return fixedNow }

func local(t *testing.T, s string) veezi.LocalTime {
	t.Helper()
	lt, err := veezi.ParseLocalTime(s)
	require.NoError(t, err)
	return lt
}

func ptr[T any](v T) *T { return &v }

func testSessions(t *testing.T) veezi.SessionList {
	return veezi.SessionList{
		{
			ID:               1,
			FilmID:           "HO1",
			Title:            "DUNE",
			ScreenID:         2,
			ShowType:         veezi.ShowTypePublic,
			SalesVia:         veezi.SalesVia{POS: true, WWW: true},
			Status:           veezi.SessionStatusOpen,
			PreShowStartTime: local(t, "2024-03-01T19:00:00"),
			SalesCutOffTime:  local(t, "2024-03-01T19:20:00"),
			SeatsAvailable:   50,
			SeatsSold:        50,
			FilmFormat:       veezi.FormatDigital2D,
			Attributes:       []string{"SUB"},
		},
		{
			ID:               2,
			FilmID:           "HO2",
			Title:            "WONKA",
			ScreenID:         3,
			ShowType:         veezi.ShowTypePublic,
			Status:           veezi.SessionStatusPlanned,
			PreShowStartTime: local(t, "2024-03-02T10:00:00"),
			SalesCutOffTime:  local(t, "2024-03-02T10:20:00"),
			TicketsSoldOut:   true,
			SeatsSold:        80,
			FilmFormat:       veezi.FormatDigital3D,
			Attributes:       []string{},
		},
	}
}

func testFilms(t *testing.T) veezi.FilmList {
	return veezi.FilmList{
		{
			ID:          "HO1",
			Title:       "Dune: Part Two",
			Genre:       "Sci-Fi",
			Rating:      ptr("M"),
			Status:      veezi.FilmStatusActive,
			Format:      veezi.FormatDigital2D,
			Duration:    166,
			OpeningDate: local(t, "2024-02-20T00:00:00"),
			People: []veezi.Person{
				{ID: "1", FirstName: "Zendaya", LastName: "Coleman", Role: "Actor"},
				{ID: "2", FirstName: "Denis", LastName: "Villeneuve", Role: "Director"},
			},
		},
		{
			ID:          "HO2",
			Title:       "Wonka",
			Genre:       "Family",
			Status:      veezi.FilmStatusInactive,
			Format:      veezi.FormatDigital3D,
			Duration:    116,
			OpeningDate: local(t, "2023-12-01T00:00:00"),
			People:      []veezi.Person{},
		},
	}
}

func sessionIDs(sessions veezi.SessionList) []int {
	ids := make([]int, len(sessions))
	for i, s := range sessions {
		ids[i] = s.ID
	}
	return ids
}

func filmIDs(films veezi.FilmList) []string {
	ids := make([]string, len(films))
	for i, f := range films {
		ids[i] = f.ID
	}
	return ids
}

func matchSessions(t *testing.T, f CompiledFilter, sessions veezi.SessionList) []int {
	t.Helper()
	var ids []int
	for _, s := range sessions {
		if f.MatchSession(s) {
			ids = append(ids, s.ID)
		}
	}
	return ids
}

func TestCompile(t *testing.T) {
	tests := []struct {
		name        string
		expression  string
		wantErr     bool
		errContains string
	}{
		{name: "valid expression", expression: `hasAttribute("SUB")`},
		{name: "shorthand", expression: `screen:2 AND attribute:"SUB"`},
		{name: "complex expression", expression: `ScreenID == 2 and SeatsAvailable > 10 and not SoldOut`},
		{name: "empty expression", expression: "", wantErr: true, errContains: "empty expression"},
		{name: "blank expression", expression: "   ", wantErr: true, errContains: "empty expression"},
		{name: "invalid syntax", expression: `hasAttribute("unclosed`, wantErr: true},
		{name: "wrong argument type", expression: `hasAttribute(1)`, wantErr: true},
		{name: "dangling operator", expression: `ScreenID ==`, wantErr: true},
	}

	compiler := NewExprCompiler()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			filter, err := compiler.Compile(tt.expression)
			if !tt.wantErr {
				require.NoError(t, err)
				assert.NotNil(t, filter)
				return
			}

			require.Error(t, err)
			var cerr *CompilationError
			require.True(t, errors.As(err, &cerr))
			if tt.errContains != "" {
				assert.Contains(t, err.Error(), tt.errContains)
			}
		})
	}
}

func TestCompilationErrorPosition(t *testing.T) {
	_, err := NewExprCompiler().Compile(`ScreenID == 2 and and`)
	require.Error(t, err)

	var cerr *CompilationError
	require.True(t, errors.As(err, &cerr))
	assert.Equal(t, `ScreenID == 2 and and`, cerr.Expression)
	assert.GreaterOrEqual(t, cerr.Column, 0)
	assert.NotEmpty(t, cerr.Reason)
	assert.Contains(t, err.Error(), "column")
}

func TestMatchSession(t *testing.T) {
	sessions := testSessions(t)
	compiler := NewExprCompiler(WithClock(clock))

	tests := []struct {
		expression string
		want       []int
	}{
		{`FilmID == "HO1"`, []int{1}},
		{`screen:3`, []int{2}},
		{`screen!:3`, []int{1}},
		{`attribute:"SUB"`, []int{1}},
		{`hasAttribute("SUB") and ScreenID == 2`, []int{1}},
		{`today()`, []int{1}},
		{`openForSales()`, []int{1}},
		{`webSaleable()`, []int{1}},
		{`open:true`, []int{1}},
		{`open:false`, []int{2}},
		{`date:2024-03-02`, []int{2}},
		{`Date == "2024-03-01"`, []int{1}},
		{`seats:>10`, []int{1}},
		{`seats:0`, []int{2}},
		{`SoldOut == true`, []int{2}},
		{`sellsVia("www")`, []int{1}},
		{`via:POS OR status:planned`, []int{1, 2}},
		{`format:"3D Digital"`, []int{2}},
		{`Occupancy >= 1.0`, []int{2}},
		{`startsBefore(parseTime("2024-03-02T00:00:00"))`, []int{1}},
		{`startsAfter(daysAhead(0))`, []int{1, 2}},
		{`containsFold(Title, "won")`, []int{2}},
		{`"SUB" in Attributes`, []int{1}},
		// film-only fields do not match sessions
		{`Duration > 0`, nil},
		{`genre:drama`, nil},
	}

	for _, tt := range tests {
		t.Run(tt.expression, func(t *testing.T) {
			filter, err := compiler.Compile(tt.expression)
			require.NoError(t, err)
			assert.Equal(t, tt.want, matchSessions(t, filter, sessions))
		})
	}
}

func TestMatchFilm(t *testing.T) {
	films := testFilms(t)
	compiler := NewExprCompiler(WithClock(clock))

	tests := []struct {
		expression string
		want       []string
	}{
		{`genre:"sci-fi"`, []string{"HO1"}},
		{`rating:nr`, []string{"HO2"}},
		{`rating:m`, []string{"HO1"}},
		{`actor:"zendaya coleman"`, []string{"HO1"}},
		{`director:"Denis Villeneuve"`, []string{"HO1"}},
		{`hasPerson("denis villeneuve")`, []string{"HO1"}},
		{`Is3D == true`, []string{"HO2"}},
		{`Duration > 120 and Active == true`, []string{"HO1"}},
		{`openedWithin(30)`, []string{"HO1"}},
		{`containsFold(Title, "WON")`, []string{"HO2"}},
		{`startsWithFold(Title, "dune")`, []string{"HO1"}},
		{`Status == "Inactive"`, []string{"HO2"}},
		// session-only fields do not match films
		{`screen:2`, nil},
		{`openForSales()`, nil},
	}

	for _, tt := range tests {
		t.Run(tt.expression, func(t *testing.T) {
			filter, err := compiler.Compile(tt.expression)
			require.NoError(t, err)

			var got []string
			for _, f := range films {
				if filter.MatchFilm(f) {
					got = append(got, f.ID)
				}
			}
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestCustomFunctions(t *testing.T) {
	compiler := NewExprCompiler(
		WithClock(clock),
		WithCustomFunctions(map[string]any{
			"isEvening": func(t time.Time) bool { return t.Hour() >= 18 },
		}),
	)

	filter, err := compiler.Compile(`isEvening(Start)`)
	require.NoError(t, err)
	assert.Equal(t, []int{1}, matchSessions(t, filter, testSessions(t)))
}

func TestExpandShorthand(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{`screen:2 AND attribute:"SUB"`, `ScreenID == 2 and hasAttribute("SUB")`},
		{`film!:HO1`, `not (FilmID == "HO1")`},
		{`seats:>10`, `SeatsAvailable > 10`},
		{`seats:5`, `SeatsAvailable == 5`},
		{`open:false`, `not openForSales()`},
		{`format:"3D Digital"`, `lower(Format) == "3d digital"`},
		{`rating:m OR genre:Drama`, `upper(Rating) == "M" or lower(Genre) == "drama"`},
		{`NOT via:www`, `not sellsVia("www")`},
		{`(NOT date:2024-03-01)`, `(not onDate("2024-03-01"))`},
		{`   `, ``},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, tt.want, ExpandShorthand(tt.input))
		})
	}
}

func TestIsShorthand(t *testing.T) {
	assert.True(t, IsShorthand(`screen:2`))
	assert.True(t, IsShorthand(`ScreenID > 1 and attribute:SUB`))
	assert.False(t, IsShorthand(`ScreenID == 2`))
	assert.False(t, IsShorthand(`containsFold(Title, "dune")`))
}

func TestCompilerCache(t *testing.T) {
	compiler := NewExprCompiler(WithCache(2))

	first, err := compiler.Compile(`screen:1`)
	require.NoError(t, err)
	_, err = compiler.Compile(`screen:2`)
	require.NoError(t, err)
	assert.Equal(t, 2, compiler.Size())

	again, err := compiler.Compile(`  screen:1  `)
	require.NoError(t, err)
	assert.Same(t, first, again)

	_, err = compiler.Compile(`screen:3`)
	require.NoError(t, err)
	assert.Equal(t, 2, compiler.Size())

	compiler.Clear()
	assert.Equal(t, 0, compiler.Size())

	uncached := NewExprCompiler()
	_, err = uncached.Compile(`screen:1`)
	require.NoError(t, err)
	assert.Equal(t, 0, uncached.Size())
}

func TestLRUCacheEviction(t *testing.T) {
	cache := newLRUCache[int](2)
	cache.Put("a", 1)
	cache.Put("b", 2)

	_, ok := cache.Get("a")
	require.True(t, ok)

	cache.Put("c", 3)
	_, ok = cache.Get("b")
	assert.False(t, ok, "least recently used entry is evicted")

	v, ok := cache.Get("a")
	require.True(t, ok)
	assert.Equal(t, 1, v)

	cache.Put("a", 10)
	v, _ = cache.Get("a")
	assert.Equal(t, 10, v)
	assert.Equal(t, 2, cache.Size())
}

func TestConcurrentEvaluatorKeepsOrder(t *testing.T) {
	base := testSessions(t)[0]
	sessions := make(veezi.SessionList, 1000)
	for i := range sessions {
		s := base
		s.ID = i
		s.ScreenID = i % 5
		s.SeatsAvailable = i % 100
		sessions[i] = s
	}

	filter, err := NewExprCompiler().Compile(`ScreenID == 1 and SeatsAvailable > 40`)
	require.NoError(t, err)

	var want []int
	for _, s := range sessions {
		if s.ScreenID == 1 && s.SeatsAvailable > 40 {
			want = append(want, s.ID)
		}
	}

	for _, workers := range []int{1, 3, 8} {
		t.Run(fmt.Sprintf("workers=%d", workers), func(t *testing.T) {
			evaluator := NewConcurrentEvaluator(WithWorkers(workers), WithBatchSize(10))
			got, err := evaluator.Sessions(context.Background(), filter, sessions)
			require.NoError(t, err)
			assert.Equal(t, want, sessionIDs(got))
		})
	}
}

func TestConcurrentEvaluatorSmallInput(t *testing.T) {
	filter, err := NewExprCompiler().Compile(`Is3D == true`)
	require.NoError(t, err)

	evaluator := NewConcurrentEvaluator(WithWorkers(0), WithBatchSize(-1))
	films, err := evaluator.Films(context.Background(), filter, testFilms(t))
	require.NoError(t, err)
	assert.Equal(t, []string{"HO2"}, filmIDs(films))

	empty, err := evaluator.Films(context.Background(), filter, nil)
	require.NoError(t, err)
	assert.Empty(t, empty)
}

func TestConcurrentEvaluatorCancelled(t *testing.T) {
	sessions := make(veezi.SessionList, 500)
	filter, err := NewExprCompiler().Compile(`SeatsAvailable >= 0`)
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err = NewConcurrentEvaluator(WithBatchSize(10)).Sessions(ctx, filter, sessions)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestManager(t *testing.T) {
	m := NewManager(WithCompiler(NewExprCompiler(WithClock(clock))))
	ctx := context.Background()
	sessions := testSessions(t)

	require.NoError(t, m.RegisterFilter("subtitled", `attribute:SUB`))
	require.NoError(t, m.RegisterFilters(map[string]string{
		"sold-out": `SoldOut == true`,
		"big":      `screen:3`,
	}))
	assert.Equal(t, []string{"big", "sold-out", "subtitled"}, m.ListFilters())

	err := m.RegisterFilter("broken", `screen ==`)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "broken")

	err = m.RegisterFilters(map[string]string{"ok": `SoldOut == true`, "bad": `(`})
	require.Error(t, err)
	_, ok := m.GetFilter("ok")
	assert.False(t, ok, "nothing registered when one expression fails")

	got, err := m.FilterSessions(ctx, "subtitled", sessions)
	require.NoError(t, err)
	assert.Equal(t, []int{1}, sessionIDs(got))

	_, err = m.FilterSessions(ctx, "missing", sessions)
	assert.ErrorIs(t, err, ErrUnknownFilter)
	_, err = m.FilterFilms(ctx, "missing", testFilms(t))
	assert.ErrorIs(t, err, ErrUnknownFilter)

	all, err := m.EvaluateAll(ctx, sessions)
	require.NoError(t, err)
	assert.Len(t, all, 3)
	assert.Equal(t, []int{2}, sessionIDs(all["sold-out"]))
	assert.Equal(t, []int{2}, sessionIDs(all["big"]))

	m.UnregisterFilter("big")
	assert.Equal(t, []string{"sold-out", "subtitled"}, m.ListFilters())
}

func TestManagerResolve(t *testing.T) {
	m := NewManager()
	require.NoError(t, m.RegisterFilter("threeD", `Is3D == true`))

	preset, err := m.Resolve("threeD")
	require.NoError(t, err)
	assert.Equal(t, "Is3D == true", preset.Expression())

	adhoc, err := m.Resolve(`genre:family`)
	require.NoError(t, err)
	assert.Equal(t, `genre:family`, adhoc.Expression())

	films, err := NewConcurrentEvaluator().Films(context.Background(), adhoc, testFilms(t))
	require.NoError(t, err)
	assert.Equal(t, []string{"HO2"}, filmIDs(films))
}
