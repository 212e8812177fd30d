package cmd

import (
	"bytes"
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/s0up4200/veezi/filter"
	"github.com/s0up4200/veezi/veezi"
)

var now = time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)

func local(t *testing.T, s string) veezi.LocalTime {
	t.Helper()
	lt, err := veezi.ParseLocalTime(s)
	require.NoError(t, err)
	return lt
}

func fixtureSessions(t *testing.T) veezi.SessionList {
	session := func(id int, film, title string, screen int, start string, seats, sold int) veezi.Session {
		s := veezi.Session{
			ID:               id,
			FilmID:           film,
			Title:            title,
			ScreenID:         screen,
			ShowType:         veezi.ShowTypePublic,
			SalesVia:         veezi.SalesVia{POS: true, WWW: true},
			Status:           veezi.SessionStatusOpen,
			PreShowStartTime: local(t, start),
			SalesCutOffTime:  local(t, start),
			SeatsAvailable:   seats,
			SeatsSold:        sold,
			Attributes:       []string{},
		}
		s.TicketsSoldOut = seats == 0
		return s
	}

	sessions := veezi.SessionList{
		session(1, "HO2", "WONKA", 1, "2024-03-01T18:00:00", 10, 90),
		session(2, "HO1", "DUNE", 2, "2024-03-01T14:00:00", 0, 100),
		session(3, "HO1", "DUNE", 2, "2024-03-01T20:30:00", 60, 40),
		session(4, "HO1", "DUNE", 1, "2024-03-02T14:00:00", 100, 0),
	}
	sessions[2].Attributes = []string{"SUB"}
	return sessions
}

func ids(sessions veezi.SessionList) []int {
	out := make([]int, len(sessions))
	for i, s := range sessions {
		out[i] = s.ID
	}
	return out
}

func TestSelectSessions(t *testing.T) {
	m := filter.NewManager(filter.WithCompiler(filter.NewExprCompiler(filter.WithClock(func() time.Time { return now }))))
	require.NoError(t, m.RegisterFilter("subtitled", `attribute:SUB`))

	tests := []struct {
		name    string
		opts    sessionOptions
		want    []int
		wantErr string
	}{
		{name: "no flags", want: []int{1, 2, 3, 4}},
		{name: "today", opts: sessionOptions{today: true}, want: []int{1, 2, 3}},
		{name: "date", opts: sessionOptions{date: "2024-03-02"}, want: []int{4}},
		{name: "bad date", opts: sessionOptions{date: "tomorrow"}, wantErr: "invalid --date"},
		{name: "open", opts: sessionOptions{open: true}, want: []int{1, 3, 4}},
		{name: "available", opts: sessionOptions{available: true}, want: []int{1, 3, 4}},
		{name: "film and screen", opts: sessionOptions{film: "HO1", screen: 2}, want: []int{2, 3}},
		{name: "attribute", opts: sessionOptions{attribute: "SUB"}, want: []int{3}},
		{name: "preset", opts: sessionOptions{filter: "subtitled"}, want: []int{3}},
		{name: "expression", opts: sessionOptions{today: true, filter: "SeatsAvailable >= 10"}, want: []int{1, 3}},
		{name: "bad expression", opts: sessionOptions{filter: "SeatsAvailable >"}, wantErr: "invalid filter expression"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := selectSessions(context.Background(), m, fixtureSessions(t), tt.opts, now)
			if tt.wantErr != "" {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, ids(got))
		})
	}
}

func TestSortAndGroupSessions(t *testing.T) {
	sessions := fixtureSessions(t)

	sorted, err := sortSessions(sessions, "time")
	require.NoError(t, err)
	assert.Equal(t, []int{2, 1, 3, 4}, ids(sorted))

	sorted, err = sortSessions(sessions, "seats")
	require.NoError(t, err)
	assert.Equal(t, []int{2, 1, 3, 4}, ids(sorted))

	sorted, err = sortSessions(sessions, "title")
	require.NoError(t, err)
	assert.Equal(t, []int{2, 3, 4, 1}, ids(sorted))

	_, err = sortSessions(sessions, "price")
	assert.Error(t, err)

	headings, groups, err := groupSessions(sessions, "screen")
	require.NoError(t, err)
	assert.Equal(t, []string{"Screen 1", "Screen 2"}, headings)
	assert.Equal(t, []int{1, 4}, ids(groups[0]))

	headings, _, err = groupSessions(sessions, "film")
	require.NoError(t, err)
	assert.Equal(t, []string{"WONKA [HO2]", "DUNE [HO1]"}, headings)

	headings, _, err = groupSessions(sessions, "date")
	require.NoError(t, err)
	assert.Equal(t, []string{"2024-03-01", "2024-03-02"}, headings)

	_, _, err = groupSessions(sessions, "weekday")
	assert.Error(t, err)
}

func TestSelectFilms(t *testing.T) {
	films := veezi.FilmList{
		{ID: "HO1", Title: "Dune: Part Two", Genre: "Sci-Fi", Status: veezi.FilmStatusActive, Format: veezi.FormatDigital2D, Duration: 166},
		{ID: "HO2", Title: "Wonka", Genre: "Family", Status: veezi.FilmStatusActive, Format: veezi.FormatDigital3D, Duration: 116},
		{ID: "HO3", Title: "Dumbo", Genre: "Family", Status: veezi.FilmStatusInactive, Format: veezi.FormatDigital2D, Duration: 112},
	}
	m := filter.NewManager()

	filmIDs := func(l veezi.FilmList) []string {
		out := make([]string, len(l))
		for i, f := range l {
			out[i] = f.ID
		}
		return out
	}

	got, err := selectFilms(context.Background(), m, films, filmOptions{active: true})
	require.NoError(t, err)
	assert.Equal(t, []string{"HO1", "HO2"}, filmIDs(got))

	got, err = selectFilms(context.Background(), m, films, filmOptions{genre: "family", threeD: true})
	require.NoError(t, err)
	assert.Equal(t, []string{"HO2"}, filmIDs(got))

	got, err = selectFilms(context.Background(), m, films, filmOptions{match: "du"})
	require.NoError(t, err)
	assert.Equal(t, []string{"HO1", "HO3"}, filmIDs(got))

	got, err = selectFilms(context.Background(), m, films, filmOptions{filter: "Duration < 120"})
	require.NoError(t, err)
	assert.Equal(t, []string{"HO2", "HO3"}, filmIDs(got))

	sorted, err := sortFilms(films, "duration")
	require.NoError(t, err)
	assert.Equal(t, []string{"HO3", "HO2", "HO1"}, filmIDs(sorted))

	_, err = sortFilms(films, "popularity")
	assert.Error(t, err)
}

func TestBuildOverview(t *testing.T) {
	site := &veezi.Site{Name: "Roxy"}
	films := veezi.FilmList{{ID: "HO1", Title: "Dune: Part Two"}}

	ov := buildOverview(site, films, fixtureSessions(t), now)

	assert.Equal(t, "Roxy", ov.Site)
	assert.Equal(t, "2024-03-01", ov.Date)
	assert.Equal(t, 3, ov.Sessions)
	assert.Equal(t, 1, ov.SoldOut)
	require.Len(t, ov.Films, 2)

	dune := ov.Films[0]
	assert.Equal(t, "Dune: Part Two", dune.Title, "title from the film list")
	assert.Equal(t, 2, dune.Sessions)
	assert.Equal(t, []string{"14:00", "20:30"}, dune.Starts)
	assert.Equal(t, 60, dune.SeatsAvailable)
	assert.Equal(t, 140, dune.SeatsSold)
	assert.InDelta(t, 0.7, dune.Occupancy, 1e-9)

	wonka := ov.Films[1]
	assert.Equal(t, "WONKA", wonka.Title, "falls back to the session title")

	var buf bytes.Buffer
	printOverview(&buf, ov)
	assert.Contains(t, buf.String(), "Roxy, 2024-03-01")
	assert.Contains(t, buf.String(), "3 sessions across 2 films, 1 sold out")

	empty := buildOverview(site, films, nil, now)
	buf.Reset()
	printOverview(&buf, empty)
	assert.Contains(t, buf.String(), "No sessions today.")
}

func TestPrinter(t *testing.T) {
	var buf bytes.Buffer
	sessions := fixtureSessions(t)

	require.NoError(t, newPrinter(&buf, false).sessions(sessions))
	out := buf.String()
	assert.Contains(t, out, "Found 4 sessions")
	assert.Contains(t, out, "[SOLD OUT]")
	assert.Contains(t, out, "2024-03-01 20:30")

	buf.Reset()
	require.NoError(t, newPrinter(&buf, false).sessions(nil))
	assert.Contains(t, buf.String(), "No sessions found")

	buf.Reset()
	require.NoError(t, newPrinter(&buf, true).sessions(sessions[:1]))
	var decoded []map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &decoded))
	require.Len(t, decoded, 1)
	assert.Equal(t, "HO2", decoded[0]["FilmId"])
	assert.Equal(t, "2024-03-01T18:00:00", decoded[0]["PreShowStartTime"])

	buf.Reset()
	require.NoError(t, newPrinter(&buf, false).packages([]veezi.FilmPackage{{
		ID:    7,
		Title: "Double Bill",
		Films: []veezi.PackageFilm{
			{FilmID: "B", Title: "Second", Order: 2, SplitPercent: 40},
			{FilmID: "A", Title: "First", Order: 1, SplitPercent: 60},
		},
	}}))
	assert.Regexp(t, `(?s)1\. First.*2\. Second`, buf.String())
}

func TestTruncateAndPlural(t *testing.T) {
	assert.Equal(t, "short", truncate("short", 10))
	assert.Equal(t, "abcdefg...", truncate("abcdefghijklmnop", 10))
	assert.Equal(t, "1 film", plural(1, "film"))
	assert.Equal(t, "0 films", plural(0, "film"))
}
