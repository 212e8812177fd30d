package veezi

import (
	"strings"

	fuzzysearch "github.com/lithammer/fuzzysearch/fuzzy"
	"github.com/sahilm/fuzzy"

	"github.com/s0up4200/veezi/veezi/query"
)

// FilmList is a collection of films with chainable query helpers.
// Every helper returns a new list and leaves the receiver unchanged.
type FilmList []Film

// Films returns the underlying slice
func (l FilmList) Films() []Film {
	return []Film(l)
}

// Len returns the number of films
func (l FilmList) Len() int {
	return len(l)
}

// Where keeps films matching pred
func (l FilmList) Where(pred func(Film) bool) FilmList {
	return query.Filter(l, pred)
}

// FilterActive keeps films that can currently be scheduled
func (l FilmList) FilterActive() FilmList {
	return l.Where(func(f Film) bool { return f.IsActive() })
}

// Filter3D keeps films in a 3D format
func (l FilmList) Filter3D() FilmList {
	return l.Where(func(f Film) bool { return f.Is3D() })
}

// Filter2D keeps films in a 2D format
func (l FilmList) Filter2D() FilmList {
	return l.Where(func(f Film) bool { return f.Is2D() })
}

// FilterByGenre keeps films of genre, ignoring case
func (l FilmList) FilterByGenre(genre string) FilmList {
	return l.Where(func(f Film) bool { return strings.EqualFold(f.Genre, genre) })
}

// FilterByRating keeps films with the given rating. "NR" matches unrated films.
func (l FilmList) FilterByRating(rating string) FilmList {
	return l.Where(func(f Film) bool { return strings.EqualFold(f.RatingDisplay(), rating) })
}

// FilterTitleMatching keeps films whose title contains the characters of
// pattern in order, ignoring case and diacritics.
func (l FilmList) FilterTitleMatching(pattern string) FilmList {
	if pattern == "" {
		return query.Filter(l, func(Film) bool { return true })
	}
	return l.Where(func(f Film) bool {
		return fuzzysearch.MatchNormalizedFold(pattern, f.Title)
	})
}

// TitleMatch is a ranked fuzzy title match
type TitleMatch struct {
	Film           Film
	Score          int
	MatchedIndexes []int
}

// titleSource adapts a film list to fuzzy.Source
type titleSource struct {
	lowerTitles []string
}

func (s titleSource) String(i int) string { return s.lowerTitles[i] }

func (s titleSource) Len() int { return len(s.lowerTitles) }

// RankByTitle fuzzy-matches pattern against film titles and returns the
// matches best first. Films that do not match are omitted. An empty pattern
// matches every film, unscored and in list order, as FilterTitleMatching does.
func (l FilmList) RankByTitle(pattern string) []TitleMatch {
	if pattern == "" {
		out := make([]TitleMatch, len(l))
		for i, f := range l {
			out[i] = TitleMatch{Film: f}
		}
		return out
	}

	src := titleSource{lowerTitles: make([]string, len(l))}
	for i, f := range l {
		src.lowerTitles[i] = strings.ToLower(f.Title)
	}

	matches := fuzzy.FindFrom(strings.ToLower(pattern), src)
	out := make([]TitleMatch, len(matches))
	for i, m := range matches {
		out[i] = TitleMatch{
			Film:           l[m.Index],
			Score:          m.Score,
			MatchedIndexes: m.MatchedIndexes,
		}
	}
	return out
}

// SortByTitle orders films by title, case-insensitively
func (l FilmList) SortByTitle() FilmList {
	return query.SortBy(l, func(f Film) string { return strings.ToLower(f.Title) })
}

// SortByDisplaySequence orders films by their configured display sequence
func (l FilmList) SortByDisplaySequence() FilmList {
	return query.SortBy(l, func(f Film) int { return f.DisplaySequence })
}

// SortByOpeningDate orders films by opening date, earliest first
func (l FilmList) SortByOpeningDate() FilmList {
	return query.SortFunc(l, func(a, b Film) int {
		return a.OpeningDate.Compare(b.OpeningDate.Time)
	})
}

// SortByDuration orders films by running time, shortest first
func (l FilmList) SortByDuration() FilmList {
	return query.SortBy(l, func(f Film) int { return f.Duration })
}

// GroupByGenre buckets films by genre in order of first appearance
func (l FilmList) GroupByGenre() query.Groups[string, Film] {
	return query.GroupBy(l, func(f Film) string { return f.Genre })
}

// TotalDuration sums running times in minutes
func (l FilmList) TotalDuration() int {
	return query.Sum(l, func(f Film) int { return f.Duration })
}

// AverageDuration is the mean running time in minutes; false when empty
func (l FilmList) AverageDuration() (float64, bool) {
	return query.Average(l, func(f Film) int { return f.Duration })
}

// ByID indexes films by ID
func (l FilmList) ByID() map[string]Film {
	m := make(map[string]Film, len(l))
	for _, f := range l {
		m[f.ID] = f
	}
	return m
}
