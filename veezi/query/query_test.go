package query

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type item struct {
	name  string
	kind  string
	score int
}

var items = []item{
	{name: "c", kind: "x", score: 3},
	{name: "a", kind: "y", score: 1},
	{name: "b", kind: "x", score: 3},
	{name: "d", kind: "z", score: 2},
}

func names(in []item) []string {
	out := make([]string, len(in))
	for i, it := range in {
		out[i] = it.name
	}
	return out
}

func TestFilterAndReject(t *testing.T) {
	isX := func(i item) bool { return i.kind == "x" }

	assert.Equal(t, []string{"c", "b"}, names(Filter(items, isX)))
	assert.Equal(t, []string{"a", "d"}, names(Reject(items, isX)))
	assert.Empty(t, Filter([]item(nil), isX))
	assert.NotNil(t, Filter([]item(nil), isX))
}

func TestFiltersCommute(t *testing.T) {
	isX := func(i item) bool { return i.kind == "x" }
	high := func(i item) bool { return i.score >= 3 }

	assert.Equal(t, Filter(Filter(items, isX), high), Filter(Filter(items, high), isX))
}

func TestSort(t *testing.T) {
	byScore := func(i item) int { return i.score }

	assert.Equal(t, []string{"a", "d", "c", "b"}, names(SortBy(items, byScore)), "stable for equal keys")
	assert.Equal(t, []string{"c", "b", "d", "a"}, names(SortByDesc(items, byScore)))
	assert.Equal(t, []string{"a", "b", "c", "d"}, names(SortFunc(items, func(a, b item) int {
		if a.name < b.name {
			return -1
		}
		if a.name > b.name {
			return 1
		}
		return 0
	})))
	assert.Equal(t, []string{"c", "a", "b", "d"}, names(items), "input untouched")
}

func TestGroupBy(t *testing.T) {
	groups := GroupBy(items, func(i item) string { return i.kind })

	require.Equal(t, 3, groups.Len())
	assert.Equal(t, []string{"x", "y", "z"}, groups.Keys())
	assert.Equal(t, len(items), groups.Total())

	xs, ok := groups.Get("x")
	require.True(t, ok)
	assert.Equal(t, []string{"c", "b"}, names(xs))

	_, ok = groups.Get("nope")
	assert.False(t, ok)

	m := groups.Map()
	assert.Len(t, m, 3)
	assert.Len(t, m["z"], 1)
}

func TestGroupByEmpty(t *testing.T) {
	groups := GroupBy([]item{}, func(i item) string { return i.kind })
	assert.NotNil(t, groups)
	assert.Equal(t, 0, groups.Len())
	assert.Equal(t, 0, groups.Total())
	assert.Empty(t, groups.Keys())
}

func TestGroupByPartitionsInput(t *testing.T) {
	// N items over D distinct keys yield D groups whose sizes add up to N
	var in []int
	for i := range 100 {
		in = append(in, i)
	}
	groups := GroupBy(in, func(i int) int { return i % 7 })

	assert.Equal(t, 7, groups.Len())
	assert.Equal(t, 100, groups.Total())
	for _, g := range groups {
		for _, v := range g.Items {
			assert.Equal(t, g.Key, v%7)
		}
	}
}

func TestAggregates(t *testing.T) {
	score := func(i item) int { return i.score }

	assert.Equal(t, 9, Sum(items, score))
	avg, ok := Average(items, score)
	require.True(t, ok)
	assert.InDelta(t, 2.25, avg, 1e-9)

	_, ok = Average([]item{}, score)
	assert.False(t, ok)
	assert.Equal(t, 0, Sum([]item{}, score))

	assert.Equal(t, 2, Count(items, func(i item) bool { return i.score == 3 }))
	assert.True(t, Any(items, func(i item) bool { return i.kind == "z" }))
	assert.False(t, Any(items, func(i item) bool { return i.kind == "w" }))
	assert.True(t, All(items, func(i item) bool { return i.score > 0 }))
	assert.True(t, All([]item{}, func(item) bool { return false }))

	first, ok := First(items, func(i item) bool { return i.kind == "x" })
	require.True(t, ok)
	assert.Equal(t, "c", first.name)

	_, ok = First(items, func(i item) bool { return i.score > 10 })
	assert.False(t, ok)
}

func TestSumFloat(t *testing.T) {
	values := []float64{0.5, 0.25, 0.25}
	assert.InDelta(t, 1.0, Sum(values, func(f float64) float64 { return f }), 1e-9)
}
