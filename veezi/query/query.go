// Package query provides pure, in-memory transformations over slices of
// records: filtering, sorting, grouping and numeric aggregation.
//
// Every function leaves its input untouched and returns freshly allocated
// results, so chains of calls are referentially transparent. Filters commute
// with each other; apply sorting last when a deterministic order matters.
package query

import (
	"cmp"
	"slices"
)

// Number is any numeric field type that can be summed or averaged
type Number interface {
	~int | ~int8 | ~int16 | ~int32 | ~int64 |
		~uint | ~uint8 | ~uint16 | ~uint32 | ~uint64 |
		~float32 | ~float64
}

// Filter returns the items for which keep returns true, in input order
func Filter[T any](items []T, keep func(T) bool) []T {
	out := make([]T, 0, len(items))
	for _, item := range items {
		if keep(item) {
			out = append(out, item)
		}
	}
	return out
}

// Reject returns the items for which drop returns false
func Reject[T any](items []T, drop func(T) bool) []T {
	return Filter(items, func(item T) bool { return !drop(item) })
}

// SortBy returns a copy of items sorted ascending by key. The sort is stable.
func SortBy[T any, K cmp.Ordered](items []T, key func(T) K) []T {
	out := slices.Clone(items)
	slices.SortStableFunc(out, func(a, b T) int {
		return cmp.Compare(key(a), key(b))
	})
	return out
}

// SortByDesc returns a copy of items sorted descending by key. The sort is stable.
func SortByDesc[T any, K cmp.Ordered](items []T, key func(T) K) []T {
	out := slices.Clone(items)
	slices.SortStableFunc(out, func(a, b T) int {
		return cmp.Compare(key(b), key(a))
	})
	return out
}

// SortFunc returns a copy of items sorted stably with compare
func SortFunc[T any](items []T, compare func(a, b T) int) []T {
	out := slices.Clone(items)
	slices.SortStableFunc(out, compare)
	return out
}

// Group is one bucket produced by GroupBy
type Group[K comparable, T any] struct {
	Key   K
	Items []T
}

// Groups is an ordered grouping. Groups appear in the order their key was
// first seen in the input.
type Groups[K comparable, T any] []Group[K, T]

// GroupBy buckets items by key, preserving first-appearance order of keys and
// input order within each bucket.
func GroupBy[T any, K comparable](items []T, key func(T) K) Groups[K, T] {
	groups := make(Groups[K, T], 0)
	index := make(map[K]int)
	for _, item := range items {
		k := key(item)
		i, ok := index[k]
		if !ok {
			i = len(groups)
			index[k] = i
			groups = append(groups, Group[K, T]{Key: k})
		}
		groups[i].Items = append(groups[i].Items, item)
	}
	return groups
}

// Len returns the number of groups
func (g Groups[K, T]) Len() int {
	return len(g)
}

// Keys returns the group keys in order
func (g Groups[K, T]) Keys() []K {
	keys := make([]K, len(g))
	for i, grp := range g {
		keys[i] = grp.Key
	}
	return keys
}

// Get returns the items for key
func (g Groups[K, T]) Get(key K) ([]T, bool) {
	for _, grp := range g {
		if grp.Key == key {
			return grp.Items, true
		}
	}
	return nil, false
}

// Map converts the grouping to an unordered map
func (g Groups[K, T]) Map() map[K][]T {
	m := make(map[K][]T, len(g))
	for _, grp := range g {
		m[grp.Key] = grp.Items
	}
	return m
}

// Total returns the number of items across all groups
func (g Groups[K, T]) Total() int {
	n := 0
	for _, grp := range g {
		n += len(grp.Items)
	}
	return n
}

// Sum adds up field over items
func Sum[T any, N Number](items []T, field func(T) N) N {
	var total N
	for _, item := range items {
		total += field(item)
	}
	return total
}

// Average returns the mean of field over items. The boolean is false for an
// empty input.
func Average[T any, N Number](items []T, field func(T) N) (float64, bool) {
	if len(items) == 0 {
		return 0, false
	}
	var total float64
	for _, item := range items {
		total += float64(field(item))
	}
	return total / float64(len(items)), true
}

// Count returns how many items satisfy pred
func Count[T any](items []T, pred func(T) bool) int {
	n := 0
	for _, item := range items {
		if pred(item) {
			n++
		}
	}
	return n
}

// Any reports whether at least one item satisfies pred
func Any[T any](items []T, pred func(T) bool) bool {
	return slices.ContainsFunc(items, pred)
}

// All reports whether every item satisfies pred. It is true for an empty input.
func All[T any](items []T, pred func(T) bool) bool {
	for _, item := range items {
		if !pred(item) {
			return false
		}
	}
	return true
}

// First returns the first item satisfying pred
func First[T any](items []T, pred func(T) bool) (T, bool) {
	for _, item := range items {
		if pred(item) {
			return item, true
		}
	}
	var zero T
	return zero, false
}
