package filter

import (
	"context"

	"github.com/s0up4200/veezi/veezi"
)

// CompiledFilter is a pre-compiled expression that can be evaluated against
// sessions and films. Implementations are safe for concurrent use.
type CompiledFilter interface {
	// MatchSession reports whether the session satisfies the expression
	MatchSession(s veezi.Session) bool

	// MatchFilm reports whether the film satisfies the expression
	MatchFilm(f veezi.Film) bool

	// Expression returns the filter expression as written
	Expression() string
}

// Compiler compiles filter expressions into executable filters
type Compiler interface {
	// Compile parses and compiles a filter expression
	Compile(expression string) (CompiledFilter, error)
}

// CachingCompiler provides caching for compiled filters
type CachingCompiler interface {
	Compiler

	// Clear removes all cached filters
	Clear()

	// Size returns the number of cached filters
	Size() int
}

// Evaluator applies filters to collections
type Evaluator interface {
	Sessions(ctx context.Context, filter CompiledFilter, sessions veezi.SessionList) (veezi.SessionList, error)
	Films(ctx context.Context, filter CompiledFilter, films veezi.FilmList) (veezi.FilmList, error)
}
