package filter

import (
	"context"
	"fmt"
	"maps"
	"slices"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/s0up4200/veezi/veezi"
)

// Manager holds named filter presets, typically loaded from configuration
type Manager struct {
	compiler  Compiler
	evaluator Evaluator
	filters   map[string]CompiledFilter
	mu        sync.RWMutex
}

// ManagerOption configures a filter manager
type ManagerOption func(*Manager)

// WithCompiler sets a custom compiler
func WithCompiler(compiler Compiler) ManagerOption {
	return func(m *Manager) {
		m.compiler = compiler
	}
}

// WithEvaluator sets a custom evaluator
func WithEvaluator(evaluator Evaluator) ManagerOption {
	return func(m *Manager) {
		m.evaluator = evaluator
	}
}

// NewManager creates a new filter manager
func NewManager(opts ...ManagerOption) *Manager {
	m := &Manager{
		compiler:  NewExprCompiler(WithCache(100)),
		evaluator: NewConcurrentEvaluator(),
		filters:   make(map[string]CompiledFilter),
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Compile compiles an ad-hoc expression with the manager's compiler
func (m *Manager) Compile(expression string) (CompiledFilter, error) {
	return m.compiler.Compile(expression)
}

// RegisterFilter registers a new filter or updates an existing one
func (m *Manager) RegisterFilter(name, expression string) error {
	filter, err := m.compiler.Compile(expression)
	if err != nil {
		return fmt.Errorf("failed to compile filter '%s': %w", name, err)
	}

	m.mu.Lock()
	m.filters[name] = filter
	m.mu.Unlock()
	return nil
}

// RegisterFilters registers several filters. Nothing is registered unless
// every expression compiles.
func (m *Manager) RegisterFilters(filters map[string]string) error {
	compiled := make(map[string]CompiledFilter, len(filters))
	for _, name := range slices.Sorted(maps.Keys(filters)) {
		filter, err := m.compiler.Compile(filters[name])
		if err != nil {
			return fmt.Errorf("failed to compile filter '%s': %w", name, err)
		}
		compiled[name] = filter
	}

	m.mu.Lock()
	maps.Copy(m.filters, compiled)
	m.mu.Unlock()
	return nil
}

// UnregisterFilter removes a filter
func (m *Manager) UnregisterFilter(name string) {
	m.mu.Lock()
	delete(m.filters, name)
	m.mu.Unlock()
}

// GetFilter returns a compiled filter by name
func (m *Manager) GetFilter(name string) (CompiledFilter, bool) {
	m.mu.RLock()
	filter, ok := m.filters[name]
	m.mu.RUnlock()
	return filter, ok
}

// ListFilters returns the registered filter names in sorted order
func (m *Manager) ListFilters() []string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return slices.Sorted(maps.Keys(m.filters))
}

// Resolve returns the named preset, or compiles nameOrExpression as an ad-hoc
// expression when no preset has that name.
func (m *Manager) Resolve(nameOrExpression string) (CompiledFilter, error) {
	if filter, ok := m.GetFilter(nameOrExpression); ok {
		return filter, nil
	}
	return m.compiler.Compile(nameOrExpression)
}

// FilterSessions applies a registered filter to sessions
func (m *Manager) FilterSessions(ctx context.Context, name string, sessions veezi.SessionList) (veezi.SessionList, error) {
	filter, ok := m.GetFilter(name)
	if !ok {
		return nil, fmt.Errorf("%w: '%s'", ErrUnknownFilter, name)
	}
	return m.evaluator.Sessions(ctx, filter, sessions)
}

// FilterFilms applies a registered filter to films
func (m *Manager) FilterFilms(ctx context.Context, name string, films veezi.FilmList) (veezi.FilmList, error) {
	filter, ok := m.GetFilter(name)
	if !ok {
		return nil, fmt.Errorf("%w: '%s'", ErrUnknownFilter, name)
	}
	return m.evaluator.Films(ctx, filter, films)
}

// EvaluateAll applies every registered filter to sessions concurrently
func (m *Manager) EvaluateAll(ctx context.Context, sessions veezi.SessionList) (map[string]veezi.SessionList, error) {
	m.mu.RLock()
	filters := maps.Clone(m.filters)
	m.mu.RUnlock()

	results := make(map[string]veezi.SessionList, len(filters))
	var mu sync.Mutex

	g, ctx := errgroup.WithContext(ctx)
	for name, filter := range filters {
		g.Go(func() error {
			matches, err := m.evaluator.Sessions(ctx, filter, sessions)
			if err != nil {
				return fmt.Errorf("filter '%s': %w", name, err)
			}
			mu.Lock()
			results[name] = matches
			mu.Unlock()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}
