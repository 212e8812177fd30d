package filter

import (
	"context"
	"runtime"

	"golang.org/x/sync/errgroup"

	"github.com/s0up4200/veezi/veezi"
)

// EvaluatorOption configures an evaluator
type EvaluatorOption func(*ConcurrentEvaluator)

// WithWorkers sets the number of worker goroutines
func WithWorkers(workers int) EvaluatorOption {
	return func(e *ConcurrentEvaluator) {
		e.workerCount = workers
	}
}

// WithBatchSize sets the smallest chunk handed to a worker
func WithBatchSize(size int) EvaluatorOption {
	return func(e *ConcurrentEvaluator) {
		e.batchSize = size
	}
}

// ConcurrentEvaluator evaluates filters over large collections in parallel
// chunks. Results keep input order.
type ConcurrentEvaluator struct {
	workerCount int
	batchSize   int
}

// NewConcurrentEvaluator creates a new concurrent evaluator
func NewConcurrentEvaluator(opts ...EvaluatorOption) *ConcurrentEvaluator {
	e := &ConcurrentEvaluator{
		workerCount: runtime.GOMAXPROCS(0),
		batchSize:   100,
	}
	for _, opt := range opts {
		opt(e)
	}
	e.workerCount = max(e.workerCount, 1)
	e.batchSize = max(e.batchSize, 1)
	return e
}

// Sessions returns the sessions matching filter
func (e *ConcurrentEvaluator) Sessions(ctx context.Context, filter CompiledFilter, sessions veezi.SessionList) (veezi.SessionList, error) {
	return evaluate(ctx, e, sessions, filter.MatchSession)
}

// Films returns the films matching filter
func (e *ConcurrentEvaluator) Films(ctx context.Context, filter CompiledFilter, films veezi.FilmList) (veezi.FilmList, error) {
	return evaluate(ctx, e, films, filter.MatchFilm)
}

func evaluate[S ~[]T, T any](ctx context.Context, e *ConcurrentEvaluator, items S, match func(T) bool) (S, error) {
	if len(items) < e.batchSize {
		matches := make(S, 0, len(items))
		for _, item := range items {
			if match(item) {
				matches = append(matches, item)
			}
		}
		return matches, nil
	}

	chunkSize := max(len(items)/e.workerCount, e.batchSize)
	chunks := make([]S, (len(items)+chunkSize-1)/chunkSize)

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(e.workerCount)
	for i := range chunks {
		start := i * chunkSize
		end := min(start+chunkSize, len(items))
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			var matches S
			for _, item := range items[start:end] {
				if match(item) {
					matches = append(matches, item)
				}
			}
			chunks[i] = matches
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	total := 0
	for _, c := range chunks {
		total += len(c)
	}
	out := make(S, 0, total)
	for _, c := range chunks {
		out = append(out, c...)
	}
	return out, nil
}
