package searcher

import (
	"fmt"
	"time"
)

// Option sets the budget of a single search.
type Option func(b *budget)

type budget struct {
	timeLimit     time.Duration
	timed         bool
	maxIterations int
}

// DefaultTimeLimit applies when neither a time limit nor an iteration cap is given.
const DefaultTimeLimit = 500 * time.Millisecond

// WithTimeLimit stops the search once duration has elapsed, checked between
// iterations. A non-positive duration allows exactly one iteration.
func WithTimeLimit(duration time.Duration) Option {
	return func(b *budget) {
		b.timeLimit = duration
		b.timed = true
	}
}

// WithMaxIterations stops the search after the given number of iterations.
// Without WithTimeLimit the search is then bounded by iterations only.
func WithMaxIterations(iterations int) Option {
	return func(b *budget) {
		if iterations > 0 {
			b.maxIterations = iterations
		}
	}
}

func newBudget(options ...Option) budget {
	var b budget
	for _, option := range options {
		option(&b)
	}
	if !b.timed && b.maxIterations == 0 {
		b.timeLimit = DefaultTimeLimit
		b.timed = true
	}
	return b
}

// StopReason tells which budget ended the search.
type StopReason int

const (
	StopTimeLimit StopReason = iota
	StopMaxIterations
)

func (r StopReason) String() string {
	switch r {
	case StopTimeLimit:
		return "time-limit"
	case StopMaxIterations:
		return "max-iterations"
	default:
		return "unknown"
	}
}

func (b budget) exhausted(iterations int, elapsed time.Duration) (StopReason, bool) {
	if b.maxIterations > 0 && iterations >= b.maxIterations {
		return StopMaxIterations, true
	}
	if b.timed && elapsed >= b.timeLimit {
		return StopTimeLimit, true
	}
	return 0, false
}

// Result is the outcome of a search.
type Result[M comparable] struct {
	BestNode       Snapshot[M]
	IterationCount int
	Elapsed        time.Duration
	StopReason     StopReason
	Metrics        SearchMetrics
}

// Move is the recommended move, a member of the root's legal moves.
func (r Result[M]) Move() M {
	return r.BestNode.Move
}

// FindBestNode grows the tree until the budget is exhausted and returns the
// root child chosen by the final policy. At least one iteration always runs.
// A tree may be searched again; the budget and IterationCount then cover only
// the iterations of that call while the statistics keep accumulating.
func FindBestNode[S any, M comparable](t *Tree[S, M], options ...Option) (Result[M], error) {
	if t.err != nil {
		return Result[M]{}, t.err
	}
	if t.nodes[t.Root()].final {
		return Result[M]{}, ErrTerminalRoot
	}

	b := newBudget(options...)
	first := t.iterations
	t.start = time.Now()
	t.config.Metrics.Start()

	var reason StopReason
	for {
		t.simulate()

		var done bool
		if reason, done = b.exhausted(t.iterations-first, time.Since(t.start)); done {
			break
		}
	}

	best := t.bestChild()
	if best == NoParent {
		// The root is non-final so the first iteration expanded a child
		panic(fmt.Sprintf("search completed %d iterations without expanding the root", t.iterations-first))
	}
	t.notify(SearchCompleted, best)

	metrics := t.config.Metrics.Complete()
	metrics.TreeSize = len(t.nodes)
	return Result[M]{
		BestNode:       t.Snapshot(best),
		IterationCount: t.iterations - first,
		Elapsed:        time.Since(t.start),
		StopReason:     reason,
		Metrics:        metrics,
	}, nil
}

// simulate runs one select, expand, rollout and backup cycle.
func (t *Tree[S, M]) simulate() {
	// Selection and expansion
	leaf := t.selectThenExpand()

	// Rollout
	state, full := rollout(t.config.GameRules, t.heuristic, t.config.Rand, t.nodes[leaf].state, t.config.MaxPlayoutMoves)
	if full {
		t.config.Metrics.AddFullPlayout()
	} else {
		t.config.Metrics.AddCutoffPlayout()
	}

	// Backpropagation
	t.backup(leaf, t.evaluate(state))
	t.iterations++
	t.config.Metrics.AddIteration()
	t.notify(IterationCompleted, leaf)
}
