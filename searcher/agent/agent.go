package agent

import (
	"time"

	"uctsearch/searcher"
)

// DefaultTimeLimit is the decision budget of an agent built without options.
const DefaultTimeLimit = searcher.DefaultTimeLimit

type Agent[S any, M comparable] interface {
	// FindMove returns the move to play in state and the metrics of the search behind it, if any
	FindMove(state S) (M, searcher.SearchMetrics, error)
}

// mcts builds one tree per decision from a shared factory.
type mcts[S any, M comparable] struct {
	rules   searcher.Rules[S, M]
	factory searcher.TreeFactory[S, M]
	options []searcher.Option
}

func newMCTS[S any, M comparable](config searcher.Config[S, M], options []searcher.Option) mcts[S, M] {
	if len(options) == 0 {
		options = []searcher.Option{searcher.WithTimeLimit(DefaultTimeLimit)}
	}
	return mcts[S, M]{
		rules:   config.GameRules,
		factory: searcher.CreateTree(config),
		options: options,
	}
}

func (m mcts[S, M]) search(state S) (*searcher.Tree[S, M], searcher.Result[M], error) {
	tree := m.factory(state, m.rules.CurrentPlayerIndex(state))
	result, err := searcher.FindBestNode(tree, m.options...)
	return tree, result, err
}

// shortcut returns the only legal move of state, if there is exactly one.
func shortcut[S any, M comparable](rules searcher.Rules[S, M], state S) (M, bool) {
	var move M
	if rules == nil || rules.IsFinal(state) {
		return move, false
	}
	moves := rules.AvailableMoves(state)
	if len(moves) != 1 {
		return move, false
	}
	return moves[0], true
}

func shortcutMetrics() searcher.SearchMetrics {
	return searcher.SearchMetrics{StartTime: time.Now()}
}
