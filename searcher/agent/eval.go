package agent

import (
	"fmt"

	"uctsearch/searcher"
)

type evaluationAgent[S any, M comparable] struct {
	mcts mcts[S, M]
}

// NewEvaluationAgent returns an agent playing the move chosen by the final
// policy of config. Without options each decision gets DefaultTimeLimit.
func NewEvaluationAgent[S any, M comparable](config searcher.Config[S, M], options ...searcher.Option) Agent[S, M] {
	return evaluationAgent[S, M]{mcts: newMCTS(config, options)}
}

func (a evaluationAgent[S, M]) FindMove(state S) (M, searcher.SearchMetrics, error) {
	if move, ok := shortcut(a.mcts.rules, state); ok {
		return move, shortcutMetrics(), nil
	}

	_, result, err := a.mcts.search(state)
	if err != nil {
		var move M
		return move, searcher.SearchMetrics{}, fmt.Errorf("failed to find move: %w", err)
	}
	return result.Move(), result.Metrics, nil
}
