package agent

import (
	"golang.org/x/exp/rand"

	"uctsearch/searcher"
)

type randomAgent[S any, M comparable] struct {
	rules searcher.Rules[S, M]
	rng   *rand.Rand
}

// NewRandomAgent returns a baseline agent playing uniformly random legal moves.
func NewRandomAgent[S any, M comparable](rules searcher.Rules[S, M], rng *rand.Rand) Agent[S, M] {
	return randomAgent[S, M]{rules: rules, rng: rng}
}

func (a randomAgent[S, M]) FindMove(state S) (M, searcher.SearchMetrics, error) {
	var move M
	if a.rules.IsFinal(state) {
		return move, searcher.SearchMetrics{}, searcher.ErrTerminalRoot
	}
	moves := a.rules.AvailableMoves(state)
	return moves[a.rng.Intn(len(moves))], searcher.SearchMetrics{}, nil
}
