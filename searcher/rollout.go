package searcher

import (
	"fmt"

	"golang.org/x/exp/rand"
)

// rollout plays from state till the game is over or for cutoff number of
// moves. It reports whether a final state was reached.
func rollout[S any, M comparable](rules Rules[S, M], heuristic Heuristic[S, M], rng *rand.Rand, state S, cutoff int) (S, bool) {
	for depth := 0; depth < cutoff; depth++ {
		if rules.IsFinal(state) {
			return state, true
		}

		var move M
		if heuristic != nil {
			move = heuristic.NextMove(state)
		} else {
			moves := rules.AvailableMoves(state)
			if len(moves) == 0 {
				panic("rules returned no moves for a non-final state")
			}
			move = moves[rng.Intn(len(moves))] // Random rollout policy
		}
		state = rules.NextState(state, move)
	}
	// At cutoff the current state is evaluated as if it were final
	return state, rules.IsFinal(state)
}

// evaluate scores the state ending a playout and checks the score contract.
func (t *Tree[S, M]) evaluate(state S) []float64 {
	scores := t.config.CalcScores(state)
	for i, s := range scores {
		if !t.config.ScoreRange.contains(s) {
			panic(fmt.Sprintf("score %v of player %d outside [%v, %v]", s, i, t.config.ScoreRange.Min, t.config.ScoreRange.Max))
		}
	}
	return scores
}
