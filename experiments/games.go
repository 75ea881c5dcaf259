package experiments

import (
	"golang.org/x/exp/rand"

	"uctsearch/config"
	"uctsearch/game/nim"
	"uctsearch/game/tictactoe"
	"uctsearch/searcher"
)

// gameSetup is what a game of the experiment needs from a rule set.
type gameSetup[S any, M comparable] struct {
	rules     searcher.Rules[S, M]
	heuristic func(rng *rand.Rand) searcher.Rules[S, M] // Rules with a playout heuristic
	scores    searcher.ScoreFunc[S]
	initial   func() S
}

func nimSetup(e config.Experiment) gameSetup[nim.State, nim.Move] {
	return gameSetup[nim.State, nim.Move]{
		rules: nim.Rules{},
		heuristic: func(rng *rand.Rand) searcher.Rules[nim.State, nim.Move] {
			return nim.NewGreedy(rng)
		},
		scores: nim.Scores,
		initial: func() nim.State {
			return nim.NewState(e.Players, e.Heaps...)
		},
	}
}

func ticTacToeSetup() gameSetup[tictactoe.State, tictactoe.Move] {
	return gameSetup[tictactoe.State, tictactoe.Move]{
		rules: tictactoe.Rules{},
		heuristic: func(rng *rand.Rand) searcher.Rules[tictactoe.State, tictactoe.Move] {
			return tictactoe.NewTactical(rng)
		},
		scores:  tictactoe.Scores,
		initial: tictactoe.NewState,
	}
}
