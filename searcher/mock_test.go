package searcher

import (
	"strconv"

	"golang.org/x/exp/rand"
)

// mockState is a node of a uniform game tree: every state below maxDepth has
// branching moves numbered from 0.
type mockState struct {
	player  int
	depth   int
	history string
}

func (s mockState) firstMove() int {
	if s.history == "" {
		return -1
	}
	return int(s.history[0] - '0')
}

type mockRules struct {
	players   int
	branching int
	maxDepth  int
}

func (r mockRules) AvailableMoves(s mockState) []int {
	if r.IsFinal(s) {
		return nil
	}
	moves := make([]int, r.branching)
	for i := range moves {
		moves[i] = i
	}
	return moves
}

func (r mockRules) NextState(s mockState, move int) mockState {
	return mockState{
		player:  (s.player + 1) % r.players,
		depth:   s.depth + 1,
		history: s.history + strconv.Itoa(move),
	}
}

func (r mockRules) CurrentPlayerIndex(s mockState) int {
	return s.player
}

func (r mockRules) IsFinal(s mockState) bool {
	return r.maxDepth > 0 && s.depth >= r.maxDepth
}

func (r mockRules) PlayersCount(mockState) int {
	return r.players
}

// heuristicRules counts playout moves chosen through NextMove.
type heuristicRules struct {
	mockRules
	calls int
}

func (r *heuristicRules) NextMove(s mockState) int {
	r.calls++
	return 0
}

// winningMove scores a win for player 0 when the game opened with move.
func winningMove(move int) ScoreFunc[mockState] {
	return func(s mockState) []float64 {
		if s.firstMove() == move {
			return []float64{1, 0}
		}
		return []float64{0, 1}
	}
}

// pseudoScores derives scores in [0, 1] from the history.
func pseudoScores(players int) ScoreFunc[mockState] {
	return func(s mockState) []float64 {
		scores := make([]float64, players)
		h := 17
		for _, c := range s.history {
			h = (h*31 + int(c)) % 1009
		}
		for i := range scores {
			scores[i] = float64((h+i*97)%101) / 100
		}
		return scores
	}
}

func newMockConfig(rules Rules[mockState, int], scores ScoreFunc[mockState]) Config[mockState, int] {
	return Config[mockState, int]{
		CalcScores: scores,
		GameRules:  rules,
		Rand:       rand.New(rand.NewSource(42)),
	}
}

func newMockTree(rules Rules[mockState, int], scores ScoreFunc[mockState]) *Tree[mockState, int] {
	return CreateTree(newMockConfig(rules, scores))(mockState{}, 0)
}
