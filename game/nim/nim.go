// Package nim implements Lasker's Nim for any number of players: on a turn a
// player either takes stones from one heap or splits a heap in two. Whoever
// takes the last stone wins.
package nim

import (
	"fmt"
	"slices"

	"golang.org/x/exp/rand"

	"uctsearch/game"
)

// Move is either a Take or a Split.
type Move interface {
	isMove()
	fmt.Stringer
}

// Take removes Count stones from heap Heap.
type Take struct {
	Heap  int
	Count int
}

// Split divides heap Heap into two heaps, Left stones and the rest.
type Split struct {
	Heap int
	Left int
}

func (Take) isMove()  {}
func (Split) isMove() {}

func (m Take) String() string {
	return fmt.Sprintf("take %d from heap %d", m.Count, m.Heap)
}

func (m Split) String() string {
	return fmt.Sprintf("split heap %d at %d", m.Heap, m.Left)
}

// State is immutable; Play returns a copy.
type State struct {
	Heaps   []int
	Player  int
	Players int
	Winner  int
	Turn    int
}

// NewState starts a game with the given non-empty heaps.
func NewState(players int, heaps ...int) State {
	if players < 1 {
		panic("need at least one player")
	}
	state := State{Players: players, Winner: game.NoWinner}
	for _, h := range heaps {
		if h > 0 {
			state.Heaps = append(state.Heaps, h)
		}
	}
	return state
}

func (s State) IsOver() bool {
	return len(s.Heaps) == 0
}

func (s State) Stones() int {
	total := 0
	for _, h := range s.Heaps {
		total += h
	}
	return total
}

// LegalMoves lists takes before splits, heap by heap.
func (s State) LegalMoves() []Move {
	var moves []Move
	for heap, size := range s.Heaps {
		for count := 1; count <= size; count++ {
			moves = append(moves, Take{Heap: heap, Count: count})
		}
	}
	for heap, size := range s.Heaps {
		for left := 1; left <= size/2; left++ {
			moves = append(moves, Split{Heap: heap, Left: left})
		}
	}
	return moves
}

// Play applies a legal move. Empty heaps are dropped, split heaps append their
// right part at the end.
func (s State) Play(move Move) State {
	next := s
	next.Heaps = slices.Clone(s.Heaps)
	next.Turn++

	switch m := move.(type) {
	case Take:
		if m.Heap < 0 || m.Heap >= len(next.Heaps) || m.Count < 1 || m.Count > next.Heaps[m.Heap] {
			panic(fmt.Sprintf("illegal move %v", m))
		}
		next.Heaps[m.Heap] -= m.Count
		if next.Heaps[m.Heap] == 0 {
			next.Heaps = slices.Delete(next.Heaps, m.Heap, m.Heap+1)
		}
		if next.IsOver() {
			next.Winner = s.Player
		}
	case Split:
		if m.Heap < 0 || m.Heap >= len(next.Heaps) || m.Left < 1 || m.Left > next.Heaps[m.Heap]/2 {
			panic(fmt.Sprintf("illegal move %v", m))
		}
		right := next.Heaps[m.Heap] - m.Left
		next.Heaps[m.Heap] = m.Left
		next.Heaps = append(next.Heaps, right)
	default:
		panic(fmt.Sprintf("unexpected move type %T", move))
	}

	next.Player = (s.Player + 1) % s.Players
	return next
}

// grundy is the Sprague-Grundy value of a single heap in Lasker's Nim.
func grundy(size int) int {
	switch {
	case size == 0:
		return 0
	case size%4 == 0:
		return size - 1
	case size%4 == 3:
		return size + 1
	default:
		return size
	}
}

// NimSum is zero exactly when the player to move loses a two-player game
// against perfect play.
func (s State) NimSum() int {
	sum := 0
	for _, h := range s.Heaps {
		sum ^= grundy(h)
	}
	return sum
}

// Scores awards the winner of a finished game. Unfinished two-player games are
// scored by the nim-sum, others evenly.
func Scores(s State) []float64 {
	if s.IsOver() {
		return game.WinnerScores(s.Players, s.Winner)
	}
	if s.Players != 2 {
		return game.DrawScores(s.Players)
	}

	scores := make([]float64, 2)
	mover, other := s.Player, (s.Player+1)%2
	if s.NimSum() != 0 {
		scores[mover], scores[other] = game.Normalize(3, 1), game.Normalize(1, 3)
	} else {
		scores[mover], scores[other] = game.Normalize(1, 3), game.Normalize(3, 1)
	}
	return scores
}

// Rules adapts State to the search contracts.
type Rules struct{}

func (Rules) AvailableMoves(s State) []Move {
	return s.LegalMoves()
}

func (Rules) NextState(s State, move Move) State {
	return s.Play(move)
}

func (Rules) CurrentPlayerIndex(s State) int {
	return s.Player
}

func (Rules) IsFinal(s State) bool {
	return s.IsOver()
}

func (Rules) PlayersCount(s State) int {
	return s.Players
}

// Greedy is Rules with a playout heuristic: in two-player games it moves to a
// zero nim-sum when it can, otherwise it plays a random legal move.
type Greedy struct {
	Rules
	rng *rand.Rand
}

func NewGreedy(rng *rand.Rand) Greedy {
	return Greedy{rng: rng}
}

func (g Greedy) NextMove(s State) Move {
	moves := s.LegalMoves()
	if s.Players == 2 {
		for _, move := range moves {
			if s.Play(move).NimSum() == 0 {
				return move
			}
		}
	}
	return moves[g.rng.Intn(len(moves))]
}
