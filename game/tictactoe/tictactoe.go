// Package tictactoe implements noughts and crosses on a 3x3 board.
package tictactoe

import (
	"fmt"
	"strings"

	"golang.org/x/exp/rand"

	"uctsearch/game"
)

const Players = 2

const empty int8 = -1

var lines = [8][3]int{
	{0, 1, 2}, {3, 4, 5}, {6, 7, 8},
	{0, 3, 6}, {1, 4, 7}, {2, 5, 8},
	{0, 4, 8}, {2, 4, 6},
}

// Move is the index of a cell, row by row from the top left.
type Move int

func (m Move) String() string {
	return fmt.Sprintf("(%d,%d)", int(m)/3, int(m)%3)
}

// State is a value type; the board is an array so copies never share cells.
type State struct {
	Board  [9]int8
	Player int
	Winner int
	Turn   int
}

func NewState() State {
	s := State{Winner: game.NoWinner}
	for i := range s.Board {
		s.Board[i] = empty
	}
	return s
}

// Parse reads a board of nine cells written with 'X', 'O' and '.', X being
// player 0. The player to move follows from the counts.
func Parse(board string) (State, error) {
	cells := strings.Join(strings.Fields(board), "")
	if len(cells) != 9 {
		return State{}, fmt.Errorf("board has %d cells, want 9", len(cells))
	}

	s := NewState()
	counts := [Players]int{}
	for i, c := range cells {
		switch c {
		case 'X', 'x':
			s.Board[i] = 0
			counts[0]++
		case 'O', 'o':
			s.Board[i] = 1
			counts[1]++
		case '.':
		default:
			return State{}, fmt.Errorf("invalid cell %q", c)
		}
	}
	if counts[0] != counts[1] && counts[0] != counts[1]+1 {
		return State{}, fmt.Errorf("invalid counts X=%d O=%d", counts[0], counts[1])
	}

	s.Turn = counts[0] + counts[1]
	s.Player = s.Turn % Players
	s.Winner = s.findWinner()
	return s, nil
}

func (s State) findWinner() int {
	for _, line := range lines {
		p := s.Board[line[0]]
		if p != empty && p == s.Board[line[1]] && p == s.Board[line[2]] {
			return int(p)
		}
	}
	return game.NoWinner
}

func (s State) IsOver() bool {
	return s.Winner != game.NoWinner || s.Turn == len(s.Board)
}

func (s State) LegalMoves() []Move {
	if s.IsOver() {
		return nil
	}
	moves := make([]Move, 0, len(s.Board)-s.Turn)
	for i, c := range s.Board {
		if c == empty {
			moves = append(moves, Move(i))
		}
	}
	return moves
}

func (s State) Play(move Move) State {
	if move < 0 || int(move) >= len(s.Board) || s.Board[move] != empty {
		panic(fmt.Sprintf("illegal move %v", move))
	}
	next := s
	next.Board[move] = int8(s.Player)
	next.Turn++
	next.Player = (s.Player + 1) % Players
	next.Winner = next.findWinner()
	return next
}

// openLines counts the lines player can still complete.
func (s State) openLines(player int) int {
	count := 0
	for _, line := range lines {
		open := true
		for _, cell := range line {
			if c := s.Board[cell]; c != empty && int(c) != player {
				open = false
				break
			}
		}
		if open {
			count++
		}
	}
	return count
}

// Scores gives 1 for a win, 0 for a loss and 0.5 each for a draw. Unfinished
// games are scored by the players' open lines.
func Scores(s State) []float64 {
	if s.IsOver() {
		return game.WinnerScores(Players, s.Winner)
	}
	x, o := float64(s.openLines(0)), float64(s.openLines(1))
	return []float64{game.Normalize(x, o), game.Normalize(o, x)}
}

func (s State) String() string {
	var b strings.Builder
	for i, c := range s.Board {
		switch c {
		case 0:
			b.WriteByte('X')
		case 1:
			b.WriteByte('O')
		default:
			b.WriteByte('.')
		}
		if i%3 == 2 && i < len(s.Board)-1 {
			b.WriteByte('\n')
		}
	}
	return b.String()
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

func (Rules) PlayersCount(State) int {
	return Players
}

// Tactical is Rules with a playout heuristic: win when possible, block an
// immediate loss, otherwise play at random.
type Tactical struct {
	Rules
	rng *rand.Rand
}

func NewTactical(rng *rand.Rand) Tactical {
	return Tactical{rng: rng}
}

func (t Tactical) NextMove(s State) Move {
	moves := s.LegalMoves()
	for _, move := range moves {
		if s.Play(move).Winner == s.Player {
			return move
		}
	}

	// Block the cell that would win for the opponent
	opponent := s
	opponent.Player = (s.Player + 1) % Players
	for _, move := range moves {
		if opponent.Play(move).Winner == opponent.Player {
			return move
		}
	}
	return moves[t.rng.Intn(len(moves))]
}
