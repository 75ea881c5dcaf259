package engine

import (
	"errors"

	"uctsearch/experiments/metrics"
)

// MaxMoves caps a game whose rules never end it.
const MaxMoves = 10000

var (
	ErrIllegalMove = errors.New("illegal move")
	ErrGameOver    = errors.New("game is over")
)

type Engine interface {
	// Run plays the game till it is over or the move cap is reached
	Run() (metrics.GameMetric, []metrics.MoveMetric, error)
}
