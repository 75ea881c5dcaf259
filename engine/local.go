package engine

import (
	"fmt"
	"slices"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"uctsearch/experiments/metrics"
	"uctsearch/game"
	"uctsearch/searcher"
	"uctsearch/searcher/agent"
)

type options struct {
	maxMoves  int
	collector metrics.Collector
	logger    zerolog.Logger
}

type Option func(o *options)

func WithMaxMoves(moves int) Option {
	return func(o *options) {
		o.maxMoves = moves
	}
}

func WithCollector(collector metrics.Collector) Option {
	return func(o *options) {
		o.collector = collector
	}
}

func WithLogger(logger zerolog.Logger) Option {
	return func(o *options) {
		o.logger = logger
	}
}

// LocalEngine runs a game in process, asking the agent of the player to move
// for every move and checking it against the rules.
type LocalEngine[S any, M comparable] struct {
	rules  searcher.Rules[S, M]
	scores searcher.ScoreFunc[S]
	state  S
	agents []agent.Agent[S, M]
	moves  int
	options
}

// NewLocalEngine seats one agent per player of the initial state.
func NewLocalEngine[S any, M comparable](rules searcher.Rules[S, M], scores searcher.ScoreFunc[S], initial S, agents []agent.Agent[S, M], opts ...Option) *LocalEngine[S, M] {
	if len(agents) != rules.PlayersCount(initial) {
		panic("number of players does not match number of agents")
	}

	o := options{maxMoves: MaxMoves, collector: metrics.NewCollector(), logger: log.Logger}
	for _, opt := range opts {
		opt(&o)
	}

	return &LocalEngine[S, M]{
		rules:   rules,
		scores:  scores,
		state:   initial,
		agents:  agents,
		options: o,
	}
}

func (e *LocalEngine[S, M]) State() S {
	return e.state
}

func (e *LocalEngine[S, M]) IsOver() bool {
	return e.rules.IsFinal(e.state)
}

// Play applies move for the player to move if it is legal.
func (e *LocalEngine[S, M]) Play(move M) error {
	if e.IsOver() {
		return ErrGameOver
	}
	if !slices.Contains(e.rules.AvailableMoves(e.state), move) {
		return fmt.Errorf("%w: %v", ErrIllegalMove, move)
	}

	e.state = e.rules.NextState(e.state, move)
	e.moves++
	return nil
}

// Run executes the entire game loop until the game is over or maxMoves moves
// have been played.
func (e *LocalEngine[S, M]) Run() (metrics.GameMetric, []metrics.MoveMetric, error) {
	starting := e.rules.CurrentPlayerIndex(e.state)
	e.collector.Start(starting)
	e.logger.Info().Int("players", len(e.agents)).Msgf("player %d is starting", starting)

	for !e.IsOver() && e.moves < e.maxMoves {
		player := e.rules.CurrentPlayerIndex(e.state)

		move, search, err := e.agents[player].FindMove(e.state)
		if err != nil {
			return metrics.GameMetric{}, nil, fmt.Errorf("agent %d failed to find a move: %w", player, err)
		}
		if err := e.Play(move); err != nil {
			return metrics.GameMetric{}, nil, fmt.Errorf("agent %d: %w", player, err)
		}
		e.collector.AddMove(player, fmt.Sprint(move), search)

		e.logger.Debug().
			Int("step", e.moves).
			Int("player", player).
			Str("move", fmt.Sprint(move)).
			Int("iterations", search.Iterations).
			Msg("move played")
	}

	completed := e.IsOver()
	scores := e.scores(e.state)
	winner := game.NoWinner
	if completed {
		winner = winnerOf(scores)
	} else {
		e.logger.Warn().Msgf("stopped after %d moves without a winner", e.moves)
	}

	gameMetric, moveMetrics := e.collector.Complete(winner, scores, completed)
	e.logger.Info().Int("moves", e.moves).Floats64("scores", scores).Msgf("game over with winner %d", winner)
	return gameMetric, moveMetrics, nil
}

// winnerOf returns the player with the strictly highest score, or
// game.NoWinner when the best score is shared.
func winnerOf(scores []float64) int {
	if len(scores) == 0 {
		return game.NoWinner
	}
	best := slices.Max(scores)
	winner := game.NoWinner
	for player, score := range scores {
		if score != best {
			continue
		}
		if winner != game.NoWinner {
			return game.NoWinner
		}
		winner = player
	}
	return winner
}
