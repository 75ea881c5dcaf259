package experiments

import (
	"context"
	"fmt"
	"slices"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"golang.org/x/exp/rand"
	"golang.org/x/sync/errgroup"

	"uctsearch/config"
	"uctsearch/engine"
	"uctsearch/experiments/metrics"
	"uctsearch/searcher"
	"uctsearch/searcher/agent"
)

const (
	NumGames   = 30 // Per match up
	TimeBudget = 10 * time.Millisecond
)

// Presets are the built-in experiments by name.
var Presets = map[string]func() config.Experiment{
	"exploration": ExplorationExperiment,
	"cutoff":      CutoffExperiment,
	"budget":      BudgetExperiment,
}

// ExplorationExperiment pairs agents with different exploration constants
// against the sqrt(2) baseline.
func ExplorationExperiment() config.Experiment {
	baseline := metrics.AgentConfig{ID: 0, Kind: config.AgentMCTS, Duration: TimeBudget}
	variants := []metrics.AgentConfig{
		{ID: 1, Kind: config.AgentMCTS, Duration: TimeBudget, Exploration: 0.25},
		{ID: 2, Kind: config.AgentMCTS, Duration: TimeBudget, Exploration: 0.7},
		{ID: 3, Kind: config.AgentMCTS, Duration: TimeBudget, Exploration: 2},
		{ID: 4, Kind: config.AgentMCTS, Duration: TimeBudget, Exploration: 4},
	}
	return newExperiment("exploration", config.GameTicTacToe, baseline, variants)
}

// CutoffExperiment pairs agents cutting playouts short against the baseline
// playing them out in full.
func CutoffExperiment() config.Experiment {
	baseline := metrics.AgentConfig{ID: 0, Kind: config.AgentMCTS, Duration: TimeBudget}
	variants := []metrics.AgentConfig{
		{ID: 1, Kind: config.AgentMCTS, Duration: TimeBudget}, // Baseline equivalent
		{ID: 2, Kind: config.AgentMCTS, Duration: TimeBudget, Cutoff: 1},
		{ID: 3, Kind: config.AgentMCTS, Duration: TimeBudget, Cutoff: 3},
		{ID: 4, Kind: config.AgentMCTS, Duration: TimeBudget, Cutoff: 6},
	}
	e := newExperiment("cutoff", config.GameNim, baseline, variants)
	e.Heaps = []int{5, 7, 9}
	return e
}

// BudgetExperiment pairs agents with growing time budgets against a random agent.
func BudgetExperiment() config.Experiment {
	baseline := metrics.AgentConfig{ID: 0, Kind: config.AgentRandom}
	variants := []metrics.AgentConfig{
		{ID: 1, Kind: config.AgentMCTS, Duration: time.Millisecond},
		{ID: 2, Kind: config.AgentMCTS, Duration: 5 * time.Millisecond},
		{ID: 3, Kind: config.AgentMCTS, Duration: 25 * time.Millisecond},
	}
	return newExperiment("budget", config.GameTicTacToe, baseline, variants)
}

// newExperiment plays every variant against the baseline from both seats.
func newExperiment(name, game string, baseline metrics.AgentConfig, variants []metrics.AgentConfig) config.Experiment {
	e := config.Default()
	e.Name = name
	e.Game = game
	e.Players = 2
	e.Games = NumGames
	e.Agents = append([]metrics.AgentConfig{baseline}, variants...)
	e.Matchups = nil
	for _, variant := range variants {
		e.Matchups = append(e.Matchups, []int{baseline.ID, variant.ID}, []int{variant.ID, baseline.ID})
	}
	return e
}

// Report holds the records of an experiment.
type Report struct {
	Dir         string // Empty when no records were written
	GameRecords []metrics.GameRecord
	MoveRecords []metrics.MoveRecord
}

// Run plays every matchup of e the configured number of times, up to
// e.Parallelism games at once, and stores the records under e.OutputDir.
func Run(ctx context.Context, e config.Experiment) (Report, error) {
	if err := e.Validate(); err != nil {
		return Report{}, fmt.Errorf("invalid experiment: %w", err)
	}
	switch e.Game {
	case config.GameNim:
		return runExperiment(ctx, e, nimSetup(e))
	default:
		return runExperiment(ctx, e, ticTacToeSetup())
	}
}

func runExperiment[S any, M comparable](ctx context.Context, e config.Experiment, setup gameSetup[S, M]) (Report, error) {
	log.Info().Msgf("starting %s experiment...", e.Name)

	total := len(e.Matchups) * e.Games
	gameRecords := make([]metrics.GameRecord, total)
	moveRecords := make([][]metrics.MoveRecord, total)

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(e.Parallelism)
	for mi, matchup := range e.Matchups {
		for i := range e.Games {
			index := mi*e.Games + i
			g.Go(func() error {
				if err := ctx.Err(); err != nil {
					return err
				}
				gameRecord, moves, err := runGame(e, setup, mi, matchup, e.Seed+uint64(index))
				if err != nil {
					return fmt.Errorf("matchup %d game %d: %w", mi+1, i+1, err)
				}
				gameRecords[index], moveRecords[index] = gameRecord, moves

				log.Info().Str("game", gameRecord.ID).Msgf("completed matchup %d of %d game %d of %d with winner: %d",
					mi+1, len(e.Matchups), i+1, e.Games, gameRecord.Winner)
				return nil
			})
		}
	}
	if err := g.Wait(); err != nil {
		return Report{}, err
	}

	log.Info().Msgf("completed %s experiment", e.Name)

	report := Report{GameRecords: gameRecords, MoveRecords: slices.Concat(moveRecords...)}
	if e.OutputDir == "" {
		return report, nil
	}
	dir, err := writeRecords(e, report)
	if err != nil {
		return Report{}, err
	}
	report.Dir = dir
	return report, nil
}

// runGame plays a single game, seat i taking agent matchup[i].
func runGame[S any, M comparable](e config.Experiment, setup gameSetup[S, M], matchup int, seats []int, seed uint64) (metrics.GameRecord, []metrics.MoveRecord, error) {
	rng := rand.New(rand.NewSource(seed))
	agents := make([]agent.Agent[S, M], len(seats))
	for seat, id := range seats {
		agentConfig, _ := e.Agent(id)
		a, err := createAgent(agentConfig, setup, rand.New(rand.NewSource(rng.Uint64())))
		if err != nil {
			return metrics.GameRecord{}, nil, fmt.Errorf("failed to create agent %d: %w", id, err)
		}
		agents[seat] = a
	}

	id := uuid.NewString()
	eng := engine.NewLocalEngine(setup.rules, setup.scores, setup.initial(), agents,
		engine.WithMaxMoves(e.MaxMoves),
		engine.WithLogger(log.With().Str("game", id).Logger()),
	)
	gameMetric, moveMetrics, err := eng.Run()
	if err != nil {
		return metrics.GameRecord{}, nil, err
	}

	moveRecords := make([]metrics.MoveRecord, len(moveMetrics))
	for i, mm := range moveMetrics {
		moveRecords[i] = metrics.MoveRecord{Game: id, MoveMetric: mm}
	}
	return metrics.GameRecord{
		ID:         id,
		Matchup:    matchup,
		Agents:     seats,
		GameMetric: gameMetric,
	}, moveRecords, nil
}

func createAgent[S any, M comparable](agentConfig metrics.AgentConfig, setup gameSetup[S, M], rng *rand.Rand) (agent.Agent[S, M], error) {
	if agentConfig.Kind == config.AgentRandom {
		return agent.NewRandomAgent(setup.rules, rng), nil
	}

	searchConfig, err := createSearchConfig(agentConfig, setup, rng)
	if err != nil {
		return nil, err
	}
	options := createOptions(agentConfig)
	if agentConfig.Kind == config.AgentSampling {
		return agent.NewSamplingAgent(searchConfig, agentConfig.Temperature, rng, options...), nil
	}
	return agent.NewEvaluationAgent(searchConfig, options...), nil
}

func createSearchConfig[S any, M comparable](agentConfig metrics.AgentConfig, setup gameSetup[S, M], rng *rand.Rand) (searcher.Config[S, M], error) {
	finalPolicy, err := searcher.ParseFinalPolicy(agentConfig.FinalPolicy)
	if err != nil {
		return searcher.Config[S, M]{}, err
	}
	rollout, err := searcher.ParseRolloutPolicy(agentConfig.Rollout)
	if err != nil {
		return searcher.Config[S, M]{}, err
	}

	searchConfig := searcher.Config[S, M]{
		CalcScores:      setup.scores,
		GameRules:       setup.heuristic(rng),
		MaxPlayoutMoves: agentConfig.Cutoff,
		FinalPolicy:     finalPolicy,
		Rollout:         rollout,
		Rand:            rng,
	}
	if agentConfig.Exploration > 0 {
		searchConfig.CalcUct = searcher.DefaultUctFormula(agentConfig.Exploration)
	}
	return searchConfig, nil
}

func createOptions(agentConfig metrics.AgentConfig) []searcher.Option {
	options := []searcher.Option{}

	if agentConfig.Iterations > 0 {
		options = append(options, searcher.WithMaxIterations(agentConfig.Iterations))
	}
	if agentConfig.Duration > 0 {
		options = append(options, searcher.WithTimeLimit(agentConfig.Duration))
	}
	return options
}

func writeRecords(e config.Experiment, report Report) (string, error) {
	writer, err := metrics.NewWriter(e.OutputDir, e.Name)
	if err != nil {
		return "", fmt.Errorf("failed to create experiment writer: %w", err)
	}

	err = writer.WriteAgentConfigs(e.Agents)
	if err != nil {
		return "", fmt.Errorf("failed to store agent configs: %w", err)
	}
	log.Info().Msg("stored agent configs")

	err = writer.WriteGameRecords(report.GameRecords)
	if err != nil {
		return "", fmt.Errorf("failed to write game records: %w", err)
	}
	log.Info().Msg("stored game records")

	err = writer.WriteMoveRecords(report.MoveRecords)
	if err != nil {
		return "", fmt.Errorf("failed to write move records: %w", err)
	}
	log.Info().Msg("stored move records")
	return writer.Dir(), nil
}
