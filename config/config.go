// Package config loads experiment settings from YAML.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"uctsearch/experiments/metrics"
	"uctsearch/searcher"
)

const (
	GameNim       = "nim"
	GameTicTacToe = "tictactoe"

	AgentMCTS     = "mcts"
	AgentSampling = "sampling"
	AgentRandom   = "random"
)

var ErrNoMatchups = errors.New("no matchups")

type Experiment struct {
	Name        string                `yaml:"name"`
	Game        string                `yaml:"game"`
	Players     int                   `yaml:"players"` // Nim only, tic-tac-toe is two-player
	Heaps       []int                 `yaml:"heaps"`   // Nim only
	Games       int                   `yaml:"games"`   // Per matchup
	Seed        uint64                `yaml:"seed"`
	Parallelism int                   `yaml:"parallelism"`
	MaxMoves    int                   `yaml:"max_moves"`
	OutputDir   string                `yaml:"output_dir"` // Empty to skip writing records
	LogLevel    string                `yaml:"log_level"`
	Agents      []metrics.AgentConfig `yaml:"agents"`
	Matchups    [][]int               `yaml:"matchups"` // Agent IDs, one per seat
}

// Default pits a searching agent against a random one at Nim.
func Default() Experiment {
	return Experiment{
		Name:        "default",
		Game:        GameNim,
		Players:     2,
		Heaps:       []int{3, 4, 5},
		Games:       10,
		Seed:        1,
		Parallelism: 4,
		MaxMoves:    1000,
		OutputDir:   "results",
		LogLevel:    "info",
		Agents: []metrics.AgentConfig{
			{ID: 0, Kind: AgentRandom},
			{ID: 1, Kind: AgentMCTS, Duration: 10 * time.Millisecond},
		},
		Matchups: [][]int{{0, 1}, {1, 0}},
	}
}

// Load reads the experiment at path over the defaults. Unknown keys are errors.
func Load(path string) (Experiment, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Experiment{}, fmt.Errorf("failed to read config: %w", err)
	}
	return Parse(data)
}

func Parse(data []byte) (Experiment, error) {
	e := Default()
	// A list in the document replaces the default list
	e.Heaps, e.Agents, e.Matchups = nil, nil, nil

	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&e); err != nil {
		return Experiment{}, fmt.Errorf("failed to parse config: %w", err)
	}

	def := Default()
	if e.Heaps == nil {
		e.Heaps = def.Heaps
	}
	if e.Agents == nil {
		e.Agents = def.Agents
		if e.Matchups == nil {
			e.Matchups = def.Matchups
		}
	}

	if err := e.Validate(); err != nil {
		return Experiment{}, fmt.Errorf("invalid config: %w", err)
	}
	return e, nil
}

// Seats is the number of players of the configured game.
func (e Experiment) Seats() int {
	if e.Game == GameTicTacToe {
		return 2
	}
	return e.Players
}

// Agent looks up an agent by ID.
func (e Experiment) Agent(id int) (metrics.AgentConfig, bool) {
	for _, a := range e.Agents {
		if a.ID == id {
			return a, true
		}
	}
	return metrics.AgentConfig{}, false
}

func (e Experiment) Validate() error {
	switch e.Game {
	case GameNim:
		if e.Players < 1 {
			return fmt.Errorf("nim needs at least one player, got %d", e.Players)
		}
		if len(e.Heaps) == 0 {
			return errors.New("nim needs at least one heap")
		}
		for _, h := range e.Heaps {
			if h <= 0 {
				return fmt.Errorf("invalid heap size %d", h)
			}
		}
	case GameTicTacToe:
	default:
		return fmt.Errorf("unknown game %q", e.Game)
	}

	if e.Games < 1 {
		return fmt.Errorf("invalid games per matchup %d", e.Games)
	}
	if e.Parallelism < 1 {
		return fmt.Errorf("invalid parallelism %d", e.Parallelism)
	}
	if e.MaxMoves < 1 {
		return fmt.Errorf("invalid max moves %d", e.MaxMoves)
	}

	seen := make(map[int]bool, len(e.Agents))
	for _, a := range e.Agents {
		if seen[a.ID] {
			return fmt.Errorf("duplicate agent id %d", a.ID)
		}
		seen[a.ID] = true
		if err := validateAgent(a); err != nil {
			return fmt.Errorf("agent %d: %w", a.ID, err)
		}
	}

	if len(e.Matchups) == 0 {
		return ErrNoMatchups
	}
	for i, matchup := range e.Matchups {
		if len(matchup) != e.Seats() {
			return fmt.Errorf("matchup %d has %d seats, want %d", i, len(matchup), e.Seats())
		}
		for _, id := range matchup {
			if !seen[id] {
				return fmt.Errorf("matchup %d references unknown agent %d", i, id)
			}
		}
	}
	return nil
}

func validateAgent(a metrics.AgentConfig) error {
	switch a.Kind {
	case AgentRandom:
		return nil
	case AgentMCTS, AgentSampling:
	default:
		return fmt.Errorf("unknown kind %q", a.Kind)
	}

	if a.Duration < 0 || a.Iterations < 0 || a.Cutoff < 0 || a.Exploration < 0 {
		return errors.New("budget, cutoff and exploration must not be negative")
	}
	if a.Kind == AgentSampling && a.Temperature <= 0 {
		return fmt.Errorf("invalid temperature %v", a.Temperature)
	}
	if _, err := searcher.ParseFinalPolicy(a.FinalPolicy); err != nil {
		return err
	}
	if _, err := searcher.ParseRolloutPolicy(a.Rollout); err != nil {
		return err
	}
	return nil
}
