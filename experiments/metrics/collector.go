package metrics

import (
	"time"

	"uctsearch/searcher"
)

// AgentConfig describes one contestant of an experiment.
type AgentConfig struct {
	ID          int           `yaml:"id"`
	Kind        string        `yaml:"kind"` // mcts, sampling or random
	Duration    time.Duration `yaml:"duration"`
	Iterations  int           `yaml:"iterations"`
	Cutoff      int           `yaml:"cutoff"`
	Exploration float64       `yaml:"exploration"`
	Temperature float64       `yaml:"temperature"`
	FinalPolicy string        `yaml:"final_policy"`
	Rollout     string        `yaml:"rollout"`
}

type MoveMetric struct {
	Step   int
	Player int // Player index
	Move   string
	searcher.SearchMetrics
}

type GameMetric struct {
	StartingPlayer int
	Winner         int // game.NoWinner on a draw or an unfinished game
	Scores         []float64
	StartTime      time.Time
	EndTime        time.Time
	Duration       time.Duration
	TotalMoves     int
	Completed      bool // False when the move cap stopped the game
}

// Collector gathers the metrics of one game.
type Collector interface {
	Start(startingPlayer int)
	AddMove(player int, move string, search searcher.SearchMetrics)
	Complete(winner int, scores []float64, completed bool) (GameMetric, []MoveMetric)
}

type collector struct {
	game  GameMetric
	moves []MoveMetric
}

func NewCollector() Collector {
	return &collector{}
}

func (c *collector) Start(startingPlayer int) {
	c.game = GameMetric{StartingPlayer: startingPlayer, StartTime: time.Now()}
	c.moves = nil
}

func (c *collector) AddMove(player int, move string, search searcher.SearchMetrics) {
	c.moves = append(c.moves, MoveMetric{
		Step:          len(c.moves) + 1,
		Player:        player,
		Move:          move,
		SearchMetrics: search,
	})
}

func (c *collector) Complete(winner int, scores []float64, completed bool) (GameMetric, []MoveMetric) {
	c.game.EndTime = time.Now()
	c.game.Duration = c.game.EndTime.Sub(c.game.StartTime)
	c.game.Winner = winner
	c.game.Scores = scores
	c.game.TotalMoves = len(c.moves)
	c.game.Completed = completed
	return c.game, c.moves
}

type dummyCollector struct {
	game GameMetric
}

func NewDummyCollector() Collector {
	return &dummyCollector{}
}

func (c *dummyCollector) Start(startingPlayer int) {
	c.game = GameMetric{StartingPlayer: startingPlayer}
}

func (c *dummyCollector) AddMove(player int, move string, search searcher.SearchMetrics) {
	c.game.TotalMoves++
}

func (c *dummyCollector) Complete(winner int, scores []float64, completed bool) (GameMetric, []MoveMetric) {
	c.game.Winner = winner
	c.game.Scores = scores
	c.game.Completed = completed
	return c.game, nil
}
