package metrics

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"
)

type GameRecord struct {
	ID      string // uuid
	Matchup int
	Agents  []int // AgentConfig.ID per seat
	GameMetric
}

type MoveRecord struct {
	Game string // GameRecord.ID
	MoveMetric
}

type Writer struct {
	baseDir string
}

// NewWriter creates a directory for the experiment named by the current timestamp.
func NewWriter(outputDir, experiment string) (*Writer, error) {
	timestamp := time.Now().UTC().Format("20060102T150405Z")
	baseDir := filepath.Join(outputDir, experiment, timestamp)
	err := os.MkdirAll(baseDir, 0755)
	if err != nil {
		return nil, fmt.Errorf("failed to create directory: %w", err)
	}

	return &Writer{
		baseDir: baseDir,
	}, nil
}

func (w *Writer) Dir() string {
	return w.baseDir
}

func (w *Writer) WriteAgentConfigs(configs []AgentConfig) error {
	header := []string{"id", "kind", "duration", "iterations", "cutoff", "exploration", "temperature", "final_policy", "rollout"}
	rows := make([][]string, len(configs))
	for i, config := range configs {
		rows[i] = []string{
			strconv.Itoa(config.ID),
			config.Kind,
			config.Duration.String(),
			strconv.Itoa(config.Iterations),
			strconv.Itoa(config.Cutoff),
			formatFloat(config.Exploration),
			formatFloat(config.Temperature),
			config.FinalPolicy,
			config.Rollout,
		}
	}
	return w.write("agent_configs.csv", "agent configs", header, rows)
}

func (w *Writer) WriteGameRecords(records []GameRecord) error {
	header := []string{"id", "matchup", "agents", "starting_player", "winner", "scores", "start_time", "end_time", "duration", "total_moves", "completed"}
	rows := make([][]string, len(records))
	for i, record := range records {
		agents := make([]string, len(record.Agents))
		for j, id := range record.Agents {
			agents[j] = strconv.Itoa(id)
		}
		scores := make([]string, len(record.Scores))
		for j, score := range record.Scores {
			scores[j] = formatFloat(score)
		}
		rows[i] = []string{
			record.ID,
			strconv.Itoa(record.Matchup),
			strings.Join(agents, ";"),
			strconv.Itoa(record.StartingPlayer),
			strconv.Itoa(record.Winner),
			strings.Join(scores, ";"),
			record.StartTime.Format(time.RFC3339),
			record.EndTime.Format(time.RFC3339),
			record.Duration.String(),
			strconv.Itoa(record.TotalMoves),
			strconv.FormatBool(record.Completed),
		}
	}
	return w.write("game_records.csv", "game records", header, rows)
}

func (w *Writer) WriteMoveRecords(records []MoveRecord) error {
	header := []string{"game", "step", "player", "move", "duration", "iterations", "full_playouts", "cutoff_playouts", "tree_size"}
	rows := make([][]string, len(records))
	for i, record := range records {
		rows[i] = []string{
			record.Game,
			strconv.Itoa(record.Step),
			strconv.Itoa(record.Player),
			record.Move,
			record.Duration.String(),
			strconv.Itoa(record.Iterations),
			strconv.Itoa(record.FullPlayouts),
			strconv.Itoa(record.CutoffPlayouts),
			strconv.Itoa(record.TreeSize),
		}
	}
	return w.write("move_records.csv", "move records", header, rows)
}

func (w *Writer) write(file, name string, header []string, rows [][]string) error {
	path := filepath.Join(w.baseDir, file)
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create %s file: %w", name, err)
	}
	defer f.Close()

	writer := csv.NewWriter(f)

	err = writer.Write(header)
	if err != nil {
		return fmt.Errorf("failed to write %s header: %w", name, err)
	}
	err = writer.WriteAll(rows)
	if err != nil {
		return fmt.Errorf("failed to write %s rows: %w", name, err)
	}
	return nil
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}

type ThroughputRecord struct {
	Agent               int // AgentConfig.ID
	Searches            int
	Iterations          int
	Duration            time.Duration
	IterationsPerSecond float64
	MeanTreeSize        float64
}

func (w *Writer) WriteThroughputRecords(records []ThroughputRecord) error {
	header := []string{"agent", "searches", "iterations", "duration", "iterations_per_second", "mean_tree_size"}
	rows := make([][]string, len(records))
	for i, record := range records {
		rows[i] = []string{
			strconv.Itoa(record.Agent),
			strconv.Itoa(record.Searches),
			strconv.Itoa(record.Iterations),
			record.Duration.String(),
			formatFloat(record.IterationsPerSecond),
			formatFloat(record.MeanTreeSize),
		}
	}
	return w.write("throughput.csv", "throughput records", header, rows)
}
