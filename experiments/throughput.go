package experiments

import (
	"fmt"

	"github.com/rs/zerolog/log"
	"golang.org/x/exp/rand"

	"uctsearch/config"
	"uctsearch/experiments/metrics"
	"uctsearch/searcher"
)

// MeasureThroughput runs searches from the initial state with every searching
// agent of e and reports how many iterations each completes per second.
func MeasureThroughput(e config.Experiment, searches int) ([]metrics.ThroughputRecord, error) {
	if err := e.Validate(); err != nil {
		return nil, fmt.Errorf("invalid experiment: %w", err)
	}
	if searches < 1 {
		return nil, fmt.Errorf("invalid number of searches %d", searches)
	}

	var records []metrics.ThroughputRecord
	var err error
	switch e.Game {
	case config.GameNim:
		records, err = measureThroughput(e, nimSetup(e), searches)
	default:
		records, err = measureThroughput(e, ticTacToeSetup(), searches)
	}
	if err != nil || e.OutputDir == "" {
		return records, err
	}

	writer, err := metrics.NewWriter(e.OutputDir, e.Name+"_throughput")
	if err != nil {
		return nil, fmt.Errorf("failed to create experiment writer: %w", err)
	}
	if err := writer.WriteThroughputRecords(records); err != nil {
		return nil, fmt.Errorf("failed to write throughput records: %w", err)
	}
	log.Info().Msg("stored throughput records")
	return records, nil
}

func measureThroughput[S any, M comparable](e config.Experiment, setup gameSetup[S, M], searches int) ([]metrics.ThroughputRecord, error) {
	records := []metrics.ThroughputRecord{}
	initial := setup.initial()

	for _, agentConfig := range e.Agents {
		if agentConfig.Kind == config.AgentRandom {
			continue
		}

		rng := rand.New(rand.NewSource(e.Seed + uint64(agentConfig.ID)))
		searchConfig, err := createSearchConfig(agentConfig, setup, rng)
		if err != nil {
			return nil, fmt.Errorf("agent %d: %w", agentConfig.ID, err)
		}
		factory := searcher.CreateTree(searchConfig)
		options := createOptions(agentConfig)

		record := metrics.ThroughputRecord{Agent: agentConfig.ID, Searches: searches}
		treeSizes := 0
		for range searches {
			tree := factory(initial, setup.rules.CurrentPlayerIndex(initial))
			result, err := searcher.FindBestNode(tree, options...)
			if err != nil {
				return nil, fmt.Errorf("agent %d: %w", agentConfig.ID, err)
			}
			record.Iterations += result.IterationCount
			record.Duration += result.Elapsed
			treeSizes += tree.Len()
		}
		record.MeanTreeSize = float64(treeSizes) / float64(searches)
		if record.Duration > 0 {
			record.IterationsPerSecond = float64(record.Iterations) / record.Duration.Seconds()
		}

		log.Info().
			Int("agent", record.Agent).
			Int("iterations", record.Iterations).
			Dur("duration", record.Duration).
			Msgf("agent %d ran %.0f iterations per second", record.Agent, record.IterationsPerSecond)
		records = append(records, record)
	}
	return records, nil
}
