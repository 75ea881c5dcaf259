package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"slices"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"uctsearch/config"
	"uctsearch/experiments"
)

func main() {
	configPath := flag.String("config", "", "Path to a YAML experiment config")
	preset := flag.String("experiment", "", "Built-in experiment: "+strings.Join(presetNames(), ", "))
	logLevel := flag.String("log-level", "", "Log level, overrides the config")
	pretty := flag.Bool("pretty", false, "Human-friendly console logs")
	throughput := flag.Int("throughput", 0, "Measure search throughput over this many searches per agent instead of playing games")
	flag.Parse()

	if *pretty {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.TimeOnly})
	}

	e, err := loadExperiment(*configPath, *preset)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load experiment")
	}
	if *logLevel != "" {
		e.LogLevel = *logLevel
	}
	level, err := zerolog.ParseLevel(e.LogLevel)
	if err != nil {
		log.Fatal().Err(err).Msg("invalid log level")
	}
	zerolog.SetGlobalLevel(level)

	if *throughput > 0 {
		if _, err := experiments.MeasureThroughput(e, *throughput); err != nil {
			log.Fatal().Err(err).Msg("throughput measurement failed")
		}
		return
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	report, err := experiments.Run(ctx, e)
	if err != nil {
		log.Fatal().Err(err).Msg("experiment failed")
	}

	wins := map[int]int{}
	for _, record := range report.GameRecords {
		if record.Winner >= 0 {
			wins[record.Agents[record.Winner]]++
		}
	}
	log.Info().
		Int("games", len(report.GameRecords)).
		Int("moves", len(report.MoveRecords)).
		Str("dir", report.Dir).
		Interface("wins", wins).
		Msgf("%s experiment done", e.Name)
}

func loadExperiment(path, preset string) (config.Experiment, error) {
	switch {
	case path != "" && preset != "":
		return config.Experiment{}, fmt.Errorf("-config and -experiment are exclusive")
	case path != "":
		return config.Load(path)
	case preset != "":
		create, ok := experiments.Presets[preset]
		if !ok {
			return config.Experiment{}, fmt.Errorf("unknown experiment %q", preset)
		}
		return create(), nil
	default:
		return config.Default(), nil
	}
}

func presetNames() []string {
	names := make([]string, 0, len(experiments.Presets))
	for name := range experiments.Presets {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}
