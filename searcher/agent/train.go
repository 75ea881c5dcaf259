package agent

import (
	"fmt"
	"math"

	"golang.org/x/exp/rand"

	"uctsearch/searcher"
)

type samplingAgent[S any, M comparable] struct {
	mcts        mcts[S, M]
	temperature float64
	rng         *rand.Rand
}

// NewSamplingAgent returns an agent for self-play that samples the root moves
// in proportion to their visit counts raised to 1/temperature. Low temperatures
// approach the robust child, high ones approach uniform play.
func NewSamplingAgent[S any, M comparable](config searcher.Config[S, M], temperature float64, rng *rand.Rand, options ...searcher.Option) Agent[S, M] {
	if temperature <= 0 {
		panic("temperature must be positive")
	}
	return samplingAgent[S, M]{
		mcts:        newMCTS(config, options),
		temperature: temperature,
		rng:         rng,
	}
}

type weightedMove[M comparable] struct {
	move   M
	weight float64
}

func (a samplingAgent[S, M]) FindMove(state S) (M, searcher.SearchMetrics, error) {
	if move, ok := shortcut(a.mcts.rules, state); ok {
		return move, shortcutMetrics(), nil
	}

	tree, result, err := a.mcts.search(state)
	if err != nil {
		var move M
		return move, searcher.SearchMetrics{}, fmt.Errorf("failed to find move: %w", err)
	}

	policy := visitPolicy(tree)
	policy = adjustTemperature(policy, a.temperature)
	return sample(policy, a.rng), result.Metrics, nil
}

// visitPolicy lists the root moves with their visit counts in expansion order.
func visitPolicy[S any, M comparable](tree *searcher.Tree[S, M]) []weightedMove[M] {
	children := tree.Children(tree.Root())
	policy := make([]weightedMove[M], len(children))
	for i, id := range children {
		policy[i] = weightedMove[M]{move: tree.Move(id), weight: float64(tree.Snapshot(id).Visits)}
	}
	return policy
}

func adjustTemperature[M comparable](policy []weightedMove[M], temperature float64) []weightedMove[M] {
	// Scale by the largest weight so it becomes 1 and the power cannot overflow
	maxWeight := 0.0
	for _, wm := range policy {
		maxWeight = max(maxWeight, wm.weight)
	}

	// Compute temperature-adjusted move probabilities
	exponent := 1.0 / temperature
	sum := 0.0
	adjusted := make([]weightedMove[M], len(policy))
	for i, wm := range policy {
		prob := 1.0 // Uniform when nothing was visited
		if maxWeight > 0 {
			prob = math.Pow(wm.weight/maxWeight, exponent)
		}
		sum += prob
		adjusted[i] = weightedMove[M]{move: wm.move, weight: prob}
	}
	// Normalize
	for i := range adjusted {
		adjusted[i].weight /= sum
	}
	return adjusted
}

func sample[M comparable](policy []weightedMove[M], rng *rand.Rand) M {
	sampled := rng.Float64()
	cumulative := 0.0
	var lastMove M
	for _, wm := range policy {
		lastMove = wm.move
		cumulative += wm.weight
		if sampled < cumulative {
			return wm.move
		}
	}
	return lastMove // Fallback in case of rounding errors
}
