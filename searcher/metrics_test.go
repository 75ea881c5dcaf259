package searcher

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMetricsCollector(t *testing.T) {
	m := NewMetricsCollector()
	m.Start()
	m.AddIteration()
	m.AddIteration()
	m.AddFullPlayout()
	m.AddCutoffPlayout()

	got := m.Complete()
	assert.Equal(t, 2, got.Iterations)
	assert.Equal(t, 1, got.FullPlayouts)
	assert.Equal(t, 1, got.CutoffPlayouts)
	assert.False(t, got.StartTime.IsZero())

	m.Start()
	got = m.Complete()
	assert.Zero(t, got.Iterations, "Start should reset the counters")
	assert.Zero(t, got.FullPlayouts)
	assert.Zero(t, got.CutoffPlayouts)
}

func TestSharedMetricsCollector(t *testing.T) {
	config := newMockConfig(mockRules{players: 2, branching: 3, maxDepth: 3}, pseudoScores(2))
	config.Metrics = NewMetricsCollector()
	factory := CreateTree(config)

	for range 2 {
		result, err := FindBestNode(factory(mockState{}, 0), WithMaxIterations(15))

		assert.NoError(t, err)
		assert.Equal(t, 15, result.Metrics.Iterations, "Each search should count its own iterations")
	}
}

func TestNoMetricsCollector(t *testing.T) {
	config := newMockConfig(mockRules{players: 2, branching: 3, maxDepth: 3}, pseudoScores(2))
	config.Metrics = NewNoMetricsCollector()
	tree := CreateTree(config)(mockState{}, 0)

	result, err := FindBestNode(tree, WithMaxIterations(15))

	assert.NoError(t, err)
	assert.Equal(t, 15, result.IterationCount)
	assert.Zero(t, result.Metrics.Iterations)
	assert.Equal(t, tree.Len(), result.Metrics.TreeSize)
}
