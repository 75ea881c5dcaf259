package searcher

import (
	"math"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestNewUCT(t *testing.T) {
	t.Run("panics with zero parent visits", func(t *testing.T) {
		require.Panics(t, func() {
			newUCT(2.0, 0)
		}, "Should panic when N is 0")
	})
}

func TestUCTEvaluate(t *testing.T) {
	t.Run("computing UCT value", func(t *testing.T) {
		policy := newUCT(2.0, 100)
		got := policy.evaluate(5.0, 10)

		expected := 5.0/10 + math.Sqrt(2.0*math.Log(100)/10.0)
		require.InDelta(t, expected, got, 0.0001,
			"Should compute q/n + sqrt(c^2*ln(N)/n)")
	})

	t.Run("panics with zero child visits", func(t *testing.T) {
		policy := newUCT(2.0, 100)

		require.Panics(t, func() {
			policy.evaluate(5.0, 0)
		}, "Should panic when n is 0")
	})

	t.Run("exploration term increases with parent visits", func(t *testing.T) {
		policy1 := newUCT(2.0, 100)
		policy2 := newUCT(2.0, 1000)

		require.Greater(t, policy2.evaluate(5.0, 10), policy1.evaluate(5.0, 10),
			"More parent visits should increase exploration term")
	})

	t.Run("exploration term decreases with child visits", func(t *testing.T) {
		policy := newUCT(2.0, 100)

		require.Greater(t, policy.evaluate(5.0, 10), policy.evaluate(5.0, 20),
			"More child visits should decrease exploration term")
	})

	t.Run("exploitation term increases with rewards", func(t *testing.T) {
		policy := newUCT(2.0, 100)

		require.Greater(t, policy.evaluate(10.0, 10), policy.evaluate(5.0, 10),
			"More rewards should increase exploitation term")
	})
}

func TestDefaultUctFormula(t *testing.T) {
	t.Run("unvisited child is infinitely attractive", func(t *testing.T) {
		formula := DefaultUctFormula(DefaultExploration)

		require.Equal(t, math.Inf(1), formula(10, 0, 0))
	})

	t.Run("matching average plus exploration", func(t *testing.T) {
		c := 0.7
		formula := DefaultUctFormula(c)

		expected := 3.0/4 + c*math.Sqrt(math.Log(20)/4)
		require.InDelta(t, expected, formula(20, 4, 3), 1e-9)
	})

	t.Run("zero exploration is the average score", func(t *testing.T) {
		formula := DefaultUctFormula(0)

		require.InDelta(t, 0.25, formula(50, 8, 2), 1e-9)
	})
	t.Run("exploring with root two by default", func(t *testing.T) {
		const exploration float64 = DefaultExploration
		config := newMockConfig(mockRules{players: 2, branching: 2}, pseudoScores(2)).withDefaults()

		require.Equal(t, math.Sqrt2, exploration)
		expected := 3.0/4 + math.Sqrt2*math.Sqrt(math.Log(20)/4)
		require.InDelta(t, expected, config.CalcUct(20, 4, 3), 1e-9)
	})
}

func TestParsePolicies(t *testing.T) {
	final, err := ParseFinalPolicy("")
	require.NoError(t, err)
	require.Equal(t, BestChildMostVisits, final)

	final, err = ParseFinalPolicy(BestChildAverageScore.String())
	require.NoError(t, err)
	require.Equal(t, BestChildAverageScore, final)

	_, err = ParseFinalPolicy("best")
	require.Error(t, err)

	rollout, err := ParseRolloutPolicy("random")
	require.NoError(t, err)
	require.Equal(t, RolloutRandom, rollout)

	rollout, err = ParseRolloutPolicy("")
	require.NoError(t, err)
	require.Equal(t, RolloutHeuristic, rollout)

	_, err = ParseRolloutPolicy("greedy")
	require.Error(t, err)
}
