package searcher

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestCreateTree(t *testing.T) {
	t.Run("wrapping the initial state in a root", func(t *testing.T) {
		tree := newMockTree(mockRules{players: 2, branching: 3, maxDepth: 2}, winningMove(0))

		root := tree.Snapshot(tree.Root())
		require.Equal(t, 1, tree.Len(), "Tree should start with the root only")
		require.True(t, root.IsRoot(), "Root should have no parent")
		require.Equal(t, 0, root.Visits)
		require.Equal(t, 3, root.UntriedMoves, "Root should start with every legal move untried")
		require.Equal(t, []float64{0, 0}, root.Scores)
		require.Equal(t, mockState{}, tree.State(tree.Root()))
		require.Equal(t, 0, tree.RootPlayer())
		require.NotEmpty(t, tree.ID())
	})

	t.Run("notifying the root creation", func(t *testing.T) {
		var got []Notification[int]
		config := newMockConfig(mockRules{players: 2, branching: 3, maxDepth: 2}, winningMove(0))
		config.Notifier = NotifierFunc[int](func(n Notification[int]) {
			got = append(got, n)
		})

		tree := CreateTree(config)(mockState{}, 0)

		require.Len(t, got, 1)
		require.Equal(t, NodeCreated, got[0].Kind)
		require.Equal(t, tree.Root(), got[0].Node.ID)
		require.Equal(t, tree.ID(), got[0].SearchID)
	})

	t.Run("reporting an invalid config on search", func(t *testing.T) {
		tests := []struct {
			name   string
			config Config[mockState, int]
		}{
			{"missing rules", Config[mockState, int]{CalcScores: winningMove(0)}},
			{"missing scores", Config[mockState, int]{GameRules: mockRules{players: 2, branching: 2, maxDepth: 2}}},
			{"negative cutoff", Config[mockState, int]{
				CalcScores:      winningMove(0),
				GameRules:       mockRules{players: 2, branching: 2, maxDepth: 2},
				MaxPlayoutMoves: -1,
			}},
			{"empty score range", Config[mockState, int]{
				CalcScores: winningMove(0),
				GameRules:  mockRules{players: 2, branching: 2, maxDepth: 2},
				ScoreRange: ScoreRange{Min: 1, Max: 1},
			}},
		}
		for _, tt := range tests {
			t.Run(tt.name, func(t *testing.T) {
				require.Error(t, tt.config.Validate())

				tree := CreateTree(tt.config)(mockState{}, 0)
				_, err := FindBestNode(tree, WithMaxIterations(1))

				require.ErrorContains(t, err, "invalid search config")
			})
		}
	})

	t.Run("wrapping sentinel config errors", func(t *testing.T) {
		tree := CreateTree(Config[mockState, int]{CalcScores: winningMove(0)})(mockState{}, 0)

		_, err := FindBestNode(tree)

		require.ErrorIs(t, err, ErrMissingRules)
	})
}

func TestSelectThenExpand(t *testing.T) {
	t.Run("expanding the first untried move of the root", func(t *testing.T) {
		tree := newMockTree(mockRules{players: 2, branching: 3, maxDepth: 2}, winningMove(0))

		got := tree.selectThenExpand()

		require.Equal(t, NodeID(1), got)
		require.Equal(t, 0, tree.Move(got), "Node should expand moves in order")
		require.Equal(t, []int{1, 2}, tree.UntriedMoves(tree.Root()), "Expanded move should leave the untried moves")
		require.Equal(t, []NodeID{got}, tree.Children(tree.Root()))
		require.Equal(t, tree.Root(), tree.Parent(got))
		require.Equal(t, mockState{player: 1, depth: 1, history: "0"}, tree.State(got))

		child := tree.Snapshot(got)
		require.Equal(t, 0, child.Visits, "New child should be unvisited")
		require.Equal(t, []float64{0, 0}, child.Scores)
		require.Equal(t, 3, child.UntriedMoves)
		require.Equal(t, 1, child.Depth)
		require.Equal(t, 1, child.Player)
	})

	t.Run("returning a final node as is", func(t *testing.T) {
		tree := newMockTree(mockRules{players: 2, branching: 1, maxDepth: 1}, winningMove(0))
		tree.simulate()

		got := tree.selectThenExpand()

		require.Equal(t, NodeID(1), got, "Selection should stop at the final child")
		require.True(t, tree.Snapshot(got).Final)
		require.Equal(t, 2, tree.Len(), "Final node should never expand")
	})

	t.Run("expanding at random", func(t *testing.T) {
		config := newMockConfig(mockRules{players: 2, branching: 4, maxDepth: 2}, winningMove(0))
		config.Expansion = ExpandRandom
		tree := CreateTree(config)(mockState{}, 0)

		got := tree.selectThenExpand()

		require.Contains(t, []int{0, 1, 2, 3}, tree.Move(got))
		require.NotContains(t, tree.UntriedMoves(tree.Root()), tree.Move(got))
		require.Len(t, tree.UntriedMoves(tree.Root()), 3)
	})
}

// expandedRoot returns a tree whose root has one child per move, all unvisited.
func expandedRoot(t *testing.T, branching int) *Tree[mockState, int] {
	t.Helper()
	tree := newMockTree(mockRules{players: 2, branching: branching, maxDepth: 2}, winningMove(0))
	for range branching {
		tree.expand(tree.Root())
	}
	require.Empty(t, tree.UntriedMoves(tree.Root()))
	return tree
}

func TestPickChild(t *testing.T) {
	t.Run("preferring an unvisited child", func(t *testing.T) {
		tree := expandedRoot(t, 3)
		tree.nodes[0].visits = 5
		tree.nodes[1].visits = 5
		tree.nodes[1].scores = []float64{5, 0}

		require.Equal(t, NodeID(2), tree.pickChild(tree.Root()))
	})

	t.Run("maximizing UCT for the acting player", func(t *testing.T) {
		tree := expandedRoot(t, 3)
		tree.nodes[0].visits = 6
		tree.nodes[1].visits, tree.nodes[1].scores = 2, []float64{0.2, 1.8}
		tree.nodes[2].visits, tree.nodes[2].scores = 2, []float64{1.8, 0.2}
		tree.nodes[3].visits, tree.nodes[3].scores = 2, []float64{1, 1}

		require.Equal(t, NodeID(2), tree.pickChild(tree.Root()), "Player 0 should pick its best child")

		tree.nodes[0].player = 1
		require.Equal(t, NodeID(1), tree.pickChild(tree.Root()), "Player 1 should pick its best child")
	})

	t.Run("breaking ties by insertion order", func(t *testing.T) {
		tree := expandedRoot(t, 3)
		tree.nodes[0].visits = 6
		for _, id := range []NodeID{1, 2, 3} {
			tree.nodes[id].visits, tree.nodes[id].scores = 2, []float64{1, 1}
		}

		require.Equal(t, NodeID(1), tree.pickChild(tree.Root()))
	})

	t.Run("panicking when the parent has no visits", func(t *testing.T) {
		tree := expandedRoot(t, 2)

		require.Panics(t, func() {
			tree.pickChild(tree.Root())
		})
	})
}

func TestBackup(t *testing.T) {
	tree := newMockTree(mockRules{players: 2, branching: 2, maxDepth: 3}, winningMove(0))
	first := tree.expand(tree.Root())
	sibling := tree.expand(tree.Root())
	grandChild := tree.expand(first)

	tree.backup(grandChild, []float64{0.25, 0.75})

	for _, id := range []NodeID{grandChild, first, tree.Root()} {
		got := tree.Snapshot(id)
		require.Equal(t, 1, got.Visits, "Every ancestor should record the visit")
		require.Equal(t, []float64{0.25, 0.75}, got.Scores, "Every ancestor should share the same evaluation")
	}
	got := tree.Snapshot(sibling)
	require.Equal(t, 0, got.Visits, "Siblings should not change")
	require.Equal(t, []float64{0, 0}, got.Scores, "Siblings should not change")
}

func TestBestChild(t *testing.T) {
	t.Run("choosing by visits or by average", func(t *testing.T) {
		tree := expandedRoot(t, 2)
		tree.nodes[1].visits, tree.nodes[1].scores = 10, []float64{2, 8}
		tree.nodes[2].visits, tree.nodes[2].scores = 3, []float64{2.7, 0.3}

		require.Equal(t, NodeID(1), tree.bestChild(), "Robust child should have the most visits")

		tree.config.FinalPolicy = BestChildAverageScore
		require.Equal(t, NodeID(2), tree.bestChild(), "Best average should win for the root player")
	})

	t.Run("breaking ties by insertion order", func(t *testing.T) {
		tree := expandedRoot(t, 3)
		for _, id := range []NodeID{1, 2, 3} {
			tree.nodes[id].visits, tree.nodes[id].scores = 4, []float64{2, 2}
		}

		require.Equal(t, NodeID(1), tree.bestChild())

		tree.config.FinalPolicy = BestChildAverageScore
		require.Equal(t, NodeID(1), tree.bestChild())
	})

	t.Run("reporting no child", func(t *testing.T) {
		tree := newMockTree(mockRules{players: 2, branching: 2, maxDepth: 2}, winningMove(0))

		require.Equal(t, NoParent, tree.bestChild())
	})
}

func TestTreeInvariants(t *testing.T) {
	rules := mockRules{players: 3, branching: 3, maxDepth: 4}
	config := newMockConfig(rules, pseudoScores(3))
	config.Expansion = ExpandRandom
	tree := CreateTree(config)(mockState{}, 0)

	result, err := FindBestNode(tree, WithMaxIterations(300))
	require.NoError(t, err)

	for i := range tree.Len() {
		id := NodeID(i)
		n := tree.Snapshot(id)
		state := tree.State(id)

		moves := tree.UntriedMoves(id)
		childVisits := 0
		for _, childID := range tree.Children(id) {
			require.Equal(t, id, tree.Parent(childID))
			require.Equal(t, rules.NextState(state, tree.Move(childID)), tree.State(childID),
				"Child state should follow from its move")
			moves = append(moves, tree.Move(childID))
			childVisits += tree.Snapshot(childID).Visits
		}
		require.ElementsMatch(t, rules.AvailableMoves(state), moves,
			"Untried and expanded moves should partition the legal moves")
		require.Equal(t, rules.CurrentPlayerIndex(state), n.Player)

		switch {
		case n.IsRoot():
			require.Equal(t, result.IterationCount, n.Visits, "Root visits should equal the iteration count")
			require.Equal(t, n.Visits, childVisits)
		case n.Final:
			require.Zero(t, n.Children, "Final node should never expand")
			require.Positive(t, n.Visits)
		default:
			require.Equal(t, 1+childVisits, n.Visits, "Node visits should be its own playout plus its children's")
		}
	}
}
