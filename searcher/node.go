package searcher

import "slices"

// NodeID addresses a node in its tree's arena.
type NodeID int

// NoParent is the parent of the root.
const NoParent NodeID = -1

type node[S any, M comparable] struct {
	state    S
	move     M // Zero value for the root
	parent   NodeID
	children []NodeID
	untried  []M
	visits   int
	scores   []float64
	player   int
	final    bool
	depth    int
}

func newNode[S any, M comparable](rules Rules[S, M], parent NodeID, move M, state S, depth int) node[S, M] {
	final := rules.IsFinal(state)

	var untried []M
	if !final {
		moves := rules.AvailableMoves(state)
		if len(moves) == 0 {
			panic("rules returned no moves for a non-final state")
		}
		// Own a copy so expansion never writes into the rules' slice
		untried = slices.Clone(moves)
	}

	return node[S, M]{
		state:   state,
		move:    move,
		parent:  parent,
		untried: untried,
		scores:  make([]float64, rules.PlayersCount(state)),
		player:  rules.CurrentPlayerIndex(state),
		final:   final,
		depth:   depth,
	}
}

func (n *node[S, M]) isFullyExpanded() bool {
	return len(n.untried) == 0
}

// takeUntried removes and returns the ith untried move, keeping the order of
// the rest.
func (n *node[S, M]) takeUntried(i int) M {
	move := n.untried[i]
	n.untried = slices.Delete(n.untried, i, i+1)
	return move
}

func (n *node[S, M]) update(scores []float64) {
	if len(scores) != len(n.scores) {
		panic("score vector length does not match players count")
	}
	n.visits++
	for i, s := range scores {
		n.scores[i] += s
	}
}

// average is the mean score of player over the node's visits.
func (n *node[S, M]) average(player int) float64 {
	if n.visits == 0 {
		return 0
	}
	return n.scores[player] / float64(n.visits)
}

// Snapshot is a state-free copy of a node's statistics, safe to keep or
// serialize after the tree is discarded.
type Snapshot[M comparable] struct {
	ID           NodeID    `json:"id"`
	Parent       NodeID    `json:"parent"`
	Move         M         `json:"move"`
	Player       int       `json:"player"`
	Visits       int       `json:"visits"`
	Scores       []float64 `json:"scores"`
	Children     int       `json:"children"`
	UntriedMoves int       `json:"untriedMoves"`
	Depth        int       `json:"depth"`
	Final        bool      `json:"final"`
}

// IsRoot reports whether the snapshot was taken from the root, which has no move.
func (s Snapshot[M]) IsRoot() bool {
	return s.Parent == NoParent
}

// Average is the mean score of player over the node's visits.
func (s Snapshot[M]) Average(player int) float64 {
	if s.Visits == 0 {
		return 0
	}
	return s.Scores[player] / float64(s.Visits)
}

func (n *node[S, M]) snapshot(id NodeID) Snapshot[M] {
	return Snapshot[M]{
		ID:           id,
		Parent:       n.parent,
		Move:         n.move,
		Player:       n.player,
		Visits:       n.visits,
		Scores:       slices.Clone(n.scores),
		Children:     len(n.children),
		UntriedMoves: len(n.untried),
		Depth:        n.depth,
		Final:        n.final,
	}
}
