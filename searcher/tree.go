package searcher

import (
	"errors"
	"fmt"
	"math"
	"slices"
	"time"

	"github.com/google/uuid"
	"golang.org/x/exp/rand"
)

// DefaultMaxPlayoutMoves caps a playout that never reaches a final state.
const DefaultMaxPlayoutMoves = 1000

var (
	ErrMissingRules  = errors.New("missing game rules")
	ErrMissingScores = errors.New("missing score function")
	ErrTerminalRoot  = errors.New("root state is final")
)

// ScoreRange is the closed interval every playout score must lie in.
type ScoreRange struct {
	Min float64
	Max float64
}

func (r ScoreRange) contains(score float64) bool {
	return score >= r.Min && score <= r.Max
}

// Config bundles the game contracts and the search tuning shared by every tree
// built from it.
type Config[S any, M comparable] struct {
	CalcScores ScoreFunc[S]
	CalcUct    UctFormula
	GameRules  Rules[S, M]
	Notifier   Notifier[M] // Optional

	MaxPlayoutMoves int        // Defaults to DefaultMaxPlayoutMoves
	ScoreRange      ScoreRange // Defaults to [0, 1]
	FinalPolicy     FinalPolicy
	Rollout         RolloutPolicy
	Expansion       ExpansionPolicy
	Rand            *rand.Rand       // Defaults to a time-seeded source
	Metrics         MetricsCollector // Defaults to a counting collector
}

// Validate reports configuration errors. Zero-valued optional fields are valid.
func (c Config[S, M]) Validate() error {
	if c.GameRules == nil {
		return ErrMissingRules
	}
	if c.CalcScores == nil {
		return ErrMissingScores
	}
	if c.MaxPlayoutMoves < 0 {
		return fmt.Errorf("invalid max playout moves %d", c.MaxPlayoutMoves)
	}
	if c.ScoreRange != (ScoreRange{}) && c.ScoreRange.Min >= c.ScoreRange.Max {
		return fmt.Errorf("invalid score range [%v, %v]", c.ScoreRange.Min, c.ScoreRange.Max)
	}
	return nil
}

func (c Config[S, M]) withDefaults() Config[S, M] {
	if c.CalcUct == nil {
		c.CalcUct = DefaultUctFormula(DefaultExploration)
	}
	if c.MaxPlayoutMoves == 0 {
		c.MaxPlayoutMoves = DefaultMaxPlayoutMoves
	}
	if c.ScoreRange == (ScoreRange{}) {
		c.ScoreRange = ScoreRange{Min: 0, Max: 1}
	}
	if c.Rand == nil {
		c.Rand = rand.New(rand.NewSource(uint64(time.Now().UnixNano())))
	}
	if c.Metrics == nil {
		c.Metrics = NewMetricsCollector()
	}
	return c
}

// Tree is a search tree for a single decision. Nodes live in an arena and are
// addressed by NodeID; the root is always Root().
type Tree[S any, M comparable] struct {
	config     Config[S, M]
	heuristic  Heuristic[S, M]
	nodes      []node[S, M]
	rootPlayer int
	id         string
	err        error

	iterations int
	start      time.Time
}

// TreeFactory builds a one-node tree wrapping the initial state.
type TreeFactory[S any, M comparable] func(initial S, rootPlayer int) *Tree[S, M]

// CreateTree returns a factory of trees sharing config. An invalid config is
// reported by FindBestNode on every tree the factory builds.
func CreateTree[S any, M comparable](config Config[S, M]) TreeFactory[S, M] {
	err := config.Validate()
	config = config.withDefaults()

	var heuristic Heuristic[S, M]
	if h, ok := config.GameRules.(Heuristic[S, M]); ok && config.Rollout == RolloutHeuristic {
		heuristic = h
	}

	return func(initial S, rootPlayer int) *Tree[S, M] {
		t := &Tree[S, M]{
			config:     config,
			heuristic:  heuristic,
			rootPlayer: rootPlayer,
			id:         uuid.NewString(),
		}
		if err != nil {
			t.err = fmt.Errorf("invalid search config: %w", err)
			return t
		}

		var noMove M
		t.nodes = []node[S, M]{newNode(config.GameRules, NoParent, noMove, initial, 0)}
		t.notify(NodeCreated, t.Root())
		return t
	}
}

// Root is the id of the root node.
func (t *Tree[S, M]) Root() NodeID {
	return 0
}

// ID identifies the tree in notifications.
func (t *Tree[S, M]) ID() string {
	return t.id
}

// RootPlayer is the player index the tree was created for.
func (t *Tree[S, M]) RootPlayer() int {
	return t.rootPlayer
}

// Len is the number of nodes in the tree.
func (t *Tree[S, M]) Len() int {
	return len(t.nodes)
}

// Iterations is the number of completed search iterations.
func (t *Tree[S, M]) Iterations() int {
	return t.iterations
}

func (t *Tree[S, M]) Snapshot(id NodeID) Snapshot[M] {
	return t.nodes[id].snapshot(id)
}

func (t *Tree[S, M]) Move(id NodeID) M {
	return t.nodes[id].move
}

func (t *Tree[S, M]) State(id NodeID) S {
	return t.nodes[id].state
}

func (t *Tree[S, M]) Parent(id NodeID) NodeID {
	return t.nodes[id].parent
}

func (t *Tree[S, M]) Children(id NodeID) []NodeID {
	return slices.Clone(t.nodes[id].children)
}

func (t *Tree[S, M]) UntriedMoves(id NodeID) []M {
	return slices.Clone(t.nodes[id].untried)
}

// selectThenExpand descends by UCT from the root and expands the first node
// with untried moves. A final node is returned as is.
func (t *Tree[S, M]) selectThenExpand() NodeID {
	id := t.Root()
	for !t.nodes[id].final && t.nodes[id].isFullyExpanded() {
		id = t.pickChild(id)
	}
	if t.nodes[id].final {
		return id
	}
	return t.expand(id)
}

// pickChild returns the child maximizing the UCT value for the player acting
// at id. Ties go to the first child in insertion order.
func (t *Tree[S, M]) pickChild(id NodeID) NodeID {
	parent := &t.nodes[id]
	if parent.visits == 0 {
		panic("node has children but no visits")
	}

	maxID := parent.children[0]
	maxScore := math.Inf(-1)
	for _, childID := range parent.children {
		child := &t.nodes[childID]
		if child.visits == 0 { // Every sibling is tried once before any revisit
			return childID
		}
		score := t.config.CalcUct(parent.visits, child.visits, child.scores[parent.player])
		if score > maxScore {
			maxScore = score
			maxID = childID
		}
	}
	return maxID
}

func (t *Tree[S, M]) expand(id NodeID) NodeID {
	i := 0
	if t.config.Expansion == ExpandRandom {
		i = t.config.Rand.Intn(len(t.nodes[id].untried))
	}
	move := t.nodes[id].takeUntried(i)
	state := t.config.GameRules.NextState(t.nodes[id].state, move)
	child := newNode(t.config.GameRules, id, move, state, t.nodes[id].depth+1)

	// Appending may move the arena, so index again afterwards
	t.nodes = append(t.nodes, child)
	childID := NodeID(len(t.nodes) - 1)
	t.nodes[id].children = append(t.nodes[id].children, childID)

	t.notify(NodeCreated, childID)
	return childID
}

func (t *Tree[S, M]) backup(id NodeID, scores []float64) {
	for id != NoParent {
		t.nodes[id].update(scores)
		id = t.nodes[id].parent
	}
}

// bestChild returns the root child chosen by the final policy, or NoParent
// when the root has no children.
func (t *Tree[S, M]) bestChild() NodeID {
	root := &t.nodes[t.Root()]

	best := NoParent
	for _, childID := range root.children {
		if best == NoParent || t.better(childID, best, root.player) {
			best = childID
		}
	}
	return best
}

func (t *Tree[S, M]) better(a, b NodeID, player int) bool {
	na, nb := &t.nodes[a], &t.nodes[b]
	switch t.config.FinalPolicy {
	case BestChildAverageScore:
		return na.average(player) > nb.average(player)
	default:
		return na.visits > nb.visits
	}
}
