package searcher

import (
	"fmt"
	"math"
)

// Hyperparameters for MCTS

// DefaultExploration is the UCT exploration constant C.
const DefaultExploration = math.Sqrt2

// UctFormula scores a child from the perspective of the player acting at its
// parent. childScore is the child's accumulated score for that player.
type UctFormula func(parentVisits, childVisits int, childScore float64) float64

// DefaultUctFormula returns q/n + c*sqrt(ln(N)/n), and +Inf for unvisited children.
func DefaultUctFormula(c float64) UctFormula {
	cSquared := c * c
	return func(parentVisits, childVisits int, childScore float64) float64 {
		if childVisits == 0 { // Prioritize unexplored nodes
			return math.Inf(1)
		}
		return newUCT(cSquared, float64(parentVisits)).evaluate(childScore, float64(childVisits))
	}
}

type uct struct {
	numerator float64
}

func newUCT(cSquared float64, N float64) uct {
	if N == 0 {
		panic("N cannot be 0")
	}
	return uct{numerator: cSquared * math.Log(N)}
}

func (u uct) evaluate(q float64, n float64) float64 {
	if n == 0 {
		panic("n cannot be 0")
	}
	// UCT = q/n + sqrt(c^2*ln(N)/n)
	return q/n + math.Sqrt(u.numerator/n)
}

// FinalPolicy picks the child of the root reported as the search result.
type FinalPolicy int

const (
	// BestChildMostVisits picks the robust child, the default.
	BestChildMostVisits FinalPolicy = iota
	// BestChildAverageScore picks the child with the best average score for the
	// player acting at the root.
	BestChildAverageScore
)

func (p FinalPolicy) String() string {
	switch p {
	case BestChildMostVisits:
		return "most-visits"
	case BestChildAverageScore:
		return "average-score"
	default:
		return "unknown"
	}
}

// ParseFinalPolicy reads a policy by name. The empty name is the default.
func ParseFinalPolicy(name string) (FinalPolicy, error) {
	switch name {
	case "", BestChildMostVisits.String():
		return BestChildMostVisits, nil
	case BestChildAverageScore.String():
		return BestChildAverageScore, nil
	default:
		return 0, fmt.Errorf("unknown final policy %q", name)
	}
}

// RolloutPolicy decides how playout moves are chosen.
type RolloutPolicy int

const (
	// RolloutHeuristic uses the rules' NextMove when they implement Heuristic,
	// uniform random choice otherwise.
	RolloutHeuristic RolloutPolicy = iota
	// RolloutRandom always picks uniformly at random.
	RolloutRandom
)

func (p RolloutPolicy) String() string {
	switch p {
	case RolloutHeuristic:
		return "heuristic"
	case RolloutRandom:
		return "random"
	default:
		return "unknown"
	}
}

// ParseRolloutPolicy reads a policy by name. The empty name is the default.
func ParseRolloutPolicy(name string) (RolloutPolicy, error) {
	switch name {
	case "", RolloutHeuristic.String():
		return RolloutHeuristic, nil
	case RolloutRandom.String():
		return RolloutRandom, nil
	default:
		return 0, fmt.Errorf("unknown rollout policy %q", name)
	}
}

// ExpansionPolicy decides which untried move is expanded next.
type ExpansionPolicy int

const (
	// ExpandInOrder expands untried moves in the order AvailableMoves returned them.
	ExpandInOrder ExpansionPolicy = iota
	// ExpandRandom expands a uniformly random untried move.
	ExpandRandom
)
