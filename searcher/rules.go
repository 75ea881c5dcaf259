package searcher

// Rules is the game model consumed by the search. Implementations must be pure:
// NextState returns a fresh state and never mutates its argument.
type Rules[S any, M comparable] interface {
	// AvailableMoves returns the legal moves of the player to move. It is never
	// called on a final state and must be non-empty otherwise.
	AvailableMoves(state S) []M
	NextState(state S, move M) S
	CurrentPlayerIndex(state S) int
	IsFinal(state S) bool
	PlayersCount(state S) int
}

// Heuristic is optionally implemented by a Rules value to pick playout moves
// instead of uniform random choice.
type Heuristic[S any, M comparable] interface {
	NextMove(state S) M
}

// ScoreFunc evaluates the state that ends a playout to one score per player,
// each within the configured score range.
type ScoreFunc[S any] func(state S) []float64
