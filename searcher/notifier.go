package searcher

import (
	"time"

	"github.com/rs/zerolog"
)

type NotificationKind int

const (
	NodeCreated NotificationKind = iota
	IterationCompleted
	SearchCompleted
)

func (k NotificationKind) String() string {
	switch k {
	case NodeCreated:
		return "node-created"
	case IterationCompleted:
		return "iteration-completed"
	case SearchCompleted:
		return "search-completed"
	default:
		return "unknown"
	}
}

func (k NotificationKind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

// Notification reports search progress. It never carries a game state.
type Notification[M comparable] struct {
	Kind      NotificationKind `json:"kind"`
	SearchID  string           `json:"searchId"`
	Iteration int              `json:"iteration"`
	Elapsed   time.Duration    `json:"elapsed"`
	Node      Snapshot[M]      `json:"node"`
}

// Notifier observes a search. It runs synchronously on the search goroutine
// and must not modify or block it.
type Notifier[M comparable] interface {
	Notify(n Notification[M])
}

type NotifierFunc[M comparable] func(n Notification[M])

func (f NotifierFunc[M]) Notify(n Notification[M]) {
	f(n)
}

// LogNotifier writes every notification to logger at debug level.
func LogNotifier[M comparable](logger zerolog.Logger) Notifier[M] {
	return NotifierFunc[M](func(n Notification[M]) {
		logger.Debug().
			Stringer("kind", n.Kind).
			Str("search", n.SearchID).
			Int("iteration", n.Iteration).
			Dur("elapsed", n.Elapsed).
			Int("node", int(n.Node.ID)).
			Int("parent", int(n.Node.Parent)).
			Interface("move", n.Node.Move).
			Int("visits", n.Node.Visits).
			Floats64("scores", n.Node.Scores).
			Int("depth", n.Node.Depth).
			Msg("search progress")
	})
}

func (t *Tree[S, M]) notify(kind NotificationKind, id NodeID) {
	if t.config.Notifier == nil {
		return
	}

	var elapsed time.Duration
	if !t.start.IsZero() {
		elapsed = time.Since(t.start)
	}
	t.config.Notifier.Notify(Notification[M]{
		Kind:      kind,
		SearchID:  t.id,
		Iteration: t.iterations,
		Elapsed:   elapsed,
		Node:      t.Snapshot(id),
	})
}
