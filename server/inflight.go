// server/inflight.go
package server

import (
	"log"
	"sync"
	"time"

	"github.com/google/uuid"
)

const watchInterval = 30 * time.Second

// Tracker follows in-flight chat turns and logs any stuck past the
// stale threshold. A stuck turn usually means the LLM endpoint stopped
// answering without closing the connection.
type Tracker struct {
	mu     sync.Mutex
	turns  map[string]turn
	done   chan struct{}
	stale  time.Duration
	logger *log.Logger
}

type turn struct {
	preview string
	started time.Time
}

// NewTracker starts the watchdog. stale should comfortably exceed the
// LLM request timeout.
func NewTracker(stale time.Duration, logger *log.Logger) *Tracker {
	t := &Tracker{
		turns:  make(map[string]turn),
		done:   make(chan struct{}),
		stale:  stale,
		logger: logger,
	}
	go t.monitor()
	return t
}

// Track registers a turn and returns its ID for Done.
func (t *Tracker) Track(message string) string {
	id := uuid.New().String()

	t.mu.Lock()
	defer t.mu.Unlock()
	t.turns[id] = turn{
		preview: preview(message),
		started: time.Now(),
	}
	return id
}

// Done marks a turn as completed.
func (t *Tracker) Done(id string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	delete(t.turns, id)
}

// InFlight reports the number of active turns.
func (t *Tracker) InFlight() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return len(t.turns)
}

func (t *Tracker) monitor() {
	ticker := time.NewTicker(watchInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			t.checkStale()
		case <-t.done:
			return
		}
	}
}

func (t *Tracker) checkStale() {
	t.mu.Lock()
	defer t.mu.Unlock()

	now := time.Now()
	for id, r := range t.turns {
		if age := now.Sub(r.started); age > t.stale {
			t.logger.Printf("Turn %s stuck for %v: %s", id, age.Round(time.Second), r.preview)
		}
	}
}

// Close stops the watchdog.
func (t *Tracker) Close() error {
	close(t.done)
	return nil
}

func preview(message string) string {
	const max = 80
	if len(message) > max {
		return message[:max] + "..."
	}
	return message
}
