package memory

import (
	"sync"

	"github.com/airsig/airsig-go/internal/core/domain"
)

// watchHub fans session change notifications out to per-session
// subscribers. The creating device uses this to learn that a receiver has
// matched or completed its session without polling.
type watchHub struct {
	mu       sync.Mutex
	nextID   uint64
	watchers map[string]map[uint64]func(*domain.Session)
}

func newWatchHub() *watchHub {
	return &watchHub{
		watchers: make(map[string]map[uint64]func(*domain.Session)),
	}
}

// subscribe registers fn for every subsequent change of the session and
// returns a cancel function. Cancel is idempotent.
func (h *watchHub) subscribe(sessionID string, fn func(*domain.Session)) func() {
	h.mu.Lock()
	defer h.mu.Unlock()

	id := h.nextID
	h.nextID++

	set, ok := h.watchers[sessionID]
	if !ok {
		set = make(map[uint64]func(*domain.Session))
		h.watchers[sessionID] = set
	}
	set[id] = fn

	return func() {
		h.mu.Lock()
		defer h.mu.Unlock()
		set, ok := h.watchers[sessionID]
		if !ok {
			return
		}
		delete(set, id)
		if len(set) == 0 {
			delete(h.watchers, sessionID)
		}
	}
}

// notify delivers a session snapshot to all subscribers of its ID.
// Each subscriber receives its own clone. Delivery runs on the caller's
// goroutine; callbacks must not block.
func (h *watchHub) notify(session *domain.Session) {
	h.mu.Lock()
	fns := make([]func(*domain.Session), 0, len(h.watchers[session.ID]))
	for _, fn := range h.watchers[session.ID] {
		fns = append(fns, fn)
	}
	h.mu.Unlock()

	for _, fn := range fns {
		fn(session.Clone())
	}
}
