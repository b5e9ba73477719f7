package memory

import (
	"context"
	"sync"
	"time"

	"github.com/airsig/airsig-go/internal/core/domain"
)

// Store provides in-memory session storage with a signature index and
// change notification.
//
// A single store-wide mutex guards the primary map and the signature
// index together. That is deliberate: the waiting -> matched conditional
// update must observe and modify status atomically with respect to every
// other query, and the index must never drift from the primary map.
type Store struct {
	mu       sync.RWMutex
	sessions map[string]*domain.Session
	index    *signatureIndex

	hub *watchHub
}

// New creates a new in-memory store.
func New() *Store {
	return &Store{
		sessions: make(map[string]*domain.Session),
		index:    newSignatureIndex(),
		hub:      newWatchHub(),
	}
}

// Insert stores a new waiting session.
func (s *Store) Insert(_ context.Context, session *domain.Session) error {
	if err := session.Validate(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.sessions[session.ID]; ok {
		return domain.ErrSessionConflict
	}

	clone := session.Clone()
	s.sessions[session.ID] = clone
	s.index.add(clone.GestureHash, clone.ID)

	return nil
}

// Get retrieves a session by ID. The record is returned as stored, even
// past its TTL; expiry is a match-time filter, not a read error.
func (s *Store) Get(_ context.Context, id string) (*domain.Session, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	session, ok := s.sessions[id]
	if !ok {
		return nil, domain.ErrSessionNotFound
	}
	return session.Clone(), nil
}

// FindWaiting returns the eligible match candidates for a signature:
// status waiting and expires_at > now, newest created first.
func (s *Store) FindWaiting(_ context.Context, signature string, nowMilli int64) ([]*domain.Session, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []*domain.Session
	for _, id := range s.index.newestFirst(signature) {
		session, ok := s.sessions[id]
		if !ok {
			continue
		}
		if !session.Matchable(nowMilli) {
			continue
		}
		out = append(out, session.Clone())
	}
	return out, nil
}

// MatchWaiting atomically transitions a session from waiting to matched.
//
// The transition succeeds only when the session still has status waiting
// and its TTL has not lapsed at matchedAt. Of two receivers racing for
// the same session, exactly one gets the updated record; the other gets
// ErrStatusConflict (or ErrSessionExpired) and must treat it as a normal
// no-match outcome.
func (s *Store) MatchWaiting(_ context.Context, id string, matchedAt int64) (*domain.Session, error) {
	s.mu.Lock()
	session, ok := s.sessions[id]
	if !ok {
		s.mu.Unlock()
		return nil, domain.ErrSessionNotFound
	}
	if session.Status != domain.StatusWaiting {
		s.mu.Unlock()
		return nil, domain.ErrStatusConflict
	}
	if session.IsExpiredAt(matchedAt) {
		s.mu.Unlock()
		return nil, domain.ErrSessionExpired
	}

	session.Status = domain.StatusMatched
	session.MatchedAt = matchedAt
	clone := session.Clone()
	s.mu.Unlock()

	s.hub.notify(clone)
	return clone.Clone(), nil
}

// Complete stamps a session completed.
//
// The write is idempotent and, per protocol, does not require the session
// to be in matched state first; callers are expected to complete only
// sessions they successfully matched.
func (s *Store) Complete(_ context.Context, id string, completedAt int64) (*domain.Session, error) {
	s.mu.Lock()
	session, ok := s.sessions[id]
	if !ok {
		s.mu.Unlock()
		return nil, domain.ErrSessionNotFound
	}

	if session.Status == domain.StatusCompleted {
		clone := session.Clone()
		s.mu.Unlock()
		return clone, nil
	}

	session.Status = domain.StatusCompleted
	session.CompletedAt = completedAt
	clone := session.Clone()
	s.mu.Unlock()

	s.hub.notify(clone)
	return clone.Clone(), nil
}

// Subscribe registers fn for every subsequent change of the session and
// returns a cancel function.
func (s *Store) Subscribe(id string, fn func(*domain.Session)) func() {
	return s.hub.subscribe(id, fn)
}

// SweepExpired stamps every lapsed waiting session expired and returns
// the swept records. Matching never depends on this sweep: the time
// filter in FindWaiting and MatchWaiting already excludes lapsed
// sessions. The sweep exists for subscribers and retention.
func (s *Store) SweepExpired(_ context.Context, nowMilli int64) ([]*domain.Session, error) {
	s.mu.Lock()
	var swept []*domain.Session
	for _, session := range s.sessions {
		if session.Status == domain.StatusWaiting && session.IsExpiredAt(nowMilli) {
			session.Status = domain.StatusExpired
			swept = append(swept, session.Clone())
		}
	}
	s.mu.Unlock()

	for _, session := range swept {
		s.hub.notify(session)
	}
	return swept, nil
}

// Delete removes a session and its index entry.
func (s *Store) Delete(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	session, ok := s.sessions[id]
	if !ok {
		return domain.ErrSessionNotFound
	}
	delete(s.sessions, id)
	s.index.remove(session.GestureHash, id)

	return nil
}

// All returns every stored session.
func (s *Store) All(_ context.Context) ([]*domain.Session, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]*domain.Session, 0, len(s.sessions))
	for _, session := range s.sessions {
		out = append(out, session.Clone())
	}
	return out, nil
}

// Load seeds the store from previously persisted sessions, rebuilding
// the signature index. Used at startup by the archive recovery path.
func (s *Store) Load(sessions []*domain.Session) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, session := range sessions {
		if _, ok := s.sessions[session.ID]; ok {
			continue
		}
		clone := session.Clone()
		s.sessions[clone.ID] = clone
		s.index.add(clone.GestureHash, clone.ID)
	}
}

// Count returns the total number of stored sessions.
func (s *Store) Count() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.sessions)
}

// CountWaiting returns the number of matchable sessions right now.
func (s *Store) CountWaiting() int {
	now := time.Now().UnixMilli()

	s.mu.RLock()
	defer s.mu.RUnlock()

	n := 0
	for _, session := range s.sessions {
		if session.Matchable(now) {
			n++
		}
	}
	return n
}
