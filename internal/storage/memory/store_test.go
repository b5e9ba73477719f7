package memory

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/airsig/airsig-go/internal/core/domain"
)

func newWaitingSession(t *testing.T, signature string) *domain.Session {
	t.Helper()
	session, err := domain.NewSession(signature, domain.TransferData{
		Type:    domain.TransferText,
		Content: "payload",
	})
	if err != nil {
		t.Fatalf("NewSession failed: %v", err)
	}
	return session
}

func TestInsertAndGet(t *testing.T) {
	store := New()
	ctx := context.Background()

	session := newWaitingSession(t, "01234567")
	if err := store.Insert(ctx, session); err != nil {
		t.Fatalf("Insert failed: %v", err)
	}

	got, err := store.Get(ctx, session.ID)
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if got.ID != session.ID || got.GestureHash != "01234567" {
		t.Errorf("got %+v, want stored session", got)
	}

	// The store must hand out clones, not its own record.
	got.Status = domain.StatusCompleted
	again, err := store.Get(ctx, session.ID)
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if again.Status != domain.StatusWaiting {
		t.Error("mutating a returned session leaked into the store")
	}
}

func TestInsertConflict(t *testing.T) {
	store := New()
	ctx := context.Background()

	session := newWaitingSession(t, "01234567")
	if err := store.Insert(ctx, session); err != nil {
		t.Fatalf("Insert failed: %v", err)
	}
	if err := store.Insert(ctx, session); !domain.IsDomainError(err, domain.ErrSessionConflict.Code) {
		t.Fatalf("expected ErrSessionConflict, got %v", err)
	}
}

func TestGetNotFound(t *testing.T) {
	store := New()

	_, err := store.Get(context.Background(), "asgs-missing")
	if !domain.IsDomainError(err, domain.ErrSessionNotFound.Code) {
		t.Fatalf("expected ErrSessionNotFound, got %v", err)
	}
}

func TestFindWaitingNewestFirst(t *testing.T) {
	store := New()
	ctx := context.Background()

	first := newWaitingSession(t, "1111")
	second := newWaitingSession(t, "1111")
	other := newWaitingSession(t, "2222")
	for _, s := range []*domain.Session{first, second, other} {
		if err := store.Insert(ctx, s); err != nil {
			t.Fatalf("Insert failed: %v", err)
		}
	}

	now := time.Now().UnixMilli()
	found, err := store.FindWaiting(ctx, "1111", now)
	if err != nil {
		t.Fatalf("FindWaiting failed: %v", err)
	}
	if len(found) != 2 {
		t.Fatalf("found %d candidates, want 2", len(found))
	}
	if found[0].ID != second.ID || found[1].ID != first.ID {
		t.Errorf("order = [%s %s], want newest first", found[0].ID, found[1].ID)
	}
}

func TestFindWaitingFiltersLapsedAndClaimed(t *testing.T) {
	store := New()
	ctx := context.Background()

	live := newWaitingSession(t, "1111")
	claimed := newWaitingSession(t, "1111")
	lapsed := newWaitingSession(t, "1111")
	for _, s := range []*domain.Session{live, claimed, lapsed} {
		if err := store.Insert(ctx, s); err != nil {
			t.Fatalf("Insert failed: %v", err)
		}
	}
	if _, err := store.MatchWaiting(ctx, claimed.ID, time.Now().UnixMilli()); err != nil {
		t.Fatalf("MatchWaiting failed: %v", err)
	}

	// Query one millisecond after the third session's TTL lapses.
	found, err := store.FindWaiting(ctx, "1111", lapsed.ExpiresAt+1)
	if err != nil {
		t.Fatalf("FindWaiting failed: %v", err)
	}
	for _, s := range found {
		if s.ID == claimed.ID {
			t.Error("claimed session returned as a candidate")
		}
		if s.ID == lapsed.ID {
			t.Error("lapsed session returned as a candidate")
		}
	}
}

func TestMatchWaiting(t *testing.T) {
	store := New()
	ctx := context.Background()

	session := newWaitingSession(t, "1111")
	if err := store.Insert(ctx, session); err != nil {
		t.Fatalf("Insert failed: %v", err)
	}

	at := time.Now().UnixMilli()
	matched, err := store.MatchWaiting(ctx, session.ID, at)
	if err != nil {
		t.Fatalf("MatchWaiting failed: %v", err)
	}
	if matched.Status != domain.StatusMatched || matched.MatchedAt != at {
		t.Errorf("got %+v, want matched at %d", matched, at)
	}

	// Second claim loses.
	if _, err := store.MatchWaiting(ctx, session.ID, at); !domain.IsDomainError(err, domain.ErrStatusConflict.Code) {
		t.Fatalf("expected ErrStatusConflict, got %v", err)
	}
}

func TestMatchWaitingExpired(t *testing.T) {
	store := New()
	ctx := context.Background()

	session := newWaitingSession(t, "1111")
	if err := store.Insert(ctx, session); err != nil {
		t.Fatalf("Insert failed: %v", err)
	}

	_, err := store.MatchWaiting(ctx, session.ID, session.ExpiresAt+1)
	if !domain.IsDomainError(err, domain.ErrSessionExpired.Code) {
		t.Fatalf("expected ErrSessionExpired, got %v", err)
	}
}

func TestMatchWaitingConcurrent(t *testing.T) {
	store := New()
	ctx := context.Background()

	session := newWaitingSession(t, "1111")
	if err := store.Insert(ctx, session); err != nil {
		t.Fatalf("Insert failed: %v", err)
	}

	const claimers = 16
	var wg sync.WaitGroup
	var mu sync.Mutex
	wins := 0

	for i := 0; i < claimers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := store.MatchWaiting(ctx, session.ID, time.Now().UnixMilli()); err == nil {
				mu.Lock()
				wins++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	if wins != 1 {
		t.Fatalf("wins = %d, want exactly 1", wins)
	}
}

func TestCompleteIdempotent(t *testing.T) {
	store := New()
	ctx := context.Background()

	session := newWaitingSession(t, "1111")
	if err := store.Insert(ctx, session); err != nil {
		t.Fatalf("Insert failed: %v", err)
	}

	at := time.Now().UnixMilli()
	done, err := store.Complete(ctx, session.ID, at)
	if err != nil {
		t.Fatalf("Complete failed: %v", err)
	}
	if done.Status != domain.StatusCompleted || done.CompletedAt != at {
		t.Errorf("got %+v, want completed at %d", done, at)
	}

	again, err := store.Complete(ctx, session.ID, at+500)
	if err != nil {
		t.Fatalf("repeat Complete failed: %v", err)
	}
	if again.CompletedAt != at {
		t.Errorf("repeat complete restamped: %d != %d", again.CompletedAt, at)
	}
}

func TestSubscribeNotifications(t *testing.T) {
	store := New()
	ctx := context.Background()

	session := newWaitingSession(t, "1111")
	if err := store.Insert(ctx, session); err != nil {
		t.Fatalf("Insert failed: %v", err)
	}

	var mu sync.Mutex
	var seen []domain.Status
	cancel := store.Subscribe(session.ID, func(s *domain.Session) {
		mu.Lock()
		seen = append(seen, s.Status)
		mu.Unlock()
	})

	now := time.Now().UnixMilli()
	if _, err := store.MatchWaiting(ctx, session.ID, now); err != nil {
		t.Fatalf("MatchWaiting failed: %v", err)
	}
	if _, err := store.Complete(ctx, session.ID, now); err != nil {
		t.Fatalf("Complete failed: %v", err)
	}

	cancel()
	cancel() // idempotent

	// After cancel, further changes are silent.
	if _, err := store.Complete(ctx, session.ID, now); err != nil {
		t.Fatalf("Complete failed: %v", err)
	}

	mu.Lock()
	defer mu.Unlock()
	if len(seen) != 2 || seen[0] != domain.StatusMatched || seen[1] != domain.StatusCompleted {
		t.Fatalf("seen = %v, want [matched completed]", seen)
	}
}

func TestSweepExpired(t *testing.T) {
	store := New()
	ctx := context.Background()

	lapsing := newWaitingSession(t, "1111")
	fresh := newWaitingSession(t, "2222")
	for _, s := range []*domain.Session{lapsing, fresh} {
		if err := store.Insert(ctx, s); err != nil {
			t.Fatalf("Insert failed: %v", err)
		}
	}

	swept, err := store.SweepExpired(ctx, lapsing.ExpiresAt+1)
	if err != nil {
		t.Fatalf("SweepExpired failed: %v", err)
	}
	// Both sessions were created in the same test run, so both lapse
	// together only if their TTL windows overlap; assert per-record status.
	for _, s := range swept {
		if s.Status != domain.StatusExpired {
			t.Errorf("swept session %s has status %s", s.ID, s.Status)
		}
	}

	got, err := store.Get(ctx, lapsing.ID)
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if got.Status != domain.StatusExpired {
		t.Errorf("status = %s, want expired", got.Status)
	}
}

func TestDeleteRemovesIndexEntry(t *testing.T) {
	store := New()
	ctx := context.Background()

	session := newWaitingSession(t, "1111")
	if err := store.Insert(ctx, session); err != nil {
		t.Fatalf("Insert failed: %v", err)
	}
	if err := store.Delete(ctx, session.ID); err != nil {
		t.Fatalf("Delete failed: %v", err)
	}

	found, err := store.FindWaiting(ctx, "1111", time.Now().UnixMilli())
	if err != nil {
		t.Fatalf("FindWaiting failed: %v", err)
	}
	if len(found) != 0 {
		t.Fatalf("found %d candidates after delete, want 0", len(found))
	}
	if _, err := store.Get(ctx, session.ID); !domain.IsDomainError(err, domain.ErrSessionNotFound.Code) {
		t.Fatalf("expected ErrSessionNotFound, got %v", err)
	}
}

func TestLoadRebuildsIndex(t *testing.T) {
	store := New()
	ctx := context.Background()

	session := newWaitingSession(t, "1111")
	store.Load([]*domain.Session{session})

	if store.Count() != 1 {
		t.Fatalf("count = %d, want 1", store.Count())
	}
	found, err := store.FindWaiting(ctx, "1111", time.Now().UnixMilli())
	if err != nil {
		t.Fatalf("FindWaiting failed: %v", err)
	}
	if len(found) != 1 {
		t.Fatalf("found %d candidates after load, want 1", len(found))
	}

	// Reloading the same record is a no-op.
	store.Load([]*domain.Session{session})
	if store.Count() != 1 {
		t.Fatalf("count after reload = %d, want 1", store.Count())
	}
}

func TestSignatureIndex(t *testing.T) {
	idx := newSignatureIndex()
	idx.add("sig", "a")
	idx.add("sig", "b")
	idx.add("sig", "c")

	got := idx.newestFirst("sig")
	if len(got) != 3 || got[0] != "c" || got[2] != "a" {
		t.Fatalf("newestFirst = %v, want [c b a]", got)
	}

	idx.remove("sig", "b")
	if idx.count("sig") != 2 {
		t.Fatalf("count = %d, want 2", idx.count("sig"))
	}
	idx.remove("sig", "a")
	idx.remove("sig", "c")
	if got := idx.newestFirst("sig"); got != nil {
		t.Fatalf("newestFirst after removals = %v, want nil", got)
	}
}
