// Package service provides domain services for AirSig.
//
// This file contains session lifecycle operations: Complete, Watch, and
// the expiry sweep loop.
package service

import (
	"context"
	"time"

	"github.com/airsig/airsig-go/internal/core/domain"
)

// ============================================================================
// Complete Operation
// ============================================================================

// CompleteSessionRequest contains parameters for completing a session.
type CompleteSessionRequest struct {
	SessionID string
}

// CompleteSessionResponse contains the result of completing a session.
type CompleteSessionResponse struct {
	Session *domain.Session
}

// CompleteSession stamps a session completed after the receiving device
// has consumed the payload.
//
// The write is idempotent: completing an already-completed session
// succeeds without change. It does not verify the session was matched
// first; the protocol trusts callers to complete only sessions they
// claimed.
func (s *PairingService) CompleteSession(ctx context.Context, req *CompleteSessionRequest) (*CompleteSessionResponse, error) {
	// 1. Validate input
	if req.SessionID == "" {
		return nil, domain.ErrMissingArgument.WithDetails("session_id is required")
	}

	// 2. Stamp completed
	session, err := s.repo.Complete(ctx, req.SessionID, s.now().UnixMilli())
	if err != nil {
		if domain.IsDomainError(err, "") {
			return nil, err
		}
		return nil, domain.ErrStorageError.WithCause(err)
	}
	s.archiveSave(ctx, session)

	return &CompleteSessionResponse{Session: session}, nil
}

// ============================================================================
// Watch Operation
// ============================================================================

// WatchSession streams status changes of a session to fn until the
// returned cancel function is called. The sending device uses this to
// learn that a receiver matched or completed its session without polling.
//
// fn runs on the store's notification path and must not block.
func (s *PairingService) WatchSession(id string, fn func(*domain.Session)) (func(), error) {
	if id == "" {
		return nil, domain.ErrMissingArgument.WithDetails("session_id is required")
	}
	return s.repo.Subscribe(id, fn), nil
}

// ============================================================================
// Expiry Sweep
// ============================================================================

// SweepExpired stamps lapsed waiting sessions expired and archives the
// swept records. It returns the number of sessions swept.
//
// Matching correctness never depends on the sweep; candidate queries
// filter on expires_at themselves. The sweep keeps watchers informed and
// the archive consistent.
func (s *PairingService) SweepExpired(ctx context.Context) (int, error) {
	swept, err := s.repo.SweepExpired(ctx, s.now().UnixMilli())
	if err != nil {
		return 0, domain.ErrStorageError.WithCause(err)
	}
	for _, session := range swept {
		s.archiveSave(ctx, session)
	}
	if s.onSweep != nil {
		s.onSweep(len(swept))
	}
	return len(swept), nil
}

// WaitingCount reports how many sessions are currently eligible to be
// matched. It returns -1 when the store cannot answer cheaply.
func (s *PairingService) WaitingCount() int {
	if counter, ok := s.repo.(interface{ CountWaiting() int }); ok {
		return counter.CountWaiting()
	}
	return -1
}

// RunSweeper runs the expiry sweep on a fixed interval until ctx is
// cancelled. Intended to run on its own goroutine.
func (s *PairingService) RunSweeper(ctx context.Context, interval time.Duration) {
	if interval <= 0 {
		interval = 5 * time.Second
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			_, _ = s.SweepExpired(ctx)
		}
	}
}
