// Package service provides the domain services for AirSig.
//
// PairingService implements the session-matching protocol: the sending
// device stores an encrypted payload keyed by its gesture signature, and
// the first receiving device to reproduce the signature claims it.
package service

import (
	"context"
	"time"

	"github.com/airsig/airsig-go/internal/core/domain"
	"github.com/airsig/airsig-go/internal/core/gesture"
	"github.com/airsig/airsig-go/pkg/crypto/payload"
)

// SessionRepository defines the storage interface for pairing sessions.
//
// MatchWaiting must be an atomic compare-and-set on (id, status=waiting,
// not expired): of two concurrent callers, at most one may win.
type SessionRepository interface {
	// Insert stores a new waiting session.
	Insert(ctx context.Context, session *domain.Session) error

	// Get retrieves a session by ID.
	Get(ctx context.Context, id string) (*domain.Session, error)

	// FindWaiting returns eligible match candidates for a signature,
	// newest created first, filtered by expires_at > now.
	FindWaiting(ctx context.Context, signature string, nowMilli int64) ([]*domain.Session, error)

	// MatchWaiting conditionally transitions waiting -> matched.
	MatchWaiting(ctx context.Context, id string, matchedAt int64) (*domain.Session, error)

	// Complete stamps a session completed. Idempotent.
	Complete(ctx context.Context, id string, completedAt int64) (*domain.Session, error)

	// Subscribe delivers every subsequent change of the session to fn
	// until the returned cancel function is called.
	Subscribe(id string, fn func(*domain.Session)) func()

	// SweepExpired stamps lapsed waiting sessions expired and returns them.
	SweepExpired(ctx context.Context, nowMilli int64) ([]*domain.Session, error)
}

// Archiver persists session records outside the live store. Archive
// writes are best effort: the pairing protocol never depends on them.
type Archiver interface {
	Save(ctx context.Context, session *domain.Session) error
}

// PairingService handles the pairing session lifecycle.
type PairingService struct {
	repo     SessionRepository
	archive  Archiver // optional
	limiters *MatchLimiterRegistry

	// onSweep observes every expiry sweep with the number of sessions
	// it stamped expired. Optional.
	onSweep func(count int)

	// now is the clock, swappable in tests.
	now func() time.Time
}

// Option configures the PairingService.
type Option func(*PairingService)

// WithArchiver attaches a durable archive for session records.
func WithArchiver(a Archiver) Option {
	return func(s *PairingService) {
		s.archive = a
	}
}

// WithMatchLimiter attaches a per-device match-attempt rate limiter.
func WithMatchLimiter(r *MatchLimiterRegistry) Option {
	return func(s *PairingService) {
		s.limiters = r
	}
}

// WithSweepObserver registers fn to run after every expiry sweep with
// the number of sessions swept, including zero. Metric exporters hook
// in here.
func WithSweepObserver(fn func(count int)) Option {
	return func(s *PairingService) {
		s.onSweep = fn
	}
}

// withClock overrides the service clock. Tests only.
func withClock(now func() time.Time) Option {
	return func(s *PairingService) {
		s.now = now
	}
}

// NewPairingService creates a new PairingService.
func NewPairingService(repo SessionRepository, opts ...Option) *PairingService {
	s := &PairingService{
		repo: repo,
		now:  time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// ============================================================================
// Create Operation
// ============================================================================

// CreateSessionRequest contains parameters for session creation.
type CreateSessionRequest struct {
	Points domain.PathSample   // Required: the sender's recorded gesture
	Data   domain.TransferData // Required: the payload to offer
}

// CreateSessionResponse contains the result of session creation.
type CreateSessionResponse struct {
	Session       *domain.Session
	EncryptionKey string // Also stored in the record; returned for symmetry
}

// CreateSession reduces the sender's gesture to a signature, encrypts the
// payload under a fresh key, and stores a waiting session with a fixed
// 60-second TTL.
func (s *PairingService) CreateSession(ctx context.Context, req *CreateSessionRequest) (*CreateSessionResponse, error) {
	// 1. Validate the payload
	if err := req.Data.Validate(); err != nil {
		return nil, err
	}

	// 2. Reduce the gesture to its signature
	signature := gesture.Generate(req.Points)
	if signature == "" {
		return nil, domain.ErrInsufficientPoints.WithDetails("a signature requires at least 10 recorded points")
	}

	// 3. Generate a fresh key and encrypt the payload
	key, err := payload.GenerateKey()
	if err != nil {
		return nil, domain.ErrInternalServer.WithCause(err)
	}
	encrypted, err := payload.Encrypt(req.Data.Content, key)
	if err != nil {
		return nil, domain.ErrInternalServer.WithCause(err)
	}

	// 4. Build the session entity. The key is stored alongside the
	// ciphertext: at-rest confidentiality only, per the threat model.
	session, err := domain.NewSession(signature, req.Data)
	if err != nil {
		return nil, err
	}
	session.EncryptedContent = encrypted
	session.EncryptionKey = key

	// 5. Persist
	if err := s.repo.Insert(ctx, session); err != nil {
		if domain.IsDomainError(err, "") {
			return nil, err
		}
		return nil, domain.ErrStorageError.WithCause(err)
	}
	s.archiveSave(ctx, session)

	return &CreateSessionResponse{
		Session:       session,
		EncryptionKey: key,
	}, nil
}

// ============================================================================
// Match Operation
// ============================================================================

// FindMatchRequest contains parameters for the receiving side's lookup.
type FindMatchRequest struct {
	Points   domain.PathSample // Required: the receiver's recorded gesture
	DeviceID string            // Optional: rate-limit key for this device
}

// FindMatchResponse contains the result of a match attempt. Matched is
// false for the normal "nothing eligible" outcome rather than an error;
// the caller keeps trying or re-records.
type FindMatchResponse struct {
	Matched bool
	Session *domain.Session
}

// FindMatchingSession computes the receiver's signature and tries to
// claim the newest eligible waiting session carrying the same signature.
//
// The claim is the store's conditional waiting -> matched update. Losing
// that race to another receiver is a normal no-match outcome; the loser
// falls through to the next-newest candidate before giving up.
func (s *PairingService) FindMatchingSession(ctx context.Context, req *FindMatchRequest) (*FindMatchResponse, error) {
	// 1. Rate-limit signature guessing per device
	if s.limiters != nil && req.DeviceID != "" {
		if !s.limiters.Allow(req.DeviceID) {
			return nil, domain.ErrRateLimited.WithDetails("match attempts exceeded for this device")
		}
	}

	// 2. Reduce the gesture to its signature
	signature := gesture.Generate(req.Points)
	if signature == "" {
		return nil, domain.ErrInsufficientPoints.WithDetails("a signature requires at least 10 recorded points")
	}

	// 3. Query eligible candidates, newest first
	now := s.now().UnixMilli()
	candidates, err := s.repo.FindWaiting(ctx, signature, now)
	if err != nil {
		return nil, domain.ErrStorageError.WithCause(err)
	}

	// 4. Claim the first candidate whose conditional update we win
	for _, candidate := range candidates {
		matched, err := s.repo.MatchWaiting(ctx, candidate.ID, s.now().UnixMilli())
		if err == nil {
			s.archiveSave(ctx, matched)
			return &FindMatchResponse{Matched: true, Session: matched}, nil
		}
		switch {
		case domain.IsDomainError(err, domain.ErrStatusConflict.Code),
			domain.IsDomainError(err, domain.ErrSessionExpired.Code),
			domain.IsDomainError(err, domain.ErrSessionNotFound.Code):
			// Lost the race or the candidate lapsed underneath us.
			continue
		default:
			return nil, domain.ErrStorageError.WithCause(err)
		}
	}

	// 5. Nothing eligible: a normal outcome, not an error
	return &FindMatchResponse{Matched: false}, nil
}

// ============================================================================
// Read / Decrypt
// ============================================================================

// GetSession retrieves a session by ID.
func (s *PairingService) GetSession(ctx context.Context, id string) (*domain.Session, error) {
	if id == "" {
		return nil, domain.ErrMissingArgument.WithDetails("session_id is required")
	}
	return s.repo.Get(ctx, id)
}

// DecryptSessionData returns the session payload in the clear.
//
// Decryption failure is recovered locally by falling back to the
// plaintext field stored alongside; it is never surfaced as a hard
// failure to the caller.
func (s *PairingService) DecryptSessionData(session *domain.Session) string {
	if session.EncryptedContent == "" || session.EncryptionKey == "" {
		return session.DataContent
	}
	plain, err := payload.Decrypt(session.EncryptedContent, session.EncryptionKey)
	if err != nil {
		return session.DataContent
	}
	return plain
}

func (s *PairingService) archiveSave(ctx context.Context, session *domain.Session) {
	if s.archive == nil {
		return
	}
	// Best effort; the live store is the matching authority.
	_ = s.archive.Save(ctx, session)
}
