package domain

import (
	"crypto/rand"
	"strings"
	"time"

	"github.com/oklog/ulid/v2"
)

// Session constraints.
const (
	// SessionTTL is the fixed time budget for a pairing attempt.
	// It is set at creation and never extended.
	SessionTTL = 60 * time.Second

	// MaxSignatureLength is the longest possible gesture signature
	// (16 samples produce 15 direction digits).
	MaxSignatureLength = 15

	// MaxContentLength bounds the transferable payload.
	MaxContentLength = 8192

	// MaxTitleLength bounds the optional payload title.
	MaxTitleLength = 256

	// SessionIDPrefix is the prefix for session IDs.
	SessionIDPrefix = "asgs-"

	// SenderIDPrefix is the prefix for anonymous sender IDs.
	SenderIDPrefix = "asnd-"
)

// Status is the lifecycle state of a transfer session.
type Status string

// Session lifecycle states. Status only advances forward:
// waiting -> matched -> completed, or waiting -> expired.
const (
	StatusWaiting   Status = "waiting"
	StatusMatched   Status = "matched"
	StatusCompleted Status = "completed"
	StatusExpired   Status = "expired"
)

// Valid reports whether s is a known status value.
func (s Status) Valid() bool {
	switch s {
	case StatusWaiting, StatusMatched, StatusCompleted, StatusExpired:
		return true
	}
	return false
}

// Terminal reports whether s is a terminal state.
func (s Status) Terminal() bool {
	return s == StatusCompleted || s == StatusExpired
}

// CanTransitionTo reports whether the lifecycle permits moving from s to next.
func (s Status) CanTransitionTo(next Status) bool {
	switch s {
	case StatusWaiting:
		return next == StatusMatched || next == StatusExpired
	case StatusMatched:
		return next == StatusCompleted
	default:
		return false
	}
}

// Session is one pairing attempt: a waiting payload keyed by the sender's
// gesture signature, claimed by the first receiver that reproduces it.
//
// The JSON field names are the wire contract shared with other collaborators.
// Note that EncryptionKey travels in the same record as EncryptedContent:
// confidentiality is at-rest only, not secrecy against the store operator.
type Session struct {
	// ID is the unique identifier. Format: asgs-{ulid_lowercase}.
	ID string `json:"id"`

	// GestureHash is the sender's gesture signature (digits 0..7).
	GestureHash string `json:"gesture_hash"`

	// SenderID identifies the creating device. Random per session.
	SenderID string `json:"sender_id"`

	// DataType is one of the TransferData type tags.
	DataType string `json:"data_type"`

	// DataTitle is the optional payload title.
	DataTitle string `json:"data_title,omitempty"`

	// DataContent is the plaintext payload. Kept alongside the encrypted
	// form as the decryption fallback.
	DataContent string `json:"data_content"`

	// EncryptedContent is the AEAD ciphertext of DataContent, base64.
	EncryptedContent string `json:"encrypted_content,omitempty"`

	// EncryptionKey is the base64 symmetric key for EncryptedContent.
	EncryptionKey string `json:"encryption_key,omitempty"`

	// Status is the lifecycle state.
	Status Status `json:"status"`

	// CreatedAt is the creation timestamp (Unix milliseconds).
	CreatedAt int64 `json:"created_at"`

	// ExpiresAt is the absolute expiration timestamp (Unix milliseconds).
	// Fixed at creation: CreatedAt + SessionTTL.
	ExpiresAt int64 `json:"expires_at"`

	// MatchedAt is set when a receiver claims the session (Unix ms).
	MatchedAt int64 `json:"matched_at,omitempty"`

	// CompletedAt is set when the transfer is acknowledged (Unix ms).
	CompletedAt int64 `json:"completed_at,omitempty"`
}

// NewSession creates a waiting session for the given signature and payload.
// ID, SenderID, CreatedAt and ExpiresAt are initialized; the caller fills
// in the encrypted form.
func NewSession(gestureHash string, data TransferData) (*Session, error) {
	id, err := GenerateSessionID()
	if err != nil {
		return nil, err
	}
	senderID, err := GenerateSenderID()
	if err != nil {
		return nil, err
	}

	now := time.Now().UnixMilli()
	return &Session{
		ID:          id,
		GestureHash: gestureHash,
		SenderID:    senderID,
		DataType:    string(data.Type),
		DataTitle:   data.Title,
		DataContent: data.Content,
		Status:      StatusWaiting,
		CreatedAt:   now,
		ExpiresAt:   now + SessionTTL.Milliseconds(),
	}, nil
}

// GenerateSessionID generates a new session ID using ULID.
func GenerateSessionID() (string, error) {
	return generateID(SessionIDPrefix)
}

// GenerateSenderID generates a new anonymous sender ID using ULID.
func GenerateSenderID() (string, error) {
	return generateID(SenderIDPrefix)
}

func generateID(prefix string) (string, error) {
	entropy := ulid.Monotonic(rand.Reader, 0)
	id, err := ulid.New(ulid.Timestamp(time.Now()), entropy)
	if err != nil {
		return "", ErrInternalServer.WithCause(err)
	}
	return prefix + strings.ToLower(id.String()), nil
}

// IsExpired returns true if the session TTL has lapsed.
//
// Expiry is evaluated lazily at query time; the stored Status may still
// read "waiting" after the deadline.
func (s *Session) IsExpired() bool {
	return s.IsExpiredAt(time.Now().UnixMilli())
}

// IsExpiredAt reports expiry against an explicit clock reading. The
// deadline itself is already outside the window: a session is matchable
// only while expires_at > now.
func (s *Session) IsExpiredAt(nowMilli int64) bool {
	return nowMilli >= s.ExpiresAt
}

// Matchable reports whether the session is an eligible match candidate:
// still waiting and inside its TTL.
func (s *Session) Matchable(nowMilli int64) bool {
	return s.Status == StatusWaiting && !s.IsExpiredAt(nowMilli)
}

// Validate validates the session fields against constraints.
func (s *Session) Validate() error {
	var violations []string

	if s.GestureHash == "" {
		violations = append(violations, "gesture_hash is required")
	}
	if len(s.GestureHash) > MaxSignatureLength {
		violations = append(violations, "gesture_hash exceeds 15 characters")
	}
	for _, c := range s.GestureHash {
		if c < '0' || c > '7' {
			violations = append(violations, "gesture_hash contains characters outside 0..7")
			break
		}
	}
	if s.SenderID == "" {
		violations = append(violations, "sender_id is required")
	}
	if !TransferType(s.DataType).Valid() {
		violations = append(violations, "data_type is not a known transfer type")
	}
	if len(s.DataContent) > MaxContentLength {
		violations = append(violations, "data_content exceeds 8KB")
	}
	if len(s.DataTitle) > MaxTitleLength {
		violations = append(violations, "data_title exceeds 256 characters")
	}
	if !s.Status.Valid() {
		violations = append(violations, "status is not a known lifecycle state")
	}

	if len(violations) > 0 {
		return ErrSessionValidation.WithDetails(strings.Join(violations, "; "))
	}
	return nil
}

// Clone creates a copy of the session.
func (s *Session) Clone() *Session {
	clone := *s
	return &clone
}

// CreatedAtTime returns CreatedAt as time.Time.
func (s *Session) CreatedAtTime() time.Time {
	return time.UnixMilli(s.CreatedAt)
}

// ExpiresAtTime returns ExpiresAt as time.Time.
func (s *Session) ExpiresAtTime() time.Time {
	return time.UnixMilli(s.ExpiresAt)
}

// IsValidSessionID checks if a string is a valid session ID format.
func IsValidSessionID(id string) bool {
	id = strings.ToLower(id)
	if !strings.HasPrefix(id, SessionIDPrefix) {
		return false
	}
	// asgs- (5) + ULID (26) = 31 characters
	if len(id) != 31 {
		return false
	}
	_, err := ulid.Parse(strings.ToUpper(id[len(SessionIDPrefix):]))
	return err == nil
}
