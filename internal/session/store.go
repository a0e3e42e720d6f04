package session

import (
	"context"
	"time"
)

// Session represents an authenticated user session. It carries the
// identity claims verified at login so handlers never re-read tokens.
type Session struct {
	SessionID string    `json:"session_id"`
	SubjectID string    `json:"subject_id"` // provider user id (sub claim)
	Email     string    `json:"email"`
	Name      string    `json:"name,omitempty"`
	Picture   string    `json:"picture,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	ExpiresAt time.Time `json:"expires_at"` // absolute expiry time
}

// Store defines how sessions are stored and retrieved.
// Implementations (e.g., Redis) must remain stateless and opaque.
type Store interface {
	Create(ctx context.Context, s Session) error
	Get(ctx context.Context, sessionID string) (*Session, error)
	Delete(ctx context.Context, sessionID string) error
}
