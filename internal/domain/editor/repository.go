package editor

import (
	"context"
	"time"
)

// CredentialRepository is the credential store
type CredentialRepository interface {
	// FindByUsername matches case-insensitively; ErrEditorNotFound when absent
	FindByUsername(ctx context.Context, username string) (*Editor, error)

	// Save inserts the editor or replaces the password of an existing username
	Save(ctx context.Context, e *Editor) error

	// Count returns the number of stored editors
	Count(ctx context.Context) (int64, error)

	// CreateIfAbsent inserts the editor unless the username is taken;
	// an existing record is left untouched and created is false
	CreateIfAbsent(ctx context.Context, e *Editor) (created bool, err error)
}

// SessionStore keeps the role of each session.
// Implementations must expire sessions after ttl.
type SessionStore interface {
	// Put creates or overwrites a session and refreshes its ttl
	Put(ctx context.Context, sessionID string, role Role, ttl time.Duration) error

	// Get returns ok=false for unknown or expired sessions
	Get(ctx context.Context, sessionID string) (role Role, ok bool, err error)

	// Delete is a no-op for unknown sessions
	Delete(ctx context.Context, sessionID string) error
}

// TokenCodec turns session ids into signed tokens and back
type TokenCodec interface {
	Issue(sessionID string) (string, error)
	Parse(token string) (string, error)
}
