package library

import (
	"context"
	"errors"

	"github.com/xiebiao/booknotes/internal/domain/editor"
	"github.com/xiebiao/booknotes/pkg/metrics"
)

// Sign-in outcomes (metric label)
const (
	signInSuccess  = "success"
	signInRejected = "rejected"
	signInError    = "error"
)

// SessionUseCase session and sign-in use cases
type SessionUseCase struct {
	gate editor.Gate
}

// NewSessionUseCase creates the session use cases
func NewSessionUseCase(gate editor.Gate) *SessionUseCase {
	return &SessionUseCase{gate: gate}
}

// Create starts a guest session
func (uc *SessionUseCase) Create(ctx context.Context) (*SessionResponse, error) {
	token, err := uc.gate.CreateSession(ctx)
	if err != nil {
		return nil, err
	}
	return &SessionResponse{Token: token, Role: string(editor.RoleGuest)}, nil
}

// Role resolves the role of token
func (uc *SessionUseCase) Role(ctx context.Context, token string) *SessionResponse {
	return &SessionResponse{Token: token, Role: string(uc.gate.SessionRole(ctx, token))}
}

// SignIn checks the editor credentials on the session of token.
// The response is non-nil whenever a session token exists, including
// on rejected credentials, so the caller can keep the client's session.
func (uc *SessionUseCase) SignIn(ctx context.Context, token, username, password string) (*SessionResponse, error) {
	token, role, err := uc.gate.Validate(ctx, token, username, password)
	switch {
	case err == nil:
		metrics.IncSignIn(signInSuccess)
	case errors.Is(err, editor.ErrInvalidCredentials):
		metrics.IncSignIn(signInRejected)
	default:
		metrics.IncSignIn(signInError)
	}

	if token == "" {
		return nil, err
	}
	return &SessionResponse{Token: token, Role: string(role)}, err
}

// SignOut ends the session of token
func (uc *SessionUseCase) SignOut(ctx context.Context, token string) error {
	return uc.gate.SignOut(ctx, token)
}

// EnsureEditor creates or resets the editor credentials
func (uc *SessionUseCase) EnsureEditor(ctx context.Context, username, password string) error {
	return uc.gate.EnsureEditor(ctx, username, password)
}

// SeedEditor creates the first editor; false when one already exists
func (uc *SessionUseCase) SeedEditor(ctx context.Context, username, password string) (bool, error) {
	return uc.gate.SeedEditor(ctx, username, password)
}
