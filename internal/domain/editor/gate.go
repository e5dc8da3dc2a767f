package editor

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	apperrors "github.com/xiebiao/booknotes/pkg/errors"
	"github.com/xiebiao/booknotes/pkg/validate"
)

// Gate is the access gate. Each client holds its own session; no state is
// shared between sessions.
type Gate interface {
	// CreateSession starts a guest session
	CreateSession(ctx context.Context) (string, error)

	// SessionRole resolves a token. Bad, unknown or expired tokens are guests.
	SessionRole(ctx context.Context, token string) Role

	// Validate checks the credentials and resets the session role:
	// success gives RoleEditor, failure gives RoleGuest. An empty or
	// unknown token gets a new session. Failure returns ErrInvalidCredentials.
	Validate(ctx context.Context, token, username, password string) (string, Role, error)

	// SignOut drops the session
	SignOut(ctx context.Context, token string) error

	// Authorize returns ErrForbidden unless the session is an editor
	Authorize(ctx context.Context, token string) error

	// EnsureEditor creates the editor or resets its password
	EnsureEditor(ctx context.Context, username, password string) error

	// SeedEditor creates the editor only while no editor exists yet.
	// Stored credentials are never overwritten.
	SeedEditor(ctx context.Context, username, password string) (bool, error)
}

type gate struct {
	creds    CredentialRepository
	sessions SessionStore
	tokens   TokenCodec
	ttl      time.Duration
	logger   *zap.Logger
}

// NewGate creates the access gate
func NewGate(creds CredentialRepository, sessions SessionStore, tokens TokenCodec, ttl time.Duration, logger *zap.Logger) Gate {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &gate{
		creds:    creds,
		sessions: sessions,
		tokens:   tokens,
		ttl:      ttl,
		logger:   logger.Named("gate"),
	}
}

func (g *gate) CreateSession(ctx context.Context) (string, error) {
	token, _, err := g.newSession(ctx)
	return token, err
}

func (g *gate) SessionRole(ctx context.Context, token string) Role {
	id, ok := g.lookup(ctx, token)
	if !ok {
		return RoleGuest
	}
	role, _, err := g.sessions.Get(ctx, id)
	if err != nil {
		g.logger.Warn("session lookup failed", zap.Error(err))
		return RoleGuest
	}
	if role != RoleEditor {
		return RoleGuest
	}
	return role
}

func (g *gate) Validate(ctx context.Context, token, username, password string) (string, Role, error) {
	id, ok := g.lookup(ctx, token)
	if !ok {
		var err error
		token, id, err = g.newSession(ctx)
		if err != nil {
			return "", RoleGuest, err
		}
	}

	role := RoleGuest
	valid, checkErr := g.checkCredentials(ctx, username, password)
	if valid {
		role = RoleEditor
	}

	// The role is written even when the credential store failed so a
	// previous editor session never survives a failed check.
	if err := g.sessions.Put(ctx, id, role, g.ttl); err != nil {
		return "", RoleGuest, err
	}

	if checkErr != nil {
		return token, RoleGuest, checkErr
	}
	if !valid {
		g.logger.Info("editor sign-in rejected", zap.String("username", NormalizeUsername(username)))
		return token, RoleGuest, ErrInvalidCredentials
	}
	return token, RoleEditor, nil
}

func (g *gate) SignOut(ctx context.Context, token string) error {
	id, err := g.tokens.Parse(token)
	if err != nil {
		return nil
	}
	return g.sessions.Delete(ctx, id)
}

func (g *gate) Authorize(ctx context.Context, token string) error {
	if !g.SessionRole(ctx, token).IsEditor() {
		return ErrForbidden
	}
	return nil
}

func (g *gate) EnsureEditor(ctx context.Context, username, password string) error {
	username, err := validate.Required("username", username)
	if err != nil {
		return err
	}
	if password == "" {
		return apperrors.Invalid("password is required")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return apperrors.Wrap(err, "hash editor password")
	}
	return g.creds.Save(ctx, NewEditor(username, string(hash)))
}

func (g *gate) SeedEditor(ctx context.Context, username, password string) (bool, error) {
	username, err := validate.Required("username", username)
	if err != nil {
		return false, err
	}
	if password == "" {
		return false, apperrors.Invalid("password is required")
	}

	n, err := g.creds.Count(ctx)
	if err != nil {
		return false, err
	}
	if n > 0 {
		return false, nil
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return false, apperrors.Wrap(err, "hash editor password")
	}
	return g.creds.CreateIfAbsent(ctx, NewEditor(username, string(hash)))
}

// checkCredentials returns an error only when the store itself failed
func (g *gate) checkCredentials(ctx context.Context, username, password string) (bool, error) {
	e, err := g.creds.FindByUsername(ctx, NormalizeUsername(username))
	if err != nil {
		if errors.Is(err, ErrEditorNotFound) {
			return false, nil
		}
		return false, err
	}
	return e.CheckPassword(password), nil
}

// lookup returns the session id of a token that is valid and still live
func (g *gate) lookup(ctx context.Context, token string) (string, bool) {
	if token == "" {
		return "", false
	}
	id, err := g.tokens.Parse(token)
	if err != nil {
		return "", false
	}
	_, ok, err := g.sessions.Get(ctx, id)
	if err != nil || !ok {
		return "", false
	}
	return id, true
}

func (g *gate) newSession(ctx context.Context) (string, string, error) {
	id := uuid.NewString()
	if err := g.sessions.Put(ctx, id, RoleGuest, g.ttl); err != nil {
		return "", "", err
	}
	token, err := g.tokens.Issue(id)
	if err != nil {
		return "", "", err
	}
	return token, id, nil
}
