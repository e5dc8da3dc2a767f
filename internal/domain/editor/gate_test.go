package editor

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/xiebiao/booknotes/pkg/jwt"
)

type memCreds struct {
	mu      sync.Mutex
	editors map[string]*Editor
	err     error
}

func newMemCreds() *memCreds { return &memCreds{editors: map[string]*Editor{}} }

func (m *memCreds) FindByUsername(_ context.Context, username string) (*Editor, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return nil, m.err
	}
	e, ok := m.editors[strings.ToLower(username)]
	if !ok {
		return nil, ErrEditorNotFound
	}
	return e, nil
}

func (m *memCreds) Save(_ context.Context, e *Editor) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.editors[e.Username] = e
	return nil
}

func (m *memCreds) Count(context.Context) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return int64(len(m.editors)), m.err
}

func (m *memCreds) CreateIfAbsent(_ context.Context, e *Editor) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.editors[e.Username]; ok {
		return false, nil
	}
	m.editors[e.Username] = e
	return true, nil
}

type memSessions struct {
	mu    sync.Mutex
	roles map[string]Role
}

func newMemSessions() *memSessions { return &memSessions{roles: map[string]Role{}} }

func (m *memSessions) Put(_ context.Context, id string, role Role, _ time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.roles[id] = role
	return nil
}

func (m *memSessions) Get(_ context.Context, id string) (Role, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	r, ok := m.roles[id]
	return r, ok, nil
}

func (m *memSessions) Delete(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.roles, id)
	return nil
}

func newTestGate(t *testing.T) (Gate, *memCreds) {
	t.Helper()
	creds := newMemCreds()
	hash, err := bcrypt.GenerateFromPassword([]byte("s3cret"), bcrypt.MinCost)
	require.NoError(t, err)
	creds.editors["admin"] = NewEditor("Admin", string(hash))

	g := NewGate(creds, newMemSessions(), jwt.NewManager("test", time.Hour), time.Hour, nil)
	return g, creds
}

func TestGate_NewSessionIsGuest(t *testing.T) {
	g, _ := newTestGate(t)
	ctx := context.Background()

	token, err := g.CreateSession(ctx)
	require.NoError(t, err)
	assert.Equal(t, RoleGuest, g.SessionRole(ctx, token))
	assert.ErrorIs(t, g.Authorize(ctx, token), ErrForbidden)
}

func TestGate_ValidateResetsRole(t *testing.T) {
	g, _ := newTestGate(t)
	ctx := context.Background()

	token, err := g.CreateSession(ctx)
	require.NoError(t, err)

	// username matching ignores case
	tok, role, err := g.Validate(ctx, token, "ADMIN", "s3cret")
	require.NoError(t, err)
	assert.Equal(t, token, tok)
	assert.Equal(t, RoleEditor, role)
	assert.Equal(t, RoleEditor, g.SessionRole(ctx, token))
	assert.NoError(t, g.Authorize(ctx, token))

	// a failed check demotes the same session
	_, role, err = g.Validate(ctx, token, "admin", "wrong")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
	assert.Equal(t, RoleGuest, role)
	assert.Equal(t, RoleGuest, g.SessionRole(ctx, token))
}

func TestGate_PasswordIsExact(t *testing.T) {
	g, _ := newTestGate(t)
	ctx := context.Background()

	_, role, err := g.Validate(ctx, "", "admin", "S3CRET")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
	assert.Equal(t, RoleGuest, role)

	_, _, err = g.Validate(ctx, "", "nobody", "s3cret")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestGate_ValidateWithoutSessionIssuesOne(t *testing.T) {
	g, _ := newTestGate(t)
	ctx := context.Background()

	token, role, err := g.Validate(ctx, "not-a-token", "admin", "s3cret")
	require.NoError(t, err)
	assert.NotEmpty(t, token)
	assert.Equal(t, RoleEditor, role)
	assert.Equal(t, RoleEditor, g.SessionRole(ctx, token))
}

func TestGate_SessionsAreIndependent(t *testing.T) {
	g, _ := newTestGate(t)
	ctx := context.Background()

	a, err := g.CreateSession(ctx)
	require.NoError(t, err)
	b, err := g.CreateSession(ctx)
	require.NoError(t, err)

	_, _, err = g.Validate(ctx, a, "admin", "s3cret")
	require.NoError(t, err)

	assert.Equal(t, RoleEditor, g.SessionRole(ctx, a))
	assert.Equal(t, RoleGuest, g.SessionRole(ctx, b))

	_, _, _ = g.Validate(ctx, b, "admin", "nope")
	assert.Equal(t, RoleEditor, g.SessionRole(ctx, a))
}

func TestGate_SignOut(t *testing.T) {
	g, _ := newTestGate(t)
	ctx := context.Background()

	token, _, err := g.Validate(ctx, "", "admin", "s3cret")
	require.NoError(t, err)

	require.NoError(t, g.SignOut(ctx, token))
	assert.Equal(t, RoleGuest, g.SessionRole(ctx, token))
	assert.NoError(t, g.SignOut(ctx, "garbage"))
}

func TestGate_TamperedTokenIsGuest(t *testing.T) {
	g, _ := newTestGate(t)
	ctx := context.Background()

	token, _, err := g.Validate(ctx, "", "admin", "s3cret")
	require.NoError(t, err)

	assert.Equal(t, RoleGuest, g.SessionRole(ctx, token+"x"))
	assert.Equal(t, RoleGuest, g.SessionRole(ctx, ""))
}

func TestGate_StoreFailureDemotes(t *testing.T) {
	g, creds := newTestGate(t)
	ctx := context.Background()

	token, _, err := g.Validate(ctx, "", "admin", "s3cret")
	require.NoError(t, err)

	creds.err = errors.New("connection refused")
	_, role, err := g.Validate(ctx, token, "admin", "s3cret")
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrInvalidCredentials)
	assert.Equal(t, RoleGuest, role)
	assert.Equal(t, RoleGuest, g.SessionRole(ctx, token))
}

func TestGate_EnsureEditor(t *testing.T) {
	g, creds := newTestGate(t)
	ctx := context.Background()

	require.NoError(t, g.EnsureEditor(ctx, "  Admin ", "n3w"))
	e := creds.editors["admin"]
	require.NotNil(t, e)
	assert.True(t, e.CheckPassword("n3w"))
	assert.False(t, e.CheckPassword("s3cret"))

	_, role, err := g.Validate(ctx, "", "admin", "n3w")
	require.NoError(t, err)
	assert.Equal(t, RoleEditor, role)

	assert.Error(t, g.EnsureEditor(ctx, " ", "x"))
	assert.Error(t, g.EnsureEditor(ctx, "admin", ""))
}

func TestGate_SeedEditorKeepsStoredPassword(t *testing.T) {
	g, creds := newTestGate(t)
	ctx := context.Background()

	// a password changed after the first boot survives the next seed
	created, err := g.SeedEditor(ctx, "admin", "admin")
	require.NoError(t, err)
	assert.False(t, created)
	assert.True(t, creds.editors["admin"].CheckPassword("s3cret"))

	created, err = g.SeedEditor(ctx, "other", "pw")
	require.NoError(t, err)
	assert.False(t, created)
	assert.Nil(t, creds.editors["other"])
}

func TestGate_SeedEditorOnEmptyStore(t *testing.T) {
	creds := newMemCreds()
	g := NewGate(creds, newMemSessions(), jwt.NewManager("test", time.Hour), time.Hour, nil)
	ctx := context.Background()

	created, err := g.SeedEditor(ctx, " Admin ", "first")
	require.NoError(t, err)
	assert.True(t, created)
	require.NotNil(t, creds.editors["admin"])
	assert.True(t, creds.editors["admin"].CheckPassword("first"))

	_, err = g.SeedEditor(ctx, "admin", "")
	assert.Error(t, err)

	creds.err = errors.New("db down")
	_, err = g.SeedEditor(ctx, "admin", "x")
	assert.Error(t, err)
}
