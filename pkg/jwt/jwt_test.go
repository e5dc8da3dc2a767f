package jwt

import (
	"errors"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/xiebiao/booknotes/pkg/errors"
)

func TestIssueParse(t *testing.T) {
	m := NewManager("test-secret", time.Hour)

	token, err := m.Issue("0d4c6d0e-2c8b-4f7a-9b0f-1a2b3c4d5e6f")
	require.NoError(t, err)

	id, err := m.Parse(token)
	require.NoError(t, err)
	assert.Equal(t, "0d4c6d0e-2c8b-4f7a-9b0f-1a2b3c4d5e6f", id)
}

func TestParse_WrongSecret(t *testing.T) {
	token, err := NewManager("a", time.Hour).Issue("sid")
	require.NoError(t, err)

	_, err = NewManager("b", time.Hour).Parse(token)
	assert.True(t, errors.Is(err, apperrors.ErrInvalidToken))
}

func TestParse_Expired(t *testing.T) {
	m := NewManager("s", -time.Minute)
	token, err := m.Issue("sid")
	require.NoError(t, err)

	_, err = m.Parse(token)
	assert.True(t, errors.Is(err, apperrors.ErrTokenExpired))
}

func TestParse_Garbage(t *testing.T) {
	m := NewManager("s", time.Hour)
	for _, tok := range []string{"", "abc", "a.b.c"} {
		_, err := m.Parse(tok)
		assert.Error(t, err, "token %q", tok)
	}
}

func TestParse_RejectsNoneAlg(t *testing.T) {
	claims := Claims{RegisteredClaims: jwt.RegisteredClaims{ID: "sid", Issuer: issuer}}
	tok, err := jwt.NewWithClaims(jwt.SigningMethodNone, claims).SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	_, err = NewManager("s", time.Hour).Parse(tok)
	assert.Error(t, err)
}

func TestParse_MissingSessionID(t *testing.T) {
	m := NewManager("s", time.Hour)
	tok, err := m.Issue("")
	require.NoError(t, err)

	_, err = m.Parse(tok)
	assert.True(t, errors.Is(err, apperrors.ErrInvalidToken))
}
