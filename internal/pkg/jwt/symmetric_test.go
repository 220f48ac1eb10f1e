package jwt

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fixedClock time.Time

func (f fixedClock) Now() time.Time { return time.Time(f) }

type staticID string

func (s staticID) Generate() string { return string(s) }

var secret = []byte(strings.Repeat("k", 64))

func newTestJWT(t *testing.T, now time.Time) *Symmetric {
	t.Helper()

	s, err := NewHS512(Config{
		Secret:    secret,
		Issuer:    "identity",
		Audiences: []string{"profile"},
		TTL:       time.Hour,
		Clock:     fixedClock(now),
		UUID:      staticID("jti-1"),
	})
	require.NoError(t, err)
	return s
}

func TestNewHS512_ShortSecret(t *testing.T) {
	_, err := NewHS512(Config{Secret: []byte("short")})

	assert.ErrorIs(t, err, ErrSigningKeyTooShort)
}

func TestSymmetric_RoundTrip(t *testing.T) {
	// Arrange
	s := newTestJWT(t, time.Now())

	// Act
	token, err := s.Generate(42, "user@example.com")
	require.NoError(t, err)
	claims, err := s.Verify(token)

	// Assert
	require.NoError(t, err)
	assert.Equal(t, int64(42), claims.UserID)
	assert.Equal(t, "user@example.com", claims.UserEmail)
	assert.Equal(t, "42", claims.Subject)
	assert.Equal(t, "jti-1", claims.ID)
}

func TestSymmetric_Expired(t *testing.T) {
	// Arrange
	issued := newTestJWT(t, time.Now().Add(-2*time.Hour))
	token, err := issued.Generate(1, "a@b.c")
	require.NoError(t, err)

	// Act
	_, err = newTestJWT(t, time.Now()).Verify(token)

	// Assert
	assert.ErrorIs(t, err, ErrTokenExpired)
}

func TestSymmetric_WrongSecret(t *testing.T) {
	token, err := newTestJWT(t, time.Now()).Generate(1, "a@b.c")
	require.NoError(t, err)

	other, err := NewHS512(Config{
		Secret:    []byte(strings.Repeat("x", 64)),
		Issuer:    "identity",
		Audiences: []string{"profile"},
		Clock:     fixedClock(time.Now()),
	})
	require.NoError(t, err)

	_, err = other.Verify(token)
	assert.Error(t, err)
}

func TestAuthContext(t *testing.T) {
	ctx := context.Background()
	assert.Nil(t, GetAuth(ctx))

	ctx = SetAuth(ctx, Claims{UserID: 9, UserEmail: "x@y.z"})
	got := GetAuth(ctx)
	require.NotNil(t, got)
	assert.Equal(t, int64(9), got.UserID)
}
