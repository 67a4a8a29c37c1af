package auth

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/require"

	"github.com/arkanhadi/lapor-siaga/internal/model"
)

func TestIssueVerifyRoundtrip(t *testing.T) {
	g := NewGate("test-secret", 0, NewMemoryRevocations())

	token, err := g.Issue(model.Principal{ID: 7, IsAdmin: true, Role: "super_admin"})
	require.NoError(t, err)
	require.NotEmpty(t, token)

	p, err := g.Verify(token)
	require.NoError(t, err)
	require.Equal(t, uint64(7), p.ID)
	require.True(t, p.IsAdmin)
	require.Equal(t, "super_admin", p.Role)
}

func TestIssueOmitsRoleForCitizens(t *testing.T) {
	g := NewGate("test-secret", 0, NewMemoryRevocations())

	token, err := g.Issue(model.Principal{ID: 3})
	require.NoError(t, err)

	p, err := g.Verify(token)
	require.NoError(t, err)
	require.Equal(t, uint64(3), p.ID)
	require.False(t, p.IsAdmin)
	require.Empty(t, p.Role)
}

func TestZeroTTLOmitsExpiry(t *testing.T) {
	g := NewGate("test-secret", 0, NewMemoryRevocations())

	token, err := g.Issue(model.Principal{ID: 1})
	require.NoError(t, err)

	parsed, _, err := jwt.NewParser().ParseUnverified(token, jwt.MapClaims{})
	require.NoError(t, err)
	claims := parsed.Claims.(jwt.MapClaims)
	_, hasExp := claims["exp"]
	require.False(t, hasExp, "non-expiring tokens must not carry an exp claim")
}

func TestPositiveTTLSetsExpiry(t *testing.T) {
	g := NewGate("test-secret", 30, NewMemoryRevocations())

	token, err := g.Issue(model.Principal{ID: 1})
	require.NoError(t, err)

	parsed, _, err := jwt.NewParser().ParseUnverified(token, jwt.MapClaims{})
	require.NoError(t, err)
	claims := parsed.Claims.(jwt.MapClaims)
	exp, ok := claims["exp"].(float64)
	require.True(t, ok)
	require.InDelta(t, time.Now().Add(30*time.Minute).Unix(), int64(exp), 5)
}

func TestVerifyRejectsGarbage(t *testing.T) {
	g := NewGate("test-secret", 0, NewMemoryRevocations())

	for _, tok := range []string{"", "not-a-jwt", "a.b.c"} {
		_, err := g.Verify(tok)
		require.ErrorIs(t, err, ErrInvalidToken, "token %q", tok)
	}
}

func TestVerifyRejectsWrongSecret(t *testing.T) {
	issuer := NewGate("secret-one", 0, NewMemoryRevocations())
	verifier := NewGate("secret-two", 0, NewMemoryRevocations())

	token, err := issuer.Issue(model.Principal{ID: 1})
	require.NoError(t, err)

	_, err = verifier.Verify(token)
	require.ErrorIs(t, err, ErrInvalidToken)
}

func TestRevokeWinsOverValidSignature(t *testing.T) {
	g := NewGate("test-secret", 0, NewMemoryRevocations())

	token, err := g.Issue(model.Principal{ID: 9, IsAdmin: true})
	require.NoError(t, err)

	_, err = g.Verify(token)
	require.NoError(t, err)

	g.Revoke(token)

	_, err = g.Verify(token)
	require.ErrorIs(t, err, ErrRevokedToken)

	// Revocation is permanent and idempotent.
	g.Revoke(token)
	_, err = g.Verify(token)
	require.ErrorIs(t, err, ErrRevokedToken)
}

func TestRevokeIsPerToken(t *testing.T) {
	g := NewGate("test-secret", 30, NewMemoryRevocations())

	first, err := g.Issue(model.Principal{ID: 5})
	require.NoError(t, err)
	second, err := g.Issue(model.Principal{ID: 6})
	require.NoError(t, err)
	require.NotEqual(t, first, second)

	g.Revoke(first)

	_, err = g.Verify(first)
	require.ErrorIs(t, err, ErrRevokedToken)
	_, err = g.Verify(second)
	require.NoError(t, err)
}
