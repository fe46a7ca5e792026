package jwt

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestVerify_RoundTrip(t *testing.T) {
	v := NewVerifier([]byte("test-secret"), "pipeline-service")

	tok, err := v.Sign("u-1", "c-1", []string{"admin"}, time.Minute)
	require.NoError(t, err)

	claims, err := v.Verify(tok)
	require.NoError(t, err)
	assert.Equal(t, "u-1", claims.UserID)
	assert.Equal(t, "c-1", claims.CompanyID)
	assert.True(t, claims.HasRole("admin"))
	assert.False(t, claims.HasRole("owner"))
}

func TestVerify_RejectsBadTokens(t *testing.T) {
	v := NewVerifier([]byte("test-secret"), "pipeline-service")

	_, err := v.Verify("not.a.token")
	assert.Error(t, err)

	other := NewVerifier([]byte("different-secret"), "pipeline-service")
	tok, err := other.Sign("u-1", "c-1", nil, time.Minute)
	require.NoError(t, err)
	_, err = v.Verify(tok)
	assert.Error(t, err, "wrong signing key")

	expired, err := v.Sign("u-1", "c-1", nil, -time.Minute)
	require.NoError(t, err)
	_, err = v.Verify(expired)
	assert.Error(t, err)
}

func TestVerify_RequiresTenantClaims(t *testing.T) {
	v := NewVerifier([]byte("test-secret"), "pipeline-service")

	tok, err := v.Sign("u-1", "", nil, time.Minute)
	require.NoError(t, err)
	_, err = v.Verify(tok)
	assert.ErrorContains(t, err, "company_id")

	wrongIssuer := NewVerifier([]byte("test-secret"), "someone-else")
	tok, err = wrongIssuer.Sign("u-1", "c-1", nil, time.Minute)
	require.NoError(t, err)
	_, err = v.Verify(tok)
	assert.ErrorContains(t, err, "issuer")
}
