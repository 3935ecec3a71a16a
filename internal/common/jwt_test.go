package common

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestTokenRoundTrip(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")

	token, err := GenerateToken("acct-123", "alice")
	require.NoError(t, err)
	require.NotEmpty(t, token)

	claims, err := ValidToken(token)
	require.NoError(t, err)
	require.Equal(t, "acct-123", claims.AccountID)
	require.Equal(t, "alice", claims.Username)
	require.Equal(t, "vidshare", claims.Issuer)
}

func TestValidToken_WrongSecret(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")
	token, err := GenerateToken("acct-123", "alice")
	require.NoError(t, err)

	t.Setenv("JWT_SECRET", "different-secret")
	_, err = ValidToken(token)
	require.Error(t, err)
}

func TestValidToken_Garbage(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")
	_, err := ValidToken("not.a.token")
	require.Error(t, err)
}
