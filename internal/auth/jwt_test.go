package auth

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestTokenRoundTrip(t *testing.T) {
	Init("test-secret")

	token, err := GenerateToken(42, "owner")
	require.NoError(t, err)
	require.NotEmpty(t, token)

	claims, err := ValidateToken(token)
	require.NoError(t, err)
	require.EqualValues(t, 42, claims.AccountID)
	require.Equal(t, "owner", claims.Username)
}

func TestValidateTokenWrongSecret(t *testing.T) {
	Init("first-secret")
	token, err := GenerateToken(1, "owner")
	require.NoError(t, err)

	Init("second-secret")
	_, err = ValidateToken(token)
	require.Error(t, err)
}

func TestValidateTokenGarbage(t *testing.T) {
	Init("test-secret")

	_, err := ValidateToken("not.a.token")
	require.Error(t, err)
}
