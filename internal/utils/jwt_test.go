package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateAndValidateJWT(t *testing.T) {
	SetJWTSecret("test-secret")

	token, err := GenerateJWT(7, "admin@rehab.local", "superadmin")
	require.NoError(t, err)

	claims, err := ValidateJWT(token)
	require.NoError(t, err)
	assert.Equal(t, int64(7), claims.UserID)
	assert.Equal(t, "admin@rehab.local", claims.Email)
	assert.Equal(t, "superadmin", claims.Role)
}

func TestValidateJWTRejectsTampering(t *testing.T) {
	SetJWTSecret("test-secret")
	token, err := GenerateJWT(7, "admin@rehab.local", "admin")
	require.NoError(t, err)

	_, err = ValidateJWT(token + "x")
	assert.Error(t, err)

	SetJWTSecret("other-secret")
	_, err = ValidateJWT(token)
	assert.Error(t, err)
	SetJWTSecret("test-secret")
}
