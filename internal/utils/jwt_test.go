package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestJWT_RoundTrip(t *testing.T) {
	SetJWTSecret("test-secret")

	token, err := GenerateJWT(7, "ops@example.com", "admin")
	require.NoError(t, err)

	claims, err := ValidateJWT(token)
	require.NoError(t, err)
	assert.Equal(t, 7, claims.UserID)
	assert.Equal(t, "ops@example.com", claims.Email)
	assert.Equal(t, "admin", claims.Role)
}

func TestJWT_Rejects(t *testing.T) {
	SetJWTSecret("test-secret")
	token, err := GenerateJWT(7, "ops@example.com", "admin")
	require.NoError(t, err)

	SetJWTSecret("rotated")
	_, err = ValidateJWT(token)
	assert.ErrorIs(t, err, ErrInvalidToken)

	_, err = ValidateJWT("not-a-token")
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestSignature(t *testing.T) {
	sig := GenerateSignature([]byte(`{"a":1}`), "s3cret")
	assert.Len(t, sig, 64)
	assert.Equal(t, sig, GenerateSignature([]byte(`{"a":1}`), "s3cret"))
	assert.NotEqual(t, sig, GenerateSignature([]byte(`{"a":2}`), "s3cret"))
	assert.NotEqual(t, sig, GenerateSignature([]byte(`{"a":1}`), "other"))
}
