package utils

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateAndValidateToken(t *testing.T) {
	SetSecret("test-secret")

	token, err := GenerateToken("u-42", "Dana", "Office", time.Hour)
	require.NoError(t, err)

	claims, err := ValidateToken(token)
	require.NoError(t, err)
	assert.Equal(t, "u-42", claims.UserID)
	assert.Equal(t, "Dana", claims.Name)
	assert.Equal(t, "Office", claims.Role)
}

func TestValidateToken_Rejects(t *testing.T) {
	SetSecret("test-secret")

	expired, err := GenerateToken("u-42", "Dana", "Office", -time.Minute)
	require.NoError(t, err)
	_, err = ValidateToken(expired)
	assert.Error(t, err)

	noUser, err := GenerateToken("", "Nobody", "Office", time.Hour)
	require.NoError(t, err)
	_, err = ValidateToken(noUser)
	assert.Error(t, err)

	SetSecret("other-secret")
	valid, err := GenerateToken("u-1", "A", "Office", time.Hour)
	require.NoError(t, err)
	SetSecret("test-secret")
	_, err = ValidateToken(valid)
	assert.Error(t, err)
}
