package auth

import (
	"testing"

	"shifa-backend/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "0123456789abcdef0123456789abcdef"

func TestTokenRoundTrip(t *testing.T) {
	branchID := uint(3)
	user := &models.User{
		Email:    "staff@clinic.af",
		Role:     models.RoleStaff,
		BranchID: &branchID,
	}
	user.ID = 7

	token, err := GenerateToken(testSecret, user)
	require.NoError(t, err)
	require.NotEmpty(t, token)

	claims, err := ParseToken(testSecret, token)
	require.NoError(t, err)
	assert.Equal(t, uint(7), claims.UserID)
	assert.Equal(t, "staff@clinic.af", claims.Email)
	assert.Equal(t, models.RoleStaff, claims.Role)
	require.NotNil(t, claims.BranchID)
	assert.Equal(t, uint(3), *claims.BranchID)
}

func TestParseTokenRejectsWrongSecret(t *testing.T) {
	user := &models.User{Email: "admin@clinic.af", Role: models.RoleAdmin}
	user.ID = 1

	token, err := GenerateToken(testSecret, user)
	require.NoError(t, err)

	_, err = ParseToken("another-secret-another-secret-ab", token)
	assert.Error(t, err)
}

func TestParseTokenRejectsGarbage(t *testing.T) {
	_, err := ParseToken(testSecret, "not.a.token")
	assert.Error(t, err)
}
