package auth

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/deniz/bookbridge/internal/app/models"
)

func newJWTService(exp time.Duration) *JWTService {
	return NewJWTService(JWTConfig{
		SecretKey:      "test-secret",
		AccessTokenExp: exp,
		TokenIssuer:    "bookbridge.test",
	})
}

func Test_GenerateToken_RoundTrip(t *testing.T) {
	svc := newJWTService(time.Hour)
	user := &models.User{
		ID:    uuid.New(),
		Phone: "5551234567",
		Role:  models.RoleStudent,
	}

	token, expiresIn, err := svc.GenerateToken(user)

	require.NoError(t, err)
	assert.Equal(t, int(time.Hour.Seconds()), expiresIn)

	claims, err := svc.ValidateAndExtractClaims(token)
	require.NoError(t, err)
	assert.Equal(t, user.ID.String(), claims.UID)
	assert.Equal(t, user.Phone, claims.Phone)
	assert.Equal(t, string(models.RoleStudent), claims.Role)
}

func Test_ValidateToken_RejectsExpired(t *testing.T) {
	svc := newJWTService(-time.Minute)
	user := &models.User{ID: uuid.New(), Phone: "5551234567", Role: models.RoleStudent}

	token, _, err := svc.GenerateToken(user)
	require.NoError(t, err)

	_, err = svc.ValidateToken(token)
	assert.ErrorIs(t, err, ErrExpiredToken)
}

func Test_ValidateToken_RejectsWrongSecret(t *testing.T) {
	signer := newJWTService(time.Hour)
	verifier := NewJWTService(JWTConfig{
		SecretKey:      "other-secret",
		AccessTokenExp: time.Hour,
		TokenIssuer:    "bookbridge.test",
	})
	user := &models.User{ID: uuid.New(), Phone: "5551234567", Role: models.RoleStudent}

	token, _, err := signer.GenerateToken(user)
	require.NoError(t, err)

	_, err = verifier.ValidateToken(token)
	assert.Error(t, err)
}

func Test_ExtractBearerToken(t *testing.T) {
	token, err := ExtractBearerToken("Bearer abc.def.ghi")
	require.NoError(t, err)
	assert.Equal(t, "abc.def.ghi", token)

	_, err = ExtractBearerToken("")
	assert.ErrorIs(t, err, ErrInvalidFormat)
}
