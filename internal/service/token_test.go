package service_test

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/foodgram/backend/internal/service"
)

func TestValidateTokenRoundTrip(t *testing.T) {
	svc := service.NewTokenService("test-secret")
	userID := uuid.New()

	token, err := svc.Sign(userID, true, time.Hour)
	require.NoError(t, err)

	claims, err := svc.ValidateToken(token)
	require.NoError(t, err)
	assert.Equal(t, userID, claims.UserID)
	assert.True(t, claims.IsAdmin)
}

func TestValidateTokenRejects(t *testing.T) {
	svc := service.NewTokenService("test-secret")

	t.Run("garbage", func(t *testing.T) {
		_, err := svc.ValidateToken("not.a.token")
		assert.ErrorIs(t, err, service.ErrInvalidToken)
	})

	t.Run("wrong secret", func(t *testing.T) {
		other := service.NewTokenService("other-secret")
		token, err := other.Sign(uuid.New(), false, time.Hour)
		require.NoError(t, err)

		_, err = svc.ValidateToken(token)
		assert.ErrorIs(t, err, service.ErrInvalidToken)
	})

	t.Run("expired", func(t *testing.T) {
		token, err := svc.Sign(uuid.New(), false, -time.Minute)
		require.NoError(t, err)

		_, err = svc.ValidateToken(token)
		assert.ErrorIs(t, err, service.ErrInvalidToken)
	})

	t.Run("nil user id", func(t *testing.T) {
		token, err := svc.Sign(uuid.Nil, false, time.Hour)
		require.NoError(t, err)

		_, err = svc.ValidateToken(token)
		assert.ErrorIs(t, err, service.ErrInvalidToken)
	})
}
