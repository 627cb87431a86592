package service

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"stockdata-api/internal/config"
)

func TestAuthDefaultAdminFallback(t *testing.T) {
	auth := NewAuthService(config.AuthConf{Secret: "test-secret", ExpireMinutes: 30})

	token, expiresAt, err := auth.Login("admin", "admin123")
	require.NoError(t, err)
	require.NotEmpty(t, token)
	require.WithinDuration(t, time.Now().Add(30*time.Minute), expiresAt, 5*time.Second)

	_, _, err = auth.Login("admin", "wrong")
	require.ErrorIs(t, err, ErrInvalidCredentials)
	_, _, err = auth.Login("ghost", "admin123")
	require.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestAuthConfiguredUsers(t *testing.T) {
	auth := NewAuthService(config.AuthConf{
		Secret: "test-secret",
		Users: []config.UserConf{
			{Username: "alice", Password: "s3cret"},
		},
	})

	_, _, err := auth.Login("alice", "s3cret")
	require.NoError(t, err)

	// Configured users replace the default admin entirely.
	_, _, err = auth.Login("admin", "admin123")
	require.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestAuthVerifyRoundTrip(t *testing.T) {
	auth := NewAuthService(config.AuthConf{Secret: "test-secret"})

	token, _, err := auth.Login("admin", "admin123")
	require.NoError(t, err)

	subject, err := auth.Verify(token)
	require.NoError(t, err)
	require.Equal(t, "admin", subject)
}

func TestAuthVerifyRejectsBadTokens(t *testing.T) {
	auth := NewAuthService(config.AuthConf{Secret: "test-secret"})
	other := NewAuthService(config.AuthConf{Secret: "different-secret"})

	token, _, err := other.Login("admin", "admin123")
	require.NoError(t, err)

	_, err = auth.Verify(token)
	require.ErrorIs(t, err, ErrInvalidToken)
	_, err = auth.Verify("not.a.token")
	require.ErrorIs(t, err, ErrInvalidToken)
	_, err = auth.Verify("")
	require.ErrorIs(t, err, ErrInvalidToken)
}
