package integration

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	identityapp "github.com/nepalmeatshop/backend/internal/application/identity"
	"github.com/nepalmeatshop/backend/internal/infrastructure/auth"
	"github.com/nepalmeatshop/backend/internal/infrastructure/config"
	"github.com/nepalmeatshop/backend/internal/infrastructure/persistence"
)

func newAuthService(t *testing.T, testDB *TestDB) (*identityapp.AuthService, *auth.JWTService) {
	t.Helper()

	userRepo := persistence.NewGormUserRepository(testDB.DB)
	jwtService := auth.NewJWTService(config.JWTConfig{
		Secret:                 "test-secret-key-for-auth-testing-1234567890",
		RefreshSecret:          "test-refresh-secret-key-for-auth-testing",
		AccessTokenExpiration:  15 * time.Minute,
		RefreshTokenExpiration: 7 * 24 * time.Hour,
		Issuer:                 "meatshop-test",
		MaxRefreshCount:        10,
	})

	authConfig := identityapp.AuthServiceConfig{
		MaxLoginAttempts: 3,
		LockDuration:     15 * time.Minute,
	}
	return identityapp.NewAuthService(userRepo, jwtService, nil, authConfig, zap.NewNop()), jwtService
}

// TestAuthService_Integration exercises registration, login and token
// refresh against a real PostgreSQL database
func TestAuthService_Integration(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}

	testDB := NewTestDB(t)
	authService, jwtService := newAuthService(t, testDB)
	ctx := context.Background()

	register := func(t *testing.T, username, email string) *identityapp.LoginResult {
		t.Helper()
		result, err := authService.Register(ctx, identityapp.RegisterInput{
			Username: username,
			Email:    email,
			Password: "SecurePass123!",
			FullName: "Ram Bahadur",
			Phone:    "+9779841234567",
			Address:  "Baneshwor, Kathmandu",
		})
		require.NoError(t, err)
		return result
	}

	t.Run("Register issues tokens", func(t *testing.T) {
		result := register(t, "rambahadur", "ram@example.com.np")

		assert.NotEmpty(t, result.AccessToken)
		assert.NotEmpty(t, result.RefreshToken)
		assert.Equal(t, "Bearer", result.TokenType)
		assert.Equal(t, "rambahadur", result.User.Username)
		assert.False(t, result.User.IsAdmin)

		claims, err := jwtService.ValidateAccessToken(result.AccessToken)
		require.NoError(t, err)
		assert.Equal(t, result.User.ID.String(), claims.UserID)
	})

	t.Run("Register rejects duplicate username", func(t *testing.T) {
		register(t, "duplicate", "first@example.com.np")

		_, err := authService.Register(ctx, identityapp.RegisterInput{
			Username: "duplicate",
			Email:    "second@example.com.np",
			Password: "SecurePass123!",
		})
		require.Error(t, err)
	})

	t.Run("Login by username and by email", func(t *testing.T) {
		register(t, "sitadevi", "sita@example.com.np")

		byUsername, err := authService.Login(ctx, identityapp.LoginInput{
			Identifier: "sitadevi",
			Password:   "SecurePass123!",
		})
		require.NoError(t, err)
		assert.NotEmpty(t, byUsername.AccessToken)

		byEmail, err := authService.Login(ctx, identityapp.LoginInput{
			Identifier: "sita@example.com.np",
			Password:   "SecurePass123!",
		})
		require.NoError(t, err)
		assert.Equal(t, byUsername.User.ID, byEmail.User.ID)
	})

	t.Run("Login rejects wrong password", func(t *testing.T) {
		register(t, "wrongpass", "wrongpass@example.com.np")

		_, err := authService.Login(ctx, identityapp.LoginInput{
			Identifier: "wrongpass",
			Password:   "not-the-password",
		})
		require.Error(t, err)
	})

	t.Run("Account locks after repeated failures", func(t *testing.T) {
		register(t, "lockme", "lockme@example.com.np")

		for i := 0; i < 3; i++ {
			_, err := authService.Login(ctx, identityapp.LoginInput{
				Identifier: "lockme",
				Password:   "bad-password",
			})
			require.Error(t, err)
		}

		// Correct password no longer works while locked
		_, err := authService.Login(ctx, identityapp.LoginInput{
			Identifier: "lockme",
			Password:   "SecurePass123!",
		})
		require.Error(t, err)
	})

	t.Run("RefreshToken rotates the pair", func(t *testing.T) {
		result := register(t, "refresher", "refresher@example.com.np")

		refreshed, err := authService.RefreshToken(ctx, identityapp.RefreshTokenInput{
			RefreshToken: result.RefreshToken,
		})
		require.NoError(t, err)
		assert.NotEmpty(t, refreshed.AccessToken)
		assert.NotEmpty(t, refreshed.RefreshToken)

		claims, err := jwtService.ValidateAccessToken(refreshed.AccessToken)
		require.NoError(t, err)
		assert.Equal(t, result.User.ID.String(), claims.UserID)
	})

	t.Run("RefreshToken rejects garbage", func(t *testing.T) {
		_, err := authService.RefreshToken(ctx, identityapp.RefreshTokenInput{
			RefreshToken: "not-a-jwt",
		})
		require.Error(t, err)
	})
}
