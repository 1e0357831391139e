package identity

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/nepalmeatshop/backend/internal/domain/identity"
	"github.com/nepalmeatshop/backend/internal/domain/shared"
	"github.com/nepalmeatshop/backend/internal/infrastructure/auth"
	"github.com/nepalmeatshop/backend/internal/infrastructure/config"
)

func createUserService(userRepo *MockUserRepository) (*UserService, *auth.InMemoryTokenBlacklist) {
	jwtCfg := config.JWTConfig{
		Secret:                 "test-secret-key-32-characters-long",
		AccessTokenExpiration:  15 * time.Minute,
		RefreshTokenExpiration: 7 * 24 * time.Hour,
		Issuer:                 "test-issuer",
		MaxRefreshCount:        10,
	}
	blacklist := auth.NewInMemoryTokenBlacklist()
	svc := NewUserService(userRepo, auth.NewJWTService(jwtCfg), blacklist, zap.NewNop())
	return svc, blacklist
}

func TestUserService_List_AppliesFilters(t *testing.T) {
	ctx := context.Background()
	userRepo := new(MockUserRepository)

	users := []*identity.User{createTestUser()}
	isAdmin := true

	userRepo.On("FindAll", ctx, mock.MatchedBy(func(f identity.UserFilter) bool {
		return f.Keyword == "ram" &&
			f.Status != nil && *f.Status == identity.UserStatusActive &&
			f.IsAdmin != nil && *f.IsAdmin &&
			f.Page == 2 && f.PageSize == 10
	})).Return(users, int64(11), nil)

	svc, _ := createUserService(userRepo)

	result, err := svc.List(ctx, ListUsersInput{
		Search:   "ram",
		Status:   "active",
		IsAdmin:  &isAdmin,
		Page:     2,
		PageSize: 10,
	})

	require.NoError(t, err)
	assert.Len(t, result.Users, 1)
	assert.Equal(t, int64(11), result.TotalCount)
	assert.Equal(t, 2, result.Page)

	userRepo.AssertExpectations(t)
}

func TestUserService_Promote_Success(t *testing.T) {
	ctx := context.Background()
	userRepo := new(MockUserRepository)

	user := createTestUser()

	userRepo.On("FindByID", ctx, user.ID).Return(user, nil)
	userRepo.On("Update", ctx, user).Return(nil)

	svc, _ := createUserService(userRepo)

	info, err := svc.Promote(ctx, user.ID)

	require.NoError(t, err)
	assert.True(t, info.IsAdmin)
	userRepo.AssertExpectations(t)
}

func TestUserService_Promote_AlreadyAdmin(t *testing.T) {
	ctx := context.Background()
	userRepo := new(MockUserRepository)

	user, _ := identity.NewAdminUser("admin", "admin@example.com", "Password123")

	userRepo.On("FindByID", ctx, user.ID).Return(user, nil)

	svc, _ := createUserService(userRepo)

	_, err := svc.Promote(ctx, user.ID)

	require.Error(t, err)
	var domainErr *shared.DomainError
	require.True(t, errors.As(err, &domainErr))
	assert.Equal(t, "ALREADY_ADMIN", domainErr.Code)
}

func TestUserService_Deactivate_InvalidatesSessions(t *testing.T) {
	ctx := context.Background()
	userRepo := new(MockUserRepository)

	user := createTestUser()

	userRepo.On("FindByID", ctx, user.ID).Return(user, nil)
	userRepo.On("Update", ctx, user).Return(nil)

	svc, blacklist := createUserService(userRepo)

	info, err := svc.Deactivate(ctx, user.ID)

	require.NoError(t, err)
	assert.Equal(t, string(identity.UserStatusDeactivated), info.Status)

	invalidated, err := blacklist.IsUserTokenInvalidated(ctx, user.ID.String(), time.Now().Add(-time.Second))
	require.NoError(t, err)
	assert.True(t, invalidated)
}

func TestUserService_Demote_InvalidatesSessions(t *testing.T) {
	ctx := context.Background()
	userRepo := new(MockUserRepository)

	user, _ := identity.NewAdminUser("admin", "admin@example.com", "Password123")

	userRepo.On("FindByID", ctx, user.ID).Return(user, nil)
	userRepo.On("Update", ctx, user).Return(nil)

	svc, blacklist := createUserService(userRepo)

	info, err := svc.Demote(ctx, user.ID)

	require.NoError(t, err)
	assert.False(t, info.IsAdmin)

	invalidated, err := blacklist.IsUserTokenInvalidated(ctx, user.ID.String(), time.Now().Add(-time.Second))
	require.NoError(t, err)
	assert.True(t, invalidated)
}

func TestUserService_ResetPassword_Success(t *testing.T) {
	ctx := context.Background()
	userRepo := new(MockUserRepository)

	user := createTestUser()

	userRepo.On("FindByID", ctx, user.ID).Return(user, nil)
	userRepo.On("Update", ctx, user).Return(nil)

	svc, _ := createUserService(userRepo)

	err := svc.ResetPassword(ctx, AdminResetPasswordInput{
		UserID:      user.ID,
		NewPassword: "FreshPassword789",
	})

	require.NoError(t, err)
	assert.True(t, user.VerifyPassword("FreshPassword789"))
	userRepo.AssertExpectations(t)
}

func TestUserService_Get_NotFound(t *testing.T) {
	ctx := context.Background()
	userRepo := new(MockUserRepository)

	user := createTestUser()
	userRepo.On("FindByID", ctx, user.ID).Return(nil, shared.ErrNotFound)

	svc, _ := createUserService(userRepo)

	_, err := svc.Get(ctx, user.ID)

	require.Error(t, err)
	var domainErr *shared.DomainError
	require.True(t, errors.As(err, &domainErr))
	assert.Equal(t, "USER_NOT_FOUND", domainErr.Code)
}
