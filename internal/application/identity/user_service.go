package identity

import (
	"context"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/nepalmeatshop/backend/internal/domain/identity"
	"github.com/nepalmeatshop/backend/internal/domain/shared"
	"github.com/nepalmeatshop/backend/internal/infrastructure/auth"
)

// UserService handles back-office user management
type UserService struct {
	userRepo       identity.UserRepository
	tokenBlacklist auth.TokenBlacklist
	jwtService     *auth.JWTService
	eventPublisher shared.EventPublisher
	logger         *zap.Logger
}

// NewUserService creates a new user service
func NewUserService(
	userRepo identity.UserRepository,
	jwtService *auth.JWTService,
	tokenBlacklist auth.TokenBlacklist,
	logger *zap.Logger,
) *UserService {
	return &UserService{
		userRepo:       userRepo,
		jwtService:     jwtService,
		tokenBlacklist: tokenBlacklist,
		logger:         logger,
	}
}

// SetEventPublisher sets the event publisher for cross-context integration
func (s *UserService) SetEventPublisher(publisher shared.EventPublisher) {
	s.eventPublisher = publisher
}

// List returns users matching the filter with pagination
func (s *UserService) List(ctx context.Context, input ListUsersInput) (*ListUsersResult, error) {
	filter := identity.NewUserFilter()
	if input.Search != "" {
		filter = filter.WithKeyword(input.Search)
	}
	if input.Status != "" {
		filter = filter.WithStatus(identity.UserStatus(input.Status))
	}
	if input.IsAdmin != nil {
		filter = filter.WithIsAdmin(*input.IsAdmin)
	}
	if input.Page > 0 || input.PageSize > 0 {
		filter = filter.WithPagination(input.Page, input.PageSize)
	}
	if input.SortBy != "" {
		filter = filter.WithSorting(input.SortBy, input.SortDir)
	}

	users, total, err := s.userRepo.FindAll(ctx, filter)
	if err != nil {
		s.logger.Error("Failed to list users", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to list users")
	}

	infos := make([]UserInfo, 0, len(users))
	for _, user := range users {
		infos = append(infos, toUserInfo(user))
	}

	return &ListUsersResult{
		Users:      infos,
		TotalCount: total,
		Page:       filter.Page,
		PageSize:   filter.Limit(),
	}, nil
}

// Get returns a single user by ID
func (s *UserService) Get(ctx context.Context, id uuid.UUID) (*UserInfo, error) {
	user, err := s.userRepo.FindByID(ctx, id)
	if err != nil {
		return nil, shared.NewDomainError("USER_NOT_FOUND", "User not found")
	}

	info := toUserInfo(user)
	return &info, nil
}

// Activate re-enables a deactivated account
func (s *UserService) Activate(ctx context.Context, id uuid.UUID) (*UserInfo, error) {
	return s.mutate(ctx, id, func(user *identity.User) error {
		return user.Activate()
	})
}

// Deactivate disables an account and invalidates its active sessions
func (s *UserService) Deactivate(ctx context.Context, id uuid.UUID) (*UserInfo, error) {
	info, err := s.mutate(ctx, id, func(user *identity.User) error {
		return user.Deactivate()
	})
	if err != nil {
		return nil, err
	}

	s.invalidateSessions(ctx, id)
	return info, nil
}

// Unlock clears a login-failure lock before it expires
func (s *UserService) Unlock(ctx context.Context, id uuid.UUID) (*UserInfo, error) {
	return s.mutate(ctx, id, func(user *identity.User) error {
		return user.Unlock()
	})
}

// Promote grants back-office access
func (s *UserService) Promote(ctx context.Context, id uuid.UUID) (*UserInfo, error) {
	return s.mutate(ctx, id, func(user *identity.User) error {
		return user.Promote()
	})
}

// Demote revokes back-office access. Sessions are invalidated so a
// demoted admin cannot keep using an admin-scoped token.
func (s *UserService) Demote(ctx context.Context, id uuid.UUID) (*UserInfo, error) {
	info, err := s.mutate(ctx, id, func(user *identity.User) error {
		return user.Demote()
	})
	if err != nil {
		return nil, err
	}

	s.invalidateSessions(ctx, id)
	return info, nil
}

// ResetPassword sets a new password without the old one and invalidates
// the user's active sessions
func (s *UserService) ResetPassword(ctx context.Context, input AdminResetPasswordInput) error {
	user, err := s.userRepo.FindByID(ctx, input.UserID)
	if err != nil {
		return shared.NewDomainError("USER_NOT_FOUND", "User not found")
	}

	if err := user.SetPassword(input.NewPassword); err != nil {
		return err
	}

	if err := s.userRepo.Update(ctx, user); err != nil {
		s.logger.Error("Failed to reset user password", zap.Error(err))
		return shared.NewDomainError("INTERNAL_ERROR", "Failed to reset password")
	}

	s.publishEvents(ctx, user)
	s.invalidateSessions(ctx, input.UserID)

	s.logger.Info("User password reset by admin", zap.String("user_id", input.UserID.String()))

	return nil
}

// mutate loads a user, applies fn and saves, publishing any events
func (s *UserService) mutate(ctx context.Context, id uuid.UUID, fn func(*identity.User) error) (*UserInfo, error) {
	user, err := s.userRepo.FindByID(ctx, id)
	if err != nil {
		return nil, shared.NewDomainError("USER_NOT_FOUND", "User not found")
	}

	if err := fn(user); err != nil {
		return nil, err
	}

	if err := s.userRepo.Update(ctx, user); err != nil {
		s.logger.Error("Failed to update user", zap.String("user_id", id.String()), zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to update user")
	}

	s.publishEvents(ctx, user)

	info := toUserInfo(user)
	return &info, nil
}

func (s *UserService) invalidateSessions(ctx context.Context, userID uuid.UUID) {
	if s.tokenBlacklist == nil {
		return
	}
	ttl := s.jwtService.GetRefreshTokenExpiration()
	if err := s.tokenBlacklist.AddUserTokensToBlacklist(ctx, userID.String(), ttl); err != nil {
		s.logger.Error("Failed to invalidate user sessions",
			zap.String("user_id", userID.String()),
			zap.Error(err))
	}
}

func (s *UserService) publishEvents(ctx context.Context, user *identity.User) {
	if s.eventPublisher == nil {
		return
	}
	for _, event := range user.GetDomainEvents() {
		if err := s.eventPublisher.Publish(ctx, event); err != nil {
			s.logger.Warn("Failed to publish user event",
				zap.String("event_type", event.EventType()),
				zap.Error(err))
		}
	}
	user.ClearDomainEvents()
}
