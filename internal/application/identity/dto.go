package identity

import (
	"time"

	"github.com/google/uuid"

	"github.com/nepalmeatshop/backend/internal/domain/identity"
)

// RegisterInput contains the input for customer registration
type RegisterInput struct {
	Username string
	Email    string
	Password string
	FullName string
	Phone    string
	Address  string
}

// LoginInput contains the input for user login. Identifier matches
// either the username or the email address.
type LoginInput struct {
	Identifier string
	Password   string
	IP         string // Client IP for login tracking
}

// LoginResult contains the result of a successful login
type LoginResult struct {
	AccessToken           string
	RefreshToken          string
	AccessTokenExpiresAt  time.Time
	RefreshTokenExpiresAt time.Time
	TokenType             string
	User                  UserInfo
}

// UserInfo contains user information returned by auth and profile endpoints
type UserInfo struct {
	ID          uuid.UUID  `json:"id"`
	Username    string     `json:"username"`
	Email       string     `json:"email"`
	Phone       string     `json:"phone,omitempty"`
	FullName    string     `json:"full_name,omitempty"`
	Address     string     `json:"address,omitempty"`
	IsAdmin     bool       `json:"is_admin"`
	Status      string     `json:"status"`
	LastLoginAt *time.Time `json:"last_login_at,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
}

func toUserInfo(user *identity.User) UserInfo {
	return UserInfo{
		ID:          user.ID,
		Username:    user.Username,
		Email:       user.Email,
		Phone:       user.Phone,
		FullName:    user.FullName,
		Address:     user.Address,
		IsAdmin:     user.IsAdmin,
		Status:      string(user.Status),
		LastLoginAt: user.LastLoginAt,
		CreatedAt:   user.CreatedAt,
	}
}

// RefreshTokenInput contains the input for token refresh
type RefreshTokenInput struct {
	RefreshToken string
}

// RefreshTokenResult contains the result of a token refresh
type RefreshTokenResult struct {
	AccessToken           string
	RefreshToken          string
	AccessTokenExpiresAt  time.Time
	RefreshTokenExpiresAt time.Time
	TokenType             string
}

// LogoutInput contains the input for user logout. JTI and ExpiresAt
// come from the validated access token so the blacklist entry lives
// exactly as long as the token would have.
type LogoutInput struct {
	UserID    uuid.UUID
	JTI       string
	ExpiresAt time.Time
}

// ChangePasswordInput contains the input for password change
type ChangePasswordInput struct {
	UserID      uuid.UUID
	OldPassword string
	NewPassword string
}

// UpdateProfileInput contains the input for updating the caller's
// profile. Nil fields keep their current values.
type UpdateProfileInput struct {
	UserID   uuid.UUID
	FullName *string
	Phone    *string
	Address  *string
}

// ListUsersInput contains the filters for the admin user listing
type ListUsersInput struct {
	Search   string
	Status   string
	IsAdmin  *bool
	Page     int
	PageSize int
	SortBy   string
	SortDir  string
}

// ListUsersResult contains a page of users with pagination info
type ListUsersResult struct {
	Users      []UserInfo
	TotalCount int64
	Page       int
	PageSize   int
}

// AdminResetPasswordInput contains the input for an admin password reset
type AdminResetPasswordInput struct {
	UserID      uuid.UUID
	NewPassword string
}
