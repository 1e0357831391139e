package handler

import (
	"context"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	identityapp "github.com/nepalmeatshop/backend/internal/application/identity"
	"github.com/nepalmeatshop/backend/internal/interfaces/http/middleware"
)

// UserHandler handles admin user management endpoints
type UserHandler struct {
	BaseHandler
	userService *identityapp.UserService
}

// NewUserHandler creates a new user handler
func NewUserHandler(userService *identityapp.UserService) *UserHandler {
	return &UserHandler{
		userService: userService,
	}
}

// ListUsersQuery represents the query parameters for the user listing
type ListUsersQuery struct {
	Search   string `form:"search" binding:"omitempty,max=200"`
	Status   string `form:"status" binding:"omitempty,oneof=active locked deactivated"`
	IsAdmin  *bool  `form:"is_admin"`
	Page     int    `form:"page" binding:"omitempty,min=1"`
	PageSize int    `form:"page_size" binding:"omitempty,min=1,max=100"`
	SortBy   string `form:"sort_by" binding:"omitempty,oneof=username email created_at last_login_at"`
	SortDir  string `form:"sort_dir" binding:"omitempty,oneof=asc desc"`
}

// AdminResetPasswordRequest represents the request body for an admin password reset
type AdminResetPasswordRequest struct {
	NewPassword string `json:"new_password" binding:"required,min=8,max=128"`
}

// List godoc
// @Summary      List users
// @Description  List customer and staff accounts with filtering and pagination
// @Tags         admin-users
// @Produce      json
// @Param        search query string false "Match against username, email, full name, or phone"
// @Param        status query string false "Account status" Enums(active, locked, deactivated)
// @Param        is_admin query bool false "Filter by admin flag"
// @Param        page query int false "Page number" default(1)
// @Param        page_size query int false "Page size" default(20)
// @Success      200 {object} dto.Response{data=[]identityapp.UserInfo}
// @Security     BearerAuth
// @Router       /admin/users [get]
func (h *UserHandler) List(c *gin.Context) {
	var query ListUsersQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		middleware.HandleValidationError(c, err)
		return
	}

	if query.Page == 0 {
		query.Page = 1
	}
	if query.PageSize == 0 {
		query.PageSize = 20
	}

	result, err := h.userService.List(c.Request.Context(), identityapp.ListUsersInput{
		Search:   query.Search,
		Status:   query.Status,
		IsAdmin:  query.IsAdmin,
		Page:     query.Page,
		PageSize: query.PageSize,
		SortBy:   query.SortBy,
		SortDir:  query.SortDir,
	})
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.SuccessWithMeta(c, result.Users, result.TotalCount, result.Page, result.PageSize)
}

// Get godoc
// @Summary      Get user
// @Tags         admin-users
// @Produce      json
// @Param        id path string true "User ID"
// @Success      200 {object} dto.Response{data=identityapp.UserInfo}
// @Failure      404 {object} dto.Response
// @Security     BearerAuth
// @Router       /admin/users/{id} [get]
func (h *UserHandler) Get(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid user ID format")
		return
	}

	user, err := h.userService.Get(c.Request.Context(), id)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, user)
}

// Activate godoc
// @Summary      Activate user
// @Description  Reactivate a deactivated account
// @Tags         admin-users
// @Produce      json
// @Param        id path string true "User ID"
// @Success      200 {object} dto.Response{data=identityapp.UserInfo}
// @Failure      404 {object} dto.Response
// @Security     BearerAuth
// @Router       /admin/users/{id}/activate [post]
func (h *UserHandler) Activate(c *gin.Context) {
	h.mutate(c, h.userService.Activate)
}

// Deactivate godoc
// @Summary      Deactivate user
// @Description  Deactivate an account and invalidate its sessions
// @Tags         admin-users
// @Produce      json
// @Param        id path string true "User ID"
// @Success      200 {object} dto.Response{data=identityapp.UserInfo}
// @Failure      404 {object} dto.Response
// @Security     BearerAuth
// @Router       /admin/users/{id}/deactivate [post]
func (h *UserHandler) Deactivate(c *gin.Context) {
	h.mutate(c, h.userService.Deactivate)
}

// Unlock godoc
// @Summary      Unlock user
// @Description  Clear a login-failure lockout before it expires
// @Tags         admin-users
// @Produce      json
// @Param        id path string true "User ID"
// @Success      200 {object} dto.Response{data=identityapp.UserInfo}
// @Failure      404 {object} dto.Response
// @Security     BearerAuth
// @Router       /admin/users/{id}/unlock [post]
func (h *UserHandler) Unlock(c *gin.Context) {
	h.mutate(c, h.userService.Unlock)
}

// Promote godoc
// @Summary      Grant admin access
// @Tags         admin-users
// @Produce      json
// @Param        id path string true "User ID"
// @Success      200 {object} dto.Response{data=identityapp.UserInfo}
// @Failure      404 {object} dto.Response
// @Failure      409 {object} dto.Response
// @Security     BearerAuth
// @Router       /admin/users/{id}/promote [post]
func (h *UserHandler) Promote(c *gin.Context) {
	h.mutate(c, h.userService.Promote)
}

// Demote godoc
// @Summary      Revoke admin access
// @Description  Remove the admin flag. The last remaining admin cannot be demoted.
// @Tags         admin-users
// @Produce      json
// @Param        id path string true "User ID"
// @Success      200 {object} dto.Response{data=identityapp.UserInfo}
// @Failure      404 {object} dto.Response
// @Failure      409 {object} dto.Response
// @Security     BearerAuth
// @Router       /admin/users/{id}/demote [post]
func (h *UserHandler) Demote(c *gin.Context) {
	h.mutate(c, h.userService.Demote)
}

// ResetPassword godoc
// @Summary      Reset user password
// @Description  Set a new password without the old one and invalidate the user's sessions
// @Tags         admin-users
// @Accept       json
// @Produce      json
// @Param        id path string true "User ID"
// @Param        request body AdminResetPasswordRequest true "New password"
// @Success      200 {object} dto.Response{data=LogoutResponse}
// @Failure      400 {object} dto.Response
// @Failure      404 {object} dto.Response
// @Security     BearerAuth
// @Router       /admin/users/{id}/reset-password [post]
func (h *UserHandler) ResetPassword(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid user ID format")
		return
	}

	var req AdminResetPasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.HandleValidationError(c, err)
		return
	}

	err = h.userService.ResetPassword(c.Request.Context(), identityapp.AdminResetPasswordInput{
		UserID:      id,
		NewPassword: req.NewPassword,
	})
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, LogoutResponse{
		Message: "Password reset successfully",
	})
}

func (h *UserHandler) mutate(c *gin.Context, fn func(context.Context, uuid.UUID) (*identityapp.UserInfo, error)) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid user ID format")
		return
	}

	user, err := fn(c.Request.Context(), id)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, user)
}
