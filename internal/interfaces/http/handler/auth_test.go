package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	identityapp "github.com/nepalmeatshop/backend/internal/application/identity"
	"github.com/nepalmeatshop/backend/internal/domain/identity"
	"github.com/nepalmeatshop/backend/internal/domain/shared"
	"github.com/nepalmeatshop/backend/internal/infrastructure/auth"
	"github.com/nepalmeatshop/backend/internal/infrastructure/config"
	"github.com/nepalmeatshop/backend/internal/interfaces/http/middleware"
)

// testJWTConfig returns a default JWT config for tests
func testJWTConfig() config.JWTConfig {
	return config.JWTConfig{
		Secret:                 "test-secret-key-32-characters-long",
		AccessTokenExpiration:  15 * time.Minute,
		RefreshTokenExpiration: 7 * 24 * time.Hour,
		Issuer:                 "test-issuer",
		MaxRefreshCount:        10,
	}
}

// MockUserRepository is a mock implementation of identity.UserRepository
type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) Create(ctx context.Context, user *identity.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *MockUserRepository) Update(ctx context.Context, user *identity.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *MockUserRepository) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockUserRepository) FindByID(ctx context.Context, id uuid.UUID) (*identity.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*identity.User), args.Error(1)
}

func (m *MockUserRepository) FindByUsername(ctx context.Context, username string) (*identity.User, error) {
	args := m.Called(ctx, username)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*identity.User), args.Error(1)
}

func (m *MockUserRepository) FindByEmail(ctx context.Context, email string) (*identity.User, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*identity.User), args.Error(1)
}

func (m *MockUserRepository) FindAll(ctx context.Context, filter identity.UserFilter) ([]*identity.User, int64, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).([]*identity.User), args.Get(1).(int64), args.Error(2)
}

func (m *MockUserRepository) ExistsByUsername(ctx context.Context, username string) (bool, error) {
	args := m.Called(ctx, username)
	return args.Bool(0), args.Error(1)
}

func (m *MockUserRepository) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	args := m.Called(ctx, email)
	return args.Bool(0), args.Error(1)
}

func (m *MockUserRepository) Count(ctx context.Context) (int64, error) {
	args := m.Called(ctx)
	return args.Get(0).(int64), args.Error(1)
}

func setupAuthRouter(handler *AuthHandler, jwtService *auth.JWTService) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()

	// Public auth routes
	authGroup := r.Group("/api/v1/auth")
	{
		authGroup.POST("/register", handler.Register)
		authGroup.POST("/login", handler.Login)
		authGroup.POST("/refresh", handler.RefreshToken)
	}

	// Protected auth routes (JWT required)
	protectedGroup := r.Group("/api/v1/auth")
	protectedGroup.Use(middleware.JWTAuthMiddleware(jwtService))
	{
		protectedGroup.POST("/logout", handler.Logout)
		protectedGroup.GET("/profile", handler.GetCurrentUser)
		protectedGroup.PUT("/profile", handler.UpdateProfile)
		protectedGroup.POST("/password", handler.ChangePassword)
	}

	return r
}

func createActiveCustomer() *identity.User {
	user, _ := identity.NewUser("testuser", "customer@example.com", "Password123")
	return user
}

func setupAuthHandler(userRepo *MockUserRepository, jwtService *auth.JWTService) *AuthHandler {
	authService := identityapp.NewAuthService(
		userRepo,
		jwtService,
		nil,
		identityapp.DefaultAuthServiceConfig(),
		zap.NewNop(),
	)
	return NewAuthHandler(authService)
}

func bearerTokenFor(t *testing.T, jwtService *auth.JWTService, user *identity.User) string {
	t.Helper()
	pair, err := jwtService.GenerateTokenPair(auth.GenerateTokenInput{
		UserID:   user.ID,
		Username: user.Username,
		IsAdmin:  user.IsAdmin,
	})
	require.NoError(t, err)
	return pair.AccessToken
}

func TestAuthHandler_Register_Success(t *testing.T) {
	userRepo := new(MockUserRepository)
	jwtService := auth.NewJWTService(testJWTConfig())

	userRepo.On("ExistsByUsername", mock.Anything, "newshopper").Return(false, nil)
	userRepo.On("ExistsByEmail", mock.Anything, "shopper@example.com").Return(false, nil)
	userRepo.On("Create", mock.Anything, mock.AnythingOfType("*identity.User")).Return(nil)

	handler := setupAuthHandler(userRepo, jwtService)
	router := setupAuthRouter(handler, jwtService)

	reqBody := RegisterRequest{
		Username: "newshopper",
		Email:    "shopper@example.com",
		Password: "Password123",
		FullName: "New Shopper",
		Phone:    "9841234567",
		Address:  "Baluwatar, Kathmandu",
	}
	body, _ := json.Marshal(reqBody)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/register", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()

	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusCreated, w.Code)

	var response map[string]interface{}
	err := json.Unmarshal(w.Body.Bytes(), &response)
	require.NoError(t, err)

	assert.True(t, response["success"].(bool))
	data := response["data"].(map[string]interface{})
	token := data["token"].(map[string]interface{})
	assert.NotEmpty(t, token["access_token"])
	assert.NotEmpty(t, token["refresh_token"])
	assert.Equal(t, "Bearer", token["token_type"])

	userData := data["user"].(map[string]interface{})
	assert.Equal(t, "newshopper", userData["username"])
	assert.False(t, userData["is_admin"].(bool))

	userRepo.AssertExpectations(t)
}

func TestAuthHandler_Register_UsernameTaken(t *testing.T) {
	userRepo := new(MockUserRepository)
	jwtService := auth.NewJWTService(testJWTConfig())

	userRepo.On("ExistsByUsername", mock.Anything, "testuser").Return(true, nil)

	handler := setupAuthHandler(userRepo, jwtService)
	router := setupAuthRouter(handler, jwtService)

	reqBody := RegisterRequest{
		Username: "testuser",
		Email:    "other@example.com",
		Password: "Password123",
	}
	body, _ := json.Marshal(reqBody)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/register", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()

	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusConflict, w.Code)
	userRepo.AssertExpectations(t)
}

func TestAuthHandler_Register_EmailTaken(t *testing.T) {
	userRepo := new(MockUserRepository)
	jwtService := auth.NewJWTService(testJWTConfig())

	userRepo.On("ExistsByUsername", mock.Anything, "newshopper").Return(false, nil)
	userRepo.On("ExistsByEmail", mock.Anything, "customer@example.com").Return(true, nil)

	handler := setupAuthHandler(userRepo, jwtService)
	router := setupAuthRouter(handler, jwtService)

	reqBody := RegisterRequest{
		Username: "newshopper",
		Email:    "customer@example.com",
		Password: "Password123",
	}
	body, _ := json.Marshal(reqBody)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/register", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()

	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusConflict, w.Code)
	userRepo.AssertExpectations(t)
}

func TestAuthHandler_Login_Success(t *testing.T) {
	userRepo := new(MockUserRepository)
	jwtService := auth.NewJWTService(testJWTConfig())

	user := createActiveCustomer()

	userRepo.On("FindByUsername", mock.Anything, "testuser").Return(user, nil)
	userRepo.On("Update", mock.Anything, user).Return(nil)

	handler := setupAuthHandler(userRepo, jwtService)
	router := setupAuthRouter(handler, jwtService)

	reqBody := LoginRequest{
		Identifier: "testuser",
		Password:   "Password123",
	}
	body, _ := json.Marshal(reqBody)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/login", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()

	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var response map[string]interface{}
	err := json.Unmarshal(w.Body.Bytes(), &response)
	require.NoError(t, err)

	assert.True(t, response["success"].(bool))
	data := response["data"].(map[string]interface{})
	token := data["token"].(map[string]interface{})
	assert.NotEmpty(t, token["access_token"])
	assert.NotEmpty(t, token["refresh_token"])
	assert.Equal(t, "Bearer", token["token_type"])

	userData := data["user"].(map[string]interface{})
	assert.Equal(t, "testuser", userData["username"])

	userRepo.AssertExpectations(t)
}

func TestAuthHandler_Login_WithEmail(t *testing.T) {
	userRepo := new(MockUserRepository)
	jwtService := auth.NewJWTService(testJWTConfig())

	user := createActiveCustomer()

	userRepo.On("FindByEmail", mock.Anything, "customer@example.com").Return(user, nil)
	userRepo.On("Update", mock.Anything, user).Return(nil)

	handler := setupAuthHandler(userRepo, jwtService)
	router := setupAuthRouter(handler, jwtService)

	reqBody := LoginRequest{
		Identifier: "customer@example.com",
		Password:   "Password123",
	}
	body, _ := json.Marshal(reqBody)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/login", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()

	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	userRepo.AssertExpectations(t)
}

func TestAuthHandler_Login_WrongPassword(t *testing.T) {
	userRepo := new(MockUserRepository)
	jwtService := auth.NewJWTService(testJWTConfig())

	user := createActiveCustomer()

	userRepo.On("FindByUsername", mock.Anything, "testuser").Return(user, nil)
	userRepo.On("Update", mock.Anything, user).Return(nil)

	handler := setupAuthHandler(userRepo, jwtService)
	router := setupAuthRouter(handler, jwtService)

	reqBody := LoginRequest{
		Identifier: "testuser",
		Password:   "WrongPassword1",
	}
	body, _ := json.Marshal(reqBody)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/login", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()

	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)

	var response map[string]interface{}
	err := json.Unmarshal(w.Body.Bytes(), &response)
	require.NoError(t, err)

	errorInfo := response["error"].(map[string]interface{})
	assert.Equal(t, "INVALID_CREDENTIALS", errorInfo["code"])

	userRepo.AssertExpectations(t)
}

func TestAuthHandler_Login_UnknownUser(t *testing.T) {
	userRepo := new(MockUserRepository)
	jwtService := auth.NewJWTService(testJWTConfig())

	userRepo.On("FindByUsername", mock.Anything, "ghost").Return(nil, shared.ErrNotFound)

	handler := setupAuthHandler(userRepo, jwtService)
	router := setupAuthRouter(handler, jwtService)

	reqBody := LoginRequest{
		Identifier: "ghost",
		Password:   "Password123",
	}
	body, _ := json.Marshal(reqBody)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/login", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()

	router.ServeHTTP(w, req)

	// Unknown users get the same response as wrong passwords
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	userRepo.AssertExpectations(t)
}

func TestAuthHandler_Login_DeactivatedAccount(t *testing.T) {
	userRepo := new(MockUserRepository)
	jwtService := auth.NewJWTService(testJWTConfig())

	user := createActiveCustomer()
	require.NoError(t, user.Deactivate())

	userRepo.On("FindByUsername", mock.Anything, "testuser").Return(user, nil)

	handler := setupAuthHandler(userRepo, jwtService)
	router := setupAuthRouter(handler, jwtService)

	reqBody := LoginRequest{
		Identifier: "testuser",
		Password:   "Password123",
	}
	body, _ := json.Marshal(reqBody)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/login", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()

	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusForbidden, w.Code)
	userRepo.AssertExpectations(t)
}

func TestAuthHandler_Login_InvalidRequestBody(t *testing.T) {
	userRepo := new(MockUserRepository)
	jwtService := auth.NewJWTService(testJWTConfig())

	handler := setupAuthHandler(userRepo, jwtService)
	router := setupAuthRouter(handler, jwtService)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/login", bytes.NewReader([]byte("invalid json")))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()

	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestAuthHandler_RefreshToken_Success(t *testing.T) {
	userRepo := new(MockUserRepository)
	jwtService := auth.NewJWTService(testJWTConfig())

	user := createActiveCustomer()

	userRepo.On("FindByID", mock.Anything, user.ID).Return(user, nil)

	handler := setupAuthHandler(userRepo, jwtService)
	router := setupAuthRouter(handler, jwtService)

	pair, err := jwtService.GenerateTokenPair(auth.GenerateTokenInput{
		UserID:   user.ID,
		Username: user.Username,
	})
	require.NoError(t, err)

	reqBody := RefreshTokenRequest{RefreshToken: pair.RefreshToken}
	body, _ := json.Marshal(reqBody)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/refresh", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()

	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var response map[string]interface{}
	err = json.Unmarshal(w.Body.Bytes(), &response)
	require.NoError(t, err)

	assert.True(t, response["success"].(bool))
	data := response["data"].(map[string]interface{})
	token := data["token"].(map[string]interface{})
	assert.NotEmpty(t, token["access_token"])
	assert.NotEmpty(t, token["refresh_token"])

	userRepo.AssertExpectations(t)
}

func TestAuthHandler_RefreshToken_InvalidToken(t *testing.T) {
	userRepo := new(MockUserRepository)
	jwtService := auth.NewJWTService(testJWTConfig())

	handler := setupAuthHandler(userRepo, jwtService)
	router := setupAuthRouter(handler, jwtService)

	reqBody := RefreshTokenRequest{RefreshToken: "not-a-valid-token"}
	body, _ := json.Marshal(reqBody)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/refresh", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()

	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestAuthHandler_Logout_Success(t *testing.T) {
	userRepo := new(MockUserRepository)
	jwtService := auth.NewJWTService(testJWTConfig())

	user := createActiveCustomer()

	handler := setupAuthHandler(userRepo, jwtService)
	router := setupAuthRouter(handler, jwtService)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/logout", nil)
	req.Header.Set("Authorization", "Bearer "+bearerTokenFor(t, jwtService, user))
	w := httptest.NewRecorder()

	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var response map[string]interface{}
	err := json.Unmarshal(w.Body.Bytes(), &response)
	require.NoError(t, err)

	data := response["data"].(map[string]interface{})
	assert.Equal(t, "Logged out successfully", data["message"])
}

func TestAuthHandler_Logout_MissingToken(t *testing.T) {
	userRepo := new(MockUserRepository)
	jwtService := auth.NewJWTService(testJWTConfig())

	handler := setupAuthHandler(userRepo, jwtService)
	router := setupAuthRouter(handler, jwtService)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/logout", nil)
	w := httptest.NewRecorder()

	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestAuthHandler_GetCurrentUser_Success(t *testing.T) {
	userRepo := new(MockUserRepository)
	jwtService := auth.NewJWTService(testJWTConfig())

	user := createActiveCustomer()

	userRepo.On("FindByID", mock.Anything, user.ID).Return(user, nil)

	handler := setupAuthHandler(userRepo, jwtService)
	router := setupAuthRouter(handler, jwtService)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/auth/profile", nil)
	req.Header.Set("Authorization", "Bearer "+bearerTokenFor(t, jwtService, user))
	w := httptest.NewRecorder()

	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var response map[string]interface{}
	err := json.Unmarshal(w.Body.Bytes(), &response)
	require.NoError(t, err)

	data := response["data"].(map[string]interface{})
	assert.Equal(t, "testuser", data["username"])
	assert.Equal(t, "customer@example.com", data["email"])

	userRepo.AssertExpectations(t)
}

func TestAuthHandler_UpdateProfile_Success(t *testing.T) {
	userRepo := new(MockUserRepository)
	jwtService := auth.NewJWTService(testJWTConfig())

	user := createActiveCustomer()

	userRepo.On("FindByID", mock.Anything, user.ID).Return(user, nil)
	userRepo.On("Update", mock.Anything, user).Return(nil)

	handler := setupAuthHandler(userRepo, jwtService)
	router := setupAuthRouter(handler, jwtService)

	fullName := "Sita Sharma"
	phone := "9812345678"
	reqBody := UpdateProfileRequest{
		FullName: &fullName,
		Phone:    &phone,
	}
	body, _ := json.Marshal(reqBody)

	req := httptest.NewRequest(http.MethodPut, "/api/v1/auth/profile", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+bearerTokenFor(t, jwtService, user))
	w := httptest.NewRecorder()

	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var response map[string]interface{}
	err := json.Unmarshal(w.Body.Bytes(), &response)
	require.NoError(t, err)

	data := response["data"].(map[string]interface{})
	assert.Equal(t, "Sita Sharma", data["full_name"])
	assert.Equal(t, "9812345678", data["phone"])

	userRepo.AssertExpectations(t)
}

func TestAuthHandler_ChangePassword_Success(t *testing.T) {
	userRepo := new(MockUserRepository)
	jwtService := auth.NewJWTService(testJWTConfig())

	user := createActiveCustomer()

	userRepo.On("FindByID", mock.Anything, user.ID).Return(user, nil)
	userRepo.On("Update", mock.Anything, user).Return(nil)

	handler := setupAuthHandler(userRepo, jwtService)
	router := setupAuthRouter(handler, jwtService)

	reqBody := ChangePasswordRequest{
		OldPassword: "Password123",
		NewPassword: "NewPassword456",
	}
	body, _ := json.Marshal(reqBody)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/password", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+bearerTokenFor(t, jwtService, user))
	w := httptest.NewRecorder()

	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var response map[string]interface{}
	err := json.Unmarshal(w.Body.Bytes(), &response)
	require.NoError(t, err)

	data := response["data"].(map[string]interface{})
	assert.Equal(t, "Password changed successfully", data["message"])

	userRepo.AssertExpectations(t)
}

func TestAuthHandler_ChangePassword_WrongOldPassword(t *testing.T) {
	userRepo := new(MockUserRepository)
	jwtService := auth.NewJWTService(testJWTConfig())

	user := createActiveCustomer()

	userRepo.On("FindByID", mock.Anything, user.ID).Return(user, nil)

	handler := setupAuthHandler(userRepo, jwtService)
	router := setupAuthRouter(handler, jwtService)

	reqBody := ChangePasswordRequest{
		OldPassword: "WrongPassword1",
		NewPassword: "NewPassword456",
	}
	body, _ := json.Marshal(reqBody)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/password", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+bearerTokenFor(t, jwtService, user))
	w := httptest.NewRecorder()

	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	userRepo.AssertExpectations(t)
}
