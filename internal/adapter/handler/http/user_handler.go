package http

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/kpa-erp/kpa_forms_microservice/internal/core/domain"
	"github.com/kpa-erp/kpa_forms_microservice/internal/core/ports"
	"github.com/kpa-erp/kpa_forms_microservice/internal/core/services"

	"github.com/gin-gonic/gin"
)

// Access tokens are short-lived; the wire contract reports a fixed lifetime.
const accessTokenLifetimeSeconds = 3600

type UserHandler struct {
	userService  *services.UserService
	tokenService ports.TokenService
	logger       ports.LoggerPort
	metrics      ports.MetricsPort
}

func NewUserHandler(
	userService *services.UserService,
	tokenService ports.TokenService,
	logger ports.LoggerPort,
	metrics ports.MetricsPort,
) *UserHandler {
	return &UserHandler{
		userService:  userService,
		tokenService: tokenService,
		logger:       logger,
		metrics:      metrics,
	}
}

type RegisterRequest struct {
	PhoneNumber     string  `json:"phone_number" binding:"required,min=9,max=17" example:"+919876543210"`
	Password        string  `json:"password" binding:"required,min=8"`
	ConfirmPassword string  `json:"confirm_password" binding:"required,eqfield=Password"`
	FirstName       string  `json:"first_name" binding:"required" example:"Asha"`
	LastName        string  `json:"last_name" binding:"required" example:"Rao"`
	Email           *string `json:"email,omitempty" binding:"omitempty,email"`
}

type LoginRequest struct {
	PhoneNumber string `json:"phone_number" binding:"required" example:"+919876543210"`
	Password    string `json:"password" binding:"required"`
}

type RefreshRequest struct {
	RefreshToken string `json:"refresh_token" binding:"required"`
}

type TokenResponse struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	TokenType    string `json:"token_type" example:"Bearer"`
	ExpiresIn    int    `json:"expires_in" example:"3600"`
}

type UserResponse struct {
	ID          int64      `json:"id"`
	PhoneNumber string     `json:"phone_number"`
	FirstName   string     `json:"first_name"`
	LastName    string     `json:"last_name"`
	Email       *string    `json:"email,omitempty"`
	IsStaff     bool       `json:"is_staff"`
	IsActive    bool       `json:"is_active"`
	EmployeeID  *string    `json:"employee_id,omitempty"`
	Department  string     `json:"department,omitempty"`
	Position    string     `json:"position,omitempty"`
	DateJoined  time.Time  `json:"date_joined"`
	LastLogin   *time.Time `json:"last_login,omitempty"`
}

type UpdateProfileRequest struct {
	FirstName  *string `json:"first_name,omitempty"`
	LastName   *string `json:"last_name,omitempty"`
	Email      *string `json:"email,omitempty" binding:"omitempty,email"`
	Department *string `json:"department,omitempty"`
	Position   *string `json:"position,omitempty"`
}

type ChangePasswordRequest struct {
	OldPassword        string `json:"old_password" binding:"required"`
	NewPassword        string `json:"new_password" binding:"required,min=8"`
	ConfirmNewPassword string `json:"confirm_new_password" binding:"required,eqfield=NewPassword"`
}

type CreateUserRequest struct {
	PhoneNumber string  `json:"phone_number" binding:"required,min=9,max=17"`
	Password    string  `json:"password" binding:"required,min=8"`
	FirstName   string  `json:"first_name" binding:"required"`
	LastName    string  `json:"last_name" binding:"required"`
	Email       *string `json:"email,omitempty" binding:"omitempty,email"`
	IsStaff     bool    `json:"is_staff"`
	IsActive    *bool   `json:"is_active,omitempty"`
	EmployeeID  *string `json:"employee_id,omitempty"`
	Department  string  `json:"department,omitempty"`
	Position    string  `json:"position,omitempty"`
}

type UpdateUserRequest struct {
	FirstName  *string `json:"first_name,omitempty"`
	LastName   *string `json:"last_name,omitempty"`
	Email      *string `json:"email,omitempty" binding:"omitempty,email"`
	IsStaff    *bool   `json:"is_staff,omitempty"`
	IsActive   *bool   `json:"is_active,omitempty"`
	EmployeeID *string `json:"employee_id,omitempty"`
	Department *string `json:"department,omitempty"`
	Position   *string `json:"position,omitempty"`
}

func newUserResponse(user *domain.User) UserResponse {
	return UserResponse{
		ID:          user.ID,
		PhoneNumber: user.PhoneNumber,
		FirstName:   user.FirstName,
		LastName:    user.LastName,
		Email:       user.Email,
		IsStaff:     user.IsStaff,
		IsActive:    user.IsActive,
		EmployeeID:  user.EmployeeID,
		Department:  user.Department,
		Position:    user.Position,
		DateJoined:  user.DateJoined,
		LastLogin:   user.LastLogin,
	}
}

func (h *UserHandler) issueTokens(c *gin.Context, user *domain.User) {
	accessToken, err := h.tokenService.CreateToken(user)
	if err != nil {
		newErrorResponse(c, http.StatusInternalServerError, "Failed to issue token")
		return
	}
	refreshToken, err := h.tokenService.CreateRefreshToken(user)
	if err != nil {
		newErrorResponse(c, http.StatusInternalServerError, "Failed to issue token")
		return
	}

	c.JSON(http.StatusOK, TokenResponse{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		TokenType:    "Bearer",
		ExpiresIn:    accessTokenLifetimeSeconds,
	})
}

// Register godoc
//
//	@Summary		Register a new user
//	@Description	Creates a user account keyed by phone number and returns a token pair
//	@Tags			Users
//	@Accept			json
//	@Produce		json
//	@Param			request	body		RegisterRequest	true	"Registration payload"
//	@Success		200		{object}	TokenResponse
//	@Failure		400		{object}	errorResponse
//	@Router			/api/users/register [post]
func (h *UserHandler) Register(c *gin.Context) {
	start := time.Now()
	defer h.metrics.RecordMetrics(c, start)

	var req RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		newErrorResponse(c, http.StatusBadRequest, "Invalid JSON format")
		return
	}

	user := &domain.User{
		PhoneNumber: req.PhoneNumber,
		FirstName:   req.FirstName,
		LastName:    req.LastName,
		Email:       req.Email,
		IsActive:    true,
	}

	createdUser, err := h.userService.Register(c.Request.Context(), user, req.Password)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrInvalidPhoneNumber):
			newErrorResponse(c, http.StatusBadRequest, "Invalid phone number format")
		case errors.Is(err, domain.ErrPhoneNumberExists):
			newErrorResponse(c, http.StatusBadRequest, "User with this phone number already exists")
		case errors.Is(err, domain.ErrEmailExists):
			newErrorResponse(c, http.StatusBadRequest, "User with this email already exists")
		default:
			newErrorResponse(c, http.StatusInternalServerError, "Registration failed")
		}
		return
	}

	h.issueTokens(c, createdUser)
}

// Login godoc
//
//	@Summary		Log in
//	@Description	Authenticates by phone number and password, returns a token pair
//	@Tags			Users
//	@Accept			json
//	@Produce		json
//	@Param			request	body		LoginRequest	true	"Login payload"
//	@Success		200		{object}	TokenResponse
//	@Failure		401		{object}	errorResponse
//	@Router			/api/users/login [post]
func (h *UserHandler) Login(c *gin.Context) {
	start := time.Now()
	defer h.metrics.RecordMetrics(c, start)

	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		newErrorResponse(c, http.StatusBadRequest, "Invalid JSON format")
		return
	}

	user, err := h.userService.Authenticate(c.Request.Context(), req.PhoneNumber, req.Password)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrInvalidCredentials):
			newErrorResponse(c, http.StatusUnauthorized, "Invalid phone number or password")
		case errors.Is(err, domain.ErrUserDisabled):
			newErrorResponse(c, http.StatusUnauthorized, "User account is disabled")
		default:
			newErrorResponse(c, http.StatusInternalServerError, "Login failed")
		}
		return
	}

	h.issueTokens(c, user)
}

// Refresh godoc
//
//	@Summary		Refresh tokens
//	@Description	Exchanges a valid refresh token for a new token pair
//	@Tags			Users
//	@Accept			json
//	@Produce		json
//	@Param			request	body		RefreshRequest	true	"Refresh payload"
//	@Success		200		{object}	TokenResponse
//	@Failure		401		{object}	errorResponse
//	@Router			/api/users/refresh [post]
func (h *UserHandler) Refresh(c *gin.Context) {
	start := time.Now()
	defer h.metrics.RecordMetrics(c, start)

	var req RefreshRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		newErrorResponse(c, http.StatusBadRequest, "Invalid JSON format")
		return
	}

	payload, err := h.tokenService.VerifyToken(req.RefreshToken)
	if err != nil || payload.Type != domain.TokenRefresh {
		newErrorResponse(c, http.StatusUnauthorized, "Invalid refresh token")
		return
	}

	user, err := h.userService.GetUserByID(c.Request.Context(), payload.UserID)
	if err != nil {
		newErrorResponse(c, http.StatusUnauthorized, "Invalid refresh token")
		return
	}
	if !user.IsActive {
		newErrorResponse(c, http.StatusUnauthorized, "User account is disabled")
		return
	}

	h.issueTokens(c, user)
}

// GetProfile godoc
//
//	@Summary		Get own profile
//	@Tags			Users
//	@Produce		json
//	@Success		200	{object}	UserResponse
//	@Failure		401	{object}	errorResponse
//	@Router			/api/users/profile [get]
//	@Security		BearerAuth
func (h *UserHandler) GetProfile(c *gin.Context) {
	start := time.Now()
	defer h.metrics.RecordMetrics(c, start)

	payload, ok := getAuthPayload(c, authorizationPayloadKey)
	if !ok {
		newErrorResponse(c, http.StatusUnauthorized, "Authorization payload is missing")
		return
	}

	user, err := h.userService.GetUserByID(c.Request.Context(), payload.UserID)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			newErrorResponse(c, http.StatusNotFound, "User not found")
			return
		}
		newErrorResponse(c, http.StatusInternalServerError, "Failed to fetch profile")
		return
	}

	c.JSON(http.StatusOK, newUserResponse(user))
}

// UpdateProfile godoc
//
//	@Summary		Update own profile
//	@Tags			Users
//	@Accept			json
//	@Produce		json
//	@Param			request	body		UpdateProfileRequest	true	"Profile fields to update"
//	@Success		200		{object}	UserResponse
//	@Failure		400		{object}	errorResponse
//	@Router			/api/users/profile [put]
//	@Security		BearerAuth
func (h *UserHandler) UpdateProfile(c *gin.Context) {
	start := time.Now()
	defer h.metrics.RecordMetrics(c, start)

	payload, ok := getAuthPayload(c, authorizationPayloadKey)
	if !ok {
		newErrorResponse(c, http.StatusUnauthorized, "Authorization payload is missing")
		return
	}

	var req UpdateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		newErrorResponse(c, http.StatusBadRequest, "Invalid JSON format")
		return
	}

	user, err := h.userService.GetUserByID(c.Request.Context(), payload.UserID)
	if err != nil {
		newErrorResponse(c, http.StatusNotFound, "User not found")
		return
	}

	if req.FirstName != nil {
		user.FirstName = *req.FirstName
	}
	if req.LastName != nil {
		user.LastName = *req.LastName
	}
	if req.Email != nil {
		user.Email = req.Email
	}
	if req.Department != nil {
		user.Department = *req.Department
	}
	if req.Position != nil {
		user.Position = *req.Position
	}

	updatedUser, err := h.userService.UpdateUser(c.Request.Context(), user)
	if err != nil {
		if errors.Is(err, domain.ErrEmailExists) {
			newErrorResponse(c, http.StatusBadRequest, "User with this email already exists")
			return
		}
		newErrorResponse(c, http.StatusInternalServerError, "Failed to update profile")
		return
	}

	c.JSON(http.StatusOK, newUserResponse(updatedUser))
}

// ChangePassword godoc
//
//	@Summary		Change own password
//	@Tags			Users
//	@Accept			json
//	@Produce		json
//	@Param			request	body		ChangePasswordRequest	true	"Password change payload"
//	@Success		200		{object}	map[string]interface{}
//	@Failure		400		{object}	errorResponse
//	@Router			/api/users/change-password [post]
//	@Security		BearerAuth
func (h *UserHandler) ChangePassword(c *gin.Context) {
	start := time.Now()
	defer h.metrics.RecordMetrics(c, start)

	payload, ok := getAuthPayload(c, authorizationPayloadKey)
	if !ok {
		newErrorResponse(c, http.StatusUnauthorized, "Authorization payload is missing")
		return
	}

	var req ChangePasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		newErrorResponse(c, http.StatusBadRequest, "Invalid JSON format")
		return
	}

	err := h.userService.ChangePassword(c.Request.Context(), payload.UserID, req.OldPassword, req.NewPassword)
	if err != nil {
		if errors.Is(err, domain.ErrInvalidOldPassword) {
			newErrorResponse(c, http.StatusBadRequest, "Invalid old password")
			return
		}
		newErrorResponse(c, http.StatusInternalServerError, "Failed to change password")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Password changed successfully",
	})
}

// ListUsers godoc
//
//	@Summary		List users
//	@Description	Staff only
//	@Tags			Users
//	@Produce		json
//	@Success		200	{array}		UserResponse
//	@Failure		403	{object}	errorResponse
//	@Router			/api/users/users [get]
//	@Security		BearerAuth
func (h *UserHandler) ListUsers(c *gin.Context) {
	start := time.Now()
	defer h.metrics.RecordMetrics(c, start)

	payload, ok := getAuthPayload(c, authorizationPayloadKey)
	if !ok {
		newErrorResponse(c, http.StatusUnauthorized, "Authorization payload is missing")
		return
	}
	if !payload.IsStaff {
		newErrorResponse(c, http.StatusForbidden, "Permission denied")
		return
	}

	users, err := h.userService.ListUsers(c.Request.Context())
	if err != nil {
		newErrorResponse(c, http.StatusInternalServerError, "Failed to list users")
		return
	}

	resp := make([]UserResponse, 0, len(users))
	for _, user := range users {
		resp = append(resp, newUserResponse(user))
	}
	c.JSON(http.StatusOK, resp)
}

// GetUser godoc
//
//	@Summary		Get a user by ID
//	@Description	Users can read their own account; staff can read any
//	@Tags			Users
//	@Produce		json
//	@Param			id	path		int	true	"User ID"
//	@Success		200	{object}	UserResponse
//	@Failure		403	{object}	errorResponse
//	@Failure		404	{object}	errorResponse
//	@Router			/api/users/users/{id} [get]
//	@Security		BearerAuth
func (h *UserHandler) GetUser(c *gin.Context) {
	start := time.Now()
	defer h.metrics.RecordMetrics(c, start)

	payload, ok := getAuthPayload(c, authorizationPayloadKey)
	if !ok {
		newErrorResponse(c, http.StatusUnauthorized, "Authorization payload is missing")
		return
	}

	userID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		newErrorResponse(c, http.StatusBadRequest, "Invalid user ID")
		return
	}

	if !payload.IsStaff && payload.UserID != userID {
		newErrorResponse(c, http.StatusForbidden, "Permission denied")
		return
	}

	user, err := h.userService.GetUserByID(c.Request.Context(), userID)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			newErrorResponse(c, http.StatusNotFound, "User not found")
			return
		}
		newErrorResponse(c, http.StatusInternalServerError, "Failed to fetch user")
		return
	}

	c.JSON(http.StatusOK, newUserResponse(user))
}

// CreateUser godoc
//
//	@Summary		Create a user
//	@Description	Staff only; provisions an account, optionally disabled
//	@Tags			Users
//	@Accept			json
//	@Produce		json
//	@Param			request	body		CreateUserRequest	true	"User payload"
//	@Success		201		{object}	UserResponse
//	@Failure		400		{object}	errorResponse
//	@Failure		403		{object}	errorResponse
//	@Router			/api/users/users [post]
//	@Security		BearerAuth
func (h *UserHandler) CreateUser(c *gin.Context) {
	start := time.Now()
	defer h.metrics.RecordMetrics(c, start)

	payload, ok := getAuthPayload(c, authorizationPayloadKey)
	if !ok {
		newErrorResponse(c, http.StatusUnauthorized, "Authorization payload is missing")
		return
	}
	if !payload.IsStaff {
		newErrorResponse(c, http.StatusForbidden, "Permission denied")
		return
	}

	var req CreateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		newErrorResponse(c, http.StatusBadRequest, "Invalid JSON format")
		return
	}

	isActive := true
	if req.IsActive != nil {
		isActive = *req.IsActive
	}

	user := &domain.User{
		PhoneNumber: req.PhoneNumber,
		FirstName:   req.FirstName,
		LastName:    req.LastName,
		Email:       req.Email,
		IsStaff:     req.IsStaff,
		IsActive:    isActive,
		EmployeeID:  req.EmployeeID,
		Department:  req.Department,
		Position:    req.Position,
	}

	createdUser, err := h.userService.Register(c.Request.Context(), user, req.Password)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrInvalidPhoneNumber):
			newErrorResponse(c, http.StatusBadRequest, "Invalid phone number format")
		case errors.Is(err, domain.ErrPhoneNumberExists):
			newErrorResponse(c, http.StatusBadRequest, "User with this phone number already exists")
		case errors.Is(err, domain.ErrEmailExists):
			newErrorResponse(c, http.StatusBadRequest, "User with this email already exists")
		default:
			newErrorResponse(c, http.StatusInternalServerError, "Failed to create user")
		}
		return
	}

	c.JSON(http.StatusCreated, newUserResponse(createdUser))
}

// UpdateUser godoc
//
//	@Summary		Update a user
//	@Description	Users can update their own account; staff can update any. Staff and active flags require staff.
//	@Tags			Users
//	@Accept			json
//	@Produce		json
//	@Param			id		path		int					true	"User ID"
//	@Param			request	body		UpdateUserRequest	true	"Fields to update"
//	@Success		200		{object}	UserResponse
//	@Failure		403		{object}	errorResponse
//	@Failure		404		{object}	errorResponse
//	@Router			/api/users/users/{id} [put]
//	@Security		BearerAuth
func (h *UserHandler) UpdateUser(c *gin.Context) {
	start := time.Now()
	defer h.metrics.RecordMetrics(c, start)

	payload, ok := getAuthPayload(c, authorizationPayloadKey)
	if !ok {
		newErrorResponse(c, http.StatusUnauthorized, "Authorization payload is missing")
		return
	}

	userID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		newErrorResponse(c, http.StatusBadRequest, "Invalid user ID")
		return
	}

	if !payload.IsStaff && payload.UserID != userID {
		newErrorResponse(c, http.StatusForbidden, "Permission denied")
		return
	}

	var req UpdateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		newErrorResponse(c, http.StatusBadRequest, "Invalid JSON format")
		return
	}

	if (req.IsStaff != nil || req.IsActive != nil) && !payload.IsStaff {
		newErrorResponse(c, http.StatusForbidden, "Permission denied")
		return
	}

	user, err := h.userService.GetUserByID(c.Request.Context(), userID)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			newErrorResponse(c, http.StatusNotFound, "User not found")
			return
		}
		newErrorResponse(c, http.StatusInternalServerError, "Failed to fetch user")
		return
	}

	if req.FirstName != nil {
		user.FirstName = *req.FirstName
	}
	if req.LastName != nil {
		user.LastName = *req.LastName
	}
	if req.Email != nil {
		user.Email = req.Email
	}
	if req.IsStaff != nil {
		user.IsStaff = *req.IsStaff
	}
	if req.IsActive != nil {
		user.IsActive = *req.IsActive
	}
	if req.EmployeeID != nil {
		user.EmployeeID = req.EmployeeID
	}
	if req.Department != nil {
		user.Department = *req.Department
	}
	if req.Position != nil {
		user.Position = *req.Position
	}

	updatedUser, err := h.userService.UpdateUser(c.Request.Context(), user)
	if err != nil {
		newErrorResponse(c, http.StatusInternalServerError, "Failed to update user")
		return
	}

	c.JSON(http.StatusOK, newUserResponse(updatedUser))
}

// DeleteUser godoc
//
//	@Summary		Delete a user
//	@Description	Staff only; soft delete that disables the account. Self-deletion is rejected.
//	@Tags			Users
//	@Produce		json
//	@Param			id	path		int	true	"User ID"
//	@Success		200	{object}	map[string]interface{}
//	@Failure		400	{object}	errorResponse
//	@Failure		403	{object}	errorResponse
//	@Failure		404	{object}	errorResponse
//	@Router			/api/users/users/{id} [delete]
//	@Security		BearerAuth
func (h *UserHandler) DeleteUser(c *gin.Context) {
	start := time.Now()
	defer h.metrics.RecordMetrics(c, start)

	payload, ok := getAuthPayload(c, authorizationPayloadKey)
	if !ok {
		newErrorResponse(c, http.StatusUnauthorized, "Authorization payload is missing")
		return
	}
	if !payload.IsStaff {
		newErrorResponse(c, http.StatusForbidden, "Permission denied")
		return
	}

	userID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		newErrorResponse(c, http.StatusBadRequest, "Invalid user ID")
		return
	}

	if payload.UserID == userID {
		newErrorResponse(c, http.StatusBadRequest, "Cannot delete your own account")
		return
	}

	user, err := h.userService.GetUserByID(c.Request.Context(), userID)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			newErrorResponse(c, http.StatusNotFound, "User not found")
			return
		}
		newErrorResponse(c, http.StatusInternalServerError, "Failed to fetch user")
		return
	}

	// soft delete, records keep their submitter/inspector references
	user.IsActive = false
	if _, err := h.userService.UpdateUser(c.Request.Context(), user); err != nil {
		newErrorResponse(c, http.StatusInternalServerError, "Failed to delete user")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "User deleted successfully",
	})
}
