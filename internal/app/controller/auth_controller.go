package controller

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/minkwan/storefront-backend/internal/app/model"
	"github.com/minkwan/storefront-backend/internal/app/repository"
	"github.com/minkwan/storefront-backend/internal/app/service"
	apperrors "github.com/minkwan/storefront-backend/internal/errors"
	"github.com/minkwan/storefront-backend/internal/middleware"
)

type AuthController struct {
	authService service.AuthService
}

func NewAuthController(authService service.AuthService) *AuthController {
	return &AuthController{
		authService: authService,
	}
}

type RegisterRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=8"`
	Name     string `json:"name" binding:"required"`
	Phone    string `json:"phone"`
}

type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

type UpdateProfileRequest struct {
	Name  string `json:"name"`
	Phone string `json:"phone"`
}

type UpdateUserRoleRequest struct {
	Role string `json:"role" binding:"required"`
}

// Register creates an account and issues tokens
// POST /api/v1/auth/register
func (ctrl *AuthController) Register(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	var req RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindingError(c, err)
		return
	}

	user, tokens, err := ctrl.authService.Register(req.Email, req.Password, req.Name, req.Phone)
	if err != nil {
		if errors.Is(err, service.ErrEmailAlreadyExists) {
			apperrors.Conflict(c, apperrors.AuthEmailAlreadyExists, "Email is already registered")
			return
		}
		log.Error("Registration failed", err)
		apperrors.ParseAndRespond(c, err, "register user")
		return
	}

	log.Info("User registered", map[string]interface{}{
		"user_id": user.ID,
	})
	apperrors.RespondCreated(c, "Registration successful", gin.H{
		"user":   user,
		"tokens": tokens,
	})
}

// Login verifies credentials and issues tokens
// POST /api/v1/auth/login
func (ctrl *AuthController) Login(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apperrors.BadRequest(c, apperrors.ValidationInvalidInput, "Invalid login data")
		return
	}

	user, tokens, err := ctrl.authService.Login(req.Email, req.Password)
	if err != nil {
		if errors.Is(err, service.ErrInvalidCredentials) {
			apperrors.RespondWithError(c, http.StatusUnauthorized, apperrors.AuthInvalidCredentials, "Invalid email or password")
			return
		}
		log.Error("Login failed", err)
		apperrors.ParseAndRespond(c, err, "login")
		return
	}

	apperrors.RespondOK(c, "Login successful", gin.H{
		"user":   user,
		"tokens": tokens,
	})
}

// Logout blacklists the presented access token
// POST /api/v1/auth/logout
func (ctrl *AuthController) Logout(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	header := c.GetHeader("Authorization")
	token := strings.TrimPrefix(header, "Bearer ")
	if token == "" || token == header {
		apperrors.Unauthorized(c, "No token to revoke")
		return
	}

	if err := ctrl.authService.Logout(c.Request.Context(), token); err != nil {
		log.Warn("Logout failed", map[string]interface{}{
			"error": err.Error(),
		})
		apperrors.RespondWithError(c, http.StatusUnauthorized, apperrors.AuthTokenInvalid, "Token is not valid")
		return
	}

	apperrors.RespondOK(c, "Logged out", nil)
}

// Me returns the authenticated user's profile
// GET /api/v1/auth/me
func (ctrl *AuthController) Me(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		apperrors.Unauthorized(c, "Login required")
		return
	}

	user, err := ctrl.authService.GetUserByID(userID)
	if err != nil {
		if errors.Is(err, service.ErrUserNotFound) {
			apperrors.NotFound(c, apperrors.ResourceNotFound, "User not found")
			return
		}
		apperrors.InternalError(c, "Failed to fetch profile")
		return
	}

	apperrors.RespondOK(c, "Profile fetched", user)
}

// UpdateProfile updates name and phone; blank fields keep their values
// PUT /api/v1/auth/me
func (ctrl *AuthController) UpdateProfile(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	userID, ok := middleware.GetUserID(c)
	if !ok {
		apperrors.Unauthorized(c, "Login required")
		return
	}

	var req UpdateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apperrors.BadRequest(c, apperrors.ValidationInvalidInput, "Invalid profile data")
		return
	}

	user, err := ctrl.authService.UpdateProfile(userID, req.Name, req.Phone)
	if err != nil {
		if errors.Is(err, service.ErrUserNotFound) {
			apperrors.NotFound(c, apperrors.ResourceNotFound, "User not found")
			return
		}
		log.Error("Profile update failed", err, map[string]interface{}{
			"user_id": userID,
		})
		apperrors.ParseAndRespond(c, err, "update profile")
		return
	}

	apperrors.RespondOK(c, "Profile updated", user)
}

// ListUsers returns a filtered account listing
// GET /api/v1/admin/users
func (ctrl *AuthController) ListUsers(c *gin.Context) {
	filter := repository.UserFilter{
		Email: c.Query("email"),
		Name:  c.Query("name"),
		Page:  parsePageRequest(c),
	}

	if roleStr := c.Query("role"); roleStr != "" {
		role := model.UserRole(roleStr)
		if role != model.RoleUser && role != model.RoleAdmin {
			apperrors.BadRequest(c, apperrors.ValidationInvalidInput, "Unknown role")
			return
		}
		filter.Role = &role
	}
	if fromStr := c.Query("from"); fromStr != "" {
		from, err := time.Parse(time.RFC3339, fromStr)
		if err != nil {
			apperrors.BadRequest(c, apperrors.ValidationInvalidRange, "Invalid from date, expected RFC3339")
			return
		}
		filter.CreatedAfter = &from
	}
	if toStr := c.Query("to"); toStr != "" {
		to, err := time.Parse(time.RFC3339, toStr)
		if err != nil {
			apperrors.BadRequest(c, apperrors.ValidationInvalidRange, "Invalid to date, expected RFC3339")
			return
		}
		filter.CreatedBefore = &to
	}

	users, total, err := ctrl.authService.ListUsers(filter)
	if err != nil {
		apperrors.InternalError(c, "Failed to list users")
		return
	}

	page := filter.Page.Normalize()
	apperrors.RespondPage(c, "Users fetched", users,
		apperrors.NewPageMeta(page.PageNumber, page.PageSize, total))
}

// UpdateUserRole promotes or demotes an account
// PUT /api/v1/admin/users/:id/role
func (ctrl *AuthController) UpdateUserRole(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	id, ok := parseIDParam(c)
	if !ok {
		return
	}

	var req UpdateUserRoleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apperrors.BadRequest(c, apperrors.ValidationInvalidInput, "Invalid role data")
		return
	}

	role := model.UserRole(req.Role)
	if role != model.RoleUser && role != model.RoleAdmin {
		apperrors.BadRequest(c, apperrors.ValidationInvalidInput, "Unknown role")
		return
	}

	user, err := ctrl.authService.UpdateUserRole(id, role)
	if err != nil {
		if errors.Is(err, service.ErrUserNotFound) {
			apperrors.NotFound(c, apperrors.ResourceNotFound, "User not found")
			return
		}
		log.Error("Role update failed", err, map[string]interface{}{
			"user_id": id,
		})
		apperrors.ParseAndRespond(c, err, "update user role")
		return
	}

	apperrors.RespondOK(c, "Role updated", user)
}

// DeleteUser removes an account; the user's orders keep their snapshot
// fields and lose only the account reference
// DELETE /api/v1/admin/users/:id
func (ctrl *AuthController) DeleteUser(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	id, ok := parseIDParam(c)
	if !ok {
		return
	}

	if err := ctrl.authService.DeleteUser(id); err != nil {
		if errors.Is(err, service.ErrUserNotFound) {
			apperrors.NotFound(c, apperrors.ResourceNotFound, "User not found")
			return
		}
		log.Error("User deletion failed", err, map[string]interface{}{
			"user_id": id,
		})
		apperrors.ParseAndRespond(c, err, "delete user")
		return
	}

	apperrors.RespondOK(c, "User deleted", nil)
}
