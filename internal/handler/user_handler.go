package handler

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog/log"

	"github.com/impulsa/impulsa-backend/internal/domain"
	"github.com/impulsa/impulsa-backend/internal/middleware"
	"github.com/impulsa/impulsa-backend/internal/service"
)

// UserHandler handles profile and admin user management requests
type UserHandler struct {
	userService *service.UserService
	authService *service.AuthService
}

// NewUserHandler creates a new UserHandler
func NewUserHandler(userService *service.UserService, authService *service.AuthService) *UserHandler {
	return &UserHandler{
		userService: userService,
		authService: authService,
	}
}

// UpdateProfileRequest represents the profile update request body.
// Omitted fields keep their current value.
type UpdateProfileRequest struct {
	Username *string `json:"username"`
	Email    *string `json:"email"`
	Password *string `json:"password"`
	Role     *string `json:"role"`
}

// UpdateBusinessRequest represents the business profile update body
type UpdateBusinessRequest struct {
	BusinessName        *string `json:"businessName"`
	BusinessCategory    *string `json:"businessCategory"`
	BusinessDescription *string `json:"businessDescription"`
}

// GetProfile handles GET /api/v1/users/:userId
func (h *UserHandler) GetProfile(c echo.Context) error {
	userID, ok := pathUserID(c, "userId")
	if !ok {
		return NewValidationError(c, "Invalid user ID", nil)
	}

	user, err := h.userService.GetProfile(userID)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return NewNotFoundError(c, "User not found")
		}
		log.Error().Err(err).Int32("user_id", userID).Msg("Failed to get profile")
		return NewInternalError(c, "Failed to get profile")
	}

	if !canAccessUser(c, user) {
		return NewForbiddenError(c, "You cannot view this profile")
	}
	return c.JSON(http.StatusOK, user)
}

// UpdateProfile handles PUT /api/v1/users/:userId
func (h *UserHandler) UpdateProfile(c echo.Context) error {
	userID, ok := pathUserID(c, "userId")
	if !ok {
		return NewValidationError(c, "Invalid user ID", nil)
	}
	if !isSelfOrAdmin(c, userID) {
		return NewForbiddenError(c, "You cannot update this profile")
	}

	var req UpdateProfileRequest
	if err := c.Bind(&req); err != nil {
		return NewValidationError(c, "Invalid request body", nil)
	}

	// Role changes are admin-only
	var role *domain.Role
	if req.Role != nil {
		if middleware.GetRole(c) != domain.RoleAdmin {
			return NewForbiddenError(c, "Only admins can change roles")
		}
		r := domain.Role(*req.Role)
		if !domain.ValidRole(r) {
			return NewValidationError(c, "Validation failed", []ValidationError{
				{Field: "role", Message: "Role must be one of: admin, mentor, user"},
			})
		}
		role = &r
	}

	user, err := h.userService.UpdateProfile(userID, req.Username, req.Email, req.Password, role)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return NewNotFoundError(c, "User not found")
		}
		if errors.Is(err, domain.ErrAlreadyExists) {
			return NewConflictError(c, "Username or email is already taken")
		}
		if errors.Is(err, domain.ErrInvalidInput) {
			return NewValidationError(c, err.Error(), nil)
		}
		log.Error().Err(err).Int32("user_id", userID).Msg("Failed to update profile")
		return NewInternalError(c, "Failed to update profile")
	}

	log.Info().Int32("user_id", userID).Msg("Profile updated")
	return c.JSON(http.StatusOK, user)
}

// UpdateBusiness handles PUT /api/v1/users/:userId/business
func (h *UserHandler) UpdateBusiness(c echo.Context) error {
	userID, ok := pathUserID(c, "userId")
	if !ok {
		return NewValidationError(c, "Invalid user ID", nil)
	}
	if !isSelfOrAdmin(c, userID) {
		return NewForbiddenError(c, "You cannot update this profile")
	}

	var req UpdateBusinessRequest
	if err := c.Bind(&req); err != nil {
		return NewValidationError(c, "Invalid request body", nil)
	}

	user, err := h.userService.UpdateBusiness(userID, req.BusinessName, req.BusinessCategory, req.BusinessDescription)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return NewNotFoundError(c, "User not found")
		}
		log.Error().Err(err).Int32("user_id", userID).Msg("Failed to update business profile")
		return NewInternalError(c, "Failed to update business profile")
	}

	log.Info().Int32("user_id", userID).Msg("Business profile updated")
	return c.JSON(http.StatusOK, user)
}

// ListUsers handles GET /api/v1/admin/users
func (h *UserHandler) ListUsers(c echo.Context) error {
	users, err := h.userService.GetAll()
	if err != nil {
		log.Error().Err(err).Msg("Failed to list users")
		return NewInternalError(c, "Failed to list users")
	}
	return c.JSON(http.StatusOK, users)
}

// CreateUser handles POST /api/v1/admin/users
func (h *UserHandler) CreateUser(c echo.Context) error {
	var req RegisterRequest
	if err := c.Bind(&req); err != nil {
		return NewValidationError(c, "Invalid request body", nil)
	}

	user, err := h.authService.Register(req.Username, req.Email, req.Password, domain.Role(req.Role))
	if err != nil {
		if errors.Is(err, domain.ErrUsernameTaken) || errors.Is(err, domain.ErrEmailTaken) {
			return NewConflictError(c, "Username or email is already taken")
		}
		if errors.Is(err, domain.ErrInvalidInput) {
			return NewValidationError(c, err.Error(), nil)
		}
		log.Error().Err(err).Str("username", req.Username).Msg("Failed to create user")
		return NewInternalError(c, "Failed to create user")
	}

	log.Info().Int32("user_id", user.ID).Str("username", user.Username).Msg("User created by admin")
	return c.JSON(http.StatusCreated, user)
}

// DeleteUser handles DELETE /api/v1/admin/users/:userId
func (h *UserHandler) DeleteUser(c echo.Context) error {
	userID, ok := pathUserID(c, "userId")
	if !ok {
		return NewValidationError(c, "Invalid user ID", nil)
	}

	if err := h.userService.Delete(userID); err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return NewNotFoundError(c, "User not found")
		}
		log.Error().Err(err).Int32("user_id", userID).Msg("Failed to delete user")
		return NewInternalError(c, "Failed to delete user")
	}

	log.Info().Int32("user_id", userID).Msg("User deleted")
	return c.NoContent(http.StatusNoContent)
}

// ListMentors handles GET /api/v1/admin/mentors
func (h *UserHandler) ListMentors(c echo.Context) error {
	mentors, err := h.userService.GetMentors()
	if err != nil {
		log.Error().Err(err).Msg("Failed to list mentors")
		return NewInternalError(c, "Failed to list mentors")
	}
	return c.JSON(http.StatusOK, mentors)
}
