package handler

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog/log"

	"github.com/impulsa/impulsa-backend/internal/domain"
	"github.com/impulsa/impulsa-backend/internal/middleware"
	"github.com/impulsa/impulsa-backend/internal/service"
)

// MentorHandler handles mentorship invitations and assignments
type MentorHandler struct {
	mentorService *service.MentorService
}

// NewMentorHandler creates a new MentorHandler
func NewMentorHandler(mentorService *service.MentorService) *MentorHandler {
	return &MentorHandler{mentorService: mentorService}
}

// RequestMentorRequest represents the mentor request body
type RequestMentorRequest struct {
	MentorID int32   `json:"mentorId"`
	Message  *string `json:"message"`
}

// RespondInvitationRequest represents the invitation response body
type RespondInvitationRequest struct {
	Action string `json:"action"` // accept | reject
}

// AssignMentorRequest represents the admin mentor assignment body.
// A null mentorId unassigns the current mentor.
type AssignMentorRequest struct {
	MentorID *int32 `json:"mentorId"`
}

// RequestMentor handles POST /api/v1/mentors/requests/:userId
func (h *MentorHandler) RequestMentor(c echo.Context) error {
	userID, ok := pathUserID(c, "userId")
	if !ok {
		return NewValidationError(c, "Invalid user ID", nil)
	}
	if middleware.GetUserID(c) != userID {
		return NewForbiddenError(c, "You can only request a mentor for yourself")
	}

	var req RequestMentorRequest
	if err := c.Bind(&req); err != nil {
		return NewValidationError(c, "Invalid request body", nil)
	}
	if req.MentorID <= 0 {
		return NewValidationError(c, "Validation failed", []ValidationError{
			{Field: "mentorId", Message: "Mentor ID is required"},
		})
	}

	inv, err := h.mentorService.RequestMentor(userID, req.MentorID, req.Message)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrUserNotFound):
			return NewNotFoundError(c, "Mentor not found")
		case errors.Is(err, domain.ErrMentorNotValid):
			return NewValidationError(c, "The selected user is not a mentor", nil)
		case errors.Is(err, domain.ErrMentorAlreadySet):
			return NewConflictError(c, "You already have a mentor assigned")
		case errors.Is(err, domain.ErrInvitationPending):
			return NewConflictError(c, "You already have a pending request for this mentor")
		}
		log.Error().Err(err).Int32("user_id", userID).Int32("mentor_id", req.MentorID).Msg("Failed to request mentor")
		return NewInternalError(c, "Failed to request mentor")
	}

	log.Info().Int32("user_id", userID).Int32("mentor_id", req.MentorID).Msg("Mentor requested")
	return c.JSON(http.StatusCreated, inv)
}

// ListUserInvitations handles GET /api/v1/mentors/requests/:userId
func (h *MentorHandler) ListUserInvitations(c echo.Context) error {
	userID, ok := pathUserID(c, "userId")
	if !ok {
		return NewValidationError(c, "Invalid user ID", nil)
	}
	if !isSelfOrAdmin(c, userID) {
		return NewForbiddenError(c, "You cannot view these invitations")
	}

	invitations, err := h.mentorService.ListUserInvitations(userID)
	if err != nil {
		log.Error().Err(err).Int32("user_id", userID).Msg("Failed to list invitations")
		return NewInternalError(c, "Failed to list invitations")
	}
	return c.JSON(http.StatusOK, invitations)
}

// ListMentorInvitations handles GET /api/v1/mentors/:mentorId/invitations
func (h *MentorHandler) ListMentorInvitations(c echo.Context) error {
	mentorID, ok := pathUserID(c, "mentorId")
	if !ok {
		return NewValidationError(c, "Invalid mentor ID", nil)
	}
	if !isSelfOrAdmin(c, mentorID) {
		return NewForbiddenError(c, "You cannot view these invitations")
	}

	invitations, err := h.mentorService.ListMentorInvitations(mentorID)
	if err != nil {
		log.Error().Err(err).Int32("mentor_id", mentorID).Msg("Failed to list invitations")
		return NewInternalError(c, "Failed to list invitations")
	}
	return c.JSON(http.StatusOK, invitations)
}

// RespondInvitation handles PUT /api/v1/mentors/invitations/:invitationId
func (h *MentorHandler) RespondInvitation(c echo.Context) error {
	invitationID, err := strconv.Atoi(c.Param("invitationId"))
	if err != nil || invitationID <= 0 {
		return NewValidationError(c, "Invalid invitation ID", nil)
	}

	var req RespondInvitationRequest
	if err := c.Bind(&req); err != nil {
		return NewValidationError(c, "Invalid request body", nil)
	}
	if req.Action != "accept" && req.Action != "reject" {
		return NewValidationError(c, "Validation failed", []ValidationError{
			{Field: "action", Message: "Action must be accept or reject"},
		})
	}

	mentorID := middleware.GetUserID(c)
	inv, err := h.mentorService.RespondInvitation(mentorID, int32(invitationID), req.Action == "accept")
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrInvitationNotFound):
			return NewNotFoundError(c, "Invitation not found")
		case errors.Is(err, domain.ErrForbidden):
			return NewForbiddenError(c, "This invitation is not addressed to you")
		case errors.Is(err, domain.ErrInvitationResolved):
			return NewConflictError(c, "This invitation was already resolved")
		}
		log.Error().Err(err).Int32("mentor_id", mentorID).Int("invitation_id", invitationID).Msg("Failed to respond to invitation")
		return NewInternalError(c, "Failed to respond to invitation")
	}

	log.Info().Int32("mentor_id", mentorID).Int("invitation_id", invitationID).Str("action", req.Action).Msg("Invitation resolved")
	return c.JSON(http.StatusOK, inv)
}

// AssignMentor handles PUT /api/v1/admin/users/:userId/mentor
func (h *MentorHandler) AssignMentor(c echo.Context) error {
	userID, ok := pathUserID(c, "userId")
	if !ok {
		return NewValidationError(c, "Invalid user ID", nil)
	}

	var req AssignMentorRequest
	if err := c.Bind(&req); err != nil {
		return NewValidationError(c, "Invalid request body", nil)
	}

	if err := h.mentorService.AssignMentor(userID, req.MentorID); err != nil {
		switch {
		case errors.Is(err, domain.ErrUserNotFound):
			return NewNotFoundError(c, "User not found")
		case errors.Is(err, domain.ErrMentorNotValid):
			return NewValidationError(c, "The selected user is not a mentor", nil)
		case errors.Is(err, domain.ErrInvalidInput):
			return NewValidationError(c, err.Error(), nil)
		}
		log.Error().Err(err).Int32("user_id", userID).Msg("Failed to assign mentor")
		return NewInternalError(c, "Failed to assign mentor")
	}

	log.Info().Int32("user_id", userID).Msg("Mentor assignment updated")
	return c.NoContent(http.StatusNoContent)
}

// ListMentees handles GET /api/v1/mentors/:mentorId/users
func (h *MentorHandler) ListMentees(c echo.Context) error {
	mentorID, ok := pathUserID(c, "mentorId")
	if !ok {
		return NewValidationError(c, "Invalid mentor ID", nil)
	}
	if !isSelfOrAdmin(c, mentorID) {
		return NewForbiddenError(c, "You cannot view these users")
	}

	mentees, err := h.mentorService.ListMentees(mentorID)
	if err != nil {
		log.Error().Err(err).Int32("mentor_id", mentorID).Msg("Failed to list mentees")
		return NewInternalError(c, "Failed to list mentees")
	}
	return c.JSON(http.StatusOK, mentees)
}
