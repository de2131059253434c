package domain

import "errors"

// Domain errors
var (
	ErrNotFound            = errors.New("resource not found")
	ErrAlreadyExists       = errors.New("resource already exists")
	ErrInvalidInput        = errors.New("invalid input")
	ErrUnauthorized        = errors.New("unauthorized")
	ErrForbidden           = errors.New("forbidden")
	ErrInternalError       = errors.New("internal error")
	ErrUserNotFound        = errors.New("user not found")
	ErrSaleNotFound        = errors.New("sale not found")
	ErrParametersNotFound  = errors.New("monthly parameters not found")
	ErrInvitationNotFound  = errors.New("invitation not found")
	ErrMessageNotFound     = errors.New("message not found")
	ErrMentorNotValid      = errors.New("mentor not valid")
	ErrMentorAlreadySet    = errors.New("user already has a mentor assigned")
	ErrInvitationPending   = errors.New("a pending invitation already exists for this mentor")
	ErrInvitationResolved  = errors.New("invitation has already been responded to")
	ErrUsernameTaken       = errors.New("username is already in use")
	ErrEmailTaken          = errors.New("email is already registered")
	ErrInvalidCredentials  = errors.New("invalid credentials")
	ErrNotConversationPeer = errors.New("users are not in a mentorship conversation")
)

// Validation constants
const (
	MaxUsernameLength    = 80
	MaxEmailLength       = 120
	MaxProductNameLength = 150
	MinPasswordLength    = 6
)
