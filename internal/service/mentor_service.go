package service

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/impulsa/impulsa-backend/internal/domain"
	"github.com/impulsa/impulsa-backend/internal/websocket"
)

// MentorService handles the mentor invitation workflow and assignments
type MentorService struct {
	userRepo       domain.UserRepository
	invitationRepo domain.MentorInvitationRepository
	publisher      websocket.EventPublisher
	now            func() time.Time
}

// NewMentorService creates a new MentorService
func NewMentorService(userRepo domain.UserRepository, invitationRepo domain.MentorInvitationRepository, publisher websocket.EventPublisher) *MentorService {
	return &MentorService{
		userRepo:       userRepo,
		invitationRepo: invitationRepo,
		publisher:      publisher,
		now:            time.Now,
	}
}

// RequestMentor creates a pending invitation from an entrepreneur to a
// mentor. Users that already have a mentor, or already have a pending
// invitation with this mentor, cannot request again.
func (s *MentorService) RequestMentor(userID, mentorID int32, message *string) (*domain.MentorInvitation, error) {
	user, err := s.userRepo.GetByID(userID)
	if err != nil {
		return nil, err
	}
	if user.MentorID != nil {
		return nil, domain.ErrMentorAlreadySet
	}

	mentor, err := s.userRepo.GetByID(mentorID)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return nil, domain.ErrMentorNotValid
		}
		return nil, err
	}
	if !mentor.IsMentor() {
		return nil, domain.ErrMentorNotValid
	}

	if _, err := s.invitationRepo.GetPending(userID, mentorID); err == nil {
		return nil, domain.ErrInvitationPending
	} else if !errors.Is(err, domain.ErrInvitationNotFound) {
		return nil, err
	}

	if message != nil {
		trimmed := strings.TrimSpace(*message)
		if trimmed == "" {
			message = nil
		} else {
			message = &trimmed
		}
	}

	inv, err := s.invitationRepo.Create(&domain.MentorInvitation{
		UserID:   userID,
		MentorID: mentorID,
		Status:   domain.InvitationPending,
		Message:  message,
	})
	if err != nil {
		return nil, err
	}

	s.publisher.Publish(mentorID, websocket.InvitationCreated(inv))
	return inv, nil
}

// ListUserInvitations returns the invitations a user has sent
func (s *MentorService) ListUserInvitations(userID int32) ([]*domain.MentorInvitation, error) {
	return s.invitationRepo.GetByUser(userID)
}

// ListMentorInvitations returns the invitations addressed to a mentor
func (s *MentorService) ListMentorInvitations(mentorID int32) ([]*domain.MentorInvitation, error) {
	return s.invitationRepo.GetByMentor(mentorID)
}

// RespondInvitation accepts or rejects a pending invitation on behalf of
// its mentor. Accepting assigns the mentor and rejects the user's other
// pending invitations.
func (s *MentorService) RespondInvitation(mentorID, invitationID int32, accept bool) (*domain.MentorInvitation, error) {
	inv, err := s.invitationRepo.GetByID(invitationID)
	if err != nil {
		return nil, err
	}
	if inv.MentorID != mentorID {
		return nil, domain.ErrForbidden
	}
	if inv.Status != domain.InvitationPending {
		return nil, domain.ErrInvitationResolved
	}

	respondedAt := s.now()
	status := domain.InvitationRejected
	if accept {
		status = domain.InvitationAccepted
	}

	if err := s.invitationRepo.UpdateStatus(invitationID, status, respondedAt); err != nil {
		return nil, err
	}

	if accept {
		if err := s.userRepo.SetMentor(inv.UserID, &mentorID); err != nil {
			return nil, err
		}
		if err := s.invitationRepo.RejectOtherPending(inv.UserID, invitationID, respondedAt); err != nil {
			return nil, err
		}
	}

	inv.Status = status
	inv.RespondedAt = &respondedAt

	s.publisher.Publish(inv.UserID, websocket.InvitationUpdated(inv))
	return inv, nil
}

// AssignMentor directly assigns (or, with nil, clears) a user's mentor.
// Admin operation; skips the invitation workflow.
func (s *MentorService) AssignMentor(userID int32, mentorID *int32) error {
	user, err := s.userRepo.GetByID(userID)
	if err != nil {
		return err
	}
	if user.Role != domain.RoleUser {
		return fmt.Errorf("%w: only entrepreneurs can be assigned a mentor", domain.ErrInvalidInput)
	}

	if mentorID != nil {
		mentor, err := s.userRepo.GetByID(*mentorID)
		if err != nil {
			if errors.Is(err, domain.ErrUserNotFound) {
				return domain.ErrMentorNotValid
			}
			return err
		}
		if !mentor.IsMentor() {
			return domain.ErrMentorNotValid
		}
	}

	return s.userRepo.SetMentor(userID, mentorID)
}

// ListMentees returns the users assigned to a mentor
func (s *MentorService) ListMentees(mentorID int32) ([]*domain.User, error) {
	mentor, err := s.userRepo.GetByID(mentorID)
	if err != nil {
		return nil, err
	}
	if !mentor.IsMentor() {
		return nil, domain.ErrMentorNotValid
	}
	return s.userRepo.GetMentees(mentorID)
}
