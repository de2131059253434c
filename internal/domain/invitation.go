package domain

import "time"

type InvitationStatus string

const (
	InvitationPending  InvitationStatus = "pending"
	InvitationAccepted InvitationStatus = "accepted"
	InvitationRejected InvitationStatus = "rejected"
)

// MentorInvitation is an entrepreneur's request to be mentored. The
// mentor accepts or rejects it; accepting links the two users.
type MentorInvitation struct {
	ID          int32            `json:"id"`
	UserID      int32            `json:"userId"`
	MentorID    int32            `json:"mentorId"`
	Status      InvitationStatus `json:"status"`
	Message     *string          `json:"message,omitempty"`
	CreatedAt   time.Time        `json:"createdAt"`
	RespondedAt *time.Time       `json:"respondedAt,omitempty"`
}

type MentorInvitationRepository interface {
	Create(inv *MentorInvitation) (*MentorInvitation, error)
	GetByID(id int32) (*MentorInvitation, error)
	GetPending(userID, mentorID int32) (*MentorInvitation, error)
	GetByUser(userID int32) ([]*MentorInvitation, error)
	GetByMentor(mentorID int32) ([]*MentorInvitation, error)
	// UpdateStatus marks the invitation and stamps RespondedAt.
	UpdateStatus(id int32, status InvitationStatus, respondedAt time.Time) error
	// RejectOtherPending rejects every pending invitation of the user
	// except the one given, used when an invitation is accepted.
	RejectOtherPending(userID, exceptID int32, respondedAt time.Time) error
}
