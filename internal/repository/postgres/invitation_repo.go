package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/impulsa/impulsa-backend/internal/domain"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// InvitationRepository implements domain.MentorInvitationRepository using PostgreSQL
type InvitationRepository struct {
	pool *pgxpool.Pool
}

// NewInvitationRepository creates a new InvitationRepository
func NewInvitationRepository(pool *pgxpool.Pool) *InvitationRepository {
	return &InvitationRepository{pool: pool}
}

const invitationColumns = `id, user_id, mentor_id, status, message, created_at, responded_at`

func scanInvitation(row pgx.Row) (*domain.MentorInvitation, error) {
	var inv domain.MentorInvitation
	err := row.Scan(&inv.ID, &inv.UserID, &inv.MentorID, &inv.Status,
		&inv.Message, &inv.CreatedAt, &inv.RespondedAt)
	if err != nil {
		return nil, err
	}
	return &inv, nil
}

// Create persists a new invitation
func (r *InvitationRepository) Create(inv *domain.MentorInvitation) (*domain.MentorInvitation, error) {
	ctx := context.Background()
	query := `
		INSERT INTO mentor_invitations (user_id, mentor_id, status, message)
		VALUES ($1, $2, $3, $4)
		RETURNING ` + invitationColumns
	created, err := scanInvitation(r.pool.QueryRow(ctx, query,
		inv.UserID, inv.MentorID, inv.Status, inv.Message))
	if err != nil {
		return nil, fmt.Errorf("insert invitation: %w", err)
	}
	return created, nil
}

// GetByID retrieves an invitation by ID
func (r *InvitationRepository) GetByID(id int32) (*domain.MentorInvitation, error) {
	ctx := context.Background()
	inv, err := scanInvitation(r.pool.QueryRow(ctx,
		`SELECT `+invitationColumns+` FROM mentor_invitations WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrInvitationNotFound
		}
		return nil, fmt.Errorf("get invitation: %w", err)
	}
	return inv, nil
}

// GetPending retrieves the pending invitation between a user and mentor, if any
func (r *InvitationRepository) GetPending(userID, mentorID int32) (*domain.MentorInvitation, error) {
	ctx := context.Background()
	inv, err := scanInvitation(r.pool.QueryRow(ctx,
		`SELECT `+invitationColumns+` FROM mentor_invitations
		 WHERE user_id = $1 AND mentor_id = $2 AND status = $3`,
		userID, mentorID, domain.InvitationPending))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrInvitationNotFound
		}
		return nil, fmt.Errorf("get pending invitation: %w", err)
	}
	return inv, nil
}

// GetByUser retrieves the invitations a user has sent, newest first
func (r *InvitationRepository) GetByUser(userID int32) ([]*domain.MentorInvitation, error) {
	return r.queryInvitations(
		`SELECT `+invitationColumns+` FROM mentor_invitations
		 WHERE user_id = $1 ORDER BY created_at DESC`, userID)
}

// GetByMentor retrieves the invitations addressed to a mentor, newest first
func (r *InvitationRepository) GetByMentor(mentorID int32) ([]*domain.MentorInvitation, error) {
	return r.queryInvitations(
		`SELECT `+invitationColumns+` FROM mentor_invitations
		 WHERE mentor_id = $1 ORDER BY created_at DESC`, mentorID)
}

func (r *InvitationRepository) queryInvitations(query string, args ...any) ([]*domain.MentorInvitation, error) {
	ctx := context.Background()
	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query invitations: %w", err)
	}
	defer rows.Close()

	var invitations []*domain.MentorInvitation
	for rows.Next() {
		inv, err := scanInvitation(rows)
		if err != nil {
			return nil, fmt.Errorf("scan invitation: %w", err)
		}
		invitations = append(invitations, inv)
	}
	return invitations, rows.Err()
}

// UpdateStatus marks an invitation responded
func (r *InvitationRepository) UpdateStatus(id int32, status domain.InvitationStatus, respondedAt time.Time) error {
	ctx := context.Background()
	tag, err := r.pool.Exec(ctx,
		`UPDATE mentor_invitations SET status = $2, responded_at = $3 WHERE id = $1`,
		id, status, respondedAt)
	if err != nil {
		return fmt.Errorf("update invitation status: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrInvitationNotFound
	}
	return nil
}

// RejectOtherPending rejects every other pending invitation of the user
func (r *InvitationRepository) RejectOtherPending(userID, exceptID int32, respondedAt time.Time) error {
	ctx := context.Background()
	_, err := r.pool.Exec(ctx,
		`UPDATE mentor_invitations SET status = $3, responded_at = $4
		 WHERE user_id = $1 AND id <> $2 AND status = $5`,
		userID, exceptID, domain.InvitationRejected, respondedAt, domain.InvitationPending)
	if err != nil {
		return fmt.Errorf("reject pending invitations: %w", err)
	}
	return nil
}
