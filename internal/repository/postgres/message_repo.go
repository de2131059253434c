package postgres

import (
	"context"
	"fmt"

	"github.com/impulsa/impulsa-backend/internal/domain"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// MessageRepository implements domain.MentorMessageRepository using PostgreSQL
type MessageRepository struct {
	pool *pgxpool.Pool
}

// NewMessageRepository creates a new MessageRepository
func NewMessageRepository(pool *pgxpool.Pool) *MessageRepository {
	return &MessageRepository{pool: pool}
}

const messageColumns = `id, user_id, mentor_id, sender_id, content, is_read,
	file_name, file_path, file_type, file_size, created_at`

func scanMessage(row pgx.Row) (*domain.MentorMessage, error) {
	var m domain.MentorMessage
	err := row.Scan(&m.ID, &m.UserID, &m.MentorID, &m.SenderID, &m.Content, &m.IsRead,
		&m.FileName, &m.FilePath, &m.FileType, &m.FileSize, &m.CreatedAt)
	if err != nil {
		return nil, err
	}
	return &m, nil
}

// Create persists a new message
func (r *MessageRepository) Create(msg *domain.MentorMessage) (*domain.MentorMessage, error) {
	ctx := context.Background()
	query := `
		INSERT INTO mentor_messages (
			user_id, mentor_id, sender_id, content,
			file_name, file_path, file_type, file_size
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING ` + messageColumns
	created, err := scanMessage(r.pool.QueryRow(ctx, query,
		msg.UserID, msg.MentorID, msg.SenderID, msg.Content,
		msg.FileName, msg.FilePath, msg.FileType, msg.FileSize))
	if err != nil {
		return nil, fmt.Errorf("insert message: %w", err)
	}
	return created, nil
}

// GetConversation retrieves the messages between a user and mentor, oldest first
func (r *MessageRepository) GetConversation(userID, mentorID int32) ([]*domain.MentorMessage, error) {
	ctx := context.Background()
	query := `
		SELECT ` + messageColumns + `
		FROM mentor_messages
		WHERE user_id = $1 AND mentor_id = $2
		ORDER BY created_at ASC`
	rows, err := r.pool.Query(ctx, query, userID, mentorID)
	if err != nil {
		return nil, fmt.Errorf("query conversation: %w", err)
	}
	defer rows.Close()

	var messages []*domain.MentorMessage
	for rows.Next() {
		m, err := scanMessage(rows)
		if err != nil {
			return nil, fmt.Errorf("scan message: %w", err)
		}
		messages = append(messages, m)
	}
	return messages, rows.Err()
}

// MarkRead marks the conversation's messages not sent by readerID as read
func (r *MessageRepository) MarkRead(userID, mentorID, readerID int32) (int64, error) {
	ctx := context.Background()
	tag, err := r.pool.Exec(ctx,
		`UPDATE mentor_messages SET is_read = true
		 WHERE user_id = $1 AND mentor_id = $2 AND sender_id <> $3 AND is_read = false`,
		userID, mentorID, readerID)
	if err != nil {
		return 0, fmt.Errorf("mark messages read: %w", err)
	}
	return tag.RowsAffected(), nil
}

// CountUnread counts unread messages addressed to the recipient, keyed by
// the sending peer
func (r *MessageRepository) CountUnread(recipientID int32) (map[int32]int64, error) {
	ctx := context.Background()
	query := `
		SELECT sender_id, COUNT(*)
		FROM mentor_messages
		WHERE (user_id = $1 OR mentor_id = $1)
		  AND sender_id <> $1 AND is_read = false
		GROUP BY sender_id`
	rows, err := r.pool.Query(ctx, query, recipientID)
	if err != nil {
		return nil, fmt.Errorf("count unread: %w", err)
	}
	defer rows.Close()

	counts := make(map[int32]int64)
	for rows.Next() {
		var sender int32
		var count int64
		if err := rows.Scan(&sender, &count); err != nil {
			return nil, fmt.Errorf("scan unread count: %w", err)
		}
		counts[sender] = count
	}
	return counts, rows.Err()
}
