package domain

import "time"

// MentorMessage is a chat message between an entrepreneur and their
// assigned mentor. The optional file fields describe an attachment stored
// in object storage.
type MentorMessage struct {
	ID        int32     `json:"id"`
	UserID    int32     `json:"userId"`
	MentorID  int32     `json:"mentorId"`
	SenderID  int32     `json:"senderId"`
	Content   string    `json:"content"`
	IsRead    bool      `json:"isRead"`
	FileName  *string   `json:"fileName,omitempty"`
	FilePath  *string   `json:"filePath,omitempty"`
	FileType  *string   `json:"fileType,omitempty"`
	FileSize  *int64    `json:"fileSize,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
}

type MentorMessageRepository interface {
	Create(msg *MentorMessage) (*MentorMessage, error)
	// GetConversation returns all messages between the user and mentor,
	// oldest first.
	GetConversation(userID, mentorID int32) ([]*MentorMessage, error)
	// MarkRead marks as read every message in the conversation that was
	// not sent by readerID. Returns the number of rows updated.
	MarkRead(userID, mentorID, readerID int32) (int64, error)
	// CountUnread counts messages addressed to recipientID that are
	// still unread, grouped by the peer they came from.
	CountUnread(recipientID int32) (map[int32]int64, error)
}
