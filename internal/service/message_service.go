package service

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"image"
	"image/jpeg"
	_ "image/png"
	"io"
	"path/filepath"
	"strings"

	"github.com/disintegration/imaging"
	_ "golang.org/x/image/webp"
	"github.com/impulsa/impulsa-backend/internal/domain"
	"github.com/impulsa/impulsa-backend/internal/repository/storage"
	"github.com/impulsa/impulsa-backend/internal/websocket"
)

const (
	// MaxAttachmentSize caps uploaded attachment size
	MaxAttachmentSize = 5 * 1024 * 1024 // 5MB
	// ThumbnailWidth is the pixel width of generated image thumbnails
	ThumbnailWidth = 200
	// JPEGQuality is the encoding quality for thumbnails
	JPEGQuality = 85
)

var (
	ErrAttachmentTooLarge         = errors.New("file too large. Maximum size is 5MB")
	ErrAttachmentInvalidFormat    = errors.New("invalid format. Supported: JPEG, PNG, WebP, PDF")
	ErrAttachmentStorageDisabled  = errors.New("attachment storage not configured")
	ErrAttachmentInvalidImageData = errors.New("invalid image data")
)

// allowedAttachmentTypes maps accepted content types to whether they are
// images (images get a thumbnail variant).
var allowedAttachmentTypes = map[string]bool{
	"image/jpeg":      true,
	"image/png":       true,
	"image/webp":      true,
	"application/pdf": false,
}

// AttachmentUpload is an incoming file attached to a message
type AttachmentUpload struct {
	FileName    string
	ContentType string
	Size        int64
	Data        io.Reader
}

// MessageService handles mentorship conversations and their attachments
type MessageService struct {
	messageRepo domain.MentorMessageRepository
	userRepo    domain.UserRepository
	attachments storage.AttachmentRepository
	publisher   websocket.EventPublisher
}

// NewMessageService creates a new MessageService. attachments may be nil
// when storage is not configured; messages then go through without files.
func NewMessageService(messageRepo domain.MentorMessageRepository, userRepo domain.UserRepository, attachments storage.AttachmentRepository, publisher websocket.EventPublisher) *MessageService {
	return &MessageService{
		messageRepo: messageRepo,
		userRepo:    userRepo,
		attachments: attachments,
		publisher:   publisher,
	}
}

// Send stores a message from sender to peer. The two must be linked by a
// mentorship: the sender's mentor, or a mentee of the sender.
func (s *MessageService) Send(ctx context.Context, senderID, peerID int32, content string, upload *AttachmentUpload) (*domain.MentorMessage, error) {
	content = strings.TrimSpace(content)
	if content == "" && upload == nil {
		return nil, fmt.Errorf("%w: message content is required", domain.ErrInvalidInput)
	}

	userID, mentorID, err := s.resolveConversation(senderID, peerID)
	if err != nil {
		return nil, err
	}

	msg := &domain.MentorMessage{
		UserID:   userID,
		MentorID: mentorID,
		SenderID: senderID,
		Content:  content,
	}

	if upload != nil {
		if err := s.storeAttachment(ctx, msg, upload); err != nil {
			return nil, err
		}
	}

	created, err := s.messageRepo.Create(msg)
	if err != nil {
		return nil, err
	}

	s.publisher.Publish(peerID, websocket.MessageCreated(created))
	return created, nil
}

// GetConversation returns the messages between the requester and peer,
// oldest first.
func (s *MessageService) GetConversation(requesterID, peerID int32) ([]*domain.MentorMessage, error) {
	userID, mentorID, err := s.resolveConversation(requesterID, peerID)
	if err != nil {
		return nil, err
	}
	messages, err := s.messageRepo.GetConversation(userID, mentorID)
	if err != nil {
		return nil, err
	}
	if messages == nil {
		messages = []*domain.MentorMessage{}
	}
	return messages, nil
}

// MarkRead marks the conversation's incoming messages as read and
// notifies the peer.
func (s *MessageService) MarkRead(readerID, peerID int32) (int64, error) {
	userID, mentorID, err := s.resolveConversation(readerID, peerID)
	if err != nil {
		return 0, err
	}
	updated, err := s.messageRepo.MarkRead(userID, mentorID, readerID)
	if err != nil {
		return 0, err
	}
	if updated > 0 {
		s.publisher.Publish(peerID, websocket.MessagesRead(map[string]int32{"readerId": readerID}))
	}
	return updated, nil
}

// UnreadCounts returns unread message counts for a recipient, keyed by peer
func (s *MessageService) UnreadCounts(recipientID int32) (map[int32]int64, error) {
	return s.messageRepo.CountUnread(recipientID)
}

// AttachmentURL produces a short-lived download URL for a stored
// attachment path.
func (s *MessageService) AttachmentURL(ctx context.Context, objectPath string) (string, error) {
	if s.attachments == nil {
		return "", ErrAttachmentStorageDisabled
	}
	return s.attachments.GenerateURL(ctx, objectPath)
}

// resolveConversation maps a (sender, peer) pair onto the canonical
// (user, mentor) key of their conversation.
func (s *MessageService) resolveConversation(senderID, peerID int32) (userID, mentorID int32, err error) {
	sender, err := s.userRepo.GetByID(senderID)
	if err != nil {
		return 0, 0, err
	}
	peer, err := s.userRepo.GetByID(peerID)
	if err != nil {
		return 0, 0, err
	}

	switch {
	case sender.Role == domain.RoleUser && sender.MentorID != nil && *sender.MentorID == peer.ID:
		return sender.ID, peer.ID, nil
	case sender.IsMentor() && peer.MentorID != nil && *peer.MentorID == sender.ID:
		return peer.ID, sender.ID, nil
	default:
		return 0, 0, domain.ErrNotConversationPeer
	}
}

func (s *MessageService) storeAttachment(ctx context.Context, msg *domain.MentorMessage, upload *AttachmentUpload) error {
	if s.attachments == nil {
		return ErrAttachmentStorageDisabled
	}
	if upload.Size > MaxAttachmentSize {
		return ErrAttachmentTooLarge
	}
	isImage, ok := allowedAttachmentTypes[upload.ContentType]
	if !ok {
		return ErrAttachmentInvalidFormat
	}

	data, err := io.ReadAll(io.LimitReader(upload.Data, MaxAttachmentSize+1))
	if err != nil {
		return fmt.Errorf("read attachment: %w", err)
	}
	if int64(len(data)) > MaxAttachmentSize {
		return ErrAttachmentTooLarge
	}

	ext := strings.ToLower(filepath.Ext(upload.FileName))
	objectPath := storage.GenerateObjectPath(msg.UserID, msg.MentorID, "original", ext)
	if _, err := s.attachments.Upload(ctx, objectPath, bytes.NewReader(data), upload.ContentType, int64(len(data))); err != nil {
		return err
	}

	// Images get a thumbnail variant next to the original; failures
	// here only cost the thumbnail, not the message.
	if isImage {
		if err := s.uploadThumbnail(ctx, data, objectPath); err != nil {
			return err
		}
	}

	size := int64(len(data))
	msg.FileName = &upload.FileName
	msg.FilePath = &objectPath
	msg.FileType = &upload.ContentType
	msg.FileSize = &size
	return nil
}

func (s *MessageService) uploadThumbnail(ctx context.Context, data []byte, originalPath string) error {
	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return ErrAttachmentInvalidImageData
	}

	thumb := imaging.Resize(img, ThumbnailWidth, 0, imaging.Lanczos)

	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, thumb, &jpeg.Options{Quality: JPEGQuality}); err != nil {
		return fmt.Errorf("encode thumbnail: %w", err)
	}

	thumbPath := strings.TrimSuffix(originalPath, filepath.Ext(originalPath))
	thumbPath = strings.Replace(thumbPath, "_original", "_thumb", 1) + ".jpg"
	_, err = s.attachments.Upload(ctx, thumbPath, &buf, "image/jpeg", int64(buf.Len()))
	return err
}
