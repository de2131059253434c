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

// MessageHandler handles mentorship conversation requests
type MessageHandler struct {
	messageService *service.MessageService
}

// NewMessageHandler creates a new MessageHandler
func NewMessageHandler(messageService *service.MessageService) *MessageHandler {
	return &MessageHandler{messageService: messageService}
}

// MarkReadRequest represents the mark-read request body
type MarkReadRequest struct {
	PeerID int32 `json:"peerId"`
}

// MessageResponse is a message with a resolved attachment URL
type MessageResponse struct {
	*domain.MentorMessage
	FileURL *string `json:"fileUrl,omitempty"`
}

// SendMessage handles POST /api/v1/messages/:userId (multipart form:
// content plus an optional file).
func (h *MessageHandler) SendMessage(c echo.Context) error {
	peerID, ok := pathUserID(c, "userId")
	if !ok {
		return NewValidationError(c, "Invalid user ID", nil)
	}
	senderID := middleware.GetUserID(c)

	content := c.FormValue("content")

	var upload *service.AttachmentUpload
	if file, err := c.FormFile("file"); err == nil {
		src, err := file.Open()
		if err != nil {
			log.Error().Err(err).Msg("Failed to open uploaded file")
			return NewInternalError(c, "Failed to process file")
		}
		defer src.Close()

		upload = &service.AttachmentUpload{
			FileName:    file.Filename,
			ContentType: file.Header.Get("Content-Type"),
			Size:        file.Size,
			Data:        src,
		}
	}

	msg, err := h.messageService.Send(c.Request().Context(), senderID, peerID, content, upload)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrUserNotFound):
			return NewNotFoundError(c, "User not found")
		case errors.Is(err, domain.ErrNotConversationPeer):
			return NewForbiddenError(c, "You are not in a mentorship with this user")
		case errors.Is(err, domain.ErrInvalidInput):
			return NewValidationError(c, err.Error(), nil)
		case errors.Is(err, service.ErrAttachmentTooLarge):
			return NewValidationError(c, "Validation failed", []ValidationError{
				{Field: "file", Message: "File too large. Maximum size is 5MB"},
			})
		case errors.Is(err, service.ErrAttachmentInvalidFormat):
			return NewValidationError(c, "Validation failed", []ValidationError{
				{Field: "file", Message: "Invalid format. Supported: JPEG, PNG, WebP, PDF"},
			})
		case errors.Is(err, service.ErrAttachmentInvalidImageData):
			return NewValidationError(c, "Validation failed", []ValidationError{
				{Field: "file", Message: "Invalid image data"},
			})
		case errors.Is(err, service.ErrAttachmentStorageDisabled):
			return NewServiceUnavailableError(c, "Attachments are disabled (storage not configured)")
		}
		log.Error().Err(err).Int32("sender_id", senderID).Int32("peer_id", peerID).Msg("Failed to send message")
		return NewInternalError(c, "Failed to send message")
	}

	log.Info().Int32("sender_id", senderID).Int32("peer_id", peerID).Int32("message_id", msg.ID).Msg("Message sent")
	return c.JSON(http.StatusCreated, h.toResponse(c, msg))
}

// GetConversation handles GET /api/v1/messages/:userId?with=<peerId>
func (h *MessageHandler) GetConversation(c echo.Context) error {
	userID, ok := pathUserID(c, "userId")
	if !ok {
		return NewValidationError(c, "Invalid user ID", nil)
	}
	requesterID := middleware.GetUserID(c)
	if requesterID != userID {
		return NewForbiddenError(c, "You can only view your own conversations")
	}

	peer, err := strconv.Atoi(c.QueryParam("with"))
	if err != nil || peer <= 0 {
		return NewValidationError(c, "Validation failed", []ValidationError{
			{Field: "with", Message: "Peer user ID is required"},
		})
	}
	peerID := int32(peer)

	messages, err := h.messageService.GetConversation(requesterID, peerID)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrUserNotFound):
			return NewNotFoundError(c, "User not found")
		case errors.Is(err, domain.ErrNotConversationPeer):
			return NewForbiddenError(c, "You are not in a mentorship with this user")
		}
		log.Error().Err(err).Int32("requester_id", requesterID).Int32("peer_id", peerID).Msg("Failed to get conversation")
		return NewInternalError(c, "Failed to get conversation")
	}

	response := make([]MessageResponse, len(messages))
	for i, msg := range messages {
		response[i] = h.toResponse(c, msg)
	}
	return c.JSON(http.StatusOK, response)
}

// MarkRead handles PUT /api/v1/messages/:userId/read
func (h *MessageHandler) MarkRead(c echo.Context) error {
	userID, ok := pathUserID(c, "userId")
	if !ok {
		return NewValidationError(c, "Invalid user ID", nil)
	}
	readerID := middleware.GetUserID(c)
	if readerID != userID {
		return NewForbiddenError(c, "You can only mark your own messages read")
	}

	var req MarkReadRequest
	if err := c.Bind(&req); err != nil {
		return NewValidationError(c, "Invalid request body", nil)
	}
	if req.PeerID <= 0 {
		return NewValidationError(c, "Validation failed", []ValidationError{
			{Field: "peerId", Message: "Peer user ID is required"},
		})
	}

	updated, err := h.messageService.MarkRead(readerID, req.PeerID)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrUserNotFound):
			return NewNotFoundError(c, "User not found")
		case errors.Is(err, domain.ErrNotConversationPeer):
			return NewForbiddenError(c, "You are not in a mentorship with this user")
		}
		log.Error().Err(err).Int32("reader_id", readerID).Int32("peer_id", req.PeerID).Msg("Failed to mark messages read")
		return NewInternalError(c, "Failed to mark messages read")
	}

	return c.JSON(http.StatusOK, map[string]int64{"updated": updated})
}

// GetUnreadCounts handles GET /api/v1/messages/:userId/unread
func (h *MessageHandler) GetUnreadCounts(c echo.Context) error {
	userID, ok := pathUserID(c, "userId")
	if !ok {
		return NewValidationError(c, "Invalid user ID", nil)
	}
	if middleware.GetUserID(c) != userID {
		return NewForbiddenError(c, "You can only view your own unread counts")
	}

	counts, err := h.messageService.UnreadCounts(userID)
	if err != nil {
		log.Error().Err(err).Int32("user_id", userID).Msg("Failed to count unread messages")
		return NewInternalError(c, "Failed to count unread messages")
	}

	// JSON object keys must be strings
	response := make(map[string]int64, len(counts))
	var total int64
	for peerID, count := range counts {
		response[strconv.FormatInt(int64(peerID), 10)] = count
		total += count
	}
	return c.JSON(http.StatusOK, map[string]interface{}{
		"total":  total,
		"byPeer": response,
	})
}

// toResponse resolves a short-lived attachment URL when the message
// carries a file. URL failures degrade to the bare message.
func (h *MessageHandler) toResponse(c echo.Context, msg *domain.MentorMessage) MessageResponse {
	resp := MessageResponse{MentorMessage: msg}
	if msg.FilePath == nil {
		return resp
	}
	url, err := h.messageService.AttachmentURL(c.Request().Context(), *msg.FilePath)
	if err != nil {
		log.Warn().Err(err).Int32("message_id", msg.ID).Msg("Failed to presign attachment URL")
		return resp
	}
	resp.FileURL = &url
	return resp
}
