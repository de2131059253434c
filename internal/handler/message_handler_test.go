package handler

import (
	"bytes"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/textproto"
	"testing"

	"github.com/labstack/echo/v4"

	"github.com/impulsa/impulsa-backend/internal/domain"
	"github.com/impulsa/impulsa-backend/internal/service"
	"github.com/impulsa/impulsa-backend/internal/testutil"
	"github.com/impulsa/impulsa-backend/internal/websocket"
)

func newMessageHandler(t *testing.T) (*MessageHandler, *testutil.MockMessageRepository) {
	t.Helper()
	userRepo := testutil.NewMockUserRepository()
	messageRepo := testutil.NewMockMessageRepository()

	mentorID := int32(2)
	userRepo.AddUser(&domain.User{ID: 1, Username: "ana", Email: "ana@example.com", Role: domain.RoleUser, MentorID: &mentorID})
	userRepo.AddUser(&domain.User{ID: 2, Username: "marta", Email: "marta@example.com", Role: domain.RoleMentor})
	userRepo.AddUser(&domain.User{ID: 3, Username: "luis", Email: "luis@example.com", Role: domain.RoleMentor})

	messageService := service.NewMessageService(messageRepo, userRepo, nil, &websocket.NoOpPublisher{})
	return NewMessageHandler(messageService), messageRepo
}

func multipartRequest(t *testing.T, target, content string, fileName, fileType string, fileData []byte) *http.Request {
	t.Helper()
	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)
	if err := writer.WriteField("content", content); err != nil {
		t.Fatalf("Failed to write form field: %v", err)
	}
	if fileName != "" {
		header := make(textproto.MIMEHeader)
		header.Set("Content-Disposition", `form-data; name="file"; filename="`+fileName+`"`)
		header.Set("Content-Type", fileType)
		part, err := writer.CreatePart(header)
		if err != nil {
			t.Fatalf("Failed to create form file: %v", err)
		}
		if _, err := part.Write(fileData); err != nil {
			t.Fatalf("Failed to write file data: %v", err)
		}
	}
	writer.Close()

	req := httptest.NewRequest(http.MethodPost, target, &buf)
	req.Header.Set(echo.HeaderContentType, writer.FormDataContentType())
	return req
}

func TestSendMessage_Success(t *testing.T) {
	e := echo.New()
	handler, messageRepo := newMessageHandler(t)

	req := multipartRequest(t, "/api/v1/messages/2", "hola marta", "", "", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetParamNames("userId")
	c.SetParamValues("2")
	setupAuthContext(c, 1, domain.RoleUser)

	if err := handler.SendMessage(c); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if rec.Code != http.StatusCreated {
		t.Fatalf("Expected status 201, got %d: %s", rec.Code, rec.Body.String())
	}

	var response MessageResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &response); err != nil {
		t.Fatalf("Failed to unmarshal response: %v", err)
	}
	if response.Content != "hola marta" {
		t.Errorf("Expected content 'hola marta', got %s", response.Content)
	}
	if response.SenderID != 1 {
		t.Errorf("Expected sender 1, got %d", response.SenderID)
	}
	if len(messageRepo.Messages) != 1 {
		t.Errorf("Expected 1 stored message, got %d", len(messageRepo.Messages))
	}
}

func TestSendMessage_NotConversationPeer(t *testing.T) {
	e := echo.New()
	handler, _ := newMessageHandler(t)

	// Mentor 3 is not ana's mentor
	req := multipartRequest(t, "/api/v1/messages/3", "hola", "", "", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetParamNames("userId")
	c.SetParamValues("3")
	setupAuthContext(c, 1, domain.RoleUser)

	if err := handler.SendMessage(c); err != nil {
		t.Fatalf("Expected JSON response, got error: %v", err)
	}
	if rec.Code != http.StatusForbidden {
		t.Errorf("Expected status 403, got %d", rec.Code)
	}
}

func TestSendMessage_EmptyContentWithoutFile(t *testing.T) {
	e := echo.New()
	handler, _ := newMessageHandler(t)

	req := multipartRequest(t, "/api/v1/messages/2", "   ", "", "", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetParamNames("userId")
	c.SetParamValues("2")
	setupAuthContext(c, 1, domain.RoleUser)

	if err := handler.SendMessage(c); err != nil {
		t.Fatalf("Expected JSON response, got error: %v", err)
	}
	if rec.Code != http.StatusBadRequest {
		t.Errorf("Expected status 400, got %d", rec.Code)
	}
}

func TestSendMessage_AttachmentWithoutStorage(t *testing.T) {
	e := echo.New()
	handler, _ := newMessageHandler(t)

	req := multipartRequest(t, "/api/v1/messages/2", "", "doc.pdf", "application/pdf", []byte("%PDF-1.4"))
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetParamNames("userId")
	c.SetParamValues("2")
	setupAuthContext(c, 1, domain.RoleUser)

	if err := handler.SendMessage(c); err != nil {
		t.Fatalf("Expected JSON response, got error: %v", err)
	}
	if rec.Code != http.StatusServiceUnavailable {
		t.Errorf("Expected status 503, got %d", rec.Code)
	}
}

func TestGetConversation_SelfOnly(t *testing.T) {
	e := echo.New()
	handler, messageRepo := newMessageHandler(t)

	messageRepo.AddMessage(&domain.MentorMessage{UserID: 1, MentorID: 2, SenderID: 2, Content: "hola"})

	req := httptest.NewRequest(http.MethodGet, "/api/v1/messages/1?with=2", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetParamNames("userId")
	c.SetParamValues("1")
	setupAuthContext(c, 1, domain.RoleUser)

	if err := handler.GetConversation(c); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d: %s", rec.Code, rec.Body.String())
	}

	var messages []MessageResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &messages); err != nil {
		t.Fatalf("Failed to unmarshal response: %v", err)
	}
	if len(messages) != 1 {
		t.Errorf("Expected 1 message, got %d", len(messages))
	}

	// The path user must be the caller
	rec = httptest.NewRecorder()
	c = e.NewContext(httptest.NewRequest(http.MethodGet, "/api/v1/messages/1?with=2", nil), rec)
	c.SetParamNames("userId")
	c.SetParamValues("1")
	setupAuthContext(c, 2, domain.RoleMentor)

	if err := handler.GetConversation(c); err != nil {
		t.Fatalf("Expected JSON response, got error: %v", err)
	}
	if rec.Code != http.StatusForbidden {
		t.Errorf("Expected status 403, got %d", rec.Code)
	}
}

func TestMarkRead(t *testing.T) {
	e := echo.New()
	handler, messageRepo := newMessageHandler(t)

	messageRepo.AddMessage(&domain.MentorMessage{UserID: 1, MentorID: 2, SenderID: 2, Content: "uno"})
	messageRepo.AddMessage(&domain.MentorMessage{UserID: 1, MentorID: 2, SenderID: 2, Content: "dos"})

	body := `{"peerId":2}`
	req := jsonRequest(http.MethodPut, "/api/v1/messages/1/read", body)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetParamNames("userId")
	c.SetParamValues("1")
	setupAuthContext(c, 1, domain.RoleUser)

	if err := handler.MarkRead(c); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d: %s", rec.Code, rec.Body.String())
	}

	var response map[string]int64
	if err := json.Unmarshal(rec.Body.Bytes(), &response); err != nil {
		t.Fatalf("Failed to unmarshal response: %v", err)
	}
	if response["updated"] != 2 {
		t.Errorf("Expected 2 updated, got %d", response["updated"])
	}
}

func TestGetUnreadCounts(t *testing.T) {
	e := echo.New()
	handler, messageRepo := newMessageHandler(t)

	messageRepo.AddMessage(&domain.MentorMessage{UserID: 1, MentorID: 2, SenderID: 2, Content: "uno"})
	messageRepo.AddMessage(&domain.MentorMessage{UserID: 1, MentorID: 2, SenderID: 2, Content: "dos"})

	req := httptest.NewRequest(http.MethodGet, "/api/v1/messages/1/unread", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetParamNames("userId")
	c.SetParamValues("1")
	setupAuthContext(c, 1, domain.RoleUser)

	if err := handler.GetUnreadCounts(c); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	var response struct {
		Total  int64            `json:"total"`
		ByPeer map[string]int64 `json:"byPeer"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &response); err != nil {
		t.Fatalf("Failed to unmarshal response: %v", err)
	}
	if response.Total != 2 {
		t.Errorf("Expected total 2, got %d", response.Total)
	}
	if response.ByPeer["2"] != 2 {
		t.Errorf("Expected 2 unread from peer 2, got %d", response.ByPeer["2"])
	}
}
