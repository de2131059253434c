package storage

import (
	"context"
	"fmt"
	"io"
	"path"

	"github.com/google/uuid"
)

// AttachmentRepository defines the interface for message attachment storage
type AttachmentRepository interface {
	Upload(ctx context.Context, objectPath string, data io.Reader, contentType string, size int64) (string, error)
	Delete(ctx context.Context, objectPath string) error
	GenerateURL(ctx context.Context, objectPath string) (string, error)
}

// GenerateObjectPath creates a unique object path for a message attachment
func GenerateObjectPath(userID, mentorID int32, variant, ext string) string {
	id := uuid.New().String()
	filename := fmt.Sprintf("%s_%s%s", id, variant, ext)
	return path.Join("messages", fmt.Sprintf("%d-%d", userID, mentorID), filename)
}
