package storage

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Default expiry duration for presigned URLs
const DefaultPresignedURLExpiry = 15 * time.Minute

// FileStorage defines the interface for object storage operations.
type FileStorage interface {
	// PutObject uploads body under objectKey.
	PutObject(ctx context.Context, objectKey string, contentType string, body []byte) error

	// GeneratePresignedDownloadURL creates a temporary URL that allows GET requests
	// for downloading an object directly from the storage provider.
	GeneratePresignedDownloadURL(ctx context.Context, objectKey string, expires time.Duration) (string, error)

	// DeleteObject removes an object from the storage provider.
	DeleteObject(ctx context.Context, objectKey string) error
}

// SessionArchiveKey builds the object key for a completed session's archive:
// sessions/<traineeId>/<sessionId>/<uuid>.json
func SessionArchiveKey(traineeID, sessionID primitive.ObjectID) string {
	return fmt.Sprintf("sessions/%s/%s/%s.json", traineeID.Hex(), sessionID.Hex(), uuid.NewString())
}
