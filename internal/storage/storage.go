package storage

import (
	"context"
	"time"
)

// Default expiry duration for presigned upload URLs.
const DefaultUploadURLExpiry = 15 * time.Minute

// UploadTarget is a time-bounded write capability for one object key.
// The URL plus Fields form a browser-postable upload; the signed policy
// enforces content type and the [MinSize, MaxSize] length range on the
// storage side, so an oversized payload is rejected even if the client lied
// about fileSize.
type UploadTarget struct {
	URL       string
	Fields    map[string]string
	ObjectKey string
	ExpiresAt time.Time
}

// FileStorage defines the interface for object storage operations.
type FileStorage interface {
	// IssueUploadTarget creates a temporary, size- and type-constrained
	// write handle for one object key.
	IssueUploadTarget(ctx context.Context, objectKey, contentType string, maxSize int64, expires time.Duration) (*UploadTarget, error)

	// ListObjectKeys returns every object key under the given prefix.
	// Used by the reindex tool; pass "" for the whole bucket.
	ListObjectKeys(ctx context.Context, prefix string) ([]string, error)

	// BucketName reports the bucket this storage writes to, for building
	// source URIs.
	BucketName() string
}
