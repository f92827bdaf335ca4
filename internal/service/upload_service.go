package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"spashta/legal-docs/internal/config"
	"spashta/legal-docs/internal/objectkey"
	"spashta/legal-docs/internal/storage"
)

// --- Error Definitions ---
var (
	// ErrInvalidInput marks validation failures the caller can fix. Handlers
	// surface the wrapped message as a 400; everything else becomes a
	// generic 500.
	ErrInvalidInput = errors.New("invalid input")

	ErrUploadURLError = errors.New("failed to generate upload URL")
)

// allowedExtensions is the upload whitelist. Only PDFs are indexable.
var allowedExtensions = []string{".pdf"}

const uploadContentType = "application/pdf"

// UploadHandleRequest is the client's ask for an upload slot. FileSize is
// advisory (0 = not provided); the real limit is enforced in the signed
// policy.
type UploadHandleRequest struct {
	FileName string
	FileSize int64
}

// UploadHandle is the client-facing upload capability.
type UploadHandle struct {
	SignedURL        string            `json:"signedUrl"`
	UploadFields     map[string]string `json:"uploadFields,omitempty"`
	FileName         string            `json:"fileName"`
	OriginalFileName string            `json:"originalFileName"`
	ExpiresAt        time.Time         `json:"expiresAt"`
	MaxFileSize      int64             `json:"maxFileSize"`
	AllowedTypes     []string          `json:"allowedTypes"`
}

// UploadService issues time-bounded upload handles for new documents.
type UploadService interface {
	IssueUploadHandle(ctx context.Context, req UploadHandleRequest) (*UploadHandle, error)
}

type uploadService struct {
	fileStorage storage.FileStorage
	maxFileSize int64
	urlExpiry   time.Duration
	now         func() time.Time
}

// NewUploadService creates the upload handle issuer.
func NewUploadService(fileStorage storage.FileStorage, cfg config.UploadConfig) UploadService {
	expiry := cfg.URLExpiry
	if expiry <= 0 {
		expiry = storage.DefaultUploadURLExpiry
	}
	return &uploadService{
		fileStorage: fileStorage,
		maxFileSize: cfg.MaxFileSize,
		urlExpiry:   expiry,
		now:         time.Now,
	}
}

// IssueUploadHandle validates the request, derives a unique sanitized object
// key and asks storage for a write handle scoped to that key. No state is
// kept; the handle simply expires if unused.
func (s *uploadService) IssueUploadHandle(ctx context.Context, req UploadHandleRequest) (*UploadHandle, error) {
	fileName := strings.TrimSpace(req.FileName)
	if fileName == "" {
		return nil, fmt.Errorf("%w: JSON body must contain a non-empty \"fileName\" field", ErrInvalidInput)
	}
	if !hasAllowedExtension(fileName) {
		return nil, fmt.Errorf("%w: only %s files are allowed", ErrInvalidInput, strings.Join(allowedExtensions, ", "))
	}
	if req.FileSize > s.maxFileSize {
		return nil, fmt.Errorf("%w: file size exceeds maximum limit of %d MB", ErrInvalidInput, s.maxFileSize/(1024*1024))
	}

	sanitized, ok := objectkey.SanitizeFileName(fileName)
	if !ok {
		return nil, fmt.Errorf("%w: invalid filename provided", ErrInvalidInput)
	}

	// Timestamp + random token so two uploads of the same name in the same
	// second still get distinct keys.
	finalKey := objectkey.UniqueKey(s.now(), sanitized)

	target, err := s.fileStorage.IssueUploadTarget(ctx, finalKey, uploadContentType, s.maxFileSize, s.urlExpiry)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUploadURLError, err)
	}

	return &UploadHandle{
		SignedURL:        target.URL,
		UploadFields:     target.Fields,
		FileName:         finalKey,
		OriginalFileName: fileName,
		ExpiresAt:        target.ExpiresAt,
		MaxFileSize:      s.maxFileSize,
		AllowedTypes:     allowedExtensions,
	}, nil
}

func hasAllowedExtension(fileName string) bool {
	lower := strings.ToLower(fileName)
	for _, ext := range allowedExtensions {
		if strings.HasSuffix(lower, ext) {
			return true
		}
	}
	return false
}
