package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"spashta/legal-docs/internal/dedup"
	"spashta/legal-docs/internal/domain"
	"spashta/legal-docs/internal/scoping"
	"spashta/legal-docs/internal/search"
)

// IngestService turns storage-object-created events into indexed documents.
type IngestService interface {
	// HandleObjectCreated derives the document identity for a stored object
	// and submits it to the index. Non-PDF objects and already-ingested
	// events are deliberate skips, not errors. A returned error means the
	// event should be redelivered by the platform.
	HandleObjectCreated(ctx context.Context, event domain.StorageEvent) error
}

type ingestService struct {
	index    search.DocumentIndex
	strategy *scoping.Strategy
	filter   *dedup.Filter // nil when dedup is disabled
	now      func() time.Time
}

// NewIngestService creates the ingestion pipeline. filter may be nil.
func NewIngestService(index search.DocumentIndex, strategy *scoping.Strategy, filter *dedup.Filter) IngestService {
	return &ingestService{
		index:    index,
		strategy: strategy,
		filter:   filter,
		now:      time.Now,
	}
}

func (s *ingestService) HandleObjectCreated(ctx context.Context, event domain.StorageEvent) error {
	if event.Bucket == "" || event.ObjectName == "" {
		return fmt.Errorf("%w: storage event must carry bucket and object name", ErrInvalidInput)
	}

	if !strings.HasSuffix(strings.ToLower(event.ObjectName), ".pdf") {
		log.Printf("INFO: Skipping non-PDF object: %s", event.ObjectName)
		return nil
	}

	// Best-effort redelivery suppression. Failures fall through to the
	// index, whose upsert semantics make reprocessing harmless.
	isNew, err := s.filter.IsNew(ctx, event.Bucket, event.ObjectName, event.Generation)
	if err != nil {
		log.Printf("WARN: Dedup check failed, proceeding with ingestion: %v", err)
	} else if !isNew {
		log.Printf("INFO: Skipping already-processed event for object: %s", event.ObjectName)
		return nil
	}

	identity := s.strategy.DeriveIdentity(event.ObjectName, event.TenantID)

	doc := domain.IndexableDocument{
		ID:         identity.DocumentID,
		TenantID:   identity.TenantID,
		Title:      event.ObjectName,
		Type:       domain.DocumentTypeLegal,
		SourceURI:  fmt.Sprintf("s3://%s/%s", event.Bucket, event.ObjectName),
		MimeType:   "application/pdf",
		UploadedAt: s.now(),
	}

	log.Printf("INFO: Indexing document %s (id=%s, tenant=%q)", event.ObjectName, doc.ID, doc.TenantID)

	if err := s.index.CreateDocument(ctx, doc); err != nil {
		if errors.Is(err, search.ErrAlreadyExists) {
			// Same object, same derived ID: the earlier ingestion won.
			log.Printf("INFO: Document %s already indexed, nothing to do", doc.ID)
			return nil
		}
		return fmt.Errorf("index document %s: %w", doc.ID, err)
	}

	log.Printf("INFO: Successfully indexed document %s", event.ObjectName)
	return nil
}
