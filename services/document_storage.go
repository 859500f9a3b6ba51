package services

import (
	"context"
	"fmt"
	"time"

	"doc-summarizer-platform/internal/logger"
	"doc-summarizer-platform/internal/telemetry"
	"doc-summarizer-platform/models"

	"github.com/google/uuid"
)

// MetadataStore is the authoritative structured store for document and
// request records. All errors are fatal to the calling operation.
type MetadataStore interface {
	CreateDocument(ctx context.Context, doc *models.Document) error
	GetDocument(ctx context.Context, docID string) (*models.Document, error)
	ListDocuments(ctx context.Context, skip, limit int64) ([]models.Document, int64, error)
	UpdateSummary(ctx context.Context, docID, summary string) (bool, error)
	UpdateStatus(ctx context.Context, docID, status, errorMessage string) error
	UpdateProcessingResult(ctx context.Context, docID string, textLength, chunkCount int) error
	DeleteDocument(ctx context.Context, docID string) (bool, error)
	InsertRequest(ctx context.Context, rec *models.RequestRecord) error
}

// ContentStore holds bulk document content. It may be unavailable; every
// error is treated as a miss and recovered through the fallback cache.
type ContentStore interface {
	StoreContent(ctx context.Context, docID string, content *models.DocumentContent) error
	GetContent(ctx context.Context, docID string) (*models.DocumentContent, error)
	DeleteContent(ctx context.Context, docID string) error
}

// DocumentStorage coordinates the metadata store, the optional content
// store, and the in-process fallback cache behind one interface. It owns
// the consistency policy between them: the metadata write is the source
// of truth and must succeed; the content write is best-effort and degrades
// silently to the fallback cache.
type DocumentStorage struct {
	metadata MetadataStore
	content  ContentStore // nil when the content store is not configured
	fallback *FallbackCache
	metrics  *telemetry.Metrics // optional
}

// NewDocumentStorage creates the coordinator. content may be nil when the
// content store is absent or failed its connection check; all content
// then lives in the fallback cache for the life of the process.
func NewDocumentStorage(metadata MetadataStore, content ContentStore, fallback *FallbackCache, metrics *telemetry.Metrics) *DocumentStorage {
	return &DocumentStorage{
		metadata: metadata,
		content:  content,
		fallback: fallback,
		metrics:  metrics,
	}
}

// StoreDocument persists a fully processed document: the metadata record
// first (fatal on error), then the content record. A content store failure
// is not surfaced to the caller; the content lands in the fallback cache
// and the degradation is logged and counted so operators can reconcile.
func (s *DocumentStorage) StoreDocument(ctx context.Context, docID, filename, text string, chunks []string, fileSize int64) (*models.Document, error) {
	doc := &models.Document{
		ID:         docID,
		Filename:   filename,
		UploadTime: time.Now().UTC(),
		Status:     models.StatusProcessed,
		FileSize:   fileSize,
		TextLength: len(text),
		ChunkCount: len(chunks),
	}

	if err := s.metadata.CreateDocument(ctx, doc); err != nil {
		return nil, fmt.Errorf("metadata write failed: %w", err)
	}

	s.writeContent(ctx, docID, &models.DocumentContent{Text: text, Chunks: chunks})

	if s.metrics != nil {
		s.metrics.RecordDocumentStored(doc.Status, len(chunks))
	}

	return doc, nil
}

// writeContent attempts the content store first and falls back to the
// in-process cache on any failure. It never returns an error.
func (s *DocumentStorage) writeContent(ctx context.Context, docID string, content *models.DocumentContent) {
	if s.content != nil {
		err := s.content.StoreContent(ctx, docID, content)
		if err == nil {
			return
		}
		logger.Warn("content store write failed, degrading to fallback cache",
			"doc_id", docID, "error", err.Error())
		if s.metrics != nil {
			s.metrics.RecordContentFallback("write_error")
		}
	} else {
		logger.Warn("content store not configured, storing content in fallback cache",
			"doc_id", docID)
		if s.metrics != nil {
			s.metrics.RecordContentFallback("not_configured")
		}
	}

	s.fallback.Put(docID, *content)
}

// GetDocument returns the metadata record, or (nil, nil) when absent.
func (s *DocumentStorage) GetDocument(ctx context.Context, docID string) (*models.Document, error) {
	return s.metadata.GetDocument(ctx, docID)
}

// GetDocumentText returns the full extracted text, trying the content
// store first and the fallback cache second.
func (s *DocumentStorage) GetDocumentText(ctx context.Context, docID string) (string, bool) {
	if content, ok := s.readContent(ctx, docID); ok {
		return content.Text, true
	}
	return "", false
}

// GetDocumentChunks returns the ordered chunk list, trying the content
// store first and the fallback cache second.
func (s *DocumentStorage) GetDocumentChunks(ctx context.Context, docID string) ([]string, bool) {
	if content, ok := s.readContent(ctx, docID); ok {
		return content.Chunks, true
	}
	return nil, false
}

func (s *DocumentStorage) readContent(ctx context.Context, docID string) (*models.DocumentContent, bool) {
	if s.content != nil {
		content, err := s.content.GetContent(ctx, docID)
		if err == nil {
			return content, true
		}
		if err != ErrContentNotFound {
			logger.Warn("content store read failed, trying fallback cache",
				"doc_id", docID, "error", err.Error())
		}
	}

	if content, ok := s.fallback.Get(docID); ok {
		return &content, true
	}
	return nil, false
}

// ListDocuments returns one page (most recent uploads first) and the total
// record count, irrespective of pagination.
func (s *DocumentStorage) ListDocuments(ctx context.Context, skip, limit int64) ([]models.Document, int64, error) {
	return s.metadata.ListDocuments(ctx, skip, limit)
}

// UpdateSummary sets the document summary, reporting whether the record
// exists. Overwriting an existing summary is allowed.
func (s *DocumentStorage) UpdateSummary(ctx context.Context, docID, summary string) (bool, error) {
	return s.metadata.UpdateSummary(ctx, docID, summary)
}

// DeleteDocument removes the metadata record and, only when one was found,
// the content record. Content that degraded into the fallback cache is not
// cleaned up here; those entries die with the process.
func (s *DocumentStorage) DeleteDocument(ctx context.Context, docID string) (bool, error) {
	found, err := s.metadata.DeleteDocument(ctx, docID)
	if err != nil {
		return false, err
	}
	if !found {
		return false, nil
	}

	if s.content != nil {
		if err := s.content.DeleteContent(ctx, docID); err != nil {
			logger.Warn("failed to delete content record", "doc_id", docID, "error", err.Error())
		}
	}

	return true, nil
}

// TrackRequest writes a request-tracking record. Failures are logged and
// counted but never propagated: the audit trail is best-effort telemetry.
func (s *DocumentStorage) TrackRequest(ctx context.Context, docID, requestType string, latency time.Duration) {
	rec := &models.RequestRecord{
		ID:          uuid.NewString(),
		DocID:       docID,
		RequestType: requestType,
		Timestamp:   time.Now().UTC(),
		LatencyMs:   latency.Milliseconds(),
	}

	if err := s.metadata.InsertRequest(ctx, rec); err != nil {
		logger.Warn("failed to track request", "doc_id", docID,
			"request_type", requestType, "error", err.Error())
		if s.metrics != nil {
			s.metrics.RecordAuditWriteFailure(requestType)
		}
	}
}

// CreatePending inserts a metadata record for a document whose content is
// still being processed asynchronously. No content is written yet.
func (s *DocumentStorage) CreatePending(ctx context.Context, docID, filename string, fileSize int64) (*models.Document, error) {
	doc := &models.Document{
		ID:         docID,
		Filename:   filename,
		UploadTime: time.Now().UTC(),
		Status:     models.StatusUploaded,
		FileSize:   fileSize,
	}

	if err := s.metadata.CreateDocument(ctx, doc); err != nil {
		return nil, fmt.Errorf("metadata write failed: %w", err)
	}
	return doc, nil
}

// MarkProcessing transitions an async document to the processing state.
func (s *DocumentStorage) MarkProcessing(ctx context.Context, docID string) error {
	return s.metadata.UpdateStatus(ctx, docID, models.StatusProcessing, "")
}

// CompleteProcessing records the extraction results for an async document
// and persists its content with the same fallback policy as StoreDocument.
func (s *DocumentStorage) CompleteProcessing(ctx context.Context, docID, text string, chunks []string) error {
	if err := s.metadata.UpdateProcessingResult(ctx, docID, len(text), len(chunks)); err != nil {
		return err
	}

	s.writeContent(ctx, docID, &models.DocumentContent{Text: text, Chunks: chunks})

	if s.metrics != nil {
		s.metrics.RecordDocumentStored(models.StatusProcessed, len(chunks))
	}
	return nil
}

// MarkFailed transitions an async document to the failed state.
func (s *DocumentStorage) MarkFailed(ctx context.Context, docID, errorMessage string) error {
	return s.metadata.UpdateStatus(ctx, docID, models.StatusFailed, errorMessage)
}
