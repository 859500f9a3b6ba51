package queue

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"time"

	"doc-summarizer-platform/internal/config"
	"doc-summarizer-platform/internal/logger"
	"doc-summarizer-platform/services"

	"github.com/hibiken/asynq"
)

const TaskProcessDocument = "document:process"

// DocumentProcessPayload carries everything the worker needs to finish an
// asynchronously uploaded document.
type DocumentProcessPayload struct {
	DocID    string `json:"doc_id"`
	Filename string `json:"filename"`
	FilePath string `json:"file_path"`
}

// NewDocumentProcessTask builds the asynq task for async processing.
func NewDocumentProcessTask(docID, filename, filePath string) (*asynq.Task, error) {
	payload, err := json.Marshal(DocumentProcessPayload{
		DocID:    docID,
		Filename: filename,
		FilePath: filePath,
	})
	if err != nil {
		return nil, err
	}

	return asynq.NewTask(
		TaskProcessDocument,
		payload,
		asynq.MaxRetry(3),
		asynq.Timeout(10*time.Minute),
		asynq.Queue("default"),
	), nil
}

// TaskProcessor handles queued document-processing tasks.
type TaskProcessor struct {
	cfg       *config.Config
	storage   *services.DocumentStorage
	extractor *services.TextExtractor
}

// NewTaskProcessor creates a task processor.
func NewTaskProcessor(cfg *config.Config, storage *services.DocumentStorage, extractor *services.TextExtractor) *TaskProcessor {
	return &TaskProcessor{
		cfg:       cfg,
		storage:   storage,
		extractor: extractor,
	}
}

// ProcessDocument extracts, chunks, and persists the content of a document
// whose metadata record was created at upload time with status uploaded.
func (p *TaskProcessor) ProcessDocument(ctx context.Context, t *asynq.Task) error {
	var payload DocumentProcessPayload
	if err := json.Unmarshal(t.Payload(), &payload); err != nil {
		return fmt.Errorf("unmarshal failed: %w", asynq.SkipRetry)
	}

	logger.Info("processing document", "doc_id", payload.DocID, "filename", payload.Filename)

	if err := p.storage.MarkProcessing(ctx, payload.DocID); err != nil {
		return err
	}

	content, err := os.ReadFile(payload.FilePath)
	if err != nil {
		p.fail(ctx, payload.DocID, err)
		return err
	}

	text, err := p.extractor.Extract(payload.Filename, content)
	if err != nil {
		p.fail(ctx, payload.DocID, err)
		return fmt.Errorf("text extraction failed: %w", err)
	}

	chunks := services.ChunkText(text, p.cfg.ChunkSize, p.cfg.ChunkOverlap)

	if err := p.storage.CompleteProcessing(ctx, payload.DocID, text, chunks); err != nil {
		p.fail(ctx, payload.DocID, err)
		return err
	}

	// The temp upload file is only needed for processing.
	if err := os.Remove(payload.FilePath); err != nil {
		logger.Warn("failed to remove processed upload", "path", payload.FilePath, "error", err.Error())
	}

	logger.Info("document processed", "doc_id", payload.DocID, "chunks", len(chunks))
	return nil
}

func (p *TaskProcessor) fail(ctx context.Context, docID string, cause error) {
	if err := p.storage.MarkFailed(ctx, docID, cause.Error()); err != nil {
		logger.Error("failed to mark document failed", "doc_id", docID, "error", err.Error())
	}
}
