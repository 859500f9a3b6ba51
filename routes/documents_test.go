package routes

import (
	"context"
	"errors"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"doc-summarizer-platform/models"
	"doc-summarizer-platform/services"

	"github.com/gin-gonic/gin"
)

// memMetadataStore is a minimal in-memory services.MetadataStore for
// handler tests.
type memMetadataStore struct {
	docs map[string]models.Document
}

func newMemMetadataStore() *memMetadataStore {
	return &memMetadataStore{docs: make(map[string]models.Document)}
}

func (m *memMetadataStore) CreateDocument(ctx context.Context, doc *models.Document) error {
	m.docs[doc.ID] = *doc
	return nil
}

func (m *memMetadataStore) GetDocument(ctx context.Context, docID string) (*models.Document, error) {
	doc, ok := m.docs[docID]
	if !ok {
		return nil, nil
	}
	return &doc, nil
}

func (m *memMetadataStore) ListDocuments(ctx context.Context, skip, limit int64) ([]models.Document, int64, error) {
	return []models.Document{}, int64(len(m.docs)), nil
}

func (m *memMetadataStore) UpdateSummary(ctx context.Context, docID, summary string) (bool, error) {
	doc, ok := m.docs[docID]
	if !ok {
		return false, nil
	}
	doc.Summary = summary
	m.docs[docID] = doc
	return true, nil
}

func (m *memMetadataStore) UpdateStatus(ctx context.Context, docID, status, errorMessage string) error {
	doc, ok := m.docs[docID]
	if !ok {
		return errors.New("document not found")
	}
	doc.Status = status
	doc.ErrorMessage = errorMessage
	m.docs[docID] = doc
	return nil
}

func (m *memMetadataStore) UpdateProcessingResult(ctx context.Context, docID string, textLength, chunkCount int) error {
	doc, ok := m.docs[docID]
	if !ok {
		return errors.New("document not found")
	}
	doc.Status = models.StatusProcessed
	doc.TextLength = textLength
	doc.ChunkCount = chunkCount
	m.docs[docID] = doc
	return nil
}

func (m *memMetadataStore) DeleteDocument(ctx context.Context, docID string) (bool, error) {
	if _, ok := m.docs[docID]; !ok {
		return false, nil
	}
	delete(m.docs, docID)
	return true, nil
}

func (m *memMetadataStore) InsertRequest(ctx context.Context, rec *models.RequestRecord) error {
	return nil
}

func TestAbandonAsyncUploadCleansUp(t *testing.T) {
	gin.SetMode(gin.TestMode)

	meta := newMemMetadataStore()
	storage := services.NewDocumentStorage(meta, nil, services.NewFallbackCache(), nil)

	ctx := context.Background()
	doc, err := storage.CreatePending(ctx, "doc-1", "big.pdf", 64)
	if err != nil {
		t.Fatalf("create pending failed: %v", err)
	}
	if doc.Status != models.StatusUploaded {
		t.Fatalf("expected uploaded status, got %q", doc.Status)
	}

	filePath := filepath.Join(t.TempDir(), "doc-1.pdf")
	if err := os.WriteFile(filePath, []byte("pdf bytes"), 0600); err != nil {
		t.Fatalf("write temp file: %v", err)
	}

	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	c.Request = httptest.NewRequest("POST", "/api/v1/documents/upload", nil)

	abandonAsyncUpload(c, storage, "doc-1", filePath, errors.New("queue down"))

	// The temp file must be gone and the record must not sit in status
	// uploaded with no task behind it.
	if _, err := os.Stat(filePath); !os.IsNotExist(err) {
		t.Fatalf("temp file should be removed, stat err: %v", err)
	}
	got, err := storage.GetDocument(ctx, "doc-1")
	if err != nil || got == nil {
		t.Fatalf("get failed: doc=%v err=%v", got, err)
	}
	if got.Status != models.StatusFailed {
		t.Fatalf("expected failed status, got %q", got.Status)
	}
	if got.ErrorMessage == "" {
		t.Fatal("expected an error message on the failed record")
	}
}
