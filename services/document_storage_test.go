package services

import (
	"context"
	"errors"
	"sort"
	"testing"
	"time"

	"doc-summarizer-platform/models"
)

// fakeMetadataStore is an in-memory MetadataStore for coordinator tests.
type fakeMetadataStore struct {
	docs        map[string]models.Document
	requests    []models.RequestRecord
	failRequest bool
}

func newFakeMetadataStore() *fakeMetadataStore {
	return &fakeMetadataStore{docs: make(map[string]models.Document)}
}

func (f *fakeMetadataStore) CreateDocument(ctx context.Context, doc *models.Document) error {
	f.docs[doc.ID] = *doc
	return nil
}

func (f *fakeMetadataStore) GetDocument(ctx context.Context, docID string) (*models.Document, error) {
	doc, ok := f.docs[docID]
	if !ok {
		return nil, nil
	}
	return &doc, nil
}

func (f *fakeMetadataStore) ListDocuments(ctx context.Context, skip, limit int64) ([]models.Document, int64, error) {
	all := make([]models.Document, 0, len(f.docs))
	for _, d := range f.docs {
		all = append(all, d)
	}
	sort.Slice(all, func(i, j int) bool {
		if !all[i].UploadTime.Equal(all[j].UploadTime) {
			return all[i].UploadTime.After(all[j].UploadTime)
		}
		return all[i].ID > all[j].ID
	})
	total := int64(len(all))
	if skip >= total {
		return []models.Document{}, total, nil
	}
	all = all[skip:]
	if int64(len(all)) > limit {
		all = all[:limit]
	}
	return all, total, nil
}

func (f *fakeMetadataStore) UpdateSummary(ctx context.Context, docID, summary string) (bool, error) {
	doc, ok := f.docs[docID]
	if !ok {
		return false, nil
	}
	doc.Summary = summary
	f.docs[docID] = doc
	return true, nil
}

func (f *fakeMetadataStore) UpdateStatus(ctx context.Context, docID, status, errorMessage string) error {
	doc, ok := f.docs[docID]
	if !ok {
		return errors.New("document not found")
	}
	doc.Status = status
	doc.ErrorMessage = errorMessage
	f.docs[docID] = doc
	return nil
}

func (f *fakeMetadataStore) UpdateProcessingResult(ctx context.Context, docID string, textLength, chunkCount int) error {
	doc, ok := f.docs[docID]
	if !ok {
		return errors.New("document not found")
	}
	doc.Status = models.StatusProcessed
	doc.TextLength = textLength
	doc.ChunkCount = chunkCount
	f.docs[docID] = doc
	return nil
}

func (f *fakeMetadataStore) DeleteDocument(ctx context.Context, docID string) (bool, error) {
	if _, ok := f.docs[docID]; !ok {
		return false, nil
	}
	delete(f.docs, docID)
	return true, nil
}

func (f *fakeMetadataStore) InsertRequest(ctx context.Context, rec *models.RequestRecord) error {
	if f.failRequest {
		return errors.New("request store down")
	}
	f.requests = append(f.requests, *rec)
	return nil
}

// fakeContentStore is an in-memory ContentStore with switchable failures.
type fakeContentStore struct {
	contents   map[string]models.DocumentContent
	failWrites bool
	failReads  bool
}

func newFakeContentStore() *fakeContentStore {
	return &fakeContentStore{contents: make(map[string]models.DocumentContent)}
}

func (f *fakeContentStore) StoreContent(ctx context.Context, docID string, content *models.DocumentContent) error {
	if f.failWrites {
		return errors.New("content store down")
	}
	f.contents[docID] = *content
	return nil
}

func (f *fakeContentStore) GetContent(ctx context.Context, docID string) (*models.DocumentContent, error) {
	if f.failReads {
		return nil, errors.New("content store down")
	}
	content, ok := f.contents[docID]
	if !ok {
		return nil, ErrContentNotFound
	}
	return &content, nil
}

func (f *fakeContentStore) DeleteContent(ctx context.Context, docID string) error {
	delete(f.contents, docID)
	return nil
}

func TestStoreDocumentRoundTrip(t *testing.T) {
	ctx := context.Background()
	meta := newFakeMetadataStore()
	content := newFakeContentStore()
	storage := NewDocumentStorage(meta, content, NewFallbackCache(), nil)

	chunks := []string{"chunk one", "chunk two"}
	doc, err := storage.StoreDocument(ctx, "doc-1", "report.pdf", "full text", chunks, 123)
	if err != nil {
		t.Fatalf("store failed: %v", err)
	}
	if doc.Status != models.StatusProcessed {
		t.Fatalf("expected processed status, got %q", doc.Status)
	}
	if doc.ChunkCount != 2 || doc.TextLength != len("full text") {
		t.Fatalf("unexpected counts: chunks=%d text=%d", doc.ChunkCount, doc.TextLength)
	}

	got, err := storage.GetDocument(ctx, "doc-1")
	if err != nil || got == nil {
		t.Fatalf("get failed: doc=%v err=%v", got, err)
	}
	if got.Filename != "report.pdf" {
		t.Fatalf("unexpected filename %q", got.Filename)
	}

	text, ok := storage.GetDocumentText(ctx, "doc-1")
	if !ok || text != "full text" {
		t.Fatalf("text round trip failed: ok=%v text=%q", ok, text)
	}
	gotChunks, ok := storage.GetDocumentChunks(ctx, "doc-1")
	if !ok || len(gotChunks) != 2 || gotChunks[0] != "chunk one" {
		t.Fatalf("chunk round trip failed: ok=%v chunks=%v", ok, gotChunks)
	}
}

func TestGetDocumentAbsent(t *testing.T) {
	ctx := context.Background()
	storage := NewDocumentStorage(newFakeMetadataStore(), newFakeContentStore(), NewFallbackCache(), nil)

	doc, err := storage.GetDocument(ctx, "missing")
	if err != nil {
		t.Fatalf("absent document must not be an error: %v", err)
	}
	if doc != nil {
		t.Fatalf("expected nil for absent document, got %v", doc)
	}
	if _, ok := storage.GetDocumentText(ctx, "missing"); ok {
		t.Fatal("expected text miss for absent document")
	}
}

func TestContentWriteDegradesToFallback(t *testing.T) {
	ctx := context.Background()
	meta := newFakeMetadataStore()
	content := newFakeContentStore()
	content.failWrites = true
	fallback := NewFallbackCache()
	storage := NewDocumentStorage(meta, content, fallback, nil)

	// A content store failure must not surface to the caller.
	if _, err := storage.StoreDocument(ctx, "doc-1", "a.txt", "text", []string{"text"}, 4); err != nil {
		t.Fatalf("store must succeed despite content store failure: %v", err)
	}
	if len(content.contents) != 0 {
		t.Fatal("content store should hold nothing after a failed write")
	}

	// Reads are transparently served from the fallback cache.
	text, ok := storage.GetDocumentText(ctx, "doc-1")
	if !ok || text != "text" {
		t.Fatalf("fallback read failed: ok=%v text=%q", ok, text)
	}
}

func TestContentStoreNotConfigured(t *testing.T) {
	ctx := context.Background()
	storage := NewDocumentStorage(newFakeMetadataStore(), nil, NewFallbackCache(), nil)

	if _, err := storage.StoreDocument(ctx, "doc-1", "a.txt", "text", []string{"text"}, 4); err != nil {
		t.Fatalf("store must succeed without a content store: %v", err)
	}
	chunks, ok := storage.GetDocumentChunks(ctx, "doc-1")
	if !ok || len(chunks) != 1 {
		t.Fatalf("fallback read failed: ok=%v chunks=%v", ok, chunks)
	}
}

func TestListDocumentsNewestFirst(t *testing.T) {
	ctx := context.Background()
	meta := newFakeMetadataStore()
	storage := NewDocumentStorage(meta, newFakeContentStore(), NewFallbackCache(), nil)

	base := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	for i, id := range []string{"doc-a", "doc-b", "doc-c"} {
		meta.docs[id] = models.Document{
			ID:         id,
			Filename:   id + ".txt",
			UploadTime: base.Add(time.Duration(i) * time.Hour),
			Status:     models.StatusProcessed,
		}
	}

	docs, total, err := storage.ListDocuments(ctx, 0, 2)
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if total != 3 {
		t.Fatalf("total must count all records, got %d", total)
	}
	if len(docs) != 2 || docs[0].ID != "doc-c" || docs[1].ID != "doc-b" {
		t.Fatalf("expected newest first [doc-c doc-b], got %v", docs)
	}

	docs, total, err = storage.ListDocuments(ctx, 2, 2)
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if total != 3 || len(docs) != 1 || docs[0].ID != "doc-a" {
		t.Fatalf("pagination mismatch: total=%d docs=%v", total, docs)
	}
}

func TestUpdateSummary(t *testing.T) {
	ctx := context.Background()
	meta := newFakeMetadataStore()
	storage := NewDocumentStorage(meta, newFakeContentStore(), NewFallbackCache(), nil)

	if _, err := storage.StoreDocument(ctx, "doc-1", "a.txt", "text", nil, 4); err != nil {
		t.Fatalf("store failed: %v", err)
	}

	found, err := storage.UpdateSummary(ctx, "doc-1", "first summary")
	if err != nil || !found {
		t.Fatalf("update failed: found=%v err=%v", found, err)
	}

	// Overwriting an existing summary is allowed.
	found, err = storage.UpdateSummary(ctx, "doc-1", "second summary")
	if err != nil || !found {
		t.Fatalf("overwrite failed: found=%v err=%v", found, err)
	}
	doc, _ := storage.GetDocument(ctx, "doc-1")
	if doc.Summary != "second summary" {
		t.Fatalf("expected overwritten summary, got %q", doc.Summary)
	}

	found, err = storage.UpdateSummary(ctx, "missing", "s")
	if err != nil {
		t.Fatalf("absent document must not be an error: %v", err)
	}
	if found {
		t.Fatal("expected found=false for absent document")
	}
}

func TestDeleteDocument(t *testing.T) {
	ctx := context.Background()
	meta := newFakeMetadataStore()
	content := newFakeContentStore()
	storage := NewDocumentStorage(meta, content, NewFallbackCache(), nil)

	if _, err := storage.StoreDocument(ctx, "doc-1", "a.txt", "text", []string{"text"}, 4); err != nil {
		t.Fatalf("store failed: %v", err)
	}

	found, err := storage.DeleteDocument(ctx, "doc-1")
	if err != nil || !found {
		t.Fatalf("delete failed: found=%v err=%v", found, err)
	}
	if _, ok := content.contents["doc-1"]; ok {
		t.Fatal("content record should be deleted with the document")
	}
	if doc, _ := storage.GetDocument(ctx, "doc-1"); doc != nil {
		t.Fatal("metadata record should be gone")
	}

	found, err = storage.DeleteDocument(ctx, "doc-1")
	if err != nil {
		t.Fatalf("deleting an absent document must not be an error: %v", err)
	}
	if found {
		t.Fatal("expected found=false for absent document")
	}
}

func TestDeleteLeavesFallbackEntries(t *testing.T) {
	ctx := context.Background()
	meta := newFakeMetadataStore()
	content := newFakeContentStore()
	content.failWrites = true
	fallback := NewFallbackCache()
	storage := NewDocumentStorage(meta, content, fallback, nil)

	if _, err := storage.StoreDocument(ctx, "doc-1", "a.txt", "text", []string{"text"}, 4); err != nil {
		t.Fatalf("store failed: %v", err)
	}
	if found, _ := storage.DeleteDocument(ctx, "doc-1"); !found {
		t.Fatal("delete should find the document")
	}

	// Delete does not reach into the fallback cache; entries that landed
	// there stay until the process exits.
	if _, ok := fallback.Get("doc-1"); !ok {
		t.Fatal("fallback entry should survive deletion")
	}
}

func TestTrackRequestBestEffort(t *testing.T) {
	ctx := context.Background()
	meta := newFakeMetadataStore()
	storage := NewDocumentStorage(meta, newFakeContentStore(), NewFallbackCache(), nil)

	storage.TrackRequest(ctx, "doc-1", models.RequestTypeSummarize, 150*time.Millisecond)
	if len(meta.requests) != 1 {
		t.Fatalf("expected 1 request record, got %d", len(meta.requests))
	}
	rec := meta.requests[0]
	if rec.DocID != "doc-1" || rec.RequestType != models.RequestTypeSummarize || rec.LatencyMs != 150 {
		t.Fatalf("unexpected record: %+v", rec)
	}
	if rec.ID == "" || rec.Timestamp.IsZero() {
		t.Fatalf("record missing identity fields: %+v", rec)
	}

	// A failed audit write never panics or propagates.
	meta.failRequest = true
	storage.TrackRequest(ctx, "doc-1", models.RequestTypeQA, time.Millisecond)
}

func TestAsyncLifecycle(t *testing.T) {
	ctx := context.Background()
	meta := newFakeMetadataStore()
	storage := NewDocumentStorage(meta, newFakeContentStore(), NewFallbackCache(), nil)

	doc, err := storage.CreatePending(ctx, "doc-1", "big.pdf", 5<<20)
	if err != nil {
		t.Fatalf("create pending failed: %v", err)
	}
	if doc.Status != models.StatusUploaded {
		t.Fatalf("expected uploaded status, got %q", doc.Status)
	}

	if err := storage.MarkProcessing(ctx, "doc-1"); err != nil {
		t.Fatalf("mark processing failed: %v", err)
	}
	got, _ := storage.GetDocument(ctx, "doc-1")
	if got.Status != models.StatusProcessing {
		t.Fatalf("expected processing status, got %q", got.Status)
	}

	if err := storage.CompleteProcessing(ctx, "doc-1", "extracted text", []string{"extracted text"}); err != nil {
		t.Fatalf("complete processing failed: %v", err)
	}
	got, _ = storage.GetDocument(ctx, "doc-1")
	if got.Status != models.StatusProcessed || got.TextLength != len("extracted text") || got.ChunkCount != 1 {
		t.Fatalf("unexpected processed record: %+v", got)
	}
	if text, ok := storage.GetDocumentText(ctx, "doc-1"); !ok || text != "extracted text" {
		t.Fatalf("content not readable after completion: ok=%v text=%q", ok, text)
	}

	if err := storage.MarkFailed(ctx, "doc-1", "boom"); err != nil {
		t.Fatalf("mark failed failed: %v", err)
	}
	got, _ = storage.GetDocument(ctx, "doc-1")
	if got.Status != models.StatusFailed || got.ErrorMessage != "boom" {
		t.Fatalf("unexpected failed record: %+v", got)
	}
}
