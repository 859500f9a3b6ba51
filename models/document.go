package models

import (
	"time"
)

// DocumentStatus values for the processing lifecycle
const (
	StatusUploaded   = "uploaded"
	StatusProcessing = "processing"
	StatusProcessed  = "processed"
	StatusFailed     = "failed"
)

// Document is the metadata record for one uploaded document.
// It lives in the MongoDB "documents" collection and is the source of
// truth for document existence; the bulk content (full text and chunks)
// lives in the content store keyed by the same ID.
type Document struct {
	ID           string    `bson:"_id" json:"id"`
	Filename     string    `bson:"filename" json:"filename"`
	UploadTime   time.Time `bson:"upload_time" json:"upload_time"`
	Status       string    `bson:"status" json:"status"`
	FileSize     int64     `bson:"file_size,omitempty" json:"file_size,omitempty"`
	TextLength   int       `bson:"text_length,omitempty" json:"text_length,omitempty"`
	ChunkCount   int       `bson:"chunk_count,omitempty" json:"chunk_count,omitempty"`
	Summary      string    `bson:"summary,omitempty" json:"summary,omitempty"`
	ErrorMessage string    `bson:"error_message,omitempty" json:"error_message,omitempty"`
}

// DocumentContent is the bulk content record stored in Redis (or the
// in-process fallback cache) as compressed JSON, keyed by document ID.
type DocumentContent struct {
	Text   string   `json:"text"`
	Chunks []string `json:"chunks"`
}

// UploadResponse is returned after a successful upload.
type UploadResponse struct {
	ID         string `json:"id"`
	Filename   string `json:"filename"`
	Status     string `json:"status"`
	ChunkCount int    `json:"chunk_count,omitempty"`
	Message    string `json:"message"`
	TaskID     string `json:"task_id,omitempty"` // For async processing
}

// DocumentListResponse wraps a page of documents with the total count.
type DocumentListResponse struct {
	Documents []Document `json:"documents"`
	Total     int64      `json:"total"`
	Skip      int64      `json:"skip"`
	Limit     int64      `json:"limit"`
}

// SummarizeResponse is returned by the summarization endpoint.
type SummarizeResponse struct {
	DocID     string `json:"doc_id"`
	Summary   string `json:"summary"`
	WordCount int    `json:"word_count"`
}

// QARequest is the body of a question-answering request.
type QARequest struct {
	DocID    string `json:"doc_id" binding:"required"`
	Question string `json:"question" binding:"required"`
}

// QAResponse is returned by the question-answering endpoint.
type QAResponse struct {
	DocID    string   `json:"doc_id"`
	Question string   `json:"question"`
	Answer   string   `json:"answer"`
	Sources  []string `json:"sources"`
}
