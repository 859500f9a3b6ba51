package models

import (
	"time"
)

// RequestType values for AI request tracking
const (
	RequestTypeSummarize = "summarize"
	RequestTypeQA        = "qa"
)

// RequestRecord tracks one AI operation against a document. Records are
// insert-only and written best-effort: a failed write is logged but never
// fails the operation it describes.
type RequestRecord struct {
	ID          string    `bson:"_id" json:"id"`
	DocID       string    `bson:"doc_id" json:"doc_id"`
	RequestType string    `bson:"request_type" json:"request_type"`
	Timestamp   time.Time `bson:"timestamp" json:"timestamp"`
	LatencyMs   int64     `bson:"latency_ms,omitempty" json:"latency_ms,omitempty"`
}
