package services

import (
	"context"
	"fmt"
	"time"

	"doc-summarizer-platform/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// MongoMetadataStore persists document and request records in MongoDB.
// Metadata is authoritative: every error from this store is propagated to
// the caller, unlike content store errors which degrade to the fallback.
type MongoMetadataStore struct {
	documents *mongo.Collection
	requests  *mongo.Collection
}

// NewMongoMetadataStore creates a metadata store over the given database.
func NewMongoMetadataStore(db *mongo.Database) *MongoMetadataStore {
	return &MongoMetadataStore{
		documents: db.Collection("documents"),
		requests:  db.Collection("requests"),
	}
}

// CreateDocument inserts a new document record.
func (s *MongoMetadataStore) CreateDocument(ctx context.Context, doc *models.Document) error {
	if _, err := s.documents.InsertOne(ctx, doc); err != nil {
		return fmt.Errorf("failed to insert document %s: %w", doc.ID, err)
	}
	return nil
}

// GetDocument returns the document record, or (nil, nil) when absent.
func (s *MongoMetadataStore) GetDocument(ctx context.Context, docID string) (*models.Document, error) {
	var doc models.Document
	err := s.documents.FindOne(ctx, bson.M{"_id": docID}).Decode(&doc)
	if err == mongo.ErrNoDocuments {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to fetch document %s: %w", docID, err)
	}
	return &doc, nil
}

// ListDocuments returns one page ordered by upload_time descending plus
// the total count across all pages. The _id tiebreaker keeps the order
// deterministic for documents sharing an upload time.
func (s *MongoMetadataStore) ListDocuments(ctx context.Context, skip, limit int64) ([]models.Document, int64, error) {
	total, err := s.documents.CountDocuments(ctx, bson.M{})
	if err != nil {
		return nil, 0, fmt.Errorf("failed to count documents: %w", err)
	}

	opts := options.Find().
		SetSort(bson.D{{Key: "upload_time", Value: -1}, {Key: "_id", Value: -1}}).
		SetSkip(skip).
		SetLimit(limit)

	cursor, err := s.documents.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list documents: %w", err)
	}
	defer cursor.Close(ctx)

	docs := []models.Document{}
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, 0, fmt.Errorf("failed to decode documents: %w", err)
	}

	return docs, total, nil
}

// UpdateSummary sets the summary field, reporting whether a record matched.
// Repeated identical calls are idempotent; concurrent callers race with
// last-write-wins semantics.
func (s *MongoMetadataStore) UpdateSummary(ctx context.Context, docID, summary string) (bool, error) {
	res, err := s.documents.UpdateOne(ctx,
		bson.M{"_id": docID},
		bson.M{"$set": bson.M{"summary": summary}},
	)
	if err != nil {
		return false, fmt.Errorf("failed to update summary for %s: %w", docID, err)
	}
	return res.MatchedCount > 0, nil
}

// UpdateStatus moves a document through its processing lifecycle.
func (s *MongoMetadataStore) UpdateStatus(ctx context.Context, docID, status, errorMessage string) error {
	update := bson.M{"status": status}
	if errorMessage != "" {
		update["error_message"] = errorMessage
	}

	_, err := s.documents.UpdateOne(ctx, bson.M{"_id": docID}, bson.M{"$set": update})
	if err != nil {
		return fmt.Errorf("failed to update status for %s: %w", docID, err)
	}
	return nil
}

// UpdateProcessingResult records the derived fields once async extraction
// and chunking finish, and marks the document processed.
func (s *MongoMetadataStore) UpdateProcessingResult(ctx context.Context, docID string, textLength, chunkCount int) error {
	_, err := s.documents.UpdateOne(ctx,
		bson.M{"_id": docID},
		bson.M{"$set": bson.M{
			"status":      models.StatusProcessed,
			"text_length": textLength,
			"chunk_count": chunkCount,
		}},
	)
	if err != nil {
		return fmt.Errorf("failed to record processing result for %s: %w", docID, err)
	}
	return nil
}

// DeleteDocument removes the record, reporting whether one existed.
func (s *MongoMetadataStore) DeleteDocument(ctx context.Context, docID string) (bool, error) {
	res, err := s.documents.DeleteOne(ctx, bson.M{"_id": docID})
	if err != nil {
		return false, fmt.Errorf("failed to delete document %s: %w", docID, err)
	}
	return res.DeletedCount > 0, nil
}

// InsertRequest appends a request-tracking record. Records are insert-only.
func (s *MongoMetadataStore) InsertRequest(ctx context.Context, rec *models.RequestRecord) error {
	if rec.Timestamp.IsZero() {
		rec.Timestamp = time.Now().UTC()
	}
	if _, err := s.requests.InsertOne(ctx, rec); err != nil {
		return fmt.Errorf("failed to insert request record: %w", err)
	}
	return nil
}
