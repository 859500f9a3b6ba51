package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"doc-summarizer-platform/models"
	"doc-summarizer-platform/utils"

	"github.com/redis/go-redis/v9"
)

// ErrContentNotFound is returned when no content record exists for an ID.
var ErrContentNotFound = errors.New("document content not found")

const contentKeyPrefix = "doc:content:"

// RedisContentStore holds the bulk content of documents (full text plus
// chunk list) as gzip-compressed JSON, keyed by document ID. The store may
// be unavailable at any time; callers treat every error as "unavailable"
// and fall back to the in-process cache.
type RedisContentStore struct {
	rdb *redis.Client
}

// NewRedisContentStore wraps an already-connected Redis client.
func NewRedisContentStore(rdb *redis.Client) *RedisContentStore {
	return &RedisContentStore{rdb: rdb}
}

// StoreContent writes the content record, replacing any previous value.
func (s *RedisContentStore) StoreContent(ctx context.Context, docID string, content *models.DocumentContent) error {
	data, err := json.Marshal(content)
	if err != nil {
		return fmt.Errorf("failed to encode content for %s: %w", docID, err)
	}

	compressed, err := utils.CompressData(data)
	if err != nil {
		return fmt.Errorf("failed to compress content for %s: %w", docID, err)
	}

	if err := s.rdb.Set(ctx, contentKeyPrefix+docID, compressed, 0).Err(); err != nil {
		return fmt.Errorf("failed to store content for %s: %w", docID, err)
	}
	return nil
}

// GetContent reads the content record, returning ErrContentNotFound when
// the key is absent.
func (s *RedisContentStore) GetContent(ctx context.Context, docID string) (*models.DocumentContent, error) {
	raw, err := s.rdb.Get(ctx, contentKeyPrefix+docID).Bytes()
	if err == redis.Nil {
		return nil, ErrContentNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read content for %s: %w", docID, err)
	}

	data, err := utils.DecompressData(raw)
	if err != nil {
		return nil, fmt.Errorf("failed to decompress content for %s: %w", docID, err)
	}

	var content models.DocumentContent
	if err := json.Unmarshal(data, &content); err != nil {
		return nil, fmt.Errorf("failed to decode content for %s: %w", docID, err)
	}
	return &content, nil
}

// DeleteContent removes the content record. Deleting a missing key is not
// an error.
func (s *RedisContentStore) DeleteContent(ctx context.Context, docID string) error {
	if err := s.rdb.Del(ctx, contentKeyPrefix+docID).Err(); err != nil {
		return fmt.Errorf("failed to delete content for %s: %w", docID, err)
	}
	return nil
}
