package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/bibash21-creator/result-finder-33/internal/models"
	appErrors "github.com/bibash21-creator/result-finder-33/pkg/errors"
)

// ResultCacheRepository caches computed result summaries in Redis so the
// polling dashboard does not recompute aggregates on every read. A nil client
// degrades to a no-op cache.
type ResultCacheRepository struct {
	client *redis.Client
	logger *zap.Logger
}

// NewResultCacheRepository constructs a cache repository.
func NewResultCacheRepository(client *redis.Client, logger *zap.Logger) *ResultCacheRepository {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ResultCacheRepository{client: client, logger: logger}
}

func summaryKey(studentID string) string {
	return "results:summary:" + studentID
}

// GetSummary retrieves the cached summary for a student.
func (r *ResultCacheRepository) GetSummary(ctx context.Context, studentID string) (*models.ResultSummary, error) {
	if r.client == nil {
		return nil, appErrors.ErrCacheMiss
	}

	raw, err := r.client.Get(ctx, summaryKey(studentID)).Bytes()
	if err != nil {
		if err == redis.Nil {
			return nil, appErrors.ErrCacheMiss
		}
		return nil, fmt.Errorf("redis get %s: %w", summaryKey(studentID), err)
	}

	summary := &models.ResultSummary{}
	if err := json.Unmarshal(raw, summary); err != nil {
		return nil, fmt.Errorf("unmarshal cached summary for %s: %w", studentID, err)
	}

	return summary, nil
}

// SetSummary stores the summary with the given TTL.
func (r *ResultCacheRepository) SetSummary(ctx context.Context, summary *models.ResultSummary, ttl time.Duration) error {
	if r.client == nil {
		return nil
	}

	payload, err := json.Marshal(summary)
	if err != nil {
		return fmt.Errorf("marshal summary for %s: %w", summary.StudentID, err)
	}

	if err := r.client.Set(ctx, summaryKey(summary.StudentID), payload, ttl).Err(); err != nil {
		return fmt.Errorf("redis set %s: %w", summaryKey(summary.StudentID), err)
	}

	return nil
}

// Invalidate drops the cached summary for one student.
func (r *ResultCacheRepository) Invalidate(ctx context.Context, studentID string) error {
	if r.client == nil {
		return nil
	}
	if err := r.client.Del(ctx, summaryKey(studentID)).Err(); err != nil {
		return fmt.Errorf("redis del %s: %w", summaryKey(studentID), err)
	}
	return nil
}

// InvalidateAll drops every cached summary, used when the publication flag
// flips so stale visibility never leaks.
func (r *ResultCacheRepository) InvalidateAll(ctx context.Context) error {
	if r.client == nil {
		return nil
	}
	iter := r.client.Scan(ctx, 0, "results:summary:*", 0).Iterator()
	for iter.Next(ctx) {
		if err := r.client.Del(ctx, iter.Val()).Err(); err != nil {
			r.logger.Warn("failed to delete cached summary", zap.String("key", iter.Val()), zap.Error(err))
		}
	}
	if err := iter.Err(); err != nil {
		return fmt.Errorf("scan summary cache: %w", err)
	}
	return nil
}

// Close releases the underlying Redis connection if present.
func (r *ResultCacheRepository) Close() error {
	if r.client == nil {
		return nil
	}
	return r.client.Close()
}
