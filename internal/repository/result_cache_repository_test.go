package repository

import (
	"context"
	"testing"
	"time"

	miniredis "github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/bibash21-creator/result-finder-33/internal/models"
	appErrors "github.com/bibash21-creator/result-finder-33/pkg/errors"
)

func newCacheRepo(t *testing.T) (*ResultCacheRepository, *miniredis.Miniredis) {
	t.Helper()
	srv := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: srv.Addr()})
	repo := NewResultCacheRepository(client, zap.NewNop())
	t.Cleanup(func() { repo.Close() }) //nolint:errcheck
	return repo, srv
}

func TestResultCacheRoundTrip(t *testing.T) {
	repo, _ := newCacheRepo(t)
	ctx := context.Background()

	image := "data:image/png;base64,iVBORw0KGgo="
	generated := time.Date(2023, 11, 4, 10, 30, 0, 0, time.UTC)
	summary := &models.ResultSummary{
		StudentID: "STU10000",
		FullName:  "Emma Thompson",
		Semester:  "Fall 2023",
		Subjects: []models.Subject{
			{ID: "s1", Name: "Mathematics", Code: "MATH101", Credits: 3, Score: 95, Grade: "A", CreatedAt: generated, UpdatedAt: generated},
			{ID: "s2", Name: "Physics", Code: "PHY101", Credits: 2, Score: 65, Grade: "D", CreatedAt: generated, UpdatedAt: generated},
		},
		GPA:          2.8,
		AverageScore: 80.0,
		TotalCredits: 5,
		ResultImage:  &image,
		Published:    true,
		GeneratedAt:  generated,
	}

	require.NoError(t, repo.SetSummary(ctx, summary, time.Minute))

	got, err := repo.GetSummary(ctx, "STU10000")
	require.NoError(t, err)
	assert.Equal(t, summary, got)
}

func TestResultCacheMissOnUnknownStudent(t *testing.T) {
	repo, _ := newCacheRepo(t)

	_, err := repo.GetSummary(context.Background(), "ghost")
	assert.ErrorIs(t, err, appErrors.ErrCacheMiss)
}

func TestResultCacheInvalidate(t *testing.T) {
	repo, _ := newCacheRepo(t)
	ctx := context.Background()

	require.NoError(t, repo.SetSummary(ctx, &models.ResultSummary{StudentID: "STU10000"}, time.Minute))
	require.NoError(t, repo.Invalidate(ctx, "STU10000"))

	_, err := repo.GetSummary(ctx, "STU10000")
	assert.ErrorIs(t, err, appErrors.ErrCacheMiss)
}

func TestResultCacheInvalidateAll(t *testing.T) {
	repo, srv := newCacheRepo(t)
	ctx := context.Background()

	require.NoError(t, repo.SetSummary(ctx, &models.ResultSummary{StudentID: "STU10000"}, time.Minute))
	require.NoError(t, repo.SetSummary(ctx, &models.ResultSummary{StudentID: "STU10001"}, time.Minute))
	require.NoError(t, srv.Set("other:key", "kept"))

	require.NoError(t, repo.InvalidateAll(ctx))

	_, err := repo.GetSummary(ctx, "STU10000")
	assert.ErrorIs(t, err, appErrors.ErrCacheMiss)
	_, err = repo.GetSummary(ctx, "STU10001")
	assert.ErrorIs(t, err, appErrors.ErrCacheMiss)
	assert.True(t, srv.Exists("other:key"))
}

func TestResultCacheNilClient(t *testing.T) {
	repo := NewResultCacheRepository(nil, zap.NewNop())
	ctx := context.Background()

	require.NoError(t, repo.SetSummary(ctx, &models.ResultSummary{StudentID: "STU10000"}, time.Minute))
	_, err := repo.GetSummary(ctx, "STU10000")
	assert.ErrorIs(t, err, appErrors.ErrCacheMiss)
	require.NoError(t, repo.InvalidateAll(ctx))
}
