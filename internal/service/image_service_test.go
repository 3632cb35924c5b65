package service

import (
	"context"
	"database/sql"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	appErrors "github.com/bibash21-creator/result-finder-33/pkg/errors"
)

type mockImageRepo struct {
	images map[string]string
}

func (m *mockImageRepo) SetResultImage(ctx context.Context, studentID, payload string) error {
	if m.images == nil {
		return sql.ErrNoRows
	}
	if _, ok := m.images[studentID]; !ok {
		return sql.ErrNoRows
	}
	m.images[studentID] = payload
	return nil
}

func (m *mockImageRepo) ClearResultImage(ctx context.Context, studentID string) error {
	if _, ok := m.images[studentID]; !ok {
		return sql.ErrNoRows
	}
	m.images[studentID] = ""
	return nil
}

var pngBytes = append([]byte{0x89, 'P', 'N', 'G', 0x0D, 0x0A, 0x1A, 0x0A}, make([]byte, 64)...)

func TestImageServiceAttach(t *testing.T) {
	repo := &mockImageRepo{images: map[string]string{"S001": ""}}
	cache := &mockInvalidator{}
	svc := NewImageService(repo, cache, 2<<20, zap.NewNop())

	payload, err := svc.Attach(context.Background(), "S001", pngBytes)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(payload, "data:image/png;base64,"))
	assert.Equal(t, payload, repo.images["S001"])
	assert.Equal(t, []string{"S001"}, cache.invalidated)
}

func TestImageServiceAttachRejectsOversized(t *testing.T) {
	repo := &mockImageRepo{images: map[string]string{"S001": ""}}
	svc := NewImageService(repo, nil, 16, zap.NewNop())

	_, err := svc.Attach(context.Background(), "S001", pngBytes)
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrValidation.Code, appErrors.FromError(err).Code)
}

func TestImageServiceAttachRejectsNonImage(t *testing.T) {
	repo := &mockImageRepo{images: map[string]string{"S001": ""}}
	svc := NewImageService(repo, nil, 2<<20, zap.NewNop())

	_, err := svc.Attach(context.Background(), "S001", []byte("%PDF-1.4 not an image"))
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrValidation.Code, appErrors.FromError(err).Code)
}

func TestImageServiceAttachUnknownStudent(t *testing.T) {
	svc := NewImageService(&mockImageRepo{}, nil, 2<<20, zap.NewNop())

	_, err := svc.Attach(context.Background(), "ghost", pngBytes)
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrNotFound.Code, appErrors.FromError(err).Code)
}

func TestImageServiceDetach(t *testing.T) {
	repo := &mockImageRepo{images: map[string]string{"S001": "data:image/png;base64,AAAA"}}
	svc := NewImageService(repo, nil, 2<<20, zap.NewNop())

	require.NoError(t, svc.Detach(context.Background(), "S001"))
	assert.Empty(t, repo.images["S001"])
}
