package repository

import (
	"context"
	"database/sql"
	"fmt"
	"strconv"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/bibash21-creator/result-finder-33/internal/models"
)

// SettingRepository persists process-wide key/value settings, including the
// results publication flag.
type SettingRepository struct {
	db *sqlx.DB
}

// NewSettingRepository constructs the repository.
func NewSettingRepository(db *sqlx.DB) *SettingRepository {
	return &SettingRepository{db: db}
}

// Get fetches a single setting by key.
func (r *SettingRepository) Get(ctx context.Context, key string) (*models.Setting, error) {
	const query = `SELECT key, value, updated_at FROM settings WHERE key = $1`
	var setting models.Setting
	if err := r.db.GetContext(ctx, &setting, query, key); err != nil {
		return nil, err
	}
	return &setting, nil
}

// GetBool reads a boolean setting. An absent key reads as false, which gives
// the publication flag its unpublished default on first access.
func (r *SettingRepository) GetBool(ctx context.Context, key string) (bool, error) {
	setting, err := r.Get(ctx, key)
	if err != nil {
		if err == sql.ErrNoRows {
			return false, nil
		}
		return false, fmt.Errorf("get setting %s: %w", key, err)
	}
	value, err := strconv.ParseBool(setting.Value)
	if err != nil {
		return false, fmt.Errorf("parse setting %s: %w", key, err)
	}
	return value, nil
}

// SetBool upserts a boolean setting.
func (r *SettingRepository) SetBool(ctx context.Context, key string, value bool) error {
	setting := models.Setting{
		Key:       key,
		Value:     strconv.FormatBool(value),
		UpdatedAt: time.Now().UTC(),
	}
	const query = `INSERT INTO settings (key, value, updated_at)
        VALUES (:key, :value, :updated_at)
        ON CONFLICT (key)
        DO UPDATE SET value = EXCLUDED.value, updated_at = EXCLUDED.updated_at`
	if _, err := r.db.NamedExecContext(ctx, query, setting); err != nil {
		return fmt.Errorf("upsert setting %s: %w", key, err)
	}
	return nil
}
