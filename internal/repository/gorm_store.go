package repository

import (
	"context"

	"github.com/project-roulette/engine/internal/models"
	appErr "github.com/project-roulette/engine/pkg/errors"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// GormStore keeps keys as rows of the kv_entries table. Values must be valid
// JSON because the column is jsonb.
type GormStore struct {
	rows BaseRepository[models.KVEntry]
}

func NewGormStore(db *gorm.DB) *GormStore {
	return &GormStore{rows: NewBaseRepository[models.KVEntry](db, "key")}
}

func (s *GormStore) Get(ctx context.Context, key string) ([]byte, error) {
	var e models.KVEntry
	if err := s.rows.GetByID(ctx, key, &e); err != nil {
		if appErr.IsCode(err, appErr.CodeNotFound) {
			return nil, ErrKeyNotFound
		}
		return nil, err
	}
	return []byte(e.Value), nil
}

func (s *GormStore) Set(ctx context.Context, key string, value []byte) error {
	return s.rows.Upsert(ctx, &models.KVEntry{Key: key, Value: datatypes.JSON(value)})
}

func (s *GormStore) Delete(ctx context.Context, key string) error {
	if err := s.rows.Delete(ctx, key); err != nil && !appErr.IsCode(err, appErr.CodeNotFound) {
		return err
	}
	return nil
}

func (s *GormStore) Ping(ctx context.Context) error { return s.rows.Ping(ctx) }
