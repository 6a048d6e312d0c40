package repository

import (
	"context"
	"errors"
	"fmt"

	appErr "github.com/project-roulette/engine/pkg/errors"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// BaseRepository defines the row operations the relational backend needs.
type BaseRepository[T any] interface {
	GetByID(ctx context.Context, id any, dest *T) error
	Upsert(ctx context.Context, obj *T) error
	Delete(ctx context.Context, id any) error
	Ping(ctx context.Context) error
}

type baseRepository[T any] struct {
	db *gorm.DB
	pk string
}

// NewBaseRepository returns a repository keyed on column pk.
func NewBaseRepository[T any](db *gorm.DB, pk string) BaseRepository[T] {
	return &baseRepository[T]{db: db, pk: pk}
}

func (r *baseRepository[T]) byID(id any) clause.Eq {
	return clause.Eq{Column: clause.Column{Name: r.pk}, Value: id}
}

func (r *baseRepository[T]) GetByID(ctx context.Context, id any, dest *T) error {
	if err := r.db.WithContext(ctx).Where(r.byID(id)).First(dest).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return appErr.New(appErr.CodeNotFound, "entity not found")
		}
		return appErr.Wrap(err, appErr.CodeUnavailable, "get entity failed")
	}
	return nil
}

// Upsert inserts obj or overwrites every column of the existing row.
func (r *baseRepository[T]) Upsert(ctx context.Context, obj *T) error {
	err := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{UpdateAll: true}).
		Create(obj).Error
	if err != nil {
		return appErr.Wrap(err, appErr.CodeStorage, "upsert entity failed")
	}
	return nil
}

func (r *baseRepository[T]) Delete(ctx context.Context, id any) error {
	var t T
	res := r.db.WithContext(ctx).Where(r.byID(id)).Delete(&t)
	if res.Error != nil {
		return appErr.Wrap(res.Error, appErr.CodeStorage, "delete entity failed")
	}
	if res.RowsAffected == 0 {
		return appErr.New(appErr.CodeNotFound, fmt.Sprintf("entity %v not found", id))
	}
	return nil
}

func (r *baseRepository[T]) Ping(ctx context.Context) error {
	sqlDB, err := r.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}
