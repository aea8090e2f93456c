// Package store is the persistence layer behind every record kind. Handlers
// depend on the Store interface; GormStore serves sqlite, postgres and mysql
// deployments alike.
package store

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"paperpaints/common"
)

// Store persists one record kind.
type Store[T any] interface {
	// List returns every record, newest first.
	List(ctx context.Context) ([]T, error)
	Get(ctx context.Context, id string) (*T, error)
	Create(ctx context.Context, rec *T) error
	// Update loads the record, lets apply change it and saves it.
	Update(ctx context.Context, id string, apply func(*T) error) (*T, error)
	// Delete removes the record and returns it as it was.
	Delete(ctx context.Context, id string) (*T, error)
}

type GormStore[T any] struct {
	db *gorm.DB
}

func New[T any](db *gorm.DB) *GormStore[T] {
	return &GormStore[T]{db: db}
}

func (s *GormStore[T]) List(ctx context.Context) ([]T, error) {
	var items []T
	err := s.db.WithContext(ctx).Order("created_at DESC").Order("id DESC").Find(&items).Error
	if err != nil {
		return nil, translate(err)
	}
	return items, nil
}

func (s *GormStore[T]) Get(ctx context.Context, id string) (*T, error) {
	var rec T
	if err := s.db.WithContext(ctx).Where("id = ?", id).First(&rec).Error; err != nil {
		return nil, translate(err)
	}
	return &rec, nil
}

func (s *GormStore[T]) Create(ctx context.Context, rec *T) error {
	return translate(s.db.WithContext(ctx).Create(rec).Error)
}

func (s *GormStore[T]) Update(ctx context.Context, id string, apply func(*T) error) (*T, error) {
	var rec T
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("id = ?", id).First(&rec).Error; err != nil {
			return err
		}
		if err := apply(&rec); err != nil {
			return err
		}
		return tx.Save(&rec).Error
	})
	if err != nil {
		return nil, translate(err)
	}
	return &rec, nil
}

func (s *GormStore[T]) Delete(ctx context.Context, id string) (*T, error) {
	var rec T
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("id = ?", id).First(&rec).Error; err != nil {
			return err
		}
		res := tx.Where("id = ?", id).Delete(new(T))
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		return nil
	})
	if err != nil {
		return nil, translate(err)
	}
	return &rec, nil
}

func translate(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		return common.ErrNotFound
	case errors.Is(err, gorm.ErrDuplicatedKey):
		return fmt.Errorf("%w: %v", common.ErrConflict, err)
	}
	return err
}
