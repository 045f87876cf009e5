package database

import (
	"context"
	"errors"

	"github.com/rpupo63/portfolia-backend/errs"
	"github.com/rpupo63/portfolia-backend/models"
	"gorm.io/gorm"
)

// OwnedRepo gives per-user access to one collection. Every query is scoped
// by user_id so a row belonging to someone else is indistinguishable from a
// missing one.
type OwnedRepo[T any, PT interface {
	*T
	models.Owned
}] struct {
	db     *gorm.DB
	entity string
}

func NewOwnedRepo[T any, PT interface {
	*T
	models.Owned
}](db *gorm.DB, entity string) *OwnedRepo[T, PT] {
	return &OwnedRepo[T, PT]{db: db, entity: entity}
}

// Entity is the singular name used in error messages.
func (r *OwnedRepo[T, PT]) Entity() string {
	return r.entity
}

// GetDB returns the underlying database connection for debugging purposes
func (r *OwnedRepo[T, PT]) GetDB() *gorm.DB {
	return r.db
}

// ListByUser returns all rows of the user in insertion order.
func (r *OwnedRepo[T, PT]) ListByUser(ctx context.Context, userID uint) ([]T, error) {
	rows := make([]T, 0)
	err := r.db.WithContext(ctx).Where("user_id = ?", userID).Order("id").Find(&rows).Error
	return rows, err
}

// FindOwned returns the row with id if it belongs to userID.
func (r *OwnedRepo[T, PT]) FindOwned(ctx context.Context, userID, id uint) (PT, error) {
	row := PT(new(T))
	err := r.db.WithContext(ctx).Where("id = ? AND user_id = ?", id, userID).First(row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, errs.NewNotFound(r.entity)
	}
	if err != nil {
		return nil, err
	}
	return row, nil
}

// Add inserts row. The primary key is always assigned by the database.
func (r *OwnedRepo[T, PT]) Add(ctx context.Context, row PT) error {
	row.SetPrimaryKey(0)
	return r.db.WithContext(ctx).Create(row).Error
}

// Update overwrites an existing row of its owner.
func (r *OwnedRepo[T, PT]) Update(ctx context.Context, row PT) error {
	if _, err := r.FindOwned(ctx, row.OwnerID(), row.PrimaryKey()); err != nil {
		return err
	}
	return r.db.WithContext(ctx).Save(row).Error
}

// DeleteOwned removes the row with id if it belongs to userID.
func (r *OwnedRepo[T, PT]) DeleteOwned(ctx context.Context, userID, id uint) error {
	res := r.db.WithContext(ctx).Where("id = ? AND user_id = ?", id, userID).Delete(PT(new(T)))
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return errs.NewNotFound(r.entity)
	}
	return nil
}

// DeleteAllForUser removes every row of the user.
func (r *OwnedRepo[T, PT]) DeleteAllForUser(ctx context.Context, userID uint) (int64, error) {
	res := r.db.WithContext(ctx).Where("user_id = ?", userID).Delete(PT(new(T)))
	return res.RowsAffected, res.Error
}

// ExistsWhere reports whether the user has a row matching query.
func (r *OwnedRepo[T, PT]) ExistsWhere(ctx context.Context, userID uint, query string, args ...any) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(PT(new(T))).
		Where("user_id = ?", userID).
		Where(query, args...).
		Limit(1).
		Count(&count).Error
	return count > 0, err
}

// CountByUser returns how many rows the user has.
func (r *OwnedRepo[T, PT]) CountByUser(ctx context.Context, userID uint) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(PT(new(T))).Where("user_id = ?", userID).Count(&count).Error
	return count, err
}
