package database

import (
	"context"
	"errors"

	"github.com/rpupo63/portfolia-backend/errs"
	"github.com/rpupo63/portfolia-backend/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type UserRepo struct {
	db *gorm.DB
}

func NewUserRepo(db *gorm.DB) *UserRepo {
	return &UserRepo{db}
}

func (r *UserRepo) FindByID(ctx context.Context, id uint) (*models.User, error) {
	var user models.User
	err := r.db.WithContext(ctx).First(&user, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, errs.NewNotFound("user")
	}
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// FindByUsername matches usernames case-insensitively.
func (r *UserRepo) FindByUsername(ctx context.Context, username string) (*models.User, error) {
	var user models.User
	err := r.db.WithContext(ctx).Where("LOWER(username) = LOWER(?)", username).First(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, errs.NewNotFound("user")
	}
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// LockByID reads the user row with SELECT ... FOR UPDATE. Publishing and
// resume imports take this lock first so that concurrent writers for the
// same user are serialised. SQLite has no row locks and relies on its
// database-wide write lock instead.
func (r *UserRepo) LockByID(ctx context.Context, id uint) (*models.User, error) {
	q := r.db.WithContext(ctx)
	if q.Dialector.Name() != "sqlite" {
		q = q.Clauses(clause.Locking{Strength: "UPDATE"})
	}

	var user models.User
	err := q.Where("id = ?", id).First(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, errs.NewNotFound("user")
	}
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *UserRepo) Add(ctx context.Context, user *models.User) error {
	return r.db.WithContext(ctx).Create(user).Error
}

// UpdateSettings writes the publication settings, zero values included.
func (r *UserRepo) UpdateSettings(ctx context.Context, id uint, isPublic bool, theme string, analytics bool) error {
	return r.db.WithContext(ctx).Model(&models.User{}).Where("id = ?", id).Updates(map[string]any{
		"is_public":         isPublic,
		"theme_preference":  theme,
		"analytics_enabled": analytics,
	}).Error
}
