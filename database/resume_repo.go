package database

import (
	"context"
	"errors"

	"github.com/rpupo63/portfolia-backend/errs"
	"github.com/rpupo63/portfolia-backend/models"
	"gorm.io/gorm"
)

type ResumeRepo struct {
	*OwnedRepo[models.Resume, *models.Resume]
}

func NewResumeRepo(db *gorm.DB) *ResumeRepo {
	return &ResumeRepo{NewOwnedRepo[models.Resume](db, "resume")}
}

// FindLatestUnsaved returns the most recent resume awaiting confirmation.
func (r *ResumeRepo) FindLatestUnsaved(ctx context.Context, userID uint) (*models.Resume, error) {
	var resume models.Resume
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND is_saved = ?", userID, false).
		Order("created_at DESC, id DESC").
		First(&resume).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, errs.NewNotFoundError("no draft resume found")
	}
	if err != nil {
		return nil, err
	}
	return &resume, nil
}

// FindUnsaved returns resume id if it belongs to the user and was not
// confirmed yet.
func (r *ResumeRepo) FindUnsaved(ctx context.Context, userID, id uint) (*models.Resume, error) {
	var resume models.Resume
	err := r.db.WithContext(ctx).
		Where("id = ? AND user_id = ? AND is_saved = ?", id, userID, false).
		First(&resume).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, errs.NewNotFoundError("draft resume not found or already saved")
	}
	if err != nil {
		return nil, err
	}
	return &resume, nil
}

// History lists every resume of the user, newest first.
func (r *ResumeRepo) History(ctx context.Context, userID uint) ([]models.Resume, error) {
	rows := make([]models.Resume, 0)
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC, id DESC").
		Find(&rows).Error
	return rows, err
}

// DeleteUnsaved drops pending resumes of the user and returns them so the
// caller can clean up their stored files.
func (r *ResumeRepo) DeleteUnsaved(ctx context.Context, userID uint) ([]models.Resume, error) {
	var pending []models.Resume
	db := r.db.WithContext(ctx)
	if err := db.Where("user_id = ? AND is_saved = ?", userID, false).Find(&pending).Error; err != nil {
		return nil, err
	}
	if len(pending) == 0 {
		return pending, nil
	}
	if err := db.Where("user_id = ? AND is_saved = ?", userID, false).Delete(&models.Resume{}).Error; err != nil {
		return nil, err
	}
	return pending, nil
}

func (r *ResumeRepo) MarkSaved(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Model(&models.Resume{}).Where("id = ?", id).Update("is_saved", true).Error
}
