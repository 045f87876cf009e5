package database

import (
	"context"
	"errors"

	"github.com/rpupo63/portfolia-backend/models"
	"gorm.io/datatypes"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type DraftRepo struct {
	db *gorm.DB
}

func NewDraftRepo(db *gorm.DB) *DraftRepo {
	return &DraftRepo{db}
}

// FindByUser returns the user's draft, or nil if there is none.
func (r *DraftRepo) FindByUser(ctx context.Context, userID uint) (*models.PortfolioDraft, error) {
	var draft models.PortfolioDraft
	err := r.db.WithContext(ctx).Where("user_id = ?", userID).First(&draft).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &draft, nil
}

// Add inserts a new draft. It fails on the unique user_id index if the user
// already has one.
func (r *DraftRepo) Add(ctx context.Context, draft *models.PortfolioDraft) error {
	return r.db.WithContext(ctx).Create(draft).Error
}

// Upsert replaces the stored document, creating the row when missing.
func (r *DraftRepo) Upsert(ctx context.Context, userID uint, data datatypes.JSON) (*models.PortfolioDraft, error) {
	draft := models.PortfolioDraft{UserID: userID, Data: data}
	err := r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "user_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"data", "updated_at"}),
	}).Create(&draft).Error
	if err != nil {
		return nil, err
	}
	return r.FindByUser(ctx, userID)
}
