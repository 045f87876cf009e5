package models

import (
	"time"

	"gorm.io/datatypes"
)

// PortfolioDraft holds the editor's working copy as one JSON document.
type PortfolioDraft struct {
	ID        uint           `json:"id" db:"id" gorm:"primaryKey"`
	UserID    uint           `json:"user_id" db:"user_id" gorm:"not null;uniqueIndex"`
	User      *User          `json:"-" gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE"`
	Data      datatypes.JSON `json:"data" db:"data" gorm:"not null"`
	CreatedAt time.Time      `json:"created_at" db:"created_at"`
	UpdatedAt time.Time      `json:"updated_at" db:"updated_at"`
}
