package models

import (
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Project is a showcased piece of work, entered manually, imported from
// GitHub or extracted from a resume.
type Project struct {
	ID          uint                        `json:"id" db:"id" gorm:"primaryKey"`
	UserID      uint                        `json:"-" db:"user_id" gorm:"not null;index"`
	User        *User                       `json:"-" gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE"`
	Title       string                      `json:"title" db:"title" gorm:"type:text;not null" validate:"required"`
	Description string                      `json:"description" db:"description" gorm:"type:text"`
	Type        string                      `json:"type" db:"type" gorm:"type:text;not null;default:'manual'"`
	Stack       datatypes.JSONSlice[string] `json:"stack" db:"stack"`
	Features    datatypes.JSONSlice[string] `json:"features" db:"features"`
	Link        string                      `json:"link" db:"link" gorm:"type:text"`
	Stars       int                         `json:"stars" db:"stars" gorm:"not null;default:0" validate:"gte=0"`
	Forks       int                         `json:"forks" db:"forks" gorm:"not null;default:0" validate:"gte=0"`
	Imported    bool                        `json:"imported" db:"imported" gorm:"not null;default:false"`
	AISummary   bool                        `json:"ai_summary" db:"ai_summary" gorm:"not null;default:false"`
	Saved       bool                        `json:"saved" db:"saved" gorm:"not null;default:false"`
	LastUpdated time.Time                   `json:"last_updated" db:"last_updated" gorm:"autoUpdateTime"`
	CreatedAt   time.Time                   `json:"created_at" db:"created_at"`
}

func (p *Project) OwnerID() uint { return p.UserID }

func (p *Project) SetOwner(userID uint) { p.UserID = userID }

func (p *Project) PrimaryKey() uint { return p.ID }

func (p *Project) SetPrimaryKey(id uint) { p.ID = id }

// BeforeSave keeps list columns as JSON arrays rather than null.
func (p *Project) BeforeSave(*gorm.DB) error {
	p.Stack = nonNilList(p.Stack)
	p.Features = nonNilList(p.Features)
	if p.Type == "" {
		p.Type = ProjectTypeManual
	}
	return nil
}
