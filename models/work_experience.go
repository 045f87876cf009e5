package models

import (
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type WorkExperience struct {
	ID           uint                        `json:"id" db:"id" gorm:"primaryKey"`
	UserID       uint                        `json:"-" db:"user_id" gorm:"not null;index"`
	User         *User                       `json:"-" gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE"`
	Title        string                      `json:"title" db:"title" gorm:"type:text;not null" validate:"required"`
	Organization string                      `json:"organization" db:"organization" gorm:"type:text;not null" validate:"required"`
	Duration     string                      `json:"duration" db:"duration" gorm:"type:text"`
	Location     string                      `json:"location" db:"location" gorm:"type:text"`
	Description  string                      `json:"description" db:"description" gorm:"type:text"`
	Skills       datatypes.JSONSlice[string] `json:"skills" db:"skills"`
	Status       string                      `json:"status" db:"status" gorm:"type:text"`
	CreatedAt    time.Time                   `json:"created_at" db:"created_at"`
}

func (e *WorkExperience) OwnerID() uint { return e.UserID }

func (e *WorkExperience) SetOwner(userID uint) { e.UserID = userID }

func (e *WorkExperience) PrimaryKey() uint { return e.ID }

func (e *WorkExperience) SetPrimaryKey(id uint) { e.ID = id }

func (e *WorkExperience) BeforeSave(*gorm.DB) error {
	e.Skills = nonNilList(e.Skills)
	return nil
}
