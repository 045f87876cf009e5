package models

import "time"

// Award covers honours, hackathon wins and similar achievements.
type Award struct {
	ID           uint      `json:"id" db:"id" gorm:"primaryKey"`
	UserID       uint      `json:"-" db:"user_id" gorm:"not null;index"`
	User         *User     `json:"-" gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE"`
	Title        string    `json:"title" db:"title" gorm:"type:text;not null" validate:"required"`
	Organization string    `json:"organization" db:"organization" gorm:"type:text"`
	Year         string    `json:"year" db:"year" gorm:"type:text"`
	Description  string    `json:"description" db:"description" gorm:"type:text"`
	Category     string    `json:"category" db:"category" gorm:"type:text"`
	CreatedAt    time.Time `json:"created_at" db:"created_at"`
}

func (a *Award) OwnerID() uint { return a.UserID }

func (a *Award) SetOwner(userID uint) { a.UserID = userID }

func (a *Award) PrimaryKey() uint { return a.ID }

func (a *Award) SetPrimaryKey(id uint) { a.ID = id }
