package models

import "time"

type Certificate struct {
	ID           uint      `json:"id" db:"id" gorm:"primaryKey"`
	UserID       uint      `json:"-" db:"user_id" gorm:"not null;index"`
	User         *User     `json:"-" gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE"`
	Title        string    `json:"title" db:"title" gorm:"type:text;not null" validate:"required"`
	Issuer       string    `json:"issuer" db:"issuer" gorm:"type:text"`
	Year         string    `json:"year" db:"year" gorm:"type:text"`
	CredentialID string    `json:"credential_id" db:"credential_id" gorm:"type:text"`
	Description  string    `json:"description" db:"description" gorm:"type:text"`
	CreatedAt    time.Time `json:"created_at" db:"created_at"`
}

func (c *Certificate) OwnerID() uint { return c.UserID }

func (c *Certificate) SetOwner(userID uint) { c.UserID = userID }

func (c *Certificate) PrimaryKey() uint { return c.ID }

func (c *Certificate) SetPrimaryKey(id uint) { c.ID = id }
