package models

import "time"

// Profile is the one-per-user headline block of a portfolio.
type Profile struct {
	ID        uint      `json:"id" db:"id" gorm:"primaryKey"`
	UserID    uint      `json:"-" db:"user_id" gorm:"not null;uniqueIndex"`
	User      *User     `json:"-" gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE"`
	Name      string    `json:"name" db:"name" gorm:"type:text;not null"`
	Email     string    `json:"email" db:"email" gorm:"type:text;not null"`
	Title     string    `json:"title" db:"title" gorm:"type:text"`
	Location  string    `json:"location" db:"location" gorm:"type:text"`
	Bio       string    `json:"bio" db:"bio" gorm:"type:text"`
	Github    string    `json:"github" db:"github" gorm:"type:text"`
	Linkedin  string    `json:"linkedin" db:"linkedin" gorm:"type:text"`
	Website   string    `json:"website" db:"website" gorm:"type:text"`
	Avatar    string    `json:"avatar" db:"avatar" gorm:"type:text"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
}
