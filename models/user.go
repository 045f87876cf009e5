package models

import "time"

// User owns every portfolio entity and carries the publication settings.
type User struct {
	ID               uint      `json:"id" db:"id" gorm:"primaryKey"`
	Username         string    `json:"username" db:"username" gorm:"type:text;not null;uniqueIndex"`
	Email            string    `json:"email" db:"email" gorm:"type:text;not null;uniqueIndex"`
	FullName         string    `json:"full_name" db:"full_name" gorm:"type:text"`
	IsPublic         bool      `json:"is_public" db:"is_public" gorm:"not null;default:false"`
	ThemePreference  string    `json:"theme_preference" db:"theme_preference" gorm:"type:text;not null;default:'classic'"`
	AnalyticsEnabled bool      `json:"analytics_enabled" db:"analytics_enabled" gorm:"not null;default:false"`
	CreatedAt        time.Time `json:"created_at" db:"created_at"`
	UpdatedAt        time.Time `json:"updated_at" db:"updated_at"`
}

// DisplayName is the name used when no profile has been filled in yet.
func (u User) DisplayName() string {
	if u.FullName != "" {
		return u.FullName
	}
	return u.Username
}

// Theme returns the stored theme or the default one.
func (u User) Theme() string {
	if u.ThemePreference == "" {
		return ThemeClassic
	}
	return u.ThemePreference
}
