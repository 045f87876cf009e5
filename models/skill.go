package models

import "time"

type Skill struct {
	ID         uint      `json:"id" db:"id" gorm:"primaryKey"`
	UserID     uint      `json:"-" db:"user_id" gorm:"not null;index"`
	User       *User     `json:"-" gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE"`
	Name       string    `json:"name" db:"name" gorm:"type:text;not null" validate:"required"`
	Level      string    `json:"level" db:"level" gorm:"type:text;not null" validate:"required,oneof=Beginner Intermediate Advanced"`
	Category   string    `json:"category" db:"category" gorm:"type:text;not null" validate:"required,oneof=Frontend Backend Database DevOps Cloud AI/ML Mobile Other"`
	Experience string    `json:"experience" db:"experience" gorm:"type:text"`
	CreatedAt  time.Time `json:"created_at" db:"created_at"`
}

func (s *Skill) OwnerID() uint { return s.UserID }

func (s *Skill) SetOwner(userID uint) { s.UserID = userID }

func (s *Skill) PrimaryKey() uint { return s.ID }

func (s *Skill) SetPrimaryKey(id uint) { s.ID = id }

// Canonicalize rewrites level and category to their canonical spelling and
// fills in the defaults for empty values. Unknown values are kept verbatim
// so that validation can reject them.
func (s *Skill) Canonicalize() {
	if level, ok := CanonicalSkillLevel(s.Level); ok {
		s.Level = level
	}
	if category, ok := CanonicalSkillCategory(s.Category); ok {
		s.Category = category
	}
}
