package models

import (
	"time"

	"gorm.io/datatypes"
)

const (
	ResumeFileTypePDF  = "pdf"
	ResumeFileTypeDOCX = "docx"
)

// Resume is an uploaded file together with what the AI extracted from it.
// Rows stay unsaved until the user confirms the import.
type Resume struct {
	ID            uint           `json:"id" db:"id" gorm:"primaryKey"`
	UserID        uint           `json:"-" db:"user_id" gorm:"not null;index"`
	User          *User          `json:"-" gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE"`
	Filename      string         `json:"filename" db:"filename" gorm:"type:text;not null"`
	FileType      string         `json:"file_type" db:"file_type" gorm:"type:text;not null"`
	StoragePath   string         `json:"-" db:"storage_path" gorm:"type:text"`
	ExtractedText string         `json:"-" db:"extracted_text" gorm:"type:text"`
	ParsedData    datatypes.JSON `json:"parsed_data" db:"parsed_data"`
	IsSaved       bool           `json:"is_saved" db:"is_saved" gorm:"not null;default:false;index"`
	CreatedAt     time.Time      `json:"created_at" db:"created_at"`
	UpdatedAt     time.Time      `json:"updated_at" db:"updated_at"`
}

func (r *Resume) OwnerID() uint { return r.UserID }

func (r *Resume) SetOwner(userID uint) { r.UserID = userID }

func (r *Resume) PrimaryKey() uint { return r.ID }

func (r *Resume) SetPrimaryKey(id uint) { r.ID = id }
