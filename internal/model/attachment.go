package model

import (
	"time"

	"github.com/google/uuid"
)

type Attachment struct {
	ID           uuid.UUID `gorm:"type:uuid;default:uuid_generate_v4();primaryKey"`
	CardID       uuid.UUID `gorm:"type:uuid;not null;index"`
	UploaderID   uuid.UUID `gorm:"type:uuid;not null"`
	StoredName   string    `gorm:"not null"`
	OriginalName string    `gorm:"not null"`
	Size         int64     `gorm:"not null"`
	MimeType     string
	CreatedAt    time.Time `gorm:"autoCreateTime"`

	Card     Card `gorm:"foreignKey:CardID"`
	Uploader User `gorm:"foreignKey:UploaderID"`
}
