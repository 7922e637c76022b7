package model

import (
	"time"

	"github.com/google/uuid"
)

// Comment belongs to a card and is deletable only by its author.
type Comment struct {
	ID        uuid.UUID `gorm:"type:uuid;default:uuid_generate_v4();primaryKey"`
	CardID    uuid.UUID `gorm:"type:uuid;not null;index"`
	AuthorID  uuid.UUID `gorm:"type:uuid;not null"`
	Content   string    `gorm:"not null"`
	CreatedAt time.Time `gorm:"autoCreateTime"`

	Card   Card `gorm:"foreignKey:CardID"`
	Author User `gorm:"foreignKey:AuthorID"`
}
