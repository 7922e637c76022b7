package model

import (
	"time"

	"github.com/google/uuid"
)

type Priority string

const (
	PriorityLow    Priority = "low"
	PriorityMedium Priority = "medium"
	PriorityHigh   Priority = "high"
	PriorityUrgent Priority = "urgent"
)

type Card struct {
	ID          uuid.UUID  `gorm:"type:uuid;default:uuid_generate_v4();primaryKey"`
	ColumnID    uuid.UUID  `gorm:"type:uuid;not null;index"`
	Title       string     `gorm:"not null"`
	Description string
	Priority    Priority   `gorm:"not null;default:'medium';check:priority IN ('low', 'medium', 'high', 'urgent')"`
	DueDate     *time.Time
	Tags        []string   `gorm:"serializer:json"`
	AssigneeID  *uuid.UUID `gorm:"type:uuid"`
	CreatedBy   uuid.UUID  `gorm:"type:uuid;not null"`
	Position    int        `gorm:"not null"`
	CreatedAt   time.Time  `gorm:"autoCreateTime"`

	Column   Column `gorm:"foreignKey:ColumnID"`
	Assignee User   `gorm:"foreignKey:AssigneeID"`
	Creator  User   `gorm:"foreignKey:CreatedBy"`
}
