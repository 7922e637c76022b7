package model

import (
	"time"

	"github.com/google/uuid"
)

type InvitationStatus string

const (
	InvitationPending  InvitationStatus = "pending"
	InvitationAccepted InvitationStatus = "accepted"
	InvitationRejected InvitationStatus = "rejected"
)

// Invitation is a pending offer of board membership, keyed by invitee email.
// Accepted and rejected are terminal states.
type Invitation struct {
	ID           uuid.UUID        `gorm:"type:uuid;default:uuid_generate_v4();primaryKey"`
	BoardID      uuid.UUID        `gorm:"type:uuid;not null;index"`
	InviterID    uuid.UUID        `gorm:"type:uuid;not null"`
	InviteeEmail string           `gorm:"not null;index"`
	Status       InvitationStatus `gorm:"not null;default:'pending';check:status IN ('pending', 'accepted', 'rejected')"`
	CreatedAt    time.Time        `gorm:"autoCreateTime"`

	Board   Board `gorm:"foreignKey:BoardID"`
	Inviter User  `gorm:"foreignKey:InviterID"`
}
