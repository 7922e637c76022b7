package model

import (
	"time"

	"github.com/google/uuid"
)

type Role string

// Board roles. Exactly one owner membership exists per board (the creator's).
const (
	RoleOwner  Role = "owner"
	RoleMember Role = "member"
)

// BoardMember grants a user access to a board. Unique per (board, user).
type BoardMember struct {
	ID        uuid.UUID `gorm:"type:uuid;default:uuid_generate_v4();primaryKey"`
	BoardID   uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_board_user"`
	UserID    uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_board_user"`
	Role      Role      `gorm:"not null;check:role IN ('owner', 'member')"`
	CreatedAt time.Time `gorm:"autoCreateTime"`

	Board Board `gorm:"foreignKey:BoardID"`
	User  User  `gorm:"foreignKey:UserID"`
}
