package repository

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"taskboard/internal/model"
)

type MemberRepository struct {
	db *gorm.DB
}

func NewMemberRepository(db *gorm.DB) *MemberRepository {
	return &MemberRepository{db: db}
}

// GetByBoardID returns a board's memberships with their users loaded.
func (r *MemberRepository) GetByBoardID(ctx context.Context, boardID uuid.UUID) ([]model.BoardMember, error) {
	var members []model.BoardMember
	err := r.db.WithContext(ctx).
		Preload("User").
		Where("board_id = ?", boardID).
		Order("created_at").
		Find(&members).Error
	return members, err
}

// Remove deletes a user's membership on a board.
func (r *MemberRepository) Remove(ctx context.Context, boardID, userID uuid.UUID) error {
	result := r.db.WithContext(ctx).
		Where("board_id = ? AND user_id = ?", boardID, userID).
		Delete(&model.BoardMember{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrMemberNotFound
	}
	return nil
}

// IsMember reports whether the user has any membership on the board.
func (r *MemberRepository) IsMember(ctx context.Context, boardID, userID uuid.UUID) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&model.BoardMember{}).
		Where("board_id = ? AND user_id = ?", boardID, userID).
		Count(&count).Error
	return count > 0, err
}
