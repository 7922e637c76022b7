package repository

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"taskboard/internal/model"
)

type InvitationRepository struct {
	db *gorm.DB
}

func NewInvitationRepository(db *gorm.DB) *InvitationRepository {
	return &InvitationRepository{db: db}
}

func (r *InvitationRepository) Create(ctx context.Context, invitation *model.Invitation) error {
	return r.db.WithContext(ctx).Create(invitation).Error
}

func (r *InvitationRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.Invitation, error) {
	var invitation model.Invitation
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&invitation).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInvitationNotFound
		}
		return nil, err
	}
	return &invitation, nil
}

// GetPendingForEmail returns the invitee's open invitations with board and
// inviter details for display.
func (r *InvitationRepository) GetPendingForEmail(ctx context.Context, email string) ([]model.Invitation, error) {
	var invitations []model.Invitation
	err := r.db.WithContext(ctx).
		Preload("Board").
		Preload("Inviter").
		Where("invitee_email = ? AND status = ?", email, model.InvitationPending).
		Order("created_at DESC").
		Find(&invitations).Error
	return invitations, err
}

// HasPending reports whether a pending invitation already exists for the
// (board, email) pair.
func (r *InvitationRepository) HasPending(ctx context.Context, boardID uuid.UUID, email string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&model.Invitation{}).
		Where("board_id = ? AND invitee_email = ? AND status = ?", boardID, email, model.InvitationPending).
		Count(&count).Error
	return count > 0, err
}

// Accept marks the invitation accepted and creates the membership in one
// transaction. Both transitions are terminal.
func (r *InvitationRepository) Accept(ctx context.Context, invitation *model.Invitation, userID uuid.UUID) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&model.Invitation{}).
			Where("id = ? AND status = ?", invitation.ID, model.InvitationPending).
			Update("status", model.InvitationAccepted).Error; err != nil {
			return err
		}

		member := model.BoardMember{
			BoardID: invitation.BoardID,
			UserID:  userID,
			Role:    model.RoleMember,
		}
		return tx.Create(&member).Error
	})
}

// Reject marks the invitation rejected.
func (r *InvitationRepository) Reject(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Model(&model.Invitation{}).
		Where("id = ? AND status = ?", id, model.InvitationPending).
		Update("status", model.InvitationRejected)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrInvitationNotFound
	}
	return nil
}

// Delete cancels an invitation outright (owner action).
func (r *InvitationRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Delete(&model.Invitation{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrInvitationNotFound
	}
	return nil
}
