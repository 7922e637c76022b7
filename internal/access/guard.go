// Package access authorizes mutations by walking a resource's ownership
// chain down to a board and checking the caller's membership there.
package access

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"taskboard/internal/model"
)

var (
	// ErrNoAccess means the caller has no membership on the target board.
	// It is presented as "not found" so non-members cannot tell an
	// inaccessible board from a nonexistent one.
	ErrNoAccess = errors.New("no access to board")

	// ErrOwnerRequired means the caller is a member but the operation is
	// gated on the owner role. Presented as "forbidden".
	ErrOwnerRequired = errors.New("owner role required")
)

type Guard struct {
	db *gorm.DB
}

func NewGuard(db *gorm.DB) *Guard {
	return &Guard{db: db}
}

// BoardRole returns the caller's role on a board, or "" without error when
// there is no membership.
func (g *Guard) BoardRole(ctx context.Context, boardID, userID uuid.UUID) (model.Role, error) {
	var member model.BoardMember
	err := g.db.WithContext(ctx).
		Where("board_id = ? AND user_id = ?", boardID, userID).
		First(&member).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return "", nil
	}
	if err != nil {
		return "", err
	}
	return member.Role, nil
}

// RequireMember allows any membership role.
func (g *Guard) RequireMember(ctx context.Context, boardID, userID uuid.UUID) error {
	role, err := g.BoardRole(ctx, boardID, userID)
	if err != nil {
		return err
	}
	if role == "" {
		return ErrNoAccess
	}
	return nil
}

// RequireOwner allows only the owner role. A caller with no membership at
// all gets ErrNoAccess rather than ErrOwnerRequired.
func (g *Guard) RequireOwner(ctx context.Context, boardID, userID uuid.UUID) error {
	role, err := g.BoardRole(ctx, boardID, userID)
	if err != nil {
		return err
	}
	if role == "" {
		return ErrNoAccess
	}
	if role != model.RoleOwner {
		return ErrOwnerRequired
	}
	return nil
}

// BoardIDForColumn resolves a column to its board, failing closed when the
// column is gone.
func (g *Guard) BoardIDForColumn(ctx context.Context, columnID uuid.UUID) (uuid.UUID, error) {
	var column model.Column
	err := g.db.WithContext(ctx).Where("id = ?", columnID).First(&column).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return uuid.Nil, ErrNoAccess
	}
	if err != nil {
		return uuid.Nil, err
	}
	return column.BoardID, nil
}

// BoardIDForCard resolves card -> column -> board in a single join. A card
// whose column vanished mid-request resolves to nothing and fails closed.
func (g *Guard) BoardIDForCard(ctx context.Context, cardID uuid.UUID) (uuid.UUID, error) {
	var row struct {
		BoardID uuid.UUID
	}
	err := g.db.WithContext(ctx).Model(&model.Card{}).
		Select("columns.board_id").
		Joins("JOIN columns ON columns.id = cards.column_id").
		Where("cards.id = ?", cardID).
		Take(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return uuid.Nil, ErrNoAccess
	}
	if err != nil {
		return uuid.Nil, err
	}
	return row.BoardID, nil
}

// BoardIDForComment resolves comment -> card -> column -> board.
func (g *Guard) BoardIDForComment(ctx context.Context, commentID uuid.UUID) (uuid.UUID, error) {
	var row struct {
		BoardID uuid.UUID
	}
	err := g.db.WithContext(ctx).Model(&model.Comment{}).
		Select("columns.board_id").
		Joins("JOIN cards ON cards.id = comments.card_id").
		Joins("JOIN columns ON columns.id = cards.column_id").
		Where("comments.id = ?", commentID).
		Take(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return uuid.Nil, ErrNoAccess
	}
	if err != nil {
		return uuid.Nil, err
	}
	return row.BoardID, nil
}

// BoardIDForAttachment resolves attachment -> card -> column -> board.
func (g *Guard) BoardIDForAttachment(ctx context.Context, attachmentID uuid.UUID) (uuid.UUID, error) {
	var row struct {
		BoardID uuid.UUID
	}
	err := g.db.WithContext(ctx).Model(&model.Attachment{}).
		Select("columns.board_id").
		Joins("JOIN cards ON cards.id = attachments.card_id").
		Joins("JOIN columns ON columns.id = cards.column_id").
		Where("attachments.id = ?", attachmentID).
		Take(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return uuid.Nil, ErrNoAccess
	}
	if err != nil {
		return uuid.Nil, err
	}
	return row.BoardID, nil
}
