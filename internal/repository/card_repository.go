package repository

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"taskboard/internal/model"
)

type CardRepository struct {
	db *gorm.DB
}

func NewCardRepository(db *gorm.DB) *CardRepository {
	return &CardRepository{db: db}
}

// Create inserts a new card at the end of its column. The next position is
// max+1 rather than the sibling count, so a momentarily non-dense column
// still gets a strictly increasing, collision-free position.
func (r *CardRepository) Create(ctx context.Context, card *model.Card) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var next int
		if err := tx.Model(&model.Card{}).
			Select("COALESCE(MAX(position) + 1, 0)").
			Where("column_id = ?", card.ColumnID).
			Scan(&next).Error; err != nil {
			return err
		}
		card.Position = next
		return tx.Create(card).Error
	})
}

// GetByID retrieves a card by its ID
func (r *CardRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.Card, error) {
	var card model.Card
	result := r.db.WithContext(ctx).First(&card, "id = ?", id)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, ErrCardNotFound
		}
		return nil, result.Error
	}
	return &card, nil
}

// GetByColumnID retrieves all cards in a column, ordered by position
func (r *CardRepository) GetByColumnID(ctx context.Context, columnID uuid.UUID) ([]model.Card, error) {
	var cards []model.Card
	result := r.db.WithContext(ctx).Where("column_id = ?", columnID).Order("position").Find(&cards)
	if result.Error != nil {
		return nil, result.Error
	}
	return cards, nil
}

// GetByBoardID retrieves all cards on a board, ordered by position
func (r *CardRepository) GetByBoardID(ctx context.Context, boardID uuid.UUID) ([]model.Card, error) {
	var cards []model.Card
	result := r.db.WithContext(ctx).
		Joins("JOIN columns ON columns.id = cards.column_id").
		Where("columns.board_id = ?", boardID).
		Order("cards.position").
		Find(&cards)
	if result.Error != nil {
		return nil, result.Error
	}
	return cards, nil
}

// Update updates an existing card
func (r *CardRepository) Update(ctx context.Context, card *model.Card) error {
	result := r.db.WithContext(ctx).Save(card)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrCardNotFound
	}
	return nil
}

// Delete removes a card and closes the position gap it leaves behind, so
// the column's positions stay dense.
func (r *CardRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var card model.Card
		if err := tx.First(&card, "id = ?", id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrCardNotFound
			}
			return err
		}

		if err := tx.Delete(&model.Card{}, "id = ?", id).Error; err != nil {
			return err
		}

		return tx.Model(&model.Card{}).
			Where("column_id = ? AND position > ?", card.ColumnID, card.Position).
			Update("position", gorm.Expr("position - 1")).Error
	})
}

// Move updates the position and/or column of a card, shifting siblings so
// both the source and destination columns keep dense 0..n-1 positions.
// An index outside the destination's valid range is rejected, never clamped.
func (r *CardRepository) Move(ctx context.Context, cardID, columnID uuid.UUID, position int) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var card model.Card
		if err := tx.First(&card, "id = ?", cardID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrCardNotFound
			}
			return err
		}

		oldColumnID := card.ColumnID
		oldPosition := card.Position

		var count int64
		if err := tx.Model(&model.Card{}).Where("column_id = ?", columnID).Count(&count).Error; err != nil {
			return err
		}

		if oldColumnID == columnID {
			// Same column: the card itself is part of the count, so the
			// valid target range is [0, count-1].
			if position < 0 || position >= int(count) {
				return ErrPositionOutOfRange
			}
			if position == oldPosition {
				return nil
			}

			if oldPosition < position {
				// Moving later: siblings in (old, new] shift left.
				if err := tx.Model(&model.Card{}).
					Where("column_id = ? AND position > ? AND position <= ?", columnID, oldPosition, position).
					Update("position", gorm.Expr("position - 1")).Error; err != nil {
					return err
				}
			} else {
				// Moving earlier: siblings in [new, old) shift right.
				if err := tx.Model(&model.Card{}).
					Where("column_id = ? AND position >= ? AND position < ?", columnID, position, oldPosition).
					Update("position", gorm.Expr("position + 1")).Error; err != nil {
					return err
				}
			}

			card.Position = position
		} else {
			// Cross column: count is the destination's size, so position
			// may equal count to mean append.
			if position < 0 || position > int(count) {
				return ErrPositionOutOfRange
			}

			// Close the gap in the source column.
			if err := tx.Model(&model.Card{}).
				Where("column_id = ? AND position > ?", oldColumnID, oldPosition).
				Update("position", gorm.Expr("position - 1")).Error; err != nil {
				return err
			}

			// Open a slot in the destination column.
			if err := tx.Model(&model.Card{}).
				Where("column_id = ? AND position >= ?", columnID, position).
				Update("position", gorm.Expr("position + 1")).Error; err != nil {
				return err
			}

			card.ColumnID = columnID
			card.Position = position
		}

		return tx.Save(&card).Error
	})
}

// AssignUser assigns a user to a card
func (r *CardRepository) AssignUser(ctx context.Context, cardID, userID uuid.UUID) error {
	result := r.db.WithContext(ctx).Model(&model.Card{}).
		Where("id = ?", cardID).
		Update("assignee_id", userID)

	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrCardNotFound
	}
	return nil
}

// UnassignUser removes user assignment from a card
func (r *CardRepository) UnassignUser(ctx context.Context, cardID uuid.UUID) error {
	result := r.db.WithContext(ctx).Model(&model.Card{}).
		Where("id = ?", cardID).
		Update("assignee_id", nil)

	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrCardNotFound
	}
	return nil
}
