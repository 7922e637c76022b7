package repository

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"taskboard/internal/model"
)

type ColumnRepository struct {
	db *gorm.DB
}

func NewColumnRepository(db *gorm.DB) *ColumnRepository {
	return &ColumnRepository{db: db}
}

// Create inserts a new column at the end of its board.
func (r *ColumnRepository) Create(ctx context.Context, column *model.Column) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var next int
		if err := tx.Model(&model.Column{}).
			Select("COALESCE(MAX(position) + 1, 0)").
			Where("board_id = ?", column.BoardID).
			Scan(&next).Error; err != nil {
			return err
		}
		column.Position = next
		return tx.Create(column).Error
	})
}

func (r *ColumnRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.Column, error) {
	var column model.Column
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&column).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrColumnNotFound
		}
		return nil, err
	}
	return &column, nil
}

func (r *ColumnRepository) GetByBoardID(ctx context.Context, boardID uuid.UUID) ([]model.Column, error) {
	var columns []model.Column
	err := r.db.WithContext(ctx).Where("board_id = ?", boardID).Order("position").Find(&columns).Error
	return columns, err
}

func (r *ColumnRepository) Update(ctx context.Context, column *model.Column) error {
	return r.db.WithContext(ctx).Save(column).Error
}

// Delete removes a column and closes the position gap on its board. Cards
// in the column go with it via the FK cascade.
func (r *ColumnRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var column model.Column
		if err := tx.First(&column, "id = ?", id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrColumnNotFound
			}
			return err
		}

		if err := tx.Delete(&model.Column{}, "id = ?", id).Error; err != nil {
			return err
		}

		return tx.Model(&model.Column{}).
			Where("board_id = ? AND position > ?", column.BoardID, column.Position).
			Update("position", gorm.Expr("position - 1")).Error
	})
}

// Move reorders a column within its board, shifting the columns between the
// old and new slot so positions stay dense. Out-of-range targets are
// rejected, never clamped.
func (r *ColumnRepository) Move(ctx context.Context, columnID uuid.UUID, position int) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var column model.Column
		if err := tx.First(&column, "id = ?", columnID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrColumnNotFound
			}
			return err
		}

		var count int64
		if err := tx.Model(&model.Column{}).Where("board_id = ?", column.BoardID).Count(&count).Error; err != nil {
			return err
		}

		if position < 0 || position >= int(count) {
			return ErrPositionOutOfRange
		}
		if position == column.Position {
			return nil
		}

		if column.Position < position {
			if err := tx.Model(&model.Column{}).
				Where("board_id = ? AND position > ? AND position <= ?", column.BoardID, column.Position, position).
				Update("position", gorm.Expr("position - 1")).Error; err != nil {
				return err
			}
		} else {
			if err := tx.Model(&model.Column{}).
				Where("board_id = ? AND position >= ? AND position < ?", column.BoardID, position, column.Position).
				Update("position", gorm.Expr("position + 1")).Error; err != nil {
				return err
			}
		}

		column.Position = position
		return tx.Save(&column).Error
	})
}
