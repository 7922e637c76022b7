package repository_test

import (
	"context"
	"testing"

	"taskboard/internal/model"
	"taskboard/internal/repository"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func cardRows(id, columnID uuid.UUID, position int) *sqlmock.Rows {
	return sqlmock.NewRows([]string{
		"id", "column_id", "title", "description", "priority",
		"due_date", "tags", "assignee_id", "created_by", "position",
	}).AddRow(
		id.String(), columnID.String(), "Card", "", "medium",
		nil, nil, nil, uuid.New().String(), position,
	)
}

// Column has cards X(0), Y(1), Z(2); moving Y to index 0 must shift X right
// and leave Z untouched, ending with Y(0), X(1), Z(2).
func TestCardRepository_Move_EarlierWithinColumn(t *testing.T) {
	// Arrange
	gormDB, mock := setupMockDB(t)
	cardRepo := repository.NewCardRepository(gormDB)

	cardY := uuid.New()
	columnID := uuid.New()

	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT \* FROM "cards" WHERE id = \$1`).
		WillReturnRows(cardRows(cardY, columnID, 1))
	mock.ExpectQuery(`SELECT count\(\*\) FROM "cards" WHERE column_id = \$1`).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(3))
	mock.ExpectExec(`UPDATE "cards" SET "position"=position \+ 1 WHERE column_id = \$1 AND position >= \$2 AND position < \$3`).
		WithArgs(columnID.String(), 0, 1).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(`UPDATE "cards" SET`).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	// Act
	err := cardRepo.Move(context.Background(), cardY, columnID, 0)

	// Assert
	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

// Column has cards X(0), Y(1), Z(2); moving X to index 2 must shift Y and Z
// left, ending with Y(0), Z(1), X(2).
func TestCardRepository_Move_LaterWithinColumn(t *testing.T) {
	// Arrange
	gormDB, mock := setupMockDB(t)
	cardRepo := repository.NewCardRepository(gormDB)

	cardX := uuid.New()
	columnID := uuid.New()

	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT \* FROM "cards" WHERE id = \$1`).
		WillReturnRows(cardRows(cardX, columnID, 0))
	mock.ExpectQuery(`SELECT count\(\*\) FROM "cards" WHERE column_id = \$1`).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(3))
	mock.ExpectExec(`UPDATE "cards" SET "position"=position \- 1 WHERE column_id = \$1 AND position > \$2 AND position <= \$3`).
		WithArgs(columnID.String(), 0, 2).
		WillReturnResult(sqlmock.NewResult(0, 2))
	mock.ExpectExec(`UPDATE "cards" SET`).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	// Act
	err := cardRepo.Move(context.Background(), cardX, columnID, 2)

	// Assert
	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

// Moving a card onto its own slot must not touch any sibling.
func TestCardRepository_Move_SameSlotIsNoOp(t *testing.T) {
	// Arrange
	gormDB, mock := setupMockDB(t)
	cardRepo := repository.NewCardRepository(gormDB)

	cardID := uuid.New()
	columnID := uuid.New()

	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT \* FROM "cards" WHERE id = \$1`).
		WillReturnRows(cardRows(cardID, columnID, 1))
	mock.ExpectQuery(`SELECT count\(\*\) FROM "cards" WHERE column_id = \$1`).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(3))
	mock.ExpectCommit()

	// Act
	err := cardRepo.Move(context.Background(), cardID, columnID, 1)

	// Assert
	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

// Column A has X(0), Y(1); column B has P(0). Moving X to B at index 0 must
// close A's gap and open B's slot, ending with A=[Y(0)] and B=[X(0), P(1)].
func TestCardRepository_Move_AcrossColumns(t *testing.T) {
	// Arrange
	gormDB, mock := setupMockDB(t)
	cardRepo := repository.NewCardRepository(gormDB)

	cardX := uuid.New()
	columnA := uuid.New()
	columnB := uuid.New()

	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT \* FROM "cards" WHERE id = \$1`).
		WillReturnRows(cardRows(cardX, columnA, 0))
	mock.ExpectQuery(`SELECT count\(\*\) FROM "cards" WHERE column_id = \$1`).
		WithArgs(columnB.String()).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))
	mock.ExpectExec(`UPDATE "cards" SET "position"=position \- 1 WHERE column_id = \$1 AND position > \$2`).
		WithArgs(columnA.String(), 0).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(`UPDATE "cards" SET "position"=position \+ 1 WHERE column_id = \$1 AND position >= \$2`).
		WithArgs(columnB.String(), 0).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(`UPDATE "cards" SET`).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	// Act
	err := cardRepo.Move(context.Background(), cardX, columnB, 0)

	// Assert
	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

// A destination index past the end of the column is rejected outright.
func TestCardRepository_Move_PositionOutOfRange(t *testing.T) {
	// Arrange
	gormDB, mock := setupMockDB(t)
	cardRepo := repository.NewCardRepository(gormDB)

	cardID := uuid.New()
	columnA := uuid.New()
	columnB := uuid.New()

	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT \* FROM "cards" WHERE id = \$1`).
		WillReturnRows(cardRows(cardID, columnA, 0))
	mock.ExpectQuery(`SELECT count\(\*\) FROM "cards" WHERE column_id = \$1`).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))
	mock.ExpectRollback()

	// Act
	err := cardRepo.Move(context.Background(), cardID, columnB, 2)

	// Assert
	assert.ErrorIs(t, err, repository.ErrPositionOutOfRange)
	assert.NoError(t, mock.ExpectationsWereMet())
}

// Deleting a card must close the gap so the remaining positions stay dense.
func TestCardRepository_Delete_ClosesGap(t *testing.T) {
	// Arrange
	gormDB, mock := setupMockDB(t)
	cardRepo := repository.NewCardRepository(gormDB)

	cardID := uuid.New()
	columnID := uuid.New()

	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT \* FROM "cards" WHERE id = \$1`).
		WillReturnRows(cardRows(cardID, columnID, 1))
	mock.ExpectExec(`DELETE FROM "cards" WHERE id = \$1`).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(`UPDATE "cards" SET "position"=position \- 1 WHERE column_id = \$1 AND position > \$2`).
		WithArgs(columnID.String(), 1).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	// Act
	err := cardRepo.Delete(context.Background(), cardID)

	// Assert
	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

// A new card in an empty column lands at position 0; with a max of 2 it
// lands at 3, regardless of how many siblings exist below.
func TestCardRepository_Create_AppendsAtMaxPlusOne(t *testing.T) {
	// Arrange
	gormDB, mock := setupMockDB(t)
	cardRepo := repository.NewCardRepository(gormDB)

	columnID := uuid.New()

	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT COALESCE\(MAX\(position\) \+ 1, 0\) FROM "cards" WHERE column_id = \$1`).
		WillReturnRows(sqlmock.NewRows([]string{"coalesce"}).AddRow(3))
	mock.ExpectQuery(`INSERT INTO "cards"`).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(uuid.New().String()))
	mock.ExpectCommit()

	newCard := &model.Card{
		ColumnID:  columnID,
		Title:     "New card",
		Priority:  model.PriorityMedium,
		CreatedBy: uuid.New(),
	}

	// Act
	err := cardRepo.Create(context.Background(), newCard)

	// Assert
	assert.NoError(t, err)
	assert.Equal(t, 3, newCard.Position)
	assert.NoError(t, mock.ExpectationsWereMet())
}
