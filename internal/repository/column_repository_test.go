package repository_test

import (
	"context"
	"testing"

	"taskboard/internal/repository"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func columnRows(id, boardID uuid.UUID, position int) *sqlmock.Rows {
	return sqlmock.NewRows([]string{"id", "board_id", "name", "position"}).
		AddRow(id.String(), boardID.String(), "Column", position)
}

// Board has To Do(0), In Progress(1), Done(2); moving Done to index 0 must
// shift the other two right, ending with Done(0), To Do(1), In Progress(2).
func TestColumnRepository_Move_ToFront(t *testing.T) {
	// Arrange
	gormDB, mock := setupMockDB(t)
	columnRepo := repository.NewColumnRepository(gormDB)

	doneColumn := uuid.New()
	boardID := uuid.New()

	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT \* FROM "columns" WHERE id = \$1`).
		WillReturnRows(columnRows(doneColumn, boardID, 2))
	mock.ExpectQuery(`SELECT count\(\*\) FROM "columns" WHERE board_id = \$1`).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(3))
	mock.ExpectExec(`UPDATE "columns" SET "position"=position \+ 1 WHERE board_id = \$1 AND position >= \$2 AND position < \$3`).
		WithArgs(boardID.String(), 0, 2).
		WillReturnResult(sqlmock.NewResult(0, 2))
	mock.ExpectExec(`UPDATE "columns" SET`).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	// Act
	err := columnRepo.Move(context.Background(), doneColumn, 0)

	// Assert
	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

// Index equal to the column count is past the last valid slot.
func TestColumnRepository_Move_PositionOutOfRange(t *testing.T) {
	// Arrange
	gormDB, mock := setupMockDB(t)
	columnRepo := repository.NewColumnRepository(gormDB)

	columnID := uuid.New()
	boardID := uuid.New()

	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT \* FROM "columns" WHERE id = \$1`).
		WillReturnRows(columnRows(columnID, boardID, 0))
	mock.ExpectQuery(`SELECT count\(\*\) FROM "columns" WHERE board_id = \$1`).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(3))
	mock.ExpectRollback()

	// Act
	err := columnRepo.Move(context.Background(), columnID, 3)

	// Assert
	assert.ErrorIs(t, err, repository.ErrPositionOutOfRange)
	assert.NoError(t, mock.ExpectationsWereMet())
}

// Deleting a column closes the position gap on its board.
func TestColumnRepository_Delete_ClosesGap(t *testing.T) {
	// Arrange
	gormDB, mock := setupMockDB(t)
	columnRepo := repository.NewColumnRepository(gormDB)

	columnID := uuid.New()
	boardID := uuid.New()

	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT \* FROM "columns" WHERE id = \$1`).
		WillReturnRows(columnRows(columnID, boardID, 0))
	mock.ExpectExec(`DELETE FROM "columns" WHERE id = \$1`).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(`UPDATE "columns" SET "position"=position \- 1 WHERE board_id = \$1 AND position > \$2`).
		WithArgs(boardID.String(), 0).
		WillReturnResult(sqlmock.NewResult(0, 2))
	mock.ExpectCommit()

	// Act
	err := columnRepo.Delete(context.Background(), columnID)

	// Assert
	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestColumnRepository_Move_NotFound(t *testing.T) {
	// Arrange
	gormDB, mock := setupMockDB(t)
	columnRepo := repository.NewColumnRepository(gormDB)

	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT \* FROM "columns" WHERE id = \$1`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "board_id", "name", "position"}))
	mock.ExpectRollback()

	// Act
	err := columnRepo.Move(context.Background(), uuid.New(), 0)

	// Assert
	assert.ErrorIs(t, err, repository.ErrColumnNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}
