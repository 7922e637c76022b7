package handler_test

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"taskboard/internal/access"
	"taskboard/internal/handler"
	"taskboard/internal/middleware"
	"taskboard/internal/repository"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func setupMockDB(t *testing.T) (*gorm.DB, sqlmock.Sqlmock) {
	t.Helper()

	sqlDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { sqlDB.Close() })

	db, err := gorm.Open(postgres.New(postgres.Config{
		Conn:                 sqlDB,
		PreferSimpleProtocol: true,
	}), &gorm.Config{
		Logger:                 logger.Default.LogMode(logger.Silent),
		SkipDefaultTransaction: true,
	})
	require.NoError(t, err)

	return db, mock
}

// setupBoardRouter wires the real guard and repositories over a mocked
// database, with the caller's identity injected the way the auth
// middleware would.
func setupBoardRouter(db *gorm.DB, userID uuid.UUID) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.Default()

	guard := access.NewGuard(db)
	boardHandler := handler.NewBoardHandler(
		repository.NewBoardRepository(db),
		repository.NewColumnRepository(db),
		repository.NewCardRepository(db),
		guard,
	)

	r.Use(func(c *gin.Context) {
		c.Set(middleware.UserIDKey, userID)
		c.Next()
	})
	r.GET("/boards/:id", boardHandler.GetByID)
	r.DELETE("/boards/:id", boardHandler.Delete)

	return r
}

func expectMembership(mock sqlmock.Sqlmock, boardID, userID uuid.UUID, rows *sqlmock.Rows) {
	mock.ExpectQuery(`SELECT \* FROM "board_members" WHERE board_id = \$1 AND user_id = \$2 ORDER BY "board_members"\."id" LIMIT \$3`).
		WithArgs(boardID.String(), userID.String(), 1).
		WillReturnRows(rows)
}

func membershipRow(id, boardID, userID uuid.UUID, role string) *sqlmock.Rows {
	return sqlmock.NewRows([]string{"id", "board_id", "user_id", "role", "created_at"}).
		AddRow(id.String(), boardID.String(), userID.String(), role, time.Now())
}

// A caller with no membership must get the same 404 as a nonexistent
// board, and nothing about the board may leak into the response.
func TestBoardGetByID_NonMemberHiddenAsNotFound(t *testing.T) {
	// Arrange
	db, mock := setupMockDB(t)
	userID := uuid.New()
	boardID := uuid.New()
	router := setupBoardRouter(db, userID)

	expectMembership(mock, boardID, userID, sqlmock.NewRows([]string{"id", "board_id", "user_id", "role", "created_at"}))

	req, _ := http.NewRequest("GET", "/boards/"+boardID.String(), nil)

	// Act
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	// Assert
	assert.Equal(t, http.StatusNotFound, resp.Code)
	assert.Contains(t, resp.Body.String(), "Resource not found")
	assert.NotContains(t, resp.Body.String(), "board_id")
	assert.NotContains(t, resp.Body.String(), "columns")
	assert.NoError(t, mock.ExpectationsWereMet())
}

// A plain member may read the board but not delete it.
func TestBoardDelete_MemberForbidden(t *testing.T) {
	// Arrange
	db, mock := setupMockDB(t)
	userID := uuid.New()
	boardID := uuid.New()
	router := setupBoardRouter(db, userID)

	expectMembership(mock, boardID, userID, membershipRow(uuid.New(), boardID, userID, "member"))

	req, _ := http.NewRequest("DELETE", "/boards/"+boardID.String(), nil)

	// Act
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	// Assert
	assert.Equal(t, http.StatusForbidden, resp.Code)
	assert.Contains(t, resp.Body.String(), "Only the board owner")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestBoardDelete_OwnerSucceeds(t *testing.T) {
	// Arrange
	db, mock := setupMockDB(t)
	userID := uuid.New()
	boardID := uuid.New()
	router := setupBoardRouter(db, userID)

	expectMembership(mock, boardID, userID, membershipRow(uuid.New(), boardID, userID, "owner"))
	mock.ExpectExec(`DELETE FROM "boards" WHERE id = \$1`).
		WithArgs(boardID.String()).
		WillReturnResult(sqlmock.NewResult(0, 1))

	req, _ := http.NewRequest("DELETE", "/boards/"+boardID.String(), nil)

	// Act
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	// Assert
	assert.Equal(t, http.StatusOK, resp.Code)
	assert.Contains(t, resp.Body.String(), "Board deleted successfully")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestBoardGetByID_InvalidID(t *testing.T) {
	// Arrange
	db, _ := setupMockDB(t)
	router := setupBoardRouter(db, uuid.New())

	req, _ := http.NewRequest("GET", "/boards/not-a-uuid", nil)

	// Act
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	// Assert
	assert.Equal(t, http.StatusBadRequest, resp.Code)
}
