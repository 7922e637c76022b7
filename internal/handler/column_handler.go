package handler

import (
	"errors"
	"net/http"

	"taskboard/internal/access"
	"taskboard/internal/model"
	"taskboard/internal/repository"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type ColumnHandler struct {
	columnRepo *repository.ColumnRepository
	guard      *access.Guard
}

func NewColumnHandler(columnRepo *repository.ColumnRepository, guard *access.Guard) *ColumnHandler {
	return &ColumnHandler{columnRepo: columnRepo, guard: guard}
}

type CreateColumnRequest struct {
	Name    string `json:"name" binding:"required"`
	BoardID string `json:"board_id" binding:"required"`
}

type UpdateColumnRequest struct {
	Name string `json:"name" binding:"required"`
}

// MoveColumnRequest targets a zero-based slot on the column's board. The
// pointer distinguishes a missing field from an explicit index 0.
type MoveColumnRequest struct {
	Position *int `json:"position" binding:"required"`
}

type ColumnResponse struct {
	ID       string `json:"id"`
	BoardID  string `json:"board_id"`
	Name     string `json:"name"`
	Position int    `json:"position"`
}

func columnResponse(column *model.Column) ColumnResponse {
	return ColumnResponse{
		ID:       column.ID.String(),
		BoardID:  column.BoardID.String(),
		Name:     column.Name,
		Position: column.Position,
	}
}

// Create appends a column to the end of a board. Any member may do this.
func (h *ColumnHandler) Create(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	var req CreateColumnRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "Column name and board ID are required")
		return
	}

	boardID, err := uuid.Parse(req.BoardID)
	if err != nil {
		respondError(c, http.StatusBadRequest, "Invalid board ID format")
		return
	}

	if err := h.guard.RequireMember(c.Request.Context(), boardID, userID); err != nil {
		respondAccessError(c, err)
		return
	}

	column := &model.Column{
		BoardID: boardID,
		Name:    req.Name,
	}

	if err := h.columnRepo.Create(c.Request.Context(), column); err != nil {
		respondError(c, http.StatusInternalServerError, "Failed to create column")
		return
	}

	respondOK(c, http.StatusCreated, gin.H{"column": columnResponse(column)})
}

// GetAll lists a board's columns in position order.
func (h *ColumnHandler) GetAll(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	boardID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	if err := h.guard.RequireMember(c.Request.Context(), boardID, userID); err != nil {
		respondAccessError(c, err)
		return
	}

	columns, err := h.columnRepo.GetByBoardID(c.Request.Context(), boardID)
	if err != nil {
		respondError(c, http.StatusInternalServerError, "Failed to retrieve columns")
		return
	}

	response := make([]ColumnResponse, len(columns))
	for i := range columns {
		response[i] = columnResponse(&columns[i])
	}

	respondOK(c, http.StatusOK, gin.H{"columns": response})
}

// Update renames a column. Any member may do this.
func (h *ColumnHandler) Update(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	columnID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	boardID, err := h.guard.BoardIDForColumn(c.Request.Context(), columnID)
	if err != nil {
		respondAccessError(c, err)
		return
	}

	if err := h.guard.RequireMember(c.Request.Context(), boardID, userID); err != nil {
		respondAccessError(c, err)
		return
	}

	var req UpdateColumnRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "Column name is required")
		return
	}

	column, err := h.columnRepo.GetByID(c.Request.Context(), columnID)
	if err != nil {
		if errors.Is(err, repository.ErrColumnNotFound) {
			respondError(c, http.StatusNotFound, "Column not found")
			return
		}
		respondError(c, http.StatusInternalServerError, "Failed to retrieve column")
		return
	}

	column.Name = req.Name
	if err := h.columnRepo.Update(c.Request.Context(), column); err != nil {
		respondError(c, http.StatusInternalServerError, "Failed to update column")
		return
	}

	respondOK(c, http.StatusOK, gin.H{"column": columnResponse(column)})
}

// Delete removes a column and its cards. Owner only.
func (h *ColumnHandler) Delete(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	columnID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	boardID, err := h.guard.BoardIDForColumn(c.Request.Context(), columnID)
	if err != nil {
		respondAccessError(c, err)
		return
	}

	if err := h.guard.RequireOwner(c.Request.Context(), boardID, userID); err != nil {
		respondAccessError(c, err)
		return
	}

	if err := h.columnRepo.Delete(c.Request.Context(), columnID); err != nil {
		if errors.Is(err, repository.ErrColumnNotFound) {
			respondError(c, http.StatusNotFound, "Column not found")
			return
		}
		respondError(c, http.StatusInternalServerError, "Failed to delete column")
		return
	}

	respondOK(c, http.StatusOK, gin.H{"message": "Column deleted successfully"})
}

// Move reorders a column within its board. Owner only.
func (h *ColumnHandler) Move(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	columnID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	boardID, err := h.guard.BoardIDForColumn(c.Request.Context(), columnID)
	if err != nil {
		respondAccessError(c, err)
		return
	}

	if err := h.guard.RequireOwner(c.Request.Context(), boardID, userID); err != nil {
		respondAccessError(c, err)
		return
	}

	var req MoveColumnRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "Target position is required")
		return
	}

	if err := h.columnRepo.Move(c.Request.Context(), columnID, *req.Position); err != nil {
		switch {
		case errors.Is(err, repository.ErrColumnNotFound):
			respondError(c, http.StatusNotFound, "Column not found")
		case errors.Is(err, repository.ErrPositionOutOfRange):
			respondError(c, http.StatusBadRequest, "Target position is out of range")
		default:
			respondError(c, http.StatusInternalServerError, "Failed to move column")
		}
		return
	}

	respondOK(c, http.StatusOK, gin.H{"message": "Column moved successfully"})
}
