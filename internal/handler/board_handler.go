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

type BoardHandler struct {
	boardRepo  *repository.BoardRepository
	columnRepo *repository.ColumnRepository
	cardRepo   *repository.CardRepository
	guard      *access.Guard
}

func NewBoardHandler(boardRepo *repository.BoardRepository, columnRepo *repository.ColumnRepository, cardRepo *repository.CardRepository, guard *access.Guard) *BoardHandler {
	return &BoardHandler{
		boardRepo:  boardRepo,
		columnRepo: columnRepo,
		cardRepo:   cardRepo,
		guard:      guard,
	}
}

type CreateBoardRequest struct {
	Name        string `json:"name" binding:"required"`
	Description string `json:"description"`
	Color       string `json:"color"`
}

type UpdateBoardRequest struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	Color       string `json:"color"`
}

type BoardResponse struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	Color       string `json:"color"`
	OwnerID     string `json:"owner_id"`
	CreatedAt   string `json:"created_at"`
}

// ColumnWithCards is the nested shape returned by GetByID.
type ColumnWithCards struct {
	ColumnResponse
	Cards []CardResponse `json:"cards"`
}

func boardResponse(board *model.Board) BoardResponse {
	return BoardResponse{
		ID:          board.ID.String(),
		Name:        board.Name,
		Description: board.Description,
		Color:       board.Color,
		OwnerID:     board.OwnerID.String(),
		CreatedAt:   board.CreatedAt.Format(http.TimeFormat),
	}
}

// Create creates a new board; the caller becomes its owner member.
func (h *BoardHandler) Create(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	var req CreateBoardRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "Board name is required")
		return
	}

	board := &model.Board{
		Name:        req.Name,
		Description: req.Description,
		Color:       req.Color,
		OwnerID:     userID,
	}

	if err := h.boardRepo.Create(c.Request.Context(), board); err != nil {
		respondError(c, http.StatusInternalServerError, "Failed to create board")
		return
	}

	respondOK(c, http.StatusCreated, gin.H{"board": boardResponse(board)})
}

// GetAll lists every board the caller belongs to.
func (h *BoardHandler) GetAll(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	boards, err := h.boardRepo.GetForUser(c.Request.Context(), userID)
	if err != nil {
		respondError(c, http.StatusInternalServerError, "Failed to retrieve boards")
		return
	}

	response := make([]BoardResponse, len(boards))
	for i := range boards {
		response[i] = boardResponse(&boards[i])
	}

	respondOK(c, http.StatusOK, gin.H{"boards": response})
}

// GetByID returns a board with its columns and cards. The membership check
// runs before the board is even read, so non-members get the same 404 as a
// board that does not exist.
func (h *BoardHandler) GetByID(c *gin.Context) {
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

	board, err := h.boardRepo.GetByID(c.Request.Context(), boardID)
	if err != nil {
		if errors.Is(err, repository.ErrBoardNotFound) {
			respondError(c, http.StatusNotFound, "Resource not found")
			return
		}
		respondError(c, http.StatusInternalServerError, "Failed to retrieve board")
		return
	}

	columns, err := h.columnRepo.GetByBoardID(c.Request.Context(), boardID)
	if err != nil {
		respondError(c, http.StatusInternalServerError, "Failed to retrieve columns")
		return
	}

	cards, err := h.cardRepo.GetByBoardID(c.Request.Context(), boardID)
	if err != nil {
		respondError(c, http.StatusInternalServerError, "Failed to retrieve cards")
		return
	}

	cardsByColumn := make(map[uuid.UUID][]CardResponse)
	for i := range cards {
		cardsByColumn[cards[i].ColumnID] = append(cardsByColumn[cards[i].ColumnID], cardResponse(&cards[i]))
	}

	nested := make([]ColumnWithCards, len(columns))
	for i := range columns {
		columnCards := cardsByColumn[columns[i].ID]
		if columnCards == nil {
			columnCards = []CardResponse{}
		}
		nested[i] = ColumnWithCards{
			ColumnResponse: columnResponse(&columns[i]),
			Cards:          columnCards,
		}
	}

	respondOK(c, http.StatusOK, gin.H{
		"board":   boardResponse(board),
		"columns": nested,
	})
}

// Update renames or recolors a board. Owner only.
func (h *BoardHandler) Update(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	boardID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	if err := h.guard.RequireOwner(c.Request.Context(), boardID, userID); err != nil {
		respondAccessError(c, err)
		return
	}

	board, err := h.boardRepo.GetByID(c.Request.Context(), boardID)
	if err != nil {
		if errors.Is(err, repository.ErrBoardNotFound) {
			respondError(c, http.StatusNotFound, "Resource not found")
			return
		}
		respondError(c, http.StatusInternalServerError, "Failed to retrieve board")
		return
	}

	var req UpdateBoardRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "Invalid input")
		return
	}

	if req.Name != "" {
		board.Name = req.Name
	}
	if req.Description != "" {
		board.Description = req.Description
	}
	if req.Color != "" {
		board.Color = req.Color
	}

	if err := h.boardRepo.Update(c.Request.Context(), board); err != nil {
		respondError(c, http.StatusInternalServerError, "Failed to update board")
		return
	}

	respondOK(c, http.StatusOK, gin.H{"board": boardResponse(board)})
}

// Delete removes a board and everything under it. Owner only.
func (h *BoardHandler) Delete(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	boardID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	if err := h.guard.RequireOwner(c.Request.Context(), boardID, userID); err != nil {
		respondAccessError(c, err)
		return
	}

	if err := h.boardRepo.Delete(c.Request.Context(), boardID); err != nil {
		if errors.Is(err, repository.ErrBoardNotFound) {
			respondError(c, http.StatusNotFound, "Resource not found")
			return
		}
		respondError(c, http.StatusInternalServerError, "Failed to delete board")
		return
	}

	respondOK(c, http.StatusOK, gin.H{"message": "Board deleted successfully"})
}
