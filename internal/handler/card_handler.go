package handler

import (
	"errors"
	"net/http"
	"time"

	"taskboard/internal/access"
	"taskboard/internal/model"
	"taskboard/internal/repository"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type CardHandler struct {
	cardRepo *repository.CardRepository
	guard    *access.Guard
}

func NewCardHandler(cardRepo *repository.CardRepository, guard *access.Guard) *CardHandler {
	return &CardHandler{cardRepo: cardRepo, guard: guard}
}

type CreateCardRequest struct {
	ColumnID    string     `json:"column_id" binding:"required"`
	Title       string     `json:"title" binding:"required"`
	Description string     `json:"description"`
	Priority    string     `json:"priority" binding:"omitempty,oneof=low medium high urgent"`
	DueDate     *time.Time `json:"due_date"`
	Tags        []string   `json:"tags"`
	AssigneeID  string     `json:"assignee_id"`
}

type UpdateCardRequest struct {
	Title       *string    `json:"title"`
	Description *string    `json:"description"`
	Priority    *string    `json:"priority" binding:"omitempty,oneof=low medium high urgent"`
	DueDate     *time.Time `json:"due_date"`
	Tags        *[]string  `json:"tags"`
}

// MoveCardRequest targets a zero-based slot in the destination column. The
// position pointer distinguishes a missing field from an explicit index 0.
type MoveCardRequest struct {
	ColumnID string `json:"column_id" binding:"required"`
	Position *int   `json:"position" binding:"required"`
}

type AssignCardRequest struct {
	UserID string `json:"user_id" binding:"required"`
}

type CardResponse struct {
	ID          string     `json:"id"`
	ColumnID    string     `json:"column_id"`
	Title       string     `json:"title"`
	Description string     `json:"description"`
	Priority    string     `json:"priority"`
	DueDate     *time.Time `json:"due_date"`
	Tags        []string   `json:"tags"`
	AssigneeID  *string    `json:"assignee_id"`
	CreatedBy   string     `json:"created_by"`
	Position    int        `json:"position"`
}

func cardResponse(card *model.Card) CardResponse {
	resp := CardResponse{
		ID:          card.ID.String(),
		ColumnID:    card.ColumnID.String(),
		Title:       card.Title,
		Description: card.Description,
		Priority:    string(card.Priority),
		DueDate:     card.DueDate,
		Tags:        card.Tags,
		CreatedBy:   card.CreatedBy.String(),
		Position:    card.Position,
	}
	if resp.Tags == nil {
		resp.Tags = []string{}
	}
	if card.AssigneeID != nil {
		assignee := card.AssigneeID.String()
		resp.AssigneeID = &assignee
	}
	return resp
}

// requireMemberForCard resolves the card's board and checks the caller's
// membership, answering the response itself on failure.
func (h *CardHandler) requireMemberForCard(c *gin.Context, cardID, userID uuid.UUID) (uuid.UUID, bool) {
	boardID, err := h.guard.BoardIDForCard(c.Request.Context(), cardID)
	if err != nil {
		respondAccessError(c, err)
		return uuid.Nil, false
	}
	if err := h.guard.RequireMember(c.Request.Context(), boardID, userID); err != nil {
		respondAccessError(c, err)
		return uuid.Nil, false
	}
	return boardID, true
}

// Create appends a card to the end of a column. Any member may do this.
func (h *CardHandler) Create(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	var req CreateCardRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "Card title and column ID are required")
		return
	}

	columnID, err := uuid.Parse(req.ColumnID)
	if err != nil {
		respondError(c, http.StatusBadRequest, "Invalid column ID format")
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

	priority := model.PriorityMedium
	if req.Priority != "" {
		priority = model.Priority(req.Priority)
	}

	card := &model.Card{
		ColumnID:    columnID,
		Title:       req.Title,
		Description: req.Description,
		Priority:    priority,
		DueDate:     req.DueDate,
		Tags:        req.Tags,
		CreatedBy:   userID,
	}

	if req.AssigneeID != "" {
		assigneeID, err := uuid.Parse(req.AssigneeID)
		if err != nil {
			respondError(c, http.StatusBadRequest, "Invalid assignee ID format")
			return
		}
		role, err := h.guard.BoardRole(c.Request.Context(), boardID, assigneeID)
		if err != nil {
			respondError(c, http.StatusInternalServerError, "Failed to check assignee")
			return
		}
		if role == "" {
			respondError(c, http.StatusBadRequest, "Assignee must be a board member")
			return
		}
		card.AssigneeID = &assigneeID
	}

	if err := h.cardRepo.Create(c.Request.Context(), card); err != nil {
		respondError(c, http.StatusInternalServerError, "Failed to create card")
		return
	}

	respondOK(c, http.StatusCreated, gin.H{"card": cardResponse(card)})
}

func (h *CardHandler) GetByID(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	cardID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	if _, ok := h.requireMemberForCard(c, cardID, userID); !ok {
		return
	}

	card, err := h.cardRepo.GetByID(c.Request.Context(), cardID)
	if err != nil {
		if errors.Is(err, repository.ErrCardNotFound) {
			respondError(c, http.StatusNotFound, "Card not found")
			return
		}
		respondError(c, http.StatusInternalServerError, "Failed to retrieve card")
		return
	}

	respondOK(c, http.StatusOK, gin.H{"card": cardResponse(card)})
}

// GetByColumnID lists a column's cards in position order.
func (h *CardHandler) GetByColumnID(c *gin.Context) {
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

	cards, err := h.cardRepo.GetByColumnID(c.Request.Context(), columnID)
	if err != nil {
		respondError(c, http.StatusInternalServerError, "Failed to retrieve cards")
		return
	}

	response := make([]CardResponse, len(cards))
	for i := range cards {
		response[i] = cardResponse(&cards[i])
	}

	respondOK(c, http.StatusOK, gin.H{"cards": response})
}

func (h *CardHandler) Update(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	cardID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	if _, ok := h.requireMemberForCard(c, cardID, userID); !ok {
		return
	}

	var req UpdateCardRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "Invalid input")
		return
	}

	card, err := h.cardRepo.GetByID(c.Request.Context(), cardID)
	if err != nil {
		if errors.Is(err, repository.ErrCardNotFound) {
			respondError(c, http.StatusNotFound, "Card not found")
			return
		}
		respondError(c, http.StatusInternalServerError, "Failed to retrieve card")
		return
	}

	if req.Title != nil {
		if *req.Title == "" {
			respondError(c, http.StatusBadRequest, "Card title cannot be empty")
			return
		}
		card.Title = *req.Title
	}
	if req.Description != nil {
		card.Description = *req.Description
	}
	if req.Priority != nil {
		card.Priority = model.Priority(*req.Priority)
	}
	if req.DueDate != nil {
		card.DueDate = req.DueDate
	}
	if req.Tags != nil {
		card.Tags = *req.Tags
	}

	if err := h.cardRepo.Update(c.Request.Context(), card); err != nil {
		respondError(c, http.StatusInternalServerError, "Failed to update card")
		return
	}

	respondOK(c, http.StatusOK, gin.H{"card": cardResponse(card)})
}

func (h *CardHandler) Delete(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	cardID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	if _, ok := h.requireMemberForCard(c, cardID, userID); !ok {
		return
	}

	if err := h.cardRepo.Delete(c.Request.Context(), cardID); err != nil {
		if errors.Is(err, repository.ErrCardNotFound) {
			respondError(c, http.StatusNotFound, "Card not found")
			return
		}
		respondError(c, http.StatusInternalServerError, "Failed to delete card")
		return
	}

	respondOK(c, http.StatusOK, gin.H{"message": "Card deleted successfully"})
}

// Move places a card at a slot in a column of the same board. Authorization
// runs before any position is touched, so a denied request never shifts a
// sibling.
func (h *CardHandler) Move(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	cardID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	boardID, ok := h.requireMemberForCard(c, cardID, userID)
	if !ok {
		return
	}

	var req MoveCardRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "Destination column and position are required")
		return
	}

	destColumnID, err := uuid.Parse(req.ColumnID)
	if err != nil {
		respondError(c, http.StatusBadRequest, "Invalid column ID format")
		return
	}

	destBoardID, err := h.guard.BoardIDForColumn(c.Request.Context(), destColumnID)
	if err != nil {
		respondAccessError(c, err)
		return
	}
	if destBoardID != boardID {
		respondError(c, http.StatusBadRequest, "Cannot move a card to another board")
		return
	}

	if err := h.cardRepo.Move(c.Request.Context(), cardID, destColumnID, *req.Position); err != nil {
		switch {
		case errors.Is(err, repository.ErrCardNotFound):
			respondError(c, http.StatusNotFound, "Card not found")
		case errors.Is(err, repository.ErrPositionOutOfRange):
			respondError(c, http.StatusBadRequest, "Target position is out of range")
		default:
			respondError(c, http.StatusInternalServerError, "Failed to move card")
		}
		return
	}

	respondOK(c, http.StatusOK, gin.H{"message": "Card moved successfully"})
}

// Assign sets the card's assignee, who must be a member of the same board.
func (h *CardHandler) Assign(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	cardID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	boardID, ok := h.requireMemberForCard(c, cardID, userID)
	if !ok {
		return
	}

	var req AssignCardRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "User ID is required")
		return
	}

	assigneeID, err := uuid.Parse(req.UserID)
	if err != nil {
		respondError(c, http.StatusBadRequest, "Invalid user ID format")
		return
	}

	role, err := h.guard.BoardRole(c.Request.Context(), boardID, assigneeID)
	if err != nil {
		respondError(c, http.StatusInternalServerError, "Failed to check assignee")
		return
	}
	if role == "" {
		respondError(c, http.StatusBadRequest, "Assignee must be a board member")
		return
	}

	if err := h.cardRepo.AssignUser(c.Request.Context(), cardID, assigneeID); err != nil {
		if errors.Is(err, repository.ErrCardNotFound) {
			respondError(c, http.StatusNotFound, "Card not found")
			return
		}
		respondError(c, http.StatusInternalServerError, "Failed to assign user")
		return
	}

	respondOK(c, http.StatusOK, gin.H{"message": "User assigned successfully"})
}

func (h *CardHandler) Unassign(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	cardID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	if _, ok := h.requireMemberForCard(c, cardID, userID); !ok {
		return
	}

	if err := h.cardRepo.UnassignUser(c.Request.Context(), cardID); err != nil {
		if errors.Is(err, repository.ErrCardNotFound) {
			respondError(c, http.StatusNotFound, "Card not found")
			return
		}
		respondError(c, http.StatusInternalServerError, "Failed to unassign user")
		return
	}

	respondOK(c, http.StatusOK, gin.H{"message": "User unassigned successfully"})
}
