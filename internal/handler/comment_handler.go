package handler

import (
	"errors"
	"net/http"

	"taskboard/internal/access"
	"taskboard/internal/model"
	"taskboard/internal/repository"

	"github.com/gin-gonic/gin"
)

type CommentHandler struct {
	commentRepo *repository.CommentRepository
	guard       *access.Guard
}

func NewCommentHandler(commentRepo *repository.CommentRepository, guard *access.Guard) *CommentHandler {
	return &CommentHandler{commentRepo: commentRepo, guard: guard}
}

type CreateCommentRequest struct {
	Content string `json:"content" binding:"required"`
}

type CommentResponse struct {
	ID         string `json:"id"`
	CardID     string `json:"card_id"`
	AuthorID   string `json:"author_id"`
	AuthorName string `json:"author_name,omitempty"`
	Content    string `json:"content"`
	CreatedAt  string `json:"created_at"`
}

// GetByCardID lists a card's comments, oldest first.
func (h *CommentHandler) GetByCardID(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	cardID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	boardID, err := h.guard.BoardIDForCard(c.Request.Context(), cardID)
	if err != nil {
		respondAccessError(c, err)
		return
	}

	if err := h.guard.RequireMember(c.Request.Context(), boardID, userID); err != nil {
		respondAccessError(c, err)
		return
	}

	comments, err := h.commentRepo.GetByCardID(c.Request.Context(), cardID)
	if err != nil {
		respondError(c, http.StatusInternalServerError, "Failed to retrieve comments")
		return
	}

	response := make([]CommentResponse, len(comments))
	for i, comment := range comments {
		response[i] = CommentResponse{
			ID:         comment.ID.String(),
			CardID:     comment.CardID.String(),
			AuthorID:   comment.AuthorID.String(),
			AuthorName: comment.Author.Name,
			Content:    comment.Content,
			CreatedAt:  comment.CreatedAt.Format(http.TimeFormat),
		}
	}

	respondOK(c, http.StatusOK, gin.H{"comments": response})
}

// Create posts a comment on a card. Any board member may comment.
func (h *CommentHandler) Create(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	cardID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	boardID, err := h.guard.BoardIDForCard(c.Request.Context(), cardID)
	if err != nil {
		respondAccessError(c, err)
		return
	}

	if err := h.guard.RequireMember(c.Request.Context(), boardID, userID); err != nil {
		respondAccessError(c, err)
		return
	}

	var req CreateCommentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "Comment content is required")
		return
	}

	comment := &model.Comment{
		CardID:   cardID,
		AuthorID: userID,
		Content:  req.Content,
	}

	if err := h.commentRepo.Create(c.Request.Context(), comment); err != nil {
		respondError(c, http.StatusInternalServerError, "Failed to create comment")
		return
	}

	respondOK(c, http.StatusCreated, gin.H{"comment": CommentResponse{
		ID:        comment.ID.String(),
		CardID:    comment.CardID.String(),
		AuthorID:  comment.AuthorID.String(),
		Content:   comment.Content,
		CreatedAt: comment.CreatedAt.Format(http.TimeFormat),
	}})
}

// Delete removes a comment. Members see a 403 unless they wrote it;
// everyone else gets the usual hidden 404.
func (h *CommentHandler) Delete(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	commentID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	boardID, err := h.guard.BoardIDForComment(c.Request.Context(), commentID)
	if err != nil {
		respondAccessError(c, err)
		return
	}

	if err := h.guard.RequireMember(c.Request.Context(), boardID, userID); err != nil {
		respondAccessError(c, err)
		return
	}

	comment, err := h.commentRepo.GetByID(c.Request.Context(), commentID)
	if err != nil {
		if errors.Is(err, repository.ErrCommentNotFound) {
			respondError(c, http.StatusNotFound, "Comment not found")
			return
		}
		respondError(c, http.StatusInternalServerError, "Failed to retrieve comment")
		return
	}

	if comment.AuthorID != userID {
		respondError(c, http.StatusForbidden, "Only the comment author can delete it")
		return
	}

	if err := h.commentRepo.Delete(c.Request.Context(), commentID); err != nil {
		respondError(c, http.StatusInternalServerError, "Failed to delete comment")
		return
	}

	respondOK(c, http.StatusOK, gin.H{"message": "Comment deleted successfully"})
}
