package handler

import (
	"errors"
	"net/http"

	"taskboard/internal/access"
	"taskboard/internal/model"
	"taskboard/internal/repository"

	"github.com/gin-gonic/gin"
)

type MemberHandler struct {
	memberRepo *repository.MemberRepository
	guard      *access.Guard
}

func NewMemberHandler(memberRepo *repository.MemberRepository, guard *access.Guard) *MemberHandler {
	return &MemberHandler{memberRepo: memberRepo, guard: guard}
}

type MemberResponse struct {
	UserID   string `json:"user_id"`
	Email    string `json:"email"`
	Name     string `json:"name"`
	Role     string `json:"role"`
	JoinedAt string `json:"joined_at"`
}

// GetByBoardID lists a board's members. Any member may look.
func (h *MemberHandler) GetByBoardID(c *gin.Context) {
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

	members, err := h.memberRepo.GetByBoardID(c.Request.Context(), boardID)
	if err != nil {
		respondError(c, http.StatusInternalServerError, "Failed to retrieve members")
		return
	}

	response := make([]MemberResponse, len(members))
	for i, member := range members {
		response[i] = MemberResponse{
			UserID:   member.UserID.String(),
			Email:    member.User.Email,
			Name:     member.User.Name,
			Role:     string(member.Role),
			JoinedAt: member.CreatedAt.Format(http.TimeFormat),
		}
	}

	respondOK(c, http.StatusOK, gin.H{"members": response})
}

// Remove revokes a user's membership. Owner only; the owner membership
// itself cannot be removed.
func (h *MemberHandler) Remove(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	boardID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	targetID, ok := parseIDParam(c, "user_id")
	if !ok {
		return
	}

	if err := h.guard.RequireOwner(c.Request.Context(), boardID, userID); err != nil {
		respondAccessError(c, err)
		return
	}

	targetRole, err := h.guard.BoardRole(c.Request.Context(), boardID, targetID)
	if err != nil {
		respondError(c, http.StatusInternalServerError, "Failed to check member")
		return
	}
	if targetRole == model.RoleOwner {
		respondError(c, http.StatusBadRequest, "The board owner cannot be removed")
		return
	}

	if err := h.memberRepo.Remove(c.Request.Context(), boardID, targetID); err != nil {
		if errors.Is(err, repository.ErrMemberNotFound) {
			respondError(c, http.StatusNotFound, "Member not found")
			return
		}
		respondError(c, http.StatusInternalServerError, "Failed to remove member")
		return
	}

	respondOK(c, http.StatusOK, gin.H{"message": "Member removed successfully"})
}
