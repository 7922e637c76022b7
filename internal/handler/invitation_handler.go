package handler

import (
	"errors"
	"net/http"
	"strings"

	"taskboard/internal/access"
	"taskboard/internal/middleware"
	"taskboard/internal/model"
	"taskboard/internal/repository"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type InvitationHandler struct {
	invitationRepo *repository.InvitationRepository
	userRepo       repository.UserRepositoryInterface
	guard          *access.Guard
}

func NewInvitationHandler(invitationRepo *repository.InvitationRepository, userRepo repository.UserRepositoryInterface, guard *access.Guard) *InvitationHandler {
	return &InvitationHandler{
		invitationRepo: invitationRepo,
		userRepo:       userRepo,
		guard:          guard,
	}
}

type CreateInvitationRequest struct {
	BoardID      string `json:"board_id" binding:"required"`
	InviteeEmail string `json:"invitee_email" binding:"required,email"`
}

type InvitationResponse struct {
	ID           string `json:"id"`
	BoardID      string `json:"board_id"`
	BoardName    string `json:"board_name,omitempty"`
	InviterName  string `json:"inviter_name,omitempty"`
	InviteeEmail string `json:"invitee_email"`
	Status       string `json:"status"`
	CreatedAt    string `json:"created_at"`
}

func currentUserEmail(c *gin.Context) (string, bool) {
	value, exists := c.Get(middleware.UserEmailKey)
	if !exists {
		respondError(c, http.StatusUnauthorized, "Not authenticated")
		return "", false
	}
	email, ok := value.(string)
	if !ok || email == "" {
		respondError(c, http.StatusUnauthorized, "Not authenticated")
		return "", false
	}
	return strings.ToLower(email), true
}

// Create sends a board invitation. Owner only. The invitee must be a
// registered user who is not yet a member and has no pending invitation.
func (h *InvitationHandler) Create(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	userEmail, ok := currentUserEmail(c)
	if !ok {
		return
	}

	var req CreateInvitationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "Board ID and invitee email are required")
		return
	}

	boardID, err := uuid.Parse(req.BoardID)
	if err != nil {
		respondError(c, http.StatusBadRequest, "Invalid board ID format")
		return
	}

	inviteeEmail := strings.ToLower(req.InviteeEmail)

	if err := h.guard.RequireOwner(c.Request.Context(), boardID, userID); err != nil {
		respondAccessError(c, err)
		return
	}

	if inviteeEmail == userEmail {
		respondError(c, http.StatusConflict, "You cannot invite yourself")
		return
	}

	invitee, err := h.userRepo.FindByEmail(c.Request.Context(), inviteeEmail)
	if err != nil {
		respondError(c, http.StatusInternalServerError, "Internal server error")
		return
	}
	if invitee == nil {
		respondError(c, http.StatusNotFound, "No registered user with this email")
		return
	}

	role, err := h.guard.BoardRole(c.Request.Context(), boardID, invitee.ID)
	if err != nil {
		respondError(c, http.StatusInternalServerError, "Internal server error")
		return
	}
	if role != "" {
		respondError(c, http.StatusConflict, "User is already a member of this board")
		return
	}

	pending, err := h.invitationRepo.HasPending(c.Request.Context(), boardID, inviteeEmail)
	if err != nil {
		respondError(c, http.StatusInternalServerError, "Internal server error")
		return
	}
	if pending {
		respondError(c, http.StatusConflict, "An invitation is already pending for this email")
		return
	}

	invitation := &model.Invitation{
		BoardID:      boardID,
		InviterID:    userID,
		InviteeEmail: inviteeEmail,
		Status:       model.InvitationPending,
	}

	if err := h.invitationRepo.Create(c.Request.Context(), invitation); err != nil {
		respondError(c, http.StatusInternalServerError, "Failed to create invitation")
		return
	}

	respondOK(c, http.StatusCreated, gin.H{"invitation": InvitationResponse{
		ID:           invitation.ID.String(),
		BoardID:      invitation.BoardID.String(),
		InviteeEmail: invitation.InviteeEmail,
		Status:       string(invitation.Status),
		CreatedAt:    invitation.CreatedAt.Format(http.TimeFormat),
	}})
}

// GetMine lists the caller's pending invitations.
func (h *InvitationHandler) GetMine(c *gin.Context) {
	userEmail, ok := currentUserEmail(c)
	if !ok {
		return
	}

	invitations, err := h.invitationRepo.GetPendingForEmail(c.Request.Context(), userEmail)
	if err != nil {
		respondError(c, http.StatusInternalServerError, "Failed to retrieve invitations")
		return
	}

	response := make([]InvitationResponse, len(invitations))
	for i, inv := range invitations {
		response[i] = InvitationResponse{
			ID:           inv.ID.String(),
			BoardID:      inv.BoardID.String(),
			BoardName:    inv.Board.Name,
			InviterName:  inv.Inviter.Name,
			InviteeEmail: inv.InviteeEmail,
			Status:       string(inv.Status),
			CreatedAt:    inv.CreatedAt.Format(http.TimeFormat),
		}
	}

	respondOK(c, http.StatusOK, gin.H{"invitations": response})
}

// invitationForInvitee loads an invitation addressed to the caller. A
// wrong invitee gets the same 404 as a missing invitation.
func (h *InvitationHandler) invitationForInvitee(c *gin.Context, id uuid.UUID, email string) (*model.Invitation, bool) {
	invitation, err := h.invitationRepo.GetByID(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, repository.ErrInvitationNotFound) {
			respondError(c, http.StatusNotFound, "Invitation not found")
			return nil, false
		}
		respondError(c, http.StatusInternalServerError, "Internal server error")
		return nil, false
	}
	if invitation.InviteeEmail != email {
		respondError(c, http.StatusNotFound, "Invitation not found")
		return nil, false
	}
	if invitation.Status != model.InvitationPending {
		respondError(c, http.StatusConflict, "Invitation is no longer pending")
		return nil, false
	}
	return invitation, true
}

// Accept turns the invitation into a membership.
func (h *InvitationHandler) Accept(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	userEmail, ok := currentUserEmail(c)
	if !ok {
		return
	}

	invitationID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	invitation, ok := h.invitationForInvitee(c, invitationID, userEmail)
	if !ok {
		return
	}

	if err := h.invitationRepo.Accept(c.Request.Context(), invitation, userID); err != nil {
		respondError(c, http.StatusInternalServerError, "Failed to accept invitation")
		return
	}

	respondOK(c, http.StatusOK, gin.H{"message": "Invitation accepted"})
}

// Reject declines the invitation. Terminal.
func (h *InvitationHandler) Reject(c *gin.Context) {
	userEmail, ok := currentUserEmail(c)
	if !ok {
		return
	}

	invitationID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	invitation, ok := h.invitationForInvitee(c, invitationID, userEmail)
	if !ok {
		return
	}

	if err := h.invitationRepo.Reject(c.Request.Context(), invitation.ID); err != nil {
		if errors.Is(err, repository.ErrInvitationNotFound) {
			respondError(c, http.StatusConflict, "Invitation is no longer pending")
			return
		}
		respondError(c, http.StatusInternalServerError, "Failed to reject invitation")
		return
	}

	respondOK(c, http.StatusOK, gin.H{"message": "Invitation rejected"})
}

// Cancel withdraws a pending invitation. Board owner only.
func (h *InvitationHandler) Cancel(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	invitationID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	invitation, err := h.invitationRepo.GetByID(c.Request.Context(), invitationID)
	if err != nil {
		if errors.Is(err, repository.ErrInvitationNotFound) {
			respondError(c, http.StatusNotFound, "Invitation not found")
			return
		}
		respondError(c, http.StatusInternalServerError, "Internal server error")
		return
	}

	if err := h.guard.RequireOwner(c.Request.Context(), invitation.BoardID, userID); err != nil {
		respondAccessError(c, err)
		return
	}

	if invitation.Status != model.InvitationPending {
		respondError(c, http.StatusConflict, "Invitation is no longer pending")
		return
	}

	if err := h.invitationRepo.Delete(c.Request.Context(), invitation.ID); err != nil {
		respondError(c, http.StatusInternalServerError, "Failed to cancel invitation")
		return
	}

	respondOK(c, http.StatusOK, gin.H{"message": "Invitation cancelled"})
}
