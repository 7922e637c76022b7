package handler

import (
	"errors"
	"log"
	"net/http"

	"taskboard/internal/access"
	"taskboard/internal/model"
	"taskboard/internal/repository"
	"taskboard/internal/storage"

	"github.com/gin-gonic/gin"
)

// MaxAttachmentSize caps uploads at 10 MiB.
const MaxAttachmentSize = 10 << 20

type AttachmentHandler struct {
	attachmentRepo *repository.AttachmentRepository
	store          *storage.FileStore
	guard          *access.Guard
}

func NewAttachmentHandler(attachmentRepo *repository.AttachmentRepository, store *storage.FileStore, guard *access.Guard) *AttachmentHandler {
	return &AttachmentHandler{
		attachmentRepo: attachmentRepo,
		store:          store,
		guard:          guard,
	}
}

type AttachmentResponse struct {
	ID           string `json:"id"`
	CardID       string `json:"card_id"`
	UploaderID   string `json:"uploader_id"`
	OriginalName string `json:"original_name"`
	Size         int64  `json:"size"`
	MimeType     string `json:"mime_type"`
	CreatedAt    string `json:"created_at"`
}

func attachmentResponse(attachment *model.Attachment) AttachmentResponse {
	return AttachmentResponse{
		ID:           attachment.ID.String(),
		CardID:       attachment.CardID.String(),
		UploaderID:   attachment.UploaderID.String(),
		OriginalName: attachment.OriginalName,
		Size:         attachment.Size,
		MimeType:     attachment.MimeType,
		CreatedAt:    attachment.CreatedAt.Format(http.TimeFormat),
	}
}

// Upload stores a multipart file (field "file") against a card.
func (h *AttachmentHandler) Upload(c *gin.Context) {
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

	fileHeader, err := c.FormFile("file")
	if err != nil {
		respondError(c, http.StatusBadRequest, "A file is required")
		return
	}

	if fileHeader.Size > MaxAttachmentSize {
		respondError(c, http.StatusBadRequest, "File exceeds the 10 MiB limit")
		return
	}

	src, err := fileHeader.Open()
	if err != nil {
		respondError(c, http.StatusInternalServerError, "Failed to read upload")
		return
	}
	defer src.Close()

	storedName, err := h.store.Save(src, fileHeader.Filename)
	if err != nil {
		respondError(c, http.StatusInternalServerError, "Failed to store file")
		return
	}

	attachment := &model.Attachment{
		CardID:       cardID,
		UploaderID:   userID,
		StoredName:   storedName,
		OriginalName: fileHeader.Filename,
		Size:         fileHeader.Size,
		MimeType:     fileHeader.Header.Get("Content-Type"),
	}

	if err := h.attachmentRepo.Create(c.Request.Context(), attachment); err != nil {
		h.store.Delete(storedName)
		respondError(c, http.StatusInternalServerError, "Failed to save attachment")
		return
	}

	respondOK(c, http.StatusCreated, gin.H{"attachment": attachmentResponse(attachment)})
}

// GetByCardID lists a card's attachments.
func (h *AttachmentHandler) GetByCardID(c *gin.Context) {
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

	attachments, err := h.attachmentRepo.GetByCardID(c.Request.Context(), cardID)
	if err != nil {
		respondError(c, http.StatusInternalServerError, "Failed to retrieve attachments")
		return
	}

	response := make([]AttachmentResponse, len(attachments))
	for i := range attachments {
		response[i] = attachmentResponse(&attachments[i])
	}

	respondOK(c, http.StatusOK, gin.H{"attachments": response})
}

// Download streams the stored file under its original name.
func (h *AttachmentHandler) Download(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	attachmentID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	boardID, err := h.guard.BoardIDForAttachment(c.Request.Context(), attachmentID)
	if err != nil {
		respondAccessError(c, err)
		return
	}

	if err := h.guard.RequireMember(c.Request.Context(), boardID, userID); err != nil {
		respondAccessError(c, err)
		return
	}

	attachment, err := h.attachmentRepo.GetByID(c.Request.Context(), attachmentID)
	if err != nil {
		if errors.Is(err, repository.ErrAttachmentNotFound) {
			respondError(c, http.StatusNotFound, "Attachment not found")
			return
		}
		respondError(c, http.StatusInternalServerError, "Failed to retrieve attachment")
		return
	}

	path, err := h.store.Path(attachment.StoredName)
	if err != nil {
		respondError(c, http.StatusInternalServerError, "Failed to locate file")
		return
	}

	c.FileAttachment(path, attachment.OriginalName)
}

// Delete removes the attachment row, then the backing file. A file that is
// already gone from disk is tolerated.
func (h *AttachmentHandler) Delete(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	attachmentID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	boardID, err := h.guard.BoardIDForAttachment(c.Request.Context(), attachmentID)
	if err != nil {
		respondAccessError(c, err)
		return
	}

	if err := h.guard.RequireMember(c.Request.Context(), boardID, userID); err != nil {
		respondAccessError(c, err)
		return
	}

	attachment, err := h.attachmentRepo.GetByID(c.Request.Context(), attachmentID)
	if err != nil {
		if errors.Is(err, repository.ErrAttachmentNotFound) {
			respondError(c, http.StatusNotFound, "Attachment not found")
			return
		}
		respondError(c, http.StatusInternalServerError, "Failed to retrieve attachment")
		return
	}

	if err := h.attachmentRepo.Delete(c.Request.Context(), attachmentID); err != nil {
		respondError(c, http.StatusInternalServerError, "Failed to delete attachment")
		return
	}

	if err := h.store.Delete(attachment.StoredName); err != nil {
		log.Printf("⚠️  Failed to remove attachment file %s: %v", attachment.StoredName, err)
	}

	respondOK(c, http.StatusOK, gin.H{"message": "Attachment deleted successfully"})
}
