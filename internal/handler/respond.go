package handler

import (
	"errors"
	"net/http"

	"taskboard/internal/access"
	"taskboard/internal/middleware"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// respondOK writes the success envelope with any extra payload fields.
func respondOK(c *gin.Context, status int, data gin.H) {
	body := gin.H{"success": true}
	for k, v := range data {
		body[k] = v
	}
	c.JSON(status, body)
}

func respondError(c *gin.Context, status int, message string) {
	c.JSON(status, gin.H{"success": false, "message": message})
}

// respondAccessError maps guard errors onto the response policy: a missing
// membership is hidden as not-found, a role mismatch is an explicit 403.
func respondAccessError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, access.ErrNoAccess):
		respondError(c, http.StatusNotFound, "Resource not found")
	case errors.Is(err, access.ErrOwnerRequired):
		respondError(c, http.StatusForbidden, "Only the board owner can do this")
	default:
		respondError(c, http.StatusInternalServerError, "Internal server error")
	}
}

// currentUserID reads the authenticated user's ID set by the auth
// middleware. A missing or malformed value ends the request.
func currentUserID(c *gin.Context) (uuid.UUID, bool) {
	value, exists := c.Get(middleware.UserIDKey)
	if !exists {
		respondError(c, http.StatusUnauthorized, "Not authenticated")
		return uuid.Nil, false
	}
	userID, ok := value.(uuid.UUID)
	if !ok {
		respondError(c, http.StatusInternalServerError, "Invalid user ID format")
		return uuid.Nil, false
	}
	return userID, true
}

// parseIDParam parses a UUID path parameter, answering 400 on failure.
func parseIDParam(c *gin.Context, name string) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param(name))
	if err != nil {
		respondError(c, http.StatusBadRequest, "Invalid ID format")
		return uuid.Nil, false
	}
	return id, true
}
