package handler

import (
	"net/http"
	"strings"

	"taskboard/internal/auth"
	"taskboard/internal/middleware"
	"taskboard/internal/model"
	"taskboard/internal/repository"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

type UserHandler struct {
	repo         repository.UserRepositoryInterface
	jwtSecret    string
	cookieSecure bool
}

func NewUserHandler(repo repository.UserRepositoryInterface, jwtSecret string, cookieSecure bool) *UserHandler {
	return &UserHandler{repo: repo, jwtSecret: jwtSecret, cookieSecure: cookieSecure}
}

type RegisterRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Name     string `json:"name" binding:"required,min=2"`
	Password string `json:"password" binding:"required,min=6"`
}

type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

type UserInfo struct {
	ID    string `json:"id"`
	Email string `json:"email"`
	Name  string `json:"name"`
}

type AuthResponse struct {
	Success bool     `json:"success"`
	Token   string   `json:"token"`
	User    UserInfo `json:"user"`
}

func (h *UserHandler) setAuthCookie(c *gin.Context, token string) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(middleware.AuthCookieName, token, int(auth.TokenTTL.Seconds()), "/", "", h.cookieSecure, true)
}

func (h *UserHandler) Register(c *gin.Context) {
	var req RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "Invalid input")
		return
	}

	req.Email = strings.ToLower(req.Email)

	existing, err := h.repo.FindByEmail(c.Request.Context(), req.Email)
	if err != nil {
		respondError(c, http.StatusInternalServerError, "Internal server error")
		return
	}
	if existing != nil {
		respondError(c, http.StatusConflict, "This email is already registered")
		return
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		respondError(c, http.StatusInternalServerError, "Internal server error")
		return
	}

	user := &model.User{
		ID:             uuid.New(),
		Email:          req.Email,
		Name:           req.Name,
		HashedPassword: string(hash),
	}

	if err := h.repo.Create(c.Request.Context(), user); err != nil {
		respondError(c, http.StatusInternalServerError, "Internal server error")
		return
	}

	token, err := auth.GenerateToken(user.ID, user.Email, h.jwtSecret)
	if err != nil {
		respondError(c, http.StatusInternalServerError, "Internal server error")
		return
	}

	h.setAuthCookie(c, token)
	c.JSON(http.StatusCreated, AuthResponse{
		Success: true,
		Token:   token,
		User:    UserInfo{ID: user.ID.String(), Email: user.Email, Name: user.Name},
	})
}

func (h *UserHandler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "Invalid input")
		return
	}

	req.Email = strings.ToLower(req.Email)

	user, err := h.repo.FindByEmail(c.Request.Context(), req.Email)
	if err != nil {
		respondError(c, http.StatusInternalServerError, "Internal server error")
		return
	}
	if user == nil {
		respondError(c, http.StatusUnauthorized, "Invalid email or password")
		return
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.HashedPassword), []byte(req.Password)); err != nil {
		respondError(c, http.StatusUnauthorized, "Invalid email or password")
		return
	}

	token, err := auth.GenerateToken(user.ID, user.Email, h.jwtSecret)
	if err != nil {
		respondError(c, http.StatusInternalServerError, "Internal server error")
		return
	}

	h.setAuthCookie(c, token)
	c.JSON(http.StatusOK, AuthResponse{
		Success: true,
		Token:   token,
		User:    UserInfo{ID: user.ID.String(), Email: user.Email, Name: user.Name},
	})
}

// Logout clears the session cookie. A negative max-age serializes as
// Max-Age=0, which tells the browser to drop the cookie immediately.
func (h *UserHandler) Logout(c *gin.Context) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(middleware.AuthCookieName, "", -1, "/", "", h.cookieSecure, true)
	respondOK(c, http.StatusOK, gin.H{"message": "Logged out"})
}

func (h *UserHandler) Me(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	user, err := h.repo.GetByID(c.Request.Context(), userID)
	if err != nil {
		respondError(c, http.StatusInternalServerError, "Internal server error")
		return
	}
	if user == nil {
		respondError(c, http.StatusNotFound, "User not found")
		return
	}

	respondOK(c, http.StatusOK, gin.H{
		"user": UserInfo{ID: user.ID.String(), Email: user.Email, Name: user.Name},
	})
}
