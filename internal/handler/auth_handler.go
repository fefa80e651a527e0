package handler

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"stoxwatch/internal/auth"

	"github.com/gin-gonic/gin"
)

type AuthService interface {
	SignUp(ctx context.Context, in auth.SignUpInput) (*auth.Session, error)
	SignIn(ctx context.Context, email, password string) (*auth.Session, error)
}

type AuthHandler struct {
	service AuthService
}

func NewAuthHandler(service AuthService) *AuthHandler {
	return &AuthHandler{service: service}
}

func (h *AuthHandler) SignUp(c *gin.Context) {
	var req auth.SignUpInput
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "Invalid request body"})
		return
	}

	session, err := h.service.SignUp(c.Request.Context(), req)
	switch {
	case errors.Is(err, auth.ErrInvalidInput):
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": err.Error()})
		return
	case errors.Is(err, auth.ErrEmailTaken):
		c.JSON(http.StatusConflict, gin.H{"success": false, "error": "Email already registered"})
		return
	case err != nil:
		slog.Error("sign up failed", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "Sign up failed"})
		return
	}

	c.JSON(http.StatusCreated, gin.H{"success": true, "data": session})
}

func (h *AuthHandler) SignIn(c *gin.Context) {
	var req SignInRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "Invalid request body"})
		return
	}

	session, err := h.service.SignIn(c.Request.Context(), req.Email, req.Password)
	if errors.Is(err, auth.ErrInvalidCredentials) {
		c.JSON(http.StatusUnauthorized, gin.H{"success": false, "error": "Invalid email or password"})
		return
	}
	if err != nil {
		slog.Error("sign in failed", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "Sign in failed"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "data": session})
}

// SignOut is an acknowledgement; tokens are stateless and expire on their own.
func (h *AuthHandler) SignOut(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"success": true})
}

func (h *AuthHandler) Session(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"user": currentUser(c)})
}
