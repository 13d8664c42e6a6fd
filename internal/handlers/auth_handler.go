package handlers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"shop-api/internal/apperr"
	"shop-api/internal/auth"
	"shop-api/internal/middleware"
	"shop-api/internal/models"
)

// UserStore son las operaciones de usuarios que necesita el handler.
type UserStore interface {
	Create(ctx context.Context, user *models.User) error
	FindByUsername(ctx context.Context, username string) (*models.User, error)
}

type AuthHandler struct {
	users  UserStore
	tokens *auth.TokenManager
}

func NewAuthHandler(users UserStore, tokens *auth.TokenManager) *AuthHandler {
	return &AuthHandler{users: users, tokens: tokens}
}

// Register da de alta un usuario nuevo; el rol siempre arranca como user.
func (h *AuthHandler) Register(c *gin.Context) {
	var in models.UserRegister
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	hash, err := auth.HashPassword(in.Password)
	if err != nil {
		abortWithError(c, err)
		return
	}

	user := &models.User{
		Username:       in.Username,
		Email:          in.Email,
		HashedPassword: hash,
		FullName:       in.FullName,
		Role:           models.RoleUser,
		IsActive:       true,
	}
	if err := h.users.Create(c.Request.Context(), user); err != nil {
		abortWithError(c, err)
		return
	}

	c.JSON(http.StatusCreated, user)
}

// Login verifica las credenciales y emite el token de acceso.
func (h *AuthHandler) Login(c *gin.Context) {
	var in models.UserLogin
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	user, err := h.users.FindByUsername(c.Request.Context(), in.Username)
	if err != nil || !auth.CheckPassword(user.HashedPassword, in.Password) {
		// usuario inexistente y contraseña incorrecta responden igual
		abortWithError(c, apperr.Unauthenticated("incorrect username or password"))
		return
	}
	if !user.IsActive {
		abortWithError(c, apperr.Forbidden("inactive user"))
		return
	}

	token, err := h.tokens.Generate(user.Username)
	if err != nil {
		abortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"access_token": token,
		"token_type":   "bearer",
		"user":         user,
	})
}

// Me devuelve el usuario autenticado.
func (h *AuthHandler) Me(c *gin.Context) {
	user := middleware.CurrentUser(c)
	if user == nil {
		abortWithError(c, apperr.Unauthenticated("invalid authentication credentials"))
		return
	}
	c.JSON(http.StatusOK, user)
}
