package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"shop-api/internal/auth"
	"shop-api/internal/models"
)

const currentUserKey = "currentUser"

// UserFinder resuelve el subject del token a un usuario.
type UserFinder interface {
	FindByUsername(ctx context.Context, username string) (*models.User, error)
}

// RequireAuth resuelve la credencial bearer a un usuario activo y lo deja en
// el contexto del request. Credencial ausente o inválida corta con 401;
// usuario inactivo corta con 403.
func RequireAuth(tokens *auth.TokenManager, users UserFinder) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		token, ok := strings.CutPrefix(header, "Bearer ")
		if !ok || token == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid authentication credentials"})
			return
		}

		username, err := tokens.Verify(token)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid authentication credentials"})
			return
		}

		user, err := users.FindByUsername(c.Request.Context(), username)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "user not found"})
			return
		}
		if !user.IsActive {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "inactive user"})
			return
		}

		c.Set(currentUserKey, user)
		c.Next()
	}
}

// RequireAdmin corta con 403 si el usuario autenticado no es admin.
func RequireAdmin() gin.HandlerFunc {
	return func(c *gin.Context) {
		user := CurrentUser(c)
		if user == nil || !user.IsAdmin() {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "not enough permissions"})
			return
		}
		c.Next()
	}
}

// CurrentUser devuelve el usuario resuelto por RequireAuth, o nil.
func CurrentUser(c *gin.Context) *models.User {
	value, ok := c.Get(currentUserKey)
	if !ok {
		return nil
	}
	user, ok := value.(*models.User)
	if !ok {
		return nil
	}
	return user
}

// SetCurrentUser inyecta el usuario en el contexto; lo usan los tests.
func SetCurrentUser(c *gin.Context, user *models.User) {
	c.Set(currentUserKey, user)
}
