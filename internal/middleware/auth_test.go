package middleware_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"shop-api/internal/apperr"
	"shop-api/internal/auth"
	"shop-api/internal/middleware"
	"shop-api/internal/models"
)

type fakeUserFinder struct {
	findFunc func(ctx context.Context, username string) (*models.User, error)
}

func (f *fakeUserFinder) FindByUsername(ctx context.Context, username string) (*models.User, error) {
	return f.findFunc(ctx, username)
}

func authRouter(tokens *auth.TokenManager, users middleware.UserFinder, admin bool) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()

	handler := func(c *gin.Context) {
		user := middleware.CurrentUser(c)
		if user == nil {
			c.JSON(http.StatusInternalServerError, gin.H{"detail": "no user in context"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"username": user.Username})
	}

	if admin {
		router.GET("/protected", middleware.RequireAuth(tokens, users), middleware.RequireAdmin(), handler)
	} else {
		router.GET("/protected", middleware.RequireAuth(tokens, users), handler)
	}
	return router
}

func activeUser(role string) *models.User {
	return &models.User{
		ID:       primitive.NewObjectID(),
		Username: "alice",
		Role:     role,
		IsActive: true,
	}
}

func TestRequireAuthMissingHeader(t *testing.T) {
	tokens := auth.NewTokenManager("secret", time.Minute)
	users := &fakeUserFinder{}

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	authRouter(tokens, users, false).ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestRequireAuthBadToken(t *testing.T) {
	tokens := auth.NewTokenManager("secret", time.Minute)
	users := &fakeUserFinder{}

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set("Authorization", "Bearer garbage")
	authRouter(tokens, users, false).ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestRequireAuthUnknownUser(t *testing.T) {
	tokens := auth.NewTokenManager("secret", time.Minute)
	users := &fakeUserFinder{
		findFunc: func(_ context.Context, _ string) (*models.User, error) {
			return nil, apperr.NotFound("user not found")
		},
	}

	token, err := tokens.Generate("ghost")
	require.NoError(t, err)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	authRouter(tokens, users, false).ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestRequireAuthInactiveUser(t *testing.T) {
	tokens := auth.NewTokenManager("secret", time.Minute)
	user := activeUser(models.RoleUser)
	user.IsActive = false
	users := &fakeUserFinder{
		findFunc: func(_ context.Context, _ string) (*models.User, error) {
			return user, nil
		},
	}

	token, err := tokens.Generate(user.Username)
	require.NoError(t, err)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	authRouter(tokens, users, false).ServeHTTP(w, req)

	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestRequireAuthSuccess(t *testing.T) {
	tokens := auth.NewTokenManager("secret", time.Minute)
	user := activeUser(models.RoleUser)
	users := &fakeUserFinder{
		findFunc: func(_ context.Context, username string) (*models.User, error) {
			assert.Equal(t, user.Username, username)
			return user, nil
		},
	}

	token, err := tokens.Generate(user.Username)
	require.NoError(t, err)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	authRouter(tokens, users, false).ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "alice")
}

func TestRequireAdmin(t *testing.T) {
	tokens := auth.NewTokenManager("secret", time.Minute)

	tests := []struct {
		name string
		role string
		want int
	}{
		{"usuario común", models.RoleUser, http.StatusForbidden},
		{"admin", models.RoleAdmin, http.StatusOK},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			user := activeUser(tt.role)
			users := &fakeUserFinder{
				findFunc: func(_ context.Context, _ string) (*models.User, error) {
					return user, nil
				},
			}

			token, err := tokens.Generate(user.Username)
			require.NoError(t, err)

			w := httptest.NewRecorder()
			req := httptest.NewRequest(http.MethodGet, "/protected", nil)
			req.Header.Set("Authorization", "Bearer "+token)
			authRouter(tokens, users, true).ServeHTTP(w, req)

			assert.Equal(t, tt.want, w.Code)
		})
	}
}
