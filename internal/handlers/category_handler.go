package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"shop-api/internal/cache"
	"shop-api/internal/models"
)

// CategoryStore son las operaciones de categorías que necesita el handler.
type CategoryStore interface {
	FindAllActive(ctx context.Context) ([]models.Category, error)
	FindByID(ctx context.Context, id string) (*models.Category, error)
	Create(ctx context.Context, in models.CategoryCreate) (*models.Category, error)
	Update(ctx context.Context, id string, in models.CategoryUpdate) (*models.Category, error)
	Delete(ctx context.Context, id string) error
}

type CategoryHandler struct {
	repo  CategoryStore
	cache *cache.Cache
}

func NewCategoryHandler(repo CategoryStore, c *cache.Cache) *CategoryHandler {
	return &CategoryHandler{repo: repo, cache: c}
}

// ListCategories lista las categorías activas (con caché)
func (h *CategoryHandler) ListCategories(c *gin.Context) {
	const cacheKey = "categories:list"
	if cached, found := h.cache.Get(cacheKey); found {
		c.JSON(http.StatusOK, cached)
		return
	}

	categories, err := h.repo.FindAllActive(c.Request.Context())
	if err != nil {
		abortWithError(c, err)
		return
	}

	h.cache.Set(cacheKey, categories, 5*time.Minute)
	c.JSON(http.StatusOK, categories)
}

// GetCategory obtiene una categoría por ID
func (h *CategoryHandler) GetCategory(c *gin.Context) {
	category, err := h.repo.FindByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, category)
}

// CreateCategory crea una categoría (solo admin)
func (h *CategoryHandler) CreateCategory(c *gin.Context) {
	var in models.CategoryCreate
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	category, err := h.repo.Create(c.Request.Context(), in)
	if err != nil {
		abortWithError(c, err)
		return
	}

	h.cache.Delete("categories:list")
	c.JSON(http.StatusCreated, category)
}

// UpdateCategory actualiza parcialmente una categoría (solo admin)
func (h *CategoryHandler) UpdateCategory(c *gin.Context) {
	var in models.CategoryUpdate
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	category, err := h.repo.Update(c.Request.Context(), c.Param("id"), in)
	if err != nil {
		abortWithError(c, err)
		return
	}

	h.cache.Delete("categories:list")
	c.JSON(http.StatusOK, category)
}

// DeleteCategory elimina una categoría (solo admin)
func (h *CategoryHandler) DeleteCategory(c *gin.Context) {
	if err := h.repo.Delete(c.Request.Context(), c.Param("id")); err != nil {
		abortWithError(c, err)
		return
	}

	h.cache.Delete("categories:list")
	c.Status(http.StatusNoContent)
}
