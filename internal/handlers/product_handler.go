package handlers

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"shop-api/internal/cache"
	"shop-api/internal/models"
	"shop-api/internal/repository"
)

// ProductStore son las operaciones de catálogo que necesita el handler.
type ProductStore interface {
	Create(ctx context.Context, in models.ProductCreate) (*models.Product, error)
	FindByID(ctx context.Context, id string) (*models.Product, error)
	FindBySlug(ctx context.Context, slug string) (*models.Product, error)
	FindAll(ctx context.Context, f repository.ProductFilter) ([]models.Product, int64, error)
	Update(ctx context.Context, id string, in models.ProductUpdate) (*models.Product, error)
	Delete(ctx context.Context, id string) error
}

type ProductHandler struct {
	repo  ProductStore
	cache *cache.Cache
}

func NewProductHandler(repo ProductStore, c *cache.Cache) *ProductHandler {
	return &ProductHandler{repo: repo, cache: c}
}

// ListProducts lista productos con búsqueda, filtros y paginación (con caché)
func (h *ProductHandler) ListProducts(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))

	f := repository.ProductFilter{
		Query:    c.Query("q"),
		Category: c.Query("category"),
		Brand:    c.Query("brand"),
		Sort:     c.DefaultQuery("sort", "created_at"),
		Order:    c.DefaultQuery("order", "desc"),
		Page:     page,
		Limit:    limit,
	}
	if v := c.Query("min_price"); v != "" {
		if price, err := strconv.ParseFloat(v, 64); err == nil {
			f.MinPrice = &price
		}
	}
	if v := c.Query("max_price"); v != "" {
		if price, err := strconv.ParseFloat(v, 64); err == nil {
			f.MaxPrice = &price
		}
	}
	if v := c.Query("tags"); v != "" {
		for _, tag := range strings.Split(v, ",") {
			if tag = strings.TrimSpace(tag); tag != "" {
				f.Tags = append(f.Tags, tag)
			}
		}
	}

	cacheKey := fmt.Sprintf("products:list:%s", c.Request.URL.RawQuery)
	if cached, found := h.cache.Get(cacheKey); found {
		c.JSON(http.StatusOK, cached)
		return
	}

	products, total, err := h.repo.FindAll(c.Request.Context(), f)
	if err != nil {
		abortWithError(c, err)
		return
	}

	if f.Page < 1 {
		f.Page = 1
	}
	if f.Limit < 1 || f.Limit > 100 {
		f.Limit = 20
	}
	pages := int64(0)
	if total > 0 {
		pages = (total + int64(f.Limit) - 1) / int64(f.Limit)
	}

	response := gin.H{
		"items": products,
		"total": total,
		"page":  f.Page,
		"limit": f.Limit,
		"pages": pages,
	}

	h.cache.Set(cacheKey, response, 2*time.Minute)
	c.JSON(http.StatusOK, response)
}

// GetProduct obtiene un producto por ID (con caché)
func (h *ProductHandler) GetProduct(c *gin.Context) {
	productID := c.Param("id")
	cacheKey := fmt.Sprintf("product:%s", productID)

	if cached, found := h.cache.Get(cacheKey); found {
		c.JSON(http.StatusOK, cached)
		return
	}

	product, err := h.repo.FindByID(c.Request.Context(), productID)
	if err != nil {
		abortWithError(c, err)
		return
	}

	h.cache.Set(cacheKey, product, 5*time.Minute)
	c.JSON(http.StatusOK, product)
}

// GetProductBySlug obtiene un producto por slug
func (h *ProductHandler) GetProductBySlug(c *gin.Context) {
	product, err := h.repo.FindBySlug(c.Request.Context(), c.Param("slug"))
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, product)
}

// CreateProduct crea un nuevo producto (solo admin)
func (h *ProductHandler) CreateProduct(c *gin.Context) {
	var in models.ProductCreate
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	product, err := h.repo.Create(c.Request.Context(), in)
	if err != nil {
		abortWithError(c, err)
		return
	}

	h.cache.DeleteByPrefix("products:list:")
	c.JSON(http.StatusCreated, product)
}

// UpdateProduct actualiza parcialmente un producto (solo admin)
func (h *ProductHandler) UpdateProduct(c *gin.Context) {
	productID := c.Param("id")

	var in models.ProductUpdate
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	product, err := h.repo.Update(c.Request.Context(), productID, in)
	if err != nil {
		abortWithError(c, err)
		return
	}

	h.cache.Delete(fmt.Sprintf("product:%s", productID))
	h.cache.DeleteByPrefix("products:list:")
	c.JSON(http.StatusOK, product)
}

// DeleteProduct elimina un producto (solo admin)
func (h *ProductHandler) DeleteProduct(c *gin.Context) {
	productID := c.Param("id")

	if err := h.repo.Delete(c.Request.Context(), productID); err != nil {
		abortWithError(c, err)
		return
	}

	h.cache.Delete(fmt.Sprintf("product:%s", productID))
	h.cache.DeleteByPrefix("products:list:")
	c.Status(http.StatusNoContent)
}
