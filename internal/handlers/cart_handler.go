package handlers

import (
	"context"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"shop-api/internal/apperr"
	"shop-api/internal/middleware"
	"shop-api/internal/models"
)

// CartStore son las operaciones del carrito que necesita el handler.
type CartStore interface {
	GetOrCreate(ctx context.Context, userID string) (*models.Cart, error)
	AddItem(ctx context.Context, userID, productID string, quantity int) (*models.Cart, error)
	SetQuantity(ctx context.Context, userID, productID string, quantity int) (*models.Cart, error)
	RemoveItem(ctx context.Context, userID, productID string) (*models.Cart, error)
	Clear(ctx context.Context, userID string) error
}

type CartHandler struct {
	carts CartStore
}

func NewCartHandler(carts CartStore) *CartHandler {
	return &CartHandler{carts: carts}
}

// GetCart devuelve el carrito del usuario, creándolo vacío si no existe.
func (h *CartHandler) GetCart(c *gin.Context) {
	user := middleware.CurrentUser(c)

	cart, err := h.carts.GetOrCreate(c.Request.Context(), user.ID.Hex())
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, cart)
}

// AddItem agrega un producto al carrito o incrementa su cantidad.
func (h *CartHandler) AddItem(c *gin.Context) {
	user := middleware.CurrentUser(c)

	var in models.CartItemAdd
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if in.Quantity == 0 {
		in.Quantity = 1
	}

	cart, err := h.carts.AddItem(c.Request.Context(), user.ID.Hex(), in.ProductID, in.Quantity)
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, cart)
}

// UpdateItemQuantity cambia la cantidad de una línea del carrito.
func (h *CartHandler) UpdateItemQuantity(c *gin.Context) {
	user := middleware.CurrentUser(c)

	quantity, err := strconv.Atoi(c.Query("quantity"))
	if err != nil {
		abortWithError(c, apperr.InvalidArgument("quantity must be an integer"))
		return
	}

	cart, err := h.carts.SetQuantity(c.Request.Context(), user.ID.Hex(), c.Param("product_id"), quantity)
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, cart)
}

// RemoveItem quita una línea del carrito.
func (h *CartHandler) RemoveItem(c *gin.Context) {
	user := middleware.CurrentUser(c)

	cart, err := h.carts.RemoveItem(c.Request.Context(), user.ID.Hex(), c.Param("product_id"))
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, cart)
}

// ClearCart vacía el carrito.
func (h *CartHandler) ClearCart(c *gin.Context) {
	user := middleware.CurrentUser(c)

	if err := h.carts.Clear(c.Request.Context(), user.ID.Hex()); err != nil {
		abortWithError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
