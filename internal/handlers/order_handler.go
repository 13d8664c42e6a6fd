package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"shop-api/internal/apperr"
	"shop-api/internal/middleware"
	"shop-api/internal/models"
	"shop-api/internal/repository"
)

// OrderStore son las operaciones de pedidos que necesita el handler.
type OrderStore interface {
	CreateFromCart(ctx context.Context, userID string, in models.OrderCreate) (*models.Order, error)
	ListByUser(ctx context.Context, userID string) ([]models.Order, error)
	ListAll(ctx context.Context, f repository.OrderFilter) ([]models.Order, error)
	GetByID(ctx context.Context, id string) (*models.Order, error)
	UpdateStatus(ctx context.Context, id, status, note string) (*models.Order, error)
	Summary(ctx context.Context) (*models.OrderSummary, error)
	Metrics(ctx context.Context) (*models.OrderMetrics, error)
}

type OrderHandler struct {
	orders OrderStore
}

func NewOrderHandler(orders OrderStore) *OrderHandler {
	return &OrderHandler{orders: orders}
}

// CreateOrder convierte el carrito del usuario en un pedido.
func (h *OrderHandler) CreateOrder(c *gin.Context) {
	user := middleware.CurrentUser(c)

	var in models.OrderCreate
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	order, err := h.orders.CreateFromCart(c.Request.Context(), user.ID.Hex(), in)
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusCreated, order)
}

// ListMyOrders lista los pedidos del usuario autenticado.
func (h *OrderHandler) ListMyOrders(c *gin.Context) {
	user := middleware.CurrentUser(c)

	orders, err := h.orders.ListByUser(c.Request.Context(), user.ID.Hex())
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, orders)
}

// ListAllOrders es la vista admin con filtros.
func (h *OrderHandler) ListAllOrders(c *gin.Context) {
	f := repository.OrderFilter{
		Status: c.Query("status"),
		Search: c.Query("search"),
	}

	if v := c.Query("start_date"); v != "" {
		t, err := parseDate(v)
		if err != nil {
			abortWithError(c, apperr.InvalidArgument("invalid start_date"))
			return
		}
		f.Start = &t
	}
	if v := c.Query("end_date"); v != "" {
		t, err := parseDate(v)
		if err != nil {
			abortWithError(c, apperr.InvalidArgument("invalid end_date"))
			return
		}
		f.End = &t
	}

	orders, err := h.orders.ListAll(c.Request.Context(), f)
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, orders)
}

// GetOrderSummary devuelve los contadores globales de pedidos (solo admin).
func (h *OrderHandler) GetOrderSummary(c *gin.Context) {
	summary, err := h.orders.Summary(c.Request.Context())
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, summary)
}

// GetOrderMetrics devuelve revenue por fecha y top de productos (solo admin).
func (h *OrderHandler) GetOrderMetrics(c *gin.Context) {
	metrics, err := h.orders.Metrics(c.Request.Context())
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, metrics)
}

// GetOrder devuelve el detalle; solo el dueño o un admin pueden verlo.
func (h *OrderHandler) GetOrder(c *gin.Context) {
	user := middleware.CurrentUser(c)

	order, err := h.orders.GetByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		abortWithError(c, err)
		return
	}

	if !user.IsAdmin() && order.UserID != user.ID.Hex() {
		abortWithError(c, apperr.Forbidden("you cannot view this order"))
		return
	}
	c.JSON(http.StatusOK, order)
}

// UpdateOrderStatus fija el estado y registra la nota opcional (solo admin).
func (h *OrderHandler) UpdateOrderStatus(c *gin.Context) {
	var in models.OrderStatusUpdate
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	order, err := h.orders.UpdateStatus(c.Request.Context(), c.Param("id"), in.Status, in.Note)
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, order)
}

// parseDate acepta fechas RFC3339 o solo día (YYYY-MM-DD), siempre en UTC.
func parseDate(value string) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339, value); err == nil {
		return t.UTC(), nil
	}
	return time.Parse("2006-01-02", value)
}
