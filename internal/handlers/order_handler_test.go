package handlers_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"shop-api/internal/apperr"
	"shop-api/internal/handlers"
	"shop-api/internal/middleware"
	"shop-api/internal/models"
	"shop-api/internal/repository"
)

type fakeOrderStore struct {
	createFromCartFunc func(ctx context.Context, userID string, in models.OrderCreate) (*models.Order, error)
	listByUserFunc     func(ctx context.Context, userID string) ([]models.Order, error)
	listAllFunc        func(ctx context.Context, f repository.OrderFilter) ([]models.Order, error)
	getByIDFunc        func(ctx context.Context, id string) (*models.Order, error)
	updateStatusFunc   func(ctx context.Context, id, status, note string) (*models.Order, error)
	summaryFunc        func(ctx context.Context) (*models.OrderSummary, error)
	metricsFunc        func(ctx context.Context) (*models.OrderMetrics, error)
}

func (f *fakeOrderStore) CreateFromCart(ctx context.Context, userID string, in models.OrderCreate) (*models.Order, error) {
	return f.createFromCartFunc(ctx, userID, in)
}

func (f *fakeOrderStore) ListByUser(ctx context.Context, userID string) ([]models.Order, error) {
	return f.listByUserFunc(ctx, userID)
}

func (f *fakeOrderStore) ListAll(ctx context.Context, filter repository.OrderFilter) ([]models.Order, error) {
	return f.listAllFunc(ctx, filter)
}

func (f *fakeOrderStore) GetByID(ctx context.Context, id string) (*models.Order, error) {
	return f.getByIDFunc(ctx, id)
}

func (f *fakeOrderStore) UpdateStatus(ctx context.Context, id, status, note string) (*models.Order, error) {
	return f.updateStatusFunc(ctx, id, status, note)
}

func (f *fakeOrderStore) Summary(ctx context.Context) (*models.OrderSummary, error) {
	return f.summaryFunc(ctx)
}

func (f *fakeOrderStore) Metrics(ctx context.Context) (*models.OrderMetrics, error) {
	return f.metricsFunc(ctx)
}

func orderRouter(store handlers.OrderStore, user *models.User) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.Use(func(c *gin.Context) {
		middleware.SetCurrentUser(c, user)
	})

	h := handlers.NewOrderHandler(store)
	router.POST("/api/orders", h.CreateOrder)
	router.GET("/api/orders", h.ListMyOrders)
	router.GET("/api/orders/all", h.ListAllOrders)
	router.GET("/api/orders/summary", h.GetOrderSummary)
	router.GET("/api/orders/metrics", h.GetOrderMetrics)
	router.GET("/api/orders/:id", h.GetOrder)
	router.PATCH("/api/orders/:id/status", h.UpdateOrderStatus)
	return router
}

const checkoutBody = `{"full_name":"Nguyen Van A","email":"a@example.com","phone":"0900000000","address":"123 Market St"}`

func TestCreateOrder(t *testing.T) {
	user := newTestUser(models.RoleUser)
	store := &fakeOrderStore{
		createFromCartFunc: func(_ context.Context, userID string, in models.OrderCreate) (*models.Order, error) {
			assert.Equal(t, user.ID.Hex(), userID)
			assert.Equal(t, "Nguyen Van A", in.FullName)
			return &models.Order{
				ID:     primitive.NewObjectID(),
				UserID: userID,
				Total:  250,
				Status: models.StatusPending,
			}, nil
		},
	}

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/orders", strings.NewReader(checkoutBody))
	req.Header.Set("Content-Type", "application/json")
	orderRouter(store, user).ServeHTTP(w, req)

	require.Equal(t, http.StatusCreated, w.Code)

	var body map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "pending", body["status"])
	assert.Equal(t, 250.0, body["total"])
}

func TestCreateOrderInvalidPayload(t *testing.T) {
	user := newTestUser(models.RoleUser)
	store := &fakeOrderStore{
		createFromCartFunc: func(_ context.Context, _ string, _ models.OrderCreate) (*models.Order, error) {
			t.Fatal("store must not be called on invalid payload")
			return nil, nil
		},
	}

	// falta el email
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/orders",
		strings.NewReader(`{"full_name":"A","phone":"1","address":"x"}`))
	req.Header.Set("Content-Type", "application/json")
	orderRouter(store, user).ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestCreateOrderErrorMapping(t *testing.T) {
	user := newTestUser(models.RoleUser)

	tests := []struct {
		name string
		err  error
		want int
	}{
		{"carrito vacío", apperr.InvalidState("cart is empty"), http.StatusBadRequest},
		{"referencia inválida", apperr.InvalidArgument("invalid product in cart"), http.StatusBadRequest},
		{"producto eliminado", apperr.NotFound("some products in the cart no longer exist"), http.StatusNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := &fakeOrderStore{
				createFromCartFunc: func(_ context.Context, _ string, _ models.OrderCreate) (*models.Order, error) {
					return nil, tt.err
				},
			}
			w := httptest.NewRecorder()
			req := httptest.NewRequest(http.MethodPost, "/api/orders", strings.NewReader(checkoutBody))
			req.Header.Set("Content-Type", "application/json")
			orderRouter(store, user).ServeHTTP(w, req)
			assert.Equal(t, tt.want, w.Code)
		})
	}
}

func TestGetOrderOwnership(t *testing.T) {
	owner := newTestUser(models.RoleUser)
	stranger := newTestUser(models.RoleUser)
	admin := newTestUser(models.RoleAdmin)

	order := &models.Order{
		ID:     primitive.NewObjectID(),
		UserID: owner.ID.Hex(),
		Status: models.StatusPending,
	}
	store := &fakeOrderStore{
		getByIDFunc: func(_ context.Context, _ string) (*models.Order, error) {
			return order, nil
		},
	}

	tests := []struct {
		name string
		user *models.User
		want int
	}{
		{"dueño", owner, http.StatusOK},
		{"otro usuario", stranger, http.StatusForbidden},
		{"admin", admin, http.StatusOK},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			req := httptest.NewRequest(http.MethodGet, "/api/orders/"+order.ID.Hex(), nil)
			orderRouter(store, tt.user).ServeHTTP(w, req)
			assert.Equal(t, tt.want, w.Code)
		})
	}
}

func TestGetOrderNotFound(t *testing.T) {
	user := newTestUser(models.RoleUser)
	store := &fakeOrderStore{
		getByIDFunc: func(_ context.Context, _ string) (*models.Order, error) {
			return nil, apperr.NotFound("order not found")
		},
	}

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/orders/"+primitive.NewObjectID().Hex(), nil)
	orderRouter(store, user).ServeHTTP(w, req)

	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestListAllOrdersFilters(t *testing.T) {
	admin := newTestUser(models.RoleAdmin)

	t.Run("filtros pasados al store", func(t *testing.T) {
		var got repository.OrderFilter
		store := &fakeOrderStore{
			listAllFunc: func(_ context.Context, f repository.OrderFilter) ([]models.Order, error) {
				got = f
				return []models.Order{}, nil
			},
		}
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet,
			"/api/orders/all?status=pending&search=nguyen&start_date=2025-03-01&end_date=2025-03-10", nil)
		orderRouter(store, admin).ServeHTTP(w, req)

		require.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "pending", got.Status)
		assert.Equal(t, "nguyen", got.Search)
		require.NotNil(t, got.Start)
		require.NotNil(t, got.End)
		assert.Equal(t, "2025-03-01", got.Start.Format("2006-01-02"))
		assert.Equal(t, "2025-03-10", got.End.Format("2006-01-02"))
	})

	t.Run("fecha inválida", func(t *testing.T) {
		store := &fakeOrderStore{}
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/api/orders/all?start_date=not-a-date", nil)
		orderRouter(store, admin).ServeHTTP(w, req)
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("estado inválido reportado por el store", func(t *testing.T) {
		store := &fakeOrderStore{
			listAllFunc: func(_ context.Context, _ repository.OrderFilter) ([]models.Order, error) {
				return nil, apperr.InvalidArgument("invalid status value")
			},
		}
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/api/orders/all?status=shipped", nil)
		orderRouter(store, admin).ServeHTTP(w, req)
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}

func TestUpdateOrderStatus(t *testing.T) {
	admin := newTestUser(models.RoleAdmin)

	t.Run("estado fuera del enum", func(t *testing.T) {
		store := &fakeOrderStore{
			updateStatusFunc: func(_ context.Context, _, _, _ string) (*models.Order, error) {
				t.Fatal("store must not be called on invalid payload")
				return nil, nil
			},
		}
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPatch, "/api/orders/abc/status",
			strings.NewReader(`{"status":"shipped"}`))
		req.Header.Set("Content-Type", "application/json")
		orderRouter(store, admin).ServeHTTP(w, req)
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("estado y nota aplicados", func(t *testing.T) {
		var gotStatus, gotNote string
		store := &fakeOrderStore{
			updateStatusFunc: func(_ context.Context, _, status, note string) (*models.Order, error) {
				gotStatus, gotNote = status, note
				return &models.Order{Status: status}, nil
			},
		}
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPatch, "/api/orders/abc/status",
			strings.NewReader(`{"status":"processing","note":"packing"}`))
		req.Header.Set("Content-Type", "application/json")
		orderRouter(store, admin).ServeHTTP(w, req)

		require.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "processing", gotStatus)
		assert.Equal(t, "packing", gotNote)
	})
}

func TestGetOrderSummary(t *testing.T) {
	admin := newTestUser(models.RoleAdmin)
	store := &fakeOrderStore{
		summaryFunc: func(_ context.Context) (*models.OrderSummary, error) {
			return &models.OrderSummary{
				TotalOrders:  0,
				TotalRevenue: 0,
				StatusCounts: map[string]int{},
			}, nil
		},
	}

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/orders/summary", nil)
	orderRouter(store, admin).ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)

	var body models.OrderSummary
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Zero(t, body.TotalOrders)
	assert.Zero(t, body.TotalRevenue)
	assert.Empty(t, body.StatusCounts)
}

func TestGetOrderMetrics(t *testing.T) {
	admin := newTestUser(models.RoleAdmin)
	store := &fakeOrderStore{
		metricsFunc: func(_ context.Context) (*models.OrderMetrics, error) {
			return &models.OrderMetrics{
				RevenueByDate: []models.RevenuePoint{{Date: "2025-03-10", Total: 250}},
				TopProducts:   []models.TopProduct{{ProductID: "p1", Name: "Phone", Quantity: 2, Revenue: 200}},
			}, nil
		},
	}

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/orders/metrics", nil)
	orderRouter(store, admin).ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)

	var body models.OrderMetrics
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	require.Len(t, body.TopProducts, 1)
	assert.Equal(t, "Phone", body.TopProducts[0].Name)
}
