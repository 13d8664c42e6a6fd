package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"shop-api/internal/apperr"
)

const (
	StatusPending    = "pending"
	StatusProcessing = "processing"
	StatusCompleted  = "completed"
	StatusCancelled  = "cancelled"
)

// OrderStatuses son los estados válidos. Las transiciones entre ellos no se
// restringen: un admin puede fijar cualquier estado en cualquier momento.
var OrderStatuses = []string{StatusPending, StatusProcessing, StatusCompleted, StatusCancelled}

func ValidStatus(status string) bool {
	for _, s := range OrderStatuses {
		if s == status {
			return true
		}
	}
	return false
}

// OrderItem es una línea desnormalizada: copia los atributos del producto al
// momento de crear el pedido, desacoplada de ediciones o borrados posteriores.
type OrderItem struct {
	ProductID   string  `json:"product_id" bson:"product_id"`
	ProductName string  `json:"product_name" bson:"product_name"`
	Price       float64 `json:"price" bson:"price"`
	Quantity    int     `json:"quantity" bson:"quantity"`
	Image       string  `json:"image,omitempty" bson:"image,omitempty"`
}

type ShippingInfo struct {
	FullName string `json:"full_name" bson:"full_name"`
	Email    string `json:"email" bson:"email"`
	Phone    string `json:"phone" bson:"phone"`
	Address  string `json:"address" bson:"address"`
}

// Order es un registro histórico inmutable una vez creado, salvo status,
// status_notes (solo append) y updated_at. Total se calcula una única vez
// sobre las líneas capturadas y no se recalcula nunca.
type Order struct {
	ID          primitive.ObjectID `json:"id" bson:"_id,omitempty"`
	UserID      string             `json:"user_id" bson:"user_id"`
	Items       []OrderItem        `json:"items" bson:"items"`
	Total       float64            `json:"total" bson:"total"`
	Status      string             `json:"status" bson:"status"`
	Shipping    ShippingInfo       `json:"shipping" bson:"shipping"`
	Note        string             `json:"note,omitempty" bson:"note,omitempty"`
	StatusNotes []string           `json:"status_notes" bson:"status_notes"`
	CreatedAt   time.Time          `json:"created_at" bson:"created_at"`
	UpdatedAt   time.Time          `json:"updated_at" bson:"updated_at"`
}

// OrderCreate es el payload de checkout: datos de envío y nota opcional.
type OrderCreate struct {
	FullName string `json:"full_name" binding:"required"`
	Email    string `json:"email" binding:"required,email"`
	Phone    string `json:"phone" binding:"required"`
	Address  string `json:"address" binding:"required"`
	Note     string `json:"note"`
}

// OrderStatusUpdate es el payload de cambio de estado (solo admin)
type OrderStatusUpdate struct {
	Status string `json:"status" binding:"required,oneof=pending processing completed cancelled"`
	Note   string `json:"note"`
}

type OrderSummary struct {
	TotalOrders  int64          `json:"total_orders"`
	TotalRevenue float64        `json:"total_revenue"`
	StatusCounts map[string]int `json:"status_counts"`
}

type RevenuePoint struct {
	Date  string  `json:"date"`
	Total float64 `json:"total"`
}

type TopProduct struct {
	ProductID string  `json:"product_id"`
	Name      string  `json:"name"`
	Quantity  int     `json:"quantity"`
	Revenue   float64 `json:"revenue"`
}

type OrderMetrics struct {
	RevenueByDate []RevenuePoint `json:"revenue_by_date"`
	TopProducts   []TopProduct   `json:"top_products"`
}

// BuildOrder arma el pedido a partir del carrito y los productos resueltos.
// Aborta completo ante carrito vacío, referencia inválida o producto ausente;
// el que llama no debe haber escrito nada todavía cuando esto falla.
func BuildOrder(userID string, cart *Cart, products map[string]*Product, in OrderCreate, now time.Time) (*Order, error) {
	if cart == nil || len(cart.Items) == 0 {
		return nil, apperr.InvalidState("cart is empty, add products before placing an order")
	}

	items := make([]OrderItem, 0, len(cart.Items))
	total := 0.0

	for _, line := range cart.Items {
		if _, err := primitive.ObjectIDFromHex(line.ProductID); err != nil {
			return nil, apperr.InvalidArgument("invalid product in cart: " + line.ProductID)
		}

		product, ok := products[line.ProductID]
		if !ok || product == nil {
			return nil, apperr.NotFound("some products in the cart no longer exist")
		}

		total += line.Price * float64(line.Quantity)
		items = append(items, OrderItem{
			ProductID:   line.ProductID,
			ProductName: product.Name,
			Price:       line.Price,
			Quantity:    line.Quantity,
			Image:       product.FirstImage(),
		})
	}

	return &Order{
		UserID: userID,
		Items:  items,
		Total:  total,
		Status: StatusPending,
		Shipping: ShippingInfo{
			FullName: in.FullName,
			Email:    in.Email,
			Phone:    in.Phone,
			Address:  in.Address,
		},
		Note:        in.Note,
		StatusNotes: []string{},
		CreatedAt:   now,
		UpdatedAt:   now,
	}, nil
}
