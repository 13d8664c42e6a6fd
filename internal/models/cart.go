package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"shop-api/internal/apperr"
)

// CartItem es una línea del carrito. Price es un snapshot tomado la última
// vez que la línea fue (re)agregada; nunca una referencia viva al producto.
type CartItem struct {
	ProductID string  `json:"product_id" bson:"product_id"`
	Quantity  int     `json:"quantity" bson:"quantity"`
	Price     float64 `json:"price" bson:"price"`
}

// Cart es el carrito por usuario; a lo sumo un documento por user_id.
// Total es derivado en cada lectura y nunca se persiste.
type Cart struct {
	ID        primitive.ObjectID `json:"id" bson:"_id,omitempty"`
	UserID    string             `json:"user_id" bson:"user_id"`
	Items     []CartItem         `json:"items" bson:"items"`
	Total     float64            `json:"total" bson:"-"`
	CreatedAt time.Time          `json:"created_at" bson:"created_at"`
	UpdatedAt time.Time          `json:"updated_at" bson:"updated_at"`
}

// ComputeTotal recalcula el total derivado a partir de las líneas.
func (c *Cart) ComputeTotal() {
	total := 0.0
	for _, item := range c.Items {
		total += float64(item.Quantity) * item.Price
	}
	c.Total = total
}

// AddItem fusiona una línea existente (suma cantidad y refresca el precio
// snapshot) o agrega una línea nueva al final.
func (c *Cart) AddItem(productID string, quantity int, price float64) {
	for i := range c.Items {
		if c.Items[i].ProductID == productID {
			c.Items[i].Quantity += quantity
			c.Items[i].Price = price
			return
		}
	}
	c.Items = append(c.Items, CartItem{ProductID: productID, Quantity: quantity, Price: price})
}

// SetQuantity cambia la cantidad de una línea sin tocar el precio snapshot.
func (c *Cart) SetQuantity(productID string, quantity int) error {
	if quantity <= 0 {
		return apperr.InvalidArgument("quantity must be greater than 0")
	}
	for i := range c.Items {
		if c.Items[i].ProductID == productID {
			c.Items[i].Quantity = quantity
			return nil
		}
	}
	return apperr.NotFound("item not found in cart")
}

// RemoveItem quita la línea del producto; si no existe no hace nada.
func (c *Cart) RemoveItem(productID string) {
	items := make([]CartItem, 0, len(c.Items))
	for _, item := range c.Items {
		if item.ProductID != productID {
			items = append(items, item)
		}
	}
	c.Items = items
}

// CartItemAdd es el payload para agregar al carrito
type CartItemAdd struct {
	ProductID string `json:"product_id" binding:"required"`
	Quantity  int    `json:"quantity" binding:"omitempty,min=1"`
}
