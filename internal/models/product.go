package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Product es la entidad del catálogo. El precio efectivo se calcula siempre
// sobre el precio vigente; el resto de la lógica de carrito/pedido lo trata
// como solo lectura.
type Product struct {
	ID           primitive.ObjectID  `json:"id" bson:"_id,omitempty"`
	Name         string              `json:"name" bson:"name"`
	Slug         string              `json:"slug" bson:"slug"`
	Description  string              `json:"description" bson:"description"`
	Price        float64             `json:"price" bson:"price"`
	Currency     string              `json:"currency" bson:"currency"`
	Discount     float64             `json:"discount" bson:"discount"`
	Category     *primitive.ObjectID `json:"category,omitempty" bson:"category,omitempty"`
	Tags         []string            `json:"tags" bson:"tags"`
	Brand        string              `json:"brand,omitempty" bson:"brand,omitempty"`
	Images       []string            `json:"images" bson:"images"`
	Specs        map[string]any      `json:"specs" bson:"specs"`
	Stock        int                 `json:"stock" bson:"stock"`
	Rating       float64             `json:"rating" bson:"rating"`
	ReviewsCount int                 `json:"reviews_count" bson:"reviews_count"`
	CreatedAt    time.Time           `json:"created_at" bson:"created_at"`
	UpdatedAt    time.Time           `json:"updated_at" bson:"updated_at"`
}

// EffectivePrice calcula el precio con el descuento porcentual aplicado.
// Valores de descuento fuera de [0,100] pasan sin corregir.
func (p *Product) EffectivePrice() float64 {
	return p.Price * (1 - p.Discount/100)
}

// FirstImage devuelve la primera imagen del producto, o vacío si no tiene.
func (p *Product) FirstImage() string {
	if len(p.Images) > 0 {
		return p.Images[0]
	}
	return ""
}

// ProductCreate es el payload de alta (solo admin)
type ProductCreate struct {
	Name        string         `json:"name" binding:"required"`
	Description string         `json:"description" binding:"required"`
	Price       float64        `json:"price" binding:"required"`
	Currency    string         `json:"currency"`
	Discount    float64        `json:"discount"`
	Category    string         `json:"category"`
	Tags        []string       `json:"tags"`
	Brand       string         `json:"brand"`
	Images      []string       `json:"images"`
	Specs       map[string]any `json:"specs"`
	Stock       int            `json:"stock"`
}

// ProductUpdate son los campos parcialmente actualizables
type ProductUpdate struct {
	Name        *string        `json:"name,omitempty"`
	Description *string        `json:"description,omitempty"`
	Price       *float64       `json:"price,omitempty"`
	Currency    *string        `json:"currency,omitempty"`
	Discount    *float64       `json:"discount,omitempty"`
	Category    *string        `json:"category,omitempty"`
	Tags        []string       `json:"tags,omitempty"`
	Brand       *string        `json:"brand,omitempty"`
	Images      []string       `json:"images,omitempty"`
	Specs       map[string]any `json:"specs,omitempty"`
	Stock       *int           `json:"stock,omitempty"`
}
