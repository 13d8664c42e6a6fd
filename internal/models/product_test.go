package models_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"shop-api/internal/models"
)

func TestProductEffectivePrice(t *testing.T) {
	tests := []struct {
		name     string
		price    float64
		discount float64
		want     float64
	}{
		{name: "sin descuento", price: 100, discount: 0, want: 100},
		{name: "descuento parcial", price: 100, discount: 25, want: 75},
		{name: "mitad de precio", price: 200, discount: 50, want: 100},
		{name: "descuento total", price: 80, discount: 100, want: 0},
		{name: "descuento mayor a 100 pasa sin corregir", price: 100, discount: 150, want: -50},
		{name: "descuento negativo actúa como recargo", price: 100, discount: -10, want: 110},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := models.Product{Price: tt.price, Discount: tt.discount}
			assert.InDelta(t, tt.want, p.EffectivePrice(), 1e-9)
		})
	}
}

func TestProductFirstImage(t *testing.T) {
	p := models.Product{Images: []string{"a.jpg", "b.jpg"}}
	assert.Equal(t, "a.jpg", p.FirstImage())

	empty := models.Product{}
	assert.Equal(t, "", empty.FirstImage())
}
