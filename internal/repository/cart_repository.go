package repository

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"shop-api/internal/apperr"
	"shop-api/internal/models"
)

// CartRepository administra el carrito por usuario. Cada mutación es un solo
// update atómico sobre el documento; dos mutaciones concurrentes sobre el
// mismo carrito hacen read-modify-write de la lista completa de líneas y
// gana la última escritura.
type CartRepository struct {
	carts    *mongo.Collection
	products *mongo.Collection
}

func NewCartRepository(carts, products *mongo.Collection) *CartRepository {
	return &CartRepository{carts: carts, products: products}
}

// GetOrCreate devuelve el carrito del usuario, creándolo vacío si no existe.
func (r *CartRepository) GetOrCreate(ctx context.Context, userID string) (*models.Cart, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	return r.getOrCreate(ctx, userID)
}

func (r *CartRepository) getOrCreate(ctx context.Context, userID string) (*models.Cart, error) {
	var cart models.Cart
	err := r.carts.FindOne(ctx, bson.M{"user_id": userID}).Decode(&cart)
	if err == nil {
		cart.ComputeTotal()
		return &cart, nil
	}
	if err != mongo.ErrNoDocuments {
		return nil, err
	}

	now := time.Now().UTC()
	cart = models.Cart{
		ID:        primitive.NewObjectID(),
		UserID:    userID,
		Items:     []models.CartItem{},
		CreatedAt: now,
		UpdatedAt: now,
	}
	if _, err := r.carts.InsertOne(ctx, cart); err != nil {
		return nil, err
	}
	return &cart, nil
}

// AddItem agrega un producto al carrito. Si la línea ya existe la cantidad se
// incrementa y el precio snapshot se refresca al precio efectivo vigente.
func (r *CartRepository) AddItem(ctx context.Context, userID, productID string, quantity int) (*models.Cart, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	objID, err := primitive.ObjectIDFromHex(productID)
	if err != nil {
		return nil, apperr.InvalidArgument("invalid product ID")
	}

	var product models.Product
	err = r.products.FindOne(ctx, bson.M{"_id": objID}).Decode(&product)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, apperr.NotFound("product not found")
		}
		return nil, err
	}

	cart, err := r.getOrCreate(ctx, userID)
	if err != nil {
		return nil, err
	}

	cart.AddItem(productID, quantity, product.EffectivePrice())
	return r.save(ctx, cart)
}

// SetQuantity cambia la cantidad de una línea; el precio snapshot no se toca.
func (r *CartRepository) SetQuantity(ctx context.Context, userID, productID string, quantity int) (*models.Cart, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if quantity <= 0 {
		return nil, apperr.InvalidArgument("quantity must be greater than 0")
	}

	cart, err := r.find(ctx, userID)
	if err != nil {
		return nil, err
	}
	if err := cart.SetQuantity(productID, quantity); err != nil {
		return nil, err
	}
	return r.save(ctx, cart)
}

// RemoveItem quita una línea del carrito; quitar una línea ausente no es error.
func (r *CartRepository) RemoveItem(ctx context.Context, userID, productID string) (*models.Cart, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	cart, err := r.find(ctx, userID)
	if err != nil {
		return nil, err
	}
	cart.RemoveItem(productID)
	return r.save(ctx, cart)
}

// Clear vacía el carrito; es idempotente y no falla si el carrito no existe.
func (r *CartRepository) Clear(ctx context.Context, userID string) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	_, err := r.carts.UpdateOne(
		ctx,
		bson.M{"user_id": userID},
		bson.M{"$set": bson.M{"items": []models.CartItem{}, "updated_at": time.Now().UTC()}},
	)
	return err
}

func (r *CartRepository) find(ctx context.Context, userID string) (*models.Cart, error) {
	var cart models.Cart
	err := r.carts.FindOne(ctx, bson.M{"user_id": userID}).Decode(&cart)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, apperr.NotFound("cart not found")
		}
		return nil, err
	}
	return &cart, nil
}

func (r *CartRepository) save(ctx context.Context, cart *models.Cart) (*models.Cart, error) {
	cart.UpdatedAt = time.Now().UTC()
	_, err := r.carts.UpdateOne(
		ctx,
		bson.M{"_id": cart.ID},
		bson.M{"$set": bson.M{"items": cart.Items, "updated_at": cart.UpdatedAt}},
	)
	if err != nil {
		return nil, err
	}
	cart.ComputeTotal()
	return cart, nil
}
