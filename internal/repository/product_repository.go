package repository

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"shop-api/internal/apperr"
	"shop-api/internal/models"
	"shop-api/internal/slug"
)

// ProductFilter son los filtros de listado del catálogo.
type ProductFilter struct {
	Query    string
	Category string
	MinPrice *float64
	MaxPrice *float64
	Brand    string
	Tags     []string
	Sort     string
	Order    string
	Page     int
	Limit    int
}

type ProductRepository struct {
	collection *mongo.Collection
}

func NewProductRepository(collection *mongo.Collection) *ProductRepository {
	return &ProductRepository{
		collection: collection,
	}
}

// Create crea un nuevo producto; el slug se deriva del nombre y ante
// colisión se le agrega un sufijo de timestamp.
func (r *ProductRepository) Create(ctx context.Context, in models.ProductCreate) (*models.Product, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	var category *primitive.ObjectID
	if in.Category != "" {
		oid, err := primitive.ObjectIDFromHex(in.Category)
		if err != nil {
			return nil, apperr.InvalidArgument("invalid category ID")
		}
		category = &oid
	}

	productSlug, err := r.uniqueSlug(ctx, in.Name)
	if err != nil {
		return nil, err
	}

	currency := in.Currency
	if currency == "" {
		currency = "VND"
	}
	if in.Tags == nil {
		in.Tags = []string{}
	}
	if in.Images == nil {
		in.Images = []string{}
	}
	if in.Specs == nil {
		in.Specs = map[string]any{}
	}

	now := time.Now().UTC()
	product := &models.Product{
		ID:          primitive.NewObjectID(),
		Name:        in.Name,
		Slug:        productSlug,
		Description: in.Description,
		Price:       in.Price,
		Currency:    currency,
		Discount:    in.Discount,
		Category:    category,
		Tags:        in.Tags,
		Brand:       in.Brand,
		Images:      in.Images,
		Specs:       in.Specs,
		Stock:       in.Stock,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if _, err := r.collection.InsertOne(ctx, product); err != nil {
		return nil, err
	}
	return product, nil
}

// FindByID obtiene un producto por ID
func (r *ProductRepository) FindByID(ctx context.Context, id string) (*models.Product, error) {
	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	objID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, apperr.InvalidArgument("invalid product ID")
	}

	var product models.Product
	err = r.collection.FindOne(ctx, bson.M{"_id": objID}).Decode(&product)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, apperr.NotFound("product not found")
		}
		return nil, err
	}
	return &product, nil
}

// FindBySlug obtiene un producto por slug
func (r *ProductRepository) FindBySlug(ctx context.Context, s string) (*models.Product, error) {
	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	var product models.Product
	err := r.collection.FindOne(ctx, bson.M{"slug": s}).Decode(&product)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, apperr.NotFound("product not found")
		}
		return nil, err
	}
	return &product, nil
}

// FindAll lista productos con búsqueda, filtros y paginación.
func (r *ProductRepository) FindAll(ctx context.Context, f ProductFilter) ([]models.Product, int64, error) {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	filter := bson.M{}

	if f.Query != "" {
		filter["$text"] = bson.M{"$search": f.Query}
	}
	if f.Category != "" {
		oid, err := primitive.ObjectIDFromHex(f.Category)
		if err != nil {
			return nil, 0, apperr.InvalidArgument("invalid category ID")
		}
		filter["category"] = oid
	}
	if f.MinPrice != nil || f.MaxPrice != nil {
		price := bson.M{}
		if f.MinPrice != nil {
			price["$gte"] = *f.MinPrice
		}
		if f.MaxPrice != nil {
			price["$lte"] = *f.MaxPrice
		}
		filter["price"] = price
	}
	if f.Brand != "" {
		filter["brand"] = bson.M{"$regex": f.Brand, "$options": "i"}
	}
	if len(f.Tags) > 0 {
		filter["tags"] = bson.M{"$in": f.Tags}
	}

	total, err := r.collection.CountDocuments(ctx, filter)
	if err != nil {
		return nil, 0, err
	}

	sortField := "created_at"
	switch f.Sort {
	case "price", "rating", "name", "created_at":
		sortField = f.Sort
	}
	sortOrder := -1
	if strings.EqualFold(f.Order, "asc") {
		sortOrder = 1
	}

	page := f.Page
	if page < 1 {
		page = 1
	}
	limit := f.Limit
	if limit < 1 || limit > 100 {
		limit = 20
	}

	findOptions := options.Find().
		SetSort(bson.D{{Key: sortField, Value: sortOrder}}).
		SetSkip(int64((page - 1) * limit)).
		SetLimit(int64(limit))

	cursor, err := r.collection.Find(ctx, filter, findOptions)
	if err != nil {
		return nil, 0, err
	}
	defer cursor.Close(ctx)

	products := []models.Product{}
	if err = cursor.All(ctx, &products); err != nil {
		return nil, 0, err
	}
	return products, total, nil
}

// Update actualiza parcialmente un producto; cambiar el nombre re-deriva el slug.
func (r *ProductRepository) Update(ctx context.Context, id string, in models.ProductUpdate) (*models.Product, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	objID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, apperr.InvalidArgument("invalid product ID")
	}

	update := bson.M{"updated_at": time.Now().UTC()}
	if in.Name != nil {
		update["name"] = *in.Name
		update["slug"] = slug.Make(*in.Name)
	}
	if in.Description != nil {
		update["description"] = *in.Description
	}
	if in.Price != nil {
		update["price"] = *in.Price
	}
	if in.Currency != nil {
		update["currency"] = *in.Currency
	}
	if in.Discount != nil {
		update["discount"] = *in.Discount
	}
	if in.Category != nil {
		if *in.Category == "" {
			update["category"] = nil
		} else {
			oid, err := primitive.ObjectIDFromHex(*in.Category)
			if err != nil {
				return nil, apperr.InvalidArgument("invalid category ID")
			}
			update["category"] = oid
		}
	}
	if in.Tags != nil {
		update["tags"] = in.Tags
	}
	if in.Brand != nil {
		update["brand"] = *in.Brand
	}
	if in.Images != nil {
		update["images"] = in.Images
	}
	if in.Specs != nil {
		update["specs"] = in.Specs
	}
	if in.Stock != nil {
		update["stock"] = *in.Stock
	}

	result, err := r.collection.UpdateOne(ctx, bson.M{"_id": objID}, bson.M{"$set": update})
	if err != nil {
		return nil, err
	}
	if result.MatchedCount == 0 {
		return nil, apperr.NotFound("product not found")
	}

	return r.FindByID(ctx, id)
}

// Delete elimina un producto del catálogo. Los pedidos ya creados conservan
// su copia desnormalizada y no se ven afectados.
func (r *ProductRepository) Delete(ctx context.Context, id string) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	objID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return apperr.InvalidArgument("invalid product ID")
	}

	result, err := r.collection.DeleteOne(ctx, bson.M{"_id": objID})
	if err != nil {
		return err
	}
	if result.DeletedCount == 0 {
		return apperr.NotFound("product not found")
	}
	return nil
}

// uniqueSlug deriva el slug del nombre y evita colisiones con un sufijo.
func (r *ProductRepository) uniqueSlug(ctx context.Context, name string) (string, error) {
	s := slug.Make(name)
	count, err := r.collection.CountDocuments(ctx, bson.M{"slug": s})
	if err != nil {
		return "", err
	}
	if count > 0 {
		s = fmt.Sprintf("%s-%d", s, time.Now().Unix())
	}
	return s, nil
}
