package repository

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"shop-api/internal/apperr"
	"shop-api/internal/models"
	"shop-api/internal/slug"
)

type CategoryRepository struct {
	collection *mongo.Collection
}

func NewCategoryRepository(collection *mongo.Collection) *CategoryRepository {
	return &CategoryRepository{collection: collection}
}

// FindAllActive lista las categorías activas ordenadas por nombre.
func (r *CategoryRepository) FindAllActive(ctx context.Context) ([]models.Category, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	findOptions := options.Find().SetSort(bson.D{{Key: "name", Value: 1}})
	cursor, err := r.collection.Find(ctx, bson.M{"is_active": true}, findOptions)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	categories := []models.Category{}
	if err = cursor.All(ctx, &categories); err != nil {
		return nil, err
	}
	return categories, nil
}

// FindByID obtiene una categoría por ID
func (r *CategoryRepository) FindByID(ctx context.Context, id string) (*models.Category, error) {
	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	objID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, apperr.InvalidArgument("invalid category ID")
	}

	var category models.Category
	err = r.collection.FindOne(ctx, bson.M{"_id": objID}).Decode(&category)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, apperr.NotFound("category not found")
		}
		return nil, err
	}
	return &category, nil
}

// Create crea una categoría nueva
func (r *CategoryRepository) Create(ctx context.Context, in models.CategoryCreate) (*models.Category, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	var parent *primitive.ObjectID
	if in.Parent != "" {
		oid, err := primitive.ObjectIDFromHex(in.Parent)
		if err != nil {
			return nil, apperr.InvalidArgument("invalid parent category ID")
		}
		parent = &oid
	}

	categorySlug := slug.Make(in.Name)
	count, err := r.collection.CountDocuments(ctx, bson.M{"slug": categorySlug})
	if err != nil {
		return nil, err
	}
	if count > 0 {
		categorySlug = fmt.Sprintf("%s-%d", categorySlug, time.Now().Unix())
	}

	now := time.Now().UTC()
	category := &models.Category{
		ID:          primitive.NewObjectID(),
		Name:        in.Name,
		Slug:        categorySlug,
		Description: in.Description,
		Image:       in.Image,
		Parent:      parent,
		IsActive:    true,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if _, err := r.collection.InsertOne(ctx, category); err != nil {
		return nil, err
	}
	return category, nil
}

// Update actualiza parcialmente una categoría
func (r *CategoryRepository) Update(ctx context.Context, id string, in models.CategoryUpdate) (*models.Category, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	objID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, apperr.InvalidArgument("invalid category ID")
	}

	update := bson.M{"updated_at": time.Now().UTC()}
	if in.Name != nil {
		update["name"] = *in.Name
		update["slug"] = slug.Make(*in.Name)
	}
	if in.Description != nil {
		update["description"] = *in.Description
	}
	if in.Image != nil {
		update["image"] = *in.Image
	}
	if in.Parent != nil {
		if *in.Parent == "" {
			update["parent"] = nil
		} else {
			oid, err := primitive.ObjectIDFromHex(*in.Parent)
			if err != nil {
				return nil, apperr.InvalidArgument("invalid parent category ID")
			}
			update["parent"] = oid
		}
	}
	if in.IsActive != nil {
		update["is_active"] = *in.IsActive
	}

	result, err := r.collection.UpdateOne(ctx, bson.M{"_id": objID}, bson.M{"$set": update})
	if err != nil {
		return nil, err
	}
	if result.MatchedCount == 0 {
		return nil, apperr.NotFound("category not found")
	}

	return r.FindByID(ctx, id)
}

// Delete elimina una categoría
func (r *CategoryRepository) Delete(ctx context.Context, id string) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	objID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return apperr.InvalidArgument("invalid category ID")
	}

	result, err := r.collection.DeleteOne(ctx, bson.M{"_id": objID})
	if err != nil {
		return err
	}
	if result.DeletedCount == 0 {
		return apperr.NotFound("category not found")
	}
	return nil
}
