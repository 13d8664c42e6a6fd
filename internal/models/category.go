package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Category agrupa productos; admite anidamiento vía parent.
type Category struct {
	ID          primitive.ObjectID  `json:"id" bson:"_id,omitempty"`
	Name        string              `json:"name" bson:"name"`
	Slug        string              `json:"slug" bson:"slug"`
	Description string              `json:"description,omitempty" bson:"description,omitempty"`
	Image       string              `json:"image,omitempty" bson:"image,omitempty"`
	Parent      *primitive.ObjectID `json:"parent,omitempty" bson:"parent,omitempty"`
	IsActive    bool                `json:"is_active" bson:"is_active"`
	CreatedAt   time.Time           `json:"created_at" bson:"created_at"`
	UpdatedAt   time.Time           `json:"updated_at" bson:"updated_at"`
}

type CategoryCreate struct {
	Name        string `json:"name" binding:"required"`
	Description string `json:"description"`
	Image       string `json:"image"`
	Parent      string `json:"parent"`
}

type CategoryUpdate struct {
	Name        *string `json:"name,omitempty"`
	Description *string `json:"description,omitempty"`
	Image       *string `json:"image,omitempty"`
	Parent      *string `json:"parent,omitempty"`
	IsActive    *bool   `json:"is_active,omitempty"`
}
