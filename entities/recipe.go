// File: entities/recipe.go
package entities

import (
	"github.com/google/uuid"
	"inventra-backend/domain"
)

type Recipe struct {
	ID           uuid.UUID                 `gorm:"type:uuid;primary_key;default:uuid_generate_v4()" json:"id"`
	Name         string                    `gorm:"not null" json:"name"`
	Description  string                    `gorm:"type:text" json:"description"`
	Instructions string                    `gorm:"type:text" json:"instructions"`
	Category     string                    `json:"category"`
	Ingredients  []domain.RecipeIngredient `gorm:"type:jsonb;serializer:json" json:"ingredients"`

	Timestamp
}
