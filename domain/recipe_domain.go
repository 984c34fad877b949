package domain

import (
	"fmt"
	"time"
)

var (
	MessageSuccessGetRecipes        = "recipes retrieved successfully"
	MessageSuccessGetRecipeDetail   = "recipe retrieved successfully"
	MessageSuccessAddRecipe         = "recipe added successfully"
	MessageSuccessUpdateRecipe      = "recipe updated successfully"
	MessageSuccessDeleteRecipe      = "recipe deleted successfully"
	MessageSuccessCheckAvailability = "recipe availability checked"
	MessageSuccessPrepareRecipe     = "recipe prepared successfully"

	MessageFailedGetRecipes        = "failed to get recipes"
	MessageFailedGetRecipeDetail   = "failed to get recipe detail"
	MessageFailedAddRecipe         = "failed to add recipe"
	MessageFailedUpdateRecipe      = "failed to update recipe"
	MessageFailedDeleteRecipe      = "failed to delete recipe"
	MessageFailedCheckAvailability = "failed to check recipe availability"
	MessageFailedPrepareRecipe     = "failed to prepare recipe"
	MessageInsufficientIngredients = "insufficient ingredients"

	ErrRecipeNotFound = fmt.Errorf("recipe %w", ErrNotFound)
)

type (
	RecipeIngredient struct {
		Name     string  `json:"name" validate:"required"`
		Quantity float64 `json:"quantity" validate:"gt=0"`
		Unit     Unit    `json:"unit" validate:"required,unit"`
	}

	RecipeDraft struct {
		Name         string             `json:"name" validate:"required"`
		Description  string             `json:"description"`
		Instructions string             `json:"instructions"`
		Category     string             `json:"category"`
		Ingredients  []RecipeIngredient `json:"ingredients" validate:"required,min=1,dive"`
	}

	RecipeResponse struct {
		ID           string              `json:"id"`
		Name         string              `json:"name"`
		Description  string              `json:"description"`
		Instructions string              `json:"instructions"`
		Category     string              `json:"category"`
		Ingredients  []RecipeIngredient  `json:"ingredients"`
		Availability *AvailabilityReport `json:"availability,omitempty"`
		CreatedAt    time.Time           `json:"createdAt"`
		UpdatedAt    time.Time           `json:"updatedAt"`
	}

	AvailabilityReport struct {
		Available          bool                `json:"available"`
		MissingIngredients []MissingIngredient `json:"missingIngredients"`
	}

	PrepareResult struct {
		RecipeID         string            `json:"recipeId"`
		RecipeName       string            `json:"recipeName"`
		InventoryUpdates []InventoryUpdate `json:"inventoryUpdates"`
	}
)
