package recipe

import (
	"context"
	"fmt"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"inventra-backend/domain"
	"inventra-backend/entities"
	"inventra-backend/pkg/inventory"
	"math"
	"strings"
)

type (
	// SnapshotSource hands out a consistent read-only view of the whole ledger.
	SnapshotSource interface {
		Snapshot(ctx context.Context) (*inventory.Snapshot, error)
	}

	RecipeService interface {
		CreateRecipe(ctx context.Context, draft domain.RecipeDraft) (*entities.Recipe, error)
		GetRecipe(ctx context.Context, id string) (*entities.Recipe, error)
		ListRecipes(ctx context.Context, withAvailability bool) ([]domain.RecipeResponse, error)
		UpdateRecipe(ctx context.Context, id string, draft domain.RecipeDraft) (*entities.Recipe, error)
		DeleteRecipe(ctx context.Context, id string) error
	}

	recipeService struct {
		recipeRepository RecipeRepository
		snapshots        SnapshotSource
		engine           RecipeEngine
	}
)

func NewRecipeService(recipeRepository RecipeRepository, snapshots SnapshotSource, engine RecipeEngine) RecipeService {
	return &recipeService{
		recipeRepository: recipeRepository,
		snapshots:        snapshots,
		engine:           engine,
	}
}

func (s *recipeService) CreateRecipe(ctx context.Context, draft domain.RecipeDraft) (*entities.Recipe, error) {
	if err := ValidateDraft(draft); err != nil {
		return nil, err
	}

	recipe := &entities.Recipe{ID: uuid.New()}
	applyDraft(recipe, draft)
	if err := s.recipeRepository.CreateRecipe(ctx, recipe); err != nil {
		return nil, err
	}

	zap.L().Info("recipe created",
		zap.String("id", recipe.ID.String()),
		zap.String("name", recipe.Name),
		zap.Int("ingredients", len(recipe.Ingredients)))
	return recipe, nil
}

func (s *recipeService) GetRecipe(ctx context.Context, id string) (*entities.Recipe, error) {
	recipeID, err := parseRecipeID(id)
	if err != nil {
		return nil, err
	}
	return s.recipeRepository.GetRecipeByID(ctx, recipeID)
}

// ListRecipes computes every availability report against the same snapshot.
func (s *recipeService) ListRecipes(ctx context.Context, withAvailability bool) ([]domain.RecipeResponse, error) {
	recipes, err := s.recipeRepository.GetRecipes(ctx)
	if err != nil {
		return nil, err
	}

	res := make([]domain.RecipeResponse, 0, len(recipes))
	if !withAvailability {
		for _, recipe := range recipes {
			res = append(res, ToRecipeResponse(recipe))
		}
		return res, nil
	}

	snapshot, err := s.snapshots.Snapshot(ctx)
	if err != nil {
		return nil, fmt.Errorf("taking inventory snapshot: %w", err)
	}
	for _, recipe := range recipes {
		report, err := s.engine.CheckAvailability(ctx, recipe, snapshot)
		if err != nil {
			return nil, err
		}
		r := ToRecipeResponse(recipe)
		r.Availability = &report
		res = append(res, r)
	}
	return res, nil
}

func (s *recipeService) UpdateRecipe(ctx context.Context, id string, draft domain.RecipeDraft) (*entities.Recipe, error) {
	if err := ValidateDraft(draft); err != nil {
		return nil, err
	}
	recipeID, err := parseRecipeID(id)
	if err != nil {
		return nil, err
	}

	recipe := &entities.Recipe{ID: recipeID}
	applyDraft(recipe, draft)
	if err := s.recipeRepository.UpdateRecipe(ctx, recipe); err != nil {
		return nil, err
	}
	return s.recipeRepository.GetRecipeByID(ctx, recipeID)
}

func (s *recipeService) DeleteRecipe(ctx context.Context, id string) error {
	recipeID, err := parseRecipeID(id)
	if err != nil {
		return err
	}
	return s.recipeRepository.DeleteRecipe(ctx, recipeID)
}

func ValidateDraft(draft domain.RecipeDraft) error {
	if strings.TrimSpace(draft.Name) == "" {
		return domain.ValidationErrorf("recipe name is required")
	}
	if len(draft.Ingredients) == 0 {
		return domain.ValidationErrorf("recipe needs at least one ingredient")
	}
	for i, ing := range draft.Ingredients {
		if strings.TrimSpace(ing.Name) == "" {
			return domain.ValidationErrorf("ingredient %d: name is required", i+1)
		}
		if !(ing.Quantity > 0) || math.IsInf(ing.Quantity, 0) {
			return domain.ValidationErrorf("ingredient %q: quantity must be positive", ing.Name)
		}
		if !ing.Unit.Valid() {
			return domain.ValidationErrorf("ingredient %q: unit %q is not supported", ing.Name, ing.Unit)
		}
	}
	return nil
}

func applyDraft(recipe *entities.Recipe, draft domain.RecipeDraft) {
	recipe.Name = strings.TrimSpace(draft.Name)
	recipe.Description = draft.Description
	recipe.Instructions = draft.Instructions
	recipe.Category = strings.TrimSpace(draft.Category)
	if recipe.Category == "" {
		recipe.Category = domain.DefaultCategory
	}
	recipe.Ingredients = make([]domain.RecipeIngredient, 0, len(draft.Ingredients))
	for _, ing := range draft.Ingredients {
		recipe.Ingredients = append(recipe.Ingredients, domain.RecipeIngredient{
			Name:     strings.TrimSpace(ing.Name),
			Quantity: ing.Quantity,
			Unit:     ing.Unit,
		})
	}
}

func parseRecipeID(id string) (uuid.UUID, error) {
	parsed, err := uuid.Parse(id)
	if err != nil {
		return uuid.Nil, fmt.Errorf("%w: %q", domain.ErrRecipeNotFound, id)
	}
	return parsed, nil
}

func ToRecipeResponse(recipe *entities.Recipe) domain.RecipeResponse {
	return domain.RecipeResponse{
		ID:           recipe.ID.String(),
		Name:         recipe.Name,
		Description:  recipe.Description,
		Instructions: recipe.Instructions,
		Category:     recipe.Category,
		Ingredients:  recipe.Ingredients,
		CreatedAt:    recipe.CreatedAt,
		UpdatedAt:    recipe.UpdatedAt,
	}
}
