package recipe

import (
	"context"
	"github.com/google/uuid"
	"inventra-backend/domain"
	"inventra-backend/entities"
	"sync"
	"time"
)

type InMemoryRecipeRepository struct {
	mu      sync.RWMutex
	recipes map[uuid.UUID]*entities.Recipe
	order   []uuid.UUID
}

func NewInMemoryRecipeRepository() *InMemoryRecipeRepository {
	return &InMemoryRecipeRepository{
		recipes: make(map[uuid.UUID]*entities.Recipe),
	}
}

func (r *InMemoryRecipeRepository) CreateRecipe(ctx context.Context, recipe *entities.Recipe) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := time.Now()
	recipe.CreatedAt, recipe.UpdatedAt = now, now
	r.recipes[recipe.ID] = copyRecipe(recipe)
	r.order = append(r.order, recipe.ID)
	return nil
}

func (r *InMemoryRecipeRepository) GetRecipeByID(ctx context.Context, id uuid.UUID) (*entities.Recipe, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	recipe, ok := r.recipes[id]
	if !ok {
		return nil, domain.ErrRecipeNotFound
	}
	return copyRecipe(recipe), nil
}

func (r *InMemoryRecipeRepository) GetRecipes(ctx context.Context) ([]*entities.Recipe, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	recipes := make([]*entities.Recipe, 0, len(r.order))
	for _, id := range r.order {
		recipes = append(recipes, copyRecipe(r.recipes[id]))
	}
	return recipes, nil
}

func (r *InMemoryRecipeRepository) UpdateRecipe(ctx context.Context, recipe *entities.Recipe) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	current, ok := r.recipes[recipe.ID]
	if !ok {
		return domain.ErrRecipeNotFound
	}
	recipe.CreatedAt = current.CreatedAt
	recipe.UpdatedAt = time.Now()
	r.recipes[recipe.ID] = copyRecipe(recipe)
	return nil
}

func (r *InMemoryRecipeRepository) DeleteRecipe(ctx context.Context, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.recipes[id]; !ok {
		return domain.ErrRecipeNotFound
	}
	delete(r.recipes, id)
	for i, existing := range r.order {
		if existing == id {
			r.order = append(r.order[:i], r.order[i+1:]...)
			break
		}
	}
	return nil
}

func copyRecipe(recipe *entities.Recipe) *entities.Recipe {
	c := *recipe
	c.Ingredients = append([]domain.RecipeIngredient(nil), recipe.Ingredients...)
	return &c
}
