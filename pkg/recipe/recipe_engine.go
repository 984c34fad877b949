package recipe

import (
	"context"
	"errors"
	"fmt"
	"go.uber.org/zap"
	"inventra-backend/domain"
	"inventra-backend/entities"
	"inventra-backend/pkg/inventory"
)

// prepareAttempts bounds how often Prepare starts over when a resolved item vanishes
// before the decrement commits and the fresh check still finds everything available.
const prepareAttempts = 3

type PrepareState string

const (
	StateRequested    PrepareState = "requested"
	StateChecking     PrepareState = "checking"
	StateInsufficient PrepareState = "insufficient"
	StateCommitting   PrepareState = "committing"
	StateCommitted    PrepareState = "committed"
	StateAborted      PrepareState = "aborted"
)

type (
	// Ledger is what the engine needs from the inventory: lookups and the atomic decrement.
	Ledger interface {
		inventory.LedgerView
		AtomicDecrement(ctx context.Context, requests []domain.DecrementRequest, ref inventory.Reference) ([]domain.InventoryUpdate, error)
	}

	RecipeEngine interface {
		CheckAvailability(ctx context.Context, recipe *entities.Recipe, view inventory.LedgerView) (domain.AvailabilityReport, error)
		CheckRecipeAvailability(ctx context.Context, recipeID string) (domain.AvailabilityReport, error)
		Prepare(ctx context.Context, recipeID string) (domain.PrepareResult, error)
	}

	recipeEngine struct {
		recipeRepository RecipeRepository
		ledger           Ledger
	}

	// requirement is one (name, unit) need of a recipe, duplicates summed.
	requirement struct {
		name     string
		unit     domain.Unit
		required float64
	}
)

func NewRecipeEngine(recipeRepository RecipeRepository, ledger Ledger) RecipeEngine {
	return &recipeEngine{
		recipeRepository: recipeRepository,
		ledger:           ledger,
	}
}

// CheckAvailability never writes. Ingredients absent from the view count as zero available.
func (e *recipeEngine) CheckAvailability(ctx context.Context, recipe *entities.Recipe, view inventory.LedgerView) (domain.AvailabilityReport, error) {
	missing := []domain.MissingIngredient{}
	for _, req := range requirements(recipe.Ingredients) {
		item, found, err := view.FindByNameAndUnit(ctx, req.name, req.unit)
		if err != nil {
			return domain.AvailabilityReport{}, fmt.Errorf("looking up %q: %w", req.name, err)
		}
		available := 0.0
		if found {
			available = item.Quantity
		}
		if available < req.required {
			missing = append(missing, domain.MissingIngredient{
				Name:      req.name,
				Required:  req.required,
				Available: available,
				Unit:      req.unit,
			})
		}
	}
	return domain.AvailabilityReport{
		Available:          len(missing) == 0,
		MissingIngredients: missing,
	}, nil
}

func (e *recipeEngine) CheckRecipeAvailability(ctx context.Context, recipeID string) (domain.AvailabilityReport, error) {
	recipe, err := e.getRecipe(ctx, recipeID)
	if err != nil {
		return domain.AvailabilityReport{}, err
	}
	return e.CheckAvailability(ctx, recipe, e.ledger)
}

// Prepare re-checks the live ledger and, when every ingredient is available, consumes
// them in one atomic decrement. On any failure the ledger is left untouched.
func (e *recipeEngine) Prepare(ctx context.Context, recipeID string) (domain.PrepareResult, error) {
	recipe, err := e.getRecipe(ctx, recipeID)
	if err != nil {
		return domain.PrepareResult{}, err
	}

	log := zap.L().With(zap.String("recipe_id", recipe.ID.String()), zap.String("recipe", recipe.Name))
	state := StateRequested
	transition := func(next PrepareState) {
		log.Debug("prepare state", zap.String("from", string(state)), zap.String("to", string(next)))
		state = next
	}

	for attempt := 1; ; attempt++ {
		transition(StateChecking)
		report, err := e.CheckAvailability(ctx, recipe, e.ledger)
		if err != nil {
			transition(StateAborted)
			return domain.PrepareResult{}, err
		}
		if !report.Available {
			transition(StateInsufficient)
			return domain.PrepareResult{}, domain.NewInsufficientStockError(report.MissingIngredients)
		}

		requests, names, err := e.resolve(ctx, recipe)
		if err != nil {
			if errors.Is(err, domain.ErrInsufficientStock) {
				transition(StateInsufficient)
			} else {
				transition(StateAborted)
			}
			return domain.PrepareResult{}, err
		}

		transition(StateCommitting)
		updates, err := e.ledger.AtomicDecrement(ctx, requests, inventory.Reference{
			ID:          &recipe.ID,
			Description: "Prepared recipe: " + recipe.Name,
		})
		if err == nil {
			transition(StateCommitted)
			log.Info("recipe prepared", zap.Int("ingredients", len(updates)))
			return domain.PrepareResult{
				RecipeID:         recipe.ID.String(),
				RecipeName:       recipe.Name,
				InventoryUpdates: updates,
			}, nil
		}

		var stockErr *domain.InsufficientStockError
		switch {
		case errors.As(err, &stockErr):
			transition(StateInsufficient)
			return domain.PrepareResult{}, domain.NewInsufficientStockError(renameShortfalls(stockErr.Shortfalls, names))
		case errors.Is(err, domain.ErrNotFound) && attempt < prepareAttempts:
			// An item was deleted after resolution; the next check sees it as absent.
			continue
		case errors.Is(err, domain.ErrNotFound):
			transition(StateInsufficient)
			return domain.PrepareResult{}, domain.NewInsufficientStockError(nil)
		default:
			transition(StateAborted)
			return domain.PrepareResult{}, err
		}
	}
}

// resolve maps every requirement to its ledger item. The returned names map an item's
// (name, unit) key back to the ingredient name used in the recipe.
func (e *recipeEngine) resolve(ctx context.Context, recipe *entities.Recipe) ([]domain.DecrementRequest, map[string]string, error) {
	reqs := requirements(recipe.Ingredients)
	requests := make([]domain.DecrementRequest, 0, len(reqs))
	names := make(map[string]string, len(reqs))
	for _, req := range reqs {
		item, found, err := e.ledger.FindByNameAndUnit(ctx, req.name, req.unit)
		if err != nil {
			return nil, nil, fmt.Errorf("resolving %q: %w", req.name, err)
		}
		if !found {
			return nil, nil, domain.NewInsufficientStockError([]domain.MissingIngredient{{
				Name:     req.name,
				Required: req.required,
				Unit:     req.unit,
			}})
		}
		requests = append(requests, domain.DecrementRequest{
			ItemID: item.ID.String(),
			Amount: req.required,
		})
		names[inventory.MatchKey(item.Name, item.Unit)] = req.name
	}
	return requests, names, nil
}

func (e *recipeEngine) getRecipe(ctx context.Context, recipeID string) (*entities.Recipe, error) {
	id, err := parseRecipeID(recipeID)
	if err != nil {
		return nil, err
	}
	return e.recipeRepository.GetRecipeByID(ctx, id)
}

// requirements folds ingredients sharing a (name, unit) key, keeping first-seen order
// and the first spelling of the name.
func requirements(ingredients []domain.RecipeIngredient) []requirement {
	index := make(map[string]int, len(ingredients))
	reqs := make([]requirement, 0, len(ingredients))
	for _, ing := range ingredients {
		key := inventory.MatchKey(ing.Name, ing.Unit)
		if i, ok := index[key]; ok {
			reqs[i].required += ing.Quantity
			continue
		}
		index[key] = len(reqs)
		reqs = append(reqs, requirement{name: ing.Name, unit: ing.Unit, required: ing.Quantity})
	}
	return reqs
}

func renameShortfalls(shortfalls []domain.MissingIngredient, names map[string]string) []domain.MissingIngredient {
	out := make([]domain.MissingIngredient, 0, len(shortfalls))
	for _, s := range shortfalls {
		if name, ok := names[inventory.MatchKey(s.Name, s.Unit)]; ok {
			s.Name = name
		}
		out = append(out, s)
	}
	return out
}
