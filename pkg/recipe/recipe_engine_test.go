package recipe_test

import (
	"context"
	"errors"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/sync/errgroup"
	"inventra-backend/domain"
	"inventra-backend/entities"
	"inventra-backend/pkg/inventory"
	"inventra-backend/pkg/recipe"
	"sync"
	"testing"
)

type fixture struct {
	ledger  inventory.InventoryService
	recipes *recipe.InMemoryRecipeRepository
	engine  recipe.RecipeEngine
	service recipe.RecipeService
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	ledger := inventory.NewInventoryService(inventory.NewInMemoryInventoryRepository(), inventory.DefaultMaxRetries)
	recipes := recipe.NewInMemoryRecipeRepository()
	engine := recipe.NewRecipeEngine(recipes, ledger)
	return &fixture{
		ledger:  ledger,
		recipes: recipes,
		engine:  engine,
		service: recipe.NewRecipeService(recipes, ledger, engine),
	}
}

func (f *fixture) item(t *testing.T, name string, qty float64, unit domain.Unit, min float64) *entities.InventoryItem {
	t.Helper()
	item, err := f.ledger.CreateItem(context.Background(), domain.InventoryItemDraft{
		Name:        name,
		Quantity:    qty,
		Unit:        unit,
		MinQuantity: min,
	})
	require.NoError(t, err)
	return item
}

func (f *fixture) recipe(t *testing.T, name string, ingredients ...domain.RecipeIngredient) *entities.Recipe {
	t.Helper()
	r, err := f.service.CreateRecipe(context.Background(), domain.RecipeDraft{
		Name:        name,
		Ingredients: ingredients,
	})
	require.NoError(t, err)
	return r
}

func (f *fixture) quantity(t *testing.T, id uuid.UUID) float64 {
	t.Helper()
	item, err := f.ledger.GetItem(context.Background(), id.String())
	require.NoError(t, err)
	return item.Quantity
}

func ing(name string, qty float64, unit domain.Unit) domain.RecipeIngredient {
	return domain.RecipeIngredient{Name: name, Quantity: qty, Unit: unit}
}

func TestCheckAvailabilityReportsShortfall(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	f.item(t, "Flour", 500, domain.UnitGram, 100)
	bread := f.recipe(t, "Bread", ing("Flour", 600, domain.UnitGram))

	report, err := f.engine.CheckAvailability(ctx, bread, f.ledger)
	require.NoError(t, err)
	assert.Equal(t, domain.AvailabilityReport{
		Available: false,
		MissingIngredients: []domain.MissingIngredient{
			{Name: "Flour", Required: 600, Available: 500, Unit: domain.UnitGram},
		},
	}, report)
}

func TestPrepareConsumesIngredients(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	flour := f.item(t, "Flour", 500, domain.UnitGram, 100)
	salt := f.item(t, "Salt", 100, domain.UnitGram, 10)
	butter := f.item(t, "Butter", 250, domain.UnitGram, 50)
	toast := f.recipe(t, "Toast", ing("Flour", 200, domain.UnitGram), ing("salt", 5, domain.UnitGram))

	res, err := f.engine.Prepare(ctx, toast.ID.String())
	require.NoError(t, err)
	assert.Equal(t, toast.ID.String(), res.RecipeID)
	assert.Equal(t, "Toast", res.RecipeName)
	assert.Len(t, res.InventoryUpdates, 2)

	assert.Equal(t, 300.0, f.quantity(t, flour.ID))
	assert.Equal(t, 95.0, f.quantity(t, salt.ID))
	assert.Equal(t, 250.0, f.quantity(t, butter.ID))

	after, err := f.service.GetRecipe(ctx, toast.ID.String())
	require.NoError(t, err)
	assert.Equal(t, toast.Ingredients, after.Ingredients)
}

func TestCheckAvailabilityMissingItemCountsAsZero(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	cake := f.recipe(t, "Cake", ing("Sugar", 50, domain.UnitGram))

	report, err := f.engine.CheckRecipeAvailability(ctx, cake.ID.String())
	require.NoError(t, err)
	assert.False(t, report.Available)
	require.Len(t, report.MissingIngredients, 1)
	assert.Equal(t, 0.0, report.MissingIngredients[0].Available)
	assert.Equal(t, 50.0, report.MissingIngredients[0].Required)
}

func TestConcurrentPreparesExactlyOneWins(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	flour := f.item(t, "Flour", 500, domain.UnitGram, 100)
	r1 := f.recipe(t, "Bread", ing("Flour", 300, domain.UnitGram))
	r2 := f.recipe(t, "Pizza", ing("Flour", 300, domain.UnitGram))

	var (
		mu        sync.Mutex
		succeeded int
		rejected  int
	)
	var g errgroup.Group
	for _, id := range []string{r1.ID.String(), r2.ID.String()} {
		id := id
		g.Go(func() error {
			_, err := f.engine.Prepare(ctx, id)
			mu.Lock()
			defer mu.Unlock()
			switch {
			case err == nil:
				succeeded++
			case errors.Is(err, domain.ErrInsufficientStock):
				rejected++
			default:
				return err
			}
			return nil
		})
	}
	require.NoError(t, g.Wait())

	assert.Equal(t, 1, succeeded)
	assert.Equal(t, 1, rejected)
	assert.Equal(t, 200.0, f.quantity(t, flour.ID))
}

func TestManyConcurrentPreparesNeverOverdraw(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	eggs := f.item(t, "Eggs", 12, domain.UnitPieces, 0)
	milk := f.item(t, "Milk", 5, domain.UnitCup, 0)
	omelette := f.recipe(t, "Omelette", ing("Eggs", 3, domain.UnitPieces), ing("Milk", 1, domain.UnitCup))

	var (
		mu        sync.Mutex
		succeeded int
	)
	var g errgroup.Group
	for i := 0; i < 10; i++ {
		g.Go(func() error {
			_, err := f.engine.Prepare(ctx, omelette.ID.String())
			if err != nil && !errors.Is(err, domain.ErrInsufficientStock) {
				return err
			}
			if err == nil {
				mu.Lock()
				succeeded++
				mu.Unlock()
			}
			return nil
		})
	}
	require.NoError(t, g.Wait())

	assert.LessOrEqual(t, succeeded, 4)
	assert.Equal(t, 12.0-3*float64(succeeded), f.quantity(t, eggs.ID))
	assert.Equal(t, 5.0-float64(succeeded), f.quantity(t, milk.ID))
}

func TestPrepareInsufficientLeavesLedgerUntouched(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	flour := f.item(t, "Flour", 500, domain.UnitGram, 100)
	eggs := f.item(t, "Eggs", 1, domain.UnitPieces, 0)
	pancakes := f.recipe(t, "Pancakes", ing("Flour", 200, domain.UnitGram), ing("Eggs", 2, domain.UnitPieces))

	_, err := f.engine.Prepare(ctx, pancakes.ID.String())
	require.ErrorIs(t, err, domain.ErrInsufficientStock)

	var stockErr *domain.InsufficientStockError
	require.True(t, errors.As(err, &stockErr))
	assert.Equal(t, []domain.MissingIngredient{
		{Name: "Eggs", Required: 2, Available: 1, Unit: domain.UnitPieces},
	}, stockErr.Shortfalls)

	assert.Equal(t, 500.0, f.quantity(t, flour.ID))
	assert.Equal(t, 1.0, f.quantity(t, eggs.ID))
}

func TestUnitsMustMatchExactly(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	f.item(t, "Flour", 2, domain.UnitKilogram, 0)
	bread := f.recipe(t, "Bread", ing("Flour", 200, domain.UnitGram))

	_, err := f.engine.Prepare(ctx, bread.ID.String())
	require.ErrorIs(t, err, domain.ErrInsufficientStock)

	var stockErr *domain.InsufficientStockError
	require.True(t, errors.As(err, &stockErr))
	require.Len(t, stockErr.Shortfalls, 1)
	assert.Equal(t, 0.0, stockErr.Shortfalls[0].Available)
}

func TestDuplicateIngredientsAreSummed(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	sugar := f.item(t, "Sugar", 100, domain.UnitGram, 0)
	r := f.recipe(t, "Syrup", ing("Sugar", 60, domain.UnitGram), ing("SUGAR", 60, domain.UnitGram))

	report, err := f.engine.CheckRecipeAvailability(ctx, r.ID.String())
	require.NoError(t, err)
	assert.False(t, report.Available)
	assert.Equal(t, 120.0, report.MissingIngredients[0].Required)

	_, err = f.engine.Prepare(ctx, r.ID.String())
	assert.ErrorIs(t, err, domain.ErrInsufficientStock)
	assert.Equal(t, 100.0, f.quantity(t, sugar.ID))
}

func TestPrepareUnknownRecipe(t *testing.T) {
	f := newFixture(t)

	_, err := f.engine.Prepare(context.Background(), uuid.NewString())
	assert.ErrorIs(t, err, domain.ErrNotFound)

	_, err = f.engine.CheckRecipeAvailability(context.Background(), "bogus")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

// racingLedger reports enough stock on lookup but fails the decrement, as if another
// prepare committed in between.
type racingLedger struct {
	item        *entities.InventoryItem
	decrementFn func(calls int) error
	calls       int
}

func (l *racingLedger) FindByNameAndUnit(ctx context.Context, name string, unit domain.Unit) (*entities.InventoryItem, bool, error) {
	if l.item == nil || inventory.MatchKey(name, unit) != inventory.MatchKey(l.item.Name, l.item.Unit) {
		return nil, false, nil
	}
	c := *l.item
	return &c, true, nil
}

func (l *racingLedger) AtomicDecrement(ctx context.Context, requests []domain.DecrementRequest, ref inventory.Reference) ([]domain.InventoryUpdate, error) {
	l.calls++
	return nil, l.decrementFn(l.calls)
}

func TestPrepareLosesRaceAtCommit(t *testing.T) {
	ctx := context.Background()
	recipes := recipe.NewInMemoryRecipeRepository()
	ledger := &racingLedger{
		item: &entities.InventoryItem{ID: uuid.New(), Name: "FLOUR", Quantity: 500, Unit: domain.UnitGram},
		decrementFn: func(int) error {
			return domain.NewInsufficientStockError([]domain.MissingIngredient{
				{Name: "FLOUR", Required: 300, Available: 200, Unit: domain.UnitGram},
			})
		},
	}
	engine := recipe.NewRecipeEngine(recipes, ledger)
	r := &entities.Recipe{ID: uuid.New(), Name: "Bread", Ingredients: []domain.RecipeIngredient{ing("Flour", 300, domain.UnitGram)}}
	require.NoError(t, recipes.CreateRecipe(ctx, r))

	_, err := engine.Prepare(ctx, r.ID.String())
	require.ErrorIs(t, err, domain.ErrInsufficientStock)

	var stockErr *domain.InsufficientStockError
	require.True(t, errors.As(err, &stockErr))
	assert.Equal(t, []domain.MissingIngredient{
		{Name: "Flour", Required: 300, Available: 200, Unit: domain.UnitGram},
	}, stockErr.Shortfalls)
	assert.Equal(t, 1, ledger.calls)
}

func TestPrepareItemDeletedBeforeCommit(t *testing.T) {
	ctx := context.Background()
	recipes := recipe.NewInMemoryRecipeRepository()
	ledger := &racingLedger{
		item: &entities.InventoryItem{ID: uuid.New(), Name: "Flour", Quantity: 500, Unit: domain.UnitGram},
	}
	ledger.decrementFn = func(int) error {
		ledger.item = nil
		return domain.ErrInventoryItemNotFound
	}
	engine := recipe.NewRecipeEngine(recipes, ledger)
	r := &entities.Recipe{ID: uuid.New(), Name: "Bread", Ingredients: []domain.RecipeIngredient{ing("Flour", 300, domain.UnitGram)}}
	require.NoError(t, recipes.CreateRecipe(ctx, r))

	_, err := engine.Prepare(ctx, r.ID.String())
	require.ErrorIs(t, err, domain.ErrInsufficientStock)
	assert.NotErrorIs(t, err, domain.ErrNotFound)

	var stockErr *domain.InsufficientStockError
	require.True(t, errors.As(err, &stockErr))
	require.Len(t, stockErr.Shortfalls, 1)
	assert.Equal(t, 0.0, stockErr.Shortfalls[0].Available)
}
