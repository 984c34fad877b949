package config

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"gorm.io/gorm"
	"inventra-backend/internal/api/handlers"
	"inventra-backend/internal/api/routes"
	"inventra-backend/internal/utils"
	"inventra-backend/pkg/inventory"
	"inventra-backend/pkg/recipe"
	"io"
	"os"
	"time"
)

type Services struct {
	Inventory inventory.InventoryService
	Recipes   recipe.RecipeService
	Engine    recipe.RecipeEngine
}

func NewServices(db *gorm.DB) Services {
	return NewServicesWithRepositories(inventory.NewInventoryRepository(db), recipe.NewRecipeRepository(db))
}

func NewServicesWithRepositories(inventoryRepository inventory.InventoryRepository, recipeRepository recipe.RecipeRepository) Services {
	inventoryService := inventory.NewInventoryService(
		inventoryRepository,
		utils.GetConfigInt("LEDGER_MAX_RETRIES", inventory.DefaultMaxRetries),
	)
	recipeEngine := recipe.NewRecipeEngine(recipeRepository, inventoryService)
	recipeService := recipe.NewRecipeService(recipeRepository, inventoryService, recipeEngine)

	return Services{
		Inventory: inventoryService,
		Recipes:   recipeService,
		Engine:    recipeEngine,
	}
}

// NewApp builds the HTTP server. accessLog receives the request log; nil discards it.
func NewApp(services Services, accessLog io.Writer) *fiber.App {
	utils.InitValidator()
	app := fiber.New(fiber.Config{
		AppName: "Inventra API",
	})
	validator := utils.Validate

	if accessLog == nil {
		accessLog = io.Discard
	}
	app.Use(recover.New())
	app.Use(cors.New())
	app.Use(logger.New(logger.Config{
		TimeFormat: "2006-01-02 15:04:05",
		Output:     accessLog,
	}))
	app.Use(limiter.New(limiter.Config{
		Max:        utils.GetConfigInt("RATE_LIMIT_MAX", 50),
		Expiration: 1 * time.Second,
	}))

	// Handler
	healthHandler := handlers.NewHealthHandler()
	inventoryHandler := handlers.NewInventoryHandler(services.Inventory, validator)
	recipeHandler := handlers.NewRecipeHandler(services.Recipes, services.Engine, validator)

	// routes
	routesConfig := routes.Config{
		App:              app,
		HealthHandler:    healthHandler,
		InventoryHandler: inventoryHandler,
		RecipeHandler:    recipeHandler,
	}
	routesConfig.Setup()
	return app
}

// OpenAccessLog opens ./logs/access.log for appending.
func OpenAccessLog() (*os.File, error) {
	if err := os.MkdirAll("./logs", os.ModePerm); err != nil {
		return nil, err
	}
	return os.OpenFile(
		"./logs/access.log",
		os.O_RDWR|os.O_CREATE|os.O_APPEND,
		0666,
	)
}
