package routes

import (
	"github.com/gofiber/fiber/v2"
	"inventra-backend/internal/api/handlers"
)

type Config struct {
	App              *fiber.App
	HealthHandler    handlers.HealthHandler
	InventoryHandler handlers.InventoryHandler
	RecipeHandler    handlers.RecipeHandler
}

func (c *Config) Setup() {
	c.GuestRoute()
	c.Inventory()
	c.Recipes()
}

func (c *Config) GuestRoute() {
	c.App.Get("/api/health", c.HealthHandler.Health)
}

func (c *Config) Inventory() {
	inventory := c.App.Group("/api/v1/inventory")
	// export is registered before /:id so it is not taken for an id
	inventory.Get("/export", c.InventoryHandler.ExportInventory)

	inventory.Post("", c.InventoryHandler.AddInventoryItem)
	inventory.Get("", c.InventoryHandler.GetInventory)
	inventory.Get("/:id", c.InventoryHandler.GetInventoryItem)
	inventory.Put("/:id", c.InventoryHandler.UpdateInventoryItem)
	inventory.Delete("/:id", c.InventoryHandler.DeleteInventoryItem)
	inventory.Get("/:id/transactions", c.InventoryHandler.GetTransactions)

	c.App.Get("/api/v1/low-stock", c.InventoryHandler.GetLowStock)
}

func (c *Config) Recipes() {
	recipes := c.App.Group("/api/v1/recipes")

	// Basic CRUD operations
	recipes.Post("", c.RecipeHandler.AddRecipe)
	recipes.Get("", c.RecipeHandler.GetRecipes)
	recipes.Get("/:id", c.RecipeHandler.GetRecipeDetail)
	recipes.Put("/:id", c.RecipeHandler.UpdateRecipe)
	recipes.Delete("/:id", c.RecipeHandler.DeleteRecipe)

	// Ledger operations
	recipes.Get("/:id/availability", c.RecipeHandler.CheckAvailability)
	recipes.Post("/:id/prepare", c.RecipeHandler.PrepareRecipe)
}
