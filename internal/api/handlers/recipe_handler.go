package handlers

import (
	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"inventra-backend/domain"
	"inventra-backend/internal/api/presenters"
	"inventra-backend/pkg/recipe"
)

type (
	RecipeHandler interface {
		AddRecipe(c *fiber.Ctx) error
		UpdateRecipe(c *fiber.Ctx) error
		DeleteRecipe(c *fiber.Ctx) error
		GetRecipes(c *fiber.Ctx) error
		GetRecipeDetail(c *fiber.Ctx) error
		CheckAvailability(c *fiber.Ctx) error
		PrepareRecipe(c *fiber.Ctx) error
	}

	recipeHandler struct {
		recipeService recipe.RecipeService
		recipeEngine  recipe.RecipeEngine
		validator     *validator.Validate
	}
)

func NewRecipeHandler(recipeService recipe.RecipeService, recipeEngine recipe.RecipeEngine, validator *validator.Validate) RecipeHandler {
	return &recipeHandler{
		recipeService: recipeService,
		recipeEngine:  recipeEngine,
		validator:     validator,
	}
}

func (h *recipeHandler) AddRecipe(c *fiber.Ctx) error {
	req := new(domain.RecipeDraft)

	if err := c.BodyParser(req); err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedBodyRequest, err)
	}

	if err := h.validator.Struct(req); err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedAddRecipe, err)
	}

	res, err := h.recipeService.CreateRecipe(c.Context(), *req)
	if err != nil {
		return respondError(c, domain.MessageFailedAddRecipe, err)
	}

	return presenters.SuccessResponse(c, recipe.ToRecipeResponse(res), fiber.StatusCreated, domain.MessageSuccessAddRecipe)
}

func (h *recipeHandler) UpdateRecipe(c *fiber.Ctx) error {
	recipeID := c.Params("id")
	req := new(domain.RecipeDraft)

	if err := c.BodyParser(req); err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedBodyRequest, err)
	}

	if err := h.validator.Struct(req); err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedUpdateRecipe, err)
	}

	res, err := h.recipeService.UpdateRecipe(c.Context(), recipeID, *req)
	if err != nil {
		return respondError(c, domain.MessageFailedUpdateRecipe, err)
	}

	return presenters.SuccessResponse(c, recipe.ToRecipeResponse(res), fiber.StatusOK, domain.MessageSuccessUpdateRecipe)
}

func (h *recipeHandler) DeleteRecipe(c *fiber.Ctx) error {
	recipeID := c.Params("id")

	if err := h.recipeService.DeleteRecipe(c.Context(), recipeID); err != nil {
		return respondError(c, domain.MessageFailedDeleteRecipe, err)
	}

	return presenters.SuccessResponse(c, nil, fiber.StatusOK, domain.MessageSuccessDeleteRecipe)
}

func (h *recipeHandler) GetRecipes(c *fiber.Ctx) error {
	withAvailability := c.QueryBool("with_availability", false)

	res, err := h.recipeService.ListRecipes(c.Context(), withAvailability)
	if err != nil {
		return respondError(c, domain.MessageFailedGetRecipes, err)
	}

	return presenters.SuccessResponse(c, res, fiber.StatusOK, domain.MessageSuccessGetRecipes)
}

func (h *recipeHandler) GetRecipeDetail(c *fiber.Ctx) error {
	recipeID := c.Params("id")

	res, err := h.recipeService.GetRecipe(c.Context(), recipeID)
	if err != nil {
		return respondError(c, domain.MessageFailedGetRecipeDetail, err)
	}

	return presenters.SuccessResponse(c, recipe.ToRecipeResponse(res), fiber.StatusOK, domain.MessageSuccessGetRecipeDetail)
}

func (h *recipeHandler) CheckAvailability(c *fiber.Ctx) error {
	recipeID := c.Params("id")

	report, err := h.recipeEngine.CheckRecipeAvailability(c.Context(), recipeID)
	if err != nil {
		return respondError(c, domain.MessageFailedCheckAvailability, err)
	}

	return presenters.SuccessResponse(c, report, fiber.StatusOK, domain.MessageSuccessCheckAvailability)
}

func (h *recipeHandler) PrepareRecipe(c *fiber.Ctx) error {
	recipeID := c.Params("id")

	res, err := h.recipeEngine.Prepare(c.Context(), recipeID)
	if err != nil {
		return respondError(c, domain.MessageFailedPrepareRecipe, err)
	}

	return presenters.SuccessResponse(c, res, fiber.StatusOK, domain.MessageSuccessPrepareRecipe)
}
