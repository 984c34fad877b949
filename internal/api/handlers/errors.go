package handlers

import (
	"errors"
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
	"inventra-backend/domain"
	"inventra-backend/internal/api/presenters"
	"strconv"
)

// respondError maps a domain error onto its HTTP status.
func respondError(c *fiber.Ctx, message string, err error) error {
	var stockErr *domain.InsufficientStockError
	switch {
	case errors.As(err, &stockErr):
		missing := stockErr.Shortfalls
		if missing == nil {
			missing = []domain.MissingIngredient{}
		}
		return presenters.ErrorResponseWithData(c, fiber.StatusConflict, domain.MessageInsufficientIngredients, err, fiber.Map{
			"missingIngredients": missing,
		})
	case errors.Is(err, domain.ErrValidation):
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, message, err)
	case errors.Is(err, domain.ErrNotFound):
		return presenters.ErrorResponse(c, fiber.StatusNotFound, message, err)
	default:
		zap.L().Error(message, zap.String("path", c.Path()), zap.Error(err))
		return presenters.ErrorResponse(c, fiber.StatusInternalServerError, message, errors.New(domain.MessageFailedProcessRequest))
	}
}

func pagination(c *fiber.Ctx) (int, int) {
	page, err := strconv.Atoi(c.Query("page", "1"))
	if err != nil || page < 1 {
		page = 1
	}

	limit, err := strconv.Atoi(c.Query("limit", "20"))
	if err != nil || limit < 1 {
		limit = 20
	}
	return page, limit
}
