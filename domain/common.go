package domain

import (
	"errors"
	"fmt"
	"strings"
)

var (
	MessageFailedBodyRequest    = "failed to parse request body"
	MessageFailedProcessRequest = "failed to process request"
	MessageSuccessHealthCheck   = "Inventra API is running"

	// Error categories surfaced to API callers. Concrete errors wrap one of these.
	ErrValidation        = errors.New("validation error")
	ErrNotFound          = errors.New("not found")
	ErrInsufficientStock = errors.New("insufficient stock")
)

// ValidationErrorf builds an error matching ErrValidation.
func ValidationErrorf(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrValidation, fmt.Sprintf(format, args...))
}

type (
	// MissingIngredient describes one shortfall found by an availability check
	// or rejected by an atomic decrement.
	MissingIngredient struct {
		Name      string  `json:"name"`
		Required  float64 `json:"required"`
		Available float64 `json:"available"`
		Unit      Unit    `json:"unit"`
	}

	// InsufficientStockError carries every shortfall so callers can show exactly what is missing.
	InsufficientStockError struct {
		Shortfalls []MissingIngredient
	}

	Pagination struct {
		Page       int   `json:"page"`
		Limit      int   `json:"limit"`
		Total      int64 `json:"total"`
		TotalPages int64 `json:"totalPages"`
	}
)

func NewInsufficientStockError(shortfalls []MissingIngredient) *InsufficientStockError {
	return &InsufficientStockError{Shortfalls: shortfalls}
}

func (e *InsufficientStockError) Error() string {
	if len(e.Shortfalls) == 0 {
		return ErrInsufficientStock.Error()
	}
	parts := make([]string, 0, len(e.Shortfalls))
	for _, s := range e.Shortfalls {
		parts = append(parts, fmt.Sprintf("%s (required %g %s, available %g %s)", s.Name, s.Required, s.Unit, s.Available, s.Unit))
	}
	return ErrInsufficientStock.Error() + ": " + strings.Join(parts, ", ")
}

func (e *InsufficientStockError) Is(target error) bool {
	return target == ErrInsufficientStock
}

func NewPagination(page, limit int, total int64) Pagination {
	return Pagination{
		Page:       page,
		Limit:      limit,
		Total:      total,
		TotalPages: (total + int64(limit) - 1) / int64(limit),
	}
}
