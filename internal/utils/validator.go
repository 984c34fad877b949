package utils

import (
	"github.com/go-playground/validator/v10"
	"inventra-backend/domain"
)

var Validate *validator.Validate

func InitValidator() {
	Validate = NewValidator()
}

// NewValidator returns a validator that also understands the `unit` tag.
func NewValidator() *validator.Validate {
	v := validator.New()
	_ = v.RegisterValidation("unit", func(fl validator.FieldLevel) bool {
		return domain.Unit(fl.Field().String()).Valid()
	})
	return v
}
