package api

import (
	"MacroPulse/internal/domain/models"
	xhttp "MacroPulse/pkg/http"

	"github.com/go-playground/validator/v10"
)

func init() {
	_ = xhttp.RegisterValidation("instrument", func(fl validator.FieldLevel) bool {
		return models.InstrumentKey(fl.Field().String()).Valid()
	})
}
