package handlers

import (
	"fmt"
	"time"

	"github.com/domohq/domo_backend/internal/core/domain"
	"github.com/domohq/domo_backend/internal/dto"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

// RegisterValidators installs the custom binding rules used by the request DTOs:
// "isodate" for YYYY-MM-DD strings and "paymethod" for dto payment methods.
func RegisterValidators() error {
	v, ok := binding.Validator.Engine().(*validator.Validate)
	if !ok {
		return fmt.Errorf("unexpected validator engine %T", binding.Validator.Engine())
	}
	if err := v.RegisterValidation("isodate", isoDate); err != nil {
		return fmt.Errorf("register isodate: %w", err)
	}
	if err := v.RegisterValidation("paymethod", paymentMethod); err != nil {
		return fmt.Errorf("register paymethod: %w", err)
	}
	return nil
}

func isoDate(fl validator.FieldLevel) bool {
	_, err := time.Parse(dto.DateLayout, fl.Field().String())
	return err == nil
}

func paymentMethod(fl validator.FieldLevel) bool {
	return domain.PaymentMethod(fl.Field().String()).Valid()
}
