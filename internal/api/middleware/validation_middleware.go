package middleware

import (
	"regexp"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

var (
	timeOfDayPattern = regexp.MustCompile(`^([01][0-9]|2[0-3]):[0-5][0-9]$`)
	dateOnlyPattern  = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`)
)

// RegisterValidators installs custom binding validators used by the
// DTOs. Call once at startup before any request is served.
func RegisterValidators() {
	v, ok := binding.Validator.Engine().(*validator.Validate)
	if !ok {
		return
	}

	_ = v.RegisterValidation("hhmm", func(fl validator.FieldLevel) bool {
		return timeOfDayPattern.MatchString(fl.Field().String())
	})
	_ = v.RegisterValidation("dateonly", func(fl validator.FieldLevel) bool {
		return dateOnlyPattern.MatchString(fl.Field().String())
	})
}
