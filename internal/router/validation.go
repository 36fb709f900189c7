package router

import (
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"

	"github.com/coucou-beaute/booking-api/internal/schedule"
)

// registerValidators installs custom binding validators. "clock" accepts the
// HH:MM strings used by schedule configurations.
func registerValidators() {
	v, ok := binding.Validator.Engine().(*validator.Validate)
	if !ok {
		return
	}
	v.RegisterValidation("clock", func(fl validator.FieldLevel) bool {
		return schedule.ValidClock(fl.Field().String())
	})
}
