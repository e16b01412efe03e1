package server

import (
	"github.com/go-playground/validator/v10"

	"taskshare/internal/models"
)

const maxPasswordBytes = 72

// registerValidations adds the enum checks used by request bindings.
func registerValidations(v *validator.Validate) {
	_ = v.RegisterValidation("role", func(fl validator.FieldLevel) bool {
		return models.Role(fl.Field().String()).Valid()
	})
	_ = v.RegisterValidation("task_status", func(fl validator.FieldLevel) bool {
		_, ok := models.ValidTaskStatuses[models.TaskStatus(fl.Field().String())]
		return ok
	})
	// bcrypt rejects input past 72 bytes; max= counts runes.
	_ = v.RegisterValidation("password_bytes", func(fl validator.FieldLevel) bool {
		return len(fl.Field().String()) <= maxPasswordBytes
	})
	_ = v.RegisterValidation("task_priority", func(fl validator.FieldLevel) bool {
		_, ok := models.ValidTaskPriorities[models.TaskPriority(fl.Field().String())]
		return ok
	})
}
