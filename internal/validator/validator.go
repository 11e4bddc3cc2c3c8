package validator

import (
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/AndrewChmutov/big-medicine/internal/model"
)

// New creates a validator instance with the custom validations registered.
// This ensures consistent validation across the application and tests.
func New() *validator.Validate {
	v := validator.New()

	// "notblank" rejects whitespace-only strings, used for names that must
	// have meaningful content.
	_ = v.RegisterValidation("notblank", func(fl validator.FieldLevel) bool {
		str, ok := fl.Field().Interface().(string)
		if !ok {
			return true // Not a string, let other validators handle it
		}
		return strings.TrimSpace(str) != ""
	})

	// "uniquenames" rejects entry lists with repeated medicine names. Two
	// entries for the same catalog row would make the per-row CAS loop of one
	// workflow race against itself.
	_ = v.RegisterValidation("uniquenames", func(fl validator.FieldLevel) bool {
		entries, ok := fl.Field().Interface().([]model.MedicineEntry)
		if !ok {
			return true
		}
		seen := make(map[string]bool, len(entries))
		for _, entry := range entries {
			if seen[entry.Name] {
				return false
			}
			seen[entry.Name] = true
		}
		return true
	})

	return v
}
