// Package validator provides custom validation functions for Gin's binding engine.
package validator

import (
	"regexp"

	"github.com/badoux/checkmail"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

var hexColorRegex = regexp.MustCompile(`^#([0-9a-fA-F]{3}|[0-9a-fA-F]{6})$`)

// Register registers all custom validators with the Gin binding engine.
func Register() {
	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		_ = v.RegisterValidation("hex_color", validateHexColor)
		_ = v.RegisterValidation("movement_type", validateMovementType)
		_ = v.RegisterValidation("recurrence_type", validateRecurrenceType)
		_ = v.RegisterValidation("month_list", validateMonthList)
		_ = v.RegisterValidation("mailbox", validateMailbox)
	}
}

func validateHexColor(fl validator.FieldLevel) bool {
	return hexColorRegex.MatchString(fl.Field().String())
}

func validateMovementType(fl validator.FieldLevel) bool {
	switch fl.Field().String() {
	case "INCOME", "EXPENSE":
		return true
	}
	return false
}

func validateRecurrenceType(fl validator.FieldLevel) bool {
	return fl.Field().String() == "monthly"
}

// validateMonthList accepts a slice of month numbers 1..12.
func validateMonthList(fl validator.FieldLevel) bool {
	field := fl.Field()
	for i := 0; i < field.Len(); i++ {
		m := field.Index(i).Int()
		if m < 1 || m > 12 {
			return false
		}
	}
	return true
}

func validateMailbox(fl validator.FieldLevel) bool {
	return ValidEmail(fl.Field().String())
}

// ValidEmail reports whether s is a syntactically valid email address.
func ValidEmail(s string) bool {
	return checkmail.ValidateFormat(s) == nil
}
