// internal/utils/validator.go
package utils

import (
	"time"

	"github.com/go-playground/validator/v10"
)

var validate *validator.Validate

func init() {
	validate = validator.New()
	validate.RegisterValidation("dateformat", validateDateFormat)
}

func ValidateStruct(s interface{}) error {
	return validate.Struct(s)
}

// dateformat accepts calendar dates in YYYY-MM-DD form, the format every
// date-bound query parameter uses.
func validateDateFormat(fl validator.FieldLevel) bool {
	value := fl.Field().String()
	if value == "" {
		return true
	}
	_, err := time.Parse("2006-01-02", value)
	return err == nil
}
