package utils

import (
	"fmt"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"
)

var (
	validate     *validator.Validate
	validateOnce sync.Once
)

// Validator mengembalikan instance validator tunggal (thread-safe, cache struct info).
func Validator() *validator.Validate {
	validateOnce.Do(func() {
		validate = validator.New(validator.WithRequiredStructEnabled())
	})
	return validate
}

// ValidateStruct menjalankan tag `validate` dan mengubah hasilnya menjadi ValidationError (400).
func ValidateStruct(s interface{}, message string) error {
	err := Validator().Struct(s)
	if err == nil {
		return nil
	}
	appErr := NewValidationError(message)
	if verrs, ok := err.(validator.ValidationErrors); ok {
		for _, fe := range verrs {
			appErr.WithErrors(describeFieldError(fe))
		}
		return appErr
	}
	return appErr.WithErrors(err.Error())
}

func describeFieldError(fe validator.FieldError) string {
	field := strings.ToLower(fe.Field()[:1]) + fe.Field()[1:]
	switch fe.Tag() {
	case "required":
		return field + " is required"
	case "min":
		return fmt.Sprintf("%s must be at least %s", field, fe.Param())
	case "max":
		return fmt.Sprintf("%s must be at most %s", field, fe.Param())
	case "oneof":
		return fmt.Sprintf("%s must be one of [%s]", field, fe.Param())
	default:
		return fmt.Sprintf("%s failed on '%s'", field, fe.Tag())
	}
}
