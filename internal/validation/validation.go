// Package validation checks request structs with go-playground/validator and
// reports failures as API errors.
package validation

import (
	"errors"
	"reflect"
	"strconv"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"

	"github.com/dtroode/todo-server/internal/apierrors"
)

var (
	validate *validator.Validate
	once     sync.Once
)

func getValidator() *validator.Validate {
	once.Do(func() {
		validate = validator.New(validator.WithRequiredStructEnabled())

		validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
			name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
			if name == "-" || name == "" {
				return fld.Name
			}
			return name
		})

		// maxbytes limits len() of a string, unlike max which counts runes.
		_ = validate.RegisterValidation("maxbytes", func(fl validator.FieldLevel) bool {
			limit, err := strconv.Atoi(fl.Param())
			if err != nil {
				return false
			}
			return len(fl.Field().String()) <= limit
		})
	})
	return validate
}

// Validate checks s against its `validate` tags. Missing required fields
// produce a 400 error; any other failure produces a 422 error.
func Validate(s any) error {
	err := getValidator().Struct(s)
	if err == nil {
		return nil
	}

	var validationErrors validator.ValidationErrors
	if !errors.As(err, &validationErrors) {
		return apierrors.NewErrInternalServerError(err)
	}

	var missing, invalid []apierrors.FieldError
	for _, e := range validationErrors {
		fe := apierrors.FieldError{Field: e.Field(), Message: formatValidationError(e)}
		if e.Tag() == "required" {
			missing = append(missing, fe)
		} else {
			invalid = append(invalid, fe)
		}
	}

	if len(missing) > 0 {
		return apierrors.NewErrMissingFields(missing)
	}
	return apierrors.NewErrInvalidFields(invalid)
}

func formatValidationError(e validator.FieldError) string {
	field := e.Field()
	switch e.Tag() {
	case "required":
		return field + " is required"
	case "email":
		return field + " must be a valid email address"
	case "min":
		return field + " must be at least " + e.Param() + " characters"
	case "max":
		return field + " must be at most " + e.Param() + " characters"
	case "maxbytes":
		return field + " must be at most " + e.Param() + " bytes"
	case "eqfield":
		return field + " must match " + lowerFirst(e.Param())
	default:
		return field + " is invalid"
	}
}

func lowerFirst(s string) string {
	if s == "" {
		return s
	}
	return strings.ToLower(s[:1]) + s[1:]
}
