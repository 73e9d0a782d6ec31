package mapping

import (
	"errors"
	"fmt"
	"go/token"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"

	"common-tools/primitive"
)

var ErrInvalidProfile = errors.New("invalid mapping profile")

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())

	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name, _, _ := strings.Cut(f.Tag.Get("yaml"), ",")
		if name == "-" {
			return ""
		}
		return name
	})

	must(v.RegisterValidation("goident", func(fl validator.FieldLevel) bool {
		return token.IsIdentifier(fl.Field().String())
	}))
	must(v.RegisterValidation("category", func(fl validator.FieldLevel) bool {
		_, ok := primitive.ParseCategory(fl.Field().String())
		return ok
	}))

	return v
}

func must(err error) {
	if err != nil {
		panic(err)
	}
}

// Validate checks the structural rules of a profile file.
func Validate(mf *MappingFile) error {
	if err := validate.Struct(mf); err != nil {
		return formatValidationError(err)
	}

	seen := make(map[[2]string]bool, len(mf.TypeMappings))
	for i, tm := range mf.TypeMappings {
		key := [2]string{tm.Source, tm.Target}
		if seen[key] {
			return fmt.Errorf("%w: mappings[%d]: duplicate profile %s -> %s", ErrInvalidProfile, i, tm.Source, tm.Target)
		}
		seen[key] = true

		for j, f := range tm.Fields {
			if f.Source == "" && f.Default == nil {
				return fmt.Errorf("%w: mappings[%d].fields[%d]: %s needs a source or a default", ErrInvalidProfile, i, j, f.Target)
			}
		}
	}

	return nil
}

func formatValidationError(err error) error {
	var validationErrors validator.ValidationErrors
	if !errors.As(err, &validationErrors) {
		return fmt.Errorf("%w: %w", ErrInvalidProfile, err)
	}

	messages := make([]string, 0, len(validationErrors))
	for _, e := range validationErrors {
		messages = append(messages, formatFieldError(e))
	}

	return fmt.Errorf("%w: %s", ErrInvalidProfile, strings.Join(messages, "; "))
}

func formatFieldError(e validator.FieldError) string {
	field := strings.TrimPrefix(e.Namespace(), "MappingFile.")

	switch e.Tag() {
	case "required":
		return fmt.Sprintf("%s is required", field)
	case "goident":
		return fmt.Sprintf("%s: %q is not a Go identifier", field, e.Value())
	case "category":
		return fmt.Sprintf("%s: unknown category %q", field, e.Value())
	case "oneof":
		return fmt.Sprintf("%s must be one of: %s", field, e.Param())
	default:
		return fmt.Sprintf("%s is invalid", field)
	}
}
