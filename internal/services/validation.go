package services

import (
	"errors"
	"fmt"
	"reflect"
	"regexp"
	"strings"

	"vitrina/internal/models"

	"github.com/go-playground/validator/v10"
)

var slugPattern = regexp.MustCompile(`^[-a-zA-Z0-9_]+$`)

// newValidator returns a validator that reports fields by their form name and knows
// the "slug" tag.
func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		for _, tag := range []string{"form", "json"} {
			name := strings.SplitN(fld.Tag.Get(tag), ",", 2)[0]
			if name == "-" {
				return ""
			}
			if name != "" {
				return name
			}
		}
		return fld.Name
	})
	// Registration only fails for an empty tag or nil func.
	_ = v.RegisterValidation("slug", func(fl validator.FieldLevel) bool {
		return slugPattern.MatchString(fl.Field().String())
	})
	return v
}

// structErrors runs the struct tag rules of v and converts failures to field errors.
func structErrors(v *validator.Validate, s interface{}) []models.FieldError {
	err := v.Struct(s)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return []models.FieldError{{Field: "_", Message: err.Error()}}
	}
	out := make([]models.FieldError, 0, len(verrs))
	for _, e := range verrs {
		out = append(out, models.FieldError{Field: e.Field(), Message: tagMessage(e)})
	}
	return out
}

func tagMessage(e validator.FieldError) string {
	isString := e.Kind() == reflect.String
	switch e.Tag() {
	case "required":
		return "this field is required"
	case "min":
		if isString {
			return fmt.Sprintf("must be at least %s characters long", e.Param())
		}
		return fmt.Sprintf("must be at least %s", e.Param())
	case "max":
		if isString {
			return fmt.Sprintf("must be at most %s characters long", e.Param())
		}
		return fmt.Sprintf("must be at most %s", e.Param())
	case "gte":
		return fmt.Sprintf("must be greater than or equal to %s", e.Param())
	case "email":
		return "must be a valid email address"
	case "slug":
		return "may contain only letters, numbers, underscores and hyphens"
	default:
		return fmt.Sprintf("failed on the '%s' rule", e.Tag())
	}
}
