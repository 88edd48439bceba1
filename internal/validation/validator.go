// Package validation owns the shared go-playground validator instance and
// converts its failures into carousel validation errors.
package validation

import (
	"fmt"
	"reflect"
	"regexp"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"

	carouselerrors "github.com/BillMorio/LinkedIn-Carousel/pkg/errors"
)

var (
	validatorOnce sync.Once
	validateInst  *validator.Validate

	hexColorPattern  = regexp.MustCompile(`^#(?:[0-9a-fA-F]{3}|[0-9a-fA-F]{4}|[0-9a-fA-F]{6}|[0-9a-fA-F]{8})$`)
	funcColorPattern = regexp.MustCompile(`^(?:rgb|rgba|hsl|hsla)\([^()]*\)$`)
	namedColor       = regexp.MustCompile(`^[a-zA-Z]+$`)
	cssLengthPattern = regexp.MustCompile(`^-?(?:\d+|\d*\.\d+)(?:px|rem|em|%|vh|vw|pt)?$`)
	slugPattern      = regexp.MustCompile(`^[a-z0-9][a-z0-9-]*$`)
)

func instance() *validator.Validate {
	validatorOnce.Do(func() {
		v := validator.New(validator.WithRequiredStructEnabled())

		v.RegisterTagNameFunc(func(field reflect.StructField) string {
			for _, tag := range []string{"json", "yaml", "mapstructure"} {
				name := strings.SplitN(field.Tag.Get(tag), ",", 2)[0]
				if name == "-" {
					return ""
				}
				if name != "" {
					return name
				}
			}
			return field.Name
		})

		_ = v.RegisterValidation("css_color", func(fl validator.FieldLevel) bool {
			return IsColor(fl.Field().String())
		})

		_ = v.RegisterValidation("css_length", func(fl validator.FieldLevel) bool {
			value := strings.TrimSpace(fl.Field().String())
			return value == "" || value == "auto" || cssLengthPattern.MatchString(value)
		})

		_ = v.RegisterValidation("slug", func(fl validator.FieldLevel) bool {
			return slugPattern.MatchString(fl.Field().String())
		})

		validateInst = v
	})

	return validateInst
}

// Validator returns the shared validator instance.
func Validator() *validator.Validate {
	return instance()
}

// Struct validates s and converts failures with Convert.
func Struct(s any) error {
	return Convert(instance().Struct(s))
}

// Var validates a single value against tag, reporting failures against field.
func Var(field string, value any, tag string) error {
	if err := instance().Var(value, tag); err != nil {
		if ves, ok := err.(validator.ValidationErrors); ok && len(ves) > 0 {
			return carouselerrors.NewValidationError(field, fmt.Sprintf("%v failed validation for tag '%s'", value, ves[0].Tag()), err)
		}
		return carouselerrors.NewValidationError(field, err.Error(), err)
	}
	return nil
}

// IsColor reports whether value is a hex, functional or named CSS colour.
func IsColor(value string) bool {
	value = strings.TrimSpace(value)
	if value == "" {
		return false
	}
	return hexColorPattern.MatchString(value) || funcColorPattern.MatchString(value) || namedColor.MatchString(value)
}

// Convert normalises validator errors into carousel validation errors.
func Convert(err error) error {
	if err == nil {
		return nil
	}

	if ves, ok := err.(validator.ValidationErrors); ok && len(ves) > 0 {
		ve := ves[0]
		field := fieldName(ve)
		msg := fmt.Sprintf("%s failed validation for tag '%s'", field, ve.Tag())
		if ve.Param() != "" {
			msg = fmt.Sprintf("%s failed validation for tag '%s=%s'", field, ve.Tag(), ve.Param())
		}
		return carouselerrors.NewValidationError(field, msg, err)
	}

	return carouselerrors.NewValidationError("", err.Error(), err)
}

// fieldName drops the root struct name from the namespace so messages read
// like JSON paths, e.g. "globalSettings.aspectRatio".
func fieldName(fe validator.FieldError) string {
	ns := fe.Namespace()
	if idx := strings.Index(ns, "."); idx >= 0 {
		return ns[idx+1:]
	}
	return ns
}
