// Package validation checks request structs against their `validate` tags and
// reports the first failure as a models.ValidationError.
package validation

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
	"sync"

	"github.com/JamissonSilvaTico/LavaJato/internal/models"
	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
)

var (
	once     sync.Once
	validate *validator.Validate
)

func instance() *validator.Validate {
	once.Do(func() {
		validate = validator.New(validator.WithRequiredStructEnabled())
		validate.RegisterTagNameFunc(func(field reflect.StructField) string {
			name := strings.SplitN(field.Tag.Get("json"), ",", 2)[0]
			if name == "-" {
				return ""
			}
			if name == "" {
				return field.Name
			}
			return name
		})
		// Money, quantities and dates are checked by value, so tags such as
		// gte=0 and required apply to them directly.
		validate.RegisterCustomTypeFunc(func(v reflect.Value) interface{} {
			return v.Interface().(decimal.Decimal).InexactFloat64()
		}, decimal.Decimal{})
		validate.RegisterCustomTypeFunc(func(v reflect.Value) interface{} {
			return v.Interface().(models.Date).Time
		}, models.Date{})
	})
	return validate
}

func Struct(s interface{}) error {
	err := instance().Struct(s)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) || len(fieldErrs) == 0 {
		return models.NewValidationError("", err.Error())
	}

	fe := fieldErrs[0]
	return models.NewValidationError(fieldPath(fe), reason(fe))
}

// fieldPath drops the top-level struct name from the namespace, so
// "CreateInput.serviceIds[0]" becomes "serviceIds[0]".
func fieldPath(fe validator.FieldError) string {
	ns := fe.Namespace()
	if i := strings.Index(ns, "."); i >= 0 {
		return ns[i+1:]
	}
	return fe.Field()
}

func reason(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "min":
		switch fe.Kind() {
		case reflect.Slice:
			return fmt.Sprintf("must have at least %s item(s)", fe.Param())
		case reflect.String:
			return fmt.Sprintf("must have at least %s characters", fe.Param())
		}
		return fmt.Sprintf("must be at least %s", fe.Param())
	case "max":
		return fmt.Sprintf("must be at most %s", fe.Param())
	case "gt":
		return fmt.Sprintf("must be greater than %s", fe.Param())
	case "gte":
		return fmt.Sprintf("must be greater than or equal to %s", fe.Param())
	case "oneof":
		return fmt.Sprintf("must be one of [%s]", fe.Param())
	case "email":
		return "must be a valid email"
	}
	return fmt.Sprintf("failed %q check", fe.Tag())
}
