// Package validation envuelve go-playground/validator y traduce sus errores a result.Error.
package validation

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/jhoicas/Academia-api/pkg/result"
)

// Validator validador de DTOs. Seguro para uso concurrente.
type Validator struct {
	v *validator.Validate
}

// New construye el validador; los campos se nombran por su tag json.
func New() *Validator {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "-" || name == "" {
			return f.Name
		}
		return name
	})
	return &Validator{v: v}
}

// Struct valida s y devuelve un error por campo inválido (vacío si es válido).
func (val *Validator) Struct(s any) []result.Error {
	err := val.v.Struct(s)
	if err == nil {
		return nil
	}
	var ve validator.ValidationErrors
	if !errors.As(err, &ve) {
		return []result.Error{result.Validation("request", err.Error())}
	}
	out := make([]result.Error, 0, len(ve))
	for _, fe := range ve {
		out = append(out, result.Validation(fe.Field(), fieldError(fe)))
	}
	return out
}

// Messages extrae los mensajes de una lista de errores.
func Messages(errs []result.Error) []string {
	out := make([]string, len(errs))
	for i, e := range errs {
		out[i] = e.Message
	}
	return out
}

func fieldError(fe validator.FieldError) string {
	field := fe.Field()
	switch fe.Tag() {
	case "required":
		return field + " is required."
	case "email":
		return field + " must be a valid email."
	case "min":
		return fmt.Sprintf("%s must be at least %s characters.", field, fe.Param())
	case "max":
		return fmt.Sprintf("%s must be at most %s characters.", field, fe.Param())
	case "oneof":
		return fmt.Sprintf("%s must be one of: %s.", field, fe.Param())
	default:
		return fmt.Sprintf("%s failed validation (%s).", field, fe.Tag())
	}
}
