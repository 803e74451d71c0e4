package httpserver

import (
	"encoding/json"
	"errors"
	"io"
	"reflect"
	"strings"
	"sync"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"storefront/internal/domain"
)

var validatorOnce sync.Once

// setupValidator makes validator errors report JSON field names.
func setupValidator() {
	validatorOnce.Do(func() {
		v, ok := binding.Validator.Engine().(*validator.Validate)
		if !ok {
			return
		}
		v.RegisterTagNameFunc(func(fld reflect.StructField) string {
			name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
			if name == "-" {
				return ""
			}
			if name == "" {
				name = strings.SplitN(fld.Tag.Get("form"), ",", 2)[0]
			}
			return name
		})
	})
}

type fieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// bindingDetails converts a gin binding error into per-field messages.
func bindingDetails(err error) []fieldError {
	var (
		verrs     validator.ValidationErrors
		typeErr   *json.UnmarshalTypeError
		syntaxErr *json.SyntaxError
		domainErr *domain.ValidationError
	)
	switch {
	case errors.As(err, &verrs):
		out := make([]fieldError, 0, len(verrs))
		for _, e := range verrs {
			out = append(out, fieldError{Field: e.Field(), Message: validationMessage(e)})
		}
		return out
	case errors.As(err, &typeErr):
		return []fieldError{{Field: typeErr.Field, Message: "Must be a " + jsonKind(typeErr.Type)}}
	case errors.As(err, &syntaxErr), errors.Is(err, io.ErrUnexpectedEOF):
		return []fieldError{{Message: "Malformed JSON body"}}
	case errors.Is(err, io.EOF):
		return []fieldError{{Message: "Request body is required"}}
	case errors.As(err, &domainErr):
		return []fieldError{{Field: domainErr.Field, Message: domainErr.Message}}
	default:
		return []fieldError{{Message: err.Error()}}
	}
}

func jsonKind(t reflect.Type) string {
	for t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	switch t.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return "whole number"
	case reflect.Float32, reflect.Float64:
		return "number"
	case reflect.Bool:
		return "boolean"
	case reflect.String:
		return "string"
	case reflect.Slice, reflect.Array:
		return "list"
	default:
		return "valid value"
	}
}

func validationMessage(e validator.FieldError) string {
	switch e.Tag() {
	case "required":
		return "This field is required"
	case "email":
		return "Invalid email format"
	case "min":
		if e.Type().Kind() == reflect.String {
			return "Must be at least " + e.Param() + " characters"
		}
		return "Must be at least " + e.Param()
	case "max":
		if e.Type().Kind() == reflect.String {
			return "Must be at most " + e.Param() + " characters"
		}
		return "Must be at most " + e.Param()
	case "gte":
		return "Must be greater than or equal to " + e.Param()
	case "gt":
		return "Must be greater than " + e.Param()
	case "oneof":
		return "Must be one of: " + e.Param()
	default:
		return "Invalid value"
	}
}
