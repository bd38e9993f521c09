// Package validation wraps go-playground/validator with the custom rules used by
// artmatch request payloads.
//
// The validator is built once and shared; struct metadata is cached across calls.
//
//	type preferencesRequest struct {
//	    Budget  string   `json:"budget" validate:"omitempty,budget"`
//	    Styles  []string `json:"styles" validate:"max=32,dive,max=64"`
//	}
//
//	if err := validation.ValidateStruct(&req); err != nil {
//	    writeJSONError(w, http.StatusBadRequest, err.Error())
//	}
package validation

import (
	"errors"
	"fmt"
	"reflect"
	"regexp"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"
)

var (
	validate     *validator.Validate
	validateOnce sync.Once
)

// budgetPattern accepts "500-2000", "10000+", "$2,000 - $10,000" and similar.
var budgetPattern = regexp.MustCompile(`^\s*[$€£]?\s*\d[\d,]*(\.\d+)?\s*(\+|-\s*[$€£]?\s*\d[\d,]*(\.\d+)?)?\s*$`)

// FieldError describes one rejected field.
type FieldError struct {
	Field   string
	Tag     string
	Param   string
	Message string
}

func (e FieldError) Error() string {
	return e.Message
}

// RequestValidationError collects every rejected field of a payload.
type RequestValidationError struct {
	Fields []FieldError
}

func (e *RequestValidationError) Error() string {
	if len(e.Fields) == 0 {
		return "validation failed"
	}
	messages := make([]string, 0, len(e.Fields))
	for _, field := range e.Fields {
		messages = append(messages, field.Message)
	}
	return strings.Join(messages, "; ")
}

// Validator returns the shared validator instance.
func Validator() *validator.Validate {
	validateOnce.Do(func() {
		v := validator.New(validator.WithRequiredStructEnabled())
		v.RegisterTagNameFunc(jsonFieldName)
		if err := v.RegisterValidation("budget", validBudget); err != nil {
			panic(fmt.Sprintf("validation: register budget: %v", err))
		}
		validate = v
	})
	return validate
}

// ValidateStruct checks s against its validate tags. Failures are returned as a
// *RequestValidationError.
func ValidateStruct(s any) error {
	err := Validator().Struct(s)
	if err == nil {
		return nil
	}

	var invalid *validator.InvalidValidationError
	if errors.As(err, &invalid) {
		return fmt.Errorf("validation: %w", err)
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return err
	}

	out := &RequestValidationError{Fields: make([]FieldError, 0, len(fieldErrs))}
	for _, fe := range fieldErrs {
		out.Fields = append(out.Fields, FieldError{
			Field:   fe.Field(),
			Tag:     fe.Tag(),
			Param:   fe.Param(),
			Message: translate(fe),
		})
	}
	return out
}

// OneOf rejects value for field unless it is one of allowed. It backs choices
// that come from configuration rather than a static oneof tag.
func OneOf(field, value string, allowed []string) error {
	for _, candidate := range allowed {
		if value == candidate {
			return nil
		}
	}
	return &RequestValidationError{Fields: []FieldError{{
		Field:   field,
		Tag:     "oneof",
		Param:   strings.Join(allowed, " "),
		Message: fmt.Sprintf("%s must be one of: %s", field, strings.Join(allowed, ", ")),
	}}}
}

// ValidBudget reports whether value is an accepted budget encoding.
func ValidBudget(value string) bool {
	return budgetPattern.MatchString(value)
}

func validBudget(fl validator.FieldLevel) bool {
	return ValidBudget(fl.Field().String())
}

func jsonFieldName(field reflect.StructField) string {
	name := strings.SplitN(field.Tag.Get("json"), ",", 2)[0]
	switch name {
	case "-":
		return ""
	case "":
		return field.Name
	default:
		return name
	}
}

func translate(fe validator.FieldError) string {
	field := fe.Field()
	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("%s is required", field)
	case "budget":
		return fmt.Sprintf("%s must look like 500-2000 or 10000+", field)
	case "oneof":
		return fmt.Sprintf("%s must be one of: %s", field, strings.ReplaceAll(fe.Param(), " ", ", "))
	case "max":
		if fe.Kind() == reflect.Slice {
			return fmt.Sprintf("%s must have at most %s entries", field, fe.Param())
		}
		return fmt.Sprintf("%s must be at most %s", field, fe.Param())
	case "min":
		return fmt.Sprintf("%s must be at least %s", field, fe.Param())
	case "gte":
		return fmt.Sprintf("%s must be greater than or equal to %s", field, fe.Param())
	case "lte":
		return fmt.Sprintf("%s must be less than or equal to %s", field, fe.Param())
	case "url":
		return fmt.Sprintf("%s must be a valid URL", field)
	case "http_url":
		return fmt.Sprintf("%s must be an http or https URL", field)
	default:
		return fmt.Sprintf("%s failed %s validation", field, fe.Tag())
	}
}
