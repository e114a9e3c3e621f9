// Package validation checks catalog write payloads before they reach the
// store. Structural rules live in validate struct tags; the date formats the
// catalog understands are registered as custom rules.
package validation

import (
	"regexp"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/keycaplendar/api/internal/models"
)

var quarterRegex = regexp.MustCompile(`^\d{4}Q[1-4]$`)

// FieldError describes one failed rule on a payload field
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// Validator wraps a validator.Validate instance with the catalog's custom
// date rules registered
type Validator struct {
	validate *validator.Validate
}

// New creates a validator instance
func New() *Validator {
	v := validator.New()

	// isodate: "2006-01-02", or "2006-01" for month-granularity fields
	v.RegisterValidation("isodate", func(fl validator.FieldLevel) bool {
		return isDate(fl.Field().String())
	})

	// launchdate: an isodate or a quarter placeholder like "2022Q3"
	v.RegisterValidation("launchdate", func(fl validator.FieldLevel) bool {
		s := fl.Field().String()
		return isDate(s) || quarterRegex.MatchString(s)
	})

	return &Validator{validate: v}
}

// ValidateKeyset checks a keyset create/update payload
func (v *Validator) ValidateKeyset(req *models.KeysetRequest) []FieldError {
	return v.collect(v.validate.Struct(req))
}

// ValidatePreset checks a preset save payload
func (v *Validator) ValidatePreset(req *models.PresetRequest) []FieldError {
	return v.collect(v.validate.Struct(req))
}

func (v *Validator) collect(err error) []FieldError {
	if err == nil {
		return nil
	}
	invalid, ok := err.(validator.ValidationErrors)
	if !ok {
		return []FieldError{{Field: "", Message: err.Error()}}
	}

	out := make([]FieldError, 0, len(invalid))
	for _, fe := range invalid {
		out = append(out, FieldError{Field: fe.Field(), Message: message(fe)})
	}
	return out
}

func message(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "min":
		return "needs at least " + fe.Param() + " entry"
	case "url":
		return "must be a valid URL"
	case "isodate":
		return "must be an ISO date (YYYY-MM-DD or YYYY-MM)"
	case "launchdate":
		return "must be an ISO date or a quarter like 2022Q3"
	default:
		return "is invalid"
	}
}

func isDate(s string) bool {
	if _, err := time.Parse("2006-01-02", s); err == nil {
		return true
	}
	_, err := time.Parse("2006-01", s)
	return err == nil
}
