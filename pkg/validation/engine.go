// Package validation decides whether field and section values satisfy the
// constraints declared in a schema. Every function here is pure: it reads the
// schema and the store and never mutates either.
package validation

import (
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/goliatone/go-formwizard/pkg/model"
)

var (
	emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)
	phonePattern = regexp.MustCompile(`^\+?[0-9\s\-()]{7,}$`)
)

// Message ids resolved through the Translator.
const (
	MsgRequired  = "validation.required"
	MsgMinLength = "validation.min_length"
	MsgMaxLength = "validation.max_length"
	MsgEmail     = "validation.email"
	MsgPhone     = "validation.phone"
)

// Translator resolves a message id. count selects a plural form and is
// negative for messages without one.
type Translator interface {
	Translate(id string, count int, data map[string]any) (string, error)
}

// FieldError is a single validation failure.
type FieldError struct {
	FieldID string `json:"fieldId"`
	Message string `json:"message"`
	Rule    string `json:"rule"`
}

func (e FieldError) Error() string {
	return e.FieldID + ": " + e.Message
}

// SectionResult is the outcome of validating one section. Errors follow field
// declaration order with at most one entry per field.
type SectionResult struct {
	Valid  bool         `json:"valid"`
	Errors []FieldError `json:"errors,omitempty"`
}

// ErrorFor returns the error recorded for fieldID, if any.
func (r SectionResult) ErrorFor(fieldID string) (FieldError, bool) {
	for _, err := range r.Errors {
		if err.FieldID == fieldID {
			return err, true
		}
	}
	return FieldError{}, false
}

// Engine validates values against field constraints.
type Engine struct {
	translator Translator
}

// Option configures an Engine.
type Option func(*Engine)

// WithTranslator routes messages through t instead of the English defaults.
func WithTranslator(t Translator) Option {
	return func(e *Engine) {
		e.translator = t
	}
}

// New constructs an Engine.
func New(opts ...Option) *Engine {
	e := &Engine{}
	for _, opt := range opts {
		if opt != nil {
			opt(e)
		}
	}
	return e
}

// ValidateField checks value against field and returns the first failing
// rule, or nil. Rules run in order: required, minLength, maxLength, then the
// email or telephone format. Other types have no format rule.
func (e *Engine) ValidateField(field model.Field, value model.Value) *FieldError {
	if value.IsEmpty() {
		if !field.Required {
			return nil
		}
		msg := field.RequiredMessage()
		if msg == "" {
			msg = e.message(MsgRequired, map[string]any{"Label": field.Label})
		}
		return &FieldError{FieldID: field.ID, Message: msg, Rule: "required"}
	}

	str, ok := value.Str()
	if !ok {
		return nil
	}

	length := utf8.RuneCountInString(str)
	if field.MinLength != nil && length < *field.MinLength {
		return e.fail(field, "minLength", MsgMinLength, map[string]any{"Label": field.Label, "Count": *field.MinLength})
	}
	if field.MaxLength != nil && length > *field.MaxLength {
		return e.fail(field, "maxLength", MsgMaxLength, map[string]any{"Label": field.Label, "Count": *field.MaxLength})
	}

	switch field.Type {
	case model.FieldTypeEmail:
		if !emailPattern.MatchString(str) {
			return e.fail(field, "email", MsgEmail, nil)
		}
	case model.FieldTypeTelephone:
		if !phonePattern.MatchString(str) {
			return e.fail(field, "phone", MsgPhone, nil)
		}
	}
	return nil
}

// ValidateSection runs ValidateField over every field in declaration order.
func (e *Engine) ValidateSection(fields []model.Field, store *model.ValueStore) SectionResult {
	result := SectionResult{Valid: true}
	for _, field := range fields {
		value, _ := store.Get(field.ID)
		if err := e.ValidateField(field, value); err != nil {
			result.Errors = append(result.Errors, *err)
		}
	}
	result.Valid = len(result.Errors) == 0
	return result
}

func (e *Engine) fail(field model.Field, rule, id string, data map[string]any) *FieldError {
	return &FieldError{FieldID: field.ID, Message: e.message(id, data), Rule: rule}
}

func (e *Engine) message(id string, data map[string]any) string {
	if e != nil && e.translator != nil {
		if out, err := e.translator.Translate(id, -1, data); err == nil && strings.TrimSpace(out) != "" {
			return out
		}
	}
	return fallback(id, data)
}

var defaultEngine = New()

// ValidateField validates with English messages.
func ValidateField(field model.Field, value model.Value) *FieldError {
	return defaultEngine.ValidateField(field, value)
}

// ValidateSection validates with English messages.
func ValidateSection(fields []model.Field, store *model.ValueStore) SectionResult {
	return defaultEngine.ValidateSection(fields, store)
}
