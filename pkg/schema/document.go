package schema

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"

	"gopkg.in/yaml.v3"

	"github.com/goliatone/go-formwizard/pkg/model"
)

var (
	// ErrEmptyDocument is returned when a payload carries no form.
	ErrEmptyDocument = errors.New("schema: document does not contain a form")
	// ErrDecode wraps JSON and YAML decode failures.
	ErrDecode = errors.New("schema: decode document")
)

// Document wraps the raw schema payload and its origin.
type Document struct {
	source Source
	raw    []byte
}

// NewDocument constructs a Document wrapper while validating the inputs.
func NewDocument(src Source, raw []byte) (Document, error) {
	if src == nil {
		return Document{}, errors.New("schema: source is required")
	}
	if len(bytes.TrimSpace(raw)) == 0 {
		return Document{}, errors.New("schema: raw document is empty")
	}
	return Document{source: src, raw: bytes.Clone(raw)}, nil
}

// MustNewDocument panics if the document cannot be created. Useful for tests.
func MustNewDocument(src Source, raw []byte) Document {
	doc, err := NewDocument(src, raw)
	if err != nil {
		panic(err)
	}
	return doc
}

// Source returns the origin metadata for the document.
func (d Document) Source() Source { return d.source }

// Raw returns a defensive copy of the payload.
func (d Document) Raw() []byte { return bytes.Clone(d.raw) }

// Location returns the string identifier for the origin.
func (d Document) Location() string {
	if d.source == nil {
		return ""
	}
	return d.source.Location()
}

// envelope mirrors the retrieval endpoint's response body. Bare schemas
// (formTitle/sections at the top level) decode through the inline fields.
type envelope struct {
	Message  string            `json:"message,omitempty" yaml:"message,omitempty"`
	Form     *model.FormSchema `json:"form,omitempty" yaml:"form,omitempty"`
	Title    string            `json:"formTitle,omitempty" yaml:"formTitle,omitempty"`
	ID       string            `json:"formId,omitempty" yaml:"formId,omitempty"`
	Version  string            `json:"version,omitempty" yaml:"version,omitempty"`
	Sections []model.Section   `json:"sections,omitempty" yaml:"sections,omitempty"`
}

func (e envelope) schema() (model.FormSchema, bool) {
	if e.Form != nil {
		return *e.Form, true
	}
	if e.Title == "" && e.Sections == nil {
		return model.FormSchema{}, false
	}
	return model.FormSchema{ID: e.ID, Title: e.Title, Version: e.Version, Sections: e.Sections}, true
}

// Decode parses the document as JSON, falling back to YAML, and returns the
// form it carries. Structural validation is left to FormSchema.Validate.
func (d Document) Decode() (model.FormSchema, error) {
	return Decode(d.raw)
}

// Decode parses a raw JSON or YAML payload into a FormSchema.
func Decode(raw []byte) (model.FormSchema, error) {
	env, err := parseEnvelope(raw)
	if err != nil {
		return model.FormSchema{}, err
	}
	form, ok := env.schema()
	if !ok {
		return model.FormSchema{}, ErrEmptyDocument
	}
	return form, nil
}

func parseEnvelope(raw []byte) (envelope, error) {
	var env envelope
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) > 0 && (trimmed[0] == '{' || trimmed[0] == '[') {
		if err := json.Unmarshal(trimmed, &env); err != nil {
			return envelope{}, fmt.Errorf("%w: json: %w", ErrDecode, err)
		}
		return env, nil
	}
	if err := yaml.Unmarshal(trimmed, &env); err != nil {
		return envelope{}, fmt.Errorf("%w: yaml: %w", ErrDecode, err)
	}
	return env, nil
}
