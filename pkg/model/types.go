package model

import (
	"encoding/json"
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"
)

// FieldType is the type tag that selects a field's renderer and stored-value
// shape.
type FieldType string

const (
	FieldTypeText      FieldType = "text"
	FieldTypeEmail     FieldType = "email"
	FieldTypeTextarea  FieldType = "textarea"
	FieldTypeDate      FieldType = "date"
	FieldTypeTelephone FieldType = "tel"
	FieldTypeDropdown  FieldType = "dropdown"
	FieldTypeRadio     FieldType = "radio"
	FieldTypeCheckbox  FieldType = "checkbox"
)

var fieldTypeAliases = map[string]FieldType{
	"text":      FieldTypeText,
	"email":     FieldTypeEmail,
	"textarea":  FieldTypeTextarea,
	"date":      FieldTypeDate,
	"tel":       FieldTypeTelephone,
	"telephone": FieldTypeTelephone,
	"phone":     FieldTypeTelephone,
	"dropdown":  FieldTypeDropdown,
	"select":    FieldTypeDropdown,
	"radio":     FieldTypeRadio,
	"checkbox":  FieldTypeCheckbox,
}

// ParseFieldType resolves a wire tag (including aliases) into a FieldType.
func ParseFieldType(raw string) (FieldType, bool) {
	ft, ok := fieldTypeAliases[strings.ToLower(strings.TrimSpace(raw))]
	return ft, ok
}

// UnmarshalJSON canonicalises aliases; unknown tags are kept verbatim so
// FormSchema.Validate can report them.
func (t *FieldType) UnmarshalJSON(data []byte) error {
	var raw string
	if err := json.Unmarshal(data, &raw); err != nil {
		return fmt.Errorf("model: field type must be a string: %w", err)
	}
	*t = canonicalFieldType(raw)
	return nil
}

func (t *FieldType) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind != yaml.ScalarNode {
		return fmt.Errorf("model: field type must be a scalar (line %d)", node.Line)
	}
	*t = canonicalFieldType(node.Value)
	return nil
}

func canonicalFieldType(raw string) FieldType {
	if ft, ok := ParseFieldType(raw); ok {
		return ft
	}
	return FieldType(raw)
}

// Known reports whether t is one of the canonical type tags.
func (t FieldType) Known() bool {
	for _, known := range KnownFieldTypes() {
		if t == known {
			return true
		}
	}
	return false
}

// KnownFieldTypes lists the canonical type tags in a stable order.
func KnownFieldTypes() []FieldType {
	return []FieldType{
		FieldTypeText,
		FieldTypeEmail,
		FieldTypeTextarea,
		FieldTypeDate,
		FieldTypeTelephone,
		FieldTypeDropdown,
		FieldTypeRadio,
		FieldTypeCheckbox,
	}
}

// Option is a selectable choice for dropdown, radio and checkbox fields.
type Option struct {
	Value      string `json:"value" yaml:"value"`
	Label      string `json:"label" yaml:"label"`
	DataTestID string `json:"dataTestId,omitempty" yaml:"dataTestId,omitempty"`
}

// FieldValidation carries optional overrides for validation messages.
type FieldValidation struct {
	Message string `json:"message,omitempty" yaml:"message,omitempty"`
}

// Field is a single data-collection unit inside a section.
type Field struct {
	ID          string           `json:"fieldId" yaml:"fieldId"`
	Type        FieldType        `json:"type" yaml:"type"`
	Label       string           `json:"label" yaml:"label"`
	Placeholder string           `json:"placeholder,omitempty" yaml:"placeholder,omitempty"`
	Required    bool             `json:"required" yaml:"required"`
	DataTestID  string           `json:"dataTestId,omitempty" yaml:"dataTestId,omitempty"`
	MinLength   *int             `json:"minLength,omitempty" yaml:"minLength,omitempty"`
	MaxLength   *int             `json:"maxLength,omitempty" yaml:"maxLength,omitempty"`
	Min         string           `json:"min,omitempty" yaml:"min,omitempty"`
	Max         string           `json:"max,omitempty" yaml:"max,omitempty"`
	Options     []Option         `json:"options,omitempty" yaml:"options,omitempty"`
	Validation  *FieldValidation `json:"validation,omitempty" yaml:"validation,omitempty"`
}

// RequiredMessage returns the schema-provided required-failure message, if any.
func (f Field) RequiredMessage() string {
	if f.Validation == nil {
		return ""
	}
	return strings.TrimSpace(f.Validation.Message)
}

// HasOptions reports whether the field declares any options.
func (f Field) HasOptions() bool {
	return len(f.Options) > 0
}

// OptionByValue looks up an option by its value.
func (f Field) OptionByValue(value string) (Option, bool) {
	for _, opt := range f.Options {
		if opt.Value == value {
			return opt, true
		}
	}
	return Option{}, false
}

// SectionID accepts both numeric and string identifiers on the wire.
type SectionID string

func (id *SectionID) UnmarshalJSON(data []byte) error {
	trimmed := strings.TrimSpace(string(data))
	if trimmed == "null" {
		*id = ""
		return nil
	}
	if strings.HasPrefix(trimmed, `"`) {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*id = SectionID(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return fmt.Errorf("model: section id must be a string or number: %w", err)
	}
	*id = SectionID(n.String())
	return nil
}

func (id *SectionID) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind != yaml.ScalarNode {
		return fmt.Errorf("model: section id must be a scalar (line %d)", node.Line)
	}
	*id = SectionID(node.Value)
	return nil
}

// Section is one step of the wizard.
type Section struct {
	ID          SectionID `json:"sectionId" yaml:"sectionId"`
	Title       string    `json:"title" yaml:"title"`
	Description string    `json:"description,omitempty" yaml:"description,omitempty"`
	Fields      []Field   `json:"fields" yaml:"fields"`
}

// FormSchema is the declarative description of a form.
type FormSchema struct {
	ID       string    `json:"formId,omitempty" yaml:"formId,omitempty"`
	Title    string    `json:"formTitle" yaml:"formTitle"`
	Version  string    `json:"version,omitempty" yaml:"version,omitempty"`
	Sections []Section `json:"sections" yaml:"sections"`
}

// Clone returns a deep copy so callers can hold an immutable snapshot.
func (s FormSchema) Clone() FormSchema {
	out := s
	out.Sections = make([]Section, len(s.Sections))
	for i, section := range s.Sections {
		cp := section
		cp.Fields = make([]Field, len(section.Fields))
		for j, field := range section.Fields {
			cp.Fields[j] = field.clone()
		}
		out.Sections[i] = cp
	}
	return out
}

func (f Field) clone() Field {
	out := f
	if f.MinLength != nil {
		v := *f.MinLength
		out.MinLength = &v
	}
	if f.MaxLength != nil {
		v := *f.MaxLength
		out.MaxLength = &v
	}
	if f.Options != nil {
		out.Options = append([]Option(nil), f.Options...)
	}
	if f.Validation != nil {
		v := *f.Validation
		out.Validation = &v
	}
	return out
}

// FieldByID finds a field anywhere in the schema.
func (s FormSchema) FieldByID(id string) (Field, int, bool) {
	for i, section := range s.Sections {
		for _, field := range section.Fields {
			if field.ID == id {
				return field, i, true
			}
		}
	}
	return Field{}, -1, false
}

// FieldIDs returns every field id in declaration order.
func (s FormSchema) FieldIDs() []string {
	var ids []string
	for _, section := range s.Sections {
		for _, field := range section.Fields {
			ids = append(ids, field.ID)
		}
	}
	return ids
}

// IntPtr is a small helper for building schemas in code.
func IntPtr(v int) *int {
	return &v
}
