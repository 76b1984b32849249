package render

import (
	"net/url"
	"sort"
	"strings"

	"github.com/goliatone/go-formwizard/pkg/fields"
	"github.com/goliatone/go-formwizard/pkg/model"
)

// HiddenField represents a hidden form input emitted alongside the visible
// section.
type HiddenField struct {
	Name  string
	Value string
}

// Hidden returns a HiddenField for an arbitrary name/value pair.
func Hidden(name, value string) HiddenField {
	return HiddenField{Name: strings.TrimSpace(name), Value: value}
}

// CSRFToken constructs a hidden field carrying the provided token.
func CSRFToken(name, token string) HiddenField {
	return Hidden(name, token)
}

// SortedHiddenFields drops empty names, lets later fields win on collisions
// and sorts the result for deterministic rendering.
func SortedHiddenFields(fields ...HiddenField) []HiddenField {
	clean := make(map[string]string, len(fields))
	for _, field := range fields {
		name := strings.TrimSpace(field.Name)
		if name == "" {
			continue
		}
		clean[name] = field.Value
	}
	if len(clean) == 0 {
		return nil
	}

	names := make([]string, 0, len(clean))
	for name := range clean {
		names = append(names, name)
	}
	sort.Strings(names)

	result := make([]HiddenField, 0, len(names))
	for _, name := range names {
		result = append(result, HiddenField{Name: name, Value: clean[name]})
	}
	return result
}

// FieldInputs translates a posted form into raw interactions for the fields
// of section whose keys were posted. Browsers omit unchecked checkboxes, so
// checkbox fields always produce an input; a missing checkbox key reads as
// unchecked or an empty selection.
func FieldInputs(section model.Section, form url.Values) map[string]fields.Input {
	out := make(map[string]fields.Input, len(section.Fields))
	for _, field := range section.Fields {
		posted, ok := form[field.ID]
		switch {
		case field.Type == model.FieldTypeCheckbox && field.HasOptions():
			out[field.ID] = fields.SelectionInput(posted...)
		case field.Type == model.FieldTypeCheckbox:
			v := strings.ToLower(strings.TrimSpace(form.Get(field.ID)))
			out[field.ID] = fields.CheckedInput(v != "" && v != "false" && v != "off" && v != "0")
		case ok:
			out[field.ID] = fields.TextInput(form.Get(field.ID))
		}
	}
	return out
}
