// Package fields holds one Renderer per field type tag. A Renderer describes
// how a field is shown (Control), how a raw interaction becomes the field's
// canonical stored Value (Normalize), and which Value is displayed before the
// user has touched the field (Zero). Rendering never writes the store.
package fields

import "github.com/goliatone/go-formwizard/pkg/model"

// Kind selects the widget used to present a Control.
type Kind string

const (
	KindInput         Kind = "input"
	KindTextarea      Kind = "textarea"
	KindSelect        Kind = "select"
	KindRadio         Kind = "radio"
	KindCheckbox      Kind = "checkbox"
	KindCheckboxGroup Kind = "checkbox-group"
)

// OptionControl is one renderable choice.
type OptionControl struct {
	Value    string
	Label    string
	TestID   string
	Selected bool
}

// Counter describes a "length/max characters" indicator.
type Counter struct {
	Length int
	Max    int
	Text   string
}

// Control is the render-ready description of a single field's widget.
type Control struct {
	ID          string
	Type        model.FieldType
	Kind        Kind
	InputType   string
	Label       string
	Placeholder string
	Hint        string
	Required    bool
	TestID      string

	// Value is the display value for text-like widgets.
	Value string
	// Checked is the state of a single checkbox.
	Checked bool
	Options []OptionControl
	// OptionPlaceholder is the leading empty choice of a select.
	OptionPlaceholder string

	MinLength *int
	MaxLength *int
	Min       string
	Max       string
	Counter   *Counter

	hintID string
}

// SelectedValues returns the values of the selected options.
func (c Control) SelectedValues() []string {
	var out []string
	for _, opt := range c.Options {
		if opt.Selected {
			out = append(out, opt.Value)
		}
	}
	return out
}

// Input is a raw user interaction before normalisation.
type Input struct {
	// Text carries typed text, or the chosen value of a dropdown/radio.
	Text string
	// Toggle names the option to add or remove in a checkbox group.
	Toggle string
	// Checked is the new state of a single checkbox.
	Checked bool
	// Selected replaces the whole selection of a checkbox group when Replace
	// is set.
	Selected []string
	Replace  bool
}

// TextInput builds an Input for text-like and single-choice fields.
func TextInput(text string) Input { return Input{Text: text} }

// ToggleInput builds an Input toggling one option of a checkbox group.
func ToggleInput(option string) Input { return Input{Toggle: option} }

// CheckedInput builds an Input for a single checkbox.
func CheckedInput(checked bool) Input { return Input{Checked: checked} }

// SelectionInput builds an Input replacing a checkbox group's selection.
func SelectionInput(values ...string) Input {
	return Input{Selected: append([]string{}, values...), Replace: true}
}

func baseControl(field model.Field, kind Kind) Control {
	return Control{
		ID:          field.ID,
		Type:        field.Type,
		Kind:        kind,
		Label:       field.Label,
		Placeholder: field.Placeholder,
		Required:    field.Required,
		TestID:      field.DataTestID,
		MinLength:   field.MinLength,
		MaxLength:   field.MaxLength,
	}
}
