package fields

import (
	"strings"

	"github.com/goliatone/go-formwizard/pkg/model"
)

// DefaultPhonePrefix is the country code shown in front of telephone values.
const DefaultPhonePrefix = "+91"

// telephoneRenderer stores the number without its prefix and re-adds the
// prefix for display.
type telephoneRenderer struct {
	prefix string
}

func (telephoneRenderer) Type() model.FieldType { return model.FieldTypeTelephone }

func (r telephoneRenderer) Control(field model.Field, value model.Value, present bool) Control {
	c := baseControl(field, KindInput)
	c.InputType = "tel"
	stored, _ := display(r, field, value, present).Str()
	c.Value = r.Display(stored)
	if r.prefix != "" {
		c.Hint = "(" + r.prefix + ")"
		grow := len(r.prefix)
		if field.MaxLength != nil {
			c.MaxLength = model.IntPtr(*field.MaxLength + grow)
		}
		if field.MinLength != nil {
			c.MinLength = model.IntPtr(*field.MinLength + grow)
		}
		if c.Placeholder == "" {
			c.Placeholder = r.prefix
		}
	}
	return c
}

// Display renders a stored number the way the user sees it.
func (r telephoneRenderer) Display(stored string) string {
	switch {
	case stored == "":
		return r.prefix
	case strings.HasPrefix(stored, r.prefix):
		return stored
	default:
		return r.prefix + stored
	}
}

func (r telephoneRenderer) Normalize(_ model.Field, _ model.Value, in Input) (model.Value, error) {
	if r.prefix != "" && strings.HasPrefix(in.Text, r.prefix) {
		return model.String(in.Text[len(r.prefix):]), nil
	}
	return model.String(in.Text), nil
}

func (telephoneRenderer) Zero(model.Field) model.Value { return model.String("") }
