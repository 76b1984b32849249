package fields

import (
	"fmt"

	"github.com/goliatone/go-formwizard/pkg/model"
)

// choiceRenderer covers dropdown and radio: the stored value is one option
// value, or "" when unset.
type choiceRenderer struct {
	fieldType model.FieldType
}

func (r choiceRenderer) Type() model.FieldType { return r.fieldType }

func (r choiceRenderer) Control(field model.Field, value model.Value, present bool) Control {
	kind := KindSelect
	if r.fieldType == model.FieldTypeRadio {
		kind = KindRadio
	}
	c := baseControl(field, kind)
	current, _ := display(r, field, value, present).Str()
	c.Value = current
	c.Options = make([]OptionControl, 0, len(field.Options))
	for _, opt := range field.Options {
		c.Options = append(c.Options, OptionControl{
			Value:    opt.Value,
			Label:    opt.Label,
			TestID:   opt.DataTestID,
			Selected: opt.Value == current,
		})
	}
	return c
}

func (r choiceRenderer) Normalize(field model.Field, _ model.Value, in Input) (model.Value, error) {
	if in.Text == "" {
		return model.String(""), nil
	}
	if _, ok := field.OptionByValue(in.Text); !ok {
		return model.Value{}, fmt.Errorf("%w: %q for field %q", ErrUnknownOption, in.Text, field.ID)
	}
	return model.String(in.Text), nil
}

func (choiceRenderer) Zero(model.Field) model.Value { return model.String("") }
