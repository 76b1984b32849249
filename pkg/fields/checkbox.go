package fields

import (
	"fmt"
	"slices"

	"github.com/goliatone/go-formwizard/pkg/model"
)

// checkboxRenderer stores a bool when the field declares no options and an
// ordered list of option values otherwise.
type checkboxRenderer struct{}

func (checkboxRenderer) Type() model.FieldType { return model.FieldTypeCheckbox }

func (r checkboxRenderer) Control(field model.Field, value model.Value, present bool) Control {
	shown := display(r, field, value, present)
	if !field.HasOptions() {
		c := baseControl(field, KindCheckbox)
		c.Checked, _ = shown.Flag()
		return c
	}

	c := baseControl(field, KindCheckboxGroup)
	c.Options = make([]OptionControl, 0, len(field.Options))
	for _, opt := range field.Options {
		c.Options = append(c.Options, OptionControl{
			Value:    opt.Value,
			Label:    opt.Label,
			TestID:   opt.DataTestID,
			Selected: shown.Contains(opt.Value),
		})
	}
	return c
}

func (checkboxRenderer) Normalize(field model.Field, current model.Value, in Input) (model.Value, error) {
	if !field.HasOptions() {
		return model.Bool(in.Checked), nil
	}

	if in.Replace {
		selected := make([]string, 0, len(in.Selected))
		for _, v := range in.Selected {
			if _, ok := field.OptionByValue(v); !ok || slices.Contains(selected, v) {
				continue
			}
			selected = append(selected, v)
		}
		return model.List(selected...), nil
	}

	if _, ok := field.OptionByValue(in.Toggle); !ok {
		return model.Value{}, fmt.Errorf("%w: %q for field %q", ErrUnknownOption, in.Toggle, field.ID)
	}
	items, _ := current.Items()
	if idx := slices.Index(items, in.Toggle); idx >= 0 {
		return model.List(slices.Delete(items, idx, idx+1)...), nil
	}
	return model.List(append(items, in.Toggle)...), nil
}

func (checkboxRenderer) Zero(field model.Field) model.Value {
	if field.HasOptions() {
		return model.List()
	}
	return model.Bool(false)
}
