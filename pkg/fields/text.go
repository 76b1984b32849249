package fields

import (
	"strings"
	"time"
	"unicode/utf8"

	"github.com/goliatone/go-formwizard/pkg/model"
)

const dateLayout = "2006-01-02"

var dateInputLayouts = []string{dateLayout, "02-01-2006", "02/01/2006"}

// textRenderer covers text and email: the stored string is the typed text.
type textRenderer struct {
	fieldType model.FieldType
}

func (r textRenderer) Type() model.FieldType { return r.fieldType }

func (r textRenderer) Control(field model.Field, value model.Value, present bool) Control {
	c := baseControl(field, KindInput)
	c.InputType = string(r.fieldType)
	c.Value, _ = display(r, field, value, present).Str()
	return c
}

func (r textRenderer) Normalize(_ model.Field, _ model.Value, in Input) (model.Value, error) {
	return model.String(in.Text), nil
}

func (textRenderer) Zero(model.Field) model.Value { return model.String("") }

type textareaRenderer struct{}

func (textareaRenderer) Type() model.FieldType { return model.FieldTypeTextarea }

func (r textareaRenderer) Control(field model.Field, value model.Value, present bool) Control {
	c := baseControl(field, KindTextarea)
	c.Value, _ = display(r, field, value, present).Str()
	if field.MaxLength != nil {
		c.Counter = &Counter{Length: utf8.RuneCountInString(c.Value), Max: *field.MaxLength}
	}
	return c
}

func (textareaRenderer) Normalize(_ model.Field, _ model.Value, in Input) (model.Value, error) {
	return model.String(in.Text), nil
}

func (textareaRenderer) Zero(model.Field) model.Value { return model.String("") }

// dateRenderer stores ISO dates. Day-first input is rewritten to ISO;
// anything unparseable is kept verbatim so validation can report it.
type dateRenderer struct{}

func (dateRenderer) Type() model.FieldType { return model.FieldTypeDate }

func (r dateRenderer) Control(field model.Field, value model.Value, present bool) Control {
	c := baseControl(field, KindInput)
	c.InputType = "date"
	c.Value, _ = display(r, field, value, present).Str()
	c.Min = field.Min
	c.Max = field.Max
	c.hintID = "field.date_hint"
	if c.Placeholder == "" {
		c.Placeholder = "dd-mm-yyyy"
	}
	return c
}

func (dateRenderer) Normalize(_ model.Field, _ model.Value, in Input) (model.Value, error) {
	return model.String(NormalizeDate(in.Text)), nil
}

func (dateRenderer) Zero(model.Field) model.Value { return model.String("") }

// NormalizeDate rewrites dd-mm-yyyy and dd/mm/yyyy to yyyy-mm-dd. Other input
// is returned trimmed but otherwise unchanged.
func NormalizeDate(raw string) string {
	trimmed := strings.TrimSpace(raw)
	for _, layout := range dateInputLayouts {
		if t, err := time.Parse(layout, trimmed); err == nil {
			return t.Format(dateLayout)
		}
	}
	return trimmed
}
