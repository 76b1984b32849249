package fields

import (
	"errors"

	"github.com/goliatone/go-formwizard/pkg/model"
)

var (
	// ErrUnknownOption is returned when an interaction names a value the field
	// does not declare.
	ErrUnknownOption = errors.New("fields: unknown option")
	// ErrUnsupportedType is returned when no renderer handles a type tag.
	ErrUnsupportedType = errors.New("fields: unsupported field type")
)

// Renderer is the per-type unit behind every field.
type Renderer interface {
	Type() model.FieldType
	// Control describes the widget for value; present reports whether the
	// store holds the key at all.
	Control(field model.Field, value model.Value, present bool) Control
	// Normalize turns a raw interaction into the canonical stored Value.
	Normalize(field model.Field, current model.Value, in Input) (model.Value, error)
	// Zero is the Value shown before any interaction. It is never stored.
	Zero(field model.Field) model.Value
}

func display(r Renderer, field model.Field, value model.Value, present bool) model.Value {
	if !present || value.Absent() {
		return r.Zero(field)
	}
	return value
}
