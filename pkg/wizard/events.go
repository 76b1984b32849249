package wizard

import "github.com/goliatone/go-formwizard/pkg/model"

// Event is one input to the state machine.
type Event interface {
	eventName() string
}

// SchemaLoaded delivers the fetched schema.
type SchemaLoaded struct {
	Schema model.FormSchema
}

// SchemaLoadFailed reports a retrieval failure.
type SchemaLoadFailed struct {
	Err error
}

// FieldChanged writes a canonical value into the store.
type FieldChanged struct {
	FieldID string
	Value   model.Value
}

// NextRequested asks to advance past the current section.
type NextRequested struct{}

// PreviousRequested asks to go back one section.
type PreviousRequested struct{}

// SubmitRequested asks to submit from the last section.
type SubmitRequested struct{}

func (SchemaLoaded) eventName() string      { return "schema_loaded" }
func (SchemaLoadFailed) eventName() string  { return "schema_load_failed" }
func (FieldChanged) eventName() string      { return "field_changed" }
func (NextRequested) eventName() string     { return "next" }
func (PreviousRequested) eventName() string { return "previous" }
func (SubmitRequested) eventName() string   { return "submit" }
