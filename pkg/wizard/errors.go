package wizard

import "errors"

var (
	// ErrInvalidTransition is returned for events the current state does not
	// offer, such as Previous on the first section.
	ErrInvalidTransition = errors.New("wizard: invalid transition")
	// ErrUnknownField is returned when an event names a field the schema does
	// not declare.
	ErrUnknownField = errors.New("wizard: unknown field")
	// ErrValueKind is returned when a value's variant does not match the
	// field's stored shape.
	ErrValueKind = errors.New("wizard: value kind does not match field")
	// ErrSchemaFetch wraps schema retrieval failures.
	ErrSchemaFetch = errors.New("wizard: schema fetch failed")
	// ErrClosed is returned for events dispatched after Close.
	ErrClosed = errors.New("wizard: controller closed")
)
