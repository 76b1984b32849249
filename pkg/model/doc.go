// Package model defines the form schema consumed by the wizard (FormSchema,
// Section, Field, Option) together with the closed Value variant and the
// ValueStore that accumulates user input. Schemas are decoded by pkg/schema
// and treated as read-only once a session starts; the wizard controller keeps
// its own deep copy via FormSchema.Clone.
//
// Field type tags are canonicalised on decode: "telephone" and "phone" map to
// FieldTypeTelephone ("tel"). Decorators run after decoding so callers can
// enrich labels or placeholders without touching the loaders.
package model
