package model

import (
	"encoding/json"
	"maps"
	"slices"
)

// ValueStore maps field ids to their current Value. Keys appear only once a
// field has been written. A ValueStore is not safe for concurrent use; the
// wizard controller serialises access.
type ValueStore struct {
	values map[string]Value
}

// NewValueStore returns an empty store.
func NewValueStore() *ValueStore {
	return &ValueStore{values: make(map[string]Value)}
}

// Get returns the stored value and whether the key is present.
func (s *ValueStore) Get(id string) (Value, bool) {
	if s == nil {
		return Value{}, false
	}
	v, ok := s.values[id]
	return v, ok
}

// Set writes a value. Writing the absent Value deletes the key. Set on a nil
// store is a no-op.
func (s *ValueStore) Set(id string, v Value) {
	if s == nil {
		return
	}
	if v.Absent() {
		delete(s.values, id)
		return
	}
	if s.values == nil {
		s.values = make(map[string]Value)
	}
	s.values[id] = v
}

// Len reports the number of populated keys.
func (s *ValueStore) Len() int {
	if s == nil {
		return 0
	}
	return len(s.values)
}

// Keys returns populated field ids sorted for deterministic output.
func (s *ValueStore) Keys() []string {
	if s == nil {
		return nil
	}
	return slices.Sorted(maps.Keys(s.values))
}

// Snapshot returns an independent copy of the store.
func (s *ValueStore) Snapshot() *ValueStore {
	out := NewValueStore()
	if s == nil {
		return out
	}
	for k, v := range s.values {
		if items, ok := v.Items(); ok {
			v = List(items...)
		}
		out.values[k] = v
	}
	return out
}

// Map exposes the payloads as plain Go values keyed by field id.
func (s *ValueStore) Map() map[string]any {
	out := make(map[string]any, s.Len())
	if s == nil {
		return out
	}
	for k, v := range s.values {
		out[k] = v.Interface()
	}
	return out
}

// MarshalJSON encodes the store as an object of field id to payload.
func (s *ValueStore) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.Map())
}

// UnmarshalJSON replaces the store contents.
func (s *ValueStore) UnmarshalJSON(data []byte) error {
	var raw map[string]Value
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	s.values = make(map[string]Value, len(raw))
	for k, v := range raw {
		s.Set(k, v)
	}
	return nil
}
