package model

import (
	"bytes"
	"encoding/json"
	"fmt"
	"slices"
)

// ValueKind identifies which variant a Value holds.
type ValueKind uint8

const (
	// KindAbsent is the zero Value: the field was never written.
	KindAbsent ValueKind = iota
	KindString
	KindList
	KindBool
)

func (k ValueKind) String() string {
	switch k {
	case KindString:
		return "string"
	case KindList:
		return "list"
	case KindBool:
		return "bool"
	default:
		return "absent"
	}
}

// Value is the closed variant stored per field: a string, an ordered list of
// strings, or a boolean. The zero Value is absent.
type Value struct {
	kind ValueKind
	str  string
	list []string
	flag bool
}

// String builds a string Value.
func String(s string) Value {
	return Value{kind: KindString, str: s}
}

// List builds a list Value. A nil slice still yields an (empty) list.
func List(items ...string) Value {
	return Value{kind: KindList, list: append([]string{}, items...)}
}

// Bool builds a boolean Value.
func Bool(b bool) Value {
	return Value{kind: KindBool, flag: b}
}

// Kind reports the variant held by v.
func (v Value) Kind() ValueKind { return v.kind }

// Absent reports whether v was never set.
func (v Value) Absent() bool { return v.kind == KindAbsent }

// Str returns the string payload and whether v is a string.
func (v Value) Str() (string, bool) {
	return v.str, v.kind == KindString
}

// Items returns a copy of the list payload and whether v is a list.
func (v Value) Items() ([]string, bool) {
	if v.kind != KindList {
		return nil, false
	}
	return slices.Clone(v.list), true
}

// Flag returns the boolean payload and whether v is a bool.
func (v Value) Flag() (bool, bool) {
	return v.flag, v.kind == KindBool
}

// IsEmpty reports whether v counts as empty for the required check: absent,
// an empty string, or an empty list. Booleans are never empty.
func (v Value) IsEmpty() bool {
	switch v.kind {
	case KindAbsent:
		return true
	case KindString:
		return v.str == ""
	case KindList:
		return len(v.list) == 0
	default:
		return false
	}
}

// Contains reports whether a list Value holds item.
func (v Value) Contains(item string) bool {
	return v.kind == KindList && slices.Contains(v.list, item)
}

// Equal compares two values by kind and payload.
func (v Value) Equal(other Value) bool {
	if v.kind != other.kind {
		return false
	}
	switch v.kind {
	case KindString:
		return v.str == other.str
	case KindList:
		return slices.Equal(v.list, other.list)
	case KindBool:
		return v.flag == other.flag
	default:
		return true
	}
}

// Interface returns the payload as a plain Go value (string, []string, bool,
// or nil when absent), suitable for templates and JSON encoding.
func (v Value) Interface() any {
	switch v.kind {
	case KindString:
		return v.str
	case KindList:
		return slices.Clone(v.list)
	case KindBool:
		return v.flag
	default:
		return nil
	}
}

func (v Value) GoString() string {
	return fmt.Sprintf("model.Value{%s: %#v}", v.kind, v.Interface())
}

// MarshalJSON encodes the payload; absent values encode as null.
func (v Value) MarshalJSON() ([]byte, error) {
	return json.Marshal(v.Interface())
}

// UnmarshalJSON accepts a string, an array of strings, a boolean, or null.
func (v *Value) UnmarshalJSON(data []byte) error {
	trimmed := bytes.TrimSpace(data)
	switch {
	case bytes.Equal(trimmed, []byte("null")):
		*v = Value{}
	case len(trimmed) > 0 && trimmed[0] == '"':
		var s string
		if err := json.Unmarshal(trimmed, &s); err != nil {
			return err
		}
		*v = String(s)
	case len(trimmed) > 0 && trimmed[0] == '[':
		var items []string
		if err := json.Unmarshal(trimmed, &items); err != nil {
			return fmt.Errorf("model: list value must contain strings: %w", err)
		}
		*v = List(items...)
	default:
		var b bool
		if err := json.Unmarshal(trimmed, &b); err != nil {
			return fmt.Errorf("model: unsupported value %s", string(trimmed))
		}
		*v = Bool(b)
	}
	return nil
}
