package model

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrNoSections is returned for a schema with zero sections.
	ErrNoSections = errors.New("model: no form sections found")
	// ErrInvalidSchema wraps every structural problem reported by Validate.
	ErrInvalidSchema = errors.New("model: invalid schema")
)

// Issue describes one structural problem.
type Issue struct {
	Path    string
	Message string
}

func (i Issue) String() string {
	return i.Path + ": " + i.Message
}

// SchemaError aggregates structural issues.
type SchemaError struct {
	Issues []Issue
}

func (e *SchemaError) Error() string {
	parts := make([]string, 0, len(e.Issues))
	for _, issue := range e.Issues {
		parts = append(parts, issue.String())
	}
	return fmt.Sprintf("model: invalid schema: %s", strings.Join(parts, "; "))
}

func (e *SchemaError) Unwrap() error { return ErrInvalidSchema }

// Validate checks the structural rules the wizard relies on. It returns
// ErrNoSections for an empty schema and a *SchemaError otherwise.
func (s FormSchema) Validate() error {
	if len(s.Sections) == 0 {
		return ErrNoSections
	}

	var issues []Issue
	add := func(path, format string, args ...any) {
		issues = append(issues, Issue{Path: path, Message: fmt.Sprintf(format, args...)})
	}

	seen := make(map[string]string)
	for i, section := range s.Sections {
		sectionPath := fmt.Sprintf("sections[%d]", i)
		for j, field := range section.Fields {
			path := fmt.Sprintf("%s.fields[%d]", sectionPath, j)
			if strings.TrimSpace(field.ID) == "" {
				add(path, "fieldId is required")
			} else if prev, dup := seen[field.ID]; dup {
				add(path, "duplicate fieldId %q (first declared at %s)", field.ID, prev)
			} else {
				seen[field.ID] = path
			}

			if !field.Type.Known() {
				add(path, "unknown type %q", field.Type)
			}
			if (field.Type == FieldTypeDropdown || field.Type == FieldTypeRadio) && !field.HasOptions() {
				add(path, "%s field requires options", field.Type)
			}

			values := make(map[string]struct{}, len(field.Options))
			for k, opt := range field.Options {
				if _, dup := values[opt.Value]; dup {
					add(fmt.Sprintf("%s.options[%d]", path, k), "duplicate option value %q", opt.Value)
				}
				values[opt.Value] = struct{}{}
			}

			if field.MinLength != nil && *field.MinLength < 0 {
				add(path, "minLength must not be negative")
			}
			if field.MaxLength != nil && *field.MaxLength < 0 {
				add(path, "maxLength must not be negative")
			}
			if field.MinLength != nil && field.MaxLength != nil && *field.MinLength > *field.MaxLength {
				add(path, "minLength %d exceeds maxLength %d", *field.MinLength, *field.MaxLength)
			}
		}
	}

	if len(issues) > 0 {
		return &SchemaError{Issues: issues}
	}
	return nil
}
