package schema

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/getkin/kin-openapi/openapi3"

	"github.com/goliatone/go-formwizard/pkg/model"
)

const (
	extFieldType = "x-formwizard-type"
	extMessage   = "x-formwizard-message"
	extOrder     = "x-formwizard-order"
)

var (
	// ErrOperationNotFound is returned when no operation matches the requested id.
	ErrOperationNotFound = errors.New("schema: openapi operation not found")
	// ErrNoRequestBody is returned when the operation has no usable request schema.
	ErrNoRequestBody = errors.New("schema: openapi operation has no request body schema")
)

// FromOpenAPI builds a FormSchema from the request body of an OpenAPI
// operation. Object properties of the body become sections; scalar properties
// at the top level are collected into a leading "general" section. When
// operationID is empty the document must contain exactly one operation with a
// request body.
func FromOpenAPI(ctx context.Context, doc Document, operationID string) (model.FormSchema, error) {
	loader := &openapi3.Loader{Context: ctx}
	spec, err := loader.LoadFromData(doc.Raw())
	if err != nil {
		return model.FormSchema{}, fmt.Errorf("schema: load openapi document: %w", err)
	}

	id, op, err := findOperation(spec, operationID)
	if err != nil {
		return model.FormSchema{}, err
	}

	body := requestSchema(op)
	if body == nil {
		return model.FormSchema{}, fmt.Errorf("%w: %s", ErrNoRequestBody, id)
	}

	form := model.FormSchema{
		ID:    id,
		Title: firstNonEmpty(body.Title, op.Summary, model.DefaultLabeler(id)),
	}
	if spec.Info != nil {
		form.Version = spec.Info.Version
	}

	required := toSet(body.Required)
	general := model.Section{ID: "general", Title: form.Title, Description: body.Description}
	for _, name := range orderedProperties(body.Properties) {
		prop := body.Properties[name].Value
		if prop == nil {
			continue
		}
		if schemaType(prop) == "object" {
			form.Sections = append(form.Sections, sectionFrom(name, prop))
			continue
		}
		general.Fields = append(general.Fields, fieldFrom(name, prop, required[name]))
	}
	if len(general.Fields) > 0 {
		form.Sections = append([]model.Section{general}, form.Sections...)
	}
	return form, nil
}

func findOperation(spec *openapi3.T, operationID string) (string, *openapi3.Operation, error) {
	if spec.Paths == nil {
		return "", nil, ErrOperationNotFound
	}

	paths := spec.Paths.Map()
	keys := make([]string, 0, len(paths))
	for path := range paths {
		keys = append(keys, path)
	}
	sort.Strings(keys)

	type candidate struct {
		id string
		op *openapi3.Operation
	}
	var withBody []candidate
	for _, path := range keys {
		item := paths[path]
		if item == nil {
			continue
		}
		for _, method := range []string{"POST", "PUT", "PATCH", "GET", "DELETE"} {
			op := item.GetOperation(method)
			if op == nil {
				continue
			}
			id := op.OperationID
			if id == "" {
				id = strings.ToLower(method) + ":" + path
			}
			if operationID != "" && id == operationID {
				return id, op, nil
			}
			if requestSchema(op) != nil {
				withBody = append(withBody, candidate{id: id, op: op})
			}
		}
	}

	if operationID == "" && len(withBody) == 1 {
		return withBody[0].id, withBody[0].op, nil
	}
	if operationID == "" {
		return "", nil, fmt.Errorf("%w: %d candidates, pass an operation id", ErrOperationNotFound, len(withBody))
	}
	return "", nil, fmt.Errorf("%w: %s", ErrOperationNotFound, operationID)
}

func requestSchema(op *openapi3.Operation) *openapi3.Schema {
	if op == nil || op.RequestBody == nil || op.RequestBody.Value == nil {
		return nil
	}
	content := op.RequestBody.Value.Content
	for _, mediaType := range []string{"application/json", "application/x-www-form-urlencoded", "multipart/form-data"} {
		if mt, ok := content[mediaType]; ok && mt.Schema != nil && mt.Schema.Value != nil {
			return mt.Schema.Value
		}
	}
	return nil
}

func sectionFrom(name string, prop *openapi3.Schema) model.Section {
	section := model.Section{
		ID:          model.SectionID(name),
		Title:       firstNonEmpty(prop.Title, model.DefaultLabeler(name)),
		Description: prop.Description,
	}
	required := toSet(prop.Required)
	for _, child := range orderedProperties(prop.Properties) {
		value := prop.Properties[child].Value
		if value == nil {
			continue
		}
		section.Fields = append(section.Fields, fieldFrom(name+"."+child, value, required[child]))
	}
	return section
}

func fieldFrom(id string, prop *openapi3.Schema, required bool) model.Field {
	name := id
	if idx := strings.LastIndex(id, "."); idx >= 0 {
		name = id[idx+1:]
	}
	field := model.Field{
		ID:          id,
		Type:        fieldTypeFor(prop),
		Label:       firstNonEmpty(prop.Title, model.DefaultLabeler(name)),
		Placeholder: prop.Description,
		Required:    required,
	}
	if prop.MinLength > 0 {
		field.MinLength = model.IntPtr(int(prop.MinLength))
	}
	if prop.MaxLength != nil {
		field.MaxLength = model.IntPtr(int(*prop.MaxLength))
	}
	if msg, ok := prop.Extensions[extMessage].(string); ok && msg != "" {
		field.Validation = &model.FieldValidation{Message: msg}
	}

	enum := prop.Enum
	if schemaType(prop) == "array" && prop.Items != nil && prop.Items.Value != nil {
		enum = prop.Items.Value.Enum
	}
	for _, v := range enum {
		value := fmt.Sprint(v)
		field.Options = append(field.Options, model.Option{Value: value, Label: value})
	}
	return field
}

func fieldTypeFor(prop *openapi3.Schema) model.FieldType {
	if raw, ok := prop.Extensions[extFieldType].(string); ok {
		if ft, ok := model.ParseFieldType(raw); ok {
			return ft
		}
	}
	switch schemaType(prop) {
	case "boolean":
		return model.FieldTypeCheckbox
	case "array":
		return model.FieldTypeCheckbox
	case "string":
		switch strings.ToLower(prop.Format) {
		case "email":
			return model.FieldTypeEmail
		case "date":
			return model.FieldTypeDate
		case "tel", "phone", "telephone":
			return model.FieldTypeTelephone
		case "textarea", "multiline":
			return model.FieldTypeTextarea
		}
		if len(prop.Enum) > 0 {
			return model.FieldTypeDropdown
		}
	}
	return model.FieldTypeText
}

func schemaType(s *openapi3.Schema) string {
	if s == nil || s.Type == nil {
		return ""
	}
	values := s.Type.Slice()
	if len(values) == 0 {
		return ""
	}
	return values[0]
}

func orderedProperties(props openapi3.Schemas) []string {
	names := make([]string, 0, len(props))
	for name := range props {
		names = append(names, name)
	}
	order := func(name string) float64 {
		ref := props[name]
		if ref == nil || ref.Value == nil {
			return 0
		}
		switch v := ref.Value.Extensions[extOrder].(type) {
		case float64:
			return v
		case int:
			return float64(v)
		}
		return 0
	}
	sort.SliceStable(names, func(i, j int) bool {
		oi, oj := order(names[i]), order(names[j])
		if oi != oj {
			return oi < oj
		}
		return names[i] < names[j]
	})
	return names
}

func toSet(values []string) map[string]bool {
	out := make(map[string]bool, len(values))
	for _, v := range values {
		out[v] = true
	}
	return out
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if strings.TrimSpace(v) != "" {
			return v
		}
	}
	return ""
}
