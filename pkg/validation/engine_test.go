package validation

import (
	"context"
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-formwizard/pkg/model"
)

func TestValidateField_Rules(t *testing.T) {
	name := model.Field{ID: "name", Type: model.FieldTypeText, Label: "Name", Required: true, MinLength: model.IntPtr(2), MaxLength: model.IntPtr(5)}
	email := model.Field{ID: "email", Type: model.FieldTypeEmail, Label: "Email", MinLength: model.IntPtr(3)}
	phone := model.Field{ID: "phone", Type: model.FieldTypeTelephone, Label: "Phone"}
	custom := model.Field{ID: "agree", Type: model.FieldTypeText, Label: "Agree", Required: true, Validation: &model.FieldValidation{Message: "Please agree"}}
	date := model.Field{ID: "dob", Type: model.FieldTypeDate, Label: "Birthday", Required: true, Min: "2000-01-01", Max: "2010-12-31"}

	cases := []struct {
		name  string
		field model.Field
		value model.Value
		want  string
	}{
		{"required absent", name, model.Value{}, "Name is required"},
		{"required empty string", name, model.String(""), "Name is required"},
		{"required empty list", name, model.List(), "Name is required"},
		{"custom required message", custom, model.Value{}, "Please agree"},
		{"too short", name, model.String("A"), "Name must be at least 2 characters"},
		{"too long", name, model.String("Abcdef"), "Name must be at most 5 characters"},
		{"runes not bytes", name, model.String("Zoëëë"), ""},
		{"optional empty skips format", email, model.String(""), ""},
		{"min length before format", email, model.String("ab"), "Email must be at least 3 characters"},
		{"bad email", email, model.String("not-an-email"), "Please enter a valid email address"},
		{"good email", email, model.String("a@b.co"), ""},
		{"bad phone", phone, model.String("12ab"), "Please enter a valid phone number"},
		{"short phone", phone, model.String("12345"), "Please enter a valid phone number"},
		{"good phone", phone, model.String("9876543210"), ""},
		{"formatted phone", phone, model.String("+1 (555) 123-4567"), ""},
		{"date iso", date, model.String("2005-06-01"), ""},
		{"date day first", date, model.String("15-06-2024"), ""},
		{"date free text", date, model.String("June 5, 2024"), ""},
		{"date required", date, model.String(""), "Birthday is required"},
		{"bool is never empty", model.Field{ID: "c", Type: model.FieldTypeCheckbox, Label: "C", Required: true}, model.Bool(false), ""},
		{"list is not format checked", model.Field{ID: "l", Type: model.FieldTypeCheckbox, Label: "L", Required: true}, model.List("a"), ""},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := ValidateField(tc.field, tc.value)
			got := ""
			if err != nil {
				got = err.Message
				if err.FieldID != tc.field.ID {
					t.Fatalf("field id = %q, want %q", err.FieldID, tc.field.ID)
				}
			}
			if got != tc.want {
				t.Fatalf("message = %q, want %q", got, tc.want)
			}
		})
	}
}

func TestValidateSection_OneErrorPerFailingFieldInOrder(t *testing.T) {
	fields := []model.Field{
		{ID: "name", Type: model.FieldTypeText, Label: "Name", Required: true},
		{ID: "nick", Type: model.FieldTypeText, Label: "Nick"},
		{ID: "email", Type: model.FieldTypeEmail, Label: "Email", Required: true, MinLength: model.IntPtr(10)},
		{ID: "hobbies", Type: model.FieldTypeCheckbox, Label: "Hobbies", Required: true, Options: []model.Option{{Value: "a"}}},
	}
	store := model.NewValueStore()
	store.Set("email", model.String("x@y"))
	store.Set("hobbies", model.List())

	result := ValidateSection(fields, store)
	if result.Valid {
		t.Fatalf("expected invalid section")
	}

	want := []FieldError{
		{FieldID: "name", Message: "Name is required", Rule: "required"},
		{FieldID: "email", Message: "Email must be at least 10 characters", Rule: "minLength"},
		{FieldID: "hobbies", Message: "Hobbies is required", Rule: "required"},
	}
	if diff := cmp.Diff(want, result.Errors); diff != "" {
		t.Fatalf("errors mismatch (-want +got):\n%s", diff)
	}
	if _, ok := result.ErrorFor("nick"); ok {
		t.Fatalf("optional field should not fail")
	}
	if store.Len() != 2 {
		t.Fatalf("validation mutated the store")
	}
}

func TestValidateSection_ValidWhenAllFieldsPass(t *testing.T) {
	fields := []model.Field{{ID: "name", Type: model.FieldTypeText, Label: "Name", Required: true}}
	store := model.NewValueStore()
	store.Set("name", model.String("Ada"))

	result := ValidateSection(fields, store)
	if !result.Valid || len(result.Errors) != 0 {
		t.Fatalf("expected valid result, got %+v", result)
	}
}

type stubTranslator map[string]string

func (s stubTranslator) Translate(id string, _ int, data map[string]any) (string, error) {
	msg, ok := s[id]
	if !ok {
		return "", errors.New("missing")
	}
	if label, ok := data["Label"].(string); ok {
		return label + ": " + msg, nil
	}
	return msg, nil
}

func TestEngine_Translator(t *testing.T) {
	engine := New(WithTranslator(stubTranslator{MsgRequired: "obligatorio"}))
	field := model.Field{ID: "n", Type: model.FieldTypeEmail, Label: "Nombre", Required: true}

	if err := engine.ValidateField(field, model.Value{}); err == nil || err.Message != "Nombre: obligatorio" {
		t.Fatalf("translated message = %+v", err)
	}
	// Missing translations fall back to English.
	if err := engine.ValidateField(field, model.String("bad")); err == nil || err.Message != "Please enter a valid email address" {
		t.Fatalf("fallback message = %+v", err)
	}
}

func TestCheckSchema(t *testing.T) {
	raw := []byte(`{"formTitle":"T","sections":[{"sectionId":1,"title":"A","fields":[
		{"fieldId":"a","type":"text","label":"A"},
		{"fieldId":"a","type":"dropdown","label":"B"}]}]}`)

	result := CheckSchema(context.Background(), nil, raw)
	if result.Valid {
		t.Fatalf("expected invalid schema")
	}
	if len(result.Issues) != 2 {
		t.Fatalf("issues = %+v", result.Issues)
	}
	if result.Sections != 1 || result.Fields != 2 {
		t.Fatalf("counts = %d sections, %d fields", result.Sections, result.Fields)
	}

	bad := CheckSchema(context.Background(), nil, []byte(`{"form":`))
	if bad.Valid || len(bad.Issues) != 1 {
		t.Fatalf("decode failure not reported: %+v", bad)
	}
}
