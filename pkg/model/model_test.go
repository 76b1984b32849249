package model

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
	"gopkg.in/yaml.v3"
)

func TestFormSchema_UnmarshalJSONCanonicalisesWireFormat(t *testing.T) {
	raw := `{
		"formTitle": "Student Registration",
		"sections": [
			{"sectionId": 1, "title": "Personal", "fields": [
				{"fieldId": "phone", "type": "telephone", "label": "Phone", "required": true},
				{"fieldId": "gender", "type": "radio", "label": "Gender",
				 "options": [{"value": "m", "label": "Male"}, {"value": "f", "label": "Female"}]}
			]},
			{"sectionId": "extra", "title": "Extra", "fields": []}
		]
	}`

	var form FormSchema
	if err := json.Unmarshal([]byte(raw), &form); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}

	if got, want := form.Sections[0].ID, SectionID("1"); got != want {
		t.Fatalf("section id = %q, want %q", got, want)
	}
	if got, want := form.Sections[1].ID, SectionID("extra"); got != want {
		t.Fatalf("section id = %q, want %q", got, want)
	}
	if got := form.Sections[0].Fields[0].Type; got != FieldTypeTelephone {
		t.Fatalf("telephone alias not canonicalised: %q", got)
	}
	if err := form.Validate(); err != nil {
		t.Fatalf("validate: %v", err)
	}
}

func TestFormSchema_UnmarshalYAML(t *testing.T) {
	raw := `
formTitle: Survey
sections:
  - sectionId: 7
    title: Only
    fields:
      - fieldId: contact
        type: phone
        label: Contact
        minLength: 7
`
	var form FormSchema
	if err := yaml.Unmarshal([]byte(raw), &form); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	field := form.Sections[0].Fields[0]
	if field.Type != FieldTypeTelephone {
		t.Fatalf("type = %q", field.Type)
	}
	if form.Sections[0].ID != "7" {
		t.Fatalf("section id = %q", form.Sections[0].ID)
	}
	if field.MinLength == nil || *field.MinLength != 7 {
		t.Fatalf("minLength not decoded: %v", field.MinLength)
	}
}

func TestFormSchema_ValidateReportsStructuralIssues(t *testing.T) {
	if err := (FormSchema{Title: "empty"}).Validate(); !errors.Is(err, ErrNoSections) {
		t.Fatalf("expected ErrNoSections, got %v", err)
	}

	form := FormSchema{
		Sections: []Section{{
			ID: "1",
			Fields: []Field{
				{ID: "a", Type: FieldTypeText},
				{ID: "a", Type: FieldTypeText},
				{ID: "b", Type: "slider"},
				{ID: "c", Type: FieldTypeDropdown},
				{ID: "d", Type: FieldTypeRadio, Options: []Option{{Value: "x"}, {Value: "x"}}},
				{ID: "e", Type: FieldTypeText, MinLength: IntPtr(5), MaxLength: IntPtr(2)},
			},
		}},
	}

	err := form.Validate()
	if !errors.Is(err, ErrInvalidSchema) {
		t.Fatalf("expected ErrInvalidSchema, got %v", err)
	}
	var schemaErr *SchemaError
	if !errors.As(err, &schemaErr) {
		t.Fatalf("expected *SchemaError, got %T", err)
	}

	var paths []string
	for _, issue := range schemaErr.Issues {
		paths = append(paths, issue.Path)
	}
	want := []string{
		"sections[0].fields[1]",
		"sections[0].fields[2]",
		"sections[0].fields[3]",
		"sections[0].fields[4].options[1]",
		"sections[0].fields[5]",
	}
	if diff := cmp.Diff(want, paths); diff != "" {
		t.Fatalf("issue paths mismatch (-want +got):\n%s", diff)
	}
}

func TestFormSchema_CloneIsDeep(t *testing.T) {
	form := FormSchema{
		Title: "t",
		Sections: []Section{{
			ID: "1",
			Fields: []Field{{
				ID:        "f",
				Type:      FieldTypeCheckbox,
				MaxLength: IntPtr(3),
				Options:   []Option{{Value: "a", Label: "A"}},
			}},
		}},
	}

	clone := form.Clone()
	clone.Sections[0].Fields[0].Options[0].Label = "changed"
	*clone.Sections[0].Fields[0].MaxLength = 10
	clone.Sections[0].Title = "changed"

	if form.Sections[0].Fields[0].Options[0].Label != "A" {
		t.Fatalf("option mutated through clone")
	}
	if *form.Sections[0].Fields[0].MaxLength != 3 {
		t.Fatalf("maxLength mutated through clone")
	}
	if form.Sections[0].Title != "" {
		t.Fatalf("section mutated through clone")
	}
}

func TestValue_IsEmpty(t *testing.T) {
	cases := []struct {
		name  string
		value Value
		want  bool
	}{
		{"absent", Value{}, true},
		{"empty string", String(""), true},
		{"string", String("x"), false},
		{"empty list", List(), true},
		{"list", List("a"), false},
		{"false", Bool(false), false},
		{"true", Bool(true), false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := tc.value.IsEmpty(); got != tc.want {
				t.Fatalf("IsEmpty() = %v, want %v", got, tc.want)
			}
		})
	}
}

func TestValue_ItemsReturnsCopy(t *testing.T) {
	v := List("a", "b")
	items, _ := v.Items()
	items[0] = "z"
	if !v.Contains("a") || v.Contains("z") {
		t.Fatalf("list payload leaked through Items")
	}
}

func TestValueStore_JSON(t *testing.T) {
	store := NewValueStore()
	store.Set("name", String("Ada"))
	store.Set("hobbies", List("chess"))
	store.Set("agree", Bool(true))
	store.Set("ignored", Value{})

	data, err := json.Marshal(store)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	want := `{"agree":true,"hobbies":["chess"],"name":"Ada"}`
	if string(data) != want {
		t.Fatalf("json = %s, want %s", data, want)
	}

	decoded := NewValueStore()
	if err := json.Unmarshal(data, decoded); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if diff := cmp.Diff(store.Map(), decoded.Map()); diff != "" {
		t.Fatalf("store mismatch (-want +got):\n%s", diff)
	}
}

func TestValueStore_NilReceiver(t *testing.T) {
	var store *ValueStore
	store.Set("name", String("Ada"))
	if _, ok := store.Get("name"); ok {
		t.Fatalf("nil store reported a value")
	}
	if store.Len() != 0 || store.Keys() != nil {
		t.Fatalf("nil store not empty: len=%d keys=%v", store.Len(), store.Keys())
	}
}

func TestValueStore_SnapshotIsIndependent(t *testing.T) {
	store := NewValueStore()
	store.Set("name", String("Ada"))

	snap := store.Snapshot()
	store.Set("name", String("Grace"))
	store.Set("extra", Bool(true))

	if v, _ := snap.Get("name"); !v.Equal(String("Ada")) {
		t.Fatalf("snapshot changed: %#v", v)
	}
	if snap.Len() != 1 {
		t.Fatalf("snapshot len = %d", snap.Len())
	}
}

func TestDecorators(t *testing.T) {
	form := FormSchema{Sections: []Section{{
		Fields: []Field{{ID: "first_name", Type: FieldTypeText}, {ID: "colour", Type: FieldTypeRadio, Options: []Option{{Value: "red"}}}},
	}}}

	if err := ApplyDecorators(&form, LabelDecorator(), TestIDDecorator()); err != nil {
		t.Fatalf("decorate: %v", err)
	}

	fields := form.Sections[0].Fields
	if fields[0].Label != "First Name" {
		t.Fatalf("label = %q", fields[0].Label)
	}
	if fields[1].Options[0].Label != "red" || fields[1].Options[0].DataTestID != "colour-red" {
		t.Fatalf("option not decorated: %+v", fields[1].Options[0])
	}
	if fields[0].DataTestID != "first_name" {
		t.Fatalf("test id = %q", fields[0].DataTestID)
	}
}
