package schema

import (
	"context"
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-formwizard/pkg/model"
)

func TestDecode_Envelope(t *testing.T) {
	raw := []byte(`{"message":"ok","form":{"formTitle":"Registration","sections":[
		{"sectionId":1,"title":"Basics","fields":[{"fieldId":"name","type":"text","label":"Name","required":true}]}]}}`)

	form, err := Decode(raw)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	want := model.FormSchema{
		Title: "Registration",
		Sections: []model.Section{{
			ID:     "1",
			Title:  "Basics",
			Fields: []model.Field{{ID: "name", Type: model.FieldTypeText, Label: "Name", Required: true}},
		}},
	}
	if diff := cmp.Diff(want, form); diff != "" {
		t.Fatalf("form mismatch (-want +got):\n%s", diff)
	}
}

func TestDecode_BareYAML(t *testing.T) {
	raw := []byte(`
formTitle: Feedback
sections:
  - sectionId: s1
    title: Rating
    fields:
      - fieldId: mood
        type: radio
        label: Mood
        options:
          - {value: good, label: Good}
          - {value: bad, label: Bad}
`)
	form, err := Decode(raw)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if form.Title != "Feedback" || len(form.Sections) != 1 {
		t.Fatalf("unexpected form: %+v", form)
	}
	if got := len(form.Sections[0].Fields[0].Options); got != 2 {
		t.Fatalf("options = %d", got)
	}
}

func TestDecode_Errors(t *testing.T) {
	if _, err := Decode([]byte(`{"message":"nothing here"}`)); !errors.Is(err, ErrEmptyDocument) {
		t.Fatalf("expected ErrEmptyDocument, got %v", err)
	}
	if _, err := Decode([]byte(`{"form":`)); !errors.Is(err, ErrDecode) {
		t.Fatalf("expected ErrDecode, got %v", err)
	}
}

func TestParseSource(t *testing.T) {
	cases := []struct {
		raw      string
		kind     SourceKind
		location string
	}{
		{"https://example.com/get-form", SourceKindURL, "https://example.com/get-form"},
		{"fs:forms/demo.yaml", SourceKindFS, "forms/demo.yaml"},
		{"file:./forms/../demo.json", SourceKindFile, "demo.json"},
		{"demo.json", SourceKindFile, "demo.json"},
	}
	for _, tc := range cases {
		src, err := ParseSource(tc.raw)
		if err != nil {
			t.Fatalf("%s: %v", tc.raw, err)
		}
		if src.Kind() != tc.kind || src.Location() != tc.location {
			t.Fatalf("%s: got %s %s", tc.raw, src.Kind(), src.Location())
		}
	}
	if _, err := ParseSource("  "); err == nil {
		t.Fatalf("expected error for empty source")
	}
}

type staticLoader struct {
	doc Document
	err error
}

func (s staticLoader) Load(context.Context, Source) (Document, error) {
	return s.doc, s.err
}

func TestLoadForm_DecoratesAndValidates(t *testing.T) {
	src := SourceFromFS("form.json")
	doc := MustNewDocument(src, []byte(`{"formTitle":"T","sections":[{"sectionId":1,"title":"A","fields":[{"fieldId":"full_name","type":"text"}]}]}`))

	form, err := LoadForm(context.Background(), staticLoader{doc: doc}, src, model.LabelDecorator())
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if got := form.Sections[0].Fields[0].Label; got != "Full Name" {
		t.Fatalf("label = %q", got)
	}

	empty := MustNewDocument(src, []byte(`{"formTitle":"T","sections":[]}`))
	if _, err := LoadForm(context.Background(), staticLoader{doc: empty}, src); !errors.Is(err, model.ErrNoSections) {
		t.Fatalf("expected ErrNoSections, got %v", err)
	}
}

const petstore = `
openapi: 3.0.3
info:
  title: Enrolment
  version: 2.1.0
paths:
  /students:
    post:
      operationId: createStudent
      summary: Enrol a student
      requestBody:
        content:
          application/json:
            schema:
              type: object
              required: [email]
              properties:
                email:
                  type: string
                  format: email
                  x-formwizard-order: 1
                nickname:
                  type: string
                  maxLength: 20
                  x-formwizard-order: 2
                contact:
                  type: object
                  title: Contact details
                  required: [phone]
                  properties:
                    phone:
                      type: string
                      format: tel
                      x-formwizard-message: We need a phone number
                    plan:
                      type: string
                      enum: [basic, pro]
                    topics:
                      type: array
                      items:
                        type: string
                        enum: [maths, art]
                    consent:
                      type: boolean
      responses:
        "201":
          description: created
`

func TestFromOpenAPI(t *testing.T) {
	doc := MustNewDocument(SourceFromFS("openapi.yaml"), []byte(petstore))

	form, err := FromOpenAPI(context.Background(), doc, "")
	if err != nil {
		t.Fatalf("import: %v", err)
	}

	if form.Title != "Enrol a student" || form.Version != "2.1.0" {
		t.Fatalf("unexpected header: %q %q", form.Title, form.Version)
	}
	if len(form.Sections) != 2 {
		t.Fatalf("sections = %d", len(form.Sections))
	}
	if err := form.Validate(); err != nil {
		t.Fatalf("imported form invalid: %v", err)
	}

	general := form.Sections[0]
	var ids []string
	for _, f := range general.Fields {
		ids = append(ids, f.ID)
	}
	if diff := cmp.Diff([]string{"email", "nickname"}, ids); diff != "" {
		t.Fatalf("general field order (-want +got):\n%s", diff)
	}
	if !general.Fields[0].Required || general.Fields[0].Type != model.FieldTypeEmail {
		t.Fatalf("email field = %+v", general.Fields[0])
	}

	contact := form.Sections[1]
	if contact.Title != "Contact details" {
		t.Fatalf("section title = %q", contact.Title)
	}
	types := map[string]model.FieldType{}
	for _, f := range contact.Fields {
		types[f.ID] = f.Type
	}
	want := map[string]model.FieldType{
		"contact.consent": model.FieldTypeCheckbox,
		"contact.phone":   model.FieldTypeTelephone,
		"contact.plan":    model.FieldTypeDropdown,
		"contact.topics":  model.FieldTypeCheckbox,
	}
	if diff := cmp.Diff(want, types); diff != "" {
		t.Fatalf("field types (-want +got):\n%s", diff)
	}

	phone, _, _ := form.FieldByID("contact.phone")
	if phone.RequiredMessage() != "We need a phone number" || !phone.Required {
		t.Fatalf("phone field = %+v", phone)
	}
}

func TestFromOpenAPI_UnknownOperation(t *testing.T) {
	doc := MustNewDocument(SourceFromFS("openapi.yaml"), []byte(petstore))
	if _, err := FromOpenAPI(context.Background(), doc, "deleteStudent"); !errors.Is(err, ErrOperationNotFound) {
		t.Fatalf("expected ErrOperationNotFound, got %v", err)
	}
}
