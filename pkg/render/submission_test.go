package render_test

import (
	"net/url"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-formwizard/pkg/fields"
	"github.com/goliatone/go-formwizard/pkg/model"
	"github.com/goliatone/go-formwizard/pkg/render"
)

func TestSortedHiddenFields(t *testing.T) {
	sorted := render.SortedHiddenFields(
		render.Hidden(" client ", "abc"),
		render.CSRFToken("_csrf", "old"),
		render.CSRFToken("_csrf", "token123"),
		render.Hidden("  ", "skip"),
	)
	want := []render.HiddenField{
		{Name: "_csrf", Value: "token123"},
		{Name: "client", Value: "abc"},
	}
	if diff := cmp.Diff(want, sorted); diff != "" {
		t.Fatalf("sorted hidden fields mismatch (-want +got):\n%s", diff)
	}
	if render.SortedHiddenFields() != nil {
		t.Fatalf("expected nil for no fields")
	}
}

func TestFieldInputs(t *testing.T) {
	section := model.Section{Fields: []model.Field{
		{ID: "name", Type: model.FieldTypeText},
		{ID: "phone", Type: model.FieldTypeTelephone},
		{ID: "gender", Type: model.FieldTypeRadio, Options: []model.Option{{Value: "m"}}},
		{ID: "agree", Type: model.FieldTypeCheckbox},
		{ID: "newsletter", Type: model.FieldTypeCheckbox},
		{ID: "hobbies", Type: model.FieldTypeCheckbox, Options: []model.Option{{Value: "a"}, {Value: "b"}}},
	}}
	form := url.Values{
		"name":    {"Ada"},
		"phone":   {"+919876543210"},
		"agree":   {"on"},
		"hobbies": {"b", "a"},
		"ignored": {"x"},
	}

	got := render.FieldInputs(section, form)
	want := map[string]fields.Input{
		"name":       fields.TextInput("Ada"),
		"phone":      fields.TextInput("+919876543210"),
		"agree":      fields.CheckedInput(true),
		"newsletter": fields.CheckedInput(false),
		"hobbies":    fields.SelectionInput("b", "a"),
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("inputs mismatch (-want +got):\n%s", diff)
	}
}

func TestFieldInputs_MissingTextKeysAreSkipped(t *testing.T) {
	section := model.Section{Fields: []model.Field{
		{ID: "name", Type: model.FieldTypeText},
		{ID: "email", Type: model.FieldTypeEmail},
		{ID: "agree", Type: model.FieldTypeCheckbox},
	}}
	got := render.FieldInputs(section, url.Values{"action": {"next"}, "email": {""}})
	want := map[string]fields.Input{
		"email": fields.TextInput(""),
		"agree": fields.CheckedInput(false),
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("inputs mismatch (-want +got):\n%s", diff)
	}
}
