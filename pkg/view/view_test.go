package view

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-formwizard/pkg/model"
	"github.com/goliatone/go-formwizard/pkg/session"
	"github.com/goliatone/go-formwizard/pkg/wizard"
)

type noopTask struct{}

func (noopTask) Cancel() bool { return true }

type manualScheduler struct{}

func (manualScheduler) Schedule(time.Duration, func()) wizard.Task { return noopTask{} }

func sampleForm() model.FormSchema {
	return model.FormSchema{
		ID:    "reg",
		Title: "Registration",
		Sections: []model.Section{
			{
				ID:    "1",
				Title: "Personal Information Details",
				Fields: []model.Field{
					{ID: "name", Type: model.FieldTypeText, Label: "Name", Required: true},
					{ID: "email", Type: model.FieldTypeEmail, Label: "Email", Required: true},
				},
			},
			{
				ID:    "2",
				Title: "Preferences",
				Fields: []model.Field{
					{ID: "bio", Type: model.FieldTypeTextarea, Label: "Bio", MaxLength: model.IntPtr(200)},
				},
			},
			{
				ID:    "3",
				Title: "Review",
				Fields: []model.Field{
					{ID: "agree", Type: model.FieldTypeCheckbox, Label: "I agree"},
				},
			},
		},
	}
}

func readyController(t *testing.T, form model.FormSchema) *wizard.Controller {
	t.Helper()
	c, err := wizard.New(session.Session{Identity: "r1", DisplayName: "Ada"},
		wizard.WithFetcher(wizard.StaticFetcher(form)),
		wizard.WithScheduler(manualScheduler{}),
		wizard.WithSink(wizard.SinkFunc(func(context.Context, wizard.Submission) error { return nil })),
	)
	if err != nil {
		t.Fatalf("new controller: %v", err)
	}
	<-c.Load(context.Background())
	return c
}

func TestTruncateTitle(t *testing.T) {
	cases := map[string]string{
		"Short":                        "Short",
		"Exactly twenty chars":         "Exactly twenty chars",
		"Personal Information Details": "Personal Information...",
		"Información académica larga":  "Información académic...",
	}
	for in, want := range cases {
		if got := TruncateTitle(in); got != want {
			t.Errorf("TruncateTitle(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestPercent(t *testing.T) {
	if got := Percent(0, 3); got != 33 {
		t.Fatalf("Percent(0,3) = %d", got)
	}
	if got := Percent(2, 3); got != 100 {
		t.Fatalf("Percent(2,3) = %d", got)
	}
	if got := Percent(0, 0); got != 0 {
		t.Fatalf("Percent(0,0) = %d", got)
	}
}

func TestBuilder_FirstSectionHidesPrevious(t *testing.T) {
	c := readyController(t, sampleForm())
	page, err := NewBuilder().Page(c)
	if err != nil {
		t.Fatalf("page: %v", err)
	}
	if page.Kind != PageSection || page.Section == nil {
		t.Fatalf("unexpected page %+v", page)
	}
	sv := page.Section
	if sv.Previous != nil {
		t.Fatalf("previous shown on first section")
	}
	if sv.Trailing.Action != ActionNext {
		t.Fatalf("trailing = %q, want next", sv.Trailing.Action)
	}
	if sv.Summary != nil {
		t.Fatalf("summary shown without errors")
	}
	if sv.Progress.Text != "1 of 3 sections" {
		t.Fatalf("progress text = %q", sv.Progress.Text)
	}

	var steps []string
	for _, s := range sv.Progress.Steps {
		steps = append(steps, s.Title)
	}
	want := []string{"Personal Information...", "Preferences", "Review"}
	if diff := cmp.Diff(want, steps); diff != "" {
		t.Fatalf("steps mismatch (-want +got):\n%s", diff)
	}
	if !sv.Progress.Steps[0].Current || sv.Progress.Steps[1].Done {
		t.Fatalf("step flags wrong: %+v", sv.Progress.Steps)
	}
}

func TestBuilder_InvalidSectionListsErrorsInOrder(t *testing.T) {
	c := readyController(t, sampleForm())
	if _, err := Forward(context.Background(), c, ActionNext); err != nil {
		t.Fatalf("next: %v", err)
	}

	page, err := NewBuilder().Page(c)
	if err != nil {
		t.Fatalf("page: %v", err)
	}
	summary := page.Section.Summary
	if summary == nil {
		t.Fatalf("expected summary")
	}
	if summary.Heading != "There are 2 errors that need to be fixed" {
		t.Fatalf("heading = %q", summary.Heading)
	}

	want := []SummaryItem{
		{FieldID: "name", Label: "Name", Message: "Name is required", Anchor: "field-name"},
		{FieldID: "email", Label: "Email", Message: "Email is required", Anchor: "field-email"},
	}
	if diff := cmp.Diff(want, summary.Items); diff != "" {
		t.Fatalf("summary mismatch (-want +got):\n%s", diff)
	}
	for _, fv := range page.Section.Fields {
		if !fv.HasError {
			t.Fatalf("field %q missing inline error", fv.Control.ID)
		}
	}
}

func TestBuilder_SingleErrorHeading(t *testing.T) {
	c := readyController(t, sampleForm())
	if err := c.ChangeField("name", model.String("Ada")); err != nil {
		t.Fatalf("change: %v", err)
	}
	if _, err := c.Next(); err != nil {
		t.Fatalf("next: %v", err)
	}
	page, _ := NewBuilder().Page(c)
	if got := page.Section.Summary.Heading; got != "There is 1 error that needs to be fixed" {
		t.Fatalf("heading = %q", got)
	}
}

func TestBuilder_LastSectionOffersSubmitOnly(t *testing.T) {
	c := readyController(t, sampleForm())
	ctx := context.Background()
	_ = c.ChangeField("name", model.String("Ada"))
	_ = c.ChangeField("email", model.String("ada@example.com"))
	for range 2 {
		if res, err := Forward(ctx, c, ActionNext); err != nil || !res.Valid {
			t.Fatalf("next: %v %+v", err, res)
		}
	}

	page, err := NewBuilder().Page(c)
	if err != nil {
		t.Fatalf("page: %v", err)
	}
	sv := page.Section
	if sv.Trailing.Action != ActionSubmit || sv.Trailing.Label != "Submit" {
		t.Fatalf("trailing = %+v", sv.Trailing)
	}
	if sv.Previous == nil || sv.Previous.Action != ActionPrevious {
		t.Fatalf("previous missing on last section")
	}
	if sv.Progress.Percent != 100 {
		t.Fatalf("percent = %d", sv.Progress.Percent)
	}

	if _, err := Forward(ctx, c, ActionSubmit); err != nil {
		t.Fatalf("submit: %v", err)
	}
	page, _ = NewBuilder().Page(c)
	if page.Kind != PageSuccess || page.Title != "Form submitted successfully!" {
		t.Fatalf("unexpected page %+v", page)
	}
}

func TestBuilder_ErrorPageOffersBackToLogin(t *testing.T) {
	c, err := wizard.New(session.Session{Identity: "r1"},
		wizard.WithFetcher(wizard.FetcherFunc(func(context.Context, string) (model.FormSchema, error) {
			return model.FormSchema{}, errors.New("boom")
		})),
	)
	if err != nil {
		t.Fatalf("new: %v", err)
	}
	<-c.Load(context.Background())

	page, err := NewBuilder().Page(c)
	if err != nil {
		t.Fatalf("page: %v", err)
	}
	if page.Kind != PageError {
		t.Fatalf("kind = %q", page.Kind)
	}
	if page.Action == nil || page.Action.Action != ActionBackToLogin {
		t.Fatalf("action = %+v", page.Action)
	}
}

func TestBuilder_LoadingPage(t *testing.T) {
	c, err := wizard.New(session.Session{Identity: "r1"})
	if err != nil {
		t.Fatalf("new: %v", err)
	}
	page, err := NewBuilder().Page(c)
	if err != nil {
		t.Fatalf("page: %v", err)
	}
	if page.Kind != PageLoading || page.Title != "Loading form..." {
		t.Fatalf("unexpected page %+v", page)
	}
}

func TestForward_UnknownAction(t *testing.T) {
	c := readyController(t, sampleForm())
	if _, err := Forward(context.Background(), c, "jump"); !errors.Is(err, ErrUnknownAction) {
		t.Fatalf("expected ErrUnknownAction, got %v", err)
	}
}

func TestForward_PreviousOnFirstSectionRejected(t *testing.T) {
	c := readyController(t, sampleForm())
	if _, err := Forward(context.Background(), c, ActionPrevious); !errors.Is(err, wizard.ErrInvalidTransition) {
		t.Fatalf("expected ErrInvalidTransition, got %v", err)
	}
}

func TestBuilder_Login(t *testing.T) {
	page := NewBuilder().Login("r1", "", "Both roll number and name are required")
	want := LoginView{
		IdentityLabel:    "Roll Number",
		DisplayNameLabel: "Name",
		Identity:         "r1",
		Error:            "Both roll number and name are required",
	}
	if diff := cmp.Diff(want, *page.Login); diff != "" {
		t.Fatalf("login mismatch (-want +got):\n%s", diff)
	}
}
