// Package view turns controller state into render-ready structures. Renderers
// (HTML, terminal) consume these views and never read the controller
// directly.
package view

import (
	"fmt"
	"math"

	"github.com/goliatone/go-formwizard/pkg/fields"
	"github.com/goliatone/go-formwizard/pkg/model"
	"github.com/goliatone/go-formwizard/pkg/validation"
	"github.com/goliatone/go-formwizard/pkg/wizard"
)

// StepTitleLimit is the number of characters of a section title shown in the
// step list.
const StepTitleLimit = 20

// Action names a navigation control forwarded to the controller.
type Action string

const (
	ActionPrevious Action = "previous"
	ActionNext     Action = "next"
	ActionSubmit   Action = "submit"
)

// Button is a labelled action.
type Button struct {
	Action Action
	Label  string
}

// Step is one entry of the progress indicator.
type Step struct {
	Index   int
	Number  int
	Title   string
	Full    string
	Current bool
	Done    bool
}

// Progress describes how far through the form the user is.
type Progress struct {
	// Position is 1-based.
	Position int
	Count    int
	Percent  int
	Text     string
	Steps    []Step
}

// FieldView pairs a field's control with its displayed error.
type FieldView struct {
	Control  fields.Control
	Error    string
	HasError bool
	Anchor   string
}

// SummaryItem links one error back to its field.
type SummaryItem struct {
	FieldID string
	Label   string
	Message string
	Anchor  string
}

// Summary lists every error currently displayed for the section.
type Summary struct {
	Count   int
	Heading string
	GoTo    string
	Items   []SummaryItem
}

// SectionView is the render-ready current section.
type SectionView struct {
	FormID      string
	FormTitle   string
	SectionID   string
	Title       string
	Description string
	Index       int
	Count       int
	Progress    Progress
	Fields      []FieldView
	Summary     *Summary
	// Previous is nil on the first section.
	Previous *Button
	// Trailing is Next on every section but the last, where it is Submit.
	Trailing Button
}

// Builder assembles views using a field registry for controls and a
// translator for copy.
type Builder struct {
	fields     *fields.Registry
	translator validation.Translator
}

// Option configures a Builder.
type Option func(*Builder)

// WithFields sets the registry used to render controls.
func WithFields(r *fields.Registry) Option {
	return func(b *Builder) {
		if r != nil {
			b.fields = r
		}
	}
}

// WithTranslator sets the translator used for headings, buttons and page
// copy.
func WithTranslator(t validation.Translator) Option {
	return func(b *Builder) {
		b.translator = t
	}
}

// NewBuilder returns a Builder with the built-in field renderers.
func NewBuilder(opts ...Option) *Builder {
	b := &Builder{}
	for _, opt := range opts {
		if opt != nil {
			opt(b)
		}
	}
	if b.fields == nil {
		b.fields = fields.NewRegistry(fields.WithTranslator(b.translator))
	}
	return b
}

// Section builds the view of the current section described by state.
func (b *Builder) Section(form model.FormSchema, state wizard.State) (SectionView, error) {
	count := len(form.Sections)
	if count == 0 {
		return SectionView{}, model.ErrNoSections
	}
	index := state.Index
	if index < 0 || index >= count {
		index = 0
	}
	section := form.Sections[index]

	out := SectionView{
		FormID:      form.ID,
		FormTitle:   form.Title,
		SectionID:   string(section.ID),
		Title:       section.Title,
		Description: section.Description,
		Index:       index,
		Count:       count,
		Progress:    b.progress(form, index),
	}

	for _, field := range section.Fields {
		value, present := state.Values.Get(field.ID)
		control, err := b.fields.Control(field, value, present)
		if err != nil {
			return SectionView{}, err
		}
		fv := FieldView{Control: control, Anchor: Anchor(field.ID)}
		if fe, ok := state.ErrorFor(field.ID); ok {
			fv.Error = fe.Message
			fv.HasError = true
		}
		out.Fields = append(out.Fields, fv)
	}
	out.Summary = b.summary(section, state.Errors)

	if index > 0 {
		out.Previous = &Button{Action: ActionPrevious, Label: b.text("action.previous", -1, nil)}
	}
	if index == count-1 {
		out.Trailing = Button{Action: ActionSubmit, Label: b.text("action.submit", -1, nil)}
	} else {
		out.Trailing = Button{Action: ActionNext, Label: b.text("action.next", -1, nil)}
	}
	return out, nil
}

func (b *Builder) progress(form model.FormSchema, index int) Progress {
	count := len(form.Sections)
	p := Progress{
		Position: index + 1,
		Count:    count,
		Percent:  Percent(index, count),
		Text:     b.text("progress.position", -1, map[string]any{"Index": index + 1, "Count": count}),
	}
	for i, section := range form.Sections {
		p.Steps = append(p.Steps, Step{
			Index:   i,
			Number:  i + 1,
			Title:   TruncateTitle(section.Title),
			Full:    section.Title,
			Current: i == index,
			Done:    i < index,
		})
	}
	return p
}

func (b *Builder) summary(section model.Section, errs []validation.FieldError) *Summary {
	if len(errs) == 0 {
		return nil
	}
	labels := make(map[string]string, len(section.Fields))
	for _, f := range section.Fields {
		labels[f.ID] = f.Label
	}
	s := &Summary{
		Count:   len(errs),
		Heading: b.text("summary.heading", len(errs), map[string]any{"Count": len(errs)}),
		GoTo:    b.text("summary.goto", -1, nil),
	}
	for _, fe := range errs {
		label := labels[fe.FieldID]
		if label == "" {
			label = fe.FieldID
		}
		s.Items = append(s.Items, SummaryItem{
			FieldID: fe.FieldID,
			Label:   label,
			Message: fe.Message,
			Anchor:  Anchor(fe.FieldID),
		})
	}
	return s
}

// Anchor returns the fragment id used to jump to a field.
func Anchor(fieldID string) string {
	return "field-" + fieldID
}

// TruncateTitle shortens a step title to StepTitleLimit characters followed
// by "..." when it is longer.
func TruncateTitle(title string) string {
	runes := []rune(title)
	if len(runes) <= StepTitleLimit {
		return title
	}
	return string(runes[:StepTitleLimit]) + "..."
}

// Percent returns the completion percentage for the 0-based index.
func Percent(index, count int) int {
	if count <= 0 {
		return 0
	}
	return int(math.Round(float64(index+1) / float64(count) * 100))
}

func (b *Builder) text(id string, count int, data map[string]any) string {
	if b.translator != nil {
		if out, err := b.translator.Translate(id, count, data); err == nil && out != "" {
			return out
		}
	}
	return fallback(id, count, data)
}

func fallback(id string, count int, data map[string]any) string {
	switch id {
	case "action.previous":
		return "Previous"
	case "action.next":
		return "Next"
	case "action.submit":
		return "Submit"
	case "action.back_to_login":
		return "Back to Login"
	case "action.logout":
		return "Logout"
	case "action.login":
		return "Start"
	case "progress.position":
		return fmt.Sprintf("%v of %v sections", data["Index"], data["Count"])
	case "summary.heading":
		if count == 1 {
			return "There is 1 error that needs to be fixed"
		}
		return fmt.Sprintf("There are %d errors that need to be fixed", count)
	case "summary.goto":
		return "Go to field"
	case "page.loading":
		return "Loading form..."
	case "page.error_title":
		return "Something went wrong"
	case "page.success_title":
		return "Form submitted successfully!"
	case "page.success_redirect":
		return "Redirecting to login in a few seconds..."
	case "page.login_title":
		return "Welcome"
	case "login.identity":
		return "Roll Number"
	case "login.display_name":
		return "Name"
	case "theme.toggle":
		return "Toggle theme"
	case "error.fetch_failed":
		return "Failed to load form. Please try again."
	case "error.no_sections":
		return "No form sections found"
	}
	return id
}
