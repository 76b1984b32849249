// Package jsonpage renders wizard pages as JSON for script-driven clients.
package jsonpage

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/goliatone/go-formwizard/pkg/appearance"
	"github.com/goliatone/go-formwizard/pkg/fields"
	"github.com/goliatone/go-formwizard/pkg/render"
	"github.com/goliatone/go-formwizard/pkg/view"
)

type Option func(*Renderer)

// WithIndent pretty-prints the payload.
func WithIndent(indent string) Option {
	return func(r *Renderer) {
		r.indent = indent
	}
}

type Renderer struct {
	indent string
}

var _ render.Renderer = (*Renderer)(nil)

func New(options ...Option) *Renderer {
	r := &Renderer{}
	for _, opt := range options {
		if opt != nil {
			opt(r)
		}
	}
	return r
}

func (r *Renderer) Name() string {
	return "json"
}

func (r *Renderer) ContentType() string {
	return "application/json"
}

type payload struct {
	Kind     view.PageKind `json:"kind"`
	Title    string        `json:"title"`
	Message  string        `json:"message,omitempty"`
	Identity string        `json:"identity,omitempty"`
	Name     string        `json:"name,omitempty"`
	Action   *button       `json:"action,omitempty"`
	Logout   *button       `json:"logout,omitempty"`
	Login    *login        `json:"login,omitempty"`
	Section  *section      `json:"section,omitempty"`
	Theme    *themePayload `json:"theme,omitempty"`
}

type button struct {
	Action string `json:"action"`
	Label  string `json:"label"`
}

type login struct {
	IdentityLabel    string `json:"identityLabel"`
	DisplayNameLabel string `json:"displayNameLabel"`
	Identity         string `json:"identity"`
	DisplayName      string `json:"displayName"`
	Error            string `json:"error,omitempty"`
}

type section struct {
	FormID      string   `json:"formId,omitempty"`
	FormTitle   string   `json:"formTitle"`
	SectionID   string   `json:"sectionId"`
	Title       string   `json:"title"`
	Description string   `json:"description,omitempty"`
	Index       int      `json:"index"`
	Count       int      `json:"count"`
	Progress    progress `json:"progress"`
	Fields      []field  `json:"fields"`
	Summary     *summary `json:"summary,omitempty"`
	Actions     []button `json:"actions"`
}

type progress struct {
	Percent int    `json:"percent"`
	Text    string `json:"text"`
	Steps   []step `json:"steps"`
}

type step struct {
	Number  int    `json:"number"`
	Title   string `json:"title"`
	Full    string `json:"fullTitle"`
	Current bool   `json:"current,omitempty"`
	Done    bool   `json:"done,omitempty"`
}

type field struct {
	ID          string          `json:"id"`
	Type        string          `json:"type"`
	Kind        fields.Kind     `json:"kind"`
	InputType   string          `json:"inputType,omitempty"`
	Label       string          `json:"label"`
	Placeholder string          `json:"placeholder,omitempty"`
	Hint        string          `json:"hint,omitempty"`
	Required    bool            `json:"required"`
	TestID      string          `json:"testId,omitempty"`
	Value       any             `json:"value"`
	Options     []option        `json:"options,omitempty"`
	MinLength   *int            `json:"minLength,omitempty"`
	MaxLength   *int            `json:"maxLength,omitempty"`
	Min         string          `json:"min,omitempty"`
	Max         string          `json:"max,omitempty"`
	Counter     *fields.Counter `json:"counter,omitempty"`
	Error       string          `json:"error,omitempty"`
	Anchor      string          `json:"anchor"`
}

type option struct {
	Value    string `json:"value"`
	Label    string `json:"label"`
	TestID   string `json:"testId,omitempty"`
	Selected bool   `json:"selected,omitempty"`
}

type summary struct {
	Heading string        `json:"heading"`
	GoTo    string        `json:"goTo"`
	Items   []summaryItem `json:"items"`
}

type summaryItem struct {
	FieldID string `json:"fieldId"`
	Label   string `json:"label"`
	Message string `json:"message"`
	Anchor  string `json:"anchor"`
}

type themePayload struct {
	Name         string            `json:"name,omitempty"`
	Variant      string            `json:"variant"`
	Tokens       map[string]string `json:"tokens,omitempty"`
	CSSVars      map[string]string `json:"cssVars,omitempty"`
	CSSVarsStyle string            `json:"cssVarsStyle,omitempty"`
	Stylesheet   string            `json:"stylesheet,omitempty"`
}

// Render serialises page. Field values are the displayed values: strings for
// text-like controls, a bool for single checkboxes and a list of option values
// for checkbox groups.
func (r *Renderer) Render(_ context.Context, page view.Page, opts render.RenderOptions) ([]byte, error) {
	out := payload{
		Kind:     page.Kind,
		Title:    page.Title,
		Message:  page.Message,
		Identity: page.Session.Identity,
		Name:     page.Session.DisplayName,
		Action:   toButton(page.Action),
		Logout:   toButton(page.Logout),
		Theme:    toTheme(opts),
	}
	if l := page.Login; l != nil {
		out.Login = &login{
			IdentityLabel:    l.IdentityLabel,
			DisplayNameLabel: l.DisplayNameLabel,
			Identity:         l.Identity,
			DisplayName:      l.DisplayName,
			Error:            l.Error,
		}
	}
	if page.Section != nil {
		out.Section = toSection(*page.Section)
	}

	var (
		data []byte
		err  error
	)
	if r.indent != "" {
		data, err = json.MarshalIndent(out, "", r.indent)
	} else {
		data, err = json.Marshal(out)
	}
	if err != nil {
		return nil, fmt.Errorf("json renderer: marshal page: %w", err)
	}
	return data, nil
}

func toButton(b *view.Button) *button {
	if b == nil {
		return nil
	}
	return &button{Action: string(b.Action), Label: b.Label}
}

func toSection(sv view.SectionView) *section {
	out := &section{
		FormID:      sv.FormID,
		FormTitle:   sv.FormTitle,
		SectionID:   sv.SectionID,
		Title:       sv.Title,
		Description: sv.Description,
		Index:       sv.Index,
		Count:       sv.Count,
		Progress: progress{
			Percent: sv.Progress.Percent,
			Text:    sv.Progress.Text,
			Steps:   make([]step, len(sv.Progress.Steps)),
		},
		Fields: make([]field, len(sv.Fields)),
	}
	for i, s := range sv.Progress.Steps {
		out.Progress.Steps[i] = step{Number: s.Number, Title: s.Title, Full: s.Full, Current: s.Current, Done: s.Done}
	}
	for i, f := range sv.Fields {
		out.Fields[i] = toField(f)
	}
	if sv.Summary != nil {
		out.Summary = &summary{Heading: sv.Summary.Heading, GoTo: sv.Summary.GoTo, Items: make([]summaryItem, len(sv.Summary.Items))}
		for i, item := range sv.Summary.Items {
			out.Summary.Items[i] = summaryItem{FieldID: item.FieldID, Label: item.Label, Message: item.Message, Anchor: item.Anchor}
		}
	}
	if sv.Previous != nil {
		out.Actions = append(out.Actions, *toButton(sv.Previous))
	}
	out.Actions = append(out.Actions, *toButton(&sv.Trailing))
	return out
}

func toField(f view.FieldView) field {
	c := f.Control
	out := field{
		ID:          c.ID,
		Type:        string(c.Type),
		Kind:        c.Kind,
		InputType:   c.InputType,
		Label:       c.Label,
		Placeholder: c.Placeholder,
		Hint:        c.Hint,
		Required:    c.Required,
		TestID:      c.TestID,
		MinLength:   c.MinLength,
		MaxLength:   c.MaxLength,
		Min:         c.Min,
		Max:         c.Max,
		Counter:     c.Counter,
		Error:       f.Error,
		Anchor:      f.Anchor,
	}
	switch c.Kind {
	case fields.KindCheckbox:
		out.Value = c.Checked
	case fields.KindCheckboxGroup:
		selected := c.SelectedValues()
		if selected == nil {
			selected = []string{}
		}
		out.Value = selected
	default:
		out.Value = c.Value
	}
	for _, o := range c.Options {
		out.Options = append(out.Options, option{Value: o.Value, Label: o.Label, TestID: o.TestID, Selected: o.Selected})
	}
	return out
}

func toTheme(opts render.RenderOptions) *themePayload {
	mode := opts.Mode
	if mode == "" {
		mode = appearance.ModeLight
	}
	out := &themePayload{Variant: string(mode)}
	if cfg := opts.Theme; cfg != nil {
		out.Name = cfg.Theme
		out.Tokens = cfg.Tokens
		out.CSSVars = cfg.CSSVars
		out.CSSVarsStyle = appearance.CSSVarsStyle(cfg)
		if cfg.AssetURL != nil {
			out.Stylesheet = cfg.AssetURL("stylesheet")
		}
	}
	return out
}
