// Package tui drives a wizard controller from the terminal. Pages are drawn
// with lipgloss and fields are collected through survey prompts.
package tui

import (
	"context"
	"errors"
	"fmt"
	"html"
	"io"
	"os"
	"strings"
	"sync"

	"github.com/microcosm-cc/bluemonday"

	"github.com/goliatone/go-formwizard/pkg/fields"
	"github.com/goliatone/go-formwizard/pkg/render"
	"github.com/goliatone/go-formwizard/pkg/view"
	"github.com/goliatone/go-formwizard/pkg/wizard"
	theme "github.com/goliatone/go-theme"
)

const barWidth = 24

// Renderer implements render.Renderer as plain terminal text and runs the
// interactive prompt loop.
type Renderer struct {
	driver  PromptDriver
	builder *view.Builder
	out     io.Writer
	theme   *theme.RendererConfig
	plain   bool

	stylesOnce sync.Once
	styles     Styles
}

var _ render.Renderer = (*Renderer)(nil)

// New constructs a TUI renderer with defaults (survey driver, stdout).
func New(options ...Option) *Renderer {
	r := &Renderer{out: os.Stdout}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(r)
	}
	if r.builder == nil {
		r.builder = view.NewBuilder()
	}
	if r.driver == nil {
		r.driver = NewSurveyDriver(r.out)
	}
	return r
}

// Name reports the renderer identifier.
func (r *Renderer) Name() string {
	return "tui"
}

func (r *Renderer) ContentType() string {
	return "text/plain; charset=utf-8"
}

// Render draws page as terminal text, field values included.
func (r *Renderer) Render(ctx context.Context, page view.Page, _ render.RenderOptions) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	var b strings.Builder
	r.writePage(&b, page, true)
	return []byte(b.String()), nil
}

// Run loads the form and prompts section by section until the form is
// submitted, the load fails, or ctx is cancelled.
func (r *Renderer) Run(ctx context.Context, c *wizard.Controller) error {
	select {
	case <-c.Load(ctx):
	case <-ctx.Done():
		return ctx.Err()
	}

	for {
		if err := ctx.Err(); err != nil {
			return err
		}
		page, err := r.builder.Page(c)
		if err != nil {
			return err
		}

		var b strings.Builder
		r.writePage(&b, page, false)
		if err := r.driver.Info(ctx, strings.TrimRight(b.String(), "\n")); err != nil {
			return err
		}

		switch page.Kind {
		case view.PageSuccess:
			return nil
		case view.PageError:
			return fmt.Errorf("%w: %s", ErrLoadFailed, page.Message)
		case view.PageSection:
			if err := r.promptSection(ctx, c, page.Section); err != nil {
				return err
			}
		default:
			return fmt.Errorf("tui: unexpected page %q", page.Kind)
		}
	}
}

func (r *Renderer) promptSection(ctx context.Context, c *wizard.Controller, sv *view.SectionView) error {
	for _, f := range sv.Fields {
		in, err := r.promptControl(ctx, f.Control)
		if err != nil {
			return err
		}
		if _, err := c.Edit(f.Control.ID, in); err != nil {
			return err
		}
	}

	buttons := make([]view.Button, 0, 2)
	if sv.Previous != nil {
		buttons = append(buttons, *sv.Previous)
	}
	buttons = append(buttons, sv.Trailing)
	labels := make([]string, len(buttons))
	for i, btn := range buttons {
		labels[i] = btn.Label
	}

	idx, err := r.driver.Select(ctx, SelectConfig{
		Message:      sv.Progress.Text,
		Options:      labels,
		DefaultIndex: len(labels) - 1,
	})
	if err != nil {
		return err
	}
	if idx < 0 || idx >= len(buttons) {
		return fmt.Errorf("%w: choice %d", view.ErrUnknownAction, idx)
	}

	_, err = view.Forward(ctx, c, buttons[idx].Action)
	if errors.Is(err, wizard.ErrClosed) {
		return nil
	}
	return err
}

func (r *Renderer) promptControl(ctx context.Context, ctl fields.Control) (fields.Input, error) {
	message := ctl.Label
	if ctl.Required {
		message += " *"
	}
	help := ctl.Hint
	if help == "" {
		help = ctl.Placeholder
	}

	switch ctl.Kind {
	case fields.KindTextarea:
		text, err := r.driver.TextArea(ctx, TextAreaConfig{Message: message, Default: ctl.Value, Help: help})
		return fields.TextInput(text), err
	case fields.KindCheckbox:
		ok, err := r.driver.Confirm(ctx, ConfirmConfig{Message: message, Default: ctl.Checked, Help: help})
		return fields.CheckedInput(ok), err
	case fields.KindSelect, fields.KindRadio:
		labels := make([]string, 0, len(ctl.Options)+1)
		values := make([]string, 0, len(ctl.Options)+1)
		def := 0
		if ctl.Kind == fields.KindSelect {
			labels = append(labels, ctl.OptionPlaceholder)
			values = append(values, "")
		}
		for _, opt := range ctl.Options {
			if opt.Selected {
				def = len(labels)
			}
			labels = append(labels, opt.Label)
			values = append(values, opt.Value)
		}
		if len(labels) == 0 {
			return fields.TextInput(""), nil
		}
		idx, err := r.driver.Select(ctx, SelectConfig{Message: message, Options: labels, DefaultIndex: def, Help: help})
		if err != nil {
			return fields.Input{}, err
		}
		if idx < 0 || idx >= len(values) {
			return fields.TextInput(""), nil
		}
		return fields.TextInput(values[idx]), nil
	case fields.KindCheckboxGroup:
		labels := make([]string, len(ctl.Options))
		var defaults []int
		for i, opt := range ctl.Options {
			labels[i] = opt.Label
			if opt.Selected {
				defaults = append(defaults, i)
			}
		}
		picked, err := r.driver.MultiSelect(ctx, SelectConfig{Message: message, Options: labels, Defaults: defaults, Help: help})
		if err != nil {
			return fields.Input{}, err
		}
		selected := make([]string, 0, len(picked))
		for _, i := range picked {
			if i >= 0 && i < len(ctl.Options) {
				selected = append(selected, ctl.Options[i].Value)
			}
		}
		return fields.SelectionInput(selected...), nil
	default:
		text, err := r.driver.Input(ctx, InputConfig{Message: message, Default: ctl.Value, Help: help})
		return fields.TextInput(text), err
	}
}

func (r *Renderer) writePage(b *strings.Builder, page view.Page, withFields bool) {
	st := r.stylesFor()
	if page.Title != "" {
		b.WriteString(st.Title.Render(page.Title))
		b.WriteString("\n")
	}

	switch page.Kind {
	case view.PageLogin, view.PageLoading:
		if page.Message != "" {
			b.WriteString(st.Muted.Render(page.Message) + "\n")
		}
	case view.PageError:
		b.WriteString(st.Error.Render("✗ "+page.Message) + "\n")
	case view.PageSuccess:
		b.WriteString(st.Success.Render("✓ "+page.Message) + "\n")
	case view.PageSection:
		if page.Section != nil {
			r.writeSection(b, st, *page.Section, withFields)
		}
	}
}

func (r *Renderer) writeSection(b *strings.Builder, st Styles, sv view.SectionView, withFields bool) {
	steps := make([]string, len(sv.Progress.Steps))
	for i, step := range sv.Progress.Steps {
		switch {
		case step.Current:
			steps[i] = st.Current.Render(fmt.Sprintf("%d %s", step.Number, step.Title))
		case step.Done:
			steps[i] = st.Done.Render("✓ " + step.Title)
		default:
			steps[i] = st.Pending.Render(fmt.Sprintf("%d %s", step.Number, step.Title))
		}
	}
	b.WriteString(strings.Join(steps, st.Muted.Render(" › ")) + "\n")
	b.WriteString(progressBar(st, sv.Progress.Percent) + " " + st.Muted.Render(sv.Progress.Text) + "\n\n")

	b.WriteString(st.Section.Render(sv.Title) + "\n")
	if desc := plainText(sv.Description); desc != "" {
		b.WriteString(st.Muted.Render(desc) + "\n")
	}

	if sv.Summary != nil {
		lines := []string{st.Error.Render(sv.Summary.Heading)}
		for _, item := range sv.Summary.Items {
			lines = append(lines, "• "+item.Label+": "+item.Message)
		}
		b.WriteString(st.Summary.Render(strings.Join(lines, "\n")) + "\n")
	}

	if !withFields {
		return
	}
	for _, f := range sv.Fields {
		b.WriteString(fmt.Sprintf("%s: %s\n", f.Control.Label, controlValue(f.Control)))
		if f.HasError {
			b.WriteString("  " + st.Error.Render(f.Error) + "\n")
		}
	}
}

func (r *Renderer) stylesFor() Styles {
	r.stylesOnce.Do(func() {
		r.styles = NewStyles(r.out, r.theme, r.plain)
	})
	return r.styles
}

func progressBar(st Styles, percent int) string {
	percent = max(0, min(percent, 100))
	filled := percent * barWidth / 100
	return st.Bar.Render(strings.Repeat("█", filled)) +
		st.Track.Render(strings.Repeat("░", barWidth-filled)) +
		fmt.Sprintf(" %3d%%", percent)
}

func controlValue(ctl fields.Control) string {
	switch ctl.Kind {
	case fields.KindCheckbox:
		if ctl.Checked {
			return "yes"
		}
		return "no"
	case fields.KindSelect, fields.KindRadio, fields.KindCheckboxGroup:
		var labels []string
		for _, opt := range ctl.Options {
			if opt.Selected {
				labels = append(labels, opt.Label)
			}
		}
		return strings.Join(labels, ", ")
	default:
		return ctl.Value
	}
}

var stripPolicy = bluemonday.StrictPolicy()

func plainText(raw string) string {
	return strings.TrimSpace(html.UnescapeString(stripPolicy.Sanitize(raw)))
}
