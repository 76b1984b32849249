package tui

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/goliatone/go-formwizard/pkg/fields"
	"github.com/goliatone/go-formwizard/pkg/model"
	"github.com/goliatone/go-formwizard/pkg/render"
	"github.com/goliatone/go-formwizard/pkg/session"
	"github.com/goliatone/go-formwizard/pkg/testsupport"
	"github.com/goliatone/go-formwizard/pkg/view"
	"github.com/goliatone/go-formwizard/pkg/wizard"
)

type stubDriver struct {
	inputs       []string
	selectIdx    []int
	multiIdx     [][]int
	confirm      []bool
	textAreas    []string
	infoMessages []string
	inputPos     int
	selectPos    int
	multiPos     int
	confirmPos   int
	textPos      int
	selectCfgs   []SelectConfig
}

func (s *stubDriver) Input(_ context.Context, _ InputConfig) (string, error) {
	if s.inputPos >= len(s.inputs) {
		return "", errors.New("no input scripted")
	}
	val := s.inputs[s.inputPos]
	s.inputPos++
	return val, nil
}

func (s *stubDriver) Confirm(_ context.Context, _ ConfirmConfig) (bool, error) {
	if s.confirmPos >= len(s.confirm) {
		return false, errors.New("no confirm scripted")
	}
	val := s.confirm[s.confirmPos]
	s.confirmPos++
	return val, nil
}

func (s *stubDriver) Select(_ context.Context, cfg SelectConfig) (int, error) {
	s.selectCfgs = append(s.selectCfgs, cfg)
	if s.selectPos >= len(s.selectIdx) {
		return -1, errors.New("no select scripted")
	}
	val := s.selectIdx[s.selectPos]
	s.selectPos++
	return val, nil
}

func (s *stubDriver) MultiSelect(_ context.Context, _ SelectConfig) ([]int, error) {
	if s.multiPos >= len(s.multiIdx) {
		return nil, errors.New("no multiselect scripted")
	}
	val := s.multiIdx[s.multiPos]
	s.multiPos++
	return val, nil
}

func (s *stubDriver) TextArea(_ context.Context, _ TextAreaConfig) (string, error) {
	if s.textPos >= len(s.textAreas) {
		return "", errors.New("no textarea scripted")
	}
	val := s.textAreas[s.textPos]
	s.textPos++
	return val, nil
}

func (s *stubDriver) Info(_ context.Context, msg string) error {
	s.infoMessages = append(s.infoMessages, msg)
	return nil
}

type noopTask struct{}

func (noopTask) Cancel() bool { return true }

type manualScheduler struct{}

func (manualScheduler) Schedule(time.Duration, func()) wizard.Task { return noopTask{} }

func newController(t *testing.T, fetcher wizard.Fetcher, sink wizard.Sink) *wizard.Controller {
	t.Helper()
	c, err := wizard.New(session.Session{Identity: "r1", DisplayName: "Ada"},
		wizard.WithFetcher(fetcher),
		wizard.WithScheduler(manualScheduler{}),
		wizard.WithSink(sink),
	)
	require.NoError(t, err)
	t.Cleanup(c.Close)
	return c
}

func TestRun_CompletesRegistration(t *testing.T) {
	var submitted []wizard.Submission
	sink := wizard.SinkFunc(func(_ context.Context, sub wizard.Submission) error {
		submitted = append(submitted, sub)
		return nil
	})
	c := newController(t, wizard.StaticFetcher(testsupport.RegistrationSchema(t)), sink)

	driver := &stubDriver{
		inputs: []string{
			"", "", "", "",
			"Ada Lovelace", "ada@example.com", "+919876543210", "",
		},
		// next (invalid), next, course=cs, gender=m, submit
		selectIdx: []int{0, 0, 1, 0, 1},
		multiIdx:  [][]int{{1}},
		textAreas: []string{"Hello"},
		confirm:   []bool{true},
	}
	r := New(WithPromptDriver(driver), WithOutput(&bytes.Buffer{}), WithPlain(true))

	require.NoError(t, r.Run(context.Background(), c))
	require.Len(t, submitted, 1)

	values := submitted[0].Values
	assertValue(t, values, "fullName", model.String("Ada Lovelace"))
	assertValue(t, values, "phone", model.String("9876543210"))
	assertValue(t, values, "course", model.String("cs"))
	assertValue(t, values, "gender", model.String("m"))
	assertValue(t, values, "interests", model.List("music"))
	assertValue(t, values, "terms", model.Bool(true))

	joined := strings.Join(driver.infoMessages, "\n---\n")
	assert.Contains(t, joined, "Full Name is required")
	assert.Contains(t, joined, "1 of 2 sections")
	assert.Contains(t, joined, "2 of 2 sections")
	assert.NotContains(t, joined, "alert(1)")
	assert.Contains(t, driver.infoMessages[len(driver.infoMessages)-1], "✓")

	// the last action prompt offers previous and submit
	last := driver.selectCfgs[len(driver.selectCfgs)-1]
	assert.Equal(t, []string{"Previous", "Submit"}, last.Options)
}

func TestRun_LoadFailure(t *testing.T) {
	fetcher := wizard.FetcherFunc(func(context.Context, string) (model.FormSchema, error) {
		return model.FormSchema{}, errors.New("boom")
	})
	c := newController(t, fetcher, wizard.SinkFunc(func(context.Context, wizard.Submission) error { return nil }))

	driver := &stubDriver{}
	err := New(WithPromptDriver(driver), WithPlain(true), WithOutput(&bytes.Buffer{})).Run(context.Background(), c)
	require.ErrorIs(t, err, ErrLoadFailed)
	assert.Contains(t, err.Error(), "Failed to load form")
}

func TestRun_AbortStopsLoop(t *testing.T) {
	c := newController(t, wizard.StaticFetcher(testsupport.RegistrationSchema(t)),
		wizard.SinkFunc(func(context.Context, wizard.Submission) error { return nil }))

	driver := &stubDriver{}
	err := New(WithPromptDriver(driver), WithPlain(true), WithOutput(&bytes.Buffer{})).Run(context.Background(), c)
	require.Error(t, err)
	assert.Equal(t, wizard.PhaseReady, c.Snapshot().Phase)
}

func TestRender_SectionText(t *testing.T) {
	c := newController(t, wizard.StaticFetcher(testsupport.RegistrationSchema(t)),
		wizard.SinkFunc(func(context.Context, wizard.Submission) error { return nil }))
	<-c.Load(context.Background())
	_, err := c.Edit("fullName", fields.TextInput("Ada"))
	require.NoError(t, err)

	r := New(WithPromptDriver(&stubDriver{}), WithPlain(true), WithOutput(&bytes.Buffer{}))
	page, err := view.NewBuilder().Page(c)
	require.NoError(t, err)

	out, err := r.Render(context.Background(), page, render.RenderOptions{})
	require.NoError(t, err)
	text := string(out)

	assert.Equal(t, "tui", r.Name())
	assert.Contains(t, text, "Student Registration Form")
	assert.Contains(t, text, "Full Name: Ada")
	assert.Contains(t, text, "Phone: +91")
	assert.Contains(t, text, "Tell us who you are.")
	assert.Contains(t, text, " 50%")
}

func TestProgressBar(t *testing.T) {
	st := NewStyles(&bytes.Buffer{}, nil, true)
	assert.Equal(t, strings.Repeat("█", 12)+strings.Repeat("░", 12)+"  50%", progressBar(st, 50))
	assert.Equal(t, strings.Repeat("█", 24)+" 100%", progressBar(st, 140))
}

func assertValue(t *testing.T, store *model.ValueStore, id string, want model.Value) {
	t.Helper()
	got, ok := store.Get(id)
	require.True(t, ok, "missing %s", id)
	assert.True(t, want.Equal(got), "%s = %#v, want %#v", id, got, want)
}

func TestSurveyDriver_InfoAndCancelledContext(t *testing.T) {
	var buf bytes.Buffer
	d := NewSurveyDriver(&buf)
	require.NoError(t, d.Info(context.Background(), "hello"))
	assert.Equal(t, "hello\n", buf.String())

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := d.Input(ctx, InputConfig{Message: "never asked"})
	assert.ErrorIs(t, err, context.Canceled)
}

func TestValidIndices(t *testing.T) {
	assert.Equal(t, []int{2, 0}, validIndices([]int{2, -1, 0, 2, 5}, 3))
	assert.Empty(t, validIndices(nil, 3))
}
