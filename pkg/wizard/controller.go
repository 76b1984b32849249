// Package wizard implements the state machine behind a multi-step form: it
// owns the current section index, the value store, the errors displayed for
// the last validated section, and the submission lifecycle.
package wizard

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"sync"
	"time"

	"github.com/goliatone/go-formwizard/pkg/fields"
	"github.com/goliatone/go-formwizard/pkg/model"
	"github.com/goliatone/go-formwizard/pkg/session"
	"github.com/goliatone/go-formwizard/pkg/validation"
)

// DefaultReturnDelay is how long the success state is shown before the
// controller returns to the start.
const DefaultReturnDelay = 3 * time.Second

// Controller drives one wizard instance. All methods are safe for concurrent
// use; events are applied one at a time.
type Controller struct {
	mu sync.Mutex

	session     session.Session
	fetcher     Fetcher
	engine      *validation.Engine
	fields      *fields.Registry
	sink        Sink
	scheduler   Scheduler
	returnDelay time.Duration
	onReturn    func()
	logger      *slog.Logger
	now         func() time.Time

	phase      Phase
	schema     model.FormSchema
	index      int
	store      *model.ValueStore
	errors     []validation.FieldError
	reason     Reason
	err        error
	returnTask Task
	loading    bool
	closed     bool
}

// Option configures a Controller.
type Option func(*Controller)

// WithFetcher sets the schema source used by Load.
func WithFetcher(f Fetcher) Option {
	return func(c *Controller) {
		c.fetcher = f
	}
}

// WithEngine overrides the validation engine.
func WithEngine(e *validation.Engine) Option {
	return func(c *Controller) {
		if e != nil {
			c.engine = e
		}
	}
}

// WithFields overrides the field renderer registry used by Edit.
func WithFields(r *fields.Registry) Option {
	return func(c *Controller) {
		if r != nil {
			c.fields = r
		}
	}
}

// WithSink sets the submission sink.
func WithSink(s Sink) Option {
	return func(c *Controller) {
		if s != nil {
			c.sink = s
		}
	}
}

// WithScheduler overrides how the post-submit return is scheduled.
func WithScheduler(s Scheduler) Option {
	return func(c *Controller) {
		if s != nil {
			c.scheduler = s
		}
	}
}

// WithReturnDelay overrides DefaultReturnDelay.
func WithReturnDelay(d time.Duration) Option {
	return func(c *Controller) {
		if d >= 0 {
			c.returnDelay = d
		}
	}
}

// OnReturn registers a hook fired after the post-submit return.
func OnReturn(fn func()) Option {
	return func(c *Controller) {
		c.onReturn = fn
	}
}

// WithLogger sets the logger.
func WithLogger(l *slog.Logger) Option {
	return func(c *Controller) {
		if l != nil {
			c.logger = l
		}
	}
}

// WithClock overrides the submission timestamp source.
func WithClock(now func() time.Time) Option {
	return func(c *Controller) {
		if now != nil {
			c.now = now
		}
	}
}

// New creates a controller in PhaseLoading for s. It fails with
// session.ErrIdentityMissing when s has no identity.
func New(s session.Session, opts ...Option) (*Controller, error) {
	if !s.Valid() {
		return nil, session.ErrIdentityMissing
	}
	c := &Controller{
		session:     s,
		engine:      validation.New(),
		fields:      fields.NewRegistry(),
		scheduler:   TimerScheduler{},
		returnDelay: DefaultReturnDelay,
		logger:      slog.Default(),
		now:         time.Now,
		phase:       PhaseLoading,
		store:       model.NewValueStore(),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(c)
		}
	}
	if c.sink == nil {
		c.sink = LogSink{Logger: c.logger}
	}
	c.logger = c.logger.With("component", "wizard", "identity", s.Identity)
	return c, nil
}

// Session returns the identity the controller runs for.
func (c *Controller) Session() session.Session { return c.session }

// Fields returns the renderer registry.
func (c *Controller) Fields() *fields.Registry { return c.fields }

// Load starts the single asynchronous schema fetch. The returned channel is
// closed once the result has been applied (or discarded after Close).
func (c *Controller) Load(ctx context.Context) <-chan struct{} {
	done := make(chan struct{})

	c.mu.Lock()
	if c.closed || c.loading || c.phase != PhaseLoading {
		c.mu.Unlock()
		close(done)
		return done
	}
	if c.fetcher == nil {
		c.applyLoadFailed(errors.New("wizard: no schema fetcher configured"))
		c.mu.Unlock()
		close(done)
		return done
	}
	c.loading = true
	fetcher, identity := c.fetcher, c.session.Identity
	c.mu.Unlock()

	go func() {
		defer close(done)
		form, err := fetcher.FetchSchema(ctx, identity)

		c.mu.Lock()
		defer c.mu.Unlock()
		c.loading = false
		if c.closed {
			c.logger.Debug("discarding schema fetch result after close")
			return
		}
		if err != nil {
			c.applyLoadFailed(err)
			return
		}
		c.applyLoaded(form)
	}()
	return done
}

// Dispatch applies one event. Rejected events leave the state unchanged.
func (c *Controller) Dispatch(ctx context.Context, ev Event) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	_, err := c.dispatch(ctx, ev)
	return err
}

func (c *Controller) dispatch(ctx context.Context, ev Event) (validation.SectionResult, error) {
	if c.closed {
		return validation.SectionResult{}, ErrClosed
	}
	switch e := ev.(type) {
	case SchemaLoaded:
		if c.phase != PhaseLoading {
			return validation.SectionResult{}, c.reject(ev)
		}
		c.applyLoaded(e.Schema)
		return validation.SectionResult{}, nil
	case SchemaLoadFailed:
		if c.phase != PhaseLoading {
			return validation.SectionResult{}, c.reject(ev)
		}
		c.applyLoadFailed(e.Err)
		return validation.SectionResult{}, nil
	case FieldChanged:
		return validation.SectionResult{}, c.changeField(e.FieldID, e.Value)
	case NextRequested:
		return c.next()
	case PreviousRequested:
		return validation.SectionResult{}, c.previous()
	case SubmitRequested:
		return c.submit(ctx)
	default:
		return validation.SectionResult{}, fmt.Errorf("%w: unsupported event %T", ErrInvalidTransition, ev)
	}
}

// ChangeField writes a canonical value for fieldID.
func (c *Controller) ChangeField(fieldID string, v model.Value) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return ErrClosed
	}
	return c.changeField(fieldID, v)
}

// Edit normalises a raw interaction through the field's renderer and writes
// the result only when it changes what the user sees. It reports whether the
// store was written.
func (c *Controller) Edit(fieldID string, in fields.Input) (bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return false, ErrClosed
	}
	if c.phase != PhaseReady {
		return false, c.reject(FieldChanged{FieldID: fieldID})
	}
	field, _, ok := c.schema.FieldByID(fieldID)
	if !ok {
		return false, fmt.Errorf("%w: %q", ErrUnknownField, fieldID)
	}
	current, present := c.store.Get(fieldID)
	next, changed, err := c.fields.Resolve(field, current, present, in)
	if err != nil {
		return false, fmt.Errorf("wizard: edit %q: %w", fieldID, err)
	}
	if !changed {
		return false, nil
	}
	if err := c.changeField(fieldID, next); err != nil {
		return false, err
	}
	return true, nil
}

// Next validates the current section and advances when it is valid.
func (c *Controller) Next() (validation.SectionResult, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.dispatch(context.Background(), NextRequested{})
}

// Previous moves back one section without validating.
func (c *Controller) Previous() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	_, err := c.dispatch(context.Background(), PreviousRequested{})
	return err
}

// Submit validates the last section and hands the store to the sink.
func (c *Controller) Submit(ctx context.Context) (validation.SectionResult, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.dispatch(ctx, SubmitRequested{})
}

// Snapshot returns the current state. The store in the snapshot is a copy.
func (c *Controller) Snapshot() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.checkIndex()
	return State{
		Phase:     c.phase,
		Index:     c.index,
		Count:     len(c.schema.Sections),
		Errors:    slices.Clone(c.errors),
		Submitted: c.phase == PhaseSubmitted,
		Reason:    c.reason,
		Err:       c.err,
		Values:    c.store.Snapshot(),
	}
}

// Schema returns a copy of the loaded schema.
func (c *Controller) Schema() (model.FormSchema, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.phase == PhaseLoading || c.phase == PhaseError {
		return model.FormSchema{}, false
	}
	return c.schema.Clone(), true
}

// Close tears the controller down: the pending return task is cancelled and
// any in-flight fetch result is discarded.
func (c *Controller) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return
	}
	c.closed = true
	if c.returnTask != nil {
		c.returnTask.Cancel()
		c.returnTask = nil
	}
}

// Closed reports whether Close has been called or the post-submit return has
// run.
func (c *Controller) Closed() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.closed
}

func (c *Controller) applyLoaded(form model.FormSchema) {
	form = form.Clone()
	if err := form.Validate(); err != nil {
		c.applyLoadFailed(err)
		return
	}
	c.schema = form
	c.phase = PhaseReady
	c.index = 0
	c.errors = nil
	c.reason = ReasonNone
	c.err = nil
	c.logger.Info("schema loaded", "form", form.Title, "sections", len(form.Sections))
}

func (c *Controller) applyLoadFailed(err error) {
	c.phase = PhaseError
	c.reason = ReasonFetchFailed
	if errors.Is(err, model.ErrNoSections) {
		c.reason = ReasonNoSections
	}
	c.err = fmt.Errorf("%w: %w", ErrSchemaFetch, err)
	c.logger.Warn("schema load failed", "reason", string(c.reason), "error", err)
}

func (c *Controller) changeField(fieldID string, v model.Value) error {
	if c.phase != PhaseReady {
		return c.reject(FieldChanged{FieldID: fieldID})
	}
	field, _, ok := c.schema.FieldByID(fieldID)
	if !ok {
		return fmt.Errorf("%w: %q", ErrUnknownField, fieldID)
	}
	if err := checkShape(field, v); err != nil {
		return err
	}
	c.store.Set(fieldID, v)
	return nil
}

func checkShape(field model.Field, v model.Value) error {
	want := model.KindString
	if field.Type == model.FieldTypeCheckbox {
		want = model.KindBool
		if field.HasOptions() {
			want = model.KindList
		}
	}
	if v.Kind() != want {
		return fmt.Errorf("%w: %q expects %s, got %s", ErrValueKind, field.ID, want, v.Kind())
	}

	switch {
	case field.Type == model.FieldTypeDropdown || field.Type == model.FieldTypeRadio:
		s, _ := v.Str()
		if _, ok := field.OptionByValue(s); s != "" && !ok {
			return fmt.Errorf("%w: %q for field %q", fields.ErrUnknownOption, s, field.ID)
		}
	case want == model.KindList:
		items, _ := v.Items()
		for _, item := range items {
			if _, ok := field.OptionByValue(item); !ok {
				return fmt.Errorf("%w: %q for field %q", fields.ErrUnknownOption, item, field.ID)
			}
		}
	}
	return nil
}

func (c *Controller) next() (validation.SectionResult, error) {
	if c.phase != PhaseReady {
		return validation.SectionResult{}, c.reject(NextRequested{})
	}
	c.checkIndex()
	if c.index >= len(c.schema.Sections)-1 {
		return validation.SectionResult{}, c.reject(NextRequested{})
	}

	result := c.engine.ValidateSection(c.schema.Sections[c.index].Fields, c.store)
	if !result.Valid {
		c.errors = result.Errors
		c.logger.Debug("section invalid", "section", c.index, "errors", len(result.Errors))
		return result, nil
	}
	c.index++
	c.errors = nil
	return result, nil
}

func (c *Controller) previous() error {
	if c.phase != PhaseReady {
		return c.reject(PreviousRequested{})
	}
	c.checkIndex()
	if c.index == 0 {
		return c.reject(PreviousRequested{})
	}
	c.index--
	c.errors = nil
	return nil
}

func (c *Controller) submit(ctx context.Context) (validation.SectionResult, error) {
	if c.phase != PhaseReady {
		return validation.SectionResult{}, c.reject(SubmitRequested{})
	}
	c.checkIndex()
	if c.index != len(c.schema.Sections)-1 {
		return validation.SectionResult{}, c.reject(SubmitRequested{})
	}

	result := c.engine.ValidateSection(c.schema.Sections[c.index].Fields, c.store)
	if !result.Valid {
		c.errors = result.Errors
		return result, nil
	}

	sub := Submission{
		Identity:    c.session.Identity,
		FormID:      c.schema.ID,
		FormTitle:   c.schema.Title,
		SubmittedAt: c.now().UTC(),
		Values:      c.store.Snapshot(),
	}
	if err := c.sink.Submit(ctx, sub); err != nil {
		c.logger.Error("submission sink failed", "error", err)
		return result, fmt.Errorf("wizard: submit: %w", err)
	}

	c.phase = PhaseSubmitted
	c.errors = nil
	c.returnTask = c.scheduler.Schedule(c.returnDelay, c.returnToStart)
	c.logger.Info("form submitted", "fields", sub.Values.Len())
	return result, nil
}

// returnToStart discards the store, closes the controller and fires the
// OnReturn hook.
func (c *Controller) returnToStart() {
	c.mu.Lock()
	if c.closed || c.phase != PhaseSubmitted {
		c.mu.Unlock()
		return
	}
	c.store = model.NewValueStore()
	c.returnTask = nil
	c.closed = true
	hook := c.onReturn
	c.mu.Unlock()

	c.logger.Debug("returned to start")
	if hook != nil {
		hook()
	}
}

// checkIndex resets an out-of-range index to the first section.
func (c *Controller) checkIndex() {
	if c.phase != PhaseReady {
		return
	}
	if c.index < 0 || c.index >= len(c.schema.Sections) {
		c.logger.Warn("section index out of range, resetting", "index", c.index, "sections", len(c.schema.Sections))
		c.index = 0
		c.errors = nil
	}
}

func (c *Controller) reject(ev Event) error {
	return fmt.Errorf("%w: %s in %s", ErrInvalidTransition, ev.eventName(), c.phase)
}
