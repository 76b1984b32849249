package fields

import (
	"fmt"
	"slices"
	"strings"
	"sync"

	"github.com/goliatone/go-formwizard/pkg/model"
	"github.com/goliatone/go-formwizard/pkg/validation"
)

// Registry maps type tags to renderers and resolves user-facing copy for the
// controls they produce.
type Registry struct {
	mu         sync.RWMutex
	renderers  map[model.FieldType]Renderer
	translator validation.Translator
	prefix     string
}

// Option configures a Registry.
type Option func(*Registry)

// WithTranslator resolves hints, counters and placeholders through t.
func WithTranslator(t validation.Translator) Option {
	return func(r *Registry) {
		r.translator = t
	}
}

// WithPhonePrefix overrides the telephone display prefix.
func WithPhonePrefix(prefix string) Option {
	return func(r *Registry) {
		r.prefix = prefix
	}
}

// NewRegistry returns a registry populated with the built-in renderers.
func NewRegistry(opts ...Option) *Registry {
	r := &Registry{
		renderers: make(map[model.FieldType]Renderer),
		prefix:    DefaultPhonePrefix,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(r)
		}
	}
	r.MustRegister(textRenderer{fieldType: model.FieldTypeText})
	r.MustRegister(textRenderer{fieldType: model.FieldTypeEmail})
	r.MustRegister(textareaRenderer{})
	r.MustRegister(dateRenderer{})
	r.MustRegister(telephoneRenderer{prefix: r.prefix})
	r.MustRegister(choiceRenderer{fieldType: model.FieldTypeDropdown})
	r.MustRegister(choiceRenderer{fieldType: model.FieldTypeRadio})
	r.MustRegister(checkboxRenderer{})
	return r
}

// Register associates a renderer with its type tag, replacing any existing
// entry.
func (r *Registry) Register(renderer Renderer) error {
	if renderer == nil {
		return fmt.Errorf("fields: renderer is nil")
	}
	ft := model.FieldType(strings.TrimSpace(string(renderer.Type())))
	if ft == "" {
		return fmt.Errorf("fields: renderer type is required")
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	r.renderers[ft] = renderer
	return nil
}

// MustRegister mirrors Register but panics on error.
func (r *Registry) MustRegister(renderer Renderer) {
	if err := r.Register(renderer); err != nil {
		panic(err)
	}
}

// Renderer fetches the renderer for a type tag.
func (r *Registry) Renderer(ft model.FieldType) (Renderer, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	renderer, ok := r.renderers[ft]
	return renderer, ok
}

// Types returns the registered type tags sorted by name.
func (r *Registry) Types() []model.FieldType {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]model.FieldType, 0, len(r.renderers))
	for ft := range r.renderers {
		out = append(out, ft)
	}
	slices.Sort(out)
	return out
}

// PhonePrefix reports the configured telephone prefix.
func (r *Registry) PhonePrefix() string { return r.prefix }

func (r *Registry) lookup(field model.Field) (Renderer, error) {
	renderer, ok := r.Renderer(field.Type)
	if !ok {
		return nil, fmt.Errorf("%w: %q (field %q)", ErrUnsupportedType, field.Type, field.ID)
	}
	return renderer, nil
}

// Control renders the field's widget description with localized copy.
func (r *Registry) Control(field model.Field, value model.Value, present bool) (Control, error) {
	renderer, err := r.lookup(field)
	if err != nil {
		return Control{}, err
	}
	c := renderer.Control(field, value, present)
	if c.hintID != "" {
		c.Hint = r.text(c.hintID, nil)
	}
	if c.Counter != nil {
		c.Counter.Text = r.text("field.counter", map[string]any{"Length": c.Counter.Length, "Max": c.Counter.Max})
	}
	if c.Kind == KindSelect {
		c.OptionPlaceholder = r.text("field.select_placeholder", nil)
	}
	return c, nil
}

// Zero returns the render-only default for the field.
func (r *Registry) Zero(field model.Field) (model.Value, error) {
	renderer, err := r.lookup(field)
	if err != nil {
		return model.Value{}, err
	}
	return renderer.Zero(field), nil
}

// Normalize converts a raw interaction into the field's canonical Value.
func (r *Registry) Normalize(field model.Field, current model.Value, in Input) (model.Value, error) {
	renderer, err := r.lookup(field)
	if err != nil {
		return model.Value{}, err
	}
	return renderer.Normalize(field, current, in)
}

// Resolve normalises in and reports whether the result differs from what the
// user currently sees. Hosts that submit whole sections use it to write only
// the fields that were genuinely edited.
func (r *Registry) Resolve(field model.Field, current model.Value, present bool, in Input) (model.Value, bool, error) {
	renderer, err := r.lookup(field)
	if err != nil {
		return model.Value{}, false, err
	}
	next, err := renderer.Normalize(field, current, in)
	if err != nil {
		return model.Value{}, false, err
	}
	shown := display(renderer, field, current, present)
	return next, !next.Equal(shown), nil
}

func (r *Registry) text(id string, data map[string]any) string {
	if r.translator != nil {
		if out, err := r.translator.Translate(id, -1, data); err == nil && out != "" {
			return out
		}
	}
	switch id {
	case "field.date_hint":
		return "(dd-mm-yyyy)"
	case "field.select_placeholder":
		return "-- Select an option --"
	case "field.counter":
		return fmt.Sprintf("%v/%v characters", data["Length"], data["Max"])
	}
	return id
}
