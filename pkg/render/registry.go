package render

import (
	"errors"
	"fmt"
	"mime"
	"slices"
	"strings"
	"sync"
)

var (
	ErrRendererRequired = errors.New("render: renderer is required")
	ErrRendererExists   = errors.New("render: renderer already registered")
	ErrRendererNotFound = errors.New("render: renderer not found")
)

// Registry stores renderers by name. The first registered renderer is the
// default used when a request names none.
type Registry struct {
	mu          sync.RWMutex
	renderers   map[string]Renderer
	order       []string
	defaultName string
}

func NewRegistry() *Registry {
	return &Registry{renderers: make(map[string]Renderer)}
}

// Register adds a renderer under its Name().
func (r *Registry) Register(renderer Renderer) error {
	if renderer == nil || renderer.Name() == "" {
		return ErrRendererRequired
	}
	name := renderer.Name()

	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.renderers[name]; exists {
		return fmt.Errorf("%w: %q", ErrRendererExists, name)
	}
	r.renderers[name] = renderer
	r.order = append(r.order, name)
	if r.defaultName == "" {
		r.defaultName = name
	}
	return nil
}

// MustRegister panics on registration failure; meant for init-time wiring.
func (r *Registry) MustRegister(renderer Renderer) {
	if err := r.Register(renderer); err != nil {
		panic(err)
	}
}

// SetDefault selects the renderer returned for an empty name.
func (r *Registry) SetDefault(name string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.renderers[name]; !ok {
		return fmt.Errorf("%w: %q", ErrRendererNotFound, name)
	}
	r.defaultName = name
	return nil
}

// Get retrieves a renderer by name; an empty name selects the default.
func (r *Registry) Get(name string) (Renderer, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if name == "" {
		name = r.defaultName
	}
	renderer, ok := r.renderers[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrRendererNotFound, name)
	}
	return renderer, nil
}

// Negotiate picks the renderer for an Accept header. Media ranges are tried
// in header order (q-values are not weighed); the first renderer whose
// content type matches wins, in registration order. Wildcards and an empty
// header select the default renderer.
func (r *Registry) Negotiate(accept string) (Renderer, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, part := range strings.Split(accept, ",") {
		want, _, err := mime.ParseMediaType(strings.TrimSpace(part))
		if err != nil || want == "*/*" {
			continue
		}
		for _, name := range r.order {
			renderer := r.renderers[name]
			have, _, err := mime.ParseMediaType(renderer.ContentType())
			if err != nil {
				continue
			}
			if have == want || (strings.HasSuffix(want, "/*") && strings.HasPrefix(have, strings.TrimSuffix(want, "*"))) {
				return renderer, nil
			}
		}
	}
	renderer, ok := r.renderers[r.defaultName]
	if !ok {
		return nil, fmt.Errorf("%w: no default", ErrRendererNotFound)
	}
	return renderer, nil
}

// List returns the registered names sorted alphabetically.
func (r *Registry) List() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return slices.Sorted(slices.Values(r.order))
}

func (r *Registry) Has(name string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.renderers[name]
	return ok
}
