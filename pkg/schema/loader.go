package schema

import (
	"context"
	"fmt"
	"io/fs"
	"net/http"
	"time"

	"github.com/goliatone/go-formwizard/pkg/model"
)

// Loader resolves a Source into a raw Document.
type Loader interface {
	Load(ctx context.Context, src Source) (Document, error)
}

// LoaderOptions configures how a Loader resolves sources.
type LoaderOptions struct {
	// FileSystem backs SourceKindFS lookups.
	FileSystem fs.FS

	// HTTPClient enables URL sources. Nil disables them unless
	// AllowHTTPFallback is set.
	HTTPClient *http.Client

	// AllowHTTPFallback builds a default client when HTTPClient is nil.
	AllowHTTPFallback bool

	// RequestTimeout bounds each HTTP fetch when positive.
	RequestTimeout time.Duration
}

// LoaderOption mutates LoaderOptions prior to construction.
type LoaderOption func(*LoaderOptions)

// WithFileSystem injects an fs.FS for "fs:" sources.
func WithFileSystem(files fs.FS) LoaderOption {
	return func(opts *LoaderOptions) {
		opts.FileSystem = files
	}
}

// WithHTTPClient injects a custom HTTP client for remote documents.
func WithHTTPClient(client *http.Client) LoaderOption {
	return func(opts *LoaderOptions) {
		opts.HTTPClient = client
	}
}

// WithHTTPFallback enables HTTP loading with a default client and timeout.
func WithHTTPFallback(timeout time.Duration) LoaderOption {
	return func(opts *LoaderOptions) {
		opts.AllowHTTPFallback = true
		opts.RequestTimeout = timeout
	}
}

// NewLoaderOptions applies a set of LoaderOption values and returns the
// resulting configuration.
func NewLoaderOptions(options ...LoaderOption) LoaderOptions {
	cfg := LoaderOptions{}
	for _, opt := range options {
		if opt != nil {
			opt(&cfg)
		}
	}
	return cfg
}

// LoadForm fetches, decodes, decorates and validates a schema in one step.
func LoadForm(ctx context.Context, loader Loader, src Source, decorators ...model.Decorator) (model.FormSchema, error) {
	doc, err := loader.Load(ctx, src)
	if err != nil {
		return model.FormSchema{}, fmt.Errorf("schema: load %s: %w", locationOf(src), err)
	}
	form, err := doc.Decode()
	if err != nil {
		return model.FormSchema{}, fmt.Errorf("schema: %s: %w", doc.Location(), err)
	}
	if err := model.ApplyDecorators(&form, decorators...); err != nil {
		return model.FormSchema{}, fmt.Errorf("schema: decorate %s: %w", doc.Location(), err)
	}
	if err := form.Validate(); err != nil {
		return model.FormSchema{}, err
	}
	return form, nil
}

func locationOf(src Source) string {
	if src == nil {
		return "<nil>"
	}
	return src.Location()
}
