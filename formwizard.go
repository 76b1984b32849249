// Package formwizard wires schema loading into the wizard: it builds loaders
// for local and remote schema documents and adapts them into wizard fetchers.
package formwizard

import (
	"context"
	"errors"
	"fmt"
	"io/fs"

	internalLoader "github.com/goliatone/go-formwizard/internal/schema/loader"
	"github.com/goliatone/go-formwizard/pkg/model"
	"github.com/goliatone/go-formwizard/pkg/renderers/vanilla"
	"github.com/goliatone/go-formwizard/pkg/schema"
	"github.com/goliatone/go-formwizard/pkg/wizard"
)

// NewLoader constructs a loader using the internal implementation while keeping
// the concrete type hidden from consumers.
func NewLoader(options ...schema.LoaderOption) schema.Loader {
	cfg := schema.NewLoaderOptions(options...)
	return internalLoader.New(cfg)
}

// EmbeddedTemplates exposes the built-in HTML templates so callers can reuse
// or extend them without importing the renderer package directly.
func EmbeddedTemplates() fs.FS {
	return vanilla.TemplatesFS()
}

// AssetsFS exposes the default stylesheet for mounting under /assets/.
func AssetsFS() fs.FS {
	return vanilla.AssetsFS()
}

// SourceFetcher serves the same schema document to every identity. It backs
// hosts that run without the remote form service.
type SourceFetcher struct {
	loader      schema.Loader
	source      schema.Source
	operationID string
	openAPI     bool
	decorators  []model.Decorator
}

var _ wizard.Fetcher = (*SourceFetcher)(nil)

// FetcherOption configures a SourceFetcher.
type FetcherOption func(*SourceFetcher)

// WithOpenAPIOperation reads the source as an OpenAPI document and builds the
// form from the request body of operationID. An empty id selects the only
// operation with a body.
func WithOpenAPIOperation(operationID string) FetcherOption {
	return func(f *SourceFetcher) {
		f.openAPI = true
		f.operationID = operationID
	}
}

// WithDecorators adds schema decorators applied after decoding.
func WithDecorators(decorators ...model.Decorator) FetcherOption {
	return func(f *SourceFetcher) {
		f.decorators = append(f.decorators, decorators...)
	}
}

// NewSourceFetcher reads src through loader on every fetch.
func NewSourceFetcher(loader schema.Loader, src schema.Source, opts ...FetcherOption) (*SourceFetcher, error) {
	if loader == nil || src == nil {
		return nil, errors.New("formwizard: loader and source are required")
	}
	f := &SourceFetcher{loader: loader, source: src}
	for _, opt := range opts {
		if opt != nil {
			opt(f)
		}
	}
	return f, nil
}

// FetchSchema implements wizard.Fetcher. The identity is ignored.
func (f *SourceFetcher) FetchSchema(ctx context.Context, _ string) (model.FormSchema, error) {
	if !f.openAPI {
		return schema.LoadForm(ctx, f.loader, f.source, f.decorators...)
	}

	doc, err := f.loader.Load(ctx, f.source)
	if err != nil {
		return model.FormSchema{}, fmt.Errorf("formwizard: load %s: %w", f.source.Location(), err)
	}
	form, err := schema.FromOpenAPI(ctx, doc, f.operationID)
	if err != nil {
		return model.FormSchema{}, err
	}
	if err := model.ApplyDecorators(&form, f.decorators...); err != nil {
		return model.FormSchema{}, fmt.Errorf("formwizard: decorate: %w", err)
	}
	if err := form.Validate(); err != nil {
		return model.FormSchema{}, err
	}
	return form, nil
}
