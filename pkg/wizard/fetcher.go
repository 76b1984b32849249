package wizard

import (
	"context"

	"github.com/goliatone/go-formwizard/pkg/model"
)

// Fetcher retrieves the schema for an identity.
type Fetcher interface {
	FetchSchema(ctx context.Context, identity string) (model.FormSchema, error)
}

// FetcherFunc adapts a function into a Fetcher.
type FetcherFunc func(ctx context.Context, identity string) (model.FormSchema, error)

// FetchSchema calls the underlying function.
func (fn FetcherFunc) FetchSchema(ctx context.Context, identity string) (model.FormSchema, error) {
	return fn(ctx, identity)
}

// StaticFetcher always returns the same schema regardless of identity.
func StaticFetcher(form model.FormSchema) Fetcher {
	return FetcherFunc(func(context.Context, string) (model.FormSchema, error) {
		return form.Clone(), nil
	})
}
