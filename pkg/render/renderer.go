package render

import (
	"context"

	"github.com/goliatone/go-formwizard/pkg/view"
)

// Renderer converts a view.Page into bytes (HTML, terminal text, JSON).
type Renderer interface {
	Name() string
	ContentType() string
	Render(ctx context.Context, page view.Page, options RenderOptions) ([]byte, error)
}
