// Package render defines how a derived field template is turned into an
// output document and keeps a registry of the available renderers.
package render

import (
	"context"

	"github.com/goliatone/go-careforms/pkg/model"
)

// Renderer converts a Template into a byte representation (JSON, YAML, text).
type Renderer interface {
	Name() string
	ContentType() string
	Render(ctx context.Context, tpl model.Template, options RenderOptions) ([]byte, error)
}
