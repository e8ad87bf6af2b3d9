// Package text renders a field template as a plain-text checklist using an
// embedded pongo2 template.
package text

import (
	"context"
	"fmt"
	"io/fs"

	"github.com/goliatone/go-careforms/pkg/model"
	"github.com/goliatone/go-careforms/pkg/render"
	"github.com/goliatone/go-careforms/pkg/render/template"
)

const templateName = "template"

// Option configures the text renderer.
type Option func(*Renderer)

// WithTemplatesFS overrides the embedded templates. The FS must contain
// template.tpl at its root.
func WithTemplatesFS(files fs.FS) Option {
	return func(r *Renderer) {
		if files != nil {
			r.files = files
		}
	}
}

// Renderer emits a checklist.
type Renderer struct {
	files  fs.FS
	engine template.TemplateRenderer
}

var _ render.Renderer = (*Renderer)(nil)

// New constructs a text renderer.
func New(opts ...Option) (*Renderer, error) {
	r := &Renderer{files: TemplatesFS()}
	for _, opt := range opts {
		if opt != nil {
			opt(r)
		}
	}
	engine, err := template.New(template.WithName("text"), template.WithFS(r.files), template.WithPlainText())
	if err != nil {
		return nil, fmt.Errorf("text: engine: %w", err)
	}
	r.engine = engine
	return r, nil
}

func (r *Renderer) Name() string        { return "text" }
func (r *Renderer) ContentType() string { return "text/plain; charset=utf-8" }

func (r *Renderer) Render(ctx context.Context, tpl model.Template, options render.RenderOptions) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	out, err := r.engine.RenderTemplate(templateName, map[string]any{
		"view": render.BuildView(tpl, options),
	})
	if err != nil {
		return nil, fmt.Errorf("text: %w", err)
	}
	return []byte(out), nil
}
