// Package yamlout renders a field template as YAML.
package yamlout

import (
	"bytes"
	"context"
	"fmt"

	"gopkg.in/yaml.v3"

	"github.com/goliatone/go-careforms/pkg/model"
	"github.com/goliatone/go-careforms/pkg/render"
)

// Renderer emits render.View as YAML.
type Renderer struct{}

var _ render.Renderer = (*Renderer)(nil)

// New constructs a YAML renderer.
func New() *Renderer {
	return &Renderer{}
}

func (r *Renderer) Name() string        { return "yaml" }
func (r *Renderer) ContentType() string { return "application/yaml" }

func (r *Renderer) Render(ctx context.Context, tpl model.Template, options render.RenderOptions) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(render.BuildView(tpl, options)); err != nil {
		return nil, fmt.Errorf("yamlout: encode: %w", err)
	}
	if err := enc.Close(); err != nil {
		return nil, fmt.Errorf("yamlout: close encoder: %w", err)
	}
	return buf.Bytes(), nil
}
