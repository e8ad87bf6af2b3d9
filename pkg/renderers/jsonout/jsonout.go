// Package jsonout renders a field template as indented JSON.
package jsonout

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/goliatone/go-careforms/pkg/model"
	"github.com/goliatone/go-careforms/pkg/render"
)

// Renderer emits render.View as JSON.
type Renderer struct {
	indent string
}

var _ render.Renderer = (*Renderer)(nil)

// New constructs a JSON renderer. An empty indent produces compact output.
func New(indent string) *Renderer {
	return &Renderer{indent: indent}
}

func (r *Renderer) Name() string        { return "json" }
func (r *Renderer) ContentType() string { return "application/json" }

func (r *Renderer) Render(ctx context.Context, tpl model.Template, options render.RenderOptions) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	view := render.BuildView(tpl, options)

	var (
		out []byte
		err error
	)
	if r.indent == "" {
		out, err = json.Marshal(view)
	} else {
		out, err = json.MarshalIndent(view, "", r.indent)
	}
	if err != nil {
		return nil, fmt.Errorf("jsonout: encode: %w", err)
	}
	return append(out, '\n'), nil
}
