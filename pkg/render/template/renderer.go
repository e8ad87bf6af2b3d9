package template

import (
	"io"
)

// TemplateRenderer is the seam renderers and message catalogs render through.
type TemplateRenderer interface {
	RenderTemplate(name string, data any, out ...io.Writer) (string, error)
	RenderString(templateContent string, data any, out ...io.Writer) (string, error)
}
