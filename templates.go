package careforms

import (
	"io/fs"

	"github.com/goliatone/go-careforms/pkg/catalog"
	"github.com/goliatone/go-careforms/pkg/contract"
	"github.com/goliatone/go-careforms/pkg/renderers/text"
)

// EmbeddedTemplates exposes the built-in text renderer templates so callers
// can reuse or extend them without importing the renderer package directly.
func EmbeddedTemplates() fs.FS {
	return text.TemplatesFS()
}

// EmbeddedCatalog exposes the bundled section tables and candidate pools.
func EmbeddedCatalog() fs.FS {
	return catalog.EmbeddedFS()
}

// ServiceContract returns the OpenAPI document describing the document
// service.
func ServiceContract() []byte {
	return contract.Raw()
}
