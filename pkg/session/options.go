package session

import (
	"os"
	"path/filepath"

	"github.com/rs/zerolog"

	"github.com/goliatone/go-careforms/pkg/candidates"
	"github.com/goliatone/go-careforms/pkg/catalog"
	"github.com/goliatone/go-careforms/pkg/documents"
	"github.com/goliatone/go-careforms/pkg/messages"
)

// FileWriter persists a generated document.
type FileWriter func(path string, data []byte) error

// Option configures a Controller.
type Option func(*Controller)

// WithCatalog overrides the section catalog.
func WithCatalog(cat *catalog.Catalog) Option {
	return func(c *Controller) {
		if cat != nil {
			c.catalog = cat
		}
	}
}

// WithDocuments overrides the document kind registry.
func WithDocuments(kinds *documents.Registry) Option {
	return func(c *Controller) {
		if kinds != nil {
			c.kinds = kinds
		}
	}
}

// WithMessages overrides the message catalog.
func WithMessages(msgs *messages.Catalog) Option {
	return func(c *Controller) {
		if msgs != nil {
			c.msgs = msgs
		}
	}
}

// WithLookup enables candidate profile lookup for the Reentry step.
func WithLookup(lookup candidates.Lookup, opts ...candidates.Option) Option {
	return func(c *Controller) {
		if lookup == nil {
			return
		}
		c.lookup = lookup
		c.resolverOpts = append(c.resolverOpts, opts...)
	}
}

// WithOutputDir sets where generated documents are written.
func WithOutputDir(dir string) Option {
	return func(c *Controller) {
		if dir != "" {
			c.outputDir = dir
		}
	}
}

// WithFileWriter replaces the default disk writer.
func WithFileWriter(w FileWriter) Option {
	return func(c *Controller) {
		if w != nil {
			c.writeFile = w
		}
	}
}

// WithLogger sets the controller logger.
func WithLogger(logger zerolog.Logger) Option {
	return func(c *Controller) {
		c.logger = logger
	}
}

// WithOnChange registers a callback fired after asynchronous state changes
// (lookup results). It runs without the controller lock held.
func WithOnChange(fn func()) Option {
	return func(c *Controller) {
		c.onChange = fn
	}
}

func writeToDisk(path string, data []byte) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}
