// Package contract embeds the OpenAPI description of the document service
// and validates request and response payloads against it.
package contract

import (
	"context"
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"mime"
	"strings"
	"sync"

	"github.com/getkin/kin-openapi/openapi3"
)

//go:embed openapi.yaml
var embedded []byte

const jsonMediaType = "application/json"

var (
	// ErrUnknownOperation is returned when method/path is not described by
	// the contract.
	ErrUnknownOperation = errors.New("contract: unknown operation")
	// ErrUndeclaredStatus is returned when a response status has no entry.
	ErrUndeclaredStatus = errors.New("contract: undeclared response status")
)

// Contract wraps a validated OpenAPI document.
type Contract struct {
	doc *openapi3.T
}

var (
	defaultOnce     sync.Once
	defaultContract *Contract
	defaultErr      error
)

// Default returns the embedded contract, parsed once.
func Default() (*Contract, error) {
	defaultOnce.Do(func() {
		defaultContract, defaultErr = Load(context.Background(), embedded)
	})
	return defaultContract, defaultErr
}

// Raw returns the embedded document bytes.
func Raw() []byte {
	out := make([]byte, len(embedded))
	copy(out, embedded)
	return out
}

// Load parses and validates an OpenAPI document.
func Load(ctx context.Context, raw []byte) (*Contract, error) {
	if len(raw) == 0 {
		return nil, errors.New("contract: document payload is empty")
	}
	loader := &openapi3.Loader{Context: ctx}
	doc, err := loader.LoadFromData(raw)
	if err != nil {
		return nil, fmt.Errorf("contract: load document: %w", err)
	}
	if err := doc.Validate(ctx, openapi3.DisableExamplesValidation()); err != nil {
		return nil, fmt.Errorf("contract: validate: %w", err)
	}
	if doc.Paths == nil || doc.Paths.Len() == 0 {
		return nil, errors.New("contract: document does not contain any paths")
	}
	return &Contract{doc: doc}, nil
}

// Paths lists the described paths.
func (c *Contract) Paths() []string {
	if c == nil || c.doc == nil || c.doc.Paths == nil {
		return nil
	}
	return c.doc.Paths.InMatchingOrder()
}

// ValidateRequest checks a JSON request body for method/path.
func (c *Contract) ValidateRequest(method, path string, body []byte) error {
	op, err := c.operation(method, path)
	if err != nil {
		return err
	}
	if op.RequestBody == nil || op.RequestBody.Value == nil {
		if len(body) > 0 {
			return fmt.Errorf("contract: %s %s does not accept a body", method, path)
		}
		return nil
	}
	media := op.RequestBody.Value.Content.Get(jsonMediaType)
	if media == nil || media.Schema == nil || media.Schema.Value == nil {
		return fmt.Errorf("contract: %s %s has no JSON request schema", method, path)
	}
	if err := visit(media.Schema.Value, body); err != nil {
		return fmt.Errorf("contract: request %s %s: %w", method, path, err)
	}
	return nil
}

// ValidateResponse checks a response against the declared status entry.
// JSON payloads are validated against their schema; other media types only
// need to be declared, directly or through a wildcard entry.
func (c *Contract) ValidateResponse(method, path string, status int, contentType string, body []byte) error {
	op, err := c.operation(method, path)
	if err != nil {
		return err
	}
	ref := op.Responses.Status(status)
	if ref == nil {
		ref = op.Responses.Default()
	}
	if ref == nil || ref.Value == nil {
		return fmt.Errorf("%w: %s %s %d", ErrUndeclaredStatus, method, path, status)
	}

	// An empty media type only matches a */* entry.
	mediaType := contentType
	if parsed, _, err := mime.ParseMediaType(contentType); err == nil {
		mediaType = parsed
	}
	media := ref.Value.Content.Get(mediaType)
	if media == nil {
		return fmt.Errorf("contract: response %s %s %d: media type %q not declared", method, path, status, mediaType)
	}
	if !IsJSON(mediaType) || media.Schema == nil || media.Schema.Value == nil {
		return nil
	}
	if err := visit(media.Schema.Value, body); err != nil {
		return fmt.Errorf("contract: response %s %s %d: %w", method, path, status, err)
	}
	return nil
}

// IsJSON reports whether a Content-Type value names JSON.
func IsJSON(contentType string) bool {
	mediaType, _, err := mime.ParseMediaType(contentType)
	if err != nil {
		mediaType = contentType
	}
	return strings.EqualFold(mediaType, jsonMediaType)
}

func (c *Contract) operation(method, path string) (*openapi3.Operation, error) {
	if c == nil || c.doc == nil || c.doc.Paths == nil {
		return nil, errors.New("contract: document is not loaded")
	}
	item := c.doc.Paths.Find(path)
	if item == nil {
		return nil, fmt.Errorf("%w: %s %s", ErrUnknownOperation, method, path)
	}
	op := item.GetOperation(strings.ToUpper(method))
	if op == nil {
		return nil, fmt.Errorf("%w: %s %s", ErrUnknownOperation, method, path)
	}
	return op, nil
}

func visit(schema *openapi3.Schema, body []byte) error {
	var value any
	if err := json.Unmarshal(body, &value); err != nil {
		return fmt.Errorf("decode body: %w", err)
	}
	return schema.VisitJSON(value)
}
