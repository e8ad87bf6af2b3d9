// Package messages renders the alert, hint and status texts shown to the
// case worker. Texts live in an embedded YAML catalog and are rendered with
// pongo2 so parameters stay in the wording rather than in code.
package messages

import (
	"embed"
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"

	"gopkg.in/yaml.v3"

	"github.com/goliatone/go-careforms/pkg/render/template"
)

//go:embed data/en.yaml
var embedded embed.FS

// Key identifies a message.
type Key string

const (
	NoFields              Key = "no_fields"
	NoCandidate           Key = "no_candidate"
	ChooseProfile         Key = "choose_profile"
	ChooseAssessmentFirst Key = "choose_assessment_first"
	UnknownAssessment     Key = "unknown_assessment"
	WarmHandoff           Key = "warm_handoff"
	GenericFailure        Key = "generic_failure"
	GenerationInFlight    Key = "generation_in_flight"
	LookupFailed          Key = "lookup_failed"
	Success               Key = "success"
	SavedTo               Key = "saved_to"
	HintChooseCandidate   Key = "hint_choose_candidate"
	HintChooseAssessment  Key = "hint_choose_assessment"
	HintChooseHRA         Key = "hint_choose_hra_candidate"
	ProfileSingle         Key = "profile_single"
	ProfileNone           Key = "profile_none"
	ProfileMultiple       Key = "profile_multiple"
	ProfileLoading        Key = "profile_loading"
	NoMatches             Key = "no_matches"
	ProgressHRA           Key = "progress_hra"
	ProgressDefault       Key = "progress_default"
)

// Args carries template parameters.
type Args map[string]any

// Catalog holds parsed message templates.
type Catalog struct {
	texts  map[Key]string
	engine template.TemplateRenderer
}

var (
	defaultOnce    sync.Once
	defaultCatalog *Catalog
	defaultErr     error
)

// Default returns the embedded English catalog.
func Default() (*Catalog, error) {
	defaultOnce.Do(func() {
		raw, err := embedded.ReadFile("data/en.yaml")
		if err != nil {
			defaultErr = fmt.Errorf("messages: read embedded catalog: %w", err)
			return
		}
		defaultCatalog, defaultErr = Parse(raw)
	})
	return defaultCatalog, defaultErr
}

// MustDefault panics when the embedded catalog cannot be parsed.
func MustDefault() *Catalog {
	c, err := Default()
	if err != nil {
		panic(err)
	}
	return c
}

// Parse builds a catalog from a flat YAML mapping of key to template.
func Parse(raw []byte) (*Catalog, error) {
	var texts map[Key]string
	if err := yaml.Unmarshal(raw, &texts); err != nil {
		return nil, fmt.Errorf("messages: invalid YAML: %w", err)
	}
	if len(texts) == 0 {
		return nil, errors.New("messages: catalog is empty")
	}
	engine, err := template.New(template.WithName("messages"), template.WithPlainText())
	if err != nil {
		return nil, fmt.Errorf("messages: template engine: %w", err)
	}
	c := &Catalog{texts: texts, engine: engine}
	for key, text := range texts {
		if _, err := engine.RenderString(text, nil); err != nil {
			return nil, fmt.Errorf("messages: %s: %w", key, err)
		}
	}
	return c, nil
}

// Keys lists the catalog keys in sorted order.
func (c *Catalog) Keys() []Key {
	keys := make([]Key, 0, len(c.texts))
	for key := range c.texts {
		keys = append(keys, key)
	}
	sort.Slice(keys, func(i, j int) bool { return keys[i] < keys[j] })
	return keys
}

// Render returns the message for key. Unknown keys render as the key itself
// so a missing entry is visible rather than silent.
func (c *Catalog) Render(key Key, args Args) string {
	if c == nil {
		return string(key)
	}
	text, ok := c.texts[key]
	if !ok {
		return string(key)
	}
	var data map[string]any
	if len(args) > 0 {
		data = map[string]any(args)
	}
	out, err := c.engine.RenderString(text, data)
	if err != nil {
		return text
	}
	return strings.TrimSpace(out)
}

// Text renders a message without parameters.
func (c *Catalog) Text(key Key) string {
	return c.Render(key, nil)
}
