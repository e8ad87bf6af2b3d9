package tui

import (
	"io"
	"strings"

	theme "github.com/goliatone/go-theme"
	"github.com/rs/zerolog"

	"github.com/goliatone/go-careforms/pkg/messages"
)

// Theme token names read from a go-theme manifest.
const (
	TokenPromptPrefix  = "tui.prompt-prefix"
	TokenInfoPrefix    = "tui.info-prefix"
	TokenErrorPrefix   = "tui.error-prefix"
	TokenSuccessPrefix = "tui.success-prefix"
)

// Theme captures the message prefixes the runner prints. Keep minimal to
// avoid coupling session logic to ANSI specifics.
type Theme struct {
	PromptPrefix  string
	InfoPrefix    string
	ErrorPrefix   string
	SuccessPrefix string
}

// DefaultTheme is used when no theme is configured.
func DefaultTheme() Theme {
	return Theme{
		InfoPrefix:    "i ",
		ErrorPrefix:   "x ",
		SuccessPrefix: "✓ ",
	}
}

// ThemeFromManifest derives prefixes from manifest tokens. Variant tokens
// override the base ones; missing tokens keep the defaults.
func ThemeFromManifest(manifest *theme.Manifest, variant string) Theme {
	out := DefaultTheme()
	if manifest == nil {
		return out
	}
	tokens := make(map[string]string, len(manifest.Tokens))
	for key, value := range manifest.Tokens {
		tokens[key] = value
	}
	if v, ok := manifest.Variants[strings.TrimSpace(variant)]; ok {
		for key, value := range v.Tokens {
			tokens[key] = value
		}
	}

	apply := func(target *string, token string) {
		if value, ok := tokens[token]; ok {
			*target = value
		}
	}
	apply(&out.PromptPrefix, TokenPromptPrefix)
	apply(&out.InfoPrefix, TokenInfoPrefix)
	apply(&out.ErrorPrefix, TokenErrorPrefix)
	apply(&out.SuccessPrefix, TokenSuccessPrefix)
	return out
}

// Option configures the Runner.
type Option func(*Runner)

// WithPromptDriver overrides the prompt driver used by the runner.
func WithPromptDriver(driver PromptDriver) Option {
	return func(r *Runner) {
		if driver != nil {
			r.driver = driver
		}
	}
}

// WithOutput sets where the default driver prints informational lines.
func WithOutput(out io.Writer) Option {
	return func(r *Runner) {
		r.out = out
	}
}

// WithTheme applies message prefixes.
func WithTheme(t Theme) Option {
	return func(r *Runner) {
		r.theme = t
	}
}

// WithThemeManifest applies prefixes from a go-theme manifest and variant.
func WithThemeManifest(manifest *theme.Manifest, variant string) Option {
	return func(r *Runner) {
		r.theme = ThemeFromManifest(manifest, variant)
	}
}

// WithThemeSelection applies prefixes from a resolved go-theme selection.
func WithThemeSelection(selection *theme.Selection) Option {
	return func(r *Runner) {
		if selection == nil {
			return
		}
		r.theme = ThemeFromManifest(selection.Manifest, selection.Variant)
	}
}

// WithLogger sets the runner logger.
func WithLogger(logger zerolog.Logger) Option {
	return func(r *Runner) {
		r.logger = logger
	}
}

// WithMessages overrides the catalog used for runner texts.
func WithMessages(msgs *messages.Catalog) Option {
	return func(r *Runner) {
		if msgs != nil {
			r.msgs = msgs
		}
	}
}
