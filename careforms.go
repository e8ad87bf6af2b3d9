package careforms

import (
	"fmt"
	"net/http"
	"time"

	theme "github.com/goliatone/go-theme"
	"github.com/rs/zerolog"

	"github.com/goliatone/go-careforms/pkg/candidates"
	"github.com/goliatone/go-careforms/pkg/catalog"
	"github.com/goliatone/go-careforms/pkg/client"
	"github.com/goliatone/go-careforms/pkg/contract"
	"github.com/goliatone/go-careforms/pkg/render"
	"github.com/goliatone/go-careforms/pkg/renderers/jsonout"
	"github.com/goliatone/go-careforms/pkg/renderers/text"
	"github.com/goliatone/go-careforms/pkg/renderers/tui"
	"github.com/goliatone/go-careforms/pkg/renderers/yamlout"
	"github.com/goliatone/go-careforms/pkg/session"
)

// Controller aliases session.Controller for callers that only import the
// root package.
type Controller = session.Controller

// Outcome aliases session.Outcome.
type Outcome = session.Outcome

// Session pairs a controller with the service client behind it.
type Session struct {
	Controller *session.Controller
	Client     *client.Client
}

// Close releases the controller's lookup resources.
func (s *Session) Close() error {
	if s == nil || s.Controller == nil {
		return nil
	}
	return s.Controller.Close()
}

// Option configures NewSession.
type Option func(*settings)

type settings struct {
	httpClient *http.Client
	logger     zerolog.Logger
	outputDir  string
	debounce   *time.Duration
	cacheTTL   *time.Duration
	timeout    time.Duration
	catalog    *catalog.Catalog
	writer     session.FileWriter
	onChange   func()
	contract   bool
}

// WithHTTPClient overrides the HTTP client used for service calls.
func WithHTTPClient(httpClient *http.Client) Option {
	return func(s *settings) {
		s.httpClient = httpClient
	}
}

// WithLogger sets the logger shared by the client and controller.
func WithLogger(logger zerolog.Logger) Option {
	return func(s *settings) {
		s.logger = logger
	}
}

// WithOutputDir sets where generated documents are written.
func WithOutputDir(dir string) Option {
	return func(s *settings) {
		s.outputDir = dir
	}
}

// WithLookupDebounce sets the profile lookup quiet period.
func WithLookupDebounce(d time.Duration) Option {
	return func(s *settings) {
		s.debounce = &d
	}
}

// WithLookupCacheTTL sets how long lookup results are reused. Zero disables
// the cache.
func WithLookupCacheTTL(ttl time.Duration) Option {
	return func(s *settings) {
		s.cacheTTL = &ttl
	}
}

// WithRequestTimeout bounds each service request.
func WithRequestTimeout(timeout time.Duration) Option {
	return func(s *settings) {
		s.timeout = timeout
	}
}

// WithCatalog overrides the bundled section catalog.
func WithCatalog(cat *catalog.Catalog) Option {
	return func(s *settings) {
		s.catalog = cat
	}
}

// WithFileWriter overrides how generated documents are persisted.
func WithFileWriter(writer session.FileWriter) Option {
	return func(s *settings) {
		s.writer = writer
	}
}

// WithOnChange registers a callback fired when lookups update the session in
// the background.
func WithOnChange(fn func()) Option {
	return func(s *settings) {
		s.onChange = fn
	}
}

// WithoutContract skips request/response validation against the bundled
// OpenAPI contract.
func WithoutContract() Option {
	return func(s *settings) {
		s.contract = false
	}
}

// NewSession wires a service client, the candidate resolver and a controller
// for the document service at serviceURL.
func NewSession(serviceURL string, options ...Option) (*Session, error) {
	cfg := settings{
		logger:   zerolog.Nop(),
		contract: true,
	}
	for _, opt := range options {
		if opt != nil {
			opt(&cfg)
		}
	}

	clientOpts := []client.Option{
		client.WithLogger(cfg.logger.With().Str("component", "client").Logger()),
	}
	if cfg.httpClient != nil {
		clientOpts = append(clientOpts, client.WithHTTPClient(cfg.httpClient))
	}
	if cfg.timeout > 0 {
		clientOpts = append(clientOpts, client.WithTimeout(cfg.timeout))
	}
	if cfg.contract {
		doc, err := contract.Default()
		if err != nil {
			return nil, fmt.Errorf("careforms: load contract: %w", err)
		}
		clientOpts = append(clientOpts, client.WithContract(doc))
	}

	cl, err := client.New(serviceURL, clientOpts...)
	if err != nil {
		return nil, err
	}

	var lookupOpts []candidates.Option
	if cfg.debounce != nil {
		lookupOpts = append(lookupOpts, candidates.WithDebounce(*cfg.debounce))
	}
	if cfg.cacheTTL != nil {
		lookupOpts = append(lookupOpts, candidates.WithCacheTTL(*cfg.cacheTTL))
	}

	sessionOpts := []session.Option{
		session.WithLookup(cl, lookupOpts...),
		session.WithLogger(cfg.logger.With().Str("component", "session").Logger()),
		session.WithCatalog(cfg.catalog),
	}
	if cfg.outputDir != "" {
		sessionOpts = append(sessionOpts, session.WithOutputDir(cfg.outputDir))
	}
	if cfg.writer != nil {
		sessionOpts = append(sessionOpts, session.WithFileWriter(cfg.writer))
	}
	if cfg.onChange != nil {
		sessionOpts = append(sessionOpts, session.WithOnChange(cfg.onChange))
	}

	return &Session{
		Controller: session.New(cl, sessionOpts...),
		Client:     cl,
	}, nil
}

// NewRenderRegistry returns a registry with the json, yaml and text template
// renderers.
func NewRenderRegistry() (*render.Registry, error) {
	registry := render.NewRegistry()
	textRenderer, err := text.New()
	if err != nil {
		return nil, err
	}
	for _, renderer := range []render.Renderer{jsonout.New("  "), yamlout.New(), textRenderer} {
		if err := registry.Register(renderer); err != nil {
			return nil, err
		}
	}
	return registry, nil
}

// DefaultThemeManifest describes the terminal prefixes. The "plain" variant
// keeps output ASCII only.
func DefaultThemeManifest() *theme.Manifest {
	return &theme.Manifest{
		Name:    "careforms",
		Version: "1.0.0",
		Tokens: map[string]string{
			tui.TokenPromptPrefix:  "",
			tui.TokenInfoPrefix:    "• ",
			tui.TokenErrorPrefix:   "✗ ",
			tui.TokenSuccessPrefix: "✓ ",
		},
		Variants: map[string]theme.Variant{
			"plain": {
				Tokens: map[string]string{
					tui.TokenInfoPrefix:    "- ",
					tui.TokenErrorPrefix:   "error: ",
					tui.TokenSuccessPrefix: "ok: ",
				},
			},
		},
	}
}

// NewTerminal returns a terminal runner themed with DefaultThemeManifest.
// Later options override the theme.
func NewTerminal(variant string, options ...tui.Option) *tui.Runner {
	opts := append([]tui.Option{tui.WithThemeManifest(DefaultThemeManifest(), variant)}, options...)
	return tui.New(opts...)
}
