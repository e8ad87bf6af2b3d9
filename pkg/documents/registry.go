package documents

import (
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/goliatone/go-careforms/pkg/model"
)

var (
	// ErrAssessmentRequired is returned when an HRA is requested without an
	// assessment type.
	ErrAssessmentRequired = errors.New("documents: assessment type is required")
	// ErrUnknownAssessment is returned for assessment types with no kind.
	ErrUnknownAssessment = errors.New("documents: unknown assessment type")
	// ErrNotImplemented is returned for steps without a generation endpoint
	// (Warm Handoff).
	ErrNotImplemented = errors.New("documents: generation not implemented for step")
)

// Kind describes one generated document: the endpoint that produces it and
// the suffix used in the downloaded file name.
type Kind struct {
	Name       string
	Step       model.Step
	Assessment model.AssessmentType
	Endpoint   string
	Suffix     string
}

// Filename returns "{candidate}_{suffix}.docx".
func (k Kind) Filename(candidate string) string {
	return fmt.Sprintf("%s_%s.docx", candidate, k.Suffix)
}

// Registry stores document kinds by name and resolves them from a step and
// assessment type.
type Registry struct {
	mu    sync.RWMutex
	kinds map[string]Kind
}

// NewRegistry creates an empty registry instance.
func NewRegistry() *Registry {
	return &Registry{kinds: make(map[string]Kind)}
}

// Default returns a registry with the three documents the service produces.
func Default() *Registry {
	r := NewRegistry()
	r.MustRegister(Kind{
		Name:     "reentry_care_plan",
		Step:     model.StepReentryCarePlan,
		Endpoint: "/generate_reentry_care_plan",
		Suffix:   "reentry_care_plan",
	})
	r.MustRegister(Kind{
		Name:       "hra_adult",
		Step:       model.StepHealthRiskAssessment,
		Assessment: model.AssessmentAdult,
		Endpoint:   "/generate_hra_adult",
		Suffix:     "adult_hra",
	})
	r.MustRegister(Kind{
		Name:       "hra_juvenile",
		Step:       model.StepHealthRiskAssessment,
		Assessment: model.AssessmentJuvenile,
		Endpoint:   "/generate_hra_juvenile",
		Suffix:     "juvenile_hra",
	})
	return r
}

// Register adds a kind by its Name. Duplicate names return an error.
func (r *Registry) Register(kind Kind) error {
	name := strings.TrimSpace(kind.Name)
	if name == "" {
		return errors.New("documents: kind name is required")
	}
	if strings.TrimSpace(kind.Endpoint) == "" {
		return fmt.Errorf("documents: kind %q has no endpoint", name)
	}
	if strings.TrimSpace(kind.Suffix) == "" {
		return fmt.Errorf("documents: kind %q has no file suffix", name)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.kinds[name]; exists {
		return fmt.Errorf("documents: kind %q already registered", name)
	}
	kind.Name = name
	r.kinds[name] = kind
	return nil
}

// MustRegister panics on registration failure. Useful for init-time wiring.
func (r *Registry) MustRegister(kind Kind) {
	if err := r.Register(kind); err != nil {
		panic(err)
	}
}

// Get retrieves a kind by name.
func (r *Registry) Get(name string) (Kind, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	kind, ok := r.kinds[name]
	if !ok {
		return Kind{}, fmt.Errorf("documents: kind %q not found", name)
	}
	return kind, nil
}

// Resolve finds the kind generated for step/assessment.
func (r *Registry) Resolve(step model.Step, assessment model.AssessmentType) (Kind, error) {
	if step == model.StepHealthRiskAssessment && assessment == model.AssessmentNone {
		return Kind{}, ErrAssessmentRequired
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	stepKnown := false
	for _, kind := range r.kinds {
		if kind.Step != step {
			continue
		}
		stepKnown = true
		if kind.Assessment == model.AssessmentNone || kind.Assessment == assessment {
			return kind, nil
		}
	}
	if stepKnown {
		return Kind{}, ErrUnknownAssessment
	}
	return Kind{}, fmt.Errorf("%w: %s", ErrNotImplemented, step)
}

// List returns a sorted list of kind names.
func (r *Registry) List() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, 0, len(r.kinds))
	for name := range r.kinds {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
