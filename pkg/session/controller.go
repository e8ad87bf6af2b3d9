// Package session holds the state of one document request: the workflow
// step, assessment type, candidate identity and checked fields. It derives
// the field template shown to the case worker, resolves candidate profiles
// and submits generation requests.
package session

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/rs/zerolog"

	"github.com/goliatone/go-careforms/pkg/candidates"
	"github.com/goliatone/go-careforms/pkg/catalog"
	"github.com/goliatone/go-careforms/pkg/client"
	"github.com/goliatone/go-careforms/pkg/derive"
	"github.com/goliatone/go-careforms/pkg/documents"
	"github.com/goliatone/go-careforms/pkg/messages"
	"github.com/goliatone/go-careforms/pkg/model"
	"github.com/goliatone/go-careforms/pkg/selection"
)

// Generator produces documents. *client.Client satisfies it.
type Generator interface {
	Generate(ctx context.Context, endpoint string, req client.GenerateRequest) (*client.Document, error)
}

// AlertKind distinguishes error and success alerts.
type AlertKind string

const (
	AlertNone    AlertKind = ""
	AlertError   AlertKind = "error"
	AlertSuccess AlertKind = "success"
)

// Alert is the single dismissible notice shown to the user.
type Alert struct {
	Kind    AlertKind
	Message string
}

// Controller is safe for concurrent use.
type Controller struct {
	catalog      *catalog.Catalog
	kinds        *documents.Registry
	msgs         *messages.Catalog
	gen          Generator
	lookup       candidates.Lookup
	resolverOpts []candidates.Option
	resolver     *candidates.Resolver
	outputDir    string
	writeFile    FileWriter
	logger       zerolog.Logger
	onChange     func()

	mu              sync.Mutex
	step            model.Step
	assessment      model.AssessmentType
	candidateName   string
	search          string
	tracker         *selection.Tracker
	setName         string
	poolName        string
	profiles        []model.Profile
	selectedProfile string
	lookupPending   bool
	lookedUp        bool
	appliedSeq      uint64
	alert           Alert
	generating      bool
}

// New creates a controller starting on the first workflow step.
func New(gen Generator, opts ...Option) *Controller {
	c := &Controller{
		gen:       gen,
		kinds:     documents.Default(),
		outputDir: ".",
		writeFile: writeToDisk,
		logger:    zerolog.Nop(),
		tracker:   selection.New(),
		step:      model.StepReentryCarePlan,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(c)
		}
	}
	if c.catalog == nil {
		c.catalog = catalog.MustDefault()
	}
	if c.msgs == nil {
		c.msgs = messages.MustDefault()
	}
	if c.lookup != nil {
		resolverOpts := append([]candidates.Option{
			candidates.WithLogger(c.logger),
			candidates.WithOnResult(c.applyAsync),
		}, c.resolverOpts...)
		c.resolver = candidates.New(c.lookup, resolverOpts...)
	}

	c.mu.Lock()
	c.refreshLocked()
	c.mu.Unlock()
	return c
}

// Close releases the candidate resolver.
func (c *Controller) Close() error {
	if c.resolver == nil {
		return nil
	}
	return c.resolver.Close()
}

// SetStep switches the workflow step. The candidate name and any profile
// state are cleared.
func (c *Controller) SetStep(_ context.Context, step model.Step) {
	c.mu.Lock()
	if c.step == step {
		c.mu.Unlock()
		return
	}
	c.step = step
	c.clearCandidateLocked()
	c.refreshLocked()
	c.mu.Unlock()

	c.cancelLookup()
}

// SetAssessmentType switches the HRA variant. Like SetStep it clears the
// candidate.
func (c *Controller) SetAssessmentType(assessment model.AssessmentType) {
	c.mu.Lock()
	if c.assessment == assessment {
		c.mu.Unlock()
		return
	}
	c.assessment = assessment
	c.clearCandidateLocked()
	c.refreshLocked()
	c.mu.Unlock()

	c.cancelLookup()
}

// SetCandidateName records the typed candidate name and, on the Reentry
// step, schedules a debounced profile lookup.
func (c *Controller) SetCandidateName(ctx context.Context, name string) {
	c.mu.Lock()
	if c.candidateName == name {
		c.mu.Unlock()
		return
	}
	c.candidateName = name
	c.alert = Alert{}
	c.profiles = nil
	c.selectedProfile = ""
	c.lookedUp = false
	c.refreshLocked()
	c.mu.Unlock()

	c.scheduleLookup(ctx, name)
}

// LookupNow resolves the current candidate name without debouncing and
// applies the result. It is a no-op outside the Reentry step.
func (c *Controller) LookupNow(ctx context.Context) error {
	if c.resolver == nil {
		return nil
	}
	c.mu.Lock()
	if c.step != model.StepReentryCarePlan || strings.TrimSpace(c.candidateName) == "" {
		c.mu.Unlock()
		return nil
	}
	name := c.candidateName
	c.lookupPending = true
	c.mu.Unlock()

	res, err := c.resolver.Resolve(ctx, name)

	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.applyLocked(res) && strings.TrimSpace(c.candidateName) == strings.TrimSpace(name) {
		c.lookupPending = false
	}
	return err
}

// AwaitProfiles blocks until the newest scheduled lookup has been applied.
func (c *Controller) AwaitProfiles(ctx context.Context) error {
	if c.resolver == nil {
		return nil
	}
	res, err := c.resolver.Latest(ctx)
	if err != nil {
		return err
	}
	c.ApplyLookup(res)
	return nil
}

// ApplyLookup folds a resolver result into the session. Results older than
// the last applied one, or for a name no longer current, are ignored.
func (c *Controller) ApplyLookup(res candidates.Result) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.applyLocked(res)
}

func (c *Controller) applyAsync(res candidates.Result) {
	c.mu.Lock()
	applied := c.applyLocked(res)
	onChange := c.onChange
	c.mu.Unlock()

	if applied && onChange != nil {
		onChange()
	}
}

func (c *Controller) applyLocked(res candidates.Result) bool {
	if res.Seq != 0 && res.Seq <= c.appliedSeq {
		return false
	}
	if c.step != model.StepReentryCarePlan || errors.Is(res.Err, context.Canceled) {
		return false
	}
	if strings.TrimSpace(res.Query) != strings.TrimSpace(c.candidateName) {
		c.logger.Debug().Str("query", res.Query).Msg("lookup result for outdated name ignored")
		return false
	}
	c.appliedSeq = res.Seq
	c.lookupPending = false

	if res.Err != nil {
		c.profiles = nil
		c.selectedProfile = ""
		c.lookedUp = false
		c.alert = Alert{
			Kind:    AlertError,
			Message: c.msgs.Render(messages.LookupFailed, messages.Args{"error": client.Describe(res.Err)}),
		}
		c.logger.Warn().Err(res.Err).Str("name", res.Query).Msg("candidate lookup failed")
		return true
	}

	c.profiles = append([]model.Profile(nil), res.Profiles...)
	c.lookedUp = strings.TrimSpace(res.Query) != ""
	c.selectedProfile = res.Selected
	if res.CanonicalName != "" {
		// Auto-fill does not schedule another lookup.
		c.candidateName = res.CanonicalName
		c.refreshLocked()
	}
	c.logger.Debug().Str("name", res.Query).Int("profiles", len(res.Profiles)).Bool("cached", res.Cached).Msg("candidate lookup applied")
	return true
}

// SelectProfile picks one of several looked-up profiles by medical id. The
// candidate name becomes the profile's display text.
func (c *Controller) SelectProfile(medicalID string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, profile := range c.profiles {
		if profile.MedicalID == medicalID {
			c.selectedProfile = profile.MedicalID
			c.candidateName = profile.DisplayText
			c.alert = Alert{}
			c.refreshLocked()
			return nil
		}
	}
	return fmt.Errorf("%w: %q", ErrUnknownProfile, medicalID)
}

// SetSearch narrows the visible fields. Selections are kept.
func (c *Controller) SetSearch(query string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.search = query
}

// Toggle flips a field and returns its new state.
func (c *Controller) Toggle(id string) (bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.templateLocked().HasField(id) {
		return false, fmt.Errorf("%w: %q", ErrUnknownField, id)
	}
	return c.tracker.Toggle(id), nil
}

// SelectAll checks or clears every field visible under the current search.
func (c *Controller) SelectAll(checked bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.tracker.SetAll(c.visibleLocked().FieldIDs(), checked)
}

// DismissAlert clears the current alert.
func (c *Controller) DismissAlert() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.alert = Alert{}
}

func (c *Controller) clearCandidateLocked() {
	c.candidateName = ""
	c.profiles = nil
	c.selectedProfile = ""
	c.lookupPending = false
	c.lookedUp = false
	c.alert = Alert{}
}

func (c *Controller) cancelLookup() {
	if c.resolver != nil {
		c.resolver.Cancel()
	}
}

func (c *Controller) input() derive.Input {
	return derive.Input{Step: c.step, Assessment: c.assessment, CandidateName: c.candidateName}
}

func (c *Controller) templateLocked() model.Template {
	return derive.Template(c.catalog, c.input())
}

func (c *Controller) visibleLocked() model.Template {
	return derive.Filter(c.templateLocked(), c.search)
}

// refreshLocked resets the selection when the section set or the candidate
// pool changed, and drops profile state outside the Reentry step.
func (c *Controller) refreshLocked() {
	set := derive.SetFor(c.input())
	pool := derive.PoolFor(c.step, c.assessment)
	if set != c.setName || pool != c.poolName {
		c.tracker.Reset()
		c.setName = set
		c.poolName = pool
	}
	if c.step != model.StepReentryCarePlan {
		c.profiles = nil
		c.selectedProfile = ""
		c.lookupPending = false
		c.lookedUp = false
	}
}

func (c *Controller) scheduleLookup(ctx context.Context, name string) {
	if c.resolver == nil {
		return
	}
	c.mu.Lock()
	reentry := c.step == model.StepReentryCarePlan
	c.lookupPending = reentry && strings.TrimSpace(name) != ""
	c.mu.Unlock()

	if !reentry {
		c.cancelLookup()
		return
	}
	if err := c.resolver.Update(ctx, name); err != nil {
		c.logger.Debug().Err(err).Msg("candidate lookup not scheduled")
	}
}
