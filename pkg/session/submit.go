package session

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/goliatone/go-careforms/pkg/client"
	"github.com/goliatone/go-careforms/pkg/documents"
	"github.com/goliatone/go-careforms/pkg/messages"
	"github.com/goliatone/go-careforms/pkg/model"
)

// Outcome describes a generated and saved document.
type Outcome struct {
	Kind      documents.Kind
	Candidate string
	Filename  string
	Path      string
	Size      int
	Message   string
}

type submission struct {
	kind    documents.Kind
	step    model.Step
	request client.GenerateRequest
}

// Submit validates the session, requests the document and writes it to the
// output directory. Validation failures return *ValidationError without any
// network call; service failures return *GenerationError.
func (c *Controller) Submit(ctx context.Context) (Outcome, error) {
	c.mu.Lock()
	c.alert = Alert{}
	sub, err := c.prepareLocked()
	if err != nil {
		c.alert = Alert{Kind: AlertError, Message: err.Error()}
		c.mu.Unlock()
		return Outcome{}, err
	}
	c.generating = true
	c.mu.Unlock()

	logger := c.logger.With().
		Str("document", sub.kind.Name).
		Str("candidate", sub.request.CandidateName).
		Int("fields", len(sub.request.SelectedFields)).
		Logger()
	logger.Info().Msg("generating document")

	outcome, err := c.generate(ctx, sub)

	c.mu.Lock()
	defer c.mu.Unlock()
	c.generating = false
	if err != nil {
		c.alert = Alert{Kind: AlertError, Message: err.Error()}
		logger.Error().Err(errors.Unwrap(err)).Msg("document generation failed")
		return Outcome{}, err
	}
	c.alert = Alert{Kind: AlertSuccess, Message: outcome.Message}
	logger.Info().Str("path", outcome.Path).Int("bytes", outcome.Size).Msg("document saved")
	return outcome, nil
}

func (c *Controller) prepareLocked() (submission, error) {
	tpl := c.templateLocked()
	fields := c.tracker.Selected(tpl.FieldIDs())
	if len(fields) == 0 {
		return submission{}, c.invalid(messages.NoFields, nil)
	}

	name := strings.TrimSpace(c.candidateName)
	if name == "" {
		return submission{}, c.invalid(messages.NoCandidate, nil)
	}
	if c.step == model.StepReentryCarePlan && len(c.profiles) > 1 && c.selectedProfile == "" {
		return submission{}, c.invalid(messages.ChooseProfile, nil)
	}

	kind, err := c.kinds.Resolve(c.step, c.assessment)
	switch {
	case errors.Is(err, documents.ErrAssessmentRequired):
		return submission{}, c.invalid(messages.ChooseAssessmentFirst, err)
	case errors.Is(err, documents.ErrUnknownAssessment):
		return submission{}, c.invalid(messages.UnknownAssessment, err)
	case errors.Is(err, documents.ErrNotImplemented):
		return submission{}, c.invalid(messages.WarmHandoff, err)
	case err != nil:
		return submission{}, c.invalid(messages.GenericFailure, err)
	}

	if c.generating {
		return submission{}, c.invalid(messages.GenerationInFlight, ErrInFlight)
	}

	return submission{
		kind: kind,
		step: c.step,
		request: client.GenerateRequest{
			SelectedFields:  fields,
			CandidateName:   name,
			SelectedProfile: c.selectedProfile,
		},
	}, nil
}

func (c *Controller) generate(ctx context.Context, sub submission) (Outcome, error) {
	if c.gen == nil {
		return Outcome{}, &GenerationError{
			Message: c.msgs.Text(messages.GenericFailure),
			Err:     errors.New("session: no generator configured"),
		}
	}

	doc, err := c.gen.Generate(ctx, sub.kind.Endpoint, sub.request)
	if err != nil {
		message, ok := client.ServerMessage(err)
		if !ok {
			message = c.msgs.Text(messages.GenericFailure)
		}
		return Outcome{}, &GenerationError{Message: message, Err: err}
	}

	filename := sub.kind.Filename(sub.request.CandidateName)
	path := filepath.Join(c.outputDir, safeFilename(filename))
	if err := c.writeFile(path, doc.Data); err != nil {
		return Outcome{}, &GenerationError{
			Message: c.msgs.Text(messages.GenericFailure),
			Err:     fmt.Errorf("session: write %s: %w", path, err),
		}
	}

	return Outcome{
		Kind:      sub.kind,
		Candidate: sub.request.CandidateName,
		Filename:  filename,
		Path:      path,
		Size:      len(doc.Data),
		Message: c.msgs.Render(messages.Success, messages.Args{
			"step":      string(sub.step),
			"candidate": sub.request.CandidateName,
		}),
	}, nil
}

func (c *Controller) invalid(key messages.Key, cause error) *ValidationError {
	return &ValidationError{Key: key, Message: c.msgs.Text(key), Err: cause}
}

// safeFilename keeps the name on a single path segment.
func safeFilename(name string) string {
	return strings.NewReplacer("/", "_", "\\", "_").Replace(name)
}
