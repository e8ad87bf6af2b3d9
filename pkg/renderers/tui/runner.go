// Package tui drives a document request session from the terminal using
// survey prompts.
package tui

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/goliatone/go-careforms/pkg/derive"
	"github.com/goliatone/go-careforms/pkg/messages"
	"github.com/goliatone/go-careforms/pkg/model"
	"github.com/goliatone/go-careforms/pkg/session"
)

// Menu entries offered between prompts.
const (
	ActionChooseFields = "Choose fields"
	ActionSelectAll    = "Select all visible fields"
	ActionClearAll     = "Clear all visible fields"
	ActionSearch       = "Search fields"
	ActionGenerate     = "Generate document"
	ActionRestart      = "Change step or candidate"
	ActionQuit         = "Quit"
)

const progressPoll = 50 * time.Millisecond

type next int

const (
	stay next = iota
	restart
	quit
)

// Runner walks a case worker through step, candidate and field selection
// and submits the request.
type Runner struct {
	driver PromptDriver
	out    io.Writer
	theme  Theme
	msgs   *messages.Catalog
	logger zerolog.Logger
}

// New creates a runner. Without WithPromptDriver it prompts on the terminal.
func New(opts ...Option) *Runner {
	r := &Runner{
		theme:  DefaultTheme(),
		logger: zerolog.Nop(),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(r)
		}
	}
	if r.driver == nil {
		r.driver = newSurveyDriver(r.out)
	}
	if r.msgs == nil {
		r.msgs = messages.MustDefault()
	}
	return r
}

// Run loops until the user quits or declines another document. Ctrl+C
// returns ErrAborted.
func (r *Runner) Run(ctx context.Context, c *session.Controller) error {
	if c == nil {
		return ErrNoSession
	}
	for {
		if err := r.setup(ctx, c); err != nil {
			return err
		}
		step, err := r.menu(ctx, c)
		if err != nil {
			return err
		}
		if step == quit {
			return nil
		}
	}
}

func (r *Runner) setup(ctx context.Context, c *session.Controller) error {
	v := c.View()

	steps := model.Steps()
	labels := make([]string, len(steps))
	current := 0
	for i, step := range steps {
		labels[i] = string(step)
		if step == v.Step {
			current = i
		}
	}
	idx, err := r.driver.Select(ctx, SelectConfig{
		Message:      r.theme.PromptPrefix + "Workflow step",
		Options:      labels,
		DefaultIndex: current,
	})
	if err != nil {
		return err
	}
	if idx < 0 || idx >= len(steps) {
		return fmt.Errorf("tui: step selection out of range: %d", idx)
	}
	c.SetStep(ctx, steps[idx])

	if steps[idx] == model.StepHealthRiskAssessment {
		if err := r.chooseAssessment(ctx, c); err != nil {
			return err
		}
	}

	if err := r.chooseCandidate(ctx, c); err != nil {
		return err
	}
	return r.flushAlert(ctx, c)
}

func (r *Runner) chooseAssessment(ctx context.Context, c *session.Controller) error {
	current := c.View().Assessment
	types := model.AssessmentTypes()
	labels := make([]string, len(types))
	def := 0
	for i, t := range types {
		labels[i] = t.Label()
		if t == current {
			def = i
		}
	}
	idx, err := r.driver.Select(ctx, SelectConfig{
		Message:      r.theme.PromptPrefix + "Assessment type",
		Options:      labels,
		DefaultIndex: def,
	})
	if err != nil {
		return err
	}
	if idx < 0 || idx >= len(types) {
		return fmt.Errorf("tui: assessment selection out of range: %d", idx)
	}
	c.SetAssessmentType(types[idx])
	return nil
}

func (r *Runner) chooseCandidate(ctx context.Context, c *session.Controller) error {
	v := c.View()
	if v.Hint != "" {
		if err := r.info(ctx, r.theme.InfoPrefix+v.Hint); err != nil {
			return err
		}
	}

	pool := v.Pool
	name, err := r.driver.Input(ctx, InputConfig{
		Message: r.theme.PromptPrefix + "Candidate name",
		Default: v.CandidateName,
		Help:    "Press Tab to complete from the known candidates.",
		Suggest: func(typed string) []string {
			matches := derive.Suggest(pool, typed)
			out := make([]string, len(matches))
			for i, candidate := range matches {
				out[i] = candidate.Name
			}
			return out
		},
	})
	if err != nil {
		return err
	}
	c.SetCandidateName(ctx, strings.TrimSpace(name))

	if c.View().Step != model.StepReentryCarePlan {
		return nil
	}
	if err := c.AwaitProfiles(ctx); err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}
		r.logger.Debug().Err(err).Msg("profile lookup did not complete")
	}
	if err := r.flushAlert(ctx, c); err != nil {
		return err
	}

	v = c.View()
	if v.ProfileStatus != "" {
		if err := r.info(ctx, r.theme.InfoPrefix+v.ProfileStatus); err != nil {
			return err
		}
	}
	if len(v.Profiles) > 1 {
		return r.chooseProfile(ctx, c, v.Profiles)
	}
	return nil
}

func (r *Runner) chooseProfile(ctx context.Context, c *session.Controller, profiles []model.Profile) error {
	labels := make([]string, len(profiles))
	for i, profile := range profiles {
		labels[i] = profile.DisplayText
	}
	idx, err := r.driver.Select(ctx, SelectConfig{
		Message: r.theme.PromptPrefix + "Select correct profile",
		Options: labels,
	})
	if err != nil {
		return err
	}
	if idx < 0 || idx >= len(profiles) {
		return fmt.Errorf("tui: profile selection out of range: %d", idx)
	}
	return c.SelectProfile(profiles[idx].MedicalID)
}

func (r *Runner) menu(ctx context.Context, c *session.Controller) (next, error) {
	for {
		v := c.View()
		summary := fmt.Sprintf("%d of %d fields selected", v.CheckedCount(), v.FullTemplate.FieldCount())
		if v.Search != "" {
			summary += fmt.Sprintf(" (search %q)", v.Search)
		}
		if err := r.info(ctx, r.theme.InfoPrefix+summary); err != nil {
			return quit, err
		}

		bulk := ActionSelectAll
		if v.AllSelected {
			bulk = ActionClearAll
		}
		options := []string{ActionChooseFields, bulk, ActionSearch, ActionGenerate, ActionRestart, ActionQuit}
		idx, err := r.driver.Select(ctx, SelectConfig{
			Message: r.theme.PromptPrefix + "What next?",
			Options: options,
		})
		if err != nil {
			return quit, err
		}
		if idx < 0 || idx >= len(options) {
			return quit, fmt.Errorf("tui: menu selection out of range: %d", idx)
		}

		switch options[idx] {
		case ActionChooseFields:
			err = r.chooseFields(ctx, c)
		case ActionSelectAll:
			c.SelectAll(true)
		case ActionClearAll:
			c.SelectAll(false)
		case ActionSearch:
			err = r.search(ctx, c)
		case ActionGenerate:
			var step next
			step, err = r.generate(ctx, c)
			if err == nil && step != stay {
				return step, nil
			}
		case ActionRestart:
			return restart, nil
		case ActionQuit:
			return quit, nil
		}
		if err != nil {
			return quit, err
		}
	}
}

func (r *Runner) chooseFields(ctx context.Context, c *session.Controller) error {
	v := c.View()

	var (
		ids      []string
		labels   []string
		defaults []int
	)
	for _, panel := range v.Template.Panels {
		for _, field := range panel.Fields {
			if v.IsChecked(field.ID) {
				defaults = append(defaults, len(ids))
			}
			ids = append(ids, field.ID)
			labels = append(labels, panel.Title+" / "+field.Label)
		}
	}
	if len(ids) == 0 {
		msg := v.Hint
		if msg == "" {
			msg = "No fields to choose from."
		}
		return r.info(ctx, r.theme.InfoPrefix+msg)
	}

	picked, err := r.driver.MultiSelect(ctx, SelectConfig{
		Message:  r.theme.PromptPrefix + "Fields to include",
		Options:  labels,
		Defaults: defaults,
		PageSize: 15,
	})
	if err != nil {
		return err
	}

	want := make(map[int]bool, len(picked))
	for _, idx := range picked {
		want[idx] = true
	}
	for i, id := range ids {
		if want[i] == v.IsChecked(id) {
			continue
		}
		if _, err := c.Toggle(id); err != nil {
			return err
		}
	}
	return nil
}

func (r *Runner) search(ctx context.Context, c *session.Controller) error {
	query, err := r.driver.Input(ctx, InputConfig{
		Message: r.theme.PromptPrefix + "Search fields",
		Default: c.View().Search,
		Help:    "Leave blank to show every field.",
	})
	if err != nil {
		return err
	}
	c.SetSearch(query)
	return nil
}

type submitResult struct {
	outcome session.Outcome
	err     error
}

func (r *Runner) generate(ctx context.Context, c *session.Controller) (next, error) {
	done := make(chan submitResult, 1)
	go func() {
		outcome, err := c.Submit(ctx)
		done <- submitResult{outcome: outcome, err: err}
	}()

	ticker := time.NewTicker(progressPoll)
	defer ticker.Stop()

	var (
		res      submitResult
		reported bool
	)
wait:
	for {
		select {
		case res = <-done:
			break wait
		case <-ticker.C:
			if reported {
				continue
			}
			if progress := c.View().Progress; progress != "" {
				reported = true
				if err := r.info(ctx, r.theme.InfoPrefix+progress); err != nil {
					r.logger.Debug().Err(err).Msg("progress output failed")
				}
			}
		}
	}

	if err := r.flushAlert(ctx, c); err != nil {
		return stay, err
	}
	if res.err != nil {
		var vErr *session.ValidationError
		var gErr *session.GenerationError
		if errors.As(res.err, &vErr) || errors.As(res.err, &gErr) {
			return stay, nil
		}
		return stay, res.err
	}
	if err := r.info(ctx, r.theme.InfoPrefix+r.msgs.Render(messages.SavedTo, messages.Args{"path": res.outcome.Path})); err != nil {
		return stay, err
	}

	again, err := r.driver.Confirm(ctx, ConfirmConfig{
		Message: r.theme.PromptPrefix + "Generate another document?",
	})
	if err != nil {
		return stay, err
	}
	if again {
		return restart, nil
	}
	return quit, nil
}

func (r *Runner) flushAlert(ctx context.Context, c *session.Controller) error {
	alert := c.View().Alert
	var prefix string
	switch alert.Kind {
	case session.AlertError:
		prefix = r.theme.ErrorPrefix
	case session.AlertSuccess:
		prefix = r.theme.SuccessPrefix
	default:
		return nil
	}
	c.DismissAlert()
	return r.info(ctx, prefix+alert.Message)
}

func (r *Runner) info(ctx context.Context, msg string) error {
	return r.driver.Info(ctx, msg)
}
