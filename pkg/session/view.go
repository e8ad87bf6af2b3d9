package session

import (
	"strings"

	"github.com/goliatone/go-careforms/pkg/derive"
	"github.com/goliatone/go-careforms/pkg/messages"
	"github.com/goliatone/go-careforms/pkg/model"
)

// View is a point-in-time snapshot of the session for display.
type View struct {
	Step          model.Step
	Assessment    model.AssessmentType
	CandidateName string
	Search        string

	// Template is the derived template narrowed by Search. FullTemplate is
	// the unfiltered one.
	Template     model.Template
	FullTemplate model.Template
	Selected     []string
	// AllSelected reports whether every visible field is checked.
	AllSelected bool
	Hint        string

	Pool        []model.Candidate
	Suggestions []model.Candidate

	Profiles        []model.Profile
	SelectedProfile string
	LookupPending   bool
	ProfileStatus   string

	Alert      Alert
	Generating bool
	Progress   string
}

// CheckedCount reports the number of selected fields.
func (v View) CheckedCount() int {
	return len(v.Selected)
}

// IsChecked reports whether id is selected.
func (v View) IsChecked(id string) bool {
	for _, selected := range v.Selected {
		if selected == id {
			return true
		}
	}
	return false
}

// View returns the current snapshot.
func (c *Controller) View() View {
	c.mu.Lock()
	defer c.mu.Unlock()

	full := c.templateLocked()
	visible := derive.Filter(full, c.search)
	pool := derive.CandidatePool(c.catalog, c.step, c.assessment)

	v := View{
		Step:            c.step,
		Assessment:      c.assessment,
		CandidateName:   c.candidateName,
		Search:          c.search,
		Template:        visible,
		FullTemplate:    full,
		Selected:        c.tracker.Selected(full.FieldIDs()),
		AllSelected:     c.tracker.AllSelected(visible.FieldIDs()),
		Hint:            c.hintLocked(),
		Pool:            pool,
		Suggestions:     derive.Suggest(pool, c.candidateName),
		Profiles:        append([]model.Profile(nil), c.profiles...),
		SelectedProfile: c.selectedProfile,
		LookupPending:   c.lookupPending,
		ProfileStatus:   c.profileStatusLocked(),
		Alert:           c.alert,
		Generating:      c.generating,
	}
	if c.generating {
		v.Progress = c.progressLocked()
	}
	return v
}

func (c *Controller) hintLocked() string {
	switch derive.HintFor(c.input()) {
	case derive.HintChooseCandidate:
		return c.msgs.Text(messages.HintChooseCandidate)
	case derive.HintChooseAssessment:
		return c.msgs.Text(messages.HintChooseAssessment)
	case derive.HintChooseHRACandidate:
		return c.msgs.Text(messages.HintChooseHRA)
	default:
		return ""
	}
}

func (c *Controller) profileStatusLocked() string {
	if c.step != model.StepReentryCarePlan || strings.TrimSpace(c.candidateName) == "" {
		return ""
	}
	switch {
	case c.lookupPending:
		return c.msgs.Render(messages.ProfileLoading, messages.Args{"name": strings.TrimSpace(c.candidateName)})
	case len(c.profiles) == 1:
		return c.msgs.Render(messages.ProfileSingle, messages.Args{"display_text": c.profiles[0].DisplayText})
	case len(c.profiles) > 1:
		return c.msgs.Render(messages.ProfileMultiple, messages.Args{"count": len(c.profiles)})
	case c.lookedUp:
		return c.msgs.Text(messages.ProfileNone)
	default:
		return ""
	}
}

func (c *Controller) progressLocked() string {
	if c.step == model.StepHealthRiskAssessment {
		return c.msgs.Text(messages.ProgressHRA)
	}
	return c.msgs.Text(messages.ProgressDefault)
}
