package derive

import (
	"strings"

	"github.com/goliatone/go-careforms/pkg/catalog"
	"github.com/goliatone/go-careforms/pkg/model"
)

// PoolFor names the set whose candidate pool applies to step/assessment.
// Unlike SetFor it does not depend on the candidate name.
func PoolFor(step model.Step, assessment model.AssessmentType) string {
	switch step {
	case model.StepReentryCarePlan:
		return catalog.SetReentry
	case model.StepHealthRiskAssessment:
		switch assessment {
		case model.AssessmentAdult:
			return catalog.SetAdult
		case model.AssessmentJuvenile:
			return catalog.SetJuvenile
		default:
			return ""
		}
	default:
		return catalog.SetGeneric
	}
}

// CandidatePool returns the static candidates offered for step/assessment.
func CandidatePool(cat *catalog.Catalog, step model.Step, assessment model.AssessmentType) []model.Candidate {
	name := PoolFor(step, assessment)
	if name == "" {
		return nil
	}
	set, ok := cat.Set(name)
	if !ok {
		return nil
	}
	return set.Candidates
}

// Suggest filters pool by a case-insensitive substring of typed. A blank
// value returns the whole pool.
func Suggest(pool []model.Candidate, typed string) []model.Candidate {
	q := strings.ToLower(strings.TrimSpace(typed))
	if q == "" {
		return append([]model.Candidate(nil), pool...)
	}
	var out []model.Candidate
	for _, candidate := range pool {
		if strings.Contains(strings.ToLower(candidate.Name), q) {
			out = append(out, candidate)
		}
	}
	return out
}

// Hint identifies the empty-state message shown when no template is
// available yet.
type Hint string

const (
	HintNone               Hint = ""
	HintChooseCandidate    Hint = "choose_candidate"
	HintChooseAssessment   Hint = "choose_assessment"
	HintChooseHRACandidate Hint = "choose_hra_candidate"
)

// HintFor reports the empty-state hint for the input, if any.
func HintFor(in Input) Hint {
	switch in.Step {
	case model.StepReentryCarePlan:
		if !in.HasCandidate() {
			return HintChooseCandidate
		}
	case model.StepHealthRiskAssessment:
		if in.Assessment == model.AssessmentNone {
			return HintChooseAssessment
		}
		if !in.HasCandidate() {
			return HintChooseHRACandidate
		}
	}
	return HintNone
}
