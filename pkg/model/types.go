package model

import internalmodel "github.com/goliatone/go-careforms/internal/model"

// Step re-exports the internal workflow step enumeration.
type Step = internalmodel.Step

const (
	StepReentryCarePlan      = internalmodel.StepReentryCarePlan
	StepHealthRiskAssessment = internalmodel.StepHealthRiskAssessment
	StepWarmHandoff          = internalmodel.StepWarmHandoff
)

// AssessmentType re-exports the internal assessment type enumeration.
type AssessmentType = internalmodel.AssessmentType

const (
	AssessmentNone     = internalmodel.AssessmentNone
	AssessmentAdult    = internalmodel.AssessmentAdult
	AssessmentJuvenile = internalmodel.AssessmentJuvenile
)

type Section = internalmodel.Section
type Field = internalmodel.Field
type Panel = internalmodel.Panel
type Template = internalmodel.Template
type Candidate = internalmodel.Candidate
type Profile = internalmodel.Profile

// Steps returns the workflow steps in display order.
func Steps() []Step {
	return internalmodel.Steps()
}

// AssessmentTypes returns the selectable assessment types.
func AssessmentTypes() []AssessmentType {
	return internalmodel.AssessmentTypes()
}

// BuildTemplate converts a section table into a Template.
func BuildTemplate(set string, sections []Section) Template {
	return internalmodel.BuildTemplate(set, sections)
}
