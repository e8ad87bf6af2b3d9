package model

import "strings"

// Step is a workflow step a case worker can request a document for.
type Step string

const (
	StepReentryCarePlan      Step = "Reentry Care Plan"
	StepHealthRiskAssessment Step = "Health Risk Assessment"
	StepWarmHandoff          Step = "Warm Handoff"
)

// Steps returns the workflow steps in display order.
func Steps() []Step {
	return []Step{StepReentryCarePlan, StepHealthRiskAssessment, StepWarmHandoff}
}

// AssessmentType selects the Health Risk Assessment variant.
type AssessmentType string

const (
	AssessmentNone     AssessmentType = ""
	AssessmentAdult    AssessmentType = "Adult_Receiving_Screening"
	AssessmentJuvenile AssessmentType = "Juvenile_MH_Screening"
)

// AssessmentTypes returns the selectable assessment types in display order.
func AssessmentTypes() []AssessmentType {
	return []AssessmentType{AssessmentAdult, AssessmentJuvenile}
}

// Label reports the human readable name ("Adult Receiving Screening").
func (a AssessmentType) Label() string {
	if a == AssessmentNone {
		return "Choose..."
	}
	return strings.ReplaceAll(string(a), "_", " ")
}

// Section is a titled, ordered list of data-schema field names.
type Section struct {
	Title  string   `json:"title" yaml:"title"`
	Fields []string `json:"fields" yaml:"fields"`
}

// Field is a checkable entry inside a panel. ID and Label both carry the
// schema field name.
type Field struct {
	ID    string `json:"id" yaml:"id"`
	Label string `json:"label" yaml:"label"`
}

// Panel groups the fields of one section.
type Panel struct {
	ID     string  `json:"id" yaml:"id"`
	Title  string  `json:"title" yaml:"title"`
	Fields []Field `json:"fields" yaml:"fields"`
}

// Template is the ordered list of panels shown for the current selection.
type Template struct {
	// Set names the section table the template was built from. Empty for the
	// empty template.
	Set    string  `json:"set,omitempty" yaml:"set,omitempty"`
	Panels []Panel `json:"panels" yaml:"panels"`
}

// Empty reports whether the template has no panels.
func (t Template) Empty() bool {
	return len(t.Panels) == 0
}

// FieldIDs lists every field id in panel order.
func (t Template) FieldIDs() []string {
	var out []string
	for _, panel := range t.Panels {
		for _, field := range panel.Fields {
			out = append(out, field.ID)
		}
	}
	return out
}

// FieldCount reports the number of fields across all panels.
func (t Template) FieldCount() int {
	n := 0
	for _, panel := range t.Panels {
		n += len(panel.Fields)
	}
	return n
}

// HasField reports whether id belongs to the template.
func (t Template) HasField(id string) bool {
	for _, panel := range t.Panels {
		for _, field := range panel.Fields {
			if field.ID == id {
				return true
			}
		}
	}
	return false
}

// Candidate is an entry of a static candidate pool.
type Candidate struct {
	ID   string `json:"id" yaml:"id"`
	Name string `json:"name" yaml:"name"`
}

// Profile is a candidate record returned by the remote lookup.
type Profile struct {
	MedicalID   string `json:"medical_id" yaml:"medical_id"`
	DisplayText string `json:"display_text" yaml:"display_text"`
}
