package derive

import (
	"strings"

	"github.com/goliatone/go-careforms/pkg/catalog"
	"github.com/goliatone/go-careforms/pkg/model"
)

// Input captures everything the template depends on.
type Input struct {
	Step          model.Step
	Assessment    model.AssessmentType
	CandidateName string
}

// HasCandidate reports whether a non-blank candidate name was entered.
func (in Input) HasCandidate() bool {
	return strings.TrimSpace(in.CandidateName) != ""
}

// SetFor picks the section set for the input. An empty result means the
// empty template.
func SetFor(in Input) string {
	switch in.Step {
	case model.StepReentryCarePlan:
		if !in.HasCandidate() {
			return ""
		}
		return catalog.SetReentry
	case model.StepHealthRiskAssessment:
		if in.Assessment == model.AssessmentNone || !in.HasCandidate() {
			return ""
		}
		switch in.Assessment {
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

// Template projects the input onto one of the catalog's section sets. It has
// no side effects and returns the empty template for unknown sets.
func Template(cat *catalog.Catalog, in Input) model.Template {
	name := SetFor(in)
	if name == "" {
		return model.Template{}
	}
	set, ok := cat.Set(name)
	if !ok {
		return model.Template{}
	}
	return model.BuildTemplate(set.Name, set.Sections)
}

// Filter narrows the template to fields whose label contains query
// (case-insensitive). Panels left without fields are dropped.
func Filter(tpl model.Template, query string) model.Template {
	q := strings.ToLower(strings.TrimSpace(query))
	if q == "" {
		return tpl
	}

	out := model.Template{Set: tpl.Set}
	for _, panel := range tpl.Panels {
		var fields []model.Field
		for _, field := range panel.Fields {
			if strings.Contains(strings.ToLower(field.Label), q) {
				fields = append(fields, field)
			}
		}
		if len(fields) == 0 {
			continue
		}
		out.Panels = append(out.Panels, model.Panel{
			ID:     panel.ID,
			Title:  panel.Title,
			Fields: fields,
		})
	}
	return out
}
