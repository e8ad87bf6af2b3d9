package render

import "github.com/goliatone/go-careforms/pkg/model"

// View is the renderer-neutral shape every built-in renderer emits.
type View struct {
	Title     string      `json:"title,omitempty" yaml:"title,omitempty"`
	Candidate string      `json:"candidate,omitempty" yaml:"candidate,omitempty"`
	Set       string      `json:"set,omitempty" yaml:"set,omitempty"`
	Query     string      `json:"query,omitempty" yaml:"query,omitempty"`
	Selected  int         `json:"selected" yaml:"selected"`
	Total     int         `json:"total" yaml:"total"`
	Panels    []PanelView `json:"panels" yaml:"panels"`
}

// PanelView is one rendered panel.
type PanelView struct {
	ID     string      `json:"id" yaml:"id"`
	Title  string      `json:"title" yaml:"title"`
	Fields []FieldView `json:"fields" yaml:"fields"`
}

// FieldView is one rendered field.
type FieldView struct {
	ID      string `json:"id" yaml:"id"`
	Label   string `json:"label" yaml:"label"`
	Checked bool   `json:"checked" yaml:"checked"`
}

// BuildView projects tpl and options into a View.
func BuildView(tpl model.Template, options RenderOptions) View {
	checked := make(map[string]bool, len(options.Selected))
	for _, id := range options.Selected {
		checked[id] = true
	}

	view := View{
		Title:     options.Title,
		Candidate: options.Candidate,
		Set:       tpl.Set,
		Query:     options.Query,
		Panels:    make([]PanelView, 0, len(tpl.Panels)),
	}
	for _, panel := range tpl.Panels {
		pv := PanelView{ID: panel.ID, Title: panel.Title, Fields: make([]FieldView, 0, len(panel.Fields))}
		for _, field := range panel.Fields {
			fv := FieldView{ID: field.ID, Label: field.Label, Checked: checked[field.ID]}
			if fv.Checked {
				view.Selected++
			}
			view.Total++
			pv.Fields = append(pv.Fields, fv)
		}
		view.Panels = append(view.Panels, pv)
	}
	return view
}
