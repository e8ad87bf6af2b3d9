package model

import "fmt"

// BuildTemplate converts an ordered section table into panels. Panel ids are
// 1-based ("panel-1"); each field uses its name as both id and label.
func BuildTemplate(set string, sections []Section) Template {
	if len(sections) == 0 {
		return Template{}
	}
	panels := make([]Panel, 0, len(sections))
	for i, section := range sections {
		fields := make([]Field, 0, len(section.Fields))
		for _, name := range section.Fields {
			fields = append(fields, Field{ID: name, Label: name})
		}
		panels = append(panels, Panel{
			ID:     fmt.Sprintf("panel-%d", i+1),
			Title:  section.Title,
			Fields: fields,
		})
	}
	return Template{Set: set, Panels: panels}
}
