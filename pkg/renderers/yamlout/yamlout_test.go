package yamlout

import (
	"context"
	"strings"
	"testing"

	"gopkg.in/yaml.v3"

	"github.com/goliatone/go-careforms/pkg/model"
	"github.com/goliatone/go-careforms/pkg/render"
)

func TestRender(t *testing.T) {
	tpl := model.BuildTemplate("reentry", []model.Section{{Title: "Housing & Living Situation", Fields: []string{"housing_status"}}})

	out, err := New().Render(context.Background(), tpl, render.RenderOptions{Selected: []string{"housing_status"}})
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if !strings.Contains(string(out), "title: Housing & Living Situation") {
		t.Fatalf("unexpected yaml:\n%s", out)
	}

	var got render.View
	if err := yaml.Unmarshal(out, &got); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if got.Selected != 1 || got.Total != 1 || !got.Panels[0].Fields[0].Checked {
		t.Fatalf("unexpected view %+v", got)
	}
}
