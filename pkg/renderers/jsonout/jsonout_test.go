package jsonout

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-careforms/pkg/model"
	"github.com/goliatone/go-careforms/pkg/render"
)

func TestRender(t *testing.T) {
	tpl := model.BuildTemplate("generic", []model.Section{{Title: "General", Fields: []string{"field_1", "field_2"}}})

	out, err := New("  ").Render(context.Background(), tpl, render.RenderOptions{
		Title:    "Warm Handoff",
		Selected: []string{"field_2"},
	})
	if err != nil {
		t.Fatalf("render: %v", err)
	}

	var got render.View
	if err := json.Unmarshal(out, &got); err != nil {
		t.Fatalf("decode: %v\n%s", err, out)
	}
	want := render.BuildView(tpl, render.RenderOptions{Title: "Warm Handoff", Selected: []string{"field_2"}})
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("view mismatch (-want +got):\n%s", diff)
	}
}

func TestRender_CancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := New("").Render(ctx, model.Template{}, render.RenderOptions{}); err == nil {
		t.Fatalf("expected context error")
	}
}
