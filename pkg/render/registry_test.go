package render

import (
	"context"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-careforms/pkg/model"
)

type stubRenderer struct{ name string }

func (s stubRenderer) Name() string        { return s.name }
func (s stubRenderer) ContentType() string { return "text/plain" }
func (s stubRenderer) Render(_ context.Context, tpl model.Template, opts RenderOptions) ([]byte, error) {
	return []byte(opts.Title + ":" + strings.Join(tpl.FieldIDs(), ",")), nil
}

func TestRegistry_RegisterAndRender(t *testing.T) {
	reg := NewRegistry()
	reg.MustRegister(stubRenderer{name: "b"})
	reg.MustRegister(stubRenderer{name: "a"})

	if err := reg.Register(stubRenderer{name: "a"}); err == nil {
		t.Fatalf("expected duplicate error")
	}
	if err := reg.Register(nil); err == nil {
		t.Fatalf("expected nil renderer error")
	}
	if diff := cmp.Diff([]string{"a", "b"}, reg.List()); diff != "" {
		t.Fatalf("list mismatch (-want +got):\n%s", diff)
	}

	tpl := model.BuildTemplate("generic", []model.Section{{Title: "General", Fields: []string{"field_1", "field_2"}}})
	out, contentType, err := reg.Render(context.Background(), "a", tpl, RenderOptions{Title: "Warm Handoff"})
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if string(out) != "Warm Handoff:field_1,field_2" || contentType != "text/plain" {
		t.Fatalf("unexpected output %q %q", out, contentType)
	}

	_, _, err = reg.Render(context.Background(), "pdf", tpl, RenderOptions{})
	if err == nil || !strings.Contains(err.Error(), "available: a, b") {
		t.Fatalf("expected unknown format error listing names, got %v", err)
	}
}

func TestBuildView(t *testing.T) {
	tpl := model.BuildTemplate("generic", []model.Section{
		{Title: "One", Fields: []string{"a", "b"}},
		{Title: "Two", Fields: []string{"c"}},
	})
	view := BuildView(tpl, RenderOptions{Title: "Warm Handoff", Selected: []string{"b", "c", "zzz"}})

	want := View{
		Title:    "Warm Handoff",
		Set:      "generic",
		Selected: 2,
		Total:    3,
		Panels: []PanelView{
			{ID: "panel-1", Title: "One", Fields: []FieldView{{ID: "a", Label: "a"}, {ID: "b", Label: "b", Checked: true}}},
			{ID: "panel-2", Title: "Two", Fields: []FieldView{{ID: "c", Label: "c", Checked: true}}},
		},
	}
	if diff := cmp.Diff(want, view); diff != "" {
		t.Fatalf("view mismatch (-want +got):\n%s", diff)
	}
}
