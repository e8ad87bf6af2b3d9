package template

import (
	"bytes"
	"errors"
	"testing"
	"testing/fstest"
)

func TestEngine_RenderStringPlainText(t *testing.T) {
	engine, err := New(WithPlainText())
	if err != nil {
		t.Fatalf("new engine: %v", err)
	}

	var buf bytes.Buffer
	got, err := engine.RenderString("Failed: {{ error }} for {{ name|trim }}", map[string]any{
		"error": errors.New(`"quoted" & <raw>`),
		"name":  "  Jane  ",
	}, &buf)
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	want := `Failed: "quoted" & <raw> for Jane`
	if got != want {
		t.Fatalf("got %q, want %q", got, want)
	}
	if buf.String() != want {
		t.Fatalf("writer got %q", buf.String())
	}
}

func TestEngine_RenderStringEscapesByDefault(t *testing.T) {
	engine, err := New()
	if err != nil {
		t.Fatalf("new engine: %v", err)
	}
	got, err := engine.RenderString("{{ v }}", map[string]any{"v": "<b>"})
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if got != "&lt;b&gt;" {
		t.Fatalf("expected escaped output, got %q", got)
	}
}

func TestEngine_RenderTemplateFromFS(t *testing.T) {
	files := fstest.MapFS{
		"panel.tpl": {Data: []byte("{% for f in panel.fields %}{{ f.label }};{% endfor %}")},
	}
	engine, err := New(WithFS(files), WithPlainText())
	if err != nil {
		t.Fatalf("new engine: %v", err)
	}

	data := map[string]any{
		"panel": struct {
			Fields []struct {
				Label string `json:"label"`
			} `json:"fields"`
		}{Fields: []struct {
			Label string `json:"label"`
		}{{Label: "a&b"}, {Label: "c"}}},
	}
	got, err := engine.RenderTemplate("panel", data)
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if got != "a&b;c;" {
		t.Fatalf("got %q", got)
	}

	if _, err := engine.RenderTemplate("missing", nil); err == nil {
		t.Fatalf("expected missing template error")
	}
}

func TestEngine_GlobalData(t *testing.T) {
	engine, err := New(WithPlainText(), WithGlobalData(map[string]any{"app": "careforms"}))
	if err != nil {
		t.Fatalf("new engine: %v", err)
	}
	got, err := engine.RenderString("{{ app }}", nil)
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if got != "careforms" {
		t.Fatalf("got %q", got)
	}
}

func TestEngine_WithoutFS(t *testing.T) {
	engine, err := New(WithPlainText())
	if err != nil {
		t.Fatalf("new engine: %v", err)
	}
	got, err := engine.RenderString("{{ greeting }}", map[string]any{"greeting": "hello"})
	if err != nil || got != "hello" {
		t.Fatalf("render string = %q, %v", got, err)
	}
	if _, err := engine.RenderTemplate("panel", nil); err == nil {
		t.Fatalf("expected error for named template without a filesystem")
	}
}
