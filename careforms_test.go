package careforms

import (
	"context"
	"io/fs"
	"strings"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-careforms/pkg/model"
	"github.com/goliatone/go-careforms/pkg/render"
	"github.com/goliatone/go-careforms/pkg/renderers/tui"
	"github.com/goliatone/go-careforms/pkg/testsupport"
)

func TestNewSession_GeneratesThroughFacade(t *testing.T) {
	svc := testsupport.NewService(t)
	svc.SetProfiles("john doe", model.Profile{MedicalID: "M1", DisplayText: "John Doe (M1)"})

	written := map[string][]byte{}
	sess, err := NewSession(svc.URL(),
		WithHTTPClient(svc.Client()),
		WithLookupDebounce(time.Hour),
		WithLookupCacheTTL(0),
		WithOutputDir("out"),
		WithFileWriter(func(path string, data []byte) error {
			written[path] = data
			return nil
		}),
	)
	if err != nil {
		t.Fatalf("new session: %v", err)
	}
	t.Cleanup(func() { _ = sess.Close() })

	ctx := context.Background()
	ctrl := sess.Controller
	ctrl.SetCandidateName(ctx, "John Doe")
	if err := ctrl.LookupNow(ctx); err != nil {
		t.Fatalf("lookup: %v", err)
	}
	if got := ctrl.View().CandidateName; got != "John Doe (M1)" {
		t.Fatalf("expected auto-filled profile name, got %q", got)
	}
	ctrl.SelectAll(true)

	outcome, err := ctrl.Submit(ctx)
	if err != nil {
		t.Fatalf("submit: %v", err)
	}
	if outcome.Path != "out/John Doe (M1)_reentry_care_plan.docx" {
		t.Fatalf("unexpected path %q", outcome.Path)
	}
	if diff := cmp.Diff(testsupport.DocumentBytes, written[outcome.Path]); diff != "" {
		t.Fatalf("written document mismatch (-want +got):\n%s", diff)
	}
	if ids := svc.RequestIDs(); len(ids) == 0 || ids[0] == "" {
		t.Fatalf("expected request ids to be sent, got %v", ids)
	}
}

func TestNewSession_RejectsBadURL(t *testing.T) {
	if _, err := NewSession("localhost:5000"); err == nil {
		t.Fatalf("expected base url error")
	}
}

func TestNewRenderRegistry(t *testing.T) {
	registry, err := NewRenderRegistry()
	if err != nil {
		t.Fatalf("registry: %v", err)
	}
	if diff := cmp.Diff([]string{"json", "text", "yaml"}, registry.List()); diff != "" {
		t.Fatalf("renderers mismatch (-want +got):\n%s", diff)
	}

	tpl := model.BuildTemplate("generic", []model.Section{{Title: "General", Fields: []string{"field_1"}}})
	out, contentType, err := registry.Render(context.Background(), "text", tpl, render.RenderOptions{})
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if !strings.HasPrefix(contentType, "text/plain") || !strings.Contains(string(out), "field_1") {
		t.Fatalf("unexpected text output %q (%s)", out, contentType)
	}
}

func TestDefaultThemeManifest_PlainVariant(t *testing.T) {
	got := tui.ThemeFromManifest(DefaultThemeManifest(), "plain")
	want := tui.Theme{InfoPrefix: "- ", ErrorPrefix: "error: ", SuccessPrefix: "ok: "}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("theme mismatch (-want +got):\n%s", diff)
	}
}

func TestEmbeddedFilesystems(t *testing.T) {
	if _, err := fs.ReadFile(EmbeddedTemplates(), "template.tpl"); err != nil {
		t.Fatalf("expected checklist template to be readable: %v", err)
	}
	if _, err := fs.ReadFile(EmbeddedCatalog(), "reentry.yaml"); err != nil {
		t.Fatalf("expected reentry section table to be readable: %v", err)
	}
	if !strings.Contains(string(ServiceContract()), "/get_candidates_by_name") {
		t.Fatalf("expected contract to describe the lookup endpoint")
	}
}
