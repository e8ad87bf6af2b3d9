package client

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-careforms/pkg/contract"
	"github.com/goliatone/go-careforms/pkg/model"
	"github.com/goliatone/go-careforms/pkg/testsupport"
)

func newTestClient(t *testing.T, svc *testsupport.Service, opts ...Option) *Client {
	t.Helper()
	doc, err := contract.Default()
	if err != nil {
		t.Fatalf("contract: %v", err)
	}
	base := []Option{WithHTTPClient(svc.Client()), WithContract(doc)}
	c, err := New(svc.URL(), append(base, opts...)...)
	if err != nil {
		t.Fatalf("new client: %v", err)
	}
	return c
}

func TestNew_RejectsBadURL(t *testing.T) {
	for _, raw := range []string{"", "localhost:5000", "ftp://host", "http://"} {
		if _, err := New(raw); !errors.Is(err, ErrBaseURL) {
			t.Errorf("New(%q) error = %v, want ErrBaseURL", raw, err)
		}
	}
}

func TestCandidatesByName_SanitizesDisplayText(t *testing.T) {
	svc := testsupport.NewService(t)
	svc.SetProfiles("john", model.Profile{MedicalID: "M1", DisplayText: "<b>John Doe</b> (M1) &amp; co"})

	c := newTestClient(t, svc, WithRequestIDs(func() string { return "req-1" }))

	got, err := c.CandidatesByName(context.Background(), "John")
	if err != nil {
		t.Fatalf("lookup: %v", err)
	}
	want := []model.Profile{{MedicalID: "M1", DisplayText: "John Doe (M1) & co"}}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("profiles mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]string{"req-1"}, svc.RequestIDs()); diff != "" {
		t.Fatalf("request ids mismatch (-want +got):\n%s", diff)
	}
}

func TestCandidatesByName_NoMatches(t *testing.T) {
	svc := testsupport.NewService(t)
	c := newTestClient(t, svc)

	got, err := c.CandidatesByName(context.Background(), "Nobody")
	if err != nil {
		t.Fatalf("lookup: %v", err)
	}
	if len(got) != 0 {
		t.Fatalf("expected no profiles, got %#v", got)
	}
	if ids := svc.RequestIDs(); len(ids) != 1 || ids[0] == "" {
		t.Fatalf("expected a generated request id, got %#v", ids)
	}
}

func TestCandidatesByName_NullListIsEmpty(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"candidates":null}`))
	}))
	t.Cleanup(server.Close)

	doc, err := contract.Default()
	if err != nil {
		t.Fatalf("contract: %v", err)
	}
	c, err := New(server.URL, WithHTTPClient(server.Client()), WithContract(doc))
	if err != nil {
		t.Fatalf("new client: %v", err)
	}

	got, err := c.CandidatesByName(context.Background(), "John")
	if err != nil {
		t.Fatalf("lookup: %v", err)
	}
	if len(got) != 0 {
		t.Fatalf("expected no profiles, got %+v", got)
	}
}

func TestCandidatesByName_ServerErrors(t *testing.T) {
	cases := []struct {
		name     string
		failure  testsupport.Failure
		describe string
		verbatim bool
	}{
		{"json error", testsupport.JSONError(http.StatusInternalServerError, "database offline"), "database offline", true},
		{"plain error", testsupport.Failure{Status: http.StatusBadGateway, Body: "bad gateway"}, "Server error: 502", false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			svc := testsupport.NewService(t)
			svc.Fail("/get_candidates_by_name", tc.failure)
			c := newTestClient(t, svc)

			_, err := c.CandidatesByName(context.Background(), "John")
			var serverErr *ServerError
			if !errors.As(err, &serverErr) {
				t.Fatalf("expected ServerError, got %v", err)
			}
			if got := Describe(err); got != tc.describe {
				t.Fatalf("Describe = %q, want %q", got, tc.describe)
			}
			if _, ok := ServerMessage(err); ok != tc.verbatim {
				t.Fatalf("ServerMessage ok = %v, want %v", ok, tc.verbatim)
			}
		})
	}
}

func TestGenerate_Success(t *testing.T) {
	svc := testsupport.NewService(t)
	c := newTestClient(t, svc)

	doc, err := c.Generate(context.Background(), "/generate_hra_adult", GenerateRequest{
		SelectedFields: []string{"adult_name", "adult_dob"},
		CandidateName:  "Maria Sanchez",
	})
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	if diff := cmp.Diff(testsupport.DocumentBytes, doc.Data); diff != "" {
		t.Fatalf("document mismatch (-want +got):\n%s", diff)
	}
	if doc.Filename != "Maria Sanchez_adult_hra.docx" {
		t.Fatalf("unexpected filename %q", doc.Filename)
	}

	body, ok := svc.LastGenerate("/generate_hra_adult")
	if !ok {
		t.Fatalf("expected generation request")
	}
	want := testsupport.GenerateBody{
		SelectedFields: []string{"adult_name", "adult_dob"},
		CandidateName:  "Maria Sanchez",
	}
	if diff := cmp.Diff(want, body); diff != "" {
		t.Fatalf("request body mismatch (-want +got):\n%s", diff)
	}
}

func TestGenerate_AcceptsAnyBinaryMediaType(t *testing.T) {
	for _, contentType := range []string{"application/octet-stream", ""} {
		t.Run("type="+contentType, func(t *testing.T) {
			svc := testsupport.NewService(t)
			svc.SetDocumentContentType(contentType)
			c := newTestClient(t, svc)

			doc, err := c.Generate(context.Background(), "/generate_hra_adult", GenerateRequest{
				SelectedFields: []string{"adult_name"},
				CandidateName:  "Maria Sanchez",
			})
			if err != nil {
				t.Fatalf("generate: %v", err)
			}
			if diff := cmp.Diff(testsupport.DocumentBytes, doc.Data); diff != "" {
				t.Fatalf("document mismatch (-want +got):\n%s", diff)
			}
			if doc.ContentType != contentType {
				t.Fatalf("content type = %q, want %q", doc.ContentType, contentType)
			}
		})
	}
}

func TestGenerate_JSONBodyIsError(t *testing.T) {
	svc := testsupport.NewService(t)
	svc.Fail("/generate_reentry_care_plan", testsupport.JSONError(http.StatusOK, "Failed to generate care plan"))
	c := newTestClient(t, svc)

	_, err := c.Generate(context.Background(), "/generate_reentry_care_plan", GenerateRequest{
		SelectedFields: []string{"x"},
		CandidateName:  "John Doe",
	})
	msg, ok := ServerMessage(err)
	if !ok || msg != "Failed to generate care plan" {
		t.Fatalf("expected verbatim server message, got %q (%v)", msg, err)
	}
}

func TestGenerate_ContractRejectsBeforeSending(t *testing.T) {
	svc := testsupport.NewService(t)
	c := newTestClient(t, svc)

	_, err := c.Generate(context.Background(), "/generate_hra_juvenile", GenerateRequest{CandidateName: "Sofia Lee"})
	if !errors.Is(err, ErrInvalidRequest) {
		t.Fatalf("expected ErrInvalidRequest, got %v", err)
	}
	if n := svc.TotalRequests(); n != 0 {
		t.Fatalf("expected no network call, got %d", n)
	}
}

func TestHealth(t *testing.T) {
	svc := testsupport.NewService(t)
	c := newTestClient(t, svc)

	got, err := c.Health(context.Background())
	if err != nil {
		t.Fatalf("health: %v", err)
	}
	want := Health{Status: "healthy", Message: "Backend is running"}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("health mismatch (-want +got):\n%s", diff)
	}
}

func TestTimeout(t *testing.T) {
	svc := testsupport.NewService(t)
	svc.SetLookupDelay(time.Second)
	c := newTestClient(t, svc, WithTimeout(20*time.Millisecond))

	_, err := c.CandidatesByName(context.Background(), "John")
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Fatalf("expected deadline exceeded, got %v", err)
	}
}
