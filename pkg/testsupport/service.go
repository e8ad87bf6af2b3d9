package testsupport

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/goliatone/go-careforms/pkg/documents"
	"github.com/goliatone/go-careforms/pkg/model"
)

// DocumentBytes is the payload returned by successful generation calls.
var DocumentBytes = []byte("PK\x03\x04careforms-test-document")

// DocxContentType is the media type of generated documents.
const DocxContentType = "application/vnd.openxmlformats-officedocument.wordprocessingml.document"

// Failure describes a canned response injected for one path.
type Failure struct {
	Status      int
	ContentType string
	Body        string
}

// JSONError builds a Failure carrying {"error": message}.
func JSONError(status int, message string) Failure {
	body, _ := json.Marshal(map[string]string{"error": message})
	return Failure{Status: status, ContentType: "application/json", Body: string(body)}
}

// GenerateBody is the decoded body of a generation request.
type GenerateBody struct {
	SelectedFields  []string `json:"selected_fields"`
	CandidateName   string   `json:"candidate_name"`
	SelectedProfile string   `json:"selected_profile"`
}

// Service is an in-process fake of the document service.
type Service struct {
	server *httptest.Server

	mu          sync.Mutex
	profiles    map[string][]model.Profile
	failures    map[string]Failure
	requests    map[string]int
	generated   map[string]GenerateBody
	lookups     []string
	requestIDs  []string
	lookupDelay time.Duration
	docType     string
}

// NewService starts a fake service and closes it when the test ends.
func NewService(t testing.TB) *Service {
	t.Helper()

	s := &Service{
		profiles:  make(map[string][]model.Profile),
		failures:  make(map[string]Failure),
		requests:  make(map[string]int),
		generated: make(map[string]GenerateBody),
		docType:   DocxContentType,
	}

	mux := http.NewServeMux()
	mux.HandleFunc("/health", s.handleHealth)
	mux.HandleFunc("/get_candidates_by_name", s.handleLookup)
	kinds := documents.Default()
	for _, name := range kinds.List() {
		kind, _ := kinds.Get(name)
		mux.HandleFunc(kind.Endpoint, s.handleGenerate(kind))
	}

	s.server = httptest.NewServer(s.track(mux))
	t.Cleanup(s.server.Close)
	return s
}

// URL returns the service root.
func (s *Service) URL() string {
	return s.server.URL
}

// Client returns an HTTP client bound to the fake server.
func (s *Service) Client() *http.Client {
	return s.server.Client()
}

// SetProfiles registers the lookup answer for name (case-insensitive).
func (s *Service) SetProfiles(name string, profiles ...model.Profile) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.profiles[normalize(name)] = append([]model.Profile(nil), profiles...)
}

// Fail makes every request to path answer with f.
func (s *Service) Fail(path string, f Failure) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.failures[path] = f
}

// Recover removes an injected failure.
func (s *Service) Recover(path string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.failures, path)
}

// SetLookupDelay delays lookup answers, honouring request cancellation.
func (s *Service) SetLookupDelay(d time.Duration) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lookupDelay = d
}

// SetDocumentContentType changes the media type of generated documents. An
// empty value sends no Content-Type header at all.
func (s *Service) SetDocumentContentType(contentType string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.docType = contentType
}

// Requests counts calls received on path.
func (s *Service) Requests(path string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.requests[path]
}

// TotalRequests counts every call received.
func (s *Service) TotalRequests() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	total := 0
	for _, n := range s.requests {
		total += n
	}
	return total
}

// Lookups returns the candidate names looked up so far, in arrival order.
func (s *Service) Lookups() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.lookups...)
}

// LastGenerate returns the latest generation body received on path.
func (s *Service) LastGenerate(path string) (GenerateBody, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	body, ok := s.generated[path]
	return body, ok
}

// RequestIDs returns the X-Request-ID values seen so far.
func (s *Service) RequestIDs() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.requestIDs...)
}

func (s *Service) track(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		s.mu.Lock()
		s.requests[r.URL.Path]++
		s.requestIDs = append(s.requestIDs, r.Header.Get("X-Request-ID"))
		failure, failing := s.failures[r.URL.Path]
		s.mu.Unlock()

		if failing {
			if failure.ContentType != "" {
				w.Header().Set("Content-Type", failure.ContentType)
			}
			w.WriteHeader(failure.Status)
			_, _ = w.Write([]byte(failure.Body))
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (s *Service) handleHealth(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeJSON(w, http.StatusMethodNotAllowed, map[string]string{"error": "method not allowed"})
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "healthy", "message": "Backend is running"})
}

func (s *Service) handleLookup(w http.ResponseWriter, r *http.Request) {
	var body struct {
		CandidateName string `json:"candidate_name"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil || strings.TrimSpace(body.CandidateName) == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "Candidate name is required"})
		return
	}

	s.mu.Lock()
	s.lookups = append(s.lookups, body.CandidateName)
	profiles := s.profiles[normalize(body.CandidateName)]
	delay := s.lookupDelay
	s.mu.Unlock()

	if delay > 0 {
		select {
		case <-time.After(delay):
		case <-r.Context().Done():
			return
		}
	}
	if profiles == nil {
		profiles = []model.Profile{}
	}
	writeJSON(w, http.StatusOK, map[string]any{"candidates": profiles})
}

func (s *Service) handleGenerate(kind documents.Kind) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var body GenerateBody
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
			return
		}
		if body.CandidateName == "" {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "Candidate name is required"})
			return
		}
		if len(body.SelectedFields) == 0 {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "At least one field must be selected"})
			return
		}

		s.mu.Lock()
		s.generated[kind.Endpoint] = body
		docType := s.docType
		s.mu.Unlock()

		if docType == "" {
			// A nil entry stops net/http from sniffing a type.
			w.Header()["Content-Type"] = nil
		} else {
			w.Header().Set("Content-Type", docType)
		}
		w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", kind.Filename(body.CandidateName)))
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write(DocumentBytes)
	}
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func normalize(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}
