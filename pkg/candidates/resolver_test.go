package candidates

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"go.uber.org/goleak"

	"github.com/goliatone/go-careforms/pkg/model"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

type recordingLookup struct {
	mu       sync.Mutex
	names    []string
	profiles map[string][]model.Profile
	err      error
	block    map[string]chan struct{}
	started  chan string
}

func newRecordingLookup() *recordingLookup {
	return &recordingLookup{
		profiles: make(map[string][]model.Profile),
		block:    make(map[string]chan struct{}),
		started:  make(chan string, 16),
	}
}

func (l *recordingLookup) CandidatesByName(ctx context.Context, name string) ([]model.Profile, error) {
	l.mu.Lock()
	l.names = append(l.names, name)
	gate := l.block[name]
	profiles := l.profiles[name]
	err := l.err
	l.mu.Unlock()

	l.started <- name
	if gate != nil {
		select {
		case <-gate:
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	return profiles, err
}

func (l *recordingLookup) calls() []string {
	l.mu.Lock()
	defer l.mu.Unlock()
	return append([]string(nil), l.names...)
}

func TestUpdate_DebounceCoalescesBurst(t *testing.T) {
	lookup := newRecordingLookup()
	lookup.profiles["John"] = []model.Profile{{MedicalID: "M1", DisplayText: "John Doe (M1)"}}

	r := New(lookup, WithDebounce(30*time.Millisecond))
	defer r.Close()

	ctx := context.Background()
	for _, typed := range []string{"J", "Jo", "Joh", "John"} {
		if err := r.Update(ctx, typed); err != nil {
			t.Fatalf("update: %v", err)
		}
	}

	res, err := r.Latest(ctx)
	if err != nil {
		t.Fatalf("latest: %v", err)
	}
	if res.Query != "John" || res.CanonicalName != "John Doe (M1)" || res.Selected != "M1" {
		t.Fatalf("unexpected result %+v", res)
	}
	if diff := cmp.Diff([]string{"John"}, lookup.calls()); diff != "" {
		t.Fatalf("lookups mismatch (-want +got):\n%s", diff)
	}
}

func TestUpdate_StaleResultNeverPublished(t *testing.T) {
	lookup := newRecordingLookup()
	lookup.block["Jane"] = make(chan struct{})
	lookup.profiles["Jane"] = []model.Profile{{MedicalID: "old", DisplayText: "Jane Old"}}
	lookup.profiles["Jane Smith"] = []model.Profile{
		{MedicalID: "M2", DisplayText: "Jane Smith (M2)"},
		{MedicalID: "M3", DisplayText: "Jane Smith (M3)"},
	}

	var (
		mu        sync.Mutex
		published []string
	)
	r := New(lookup, WithDebounce(0), WithOnResult(func(res Result) {
		mu.Lock()
		published = append(published, res.Query)
		mu.Unlock()
	}))
	defer r.Close()

	ctx := context.Background()
	if err := r.Update(ctx, "Jane"); err != nil {
		t.Fatalf("update: %v", err)
	}
	if got := <-lookup.started; got != "Jane" {
		t.Fatalf("expected Jane lookup first, got %q", got)
	}
	if err := r.Update(ctx, "Jane Smith"); err != nil {
		t.Fatalf("update: %v", err)
	}

	res, err := r.Latest(ctx)
	if err != nil {
		t.Fatalf("latest: %v", err)
	}
	if res.Query != "Jane Smith" || !res.NeedsChoice() || res.CanonicalName != "" {
		t.Fatalf("unexpected result %+v", res)
	}

	r.Close()
	mu.Lock()
	defer mu.Unlock()
	if diff := cmp.Diff([]string{"Jane Smith"}, published); diff != "" {
		t.Fatalf("published mismatch (-want +got):\n%s", diff)
	}
}

func TestResolve_CachesSuccessfulLookups(t *testing.T) {
	lookup := newRecordingLookup()
	lookup.profiles["John Doe"] = []model.Profile{{MedicalID: "M1", DisplayText: "John Doe (M1)"}}

	r := New(lookup, WithCacheTTL(time.Minute))
	defer r.Close()

	ctx := context.Background()
	first, err := r.Resolve(ctx, "John Doe")
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	second, err := r.Resolve(ctx, "  john doe ")
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if first.Cached || !second.Cached {
		t.Fatalf("expected only the second lookup to hit the cache: %+v %+v", first, second)
	}
	if diff := cmp.Diff(first.Profiles, second.Profiles); diff != "" {
		t.Fatalf("cached profiles mismatch:\n%s", diff)
	}
	if n := len(lookup.calls()); n != 1 {
		t.Fatalf("expected one service call, got %d", n)
	}
}

func TestResolve_ErrorsAreNotCached(t *testing.T) {
	lookup := newRecordingLookup()
	lookup.err = errors.New("service down")

	r := New(lookup)
	defer r.Close()

	ctx := context.Background()
	for i := 0; i < 2; i++ {
		res, err := r.Resolve(ctx, "John")
		if err == nil || res.Err == nil || len(res.Profiles) != 0 {
			t.Fatalf("expected error result, got %+v", res)
		}
	}
	if n := len(lookup.calls()); n != 2 {
		t.Fatalf("expected two service calls, got %d", n)
	}
}

func TestUpdate_BlankNamePublishesImmediately(t *testing.T) {
	lookup := newRecordingLookup()

	var got []Result
	r := New(lookup, WithOnResult(func(res Result) { got = append(got, res) }))
	defer r.Close()

	if err := r.Update(context.Background(), "   "); err != nil {
		t.Fatalf("update: %v", err)
	}
	if len(got) != 1 || len(got[0].Profiles) != 0 || got[0].Err != nil {
		t.Fatalf("expected one empty result, got %+v", got)
	}
	if n := len(lookup.calls()); n != 0 {
		t.Fatalf("expected no service call, got %d", n)
	}
}

func TestCancel_DropsPendingLookup(t *testing.T) {
	lookup := newRecordingLookup()
	r := New(lookup, WithDebounce(time.Hour))

	ctx := context.Background()
	if err := r.Update(ctx, "John"); err != nil {
		t.Fatalf("update: %v", err)
	}
	r.Cancel()

	waitCtx, cancel := context.WithTimeout(ctx, time.Second)
	defer cancel()
	if _, err := r.Latest(waitCtx); err != nil {
		t.Fatalf("latest after cancel: %v", err)
	}

	if err := r.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}
	if n := len(lookup.calls()); n != 0 {
		t.Fatalf("expected no service call, got %d", n)
	}
}

func TestClose_RejectsFurtherWork(t *testing.T) {
	r := New(newRecordingLookup())
	if err := r.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}
	if err := r.Update(context.Background(), "John"); !errors.Is(err, ErrClosed) {
		t.Fatalf("expected ErrClosed, got %v", err)
	}
	if _, err := r.Resolve(context.Background(), "John"); !errors.Is(err, ErrClosed) {
		t.Fatalf("expected ErrClosed, got %v", err)
	}
	if err := r.Close(); err != nil {
		t.Fatalf("second close: %v", err)
	}
}

func TestClose_CancelsInFlightLookup(t *testing.T) {
	lookup := newRecordingLookup()
	lookup.block["John"] = make(chan struct{})

	r := New(lookup, WithDebounce(0))
	if err := r.Update(context.Background(), "John"); err != nil {
		t.Fatalf("update: %v", err)
	}
	<-lookup.started

	done := make(chan struct{})
	go func() {
		_ = r.Close()
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatalf("close did not cancel the in-flight lookup")
	}
}
