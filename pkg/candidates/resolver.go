// Package candidates resolves a typed candidate name into service profiles.
//
// A Resolver debounces keystroke-driven updates, cancels superseded requests
// and only ever publishes the newest answer, so a slow response for an old
// name can never overwrite the result for what the user typed last.
package candidates

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"

	"github.com/patrickmn/go-cache"
	"github.com/rs/zerolog"

	"github.com/goliatone/go-careforms/pkg/model"
)

const (
	// DefaultDebounce is the quiet period before a lookup is sent.
	DefaultDebounce = 500 * time.Millisecond
	// DefaultCacheTTL is how long successful lookups are reused.
	DefaultCacheTTL = time.Minute
)

// ErrClosed is returned once the resolver has been closed.
var ErrClosed = errors.New("candidates: resolver closed")

// Lookup fetches profiles for a name.
type Lookup interface {
	CandidatesByName(ctx context.Context, name string) ([]model.Profile, error)
}

// LookupFunc adapts a function to Lookup.
type LookupFunc func(ctx context.Context, name string) ([]model.Profile, error)

func (fn LookupFunc) CandidatesByName(ctx context.Context, name string) ([]model.Profile, error) {
	return fn(ctx, name)
}

// Result is the outcome of one lookup.
type Result struct {
	Query    string
	Profiles []model.Profile
	// Selected and CanonicalName are set only when exactly one profile
	// matched.
	Selected      string
	CanonicalName string
	Err           error
	Seq           uint64
	Cached        bool
}

// NeedsChoice reports whether the user has to pick among several profiles.
func (r Result) NeedsChoice() bool {
	return len(r.Profiles) > 1
}

func newResult(query string, profiles []model.Profile, err error) Result {
	res := Result{Query: query, Err: err}
	if err != nil {
		return res
	}
	res.Profiles = append([]model.Profile(nil), profiles...)
	if len(res.Profiles) == 1 {
		res.Selected = res.Profiles[0].MedicalID
		res.CanonicalName = res.Profiles[0].DisplayText
	}
	return res
}

// Resolver coordinates lookups. It is safe for concurrent use.
type Resolver struct {
	lookup   Lookup
	debounce time.Duration
	cache    *cache.Cache
	logger   zerolog.Logger
	onResult func(Result)

	mu        sync.Mutex
	seq       uint64
	delivered uint64
	latest    Result
	ready     chan struct{}
	timer     *time.Timer
	cancel    context.CancelFunc
	closed    bool
	wg        sync.WaitGroup

	notifyMu sync.Mutex
	notified uint64
}

// New creates a resolver backed by lookup.
func New(lookup Lookup, opts ...Option) *Resolver {
	cfg := options{
		debounce: DefaultDebounce,
		cacheTTL: DefaultCacheTTL,
		logger:   zerolog.Nop(),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(&cfg)
		}
	}

	r := &Resolver{
		lookup:   lookup,
		debounce: cfg.debounce,
		logger:   cfg.logger,
		onResult: cfg.onResult,
		ready:    make(chan struct{}),
	}
	close(r.ready)
	if cfg.cacheTTL > 0 {
		// No janitor goroutine: expired entries are skipped on Get and
		// pruned on each store.
		r.cache = cache.New(cfg.cacheTTL, 0)
	}
	return r
}

// Update schedules a debounced lookup for name, superseding any pending or
// in-flight one. Blank names publish an empty result at once; in that case
// OnResult runs on the calling goroutine.
func (r *Resolver) Update(ctx context.Context, name string) error {
	query := strings.TrimSpace(name)

	r.mu.Lock()
	if r.closed {
		r.mu.Unlock()
		return ErrClosed
	}
	seq := r.supersedeLocked()

	if query == "" {
		res := newResult(name, nil, nil)
		res.Seq = seq
		r.publishLocked(res)
		r.mu.Unlock()
		r.notify(res)
		return nil
	}

	r.wg.Add(1)
	r.timer = time.AfterFunc(r.debounce, func() {
		defer r.wg.Done()
		r.execute(ctx, seq, name)
	})
	r.mu.Unlock()

	r.logger.Debug().Uint64("seq", seq).Str("name", query).Msg("candidate lookup scheduled")
	return nil
}

// Resolve looks name up immediately and waits for the answer. It takes part
// in sequencing: a later Update or Resolve makes this result stale and it is
// not published.
func (r *Resolver) Resolve(ctx context.Context, name string) (Result, error) {
	r.mu.Lock()
	if r.closed {
		r.mu.Unlock()
		return Result{}, ErrClosed
	}
	seq := r.supersedeLocked()
	r.mu.Unlock()

	res := r.execute(ctx, seq, name)
	return res, res.Err
}

// Latest blocks until the newest scheduled lookup has been published and
// returns it.
func (r *Resolver) Latest(ctx context.Context) (Result, error) {
	for {
		r.mu.Lock()
		if r.delivered == r.seq {
			res := r.latest
			r.mu.Unlock()
			return res, nil
		}
		if r.closed {
			r.mu.Unlock()
			return Result{}, ErrClosed
		}
		ready := r.ready
		r.mu.Unlock()

		select {
		case <-ready:
		case <-ctx.Done():
			return Result{}, ctx.Err()
		}
	}
}

// Cancel drops the pending or in-flight lookup without publishing anything.
func (r *Resolver) Cancel() {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.closed {
		return
	}
	r.supersedeLocked()
	r.delivered = r.seq
	close(r.ready)
}

// Close cancels outstanding work and waits for background goroutines.
func (r *Resolver) Close() error {
	r.mu.Lock()
	if r.closed {
		r.mu.Unlock()
		return nil
	}
	r.supersedeLocked()
	r.delivered = r.seq
	r.closed = true
	close(r.ready)
	r.mu.Unlock()

	r.wg.Wait()
	return nil
}

// supersedeLocked stops the timer, cancels the in-flight request and opens
// a new sequence number. Waiters on the previous one are woken.
func (r *Resolver) supersedeLocked() uint64 {
	if r.timer != nil {
		if r.timer.Stop() {
			r.wg.Done()
		}
		r.timer = nil
	}
	if r.cancel != nil {
		r.cancel()
		r.cancel = nil
	}
	if r.delivered != r.seq {
		close(r.ready)
	}
	r.seq++
	r.ready = make(chan struct{})
	return r.seq
}

func (r *Resolver) execute(ctx context.Context, seq uint64, name string) Result {
	key := cacheKey(name)
	if r.cache != nil {
		if cached, ok := r.cache.Get(key); ok {
			res := newResult(name, cached.([]model.Profile), nil)
			res.Seq = seq
			res.Cached = true
			r.finish(res)
			return res
		}
	}

	r.mu.Lock()
	if seq != r.seq {
		r.mu.Unlock()
		return Result{Query: name, Seq: seq, Err: context.Canceled}
	}
	lookupCtx, cancel := context.WithCancel(ctx)
	r.cancel = cancel
	r.mu.Unlock()
	defer cancel()

	started := time.Now()
	profiles, err := r.lookup.CandidatesByName(lookupCtx, strings.TrimSpace(name))
	res := newResult(name, profiles, err)
	res.Seq = seq

	if err == nil && r.cache != nil {
		r.cache.DeleteExpired()
		r.cache.SetDefault(key, append([]model.Profile(nil), profiles...))
	}
	r.logger.Debug().
		Uint64("seq", seq).
		Int("profiles", len(res.Profiles)).
		Dur("elapsed", time.Since(started)).
		Err(err).
		Msg("candidate lookup finished")

	r.finish(res)
	return res
}

func (r *Resolver) finish(res Result) {
	r.mu.Lock()
	if res.Seq != r.seq || r.closed {
		r.mu.Unlock()
		r.logger.Debug().Uint64("seq", res.Seq).Str("name", res.Query).Msg("stale candidate lookup discarded")
		return
	}
	r.cancel = nil
	r.publishLocked(res)
	r.mu.Unlock()
	r.notify(res)
}

func (r *Resolver) publishLocked(res Result) {
	r.latest = res
	r.delivered = res.Seq
	close(r.ready)
}

func (r *Resolver) notify(res Result) {
	if r.onResult == nil {
		return
	}
	r.notifyMu.Lock()
	defer r.notifyMu.Unlock()
	if res.Seq <= r.notified {
		return
	}
	r.notified = res.Seq
	r.onResult(res)
}

func cacheKey(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}
