// Package preview serves a built site locally and rebuilds it when the
// source tree changes. Rebuilds are debounced, coalesced while one is
// running, and optionally forced on a fixed interval.
package preview

import (
	"context"
	"encoding/json"
	stderrors "errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"
	prom "github.com/prometheus/client_golang/prometheus"

	"github.com/docweave/docweave/internal/config"
	"github.com/docweave/docweave/internal/errors"
	"github.com/docweave/docweave/internal/events"
	"github.com/docweave/docweave/internal/metrics"
	"github.com/docweave/docweave/internal/sphinx"
)

// RebuildFunc regenerates the site. force requests a full rebuild without
// incremental skipping.
type RebuildFunc func(ctx context.Context, force bool) error

// buildStatus tracks the current build state for error display.
type buildStatus struct {
	mu           sync.RWMutex
	lastError    error
	lastBuilt    time.Time
	hasGoodBuild bool
}

func (bs *buildStatus) setError(err error) {
	bs.mu.Lock()
	defer bs.mu.Unlock()
	bs.lastError = err
}

func (bs *buildStatus) setSuccess() {
	bs.mu.Lock()
	defer bs.mu.Unlock()
	bs.lastError = nil
	bs.lastBuilt = time.Now()
	bs.hasGoodBuild = true
}

func (bs *buildStatus) snapshot() (lastError error, lastBuilt time.Time, hasGoodBuild bool) {
	bs.mu.RLock()
	defer bs.mu.RUnlock()
	return bs.lastError, bs.lastBuilt, bs.hasGoodBuild
}

// Server watches, rebuilds, and serves one builder's output.
type Server struct {
	cfg       *config.Config
	builder   string
	srcdir    string
	outdir    string
	rebuild   RebuildFunc
	recorder  metrics.Recorder
	publisher events.Publisher
	registry  *prom.Registry

	status     *buildStatus
	rebuildReq chan bool

	mu           sync.Mutex
	addr         string
	building     bool
	pending      bool
	pendingForce bool
}

// NewServer resolves the preview builder's paths and returns a Server that
// invokes rebuild. Metrics and events default to no-ops.
func NewServer(cfg *config.Config, rebuild RebuildFunc) (*Server, error) {
	section, builder := cfg.ResolveBuilder(cfg.Preview.Builder)
	paths, err := sphinx.Resolve(section, builder)
	if err != nil {
		return nil, err
	}
	if err := paths.Ensure(); err != nil {
		return nil, err
	}
	return &Server{
		cfg:        cfg,
		builder:    cfg.Preview.Builder,
		srcdir:     paths.Srcdir,
		outdir:     paths.Outdir,
		rebuild:    rebuild,
		recorder:   metrics.NoopRecorder{},
		publisher:  events.NopPublisher{},
		status:     &buildStatus{},
		rebuildReq: make(chan bool, 1),
	}, nil
}

// WithRecorder injects a metrics recorder.
func (s *Server) WithRecorder(r metrics.Recorder) *Server {
	if r != nil {
		s.recorder = r
	}
	return s
}

// WithPublisher injects an event publisher.
func (s *Server) WithPublisher(p events.Publisher) *Server {
	if p != nil {
		s.publisher = p
	}
	return s
}

// WithRegistry exposes reg on /metrics.
func (s *Server) WithRegistry(reg *prom.Registry) *Server {
	s.registry = reg
	return s
}

// Addr returns the bound listen address once Run is serving.
func (s *Server) Addr() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.addr
}

// Run builds once, serves the site, and rebuilds on changes until ctx is
// canceled.
func (s *Server) Run(ctx context.Context) error {
	// First build happens before serving so the initial page load has
	// content; a failure is surfaced by the error page, not fatal.
	s.runRebuild(ctx, false)

	ln, err := net.Listen("tcp", s.cfg.Preview.Addr)
	if err != nil {
		return errors.WrapError(err, errors.CategoryInternal,
			fmt.Sprintf("failed to listen on %s", s.cfg.Preview.Addr))
	}
	s.mu.Lock()
	s.addr = ln.Addr().String()
	s.mu.Unlock()

	httpSrv := &http.Server{Handler: s.routes(), ReadHeaderTimeout: 5 * time.Second}
	go func() {
		if err := httpSrv.Serve(ln); err != nil && !stderrors.Is(err, http.ErrServerClosed) {
			slog.Error("Preview server failed", "error", err)
		}
	}()
	slog.Info("Preview server listening", "addr", s.Addr(), "site", s.outdir)

	go s.rebuildWorker(ctx)

	if s.cfg.Preview.WatchEnabled() {
		if err := s.watch(ctx); err != nil {
			_ = httpSrv.Close()
			return err
		}
	}

	if interval := s.cfg.Preview.RebuildIntervalDuration(); interval > 0 {
		sched, err := s.schedulePeriodic(interval)
		if err != nil {
			_ = httpSrv.Close()
			return err
		}
		defer func() { _ = sched.Shutdown() }()
	}

	<-ctx.Done()
	slog.Info("Shutting down preview server")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := httpSrv.Shutdown(shutdownCtx); err != nil {
		slog.Warn("Preview server shutdown error", "error", err)
	}
	return nil
}

// requestRebuild queues a rebuild. A request already queued absorbs this
// one; the force flag survives through the pending state.
func (s *Server) requestRebuild(force bool) {
	select {
	case s.rebuildReq <- force:
	default:
		if force {
			s.mu.Lock()
			s.pendingForce = true
			s.mu.Unlock()
		}
	}
}

// rebuildWorker serializes rebuilds. Requests arriving during a build fold
// into a single followup run.
func (s *Server) rebuildWorker(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case force, ok := <-s.rebuildReq:
			if !ok {
				return
			}
			s.mu.Lock()
			if s.building {
				s.pending = true
				s.pendingForce = s.pendingForce || force
				s.mu.Unlock()
				continue
			}
			s.building = true
			force = force || s.pendingForce
			s.pendingForce = false
			s.mu.Unlock()

			s.runRebuild(ctx, force)

			s.mu.Lock()
			s.building = false
			again, againForce := s.pending, s.pendingForce
			s.pending, s.pendingForce = false, false
			s.mu.Unlock()
			if again {
				s.requestRebuild(againForce)
			}
		}
	}
}

func (s *Server) runRebuild(ctx context.Context, force bool) {
	slog.Info("Rebuilding site", "builder", s.builder, "force", force)
	start := time.Now()
	err := s.rebuild(ctx, force)
	duration := time.Since(start)

	outcome := metrics.OutcomeSuccess
	if err != nil {
		outcome = metrics.OutcomeFailure
		slog.Warn("Rebuild failed", "error", err)
		s.status.setError(err)
	} else {
		s.status.setSuccess()
	}
	s.recorder.ObserveBuildDuration(s.builder, duration)
	s.recorder.IncBuildOutcome(s.builder, outcome)

	event := events.Event{
		ID:       uuid.New().String(),
		Kind:     events.KindBuild,
		Builder:  s.builder,
		Outcome:  outcome,
		Duration: duration,
	}
	if err != nil {
		event.Error = err.Error()
	}
	if pubErr := s.publisher.Publish(ctx, event); pubErr != nil {
		slog.Warn("Failed to publish build event", "error", pubErr)
	}
}

func (s *Server) routes() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/healthz", s.handleHealth)
	if s.registry != nil {
		mux.Handle("/metrics", metrics.Handler(s.registry))
	}
	mux.Handle("/", s.siteHandler())
	return mux
}

// siteHandler serves the output directory. Until the first successful
// build, a failed build is reported instead of a half-written site.
func (s *Server) siteHandler() http.Handler {
	files := http.FileServer(http.Dir(s.outdir))
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if lastErr, _, good := s.status.snapshot(); lastErr != nil && !good {
			w.Header().Set("Content-Type", "text/plain; charset=utf-8")
			w.WriteHeader(http.StatusServiceUnavailable)
			fmt.Fprintf(w, "build failed:\n\n%v\n", lastErr)
			return
		}
		files.ServeHTTP(w, r)
	})
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	lastErr, lastBuilt, good := s.status.snapshot()
	resp := map[string]any{
		"status":     "ok",
		"good_build": good,
	}
	if !lastBuilt.IsZero() {
		resp["last_built"] = lastBuilt.UTC().Format(time.RFC3339)
	}
	if lastErr != nil {
		resp["status"] = "degraded"
		resp["error"] = lastErr.Error()
	}
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(resp)
}
