package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/gorilla/websocket"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"

	"github.com/vango-dev/quill/internal/config"
	"github.com/vango-dev/quill/pkg/memtree"
	"github.com/vango-dev/quill/pkg/telemetry"
)

const shutdownTimeout = 5 * time.Second

func serveCmd(opts *globalOptions) *cobra.Command {
	var addr string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the demo app over HTTP",
		Long: `Serve the demo app over HTTP.

  GET    /              current HTML
  GET    /ops           host operations since the last call
  GET    /ws            WebSocket stream of HTML and operations
  POST   /increment     increment the counter
  POST   /items?name=x  append an item
  POST   /reverse       reverse the list
  DELETE /items/{name}  remove an item
  GET    /metrics       Prometheus metrics, when enabled
  GET    /healthz       liveness`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := opts.loadConfig()
			if err != nil {
				return err
			}
			if addr != "" {
				cfg.Serve.Addr = addr
			}
			logger := cfg.Logger(cmd.ErrOrStderr())

			handler, err := newServeHandler(cfg, logger)
			if err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			success(cmd.OutOrStdout(), "Serving on http://%s", cfg.Serve.Addr)
			return listenAndServe(ctx, cfg.Serve.Addr, handler, logger)
		},
	}

	cmd.Flags().StringVarP(&addr, "addr", "a", "", "Listen address (overrides serve.addr)")

	return cmd
}

// newServeHandler mounts a demo app and returns its HTTP routes.
func newServeHandler(cfg *config.Config, logger *slog.Logger) (http.Handler, error) {
	o := demoOptions{
		logger:       logger,
		maxRecursion: cfg.Scheduler.MaxRecursion,
		items:        []string{"a", "b"},
	}

	var registry *prometheus.Registry
	if cfg.Metrics.Enabled {
		registry = prometheus.NewRegistry()
		registry.MustRegister(
			collectors.NewGoCollector(),
			collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		)
		o.metrics = telemetry.NewMetrics(
			telemetry.WithNamespace(cfg.Metrics.Namespace),
			telemetry.WithRegistry(registry),
		)
	}
	if cfg.Tracing.Enabled {
		o.tracer = telemetry.NewTracer(telemetry.WithTracerName(cfg.Tracing.TracerName))
	}

	d, err := newDemoApp(o)
	if err != nil {
		return nil, err
	}
	d.Ops()

	s := &demoServer{
		demo:    d,
		logger:  logger,
		clients: make(map[*websocket.Conn]struct{}),
	}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(requestLogger(logger))

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("ok"))
	})
	if registry != nil {
		r.Handle("/metrics", promhttp.HandlerFor(registry, promhttp.HandlerOpts{ErrorHandling: promhttp.ContinueOnError}))
	}

	r.Get("/", s.handleHTML)
	r.Get("/ops", s.handleOps)
	r.Get("/ws", s.handleLive)
	r.Post("/increment", s.mutate(func(ctx context.Context, d *demoApp) error {
		return d.Increment(ctx)
	}))
	r.Post("/reverse", s.mutate(func(ctx context.Context, d *demoApp) error {
		return d.Reverse(ctx)
	}))
	r.Post("/items", s.handleAdd)
	r.Delete("/items/{name}", s.handleRemove)

	return r, nil
}

// demoServer serializes requests onto one demo app.
type demoServer struct {
	mu     sync.Mutex
	demo   *demoApp
	logger *slog.Logger

	// Guarded by mu.
	pending memtree.Log
	clients map[*websocket.Conn]struct{}
}

func (s *demoServer) writeHTML(w http.ResponseWriter, status int) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	fmt.Fprintln(w, s.demo.HTML())
}

func (s *demoServer) fail(w http.ResponseWriter, r *http.Request, err error) {
	s.logger.Error("dispatch failed",
		"path", r.URL.Path,
		"request_id", middleware.GetReqID(r.Context()),
		"error", err,
	)
	http.Error(w, err.Error(), http.StatusInternalServerError)
}

func (s *demoServer) handleHTML(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.writeHTML(w, http.StatusOK)
}

func (s *demoServer) handleOps(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.publish(s.demo.Ops())
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	fmt.Fprint(w, s.pending.String())
	s.pending = nil
}

func (s *demoServer) mutate(fn func(ctx context.Context, d *demoApp) error) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		s.mu.Lock()
		defer s.mu.Unlock()
		err := fn(r.Context(), s.demo)
		s.publish(s.demo.Ops())
		if err != nil {
			s.fail(w, r, err)
			return
		}
		s.writeHTML(w, http.StatusOK)
	}
}

func (s *demoServer) handleAdd(w http.ResponseWriter, r *http.Request) {
	name := r.URL.Query().Get("name")
	if name == "" {
		http.Error(w, "missing name", http.StatusBadRequest)
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	for _, item := range s.demo.Items() {
		if item == name {
			http.Error(w, fmt.Sprintf("item %q already exists", name), http.StatusConflict)
			return
		}
	}
	err := s.demo.Add(r.Context(), name)
	s.publish(s.demo.Ops())
	if err != nil {
		s.fail(w, r, err)
		return
	}
	s.writeHTML(w, http.StatusCreated)
}

func (s *demoServer) handleRemove(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")

	s.mu.Lock()
	defer s.mu.Unlock()
	found, err := s.demo.Remove(r.Context(), name)
	s.publish(s.demo.Ops())
	if err != nil {
		s.fail(w, r, err)
		return
	}
	if !found {
		http.Error(w, fmt.Sprintf("item %q not found", name), http.StatusNotFound)
		return
	}
	s.writeHTML(w, http.StatusOK)
}

// requestLogger logs one line per request at debug level.
func requestLogger(logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
			start := time.Now()
			next.ServeHTTP(ww, r)
			logger.Debug("request",
				"method", r.Method,
				"path", r.URL.Path,
				"status", ww.Status(),
				"duration", time.Since(start),
				"request_id", middleware.GetReqID(r.Context()),
			)
		})
	}
}

// listenAndServe serves handler on addr until ctx is done, then shuts down
// gracefully.
func listenAndServe(ctx context.Context, addr string, handler http.Handler, logger *slog.Logger) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("server starting", "address", addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if err != http.ErrServerClosed {
			return err
		}
		return nil

	case <-ctx.Done():
		logger.Info("shutting down...")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			logger.Error("shutdown error", "error", err)
			return err
		}
		logger.Info("server shutdown complete")
		return nil
	}
}
