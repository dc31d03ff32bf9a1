package app

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/rcrowley/go-metrics"
	"github.com/vk/bindgraph/internal/ctxlog"
)

const (
	maxBodyBytes    = 4 << 20
	requestFilename = "request.hcl"
	shutdownTimeout = 5 * time.Second
)

// Router returns the HTTP surface.
func (a *App) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RealIP)
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(a.requestLogger)

	r.Get("/health", a.healthHandler)
	r.Get("/v1/plans", a.plansHandler)
	r.Post("/v1/resolve", a.resolveHandler)
	if a.config.Metrics {
		r.Get("/metrics", a.metricsHandler)
	}
	return r
}

// requestLogger tags each request's context with a run id and the chi
// request id.
func (a *App) requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := a.withRun(r.Context())
		ctx = ctxlog.With(ctx, "request_id", middleware.GetReqID(r.Context()))
		ctxlog.FromContext(ctx).Debug("Request received.", "method", r.Method, "path", r.URL.Path, "remote_addr", r.RemoteAddr)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func (a *App) healthHandler(w http.ResponseWriter, r *http.Request) {
	ctxlog.FromContext(r.Context()).Debug("Health check endpoint hit.")
	w.WriteHeader(http.StatusOK)
	fmt.Fprintln(w, "OK")
}

// resolveHandler compiles the HCL request body. The graph and container
// query parameters select a single dynamic graph.
func (a *App) resolveHandler(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := ctxlog.FromContext(ctx)

	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err != nil {
		writeError(w, http.StatusBadRequest, fmt.Errorf("failed to read body: %w", err))
		return
	}
	loader := a.newLoader()
	model, err := loader.Parse(ctx, requestFilename, body)
	if err != nil {
		logger.Debug("Request body rejected.", "error", err)
		writeError(w, http.StatusBadRequest, err)
		return
	}

	req := Request{Mode: ModeResolve}
	if g := r.URL.Query().Get("graph"); g != "" {
		req = Request{Mode: ModeDynamic, Graph: g, Containers: r.URL.Query()["container"]}
	}
	report, err := a.compile(ctx, model, filesOf(loader), req)
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	writeReport(w, report)
}

// plansHandler serves the report computed at startup for config.Paths.
func (a *App) plansHandler(w http.ResponseWriter, r *http.Request) {
	if a.preloaded == nil {
		writeError(w, http.StatusNotFound, ErrNoPaths)
		return
	}
	writeReport(w, a.preloaded)
}

func (a *App) metricsHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	metrics.WriteOnce(a.registry, w)
}

func writeReport(w http.ResponseWriter, report *Report) {
	status := http.StatusOK
	if report.HasErrors() {
		status = http.StatusUnprocessableEntity
	}
	writeJSON(w, status, report)
}

func writeError(w http.ResponseWriter, status int, err error) {
	writeJSON(w, status, map[string]string{"error": err.Error()})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// Serve runs the HTTP surface on config.Port until ctx is done, then shuts
// down gracefully. When config.Paths is set they are compiled once at
// startup and served from /v1/plans.
func (a *App) Serve(ctx context.Context) error {
	logger := a.logger
	if len(a.config.Paths) > 0 {
		report, err := a.load(a.withRun(ctx), Request{Mode: ModeResolve})
		if err != nil {
			return err
		}
		a.preloaded = report
		logger.Info("Declarations preloaded.", "plans", len(report.Plans), "diagnostics", len(report.Diagnostics))
	}

	addr := fmt.Sprintf(":%d", a.config.Port)
	srv := &http.Server{
		Addr:              addr,
		Handler:           a.Router(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("🩺 Server starting", "address", fmt.Sprintf("http://localhost%s", addr))
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("server failed: %w", err)
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	logger.Info("🩺 Shutting down server...")
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("Server shutdown failed", "error", err)
		return err
	}
	logger.Debug("Server shut down gracefully.")
	return nil
}
