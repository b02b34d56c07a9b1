package cli

import (
	"context"
	"encoding/json"
	stderrors "errors"
	"net"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/matzehuels/gemdex/pkg/buildinfo"
	"github.com/matzehuels/gemdex/pkg/errors"
	"github.com/matzehuels/gemdex/pkg/integrations"
	"github.com/matzehuels/gemdex/pkg/observability"
	"github.com/matzehuels/gemdex/pkg/versions"
)

// shutdownTimeout bounds graceful shutdown once the serve context is cancelled.
const shutdownTimeout = 5 * time.Second

// syncLogger surfaces mirror refresh activity in the server log.
type syncLogger struct {
	logger *log.Logger
}

func (s syncLogger) OnSyncStart(ctx context.Context, offset int64) {
	s.logger.Debugf("Refreshing feed from offset %d", offset)
}

func (s syncLogger) OnSyncComplete(ctx context.Context, bytes, lines int, duration time.Duration, err error) {
	if err != nil {
		s.logger.Errorf("Feed refresh failed: %v", err)
		return
	}
	s.logger.Infof("Feed refresh applied %d lines (%d bytes, %s)", lines, bytes, duration.Round(time.Millisecond))
}

func (s syncLogger) OnFeedReset(ctx context.Context) {
	s.logger.Warn("Feed mirror reset, next refresh is a full sync")
}

// serveCommand creates the serve command, which exposes the mirror over HTTP.
func (c *CLI) serveCommand() *cobra.Command {
	var addr string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve gem version lookups over HTTP",
		Long: `Serve gem version lookups over HTTP.

Endpoints:
  GET /api/v1/gems/{name}/versions   version list (optional ?registry= override)
  GET /healthz                       liveness and mirror stats`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if addr == "" {
				addr = c.config.Serve.Addr
			}
			return c.runServe(cmd.Context(), addr)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "", "listen address (default from config, :8080)")

	return cmd
}

func (c *CLI) runServe(ctx context.Context, addr string) error {
	mirror, backend, err := c.newMirror(ctx, false)
	if err != nil {
		return err
	}
	defer backend.Close()

	observability.SetSyncHooks(syncLogger{logger: c.Logger})

	srv := &http.Server{
		Addr:        addr,
		Handler:     newRouter(mirror, c.Logger),
		BaseContext: func(net.Listener) context.Context { return ctx },
	}

	errCh := make(chan error, 1)
	go func() {
		c.Logger.Infof("Listening on %s", addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		c.Logger.Info("Shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	case err := <-errCh:
		if stderrors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	}
}

// newRouter builds the HTTP API over the given mirror.
func newRouter(mirror *versions.Mirror, logger *log.Logger) http.Handler {
	r := chi.NewRouter()
	r.Use(requestID)
	r.Use(requestLogger(logger))

	r.Get("/healthz", func(w http.ResponseWriter, req *http.Request) {
		writeJSON(w, http.StatusOK, map[string]any{
			"status":       "ok",
			"version":      buildinfo.Version,
			"gems_tracked": mirror.Tracked(),
			"feed_offset":  mirror.Offset(),
		})
	})

	r.Get("/api/v1/gems/{name}/versions", func(w http.ResponseWriter, req *http.Request) {
		name := chi.URLParam(req, "name")
		registry := req.URL.Query().Get("registry")

		result, err := mirror.Lookup(req.Context(), name, registry)
		if err != nil {
			writeError(w, req, err)
			return
		}
		writeJSON(w, http.StatusOK, result)
	})

	return r
}

// =============================================================================
// Middleware
// =============================================================================

// requestIDHeader carries the generated request ID back to the client.
const requestIDHeader = "X-Request-Id"

// requestID assigns a UUID to each request and exposes it in the response.
func requestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		id := uuid.NewString()
		w.Header().Set(requestIDHeader, id)
		next.ServeHTTP(w, req.WithContext(withRequestID(req.Context(), id)))
	})
}

// requestIDKey is the context key for the request ID.
const requestIDKey ctxKey = 1

func withRequestID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, requestIDKey, id)
}

func requestIDFromContext(ctx context.Context) string {
	if id, ok := ctx.Value(requestIDKey).(string); ok {
		return id
	}
	return ""
}

// requestLogger logs one line per request with status and duration, and
// attaches a request-scoped logger to the context.
func requestLogger(logger *log.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
			start := time.Now()
			sw := &statusWriter{ResponseWriter: w, status: http.StatusOK}

			reqLogger := logger.With("request_id", requestIDFromContext(req.Context()))
			next.ServeHTTP(sw, req.WithContext(withLogger(req.Context(), reqLogger)))

			reqLogger.Info("request",
				"method", req.Method,
				"path", req.URL.Path,
				"status", sw.status,
				"duration", time.Since(start).Round(time.Millisecond),
			)
		})
	}
}

// statusWriter captures the response status code for logging.
type statusWriter struct {
	http.ResponseWriter
	status int
}

func (w *statusWriter) WriteHeader(code int) {
	w.status = code
	w.ResponseWriter.WriteHeader(code)
}

// =============================================================================
// Responses
// =============================================================================

// errorBody is the JSON error envelope.
type errorBody struct {
	Error string      `json:"error"`
	Code  errors.Code `json:"code"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// writeError maps lookup errors onto HTTP statuses: unknown gems are 404,
// an unreachable feed is 502, everything else is 500.
func writeError(w http.ResponseWriter, req *http.Request, err error) {
	status := http.StatusInternalServerError
	code := errors.ErrCodeInternal

	switch {
	case stderrors.Is(err, integrations.ErrNotFound):
		status = http.StatusNotFound
		code = errors.ErrCodeGemNotFound
	case stderrors.Is(err, versions.ErrFeedUnavailable):
		status = http.StatusBadGateway
		code = errors.ErrCodeFeedUnavailable
	case stderrors.Is(err, integrations.ErrNetwork), stderrors.Is(err, integrations.ErrBadStatus):
		status = http.StatusBadGateway
		code = errors.ErrCodeNetwork
	}

	if status >= 500 {
		loggerFromContext(req.Context()).Errorf("Lookup failed: %v", err)
	}
	writeJSON(w, status, errorBody{Error: errors.UserMessage(err), Code: code})
}
