package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/Sternrassler/regioncache/internal/people"
	"github.com/Sternrassler/regioncache/pkg/cache"
	"github.com/Sternrassler/regioncache/pkg/logging"
	"github.com/Sternrassler/regioncache/pkg/metrics"
	"github.com/Sternrassler/regioncache/pkg/supervisor"
)

const (
	requestIDHeader = "X-Request-ID"
	shutdownTimeout = 10 * time.Second
)

func newServeCmd() *cobra.Command {
	var (
		port  int
		delay time.Duration
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the cached people API",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			if cmd.Flags().Changed("port") {
				cfg.Server.Port = port
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			logger := logging.NewLogger("server")
			a, err := newApp(ctx, cfg, people.NewStore(people.WithDelay(delay)), logger)
			if err != nil {
				return err
			}
			defer a.Close()

			return serve(ctx, fmt.Sprintf(":%d", cfg.Server.Port), a.routes(), logger)
		},
	}

	cmd.Flags().IntVarP(&port, "port", "p", 8080, "listen port (overrides PORT)")
	cmd.Flags().DurationVar(&delay, "store-delay", time.Second, "artificial latency of the person store")
	return cmd
}

// serve runs the HTTP server until ctx is cancelled, then shuts it down.
func serve(ctx context.Context, addr string, handler http.Handler, logger zerolog.Logger) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: 5 * time.Second,
	}

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		logger.Info().Str("addr", addr).Msg("Starting regioncache server")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("listen: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		<-ctx.Done()
		logger.Info().Msg("Shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})
	return g.Wait()
}

func (a *app) routes() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /health", healthHandler)
	mux.HandleFunc("GET /ready", a.readyHandler)
	mux.Handle("GET /metrics", metrics.Handler())
	mux.HandleFunc("GET /people", a.searchHandler)
	mux.HandleFunc("POST /people/search", a.searchByRequestHandler)
	mux.HandleFunc("GET /people/all", a.allHandler)
	mux.HandleFunc("POST /cache/clear", a.clearHandler)
	return requestLogger(a.logger, mux)
}

// requestLogger attaches a request-scoped logger carrying the request id.
func requestLogger(logger zerolog.Logger, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := r.Header.Get(requestIDHeader)
		if id == "" {
			id = uuid.New().String()
		}
		w.Header().Set(requestIDHeader, id)

		l := logging.WithRequestID(logger, id).With().
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Logger()

		start := time.Now()
		next.ServeHTTP(w, r.WithContext(l.WithContext(r.Context())))
		l.Debug().Dur("duration", time.Since(start)).Msg("Request handled")
	})
}

func healthHandler(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusOK)
	fmt.Fprint(w, "OK")
}

func (a *app) readyHandler(w http.ResponseWriter, r *http.Request) {
	if a.redis != nil {
		if err := a.redis.Ping(r.Context()).Err(); err != nil {
			http.Error(w, "redis unavailable", http.StatusServiceUnavailable)
			return
		}
	}
	w.WriteHeader(http.StatusOK)
	fmt.Fprint(w, "OK")
}

func (a *app) searchHandler(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	minAge, err := intParam(q.Get("min"))
	if err != nil {
		writeError(w, r, http.StatusBadRequest, fmt.Errorf("min: %w", err))
		return
	}
	maxAge, err := intParam(q.Get("max"))
	if err != nil {
		writeError(w, r, http.StatusBadRequest, fmt.Errorf("max: %w", err))
		return
	}

	result, err := a.people.GetPeople(r.Context(), q.Get("name"), minAge, maxAge)
	if err != nil {
		writeError(w, r, statusFor(err), err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

func (a *app) searchByRequestHandler(w http.ResponseWriter, r *http.Request) {
	var req people.Request
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, r, http.StatusBadRequest, fmt.Errorf("decode request: %w", err))
		return
	}

	result, err := a.people.GetPeopleByRequest(r.Context(), req)
	if err != nil {
		writeError(w, r, statusFor(err), err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

func (a *app) allHandler(w http.ResponseWriter, r *http.Request) {
	result, err := a.people.GetAllPeople(r.Context())
	if err != nil {
		writeError(w, r, statusFor(err), err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

type clearResponse struct {
	Region   string `json:"region,omitempty"`
	Storages int    `json:"storages"`
}

func (a *app) clearHandler(w http.ResponseWriter, r *http.Request) {
	logger := zerolog.Ctx(r.Context())
	region, scoped := r.URL.Query()["region"]

	var err error
	if scoped {
		err = a.supervisor.ClearRegion(r.Context(), region[0])
	} else {
		err = a.supervisor.ClearAll(r.Context())
	}
	if err != nil {
		writeError(w, r, statusFor(err), err)
		return
	}

	resp := clearResponse{Storages: a.supervisor.Len()}
	if scoped {
		resp.Region = region[0]
	}
	logger.Info().Str("region", resp.Region).Int("storages", resp.Storages).Msg("Cache cleared")
	writeJSON(w, http.StatusOK, resp)
}

func intParam(s string) (int, error) {
	if s == "" {
		return 0, nil
	}
	return strconv.Atoi(s)
}

func statusFor(err error) int {
	var partial *supervisor.PartialInvalidationError
	switch {
	case errors.Is(err, cache.ErrInvalidArgument):
		return http.StatusBadRequest
	case errors.As(err, &partial):
		return http.StatusBadGateway
	case errors.Is(err, context.DeadlineExceeded), errors.Is(err, context.Canceled):
		return http.StatusGatewayTimeout
	default:
		return http.StatusInternalServerError
	}
}

type errorResponse struct {
	Error string `json:"error"`
}

func writeError(w http.ResponseWriter, r *http.Request, status int, err error) {
	logger := zerolog.Ctx(r.Context())
	if status >= http.StatusInternalServerError {
		logger.Warn().Err(err).Int("status_code", status).Msg("Request failed")
	} else {
		logger.Debug().Err(err).Int("status_code", status).Msg("Bad request")
	}
	writeJSON(w, status, errorResponse{Error: err.Error()})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
