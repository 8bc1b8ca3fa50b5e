package http

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	sharedobs "github.com/couchcryptid/storm-data-shared/observability"
	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/couchcryptid/weather-dashboard/internal/domain"
	"github.com/couchcryptid/weather-dashboard/internal/observability"
)

// RequestIDHeader carries the per-request correlation id.
const RequestIDHeader = "X-Request-ID"

// FailureMessage is the only error text callers of the weather routes ever see.
const FailureMessage = "Failed to fetch weather data"

// WeatherService resolves a city query to an upstream payload.
type WeatherService interface {
	Current(ctx context.Context, city string) (domain.Payload, error)
}

// Server exposes the weather proxy routes plus health, readiness, and metrics endpoints.
type Server struct {
	httpServer *http.Server
	weather    WeatherService
	maxAge     int
	logger     *slog.Logger
	metrics    *observability.Metrics
}

// NewServer creates an HTTP server with /api/weather, /api/weather/reading,
// /healthz, /readyz, and /metrics routes. freshness becomes the max-age of
// successful weather responses.
func NewServer(addr string, weather WeatherService, ready sharedobs.ReadinessChecker, freshness time.Duration, logger *slog.Logger, metrics *observability.Metrics) *Server {
	mux := http.NewServeMux()

	s := &Server{
		weather: weather,
		maxAge:  int(freshness.Seconds()),
		logger:  logger,
		metrics: metrics,
	}
	s.httpServer = &http.Server{
		Addr:         addr,
		Handler:      s.withRequestID(mux),
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	mux.HandleFunc("GET /api/weather", s.instrument("/api/weather", s.handleWeather))
	mux.HandleFunc("GET /api/weather/reading", s.instrument("/api/weather/reading", s.handleReading))
	mux.HandleFunc("GET /healthz", sharedobs.LivenessHandler())
	mux.HandleFunc("GET /readyz", sharedobs.ReadinessHandler(ready))
	mux.Handle("GET /metrics", promhttp.Handler())

	return s
}

// Start begins listening. Returns http.ErrServerClosed on graceful shutdown.
func (s *Server) Start() error {
	s.logger.Info("http server starting", "addr", s.httpServer.Addr)
	return s.httpServer.ListenAndServe()
}

// Shutdown gracefully drains connections within the given context deadline.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}

// ServeHTTP delegates to the underlying handler, useful for testing.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.httpServer.Handler.ServeHTTP(w, r)
}

// handleWeather relays the provider body untouched.
func (s *Server) handleWeather(w http.ResponseWriter, r *http.Request) {
	payload, err := s.weather.Current(r.Context(), r.URL.Query().Get("city"))
	if err != nil {
		writeFailure(w)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Cache-Control", "public, max-age="+strconv.Itoa(s.maxAge))
	w.WriteHeader(http.StatusOK)
	w.Write(payload.Body) //nolint:errcheck // client went away
}

func (s *Server) handleReading(w http.ResponseWriter, r *http.Request) {
	payload, err := s.weather.Current(r.Context(), r.URL.Query().Get("city"))
	if err != nil {
		writeFailure(w)
		return
	}

	w.Header().Set("Cache-Control", "public, max-age="+strconv.Itoa(s.maxAge))
	writeJSON(w, http.StatusOK, payload.Reading)
}

// writeFailure hides the cause; the proxy has already logged it.
func writeFailure(w http.ResponseWriter) {
	w.Header().Set("Cache-Control", "no-store")
	writeJSON(w, http.StatusInternalServerError, map[string]string{"error": FailureMessage})
}

func (s *Server) withRequestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := r.Header.Get(RequestIDHeader)
		if id == "" || len(id) > 128 {
			id = uuid.NewString()
		}
		w.Header().Set(RequestIDHeader, id)
		next.ServeHTTP(w, r)
	})
}

func (s *Server) instrument(route string, next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}

		next(rec, r)

		s.metrics.ProxyResponses.WithLabelValues(route, strconv.Itoa(rec.status)).Inc()
		s.logger.Info("http request",
			"method", r.Method,
			"route", route,
			"city", r.URL.Query().Get("city"),
			"status", rec.status,
			"duration_ms", time.Since(start).Milliseconds(),
			"request_id", w.Header().Get(RequestIDHeader),
		)
	}
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v) //nolint:errcheck // best-effort response
}
