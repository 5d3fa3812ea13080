package server

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	httpSwagger "github.com/swaggo/http-swagger"

	"github.com/osse101/prizegrid/internal/allocation"
	"github.com/osse101/prizegrid/internal/eventlog"
	"github.com/osse101/prizegrid/internal/handler"
	"github.com/osse101/prizegrid/internal/logger"
	"github.com/osse101/prizegrid/internal/metrics"
	"github.com/osse101/prizegrid/internal/params"
	"github.com/osse101/prizegrid/internal/repository"
)

// Options configures the HTTP surface
type Options struct {
	Port           int
	APIKey         string
	TrustedProxies []string
	RateLimitRPS   float64
	RateLimitBurst int
	Version        string
}

// Services are the collaborators the routes call into. DB may be nil when
// running on the in-memory store.
type Services struct {
	Allocation allocation.Service
	Params     params.Service
	Events     repository.Events
	Catalog    repository.Catalog
	EventLog   eventlog.Service
	DB         handler.Pinger
}

type Server struct {
	httpServer *http.Server
}

// NewServer creates a new Server instance
func NewServer(opts Options, svc Services) *Server {
	return &Server{
		httpServer: &http.Server{
			Addr:              fmt.Sprintf(":%d", opts.Port),
			Handler:           NewRouter(opts, svc),
			ReadHeaderTimeout: ReadHeaderTimeout,
			ReadTimeout:       ReadTimeout,
			WriteTimeout:      WriteTimeout,
			IdleTimeout:       IdleTimeout,
		},
	}
}

// NewRouter builds the chi router with the full middleware stack
func NewRouter(opts Options, svc Services) http.Handler {
	r := chi.NewRouter()

	// Chi middleware executes in order defined (outermost to innermost)
	detector := NewSuspiciousActivityDetector()
	limiter := NewRateLimiter(opts.RateLimitRPS, opts.RateLimitBurst)

	r.Use(requestIDMiddleware)
	r.Use(SecurityHeadersMiddleware())
	r.Use(RateLimitMiddleware(limiter, opts.TrustedProxies))
	r.Use(AuthMiddleware(opts.APIKey, opts.TrustedProxies, detector))
	r.Use(RequestSizeLimitMiddleware(MaxRequestBodyBytes))
	r.Use(metrics.Middleware)
	r.Use(loggingMiddleware)

	r.Get("/healthz", handler.HandleHealthz())
	r.Get("/readyz", handler.HandleReadyz(svc.DB))
	r.Get("/version", handler.HandleVersion(opts.Version))
	r.Handle("/metrics", promhttp.Handler())

	paramsHandler := handler.NewParametersHandler(svc.Params)
	eventHandler := handler.NewEventHandler(svc.Events)
	catalogHandler := handler.NewCatalogHandler(svc.Catalog)
	allocHandler := handler.NewAllocationHandler(svc.Allocation)
	activityHandler := handler.NewActivityHandler(svc.EventLog)

	r.Route("/api/v1", func(r chi.Router) {
		r.Route("/parameters", func(r chi.Router) {
			r.Get("/", paramsHandler.HandleGet)
			r.Patch("/", paramsHandler.HandleUpdate)
		})

		r.Route("/events", func(r chi.Router) {
			r.Post("/", eventHandler.HandleCreate)
			r.Get("/{id}", eventHandler.HandleGet)
		})

		r.Get("/catalog", catalogHandler.HandleList)

		r.Route("/allocations", func(r chi.Router) {
			r.Post("/preview", allocHandler.HandlePreview)
			r.Get("/{runID}", allocHandler.HandleGet)
			r.Post("/{runID}/commit", allocHandler.HandleCommit)
			r.Post("/{runID}/abort", allocHandler.HandleAbort)
			r.Get("/{runID}/history", activityHandler.HandleRunHistory)
		})

		r.Get("/activity", activityHandler.HandleList)

		r.Route("/ledger", func(r chi.Router) {
			r.Get("/", allocHandler.HandleHistory)
			r.Get("/{id}/verify", allocHandler.HandleVerify)
		})
	})

	r.Get("/swagger/*", httpSwagger.WrapHandler)

	return r
}

// requestIDMiddleware reuses a caller's X-Request-ID or generates one, and
// echoes it on the response.
func requestIDMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requestID := r.Header.Get(HeaderRequestID)
		if requestID == "" || len(requestID) > 128 {
			requestID = logger.GenerateRequestID()
		}
		w.Header().Set(HeaderRequestID, requestID)
		next.ServeHTTP(w, r.WithContext(logger.WithRequestID(r.Context(), requestID)))
	})
}

// responseWriter wraps http.ResponseWriter to capture the status code
type responseWriter struct {
	http.ResponseWriter
	statusCode int
	written    bool
}

func newResponseWriter(w http.ResponseWriter) *responseWriter {
	return &responseWriter{ResponseWriter: w, statusCode: http.StatusOK}
}

func (rw *responseWriter) WriteHeader(statusCode int) {
	if !rw.written {
		rw.statusCode = statusCode
		rw.written = true
		rw.ResponseWriter.WriteHeader(statusCode)
	}
}

func (rw *responseWriter) Write(b []byte) (int, error) {
	if !rw.written {
		rw.WriteHeader(http.StatusOK)
	}
	return rw.ResponseWriter.Write(b)
}

func loggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		// Probes and scrapes are too frequent to log
		if strings.HasPrefix(r.URL.Path, "/healthz") ||
			strings.HasPrefix(r.URL.Path, "/readyz") ||
			strings.HasPrefix(r.URL.Path, "/metrics") {
			next.ServeHTTP(w, r)
			return
		}

		start := time.Now()
		log := logger.FromContext(r.Context())

		log.Info(LogMsgRequestStarted,
			"method", r.Method,
			"path", r.URL.Path,
			"remote_addr", r.RemoteAddr,
			"content_length", r.ContentLength)

		sanitizedHeaders := make(http.Header, len(r.Header))
		for k, v := range r.Header {
			if strings.EqualFold(k, HeaderAPIKey) || strings.EqualFold(k, HeaderAuthorization) {
				sanitizedHeaders[k] = []string{RedactedValue}
			} else {
				sanitizedHeaders[k] = v
			}
		}
		log.Debug(LogMsgRequestHeaders, "headers", sanitizedHeaders)

		rw := newResponseWriter(w)
		next.ServeHTTP(rw, r)

		duration := time.Since(start)
		log.Info(LogMsgRequestCompleted,
			"method", r.Method,
			"path", r.URL.Path,
			"status", rw.statusCode,
			"duration_ms", duration.Milliseconds())
	})
}

// Start starts the server
func (s *Server) Start() error {
	slog.Default().Info(LogMsgServerStarting, "addr", s.httpServer.Addr)
	return s.httpServer.ListenAndServe()
}

// Stop stops the server gracefully
func (s *Server) Stop(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}
