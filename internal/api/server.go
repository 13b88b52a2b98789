package api

import (
	"context"
	"encoding/json"
	"errors"
	"net"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"github.com/rs/zerolog"
	"golang.org/x/net/http2"
	"golang.org/x/net/http2/h2c"

	"github.com/DivijChawla/DivijEncrypt/internal/logging"
	"github.com/DivijChawla/DivijEncrypt/internal/observability/metrics"
	"github.com/DivijChawla/DivijEncrypt/internal/service"
)

const (
	maxBodyBytes    = 1 << 20
	shutdownTimeout = 5 * time.Second
	requestIDHeader = "X-Request-ID"
)

// Config configures the REST API server.
type Config struct {
	Addr    string
	Service *service.Service
	Audit   *logging.AuditLogger
	Logger  zerolog.Logger
	// GRPC, when set, receives HTTP/2 requests with a gRPC content type on
	// the same listener.
	GRPC http.Handler
}

// Server exposes the cipher catalogue, pipelines and recipes over HTTP.
type Server struct {
	cfg        Config
	svc        *service.Service
	audit      *logging.AuditLogger
	log        zerolog.Logger
	httpServer *http.Server
}

// NewServer constructs a REST API server using the provided configuration.
func NewServer(cfg Config) (*Server, error) {
	if strings.TrimSpace(cfg.Addr) == "" {
		return nil, errors.New("api address must be provided")
	}
	if cfg.Service == nil {
		return nil, errors.New("cipher service is required")
	}
	audit := cfg.Audit
	if audit == nil {
		audit = logging.Nop()
	}
	return &Server{
		cfg:   cfg,
		svc:   cfg.Service,
		audit: audit,
		log:   cfg.Logger,
	}, nil
}

// Router builds the REST routes.
func (s *Server) Router() *mux.Router {
	r := mux.NewRouter()
	r.Use(s.withRequestID, s.instrument)

	r.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	}).Methods(http.MethodGet).Name("healthz")
	r.Handle("/metrics", metrics.Handler()).Methods(http.MethodGet).Name("metrics")

	v1 := r.PathPrefix("/api/v1").Subrouter()
	v1.HandleFunc("/operations", s.handleListOperations).Methods(http.MethodGet).Name("operations")
	v1.HandleFunc("/execute", s.handleExecute).Methods(http.MethodPost).Name("execute")
	v1.HandleFunc("/pipeline", s.handlePipeline).Methods(http.MethodPost).Name("pipeline")
	v1.HandleFunc("/pipeline/reverse", s.handlePipelineReverse).Methods(http.MethodPost).Name("pipeline_reverse")
	v1.HandleFunc("/recipes", s.handleListRecipes).Methods(http.MethodGet).Name("recipes_list")
	v1.HandleFunc("/recipes", s.handleSaveRecipe).Methods(http.MethodPost).Name("recipes_save")
	v1.HandleFunc("/recipes/{name}", s.handleGetRecipe).Methods(http.MethodGet).Name("recipes_get")
	v1.HandleFunc("/recipes/{name}", s.handleDeleteRecipe).Methods(http.MethodDelete).Name("recipes_delete")
	v1.HandleFunc("/recipes/{name}/run", s.handleRunRecipe).Methods(http.MethodPost).Name("recipes_run")

	r.NotFoundHandler = http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		s.writeJSON(w, http.StatusNotFound, ErrorResponse{Error: "not found"})
	})
	r.MethodNotAllowedHandler = http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		s.writeJSON(w, http.StatusMethodNotAllowed, ErrorResponse{Error: "method not allowed"})
	})
	return r
}

// Handler returns the REST router, fronted by the gRPC handler when one is
// configured.
func (s *Server) Handler() http.Handler {
	router := s.Router()
	if s.cfg.GRPC == nil {
		return router
	}
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.ProtoMajor == 2 && strings.HasPrefix(r.Header.Get("Content-Type"), "application/grpc") {
			s.cfg.GRPC.ServeHTTP(w, r)
			return
		}
		router.ServeHTTP(w, r)
	})
}

// Run listens on the configured address and blocks until the provided
// context is cancelled or a fatal error occurs.
func (s *Server) Run(ctx context.Context) error {
	ln, err := net.Listen("tcp", s.cfg.Addr)
	if err != nil {
		return err
	}
	return s.Serve(ctx, ln)
}

// Serve accepts cleartext HTTP/1.1 and HTTP/2 connections on ln.
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	s.httpServer = &http.Server{
		Handler:           h2c.NewHandler(s.Handler(), &http2.Server{}),
		ReadHeaderTimeout: 10 * time.Second,
	}

	s.lifecycle("started", ln.Addr().String())
	s.log.Info().Str("addr", ln.Addr().String()).Msg("api listening")

	errCh := make(chan error, 1)
	go func() {
		err := s.httpServer.Serve(ln)
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
			return
		}
		errCh <- nil
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		_ = s.httpServer.Shutdown(shutdownCtx)
		err := <-errCh
		s.lifecycle("stopped", ln.Addr().String())
		return err
	case err := <-errCh:
		s.lifecycle("failed", ln.Addr().String())
		return err
	}
}

func (s *Server) lifecycle(state, addr string) {
	_ = s.audit.Emit(logging.AuditEvent{
		EventType: logging.EventServerLifecycle,
		Decision:  logging.DecisionInfo,
		Metadata:  map[string]any{"state": state, "addr": addr},
	})
}

type requestIDKey struct{}

// RequestID returns the id assigned to the request carried by ctx.
func RequestID(ctx context.Context) string {
	id, _ := ctx.Value(requestIDKey{}).(string)
	return id
}

func (s *Server) withRequestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := strings.TrimSpace(r.Header.Get(requestIDHeader))
		if _, err := uuid.Parse(id); err != nil {
			id = uuid.NewString()
		}
		w.Header().Set(requestIDHeader, id)
		next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), requestIDKey{}, id)))
	})
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

func (s *Server) instrument(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		route := "unmatched"
		if current := mux.CurrentRoute(r); current != nil && current.GetName() != "" {
			route = current.GetName()
		}
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		r.Body = http.MaxBytesReader(rec, r.Body, maxBodyBytes)

		next.ServeHTTP(rec, r)

		code := strconv.Itoa(rec.status)
		metrics.RecordRPCRequest("http", route)
		metrics.ObserveRPCLatency("http", route, code, time.Since(start))
		if rec.status >= http.StatusBadRequest {
			metrics.RecordRPCError("http", route, code)
		}
		s.log.Debug().
			Str("request_id", RequestID(r.Context())).
			Str("method", r.Method).
			Str("route", route).
			Int("status", rec.status).
			Dur("elapsed", time.Since(start)).
			Msg("request")
	})
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		s.log.Warn().Err(err).Msg("encode response")
	}
}
