// Package server exposes the cleaning pipeline over HTTP. Endpoints accept
// raw table batches as JSON arrays and return the cleaned rows plus run
// statistics. Validation faults map to 400, partial pipeline failures to
// 500 with a per-table breakdown.
package server

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"go.uber.org/zap"

	"cleanse/internal/clean"
	"cleanse/internal/model"
	"cleanse/internal/pipeline"
)

// maxBodyBytes caps request bodies; batches beyond this should go through
// the one-shot cleanup mode instead of HTTP.
const maxBodyBytes = 64 << 20

// Server handles HTTP ingress for the cleaning pipeline.
type Server struct {
	pipe *pipeline.Pipeline
	log  *zap.SugaredLogger
}

// New constructs a Server. A nil logger disables logging.
func New(pipe *pipeline.Pipeline, log *zap.SugaredLogger) *Server {
	if log == nil {
		log = zap.NewNop().Sugar()
	}
	return &Server{pipe: pipe, log: log}
}

// Router builds the chi router with all routes mounted.
func (s *Server) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(s.logRequests)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(5 * time.Minute))
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type"},
		MaxAge:         300,
	}))

	r.Get("/healthz", s.handleHealth)
	r.Route("/process", func(r chi.Router) {
		r.Post("/sellers", s.handleSellers)
		r.Post("/products", s.handleProducts)
		r.Post("/orders", s.handleOrders)
		r.Post("/items", s.handleItems)
		r.Post("/datasets", s.handleDatasets)
	})
	r.Post("/cleanup/full", s.handleFullCleanup)
	return r
}

// ListenAndServe runs the HTTP server until it fails.
func (s *Server) ListenAndServe(addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.Router(),
		ReadHeaderTimeout: 10 * time.Second,
	}
	s.log.Infow("http server listening", "addr", addr)
	return srv.ListenAndServe()
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

type tableResponse struct {
	Rows  any         `json:"rows"`
	Stats clean.Stats `json:"stats"`
}

func (s *Server) handleSellers(w http.ResponseWriter, r *http.Request) {
	var in []model.Seller
	if !decodeBody(w, r, &in) {
		return
	}
	out, stats, err := s.pipe.ProcessSellers(r.Context(), in)
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, tableResponse{Rows: out, Stats: stats})
}

func (s *Server) handleProducts(w http.ResponseWriter, r *http.Request) {
	var in []model.Product
	if !decodeBody(w, r, &in) {
		return
	}
	out, stats, err := s.pipe.ProcessProducts(r.Context(), in)
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, tableResponse{Rows: out, Stats: stats})
}

func (s *Server) handleOrders(w http.ResponseWriter, r *http.Request) {
	var in []model.Order
	if !decodeBody(w, r, &in) {
		return
	}
	out, stats, err := s.pipe.ProcessOrders(r.Context(), in)
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, tableResponse{Rows: out, Stats: stats})
}

func (s *Server) handleItems(w http.ResponseWriter, r *http.Request) {
	var in []model.OrderItem
	if !decodeBody(w, r, &in) {
		return
	}
	res, err := s.pipe.ProcessOrderItems(r.Context(), in)
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

func (s *Server) handleDatasets(w http.ResponseWriter, r *http.Request) {
	var in model.Datasets
	if !decodeBody(w, r, &in) {
		return
	}
	res, err := s.pipe.Run(r.Context(), in)
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

func (s *Server) handleFullCleanup(w http.ResponseWriter, r *http.Request) {
	res, err := s.pipe.RunFull(r.Context())
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

// errorResponse is the JSON body for every non-2xx response.
type errorResponse struct {
	Error     string            `json:"error"`
	Table     string            `json:"table,omitempty"`
	Issues    []string          `json:"issues,omitempty"`
	Failed    map[string]string `json:"failed,omitempty"`
	Succeeded []string          `json:"succeeded,omitempty"`
}

// writeError maps pipeline errors to HTTP statuses. Client-data faults are
// 400s; everything else is a 500.
func (s *Server) writeError(w http.ResponseWriter, err error) {
	var verr *model.ValidationError
	if errors.As(err, &verr) {
		writeJSON(w, http.StatusBadRequest, errorResponse{
			Error:  "validation failed",
			Table:  verr.Table,
			Issues: verr.Issues,
		})
		return
	}

	var cerr *model.ConfigurationError
	if errors.As(err, &cerr) {
		writeJSON(w, http.StatusBadRequest, errorResponse{
			Error: cerr.Error(),
			Table: cerr.Table,
		})
		return
	}

	var pf *pipeline.PartialFailure
	if errors.As(err, &pf) {
		failed := make(map[string]string, len(pf.Failed))
		for t, e := range pf.Failed {
			failed[t] = e.Error()
		}
		writeJSON(w, http.StatusInternalServerError, errorResponse{
			Error:     pf.Error(),
			Failed:    failed,
			Succeeded: pf.Succeeded,
		})
		return
	}

	s.log.Errorw("request failed", "err", err)
	writeJSON(w, http.StatusInternalServerError, errorResponse{Error: err.Error()})
}

// decodeBody decodes the JSON request body into dst, writing a 400 and
// returning false on failure.
func decodeBody(w http.ResponseWriter, r *http.Request, dst any) bool {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	dec := json.NewDecoder(r.Body)
	if err := dec.Decode(dst); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid JSON body: " + err.Error()})
		return false
	}
	return true
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

// logRequests logs one line per request with method, path, status, and
// duration.
func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)
		s.log.Infow("request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", ww.Status(),
			"bytes", ww.BytesWritten(),
			"duration", time.Since(start),
		)
	})
}
