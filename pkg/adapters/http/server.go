package http

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"sort"

	"github.com/aretw0/narrative/pkg/domain"
	"github.com/aretw0/narrative/pkg/host"
	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Host is the part of a host controller the inspector exposes.
type Host interface {
	Scheme() *host.Revision
	ReadModel() any
	Subscriptions() []string
	Subscribed(kind string) bool
	Entities() []domain.EntityBase
	Emit(ctx context.Context, kind string, payload any) error
	Save(ctx context.Context) (domain.EntityChanges, error)
}

var _ Host = (*host.Host)(nil)

// Server serves the inspector routes.
type Server struct {
	Host   Host
	Logger *slog.Logger
}

// NewHandler creates the HTTP handler for a host. Metrics are served from
// gatherer (prometheus.DefaultGatherer when nil).
func NewHandler(h Host, gatherer prometheus.Gatherer, logger *slog.Logger) http.Handler {
	if gatherer == nil {
		gatherer = prometheus.DefaultGatherer
	}
	if logger == nil {
		logger = slog.Default()
	}
	s := &Server{Host: h, Logger: logger}

	r := chi.NewRouter()
	r.Get("/scheme", s.GetScheme)
	r.Get("/read-model", s.GetReadModel)
	r.Get("/subscriptions", s.GetSubscriptions)
	r.Get("/entities", s.GetEntities)
	r.Post("/events/{kind}", s.PostEvent)
	r.Post("/save", s.PostSave)
	r.Handle("/metrics", promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{}))

	return enableCORS(r)
}

func enableCORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
		if r.Method == "OPTIONS" {
			w.WriteHeader(http.StatusOK)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// GetScheme handles GET /scheme.
func (s *Server) GetScheme(w http.ResponseWriter, r *http.Request) {
	rev := s.Host.Scheme()
	if rev == nil {
		http.Error(w, domain.ErrNoScheme.Error(), http.StatusNotFound)
		return
	}
	s.writeJSON(w, http.StatusOK, rev)
}

// GetReadModel handles GET /read-model.
func (s *Server) GetReadModel(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, s.Host.ReadModel())
}

// GetSubscriptions handles GET /subscriptions.
func (s *Server) GetSubscriptions(w http.ResponseWriter, r *http.Request) {
	kinds := s.Host.Subscriptions()
	sort.Strings(kinds)
	s.writeJSON(w, http.StatusOK, kinds)
}

// GetEntities handles GET /entities.
func (s *Server) GetEntities(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, s.Host.Entities())
}

// PostEvent handles POST /events/{kind}. The body is the event payload.
func (s *Server) PostEvent(w http.ResponseWriter, r *http.Request) {
	kind := chi.URLParam(r, "kind")
	if !s.Host.Subscribed(kind) {
		http.Error(w, "no subscriber for "+kind, http.StatusConflict)
		return
	}

	var payload any
	if r.ContentLength != 0 {
		if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
			http.Error(w, "Invalid request body", http.StatusBadRequest)
			s.Logger.Warn("PostEvent: invalid body", "event", kind, "error", err)
			return
		}
	}

	if err := s.Host.Emit(r.Context(), kind, payload); err != nil {
		http.Error(w, err.Error(), http.StatusBadGateway)
		s.Logger.Error("PostEvent failed", "event", kind, "error", err)
		return
	}
	w.WriteHeader(http.StatusAccepted)
}

// PostSave handles POST /save.
func (s *Server) PostSave(w http.ResponseWriter, r *http.Request) {
	changes, err := s.Host.Save(r.Context())
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadGateway)
		s.Logger.Error("PostSave failed", "error", err)
		return
	}
	s.writeJSON(w, http.StatusOK, changes)
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.Logger.Error("response encode failed", "error", err)
	}
}
