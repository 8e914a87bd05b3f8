package transport

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
)

// Config wires the HTTP server.
type Config struct {
	Services Services
	// MCP serves the streamable MCP endpoint; nil disables it.
	MCP http.Handler
	// Metrics serves /metrics; nil disables it.
	Metrics http.Handler
	Logger  *slog.Logger
}

// Server holds the handlers' dependencies.
type Server struct {
	svc    Services
	logger *slog.Logger
}

// NewServer creates an HTTP router with middleware, the REST API under
// /api/v1, and the operational endpoints.
func NewServer(cfg Config) *chi.Mux {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	srv := &Server{svc: cfg.Services, logger: logger}

	r := chi.NewRouter()
	r.Use(RequestIDMiddleware)
	r.Use(LoggingMiddleware(logger))
	r.Use(CORSMiddleware())

	r.Get("/health", srv.handleHealth)
	if cfg.Metrics != nil {
		r.Method(http.MethodGet, "/metrics", cfg.Metrics)
	}
	if cfg.MCP != nil {
		r.Handle("/mcp", cfg.MCP)
		r.Handle("/mcp/*", cfg.MCP)
	}

	r.Route("/api/v1", func(r chi.Router) {
		r.Route("/operators", func(r chi.Router) {
			r.Get("/", srv.listOperators)
			r.Post("/", srv.createOperator)
			r.Route("/{id}", func(r chi.Router) {
				r.Get("/", srv.getOperator)
				r.Put("/", srv.updateOperator)
				r.Delete("/", srv.deleteOperator)
				r.Post("/activate", srv.activateOperator)
				r.Post("/deactivate", srv.deactivateOperator)
				r.Get("/priorities", srv.listOperatorPriorities)
				r.Get("/contacts", srv.listOperatorContacts)
			})
		})
		r.Route("/sources", func(r chi.Router) {
			r.Get("/", srv.listSources)
			r.Post("/", srv.createSource)
			r.Route("/{id}", func(r chi.Router) {
				r.Get("/", srv.getSource)
				r.Put("/", srv.renameSource)
				r.Delete("/", srv.deleteSource)
				r.Get("/contacts", srv.listSourceContacts)
				r.Get("/candidates", srv.listCandidates)
			})
		})
		r.Route("/priorities", func(r chi.Router) {
			r.Get("/", srv.listPriorities)
			r.Post("/", srv.upsertPriority)
			r.Get("/{id}", srv.getPriority)
			r.Delete("/{id}", srv.deletePriority)
		})
		r.Route("/leads", func(r chi.Router) {
			r.Get("/", srv.listLeads)
			r.Post("/", srv.createLead)
			r.Route("/{id}", func(r chi.Router) {
				r.Get("/", srv.getLead)
				r.Put("/", srv.renameLead)
				r.Delete("/", srv.deleteLead)
				r.Get("/contacts", srv.listLeadContacts)
				r.Get("/sources", srv.listLeadSources)
			})
		})
		r.Route("/contacts", func(r chi.Router) {
			r.Get("/", srv.listContacts)
			r.Post("/", srv.assignLead)
			r.Route("/{id}", func(r chi.Router) {
				r.Get("/", srv.getContact)
				r.Put("/", srv.updateContactStatus)
				r.Delete("/", srv.removeContact)
				r.Post("/complete", srv.completeContact)
				r.Post("/dispatch", srv.dispatchContact)
			})
		})
		r.Get("/activity", srv.listActivity)
	})

	return r
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}

func (s *Server) fail(w http.ResponseWriter, r *http.Request, err error) {
	writeError(w, r, s.logger, err)
}
