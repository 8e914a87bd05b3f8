// Package wire assembles the store, domain services and transports.
package wire

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/ko2fey/test-task-mini-crm/internal/domain/activity"
	"github.com/ko2fey/test-task-mini-crm/internal/domain/assignment"
	"github.com/ko2fey/test-task-mini-crm/internal/domain/contact"
	"github.com/ko2fey/test-task-mini-crm/internal/domain/lead"
	"github.com/ko2fey/test-task-mini-crm/internal/domain/operator"
	"github.com/ko2fey/test-task-mini-crm/internal/domain/priority"
	"github.com/ko2fey/test-task-mini-crm/internal/domain/source"
	"github.com/ko2fey/test-task-mini-crm/internal/mcp"
	"github.com/ko2fey/test-task-mini-crm/internal/metrics"
	"github.com/ko2fey/test-task-mini-crm/internal/store"
	"github.com/ko2fey/test-task-mini-crm/internal/transport"
	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Options configures App.
type Options struct {
	MaxReserveAttempts int
	// MetricsEnabled registers Prometheus collectors and serves /metrics.
	MetricsEnabled bool
	Version        string
	Logger         *slog.Logger
}

// App holds the wired services over one database.
type App struct {
	DB         *store.DB
	Engine     *assignment.Engine
	Operators  *operator.Service
	Sources    *source.Service
	Priorities *priority.Service
	Leads      *lead.Service
	Contacts   *contact.Service
	Activity   *activity.Service

	registry *prometheus.Registry
	version  string
	logger   *slog.Logger
}

// New wires every service over db. The database must already be migrated.
func New(db *store.DB, opts Options) *App {
	logger := opts.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	var collector metrics.Collector = metrics.NewNop()
	var registry *prometheus.Registry
	if opts.MetricsEnabled {
		registry = prometheus.NewRegistry()
		registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
		collector = metrics.NewPrometheus(registry, "leadrouter")
	}

	operatorRepo := store.NewOperatorRepository(db)
	sourceRepo := store.NewSourceRepository(db)
	priorityRepo := store.NewPriorityRepository(db)
	leadRepo := store.NewLeadRepository(db)
	contactRepo := store.NewContactRepository(db)

	leads := lead.NewService(leadRepo, logger.With("component", "lead"))
	activitySvc := activity.NewService(store.NewActivityRepository(db), logger.With("component", "activity"))

	return &App{
		DB: db,
		Engine: assignment.NewEngine(assignment.Config{
			Tx:                 db,
			Sources:            sourceRepo,
			Operators:          operatorRepo,
			Priorities:         priorityRepo,
			Leads:              leads,
			LeadStore:          leadRepo,
			Contacts:           contactRepo,
			Ledger:             store.NewLedger(db),
			Activity:           activitySvc,
			Metrics:            collector,
			Logger:             logger.With("component", "assignment"),
			MaxReserveAttempts: opts.MaxReserveAttempts,
		}),
		Operators:  operator.NewService(operatorRepo, contactRepo, db, logger.With("component", "operator")),
		Sources:    source.NewService(sourceRepo, contactRepo, db, logger.With("component", "source")),
		Priorities: priority.NewService(priorityRepo, operatorRepo, sourceRepo, logger.With("component", "priority")),
		Leads:      leads,
		Contacts:   contact.NewService(contactRepo),
		Activity:   activitySvc,
		registry:   registry,
		version:    opts.Version,
		logger:     logger,
	}
}

// Services returns the services the REST layer needs.
func (a *App) Services() transport.Services {
	return transport.Services{
		Engine:     a.Engine,
		Operators:  a.Operators,
		Sources:    a.Sources,
		Priorities: a.Priorities,
		Leads:      a.Leads,
		Contacts:   a.Contacts,
		Activity:   a.Activity,
	}
}

// MCPServer builds an MCP server exposing the engine as tools.
func (a *App) MCPServer() *sdkmcp.Server {
	return mcp.NewServer(mcp.Config{
		Services: mcp.Services{Engine: a.Engine, Operators: a.Operators},
		Version:  a.version,
		Logger:   a.logger.With("component", "mcp"),
	})
}

// HTTPHandler serves the REST API, /metrics when enabled, and the
// streamable MCP endpoint.
func (a *App) HTTPHandler() http.Handler {
	mcpServer := a.MCPServer()
	mcpHandler := sdkmcp.NewStreamableHTTPHandler(
		func(*http.Request) *sdkmcp.Server { return mcpServer },
		&sdkmcp.StreamableHTTPOptions{SessionTimeout: 30 * time.Minute},
	)

	var metricsHandler http.Handler
	if a.registry != nil {
		metricsHandler = promhttp.HandlerFor(a.registry, promhttp.HandlerOpts{Registry: a.registry})
	}

	return transport.NewServer(transport.Config{
		Services: a.Services(),
		MCP:      mcpHandler,
		Metrics:  metricsHandler,
		Logger:   a.logger.With("component", "http"),
	})
}
