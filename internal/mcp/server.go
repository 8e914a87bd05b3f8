package mcp

import (
	"context"
	"log/slog"

	"github.com/ko2fey/test-task-mini-crm/internal/domain/assignment"
	"github.com/ko2fey/test-task-mini-crm/internal/domain/contact"
	"github.com/ko2fey/test-task-mini-crm/internal/domain/operator"
	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"
)

// AssignmentEngine defines the engine operations exposed as tools.
type AssignmentEngine interface {
	AssignLead(ctx context.Context, req assignment.AssignRequest) (*assignment.AssignResult, error)
	ListAvailableOperators(ctx context.Context, sourceID int64) ([]assignment.Candidate, error)
	Complete(ctx context.Context, contactID int64) (*contact.Contact, error)
	Remove(ctx context.Context, contactID int64) error
	DispatchQueued(ctx context.Context, contactID int64) (*assignment.AssignResult, error)
}

// OperatorService defines operator reads needed by MCP.
type OperatorService interface {
	Get(ctx context.Context, id int64) (*operator.Operator, error)
}

// Services contains the domain services needed by MCP.
type Services struct {
	Engine    AssignmentEngine
	Operators OperatorService
}

// Config contains server configuration.
type Config struct {
	Services Services
	Version  string
	Logger   *slog.Logger
}

// NewServer creates an MCP server with the routing tools, docs and traffic logging.
func NewServer(cfg Config) *sdkmcp.Server {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	version := cfg.Version
	if version == "" {
		version = "dev"
	}

	server := sdkmcp.NewServer(&sdkmcp.Implementation{
		Name:    "leadrouter",
		Version: version,
	}, &sdkmcp.ServerOptions{
		Instructions: serverInstructions,
		Logger:       logger,
	})

	registerDocResources(server)

	server.AddReceivingMiddleware(trafficLoggingMiddleware(logger, "inbound"))
	server.AddSendingMiddleware(trafficLoggingMiddleware(logger, "outbound"))

	registerTools(server, cfg.Services, logger)

	return server
}
