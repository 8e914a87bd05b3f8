package cli

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/ko2fey/test-task-mini-crm/internal/tracing"
)

const shutdownTimeout = 5 * time.Second

// ServeCmd returns the serve command.
func ServeCmd(version string) *cobra.Command {
	var stdio bool

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API, or the MCP server over stdio",
		Long: `Run the REST API under /api/v1 with /health, /metrics and the streamable
MCP endpoint at /mcp.

With --stdio the MCP server speaks JSON-RPC over stdin/stdout instead and
logs go to stderr.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			// stdout belongs to JSON-RPC in stdio mode.
			logOut := cmd.OutOrStdout()
			if stdio {
				logOut = cmd.ErrOrStderr()
			}
			e, err := openEnv(ctx, logOut, version)
			if err != nil {
				return err
			}
			defer e.close()

			if e.cfg.Tracing.Enabled {
				if err := tracing.Init("leadrouter", version, e.cfg.Tracing.Output); err != nil {
					return fmt.Errorf("init tracing: %w", err)
				}
				defer func() {
					shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
					defer cancel()
					if err := tracing.Shutdown(shutdownCtx); err != nil {
						e.logger.Warn("tracing shutdown failed", "error", err)
					}
				}()
			}

			if stdio {
				e.logger.Info("starting stdio transport", "driver", e.cfg.DB.Driver)
				if err := e.app.MCPServer().Run(ctx, &sdkmcp.StdioTransport{}); err != nil && !errors.Is(err, context.Canceled) {
					return fmt.Errorf("stdio server: %w", err)
				}
				return nil
			}

			addr := net.JoinHostPort(e.cfg.Server.Host, strconv.Itoa(e.cfg.Server.Port))
			server := &http.Server{
				Addr:              addr,
				Handler:           e.app.HTTPHandler(),
				ReadHeaderTimeout: 10 * time.Second,
			}

			g, gctx := errgroup.WithContext(ctx)
			g.Go(func() error {
				e.logger.Info("server listening", "addr", addr, "driver", e.cfg.DB.Driver, "metrics", e.cfg.Metrics.Enabled)
				if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
					return err
				}
				return nil
			})
			g.Go(func() error {
				<-gctx.Done()
				e.logger.Info("shutting down")
				shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
				defer cancel()
				return server.Shutdown(shutdownCtx)
			})
			return g.Wait()
		},
	}

	cmd.Flags().BoolVar(&stdio, "stdio", false, "serve MCP over stdin/stdout instead of HTTP")
	return cmd
}
