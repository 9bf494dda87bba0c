package main

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/mark3labs/mcp-go/server"
	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/hazyhaar/greenmeds/pkg/api"
)

var version = "dev"

var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Serve the lookup tools over MCP on stdin/stdout",
	Long:  "Serves lookup, resolve_batch, list_medicines and score_medicine as MCP tools. SIGHUP reloads the catalog.",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		svc, err := newService()
		if err != nil {
			return err
		}
		srv := newMCPServer(svc)

		stop := watchReload(svc)
		defer stop()

		zap.L().Info("MCP server starting on stdio", zap.String("catalog", cfg.Catalog.Path))
		if err := server.ServeStdio(srv); err != nil {
			return eris.Wrap(err, "serve stdio")
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(mcpCmd)
}

func newMCPServer(svc *api.Service) *server.MCPServer {
	srv := server.NewMCPServer("greenmeds", version, server.WithToolCapabilities(false))
	api.RegisterMCPTools(srv, svc.Endpoints(zap.L()))
	return srv
}

// watchReload reloads the catalog on every SIGHUP until the returned stop
// function is called.
func watchReload(svc *api.Service) (stop func()) {
	sighup := make(chan os.Signal, 1)
	signal.Notify(sighup, syscall.SIGHUP)
	done := make(chan struct{})
	exited := make(chan struct{})

	go func() {
		defer close(exited)
		for {
			select {
			case <-done:
				return
			case <-sighup:
				if err := svc.Reload(cfg.Catalog.Path); err != nil {
					zap.L().Error("catalog reload failed", zap.Error(err))
					continue
				}
				zap.L().Info("catalog reloaded", zap.Int("records", svc.Store().Len()))
			}
		}
	}()

	return func() {
		signal.Stop(sighup)
		close(done)
		<-exited
	}
}
