package cli

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/example/frontdesk/internal/wire"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP API and the escalation sweeper",
	Long: `Serve the supervisor and call endpoints over HTTP while the sweeper ages
unanswered escalations. Stops cleanly on SIGINT or SIGTERM.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(NewContext(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		cfg := wire.Config()
		logger := wire.Logger()
		server := wire.HTTPServer()
		sweeper := wire.Sweeper()

		g, gctx := errgroup.WithContext(ctx)

		g.Go(func() error {
			logger.Info("http server listening", zap.String("addr", server.Addr))
			if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				return fmt.Errorf("http server: %w", err)
			}
			return nil
		})

		g.Go(func() error {
			return sweeper.Run(gctx)
		})

		g.Go(func() error {
			<-gctx.Done()
			shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
			defer cancel()
			logger.Info("shutting down")
			return server.Shutdown(shutdownCtx)
		})

		return g.Wait()
	},
}

// ServeCmd returns the serve command
func ServeCmd() *cobra.Command {
	return serveCmd
}
