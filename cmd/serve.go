// =============================================================================
// Freight Tracker - Serve Command
// =============================================================================
//
// COMMAND USAGE:
//   freight serve [--addr :8080]
//
// The first load happens before listening. If it fails the server still
// starts and answers 503 until POST /reload succeeds.
//
// SHUTDOWN:
//   SIGINT / SIGTERM stop accepting connections and give in-flight requests
//   up to 15 seconds to finish.
//
// =============================================================================

package cmd

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/ginjaninja78/freight-tracker/internal/api"
)

const shutdownTimeout = 15 * time.Second

var serveAddr string

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the request set as a read-only JSON API",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		log := app.log

		st, err := buildStore(ctx)
		if err != nil {
			return err
		}
		if rs, err := st.Reload(ctx); err != nil {
			log.Warn("initial load failed, serving 503 until reload", zap.Error(err))
		} else {
			log.Info("initial load complete",
				zap.String("load_id", rs.LoadID()),
				zap.Int("records", rs.Len()),
			)
		}

		addr := app.cfg.Server.Addr
		if cmd.Flags().Changed("addr") {
			addr = serveAddr
		}
		srv := api.NewServer(st, st.Normalizer().Cities(), log).NewHTTPServer(addr)

		stop := make(chan os.Signal, 1)
		signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
		defer signal.Stop(stop)

		serveErr := make(chan error, 1)
		go func() {
			log.Info("server starting", zap.String("addr", srv.Addr))
			if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				serveErr <- err
			}
			close(serveErr)
		}()

		select {
		case err := <-serveErr:
			if err != nil {
				return fmt.Errorf("server error: %w", err)
			}
			return nil
		case <-stop:
		}
		log.Info("shutting down server")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()

		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("shutdown error: %w", err)
		}
		log.Info("server stopped")
		return nil
	},
}

func init() {
	serveCmd.Flags().StringVar(&serveAddr, "addr", ":8080", "Listen address (overrides server.addr)")

	rootCmd.AddCommand(serveCmd)
}
