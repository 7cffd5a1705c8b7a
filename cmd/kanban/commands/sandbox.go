package commands

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

	"github.com/taskmaster/kanban/internal/infrastructure/config"
	"github.com/taskmaster/kanban/internal/infrastructure/logger"
	"github.com/taskmaster/kanban/internal/infrastructure/server"
)

// NewSandboxCommand creates the command serving a throwaway in-memory API
func NewSandboxCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "sandbox",
		Short: "Run a local in-memory kanban API",
		Long:  "Run a local kanban API that keeps everything in memory. Point the client at it with KANBAN_API_BASE.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return fmt.Errorf("failed to load configuration: %w", err)
			}
			if cmd.Flags().Changed("port") {
				cfg.Sandbox.Port, _ = cmd.Flags().GetInt("port")
			}
			if cfg.Logger.Level == "warn" {
				cfg.Logger.Level = "info"
			}

			appLogger, err := logger.New(cfg.Logger)
			if err != nil {
				return fmt.Errorf("failed to initialize logger: %w", err)
			}
			defer appLogger.Close()

			return runSandbox(cmd, cfg, appLogger)
		},
	}

	cmd.Flags().Int("port", 5000, "Port to listen on")
	return cmd
}

func runSandbox(cmd *cobra.Command, cfg *config.Config, appLogger *logger.Logger) error {
	srv, err := server.New(cfg, appLogger)
	if err != nil {
		return fmt.Errorf("failed to initialize sandbox: %w", err)
	}

	// Graceful shutdown setup
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(stop)

	errCh := make(chan error, 1)
	go func() {
		fmt.Fprintf(cmd.OutOrStdout(), "Sandbox API listening on http://%s\n", cfg.Sandbox.Addr())
		if err := srv.Start(cfg.Sandbox.Addr()); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err, ok := <-errCh:
		if ok {
			return fmt.Errorf("sandbox failed: %w", err)
		}
		return nil
	case <-stop:
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		return fmt.Errorf("sandbox forced to shutdown: %w", err)
	}
	return nil
}
