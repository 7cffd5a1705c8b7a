package commands

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	apihttp "github.com/taskmaster/kanban/internal/adapters/http"
	"github.com/taskmaster/kanban/internal/adapters/repository"
	"github.com/taskmaster/kanban/internal/application/services"
	"github.com/taskmaster/kanban/internal/infrastructure/config"
	"github.com/taskmaster/kanban/internal/infrastructure/database"
	"github.com/taskmaster/kanban/internal/infrastructure/logger"
	"github.com/taskmaster/kanban/internal/ports"
)

const (
	flagEphemeral = "ephemeral"
	flagStats     = "stats"
)

// AddGlobalFlags registers the flags every command understands
func AddGlobalFlags(root *cobra.Command) {
	root.PersistentFlags().Bool(flagEphemeral, false, "Keep the session in memory only")
	root.PersistentFlags().Bool(flagStats, false, "Print request statistics to stderr on exit")
}

// runtime is the wired client for one command invocation
type runtime struct {
	cmd     *cobra.Command
	cfg     *config.Config
	logger  *logger.Logger
	db      *database.DB
	metrics *apihttp.Metrics
	api     *apihttp.API

	session   *services.SessionService
	boards    *services.BoardService
	boardView *services.BoardViewService
}

type setupOptions struct {
	// quiet keeps log output off the terminal, for the full-screen UI
	quiet bool
}

func setup(cmd *cobra.Command, opts setupOptions) (*runtime, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}

	if opts.quiet {
		if cfg.Logger.Filename != "" {
			cfg.Logger.Output = "file"
		} else {
			cfg.Logger.Output = "discard"
		}
	}

	appLogger, err := logger.New(cfg.Logger)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize logger: %w", err)
	}

	appLogger = appLogger.WithFields("command", cmd.CommandPath())
	rt := &runtime{cmd: cmd, cfg: cfg, logger: appLogger}

	var storage ports.SessionStorage
	if ephemeral, _ := cmd.Flags().GetBool(flagEphemeral); ephemeral {
		storage = repository.NewMemorySessionRepository()
	} else {
		db, err := database.New(cfg.Storage.Path)
		if err != nil {
			return nil, fmt.Errorf("failed to open session storage: %w", err)
		}
		rt.db = db
		storage = repository.NewSessionRepository(db)
	}

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	// The session is the token source for the API facades, and the auth
	// facade is handed back to the session once both exist.
	session, err := services.NewSessionService(ctx, storage, nil, appLogger)
	if err != nil {
		rt.Close()
		return nil, fmt.Errorf("failed to restore session: %w", err)
	}

	rt.metrics = apihttp.NewMetrics()
	client := apihttp.NewClient(cfg.API.BaseURL,
		apihttp.WithLogger(appLogger),
		apihttp.WithMetrics(rt.metrics),
	)
	rt.api = apihttp.NewAPI(client, session)
	session.SetAuth(rt.api.Auth)

	rt.session = session
	rt.boards = services.NewBoardService(rt.api.Boards, session, appLogger)
	rt.boardView = services.NewBoardViewService(rt.api.Boards, rt.api.Columns, rt.api.Tasks, session, appLogger)

	appLogger.Debugw("Client ready", "base_url", cfg.API.BaseURL, "authenticated", session.IsAuthenticated())
	return rt, nil
}

func (rt *runtime) ctx() context.Context {
	if ctx := rt.cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}

// Close flushes stats and releases storage
func (rt *runtime) Close() {
	if stats, _ := rt.cmd.Flags().GetBool(flagStats); stats && rt.metrics != nil {
		if err := rt.metrics.WriteSummary(rt.cmd.ErrOrStderr()); err != nil {
			rt.logger.Warnw("Failed to write request statistics", "error", err)
		}
	}
	if rt.db != nil {
		if err := rt.db.Close(); err != nil {
			rt.logger.Warnw("Failed to close session storage", "error", err)
		}
	}
	_ = rt.logger.Close()
}

// withRuntime adapts a command body that needs the wired client
func withRuntime(fn func(rt *runtime, args []string) error) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, args []string) error {
		rt, err := setup(cmd, setupOptions{})
		if err != nil {
			return err
		}
		defer rt.Close()
		return fn(rt, args)
	}
}

func (rt *runtime) printf(format string, args ...interface{}) {
	fmt.Fprintf(rt.cmd.OutOrStdout(), format, args...)
}
