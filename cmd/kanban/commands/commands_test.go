package commands

import (
	"bytes"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taskmaster/kanban/internal/infrastructure/config"
	"github.com/taskmaster/kanban/internal/infrastructure/logger"
	"github.com/taskmaster/kanban/internal/infrastructure/server"
)

func newRoot() *cobra.Command {
	root := &cobra.Command{Use: "kanban", SilenceUsage: true, SilenceErrors: true}
	AddGlobalFlags(root)
	root.AddCommand(
		NewLoginCommand(),
		NewRegisterCommand(),
		NewLogoutCommand(),
		NewWhoamiCommand(),
		NewBoardsCommand(),
		NewBoardCommand(),
		NewColumnsCommand(),
		NewTasksCommand(),
	)
	return root
}

// startSandbox serves an in-memory API and points the client config at it
func startSandbox(t *testing.T) {
	t.Helper()

	cfg := &config.Config{
		Sandbox: config.SandboxConfig{
			Port:      5000,
			Host:      "127.0.0.1",
			JWTSecret: "test-secret",
			TokenTTL:  time.Hour,
		},
	}
	srv, err := server.New(cfg, logger.Nop())
	require.NoError(t, err)

	ts := httptest.NewServer(srv.Handler())
	t.Cleanup(ts.Close)

	dir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", filepath.Join(dir, "config"))
	t.Setenv("KANBAN_API_BASE", ts.URL)
	t.Setenv("KANBAN_STORAGE_PATH", filepath.Join(dir, "data", "session.db"))
	t.Setenv("LOG_OUTPUT", "discard")
}

func run(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	var stdout, stderr bytes.Buffer
	root := newRoot()
	root.SetOut(&stdout)
	root.SetErr(&stderr)
	root.SetArgs(args)
	err := root.Execute()
	return stdout.String(), stderr.String(), err
}

func mustRun(t *testing.T, args ...string) string {
	t.Helper()
	out, _, err := run(t, args...)
	require.NoError(t, err, "kanban %v", args)
	return out
}

func TestCommands_BoardWorkflow(t *testing.T) {
	startSandbox(t)

	out := mustRun(t, "register", "--email", "ann@example.com", "--password", "secret1", "--name", "Ann")
	assert.Contains(t, out, "Account created for ann@example.com")

	out = mustRun(t, "whoami")
	assert.Equal(t, "Not signed in\n", out)

	out = mustRun(t, "login", "--email", "ann@example.com", "--password", "secret1")
	assert.Equal(t, "Signed in as Ann\n", out)

	// the session survives across invocations through the sqlite store
	out = mustRun(t, "whoami")
	assert.Equal(t, "Ann (id 1, ann@example.com)\n", out)

	out = mustRun(t, "boards", "create", "--title", "Roadmap")
	assert.Equal(t, "Created board 1 (Roadmap)\n", out)

	out = mustRun(t, "columns", "add", "--board", "1", "--title", "Todo")
	assert.Equal(t, "Added column 1 (Todo)\n", out)
	mustRun(t, "columns", "add", "--board", "1", "--title", "Done")

	out = mustRun(t, "tasks", "add", "--board", "1", "--column", "1", "--title", "Write docs")
	assert.Equal(t, "Added task 1 to column 1\n", out)

	out = mustRun(t, "tasks", "update", "1", "--board", "1", "--column", "2")
	assert.Contains(t, out, "Updated task 1 (column 2")

	out = mustRun(t, "board", "show", "1")
	assert.Contains(t, out, "Roadmap")
	assert.Contains(t, out, "Todo [1]")
	assert.Contains(t, out, "#1 Write docs")

	out = mustRun(t, "boards", "list")
	assert.Contains(t, out, "Roadmap")

	out = mustRun(t, "tasks", "delete", "1", "--board", "1")
	assert.Equal(t, "Deleted task 1\n", out)

	_, _, err := run(t, "tasks", "delete", "1", "--board", "1")
	require.Error(t, err)
	assert.Equal(t, "Task not found", err.Error())

	mustRun(t, "logout")
	_, _, err = run(t, "boards", "list")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not signed in")
}

func TestCommands_LoginRejected(t *testing.T) {
	startSandbox(t)

	_, _, err := run(t, "login", "--email", "ghost@example.com", "--password", "nope")
	require.Error(t, err)
	assert.Equal(t, "Invalid credentials", err.Error())

	_, _, err = run(t, "login", "--email", "not-an-email", "--password", "x")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "email")
}

func TestCommands_EphemeralSessionIsNotKept(t *testing.T) {
	startSandbox(t)
	mustRun(t, "register", "--email", "ann@example.com", "--password", "secret1")

	mustRun(t, "--ephemeral", "login", "--email", "ann@example.com", "--password", "secret1")
	out := mustRun(t, "--ephemeral", "whoami")
	assert.Equal(t, "Not signed in\n", out)
}

func TestCommands_StatsGoToStderr(t *testing.T) {
	startSandbox(t)

	_, stderr, err := run(t, "--stats", "login", "--email", "ghost@example.com", "--password", "nope")
	require.Error(t, err)
	assert.Contains(t, stderr, "kanban_client_requests_total{method=POST,status=401} 1")
}

func TestCommands_TaskUpdateNeedsAField(t *testing.T) {
	startSandbox(t)

	_, _, err := run(t, "tasks", "update", "1", "--board", "1")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "nothing to update")
}
