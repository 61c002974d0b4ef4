package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"github.com/mesh-intelligence/casekanban/internal/board"
	"github.com/mesh-intelligence/casekanban/pkg/types"
)

// env is an isolated config and data directory pair.
type env struct {
	configDir string
	dataDir   string
	backend   string
}

func newEnv(t *testing.T, backend string) env {
	t.Helper()
	for _, k := range []string{"KANBAN_CONFIG_DIR", "KANBAN_DATA_DIR", "KANBAN_BACKEND", "KANBAN_KEY", "KANBAN_REDIS_URL", "KANBAN_SERVER_ADDR"} {
		t.Setenv(k, "")
	}
	return env{
		configDir: filepath.Join(t.TempDir(), "config"),
		dataDir:   filepath.Join(t.TempDir(), "data"),
		backend:   backend,
	}
}

// run executes the root command with args and returns stdout and the error.
func (e env) run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	a := newApp()
	a.newLogger = func(bool) (*zap.Logger, error) { return zap.NewNop(), nil }
	root := newRootCmd(a)

	full := []string{"--config-dir", e.configDir, "--data-dir", e.dataDir}
	if e.backend != "" {
		full = append(full, "--backend", e.backend)
	}
	var out, errOut bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&errOut)
	root.SetArgs(append(full, args...))
	err := root.ExecuteContext(context.Background())
	return out.String(), err
}

func (e env) mustRun(t *testing.T, args ...string) string {
	t.Helper()
	out, err := e.run(t, args...)
	require.NoError(t, err)
	return out
}

func (e env) createJane(t *testing.T) types.Card {
	t.Helper()
	out := e.mustRun(t, "--json", "create",
		"--title", "Dr.", "--name", "Jane Doe", "--age", "30",
		"--email", "a@b.com", "--phone", "12345678901")
	var c types.Card
	require.NoError(t, json.Unmarshal([]byte(out), &c))
	return c
}

func idArg(c types.Card) string {
	return fmt.Sprint(c.ID)
}

func TestVersion(t *testing.T) {
	e := newEnv(t, "")
	out := e.mustRun(t, "version")
	assert.Equal(t, "kanban v"+Version+"\nmodule: "+modulePath+"\n", out)
}

func TestInit(t *testing.T) {
	e := newEnv(t, "file")

	out := e.mustRun(t, "init")
	assert.Contains(t, out, "Kanban initialized successfully")

	data, err := os.ReadFile(filepath.Join(e.configDir, "config.yaml"))
	require.NoError(t, err)
	var cfg configFile
	require.NoError(t, yaml.Unmarshal(data, &cfg))
	assert.Equal(t, types.BackendFile, cfg.Backend)
	assert.Equal(t, types.DefaultKey, cfg.Key)
	assert.Equal(t, ":8080", cfg.Server.Addr)

	snapshot, err := os.ReadFile(filepath.Join(e.dataDir, "cards.json"))
	require.NoError(t, err)
	assert.Equal(t, "[]", string(snapshot))

	// Idempotent: existing config and board are kept.
	e.createJane(t)
	out = e.mustRun(t, "init")
	assert.NotContains(t, out, "Wrote")
	assert.Contains(t, e.mustRun(t, "list"), "Jane Doe")
}

func TestCreateAndMoveScenario(t *testing.T) {
	e := newEnv(t, "file")
	c := e.createJane(t)

	assert.Equal(t, types.StatusUnclaimed, c.Status)
	assert.NotZero(t, c.ID)

	out := e.mustRun(t, "move", idArg(c), "first", "contact")
	assert.Equal(t, fmt.Sprintf("Moved card %d to First Contact\n", c.ID), out)

	assert.Empty(t, e.mustRun(t, "list", "--status", "Unclaimed"))
	assert.Contains(t, e.mustRun(t, "list", "--status", "First Contact"), idArg(c))
}

func TestCreatePlainOutput(t *testing.T) {
	e := newEnv(t, "sqlite")
	out := e.mustRun(t, "create",
		"--title", "Mr", "--name", "John Roe", "--age", "45",
		"--email", "j@r.org", "--phone", "10987654321")
	assert.Regexp(t, `^Created card \d+\n$`, out)
}

func TestCreateValidationErrors(t *testing.T) {
	e := newEnv(t, "file")

	_, err := e.run(t, "create",
		"--title", "Dr.", "--name", "Jane Doe", "--age", "200",
		"--email", "a@b.com", "--phone", "123")

	require.Error(t, err)
	assert.Equal(t, exitUserError, exitCode(err))
	assert.True(t, errors.Is(err, types.ErrValidation))
	assert.Equal(t,
		"invalid card:\n  age: Age must be between 1 and 120.\n  phone: Phone number must be 11 digits.",
		err.Error())
	assert.Empty(t, e.mustRun(t, "list"))
}

func TestEditKeepsUnsetFields(t *testing.T) {
	e := newEnv(t, "file")
	c := e.createJane(t)

	out := e.mustRun(t, "--json", "edit", idArg(c), "--name", "Jane Smith", "--age", "150")
	var got types.Card
	require.NoError(t, json.Unmarshal([]byte(out), &got))

	assert.Equal(t, "Jane Smith", got.Name)
	assert.Equal(t, types.Age("150"), got.Age)
	assert.Equal(t, c.Email, got.Email)
	assert.Equal(t, c.Phone, got.Phone)
	assert.Equal(t, c.Status, got.Status)
}

func TestEditErrors(t *testing.T) {
	e := newEnv(t, "file")
	c := e.createJane(t)

	tests := []struct {
		name string
		args []string
		want int
	}{
		{name: "invalid email", args: []string{"edit", idArg(c), "--email", "nope"}, want: exitUserError},
		{name: "unknown card", args: []string{"edit", "42", "--name", "X"}, want: exitUserError},
		{name: "bad id", args: []string{"edit", "abc"}, want: exitUserError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := e.run(t, tt.args...)
			require.Error(t, err)
			assert.Equal(t, tt.want, exitCode(err))
		})
	}
}

func TestMoveErrors(t *testing.T) {
	e := newEnv(t, "file")
	c := e.createJane(t)

	_, err := e.run(t, "move", idArg(c), "Archived")
	require.Error(t, err)
	assert.Equal(t, exitUserError, exitCode(err))
	assert.ErrorIs(t, err, types.ErrInvalidStatus)

	out := e.mustRun(t, "move", "42", "Unclaimed")
	assert.Equal(t, "No card 42; nothing moved\n", out)
}

func TestMissingCardJSON(t *testing.T) {
	e := newEnv(t, "file")
	c := e.createJane(t)

	assert.JSONEq(t, `{"found":false,"id":42}`, e.mustRun(t, "--json", "move", "42", "Unclaimed"))
	assert.JSONEq(t, `{"found":false,"id":42}`, e.mustRun(t, "--json", "delete", "42"))
	assert.JSONEq(t, fmt.Sprintf(`{"found":true,"id":%d}`, c.ID), e.mustRun(t, "--json", "delete", idArg(c)))
	assert.JSONEq(t, fmt.Sprintf(`{"found":false,"id":%d}`, c.ID), e.mustRun(t, "--json", "delete", idArg(c)))
}

func TestDeleteAndShow(t *testing.T) {
	e := newEnv(t, "file")
	c := e.createJane(t)

	out := e.mustRun(t, "show", idArg(c))
	assert.Contains(t, out, "Dr. Jane Doe  30 yo")
	assert.Contains(t, out, "status: Unclaimed")

	assert.Equal(t, fmt.Sprintf("Deleted card %d\n", c.ID), e.mustRun(t, "delete", idArg(c)))
	assert.Equal(t, fmt.Sprintf("No card %d; nothing deleted\n", c.ID), e.mustRun(t, "delete", idArg(c)))

	_, err := e.run(t, "show", idArg(c))
	assert.Equal(t, exitUserError, exitCode(err))
}

func TestBoardCommand(t *testing.T) {
	e := newEnv(t, "file")
	e.createJane(t)

	out := e.mustRun(t, "board", "--width", "160")
	assert.Contains(t, out, "Unclaimed (1)")
	assert.Contains(t, out, "Send to Therapist (0)")

	var cols []board.ColumnView
	require.NoError(t, json.Unmarshal([]byte(e.mustRun(t, "--json", "board")), &cols))
	require.Len(t, cols, 4)
	assert.Equal(t, 1, cols[0].Count)
}

func TestConfigFileSelectsBackend(t *testing.T) {
	e := newEnv(t, "")
	require.NoError(t, os.MkdirAll(e.configDir, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(e.configDir, "config.yaml"),
		[]byte("backend: sqlite\nkey: intake\n"), 0o644))

	e.createJane(t)

	_, err := os.Stat(filepath.Join(e.dataDir, "kanban.db"))
	assert.NoError(t, err)
}

func TestEnvOverridesConfigFile(t *testing.T) {
	e := newEnv(t, "")
	require.NoError(t, os.MkdirAll(e.configDir, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(e.configDir, "config.yaml"),
		[]byte("backend: sqlite\n"), 0o644))
	t.Setenv("KANBAN_BACKEND", "file")

	e.createJane(t)

	_, err := os.Stat(filepath.Join(e.dataDir, "cards.json"))
	assert.NoError(t, err)
}

func TestSystemErrors(t *testing.T) {
	tests := []struct {
		name    string
		backend string
		config  string
	}{
		{name: "unknown backend", backend: "postgres"},
		{name: "redis without url", backend: "redis"},
		{name: "malformed config", config: "backend: [\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := newEnv(t, tt.backend)
			if tt.config != "" {
				require.NoError(t, os.MkdirAll(e.configDir, 0o755))
				require.NoError(t, os.WriteFile(filepath.Join(e.configDir, "config.yaml"), []byte(tt.config), 0o644))
			}
			_, err := e.run(t, "list")
			require.Error(t, err)
			assert.Equal(t, exitSysError, exitCode(err))
		})
	}
}

func TestExitCode(t *testing.T) {
	assert.Equal(t, exitSuccess, exitCode(nil))
	assert.Equal(t, exitUserError, exitCode(errors.New("unknown flag")))
	assert.Equal(t, exitSysError, exitCode(fmt.Errorf("wrapped: %w", sysError(errors.New("disk")))))
}

func TestServe(t *testing.T) {
	e := newEnv(t, "memory")
	a := newApp()
	a.flags = rootFlags{configDir: e.configDir, dataDir: e.dataDir, backend: "memory"}
	require.NoError(t, a.setup())

	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	addr := ln.Addr().String()
	require.NoError(t, ln.Close())

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- a.serve(ctx, addr) }()

	var resp *http.Response
	require.Eventually(t, func() bool {
		resp, err = http.Get("http://" + addr + "/healthz")
		return err == nil
	}, 5*time.Second, 20*time.Millisecond)
	resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	resp, err = http.Post("http://"+addr+"/cards", "application/json", strings.NewReader(
		`{"title":"Dr.","name":"Jane Doe","age":"30","email":"a@b.com","phone":"12345678901"}`))
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusCreated, resp.StatusCode)

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(10 * time.Second):
		t.Fatal("server did not stop")
	}
}
