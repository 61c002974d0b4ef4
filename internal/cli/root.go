// Package cli implements the kanban command-line interface.
package cli

import (
	"errors"
	"fmt"
	"os"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/mesh-intelligence/casekanban/internal/paths"
	"github.com/mesh-intelligence/casekanban/pkg/types"
)

// Exit codes.
const (
	exitSuccess   = 0
	exitUserError = 1
	exitSysError  = 2
)

// rootFlags holds global flag values accessible to all subcommands.
type rootFlags struct {
	configDir string
	dataDir   string
	backend   string
	jsonMode  bool
	verbose   bool
}

// app is the state shared by one invocation of the root command.
type app struct {
	flags     rootFlags
	configDir string
	v         *viper.Viper
	cfg       types.Config
	logger    *zap.Logger

	// newLogger builds the diagnostic logger; replaced in tests.
	newLogger func(verbose bool) (*zap.Logger, error)
}

func newApp() *app {
	return &app{
		logger:    zap.NewNop(),
		newLogger: productionLogger,
	}
}

// NewRootCmd creates the top-level "kanban" command with global flags
// and all subcommands registered.
func NewRootCmd() *cobra.Command {
	return newRootCmd(newApp())
}

func newRootCmd(a *app) *cobra.Command {
	root := &cobra.Command{
		Use:   "kanban",
		Short: "A case-intake kanban board",
		Long: "Kanban tracks intake cases on a four-column board:\n" +
			types.StatusNames() + ".",
		Version:       Version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.setup()
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			_ = a.logger.Sync()
		},
	}

	pf := root.PersistentFlags()
	pf.StringVar(&a.flags.configDir, "config-dir", "", "configuration directory (default: $(CWD)/.kanban)")
	pf.StringVar(&a.flags.dataDir, "data-dir", "", "data directory (default: $(CWD)/.kanban-db)")
	pf.StringVar(&a.flags.backend, "backend", "", "storage backend: file, sqlite, redis, memory")
	pf.BoolVar(&a.flags.jsonMode, "json", false, "output in JSON format")
	pf.BoolVarP(&a.flags.verbose, "verbose", "v", false, "enable debug logging")

	root.AddCommand(newVersionCmd())
	root.AddCommand(newInitCmd(a))
	root.AddCommand(newCreateCmd(a))
	root.AddCommand(newEditCmd(a))
	root.AddCommand(newMoveCmd(a))
	root.AddCommand(newDeleteCmd(a))
	root.AddCommand(newShowCmd(a))
	root.AddCommand(newListCmd(a))
	root.AddCommand(newBoardCmd(a))
	root.AddCommand(newServeCmd(a))

	return root
}

// Execute runs the root command and exits with the appropriate code.
func Execute() {
	root := NewRootCmd()
	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(exitCode(err))
	}
}

// setup loads .env and config.yaml, resolves the store configuration, and
// builds the logger.
func (a *app) setup() error {
	loadDotenv()

	configDir, err := paths.ResolveConfigDir(a.flags.configDir)
	if err != nil {
		return sysError(fmt.Errorf("resolve config dir: %w", err))
	}
	a.configDir = configDir

	v, err := loadConfig(configDir)
	if err != nil {
		return sysError(err)
	}
	a.v = v

	cfg, err := storeConfig(v, a.flags)
	if err != nil {
		return sysError(err)
	}
	a.cfg = cfg

	logger, err := a.newLogger(a.flags.verbose)
	if err != nil {
		return sysError(fmt.Errorf("initialize logger: %w", err))
	}
	session, err := uuid.NewV7()
	if err != nil {
		return sysError(fmt.Errorf("session id: %w", err))
	}
	a.logger = logger.With(zap.String("session", session.String()))
	return nil
}

func productionLogger(verbose bool) (*zap.Logger, error) {
	config := zap.NewProductionConfig()
	if verbose {
		config.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
	}
	return config.Build()
}

// exitError carries the process exit code for a failed command.
type exitError struct {
	code int
	err  error
}

func (e *exitError) Error() string { return e.err.Error() }
func (e *exitError) Unwrap() error { return e.err }

func userError(err error) error { return &exitError{code: exitUserError, err: err} }
func sysError(err error) error  { return &exitError{code: exitSysError, err: err} }

// exitCode maps an error returned by a command to an exit code. Errors
// raised by cobra itself (unknown flags, wrong argument counts) are user
// errors.
func exitCode(err error) int {
	if err == nil {
		return exitSuccess
	}
	var ee *exitError
	if errors.As(err, &ee) {
		return ee.code
	}
	return exitUserError
}
