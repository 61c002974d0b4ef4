package cli

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/casekanban/internal/kv"
	"github.com/mesh-intelligence/casekanban/internal/persist"
)

func newInitCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "init",
		Short: "Initialize kanban storage",
		Long: "Create the configuration directory with a default config.yaml, open the\n" +
			"storage backend, and write an empty board if none is stored yet.",
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.runInit(cmd)
		},
	}
}

func (a *app) runInit(cmd *cobra.Command) error {
	if err := os.MkdirAll(a.configDir, 0o755); err != nil {
		return sysError(fmt.Errorf("create config directory: %w", err))
	}

	written, err := writeConfigIfMissing(a.configDir, configFile{
		Backend:  a.cfg.Backend,
		DataDir:  a.flags.dataDir,
		Key:      a.cfg.SnapshotKey(),
		RedisURL: a.cfg.RedisURL,
		Server:   serverConfig{Addr: a.v.GetString(cfgKeyServerAddr)},
	})
	if err != nil {
		return sysError(err)
	}

	ctx := cmd.Context()
	store, err := kv.Open(ctx, a.cfg)
	if err != nil {
		return sysError(fmt.Errorf("initialize storage: %w", err))
	}
	defer store.Close()

	key := a.cfg.SnapshotKey()
	if _, err := store.Get(ctx, key); errors.Is(err, kv.ErrNotFound) {
		empty, err := persist.Encode(nil)
		if err != nil {
			return sysError(err)
		}
		if err := store.Put(ctx, key, empty); err != nil {
			return sysError(fmt.Errorf("write empty board: %w", err))
		}
	} else if err != nil {
		return sysError(fmt.Errorf("read board: %w", err))
	}

	out := cmd.OutOrStdout()
	if written {
		fmt.Fprintf(out, "Wrote %s/%s\n", a.configDir, configFileExt)
	}
	fmt.Fprintln(out, "Kanban initialized successfully")
	return nil
}
