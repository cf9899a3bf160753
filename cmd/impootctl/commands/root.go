// Package commands implements impootctl, the operator CLI that works
// directly against the impoot database.
package commands

import (
	"github.com/spf13/cobra"

	"github.com/impoot/impoot/internal/config"
	"github.com/impoot/impoot/internal/storage"
)

var (
	dbPath string
	cfg    config.Config
	store  *storage.Store
)

func Execute() error {
	return execute(newRootCmd())
}

// execute runs root and closes the store whether or not the command failed.
func execute(root *cobra.Command) error {
	defer func() {
		if store != nil {
			store.Close()
			store = nil
		}
	}()
	return root.Execute()
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:          "impootctl",
		Short:        "Operate an impoot marketplace database",
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			var err error
			if cfg, err = config.Load(); err != nil {
				return err
			}
			if dbPath == "" {
				dbPath = cfg.DBPath
			}
			store, err = storage.New(dbPath)
			return err
		},
	}

	root.PersistentFlags().StringVar(&dbPath, "db", "", "SQLite database path (default $IMPOOT_DB_PATH)")

	root.AddCommand(commissionCmd(), roleCmd(), settlementCmd(), briefingCmd())
	return root
}
