package main

import (
	"fmt"
	"os"

	"go-pos-ledger/internal/app"
	"go-pos-ledger/internal/config"
	"go-pos-ledger/internal/logger"
	"go-pos-ledger/internal/repository"
	"go-pos-ledger/pkg/database"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "posctl",
	Short: "posctl - maintenance commands for the POS ledger",
	Long: `posctl works directly on the POS database configured through the
same environment variables as the API server (DB_DRIVER, SQLITE_PATH,
DATABASE_URL, ...).

Stop the API server before writing with posctl when using SQLite; each
process keeps its own copy of the stores in memory.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load()
		if err != nil {
			return err
		}
		return logger.Setup(cfg.GetLoggerConfig())
	},
}

func init() {
	rootCmd.PersistentFlags().String("operator", "posctl", "Name recorded as the author of changes")
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		log := logger.WithComponent("cmd")
		log.Error().Err(err).Msg("Command execution failed")
		fmt.Fprintf(os.Stderr, "Error executing command: %v\n", err)
		os.Exit(1)
	}
}

// openServices connects to the configured database and loads every store.
func openServices() (*app.Services, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	db, err := database.Open(cfg.DatabaseOptions())
	if err != nil {
		return nil, err
	}
	if err := repository.Migrate(db); err != nil {
		return nil, fmt.Errorf("migrate: %w", err)
	}
	return app.Build(repository.NewSnapshotRepo(db), cfg, nil)
}

func operatorFlag(cmd *cobra.Command) string {
	operator, _ := cmd.Flags().GetString("operator")
	return operator
}
