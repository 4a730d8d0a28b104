package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/oksasatya/teambuilder/config"
	"github.com/oksasatya/teambuilder/internal/application"
	"github.com/oksasatya/teambuilder/internal/infrastructure/backend"
	"github.com/oksasatya/teambuilder/pkg/helpers"
)

// loadConfig is replaced in tests.
var loadConfig = func() *config.Config {
	_ = godotenv.Load()
	return config.Load()
}

var rootCmd = &cobra.Command{
	Use:   "marketctl",
	Short: "Admin tool for the teambuilder marketplace",
	Long: `marketctl maintains marketplace data outside the running server.

It seeds the built-in project templates, copies records between storage
backends and writes snapshot backups. Connection settings come from the same
environment variables as the server.`,
	SilenceUsage: true,
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.AddCommand(seedCmd)
	rootCmd.AddCommand(migrateCmd)
	rootCmd.AddCommand(backupCmd)
}

func newLogger(cfg *config.Config) *logrus.Logger {
	return helpers.NewLogger(cfg.AppName+"-marketctl", cfg.Env, cfg.LogLevel)
}

// openStore opens the named backend and loads it into a fresh store.
// The returned func drains pending writes and closes the backend.
func openStore(ctx context.Context, name string, cfg *config.Config, logger *logrus.Logger) (*application.Store, func(), error) {
	h, err := backend.OpenNamed(ctx, name, cfg, logger)
	if err != nil {
		return nil, nil, err
	}
	store := application.NewStore(h.Store, application.WithLogger(logger))
	if err := store.Load(ctx); err != nil {
		store.Close()
		h.Close()
		return nil, nil, fmt.Errorf("load %s: %w", h.Name, err)
	}
	return store, func() {
		store.Close()
		h.Close()
	}, nil
}
