package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/oksasatya/teambuilder/internal/application"
)

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Publish the built-in project templates",
	Long: `Create the demo author (or reuse an existing user with that name) and
publish every built-in template the author does not have yet. Safe to run
more than once.`,
	Args: cobra.NoArgs,
	RunE: runSeed,
}

func init() {
	seedCmd.Flags().String("author", "Demo author", "name of the user who owns the seeded projects")
	seedCmd.Flags().String("backend", "", "storage backend (defaults to STORAGE_BACKEND)")
}

func runSeed(cmd *cobra.Command, _ []string) error {
	ctx := context.Background()
	cfg := loadConfig()
	logger := newLogger(cfg)

	author, _ := cmd.Flags().GetString("author")
	name, _ := cmd.Flags().GetString("backend")
	if name == "" {
		name = cfg.StorageBackend
	}

	store, closeFn, err := openStore(ctx, name, cfg, logger)
	if err != nil {
		return err
	}
	defer closeFn()

	user, created, err := application.SeedTemplates(store, author)
	if err != nil {
		return fmt.Errorf("seed: %w", err)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "author %s (%s): %d project(s) created\n", user.Name, user.ID, len(created))
	for _, p := range created {
		fmt.Fprintf(cmd.OutOrStdout(), "  %s  %s\n", p.ID, p.Title)
	}
	return nil
}
