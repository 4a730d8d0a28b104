package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/oksasatya/teambuilder/internal/application"
	"github.com/oksasatya/teambuilder/internal/infrastructure/backend"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Copy every record from one storage backend to another",
	Long: `Copy all users and projects between storage backends, upgrading older
record shapes on the way. Records with the same id in the destination are
replaced.

Examples:
  marketctl migrate --from local --to firestore
  marketctl migrate --from redis --to postgres`,
	Args: cobra.NoArgs,
	RunE: runMigrate,
}

func init() {
	migrateCmd.Flags().String("from", backend.Local, "source backend")
	migrateCmd.Flags().String("to", "", "destination backend")
	_ = migrateCmd.MarkFlagRequired("to")
}

func runMigrate(cmd *cobra.Command, _ []string) error {
	ctx := context.Background()
	cfg := loadConfig()
	logger := newLogger(cfg)

	from, _ := cmd.Flags().GetString("from")
	to, _ := cmd.Flags().GetString("to")
	if from == to {
		return fmt.Errorf("source and destination are both %q", from)
	}

	src, err := backend.OpenNamed(ctx, from, cfg, logger)
	if err != nil {
		return fmt.Errorf("open source: %w", err)
	}
	defer src.Close()
	dst, err := backend.OpenNamed(ctx, to, cfg, logger)
	if err != nil {
		return fmt.Errorf("open destination: %w", err)
	}
	defer dst.Close()

	stats, err := application.MigrateRecords(ctx, src.Store, dst.Store, logger)
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "migrated %d user(s) and %d project(s) from %s to %s\n", stats.Users, stats.Projects, src.Name, dst.Name)
	return nil
}
