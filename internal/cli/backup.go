package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/oksasatya/teambuilder/internal/application"
	"github.com/oksasatya/teambuilder/pkg/helpers"
)

var backupCmd = &cobra.Command{
	Use:   "backup",
	Short: "Write a snapshot of all users and projects",
	Long: `Write a JSON snapshot of the marketplace to GCS_BUCKET under BACKUP_PREFIX.
With --dir the snapshot is written to a local directory instead.`,
	Args: cobra.NoArgs,
	RunE: runBackup,
}

func init() {
	backupCmd.Flags().String("dir", "", "write the snapshot under this directory instead of GCS")
}

func runBackup(cmd *cobra.Command, _ []string) error {
	ctx := context.Background()
	cfg := loadConfig()
	logger := newLogger(cfg)
	dir, _ := cmd.Flags().GetString("dir")

	var upload application.UploadFunc
	switch {
	case dir != "":
		upload = func(_ context.Context, objectPath, _ string, r io.Reader) (string, error) {
			return writeFile(filepath.Join(dir, filepath.FromSlash(objectPath)), r)
		}
	case cfg.GCSBucket != "":
		client, err := helpers.NewGCSClient(ctx, cfg.GCSCredentialsJSONPath)
		if err != nil {
			return fmt.Errorf("gcs client: %w", err)
		}
		defer func() { _ = client.Close() }()
		upload = func(ctx context.Context, objectPath, contentType string, r io.Reader) (string, error) {
			return helpers.UploadObject(ctx, client, cfg.GCSBucket, objectPath, contentType, r)
		}
	default:
		return fmt.Errorf("set GCS_BUCKET or pass --dir")
	}

	store, closeFn, err := openStore(ctx, cfg.StorageBackend, cfg, logger)
	if err != nil {
		return err
	}
	defer closeFn()

	b := &application.Backup{Store: store, Upload: upload, Prefix: cfg.BackupPrefix, Logger: logger}
	loc, err := b.Run(ctx)
	if err != nil {
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout(), loc)
	return nil
}

func writeFile(path string, r io.Reader) (string, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return "", err
	}
	f, err := os.Create(path)
	if err != nil {
		return "", err
	}
	if _, err := io.Copy(f, r); err != nil {
		_ = f.Close()
		return "", err
	}
	return path, f.Close()
}
