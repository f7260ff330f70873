package cli

import (
	"context"

	"github.com/uson1004/SwanBudget/internal/backup"
	"github.com/uson1004/SwanBudget/internal/config"
)

// BackupSinks returns the local directory sink plus a GCS sink when a
// bucket is configured. The returned func releases the GCS client.
func BackupSinks(ctx context.Context, cfg *config.Config) ([]backup.Sink, func(), error) {
	sinks := []backup.Sink{backup.DirSink{Dir: cfg.BackupDir}}
	if cfg.BackupGCSBucket == "" {
		return sinks, func() {}, nil
	}
	gcs, err := backup.NewGCSSink(ctx, cfg.BackupGCSBucket, "")
	if err != nil {
		return nil, nil, err
	}
	return append(sinks, gcs), func() { _ = gcs.Close() }, nil
}
