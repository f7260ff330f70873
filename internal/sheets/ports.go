package sheets

import (
	"context"

	"github.com/uson1004/SwanBudget/internal/core"
)

// Ports for outbound adapters.
type (
	// SnapshotWriter mirrors the full ledger to an external spreadsheet,
	// replacing whatever was there before.
	SnapshotWriter interface {
		WriteSnapshot(ctx context.Context, snap core.Snapshot) error
	}
)
