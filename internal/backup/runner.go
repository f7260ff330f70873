package backup

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/uson1004/SwanBudget/internal/core"
	"github.com/uson1004/SwanBudget/internal/finance"
)

// Source produces the snapshot to back up. *finance.Store satisfies it.
type Source interface {
	Backup() core.Snapshot
	BackupFilename(prefix string) string
}

type loader interface {
	Load(ctx context.Context) error
}

type Runner struct {
	source Source
	sinks  []Sink
	prefix string
	// Reload re-reads persisted state before each run. Set it when the
	// source is not the store the server writes through.
	Reload bool
}

func NewRunner(source Source, prefix string, sinks ...Sink) *Runner {
	return &Runner{source: source, sinks: sinks, prefix: prefix}
}

// RunOnce writes one snapshot to every sink. A failing sink does not stop
// the others; all sink errors are returned joined.
func (r *Runner) RunOnce(ctx context.Context) ([]string, error) {
	if len(r.sinks) == 0 {
		return nil, errors.New("no backup sinks configured")
	}
	if r.Reload {
		if l, ok := r.source.(loader); ok {
			if err := l.Load(ctx); err != nil {
				return nil, fmt.Errorf("reload ledger: %w", err)
			}
		}
	}

	snap := r.source.Backup()
	data, err := finance.EncodeSnapshot(snap)
	if err != nil {
		return nil, fmt.Errorf("encode snapshot: %w", err)
	}
	name := r.source.BackupFilename(r.prefix)

	var (
		locations []string
		errs      []error
	)
	for _, sink := range r.sinks {
		loc, err := sink.Put(ctx, name, data)
		if err != nil {
			slog.ErrorContext(ctx, "Backup sink failed", "file", name, "error", err)
			errs = append(errs, err)
			continue
		}
		locations = append(locations, loc)
	}

	slog.InfoContext(ctx, "Backup completed",
		"file", name,
		"bytes", len(data),
		"transactions", len(snap.Transactions),
		"locations", locations)
	return locations, errors.Join(errs...)
}

// Scheduler runs a Runner on a cron schedule.
type Scheduler struct {
	cron    *cron.Cron
	runner  *Runner
	timeout time.Duration
}

// NewScheduler accepts standard five-field specs and descriptors such as
// "@daily" or "@every 6h".
func NewScheduler(spec string, runner *Runner, loc *time.Location) (*Scheduler, error) {
	if loc == nil {
		loc = time.Local
	}
	s := &Scheduler{
		cron:    cron.New(cron.WithLocation(loc)),
		runner:  runner,
		timeout: 5 * time.Minute,
	}
	if _, err := s.cron.AddFunc(spec, s.tick); err != nil {
		return nil, fmt.Errorf("invalid backup schedule %q: %w", spec, err)
	}
	return s, nil
}

func (s *Scheduler) tick() {
	ctx, cancel := context.WithTimeout(context.Background(), s.timeout)
	defer cancel()
	if _, err := s.runner.RunOnce(ctx); err != nil {
		slog.ErrorContext(ctx, "Scheduled backup failed", "error", err)
	}
}

// Next reports when the next backup will run. It is zero before Run.
func (s *Scheduler) Next() time.Time {
	entries := s.cron.Entries()
	if len(entries) == 0 {
		return time.Time{}
	}
	return entries[0].Next
}

// Run starts the schedule and blocks until ctx is done, then waits for a
// running backup to finish.
func (s *Scheduler) Run(ctx context.Context) error {
	s.cron.Start()
	slog.InfoContext(ctx, "Backup scheduler started", "next", s.Next())
	<-ctx.Done()
	<-s.cron.Stop().Done()
	slog.InfoContext(ctx, "Backup scheduler stopped")
	return nil
}
