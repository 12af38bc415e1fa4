package maintenance

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/robfig/cron/v3"
)

// Worker handles nightly housekeeping: a forced board resync so the
// date-dependent columns roll over, and database compaction.
type Worker struct {
	storage Storage
	board   Resyncer
	logger  *slog.Logger
	cron    *cron.Cron
}

func NewWorker(storage Storage, board Resyncer, logger *slog.Logger) *Worker {
	return &Worker{
		storage: storage,
		board:   board,
		logger:  logger,
		cron:    cron.New(),
	}
}

// Name returns the worker name
func (w *Worker) Name() string {
	return "maintenance"
}

// Start starts the maintenance worker
func (w *Worker) Start() error {
	// Daily at 00:05: the recent-pickup cutoff rolls over at midnight,
	// so the board needs a full reload even if nothing changed.
	_, err := w.cron.AddFunc("5 0 * * *", func() {
		w.logger.Info("Running nightly board resync")
		w.board.Resync()
	})
	if err != nil {
		return fmt.Errorf("failed to schedule nightly resync: %w", err)
	}

	// Weekly on Monday 04:00
	_, err = w.cron.AddFunc("0 4 * * 1", func() {
		ctx := context.Background()
		w.logger.Info("Running preferences vacuum")
		if err := w.run(ctx); err != nil {
			w.logger.Error("Preferences vacuum failed", "error", err)
		}
	})
	if err != nil {
		return fmt.Errorf("failed to schedule preferences vacuum: %w", err)
	}

	w.cron.Start()
	return nil
}

// Stop stops the worker
func (w *Worker) Stop() {
	w.logger.Info("Stopping maintenance worker")
	w.cron.Stop()
}

func (w *Worker) run(ctx context.Context) error {
	if err := w.storage.Vacuum(ctx); err != nil {
		return fmt.Errorf("vacuum preferences db: %w", err)
	}

	w.logger.Info("Preferences vacuum completed")
	return nil
}
