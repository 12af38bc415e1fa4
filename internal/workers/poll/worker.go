package poll

import (
	"log/slog"
	"time"
)

const defaultInterval = 5 * time.Second

// Worker triggers periodic board refreshes. It never waits for a
// refresh to finish: overlap is the board's problem, and the board
// resolves it by discarding superseded responses.
type Worker struct {
	board    Refresher
	interval time.Duration
	logger   *slog.Logger

	stopCh chan struct{}
	doneCh chan struct{}
}

func NewWorker(board Refresher, interval time.Duration, logger *slog.Logger) *Worker {
	if interval <= 0 {
		interval = defaultInterval
	}
	return &Worker{
		board:    board,
		interval: interval,
		logger:   logger,
		stopCh:   make(chan struct{}),
		doneCh:   make(chan struct{}),
	}
}

func (w *Worker) Name() string {
	return "poll"
}

func (w *Worker) Start() error {
	w.logger.Info("Starting poll worker", "interval", w.interval)

	go func() {
		defer func() {
			if r := recover(); r != nil {
				w.logger.Error("Panic in poll worker goroutine", "panic", r)
			}
		}()
		w.run()
	}()
	return nil
}

func (w *Worker) Stop() {
	w.logger.Info("Stopping poll worker")
	close(w.stopCh)
	<-w.doneCh
}

func (w *Worker) run() {
	defer close(w.doneCh)

	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			w.board.Refresh()
		case <-w.stopCh:
			return
		}
	}
}
