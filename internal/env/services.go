package environment

import (
	"context"
	"log/slog"

	"flycenter-counter/internal/board"
	"flycenter-counter/internal/config"
	"flycenter-counter/internal/localization"
	"flycenter-counter/internal/storage"
	"flycenter-counter/internal/stories/orders"
	"flycenter-counter/internal/workers"
	"flycenter-counter/internal/workers/maintenance"
	"flycenter-counter/internal/workers/poll"

	"github.com/pkg/errors"
)

type Services struct {
	Board    *board.Engine
	Activity *board.ActivityTracker
	Orders   *orders.Service
	Workers  *workers.Manager
}

func newServices(ctx context.Context, clients *Clients, cfg *config.Config, logger *slog.Logger) (*Services, error) {
	var s Services

	storageImpl := storage.New(clients.SQLiteDB.DB)
	if err := storageImpl.EnsureSchema(ctx); err != nil {
		return nil, errors.Wrap(err, "ensure preferences schema")
	}

	locService, err := localization.NewService()
	if err != nil {
		return nil, errors.Wrap(err, "failed to create localization service")
	}

	activity := board.NewActivityTracker()
	presenter := board.NewPresenter(locService, cfg.Board.Language)

	engine := board.NewEngine(
		clients.OrderStore,
		activity,
		presenter,
		storageImpl,
		logger.WithGroup("board"),
		board.Options{SearchDebounce: cfg.Board.SearchDebounce},
	)

	// The front end binds its confirmation dialog here; until it does,
	// actions go through unprompted.
	confirm := orders.ConfirmFunc(func(action, orderID string) bool {
		logger.Info("Confirming action", "action", action, "order_id", orderID)
		return true
	})

	ordersService := orders.NewService(clients.OrderStore, engine, confirm, logger.WithGroup("orders"))

	pollWorker := poll.NewWorker(engine, cfg.Board.PollInterval, logger)
	maintenanceWorker := maintenance.NewWorker(storageImpl, engine, logger)

	s.Board = engine
	s.Activity = activity
	s.Orders = ordersService
	s.Workers = workers.NewManager(logger, pollWorker, maintenanceWorker)

	return &s, nil
}
