package orders

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
)

var (
	// ErrConflict means the row's last-known lifecycle state no longer
	// matches the store; the save was made against a stale premise.
	ErrConflict = errors.New("order changed on the server, re-check before saving")

	// ErrPickedUpReadOnly means a billing edit was attempted on a
	// picked-up order.
	ErrPickedUpReadOnly = errors.New("picked-up orders cannot change amount, tier or payment method")

	// ErrCancelled means the operator declined the confirmation prompt.
	ErrCancelled = errors.New("action cancelled")
)

// Service executes staff actions against the order store. Writes are
// fire-and-forget: regardless of outcome a resync is triggered and the
// board only trusts the row's state after that next fetch.
type Service struct {
	store   Store
	resync  Resyncer
	confirm Confirmer
	logger  *slog.Logger
}

func NewService(store Store, resync Resyncer, confirm Confirmer, logger *slog.Logger) *Service {
	return &Service{
		store:   store,
		resync:  resync,
		confirm: confirm,
		logger:  logger,
	}
}

// SaveInline validates the payload locally, checks the row's lifecycle
// premise against the store, and submits the inline update. A local
// validation failure returns before any network call and without a
// resync; once a request has been attempted the resync always fires.
func (s *Service) SaveInline(ctx context.Context, row *Order, upd InlineUpdate) error {
	if err := upd.Validate(); err != nil {
		return err
	}
	if row.IsPickedUp && upd.touchesBilling() {
		return ErrPickedUpReadOnly
	}

	upd.LastKnownPickedUp = row.IsPickedUp

	defer s.resync.Resync()

	current, err := s.store.GetOrder(ctx, row.OrderID)
	if err != nil {
		return fmt.Errorf("check current order state: %w", err)
	}
	if current == nil || current.IsPickedUp != row.IsPickedUp {
		s.logger.Warn("inline save rejected, stale lifecycle premise",
			"order_id", row.OrderID,
			"last_known_picked_up", row.IsPickedUp)
		return ErrConflict
	}

	if err := s.store.InlineUpdate(ctx, row.OrderID, upd); err != nil {
		return fmt.Errorf("inline update: %w", err)
	}
	return nil
}

// TogglePayment flips PAYMENT_PENDING and PAID. Disallowed once the
// luggage is picked up.
func (s *Service) TogglePayment(ctx context.Context, row *Order) error {
	if !row.CanTogglePayment() {
		return ErrPickedUpReadOnly
	}

	flipped := Paid
	if row.PaymentStatus == Paid {
		flipped = PaymentPending
	}

	defer s.resync.Resync()

	if err := s.store.InlineUpdate(ctx, row.OrderID, PaymentStatusOnly(flipped, row.IsPickedUp)); err != nil {
		return fmt.Errorf("toggle payment status: %w", err)
	}
	return nil
}

// Pickup marks the order picked up after operator confirmation. Works
// from either payment state.
func (s *Service) Pickup(ctx context.Context, row *Order) error {
	if row.IsPickedUp {
		return nil
	}
	if s.confirm != nil && !s.confirm.Confirm("pickup", row.OrderID) {
		return ErrCancelled
	}

	defer s.resync.Resync()

	if err := s.store.Pickup(ctx, row.OrderID); err != nil {
		return fmt.Errorf("pickup: %w", err)
	}
	return nil
}

// UndoPickup reverts the picked-up flag after operator confirmation.
// The payment status is deliberately left as it was.
func (s *Service) UndoPickup(ctx context.Context, row *Order) error {
	if !row.IsPickedUp {
		return nil
	}
	if s.confirm != nil && !s.confirm.Confirm("undo-pickup", row.OrderID) {
		return ErrCancelled
	}

	defer s.resync.Resync()

	if err := s.store.UndoPickup(ctx, row.OrderID); err != nil {
		return fmt.Errorf("undo pickup: %w", err)
	}
	return nil
}
