package orders

import "context"

type (
	// Store is the remote order store's mutation surface consumed by
	// the action service.
	Store interface {
		GetOrder(ctx context.Context, orderID string) (*Order, error)
		InlineUpdate(ctx context.Context, orderID string, upd InlineUpdate) error
		Pickup(ctx context.Context, orderID string) error
		UndoPickup(ctx context.Context, orderID string) error
	}

	// Resyncer re-establishes board ground truth after a write attempt.
	Resyncer interface {
		Resync()
	}

	// Confirmer asks the operator to confirm a destructive action.
	Confirmer interface {
		Confirm(action string, orderID string) bool
	}
)

// ConfirmFunc adapts a plain function to Confirmer, so the front end
// can bind its dialog without a named type.
type ConfirmFunc func(action string, orderID string) bool

func (f ConfirmFunc) Confirm(action string, orderID string) bool {
	return f(action, orderID)
}
