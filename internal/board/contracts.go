package board

import (
	"context"

	"flycenter-counter/internal/infra/orderstore"
	"flycenter-counter/internal/stories/orders"
)

type (
	// Lister fetches the authoritative order snapshot.
	Lister interface {
		ListOrders(ctx context.Context, q orderstore.Query) ([]orders.Order, error)
	}

	// RowActivityDetector reports whether a rendered row is currently
	// busy: input focus inside it, or its inline price panel open. The
	// engine re-asks every cycle and never caches the answer.
	RowActivityDetector interface {
		IsRowBusy(orderID string) bool
	}

	// Localizer resolves display labels. Params may carry {{placeholder}}
	// values.
	Localizer interface {
		Get(lang, key string, params map[string]interface{}) string
	}

	// Preferences is the persisted client-state port. Keys here are
	// unrelated to order fingerprints.
	Preferences interface {
		Get(ctx context.Context, key string) (string, bool, error)
		Set(ctx context.Context, key, value string) error
		Remove(ctx context.Context, key string) error
	}
)
