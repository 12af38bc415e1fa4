package maintenance

import "context"

type (
	// Storage provides database housekeeping operations
	Storage interface {
		Vacuum(ctx context.Context) error
	}

	// Resyncer forces a full board reload.
	Resyncer interface {
		Resync()
	}
)
