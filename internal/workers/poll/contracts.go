package poll

type (
	// Refresher kicks a board reconciliation cycle. The call only
	// schedules work; the board decides what to do with the result.
	Refresher interface {
		Refresh()
	}
)
