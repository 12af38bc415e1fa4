package board

import "sync"

// ActivityTracker is the default RowActivityDetector. The front end
// marks a row busy when focus enters it or its price panel opens, and
// idle again when the interaction ends.
type ActivityTracker struct {
	mu   sync.RWMutex
	busy map[string]int
}

func NewActivityTracker() *ActivityTracker {
	return &ActivityTracker{busy: make(map[string]int)}
}

// Acquire marks one more interaction holding the row. Focus and the
// price panel can hold the same row at once.
func (t *ActivityTracker) Acquire(orderID string) {
	t.mu.Lock()
	t.busy[orderID]++
	t.mu.Unlock()
}

// Release drops one interaction. The row goes idle when the last
// holder releases it.
func (t *ActivityTracker) Release(orderID string) {
	t.mu.Lock()
	if t.busy[orderID] > 1 {
		t.busy[orderID]--
	} else {
		delete(t.busy, orderID)
	}
	t.mu.Unlock()
}

func (t *ActivityTracker) IsRowBusy(orderID string) bool {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.busy[orderID] > 0
}
