package board

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"flycenter-counter/internal/infra/orderstore"
	"flycenter-counter/internal/stories/orders"
	"flycenter-counter/internal/stories/pricing"
)

type echoLocalizer struct {
	mu    sync.Mutex
	calls int
}

func (l *echoLocalizer) Get(_, key string, _ map[string]interface{}) string {
	l.mu.Lock()
	l.calls++
	l.mu.Unlock()
	return key
}

func (l *echoLocalizer) callCount() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.calls
}

type scriptedActivity struct {
	mu   sync.Mutex
	busy map[string]bool
}

func (a *scriptedActivity) IsRowBusy(orderID string) bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.busy[orderID]
}

func (a *scriptedActivity) setBusy(orderID string, busy bool) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.busy[orderID] = busy
}

type fakeStore struct {
	mu      sync.Mutex
	queries []orderstore.Query
	respond func(ctx context.Context, q orderstore.Query) ([]orders.Order, error)
}

func (s *fakeStore) ListOrders(ctx context.Context, q orderstore.Query) ([]orders.Order, error) {
	s.mu.Lock()
	s.queries = append(s.queries, q)
	respond := s.respond
	s.mu.Unlock()
	if respond == nil {
		return nil, nil
	}
	return respond(ctx, q)
}

func (s *fakeStore) queryCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.queries)
}

func (s *fakeStore) lastQuery() orderstore.Query {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.queries[len(s.queries)-1]
}

func makeOrder(id string, rev int) orders.Order {
	return orders.Order{
		OrderID:             id,
		Name:                fmt.Sprintf("customer-%s-%d", id, rev),
		SuitcaseQty:         1,
		BackpackQty:         1,
		SetQty:              1,
		PricePerDay:         1200,
		ExpectedStorageDays: 2,
		BasePrepaidAmount:   2400,
		FlyingPassTier:      pricing.TierNone,
		PrepaidAmount:       2400,
		PaymentMethod:       orders.PayQR,
		PaymentStatus:       orders.PaymentPending,
		ExpectedPickupDate:  "2026-09-01",
		ExpectedPickupTime:  "15:00",
	}
}

func newTestEngine(store *fakeStore, activity *scriptedActivity) (*Engine, *echoLocalizer) {
	loc := &echoLocalizer{}
	presenter := NewPresenter(loc, "ko")
	eng := NewEngine(store, activity, presenter, nil, slog.Default(), Options{
		SearchDebounce: 30 * time.Millisecond,
	})
	return eng, loc
}

// apply drives the merge synchronously, the way a completed fetch does.
func apply(e *Engine, snapshot []orders.Order) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.applyLocked(snapshot)
}

func TestReconcileIdempotent(t *testing.T) {
	activity := &scriptedActivity{busy: map[string]bool{}}
	eng, loc := newTestEngine(&fakeStore{}, activity)

	snapshot := []orders.Order{makeOrder("A", 1), makeOrder("B", 1)}
	apply(eng, snapshot)
	require.Equal(t, []string{"A", "B"}, eng.RowIDs())

	before := loc.callCount()
	apply(eng, snapshot)

	assert.Equal(t, before, loc.callCount(), "second pass over an unchanged snapshot must rebuild nothing")
	assert.Equal(t, []string{"A", "B"}, eng.RowIDs())
}

func TestBusyRowProtectedAndChangeNotForgotten(t *testing.T) {
	activity := &scriptedActivity{busy: map[string]bool{}}
	eng, _ := newTestEngine(&fakeStore{}, activity)

	apply(eng, []orders.Order{makeOrder("A", 1)})
	viewBefore := eng.Rows()[0]

	// The operator starts editing; the server-side row changes meanwhile.
	activity.setBusy("A", true)
	changed := makeOrder("A", 2)
	apply(eng, []orders.Order{changed})

	assert.Equal(t, viewBefore, eng.Rows()[0], "busy row must not be touched")

	// Row goes idle: the still-pending change must be applied on the
	// next cycle, from the retained previous fingerprint.
	activity.setBusy("A", false)
	apply(eng, []orders.Order{changed})

	got, ok := eng.Snapshot("A")
	require.True(t, ok)
	assert.Equal(t, changed.Name, got.Name, "pending change must be picked up once idle")
	assert.NotEqual(t, viewBefore, eng.Rows()[0])
}

func TestOrderingIdleRowsFollowSnapshotBusyRowsPinned(t *testing.T) {
	activity := &scriptedActivity{busy: map[string]bool{}}
	eng, _ := newTestEngine(&fakeStore{}, activity)

	apply(eng, []orders.Order{makeOrder("A", 1), makeOrder("B", 1), makeOrder("C", 1)})
	require.Equal(t, []string{"A", "B", "C"}, eng.RowIDs())

	// B is mid-edit at index 1; the snapshot reorders everything.
	activity.setBusy("B", true)
	apply(eng, []orders.Order{makeOrder("C", 1), makeOrder("A", 1), makeOrder("B", 1)})

	assert.Equal(t, []string{"C", "B", "A"}, eng.RowIDs(),
		"idle rows take snapshot order, busy row keeps its position")
}

func TestBusyRowPositionClampedWhenListShrinks(t *testing.T) {
	activity := &scriptedActivity{busy: map[string]bool{}}
	eng, _ := newTestEngine(&fakeStore{}, activity)

	apply(eng, []orders.Order{makeOrder("A", 1), makeOrder("B", 1), makeOrder("C", 1), makeOrder("D", 1)})

	activity.setBusy("D", true)
	apply(eng, []orders.Order{makeOrder("D", 1), makeOrder("A", 1)})

	assert.Equal(t, []string{"A", "D"}, eng.RowIDs(),
		"busy row index past the end clamps to the last slot")
}

func TestMergeScenario(t *testing.T) {
	// Prior render [A, B, D]; snapshot [A unchanged, B changed+idle, C new].
	activity := &scriptedActivity{busy: map[string]bool{}}
	eng, loc := newTestEngine(&fakeStore{}, activity)

	apply(eng, []orders.Order{makeOrder("A", 1), makeOrder("B", 1), makeOrder("D", 1)})
	viewA := eng.Rows()[0]
	before := loc.callCount()

	apply(eng, []orders.Order{makeOrder("A", 1), makeOrder("B", 2), makeOrder("C", 1)})

	require.Equal(t, []string{"A", "B", "C"}, eng.RowIDs())
	assert.Equal(t, viewA, eng.Rows()[0], "unchanged row must be untouched")

	gotB, ok := eng.Snapshot("B")
	require.True(t, ok)
	assert.Equal(t, "customer-B-2", gotB.Name, "changed idle row must be rebuilt")

	_, hasD := eng.Snapshot("D")
	assert.False(t, hasD, "row absent from the snapshot must be removed")

	// Exactly two rows rebuilt (B) or created (C); A untouched.
	perPresent := 10 // localizer lookups per Present call
	assert.Equal(t, before+2*perPresent, loc.callCount())
}

func TestEmptySnapshotShowsPlaceholder(t *testing.T) {
	activity := &scriptedActivity{busy: map[string]bool{}}
	eng, _ := newTestEngine(&fakeStore{}, activity)

	apply(eng, []orders.Order{makeOrder("A", 1)})
	apply(eng, nil)

	assert.True(t, eng.Empty())
	assert.Empty(t, eng.RowIDs())

	rows := eng.Rows()
	require.Len(t, rows, 1)
	assert.Equal(t, "board.empty", rows[0].Summary)

	// Session state is gone: the order comes back as a brand new row.
	apply(eng, []orders.Order{makeOrder("A", 1)})
	assert.False(t, eng.Empty())
	assert.Equal(t, []string{"A"}, eng.RowIDs())
}

func TestSingleFlightDiscardsSupersededResponse(t *testing.T) {
	release := make(chan []orders.Order, 2)
	store := &fakeStore{}
	store.respond = func(ctx context.Context, _ orderstore.Query) ([]orders.Order, error) {
		select {
		case snapshot := <-release:
			return snapshot, nil
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	activity := &scriptedActivity{busy: map[string]bool{}}
	eng, _ := newTestEngine(store, activity)

	eng.Refresh() // fetch 1, will be superseded
	require.Eventually(t, func() bool { return store.queryCount() == 1 }, time.Second, time.Millisecond)
	eng.Refresh() // fetch 2
	require.Eventually(t, func() bool { return store.queryCount() == 2 }, time.Second, time.Millisecond)

	// Release the newest first, then the stale one.
	release <- []orders.Order{makeOrder("NEW", 1)}
	require.Eventually(t, func() bool {
		ids := eng.RowIDs()
		return len(ids) == 1 && ids[0] == "NEW"
	}, time.Second, time.Millisecond)

	release <- []orders.Order{makeOrder("STALE", 1)}
	// The stale response must never be applied.
	time.Sleep(50 * time.Millisecond)
	assert.Equal(t, []string{"NEW"}, eng.RowIDs())
}

func TestFailedPollKeepsLastRender(t *testing.T) {
	store := &fakeStore{}
	store.respond = func(_ context.Context, _ orderstore.Query) ([]orders.Order, error) {
		return []orders.Order{makeOrder("A", 1)}, nil
	}
	activity := &scriptedActivity{busy: map[string]bool{}}
	eng, _ := newTestEngine(store, activity)

	eng.Refresh()
	require.Eventually(t, func() bool { return len(eng.RowIDs()) == 1 }, time.Second, time.Millisecond)

	store.mu.Lock()
	store.respond = func(_ context.Context, _ orderstore.Query) ([]orders.Order, error) {
		return nil, fmt.Errorf("connection refused")
	}
	store.mu.Unlock()

	eng.Refresh()
	require.Eventually(t, func() bool { return store.queryCount() == 2 }, time.Second, time.Millisecond)
	time.Sleep(20 * time.Millisecond)

	assert.Equal(t, []string{"A"}, eng.RowIDs(), "failed poll must leave the last good render")
	assert.False(t, eng.Empty())
}

func TestSearchDebounceCoalesces(t *testing.T) {
	store := &fakeStore{}
	activity := &scriptedActivity{busy: map[string]bool{}}
	eng, _ := newTestEngine(store, activity)

	eng.SetSearchTerm("t")
	eng.SetSearchTerm("ta")
	eng.SetSearchTerm("tanaka")

	require.Eventually(t, func() bool { return store.queryCount() == 1 }, time.Second, time.Millisecond)
	time.Sleep(60 * time.Millisecond)

	assert.Equal(t, 1, store.queryCount(), "rapid keystrokes must coalesce into one request")
	assert.Equal(t, "tanaka", store.lastQuery().Term)
}

func TestStatusToggleRefreshesImmediately(t *testing.T) {
	store := &fakeStore{}
	activity := &scriptedActivity{busy: map[string]bool{}}
	eng, _ := newTestEngine(store, activity)

	eng.ToggleStatusFilter(orders.StatusPaid)
	require.Eventually(t, func() bool { return store.queryCount() == 1 }, time.Second, time.Millisecond)
	assert.Equal(t, []orders.Status{orders.StatusPaid}, store.lastQuery().Statuses)

	// Toggling the same status off leaves the "all" default.
	eng.ToggleStatusFilter(orders.StatusPaid)
	require.Eventually(t, func() bool { return store.queryCount() == 2 }, time.Second, time.Millisecond)
	assert.Empty(t, store.lastQuery().Statuses)
}

type memPrefs struct {
	mu   sync.Mutex
	data map[string]string
}

func (p *memPrefs) Get(_ context.Context, key string) (string, bool, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	v, ok := p.data[key]
	return v, ok, nil
}

func (p *memPrefs) Set(_ context.Context, key, value string) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.data[key] = value
	return nil
}

func (p *memPrefs) Remove(_ context.Context, key string) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	delete(p.data, key)
	return nil
}

func TestFilterStatePersistsAcrossEngines(t *testing.T) {
	prefs := &memPrefs{data: map[string]string{}}
	store := &fakeStore{}
	activity := &scriptedActivity{busy: map[string]bool{}}

	loc := &echoLocalizer{}
	eng := NewEngine(store, activity, NewPresenter(loc, "ko"), prefs, slog.Default(), Options{})
	eng.SetShowAllPickedUp(true)
	require.Eventually(t, func() bool { return store.queryCount() == 1 }, time.Second, time.Millisecond)

	// A fresh engine over the same preference store restores the filter.
	store2 := &fakeStore{}
	eng2 := NewEngine(store2, activity, NewPresenter(loc, "ko"), prefs, slog.Default(), Options{})
	eng2.Start(context.Background())
	require.Eventually(t, func() bool { return store2.queryCount() == 1 }, time.Second, time.Millisecond)

	assert.True(t, store2.lastQuery().ShowAllPickedUp)
	assert.True(t, eng2.Filter().ShowAllPickedUp)
}
