// Package board owns the live order board: polling triggers, single-flight
// fetches and the per-row reconciliation of server snapshots into the
// currently rendered, possibly mid-edit view.
package board

import (
	"context"
	"encoding/json"
	"log/slog"
	"sync"
	"time"

	"github.com/samber/lo"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"flycenter-counter/internal/infra/orderstore"
	"flycenter-counter/internal/stories/orders"
)

const (
	tracerName       = "flycenter-counter/board"
	defaultDebounce  = 300 * time.Millisecond
	filtersPrefKey   = "board.filters.v1"
	prefWriteTimeout = 2 * time.Second
)

// Filter is the board's current query state. An empty status set means
// "all".
type Filter struct {
	Term            string          `json:"term"`
	Statuses        []orders.Status `json:"statuses"`
	ShowAllPickedUp bool            `json:"show_all_picked_up"`
}

// row is one rendered order plus its edit session: the last fingerprint
// that was successfully reconciled into the view. Created the first time
// an order is rendered, discarded when it leaves a snapshot.
type row struct {
	id          string
	fingerprint string
	order       orders.Order
	view        RowView
}

// Options tune the engine.
type Options struct {
	// SearchDebounce is the quiet interval that coalesces rapid search
	// keystrokes into one request.
	SearchDebounce time.Duration
}

// Engine reconciles order-store snapshots into the rendered board. All
// mutable state lives on the instance so multiple boards and test
// harnesses can coexist; a single mutex guards it, and the single-flight
// sequence makes overlapping triggers safe.
type Engine struct {
	store     Lister
	activity  RowActivityDetector
	presenter *Presenter
	prefs     Preferences
	logger    *slog.Logger
	tracer    trace.Tracer
	debounce  time.Duration

	mu          sync.Mutex
	baseCtx     context.Context
	filter      Filter
	searchTimer *time.Timer
	seq         uint64
	cancel      context.CancelFunc
	rows        []*row
	placeholder bool
}

func NewEngine(store Lister, activity RowActivityDetector, presenter *Presenter, prefs Preferences, logger *slog.Logger, opts Options) *Engine {
	debounce := opts.SearchDebounce
	if debounce <= 0 {
		debounce = defaultDebounce
	}
	return &Engine{
		store:     store,
		activity:  activity,
		presenter: presenter,
		prefs:     prefs,
		logger:    logger,
		tracer:    otel.Tracer(tracerName),
		debounce:  debounce,
		baseCtx:   context.Background(),
	}
}

// Start restores persisted filter state and performs the initial load.
func (e *Engine) Start(ctx context.Context) {
	e.mu.Lock()
	e.baseCtx = ctx
	e.loadFiltersLocked(ctx)
	e.mu.Unlock()

	e.Refresh()
}

// Stop cancels any in-flight fetch and pending debounce.
func (e *Engine) Stop() {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.cancel != nil {
		e.cancel()
		e.cancel = nil
	}
	if e.searchTimer != nil {
		e.searchTimer.Stop()
		e.searchTimer = nil
	}
}

// Refresh issues a new fetch, cancelling any in-flight one. Only the
// most recently issued fetch's result is ever applied; a superseded
// response is discarded even if it arrives.
func (e *Engine) Refresh() {
	e.mu.Lock()
	e.seq++
	mine := e.seq
	if e.cancel != nil {
		e.cancel()
	}
	ctx, cancel := context.WithCancel(e.baseCtx)
	e.cancel = cancel
	query := orderstore.Query{
		Term:            e.filter.Term,
		Statuses:        append([]orders.Status(nil), e.filter.Statuses...),
		ShowAllPickedUp: e.filter.ShowAllPickedUp,
	}
	e.mu.Unlock()

	go e.fetch(ctx, mine, query)
}

// Resync satisfies the action service's post-write hook.
func (e *Engine) Resync() { e.Refresh() }

func (e *Engine) fetch(ctx context.Context, mine uint64, query orderstore.Query) {
	ctx, span := e.tracer.Start(ctx, "board.refresh",
		trace.WithAttributes(attribute.Int64("board.seq", int64(mine))))
	defer span.End()

	snapshot, err := e.store.ListOrders(ctx, query)

	e.mu.Lock()
	defer e.mu.Unlock()

	if mine != e.seq {
		// A newer fetch superseded this one while it was in flight.
		refreshTotal.WithLabelValues("discarded").Inc()
		return
	}
	if err != nil {
		// Transient read failure: keep the last good render, no user-facing error.
		refreshTotal.WithLabelValues("error").Inc()
		e.logger.Debug("board refresh failed, keeping last render", "error", err)
		return
	}

	e.applyLocked(snapshot)
	refreshTotal.WithLabelValues("applied").Inc()
	span.SetAttributes(attribute.Int("board.rows", len(e.rows)))
}

// SetSearchTerm updates the free-text filter and refreshes after a quiet
// interval, coalescing rapid keystrokes into one request.
func (e *Engine) SetSearchTerm(term string) {
	e.mu.Lock()
	e.filter.Term = term
	e.persistFiltersLocked()
	if e.searchTimer != nil {
		e.searchTimer.Stop()
	}
	e.searchTimer = time.AfterFunc(e.debounce, e.Refresh)
	e.mu.Unlock()
}

// ToggleStatusFilter flips one status in the selected set and refreshes
// immediately. An empty resulting set means "all".
func (e *Engine) ToggleStatusFilter(status orders.Status) {
	e.mu.Lock()
	if lo.Contains(e.filter.Statuses, status) {
		e.filter.Statuses = lo.Reject(e.filter.Statuses, func(s orders.Status, _ int) bool {
			return s == status
		})
	} else {
		e.filter.Statuses = append(e.filter.Statuses, status)
	}
	e.persistFiltersLocked()
	e.mu.Unlock()

	e.Refresh()
}

// SetShowAllPickedUp flips the picked-up history flag and refreshes
// immediately.
func (e *Engine) SetShowAllPickedUp(show bool) {
	e.mu.Lock()
	e.filter.ShowAllPickedUp = show
	e.persistFiltersLocked()
	e.mu.Unlock()

	e.Refresh()
}

// Filter returns the current query state.
func (e *Engine) Filter() Filter {
	e.mu.Lock()
	defer e.mu.Unlock()
	f := e.filter
	f.Statuses = append([]orders.Status(nil), e.filter.Statuses...)
	return f
}

// Rows returns the rendered views in board order.
func (e *Engine) Rows() []RowView {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.placeholder {
		return []RowView{e.presenter.Placeholder()}
	}
	return lo.Map(e.rows, func(r *row, _ int) RowView { return r.view })
}

// RowIDs returns the order IDs in board order.
func (e *Engine) RowIDs() []string {
	e.mu.Lock()
	defer e.mu.Unlock()
	return lo.Map(e.rows, func(r *row, _ int) string { return r.id })
}

// Snapshot returns the last reconciled data for one row, for action
// callers that need the row's current premise.
func (e *Engine) Snapshot(orderID string) (orders.Order, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	for _, r := range e.rows {
		if r.id == orderID {
			return r.order, true
		}
	}
	return orders.Order{}, false
}

// Empty reports whether the last snapshot cleared the board.
func (e *Engine) Empty() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.placeholder
}

// applyLocked merges a fresh snapshot into the rendered rows. Busy rows
// are left untouched with their previous fingerprint retained, so a
// change that arrived mid-edit is re-detected once the row goes idle.
func (e *Engine) applyLocked(snapshot []orders.Order) {
	if len(snapshot) == 0 {
		removed := len(e.rows)
		e.rows = nil
		e.placeholder = true
		renderedRows.Set(0)
		if removed > 0 {
			rowDecisionsTotal.WithLabelValues("removed").Add(float64(removed))
		}
		return
	}
	e.placeholder = false

	existing := lo.SliceToMap(e.rows, func(r *row) (string, *row) { return r.id, r })
	prevIndex := make(map[string]int, len(e.rows))
	for i, r := range e.rows {
		prevIndex[r.id] = i
	}

	type pinned struct {
		r   *row
		idx int
	}
	var pins []pinned
	ordered := make([]*row, 0, len(snapshot))
	kept := 0

	for _, o := range snapshot {
		r, ok := existing[o.OrderID]
		if !ok {
			fp := orders.Fingerprint(o)
			ordered = append(ordered, &row{
				id:          o.OrderID,
				fingerprint: fp,
				order:       o,
				view:        e.presenter.Present(o),
			})
			rowDecisionsTotal.WithLabelValues("created").Inc()
			continue
		}
		kept++

		// Re-evaluated every cycle: attention shifts between polls.
		busy := e.activity.IsRowBusy(o.OrderID)
		fp := orders.Fingerprint(o)

		switch {
		case fp == r.fingerprint:
			rowDecisionsTotal.WithLabelValues("skipped").Inc()
		case busy:
			// Keep the view and the OLD fingerprint: the pending change
			// must be detected again next cycle, not silently dropped.
			rowDecisionsTotal.WithLabelValues("deferred").Inc()
		default:
			r.order = o
			r.fingerprint = fp
			r.view = e.presenter.Present(o)
			rowDecisionsTotal.WithLabelValues("replaced").Inc()
		}

		if busy {
			pins = append(pins, pinned{r: r, idx: prevIndex[o.OrderID]})
		} else {
			ordered = append(ordered, r)
		}
	}

	if removed := len(e.rows) - kept; removed > 0 {
		rowDecisionsTotal.WithLabelValues("removed").Add(float64(removed))
	}

	// Idle rows take the snapshot's exact order; busy rows stay where
	// they were, clamped into the new bounds.
	n := len(snapshot)
	result := make([]*row, n)
	for _, p := range pins {
		pos := p.idx
		if pos >= n {
			pos = n - 1
		}
		for result[pos] != nil {
			pos = (pos + 1) % n
		}
		result[pos] = p.r
	}
	next := 0
	for _, r := range ordered {
		for result[next] != nil {
			next++
		}
		result[next] = r
	}

	e.rows = result
	renderedRows.Set(float64(n))
}

func (e *Engine) loadFiltersLocked(ctx context.Context) {
	if e.prefs == nil {
		return
	}
	raw, ok, err := e.prefs.Get(ctx, filtersPrefKey)
	if err != nil {
		e.logger.Warn("load board filters", "error", err)
		return
	}
	if !ok {
		return
	}
	var f Filter
	if err := json.Unmarshal([]byte(raw), &f); err != nil {
		e.logger.Warn("corrupt board filter preference, dropping", "error", err)
		_ = e.prefs.Remove(ctx, filtersPrefKey)
		return
	}
	e.filter = f
}

func (e *Engine) persistFiltersLocked() {
	if e.prefs == nil {
		return
	}
	raw, err := json.Marshal(e.filter)
	if err != nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), prefWriteTimeout)
	defer cancel()
	if err := e.prefs.Set(ctx, filtersPrefKey, string(raw)); err != nil {
		e.logger.Warn("persist board filters", "error", err)
	}
}
