// Package live keeps a continuously updated dashboard view on top of a
// record snapshot stream. Each incoming snapshot triggers a full recompute;
// there is no incremental state to drift.
package live

import (
	"context"
	"sync"
	"time"

	"github.com/dvloznov/finance-keeper/internal/aggregate"
	"github.com/dvloznov/finance-keeper/internal/domain"
	"github.com/dvloznov/finance-keeper/internal/projection"
	"github.com/dvloznov/finance-keeper/internal/store"
)

// View is one computed dashboard state.
type View struct {
	Summary    aggregate.Summary
	Categories []aggregate.CategoryTotal
	Recent     []projection.TransactionRow
	Upcoming   []projection.DebtRow
	At         time.Time
}

// Feed subscribes to a user's record stream and recomputes the dashboard
// view on every change.
type Feed struct {
	formatter *projection.Formatter
	now       func() time.Time

	mu      sync.RWMutex
	current View

	changes chan View
	cancel  context.CancelFunc
	done    chan struct{}
}

// NewFeed starts watching. The first view arrives with the watcher's initial
// snapshot; Current is zero until then. now is injectable for tests; pass nil
// for the wall clock.
func NewFeed(ctx context.Context, w store.Watcher, userID string, f *projection.Formatter, now func() time.Time) (*Feed, error) {
	if now == nil {
		now = time.Now
	}

	ctx, cancel := context.WithCancel(ctx)
	snaps, err := w.Watch(ctx, userID)
	if err != nil {
		cancel()
		return nil, err
	}

	feed := &Feed{
		formatter: f,
		now:       now,
		changes:   make(chan View, 1),
		cancel:    cancel,
		done:      make(chan struct{}),
	}
	go feed.run(snaps)
	return feed, nil
}

// Current returns the latest computed view.
func (f *Feed) Current() View {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return f.current
}

// Changes delivers each recomputed view. Slow consumers only miss
// intermediate states; the latest view always wins. The channel closes when
// the feed stops.
func (f *Feed) Changes() <-chan View {
	return f.changes
}

// Stop cancels the watch and waits for the recompute loop to exit.
func (f *Feed) Stop() {
	f.cancel()
	<-f.done
}

func (f *Feed) run(snaps <-chan store.Snapshot) {
	defer close(f.done)
	defer close(f.changes)

	for snap := range snaps {
		view := f.compute(snap)

		f.mu.Lock()
		f.current = view
		f.mu.Unlock()

		// Keep only the newest pending view.
		select {
		case f.changes <- view:
		default:
			select {
			case <-f.changes:
			default:
			}
			f.changes <- view
		}
	}
}

// compute is the full recompute for one snapshot: partition by variant,
// bound transactions to the dashboard window, then derive every widget.
func (f *Feed) compute(snap store.Snapshot) View {
	var transactions, debts, receivables []*domain.Record
	for _, r := range snap.Records {
		switch r.RecordType {
		case domain.RecordTypeTransaction:
			transactions = append(transactions, r)
		case domain.RecordTypeDebt:
			debts = append(debts, r)
		case domain.RecordTypeReceivable:
			receivables = append(receivables, r)
		}
	}

	windowed := aggregate.InWindow(transactions, f.now(), aggregate.WindowDays)

	return View{
		Summary:    aggregate.Summarize(windowed, debts, receivables),
		Categories: aggregate.ExpenseByCategory(windowed),
		Recent:     projection.RecentTransactionRows(transactions, f.formatter),
		Upcoming:   projection.UpcomingDebtRows(debts, f.formatter),
		At:         snap.At,
	}
}
