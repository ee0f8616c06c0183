package firestoredb

import (
	"context"
	"fmt"
	"time"

	"cloud.google.com/go/firestore"
	"google.golang.org/api/iterator"

	"github.com/dvloznov/finance-keeper/internal/domain"
)

// ListRecords returns all of a user's records of one type, newest created
// first. This is the backing query for the tabbed table views.
func (r *Repo) ListRecords(ctx context.Context, userID string, rt domain.RecordType) ([]*domain.Record, error) {
	q := r.records().
		Where("userId", "==", userID).
		Where("recordType", "==", string(rt)).
		OrderBy("createdAt", firestore.Desc)

	recs, err := collect(ctx, q)
	if err != nil {
		return nil, fmt.Errorf("ListRecords: %w", err)
	}
	return recs, nil
}

// ListTransactionsSince returns transactions whose effective date falls at or
// after since, date-descending. The dashboard summary feeds on this.
func (r *Repo) ListTransactionsSince(ctx context.Context, userID string, since time.Time) ([]*domain.Record, error) {
	q := r.records().
		Where("userId", "==", userID).
		Where("recordType", "==", string(domain.RecordTypeTransaction)).
		Where("date", ">=", since).
		OrderBy("date", firestore.Desc)

	recs, err := collect(ctx, q)
	if err != nil {
		return nil, fmt.Errorf("ListTransactionsSince: %w", err)
	}
	return recs, nil
}

// ListRecentTransactions returns the user's latest transactions by effective
// date, capped at limit.
func (r *Repo) ListRecentTransactions(ctx context.Context, userID string, limit int) ([]*domain.Record, error) {
	q := r.records().
		Where("userId", "==", userID).
		Where("recordType", "==", string(domain.RecordTypeTransaction)).
		OrderBy("date", firestore.Desc).
		Limit(limit)

	recs, err := collect(ctx, q)
	if err != nil {
		return nil, fmt.Errorf("ListRecentTransactions: %w", err)
	}
	return recs, nil
}

// ListOutstanding returns unsettled debts or receivables by soonest due date.
// The status filter runs client-side so the query needs no composite index on
// the flag field.
func (r *Repo) ListOutstanding(ctx context.Context, userID string, rt domain.RecordType) ([]*domain.Record, error) {
	if rt != domain.RecordTypeDebt && rt != domain.RecordTypeReceivable {
		return nil, fmt.Errorf("ListOutstanding: %w: %q", domain.ErrNoStatusFlag, rt)
	}

	q := r.records().
		Where("userId", "==", userID).
		Where("recordType", "==", string(rt)).
		OrderBy("dueDate", firestore.Asc)

	recs, err := collect(ctx, q)
	if err != nil {
		return nil, fmt.Errorf("ListOutstanding: %w", err)
	}

	out := recs[:0]
	for _, rec := range recs {
		if rec.Outstanding() {
			out = append(out, rec)
		}
	}
	return out, nil
}

// collect drains a query into domain records.
func collect(ctx context.Context, q firestore.Query) ([]*domain.Record, error) {
	it := q.Documents(ctx)
	defer it.Stop()

	var recs []*domain.Record
	for {
		snap, err := it.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("iter next: %w", err)
		}

		var d recordDoc
		if err := snap.DataTo(&d); err != nil {
			return nil, fmt.Errorf("decode %s: %w", snap.Ref.ID, err)
		}
		recs = append(recs, fromDoc(snap.Ref.ID, &d))
	}
	return recs, nil
}
