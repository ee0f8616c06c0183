package firestoredb

import (
	"context"

	"google.golang.org/api/iterator"

	"github.com/dvloznov/finance-keeper/internal/store"
)

// Watch streams a snapshot of the user's full record set on every change.
// The channel closes when ctx is cancelled or the underlying stream fails.
func (r *Repo) Watch(ctx context.Context, userID string) (<-chan store.Snapshot, error) {
	q := r.records().Where("userId", "==", userID)

	it := q.Snapshots(ctx)
	out := make(chan store.Snapshot)

	go func() {
		defer close(out)
		defer it.Stop()

		for {
			qsnap, err := it.Next()
			if err == iterator.Done {
				return
			}
			if err != nil {
				// Cancellation and stream failure both end the watch; the
				// consumer restarts if it still cares.
				return
			}

			snap := store.Snapshot{At: qsnap.ReadTime}
			docs := qsnap.Documents
			for {
				dsnap, err := docs.Next()
				if err == iterator.Done {
					break
				}
				if err != nil {
					return
				}
				var d recordDoc
				if err := dsnap.DataTo(&d); err != nil {
					continue
				}
				snap.Records = append(snap.Records, fromDoc(dsnap.Ref.ID, &d))
			}

			select {
			case out <- snap:
			case <-ctx.Done():
				return
			}
		}
	}()

	return out, nil
}

var _ store.Watcher = (*Repo)(nil)
