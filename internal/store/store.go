// Package store declares the persistence contracts the handlers and jobs
// depend on. Implementations live under internal/infra.
package store

import (
	"context"
	"errors"
	"time"

	"github.com/dvloznov/finance-keeper/internal/domain"
)

// ErrNotFound is returned when a record does not exist or belongs to a
// different user. Callers must not be able to distinguish the two cases.
var ErrNotFound = errors.New("record not found")

// RecordRepository is the full data-access surface for financial records.
// Every query is scoped to a single user; there is no cross-user read path.
type RecordRepository interface {
	// CreateRecord assigns the record an ID and persists it.
	CreateRecord(ctx context.Context, rec *domain.Record) error

	// GetRecord loads one record owned by userID.
	GetRecord(ctx context.Context, userID, recordID string) (*domain.Record, error)

	// UpdateRecord replaces an existing record owned by userID.
	UpdateRecord(ctx context.Context, rec *domain.Record) error

	// DeleteRecord removes one record owned by userID.
	DeleteRecord(ctx context.Context, userID, recordID string) error

	// SetStatus flips the variant's completion flag (isPaid / isReceived)
	// without touching any other field.
	SetStatus(ctx context.Context, userID, recordID string, value bool) error

	// ListRecords returns all of a user's records of one type, newest
	// created first.
	ListRecords(ctx context.Context, userID string, rt domain.RecordType) ([]*domain.Record, error)

	// ListTransactionsSince returns the user's transactions with an
	// effective date at or after since, date-descending.
	ListTransactionsSince(ctx context.Context, userID string, since time.Time) ([]*domain.Record, error)

	// ListRecentTransactions returns the user's most recent transactions by
	// effective date, capped at limit.
	ListRecentTransactions(ctx context.Context, userID string, limit int) ([]*domain.Record, error)

	// ListOutstanding returns the user's unsettled debts or receivables
	// ordered by soonest due date.
	ListOutstanding(ctx context.Context, userID string, rt domain.RecordType) ([]*domain.Record, error)
}

// Snapshot is one consistent view of a user's full record set, delivered on
// every change while watching.
type Snapshot struct {
	Records []*domain.Record
	At      time.Time
}

// Watcher streams snapshots of a user's records. The returned channel is
// closed when the context is cancelled or the stream fails; Err reports why.
type Watcher interface {
	Watch(ctx context.Context, userID string) (<-chan Snapshot, error)
}
