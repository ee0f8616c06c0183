package firestoredb

import (
	"context"
	"fmt"

	"cloud.google.com/go/firestore"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/dvloznov/finance-keeper/internal/domain"
	"github.com/dvloznov/finance-keeper/internal/store"
)

// Repo is the Firestore-backed record repository.
type Repo struct {
	client *firestore.Client
}

// New connects to Firestore for the given project.
func New(ctx context.Context, projectID string) (*Repo, error) {
	client, err := firestore.NewClient(ctx, projectID)
	if err != nil {
		return nil, fmt.Errorf("firestoredb.New: client: %w", err)
	}
	return &Repo{client: client}, nil
}

// NewWithClient wraps an existing client, e.g. one pointed at the emulator.
func NewWithClient(client *firestore.Client) *Repo {
	return &Repo{client: client}
}

// Close releases the underlying client.
func (r *Repo) Close() error {
	return r.client.Close()
}

func (r *Repo) records() *firestore.CollectionRef {
	return r.client.Collection(recordsCollection)
}

// CreateRecord persists a new record under a generated document ID and writes
// the ID back onto the record.
func (r *Repo) CreateRecord(ctx context.Context, rec *domain.Record) error {
	if err := rec.Validate(); err != nil {
		return fmt.Errorf("CreateRecord: %w", err)
	}

	ref := r.records().NewDoc()
	if _, err := ref.Create(ctx, toDoc(rec)); err != nil {
		return fmt.Errorf("CreateRecord: %w", err)
	}
	rec.ID = ref.ID
	return nil
}

// GetRecord loads one record, treating another user's document the same as a
// missing one.
func (r *Repo) GetRecord(ctx context.Context, userID, recordID string) (*domain.Record, error) {
	snap, err := r.records().Doc(recordID).Get(ctx)
	if status.Code(err) == codes.NotFound {
		return nil, store.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("GetRecord: %w", err)
	}

	var d recordDoc
	if err := snap.DataTo(&d); err != nil {
		return nil, fmt.Errorf("GetRecord: decode: %w", err)
	}
	if d.UserID != userID {
		return nil, store.ErrNotFound
	}
	return fromDoc(snap.Ref.ID, &d), nil
}

// UpdateRecord replaces an existing record after an ownership check.
func (r *Repo) UpdateRecord(ctx context.Context, rec *domain.Record) error {
	if err := rec.Validate(); err != nil {
		return fmt.Errorf("UpdateRecord: %w", err)
	}
	if _, err := r.GetRecord(ctx, rec.UserID, rec.ID); err != nil {
		return err
	}

	if _, err := r.records().Doc(rec.ID).Set(ctx, toDoc(rec)); err != nil {
		return fmt.Errorf("UpdateRecord: %w", err)
	}
	return nil
}

// DeleteRecord removes a record after an ownership check.
func (r *Repo) DeleteRecord(ctx context.Context, userID, recordID string) error {
	if _, err := r.GetRecord(ctx, userID, recordID); err != nil {
		return err
	}

	if _, err := r.records().Doc(recordID).Delete(ctx); err != nil {
		return fmt.Errorf("DeleteRecord: %w", err)
	}
	return nil
}

// SetStatus flips the record's completion flag and nothing else. The field
// written depends on the variant: isPaid for debts, isReceived for
// receivables; transactions have no status flag.
func (r *Repo) SetStatus(ctx context.Context, userID, recordID string, value bool) error {
	rec, err := r.GetRecord(ctx, userID, recordID)
	if err != nil {
		return err
	}

	field, err := domain.StatusField(rec.RecordType)
	if err != nil {
		return fmt.Errorf("SetStatus: %w", err)
	}

	_, err = r.records().Doc(recordID).Update(ctx, []firestore.Update{
		{Path: field, Value: value},
	})
	if err != nil {
		return fmt.Errorf("SetStatus: %w", err)
	}
	return nil
}

var _ store.RecordRepository = (*Repo)(nil)
