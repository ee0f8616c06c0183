// Package firestoredb implements the record repository on Cloud Firestore.
// All records live in a single flat collection keyed by document ID, with
// userId and recordType fields driving every query.
package firestoredb

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/dvloznov/finance-keeper/internal/domain"
)

const recordsCollection = "records"

// recordDoc is the Firestore document shape. Variant-specific fields are
// pointers or omitempty so a transaction document never carries debt fields
// and vice versa; the status flags are pointers because false is a real
// stored value on debts and receivables.
type recordDoc struct {
	UserID      string    `firestore:"userId"`
	RecordType  string    `firestore:"recordType"`
	Amount      float64   `firestore:"amount"`
	Description string    `firestore:"description"`
	CreatedAt   time.Time `firestore:"createdAt"`

	Type     string     `firestore:"type,omitempty"`
	Category string     `firestore:"category,omitempty"`
	Date     *time.Time `firestore:"date,omitempty"`

	Creditor   string     `firestore:"creditor,omitempty"`
	Debtor     string     `firestore:"debtor,omitempty"`
	DueDate    *time.Time `firestore:"dueDate,omitempty"`
	IsPaid     *bool      `firestore:"isPaid,omitempty"`
	IsReceived *bool      `firestore:"isReceived,omitempty"`
}

func toDoc(rec *domain.Record) *recordDoc {
	d := &recordDoc{
		UserID:      rec.UserID,
		RecordType:  string(rec.RecordType),
		Amount:      rec.Amount.InexactFloat64(),
		Description: rec.Description,
		CreatedAt:   rec.CreatedAt,
	}

	switch rec.RecordType {
	case domain.RecordTypeTransaction:
		d.Type = string(rec.Type)
		d.Category = rec.Category
		if !rec.Date.IsZero() {
			date := rec.Date
			d.Date = &date
		}
	case domain.RecordTypeDebt:
		d.Creditor = rec.Creditor
		d.Debtor = rec.Debtor
		if !rec.DueDate.IsZero() {
			due := rec.DueDate
			d.DueDate = &due
		}
		paid := rec.IsPaid
		d.IsPaid = &paid
	case domain.RecordTypeReceivable:
		d.Creditor = rec.Creditor
		d.Debtor = rec.Debtor
		if !rec.DueDate.IsZero() {
			due := rec.DueDate
			d.DueDate = &due
		}
		received := rec.IsReceived
		d.IsReceived = &received
	}

	return d
}

func fromDoc(id string, d *recordDoc) *domain.Record {
	rec := &domain.Record{
		ID:          id,
		UserID:      d.UserID,
		RecordType:  domain.RecordType(d.RecordType),
		Amount:      decimal.NewFromFloat(d.Amount),
		Description: d.Description,
		CreatedAt:   d.CreatedAt,
		Type:        domain.TransactionType(d.Type),
		Category:    d.Category,
		Creditor:    d.Creditor,
		Debtor:      d.Debtor,
	}
	if d.Date != nil {
		rec.Date = *d.Date
	}
	if d.DueDate != nil {
		rec.DueDate = *d.DueDate
	}
	if d.IsPaid != nil {
		rec.IsPaid = *d.IsPaid
	}
	if d.IsReceived != nil {
		rec.IsReceived = *d.IsReceived
	}
	return rec
}
