package domain

import (
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// RecordType discriminates the three financial record variants. Every
// consumer switches on it; an unknown value is always an error, never a
// silent fallthrough.
type RecordType string

const (
	RecordTypeTransaction RecordType = "transaction"
	RecordTypeDebt        RecordType = "debt"
	RecordTypeReceivable  RecordType = "receivable"
)

// TransactionType splits transactions into money in and money out.
type TransactionType string

const (
	TransactionIncome  TransactionType = "income"
	TransactionExpense TransactionType = "expense"
)

var (
	ErrUnknownRecordType = errors.New("unknown record type")
	ErrInvalidAmount     = errors.New("amount must be positive")
	ErrEmptyDescription  = errors.New("description is required")
	ErrNoStatusFlag      = errors.New("record type has no status flag")
)

// Record is the tagged union of the three variants, discriminated by
// RecordType. Variant-specific fields are only meaningful for the matching
// type; Validate enforces that shape. Amounts use decimal arithmetic so
// repeated summation never drifts.
//
// This is a domain struct, not a stored document; the firestore package maps
// it into the records collection schema.
type Record struct {
	ID          string
	UserID      string
	RecordType  RecordType
	Amount      decimal.Decimal
	Description string
	CreatedAt   time.Time

	// transaction only
	Type     TransactionType
	Category string
	Date     time.Time // effective date, user-editable, distinct from CreatedAt

	// debt and receivable
	Creditor string // debt: who the user owes; receivable: the user
	Debtor   string // debt: the user; receivable: who owes the user
	DueDate  time.Time

	IsPaid     bool // debt only
	IsReceived bool // receivable only
}

// Validate checks the record against the invariants of its variant.
func (r *Record) Validate() error {
	if !r.Amount.IsPositive() {
		return ErrInvalidAmount
	}
	if r.Description == "" {
		return ErrEmptyDescription
	}
	switch r.RecordType {
	case RecordTypeTransaction:
		if r.Type != TransactionIncome && r.Type != TransactionExpense {
			return fmt.Errorf("invalid transaction type: %q", r.Type)
		}
		if r.Date.IsZero() {
			return errors.New("transaction date is required")
		}
		if r.IsPaid || r.IsReceived {
			return ErrNoStatusFlag
		}
	case RecordTypeDebt:
		if r.Creditor == "" {
			return errors.New("debt creditor is required")
		}
		if r.DueDate.IsZero() {
			return errors.New("debt due date is required")
		}
		if r.IsReceived {
			return ErrNoStatusFlag
		}
	case RecordTypeReceivable:
		if r.Debtor == "" {
			return errors.New("receivable debtor is required")
		}
		if r.DueDate.IsZero() {
			return errors.New("receivable due date is required")
		}
		if r.IsPaid {
			return ErrNoStatusFlag
		}
	default:
		return fmt.Errorf("%w: %q", ErrUnknownRecordType, r.RecordType)
	}
	return nil
}

// Outstanding reports whether a debt is still unpaid or a receivable still
// uncollected. Transactions are never outstanding.
func (r *Record) Outstanding() bool {
	switch r.RecordType {
	case RecordTypeDebt:
		return !r.IsPaid
	case RecordTypeReceivable:
		return !r.IsReceived
	default:
		return false
	}
}

// StatusField returns the persisted field name of the variant's status flag.
// Only debts and receivables carry one.
func StatusField(t RecordType) (string, error) {
	switch t {
	case RecordTypeDebt:
		return "isPaid", nil
	case RecordTypeReceivable:
		return "isReceived", nil
	case RecordTypeTransaction:
		return "", ErrNoStatusFlag
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownRecordType, t)
	}
}

// StatusValue returns the current value of the variant's status flag.
func (r *Record) StatusValue() (bool, error) {
	switch r.RecordType {
	case RecordTypeDebt:
		return r.IsPaid, nil
	case RecordTypeReceivable:
		return r.IsReceived, nil
	default:
		return false, ErrNoStatusFlag
	}
}

// ParseRecordType validates an incoming discriminant string.
func ParseRecordType(s string) (RecordType, error) {
	switch RecordType(s) {
	case RecordTypeTransaction, RecordTypeDebt, RecordTypeReceivable:
		return RecordType(s), nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownRecordType, s)
	}
}
