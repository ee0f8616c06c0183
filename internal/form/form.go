// Package form is the record editing controller: a small state machine over
// the three record variants and the create/edit modes. It owns field-scoped
// validation and the normalization of a draft into a persistable record; it
// never writes to storage itself.
package form

import (
	"errors"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/dvloznov/finance-keeper/internal/domain"
	"github.com/dvloznov/finance-keeper/internal/identity"
)

// Mode distinguishes creating a new record from editing an existing one.
type Mode int

const (
	ModeCreate Mode = iota
	ModeEdit
)

// ErrVariantLocked is returned when switching variants in edit mode; an
// existing record never changes its type.
var ErrVariantLocked = errors.New("record type cannot change on an existing record")

// Draft is the in-progress, not-yet-submitted form state. Amount stays a raw
// string until validation so coercion failures become field errors rather
// than lost input.
type Draft struct {
	Description string
	Amount      string

	// transaction fields
	Type     domain.TransactionType
	Category string
	Date     time.Time

	// debt / receivable fields: Person is the counterparty; the self party
	// is filled from the session at submit time.
	Person  string
	DueDate time.Time
}

// Controller drives one dialog's worth of record editing.
type Controller struct {
	mode    Mode
	variant domain.RecordType
	record  *domain.Record // edit source, nil in create mode
	draft   Draft
	now     func() time.Time
}

// NewCreate opens a create-mode controller on the default variant.
// now is injectable for tests; pass nil for the wall clock.
func NewCreate(now func() time.Time) *Controller {
	if now == nil {
		now = time.Now
	}
	c := &Controller{mode: ModeCreate, variant: domain.RecordTypeTransaction, now: now}
	c.reset()
	return c
}

// NewEdit opens an edit-mode controller pinned to the record's own variant.
func NewEdit(rec *domain.Record, now func() time.Time) (*Controller, error) {
	if now == nil {
		now = time.Now
	}
	if _, err := domain.ParseRecordType(string(rec.RecordType)); err != nil {
		return nil, err
	}
	c := &Controller{mode: ModeEdit, variant: rec.RecordType, record: rec, now: now}
	c.reset()
	return c, nil
}

// Mode returns the controller's mode.
func (c *Controller) Mode() Mode { return c.mode }

// Variant returns the active record variant.
func (c *Controller) Variant() domain.RecordType { return c.variant }

// Draft returns a copy of the current draft.
func (c *Controller) Draft() Draft { return c.draft }

// SetDraft replaces the draft wholesale, e.g. from decoded request fields.
func (c *Controller) SetDraft(d Draft) { c.draft = d }

// SwitchVariant changes the active variant. Allowed only in create mode;
// the draft is unconditionally reset to the new variant's defaults so no
// value from the previous variant can leak across.
func (c *Controller) SwitchVariant(v domain.RecordType) error {
	if c.mode == ModeEdit {
		if v == c.variant {
			return nil
		}
		return ErrVariantLocked
	}
	if _, err := domain.ParseRecordType(string(v)); err != nil {
		return err
	}
	c.variant = v
	c.reset()
	return nil
}

// reset loads the variant's default field set, prefilled from the source
// record when editing.
func (c *Controller) reset() {
	today := c.now()
	d := Draft{}
	switch c.variant {
	case domain.RecordTypeTransaction:
		d.Type = domain.TransactionExpense
		d.Date = today
	default:
		d.DueDate = today
	}

	if c.mode == ModeEdit && c.record != nil {
		d.Description = c.record.Description
		d.Amount = c.record.Amount.String()
		switch c.record.RecordType {
		case domain.RecordTypeTransaction:
			d.Type = c.record.Type
			d.Category = c.record.Category
			d.Date = c.record.Date
		case domain.RecordTypeDebt:
			d.Person = c.record.Creditor
			d.DueDate = c.record.DueDate
		case domain.RecordTypeReceivable:
			d.Person = c.record.Debtor
			d.DueDate = c.record.DueDate
		}
	}

	c.draft = d
}

// Validate checks the draft against the active variant's rules. It returns a
// field -> message map; an empty map means the draft is submittable.
// Validation never errors out of band: a bad draft is user input, not a
// program fault.
func (c *Controller) Validate() map[string]string {
	errs := make(map[string]string)

	if strings.TrimSpace(c.draft.Description) == "" {
		errs["description"] = "Description is required"
	}
	if amt, err := parseAmount(c.draft.Amount); err != nil || !amt.IsPositive() {
		errs["amount"] = "Amount must be positive"
	}

	switch c.variant {
	case domain.RecordTypeTransaction:
		if c.draft.Type != domain.TransactionIncome && c.draft.Type != domain.TransactionExpense {
			errs["type"] = "Type must be income or expense"
		}
		if strings.TrimSpace(c.draft.Category) == "" {
			errs["category"] = "Category is required"
		}
		if c.draft.Date.IsZero() {
			errs["date"] = "Date is required"
		}
	case domain.RecordTypeDebt, domain.RecordTypeReceivable:
		if strings.TrimSpace(c.draft.Person) == "" {
			errs["person"] = "Person is required"
		}
		if c.draft.DueDate.IsZero() {
			errs["dueDate"] = "Due date is required"
		}
	}

	return errs
}

// Submit validates the draft and, when clean, normalizes it into a record
// ready for persistence. The generic person field becomes creditor or debtor
// per variant with the self party taken from the session; fields foreign to
// the variant are never populated; status flags carry over from the edited
// record or start false. CreatedAt and ID are preserved on edit and
// initialized on create.
func (c *Controller) Submit(self identity.User) (*domain.Record, map[string]string) {
	if errs := c.Validate(); len(errs) > 0 {
		return nil, errs
	}

	amount, _ := parseAmount(c.draft.Amount) // validated above

	rec := &domain.Record{
		UserID:      self.UID,
		RecordType:  c.variant,
		Amount:      amount,
		Description: strings.TrimSpace(c.draft.Description),
	}

	if c.mode == ModeEdit && c.record != nil {
		rec.ID = c.record.ID
		rec.CreatedAt = c.record.CreatedAt
	} else {
		rec.CreatedAt = c.now()
	}

	switch c.variant {
	case domain.RecordTypeTransaction:
		rec.Type = c.draft.Type
		rec.Category = strings.TrimSpace(c.draft.Category)
		rec.Date = c.draft.Date
	case domain.RecordTypeDebt:
		rec.Creditor = strings.TrimSpace(c.draft.Person)
		rec.Debtor = self.DisplayIdentity()
		rec.DueDate = c.draft.DueDate
		if c.mode == ModeEdit && c.record != nil {
			rec.IsPaid = c.record.IsPaid
		}
	case domain.RecordTypeReceivable:
		rec.Debtor = strings.TrimSpace(c.draft.Person)
		rec.Creditor = self.DisplayIdentity()
		rec.DueDate = c.draft.DueDate
		if c.mode == ModeEdit && c.record != nil {
			rec.IsReceived = c.record.IsReceived
		}
	}

	return rec, nil
}

// parseAmount coerces the raw amount input, accepting a decimal comma.
// A comma only counts as the decimal separator when it is the sole one and
// no dot is present; anything else ("1,234.50") is left for NewFromString to
// reject so the field error reflects the input as typed.
func parseAmount(s string) (decimal.Decimal, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return decimal.Zero, errors.New("empty amount")
	}
	if strings.Count(s, ",") == 1 && !strings.Contains(s, ".") {
		s = strings.Replace(s, ",", ".", 1)
	}
	return decimal.NewFromString(s)
}
