package domain

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
)

func validTransaction() *Record {
	return &Record{
		UserID:      "u1",
		RecordType:  RecordTypeTransaction,
		Amount:      decimal.NewFromInt(100),
		Description: "Groceries",
		Type:        TransactionExpense,
		Category:    "Food",
		Date:        time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC),
	}
}

func validDebt() *Record {
	return &Record{
		UserID:      "u1",
		RecordType:  RecordTypeDebt,
		Amount:      decimal.NewFromInt(200),
		Description: "Loan",
		Creditor:    "Bank",
		Debtor:      "Me",
		DueDate:     time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC),
	}
}

func TestRecordValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Record)
		base    func() *Record
		wantErr bool
	}{
		{name: "valid transaction", base: validTransaction, mutate: func(r *Record) {}},
		{name: "valid debt", base: validDebt, mutate: func(r *Record) {}},
		{name: "zero amount", base: validTransaction, mutate: func(r *Record) { r.Amount = decimal.Zero }, wantErr: true},
		{name: "negative amount", base: validTransaction, mutate: func(r *Record) { r.Amount = decimal.NewFromInt(-5) }, wantErr: true},
		{name: "empty description", base: validTransaction, mutate: func(r *Record) { r.Description = "" }, wantErr: true},
		{name: "bad transaction type", base: validTransaction, mutate: func(r *Record) { r.Type = "transfer" }, wantErr: true},
		{name: "transaction with status flag", base: validTransaction, mutate: func(r *Record) { r.IsPaid = true }, wantErr: true},
		{name: "debt missing creditor", base: validDebt, mutate: func(r *Record) { r.Creditor = "" }, wantErr: true},
		{name: "debt missing due date", base: validDebt, mutate: func(r *Record) { r.DueDate = time.Time{} }, wantErr: true},
		{name: "debt with receivable flag", base: validDebt, mutate: func(r *Record) { r.IsReceived = true }, wantErr: true},
		{name: "unknown variant", base: validDebt, mutate: func(r *Record) { r.RecordType = "loan" }, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := tt.base()
			tt.mutate(rec)
			err := rec.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestOutstanding(t *testing.T) {
	debt := validDebt()
	if !debt.Outstanding() {
		t.Error("unpaid debt should be outstanding")
	}
	debt.IsPaid = true
	if debt.Outstanding() {
		t.Error("paid debt should not be outstanding")
	}

	rec := validDebt()
	rec.RecordType = RecordTypeReceivable
	rec.Debtor = "Client"
	if !rec.Outstanding() {
		t.Error("unreceived receivable should be outstanding")
	}
	rec.IsReceived = true
	if rec.Outstanding() {
		t.Error("received receivable should not be outstanding")
	}

	if validTransaction().Outstanding() {
		t.Error("transactions are never outstanding")
	}
}

func TestStatusField(t *testing.T) {
	tests := []struct {
		kind    RecordType
		want    string
		wantErr bool
	}{
		{RecordTypeDebt, "isPaid", false},
		{RecordTypeReceivable, "isReceived", false},
		{RecordTypeTransaction, "", true},
		{RecordType("bogus"), "", true},
	}
	for _, tt := range tests {
		got, err := StatusField(tt.kind)
		if (err != nil) != tt.wantErr {
			t.Errorf("StatusField(%q) error = %v, wantErr %v", tt.kind, err, tt.wantErr)
		}
		if got != tt.want {
			t.Errorf("StatusField(%q) = %q, want %q", tt.kind, got, tt.want)
		}
	}
}

func TestParseRecordType(t *testing.T) {
	for _, valid := range []string{"transaction", "debt", "receivable"} {
		if _, err := ParseRecordType(valid); err != nil {
			t.Errorf("ParseRecordType(%q) unexpected error: %v", valid, err)
		}
	}
	if _, err := ParseRecordType("savings"); err == nil {
		t.Error("ParseRecordType should reject unknown types")
	}
}
