package export

import (
	"bytes"
	"encoding/csv"
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/dvloznov/finance-keeper/internal/domain"
)

func TestBuildCSV(t *testing.T) {
	now := time.Date(2026, 8, 28, 9, 0, 0, 0, time.UTC)
	records := []*domain.Record{
		{ID: "t1", RecordType: domain.RecordTypeTransaction, Type: domain.TransactionExpense,
			Amount: decimal.RequireFromString("40.5"), Description: "Groceries",
			Category: "Food", Date: now, CreatedAt: now},
		{ID: "d1", RecordType: domain.RecordTypeDebt,
			Amount: decimal.NewFromInt(200), Description: "Loan",
			Creditor: "Bank", Debtor: "Me", DueDate: now.AddDate(0, 1, 0),
			CreatedAt: now, IsPaid: true},
	}

	data, err := BuildCSV(records)
	if err != nil {
		t.Fatalf("BuildCSV: %v", err)
	}

	rows, err := csv.NewReader(bytes.NewReader(data)).ReadAll()
	if err != nil {
		t.Fatalf("parse output: %v", err)
	}
	if len(rows) != 3 {
		t.Fatalf("got %d rows, want header + 2", len(rows))
	}

	tx := rows[1]
	if tx[1] != "transaction" || tx[3] != "40.5" || tx[6] != "Food" {
		t.Errorf("transaction row = %v", tx)
	}
	if tx[8] != "" || tx[10] != "" || tx[11] != "" {
		t.Errorf("transaction row carries debt columns: %v", tx)
	}

	debt := rows[2]
	if debt[8] != "Bank" || debt[11] != "true" {
		t.Errorf("debt row = %v", debt)
	}
	if debt[5] != "" || debt[6] != "" {
		t.Errorf("debt row carries transaction columns: %v", debt)
	}
}

func TestBuildCSVEmpty(t *testing.T) {
	data, err := BuildCSV(nil)
	if err != nil {
		t.Fatalf("BuildCSV: %v", err)
	}
	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	if len(lines) != 1 {
		t.Errorf("empty export = %q, want header only", string(data))
	}
}

func TestObjectNameAndURI(t *testing.T) {
	now := time.Date(2026, 8, 28, 0, 0, 0, 0, time.UTC)
	name := ObjectName("u1", now)
	if !strings.HasPrefix(name, "exports/u1/2026-08-28-") || !strings.HasSuffix(name, ".csv") {
		t.Errorf("ObjectName = %q", name)
	}
	if got := URI("bkt", name); got != "gs://bkt/"+name {
		t.Errorf("URI = %q", got)
	}
}
