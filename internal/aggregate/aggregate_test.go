package aggregate

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/dvloznov/finance-keeper/internal/domain"
)

func tx(amount int64, typ domain.TransactionType, category string) *domain.Record {
	return &domain.Record{
		RecordType:  domain.RecordTypeTransaction,
		Amount:      decimal.NewFromInt(amount),
		Description: "t",
		Type:        typ,
		Category:    category,
		Date:        time.Date(2026, 8, 20, 0, 0, 0, 0, time.UTC),
	}
}

func debt(amount int64, paid bool) *domain.Record {
	return &domain.Record{
		RecordType:  domain.RecordTypeDebt,
		Amount:      decimal.NewFromInt(amount),
		Description: "d",
		Creditor:    "Bank",
		DueDate:     time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC),
		IsPaid:      paid,
	}
}

func receivable(amount int64, received bool) *domain.Record {
	return &domain.Record{
		RecordType:  domain.RecordTypeReceivable,
		Amount:      decimal.NewFromInt(amount),
		Description: "r",
		Debtor:      "Client",
		DueDate:     time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC),
		IsReceived:  received,
	}
}

func TestSummarize_MixedMonth(t *testing.T) {
	transactions := []*domain.Record{
		tx(100, domain.TransactionIncome, ""),
		tx(40, domain.TransactionExpense, "Food"),
		tx(10, domain.TransactionExpense, "Food"),
	}

	s := Summarize(transactions, nil, nil)

	if !s.MonthlyIncome.Equal(decimal.NewFromInt(100)) {
		t.Errorf("MonthlyIncome = %s, want 100", s.MonthlyIncome)
	}
	if !s.MonthlyExpense.Equal(decimal.NewFromInt(50)) {
		t.Errorf("MonthlyExpense = %s, want 50", s.MonthlyExpense)
	}
	if s.IncomeCount != 1 || s.ExpenseCount != 2 {
		t.Errorf("counts = %d income / %d expense, want 1/2", s.IncomeCount, s.ExpenseCount)
	}

	categories := ExpenseByCategory(transactions)
	if len(categories) != 1 {
		t.Fatalf("expected 1 category bucket, got %d", len(categories))
	}
	if categories[0].Name != "Food" || !categories[0].Total.Equal(decimal.NewFromInt(50)) {
		t.Errorf("category = %s:%s, want Food:50", categories[0].Name, categories[0].Total)
	}
}

func TestSummarize_IncomePlusExpensePartition(t *testing.T) {
	transactions := []*domain.Record{
		tx(15, domain.TransactionIncome, ""),
		tx(25, domain.TransactionExpense, "A"),
		tx(60, domain.TransactionIncome, ""),
		tx(5, domain.TransactionExpense, "B"),
	}

	s := Summarize(transactions, nil, nil)

	total := decimal.Zero
	for _, r := range transactions {
		total = total.Add(r.Amount)
	}
	if !s.MonthlyIncome.Add(s.MonthlyExpense).Equal(total) {
		t.Errorf("income %s + expense %s != total %s", s.MonthlyIncome, s.MonthlyExpense, total)
	}
}

func TestSummarize_OutstandingOnly(t *testing.T) {
	debts := []*domain.Record{debt(200, false), debt(50, true)}

	s := Summarize(nil, debts, nil)
	if !s.TotalDebt.Equal(decimal.NewFromInt(200)) {
		t.Errorf("TotalDebt = %s, want 200", s.TotalDebt)
	}
	if s.DebtCount != 1 {
		t.Errorf("DebtCount = %d, want 1", s.DebtCount)
	}

	// Toggling isPaid moves the sum by exactly that record's amount, and
	// toggling back restores it.
	debts[1].IsPaid = false
	s2 := Summarize(nil, debts, nil)
	if !s2.TotalDebt.Equal(decimal.NewFromInt(250)) {
		t.Errorf("TotalDebt after toggle = %s, want 250", s2.TotalDebt)
	}
	debts[1].IsPaid = true
	s3 := Summarize(nil, debts, nil)
	if !s3.TotalDebt.Equal(s.TotalDebt) {
		t.Errorf("TotalDebt after toggle back = %s, want %s", s3.TotalDebt, s.TotalDebt)
	}
}

func TestSummarize_Receivables(t *testing.T) {
	recs := []*domain.Record{receivable(75, false), receivable(25, true), receivable(10, false)}

	s := Summarize(nil, nil, recs)
	if !s.TotalReceivable.Equal(decimal.NewFromInt(85)) {
		t.Errorf("TotalReceivable = %s, want 85", s.TotalReceivable)
	}
	if s.ReceivableCount != 2 {
		t.Errorf("ReceivableCount = %d, want 2", s.ReceivableCount)
	}
}

func TestSummarize_EmptyInput(t *testing.T) {
	s := Summarize(nil, nil, nil)
	if !s.MonthlyIncome.IsZero() || !s.MonthlyExpense.IsZero() || !s.TotalDebt.IsZero() || !s.TotalReceivable.IsZero() {
		t.Errorf("empty input must produce all-zero sums, got %+v", s)
	}
	if got := ExpenseByCategory(nil); len(got) != 0 {
		t.Errorf("empty input must produce empty rollup, got %v", got)
	}
}

func TestExpenseByCategory_InsertionOrderAndSentinel(t *testing.T) {
	transactions := []*domain.Record{
		tx(10, domain.TransactionExpense, "Transport"),
		tx(20, domain.TransactionExpense, ""),
		tx(30, domain.TransactionExpense, "Food"),
		tx(40, domain.TransactionExpense, "Transport"),
		tx(99, domain.TransactionIncome, "Salary"), // income never contributes
	}

	got := ExpenseByCategory(transactions)
	wantOrder := []string{"Transport", UncategorizedLabel, "Food"}
	if len(got) != len(wantOrder) {
		t.Fatalf("bucket count = %d, want %d", len(got), len(wantOrder))
	}
	for i, name := range wantOrder {
		if got[i].Name != name {
			t.Errorf("bucket[%d] = %s, want %s", i, got[i].Name, name)
		}
	}
	if !got[0].Total.Equal(decimal.NewFromInt(50)) {
		t.Errorf("Transport total = %s, want 50", got[0].Total)
	}
}

func TestExpenseByCategory_Idempotent(t *testing.T) {
	transactions := []*domain.Record{
		tx(40, domain.TransactionExpense, "Food"),
		tx(10, domain.TransactionExpense, "Food"),
		tx(5, domain.TransactionExpense, "Fun"),
	}

	first := ExpenseByCategory(transactions)
	second := ExpenseByCategory(transactions)
	if len(first) != len(second) {
		t.Fatalf("rerun changed bucket count: %d vs %d", len(first), len(second))
	}
	for i := range first {
		if first[i].Name != second[i].Name || !first[i].Total.Equal(second[i].Total) {
			t.Errorf("rerun changed bucket %d: %v vs %v", i, first[i], second[i])
		}
	}
}

func TestInWindow(t *testing.T) {
	now := time.Date(2026, 8, 28, 12, 0, 0, 0, time.UTC)
	inside := tx(10, domain.TransactionExpense, "A")
	inside.Date = now.AddDate(0, 0, -29)
	edge := tx(10, domain.TransactionExpense, "B")
	edge.Date = now.AddDate(0, 0, -30)
	outside := tx(10, domain.TransactionExpense, "C")
	outside.Date = now.AddDate(0, 0, -31)

	got := InWindow([]*domain.Record{inside, edge, outside}, now, WindowDays)
	if len(got) != 2 {
		t.Fatalf("expected 2 transactions in window, got %d", len(got))
	}
	for _, r := range got {
		if r.Category == "C" {
			t.Error("transaction outside window must be excluded")
		}
	}
}
