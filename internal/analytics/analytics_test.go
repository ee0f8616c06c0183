package analytics

import (
	"math/big"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/dvloznov/finance-keeper/internal/aggregate"
)

func TestRowFromSummary(t *testing.T) {
	now := time.Date(2026, 8, 28, 12, 0, 0, 0, time.UTC)
	s := aggregate.Summary{
		MonthlyIncome:   decimal.NewFromInt(100),
		MonthlyExpense:  decimal.RequireFromString("50.25"),
		TotalDebt:       decimal.NewFromInt(200),
		TotalReceivable: decimal.Zero,
		IncomeCount:     1,
		ExpenseCount:    2,
		DebtCount:       1,
	}

	row := RowFromSummary("u1", s, now)

	if row.UserID != "u1" {
		t.Errorf("UserID = %q", row.UserID)
	}
	if row.WindowEnd.String() != "2026-08-28" || row.WindowStart.String() != "2026-07-29" {
		t.Errorf("window = %s .. %s", row.WindowStart, row.WindowEnd)
	}
	if row.MonthlyExpense.Cmp(big.NewRat(201, 4)) != 0 {
		t.Errorf("MonthlyExpense = %s, want 50.25", row.MonthlyExpense.RatString())
	}
	if row.TotalReceivable.Sign() != 0 {
		t.Errorf("TotalReceivable = %s, want 0", row.TotalReceivable.RatString())
	}
	if row.ExpenseCount != 2 || row.DebtCount != 1 {
		t.Errorf("counts = %+v", row)
	}
}
