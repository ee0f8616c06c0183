// Package aggregate folds lists of financial records into the dashboard
// figures. Recompute is always full and from scratch; at single-user record
// counts that is the correctness-first tradeoff the product wants.
package aggregate

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/dvloznov/finance-keeper/internal/domain"
)

// UncategorizedLabel is the sentinel bucket for expenses with no category.
const UncategorizedLabel = "Uncategorized"

// WindowDays is the trailing dashboard window for transactions.
const WindowDays = 30

// Summary holds the four dashboard card figures plus the record counts shown
// under each card.
type Summary struct {
	MonthlyIncome   decimal.Decimal
	MonthlyExpense  decimal.Decimal
	TotalDebt       decimal.Decimal
	TotalReceivable decimal.Decimal

	IncomeCount     int
	ExpenseCount    int
	DebtCount       int
	ReceivableCount int
}

// CategoryTotal is one rollup bucket for the expense chart.
type CategoryTotal struct {
	Name  string
	Total decimal.Decimal
}

// Summarize computes the dashboard summary. Transactions are expected to be
// pre-bounded to the trailing window; debts and receivables may include
// settled records, which are excluded here.
func Summarize(transactions, debts, receivables []*domain.Record) Summary {
	s := Summary{
		MonthlyIncome:   decimal.Zero,
		MonthlyExpense:  decimal.Zero,
		TotalDebt:       decimal.Zero,
		TotalReceivable: decimal.Zero,
	}

	for _, t := range transactions {
		switch t.Type {
		case domain.TransactionIncome:
			s.MonthlyIncome = s.MonthlyIncome.Add(t.Amount)
			s.IncomeCount++
		case domain.TransactionExpense:
			s.MonthlyExpense = s.MonthlyExpense.Add(t.Amount)
			s.ExpenseCount++
		}
	}

	for _, d := range debts {
		if d.IsPaid {
			continue
		}
		s.TotalDebt = s.TotalDebt.Add(d.Amount)
		s.DebtCount++
	}

	for _, r := range receivables {
		if r.IsReceived {
			continue
		}
		s.TotalReceivable = s.TotalReceivable.Add(r.Amount)
		s.ReceivableCount++
	}

	return s
}

// ExpenseByCategory rolls up expense-type transactions by category label.
// Buckets appear in insertion order of first occurrence, which is the order
// the chart renders them. Empty categories collapse into the sentinel label.
func ExpenseByCategory(transactions []*domain.Record) []CategoryTotal {
	index := make(map[string]int)
	var totals []CategoryTotal

	for _, t := range transactions {
		if t.Type != domain.TransactionExpense {
			continue
		}
		name := t.Category
		if name == "" {
			name = UncategorizedLabel
		}
		if i, ok := index[name]; ok {
			totals[i].Total = totals[i].Total.Add(t.Amount)
			continue
		}
		index[name] = len(totals)
		totals = append(totals, CategoryTotal{Name: name, Total: t.Amount})
	}

	return totals
}

// InWindow filters transactions to those whose effective date falls within
// the trailing window ending at now.
func InWindow(transactions []*domain.Record, now time.Time, days int) []*domain.Record {
	cutoff := now.AddDate(0, 0, -days)
	var out []*domain.Record
	for _, t := range transactions {
		if !t.Date.Before(cutoff) {
			out = append(out, t)
		}
	}
	return out
}
