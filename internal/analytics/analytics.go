// Package analytics writes periodic dashboard summaries to BigQuery so
// long-range trends survive outside the operational store.
package analytics

import (
	"context"
	"fmt"
	"math/big"
	"time"

	"cloud.google.com/go/bigquery"
	"cloud.google.com/go/civil"

	"github.com/dvloznov/finance-keeper/internal/aggregate"
)

const summariesTable = "dashboard_summaries"

// SummaryRow is one snapshot of a user's dashboard figures.
type SummaryRow struct {
	UserID string `bigquery:"user_id"` // REQUIRED

	WindowStart civil.Date `bigquery:"window_start"` // REQUIRED
	WindowEnd   civil.Date `bigquery:"window_end"`   // REQUIRED

	MonthlyIncome   *big.Rat `bigquery:"monthly_income"`   // NUMERIC
	MonthlyExpense  *big.Rat `bigquery:"monthly_expense"`  // NUMERIC
	TotalDebt       *big.Rat `bigquery:"total_debt"`       // NUMERIC
	TotalReceivable *big.Rat `bigquery:"total_receivable"` // NUMERIC

	IncomeCount     int64 `bigquery:"income_count"`
	ExpenseCount    int64 `bigquery:"expense_count"`
	DebtCount       int64 `bigquery:"debt_count"`
	ReceivableCount int64 `bigquery:"receivable_count"`

	CreatedTS time.Time `bigquery:"created_ts"` // REQUIRED
}

// RowFromSummary converts a computed summary into its BigQuery shape for the
// window ending at now.
func RowFromSummary(userID string, s aggregate.Summary, now time.Time) *SummaryRow {
	start := now.AddDate(0, 0, -aggregate.WindowDays)
	return &SummaryRow{
		UserID:          userID,
		WindowStart:     civil.DateOf(start),
		WindowEnd:       civil.DateOf(now),
		MonthlyIncome:   s.MonthlyIncome.Rat(),
		MonthlyExpense:  s.MonthlyExpense.Rat(),
		TotalDebt:       s.TotalDebt.Rat(),
		TotalReceivable: s.TotalReceivable.Rat(),
		IncomeCount:     int64(s.IncomeCount),
		ExpenseCount:    int64(s.ExpenseCount),
		DebtCount:       int64(s.DebtCount),
		ReceivableCount: int64(s.ReceivableCount),
		CreatedTS:       now,
	}
}

// InsertSummary writes one summary row.
func InsertSummary(ctx context.Context, projectID, datasetID string, row *SummaryRow) error {
	client, err := bigquery.NewClient(ctx, projectID)
	if err != nil {
		return fmt.Errorf("InsertSummary: bigquery client: %w", err)
	}
	defer client.Close()

	return InsertSummaryWithClient(ctx, client, datasetID, row)
}

// InsertSummaryWithClient writes one summary row using the provided client.
func InsertSummaryWithClient(ctx context.Context, client *bigquery.Client, datasetID string, row *SummaryRow) error {
	if row == nil {
		return nil
	}

	inserter := client.Dataset(datasetID).Table(summariesTable).Inserter()
	if err := inserter.Put(ctx, row); err != nil {
		return fmt.Errorf("InsertSummary: inserting row: %w", err)
	}
	return nil
}
