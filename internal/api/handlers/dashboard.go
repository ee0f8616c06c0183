package handlers

import (
	"net/http"
	"time"

	"github.com/rs/zerolog"

	"github.com/dvloznov/finance-keeper/internal/aggregate"
	"github.com/dvloznov/finance-keeper/internal/api/middleware"
	"github.com/dvloznov/finance-keeper/internal/domain"
	"github.com/dvloznov/finance-keeper/internal/projection"
	"github.com/dvloznov/finance-keeper/internal/store"
)

// DashboardHandler serves the aggregated dashboard view.
type DashboardHandler struct {
	repo      store.RecordRepository
	formatter *projection.Formatter
	now       func() time.Time
	log       zerolog.Logger
}

// NewDashboardHandler creates a new dashboard handler.
func NewDashboardHandler(repo store.RecordRepository, formatter *projection.Formatter, now func() time.Time, log zerolog.Logger) *DashboardHandler {
	if now == nil {
		now = time.Now
	}
	return &DashboardHandler{repo: repo, formatter: formatter, now: now, log: log}
}

type categoryJSON struct {
	Name  string `json:"name"`
	Total string `json:"total"`
}

type summaryJSON struct {
	MonthlyIncome   string `json:"monthlyIncome"`
	MonthlyExpense  string `json:"monthlyExpense"`
	TotalDebt       string `json:"totalDebt"`
	TotalReceivable string `json:"totalReceivable"`

	IncomeCount     int `json:"incomeCount"`
	ExpenseCount    int `json:"expenseCount"`
	DebtCount       int `json:"debtCount"`
	ReceivableCount int `json:"receivableCount"`
}

// GetDashboard handles GET /api/dashboard. It assembles the four summary
// cards, the expense-by-category rollup, the recent-transactions feed and the
// upcoming payments in one response.
func (h *DashboardHandler) GetDashboard(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	user, ok := middleware.UserFromContext(ctx)
	if !ok {
		middleware.WriteError(w, http.StatusUnauthorized, "Not authenticated")
		return
	}

	now := h.now()
	since := now.AddDate(0, 0, -aggregate.WindowDays)

	windowed, err := h.repo.ListTransactionsSince(ctx, user.UID, since)
	if err != nil {
		h.log.Error().Err(err).Msg("Failed to load windowed transactions")
		middleware.WriteError(w, http.StatusInternalServerError, "Failed to load dashboard")
		return
	}

	recent, err := h.repo.ListRecentTransactions(ctx, user.UID, projection.RecentLimit)
	if err != nil {
		h.log.Error().Err(err).Msg("Failed to load recent transactions")
		middleware.WriteError(w, http.StatusInternalServerError, "Failed to load dashboard")
		return
	}

	debts, err := h.repo.ListRecords(ctx, user.UID, domain.RecordTypeDebt)
	if err != nil {
		h.log.Error().Err(err).Msg("Failed to load debts")
		middleware.WriteError(w, http.StatusInternalServerError, "Failed to load dashboard")
		return
	}

	receivables, err := h.repo.ListRecords(ctx, user.UID, domain.RecordTypeReceivable)
	if err != nil {
		h.log.Error().Err(err).Msg("Failed to load receivables")
		middleware.WriteError(w, http.StatusInternalServerError, "Failed to load dashboard")
		return
	}

	summary := aggregate.Summarize(windowed, debts, receivables)

	categories := aggregate.ExpenseByCategory(windowed)
	catJSON := make([]categoryJSON, 0, len(categories))
	for _, c := range categories {
		catJSON = append(catJSON, categoryJSON{Name: c.Name, Total: c.Total.String()})
	}

	middleware.WriteJSON(w, http.StatusOK, map[string]interface{}{
		"summary": summaryJSON{
			MonthlyIncome:   summary.MonthlyIncome.String(),
			MonthlyExpense:  summary.MonthlyExpense.String(),
			TotalDebt:       summary.TotalDebt.String(),
			TotalReceivable: summary.TotalReceivable.String(),
			IncomeCount:     summary.IncomeCount,
			ExpenseCount:    summary.ExpenseCount,
			DebtCount:       summary.DebtCount,
			ReceivableCount: summary.ReceivableCount,
		},
		"categories": catJSON,
		"recent":     projection.RecentTransactionRows(recent, h.formatter),
		"upcoming":   projection.UpcomingDebtRows(debts, h.formatter),
	})
}
