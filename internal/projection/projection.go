// Package projection maps stored records into the per-variant row view
// models the records table and dashboard widgets render. Everything here is
// a pure function of its inputs.
package projection

import (
	"sort"
	"time"

	"github.com/shopspring/decimal"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/dvloznov/finance-keeper/internal/domain"
)

// RecentLimit caps the dashboard's recent-transactions feed.
const RecentLimit = 5

// Amount badge colors for the transaction rows.
const (
	ColorIncome  = "green"
	ColorExpense = "red"
)

// Formatter renders amounts and dates for display. Currency is a plain ISO
// code prefix with locale-grouped digits, matching the web UI's formatting.
type Formatter struct {
	printer  *message.Printer
	currency string
}

// NewFormatter builds a formatter for the given ISO currency code.
func NewFormatter(currencyCode string) *Formatter {
	return &Formatter{
		printer:  message.NewPrinter(language.English),
		currency: currencyCode,
	}
}

// Currency formats an amount like "PKR 1,234.50".
func (f *Formatter) Currency(d decimal.Decimal) string {
	v, _ := d.Round(2).Float64()
	return f.printer.Sprintf("%s %.2f", f.currency, v)
}

// Date formats a timestamp as a short locale date.
func (f *Formatter) Date(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format("1/2/2006")
}

// TransactionRow is one line of the transactions table or the recent feed.
type TransactionRow struct {
	ID          string `json:"id"`
	Date        string `json:"date"`
	Description string `json:"description"`
	Category    string `json:"category"`
	Type        string `json:"type"`
	Amount      string `json:"amount"`
	Signed      string `json:"signed"` // "+PKR 100.00" / "-PKR 40.00"
	Color       string `json:"color"`
}

// DebtRow is one line of the debts table. Paid binds to the independent
// status toggle, not to the edit form.
type DebtRow struct {
	ID          string `json:"id"`
	Paid        bool   `json:"paid"`
	Creditor    string `json:"creditor"`
	Description string `json:"description"`
	Amount      string `json:"amount"`
	DueDate     string `json:"dueDate"`
}

// ReceivableRow is one line of the receivables table.
type ReceivableRow struct {
	ID          string `json:"id"`
	Received    bool   `json:"received"`
	Debtor      string `json:"debtor"`
	Description string `json:"description"`
	Amount      string `json:"amount"`
	DueDate     string `json:"dueDate"`
}

// TransactionRows projects transactions in createdAt-descending order, the
// default for the tabbed table view.
func TransactionRows(recs []*domain.Record, f *Formatter) []TransactionRow {
	sorted := sortedCopy(recs, byCreatedAtDesc)
	rows := make([]TransactionRow, 0, len(sorted))
	for _, r := range sorted {
		rows = append(rows, transactionRow(r, f))
	}
	return rows
}

// RecentTransactionRows projects the dashboard feed: effective date
// descending, capped to the most recent entries regardless of the summary
// window.
func RecentTransactionRows(recs []*domain.Record, f *Formatter) []TransactionRow {
	sorted := sortedCopy(recs, byDateDesc)
	if len(sorted) > RecentLimit {
		sorted = sorted[:RecentLimit]
	}
	rows := make([]TransactionRow, 0, len(sorted))
	for _, r := range sorted {
		rows = append(rows, transactionRow(r, f))
	}
	return rows
}

func transactionRow(r *domain.Record, f *Formatter) TransactionRow {
	row := TransactionRow{
		ID:          r.ID,
		Date:        f.Date(r.Date),
		Description: r.Description,
		Category:    r.Category,
		Type:        string(r.Type),
		Amount:      f.Currency(r.Amount),
	}
	if r.Type == domain.TransactionIncome {
		row.Signed = "+" + row.Amount
		row.Color = ColorIncome
	} else {
		row.Signed = "-" + row.Amount
		row.Color = ColorExpense
	}
	return row
}

// DebtRows projects debts in createdAt-descending order for the table view.
func DebtRows(recs []*domain.Record, f *Formatter) []DebtRow {
	sorted := sortedCopy(recs, byCreatedAtDesc)
	rows := make([]DebtRow, 0, len(sorted))
	for _, r := range sorted {
		rows = append(rows, DebtRow{
			ID:          r.ID,
			Paid:        r.IsPaid,
			Creditor:    r.Creditor,
			Description: r.Description,
			Amount:      f.Currency(r.Amount),
			DueDate:     f.Date(r.DueDate),
		})
	}
	return rows
}

// ReceivableRows projects receivables in createdAt-descending order.
func ReceivableRows(recs []*domain.Record, f *Formatter) []ReceivableRow {
	sorted := sortedCopy(recs, byCreatedAtDesc)
	rows := make([]ReceivableRow, 0, len(sorted))
	for _, r := range sorted {
		rows = append(rows, ReceivableRow{
			ID:          r.ID,
			Received:    r.IsReceived,
			Debtor:      r.Debtor,
			Description: r.Description,
			Amount:      f.Currency(r.Amount),
			DueDate:     f.Date(r.DueDate),
		})
	}
	return rows
}

// UpcomingDebtRows projects outstanding debts by soonest due date for the
// dashboard's upcoming-payments widget, capped like the recent feed.
func UpcomingDebtRows(recs []*domain.Record, f *Formatter) []DebtRow {
	var outstanding []*domain.Record
	for _, r := range recs {
		if r.Outstanding() {
			outstanding = append(outstanding, r)
		}
	}
	sorted := sortedCopy(outstanding, byDueDateAsc)
	if len(sorted) > RecentLimit {
		sorted = sorted[:RecentLimit]
	}
	rows := make([]DebtRow, 0, len(sorted))
	for _, r := range sorted {
		rows = append(rows, DebtRow{
			ID:          r.ID,
			Paid:        r.IsPaid,
			Creditor:    r.Creditor,
			Description: r.Description,
			Amount:      f.Currency(r.Amount),
			DueDate:     f.Date(r.DueDate),
		})
	}
	return rows
}

func byCreatedAtDesc(a, b *domain.Record) bool { return a.CreatedAt.After(b.CreatedAt) }
func byDateDesc(a, b *domain.Record) bool      { return a.Date.After(b.Date) }
func byDueDateAsc(a, b *domain.Record) bool    { return a.DueDate.Before(b.DueDate) }

// sortedCopy sorts without mutating the caller's slice; projections must not
// reorder the shared record collection.
func sortedCopy(recs []*domain.Record, less func(a, b *domain.Record) bool) []*domain.Record {
	out := make([]*domain.Record, len(recs))
	copy(out, recs)
	sort.SliceStable(out, func(i, j int) bool { return less(out[i], out[j]) })
	return out
}
