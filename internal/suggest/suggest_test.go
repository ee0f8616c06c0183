package suggest

import (
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/dvloznov/finance-keeper/internal/domain"
)

func TestCleanModelText(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"plain text untouched", "Save more.", "Save more."},
		{"fenced", "```\nSave more.\n```", "Save more."},
		{"fenced with language", "```markdown\nSave more.\n```", "Save more."},
		{"leading whitespace", "  \nSave more.\n", "Save more."},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := cleanModelText(tt.in); got != tt.want {
				t.Errorf("cleanModelText(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestBuildPromptEmbedsRecords(t *testing.T) {
	p := BuildPrompt("expense 40 Groceries")
	if !strings.Contains(p, "expert financial advisor") {
		t.Error("prompt missing advisor framing")
	}
	if !strings.Contains(p, "expense 40 Groceries") {
		t.Error("prompt missing records digest")
	}
}

func TestDigest(t *testing.T) {
	due := time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC)
	d := Digest(
		[]*domain.Record{{
			RecordType: domain.RecordTypeTransaction, Type: domain.TransactionExpense,
			Amount: decimal.NewFromInt(40), Description: "Groceries", Category: "Food",
			Date: due,
		}},
		[]*domain.Record{{
			RecordType: domain.RecordTypeDebt, Amount: decimal.NewFromInt(200),
			Description: "Loan", Creditor: "Bank", DueDate: due,
		}},
		nil,
	)

	if !strings.Contains(d, "Transactions:") || !strings.Contains(d, "Debts:") {
		t.Errorf("digest missing groups:\n%s", d)
	}
	if strings.Contains(d, "Receivables:") {
		t.Error("empty group must be omitted")
	}
	if !strings.Contains(d, "owed to Bank") || !strings.Contains(d, "unpaid") {
		t.Errorf("debt line malformed:\n%s", d)
	}
}

func TestDigestEmpty(t *testing.T) {
	if d := Digest(nil, nil, nil); d != "" {
		t.Errorf("empty digest = %q", d)
	}
}
