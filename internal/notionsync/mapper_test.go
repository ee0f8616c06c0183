package notionsync

import (
	"testing"
	"time"

	"github.com/jomei/notionapi"
	"github.com/shopspring/decimal"

	"github.com/dvloznov/finance-keeper/internal/domain"
)

func TestRecordToNotionPropertiesTransaction(t *testing.T) {
	now := time.Date(2026, 8, 28, 0, 0, 0, 0, time.UTC)
	props := RecordToNotionProperties(&domain.Record{
		ID: "r1", RecordType: domain.RecordTypeTransaction,
		Type: domain.TransactionExpense, Category: "Food",
		Amount: decimal.RequireFromString("40.5"), Description: "Groceries",
		Date: now, CreatedAt: now,
	})

	title, ok := props["Description"].(notionapi.TitleProperty)
	if !ok || title.Title[0].Text.Content != "Groceries" {
		t.Errorf("Description = %+v", props["Description"])
	}
	amount, ok := props["Amount"].(notionapi.NumberProperty)
	if !ok || amount.Number != 40.5 {
		t.Errorf("Amount = %+v", props["Amount"])
	}
	cat, ok := props["Category"].(notionapi.SelectProperty)
	if !ok || cat.Select.Name != "Food" {
		t.Errorf("Category = %+v", props["Category"])
	}
	if _, ok := props["Settled"]; ok {
		t.Error("transaction page must not carry Settled")
	}
	if _, ok := props["Counterparty"]; ok {
		t.Error("transaction page must not carry Counterparty")
	}
}

func TestRecordToNotionPropertiesDebt(t *testing.T) {
	due := time.Date(2026, 9, 15, 0, 0, 0, 0, time.UTC)
	props := RecordToNotionProperties(&domain.Record{
		ID: "d1", RecordType: domain.RecordTypeDebt,
		Amount: decimal.NewFromInt(200), Description: "Loan",
		Creditor: "Bank", Debtor: "Me", DueDate: due, IsPaid: true,
	})

	cp, ok := props["Counterparty"].(notionapi.RichTextProperty)
	if !ok || cp.RichText[0].Text.Content != "Bank" {
		t.Errorf("Counterparty = %+v", props["Counterparty"])
	}
	settled, ok := props["Settled"].(notionapi.CheckboxProperty)
	if !ok || !settled.Checkbox {
		t.Errorf("Settled = %+v", props["Settled"])
	}
	if _, ok := props["Category"]; ok {
		t.Error("debt page must not carry Category")
	}
	rt, ok := props["Record Type"].(notionapi.SelectProperty)
	if !ok || rt.Select.Name != "debt" {
		t.Errorf("Record Type = %+v", props["Record Type"])
	}
}

func TestExtractRecordID(t *testing.T) {
	page := notionapi.Page{
		Properties: notionapi.Properties{
			"Record ID": &notionapi.RichTextProperty{
				RichText: []notionapi.RichText{{PlainText: "r42"}},
			},
		},
	}
	if got := extractRecordID(page); got != "r42" {
		t.Errorf("extractRecordID = %q, want r42", got)
	}

	if got := extractRecordID(notionapi.Page{Properties: notionapi.Properties{}}); got != "" {
		t.Errorf("missing property should yield empty, got %q", got)
	}
}
