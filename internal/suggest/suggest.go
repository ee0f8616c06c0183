// Package suggest generates personalized financial advice from a digest of
// the user's records via Gemini.
package suggest

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"google.golang.org/genai"

	"github.com/dvloznov/finance-keeper/internal/domain"
)

// DefaultModelName is used when no model is configured.
const DefaultModelName = "gemini-2.0-flash"

// ErrEmptyRecords rejects a suggestions request with nothing to analyze.
var ErrEmptyRecords = errors.New("financial records digest is empty")

// Generator produces suggestions text for a records digest.
type Generator interface {
	Suggest(ctx context.Context, financialRecords string) (string, error)
}

// GeminiGenerator calls the Gemini API.
type GeminiGenerator struct {
	client *genai.Client
	model  string
}

// NewGeminiGenerator creates the client. The API key comes from the
// environment per the SDK's defaults.
func NewGeminiGenerator(ctx context.Context, model string) (*GeminiGenerator, error) {
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		HTTPOptions: genai.HTTPOptions{APIVersion: "v1"},
	})
	if err != nil {
		return nil, fmt.Errorf("NewGeminiGenerator: create genai client: %w", err)
	}
	if model == "" {
		model = DefaultModelName
	}
	return &GeminiGenerator{client: client, model: model}, nil
}

// Suggest sends the digest to the model and returns its advice as plain
// markdown text.
func (g *GeminiGenerator) Suggest(ctx context.Context, financialRecords string) (string, error) {
	if strings.TrimSpace(financialRecords) == "" {
		return "", ErrEmptyRecords
	}

	contents := []*genai.Content{
		{
			Role: "user",
			Parts: []*genai.Part{
				{Text: BuildPrompt(financialRecords)},
			},
		},
	}

	resp, err := g.client.Models.GenerateContent(ctx, g.model, contents, nil)
	if err != nil {
		return "", fmt.Errorf("Suggest: generate content: %w", err)
	}

	text := cleanModelText(resp.Text())
	if text == "" {
		return "", errors.New("Suggest: empty response from model")
	}
	return text, nil
}

// BuildPrompt frames the digest for the model.
func BuildPrompt(financialRecords string) string {
	return "You are an expert financial advisor. Analyze the following financial records " +
		"and provide actionable suggestions for improving the user's financial health.\n\n" +
		"Focus on:\n" +
		"- Spending patterns and categories that look out of balance\n" +
		"- Outstanding debts and receivables that need attention\n" +
		"- Practical savings opportunities\n\n" +
		"Keep the advice specific to the records below. Respond in plain prose, " +
		"no code fences.\n\n" +
		"Financial records:\n" + financialRecords
}

// cleanModelText strips Markdown code fences the model sometimes wraps its
// answer in despite instructions.
func cleanModelText(raw string) string {
	s := strings.TrimSpace(raw)

	if strings.HasPrefix(s, "```") {
		if idx := strings.Index(s, "\n"); idx != -1 {
			s = s[idx+1:]
		} else {
			return s
		}
		s = strings.TrimSpace(s)
		if idx := strings.LastIndex(s, "```"); idx != -1 {
			s = s[:idx]
		}
	}

	return strings.TrimSpace(s)
}

var _ Generator = (*GeminiGenerator)(nil)

// Digest renders the user's records as the plain-text block the prompt
// embeds. One line per record, grouped by variant.
func Digest(transactions, debts, receivables []*domain.Record) string {
	var b strings.Builder

	writeGroup := func(title string, recs []*domain.Record, line func(*domain.Record) string) {
		if len(recs) == 0 {
			return
		}
		b.WriteString(title)
		b.WriteString(":\n")
		for _, r := range recs {
			b.WriteString("- ")
			b.WriteString(line(r))
			b.WriteString("\n")
		}
		b.WriteString("\n")
	}

	writeGroup("Transactions", transactions, func(r *domain.Record) string {
		return fmt.Sprintf("%s %s %s (%s) on %s",
			r.Type, r.Amount, r.Description, r.Category, r.Date.Format("2006-01-02"))
	})
	writeGroup("Debts", debts, func(r *domain.Record) string {
		status := "unpaid"
		if r.IsPaid {
			status = "paid"
		}
		return fmt.Sprintf("%s owed to %s for %s, due %s, %s",
			r.Amount, r.Creditor, r.Description, r.DueDate.Format("2006-01-02"), status)
	})
	writeGroup("Receivables", receivables, func(r *domain.Record) string {
		status := "outstanding"
		if r.IsReceived {
			status = "received"
		}
		return fmt.Sprintf("%s owed by %s for %s, due %s, %s",
			r.Amount, r.Debtor, r.Description, r.DueDate.Format("2006-01-02"), status)
	})

	return strings.TrimSpace(b.String())
}
