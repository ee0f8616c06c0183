package notionsync

import (
	"time"

	"github.com/jomei/notionapi"

	"github.com/dvloznov/finance-keeper/internal/domain"
)

// recordIDProperty carries the stable document ID so repeat syncs can match
// pages to records.
const recordIDProperty = "Record ID"

// RecordToNotionProperties maps a record onto the Notion database schema.
// Shared columns are always set; variant columns only when they apply.
func RecordToNotionProperties(rec *domain.Record) notionapi.Properties {
	props := notionapi.Properties{
		"Description": notionapi.TitleProperty{
			Title: []notionapi.RichText{
				{
					Type: notionapi.ObjectTypeText,
					Text: &notionapi.Text{
						Content: rec.Description,
					},
				},
			},
		},
		"Record Type": notionapi.SelectProperty{
			Select: notionapi.Option{
				Name: string(rec.RecordType),
			},
		},
		"Amount": notionapi.NumberProperty{
			Number: rec.Amount.InexactFloat64(),
		},
		recordIDProperty: notionapi.RichTextProperty{
			RichText: []notionapi.RichText{
				{
					Type: notionapi.ObjectTypeText,
					Text: &notionapi.Text{
						Content: rec.ID,
					},
				},
			},
		},
	}

	switch rec.RecordType {
	case domain.RecordTypeTransaction:
		props["Type"] = notionapi.SelectProperty{
			Select: notionapi.Option{
				Name: string(rec.Type),
			},
		}
		if rec.Category != "" {
			props["Category"] = notionapi.SelectProperty{
				Select: notionapi.Option{
					Name: rec.Category,
				},
			}
		}
		if !rec.Date.IsZero() {
			props["Date"] = dateProperty(rec.Date)
		}
	case domain.RecordTypeDebt:
		props["Counterparty"] = richTextProperty(rec.Creditor)
		if !rec.DueDate.IsZero() {
			props["Due Date"] = dateProperty(rec.DueDate)
		}
		props["Settled"] = notionapi.CheckboxProperty{
			Checkbox: rec.IsPaid,
		}
	case domain.RecordTypeReceivable:
		props["Counterparty"] = richTextProperty(rec.Debtor)
		if !rec.DueDate.IsZero() {
			props["Due Date"] = dateProperty(rec.DueDate)
		}
		props["Settled"] = notionapi.CheckboxProperty{
			Checkbox: rec.IsReceived,
		}
	}

	return props
}

func richTextProperty(content string) notionapi.RichTextProperty {
	return notionapi.RichTextProperty{
		RichText: []notionapi.RichText{
			{
				Type: notionapi.ObjectTypeText,
				Text: &notionapi.Text{
					Content: content,
				},
			},
		},
	}
}

func dateProperty(t time.Time) notionapi.DateProperty {
	d := notionapi.Date(t)
	return notionapi.DateProperty{
		Date: &notionapi.DateObject{
			Start: &d,
		},
	}
}

// extractRecordID reads the record ID back off a Notion page. Returns empty
// string if the page was not created by this sync.
func extractRecordID(page notionapi.Page) string {
	if prop, ok := page.Properties[recordIDProperty]; ok {
		if richText, ok := prop.(*notionapi.RichTextProperty); ok {
			if len(richText.RichText) > 0 {
				return richText.RichText[0].PlainText
			}
		}
	}
	return ""
}
