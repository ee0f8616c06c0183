// Package export turns a user's records into a CSV object in Cloud Storage.
// The CSV build is pure; the upload assumes Application Default Credentials.
package export

import (
	"bytes"
	"context"
	"encoding/csv"
	"fmt"
	"time"

	"cloud.google.com/go/storage"
	"github.com/google/uuid"

	"github.com/dvloznov/finance-keeper/internal/domain"
)

var csvHeader = []string{
	"id", "recordType", "description", "amount", "createdAt",
	"type", "category", "date",
	"creditor", "debtor", "dueDate", "settled",
}

// BuildCSV renders records into CSV bytes. Fields foreign to a record's
// variant stay empty, mirroring the stored document shape.
func BuildCSV(records []*domain.Record) ([]byte, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)

	if err := w.Write(csvHeader); err != nil {
		return nil, fmt.Errorf("BuildCSV: header: %w", err)
	}

	for _, r := range records {
		row := []string{
			r.ID,
			string(r.RecordType),
			r.Description,
			r.Amount.String(),
			r.CreatedAt.Format(time.RFC3339),
			"", "", "", "", "", "", "",
		}
		switch r.RecordType {
		case domain.RecordTypeTransaction:
			row[5] = string(r.Type)
			row[6] = r.Category
			row[7] = r.Date.Format("2006-01-02")
		case domain.RecordTypeDebt:
			row[8] = r.Creditor
			row[9] = r.Debtor
			row[10] = r.DueDate.Format("2006-01-02")
			row[11] = fmt.Sprintf("%t", r.IsPaid)
		case domain.RecordTypeReceivable:
			row[8] = r.Creditor
			row[9] = r.Debtor
			row[10] = r.DueDate.Format("2006-01-02")
			row[11] = fmt.Sprintf("%t", r.IsReceived)
		}

		if err := w.Write(row); err != nil {
			return nil, fmt.Errorf("BuildCSV: row %s: %w", r.ID, err)
		}
	}

	w.Flush()
	if err := w.Error(); err != nil {
		return nil, fmt.Errorf("BuildCSV: flush: %w", err)
	}
	return buf.Bytes(), nil
}

// ObjectName builds a collision-free destination path for one export.
func ObjectName(userID string, now time.Time) string {
	return fmt.Sprintf("exports/%s/%s-%s.csv",
		userID, now.Format("2006-01-02"), uuid.New().String())
}

// URI is the gs:// address of an uploaded object.
func URI(bucket, objectName string) string {
	return fmt.Sprintf("gs://%s/%s", bucket, objectName)
}

// UploadCSV writes the CSV bytes to the bucket under objectName.
func UploadCSV(ctx context.Context, bucket, objectName string, data []byte) error {
	client, err := storage.NewClient(ctx)
	if err != nil {
		return fmt.Errorf("UploadCSV: create storage client: %w", err)
	}
	defer client.Close()

	ctx, cancel := context.WithTimeout(ctx, 2*time.Minute)
	defer cancel()

	obj := client.Bucket(bucket).Object(objectName)
	w := obj.NewWriter(ctx)
	w.ContentType = "text/csv"

	if _, err := w.Write(data); err != nil {
		_ = w.Close()
		return fmt.Errorf("UploadCSV: write object: %w", err)
	}
	if err := w.Close(); err != nil {
		return fmt.Errorf("UploadCSV: finalize upload: %w", err)
	}
	return nil
}
