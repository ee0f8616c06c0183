// Package handlers contains the HTTP endpoints of the API server. Handlers
// decode requests, delegate to the domain packages and encode responses;
// business rules live elsewhere.
package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/rs/zerolog"

	"github.com/dvloznov/finance-keeper/internal/api/middleware"
	"github.com/dvloznov/finance-keeper/internal/domain"
	"github.com/dvloznov/finance-keeper/internal/form"
	"github.com/dvloznov/finance-keeper/internal/identity"
	"github.com/dvloznov/finance-keeper/internal/projection"
	"github.com/dvloznov/finance-keeper/internal/store"
)

const dateLayout = "2006-01-02"

// recordRequest is the JSON body for create and update. Amount rides as a
// json.Number so both "40" and 40 coerce; dates are plain YYYY-MM-DD.
type recordRequest struct {
	RecordType  string      `json:"recordType"`
	Description string      `json:"description"`
	Amount      json.Number `json:"amount"`
	Type        string      `json:"type"`
	Category    string      `json:"category"`
	Date        string      `json:"date"`
	Person      string      `json:"person"`
	DueDate     string      `json:"dueDate"`
}

// RecordsHandler handles the record CRUD and status endpoints.
type RecordsHandler struct {
	repo      store.RecordRepository
	formatter *projection.Formatter
	now       func() time.Time
	log       zerolog.Logger
}

// NewRecordsHandler creates a new records handler. now is injectable for
// tests; pass nil for the wall clock.
func NewRecordsHandler(repo store.RecordRepository, formatter *projection.Formatter, now func() time.Time, log zerolog.Logger) *RecordsHandler {
	if now == nil {
		now = time.Now
	}
	return &RecordsHandler{repo: repo, formatter: formatter, now: now, log: log}
}

// ListRecords handles GET /api/records?type=transaction|debt|receivable
func (h *RecordsHandler) ListRecords(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	user, ok := middleware.UserFromContext(ctx)
	if !ok {
		middleware.WriteError(w, http.StatusUnauthorized, "Not authenticated")
		return
	}

	typeParam := r.URL.Query().Get("type")
	if typeParam == "" {
		typeParam = string(domain.RecordTypeTransaction)
	}
	rt, err := domain.ParseRecordType(typeParam)
	if err != nil {
		middleware.WriteError(w, http.StatusBadRequest, "Unknown record type")
		return
	}

	records, err := h.repo.ListRecords(ctx, user.UID, rt)
	if err != nil {
		h.log.Error().Err(err).Str("record_type", string(rt)).Msg("Failed to list records")
		middleware.WriteError(w, http.StatusInternalServerError, "Failed to list records")
		return
	}

	var rows interface{}
	switch rt {
	case domain.RecordTypeTransaction:
		rows = projection.TransactionRows(records, h.formatter)
	case domain.RecordTypeDebt:
		rows = projection.DebtRows(records, h.formatter)
	case domain.RecordTypeReceivable:
		rows = projection.ReceivableRows(records, h.formatter)
	}

	middleware.WriteJSON(w, http.StatusOK, map[string]interface{}{
		"records": rows,
		"count":   len(records),
	})
}

// CreateRecord handles POST /api/records
func (h *RecordsHandler) CreateRecord(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	user, ok := middleware.UserFromContext(ctx)
	if !ok {
		middleware.WriteError(w, http.StatusUnauthorized, "Not authenticated")
		return
	}

	var req recordRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		middleware.WriteError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	rt, err := domain.ParseRecordType(req.RecordType)
	if err != nil {
		middleware.WriteError(w, http.StatusBadRequest, "Unknown record type")
		return
	}

	controller := form.NewCreate(h.now)
	if err := controller.SwitchVariant(rt); err != nil {
		middleware.WriteError(w, http.StatusBadRequest, "Unknown record type")
		return
	}

	rec, fieldErrs := h.submit(controller, &req, user)
	if len(fieldErrs) > 0 {
		middleware.WriteFieldErrors(w, fieldErrs)
		return
	}

	if err := h.repo.CreateRecord(ctx, rec); err != nil {
		h.log.Error().Err(err).Str("record_type", string(rt)).Msg("Failed to create record")
		middleware.WriteError(w, http.StatusBadGateway, "Failed to save record")
		return
	}

	middleware.WriteJSON(w, http.StatusCreated, map[string]string{"id": rec.ID})
}

// UpdateRecord handles PUT /api/records/{id}
func (h *RecordsHandler) UpdateRecord(w http.ResponseWriter, r *http.Request, recordID string) {
	ctx := r.Context()
	user, ok := middleware.UserFromContext(ctx)
	if !ok {
		middleware.WriteError(w, http.StatusUnauthorized, "Not authenticated")
		return
	}

	var req recordRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		middleware.WriteError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	existing, err := h.repo.GetRecord(ctx, user.UID, recordID)
	if errors.Is(err, store.ErrNotFound) {
		middleware.WriteError(w, http.StatusNotFound, "Record not found")
		return
	}
	if err != nil {
		h.log.Error().Err(err).Str("record_id", recordID).Msg("Failed to load record")
		middleware.WriteError(w, http.StatusInternalServerError, "Failed to load record")
		return
	}

	// The variant is pinned to the stored record; a mismatched body is a
	// client bug, not a variant switch.
	if req.RecordType != "" && req.RecordType != string(existing.RecordType) {
		middleware.WriteError(w, http.StatusConflict, "Record type cannot change")
		return
	}

	controller, err := form.NewEdit(existing, h.now)
	if err != nil {
		h.log.Error().Err(err).Str("record_id", recordID).Msg("Stored record has unknown type")
		middleware.WriteError(w, http.StatusInternalServerError, "Failed to load record")
		return
	}

	rec, fieldErrs := h.submit(controller, &req, user)
	if len(fieldErrs) > 0 {
		middleware.WriteFieldErrors(w, fieldErrs)
		return
	}

	if err := h.repo.UpdateRecord(ctx, rec); err != nil {
		h.log.Error().Err(err).Str("record_id", recordID).Msg("Failed to update record")
		middleware.WriteError(w, http.StatusBadGateway, "Failed to save record")
		return
	}

	middleware.WriteJSON(w, http.StatusOK, map[string]string{"id": rec.ID})
}

// DeleteRecord handles DELETE /api/records/{id}
func (h *RecordsHandler) DeleteRecord(w http.ResponseWriter, r *http.Request, recordID string) {
	ctx := r.Context()
	user, ok := middleware.UserFromContext(ctx)
	if !ok {
		middleware.WriteError(w, http.StatusUnauthorized, "Not authenticated")
		return
	}

	err := h.repo.DeleteRecord(ctx, user.UID, recordID)
	if errors.Is(err, store.ErrNotFound) {
		middleware.WriteError(w, http.StatusNotFound, "Record not found")
		return
	}
	if err != nil {
		h.log.Error().Err(err).Str("record_id", recordID).Msg("Failed to delete record")
		middleware.WriteError(w, http.StatusBadGateway, "Failed to delete record")
		return
	}

	middleware.WriteJSON(w, http.StatusOK, map[string]string{"id": recordID})
}

// ToggleStatus handles PATCH /api/records/{id}/status. An explicit value in
// the body sets the flag; an empty body inverts the current one.
func (h *RecordsHandler) ToggleStatus(w http.ResponseWriter, r *http.Request, recordID string) {
	ctx := r.Context()
	user, ok := middleware.UserFromContext(ctx)
	if !ok {
		middleware.WriteError(w, http.StatusUnauthorized, "Not authenticated")
		return
	}

	// An empty body means "invert the current flag".
	var req struct {
		Value *bool `json:"value"`
	}
	_ = json.NewDecoder(r.Body).Decode(&req)

	value := false
	if req.Value != nil {
		value = *req.Value
	} else {
		rec, err := h.repo.GetRecord(ctx, user.UID, recordID)
		if errors.Is(err, store.ErrNotFound) {
			middleware.WriteError(w, http.StatusNotFound, "Record not found")
			return
		}
		if err != nil {
			h.log.Error().Err(err).Str("record_id", recordID).Msg("Failed to load record")
			middleware.WriteError(w, http.StatusInternalServerError, "Failed to load record")
			return
		}
		current, err := rec.StatusValue()
		if err != nil {
			middleware.WriteError(w, http.StatusBadRequest, "Record has no status flag")
			return
		}
		value = !current
	}

	err := h.repo.SetStatus(ctx, user.UID, recordID, value)
	if errors.Is(err, store.ErrNotFound) {
		middleware.WriteError(w, http.StatusNotFound, "Record not found")
		return
	}
	if errors.Is(err, domain.ErrNoStatusFlag) {
		middleware.WriteError(w, http.StatusBadRequest, "Record has no status flag")
		return
	}
	if err != nil {
		h.log.Error().Err(err).Str("record_id", recordID).Msg("Failed to set status")
		middleware.WriteError(w, http.StatusBadGateway, "Failed to save record")
		return
	}

	middleware.WriteJSON(w, http.StatusOK, map[string]interface{}{
		"id":    recordID,
		"value": value,
	})
}

// submit loads the request into the controller's draft and submits it.
// Unparseable dates surface as field errors alongside the controller's own.
func (h *RecordsHandler) submit(controller *form.Controller, req *recordRequest, user identity.User) (*domain.Record, map[string]string) {
	draft := controller.Draft()
	draft.Description = req.Description
	draft.Amount = req.Amount.String()
	if req.Type != "" {
		draft.Type = domain.TransactionType(req.Type)
	}
	draft.Category = req.Category
	draft.Person = req.Person

	dateErrs := make(map[string]string)
	if req.Date != "" {
		d, err := time.Parse(dateLayout, req.Date)
		if err != nil {
			dateErrs["date"] = "Date must be YYYY-MM-DD"
		} else {
			draft.Date = d
		}
	}
	if req.DueDate != "" {
		d, err := time.Parse(dateLayout, req.DueDate)
		if err != nil {
			dateErrs["dueDate"] = "Due date must be YYYY-MM-DD"
		} else {
			draft.DueDate = d
		}
	}

	controller.SetDraft(draft)

	rec, fieldErrs := controller.Submit(user)
	for k, v := range dateErrs {
		if fieldErrs == nil {
			fieldErrs = make(map[string]string)
		}
		fieldErrs[k] = v
	}
	if len(fieldErrs) > 0 {
		return nil, fieldErrs
	}
	return rec, nil
}
