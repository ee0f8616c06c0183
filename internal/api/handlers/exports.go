package handlers

import (
	"net/http"
	"time"

	"github.com/rs/zerolog"

	"github.com/dvloznov/finance-keeper/internal/api/middleware"
	"github.com/dvloznov/finance-keeper/internal/export"
	"github.com/dvloznov/finance-keeper/internal/jobs"
)

// ExportsHandler enqueues CSV export jobs and answers status queries.
type ExportsHandler struct {
	publisher jobs.Publisher
	jobStore  jobs.JobStore
	bucket    string
	log       zerolog.Logger
}

// NewExportsHandler creates a new exports handler.
func NewExportsHandler(publisher jobs.Publisher, jobStore jobs.JobStore, bucket string, log zerolog.Logger) *ExportsHandler {
	return &ExportsHandler{publisher: publisher, jobStore: jobStore, bucket: bucket, log: log}
}

// CreateExport handles POST /api/exports. The work happens on the job queue;
// the response is just the ticket.
func (h *ExportsHandler) CreateExport(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	user, ok := middleware.UserFromContext(ctx)
	if !ok {
		middleware.WriteError(w, http.StatusUnauthorized, "Not authenticated")
		return
	}

	if h.bucket == "" {
		middleware.WriteError(w, http.StatusServiceUnavailable, "Exports are not configured")
		return
	}

	job := &jobs.ExportRecordsJob{
		UserID:     user.UID,
		Bucket:     h.bucket,
		ObjectName: export.ObjectName(user.UID, time.Now()),
	}

	if err := h.publisher.PublishExportRecords(ctx, job); err != nil {
		h.log.Error().Err(err).Msg("Failed to enqueue export job")
		middleware.WriteError(w, http.StatusInternalServerError, "Failed to enqueue export")
		return
	}

	h.log.Info().
		Str("job_id", job.JobID).
		Str("object_name", job.ObjectName).
		Msg("Export job enqueued")

	middleware.WriteJSON(w, http.StatusAccepted, map[string]string{
		"job_id": job.JobID,
		"status": string(job.Status),
	})
}

// ListExports handles GET /api/exports, scoped to the caller's own jobs.
func (h *ExportsHandler) ListExports(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	user, ok := middleware.UserFromContext(ctx)
	if !ok {
		middleware.WriteError(w, http.StatusUnauthorized, "Not authenticated")
		return
	}

	list, err := h.jobStore.ListJobs(ctx, jobs.JobFilter{UserID: user.UID})
	if err != nil {
		h.log.Error().Err(err).Msg("Failed to list export jobs")
		middleware.WriteError(w, http.StatusInternalServerError, "Failed to list exports")
		return
	}

	middleware.WriteJSON(w, http.StatusOK, map[string]interface{}{
		"jobs":  list,
		"count": len(list),
	})
}

// GetExport handles GET /api/exports/{id}.
func (h *ExportsHandler) GetExport(w http.ResponseWriter, r *http.Request, jobID string) {
	ctx := r.Context()
	user, ok := middleware.UserFromContext(ctx)
	if !ok {
		middleware.WriteError(w, http.StatusUnauthorized, "Not authenticated")
		return
	}

	job, err := h.jobStore.GetJob(ctx, jobID)
	if err != nil || job.UserID != user.UID {
		middleware.WriteError(w, http.StatusNotFound, "Export job not found")
		return
	}

	middleware.WriteJSON(w, http.StatusOK, job)
}
