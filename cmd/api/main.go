package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/dvloznov/finance-keeper/internal/aggregate"
	"github.com/dvloznov/finance-keeper/internal/analytics"
	"github.com/dvloznov/finance-keeper/internal/api/handlers"
	"github.com/dvloznov/finance-keeper/internal/api/middleware"
	"github.com/dvloznov/finance-keeper/internal/config"
	"github.com/dvloznov/finance-keeper/internal/domain"
	"github.com/dvloznov/finance-keeper/internal/export"
	"github.com/dvloznov/finance-keeper/internal/identity"
	"github.com/dvloznov/finance-keeper/internal/infra/firestoredb"
	"github.com/dvloznov/finance-keeper/internal/jobs"
	"github.com/dvloznov/finance-keeper/internal/jobs/inmemory"
	"github.com/dvloznov/finance-keeper/internal/logger"
	"github.com/dvloznov/finance-keeper/internal/projection"
	"github.com/dvloznov/finance-keeper/internal/store"
	"github.com/dvloznov/finance-keeper/internal/suggest"
)

func main() {
	// .env is optional; real deployments set the environment directly.
	_ = godotenv.Load()

	log := logger.New()

	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		log.Fatal().Err(err).Msg("Invalid configuration")
	}
	if !cfg.NotionEnabled() {
		log.Info().Msg("Notion mirror not configured; run cmd/sync-notion with flags to sync manually")
	}

	ctx := context.Background()

	repo, err := firestoredb.New(ctx, cfg.ProjectID)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to create record repository")
	}
	defer repo.Close()

	verifier, err := identity.NewFirebaseVerifier(ctx, cfg.ProjectID)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to create token verifier")
	}

	generator, err := suggest.NewGeminiGenerator(ctx, cfg.GeminiModel)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to create suggestions generator")
	}

	formatter := projection.NewFormatter(cfg.Currency)

	// Job infrastructure for CSV exports.
	jobStore := inmemory.NewStore()
	jobQueue := inmemory.NewQueue(100, jobStore)

	workerCtx, cancelWorker := context.WithCancel(ctx)
	defer cancelWorker()

	jobHandler := exportJobHandler(repo, cfg)

	go func() {
		log.Info().Msg("Starting export worker")
		if err := jobQueue.Start(workerCtx, jobHandler); err != nil {
			log.Error().Err(err).Msg("Export worker stopped with error")
		}
	}()

	// Initialize handlers
	recordsHandler := handlers.NewRecordsHandler(repo, formatter, nil, log)
	dashboardHandler := handlers.NewDashboardHandler(repo, formatter, nil, log)
	suggestionsHandler := handlers.NewSuggestionsHandler(repo, generator, log)
	exportsHandler := handlers.NewExportsHandler(jobQueue, jobStore, cfg.GCSBucket, log)

	// Create router
	mux := http.NewServeMux()

	mux.HandleFunc("/api/records", func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodGet:
			recordsHandler.ListRecords(w, r)
		case http.MethodPost:
			recordsHandler.CreateRecord(w, r)
		default:
			middleware.WriteError(w, http.StatusMethodNotAllowed, "Method not allowed")
		}
	})

	mux.HandleFunc("/api/records/", func(w http.ResponseWriter, r *http.Request) {
		rest := strings.TrimPrefix(r.URL.Path, "/api/records/")
		if rest == "" {
			middleware.WriteError(w, http.StatusBadRequest, "Record ID is required")
			return
		}

		if id, ok := strings.CutSuffix(rest, "/status"); ok {
			if r.Method == http.MethodPatch {
				recordsHandler.ToggleStatus(w, r, id)
			} else {
				middleware.WriteError(w, http.StatusMethodNotAllowed, "Method not allowed")
			}
			return
		}

		switch r.Method {
		case http.MethodPut:
			recordsHandler.UpdateRecord(w, r, rest)
		case http.MethodDelete:
			recordsHandler.DeleteRecord(w, r, rest)
		default:
			middleware.WriteError(w, http.StatusMethodNotAllowed, "Method not allowed")
		}
	})

	mux.HandleFunc("/api/dashboard", func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodGet {
			dashboardHandler.GetDashboard(w, r)
		} else {
			middleware.WriteError(w, http.StatusMethodNotAllowed, "Method not allowed")
		}
	})

	mux.HandleFunc("/api/suggestions", func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodPost {
			suggestionsHandler.GetSuggestions(w, r)
		} else {
			middleware.WriteError(w, http.StatusMethodNotAllowed, "Method not allowed")
		}
	})

	mux.HandleFunc("/api/exports", func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodPost:
			exportsHandler.CreateExport(w, r)
		case http.MethodGet:
			exportsHandler.ListExports(w, r)
		default:
			middleware.WriteError(w, http.StatusMethodNotAllowed, "Method not allowed")
		}
	})

	mux.HandleFunc("/api/exports/", func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodGet {
			jobID := strings.TrimPrefix(r.URL.Path, "/api/exports/")
			if jobID == "" {
				middleware.WriteError(w, http.StatusBadRequest, "Job ID is required")
				return
			}
			exportsHandler.GetExport(w, r, jobID)
		} else {
			middleware.WriteError(w, http.StatusMethodNotAllowed, "Method not allowed")
		}
	})

	// Health check endpoint sits outside auth.
	authed := middleware.Auth(verifier)(mux)
	root := http.NewServeMux()
	root.Handle("/api/", authed)
	root.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		middleware.WriteJSON(w, http.StatusOK, map[string]string{
			"status": "healthy",
			"time":   time.Now().Format(time.RFC3339),
		})
	})

	// Apply middleware
	handler := middleware.Recovery(log)(
		middleware.Logger(log)(
			middleware.RequestID(
				middleware.CORS(root),
			),
		),
	)

	server := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      handler,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Info().Str("port", cfg.Port).Msg("Starting API server")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("Failed to start server")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("Shutting down server...")

	cancelWorker()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Fatal().Err(err).Msg("Server forced to shutdown")
	}

	if err := jobQueue.Stop(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("Error stopping job queue")
	}

	log.Info().Msg("Server exited")
}

// exportJobHandler builds the worker for export jobs: load the user's
// records, render the CSV, upload it, then snapshot the dashboard summary to
// BigQuery for trend history.
func exportJobHandler(repo store.RecordRepository, cfg *config.Config) jobs.JobHandler {
	return func(ctx context.Context, job jobs.Job) error {
		exportJob, ok := job.(*jobs.ExportRecordsJob)
		if !ok {
			return fmt.Errorf("unexpected job type: %T", job)
		}

		log := logger.FromContext(ctx)
		log.Info().
			Str("job_id", exportJob.JobID).
			Str("user_id", exportJob.UserID).
			Msg("Processing export job")

		var all []*domain.Record
		byType := make(map[domain.RecordType][]*domain.Record)
		for _, rt := range []domain.RecordType{
			domain.RecordTypeTransaction,
			domain.RecordTypeDebt,
			domain.RecordTypeReceivable,
		} {
			recs, err := repo.ListRecords(ctx, exportJob.UserID, rt)
			if err != nil {
				return fmt.Errorf("list %s records: %w", rt, err)
			}
			byType[rt] = recs
			all = append(all, recs...)
		}

		data, err := export.BuildCSV(all)
		if err != nil {
			return fmt.Errorf("build csv: %w", err)
		}

		if err := export.UploadCSV(ctx, exportJob.Bucket, exportJob.ObjectName, data); err != nil {
			return fmt.Errorf("upload csv: %w", err)
		}
		exportJob.GCSURI = export.URI(exportJob.Bucket, exportJob.ObjectName)

		// Trend snapshot rides along with every export. A failure here is
		// logged, not retried; the export itself already succeeded.
		now := time.Now()
		windowed := aggregate.InWindow(byType[domain.RecordTypeTransaction], now, aggregate.WindowDays)
		summary := aggregate.Summarize(windowed, byType[domain.RecordTypeDebt], byType[domain.RecordTypeReceivable])
		row := analytics.RowFromSummary(exportJob.UserID, summary, now)
		if err := analytics.InsertSummary(ctx, cfg.ProjectID, cfg.BQDataset, row); err != nil {
			log.Warn().Err(err).Str("job_id", exportJob.JobID).Msg("Failed to record summary snapshot")
		}

		log.Info().
			Str("job_id", exportJob.JobID).
			Str("gcs_uri", exportJob.GCSURI).
			Int("record_count", len(all)).
			Msg("Export completed")

		return nil
	}
}
