package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"

	"github.com/dvloznov/finance-keeper/internal/aggregate"
	"github.com/dvloznov/finance-keeper/internal/config"
	"github.com/dvloznov/finance-keeper/internal/domain"
	"github.com/dvloznov/finance-keeper/internal/export"
	"github.com/dvloznov/finance-keeper/internal/infra/firestoredb"
	"github.com/dvloznov/finance-keeper/internal/live"
	"github.com/dvloznov/finance-keeper/internal/logger"
	"github.com/dvloznov/finance-keeper/internal/projection"
	"github.com/dvloznov/finance-keeper/internal/suggest"
)

func main() {
	_ = godotenv.Load()
	log := logger.New()

	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	switch os.Args[1] {
	case "summary":
		runSummary(log)
	case "watch":
		runWatch(log)
	case "export":
		runExport(log)
	case "suggest":
		runSuggest(log)
	case "help", "-h", "--help":
		printUsage()
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n\n", os.Args[1])
		printUsage()
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Println("Finance Keeper CLI")
	fmt.Println("\nUsage:")
	fmt.Println("  cli <command> [options]")
	fmt.Println("\nCommands:")
	fmt.Println("  summary   Print a user's dashboard summary")
	fmt.Println("  watch     Follow a user's dashboard live")
	fmt.Println("  export    Export a user's records to a CSV in GCS")
	fmt.Println("  suggest   Generate financial suggestions for a user")
	fmt.Println("  help      Show this help message")
	fmt.Println("\nRun 'cli <command> -h' for more information on a command.")
}

func newRepo(ctx context.Context, cfg *config.Config, log zerolog.Logger) *firestoredb.Repo {
	if cfg.ProjectID == "" {
		log.Fatal().Msg("GOOGLE_PROJECT_ID is required")
	}
	repo, err := firestoredb.New(ctx, cfg.ProjectID)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to create record repository")
	}
	return repo
}

func loadAll(ctx context.Context, repo *firestoredb.Repo, userID string) (transactions, debts, receivables []*domain.Record, err error) {
	if transactions, err = repo.ListRecords(ctx, userID, domain.RecordTypeTransaction); err != nil {
		return
	}
	if debts, err = repo.ListRecords(ctx, userID, domain.RecordTypeDebt); err != nil {
		return
	}
	receivables, err = repo.ListRecords(ctx, userID, domain.RecordTypeReceivable)
	return
}

func runSummary(log zerolog.Logger) {
	fs := flag.NewFlagSet("summary", flag.ExitOnError)
	userID := fs.String("user", "", "User ID (required)")
	fs.Parse(os.Args[2:])

	if *userID == "" {
		log.Fatal().Msg("Error: --user is required")
	}

	cfg := config.Load()
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	repo := newRepo(ctx, cfg, log)
	defer repo.Close()

	transactions, debts, receivables, err := loadAll(ctx, repo, *userID)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load records")
	}

	now := time.Now()
	windowed := aggregate.InWindow(transactions, now, aggregate.WindowDays)
	summary := aggregate.Summarize(windowed, debts, receivables)
	formatter := projection.NewFormatter(cfg.Currency)

	fmt.Printf("Income (30d):      %s (%d records)\n", formatter.Currency(summary.MonthlyIncome), summary.IncomeCount)
	fmt.Printf("Expenses (30d):    %s (%d records)\n", formatter.Currency(summary.MonthlyExpense), summary.ExpenseCount)
	fmt.Printf("Outstanding debt:  %s (%d records)\n", formatter.Currency(summary.TotalDebt), summary.DebtCount)
	fmt.Printf("To be received:    %s (%d records)\n", formatter.Currency(summary.TotalReceivable), summary.ReceivableCount)

	categories := aggregate.ExpenseByCategory(windowed)
	if len(categories) > 0 {
		fmt.Println("\nExpenses by category:")
		for _, c := range categories {
			fmt.Printf("  %-20s %s\n", c.Name, formatter.Currency(c.Total))
		}
	}
}

func runWatch(log zerolog.Logger) {
	fs := flag.NewFlagSet("watch", flag.ExitOnError)
	userID := fs.String("user", "", "User ID (required)")
	fs.Parse(os.Args[2:])

	if *userID == "" {
		log.Fatal().Msg("Error: --user is required")
	}

	cfg := config.Load()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	repo := newRepo(ctx, cfg, log)
	defer repo.Close()

	feed, err := live.NewFeed(ctx, repo, *userID, projection.NewFormatter(cfg.Currency), nil)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to start live feed")
	}
	defer feed.Stop()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	log.Info().Str("user_id", *userID).Msg("Watching dashboard; Ctrl-C to stop")

	for {
		select {
		case view, ok := <-feed.Changes():
			if !ok {
				log.Info().Msg("Watch stream ended")
				return
			}
			fmt.Printf("[%s] income=%s expense=%s debt=%s receivable=%s recent=%d upcoming=%d\n",
				view.At.Format(time.RFC3339),
				view.Summary.MonthlyIncome, view.Summary.MonthlyExpense,
				view.Summary.TotalDebt, view.Summary.TotalReceivable,
				len(view.Recent), len(view.Upcoming))
		case <-quit:
			return
		}
	}
}

func runExport(log zerolog.Logger) {
	fs := flag.NewFlagSet("export", flag.ExitOnError)
	userID := fs.String("user", "", "User ID (required)")
	bucket := fs.String("bucket", "", "GCS bucket (defaults to GCS_BUCKET)")
	fs.Parse(os.Args[2:])

	if *userID == "" {
		log.Fatal().Msg("Error: --user is required")
	}

	cfg := config.Load()
	if *bucket == "" {
		*bucket = cfg.GCSBucket
	}
	if *bucket == "" {
		log.Fatal().Msg("Error: --bucket or GCS_BUCKET is required")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	repo := newRepo(ctx, cfg, log)
	defer repo.Close()

	transactions, debts, receivables, err := loadAll(ctx, repo, *userID)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load records")
	}

	all := append(append(transactions, debts...), receivables...)
	data, err := export.BuildCSV(all)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to build CSV")
	}

	objectName := export.ObjectName(*userID, time.Now())
	if err := export.UploadCSV(ctx, *bucket, objectName, data); err != nil {
		log.Fatal().Err(err).Msg("Failed to upload CSV")
	}

	fmt.Println(export.URI(*bucket, objectName))
}

func runSuggest(log zerolog.Logger) {
	fs := flag.NewFlagSet("suggest", flag.ExitOnError)
	userID := fs.String("user", "", "User ID (required)")
	fs.Parse(os.Args[2:])

	if *userID == "" {
		log.Fatal().Msg("Error: --user is required")
	}

	cfg := config.Load()
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	repo := newRepo(ctx, cfg, log)
	defer repo.Close()

	transactions, debts, receivables, err := loadAll(ctx, repo, *userID)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load records")
	}

	generator, err := suggest.NewGeminiGenerator(ctx, cfg.GeminiModel)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to create suggestions generator")
	}

	advice, err := generator.Suggest(ctx, suggest.Digest(transactions, debts, receivables))
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to generate suggestions")
	}

	fmt.Println(advice)
}
