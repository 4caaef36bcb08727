// Command aurashield is the client composition root. It wires the mock
// store, live client, resolution store and reconciler together and
// exposes the app's data flows as subcommands:
//
//	aurashield dashboard                  recent merged alerts (top 3)
//	aurashield alerts [-search] [-severity] [-limit]
//	aurashield resolve <id>
//	aurashield resolved
//	aurashield analyze-url [-vip] <url>
//	aurashield analyze-image [-vip] <path>
package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/aurashield/aurashield/internal/config"
	"github.com/aurashield/aurashield/internal/db"
	"github.com/aurashield/aurashield/internal/dto"
	"github.com/aurashield/aurashield/internal/liveapi"
	"github.com/aurashield/aurashield/internal/logger"
	"github.com/aurashield/aurashield/internal/mockapi"
	"github.com/aurashield/aurashield/internal/models"
	"github.com/aurashield/aurashield/internal/reconcile"
	"github.com/aurashield/aurashield/internal/repository"
	"github.com/aurashield/aurashield/internal/resolution"
)

type app struct {
	cfg        *config.Config
	log        *zap.SugaredLogger
	mock       *mockapi.Store
	live       *liveapi.Client
	resolution *resolution.Store
	reconciler *reconcile.Reconciler
}

func newApp() *app {
	_ = godotenv.Load()

	cfg := config.New()
	log := logger.New(os.Getenv("ENV") == "development")

	mock := mockapi.NewStore(log)
	live := liveapi.NewClient(cfg.APIBaseURL, cfg.UseLiveAPI, cfg.FetchTimeout, mock, log)

	res := resolution.NewStore(buildResolutionRepo(cfg, log), log)
	rec := reconcile.NewReconciler(live, mock, res, cfg.UseLiveAPI, cfg.FetchTimeout, log)

	return &app{
		cfg:        cfg,
		log:        log,
		mock:       mock,
		live:       live,
		resolution: res,
		reconciler: rec,
	}
}

// buildResolutionRepo selects the persistence backend. Postgres
// failures fall back to the file store; the resolution store itself
// degrades further to memory-only if that also fails.
func buildResolutionRepo(cfg *config.Config, log *zap.SugaredLogger) repository.ResolutionRepository {
	if cfg.ResolutionBackend == "postgres" {
		conn, err := db.ConnectPostgres(cfg, log)
		if err == nil {
			return repository.NewPostgresResolutionRepository(conn)
		}
		log.Warnw("Postgres unavailable, falling back to file store", "error", err)
	}
	return repository.NewFileResolutionRepository(cfg.ResolutionPath)
}

func main() {
	if len(os.Args) < 2 {
		usage()
		os.Exit(2)
	}

	a := newApp()
	defer a.log.Sync()

	ctx := context.Background()
	var err error

	switch os.Args[1] {
	case "dashboard":
		err = a.runDashboard(ctx)
	case "alerts":
		err = a.runAlerts(ctx, os.Args[2:])
	case "resolve":
		err = a.runResolve(ctx, os.Args[2:])
	case "resolved":
		err = a.runResolved(ctx)
	case "analyze-url":
		err = a.runAnalyzeURL(ctx, os.Args[2:])
	case "analyze-image":
		err = a.runAnalyzeImage(ctx, os.Args[2:])
	default:
		usage()
		os.Exit(2)
	}

	if err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

func usage() {
	fmt.Fprintln(os.Stderr, "Usage: aurashield <dashboard|alerts|resolve|resolved|analyze-url|analyze-image> [flags]")
}

func (a *app) runDashboard(ctx context.Context) error {
	resp := a.reconciler.GetMergedAlerts(ctx, a.cfg.DefaultVIP, dto.ListOptions{Limit: 3})
	fmt.Printf("Recent alerts (%d):\n", resp.Total)
	printAlerts(resp.Alerts)
	return nil
}

func (a *app) runAlerts(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("alerts", flag.ExitOnError)
	search := fs.String("search", "", "substring match over title/description/vip")
	severity := fs.String("severity", "all", "high, medium, low or all")
	limit := fs.Int("limit", 0, "maximum number of alerts")
	if err := fs.Parse(args); err != nil {
		return err
	}

	resp := a.reconciler.GetMergedAlerts(ctx, a.cfg.DefaultVIP, dto.ListOptions{
		Search:   *search,
		Severity: *severity,
		Limit:    *limit,
	})
	fmt.Printf("Alerts (%d):\n", resp.Total)
	printAlerts(resp.Alerts)
	return nil
}

func (a *app) runResolve(ctx context.Context, args []string) error {
	if len(args) < 1 {
		return fmt.Errorf("resolve requires an alert id")
	}
	id := args[0]
	a.resolution.MarkResolved(ctx, id)
	a.mock.Remove(id)
	fmt.Printf("Alert %s marked resolved\n", id)
	return nil
}

func (a *app) runResolved(ctx context.Context) error {
	ids := a.resolution.ResolvedIDs(ctx)
	fmt.Printf("Resolved ids (%d):\n", len(ids))
	for _, id := range ids {
		fmt.Println(" ", id)
	}
	return nil
}

func (a *app) runAnalyzeURL(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("analyze-url", flag.ExitOnError)
	vip := fs.String("vip", "", "target the content concerns")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() < 1 {
		return fmt.Errorf("analyze-url requires a URL")
	}

	alert, err := a.live.AnalyzeURL(ctx, fs.Arg(0), *vip)
	if err != nil {
		return fmt.Errorf("analysis failed: %w", err)
	}
	fmt.Println("Created alert:")
	printAlerts([]models.Alert{alert})
	return nil
}

func (a *app) runAnalyzeImage(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("analyze-image", flag.ExitOnError)
	vip := fs.String("vip", "", "target the content concerns")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() < 1 {
		return fmt.Errorf("analyze-image requires an image path")
	}

	alert, err := a.live.AnalyzeImage(ctx, fs.Arg(0), *vip)
	if err != nil {
		return fmt.Errorf("analysis failed: %w", err)
	}
	fmt.Println("Created alert:")
	printAlerts([]models.Alert{alert})
	return nil
}

func printAlerts(alerts []models.Alert) {
	for _, a := range alerts {
		fmt.Printf("  [%s] %-8s %-20s %s (%s, confidence %.2f)\n",
			a.Timestamp.Format("2006-01-02 15:04"),
			a.Severity,
			a.Type,
			a.Title,
			a.Source,
			a.Confidence,
		)
	}
}
