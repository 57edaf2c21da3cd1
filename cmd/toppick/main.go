package main

import (
	"context"
	"database/sql"
	"encoding/json"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"text/tabwriter"

	corecfg "github.com/aevon-lab/toppick/internal/core/config"
	"github.com/aevon-lab/toppick/internal/core/reportdef"
	"github.com/aevon-lab/toppick/internal/core/storage"
	"github.com/aevon-lab/toppick/internal/core/storage/postgres"
	"github.com/aevon-lab/toppick/internal/core/storage/sqlite"
	"github.com/aevon-lab/toppick/internal/migrations"
	"github.com/aevon-lab/toppick/internal/report"
	"github.com/aevon-lab/toppick/internal/server"
)

const usage = `Usage: toppick [-config path] <command> [flags]

Commands:
  run      compute one report and print it
  reports  list configured reports
  serve    expose reports over HTTP
`

func main() {
	configPath := flag.String("config", "toppick.yaml", "Path to configuration file")
	flag.Usage = func() {
		fmt.Fprint(flag.CommandLine.Output(), usage)
		flag.PrintDefaults()
	}
	flag.Parse()

	// 0. Initialize Logger (stderr, so report output on stdout stays clean)
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, nil)))

	command := flag.Arg(0)
	if command == "" {
		flag.Usage()
		os.Exit(2)
	}

	// 1. Load Configuration
	cfg, err := corecfg.Load(*configPath)
	if err != nil {
		slog.Error("Failed to load config", "error", err)
		os.Exit(1)
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: cfg.Log.SlogLevel()})))
	slog.Debug("Loaded config", "config", cfg)

	args := flag.Args()[1:]
	switch command {
	case "reports":
		err = listReports(cfg)
	case "run":
		err = runReport(cfg, args)
	case "serve":
		err = serve(cfg)
	default:
		fmt.Fprintf(os.Stderr, "unknown command %q\n\n", command)
		flag.Usage()
		os.Exit(2)
	}
	if err != nil {
		slog.Error("Command failed", "command", command, "error", err)
		os.Exit(1)
	}
}

func listReports(cfg *corecfg.Config) error {
	tw := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "NAME\tGROUP_BY\tITEM\tOPERATOR\tKEY_ORDER\tFINGERPRINT")
	for _, d := range cfg.Reports.Definitions() {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%.12s\n", d.Name, d.GroupBy, d.Item, d.Operator, d.KeyOrder, d.Fingerprint)
	}
	return tw.Flush()
}

func runReport(cfg *corecfg.Config, args []string) error {
	fs := flag.NewFlagSet("run", flag.ExitOnError)
	name := fs.String("report", reportdef.DefaultName, "Report to compute")
	limit := fs.Int("limit", 0, "Maximum rows to print (0 keeps the report's limit)")
	asJSON := fs.Bool("json", false, "Print the result as JSON")
	if err := fs.Parse(args); err != nil {
		return err
	}

	source, err := openSource(cfg.Database)
	if err != nil {
		return err
	}
	defer source.Close()

	svc := report.NewService(source, cfg.Reports, report.Options{
		WorkerCount:    cfg.Report.WorkerCount,
		VerifyPushdown: cfg.Report.VerifyPushdown,
	})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	result, err := svc.Run(ctx, *name, *limit)
	if err != nil {
		return err
	}

	if *asJSON {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(result)
	}
	return report.WriteTable(os.Stdout, result)
}

func serve(cfg *corecfg.Config) error {
	// 2. Initialize Storage
	source, err := openSource(cfg.Database)
	if err != nil {
		return err
	}
	defer source.Close()

	// 3. Initialize Report Service
	svc := report.NewService(source, cfg.Reports, report.Options{
		WorkerCount:    cfg.Report.WorkerCount,
		VerifyPushdown: cfg.Report.VerifyPushdown,
	})
	slog.Info("Report service initialized",
		"reports", cfg.Reports.Len(),
		"worker_count", cfg.Report.WorkerCount,
		"verify_pushdown", cfg.Report.VerifyPushdown,
	)

	// 4. Initialize Server
	srv := server.New(fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port), source, cfg.Server.Mode)
	svc.RegisterRoutes(srv.Engine)

	// 5. Start; signal handler triggers the shutdown sequence.
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go func() {
		quit := make(chan os.Signal, 1)
		signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
		<-quit
		slog.Info("Signal received, shutting down...")
		cancel()
	}()

	if err := srv.Run(ctx); err != nil {
		return fmt.Errorf("server stopped: %w", err)
	}
	slog.Info("Shutdown complete")
	return nil
}

// openSource connects to the configured database, applies migrations when
// enabled and returns the matching adapter.
func openSource(cfg corecfg.DatabaseConfig) (storage.Source, error) {
	var (
		db  *sql.DB
		err error
	)
	switch cfg.Driver {
	case "postgres":
		db, err = postgres.Open(cfg.DSN, cfg.MaxOpenConns, cfg.MaxIdleConns, cfg.ConnectAttempts)
	case "sqlite":
		db, err = sqlite.Open(cfg.DSN, cfg.MaxOpenConns, cfg.MaxIdleConns, cfg.ConnectAttempts)
	default:
		return nil, fmt.Errorf("unsupported database driver %q", cfg.Driver)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}

	if err := migrations.RunMigrations(db, cfg.Driver, cfg.AutoMigrate); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to run database migrations: %w", err)
	}

	var source storage.Source
	switch cfg.Driver {
	case "postgres":
		source, err = postgres.NewAdapter(db)
	default:
		source, err = sqlite.NewAdapter(db)
	}
	if err != nil {
		db.Close()
		return nil, err
	}
	return source, nil
}
