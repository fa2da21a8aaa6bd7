package main

import (
	"context"
	"database/sql"
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	_ "github.com/jackc/pgx/v5/stdlib"

	"flight-analytics/internal/report"
	scheduleapp "flight-analytics/internal/schedule/application"
	schedule "flight-analytics/internal/schedule/domain"
	schedulememory "flight-analytics/internal/schedule/infrastructure/memory"
	schedulepostgres "flight-analytics/internal/schedule/infrastructure/postgres"
	"flight-analytics/internal/schedule/infrastructure/spreadsheet"
)

type config struct {
	seed        int64
	seedSet     bool
	importPath  string
	outPath     string
	catalogPath string
	dsn         string
}

func main() {
	logger := log.New(os.Stdout, "", log.LstdFlags)
	cfg, err := parseConfig(os.Args[1:])
	if err != nil {
		os.Exit(2)
	}
	ctx := context.Background()

	scheduleCfg, err := scheduleapp.LoadConfigFile(cfg.catalogPath)
	if err != nil {
		logger.Fatalf("load catalog: %v", err)
	}
	catalog, err := scheduleCfg.BuildCatalog()
	if err != nil {
		logger.Fatalf("build catalog: %v", err)
	}

	var repo schedule.Repository = schedulememory.NewScheduleRepository()
	if cfg.dsn != "" {
		db, err := sql.Open("pgx", cfg.dsn)
		if err != nil {
			logger.Fatalf("open db: %v", err)
		}
		defer db.Close()
		repo = schedulepostgres.NewScheduleRepository(db)
	}

	svc, err := scheduleapp.NewScheduleService(repo, catalog, logger)
	if err != nil {
		logger.Fatalf("schedule service: %v", err)
	}

	var built *schedule.Schedule
	if cfg.importPath != "" {
		format, err := spreadsheet.FormatFromName(cfg.importPath)
		if err != nil {
			logger.Fatalf("import: %v", err)
		}
		rows, err := spreadsheet.ReadFile(cfg.importPath)
		if err != nil {
			logger.Fatalf("import %s: %v", cfg.importPath, err)
		}
		built, err = svc.Import(ctx, format, rows)
		if err != nil {
			logger.Fatalf("import %s: %v", cfg.importPath, err)
		}
	} else {
		var seed *int64
		if cfg.seed != 0 {
			seed = &cfg.seed
		}
		built, err = svc.Generate(ctx, seed)
		if err != nil {
			logger.Fatalf("generate: %v", err)
		}
	}

	printSummary(logger, built.Header(), report.Summarize(built.Records()))

	if cfg.outPath != "" {
		if err := writeReport(cfg.outPath, built); err != nil {
			logger.Fatalf("write %s: %v", cfg.outPath, err)
		}
		logger.Printf("report written: path=%s", cfg.outPath)
	}
}

func parseConfig(args []string) (config, error) {
	cfg := config{}
	fs := flag.NewFlagSet("flightgen", flag.ContinueOnError)
	fs.Int64Var(&cfg.seed, "seed", 0, "generation seed (unset picks a time-based seed)")
	fs.StringVar(&cfg.importPath, "import", "", "import flights from a .xlsx or .csv file instead of generating")
	fs.StringVar(&cfg.outPath, "out", "", "write a report (.pdf, .xlsx or .csv)")
	fs.StringVar(&cfg.catalogPath, "catalog", envOrDefault("SCHEDULE_CONFIG", ""), "yaml catalog config")
	fs.StringVar(&cfg.dsn, "pg-dsn", envOrDefault("PG_DSN", ""), "store the schedule in Postgres")
	if err := fs.Parse(args); err != nil {
		return cfg, err
	}

	fs.Visit(func(f *flag.Flag) {
		if f.Name == "seed" {
			cfg.seedSet = true
		}
	})
	if !cfg.seedSet {
		cfg.seed, cfg.seedSet = envInt64("SCHEDULE_SEED")
	}
	return cfg, nil
}

func writeReport(path string, s *schedule.Schedule) error {
	var (
		data []byte
		err  error
	)
	switch strings.ToLower(filepath.Ext(path)) {
	case ".pdf":
		data, err = report.BuildPDF(s)
	case ".xlsx":
		data, err = report.BuildXLSX(s)
	case ".csv":
		data, err = report.BuildCSV(s.Records())
	default:
		return fmt.Errorf("unsupported report extension %q", filepath.Ext(path))
	}
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}

func printSummary(logger *log.Logger, header schedule.Header, summary report.Summary) {
	logger.Printf("schedule: id=%s source=%s seed=%d flights=%d", header.ID, header.Source, header.Seed, summary.Total)
	if summary.Empty {
		logger.Printf("no data")
		return
	}
	for _, c := range summary.ByFlightStatus {
		logger.Printf("status %-10s %4d %5.1f%%", c.Label, c.Count, c.Percent)
	}
	for _, c := range summary.ByManufacturer {
		logger.Printf("manufacturer %-6s %4d %5.1f%%", c.Label, c.Count, c.Percent)
	}
	logger.Printf("delay mean=%.2f median=%.1f mode=%d", summary.MeanDelay, summary.MedianDelay, summary.ModeDelay)
}

func envOrDefault(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func envInt64(key string) (int64, bool) {
	value := os.Getenv(key)
	if value == "" {
		return 0, false
	}
	parsed, err := strconv.ParseInt(value, 10, 64)
	if err != nil {
		return 0, false
	}
	return parsed, true
}
