package main

import (
	"context"
	"database/sql"
	"log"
	"net/http"
	"os"
	"strconv"
	"strings"
	"time"

	"flight-analytics/internal/audit"
	"flight-analytics/internal/auth"
	"flight-analytics/internal/observability/metrics"
	scheduleapp "flight-analytics/internal/schedule/application"
	schedule "flight-analytics/internal/schedule/domain"
	schedulememory "flight-analytics/internal/schedule/infrastructure/memory"
	schedulepostgres "flight-analytics/internal/schedule/infrastructure/postgres"
	scheduleredis "flight-analytics/internal/schedule/infrastructure/redis"
	schedulehttp "flight-analytics/internal/schedule/interfaces/http"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

func main() {
	cfg := loadConfig()
	logger := log.New(os.Stdout, "", log.LstdFlags)

	var db *sql.DB
	if cfg.DatabaseURL != "" {
		var err error
		db, err = sql.Open("pgx", cfg.DatabaseURL)
		if err != nil {
			logger.Fatalf("db open error: %v", err)
		}
		defer db.Close()
		if err := db.Ping(); err != nil {
			logger.Fatalf("db ping error: %v", err)
		}
	}

	metrics.Init(db, logger)

	repo, err := buildRepository(cfg, db)
	if err != nil {
		logger.Fatalf("schedule repository error: %v", err)
	}

	scheduleCfg, err := scheduleapp.LoadConfig()
	if err != nil {
		logger.Fatalf("schedule config error: %v", err)
	}
	catalog, err := scheduleCfg.BuildCatalog()
	if err != nil {
		logger.Fatalf("schedule catalog error: %v", err)
	}
	scheduleService, err := scheduleapp.NewScheduleService(repo, catalog, logger,
		scheduleapp.WithDefaultSeed(scheduleCfg.Seed),
		scheduleapp.WithHistoryLimit(scheduleCfg.HistoryLimit),
	)
	if err != nil {
		logger.Fatalf("schedule service error: %v", err)
	}

	var auditLogger audit.Logger
	if db != nil {
		auditLogger = audit.NewRepository(db)
	}
	scheduleHandler, err := schedulehttp.NewHandler(scheduleService, auditLogger, logger)
	if err != nil {
		logger.Fatalf("schedule handler error: %v", err)
	}

	mux := http.NewServeMux()
	mux.Handle("/api/v1/schedules", scheduleHandler)
	mux.Handle("/api/v1/schedules/", scheduleHandler)
	mux.Handle("/metrics", promhttp.Handler())
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	var handler http.Handler = mux
	if cfg.JWTSecret != "" {
		policy := auth.NewDefaultPolicy([]string{"/healthz", "/metrics"}, nil)
		handler = auth.NewMiddleware([]byte(cfg.JWTSecret), policy).Wrap(mux)
	} else {
		logger.Printf("auth disabled: AUTH_JWT_SECRET not set")
	}

	server := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           loggingMiddleware(handler, logger),
		ReadHeaderTimeout: 10 * time.Second,
	}
	logger.Printf("http listening on %s store=%s", cfg.HTTPAddr, cfg.StoreBackend)
	logger.Fatal(server.ListenAndServe())
}

type config struct {
	DatabaseURL   string
	HTTPAddr      string
	StoreBackend  string
	RedisAddr     string
	RedisPassword string
	RedisDB       int
	RedisTTL      time.Duration
	JWTSecret     string
}

func loadConfig() config {
	cfg := config{
		DatabaseURL:   getenvDefault("DATABASE_URL", getenvDefault("PG_DSN", "")),
		HTTPAddr:      getenvDefault("HTTP_ADDR", ":8080"),
		StoreBackend:  strings.ToLower(getenvDefault("STORE_BACKEND", "memory")),
		RedisAddr:     getenvDefault("REDIS_ADDR", "localhost:6379"),
		RedisPassword: getenvDefault("REDIS_PASSWORD", ""),
		RedisDB:       getenvIntDefault("REDIS_DB", 0),
		RedisTTL:      getenvDuration("REDIS_TTL", 0),
		JWTSecret:     getenvDefault("AUTH_JWT_SECRET", getenvDefault("JWT_SECRET", "")),
	}
	if cfg.StoreBackend == "postgres" && cfg.DatabaseURL == "" {
		log.Fatal("DATABASE_URL or PG_DSN is required for STORE_BACKEND=postgres")
	}
	return cfg
}

func buildRepository(cfg config, db *sql.DB) (schedule.Repository, error) {
	switch cfg.StoreBackend {
	case "postgres":
		return schedulepostgres.NewScheduleRepository(db), nil
	case "redis":
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		client, err := scheduleredis.NewClient(ctx, scheduleredis.Config{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
		})
		if err != nil {
			return nil, err
		}
		return scheduleredis.NewScheduleRepository(client, scheduleredis.WithTTL(cfg.RedisTTL)), nil
	default:
		return schedulememory.NewScheduleRepository(), nil
	}
}

func getenvDefault(key, fallback string) string {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	return value
}

func getenvIntDefault(key string, fallback int) int {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	parsed, err := strconv.Atoi(value)
	if err != nil {
		return fallback
	}
	return parsed
}

func getenvDuration(key string, fallback time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	parsed, err := time.ParseDuration(value)
	if err != nil {
		return fallback
	}
	return parsed
}

func loggingMiddleware(next http.Handler, logger *log.Logger) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		resp := &statusWriter{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(resp, r)
		logger.Printf("http %s %s %d %s", r.Method, r.URL.Path, resp.status, time.Since(start))
	})
}

type statusWriter struct {
	http.ResponseWriter
	status int
}

func (w *statusWriter) WriteHeader(status int) {
	w.status = status
	w.ResponseWriter.WriteHeader(status)
}
