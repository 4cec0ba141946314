package server

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/httplog/v3"
	"github.com/jackc/pgx/v5/pgxpool"

	"hrpay/internal/db"
	"hrpay/internal/domain/auth"
	"hrpay/internal/domain/directory"
	"hrpay/internal/domain/leave"
	"hrpay/internal/domain/payroll"
	"hrpay/internal/domain/payslip"
	"hrpay/internal/domain/salary"
	"hrpay/internal/domain/timesheet"
	"hrpay/internal/platform/cache"
	"hrpay/internal/platform/config"
	"hrpay/internal/platform/email"
	"hrpay/internal/platform/metrics"
	authhandler "hrpay/internal/transport/http/handlers/auth"
	directoryhandler "hrpay/internal/transport/http/handlers/directory"
	leavehandler "hrpay/internal/transport/http/handlers/leave"
	payrollhandler "hrpay/internal/transport/http/handlers/payroll"
	paysliphandler "hrpay/internal/transport/http/handlers/payslip"
	salaryhandler "hrpay/internal/transport/http/handlers/salary"
	timesheethandler "hrpay/internal/transport/http/handlers/timesheet"
	"hrpay/internal/transport/http/middleware"
)

type App struct {
	Config config.Config
	DB     *pgxpool.Pool
	Router http.Handler
	Logger *slog.Logger
}

// New connects to the database, runs migrations and seed data per config,
// and wires the full HTTP surface.
func New(ctx context.Context, cfg config.Config) (*App, error) {
	logFormat := httplog.SchemaECS.Concise(false)
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		ReplaceAttr: logFormat.ReplaceAttr,
	})).With(
		slog.String("app", "hrpay"),
		slog.String("env", cfg.Environment),
	)
	slog.SetDefault(logger)

	pool, err := db.Connect(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("db connect: %w", err)
	}

	if cfg.RunMigrations {
		if err := db.Migrate(ctx, pool, cfg.MigrationsDir); err != nil {
			pool.Close()
			return nil, fmt.Errorf("migrate: %w", err)
		}
	}
	if cfg.RunSeed {
		if err := db.Seed(ctx, pool, cfg); err != nil {
			pool.Close()
			return nil, fmt.Errorf("seed: %w", err)
		}
	}

	mailer := email.New(cfg)
	collector := metrics.New()
	limiter := cache.NewMemory()

	users := auth.NewStore(pool)
	directoryStore := directory.NewStore(pool)
	salaryService := &salary.Service{Pool: pool, Store: &salary.Store{DB: pool}}
	timesheetService := timesheet.NewService(timesheet.NewStore(pool), directoryStore, mailer, cfg.EmailFrom)
	leaveStore := leave.NewStore(pool)
	payrollService := &payroll.Service{Pool: pool, Store: &payroll.Store{DB: pool}, Logger: logger}
	payslipService := &payslip.Service{
		Store:     &payslip.Store{DB: pool},
		Payrolls:  payrollService.Store,
		Salaries:  salaryService.Store,
		Directory: directoryStore,
		Logger:    logger,
	}

	router := chi.NewRouter()
	router.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.CORSOrigins,
		AllowCredentials: true,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-Request-ID"},
		ExposedHeaders:   []string{"X-Request-ID"},
		MaxAge:           300,
	}))
	router.Use(middleware.RequestID)
	router.Use(httplog.RequestLogger(logger, &httplog.Options{
		Level:  slog.LevelInfo,
		Schema: httplog.SchemaECS,
	}))
	router.Use(chimiddleware.CleanPath)
	router.Use(chimiddleware.Recoverer)
	router.Use(middleware.SecureHeaders(cfg.Environment == "production"))
	router.Use(middleware.BodyLimit(cfg.MaxBodyBytes))
	router.Use(middleware.Auth(cfg.JWTSecret))
	router.Use(middleware.RateLimit(limiter, cfg.RateLimitPerMinute, time.Minute))
	router.Use(middleware.Metrics(collector))

	router.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	router.Get("/readyz", func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()
		if err := pool.Ping(ctx); err != nil {
			http.Error(w, "db not ready", http.StatusServiceUnavailable)
			return
		}
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ready"))
	})
	if cfg.MetricsEnabled {
		router.Get("/metrics", func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "application/json")
			_ = json.NewEncoder(w).Encode(collector.Snapshot())
		})
	}

	router.Route("/api/v1", func(r chi.Router) {
		authhandler.NewHandler(users, cfg.JWTSecret).RegisterRoutes(r)
		directoryhandler.NewHandler(directoryStore).RegisterRoutes(r)
		salaryhandler.NewHandler(salaryService).RegisterRoutes(r)
		timesheethandler.NewHandler(timesheetService, directoryStore).RegisterRoutes(r)
		leavehandler.NewHandler(leaveStore, directoryStore).RegisterRoutes(r)
		payrollhandler.NewHandler(payrollService, payslipService, directoryStore).RegisterRoutes(r)
		paysliphandler.NewHandler(payslipService).RegisterRoutes(r)
	})

	return &App{Config: cfg, DB: pool, Router: router, Logger: logger}, nil
}

func (a *App) Close() {
	a.DB.Close()
}

// Run blocks serving HTTP until the process exits.
func Run() error {
	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		return err
	}

	app, err := New(context.Background(), cfg)
	if err != nil {
		return err
	}
	defer app.Close()

	app.Logger.Info("server listening", slog.String("addr", cfg.Addr))
	return http.ListenAndServe(cfg.Addr, app.Router)
}
