package server

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/jackc/pgx/v5/pgxpool"

	"hrportal/internal/domain/audit"
	"hrportal/internal/domain/core"
	"hrportal/internal/domain/payroll"
	"hrportal/internal/domain/performance"
	"hrportal/internal/domain/reports"
	"hrportal/internal/gateway"
	"hrportal/internal/platform/config"
	"hrportal/internal/platform/crypto"
	"hrportal/internal/platform/db"
	"hrportal/internal/platform/jobs"
	"hrportal/internal/platform/logging"
	"hrportal/internal/platform/metrics"
	"hrportal/internal/platform/supersede"
	audithandler "hrportal/internal/transport/http/handlers/audit"
	authhandler "hrportal/internal/transport/http/handlers/auth"
	corehandler "hrportal/internal/transport/http/handlers/core"
	payrollhandler "hrportal/internal/transport/http/handlers/payroll"
	performancehandler "hrportal/internal/transport/http/handlers/performance"
	reportshandler "hrportal/internal/transport/http/handlers/reports"
	teamhandler "hrportal/internal/transport/http/handlers/team"
	"hrportal/internal/transport/http/middleware"
)

const (
	backendTokenInfo = "hrportal backend token"
	jobTimeout       = 5 * time.Second
	shutdownTimeout  = 15 * time.Second
)

type App struct {
	Config  config.Config
	Logger  *slog.Logger
	DB      *pgxpool.Pool
	Metrics *metrics.Collector
	Router  http.Handler

	jobs      *jobs.Service
	logCloser io.Closer
}

// New wires the portal. A database is optional: without one, audit events go
// to the log and idempotency keys are not remembered.
func New(ctx context.Context, cfg config.Config) (*App, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	collector := metrics.New()
	logger, logCloser, err := logging.New(logging.Options{
		Level:    cfg.LogLevel,
		File:     cfg.LogFile,
		OnRecord: collector.LogStatement,
	})
	if err != nil {
		return nil, err
	}
	slog.SetDefault(logger)

	app := &App{Config: cfg, Logger: logger, Metrics: collector, logCloser: logCloser}

	sealer, err := crypto.NewOrDerive(cfg.DataEncryptionKey, cfg.JWTSecret, backendTokenInfo)
	if err != nil {
		app.Close()
		return nil, fmt.Errorf("token sealing key: %w", err)
	}

	client, err := gateway.New(gateway.Options{
		BaseURL:  cfg.BackendBaseURL,
		Timeout:  cfg.BackendTimeout,
		RetryMax: cfg.BackendRetryMax,
		OnCall:   collector.BackendCall,
	})
	if err != nil {
		app.Close()
		return nil, err
	}

	var sink audit.Recorder = audit.LogRecorder{Logger: logger}
	var events audithandler.EventReader
	if cfg.DatabaseURL != "" {
		pool, err := db.Connect(ctx, cfg.DatabaseURL)
		if err != nil {
			app.Close()
			return nil, fmt.Errorf("db connect: %w", err)
		}
		app.DB = pool
		if cfg.RunMigrations {
			applied, err := db.Migrate(ctx, pool, db.Migrations())
			if err != nil {
				app.Close()
				return nil, fmt.Errorf("migrations: %w", err)
			}
			if len(applied) > 0 {
				logger.Info("migrations applied", "versions", applied)
			}
		}
		store := audit.NewStore(pool)
		sink = store
		events = store
	} else {
		logger.Warn("DATABASE_URL not set; audit events go to the log only")
	}

	app.jobs = jobs.New(cfg.AuditQueueSize, jobTimeout)
	app.jobs.OnResult = collector.JobResult
	app.jobs.Start()
	recorder := audit.NewAsyncRecorder(sink, app.jobs)

	employees := core.NewService(client)
	pay := payroll.NewService(client)
	reviews := performance.NewService(client)
	dashboards := reports.NewService(employees, pay, reviews)
	loads := &supersede.Group{}
	idem := middleware.NewIdempotencyStore(app.DB)

	router := chi.NewRouter()
	router.Use(middleware.RequestID)
	router.Use(middleware.Logger(logger, collector))
	router.Use(chimiddleware.Recoverer)
	router.Use(middleware.SecureHeaders(cfg.Production()))
	router.Use(middleware.BodyLimit(cfg.MaxBodyBytes))
	router.Use(middleware.Auth(cfg.JWTSecret, sealer))

	router.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	router.Get("/readyz", func(w http.ResponseWriter, r *http.Request) {
		if app.DB != nil {
			ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
			defer cancel()
			if err := app.DB.Ping(ctx); err != nil {
				http.Error(w, "db not ready", http.StatusServiceUnavailable)
				return
			}
		}
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ready"))
	})

	if cfg.MetricsEnabled {
		router.Handle("/metrics", collector.Handler())
	}

	router.Route("/api/v1", func(r chi.Router) {
		r.Use(middleware.RateLimit(cfg.RateLimitPerMinute, time.Minute))
		r.Use(middleware.MutationRateLimit(cfg.RateLimitPerMinute, time.Minute))

		authhandler.NewHandler(client, cfg.JWTSecret, cfg.TokenTTL, sealer).
			RegisterRoutes(r, middleware.LoginRateLimit(cfg.RateLimitPerMinute, time.Minute))
		corehandler.NewHandler(employees, recorder, collector).RegisterRoutes(r)
		payrollhandler.NewHandler(pay, employees, idem, recorder, collector).RegisterRoutes(r)
		performancehandler.NewHandler(reviews, recorder, collector).RegisterRoutes(r)
		teamhandler.NewHandler(employees, pay, loads, collector, collector).RegisterRoutes(r)
		reportshandler.NewHandler(dashboards, loads, collector, collector).RegisterRoutes(r)
		audithandler.NewHandler(events, collector).RegisterRoutes(r)
	})

	router.Mount("/", spaHandler{staticPath: cfg.FrontendDir, indexPath: "index.html"})

	app.Router = router
	return app, nil
}

// Close drains queued audit events, then releases the database and log file.
func (a *App) Close() {
	if a.jobs != nil {
		ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		if err := a.jobs.Close(ctx); err != nil {
			slog.Warn("job queue drain incomplete", "err", err)
		}
		cancel()
	}
	if a.DB != nil {
		a.DB.Close()
	}
	if a.logCloser != nil {
		_ = a.logCloser.Close()
	}
}

// Run serves until ctx is canceled, then shuts down gracefully.
func Run(ctx context.Context, cfg config.Config) error {
	app, err := New(ctx, cfg)
	if err != nil {
		return err
	}
	defer app.Close()

	srv := &http.Server{
		Addr:              cfg.Addr,
		Handler:           app.Router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		app.Logger.Info("HR portal listening", "addr", cfg.Addr, "backend", cfg.BackendBaseURL)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	return nil
}

type spaHandler struct {
	staticPath string
	indexPath  string
}

func (h spaHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}

	path := filepath.Join(h.staticPath, filepath.Clean("/"+r.URL.Path))
	_, err := os.Stat(path)
	if err == nil {
		http.FileServer(http.Dir(h.staticPath)).ServeHTTP(w, r)
		return
	}

	if os.IsNotExist(err) {
		index := filepath.Join(h.staticPath, h.indexPath)
		if _, err := os.Stat(index); err != nil {
			http.NotFound(w, r)
			return
		}
		http.ServeFile(w, r, index)
		return
	}

	http.NotFound(w, r)
}
