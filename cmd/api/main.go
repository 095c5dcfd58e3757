package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"go.uber.org/multierr"

	"github.com/fitdeskhq/fitdesk-backend/api/routes"
	"github.com/fitdeskhq/fitdesk-backend/internal/attendance"
	authsvc "github.com/fitdeskhq/fitdesk-backend/internal/auth"
	"github.com/fitdeskhq/fitdesk-backend/internal/classes"
	"github.com/fitdeskhq/fitdesk-backend/internal/invoices"
	"github.com/fitdeskhq/fitdesk-backend/internal/payments"
	"github.com/fitdeskhq/fitdesk-backend/internal/plans"
	"github.com/fitdeskhq/fitdesk-backend/internal/reports"
	"github.com/fitdeskhq/fitdesk-backend/internal/subscriptions"
	"github.com/fitdeskhq/fitdesk-backend/internal/users"
	"github.com/fitdeskhq/fitdesk-backend/pkg/auth/session"
	"github.com/fitdeskhq/fitdesk-backend/pkg/config"
	"github.com/fitdeskhq/fitdesk-backend/pkg/db"
	"github.com/fitdeskhq/fitdesk-backend/pkg/logger"
	"github.com/fitdeskhq/fitdesk-backend/pkg/metrics"
	"github.com/fitdeskhq/fitdesk-backend/pkg/migrate"
	"github.com/fitdeskhq/fitdesk-backend/pkg/redis"
)

const shutdownGrace = 15 * time.Second

func main() {
	logg := logger.New(logger.Options{ServiceName: "api"})

	if err := godotenv.Load(); err != nil {
		logg.Warn(context.Background(), ".env file not found, relying on environment")
	}

	cfg, err := config.Load()
	if err != nil {
		logg.Error(context.Background(), "failed to load config", err)
		os.Exit(1)
	}

	logg = logger.New(logger.Options{
		ServiceName: "api",
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		WarnStack:   cfg.App.LogWarnStack,
	})

	dbClient, err := db.New(context.Background(), cfg.DB, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap database", err)
		os.Exit(1)
	}

	if err := migrate.MaybeRunDev(context.Background(), cfg, logg, dbClient); err != nil {
		logg.Error(context.Background(), "failed to run dev migrations", err)
		os.Exit(1)
	}

	redisClient, err := redis.New(context.Background(), cfg.Redis, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap redis", err)
		os.Exit(1)
	}

	sessionManager, err := session.NewManager(redisClient, cfg.JWT)
	if err != nil {
		logg.Error(context.Background(), "failed to create session manager", err)
		os.Exit(1)
	}

	gormDB := dbClient.DB()
	subscriptionRepo := subscriptions.NewRepository(gormDB)
	planRepo := plans.NewRepository(gormDB)
	classRepo := classes.NewRepository(gormDB)

	authService, err := authsvc.NewService(authsvc.ServiceParams{
		UserRepo:       users.NewRepository(gormDB),
		SessionManager: sessionManager,
		JWTConfig:      cfg.JWT,
	})
	exitOnError(logg, "auth service", err)

	planService, err := plans.NewService(planRepo)
	exitOnError(logg, "plan service", err)

	subscriptionService, err := subscriptions.NewService(subscriptions.ServiceParams{
		Repo:  subscriptionRepo,
		Plans: planRepo,
	})
	exitOnError(logg, "subscription service", err)

	paymentService, err := payments.NewService(payments.ServiceParams{
		Ledger:            payments.NewRepository(gormDB),
		Subscriptions:     subscriptionRepo,
		TransactionRunner: dbClient,
	})
	exitOnError(logg, "payment service", err)

	invoiceService, err := invoices.NewService(invoices.ServiceParams{
		Invoices:          invoices.NewRepository(gormDB),
		Subscriptions:     subscriptionRepo,
		TransactionRunner: dbClient,
		Config:            cfg.Invoice,
	})
	exitOnError(logg, "invoice service", err)

	classService, err := classes.NewService(classes.ServiceParams{Repo: classRepo})
	exitOnError(logg, "class service", err)

	attendanceService, err := attendance.NewService(attendance.ServiceParams{
		Repo:              attendance.NewRepository(gormDB),
		Classes:           classRepo,
		Subscriptions:     subscriptionRepo,
		TransactionRunner: dbClient,
	})
	exitOnError(logg, "attendance service", err)

	reportService, err := reports.NewService(reports.ServiceParams{
		Repo:   reports.NewRepository(gormDB),
		Config: cfg.Invoice,
	})
	exitOnError(logg, "report service", err)

	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	router := routes.NewRouter(routes.Deps{
		Config:         cfg,
		Logger:         logg,
		HTTPMetrics:    metrics.NewHTTPMetrics(registry),
		PromRegistry:   registry,
		Redis:          redisClient,
		SessionChecker: sessionManager,
		HealthProbes: []func() error{
			func() error { return pingWithTimeout(dbClient.Ping) },
			func() error { return pingWithTimeout(redisClient.Ping) },
		},
		Auth:          authService,
		Plans:         planService,
		Subscriptions: subscriptionService,
		Payments:      paymentService,
		Invoices:      invoiceService,
		Classes:       classService,
		Attendance:    attendanceService,
		Reports:       reportService,
	})

	port := os.Getenv("PORT")
	if port == "" {
		port = cfg.App.Port
	}
	addr := ":" + port

	ctx := logg.WithFields(context.Background(), map[string]any{
		"env":  cfg.App.Env,
		"addr": addr,
	})
	logg.Info(ctx, "starting api server")

	server := &http.Server{
		Addr:              addr,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errCh:
		if err != nil {
			logg.Error(ctx, "api server stopped unexpectedly", err)
			os.Exit(1)
		}
	case sig := <-stop:
		logg.Info(logg.WithField(ctx, "signal", sig.String()), "shutting down api server")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownGrace)
	defer cancel()

	var closeErr error
	closeErr = multierr.Append(closeErr, server.Shutdown(shutdownCtx))
	closeErr = multierr.Append(closeErr, redisClient.Close())
	closeErr = multierr.Append(closeErr, dbClient.Close())
	if closeErr != nil {
		logg.Error(ctx, "shutdown finished with errors", closeErr)
		os.Exit(1)
	}
	logg.Info(ctx, "api server stopped")
}

func exitOnError(logg *logger.Logger, what string, err error) {
	if err == nil {
		return
	}
	logg.Error(context.Background(), "failed to create "+what, err)
	os.Exit(1)
}

func pingWithTimeout(ping func(context.Context) error) error {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	return ping(ctx)
}
