package main

import (
	"context"
	"log/slog"
	"os/signal"
	"syscall"
	"time"

	"github.com/dailytiffin/mealsub/internal/config"
	"github.com/dailytiffin/mealsub/internal/domain/billing"
	"github.com/dailytiffin/mealsub/internal/domain/catalog"
	"github.com/dailytiffin/mealsub/internal/domain/customers"
	"github.com/dailytiffin/mealsub/internal/domain/inventory"
	"github.com/dailytiffin/mealsub/internal/domain/notifications"
	"github.com/dailytiffin/mealsub/internal/domain/reports"
	"github.com/dailytiffin/mealsub/internal/domain/schedule"
	"github.com/dailytiffin/mealsub/internal/domain/subscriptions"
	"github.com/dailytiffin/mealsub/internal/infra/api"
	"github.com/dailytiffin/mealsub/internal/infra/db"
	httpx "github.com/dailytiffin/mealsub/internal/infra/http"
	"github.com/dailytiffin/mealsub/internal/infra/logger"
	paymentsx "github.com/dailytiffin/mealsub/internal/infra/payments"

	_ "github.com/lib/pq"
	"github.com/pressly/goose/v3"
)

func runMigrations(dsn string, log *slog.Logger) error {
	sqlDB, err := goose.OpenDBWithDriver("postgres", dsn)
	if err != nil {
		return err
	}
	defer func() { _ = sqlDB.Close() }()
	return goose.Up(sqlDB, "migrations")
}

func main() {
	cfg, err := config.Load("config/example.yaml")
	if err != nil {
		panic(err)
	}

	log := logger.New(cfg.App.Env)

	if err := runMigrations(cfg.Postgres.DSN, log); err != nil {
		log.Error("migrations failed", "err", err)
		return
	}
	log.Info("migrations applied")

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	pool, err := db.Connect(ctx, cfg.Postgres.DSN)
	if err != nil {
		log.Error("db connect failed", "err", err)
		return
	}
	defer pool.Close()
	log.Info("db connected")

	catalogRepo := catalog.NewRepo(pool)
	customersRepo := customers.NewRepo(pool)
	subsRepo := subscriptions.NewRepo(pool)
	scheduleRepo := schedule.NewRepo(pool)
	billingRepo := billing.NewRepo(pool)
	inventoryRepo := inventory.NewRepo(pool)
	notifRepo := notifications.NewRepo(pool)
	reportsRepo := reports.NewRepo(pool)

	catalogSvc := catalog.NewService(catalogRepo)
	subsSvc := subscriptions.NewService(catalogRepo, subsRepo, log)
	scheduleSvc := schedule.NewService(scheduleRepo, subsRepo, notifRepo, log)
	billingSvc := billing.NewService(billingRepo, subsRepo, log, cfg.Billing.InvoiceDueDays)
	inventorySvc := inventory.NewService(inventoryRepo, log)
	reportsSvc := reports.NewService(reportsRepo, log)

	confirm := paymentsx.NewHandler(log, billingSvc)
	mux := api.New(log, catalogRepo, catalogSvc, customersRepo, notifRepo,
		subsSvc, scheduleSvc, billingSvc, inventorySvc, inventoryRepo, reportsSvc, confirm)
	srv := httpx.New(cfg.HTTP.Addr, cfg.Metrics.Enabled, mux)
	go func() {
		if err := srv.Start(); err != nil && err.Error() != "http: Server closed" {
			log.Error("http server error", "err", err)
		}
	}()
	log.Info("HTTP server started", "addr", cfg.HTTP.Addr)

	<-ctx.Done()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	_ = srv.Shutdown(shutdownCtx)
	log.Info("graceful shutdown complete")
}
