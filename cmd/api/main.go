package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"log/slog"

	"github.com/joho/godotenv"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"

	"github.com/chesterOps/meetro/internal/config"
	"github.com/chesterOps/meetro/internal/gateway/paystack"
	apphttp "github.com/chesterOps/meetro/internal/http"
	"github.com/chesterOps/meetro/internal/http/handlers"
	"github.com/chesterOps/meetro/internal/http/middleware"
	"github.com/chesterOps/meetro/internal/mailer"
	"github.com/chesterOps/meetro/internal/modules/donations"
	emailmod "github.com/chesterOps/meetro/internal/modules/email"
	"github.com/chesterOps/meetro/internal/modules/events"
	"github.com/chesterOps/meetro/internal/modules/payments"
	"github.com/chesterOps/meetro/internal/modules/users"
	"github.com/chesterOps/meetro/internal/storage"
	"github.com/chesterOps/meetro/internal/task"
)

func main() {
	// Load .env file (ignore error if not found - prod uses real env vars)
	_ = godotenv.Load()

	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))

	cfg, err := config.FromEnv()
	if err != nil {
		log.Fatal(err)
	}

	db, err := gorm.Open(mysql.Open(cfg.DBDSN), &gorm.Config{})
	if err != nil {
		log.Fatalf("failed to connect to database: %v", err)
	}

	ctx := context.Background()

	store, err := storage.FromConfig(ctx, cfg.Storage)
	if err != nil {
		log.Fatalf("failed to set up storage: %v", err)
	}

	var mail mailer.Service
	if cfg.SMTP.Host != "" {
		mail = mailer.NewSMTPMailer(cfg.SMTP)
	} else {
		logger.Warn("SMTP_HOST not set, outgoing mail is discarded")
		mail = &mailer.Mock{}
	}
	sender := emailmod.NewMailerAdapter(mail, cfg.SMTP.FromAddress, cfg.SMTP.FromName)

	gw := paystack.NewClient(cfg.Paystack)

	usersSvc := users.NewService(db)
	payoutSvc := users.NewPayoutService(db, gw)

	eventsRepo := events.NewRepo(db)
	eventsSvc := events.NewService(eventsRepo, store)

	donationsRepo := donations.NewRepo(db)
	donationsSvc := donations.NewService(donationsRepo, eventsRepo, gw, donations.NewFeeCalculator(), cfg.FrontendURL)
	donationsSvc.SetLogger(logger)

	chipInFlow := payments.NewChipInFlow(donationsSvc, sender, func(ctx context.Context, userID string) (string, string, error) {
		u, err := usersSvc.GetByID(ctx, userID)
		if err != nil {
			return "", "", err
		}
		return u.Email, u.Name, nil
	})
	chipInFlow.SetLogger(logger)
	flows := payments.NewRegistry(chipInFlow)
	eventLog := payments.NewEventLog(db)

	sessions := middleware.SessionCfg{
		DB:         db,
		CookieName: cfg.Session.CookieName,
		Secure:     cfg.Session.Secure,
		TTL:        cfg.Session.TTL,
	}

	// Background settlement reconciliation
	manager, err := task.NewManager(logger)
	if err != nil {
		log.Fatalf("failed to set up scheduler: %v", err)
	}
	reconciler := task.NewSettlementReconcileJob(gw, donationsRepo, task.NewCheckpointStore(db), cfg.Reconcile)
	if err := manager.Register(reconciler); err != nil {
		log.Fatalf("failed to register jobs: %v", err)
	}
	manager.Start()
	defer manager.Stop()

	localUploads := ""
	if cfg.Storage.Driver == "local" {
		localUploads = cfg.Storage.LocalDir
	}

	r := apphttp.NewRouter(apphttp.Deps{
		Logger:       logger,
		Sessions:     sessions,
		Auth:         handlers.NewAuthHandler(logger, usersSvc, sessions, sender),
		Events:       handlers.NewEventHandler(logger, eventsSvc, eventsRepo, donationsRepo),
		ChipIns:      handlers.NewChipInHandler(logger, donationsSvc, eventsRepo, gw, flows),
		Payouts:      handlers.NewPayoutHandler(logger, payoutSvc),
		Webhooks:     handlers.NewWebhookHandler(logger, gw, cfg.Paystack.SecretKey, flows, eventLog),
		LocalUploads: localUploads,
	})

	// The server error comes back over a channel so the deferred scheduler
	// shutdown still runs when listening fails.
	srvErr := make(chan error, 1)
	go func() {
		srvErr <- r.Run(":" + cfg.Port)
	}()
	logger.Info("server started", "port", cfg.Port)

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-srvErr:
		logger.Error("server stopped", "err", err)
	case <-quit:
		logger.Info("shutting down")
	}
}
