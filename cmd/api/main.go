package main

import (
	"log"
	"log/slog"
	nethttp "net/http"
	"os"

	"github.com/Intern1-ss/Inward-outward-management-system/internal/config"
	"github.com/Intern1-ss/Inward-outward-management-system/internal/http"
	"github.com/Intern1-ss/Inward-outward-management-system/internal/mailer"
	"github.com/Intern1-ss/Inward-outward-management-system/internal/scheduler"
	"github.com/Intern1-ss/Inward-outward-management-system/internal/service"
	"github.com/Intern1-ss/Inward-outward-management-system/internal/storage"
)

func main() {
	// Load configuration first (needed for log level)
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Configure structured logging with configurable level and format
	opts := &slog.HandlerOptions{
		Level: cfg.LogLevel,
	}
	var handler slog.Handler
	if cfg.LogFormat == "json" {
		handler = slog.NewJSONHandler(os.Stdout, opts)
	} else {
		handler = slog.NewTextHandler(os.Stdout, opts)
	}
	logger := slog.New(handler)
	slog.SetDefault(logger)
	slog.Debug("Logging configured", "level", cfg.LogLevel.String(), "format", cfg.LogFormat)

	// Initialize database
	db, err := storage.New(cfg.DBPath)
	if err != nil {
		log.Fatalf("Failed to open database: %v", err)
	}
	defer func() {
		_ = db.Close()
	}()

	if err := storage.Migrate(db); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}
	slog.Info("Database initialized", "path", cfg.DBPath)

	// Create repository instances
	entryRepo := storage.NewEntryRepo(db)
	confirmationRepo := storage.NewConfirmationRepo(db)
	linkRepo := storage.NewLinkRepo(db)

	// Pick the mail transport: a real SMTP relay when configured, otherwise
	// log-only delivery so the report job still runs in development.
	var mail mailer.Mailer
	if cfg.SMTPHost != "" {
		mail = mailer.NewSMTPMailer(mailer.SMTPConfig{
			Host:     cfg.SMTPHost,
			Port:     cfg.SMTPPort,
			Username: cfg.SMTPUsername,
			Password: cfg.SMTPPassword,
			From:     cfg.SMTPFrom,
		})
		slog.Info("SMTP mailer configured", "host", cfg.SMTPHost, "port", cfg.SMTPPort)
	} else {
		mail = mailer.NewLogMailer(logger)
		slog.Info("No SMTP relay configured, mail will be logged only")
	}

	svc := service.New(entryRepo, confirmationRepo, linkRepo, mail, cfg)

	// Weekly pending-report job
	sched, err := scheduler.New(cfg.ReportSchedule, svc)
	if err != nil {
		log.Fatalf("Failed to create report scheduler: %v", err)
	}
	sched.Start()
	defer sched.Stop()
	slog.Info("Weekly report scheduled", "spec", cfg.ReportSchedule, "to", cfg.BossEmail)

	// Create router with dependencies
	deps := &http.Deps{
		Service: svc,
		DB:      db,
	}
	router := http.NewRouter(deps)

	// Start API server
	addr := ":" + cfg.APIPort
	slog.Info("Starting API server", "addr", addr)
	if err := nethttp.ListenAndServe(addr, router); err != nil {
		log.Fatalf("API server failed to start: %v", err)
	}
}
