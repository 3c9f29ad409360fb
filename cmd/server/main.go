package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/infotechmar-dot/godsnbees-boxnow-backend/internal/boxnow"
	"github.com/infotechmar-dot/godsnbees-boxnow-backend/internal/checkout"
	"github.com/infotechmar-dot/godsnbees-boxnow-backend/internal/config"
	"github.com/infotechmar-dot/godsnbees-boxnow-backend/internal/handlers"
	"github.com/infotechmar-dot/godsnbees-boxnow-backend/internal/mail"
	"github.com/infotechmar-dot/godsnbees-boxnow-backend/internal/middleware"
	"github.com/infotechmar-dot/godsnbees-boxnow-backend/internal/normalize"
	"github.com/infotechmar-dot/godsnbees-boxnow-backend/internal/payments"
	"github.com/infotechmar-dot/godsnbees-boxnow-backend/internal/promo"
	"github.com/infotechmar-dot/godsnbees-boxnow-backend/internal/store"
	"github.com/infotechmar-dot/godsnbees-boxnow-backend/internal/tasks"
	"github.com/infotechmar-dot/godsnbees-boxnow-backend/pkg/logger"
)

func main() {
	// Load configuration from environment
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	// Initialize structured logger
	log := logger.New(cfg.LogLevel)
	slog.SetDefault(log)

	log.Info("starting boxnow checkout backend",
		"port", cfg.Server.Port,
		"host", cfg.Server.Host,
		"carrier_env", cfg.BoxNow.Env,
		"log_level", cfg.LogLevel,
	)

	// Initialize order store
	st, closeStore, err := openStore(cfg.Store, log)
	if err != nil {
		log.Error("failed to open order store", "error", err)
		os.Exit(1)
	}
	defer closeStore()

	// Initialize carrier client
	carrier := boxnow.New(cfg.BoxNow, log)
	if cfg.BoxNow.ClientID == "" || cfg.BoxNow.ClientSecret == "" {
		log.Warn("carrier credentials are not configured; delivery calls will fail until they are set")
	}

	// Initialize promo code validator
	var validator *promo.Validator
	if len(cfg.Promo.CodeFiles) > 0 {
		log.Info("loading promo code data...", "sources", len(cfg.Promo.CodeFiles))
		validator = promo.NewValidator()
		if err := validator.Load(context.Background(), cfg.Promo.CodeFiles); err != nil {
			log.Error("failed to load promo code data", "error", err)
			os.Exit(1)
		}
		sets, codes := validator.Stats()
		log.Info("promo code data loaded successfully", "sets", sets, "codes", codes)
	}

	// Optional integrations: voucher email and payment intents
	var mailer mail.Mailer
	if cfg.Mail.Enabled() {
		mailer = mail.NewSMTPMailer(cfg.Mail)
		log.Info("voucher email enabled", "recipients", len(cfg.Mail.To))
	}
	var paymentsClient payments.Client
	if cfg.Payment.Enabled() {
		paymentsClient = payments.NewHTTPClient(cfg.Payment, log)
		log.Info("payment intents enabled")
	}

	// Background runner for post-response side effects
	runner := tasks.NewRunner(2, 64, log)

	// Initialize checkout orchestrator
	checkoutService := checkout.NewService(carrier, st, mailer, runner, checkout.Options{
		OriginLocationID: cfg.BoxNow.OriginLocationID,
		OriginName:       cfg.Origin.ContactName,
		OriginEmail:      cfg.Origin.ContactEmail,
		OriginPhone:      cfg.Origin.ContactPhone,
		Country:          cfg.Origin.Country,
		CODEnabled:       cfg.BoxNow.CODEnabled,
		ForcePrepaid:     cfg.BoxNow.ForcePrepaid,
		PhoneFormat:      normalize.PhoneFormat(cfg.BoxNow.PhoneFormat),
	}, log)

	// Initialize handlers
	healthHandler := handlers.NewHealthHandler(log)
	carrierHandler := handlers.NewCarrierHandler(carrier, checkoutService, log)
	ordersHandler := handlers.NewOrdersHandler(st, validator, cfg.Shipping, cfg.Promo.DiscountPercent, log)
	paymentsHandler := handlers.NewPaymentsHandler(paymentsClient, log)

	// Create router
	r := chi.NewRouter()

	// Apply middleware
	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.Logger(log))
	r.Use(chimiddleware.Recoverer)
	r.Use(chimiddleware.Timeout(60 * time.Second))

	// CORS configuration
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-Admin-Key"},
		ExposedHeaders:   []string{"Link"},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	// Register health check endpoint
	r.Get("/health", healthHandler.ServeHTTP)

	// Metrics endpoint, guarded when an admin key is configured
	r.Group(func(r chi.Router) {
		r.Use(middleware.AdminKey(cfg.Server.AdminAPIKey))
		r.Handle("/metrics", promhttp.Handler())
	})

	// API routes
	r.Route("/api", func(r chi.Router) {
		// Carrier endpoints
		r.Route("/carrier", func(r chi.Router) {
			r.Get("/origins", carrierHandler.Origins)
			r.Get("/destinations", carrierHandler.Destinations)
			r.Post("/delivery-requests", carrierHandler.CreateDeliveryRequest)
			r.Get("/labels/order", carrierHandler.Label)
			r.Get("/labels/order/{orderNumber}", carrierHandler.Label)
		})

		// Order endpoints
		r.Route("/orders", func(r chi.Router) {
			r.Post("/create", ordersHandler.Create)
			r.Get("/{orderNumber}", ordersHandler.Get)
		})

		// Payment endpoints
		r.Post("/payments/intents", paymentsHandler.CreateIntent)
	})

	// Create HTTP server
	addr := fmt.Sprintf("%s:%s", cfg.Server.Host, cfg.Server.Port)
	srv := &http.Server{
		Addr:         addr,
		Handler:      r,
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
	}

	// Start server in a goroutine
	go func() {
		log.Info("server listening", "address", addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error("server failed to start", "error", err)
			os.Exit(1)
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("shutting down server...")

	// Create shutdown context with timeout
	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(cfg.Server.ShutdownTimeout)*time.Second)
	defer cancel()

	// Attempt graceful shutdown, then drain in-flight voucher emails
	if err := srv.Shutdown(ctx); err != nil {
		log.Error("server forced to shutdown", "error", err)
		os.Exit(1)
	}
	if err := runner.Shutdown(ctx); err != nil {
		log.Warn("background tasks did not drain in time", "error", err)
	}

	log.Info("server stopped gracefully")
}

// openStore selects the order store driver. The returned close function
// is a no-op for drivers without external connections.
func openStore(cfg config.StoreConfig, log *slog.Logger) (store.Store, func(), error) {
	switch cfg.Driver {
	case "postgres":
		pg, err := store.NewPGStore(context.Background(), cfg.DatabaseURL)
		if err != nil {
			return nil, nil, err
		}
		log.Info("order store ready", "driver", "postgres")
		return pg, pg.Close, nil
	case "memory":
		log.Info("order store ready", "driver", "memory")
		return store.NewMemStore(), func() {}, nil
	default:
		fs, err := store.NewFileStore(cfg.FilePath)
		if err != nil {
			return nil, nil, err
		}
		log.Info("order store ready", "driver", "file", "path", cfg.FilePath)
		return fs, func() {}, nil
	}
}
