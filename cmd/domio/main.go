package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"domio/internal/booking"
	"domio/internal/config"
	"domio/internal/http-server/handlers/booking/cancelBooking"
	"domio/internal/http-server/handlers/booking/checkAvailability"
	"domio/internal/http-server/handlers/booking/createBooking"
	"domio/internal/http-server/handlers/booking/getBooking"
	"domio/internal/http-server/handlers/booking/getByTransaction"
	"domio/internal/http-server/handlers/booking/initiatePayment"
	"domio/internal/http-server/handlers/booking/listBookings"
	"domio/internal/http-server/handlers/booking/requestRefund"
	"domio/internal/http-server/middleware/identity"
	"domio/internal/http-server/middleware/mwlogger"
	"domio/internal/http-server/middleware/ratelimit"
	"domio/internal/lib/logger/handlers/slogpretty"
	"domio/internal/lib/logger/sl"
	"domio/internal/mailer"
	"domio/internal/models"
	"domio/internal/payment"
	"domio/internal/pricing"
	"domio/internal/storage/memory"
	"domio/internal/storage/postgres"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

const (
	envLocal = "local"
	envDev   = "dev"
	envProd  = "prod"
)

const (
	storageMemory   = "memory"
	storagePostgres = "postgres"
)

type store interface {
	booking.Storage
	booking.Catalog
	AddItem(ctx context.Context, item models.Item) error
	Close() error
}

func main() {
	cfg := config.MustLoad()

	log := setupLogger(cfg.Env)

	log.Info("starting domio", slog.String("env", cfg.Env), slog.String("storage", cfg.Storage))
	log.Debug("debug messages are enabled")

	if cfg.Auth.JWTSecret == "" {
		log.Error("jwt secret is empty")
		os.Exit(1)
	}

	storage, err := setupStorage(cfg)
	if err != nil {
		log.Error("failed to init storage", sl.Err(err))
		os.Exit(1)
	}

	notifier, err := setupMailer(cfg.Mail, log)
	if err != nil {
		log.Error("failed to init mailer", sl.Err(err))
		os.Exit(1)
	}

	manager := booking.New(
		log,
		storage,
		storage,
		payment.NewSimulator(cfg.Booking.PaymentSuccessRate),
		notifier,
		pricing.New(cfg.Pricing),
		booking.Options{RequirePayment: cfg.Booking.RequirePayment},
	)

	router := chi.NewRouter()

	router.Use(middleware.RequestID)
	router.Use(mwlogger.New(log))
	router.Use(middleware.Recoverer)
	router.Use(middleware.URLFormat)
	if cfg.HTTPServer.TrustProxy {
		router.Use(middleware.RealIP)
	}
	router.Use(ratelimit.New(log, cfg.HTTPServer.RateLimit, cfg.HTTPServer.RateBurst))
	router.Use(identity.New(log, cfg.Auth.JWTSecret))

	router.Route("/bookings", func(r chi.Router) {
		r.Post("/", createBooking.New(log, manager))
		r.Get("/", listBookings.New(log, manager))
		r.Post("/payment", initiatePayment.New(log, manager))
		r.Get("/by-transaction", getByTransaction.New(log, manager))
		r.Get("/availability", checkAvailability.New(log, manager))
		r.Get("/{id}", getBooking.New(log, manager))
		r.Put("/{id}/cancel", cancelBooking.New(log, manager))
		r.Put("/{id}/refund", requestRefund.New(log, manager))
	})

	log.Info("starting server", slog.String("address", cfg.HTTPServer.Address))

	srv := &http.Server{
		Addr:         cfg.HTTPServer.Address,
		Handler:      router,
		ReadTimeout:  cfg.HTTPServer.Timeout,
		WriteTimeout: cfg.HTTPServer.Timeout,
		IdleTimeout:  cfg.HTTPServer.IdleTimeout,
	}

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGTERM, syscall.SIGINT)

	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("failed to start server", sl.Err(err))
			stop <- syscall.SIGTERM
		}
	}()

	sign := <-stop

	log.Info("application stopping", slog.String("signal", sign.String()))

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err = srv.Shutdown(ctx); err != nil {
		log.Error("failed to shutdown server", sl.Err(err))
	}

	manager.Wait()

	log.Info("application stopped")

	if err = storage.Close(); err != nil {
		log.Error("failed to close storage", sl.Err(err))
	}

	log.Info("storage closed")
}

func setupStorage(cfg *config.Config) (store, error) {
	switch cfg.Storage {
	case storagePostgres:
		s, err := postgres.InitDB(&cfg.Database)
		if err != nil {
			return nil, err
		}

		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		if err = s.Migrate(ctx); err != nil {
			_ = s.Close()
			return nil, err
		}
		return s, nil
	case storageMemory:
		s := memory.New()
		if err := seedItems(s); err != nil {
			return nil, err
		}
		return s, nil
	default:
		return nil, fmt.Errorf("unknown storage %q", cfg.Storage)
	}
}

// seedItems gives the in-memory catalog something to book.
func seedItems(s store) error {
	items := []models.Item{
		{ID: "place-1", Type: models.ItemPlace, Title: "Seaside loft", Address: "12 Harbour Rd", Price: 1000},
		{ID: "experience-1", Type: models.ItemExperience, Title: "Street food walk", Address: "Old Town", Price: 500},
		{ID: "service-1", Type: models.ItemService, Title: "Airport transfer", Address: "City center", Price: 120},
	}
	for _, item := range items {
		if err := s.AddItem(context.Background(), item); err != nil {
			return err
		}
	}
	return nil
}

func setupMailer(cfg config.Mail, log *slog.Logger) (booking.Notifier, error) {
	if !cfg.Enabled {
		return mailer.NewLog(log), nil
	}

	smtp, err := mailer.NewSMTP(cfg)
	if err != nil {
		return nil, err
	}
	return smtp, nil
}

func setupLogger(env string) *slog.Logger {
	var log *slog.Logger

	switch env {
	case envLocal:
		log = setupPrettySlog()
	case envDev:
		log = slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelDebug}))
	case envProd:
		log = slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))
	default:
		log = slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))
	}

	return log
}

func setupPrettySlog() *slog.Logger {
	opts := slogpretty.PrettyHandlerOptions{
		SlogOpts: &slog.HandlerOptions{
			Level: slog.LevelDebug,
		},
	}

	h := opts.NewPrettyHandler(os.Stdout)

	return slog.New(h)
}
