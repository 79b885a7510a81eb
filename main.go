package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/ReviveFitness/RF-Backend/internal/admin"
	"github.com/ReviveFitness/RF-Backend/internal/attendance"
	"github.com/ReviveFitness/RF-Backend/internal/auth"
	"github.com/ReviveFitness/RF-Backend/internal/challenges"
	"github.com/ReviveFitness/RF-Backend/internal/config"
	"github.com/ReviveFitness/RF-Backend/internal/contact"
	"github.com/ReviveFitness/RF-Backend/internal/db"
	"github.com/ReviveFitness/RF-Backend/internal/members"
	"github.com/ReviveFitness/RF-Backend/internal/metrics"
	"github.com/ReviveFitness/RF-Backend/internal/middleware"
	"github.com/ReviveFitness/RF-Backend/internal/programs"
	"github.com/ReviveFitness/RF-Backend/internal/storage"
	"github.com/ReviveFitness/RF-Backend/internal/trainers"
	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/joho/godotenv"
	"gorm.io/gorm"
)

func RootHandler(w http.ResponseWriter, r *http.Request) {
	response := "Server is up!"
	w.Header().Set("Content-Type", "text/plain")
	fmt.Fprintln(w, response)
}

func healthHandler(gdb *gorm.DB) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sqlDB, err := gdb.DB()
		if err == nil {
			err = sqlDB.PingContext(r.Context())
		}
		if err != nil {
			log.Printf("[health] database ping failed: %v", err)
			http.Error(w, "database unavailable", http.StatusServiceUnavailable)
			return
		}
		w.Header().Set("Content-Type", "text/plain")
		fmt.Fprintln(w, "ok")
	}
}

func newPhotoStore(ctx context.Context, cfg config.Config) (storage.PhotoStore, error) {
	if cfg.PhotoStore == config.PhotoStoreS3 {
		client, err := storage.NewS3Client(ctx, storage.S3Options{
			Region:          cfg.S3Region,
			Endpoint:        cfg.S3Endpoint,
			AccessKeyID:     cfg.S3AccessKeyID,
			SecretAccessKey: cfg.S3SecretAccessKey,
		})
		if err != nil {
			return nil, err
		}
		return storage.NewS3Store(client, cfg.S3Bucket), nil
	}
	return storage.NewLocalStore(cfg.UploadDir)
}

func newMailer(ctx context.Context, cfg config.Config) (contact.Mailer, error) {
	if cfg.SESSender == "" || cfg.ContactToEmail == "" {
		log.Println("[contact] SES_SENDER or CONTACT_TO_EMAIL not set, contact messages go to the log")
		return contact.LogMailer{}, nil
	}
	client, err := contact.NewSESClient(ctx, cfg.SESRegion)
	if err != nil {
		return nil, err
	}
	return contact.NewSESMailer(client, cfg.SESSender), nil
}

func main() {
	_ = godotenv.Load(".env.local")

	cfg := config.LoadFromEnv()
	if err := cfg.Validate(); err != nil {
		log.Fatalf("Invalid configuration: %v", err)
	}

	gdb, err := db.Connect(cfg)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	if err := db.Migrate(gdb); err != nil {
		log.Fatalf("Failed to migrate database: %v", err)
	}

	ctx := context.Background()

	photos, err := newPhotoStore(ctx, cfg)
	if err != nil {
		log.Fatalf("Failed to set up photo store: %v", err)
	}
	mailer, err := newMailer(ctx, cfg)
	if err != nil {
		log.Fatalf("Failed to set up mailer: %v", err)
	}

	sessions := auth.NewSessionStore(gdb, cfg.SessionTTL)
	limiter := middleware.NewLoginLimiter(cfg.LoginRateLimit, cfg.LoginBurst)

	memberSvc := members.NewService(gdb, photos)
	attendanceSvc := attendance.NewService(gdb)
	adminSvc := admin.NewService(gdb, attendanceSvc)

	if cfg.AdminBootstrapID != "" {
		err := adminSvc.EnsureAdmin(ctx, admin.Account{
			AdminID:  cfg.AdminBootstrapID,
			Password: cfg.AdminBootstrapPassword,
			Email:    cfg.AdminBootstrapEmail,
			Name:     "Administrator",
		})
		if err != nil {
			log.Fatalf("Failed to bootstrap admin: %v", err)
		}
	}

	var contactWebhook *contact.Webhook
	if cfg.ContactWebhookSecret != "" {
		contactWebhook = contact.NewWebhook(gdb, mailer, cfg.ContactToEmail, cfg.ContactWebhookSecret)
	}

	m := metrics.New()

	r := chi.NewRouter()
	r.Use(chimiddleware.RequestID)
	r.Use(middleware.ProxyHeaders(cfg.TrustProxyHeaders))
	r.Use(chimiddleware.Logger)
	r.Use(chimiddleware.Recoverer)
	r.Use(middleware.NewCORSMiddleware(cfg.AllowedOrigins))
	r.Use(m.Middleware)

	r.Get("/", RootHandler)
	r.Get("/health", healthHandler(gdb))
	r.Handle("/metrics", m.Handler())
	r.Mount(strings.TrimSuffix(storage.URLPrefix, "/"), storage.SetupRoutes(photos))

	r.Route("/api", func(r chi.Router) {
		r.Mount("/members", members.SetupRoutes(members.NewHandler(memberSvc, sessions), limiter))
		r.Mount("/trainers", trainers.SetupRoutes(trainers.NewHandler(trainers.NewService(gdb))))
		r.Mount("/programs", programs.SetupRoutes(programs.NewHandler(programs.NewService(gdb))))
		r.Mount("/current-challenges", challenges.SetupRoutes(challenges.NewHandler(challenges.NewService(gdb))))
		r.Mount("/attendance", attendance.SetupRoutes(attendance.NewHandler(attendanceSvc)))
		r.Mount("/admin", admin.SetupRoutes(admin.NewHandler(adminSvc, sessions), limiter))
		r.Mount("/contact", contact.SetupRoutes(contact.NewHandler(mailer, cfg.ContactToEmail), contactWebhook))
	})

	srv := &http.Server{
		Addr:              "0.0.0.0:" + cfg.Port,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		log.Printf("Server listening on port :%s...", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("Server error: %v", err)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	<-stop

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Printf("Graceful shutdown failed: %v", err)
	}
	log.Println("Server stopped")
}
