package main

import (
	"context"
	"log"
	"net/http"
	"time"

	api "github.com/examforge/examforge-admin/internal/api/http"
	"github.com/examforge/examforge-admin/internal/assembly"
	"github.com/examforge/examforge-admin/internal/audit"
	"github.com/examforge/examforge-admin/internal/bank"
	"github.com/examforge/examforge-admin/internal/config"
	"github.com/examforge/examforge-admin/internal/db"
	"github.com/examforge/examforge-admin/internal/storage"
	"github.com/examforge/examforge-admin/internal/testsvc"
	"github.com/examforge/examforge-admin/internal/voice"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
)

func main() {
	cfg := config.FromEnv()

	// --- Audit DB ---
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	dbh, err := db.Open(ctx, db.Driver(cfg.DBDriver), cfg.DBDSN)
	if err != nil {
		log.Fatalf("db open failed: %v", err)
	}
	auditRepo := audit.NewRepo(dbh)

	// --- External service clients ---
	bankClient := bank.New(bank.Config{
		BaseURL:      cfg.BankBaseURL,
		TokenURL:     cfg.BankTokenURL,
		ClientID:     cfg.BankClientID,
		ClientSecret: cfg.BankClientSecret,
		Timeout:      cfg.BankTimeout,
	})
	testClient := testsvc.New(testsvc.Config{
		BaseURL: cfg.TestServiceURL,
		Timeout: cfg.TestServiceTimeout,
	})

	// --- Voice profiles ---
	voices, err := voice.Load(cfg.VoiceProfilePath)
	if err != nil {
		log.Fatalf("voice profiles: %v", err)
	}

	// --- Audio preview cache ---
	bs, err := storage.NewFSStore(cfg.BlobBasePath)
	if err != nil {
		log.Fatalf("blob store: %v", err)
	}
	cache := storage.NewAudioCache(bs, bankClient.FetchAudio)

	deps := api.AssemblyDeps{
		Sampler:      assembly.NewSampler(bankClient),
		AudioBackend: bankClient,
		Tests:        testClient,
		Audit:        auditRepo,
		Voices:       voices,
		Cache:        cache,
	}

	// --- Router ---
	r := chi.NewRouter()
	r.Use(middleware.RequestID, middleware.RealIP, middleware.Logger, middleware.Recoverer)
	r.Use(middleware.Timeout(120 * time.Second))

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.CORSOrigins,
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"Authorization", "Content-Type"},
		ExposedHeaders:   []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	r.Post("/assemblies", api.AssembleHandler(deps))
	r.Post("/assemblies/preview", api.PreviewHandler(deps))

	r.Get("/bank/question-count", api.QuestionCountHandler(bankClient))
	r.Get("/bank/audio-availability", api.AudioAvailabilityHandler(bankClient))

	r.Get("/assets/audio/{questionID}", api.AudioAssetHandler(cache))

	r.Get("/runs", api.RunsHandler(auditRepo))
	r.Get("/runs/{runID}", api.RunEventsHandler(auditRepo))

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(200) })
	r.Get("/readyz", func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(200) })

	log.Printf("listening on %s (bank=%s, db=%s)", cfg.HTTPAddr, cfg.BankBaseURL, cfg.DBDriver)
	log.Fatal(http.ListenAndServe(cfg.HTTPAddr, r))
}
