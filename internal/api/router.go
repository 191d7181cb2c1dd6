package api

import (
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/video2text/backend/internal/api/handlers"
	"github.com/video2text/backend/internal/api/middleware"
	"github.com/video2text/backend/internal/asr"
	"github.com/video2text/backend/internal/auth"
	"github.com/video2text/backend/internal/config"
	"github.com/video2text/backend/internal/db"
	"github.com/video2text/backend/internal/job"
)

func NewRouter(database *db.Database, jwtService *auth.JWTService, cfg *config.Config, jobQueue *job.JobQueue, asrClient *asr.FunASRClient, device string) *chi.Mux {
	r := chi.NewRouter()

	// Global middleware
	r.Use(chimw.Recoverer)
	r.Use(chimw.RealIP)
	r.Use(middleware.Logger)
	r.Use(cors.Handler(middleware.CORSHandler(cfg.CORSOrigins)))
	r.Use(middleware.MaxBodySize(1 << 20)) // JSON API only, 1 MiB is plenty

	// Handlers
	authHandler := handlers.NewAuthHandler(database, jwtService)
	transcribeHandler := handlers.NewTranscribeHandler(jobQueue, cfg.ASRLanguage, cfg.DefaultMinMergeLength)
	transcriptHandler := handlers.NewTranscriptHandler(database, cfg.DefaultMinMergeLength)
	jobHandler := handlers.NewJobHandler(jobQueue)
	settingsHandler := handlers.NewSettingsHandler(database)
	healthHandler := handlers.NewHealthHandler(asrClient, device)

	loginLimiter := middleware.NewRateLimiter(10, time.Minute)

	r.Route("/api", func(r chi.Router) {
		// Public routes
		r.Get("/health", healthHandler.Health)
		r.With(loginLimiter.Handler).Post("/auth/login", authHandler.Login)

		// Protected routes
		r.Group(func(r chi.Router) {
			r.Use(middleware.AuthMiddleware(jwtService))

			// Auth
			r.Get("/auth/me", authHandler.Me)

			// Transcription
			r.Post("/transcribe", transcribeHandler.Transcribe)

			// Jobs
			r.Get("/jobs", jobHandler.ListJobs)
			r.Get("/jobs/{id}", jobHandler.GetJob)
			r.Delete("/jobs/{id}", jobHandler.CancelJob)
			r.Post("/jobs/{id}/retry", jobHandler.RetryJob)

			// Transcripts and subtitle generation
			r.Get("/transcripts", transcriptHandler.ListTranscripts)
			r.Get("/transcripts/{id}", transcriptHandler.GetTranscript)
			r.Delete("/transcripts/{id}", transcriptHandler.DeleteTranscript)
			r.Post("/transcripts/{id}/segment", transcriptHandler.SegmentTranscript)
			r.Get("/transcripts/{id}/srt", transcriptHandler.ExportTranscript)
			r.Get("/transcripts/{id}/export", transcriptHandler.ExportTranscript)

			// Settings
			r.Get("/settings", settingsHandler.GetSettings)
			r.With(middleware.RequireRole("admin")).Put("/settings", settingsHandler.UpdateSettings)
		})
	})

	return r
}
