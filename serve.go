package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/gofrs/flock"
	"github.com/spf13/cobra"

	"github.com/video2text/backend/internal/api"
	"github.com/video2text/backend/internal/asr"
	"github.com/video2text/backend/internal/auth"
	"github.com/video2text/backend/internal/config"
	"github.com/video2text/backend/internal/db"
	"github.com/video2text/backend/internal/gpu"
	"github.com/video2text/backend/internal/job"
	"github.com/video2text/backend/internal/media"
	"github.com/video2text/backend/internal/transcribe"
)

func newServeCommand(loadConfig func() (*config.Config, error)) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the API server and job worker",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			return runServe(cmd.Context(), cfg)
		},
	}
}

func runServe(ctx context.Context, cfg *config.Config) error {
	if err := os.MkdirAll(cfg.DataPath, 0755); err != nil {
		return fmt.Errorf("create data directory: %w", err)
	}
	if err := os.MkdirAll(cfg.WorkDir, 0755); err != nil {
		return fmt.Errorf("create work directory: %w", err)
	}

	// Only one server may own the database and work directory.
	lock := flock.New(filepath.Join(cfg.DataPath, "video2text.lock"))
	ok, err := lock.TryLock()
	if err != nil {
		return fmt.Errorf("acquire lock: %w", err)
	}
	if !ok {
		return errors.New("another video2text server is already running")
	}
	defer lock.Unlock()

	database, err := db.NewSQLite(cfg.DBPath)
	if err != nil {
		return fmt.Errorf("initialize database: %w", err)
	}
	defer database.Close()

	if err := database.EnsureAdmin(cfg.AdminUsername, cfg.AdminPassword); err != nil {
		return fmt.Errorf("create admin user: %w", err)
	}
	log.Printf("Admin user ensured: %s", cfg.AdminUsername)

	device := gpu.DeviceHint(cfg.ASRDevice)
	log.Printf("GPU detection: device=%s vendor=%s", gpu.Detect().Device, gpu.Detect().Vendor)

	asrClient := asr.NewFunASRClient(cfg.ASRURL)

	tools := media.Tools{YTDLP: cfg.YTDLPPath, FFmpeg: cfg.FFmpegPath, FFprobe: cfg.FFprobePath}
	service := transcribe.NewService(database, asrClient, tools, cfg.WorkDir, cfg.ASRLanguage, device)

	jobQueue := job.NewJobQueue(database.DB())
	jobQueue.RegisterHandler(job.JobTranscribe, service.HandleJob)
	defer jobQueue.Stop()

	jwtService := auth.NewJWTService(cfg.JWTSecret)

	router := api.NewRouter(database, jwtService, cfg, jobQueue, asrClient, device)

	addr := fmt.Sprintf(":%d", cfg.Port)
	server := &http.Server{Addr: addr, Handler: router}

	errCh := make(chan error, 1)
	go func() {
		log.Printf("Starting server on %s", addr)
		log.Printf("ASR sidecar: %s (device=%s)", cfg.ASRURL, device)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	sigCtx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	select {
	case err := <-errCh:
		return fmt.Errorf("server failed: %w", err)
	case <-sigCtx.Done():
	}

	log.Println("Shutting down...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return server.Shutdown(shutdownCtx)
}
