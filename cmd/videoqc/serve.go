package main

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofrs/flock"
	"github.com/spf13/cobra"

	"videoqc/config"
	"videoqc/internal/adapter/ffmpeg"
	httpadapter "videoqc/internal/adapter/http"
	"videoqc/internal/adapter/storage/sqlite"
	"videoqc/internal/infrastructure/logger"
	"videoqc/internal/service"
)

var serveConfigPath string

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the web service",
	Args:  cobra.NoArgs,
	RunE:  runServe,
}

func init() {
	serveCmd.Flags().StringVar(&serveConfigPath, "config", "config.toml", "path to the TOML config file")
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, _ []string) error {
	cfg, err := config.Load(serveConfigPath)
	if err != nil {
		return err
	}

	for _, dir := range []string{cfg.DataDir, cfg.UploadDir(), cfg.ConvertedDir()} {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create %s: %w", dir, err)
		}
	}

	// One process per data directory; a second instance would fight
	// over the job queue and the SQLite writer.
	lock := flock.New(cfg.LockPath())
	locked, err := lock.TryLock()
	if err != nil {
		return fmt.Errorf("acquire lock %s: %w", cfg.LockPath(), err)
	}
	if !locked {
		return fmt.Errorf("another instance is already serving %s", cfg.DataDir)
	}
	defer lock.Unlock()

	secret := cfg.AuthSecret
	if secret == "" {
		secret = randomSecret()
		logger.Warn.Printf("no auth_secret configured; sessions will not survive a restart")
	}

	store, err := sqlite.NewStore(cfg.DataDir)
	if err != nil {
		return err
	}
	defer store.Close()

	queue := sqlite.NewJobQueue(store)
	users := sqlite.NewUserStore(store)

	runner := ffmpeg.NewExecRunner()
	prober := ffmpeg.NewProber(runner, cfg.FFprobeBinary)
	converter := ffmpeg.NewConverter(runner, cfg.FFmpegBinary)

	bus := service.NewEventBus()
	mediaSvc := service.NewMediaService(store, queue, prober, cfg.DataDir)
	authSvc := service.NewAuthService(users, secret)
	pool := service.NewWorkerPool(queue, store, converter, bus, cfg.DataDir, cfg.Workers)

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	pool.Start(ctx)

	handlers := httpadapter.NewHandlers(mediaSvc, cfg.MaxUploadMB)
	server := httpadapter.NewServer(cfg.Addr(), secret, handlers, authSvc, bus)

	errCh := make(chan error, 1)
	go func() {
		logger.Info.Printf("listening on %s", cfg.Addr())
		errCh <- server.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if err != nil && err != http.ErrServerClosed {
			return err
		}
	case <-ctx.Done():
		logger.Info.Printf("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("shutdown: %w", err)
		}
	}
	return nil
}

func randomSecret() string {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		panic(err)
	}
	return hex.EncodeToString(b)
}
