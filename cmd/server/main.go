// cmd/server/main.go
package main

import (
	"context"
	"errors"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/andresuchdata/s3-file-manager/internal/api"
	"github.com/andresuchdata/s3-file-manager/internal/cache"
	"github.com/andresuchdata/s3-file-manager/internal/config"
	"github.com/andresuchdata/s3-file-manager/internal/service"
	"github.com/andresuchdata/s3-file-manager/internal/storage"
	"github.com/andresuchdata/s3-file-manager/internal/storage/memory"
	"github.com/andresuchdata/s3-file-manager/internal/storage/minio"
	"github.com/andresuchdata/s3-file-manager/pkg/logger"
	"github.com/gin-gonic/gin"
	"golang.org/x/sync/errgroup"
)

const (
	pingTimeout     = 10 * time.Second
	shutdownTimeout = 10 * time.Second
)

func main() {
	// Load configuration
	cfg := config.Load()

	// Initialize logger
	logger.Init(cfg.Log.Level, cfg.Log.Format, os.Stdout)
	if cfg.Server.Mode == gin.DebugMode {
		gin.SetMode(gin.DebugMode)
	} else {
		gin.SetMode(gin.ReleaseMode)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	services := &api.Services{
		MaxUploadBytes: cfg.Upload.MaxBytes,
		Verbose:        cfg.Server.Mode == gin.DebugMode,
	}

	listingCache, err := cache.NewListingCache(cfg.Cache)
	if err != nil {
		logger.Log.Warn().Err(err).Msg("Listing cache unavailable, continuing without it")
		listingCache = cache.NewNoopListingCache()
	}
	defer listingCache.Close()

	if missing := cfg.Storage.MissingVars(); len(missing) > 0 {
		services.MissingVars = missing
		logger.Log.Warn().
			Strs("missing", missing).
			Msg("Storage is not configured; /api routes will answer 503")
	} else {
		store, err := newStorage(cfg.Storage)
		if err != nil {
			logger.Log.Fatal().Err(err).Msg("Failed to initialize storage")
		}
		_ = probeStorage(ctx, store)

		services.Files = service.NewFileService(store, service.Options{
			Policy: service.DefaultUploadPolicy(cfg.Upload.MaxBytes),
			URLs: service.URLBuilder{
				Region:  cfg.Storage.Region,
				BaseURL: cfg.Storage.PublicBaseURL,
			},
			ListLimit: cfg.Upload.ListMaxKeys,
			Cache:     listingCache,
		})
	}

	// Initialize HTTP server
	router := api.NewRouter(services, cfg.Server.AllowedOrigins)
	srv := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      router,
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
	}

	ln, err := net.Listen("tcp", srv.Addr)
	if err != nil {
		logger.Log.Fatal().Err(err).Str("addr", srv.Addr).Msg("Failed to listen")
	}

	logger.Log.Info().
		Str("port", cfg.Server.Port).
		Str("provider", cfg.Storage.Provider).
		Bool("storage_configured", services.Files != nil).
		Msg("Starting server")

	if err := serve(ctx, srv, ln); err != nil {
		logger.Log.Fatal().Err(err).Msg("Server stopped with error")
	}

	logger.Log.Info().Msg("Server exiting")
}

// serve runs srv on ln until ctx is done, then drains in-flight requests for
// up to shutdownTimeout.
func serve(ctx context.Context, srv *http.Server, ln net.Listener) error {
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		logger.Log.Info().Msg("Shutting down server...")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	return g.Wait()
}

func newStorage(cfg config.StorageConfig) (storage.ObjectStorage, error) {
	if cfg.Provider == config.ProviderMemory {
		bucket := cfg.Bucket
		if bucket == "" {
			bucket = "local"
		}
		return memory.New(bucket), nil
	}
	return minio.New(cfg)
}

// probeStorage checks the bucket once at startup. A failure is logged and
// returned; the caller still starts the server.
func probeStorage(ctx context.Context, store storage.ObjectStorage) error {
	ctx, cancel := context.WithTimeout(ctx, pingTimeout)
	defer cancel()

	if err := store.Ping(ctx); err != nil {
		logger.Log.Warn().Err(err).Str("bucket", store.Bucket()).Msg("Storage probe failed")
		return err
	}
	logger.Log.Info().Str("bucket", store.Bucket()).Msg("Storage reachable")
	return nil
}
