package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/getsentry/sentry-go"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/d60-Lab/foodgram/config"
	"github.com/d60-Lab/foodgram/internal/api/handler"
	"github.com/d60-Lab/foodgram/internal/api/middleware"
	"github.com/d60-Lab/foodgram/internal/api/router"
	"github.com/d60-Lab/foodgram/internal/cache"
	"github.com/d60-Lab/foodgram/internal/repository"
	"github.com/d60-Lab/foodgram/internal/service"
	"github.com/d60-Lab/foodgram/pkg/auth"
	"github.com/d60-Lab/foodgram/pkg/logger"
	"github.com/d60-Lab/foodgram/pkg/metrics"
	"github.com/d60-Lab/foodgram/pkg/storage"
	"github.com/d60-Lab/foodgram/pkg/tracing"
)

const imageURLTTL = time.Hour

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP API",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()
		return withDB(ctx, func(cfg *config.Config, db *gorm.DB) error {
			return serve(ctx, cfg, db)
		})
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
}

func paging(cfg *config.Config) service.Paging {
	return service.Paging{DefaultSize: cfg.Pagination.DefaultPageSize, MaxSize: cfg.Pagination.MaxPageSize}
}

func serve(ctx context.Context, cfg *config.Config, db *gorm.DB) error {
	gin.SetMode(cfg.Server.Mode)

	shutdownTracing, err := tracing.Init(ctx, tracing.Config{
		Enabled:     cfg.Tracing.Enabled,
		Endpoint:    cfg.Tracing.Endpoint,
		Insecure:    cfg.Tracing.Insecure,
		ServiceName: cfg.Tracing.ServiceName,
		SampleRatio: cfg.Tracing.SampleRatio,
	})
	if err != nil {
		return err
	}
	defer func() { _ = shutdownTracing(context.Background()) }()

	if cfg.Sentry.DSN != "" {
		if err := sentry.Init(sentry.ClientOptions{
			Dsn:         cfg.Sentry.DSN,
			Environment: cfg.Sentry.Environment,
			SampleRate:  cfg.Sentry.SampleRate,
		}); err != nil {
			return fmt.Errorf("init sentry: %w", err)
		}
		defer sentry.Flush(2 * time.Second)
	}

	m := metrics.New()

	var refCache *cache.ReferenceCache
	if cfg.Redis.Address != "" {
		client := redis.NewClient(&redis.Options{Addr: cfg.Redis.Address, Password: cfg.Redis.Password, DB: cfg.Redis.DB})
		defer client.Close()
		if err := client.Ping(ctx).Err(); err != nil {
			logger.Warn("redis unavailable, reference cache disabled", zap.Error(err))
		} else {
			refCache = cache.New(client, cfg.Redis.TTL, m)
		}
	}

	backend, mediaRoot, err := openStorage(ctx, cfg)
	if err != nil {
		return err
	}

	store := repository.NewStore(db)
	images := service.NewImageStore(backend, imageURLTTL)
	annotator := service.NewAnnotator(images)
	pg := paging(cfg)

	h := handler.NewHandler(
		service.NewRecipeService(store, annotator, images, pg),
		service.NewRelationshipService(store, annotator),
		service.NewShoppingListService(store),
		service.NewReferenceService(store, refCache),
		service.NewUserService(store, annotator, pg),
	)

	opts := router.Options{
		ServiceName: cfg.Tracing.ServiceName,
		Tracing:     cfg.Tracing.Enabled,
		Sentry:      cfg.Sentry.DSN != "",
		Metrics:     m,
		MediaURL:    cfg.Storage.MediaURL,
		MediaRoot:   mediaRoot,
		DB:          db,
	}
	if cfg.RateLimit.Enabled {
		opts.RateLimit = middleware.NewIPRateLimiter(cfg.RateLimit.RPS, cfg.RateLimit.Burst)
	}
	tokens := auth.NewManager(cfg.Auth.Secret, cfg.Auth.Issuer, cfg.Auth.TokenTTL)

	srv := &http.Server{
		Addr:         cfg.Server.Addr(),
		Handler:      router.New(h, tokens, opts),
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("http server listening", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	logger.Info("shutting down http server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	return nil
}

// openStorage 本地存储同时返回需要静态托管的目录
func openStorage(ctx context.Context, cfg *config.Config) (storage.Storage, string, error) {
	switch cfg.Storage.Driver {
	case "s3":
		s, err := storage.NewS3Storage(ctx, cfg.Storage.S3)
		return s, "", err
	default:
		s, err := storage.NewLocalStorage(cfg.Storage.Local, cfg.Storage.MediaURL)
		if err != nil {
			return nil, "", err
		}
		return s, s.BasePath(), nil
	}
}
