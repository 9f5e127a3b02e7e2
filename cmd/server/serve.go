package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"github.com/redis/go-redis/v9"
	"github.com/spf13/cobra"

	"github.com/iliyamo/hall-config-editor/internal/config"
	"github.com/iliyamo/hall-config-editor/internal/database"
	"github.com/iliyamo/hall-config-editor/internal/handler"
	"github.com/iliyamo/hall-config-editor/internal/middleware"
	"github.com/iliyamo/hall-config-editor/internal/queue"
	"github.com/iliyamo/hall-config-editor/internal/repository"
	"github.com/iliyamo/hall-config-editor/internal/router"
	"github.com/iliyamo/hall-config-editor/internal/service"
	"github.com/iliyamo/hall-config-editor/internal/session"
)

func newServeCmd() *cobra.Command {
	var (
		migrateUp   bool
		withConsume bool
	)
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the owner editor API and the public seat map",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := config.Load() // Load environment config

			ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
			defer cancel()

			db, err := database.Open(ctx, cfg)
			if err != nil {
				return err
			}
			defer db.Close()
			if migrateUp {
				if err := database.Migrate(ctx, db); err != nil {
					return err
				}
			}

			// Redis backs the cache and the limiter; both are skipped without it
			var rdb *redis.Client
			if cfg.Cache.Enabled || cfg.RateLimit.Enabled {
				rdb, err = config.NewRedisClient(ctx, cfg.Redis)
				if err != nil {
					log.Printf("redis unavailable at %s, running without cache and rate limit: %v", cfg.Redis.Addr, err)
				} else {
					defer rdb.Close()
				}
			}
			cache := middleware.NewSeatMapCache(cfg.Cache, rdb)

			store := repository.NewStore(db)
			notifier := service.SavedNotifier{
				Publisher: service.Publisher{URL: cfg.AMQPURL},
				Cache:     cache,
				Async:     true,
			}
			// final auto-saves run during shutdown, after ctx is cancelled
			sessions := session.NewManager(context.WithoutCancel(ctx), store, cfg.Editor, session.WithSavedHook(notifier.OnSaved))
			defer sessions.Close()

			if withConsume {
				consumer := queue.Consumer{URL: cfg.AMQPURL, Dir: cfg.EventLog}
				go func() {
					if err := consumer.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
						log.Printf("seatmap-consumer: stopped: %v", err)
					}
				}()
			}

			e := echo.New()
			e.HideBanner = true
			e.Use(echomw.Recover())
			e.Use(echomw.RequestID())
			e.Use(echomw.Logger())

			router.RegisterRoutes(e)
			router.RegisterPublic(e, handler.NewPublicHandler(store.Halls, store.Seats), cache)
			router.RegisterOwner(e, router.OwnerHandlers{
				Editor:     handler.NewEditorHandler(sessions, store.Halls),
				Onboarding: handler.NewOnboardingHandler(sessions),
				Settings:   handler.NewSettingsHandler(sessions),
			}, cfg.JWTSecret, middleware.NewTokenBucket(cfg.RateLimit, rdb))

			addr := ":" + cfg.Port
			log.Printf("listening on %s (env=%s)", addr, cfg.Env)
			errc := make(chan error, 1)
			go func() { errc <- e.Start(addr) }()

			select {
			case err := <-errc:
				if !errors.Is(err, http.ErrServerClosed) {
					return err
				}
				return nil
			case <-ctx.Done():
			}
			shutdownCtx, stop := context.WithTimeout(context.Background(), 10*time.Second)
			defer stop()
			return e.Shutdown(shutdownCtx)
		},
	}
	cmd.Flags().BoolVar(&migrateUp, "migrate", false, "apply pending migrations before serving")
	cmd.Flags().BoolVar(&withConsume, "consume", true, "run the seatmap.saved consumer in-process")
	return cmd
}
