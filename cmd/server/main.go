package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/iliyamo/catalog-backend/internal/auth"
	"github.com/iliyamo/catalog-backend/internal/config"
	"github.com/iliyamo/catalog-backend/internal/database"
	"github.com/iliyamo/catalog-backend/internal/handler"
	"github.com/iliyamo/catalog-backend/internal/middleware"
	"github.com/iliyamo/catalog-backend/internal/queue"
	"github.com/iliyamo/catalog-backend/internal/repository"
	"github.com/iliyamo/catalog-backend/internal/router"
	"github.com/iliyamo/catalog-backend/internal/service"
)

func main() {
	cfg := config.Load()
	log := config.NewLogger(cfg.LogLevel)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	db, err := database.Open(cfg)
	if err != nil {
		log.Error("database unavailable", slog.Any("err", err))
		os.Exit(1)
	}
	defer db.Close()

	// Redis is optional: without it the limiter and cache pass through.
	rdb := config.NewRedisClient(config.LoadRedisConfig(), log)
	if rdb != nil {
		defer rdb.Close()
	}

	qcfg := config.LoadQueueConfig()
	publisher := service.NewPublisher(qcfg, log)
	if qcfg.Enabled {
		go func() {
			if err := queue.StartAuditConsumer(ctx, qcfg, log); err != nil && !errors.Is(err, context.Canceled) {
				log.Error("audit consumer stopped", slog.Any("err", err))
			}
		}()
	}

	users := repository.NewUserRepo(db)
	svc := auth.NewService(cfg, users, publisher, log)

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	e := echo.New()
	e.HideBanner = true
	e.Use(echomw.RequestIDWithConfig(echomw.RequestIDConfig{Generator: uuid.NewString}))
	e.Use(echomw.Recover())
	e.Use(requestLogger(log))
	e.Use(middleware.Metrics(middleware.NewPrometheusCollector(reg)))

	guards := router.Guards{
		Auth:  middleware.JWTAuth(svc, log),
		Limit: middleware.NewTokenBucket(config.LoadRateLimitConfig(), rdb, log),
		Cache: middleware.NewRedisCache(config.LoadCacheConfig(), rdb, log),
	}
	products := repository.NewProductRepo(db)

	router.RegisterRoutes(e, cfg.Version, promhttp.HandlerFor(reg, promhttp.HandlerOpts{}))
	router.RegisterAuth(e, handler.NewAuthHandler(svc, log), guards)
	router.RegisterCatalog(e,
		handler.NewCategoryHandler(repository.NewCategoryRepo(db), log),
		handler.NewProductHandler(products, log),
		guards)
	router.RegisterCart(e, handler.NewCartHandler(products, repository.NewCartRepo(db), publisher, log), guards)

	go func() {
		addr := ":" + cfg.Port
		log.Info("listening", slog.String("addr", addr), slog.String("env", cfg.Env))
		if err := e.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("server failed", slog.Any("err", err))
			stop()
		}
	}()

	<-ctx.Done()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		log.Error("shutdown failed", slog.Any("err", err))
	}
}

// requestLogger logs one structured line per request through slog.
func requestLogger(log *slog.Logger) echo.MiddlewareFunc {
	return echomw.RequestLoggerWithConfig(echomw.RequestLoggerConfig{
		LogStatus:    true,
		LogURI:       true,
		LogMethod:    true,
		LogLatency:   true,
		LogRequestID: true,
		LogError:     true,
		HandleError:  true,
		LogValuesFunc: func(c echo.Context, v echomw.RequestLoggerValues) error {
			attrs := []slog.Attr{
				slog.String("method", v.Method),
				slog.String("uri", v.URI),
				slog.Int("status", v.Status),
				slog.Duration("latency", v.Latency),
				slog.String("request_id", v.RequestID),
			}
			level := slog.LevelInfo
			if v.Error != nil {
				level = slog.LevelError
				attrs = append(attrs, slog.Any("err", v.Error))
			}
			log.LogAttrs(c.Request().Context(), level, "request", attrs...)
			return nil
		},
	})
}
