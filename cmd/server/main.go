package main

import (
	"context"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"

	"github.com/recyclemart/ewaste-market/internal/cache"
	"github.com/recyclemart/ewaste-market/internal/config"
	"github.com/recyclemart/ewaste-market/internal/events"
	"github.com/recyclemart/ewaste-market/internal/httpserver"
	"github.com/recyclemart/ewaste-market/internal/logging"
	authmw "github.com/recyclemart/ewaste-market/internal/middleware/auth"
	loggingmw "github.com/recyclemart/ewaste-market/internal/middleware/logging"
	"github.com/recyclemart/ewaste-market/internal/repo"
	"github.com/recyclemart/ewaste-market/internal/search"
	"github.com/recyclemart/ewaste-market/internal/service"
	"github.com/recyclemart/ewaste-market/internal/storage"
	pkgdb "github.com/recyclemart/ewaste-market/pkg/db"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	logger := logging.New(cfg.LogLevel).With("service", "ewaste-market")
	slog.SetDefault(logger)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	db, err := pkgdb.Open(ctx, cfg.DatabaseURL)
	cancel()
	if err != nil {
		log.Fatalf("db open: %v", err)
	}
	if err := pkgdb.Migrate(db); err != nil {
		log.Fatalf("db migrate: %v", err)
	}

	producer := events.NewProducer(cfg.KafkaBrokers)

	var couponCache *cache.CouponCache
	if cfg.RedisAddr != "" {
		rdb, err := cache.Connect(cfg.RedisAddr, cfg.RedisPassword)
		if err != nil {
			logger.Warn("redis unavailable, coupon cache disabled", "error", err)
		} else {
			couponCache = cache.NewCouponCache(rdb)
		}
	}

	buyHandler := &httpserver.BuyHTTP{}
	if cfg.ESURL != "" {
		es, err := search.NewClient(cfg.ESURL, cfg.ESUser, cfg.ESPassword)
		if err != nil {
			logger.Warn("elasticsearch unavailable, /buy/search disabled", "error", err)
		} else {
			buyHandler.ES = es
		}
	}

	var images storage.ImageStorage
	if cfg.AWSS3Bucket != "" {
		s3ctx, s3cancel := context.WithTimeout(context.Background(), 10*time.Second)
		images, err = storage.NewS3Storage(s3ctx, storage.Options{
			Region:          cfg.AWSRegion,
			AccessKeyID:     cfg.AWSAccessKeyID,
			SecretAccessKey: cfg.AWSSecretAccessKey,
			Bucket:          cfg.AWSS3Bucket,
		})
		s3cancel()
		if err != nil {
			logger.Warn("s3 unavailable, image uploads disabled", "error", err)
			images = nil
		}
	}

	gormRepo := &repo.GormRepo{DB: db}
	authSvc := &service.AuthService{Repo: gormRepo, JWTSecret: cfg.JWTSecret, Producer: producer}
	listingSvc := &service.ListingService{Repo: gormRepo, Producer: producer}
	couponSvc := &service.CouponService{Repo: gormRepo, Cache: couponCache, Producer: producer}

	buyHandler.Svc = listingSvc

	e := echo.New()
	e.HideBanner = true
	e.Use(echomw.Recover())
	e.Use(echomw.RequestID())
	e.Use(loggingmw.RequestLogger(logger))
	e.Use(echomw.CORS())

	httpserver.Register(e, &httpserver.Deps{
		AuthHandler:     &httpserver.AuthHTTP{Svc: authSvc, SecureCookie: cfg.Production()},
		BuyHandler:      buyHandler,
		SellHandler:     &httpserver.SellHTTP{Svc: listingSvc, Images: images},
		CouponHandler:   &httpserver.CouponHTTP{Svc: couponSvc},
		EstimateHandler: &httpserver.EstimateHTTP{},
		Gate:            authmw.NewGate(cfg.JWTSecret, authmw.DefaultRules()),
	})

	srv := &http.Server{
		Addr:              ":" + strconv.Itoa(cfg.Port),
		Handler:           e,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      15 * time.Second,
		ReadHeaderTimeout: 3 * time.Second,
	}

	go func() {
		log.Printf("ewaste-market listening on %s", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("listen: %v", err)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	<-stop

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	_ = srv.Shutdown(shutdownCtx)
	_ = producer.Close()

	if sqlDB, err := db.DB(); err == nil {
		_ = sqlDB.Close()
	}

	log.Println("ewaste-market stopped")
}
