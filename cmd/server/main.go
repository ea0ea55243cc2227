package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/segmentio/kafka-go"

	"github.com/kmazurov/order_service/internal/config"
	"github.com/kmazurov/order_service/internal/db"
	"github.com/kmazurov/order_service/internal/es"
	"github.com/kmazurov/order_service/internal/httpserver"
	"github.com/kmazurov/order_service/internal/logging"
	"github.com/kmazurov/order_service/internal/mykafka"
	"github.com/kmazurov/order_service/internal/repo"
	"github.com/kmazurov/order_service/internal/scheduler"
	"github.com/kmazurov/order_service/internal/service"
	"github.com/kmazurov/order_service/internal/service/search"
	"github.com/kmazurov/order_service/internal/transport"
	loggingmw "github.com/kmazurov/order_service/pkg/middleware/logging"
)

func main() {
	cfg := config.Load()
	cfg.MustValidate()

	logger := logging.New(cfg.LogLevel)
	ctx := logging.IntoContext(context.Background(), logger)

	gdb, err := db.Open(ctx, cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("db init: %v", err)
	}

	orderRepo := &repo.OrderRepo{DB: gdb}
	userRepo := &repo.UserRepo{DB: gdb}
	logRepo := &repo.OrderLogRepo{DB: gdb}

	producer := mykafka.NewProducer(cfg.KafkaBrokers)

	var searchClient *search.Client
	if cfg.ES_URL != "" {
		esClient, err := es.NewClient(cfg)
		if err != nil {
			log.Fatalf("es init: %v", err)
		}
		searchClient = &search.Client{ES: esClient, Index: cfg.OrdersIndex}
	}

	orderSvc := &service.OrderService{
		Orders:   orderRepo,
		Logs:     logRepo,
		Producer: producer,
		Topic:    cfg.OrdersTopic,
	}
	if searchClient != nil {
		orderSvc.Indexer = searchClient
	}
	processingSvc := &service.ProcessingService{
		Orders: orderRepo,
		Logs:   logRepo,
		Delay:  cfg.ProcessingDelay,
	}
	reportSvc := &service.ReportService{Orders: orderRepo, Logs: logRepo}
	authSvc := &service.AuthService{
		Users:     userRepo,
		JWTSecret: cfg.JWTSecret,
		TokenTTL:  cfg.TokenTTL,
	}

	consumerCtx, stopConsumer := context.WithCancel(ctx)
	var consumer *mykafka.Consumer
	if len(cfg.KafkaBrokers) > 0 {
		consumer = mykafka.NewConsumer(cfg.KafkaBrokers, cfg.OrdersTopic, "order-processing", func(ctx context.Context, msg kafka.Message) error {
			var event transport.OrderCreatedEvent
			if err := json.Unmarshal(msg.Value, &event); err != nil {
				return fmt.Errorf("decode %s: %w", cfg.OrdersTopic, err)
			}
			return processingSvc.ProcessOrder(ctx, event.ID)
		})
		go consumer.Run(consumerCtx)
	}

	sched := scheduler.New(logger)
	if err := sched.Register("0 * * * *", "cleanup_old_pending_orders", processingSvc.CleanupOldPendingOrders); err != nil {
		log.Fatalf("scheduler: %v", err)
	}
	if err := sched.Register("0 0 * * *", "automatic_daily_report", func(ctx context.Context) error {
		reportSvc.GenerateAutomaticDailyReport(ctx)
		return nil
	}); err != nil {
		log.Fatalf("scheduler: %v", err)
	}
	sched.Start()

	e := echo.New()
	e.HideBanner = true
	e.Pre(middleware.RemoveTrailingSlash())
	e.Use(middleware.Recover(), middleware.RequestID())
	e.Use(loggingmw.RequestLogger(logger))

	httpserver.Register(e, &httpserver.Deps{
		OrderHandler:      &httpserver.OrderHTTP{Svc: orderSvc, Search: searchClient},
		ProcessingHandler: &httpserver.ProcessingHTTP{Svc: processingSvc},
		AuthHandler:       &httpserver.AuthHTTP{Svc: authSvc},
		ReportHandler:     &httpserver.ReportHTTP{Svc: reportSvc},
		JWTSecret:         cfg.JWTSecret,
		Users:             userRepo,
	})

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.ServerPort),
		Handler:      e,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}
	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("http server error", "error", err)
		}
	}()
	logger.Info("server started", "port", cfg.ServerPort)

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("server shutdown error", "error", err)
	}

	sched.Stop()
	stopConsumer()
	if consumer != nil {
		if err := consumer.Close(); err != nil {
			logger.Error("kafka consumer close error", "error", err)
		}
	}
	if err := producer.Close(); err != nil {
		logger.Error("kafka producer close error", "error", err)
	}

	if sqlDB, err := gdb.DB(); err == nil {
		if err := sqlDB.Close(); err != nil {
			logger.Error("db close error", "error", err)
		}
	}

	logger.Info("shutdown complete")
}
