package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/exporters/jaeger"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.21.0"
	"gopkg.in/natefinch/lumberjack.v2"

	"github.com/NawfalRAZOUK7/hotel-management-sub009/cache"
	"github.com/NawfalRAZOUK7/hotel-management-sub009/config"
	"github.com/NawfalRAZOUK7/hotel-management-sub009/events"
	"github.com/NawfalRAZOUK7/hotel-management-sub009/handlers"
	"github.com/NawfalRAZOUK7/hotel-management-sub009/repository"
	"github.com/NawfalRAZOUK7/hotel-management-sub009/routes"
	"github.com/NawfalRAZOUK7/hotel-management-sub009/scheduler"
	"github.com/NawfalRAZOUK7/hotel-management-sub009/services"
	"github.com/NawfalRAZOUK7/hotel-management-sub009/ws"
)

func main() {
	cfg := config.LoadConfig()

	logger := logrus.New()
	logger.SetLevel(logrus.InfoLevel)
	if cfg.LogFile != "" {
		lumberjackLog := &lumberjack.Logger{
			Filename:   cfg.LogFile,
			MaxSize:    1,
			MaxBackups: 3,
			MaxAge:     28,
		}
		logger.SetOutput(lumberjackLog)
		defer func() {
			if err := lumberjackLog.Close(); err != nil {
				logger.WithFields(logrus.Fields{"path": "pricing/main"}).Error("Error closing log file:", err)
			}
		}()
	}

	tracerProvider, err := NewTracerProvider(cfg.ServiceName, cfg.JaegerAddress)
	if err != nil {
		log.Fatal("JaegerTraceProvider failed to Initialize", err)
	}
	tracer := tracerProvider.Tracer(cfg.ServiceName)

	ctx := context.Background()

	mongoclient, err := mongo.Connect(ctx, options.Client().ApplyURI(cfg.MongoURI))
	if err != nil {
		log.Fatal(err)
	}
	if err := mongoclient.Ping(ctx, readpref.Primary()); err != nil {
		log.Fatal(err)
	}
	defer mongoclient.Disconnect(ctx)
	fmt.Println("MongoDB successfully connected...")

	ruleCollection := mongoclient.Database("hotel-management").Collection("pricing-rules")
	demandCollection := mongoclient.Database("hotel-management").Collection("demand-snapshots")
	inventoryCollection := mongoclient.Database("hotel-management").Collection("room-inventory")

	bookingRepo, err := repository.NewBookingRepo(cfg.CassDB, logger)
	if err != nil {
		log.Fatal(err)
	}
	defer bookingRepo.CloseSession()
	bookingRepo.CreateTable()

	redisStore := cache.NewRedisStore(cfg.RedisHost, cfg.RedisPort, logger)
	cacheLayer := cache.New(redisStore, cfg.LocalCacheSize, cfg.LocalCacheTTL, logger, tracer)

	ruleStore := repository.NewRuleRepo(ruleCollection, tracer)
	demandStore := repository.NewDemandRepo(demandCollection, tracer)
	inventoryStore := repository.NewInventoryRepo(inventoryCollection, cfg.InventoryServiceURL,
		cacheLayer, cfg.HotelDetailTTL, logger, tracer)

	notificationService := services.NewNotificationServiceImpl(logger, nil)
	pricingService := services.NewPricingServiceImpl(ruleStore, demandStore, cacheLayer,
		cfg.QuoteTTL, cfg.RuleSummaryTTL, cfg.DemandMaxAge, logger, tracer, nil)
	availabilityService := services.NewAvailabilityServiceImpl(bookingRepo, inventoryStore,
		pricingService, cacheLayer, cfg.AvailabilityTTL, logger, tracer, nil)
	invalidationRouter := services.NewInvalidationRouterImpl(cacheLayer, demandStore, inventoryStore,
		notificationService, cfg.InvalidationQueueSize, cfg.InvalidationWorkers, logger, tracer, nil)
	invalidationRouter.Start()
	defer invalidationRouter.Stop()

	bus := events.NewBus()
	bus.SubscribeBooking(invalidationRouter.OnBookingMutated)
	bus.SubscribeRule(invalidationRouter.OnRuleChanged)
	bus.SubscribeHotel(invalidationRouter.OnHotelEdited)

	hub := ws.NewHub(logger)
	go hub.Run()
	defer hub.Stop()

	jobs := scheduler.New(logger, tracer)
	registerJobs(jobs, cfg, cacheLayer, demandStore, bookingRepo, inventoryStore,
		pricingService, notificationService, logger)
	jobs.Start()
	defer jobs.Stop()

	pricingHandler := handlers.NewPricingHandler(pricingService, tracer)
	availabilityHandler := handlers.NewAvailabilityHandler(availabilityService, tracer)
	eventHandler := handlers.NewEventHandler(bus, ruleStore, tracer)
	cacheHandler := handlers.NewCacheHandler(cacheLayer, tracer)
	subscriptionHandler := handlers.NewSubscriptionHandler(notificationService, tracer)
	webSocketHandler := handlers.NewWebSocketHandler(hub, notificationService, logger, tracer)

	pricingRouteHandler := routes.NewPricingRouteHandler(pricingHandler, availabilityHandler)
	eventRouteHandler := routes.NewEventRouteHandler(eventHandler)
	cacheRouteHandler := routes.NewCacheRouteHandler(cacheHandler)
	notificationRouteHandler := routes.NewNotificationRouteHandler(subscriptionHandler, webSocketHandler)

	server := gin.Default()

	corsConfig := cors.DefaultConfig()
	corsConfig.AllowOrigins = []string{"https://localhost:4200"}
	corsConfig.AllowCredentials = true
	corsConfig.AllowHeaders = append(corsConfig.AllowHeaders, "Authorization")
	server.Use(cors.New(corsConfig))

	router := server.Group("/api")
	router.GET("/healthchecker", func(ctx *gin.Context) {
		ctx.JSON(http.StatusOK, gin.H{"status": "success", "message": "Pricing service is running"})
	})

	pricingRouteHandler.PricingRoute(router)
	eventRouteHandler.EventRoute(router)
	cacheRouteHandler.CacheRoute(router)
	notificationRouteHandler.NotificationRoute(router)

	srv := &http.Server{
		Addr:    cfg.Address,
		Handler: server,
	}
	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal(err)
		}
	}()
	logger.WithFields(logrus.Fields{"path": "pricing/main", "address": cfg.Address}).Info("Pricing service started")

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	shutdownCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.WithFields(logrus.Fields{"path": "pricing/main"}).Error("Server shutdown failed: ", err)
	}
	if err := tracerProvider.Shutdown(shutdownCtx); err != nil {
		logger.WithFields(logrus.Fields{"path": "pricing/main"}).Error("Tracer shutdown failed: ", err)
	}
}

func registerJobs(jobs *scheduler.Scheduler, cfg *config.Config, cacheLayer *cache.CacheLayer,
	demandStore repository.DemandSnapshotStore, bookingStore repository.BookingStore,
	inventoryStore repository.InventoryStore, pricingService services.PricingService,
	notificationService services.NotificationService, logger *logrus.Logger) {
	all := []scheduler.Job{
		scheduler.DemandAnalysisJob(demandStore, bookingStore, inventoryStore, cfg.DemandWindow, nil),
		scheduler.PriceRefreshJob(pricingService, inventoryStore, nil),
		scheduler.OccupancyAnalysisJob(demandStore, notificationService),
		scheduler.RevenueOptimizationJob(demandStore, notificationService),
		scheduler.PerformanceMonitoringJob(cacheLayer, cfg.MetricsTTL, logger),
		scheduler.DailyReportJob(demandStore, notificationService, nil),
		scheduler.WeeklyReportJob(demandStore, notificationService, nil),
	}
	for _, job := range all {
		if err := jobs.Register(job); err != nil {
			log.Fatal("failed to register job ", job.Name, ": ", err)
		}
	}
}

func NewTracerProvider(serviceName, collectorEndpoint string) (*sdktrace.TracerProvider, error) {
	exporter, err := jaeger.New(jaeger.WithCollectorEndpoint(jaeger.WithEndpoint(collectorEndpoint)))
	if err != nil {
		return nil, fmt.Errorf("unable to initialize exporter due: %w", err)
	}
	tp := sdktrace.NewTracerProvider(
		sdktrace.WithSampler(sdktrace.AlwaysSample()),
		sdktrace.WithBatcher(exporter),
		sdktrace.WithResource(resource.NewWithAttributes(
			semconv.SchemaURL,
			semconv.ServiceNameKey.String(serviceName),
			semconv.DeploymentEnvironmentKey.String("development"),
		)),
	)
	otel.SetTracerProvider(tp)
	otel.SetTextMapPropagator(propagation.NewCompositeTextMapPropagator(propagation.TraceContext{}, propagation.Baggage{}))

	return tp, nil
}
