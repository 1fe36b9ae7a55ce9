package main

import (
	"context"
	"log"
	"os/signal"
	"syscall"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"

	"batepapo-service/internal/config"
	"batepapo-service/internal/db"
	"batepapo-service/internal/handlers"
	"batepapo-service/internal/middleware"
	"batepapo-service/internal/observability"
	"batepapo-service/internal/rabbitmq"
	"batepapo-service/internal/repositories"
	"batepapo-service/internal/services"
	"batepapo-service/internal/sweeper"
	"batepapo-service/internal/telemetry"
	"batepapo-service/internal/tracing"
	"batepapo-service/internal/ws"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	shutdownTracing, err := tracing.Setup(ctx, cfg.OTLPEndpoint, cfg.Environment)
	if err != nil {
		log.Fatalf("failed to set up tracing: %v", err)
	}
	defer func() {
		if err := shutdownTracing(context.Background()); err != nil {
			log.Printf("tracing shutdown: %v", err)
		}
	}()

	database, err := db.Connect(cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("failed to connect to db: %v", err)
	}

	publisher := rabbitmq.NewPublisher(cfg.AMQPURL, cfg.AMQPExchange)
	defer publisher.Close()
	log.Printf("event publisher mode=%s", rabbitmq.PublisherMode(publisher))

	emitter := telemetry.NewEventEmitter(publisher, "batepapo-service", cfg.Environment)

	participantRepo := repositories.NewParticipantRepo(database)
	messageRepo := repositories.NewMessageRepo(database)

	presenceService := services.NewPresenceService(participantRepo, messageRepo, emitter, cfg.PresenceTTL)
	messageService := services.NewMessageService(messageRepo, participantRepo, emitter)

	hub := ws.NewHub()

	participantHandler := handlers.NewParticipantHandler(presenceService, hub)
	messageHandler := handlers.NewMessageHandler(messageService, hub)
	feedHandler := ws.NewFeedHandler(hub, presenceService)

	go sweeper.New(presenceService, hub, cfg.SweepInterval).Run(ctx)

	router := gin.Default()

	// middlewares
	router.Use(gin.Recovery())
	router.Use(observability.HTTPMetricsMiddleware())
	router.Use(otelgin.Middleware("batepapo-service"))
	router.Use(middleware.Identity())

	router.POST("/participants", participantHandler.Join)
	router.GET("/participants", participantHandler.List)
	router.POST("/status", participantHandler.Status)

	router.POST("/messages", messageHandler.Post)
	router.GET("/messages", messageHandler.List)
	router.PUT("/messages/:id", messageHandler.Edit)
	router.DELETE("/messages/:id", messageHandler.Delete)

	router.GET("/ws/messages", feedHandler.Handle)
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	handlers.RegisterDebugRoutes(router, emitter, cfg.DebugRoutes)

	if err := router.Run(":" + cfg.Port); err != nil {
		log.Fatalf("server error: %v", err)
	}
}
