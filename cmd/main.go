package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/ajmalmsali/plate-flow-orchestrator/internal/api"
	"github.com/ajmalmsali/plate-flow-orchestrator/internal/auth"
	"github.com/ajmalmsali/plate-flow-orchestrator/internal/config"
	"github.com/ajmalmsali/plate-flow-orchestrator/internal/database"
	"github.com/ajmalmsali/plate-flow-orchestrator/internal/live"
	"github.com/ajmalmsali/plate-flow-orchestrator/internal/printer"
	"github.com/ajmalmsali/plate-flow-orchestrator/internal/store"
)

var (
	port        = flag.Int("port", 0, "API server port (overrides config)")
	metricsPort = flag.Int("metrics-port", 0, "Metrics server port (overrides config)")
	configFile  = flag.String("config", "configs/config.yaml", "Path to configuration file")
)

func main() {
	flag.Parse()

	cfg, err := config.Load(*configFile)
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}
	if *port != 0 {
		cfg.Server.Port = *port
	}
	if *metricsPort != 0 {
		cfg.Server.MetricsPort = *metricsPort
	}

	db, err := database.Open(cfg.Database.Driver, cfg.Database.DSN)
	if err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}
	defer db.Close()

	if err := database.Seed(db); err != nil {
		log.Fatalf("Failed to seed reference data: %v", err)
	}

	dispatcher, err := printer.NewDispatcher(cfg.Printer.AMQPURL, cfg.Printer.Queue)
	if err != nil {
		log.Fatalf("Failed to initialize KOT dispatcher: %v", err)
	}
	defer dispatcher.Close()

	clock := store.SystemClock{}
	orderStore := store.NewStore(db, clock)
	authService := auth.NewService(db, cfg.Auth.Secret, cfg.TokenTTL(), clock)
	hub := live.NewHub()

	server := api.NewServer(orderStore, authService, hub, dispatcher, clock)

	go startMetricsServer(cfg.Server.MetricsPort)

	httpServer := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.Server.Port),
		Handler: server.Router,
	}

	// Graceful shutdown
	go func() {
		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
		<-sigChan

		log.Println("Shutting down servers...")

		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer shutdownCancel()

		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			log.Printf("API server shutdown error: %v", err)
		}
	}()

	log.Printf("Starting API server on port %d", cfg.Server.Port)
	if err := httpServer.ListenAndServe(); err != http.ErrServerClosed {
		log.Fatalf("API server error: %v", err)
	}
}

func startMetricsServer(port int) {
	metricsRouter := gin.Default()
	metricsRouter.GET("/metrics", gin.WrapH(promhttp.Handler()))

	metricsServer := &http.Server{
		Addr:    fmt.Sprintf(":%d", port),
		Handler: metricsRouter,
	}

	log.Printf("Starting metrics server on port %d", port)
	if err := metricsServer.ListenAndServe(); err != http.ErrServerClosed {
		log.Printf("Metrics server error: %v", err)
	}
}
