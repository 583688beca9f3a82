// Package main provides the SRE API, a small HTTP facade over AWS.
//
// The service exposes REST endpoints for:
//   - Listing the instances attached to the managed load balancer
//   - Attaching an instance to the load balancer's target group
//   - Detaching an instance from the load balancer's target group
//
// It also serves:
//   - Health checks
//   - Prometheus metrics
//   - Swagger UI and the generated OpenAPI document
//
// Usage:
//
//	./sre-api
//
// Environment:
//   PORT: Server port (default: 8080)
//   AWS_REGION: AWS region (default: us-east-1)
//   LOAD_BALANCER_NAME: Managed load balancer (default: default-alb)
//   TARGET_PORT: Port instances are registered on (default: 80)
package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"

	_ "sre-api/docs"
	"sre-api/handlers"
	"sre-api/logger"
	"sre-api/middleware"
	"sre-api/services"
)

const (
	// ShutdownTimeout is the maximum time to wait for graceful shutdown
	ShutdownTimeout = 30 * time.Second
)

// getPort returns the port from environment variable or default
func getPort() string {
	if port := os.Getenv("PORT"); port != "" {
		return ":" + port
	}
	return ":8080"
}

// @title           SRE API
// @version         1.0
// @description     HTTP facade over EC2 instance lookup and ELBv2 target group registration.
// @BasePath        /
func main() {
	// Initialize logger
	logger.Init()
	defer logger.Sync()

	port := getPort()

	cfg, err := services.LoadConfig()
	if err != nil {
		logger.Logger.Fatal("Invalid configuration", zap.Error(err))
	}

	// Shared AWS clients, created once and reused by every request
	svc, err := services.NewClient(context.Background(), cfg)
	if err != nil {
		logger.Logger.Fatal("AWS client setup failed", zap.Error(err))
	}

	logger.Logger.Info("Starting SRE API",
		zap.String("port", port),
		zap.String("region", cfg.Region),
		zap.String("load_balancer", cfg.LoadBalancerName),
		zap.Int32("target_port", cfg.TargetPort),
	)

	// Setup Gin router
	router := setupRouter(svc, cfg)

	// Setup server
	server := &http.Server{
		Addr:    port,
		Handler: router,
	}

	// Start server in goroutine
	go func() {
		logger.Logger.Info("Server listening", zap.String("addr", port))
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Logger.Fatal("Server failed", zap.Error(err))
		}
	}()

	// Graceful shutdown
	GracefulShutdown(server)
}

// setupRouter configures and returns the Gin router with all routes and middleware
func setupRouter(svc handlers.TargetService, cfg services.Config) *gin.Engine {
	router := gin.Default()

	// Middleware
	router.Use(middleware.LoggingMiddleware())

	// Health check endpoint
	router.GET("/healthcheck!", handlers.HealthCheck)

	// Prometheus metrics endpoint
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	// Swagger UI and OpenAPI document
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	// ELB target management routes
	setupTargetRoutes(router, svc, cfg)

	return router
}

// setupTargetRoutes configures the /elb route group
func setupTargetRoutes(router *gin.Engine, svc handlers.TargetService, cfg services.Config) {
	h := handlers.NewTargetHandler(svc, cfg.LoadBalancerName)

	elb := router.Group("/elb")
	{
		elb.GET("/alb-ls", h.ListInstances)
		elb.POST("/alb-ls", h.AttachInstance)
		elb.DELETE("/alb-ls", h.DetachInstance)
	}
}

// GracefulShutdown handles graceful server shutdown
func GracefulShutdown(server *http.Server) {
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	sig := <-quit
	logger.Logger.Info("Shutdown signal received", zap.String("signal", sig.String()))

	ctx, cancel := context.WithTimeout(context.Background(), ShutdownTimeout)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		logger.Logger.Error("Server forced to shutdown", zap.Error(err))
	}

	logger.Logger.Info("Server exited")
}
