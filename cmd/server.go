package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/Abraxas-365/bolsa/billing/subscription/subscriptionapi"
	"github.com/Abraxas-365/bolsa/pkg/config"
	"github.com/Abraxas-365/bolsa/pkg/httpx"
	"github.com/Abraxas-365/bolsa/pkg/logx"
	"github.com/Abraxas-365/bolsa/pkg/metricx"
	"github.com/Abraxas-365/bolsa/recruitment/application/applicationapi"
	"github.com/Abraxas-365/bolsa/recruitment/candidate/candidateapi"
	"github.com/Abraxas-365/bolsa/recruitment/document/documentapi"
	"github.com/Abraxas-365/bolsa/recruitment/offer/offerapi"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
)

func main() {
	// 1. Configuration and Logger
	cfg, err := config.Load()
	if err != nil {
		logx.Fatalf("Failed to load configuration: %v", err)
	}
	logx.SetFormat(cfg.Log.Format)
	logx.SetLevel(logx.ParseLevel(cfg.Log.Level))
	defer logx.Sync()
	logx.Info("Starting Bolsa API Server...")

	// 2. Initialize Dependency Container
	container := NewContainer(cfg)
	defer container.Close()

	// 3. Create Fiber App with Config
	app := fiber.New(fiber.Config{
		AppName:               "Bolsa de Trabajo API",
		DisableStartupMessage: true,
		ErrorHandler:          httpx.ErrorHandler,
		BodyLimit:             cfg.Server.BodyLimitMB << 20,
		ReadTimeout:           cfg.Server.ReadTimeout,
	})

	// 4. Global Middleware
	app.Use(recover.New())
	app.Use(cors.New(cors.Config{
		AllowOrigins: cfg.Server.AllowOrigins,
		AllowHeaders: "Origin, Content-Type, Accept, Authorization, Stripe-Signature",
		AllowMethods: "GET, POST, PUT, DELETE, PATCH, HEAD",
	}))
	app.Use(logger.New(logger.Config{
		Format: "[${time}] ${status} - ${latency} ${method} ${path}\n",
	}))
	app.Use(metricx.Middleware())

	// 5. Health Check and Metrics
	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"status": "ok",
			"db":     container.DB.PingContext(c.Context()) == nil,
			"redis":  container.Redis.Ping(c.Context()).Err() == nil,
		})
	})
	app.Get("/metrics", metricx.Handler())

	// 6. Register Routes

	// Offers: /api/offers
	offerapi.RegisterRoutes(app, container.OfferHandlers, container.UnifiedAuthMiddleware)

	// Candidate profile: /api/me/profile, /api/me/cv
	candidateapi.RegisterRoutes(app, container.CandidateHandlers, container.UnifiedAuthMiddleware)

	// Applications: /api/applications, /api/offers/:offerId/apply
	applicationapi.RegisterRoutes(app, container.ApplicationHandlers, container.UnifiedAuthMiddleware)

	// Hiring documents: /api/applications/:id/documents
	documentapi.RegisterRoutes(app, container.DocumentHandlers, container.UnifiedAuthMiddleware)

	// Billing: /api/billing
	subscriptionapi.RegisterRoutes(app, container.SubscriptionHandlers, container.UnifiedAuthMiddleware)

	// 7. Background workers
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	if container.NotificationWorker != nil {
		container.NotificationWorker.Start(ctx)
	}

	// 8. Start Server with Graceful Shutdown
	go func() {
		logx.Infof("Server listening on port %s", cfg.Server.Port)
		if err := app.Listen(":" + cfg.Server.Port); err != nil {
			logx.Fatalf("Server error: %v", err)
		}
	}()

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, os.Interrupt, syscall.SIGTERM)

	<-sig
	logx.Info("Shutting down server...")

	if err := app.Shutdown(); err != nil {
		logx.Errorf("Server forced to shutdown: %v", err)
	}

	cancel()
	if container.NotificationWorker != nil {
		container.NotificationWorker.Wait()
	}

	logx.Info("Server exited")
}
