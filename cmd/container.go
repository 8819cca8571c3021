package main

import (
	"context"

	"github.com/Abraxas-365/bolsa/billing/subscription"
	"github.com/Abraxas-365/bolsa/billing/subscription/subscriptionapi"
	"github.com/Abraxas-365/bolsa/billing/subscription/subscriptioninfra"
	"github.com/Abraxas-365/bolsa/billing/subscription/subscriptionsrv"
	"github.com/Abraxas-365/bolsa/pkg/config"
	"github.com/Abraxas-365/bolsa/pkg/fsx"
	"github.com/Abraxas-365/bolsa/pkg/fsx/fsxs3"
	"github.com/Abraxas-365/bolsa/pkg/iam/auth"
	"github.com/Abraxas-365/bolsa/pkg/logx"
	"github.com/Abraxas-365/bolsa/pkg/upload"
	"github.com/Abraxas-365/bolsa/recruitment/application/applicationapi"
	"github.com/Abraxas-365/bolsa/recruitment/application/applicationinfra"
	"github.com/Abraxas-365/bolsa/recruitment/application/applicationsrv"
	"github.com/Abraxas-365/bolsa/recruitment/candidate/candidateapi"
	"github.com/Abraxas-365/bolsa/recruitment/candidate/candidateinfra"
	"github.com/Abraxas-365/bolsa/recruitment/candidate/candidatesrv"
	"github.com/Abraxas-365/bolsa/recruitment/document/documentapi"
	"github.com/Abraxas-365/bolsa/recruitment/document/documentinfra"
	"github.com/Abraxas-365/bolsa/recruitment/document/documentsrv"
	"github.com/Abraxas-365/bolsa/recruitment/notification"
	"github.com/Abraxas-365/bolsa/recruitment/notification/notificationinfra"
	"github.com/Abraxas-365/bolsa/recruitment/notification/worker"
	"github.com/Abraxas-365/bolsa/recruitment/offer/offerapi"
	"github.com/Abraxas-365/bolsa/recruitment/offer/offerinfra"
	"github.com/Abraxas-365/bolsa/recruitment/offer/offersrv"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/ses"
	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	"github.com/redis/go-redis/v9"
)

// Container holds all application dependencies
type Container struct {
	Config *config.Config

	// Infrastructure
	DB         *sqlx.DB
	Redis      *redis.Client
	FileSystem fsx.FileSystem
	S3Client   *s3.Client
	SESClient  *ses.Client

	// Notifications
	Sender             notification.Sender
	Dispatcher         notification.Dispatcher
	NotificationWorker *worker.NotificationWorker

	// Services
	TokenService        *auth.JWTService
	SubscriptionService *subscriptionsrv.SubscriptionService
	OfferService        *offersrv.OfferService
	CandidateService    *candidatesrv.CandidateService
	ApplicationService  *applicationsrv.ApplicationService
	DocumentService     *documentsrv.DocumentService

	// API Handlers
	OfferHandlers        *offerapi.Handlers
	CandidateHandlers    *candidateapi.Handlers
	ApplicationHandlers  *applicationapi.Handlers
	DocumentHandlers     *documentapi.Handlers
	SubscriptionHandlers *subscriptionapi.Handlers

	// Middleware
	UnifiedAuthMiddleware *auth.UnifiedAuthMiddleware
}

// NewContainer initializes the dependency injection container
func NewContainer(cfg *config.Config) *Container {
	c := &Container{Config: cfg}
	c.initInfrastructure()
	c.initNotifications()
	c.initServices()
	return c
}

func (c *Container) initInfrastructure() {
	// 1. Database Connection
	db, err := sqlx.Connect("postgres", c.Config.Database.DSN())
	if err != nil {
		logx.Fatalf("Failed to connect to database: %v", err)
	}
	db.SetMaxOpenConns(c.Config.Database.MaxOpenConns)
	db.SetMaxIdleConns(c.Config.Database.MaxIdleConns)
	db.SetConnMaxLifetime(c.Config.Database.ConnMaxLifetime)
	c.DB = db

	// 2. Redis Connection
	c.Redis = redis.NewClient(&redis.Options{
		Addr:     c.Config.Redis.Addr,
		Password: c.Config.Redis.Pass,
		DB:       c.Config.Redis.DB,
	})
	if err := c.Redis.Ping(context.Background()).Err(); err != nil {
		logx.Warnf("Failed to connect to Redis: %v", err)
	}

	// 3. AWS: S3 for documents, SES for mail
	awsCfg, err := awsconfig.LoadDefaultConfig(context.Background(), awsconfig.WithRegion(c.Config.AWS.Region))
	if err != nil {
		logx.Fatalf("unable to load SDK config, %v", err)
	}
	c.S3Client = s3.NewFromConfig(awsCfg)
	c.SESClient = ses.NewFromConfig(awsCfg)

	var opts []fsxs3.Option
	if c.Config.AWS.PublicURL != "" {
		opts = append(opts, fsxs3.WithPublicURL(c.Config.AWS.PublicURL))
	}
	c.FileSystem = fsxs3.NewS3FileSystem(c.S3Client, c.Config.AWS.Bucket, c.Config.AWS.BucketPrefix, opts...)

	// 4. Tokens
	authCfg := auth.DefaultConfig()
	authCfg.SecretKey = c.Config.Auth.Secret
	if c.Config.Auth.Issuer != "" {
		authCfg.Issuer = c.Config.Auth.Issuer
	}
	if c.Config.Auth.AccessTokenTTL > 0 {
		authCfg.AccessTokenTTL = c.Config.Auth.AccessTokenTTL
	}
	c.TokenService = auth.NewJWTService(authCfg)
}

func (c *Container) initNotifications() {
	switch c.Config.Mail.Driver {
	case "ses":
		c.Sender = notificationinfra.NewSESSender(c.SESClient, c.Config.Mail.From)
	default:
		c.Sender = notificationinfra.LogSender{}
	}

	// Without workers, mail goes out inline on the request path
	if c.Config.Redis.Workers <= 0 {
		c.Dispatcher = notification.DirectDispatcher{Sender: c.Sender}
		return
	}

	queue := notificationinfra.NewRedisQueue(c.Redis, c.Config.Redis.NotificationQueue)
	c.Dispatcher = queue
	c.NotificationWorker = worker.NewNotificationWorker(queue, c.Sender, c.Config.Redis.Workers)
}

func (c *Container) initServices() {
	// --- Repositories ---
	offerRepo := offerinfra.NewPostgresOfferRepository(c.DB)
	candidateRepo := candidateinfra.NewPostgresCandidateRepository(c.DB)
	applicationRepo := applicationinfra.NewPostgresApplicationRepository(c.DB)
	documentRepo := documentinfra.NewPostgresDocumentRepository(c.DB)
	subscriptionRepo := subscriptioninfra.NewPostgresSubscriptionRepository(c.DB)

	files := upload.NewValidator(nil)

	// --- Domain Services ---
	catalog := subscription.NewCatalog(c.Config.Stripe.PriceBasico, c.Config.Stripe.PricePro)
	c.SubscriptionService = subscriptionsrv.NewSubscriptionService(subscriptionRepo, catalog, c.Config.Stripe.WebhookSecret)
	c.OfferService = offersrv.NewOfferService(offerRepo, c.SubscriptionService)
	c.CandidateService = candidatesrv.NewCandidateService(candidateRepo, c.FileSystem, files)
	c.DocumentService = documentsrv.NewDocumentService(
		documentRepo,
		applicationRepo,
		candidateRepo,
		offerRepo,
		c.FileSystem,
		files,
	)
	c.ApplicationService = applicationsrv.NewApplicationService(
		applicationRepo,
		candidateRepo,
		offerRepo,
		c.Dispatcher,
		c.DocumentService,
	)

	// --- Handlers ---
	c.OfferHandlers = offerapi.NewHandlers(c.OfferService)
	c.CandidateHandlers = candidateapi.NewHandlers(c.CandidateService)
	c.ApplicationHandlers = applicationapi.NewHandlers(c.ApplicationService)
	c.DocumentHandlers = documentapi.NewHandlers(c.DocumentService)
	c.SubscriptionHandlers = subscriptionapi.NewHandlers(c.SubscriptionService)

	// --- Middleware ---
	c.UnifiedAuthMiddleware = auth.NewUnifiedAuthMiddleware(c.TokenService)
}

// Close releases the connections opened by the container
func (c *Container) Close() {
	if err := c.Redis.Close(); err != nil {
		logx.Warnf("redis close: %v", err)
	}
	if err := c.DB.Close(); err != nil {
		logx.Warnf("db close: %v", err)
	}
}
