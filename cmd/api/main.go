// Package main wires the application together and starts the HTTP server.
//
// @title EventDesk API
// @version 1.0
// @description Event management backend: users, events, and subscriptions.
// @BasePath /
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
package main

import (
	"log"
	"net/http"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"

	"eventdesk/config"
	"eventdesk/internal/adapters/auth"
	"eventdesk/internal/adapters/calendar"
	"eventdesk/internal/adapters/email"
	"eventdesk/internal/adapters/storage"
	httpdelivery "eventdesk/internal/delivery/http"
	"eventdesk/internal/delivery/http/controllers"
	"eventdesk/internal/delivery/http/middleware"
	"eventdesk/internal/repository/dynamo"
	"eventdesk/internal/services"
)

const serviceTimeout = 10 * time.Second

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}
	logger := config.NewLogger(cfg.Environment)

	awsCfg := aws.Config{
		Region: cfg.AWSRegion,
		Credentials: aws.NewCredentialsCache(
			credentials.NewStaticCredentialsProvider(cfg.AWSAccessKeyID, cfg.AWSSecretAccessKey, ""),
		),
	}
	db := dynamodb.NewFromConfig(awsCfg)

	userRepo := dynamo.NewUserRepository(db, logger, cfg.UsersTable)
	eventRepo := dynamo.NewEventRepository(db, logger, cfg.EventsTable)
	subscriptionRepo := dynamo.NewSubscriptionRepository(db, logger, cfg.SubscriptionsTable)

	hasher := auth.NewBcryptHasher(cfg.BcryptCost)
	tokenIssuer, tokenVerifier := auth.NewJWTProvider(cfg.JWTSecret)

	mailer, err := email.NewMailer(email.MailerConfig{
		Provider:    cfg.EmailProvider,
		FromAddress: cfg.EmailFrom,
		FromName:    cfg.EmailFromName,
		SES: email.SESConfig{
			Region:          cfg.AWSRegion,
			AccessKeyID:     cfg.AWSAccessKeyID,
			SecretAccessKey: cfg.AWSSecretAccessKey,
		},
	}, logger)
	if err != nil {
		log.Fatalf("failed to create mailer: %v", err)
	}

	fileStorage, err := storage.NewMinioStorage(storage.Config{
		Endpoint:  cfg.MinioEndpoint,
		AccessKey: cfg.MinioAccessKey,
		SecretKey: cfg.MinioSecretKey,
		Bucket:    cfg.MinioBucket,
		UseSSL:    cfg.MinioUseSSL,
	}, logger)
	if err != nil {
		log.Fatalf("failed to create file storage: %v", err)
	}

	emailService := services.NewEmailService(
		mailer,
		email.NewTemplateRenderer(),
		calendar.NewICSRenderer("-//EventDesk//EventDesk API//EN"),
		logger,
	)
	userService := services.NewUserService(userRepo, hasher, tokenIssuer, emailService, logger, serviceTimeout)
	eventService := services.NewEventService(eventRepo, userRepo, fileStorage, logger, serviceTimeout)
	subscriptionService := services.NewSubscriptionService(subscriptionRepo, userRepo, eventRepo, emailService, logger, serviceTimeout)

	router := httpdelivery.NewRouter(
		controllers.NewUserController(logger, userService),
		controllers.NewEventController(logger, eventService),
		controllers.NewSubscriptionController(logger, subscriptionService),
		tokenVerifier,
	)
	handler := middleware.CORS(cfg.CORSAllowedOrigins,
		middleware.LoggingMiddleware(logger, router))

	server := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           handler,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	logger.Info("starting server", "port", cfg.Port, "env", cfg.Environment)
	if err := server.ListenAndServe(); err != nil {
		log.Fatalf("server stopped: %v", err)
	}
}
