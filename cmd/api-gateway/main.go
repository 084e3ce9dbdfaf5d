package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"

	_ "github.com/noah-isme/science-hub-api/api/swagger"
	"github.com/noah-isme/science-hub-api/internal/handler"
	"github.com/noah-isme/science-hub-api/internal/integration/amqp"
	"github.com/noah-isme/science-hub-api/internal/integration/github"
	"github.com/noah-isme/science-hub-api/internal/middleware"
	"github.com/noah-isme/science-hub-api/internal/repository"
	"github.com/noah-isme/science-hub-api/internal/router"
	"github.com/noah-isme/science-hub-api/internal/service"
	"github.com/noah-isme/science-hub-api/pkg/config"
	"github.com/noah-isme/science-hub-api/pkg/jobs"
	"github.com/noah-isme/science-hub-api/pkg/logger"
	corsmiddleware "github.com/noah-isme/science-hub-api/pkg/middleware/cors"
	reqidmiddleware "github.com/noah-isme/science-hub-api/pkg/middleware/requestid"
)

// @title Science Hub API
// @version 1.0.0
// @description Teacher submissions, moderation and material publishing
// @BasePath /api/v1
// @schemes http
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization

const shutdownTimeout = 15 * time.Second

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logr, err := logger.New(cfg)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logr.Sync() //nolint:errcheck

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, logr); err != nil {
		logr.Fatal("server failed", zap.Error(err))
	}
}

func run(ctx context.Context, cfg *config.Config, logr *zap.Logger) error {
	metrics := service.NewMetricsService()

	rawStore, closeStore, err := openRecordStore(ctx, cfg)
	if err != nil {
		return err
	}
	defer closeStore()
	store := repository.NewInstrumentedRecordStore(rawStore, metrics)
	logr.Info("record store ready", zap.String("driver", cfg.Store.Driver))

	teachers := repository.NewTeacherRepository(store)
	verifications := repository.NewVerificationRepository(store)
	sessions := repository.NewSessionRepository(store)
	uploads := repository.NewUploadRepository(store)
	escalations := repository.NewEscalationRepository(store)
	submissions := repository.NewModerationRepository(store)
	history := repository.NewHistoryRepository(store)
	inbox := repository.NewNotificationRepository(store, cfg.Notify.InboxSize)

	validate := service.NewValidator()
	hasher := service.NewBcryptHasher(0)

	var broker *amqp.Publisher
	if cfg.Mail.Driver == config.MailDriverAMQP {
		broker = amqp.NewPublisher(amqp.Config{
			URL:               cfg.AMQP.URL,
			MailQueue:         cfg.AMQP.MailQueue,
			NotificationQueue: cfg.AMQP.NotificationQueue,
			From:              cfg.Mail.From,
		}, nil, logr.Named("amqp"))
	}
	var mailer service.Mailer = service.NewLogMailer(logr.Named("mail"))
	if broker != nil {
		mailer = broker
	}

	teacherAuth := service.NewTeacherAuthService(
		teachers, verifications, sessions, hasher, mailer, validate, logr.Named("teachers"), metrics,
		service.TeacherAuthConfig{
			CodeTTL:           cfg.Verification.CodeTTL,
			MinPasswordLength: cfg.Verification.MinPasswordLength,
		},
	)
	adminAuth := service.NewAdminAuthService(hasher, validate, logr.Named("admin"), service.AdminAuthConfig{
		Email:             cfg.Admin.Email,
		PasswordHash:      cfg.Admin.PasswordHash,
		AccessTokenSecret: cfg.JWT.Secret,
		AccessTokenExpiry: cfg.JWT.Expiration,
		Issuer:            cfg.JWT.Issuer,
	})
	if !adminAuth.Enabled() {
		logr.Warn("admin credential not configured; admin login disabled")
	}

	inboxSink := service.NewInboxSink(inbox, teachers)
	sinks := []service.NotificationSink{service.NewLogSink(logr.Named("events")), inboxSink}
	if broker != nil {
		sinks = append(sinks, broker)
	}
	notifications := service.NewNotificationService(sinks, jobs.QueueConfig{
		Workers:    cfg.Notify.Workers,
		MaxRetries: cfg.Notify.MaxRetries,
		RetryDelay: cfg.Notify.RetryDelay,
		Logger:     logr.Named("notifications"),
	}, logr.Named("notifications"), metrics)
	notifications.Start(ctx)
	defer notifications.Stop()

	var (
		reviewSink service.ReviewSink
		content    service.ContentRepository
	)
	if cfg.GitHub.Enabled() {
		client, err := github.NewClient(cfg.GitHub, logr.Named("github"))
		if err != nil {
			return fmt.Errorf("github client: %w", err)
		}
		reviewSink, content = client, client
	} else {
		logr.Warn("github not configured; reviews are queued locally and publishing is disabled")
	}

	moderation := service.NewModerationService(submissions, logr.Named("moderation"))
	if err := moderation.Bootstrap(ctx); err != nil {
		return fmt.Errorf("seed submissions: %w", err)
	}
	publisher := service.NewPublisherService(content, moderation, notifications, logr.Named("publisher"), metrics)
	uploadSvc := service.NewUploadService(
		uploads, escalations, teacherAuth, reviewSink, notifications, validate, logr.Named("uploads"), metrics,
		service.UploadConfig{MaxFileSize: cfg.Upload.MaxFileSize},
	)
	historySvc := service.NewHistoryService(history, validate)

	handlers := router.Handlers{
		Auth:          handler.NewAuthHandler(teacherAuth, adminAuth),
		Teachers:      handler.NewTeacherHandler(teacherAuth),
		Uploads:       handler.NewUploadHandler(uploadSvc, teacherAuth),
		Moderation:    handler.NewModerationHandler(moderation, publisher),
		Materials:     handler.NewMaterialHandler(publisher),
		History:       handler.NewHistoryHandler(historySvc),
		Notifications: handler.NewNotificationHandler(teacherAuth, inboxSink),
		Metrics: handler.NewMetricsHandler(metrics, func(ctx context.Context) error {
			_, _, err := store.Get(ctx, repository.KeyTeachers)
			return err
		}),
	}

	if cfg.Env == config.EnvProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.MaxMultipartMemory = cfg.Upload.MaxFileSize
	r.Use(gin.Recovery())
	r.Use(reqidmiddleware.Middleware())
	r.Use(logger.GinMiddleware(logr))
	r.Use(corsmiddleware.New(cfg.CORS.AllowedOrigins))
	r.Use(middleware.Metrics(metrics))

	router.RegisterProbes(r, handlers)
	router.Register(r, handlers, router.Options{
		Prefix:   cfg.APIPrefix,
		Tokens:   adminAuth,
		AuditLog: logr.Named("audit"),
	})

	if cfg.Env != config.EnvProduction {
		r.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Port),
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logr.Sugar().Infow("server starting", "addr", srv.Addr, "env", cfg.Env)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	logr.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}
