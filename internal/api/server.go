package api

import (
	"context"
	"errors"

	"academy/internal/app/config"
	"academy/internal/app/document"
	"academy/internal/app/dsn"
	"academy/internal/app/handler"
	"academy/internal/app/mailer"
	"academy/internal/app/middleware"
	"academy/internal/app/notify"
	"academy/internal/app/pdf"
	"academy/internal/app/redis"
	"academy/internal/app/repository"
	"academy/internal/app/storage"
	"academy/internal/pkg"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

// StartServer wires the optional collaborators. Redis, MinIO, Gotenberg and
// SendGrid are each skipped when not configured.
func StartServer() error {
	logrus.Info("Starting server")

	cfg, err := config.NewConfig()
	if err != nil {
		return err
	}
	if cfg.JSONLogs() {
		logrus.SetFormatter(&logrus.JSONFormatter{})
	} else {
		logrus.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	}

	dsnStr := dsn.FromEnv()
	if dsnStr == "" {
		return errors.New("database is not configured, set DB_HOST")
	}
	repo, err := repository.New(dsnStr)
	if err != nil {
		return err
	}

	ctx := context.Background()

	var redisClient *redis.Client
	if cfg.Redis.Host != "" {
		redisClient, err = redis.New(ctx, cfg.Redis)
		if err != nil {
			return err
		}
	} else {
		logrus.Warn("redis not configured, logout blacklist disabled")
	}

	var store document.Store
	if cfg.MinIO.Endpoint != "" {
		minioClient, err := storage.NewMinIOClient(ctx, cfg.MinIO)
		if err != nil {
			logrus.Errorf("minio unavailable, contract archive disabled: %v", err)
		} else {
			store = minioClient
		}
	}

	var docs *document.Service
	if cfg.PDF.GotenbergURL != "" {
		docs = document.NewService(pdf.NewGotenberg(cfg.PDF.GotenbergURL, cfg.PDF.Timeout), store)
	} else {
		logrus.Warn("gotenberg not configured, contract PDFs disabled")
	}

	var m mailer.Mailer = mailer.LogMailer{}
	if cfg.Mail.APIKey != "" {
		sg, err := mailer.NewSendGrid(cfg.Mail)
		if err != nil {
			return err
		}
		m = sg
	}

	// typed nils must not leak into the interfaces below
	var (
		pdfSource notify.PDFSource
		documents handler.ContractDocuments
	)
	if docs != nil {
		pdfSource, documents = docs, docs
	}

	dispatcher := notify.NewDispatcher(m, pdfSource, cfg.Mail.AdminEmail, cfg.Notify.QueueSize, cfg.Notify.JobTimeout)
	dispatcher.Start()

	h := handler.NewHandler(repo, cfg, documents, dispatcher, redisClient)
	auth := middleware.NewAuthMiddleware(redisClient, cfg)

	application, err := pkg.NewApp(cfg, gin.Default(), h, auth)
	if err != nil {
		_ = dispatcher.Close(context.Background())
		return err
	}
	application.OnShutdown(dispatcher.Close)
	if redisClient != nil {
		application.OnShutdown(func(context.Context) error { return redisClient.Close() })
	}
	application.OnShutdown(func(context.Context) error { return repo.Close() })

	return application.RunApp()
}
