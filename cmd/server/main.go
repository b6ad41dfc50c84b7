package main

import (
	"time"

	"go.uber.org/zap"

	"agencydesk/config"
	"agencydesk/internal/handler"
	"agencydesk/internal/httpserver"
	"agencydesk/internal/mailer"
	"agencydesk/internal/repository"
	"agencydesk/internal/service/auth"
	"agencydesk/internal/service/delivery"
	"agencydesk/internal/service/inbound"
	"agencydesk/internal/service/inquiry"
	"agencydesk/internal/service/invoice"
	"agencydesk/internal/service/milestone"
	"agencydesk/internal/service/thread"
	"agencydesk/internal/storage"
	"agencydesk/pkg/db"
	"agencydesk/pkg/logger"
	"agencydesk/pkg/outbox"
	redisclient "agencydesk/pkg/redis"
	"agencydesk/pkg/util"
)

func main() {
	cfg := config.Load()

	log := logger.NewLogger()
	defer log.Sync()

	log.Info("Starting API server...")

	dbConn, err := db.NewConnection(cfg.DB, log)
	if err != nil {
		log.Fatal("DB initialization failed", zap.Error(err))
	}
	defer dbConn.Close()

	rdb := redisclient.NewClient(cfg.Redis)
	defer rdb.Close()

	deduper := util.NewDeduperWithLogger(rdb, 24*time.Hour, log)

	// Repositories
	clientRepo := repository.NewClientRepository(dbConn)
	projectRepo := repository.NewProjectRepository(dbConn)
	milestoneRepo := repository.NewMilestoneRepository(dbConn)
	quoteRepo := repository.NewQuoteRepository(dbConn)
	messageRepo := repository.NewMessageRepository(dbConn)
	skillRepo := repository.NewSkillRepository(dbConn)
	postRepo := repository.NewPostRepository(dbConn)
	commentRepo := repository.NewCommentRepository(dbConn)
	contactRepo := repository.NewContactRepository(dbConn)
	userRepo := repository.NewUserRepository(dbConn)
	outboxRepo := outbox.NewRepository(dbConn)

	// Outbound infrastructure
	mail := mailer.New(cfg.SMTP, log)
	uploader, err := storage.NewUploader(cfg.Storage, log)
	if err != nil {
		log.Fatal("Storage initialization failed", zap.Error(err))
	}

	// Services
	authService := auth.NewService(userRepo, cfg.JWT.Secret)
	inquiryService := inquiry.NewService(projectRepo, log)
	inboundService := inbound.NewService(projectRepo, messageRepo, uploader, deduper, log)
	deliveryService := delivery.NewService(messageRepo, log)
	milestoneService := milestone.NewService(projectRepo, milestoneRepo, milestone.StrategyByName(cfg.App.QuoteStrategy), log)
	invoiceService := invoice.NewService(quoteRepo, projectRepo, clientRepo, invoice.PDFRenderer{}, mail, cfg.SMTP.From, log)
	threadService := thread.NewService(projectRepo, clientRepo, messageRepo, mail, cfg.SMTP.From, log)

	router := httpserver.NewRouter(httpserver.Handlers{
		Auth:    handler.NewAuthHandler(authService, log),
		Inquiry: handler.NewInquiryHandler(inquiryService, log),
		Webhook: handler.NewWebhookHandler(inboundService, deliveryService, log),
		Project: handler.NewProjectHandler(projectRepo, milestoneRepo, milestoneService, log),
		Quote:   handler.NewQuoteHandler(quoteRepo, invoiceService, log),
		Client:  handler.NewClientHandler(clientRepo, log),
		Skill:   handler.NewSkillHandler(skillRepo, log),
		Post:    handler.NewPostHandler(postRepo, log),
		Comment: handler.NewCommentHandler(commentRepo, log),
		Contact: handler.NewContactHandler(contactRepo, log),
		Message: handler.NewMessageHandler(messageRepo, threadService, log),
		Outbox:  handler.NewOutboxHandler(outboxRepo, log),
	}, cfg.JWT.Secret, dbConn)

	log.Info("API server listening", zap.String("port", cfg.Server.Port))
	if err := router.Run(":" + cfg.Server.Port); err != nil {
		log.Fatal("Server failed", zap.Error(err))
	}
}
