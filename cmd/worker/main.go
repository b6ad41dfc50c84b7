package main

import (
	"context"
	"time"

	"go.uber.org/zap"

	"agencydesk/config"
	mqcontracts "agencydesk/contracts/mq"
	"agencydesk/internal/mailer"
	"agencydesk/internal/mqhandler"
	"agencydesk/pkg/db"
	"agencydesk/pkg/logger"
	"agencydesk/pkg/mq"
	"agencydesk/pkg/outbox"
	redisclient "agencydesk/pkg/redis"
	"agencydesk/pkg/util"
)

func main() {
	cfg := config.Load()

	log := logger.NewLogger()
	defer log.Sync()

	log.Info("Starting worker...")

	dbConn, err := db.NewConnection(cfg.DB, log)
	if err != nil {
		log.Fatal("DB initialization failed", zap.Error(err))
	}
	defer dbConn.Close()

	rdb := redisclient.NewClient(cfg.Redis)
	defer rdb.Close()

	deduper := util.NewDeduperWithLogger(rdb, 24*time.Hour, log)
	retries := util.NewRetryCounter(rdb, time.Hour)

	mail := mailer.New(cfg.SMTP, log)

	// Outbox dispatcher
	publisher, err := mq.NewPublisher(cfg.MQ.URL)
	if err != nil {
		log.Fatal("Failed to init MQ publisher", zap.Error(err))
	}
	defer publisher.Close()

	outboxRepo := outbox.NewRepository(dbConn)
	dispatcher := outbox.NewDispatcher(outboxRepo, publisher, log)
	go dispatcher.Start(context.Background())

	// Notification handlers
	inquiryHandler := mqhandler.NewInquiryCreatedHandler(mail, cfg.App.AdminEmail, deduper, retries, log)
	emailHandler := mqhandler.NewEmailReceivedHandler(mail, cfg.App.AdminEmail, deduper, retries, log)
	quoteHandler := mqhandler.NewQuoteCreatedHandler(mail, cfg.App.AdminEmail, deduper, retries, log)
	quoteSentHandler := mqhandler.NewQuoteSentHandler(log)

	consumers := []struct {
		queue      string
		routingKey string
		handler    mq.MessageHandler
	}{
		{"inquiry.created.notify.q", mqcontracts.RoutingInquiryCreated, inquiryHandler.HandleInquiryCreated},
		{"email.received.notify.q", mqcontracts.RoutingEmailReceived, emailHandler.HandleEmailReceived},
		{"quote.created.notify.q", mqcontracts.RoutingQuoteCreated, quoteHandler.HandleQuoteCreated},
		{"quote.sent.audit.q", mqcontracts.RoutingQuoteSent, quoteSentHandler.HandleQuoteSent},
	}

	for _, c := range consumers {
		log.Info("Initializing consumer",
			zap.String("queue", c.queue),
			zap.String("routing_key", c.routingKey),
		)
		consumer, err := mq.NewConsumer(cfg.MQ.URL, c.queue, c.routingKey, log)
		if err != nil {
			log.Fatal("Failed to init consumer", zap.String("queue", c.queue), zap.Error(err))
		}
		consumer.SetHandler(c.handler)
		go func(queue string, consumer *mq.Consumer) {
			if err := consumer.StartConsuming(); err != nil {
				log.Fatal("Consumer failed", zap.String("queue", queue), zap.Error(err))
			}
		}(c.queue, consumer)
		defer consumer.Close()
	}

	log.Info("All consumers started, worker is ready to process messages")

	// Keep worker running
	select {}
}
