package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/teambuilder/config"
	"github.com/oksasatya/teambuilder/internal/application"
	"github.com/oksasatya/teambuilder/pkg/helpers"
	"github.com/oksasatya/teambuilder/pkg/mailer"
)

func main() {
	_ = godotenv.Load()
	cfg := config.Load()
	logger := helpers.NewLogger(cfg.AppName+"-notify-worker", cfg.Env, cfg.LogLevel)

	if !cfg.MailSendEnabled {
		logger.Info("MAIL_SEND_ENABLED=false; notify worker disabled (no real emails will be sent)")
		return
	}
	if cfg.RabbitMQURL == "" || cfg.RabbitMQCelebrationQueue == "" {
		logger.Fatal("RabbitMQ not configured")
	}
	if cfg.MailgunDomain == "" || cfg.MailgunAPIKey == "" || cfg.MailgunSender == "" {
		logger.Fatal("Mailgun not configured")
	}

	consumer, err := helpers.NewRabbitConsumer(cfg.RabbitMQURL, cfg.RabbitMQCelebrationQueue, 16)
	if err != nil {
		logger.Fatalf("amqp: %v", err)
	}
	defer consumer.Close()

	msgs, err := consumer.Deliveries()
	if err != nil {
		logger.Fatalf("consume: %v", err)
	}

	m := &application.CelebrationMailer{
		Sender:      mailer.NewMailgun(cfg.MailgunDomain, cfg.MailgunAPIKey, cfg.MailgunSender, cfg.MailgunAPIBase),
		AppName:     cfg.AppName,
		CompanyName: cfg.CompanyName,
		AppURL:      cfg.AppURL,
		Logger:      logger,
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	done := make(chan struct{})

	go func() {
		for msg := range msgs {
			handleDelivery(ctx, m, msg, logger)
		}
		close(done)
	}()

	helpers.LogInfo(logger, "notify worker listening", logrus.Fields{"queue": cfg.RabbitMQCelebrationQueue})
	<-stop
	logger.Info("shutting down...")
	cancel()
	select {
	case <-done:
	case <-time.After(2 * time.Second):
	}
}

// handleDelivery acks handled messages, drops unprocessable ones and
// requeues the rest.
func handleDelivery(ctx context.Context, m *application.CelebrationMailer, msg amqp.Delivery, logger *logrus.Logger) {
	if msg.Type != "" && msg.Type != application.CelebrationEventType {
		helpers.LogError(logger, "unexpected message type", nil, logrus.Fields{"type": msg.Type})
		_ = msg.Nack(false, false)
		return
	}
	err := m.Handle(ctx, msg.Body)
	switch {
	case err == nil:
		_ = msg.Ack(false)
	case errors.Is(err, application.ErrBadMessage):
		helpers.LogError(logger, "bad message", err, nil)
		_ = msg.Nack(false, false)
	default:
		helpers.LogError(logger, "send failed", err, logrus.Fields{"redelivered": msg.Redelivered})
		_ = msg.Nack(false, true)
	}
}
