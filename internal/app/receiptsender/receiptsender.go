// Package receiptsender собирает фоновый сервис отправки чеков:
// подключение к брокеру сообщений и почтовый транспорт.
package receiptsender

import (
	"context"
	"log/slog"

	"github.com/streadway/amqp"

	"github.com/barakahtool/barakah-backend/internal/config"
	"github.com/barakahtool/barakah-backend/internal/lib/rabbitmq"
	"github.com/barakahtool/barakah-backend/internal/lib/sl"
	"github.com/barakahtool/barakah-backend/internal/lib/smtp"
	senderservice "github.com/barakahtool/barakah-backend/internal/services/sender"
)

type App struct {
	conn          *amqp.Connection
	ch            *amqp.Channel
	senderService *senderservice.Service
	logger        *slog.Logger
}

func New(cfg *config.Config, logger *slog.Logger) (*App, error) {
	conn, err := rabbitmq.Connect(cfg.AddressRabbitMQ, cfg.ConnectRetries, cfg.ConnectDelay)
	if err != nil {
		return nil, err
	}

	ch, err := rabbitmq.SetupChannel(conn, []rabbitmq.QueueConfig{rabbitmq.ReceiptQueue})
	if err != nil {
		if closeErr := conn.Close(); closeErr != nil {
			logger.Error("failed to close rabbitmq connection", sl.Err(closeErr))
		}
		return nil, err
	}

	transport := smtp.NewTransport(cfg, logger)
	senderService := senderservice.New(transport, logger)

	return &App{
		conn:          conn,
		ch:            ch,
		senderService: senderService,
		logger:        logger,
	}, nil
}

func (a *App) Run(ctx context.Context) error {
	err := rabbitmq.ConsumerMessage(ctx, a.ch, rabbitmq.ReceiptQueue.QueueName, a.senderService.SendPurchaseReceipt)
	if err != nil {
		a.logger.Error("failed to start receipt queue consumer", sl.Err(err))
		return err
	}

	<-ctx.Done()
	a.logger.Info("receipt sender shutting down gracefully")

	if err := a.ch.Close(); err != nil {
		a.logger.Error("failed to close channel", sl.Err(err))
	}
	if err := a.conn.Close(); err != nil {
		a.logger.Error("failed to close connection", sl.Err(err))
	}
	return nil
}
