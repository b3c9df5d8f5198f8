// Package sender отправляет покупателям письма-чеки о завершённых покупках.
package sender

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"

	"github.com/barakahtool/barakah-backend/internal/lib/sl"
	"github.com/barakahtool/barakah-backend/internal/lib/smtp"
	"github.com/barakahtool/barakah-backend/internal/models"
)

type Service struct {
	transport Transport
	log       *slog.Logger
}

// Transport устанавливает соединение с почтовым сервером.
type Transport interface {
	Connect() (smtp.Client, error)
	GetSMTPUser() string
}

// New создает новый экземпляр Service.
func New(transport Transport, log *slog.Logger) *Service {
	return &Service{
		transport: transport,
		log:       log,
	}
}

// SendPurchaseReceipt отправляет чек о покупке.
// Вызывается потребителем очереди purchase_receipts.
func (s *Service) SendPurchaseReceipt(body []byte) error {
	var message models.PurchaseNotification
	if err := json.Unmarshal(body, &message); err != nil {
		s.log.Error("Failed to unmarshal message body", "error", sl.Err(err))
		return fmt.Errorf("error unmarshalling message: %w", err)
	}

	name := message.Name
	if name == "" {
		name = message.Email
	}

	to := []string{message.Email}
	subject := fmt.Sprintf("Ваш чек: %s", message.ProductName)
	bodyText := fmt.Sprintf(
		"Здравствуйте, %s!\n\nСпасибо за покупку \"%s\".\n\nСумма: %s\nНомер платежа: %s\n\nДоступ к продукту уже открыт в вашем аккаунте.",
		name, message.ProductName,
		formatAmount(message.AmountPaidCents, message.Currency),
		message.PaymentIntentID)

	return s.sendEmail(to, subject, bodyText)
}

func formatAmount(cents int64, currency string) string {
	return fmt.Sprintf("%d.%02d %s", cents/100, cents%100, strings.ToUpper(currency))
}

func (s *Service) sendEmail(to []string, subject, bodyText string) error {
	msg := strings.Join([]string{
		"From: " + s.transport.GetSMTPUser(),
		"To: " + strings.Join(to, ";"),
		"Subject: " + subject,
		"MIME-Version: 1.0",
		"Content-Type: text/plain; charset=\"UTF-8\"",
		"",
		bodyText,
	}, "\r\n")

	client, err := s.transport.Connect()
	if err != nil {
		s.log.Error("Failed to connect to SMTP server", "error", sl.Err(err))
		return err
	}
	defer client.Close()

	if err := client.Mail(s.transport.GetSMTPUser()); err != nil {
		s.log.Error("Failed to set MAIL FROM", "from", s.transport.GetSMTPUser(), "error", sl.Err(err))
		return err
	}

	for _, addr := range to {
		if err := client.Rcpt(addr); err != nil {
			s.log.Error("Failed to set RCPT TO", "recipient", addr, "error", sl.Err(err))
			return err
		}
	}

	wc, err := client.Data()
	if err != nil {
		s.log.Error("Failed to get Data writer", "error", sl.Err(err))
		return err
	}

	_, err = wc.Write([]byte(msg))
	if err != nil {
		s.log.Error("Failed to write email body", "error", sl.Err(err))
		return err
	}

	if err = wc.Close(); err != nil {
		s.log.Error("Failed to close Data writer", "error", sl.Err(err))
		return err
	}

	if err = client.Quit(); err != nil {
		s.log.Error("Failed to quit SMTP client", "error", sl.Err(err))
		return err
	}

	s.log.Info("receipt email sent", "to", to)
	return nil
}
