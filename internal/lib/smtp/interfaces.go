// Package smtp реализует транспорт для отправки писем через SMTP с STARTTLS.
package smtp

import "io"

// Client — минимальный интерфейс SMTP-клиента, нужный отправителю писем.
type Client interface {
	Mail(from string) error
	Rcpt(to string) error
	Data() (io.WriteCloser, error)
	Quit() error
	Close() error
}
