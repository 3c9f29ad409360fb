// Package mail emails BoxNow shipping vouchers to the back office.
package mail

import (
	"fmt"
	"io"

	"gopkg.in/gomail.v2"

	"github.com/infotechmar-dot/godsnbees-boxnow-backend/internal/config"
)

// Mailer sends the shipping voucher PDF for an order. Implementations
// must be safe for concurrent use.
type Mailer interface {
	SendVoucher(orderNumber string, pdf []byte) error
}

// SMTPMailer delivers vouchers over SMTP to the configured recipients.
type SMTPMailer struct {
	from string
	to   []string
	send func(m ...*gomail.Message) error
}

func NewSMTPMailer(cfg config.MailConfig) *SMTPMailer {
	dialer := gomail.NewDialer(cfg.Host, cfg.Port, cfg.User, cfg.Pass)
	dialer.SSL = cfg.Secure

	from := cfg.From
	if from == "" {
		from = cfg.User
	}
	return &SMTPMailer{
		from: from,
		to:   cfg.To,
		send: dialer.DialAndSend,
	}
}

func (m *SMTPMailer) SendVoucher(orderNumber string, pdf []byte) error {
	msg := gomail.NewMessage()
	msg.SetHeader("From", m.from)
	msg.SetHeader("To", m.to...)
	msg.SetHeader("Subject", fmt.Sprintf("BoxNow voucher for order %s", orderNumber))
	msg.SetBody("text/plain", fmt.Sprintf("The BoxNow shipping voucher for order %s is attached.\n", orderNumber))
	msg.Attach(
		fmt.Sprintf("voucher-%s.pdf", orderNumber),
		gomail.SetCopyFunc(func(w io.Writer) error {
			_, err := w.Write(pdf)
			return err
		}),
	)

	if err := m.send(msg); err != nil {
		return fmt.Errorf("send voucher mail: %w", err)
	}
	return nil
}
