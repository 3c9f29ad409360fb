package mail

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"gopkg.in/gomail.v2"

	"github.com/infotechmar-dot/godsnbees-boxnow-backend/internal/config"
)

func TestSMTPMailerSendVoucher(t *testing.T) {
	var sent *gomail.Message
	m := NewSMTPMailer(config.MailConfig{
		Host: "smtp.example.com",
		Port: 587,
		User: "mailer@example.com",
		From: "shop@example.com",
		To:   []string{"warehouse@example.com", "office@example.com"},
	})
	m.send = func(msgs ...*gomail.Message) error {
		if len(msgs) != 1 {
			t.Fatalf("send called with %d messages, want 1", len(msgs))
		}
		sent = msgs[0]
		return nil
	}

	pdf := []byte("%PDF-1.4 voucher bytes")
	if err := m.SendVoucher("1001", pdf); err != nil {
		t.Fatalf("SendVoucher() error = %v", err)
	}
	if sent == nil {
		t.Fatal("no message was sent")
	}

	if got := sent.GetHeader("From"); len(got) != 1 || got[0] != "shop@example.com" {
		t.Errorf("From = %v, want shop@example.com", got)
	}
	if got := sent.GetHeader("To"); len(got) != 2 || got[0] != "warehouse@example.com" {
		t.Errorf("To = %v, want two configured recipients", got)
	}
	if got := sent.GetHeader("Subject"); len(got) != 1 || !strings.Contains(got[0], "1001") {
		t.Errorf("Subject = %v, want the order number in it", got)
	}

	var buf bytes.Buffer
	if _, err := sent.WriteTo(&buf); err != nil {
		t.Fatalf("render message: %v", err)
	}
	raw := buf.String()
	if !strings.Contains(raw, "voucher-1001.pdf") {
		t.Error("rendered message is missing the voucher attachment name")
	}
	if !strings.Contains(raw, "application/pdf") {
		t.Error("rendered message is missing the pdf content type")
	}
}

func TestSMTPMailerFromFallsBackToUser(t *testing.T) {
	m := NewSMTPMailer(config.MailConfig{
		Host: "smtp.example.com",
		Port: 587,
		User: "mailer@example.com",
		To:   []string{"office@example.com"},
	})
	if m.from != "mailer@example.com" {
		t.Errorf("from = %q, want the SMTP user as fallback", m.from)
	}
}

func TestSMTPMailerSendError(t *testing.T) {
	m := NewSMTPMailer(config.MailConfig{
		Host: "smtp.example.com",
		Port: 587,
		To:   []string{"office@example.com"},
	})
	m.send = func(msgs ...*gomail.Message) error {
		return errors.New("connection refused")
	}

	err := m.SendVoucher("1002", []byte("pdf"))
	if err == nil || !strings.Contains(err.Error(), "connection refused") {
		t.Errorf("SendVoucher() error = %v, want wrapped dial failure", err)
	}
}
