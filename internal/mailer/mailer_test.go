package mailer

import (
	"bytes"
	"context"
	"log/slog"
	"strings"
	"testing"
)

func TestLogMailerSend(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, nil))

	m := NewLogMailer(logger)
	err := m.Send(context.Background(), "boss@example.com", "Pending Report", "<html></html>")
	if err != nil {
		t.Fatalf("Send() failed: %v", err)
	}
	if !strings.Contains(buf.String(), "boss@example.com") {
		t.Errorf("log output missing recipient: %s", buf.String())
	}
}

func TestSMTPMailerRejectsBadAddresses(t *testing.T) {
	m := NewSMTPMailer(SMTPConfig{Host: "smtp.example.com", Port: 587, From: "not an address"})
	if err := m.Send(context.Background(), "boss@example.com", "s", "b"); err == nil {
		t.Error("Send() with invalid from address must fail")
	}

	m = NewSMTPMailer(SMTPConfig{Host: "smtp.example.com", Port: 587, From: "registry@example.com"})
	if err := m.Send(context.Background(), "not an address", "s", "b"); err == nil {
		t.Error("Send() with invalid recipient must fail")
	}
}
