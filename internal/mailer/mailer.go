// Package mailer sends offer e-mails for approved quotations. In simulate
// mode (the default outside production) no SMTP connection is made; the send
// is logged and treated as successful so the workflow can be exercised
// without mail infrastructure.
package mailer

import (
	"fmt"
	"net/smtp"
	"strings"

	"go.uber.org/zap"

	"github.com/ami-aftermarket/quotation-api/internal/config"
)

// Mailer delivers plain-text e-mail messages
type Mailer interface {
	Send(to, subject, body string) error
}

// Message assembles an RFC 5322 plain-text message
func message(from, to, subject, body string) []byte {
	var b strings.Builder
	fmt.Fprintf(&b, "From: %s\r\n", from)
	fmt.Fprintf(&b, "To: %s\r\n", to)
	fmt.Fprintf(&b, "Subject: %s\r\n", subject)
	b.WriteString("MIME-Version: 1.0\r\n")
	b.WriteString("Content-Type: text/plain; charset=utf-8\r\n")
	b.WriteString("\r\n")
	b.WriteString(body)
	return []byte(b.String())
}

// SMTPMailer sends mail through a real SMTP relay with PLAIN auth
type SMTPMailer struct {
	cfg    *config.MailerConfig
	logger *zap.Logger
}

// SimulatedMailer logs sends without touching the network
type SimulatedMailer struct {
	logger *zap.Logger
	from   string
}

// New returns the mailer matching the configuration
func New(cfg *config.MailerConfig, logger *zap.Logger) Mailer {
	if cfg.Simulate {
		logger.Info("Mailer running in simulate mode, no e-mail will leave the host")
		return &SimulatedMailer{logger: logger, from: cfg.From}
	}
	return &SMTPMailer{cfg: cfg, logger: logger}
}

// Send delivers the message through the configured SMTP relay
func (m *SMTPMailer) Send(to, subject, body string) error {
	addr := fmt.Sprintf("%s:%d", m.cfg.Host, m.cfg.Port)
	auth := smtp.PlainAuth("", m.cfg.Username, m.cfg.Password, m.cfg.Host)

	msg := message(m.cfg.From, to, subject, body)
	if err := smtp.SendMail(addr, auth, m.cfg.From, []string{to}, msg); err != nil {
		m.logger.Error("SMTP send failed",
			zap.String("recipient", to),
			zap.String("subject", subject),
			zap.Error(err),
		)
		return fmt.Errorf("smtp send to %s failed: %w", to, err)
	}

	m.logger.Info("E-mail sent",
		zap.String("recipient", to),
		zap.String("subject", subject),
	)
	return nil
}

// Send logs the message and reports success
func (m *SimulatedMailer) Send(to, subject, body string) error {
	m.logger.Info("Simulated e-mail send",
		zap.String("from", m.from),
		zap.String("recipient", to),
		zap.String("subject", subject),
		zap.Int("body_bytes", len(body)),
	)
	return nil
}
