package report

import (
	"errors"
	"fmt"
	"net/smtp"
	"strings"

	"go.uber.org/zap"
)

// MailConfig is the SMTP delivery configuration for the digest email.
type MailConfig struct {
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	Username string `mapstructure:"username"`
	From     string `mapstructure:"from"`
	To       string `mapstructure:"to"`
}

func (c MailConfig) validate() error {
	if c.Host == "" || c.Port <= 0 {
		return errors.New("smtp host and port are required")
	}
	if c.From == "" || c.To == "" {
		return errors.New("from and to addresses are required")
	}
	return nil
}

// sendFunc matches smtp.SendMail; tests substitute a recorder.
type sendFunc func(addr string, a smtp.Auth, from string, to []string, msg []byte) error

// Mailer delivers rendered digests over SMTP with plain authentication.
type Mailer struct {
	cfg      MailConfig
	password string
	logger   *zap.Logger
	send     sendFunc
}

func NewMailer(cfg MailConfig, password string, logger *zap.Logger) *Mailer {
	return &Mailer{
		cfg:      cfg,
		password: password,
		logger:   logger,
		send:     smtp.SendMail,
	}
}

// Send delivers body to the configured recipient with the given subject.
func (m *Mailer) Send(subject, body string) error {
	if err := m.cfg.validate(); err != nil {
		return fmt.Errorf("mail config: %w", err)
	}

	var b strings.Builder
	fmt.Fprintf(&b, "From: %s\r\n", m.cfg.From)
	fmt.Fprintf(&b, "To: %s\r\n", m.cfg.To)
	fmt.Fprintf(&b, "Subject: %s\r\n", subject)
	b.WriteString("MIME-Version: 1.0\r\n")
	b.WriteString("Content-Type: text/plain; charset=utf-8\r\n")
	b.WriteString("\r\n")
	b.WriteString(body)

	var auth smtp.Auth
	if m.cfg.Username != "" {
		auth = smtp.PlainAuth("", m.cfg.Username, m.password, m.cfg.Host)
	}

	addr := fmt.Sprintf("%s:%d", m.cfg.Host, m.cfg.Port)
	if err := m.send(addr, auth, m.cfg.From, []string{m.cfg.To}, []byte(b.String())); err != nil {
		return fmt.Errorf("send mail: %w", err)
	}

	m.logger.Info("digest email sent",
		zap.String("to", m.cfg.To),
		zap.String("subject", subject),
	)
	return nil
}
