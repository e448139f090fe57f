package mailer

import (
	"fmt"
	"net/smtp"
	"strings"

	"github.com/minkwan/storefront-backend/config"
	"github.com/minkwan/storefront-backend/pkg/logger"
)

// Mailer sends plain-text notification emails over SMTP. Delivery is
// fire-and-forget: callers use SendAsync and no delivery state is
// tracked anywhere.
type Mailer struct {
	cfg config.SMTPConfig
}

func New(cfg config.SMTPConfig) *Mailer {
	return &Mailer{cfg: cfg}
}

// Enabled reports whether an SMTP host is configured. When it is not,
// send calls log and return without error.
func (m *Mailer) Enabled() bool {
	return m.cfg.Host != ""
}

// Send delivers a single plain-text email synchronously.
func (m *Mailer) Send(to, subject, body string) error {
	if !m.Enabled() {
		logger.Debug("SMTP not configured, skipping email", map[string]interface{}{
			"to":      to,
			"subject": subject,
		})
		return nil
	}

	addr := fmt.Sprintf("%s:%s", m.cfg.Host, m.cfg.Port)
	msg := strings.Join([]string{
		"From: " + m.cfg.From,
		"To: " + to,
		"Subject: " + subject,
		"MIME-Version: 1.0",
		"Content-Type: text/plain; charset=\"UTF-8\"",
		"",
		body,
	}, "\r\n")

	var auth smtp.Auth
	if m.cfg.Username != "" {
		auth = smtp.PlainAuth("", m.cfg.Username, m.cfg.Password, m.cfg.Host)
	}

	if err := smtp.SendMail(addr, auth, m.cfg.From, []string{to}, []byte(msg)); err != nil {
		return fmt.Errorf("failed to send email: %w", err)
	}
	return nil
}

// SendAsync delivers an email on a background goroutine, logging failures
// instead of surfacing them to the request path.
func (m *Mailer) SendAsync(to, subject, body string) {
	go func() {
		if err := m.Send(to, subject, body); err != nil {
			logger.Error("Failed to send email", err, map[string]interface{}{
				"to":      to,
				"subject": subject,
			})
		}
	}()
}
