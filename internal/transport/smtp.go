// internal/transport/smtp.go
package transport

import (
	"context"
	"crypto/tls"
	"fmt"
	"net/smtp"
	"strings"

	"agency-notify/internal/common/config"
	apperrors "agency-notify/internal/common/errors"
	"agency-notify/internal/common/logger"
	"agency-notify/internal/models"
	"agency-notify/internal/settings"
)

// SMTPSender delivers email over SMTP, with optional STARTTLS.
type SMTPSender struct {
	host     string
	port     int
	username string
	password string
	useTLS   bool
	from     string
	settings settings.Provider
	logger   logger.Logger
}

func NewSMTPSender(cfg config.Config, provider settings.Provider, log logger.Logger) *SMTPSender {
	sc := cfg.Integrations.SMTP
	return &SMTPSender{
		host:     sc.Host,
		port:     sc.Port,
		username: sc.Username,
		password: sc.Password,
		useTLS:   sc.UseTLS,
		from:     sc.DefaultFrom,
		settings: provider,
		logger:   log.WithFields(map[string]interface{}{"transport": "smtp"}),
	}
}

// SendEmail sends one plain-text message to a single recipient.
func (s *SMTPSender) SendEmail(ctx context.Context, address, subject, body string) error {
	if !s.settings.GetBool(ctx, models.SettingCategoryNotifications, models.SettingKeyEmailEnabled, true) {
		return apperrors.NewChannelDisabledError(models.ChannelEmail)
	}

	if err := ctx.Err(); err != nil {
		return apperrors.NewEmailSendError(fmt.Errorf("context cancelled before sending email: %w", err))
	}

	message := s.buildMessage(address, subject, body)
	addr := fmt.Sprintf("%s:%d", s.host, s.port)

	var auth smtp.Auth
	if s.username != "" && s.password != "" {
		auth = smtp.PlainAuth("", s.username, s.password, s.host)
	}

	var err error
	if s.useTLS {
		err = s.sendWithTLS(addr, auth, address, []byte(message))
	} else {
		err = smtp.SendMail(addr, auth, s.from, []string{address}, []byte(message))
	}
	if err != nil {
		return apperrors.NewEmailSendError(err)
	}

	s.logger.Debug("email accepted by SMTP server", map[string]interface{}{
		"to": address,
	})
	return nil
}

func (s *SMTPSender) buildMessage(to, subject, body string) string {
	var builder strings.Builder

	builder.WriteString(fmt.Sprintf("From: %s\r\n", s.from))
	builder.WriteString(fmt.Sprintf("To: %s\r\n", to))
	builder.WriteString(fmt.Sprintf("Subject: %s\r\n", subject))
	builder.WriteString("MIME-Version: 1.0\r\n")
	builder.WriteString("Content-Type: text/plain; charset=UTF-8\r\n")
	builder.WriteString("\r\n")
	builder.WriteString(body)

	return builder.String()
}

func (s *SMTPSender) sendWithTLS(addr string, auth smtp.Auth, to string, msg []byte) error {
	client, err := smtp.Dial(addr)
	if err != nil {
		return fmt.Errorf("failed to connect to SMTP server: %w", err)
	}
	defer client.Close()

	tlsConfig := &tls.Config{
		ServerName: s.host,
	}
	if err = client.StartTLS(tlsConfig); err != nil {
		return fmt.Errorf("failed to start TLS: %w", err)
	}

	if auth != nil {
		if err = client.Auth(auth); err != nil {
			return fmt.Errorf("SMTP authentication failed: %w", err)
		}
	}

	if err = client.Mail(s.from); err != nil {
		return fmt.Errorf("failed to set sender: %w", err)
	}
	if err = client.Rcpt(to); err != nil {
		return fmt.Errorf("failed to set recipient %s: %w", to, err)
	}

	w, err := client.Data()
	if err != nil {
		return fmt.Errorf("failed to open data writer: %w", err)
	}
	if _, err = w.Write(msg); err != nil {
		return fmt.Errorf("failed to write message: %w", err)
	}
	if err = w.Close(); err != nil {
		return fmt.Errorf("failed to close data writer: %w", err)
	}

	return client.Quit()
}
