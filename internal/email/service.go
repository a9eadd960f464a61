package email

import (
	"context"
	"fmt"

	gomail "gopkg.in/gomail.v2"

	"github.com/Sliceofbanana/job-tracker-sub001/pkg/logger"
)

// Config holds SMTP settings for outbound security notices.
type Config struct {
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	Username string `mapstructure:"username"`
	Password string `mapstructure:"password"`
	From     string `mapstructure:"from"`
}

// AlertSender delivers security notices to affected users. Delivery failure
// is never fatal to the triggering operation; callers log and move on.
type AlertSender struct {
	dialer *gomail.Dialer
	from   string
	logger *logger.Logger
}

func NewAlertSender(cfg Config, log *logger.Logger) *AlertSender {
	return &AlertSender{
		dialer: gomail.NewDialer(cfg.Host, cfg.Port, cfg.Username, cfg.Password),
		from:   cfg.From,
		logger: log,
	}
}

// SendSecurityAlert sends a plain-text notice to the given address.
func (s *AlertSender) SendSecurityAlert(ctx context.Context, to, subject, body string) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	default:
	}

	msg := gomail.NewMessage()
	msg.SetHeader("From", s.from)
	msg.SetHeader("To", to)
	msg.SetHeader("Subject", subject)
	msg.SetBody("text/plain", body)

	if err := s.dialer.DialAndSend(msg); err != nil {
		return fmt.Errorf("failed to send security alert: %w", err)
	}

	s.logger.Info("security alert sent", "to", to, "subject", subject)
	return nil
}
