package app

import (
	"golang.org/x/time/rate"

	"github.com/jobportal/recruitment/pkg/mail"
)

// SMTPSettings converts EmailConfig to the mail package representation.
func (c EmailConfig) SMTPSettings() mail.SMTPSettings {
	return mail.SMTPSettings{
		Enabled:  c.SMTP.Enabled,
		Host:     c.SMTP.Host,
		Port:     c.SMTP.Port,
		Username: c.SMTP.Username,
		Password: c.SMTP.Password,
		From:     c.SMTP.From,
		UseTLS:   c.SMTP.UseTLS,
		Timeout:  c.SMTP.Timeout,
	}
}

// Limiter throttles outbound mail; nil means unthrottled.
func (c EmailConfig) Limiter() *rate.Limiter {
	return mail.PerMinute(c.RatePerMinute)
}
