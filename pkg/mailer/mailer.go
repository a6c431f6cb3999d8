package mailer

import (
	"fmt"
	"net/smtp"

	"contactbook/pkg/rabbitmq"
)

// Config holds SMTP connection details.
type Config struct {
	Host     string
	Port     string
	From     string
	Username string
	Password string
}

// Mailer renders and delivers the emails drained from the email queue.
type Mailer struct {
	cfg Config
}

// New creates a Mailer with the given SMTP configuration.
func New(cfg Config) *Mailer {
	return &Mailer{cfg: cfg}
}

// Send renders the email for a queued task and delivers it over SMTP.
func (m *Mailer) Send(task rabbitmq.EmailTask) error {
	subject, body, err := render(task)
	if err != nil {
		return err
	}

	msg := fmt.Sprintf("From: %s\r\nTo: %s\r\nSubject: %s\r\nMIME-Version: 1.0\r\nContent-Type: text/plain; charset=utf-8\r\n\r\n%s\r\n",
		m.cfg.From, task.To, subject, body)

	addr := m.cfg.Host + ":" + m.cfg.Port
	var auth smtp.Auth
	if m.cfg.Username != "" {
		auth = smtp.PlainAuth("", m.cfg.Username, m.cfg.Password, m.cfg.Host)
	}
	if err := smtp.SendMail(addr, auth, m.cfg.From, []string{task.To}, []byte(msg)); err != nil {
		return fmt.Errorf("failed to send %s email to %s: %w", task.Kind, task.To, err)
	}
	return nil
}

func render(task rabbitmq.EmailTask) (subject, body string, err error) {
	switch task.Kind {
	case rabbitmq.KindVerification:
		subject = "Confirm your email"
		body = fmt.Sprintf(
			"Hello %s,\n\nPlease confirm your email address by opening the link below:\n\n%s/api/auth/confirmed_email/%s\n",
			task.Username, task.BaseURL, task.Token)
	case rabbitmq.KindPasswordReset:
		subject = "Reset your password"
		body = fmt.Sprintf(
			"Hello %s,\n\nA password reset was requested for your account. Open the link below to choose a new password:\n\n%s/api/auth/reset-password/%s\n",
			task.Username, task.BaseURL, task.Token)
	default:
		return "", "", fmt.Errorf("unknown email task kind %q", task.Kind)
	}
	return subject, body, nil
}
