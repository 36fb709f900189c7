package email

import (
	"context"
	"fmt"

	"gopkg.in/gomail.v2"
)

type SMTPConfig struct {
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	Username string `mapstructure:"username"`
	Password string `mapstructure:"password"`
	From     string `mapstructure:"from"`
}

type smtpService struct {
	cfg    SMTPConfig
	dialer *gomail.Dialer
}

// NewSMTPService returns an email service backed by an SMTP relay.
func NewSMTPService(cfg SMTPConfig) Service {
	return &smtpService{
		cfg:    cfg,
		dialer: gomail.NewDialer(cfg.Host, cfg.Port, cfg.Username, cfg.Password),
	}
}

func (s *smtpService) SendBookingRequest(ctx context.Context, to, professionalName, serviceName, when string) error {
	subject := "Nouvelle demande de rendez-vous"
	body := fmt.Sprintf(
		"Bonjour %s,\n\nVous avez reçu une nouvelle demande de rendez-vous :\n\nService: %s\nDate: %s\n\nConnectez-vous à votre tableau de bord pour accepter ou refuser cette demande.",
		professionalName, serviceName, when,
	)
	return s.SendCustom(ctx, to, subject, body)
}

func (s *smtpService) SendStatusUpdate(ctx context.Context, to, recipientName, serviceName, when, newStatus string) error {
	subject := fmt.Sprintf("Votre rendez-vous est %s", statusLabel(newStatus))
	body := fmt.Sprintf(
		"Bonjour %s,\n\nVotre rendez-vous '%s' du %s a été %s.",
		recipientName, serviceName, when, statusLabel(newStatus),
	)
	return s.SendCustom(ctx, to, subject, body)
}

func (s *smtpService) SendCustom(ctx context.Context, to, subject, content string) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	default:
	}

	m := gomail.NewMessage()
	m.SetHeader("From", s.cfg.From)
	m.SetHeader("To", to)
	m.SetHeader("Subject", subject)
	m.SetBody("text/plain", content)

	if err := s.dialer.DialAndSend(m); err != nil {
		return fmt.Errorf("failed to send email to %s: %w", to, err)
	}
	return nil
}

func statusLabel(status string) string {
	switch status {
	case "confirmed":
		return "confirmé"
	case "cancelled":
		return "annulé"
	case "completed":
		return "terminé"
	default:
		return status
	}
}
