package services

import (
	"kirayo/config"
	"kirayo/internal/logger"

	"gopkg.in/gomail.v2"
)

// MailService sends best-effort email. Delivery failures are logged and
// never surfaced to callers; mail must not block the request path.
type MailService struct {
	dialer  *gomail.Dialer
	sender  string
	enabled bool
	log     logger.Logger
}

func NewMailService(config config.Config) *MailService {
	log := logger.New("mailService")

	service := &MailService{
		sender:  config.SMTPSender,
		enabled: config.SMTPHost != "",
		log:     log,
	}

	if service.enabled {
		service.dialer = gomail.NewDialer(config.SMTPHost, config.SMTPPort, config.SMTPUser, config.SMTPPassword)
		log.Info("Mail service enabled", "host", config.SMTPHost, "sender", config.SMTPSender)
	} else {
		log.Info("Mail service disabled, SMTP_HOST not set")
	}

	return service
}

// Send dispatches one message asynchronously.
func (s *MailService) Send(to, subject, body string) {
	if !s.enabled || to == "" {
		return
	}

	go func() {
		log := s.log.Function("Send")

		message := gomail.NewMessage()
		message.SetHeader("From", s.sender)
		message.SetHeader("To", to)
		message.SetHeader("Subject", subject)
		message.SetBody("text/plain", body)

		if err := s.dialer.DialAndSend(message); err != nil {
			log.Er("failed to send email", err, "to", to, "subject", subject)
			return
		}
		log.Info("Email sent", "to", to, "subject", subject)
	}()
}
