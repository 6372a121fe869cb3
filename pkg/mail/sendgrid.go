package mail

import (
	"context"
	"fmt"
	"net/http"

	"github.com/sendgrid/sendgrid-go"
	sgmail "github.com/sendgrid/sendgrid-go/helpers/mail"
	"go.uber.org/zap"

	"github.com/matchpoint-id/sports-reg-api/pkg/config"
)

// SendgridMailer delivers mail through the SendGrid v3 API.
type SendgridMailer struct {
	client  *sendgrid.Client
	from    *sgmail.Email
	appName string
	logger  *zap.Logger
}

var _ Mailer = (*SendgridMailer)(nil)

// NewSendgridMailer builds a SendGrid-backed mailer.
func NewSendgridMailer(cfg config.MailConfig, logger *zap.Logger) *SendgridMailer {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &SendgridMailer{
		client:  sendgrid.NewSendClient(cfg.SendgridKey),
		from:    sgmail.NewEmail(cfg.FromName, cfg.FromEmail),
		appName: cfg.AppName,
		logger:  logger,
	}
}

func (m *SendgridMailer) SendWelcome(ctx context.Context, toEmail, toName string) error {
	subject := fmt.Sprintf("[%s] Your guardian account", m.appName)
	text := fmt.Sprintf(
		"Hi %s,\n\nAn account was created for you on %s so you can follow your athlete's registrations. Use the password-reset flow on first login.\n",
		toName, m.appName,
	)
	html := fmt.Sprintf(
		"<p>Hi %s,</p><p>An account was created for you on %s so you can follow your athlete's registrations. Use the password-reset flow on first login.</p>",
		toName, m.appName,
	)

	message := sgmail.NewSingleEmail(m.from, subject, sgmail.NewEmail(toName, toEmail), text, html)
	resp, err := m.client.SendWithContext(ctx, message)
	if err != nil {
		return fmt.Errorf("sendgrid send: %w", err)
	}
	if resp.StatusCode >= http.StatusBadRequest {
		return fmt.Errorf("sendgrid send: status %d", resp.StatusCode)
	}

	m.logger.Debug("welcome email sent", zap.String("to", toEmail))
	return nil
}
