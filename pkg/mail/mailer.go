package mail

import (
	"context"

	"go.uber.org/zap"
)

// Mailer sends transactional email for the registration platform.
type Mailer interface {
	// SendWelcome notifies a freshly created guardian account.
	SendWelcome(ctx context.Context, toEmail, toName string) error
}

// ConsoleMailer logs messages instead of sending them. Used in development
// and whenever no SendGrid key is configured.
type ConsoleMailer struct {
	logger *zap.Logger
}

var _ Mailer = (*ConsoleMailer)(nil)

// NewConsoleMailer builds a logging mailer.
func NewConsoleMailer(logger *zap.Logger) *ConsoleMailer {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ConsoleMailer{logger: logger}
}

func (m *ConsoleMailer) SendWelcome(ctx context.Context, toEmail, toName string) error {
	m.logger.Info("welcome email (console)",
		zap.String("to", toEmail),
		zap.String("name", toName),
	)
	return nil
}
