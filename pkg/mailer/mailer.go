package mailer

import (
	"context"
	"fmt"
	"time"

	"github.com/anonto42/info-blog/backend/pkg/logger"
	"go.uber.org/zap"
	"gopkg.in/mail.v2"
)

const activationSubject = "Info Blog Activation"

// Mailer delivers activation and password-reset codes.
type Mailer interface {
	SendActivationCode(ctx context.Context, email, code string, isPassword bool) error
}

// ActivationBody renders the message text. Registration mails carry an
// activation link, reset mails carry the bare code.
func ActivationBody(publicURL, code string, isPassword bool) string {
	if isPassword {
		return code
	}
	return fmt.Sprintf("Thank you for registering. Please activate your account: %s/api/v1/account/activate/%s", publicURL, code)
}

type SMTPMailer struct {
	dialer    *mail.Dialer
	from      string
	publicURL string
}

func NewSMTPMailer(host string, port int, username, password, from, publicURL string) *SMTPMailer {
	d := mail.NewDialer(host, port, username, password)
	d.Timeout = 20 * time.Second
	d.SSL = port == 465
	return &SMTPMailer{dialer: d, from: from, publicURL: publicURL}
}

func (m *SMTPMailer) SendActivationCode(ctx context.Context, email, code string, isPassword bool) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	msg := mail.NewMessage()
	msg.SetHeader("From", m.from)
	msg.SetHeader("To", email)
	msg.SetHeader("Subject", activationSubject)
	msg.SetBody("text/plain", ActivationBody(m.publicURL, code, isPassword))

	if err := m.dialer.DialAndSend(msg); err != nil {
		logger.Log.Error("failed to send activation mail", zap.String("to", email), zap.Error(err))
		return fmt.Errorf("send mail to %s: %w", email, err)
	}
	logger.Log.Info("activation mail sent", zap.String("to", email), zap.Bool("reset", isPassword))
	return nil
}

// LogMailer writes messages to the log instead of sending them. It is used
// when no SMTP host is configured.
type LogMailer struct {
	publicURL string
}

func NewLogMailer(publicURL string) *LogMailer {
	return &LogMailer{publicURL: publicURL}
}

func (m *LogMailer) SendActivationCode(_ context.Context, email, code string, isPassword bool) error {
	logger.Log.Info("activation mail",
		zap.String("to", email),
		zap.String("subject", activationSubject),
		zap.String("body", ActivationBody(m.publicURL, code, isPassword)))
	return nil
}
