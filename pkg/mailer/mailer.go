// Package mailer sends transactional email.
package mailer

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/wneessen/go-mail"
	"go.uber.org/zap"

	"sauvini-api/pkg/utils"
)

var ErrDelivery = errors.New("email delivery failed")

type Message struct {
	To       string
	Subject  string
	TextBody string
	HTMLBody string
}

// Mailer delivers a single message. Implementations return an error wrapping
// ErrDelivery when the message could not be handed off.
type Mailer interface {
	Send(ctx context.Context, msg Message) error
}

type smtpMailer struct {
	client *mail.Client
	from   string
	log    *zap.Logger
}

func NewSMTP(cfg utils.EmailConfig, log *zap.Logger) (Mailer, error) {
	opts := []mail.Option{
		mail.WithPort(cfg.Port),
		mail.WithTLSPortPolicy(mail.TLSOpportunistic),
		mail.WithTimeout(15 * time.Second),
	}
	if cfg.User != "" {
		opts = append(opts,
			mail.WithSMTPAuth(mail.SMTPAuthPlain),
			mail.WithUsername(cfg.User),
			mail.WithPassword(cfg.Password),
		)
	}

	client, err := mail.NewClient(cfg.Host, opts...)
	if err != nil {
		return nil, fmt.Errorf("create smtp client: %w", err)
	}

	return &smtpMailer{
		client: client,
		from:   cfg.From,
		log:    log.With(zap.String("component", "mailer")),
	}, nil
}

func (m *smtpMailer) Send(ctx context.Context, msg Message) error {
	message := mail.NewMsg()
	if err := message.From(m.from); err != nil {
		return fmt.Errorf("%w: invalid sender: %v", ErrDelivery, err)
	}
	if err := message.To(msg.To); err != nil {
		return fmt.Errorf("%w: invalid recipient: %v", ErrDelivery, err)
	}
	message.Subject(msg.Subject)
	message.SetBodyString(mail.TypeTextPlain, msg.TextBody)
	if msg.HTMLBody != "" {
		message.AddAlternativeString(mail.TypeTextHTML, msg.HTMLBody)
	}

	if err := m.client.DialAndSendWithContext(ctx, message); err != nil {
		m.log.Error("failed to send email",
			zap.String("to", msg.To),
			zap.String("subject", msg.Subject),
			zap.Error(err),
		)
		return fmt.Errorf("%w: %v", ErrDelivery, err)
	}

	m.log.Info("email sent", zap.String("to", msg.To), zap.String("subject", msg.Subject))
	return nil
}

type logMailer struct {
	log *zap.Logger
}

// NewLog returns a Mailer that only logs messages. Used when no SMTP host is
// configured.
func NewLog(log *zap.Logger) Mailer {
	return &logMailer{log: log.With(zap.String("component", "mailer"))}
}

func (m *logMailer) Send(_ context.Context, msg Message) error {
	m.log.Info("email not sent, smtp disabled",
		zap.String("to", msg.To),
		zap.String("subject", msg.Subject),
		zap.String("body", msg.TextBody),
	)
	return nil
}

// New picks the SMTP mailer when configured and the log mailer otherwise.
func New(cfg utils.EmailConfig, log *zap.Logger) (Mailer, error) {
	if !cfg.Enabled() {
		return NewLog(log), nil
	}
	return NewSMTP(cfg, log)
}
