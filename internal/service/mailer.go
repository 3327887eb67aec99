package service

import (
	"context"
	"errors"
	"fmt"
	"log"

	"github.com/bryhearnchi-bot/kgaytripguides-sub004/internal/config"
	"github.com/wneessen/go-mail"
)

// ErrMailDisabled is returned when no SMTP host is configured.
var ErrMailDisabled = errors.New("mail not configured")

// Mailer sends transactional mail through SMTP.
type Mailer struct {
	cfg config.MailConfig
}

func NewMailer(cfg config.MailConfig) *Mailer { return &Mailer{cfg: cfg} }

// ResetMessage builds the password-reset mail for to with link.
func (m *Mailer) ResetMessage(to, username, link string) (*mail.Msg, error) {
	msg := mail.NewMsg()
	if err := msg.FromFormat("Trip Guides", m.cfg.From); err != nil {
		return nil, fmt.Errorf("from: %w", err)
	}
	if err := msg.To(to); err != nil {
		return nil, fmt.Errorf("to: %w", err)
	}
	msg.Subject("Reset your password")
	msg.SetBodyString(mail.TypeTextPlain, fmt.Sprintf(
		"Hi %s,\n\nUse the link below to choose a new password. It expires in one hour.\n\n%s\n\nIf you did not ask for this, ignore this message.\n",
		username, link))
	return msg, nil
}

// SendPasswordReset mails a reset link.  Without SMTP it logs and returns
// ErrMailDisabled.
func (m *Mailer) SendPasswordReset(ctx context.Context, to, username, link string) error {
	if m == nil || !m.cfg.Enabled() {
		log.Printf("mail: SMTP not configured, reset mail for %s not sent", to)
		return ErrMailDisabled
	}
	msg, err := m.ResetMessage(to, username, link)
	if err != nil {
		return err
	}
	opts := []mail.Option{mail.WithPort(m.cfg.Port)}
	if m.cfg.Username != "" {
		opts = append(opts,
			mail.WithSMTPAuth(mail.SMTPAuthPlain),
			mail.WithUsername(m.cfg.Username),
			mail.WithPassword(m.cfg.Password),
		)
	}
	c, err := mail.NewClient(m.cfg.Host, opts...)
	if err != nil {
		log.Printf("mail: could not initialize smtp client: %v", err)
		return err
	}
	return c.DialAndSendWithContext(ctx, msg)
}
