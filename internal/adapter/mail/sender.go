// Package mail implements the SMTP notification sender.
package mail

import (
	"context"
	"fmt"

	"checkout-bridge/config"
	"checkout-bridge/internal/core/ports"
	"checkout-bridge/pkg/apperror"

	"github.com/rs/zerolog"
	"gopkg.in/gomail.v2"
)

// Dialer interface for testability (satisfied by *gomail.Dialer).
type Dialer interface {
	DialAndSend(m ...*gomail.Message) error
}

// Sender implements ports.Notifier over an authenticated SMTP relay.
type Sender struct {
	dialer Dialer
	from   string
	log    zerolog.Logger
}

// New creates an SMTP sender from mail configuration.
func New(cfg config.MailConfig, log zerolog.Logger) *Sender {
	return &Sender{
		dialer: gomail.NewDialer(cfg.Host, cfg.Port, cfg.User, cfg.Password),
		from:   cfg.Sender(),
		log:    log,
	}
}

// NewWithDialer creates a sender with a custom dialer (used in tests).
func NewWithDialer(d Dialer, from string, log zerolog.Logger) *Sender {
	return &Sender{dialer: d, from: from, log: log}
}

// Send delivers one HTML email. The SMTP dial-and-send runs in a goroutine
// so the dispatch context's deadline bounds a hung relay; the abandoned
// attempt finishes or fails on its own. Failures map to MailUnavailable and
// are never retried.
func (s *Sender) Send(ctx context.Context, msg ports.Email) error {
	m := gomail.NewMessage()
	m.SetHeader("From", s.from)
	m.SetHeader("To", msg.To...)
	if msg.CC != "" {
		m.SetHeader("Cc", msg.CC)
	}
	if msg.ReplyTo != "" {
		m.SetHeader("Reply-To", msg.ReplyTo)
	}
	m.SetHeader("Subject", msg.Subject)
	m.SetBody("text/html", msg.HTML)

	done := make(chan error, 1)
	go func() {
		done <- s.dialer.DialAndSend(m)
	}()

	select {
	case err := <-done:
		if err != nil {
			return apperror.ErrMailUnavailable(fmt.Errorf("send to %v: %w", msg.To, err))
		}
		s.log.Info().Strs("to", msg.To).Str("subject", msg.Subject).Msg("mail sent")
		return nil
	case <-ctx.Done():
		return apperror.ErrMailUnavailable(fmt.Errorf("send to %v: %w", msg.To, ctx.Err()))
	}
}
