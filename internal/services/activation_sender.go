package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/sajjaddev-web/desk/pkg/logger"
	"github.com/sajjaddev-web/desk/pkg/mail"
	"github.com/sajjaddev-web/desk/pkg/metrics"
)

const activationSendTimeout = 30 * time.Second

// ActivationSender delivers activation emails. Dispatch is fire-and-forget:
// the lifecycle service never waits on or learns about delivery failures,
// which are only logged and counted here.
type ActivationSender struct {
	mailer  mail.Mailer
	baseURL string
	log     *zap.Logger
}

// NewActivationSender constructs an ActivationSender. The base URL is the
// public address the activation link points at.
func NewActivationSender(mailer mail.Mailer, baseURL string) (*ActivationSender, error) {
	if mailer == nil {
		return nil, errors.New("activation sender: mailer is required")
	}

	return &ActivationSender{
		mailer:  mailer,
		baseURL: strings.TrimRight(strings.TrimSpace(baseURL), "/"),
		log:     logger.WithModule("activation"),
	}, nil
}

// Dispatch hands the activation email to a detached goroutine and returns
// immediately.
func (s *ActivationSender) Dispatch(email, token string) {
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), activationSendTimeout)
		defer cancel()

		if err := s.Send(ctx, email, token); err != nil {
			if errors.Is(err, mail.ErrSMTPDisabled) {
				metrics.ActivationEmails.WithLabelValues("disabled").Inc()
				s.log.Debug("activation email skipped, smtp disabled", zap.String("email", email))
				return
			}
			metrics.ActivationEmails.WithLabelValues("failed").Inc()
			s.log.Error("activation email failed", zap.String("email", email), zap.Error(err))
			return
		}

		metrics.ActivationEmails.WithLabelValues("sent").Inc()
		s.log.Info("activation email sent", zap.String("email", email))
	}()
}

// Send delivers the activation email synchronously.
func (s *ActivationSender) Send(ctx context.Context, email, token string) error {
	msg := mail.Message{
		To:      email,
		Subject: "Activate your desk application",
		Body:    s.body(s.Link(token)),
	}

	return s.mailer.Send(ctx, msg)
}

// Link builds the activation URL embedded in the email.
func (s *ActivationSender) Link(token string) string {
	return fmt.Sprintf("%s/auth/activation?token=%s", s.baseURL, token)
}

func (s *ActivationSender) body(link string) string {
	return fmt.Sprintf("Welcome to desk!\n\nActivate your application by visiting the link below:\n%s\n\nIf you did not register this application, you can ignore this message.\n", link)
}
