// Package mail sends the transactional emails of the account flows.
package mail

import (
	"context"
	"fmt"

	"github.com/rs/zerolog/log"

	"github.com/amazighishop/shop_api/internal/config"
	"github.com/amazighishop/shop_api/pkg/emailjs"
)

type Template string

const (
	TemplateVerification  Template = "verification"
	TemplatePasswordReset Template = "password_reset"
)

// Message is one email: a template and the variables it is rendered with.
type Message struct {
	To       string
	Name     string
	Template Template
	Vars     map[string]string
}

// Sender delivers messages.
type Sender interface {
	Send(ctx context.Context, msg Message) error
}

// NewSender returns an EmailJS backed sender when credentials are set, and a
// log-only sender otherwise.
func NewSender(cfg config.MailConfig) Sender {
	if !cfg.Enabled() {
		log.Warn().Msg("EmailJS credentials missing, emails will only be logged")
		return LogSender{}
	}
	client := emailjs.NewClient(emailjs.Config{
		ServiceID:  cfg.ServiceID,
		PublicKey:  cfg.PublicKey,
		PrivateKey: cfg.PrivateKey,
	})
	return NewEmailJSSender(client, map[Template]string{
		TemplateVerification:  cfg.TemplateID,
		TemplatePasswordReset: cfg.ResetTemplateID,
	})
}

type templateSender interface {
	Send(ctx context.Context, templateID string, params map[string]string) error
}

// EmailJSSender maps templates to EmailJS template ids.
type EmailJSSender struct {
	client    templateSender
	templates map[Template]string
}

func NewEmailJSSender(client templateSender, templates map[Template]string) *EmailJSSender {
	return &EmailJSSender{client: client, templates: templates}
}

func (s *EmailJSSender) Send(ctx context.Context, msg Message) error {
	templateID, ok := s.templates[msg.Template]
	if !ok || templateID == "" {
		return fmt.Errorf("no emailjs template configured for %q", msg.Template)
	}

	params := make(map[string]string, len(msg.Vars)+2)
	for k, v := range msg.Vars {
		params[k] = v
	}
	params["to_email"] = msg.To
	params["to_name"] = msg.Name

	if err := s.client.Send(ctx, templateID, params); err != nil {
		log.Error().Err(err).Str("to", msg.To).Str("template", string(msg.Template)).Msg("email delivery failed")
		return fmt.Errorf("send %s email: %w", msg.Template, err)
	}
	log.Info().Str("to", msg.To).Str("template", string(msg.Template)).Msg("email sent")
	return nil
}

// LogSender writes messages to the log instead of sending them.
type LogSender struct{}

func (LogSender) Send(_ context.Context, msg Message) error {
	log.Info().
		Str("to", msg.To).
		Str("template", string(msg.Template)).
		Interface("vars", msg.Vars).
		Msg("email not sent (mail disabled)")
	return nil
}
