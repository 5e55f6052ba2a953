// Copyright (c) 2026 Kritika. All rights reserved.
// Author: dev@kritika.app

/*
Package mailer delivers transactional email for the platform.

The only message today is the confirmation-code mail sent during signup.
Two implementations exist:

  - SMTPMailer: production delivery via an SMTP relay (wneessen/go-mail).
  - LogMailer: development fallback that writes the code to the log so the
    flow can be exercised without a mail server.
*/
package mailer

import (
	"context"
	"fmt"
	"log/slog"

	gomail "github.com/wneessen/go-mail"
)

// Mailer delivers confirmation codes to account holders.
type Mailer interface {
	SendConfirmationCode(context context.Context, email, username, code string) error
}

// # SMTP Delivery

// SMTPMailer sends mail through an authenticated SMTP relay.
type SMTPMailer struct {
	client *gomail.Client
	from   string
}

// NewSMTPMailer builds a mail client for the given relay.
func NewSMTPMailer(host string, port int, username, password, from string) (*SMTPMailer, error) {
	client, err := gomail.NewClient(host,
		gomail.WithPort(port),
		gomail.WithSMTPAuth(gomail.SMTPAuthPlain),
		gomail.WithUsername(username),
		gomail.WithPassword(password),
		gomail.WithTLSPolicy(gomail.TLSOpportunistic),
	)
	if err != nil {
		return nil, fmt.Errorf("mailer: failed to build SMTP client: %w", err)
	}

	return &SMTPMailer{client: client, from: from}, nil
}

// SendConfirmationCode implements [Mailer].
func (mailer *SMTPMailer) SendConfirmationCode(context context.Context, email, username, code string) error {
	message := gomail.NewMsg()

	if err := message.From(mailer.from); err != nil {
		return fmt.Errorf("mailer: invalid sender address: %w", err)
	}
	if err := message.To(email); err != nil {
		return fmt.Errorf("mailer: invalid recipient address: %w", err)
	}

	message.Subject("Your Kritika confirmation code")
	message.SetBodyString(gomail.TypeTextPlain, fmt.Sprintf(
		"Hello %s,\n\nYour confirmation code is: %s\n\nExchange it at POST /api/v1/auth/token to receive an access token.\n",
		username, code,
	))

	if err := mailer.client.DialAndSendWithContext(context, message); err != nil {
		return fmt.Errorf("mailer: delivery failed: %w", err)
	}

	return nil
}

// # Development Fallback

// LogMailer writes the confirmation code to the log instead of sending it.
type LogMailer struct {
	logger *slog.Logger
}

// NewLogMailer constructs a [LogMailer].
func NewLogMailer(logger *slog.Logger) *LogMailer {
	return &LogMailer{logger: logger}
}

// SendConfirmationCode implements [Mailer].
func (mailer *LogMailer) SendConfirmationCode(context context.Context, email, username, code string) error {
	mailer.logger.InfoContext(context, "confirmation_code_logged",
		slog.String("email", email),
		slog.String("username", username),
		slog.String("code", code),
	)
	return nil
}
