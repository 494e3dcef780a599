// Copyright 2024-2025 NetCracker Technology Corporation
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package client

import (
	"context"
	"fmt"
	"time"

	"github.com/qubership-export/delay-export-service/view"
	log "github.com/sirupsen/logrus"
	"github.com/wneessen/go-mail"
	"golang.org/x/time/rate"
)

const smtpTimeout = 30 * time.Second

type MailClient interface {
	Send(ctx context.Context, msg view.MailMessage) error
}

// NewMailClient returns an SMTP client, or a client that only logs messages when no SMTP host is configured.
func NewMailClient(creds *view.SmtpCreds) (MailClient, error) {
	ratePerSecond := creds.RatePerSecond
	if ratePerSecond <= 0 {
		ratePerSecond = 5
	}
	limiter := rate.NewLimiter(rate.Limit(ratePerSecond), 1)
	if creds.Host == "" {
		log.Warn("SMTP host is not set, mails will be written to the log only")
		return &logMailClientImpl{rateLimiter: limiter}, nil
	}
	opts := []mail.Option{
		mail.WithTimeout(smtpTimeout),
		mail.WithTLSPolicy(mail.TLSOpportunistic),
	}
	if creds.Port > 0 {
		opts = append(opts, mail.WithPort(creds.Port))
	}
	if creds.Username != "" {
		opts = append(opts,
			mail.WithSMTPAuth(mail.SMTPAuthPlain),
			mail.WithUsername(creds.Username),
			mail.WithPassword(creds.Password))
	}
	if _, err := mail.NewClient(creds.Host, opts...); err != nil {
		return nil, fmt.Errorf("invalid SMTP settings for %s: %w", creds.Host, err)
	}
	return &smtpMailClientImpl{host: creds.Host, opts: opts, rateLimiter: limiter}, nil
}

// smtpMailClientImpl opens a new SMTP connection per message, mail.Client is not shared between workers.
type smtpMailClientImpl struct {
	host        string
	opts        []mail.Option
	rateLimiter *rate.Limiter
}

func (s smtpMailClientImpl) Send(ctx context.Context, msg view.MailMessage) error {
	err := s.rateLimiter.Wait(ctx)
	if err != nil {
		return err
	}
	m, err := buildMailMessage(msg)
	if err != nil {
		return err
	}
	smtpClient, err := mail.NewClient(s.host, s.opts...)
	if err != nil {
		return err
	}
	start := time.Now()
	sendCtx, cancel := context.WithTimeout(ctx, smtpTimeout)
	defer cancel()
	// a server that accepts the connection and never answers must not block the caller past its deadline
	sent := make(chan error, 1)
	go func() {
		sent <- smtpClient.DialAndSendWithContext(sendCtx, m)
	}()
	select {
	case err = <-sent:
	case <-sendCtx.Done():
		err = sendCtx.Err()
	}
	if err != nil {
		return fmt.Errorf("failed to send mail to %v: %w", msg.EmailTo, err)
	}
	log.Debugf("Mail '%s' sent to %v in %d ms", msg.Subject, msg.EmailTo, time.Since(start).Milliseconds())
	return nil
}

type logMailClientImpl struct {
	rateLimiter *rate.Limiter
}

func (l logMailClientImpl) Send(ctx context.Context, msg view.MailMessage) error {
	err := l.rateLimiter.Wait(ctx)
	if err != nil {
		return err
	}
	log.Infof("Mail from %s (reply to %s) to %v: %s\n%s", msg.EmailFrom, msg.ReplyTo, msg.EmailTo, msg.Subject, msg.BodyHtml)
	return nil
}

// buildMailMessage validates the addresses and encodes the headers of an HTML mail.
func buildMailMessage(msg view.MailMessage) (*mail.Msg, error) {
	if len(msg.EmailTo) == 0 {
		return nil, fmt.Errorf("mail '%s' has no recipients", msg.Subject)
	}
	m := mail.NewMsg()
	if err := m.From(msg.EmailFrom); err != nil {
		return nil, fmt.Errorf("invalid sender address %q: %w", msg.EmailFrom, err)
	}
	if err := m.To(msg.EmailTo...); err != nil {
		return nil, fmt.Errorf("invalid recipient address in %v: %w", msg.EmailTo, err)
	}
	if msg.ReplyTo != "" {
		if err := m.ReplyTo(msg.ReplyTo); err != nil {
			return nil, fmt.Errorf("invalid reply-to address %q: %w", msg.ReplyTo, err)
		}
	}
	m.Subject(msg.Subject)
	m.SetDate()
	m.SetBodyString(mail.TypeTextHTML, msg.BodyHtml)
	return m, nil
}
