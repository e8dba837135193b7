// /home/krylon/go/src/github.com/blicero/ariadne/engine/mail.go
// -*- mode: go; coding: utf-8; -*-
// Created on 13. 05. 2023 by Benjamin Walkenhorst
// (c) 2023 Benjamin Walkenhorst
// Time-stamp: <2023-07-11 22:40:04 krylon>

package engine

import (
	"fmt"
	"log"

	"github.com/blicero/ariadne/common"
	"github.com/blicero/ariadne/config"
	"github.com/blicero/ariadne/logdomain"
	"github.com/blicero/ariadne/objects"
	"gopkg.in/gomail.v2"
)

// Mailer delivers email alarms. Errors are reported back to the caller,
// which surfaces them as a message.
type Mailer interface {
	Send(e *objects.Event) error
}

// smtpMailer sends email alarms through the SMTP server named in the
// configuration.
type smtpMailer struct {
	log  *log.Logger
	conf *config.MailConfig
}

func newMailer(conf *config.MailConfig) (*smtpMailer, error) {
	var (
		err error
		m   = &smtpMailer{conf: conf}
	)

	if m.log, err = common.GetLogger(logdomain.Mail); err != nil {
		return nil, err
	}

	return m, nil
} // func newMailer(conf *config.MailConfig) (*smtpMailer, error)

func (m *smtpMailer) Send(e *objects.Event) error {
	if m.conf.Server == "" {
		return fmt.Errorf("No SMTP server is configured")
	} else if len(e.EmailTo) == 0 {
		return fmt.Errorf("Event %d has no email recipients", e.ID)
	}

	var from = m.conf.From
	if e.EmailFromID != "" {
		from = e.EmailFromID
	}

	var msg = gomail.NewMessage()
	msg.SetHeader("From", from)
	msg.SetHeader("To", e.EmailTo...)
	msg.SetHeader("Subject", e.EmailSubject)
	msg.SetBody("text/plain", e.Text)

	for _, path := range e.EmailAttachments {
		msg.Attach(path)
	}

	var dialer = gomail.NewDialer(
		m.conf.Server,
		m.conf.Port,
		m.conf.Username,
		m.conf.Password)

	if err := dialer.DialAndSend(msg); err != nil {
		m.log.Printf("[ERROR] Cannot send email %q: %s\n",
			e.EmailSubject,
			err.Error())
		return err
	}

	m.log.Printf("[INFO] Sent email %q to %d recipients\n",
		e.EmailSubject,
		len(e.EmailTo))

	return nil
} // func (m *smtpMailer) Send(e *objects.Event) error
