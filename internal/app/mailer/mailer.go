// Package mailer sends transactional email through the SendGrid v3 API.
package mailer

import (
	"context"
	"strings"

	"github.com/sirupsen/logrus"
)

type Mailer interface {
	Send(ctx context.Context, msg Message) error
}

type Address struct {
	Email string `json:"email"`
	Name  string `json:"name,omitempty"`
}

type Attachment struct {
	Filename string
	MIMEType string
	Content  []byte
}

type Message struct {
	To          Address
	Subject     string
	HTML        string
	Attachments []Attachment
}

// LogMailer only logs messages. Used when no API key is configured
type LogMailer struct{}

func (LogMailer) Send(ctx context.Context, msg Message) error {
	names := make([]string, len(msg.Attachments))
	for i, a := range msg.Attachments {
		names[i] = a.Filename
	}
	logrus.WithFields(logrus.Fields{
		"to":          msg.To.Email,
		"subject":     msg.Subject,
		"attachments": strings.Join(names, ","),
	}).Info("mail not sent, mailer disabled")
	return nil
}
