// Package notifier emails students their rendered certificates
package notifier

import (
	"context"
	"fmt"
	"html"

	"gopkg.in/mail.v2"
)

// CertificateMessage describes a certificate email
type CertificateMessage struct {
	To             string
	StudentName    string
	CourseTitle    string
	AttachmentPath string
}

// mailNotifier sends emails through an SMTP server
type mailNotifier struct {
	from string
	send func(m *mail.Message) error
}

// NewMailNotifier creates a notifier that delivers through the given SMTP server
func NewMailNotifier(host string, port int, username, password, from string) *mailNotifier {
	d := mail.NewDialer(host, port, username, password)
	return &mailNotifier{
		from: from,
		send: func(m *mail.Message) error {
			return d.DialAndSend(m)
		},
	}
}

// CertificateIssued emails the rendered certificate to the student
func (n *mailNotifier) CertificateIssued(ctx context.Context, msg CertificateMessage) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	if err := n.send(n.buildMessage(msg)); err != nil {
		return fmt.Errorf("failed to send email: %w", err)
	}
	return nil
}

func (n *mailNotifier) buildMessage(msg CertificateMessage) *mail.Message {
	m := mail.NewMessage()
	m.SetHeader("From", n.from)
	m.SetHeader("To", msg.To)
	m.SetHeader("Subject", fmt.Sprintf("Your certificate for %s", msg.CourseTitle))
	m.SetBody("text/html", fmt.Sprintf(
		"<p>Congratulations, %s!</p><p>You have completed <b>%s</b>. Your certificate is attached.</p>",
		html.EscapeString(msg.StudentName),
		html.EscapeString(msg.CourseTitle),
	))
	if msg.AttachmentPath != "" {
		m.Attach(msg.AttachmentPath, mail.Rename("certificate.png"))
	}
	return m
}

// noopNotifier is used when SMTP is not configured
type noopNotifier struct{}

// NewNoopNotifier creates a notifier that sends nothing
func NewNoopNotifier() noopNotifier {
	return noopNotifier{}
}

// CertificateIssued does nothing
func (noopNotifier) CertificateIssued(ctx context.Context, msg CertificateMessage) error {
	return nil
}
