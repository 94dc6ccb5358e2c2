package notifications

import (
	"io"

	"gopkg.in/gomail.v2"
)

// Attachment is an in-memory file added to an outgoing email.
type Attachment struct {
	Name        string
	ContentType string
	Content     []byte
}

// Mailer sends a rendered email. The worker depends on this interface so
// tests can capture sends without an SMTP server.
type Mailer interface {
	Send(to string, email *RenderedEmail, attachments ...Attachment) error
}

// SMTPMailer delivers email through the configured SMTP relay.
type SMTPMailer struct {
	dialer *gomail.Dialer
	from   string
}

func NewSMTPMailer(host string, port int, username, password, from string) *SMTPMailer {
	return &SMTPMailer{
		dialer: gomail.NewDialer(host, port, username, password),
		from:   from,
	}
}

func (m *SMTPMailer) Send(to string, email *RenderedEmail, attachments ...Attachment) error {
	msg := gomail.NewMessage()
	msg.SetHeader("From", m.from)
	msg.SetHeader("To", to)
	msg.SetHeader("Subject", email.Subject)
	msg.SetBody("text/html", email.Body)

	for _, att := range attachments {
		content := att.Content
		settings := []gomail.FileSetting{
			gomail.SetCopyFunc(func(w io.Writer) error {
				_, err := w.Write(content)
				return err
			}),
		}
		if att.ContentType != "" {
			settings = append(settings, gomail.SetHeader(map[string][]string{
				"Content-Type": {att.ContentType},
			}))
		}
		msg.Attach(att.Name, settings...)
	}

	return m.dialer.DialAndSend(msg)
}
