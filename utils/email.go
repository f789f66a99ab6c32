package utils

import (
	"io"

	"gopkg.in/gomail.v2"
)

// Attachment is an in-memory file attached to a message.
type Attachment struct {
	Name    string
	Content []byte
}

// Mailer sends HTML mail over SMTP.
type Mailer struct {
	host string
	port int
	user string
	pass string
}

func NewMailer(host string, port int, user, pass string) *Mailer {
	return &Mailer{host: host, port: port, user: user, pass: pass}
}

func (m *Mailer) Send(to, subject, body string, attachments ...Attachment) error {
	msg := gomail.NewMessage()
	msg.SetHeader("From", m.user)
	msg.SetHeader("To", to)
	msg.SetHeader("Subject", subject)
	msg.SetBody("text/html", body)
	for _, a := range attachments {
		content := a.Content
		msg.Attach(a.Name, gomail.SetCopyFunc(func(w io.Writer) error {
			_, err := w.Write(content)
			return err
		}))
	}

	d := gomail.NewDialer(m.host, m.port, m.user, m.pass)
	return d.DialAndSend(msg)
}
