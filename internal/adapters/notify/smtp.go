package notify

import (
	"context"
	"fmt"
	"net/smtp"
	"strings"

	"github.com/jrobz00/Joseph1/internal/ports"
)

// SMTPDispatcher delivers the ticket notification directly over SMTP for
// operators who would rather not depend on a hosted email API.
type SMTPDispatcher struct {
	host     string
	port     string
	user     string
	password string
	from     string
	to       []string
}

func NewSMTPDispatcher(host, port, user, password, from, to string) *SMTPDispatcher {
	var recipients []string
	for _, r := range strings.Split(to, ",") {
		r = strings.TrimSpace(r)
		if r != "" {
			recipients = append(recipients, r)
		}
	}
	return &SMTPDispatcher{
		host: host, port: port,
		user: user, password: password,
		from: from, to: recipients,
	}
}

func (d *SMTPDispatcher) Send(_ context.Context, templateID string, payload ports.NotificationPayload) error {
	if len(d.to) == 0 {
		return fmt.Errorf("no email recipients configured")
	}

	addr := fmt.Sprintf("%s:%s", d.host, d.port)
	subject := fmt.Sprintf("[%s] New ticket: %s", templateID, payload.Title)
	headers := fmt.Sprintf(
		"From: %s\r\nTo: %s\r\nSubject: %s\r\nMIME-Version: 1.0\r\nContent-Type: text/plain; charset=\"UTF-8\"\r\n\r\n",
		d.from, strings.Join(d.to, ","), subject,
	)
	body := headers + fmt.Sprintf(
		"Title: %s\r\nDescription: %s\r\nStatus: %s\r\nClient: %s\r\n",
		payload.Title, payload.Description, payload.Status, payload.Email,
	)

	var auth smtp.Auth
	if d.user != "" {
		auth = smtp.PlainAuth("", d.user, d.password, d.host)
	}
	return smtp.SendMail(addr, auth, d.from, d.to, []byte(body))
}
