package notify

import (
	"bytes"
	"context"
	"fmt"
	"html/template"
	"net/url"
	"strings"
	texttemplate "text/template"
	"time"

	"gopkg.in/gomail.v2"

	server "github.com/charadev96/famlink/internal/server/domain"
)

// Sender is the part of *gomail.Dialer the dispatcher needs.
type Sender interface {
	DialAndSend(m ...*gomail.Message) error
}

type SMTPConfig struct {
	Host     string
	Port     int
	Username string
	Password string
	From     string
	// AppURL, when set, is used to build an accept link carrying the code.
	AppURL string
}

// SMTPDispatcher delivers invitation emails over SMTP.
type SMTPDispatcher struct {
	Sender Sender
	From   string
	AppURL string
}

func NewSMTPDispatcher(cfg SMTPConfig) *SMTPDispatcher {
	from := cfg.From
	if from == "" {
		from = cfg.Username
	}
	return &SMTPDispatcher{
		Sender: gomail.NewDialer(cfg.Host, cfg.Port, cfg.Username, cfg.Password),
		From:   from,
		AppURL: cfg.AppURL,
	}
}

// Send gives up when ctx is done. The SMTP exchange itself cannot be
// interrupted and finishes in the background.
func (d *SMTPDispatcher) Send(ctx context.Context, n server.InvitationNotification) error {
	m, err := d.Message(n)
	if err != nil {
		return err
	}
	done := make(chan error, 1)
	go func() {
		done <- d.Sender.DialAndSend(m)
	}()
	select {
	case err := <-done:
		if err != nil {
			return fmt.Errorf("failed to send invitation email: %w", err)
		}
		return nil
	case <-ctx.Done():
		return fmt.Errorf("failed to send invitation email: %w", ctx.Err())
	}
}

func (d *SMTPDispatcher) Message(n server.InvitationNotification) (*gomail.Message, error) {
	data := messageData{
		InviterName: n.InviterName,
		InviteeRole: n.InviterRole.Complement().String(),
		Code:        n.Code,
		Link:        d.link(n.Code),
	}
	if n.ExpiresAt != nil {
		data.Expires = n.ExpiresAt.UTC().Format(time.RFC1123)
	}

	var text, html bytes.Buffer
	if err := textBody.Execute(&text, data); err != nil {
		return nil, fmt.Errorf("failed to render invitation email: %w", err)
	}
	if err := htmlBody.Execute(&html, data); err != nil {
		return nil, fmt.Errorf("failed to render invitation email: %w", err)
	}

	m := gomail.NewMessage()
	m.SetHeader("From", d.From)
	m.SetHeader("To", n.InviteeEmail)
	m.SetHeader("Subject", fmt.Sprintf("%s invited you to their family", n.InviterName))
	m.SetBody("text/plain", text.String())
	m.AddAlternative("text/html", html.String())
	return m, nil
}

func (d *SMTPDispatcher) link(code string) string {
	if d.AppURL == "" {
		return ""
	}
	return strings.TrimRight(d.AppURL, "/") + "/invitations/accept?code=" + url.QueryEscape(code)
}

type messageData struct {
	InviterName string
	InviteeRole string
	Code        string
	Link        string
	Expires     string
}

var textBody = texttemplate.Must(texttemplate.New("text").Parse(`Hello,

{{.InviterName}} invited you to join their family
as their {{.InviteeRole}}.

Your invitation code: {{.Code}}
{{if .Link}}
Accept here: {{.Link}}
{{end}}{{if .Expires}}
The invitation expires on {{.Expires}}.
{{end}}`))

var htmlBody = template.Must(template.New("html").Parse(`<div>
<p>Hello,</p>
<p>{{.InviterName}} invited you to join their family
as their {{.InviteeRole}}.</p>
<p>Your invitation code:
<strong>{{.Code}}</strong></p>
{{if .Link}}<p><a href="{{.Link}}">Accept invitation</a></p>
{{end}}{{if .Expires}}<p>The invitation expires on
{{.Expires}}.</p>
{{end}}</div>
`))
