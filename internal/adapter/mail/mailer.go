package mail

import (
	"bytes"
	"context"
	"fmt"
	"text/template"

	"gopkg.in/gomail.v2"

	"github.com/YelzhanWeb/storefront/internal/config"
	"github.com/YelzhanWeb/storefront/internal/domain"
)

// Sender is satisfied by *gomail.Dialer
type Sender interface {
	DialAndSend(m ...*gomail.Message) error
}

type Template struct {
	Subject string
	Body    string
}

// DefaultTemplates are keyed by template id
var DefaultTemplates = map[string]Template{
	"template_order": {
		Subject: "New order from {{.user_name}}",
		Body: `New cash-on-pickup order

Customer: {{.user_name}}
Product:  {{.product_name}}
Price:    {{.price}} $
Pickup:   {{.delivery_date}} at {{.delivery_time}}
Locker:   {{.casier}}
`,
	},
}

type compiled struct {
	subject *template.Template
	body    *template.Template
}

// Mailer renders a confirmation template and sends it over SMTP
type Mailer struct {
	sender    Sender
	from      string
	to        string
	templates map[string]compiled
}

func NewDialer(cfg config.SMTPConfig) *gomail.Dialer {
	return gomail.NewDialer(cfg.Host, cfg.Port, cfg.User, cfg.Password)
}

func NewMailer(sender Sender, from, to string, templates map[string]Template) (*Mailer, error) {
	m := &Mailer{
		sender:    sender,
		from:      from,
		to:        to,
		templates: make(map[string]compiled, len(templates)),
	}
	for id, t := range templates {
		subject, err := template.New(id + ".subject").Option("missingkey=zero").Parse(t.Subject)
		if err != nil {
			return nil, fmt.Errorf("template %s subject: %w", id, err)
		}
		body, err := template.New(id + ".body").Option("missingkey=zero").Parse(t.Body)
		if err != nil {
			return nil, fmt.Errorf("template %s body: %w", id, err)
		}
		m.templates[id] = compiled{subject: subject, body: body}
	}
	return m, nil
}

// Send renders templateID with params. The service id is only used for routing
// upstream and is ignored here.
func (m *Mailer) Send(ctx context.Context, serviceID, templateID string, params map[string]string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	t, ok := m.templates[templateID]
	if !ok {
		return fmt.Errorf("%w: unknown template %q", domain.ErrNotificationSend, templateID)
	}

	var subject, body bytes.Buffer
	if err := t.subject.Execute(&subject, params); err != nil {
		return fmt.Errorf("%w: render subject: %v", domain.ErrNotificationSend, err)
	}
	if err := t.body.Execute(&body, params); err != nil {
		return fmt.Errorf("%w: render body: %v", domain.ErrNotificationSend, err)
	}

	msg := gomail.NewMessage()
	msg.SetHeader("From", m.from)
	msg.SetHeader("To", m.to)
	msg.SetHeader("Subject", subject.String())
	msg.SetBody("text/plain", body.String())

	if err := m.sender.DialAndSend(msg); err != nil {
		return fmt.Errorf("%w: %v", domain.ErrNotificationSend, err)
	}
	return nil
}
