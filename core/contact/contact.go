package contact

import (
	"net/mail"
	texttmpl "text/template"

	"github.com/pkg/errors"

	"github.com/trezcool/darasa/core"
)

var bodyTmpl = texttmpl.Must(texttmpl.New("contact").Parse(
	`New message from the contact form

Name:    {{.Name}}
Email:   {{.Email}}
Subject: {{.Subject}}

{{.Body}}
`))

// Message is the contact form of the landing page.
type Message struct {
	Name    string `json:"name" validate:"required,notblank,max=100"`
	Email   string `json:"email" validate:"required,email"`
	Subject string `json:"subject" validate:"required,notblank,max=150"`
	Body    string `json:"message" validate:"required,notblank,min=10,max=5000"`
}

func (m *Message) Validate() error {
	m.Name = core.CleanString(m.Name)
	m.Email = core.CleanString(m.Email, true /* lower */)
	m.Subject = core.CleanString(m.Subject)
	m.Body = core.CleanString(m.Body)
	return core.ValidateStruct(m)
}

type Service struct {
	to       mail.Address
	mailSvc  core.EmailService
	notifier core.Notifier
}

func NewService(conf *core.Config, mailSvc core.EmailService, notifier core.Notifier) *Service {
	return &Service{
		to:       mail.Address{Name: conf.AppName, Address: conf.ContactEmail},
		mailSvc:  mailSvc,
		notifier: notifier,
	}
}

// Submit validates msg and mails it to the contact address. The form is left untouched on failure.
func (svc *Service) Submit(msg Message) error {
	if err := msg.Validate(); err != nil {
		core.NotifyError(svc.notifier, err)
		return err
	}

	email := &core.EmailMessage{
		To:           []mail.Address{svc.to},
		ReplyTo:      &mail.Address{Name: msg.Name, Address: msg.Email},
		Subject:      "Contact: " + msg.Subject,
		Template:     bodyTmpl,
		TemplateData: msg,
	}
	if err := svc.mailSvc.Send(email); err != nil {
		svc.notifier.Failure("Message not sent", "We could not send your message. Please try again later.")
		return errors.Wrap(err, "sending contact message")
	}
	svc.notifier.Success("Message sent", "Thank you for reaching out, we will get back to you shortly.")
	return nil
}
