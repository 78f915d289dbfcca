// Package notify renders templated emails and hands them to a delivery Sender.
package notify

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"text/template"
)

// Template ids understood by Mailer.
const (
	TemplateNotice      = "moderation_notice"
	TemplateDeletion    = "moderation_deletion"
	TemplateBanWarning  = "moderation_ban"
	TemplateJobsFrozen  = "jobs_frozen"
	TemplateVerifyEmail = "verify_email"
)

var (
	ErrMissingRecipient = errors.New("notification has no recipient")
	ErrUnknownTemplate  = errors.New("unknown notification template")
)

// Message addresses one rendered notification.
type Message struct {
	To        string
	Variables map[string]string
}

//go:generate mockgen -destination=../mocks/mock_notify.go -package=mocks -mock_names=Gateway=MockNotifier go-jobboard/internal/notify Gateway,Sender

// Gateway sends a templated notification.
type Gateway interface {
	Send(ctx context.Context, templateID string, msg Message) error
}

// Sender delivers a rendered email.
type Sender interface {
	Send(ctx context.Context, to, subject, body string) error
}

type mailTemplate struct {
	subject *template.Template
	body    *template.Template
}

// Mailer renders templates and delivers them through a Sender.
type Mailer struct {
	sender    Sender
	templates map[string]mailTemplate
	defaults  map[string]string
}

var _ Gateway = (*Mailer)(nil)

// NewMailer parses the built-in templates. defaults fill variables a message leaves unset
// (for example "AppName" and "SupportEmail").
func NewMailer(sender Sender, defaults map[string]string) (*Mailer, error) {
	m := &Mailer{sender: sender, templates: make(map[string]mailTemplate), defaults: defaults}
	for id, src := range builtinTemplates {
		subject, err := template.New(id + ".subject").Option("missingkey=zero").Parse(src.subject)
		if err != nil {
			return nil, fmt.Errorf("failed to parse %s subject: %w", id, err)
		}
		body, err := template.New(id + ".body").Option("missingkey=zero").Parse(src.body)
		if err != nil {
			return nil, fmt.Errorf("failed to parse %s body: %w", id, err)
		}
		m.templates[id] = mailTemplate{subject: subject, body: body}
	}
	return m, nil
}

func (m *Mailer) Send(ctx context.Context, templateID string, msg Message) error {
	to := strings.TrimSpace(msg.To)
	if to == "" {
		return ErrMissingRecipient
	}
	subject, body, err := m.Render(templateID, msg.Variables)
	if err != nil {
		return err
	}
	if err := m.sender.Send(ctx, to, subject, body); err != nil {
		log.Printf("Mailer: failed to send %s to %s: %v", templateID, to, err)
		return fmt.Errorf("failed to send %s notification: %w", templateID, err)
	}
	log.Printf("Mailer: sent %s to %s", templateID, to)
	return nil
}

// Render produces the subject and body of a template without sending it.
func (m *Mailer) Render(templateID string, vars map[string]string) (string, string, error) {
	tpl, ok := m.templates[templateID]
	if !ok {
		return "", "", fmt.Errorf("%w: %s", ErrUnknownTemplate, templateID)
	}
	data := make(map[string]string, len(m.defaults)+len(vars))
	for k, v := range m.defaults {
		data[k] = v
	}
	for k, v := range vars {
		data[k] = v
	}

	var subject, body bytes.Buffer
	if err := tpl.subject.Execute(&subject, data); err != nil {
		return "", "", fmt.Errorf("failed to render %s subject: %w", templateID, err)
	}
	if err := tpl.body.Execute(&body, data); err != nil {
		return "", "", fmt.Errorf("failed to render %s body: %w", templateID, err)
	}
	return strings.TrimSpace(subject.String()), body.String(), nil
}
