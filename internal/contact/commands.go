package contact

import (
	"io"
	"strings"

	validation "github.com/go-ozzo/ozzo-validation/v4"

	rules "github.com/goliatone/go-parish/internal/validation"
)

const (
	submitMessageType    = "parish.contact.submit"
	subscribeMessageType = "parish.newsletter.subscribe"
)

// Attachment is an optional file sent with the contact form.
type Attachment struct {
	Filename string
	Body     io.Reader
}

// SubmitMessageCommand carries a contact form submission.
type SubmitMessageCommand struct {
	Name                string      `json:"name"`
	Email               string      `json:"email"`
	Phone               string      `json:"phone"`
	Subject             string      `json:"subject"`
	Message             string      `json:"message"`
	Locale              string      `json:"locale"`
	SubscribeNewsletter bool        `json:"subscribe_newsletter"`
	Attachment          *Attachment `json:"-"`
}

func (SubmitMessageCommand) Type() string { return submitMessageType }

func (m SubmitMessageCommand) Validate() error {
	m.Name = strings.TrimSpace(m.Name)
	m.Email = strings.TrimSpace(m.Email)
	m.Message = strings.TrimSpace(m.Message)
	return validation.ValidateStruct(&m,
		validation.Field(&m.Name, validation.Required, validation.RuneLength(1, 200)),
		validation.Field(&m.Email, validation.Required, rules.Email),
		validation.Field(&m.Phone, validation.RuneLength(0, 40)),
		validation.Field(&m.Subject, validation.RuneLength(0, 300)),
		validation.Field(&m.Message, validation.Required, validation.RuneLength(1, 10000)),
	)
}

// SubscribeCommand subscribes an email to the newsletter.
type SubscribeCommand struct {
	Email  string `json:"email"`
	Name   string `json:"name"`
	Locale string `json:"locale"`
	Source string `json:"-"`
}

func (SubscribeCommand) Type() string { return subscribeMessageType }

func (m SubscribeCommand) Validate() error {
	m.Email = strings.TrimSpace(m.Email)
	return validation.ValidateStruct(&m,
		validation.Field(&m.Email, validation.Required, rules.Email),
		validation.Field(&m.Name, validation.RuneLength(0, 200)),
	)
}
