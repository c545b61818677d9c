package contact

import (
	"context"
	"encoding/csv"
	"errors"
	"io"
	"strconv"
	"strings"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/google/uuid"
	"github.com/uptrace/bun"

	"github.com/goliatone/go-parish/internal/commands"
	"github.com/goliatone/go-parish/internal/i18n"
	"github.com/goliatone/go-parish/internal/logging"
	"github.com/goliatone/go-parish/internal/media"
	"github.com/goliatone/go-parish/internal/records"
	rules "github.com/goliatone/go-parish/internal/validation"
	"github.com/goliatone/go-parish/pkg/interfaces"
)

const (
	MessagesResource    = "messages"
	SubscribersResource = "subscribers"
)

// Files is the subset of the media service used for attachments.
type Files interface {
	UploadAttachment(ctx context.Context, filename string, body io.Reader) (media.Upload, error)
	RemoveURL(ctx context.Context, publicURL string) error
}

// Stores groups the contact tables.
type Stores struct {
	Messages    records.Store[*Message]
	Subscribers records.Store[*Subscriber]
}

func NewBunStores(db *bun.DB) Stores {
	return Stores{
		Messages: records.NewBunStore(db, records.BunConfig[*Message]{
			Resource:  MessagesResource,
			NewRecord: func() *Message { return &Message{} },
			Order:     records.NewestOrder,
		}),
		Subscribers: records.NewBunStore(db, records.BunConfig[*Subscriber]{
			Resource:        SubscribersResource,
			NewRecord:       func() *Subscriber { return &Subscriber{} },
			Identifier:      "email",
			IdentifierValue: func(s *Subscriber) string { return s.Email },
			Order:           records.NewestOrder,
		}),
	}
}

func NewMemoryStores() Stores {
	return Stores{
		Messages: records.NewMemoryStore(MessagesResource, cloneMessage,
			records.WithLess(records.NewestFirst[*Message])),
		Subscribers: records.NewMemoryStore(SubscribersResource, cloneSubscriber,
			records.WithUnique("email", func(s *Subscriber) string { return s.Email }),
			records.WithLess(records.NewestFirst[*Subscriber])),
	}
}

// Service handles contact submissions, newsletter subscriptions and their
// admin views.
type Service struct {
	Messages    *records.Service[*Message]
	Subscribers *records.Service[*Subscriber]

	files     Files
	logger    interfaces.Logger
	now       func() time.Time
	submit    *commands.Handler[SubmitMessageCommand]
	subscribe *commands.Handler[SubscribeCommand]
}

func NewService(stores Stores, files Files, logger interfaces.Logger, opts ...records.ServiceOption) *Service {
	logger = logging.Ensure(logger)
	s := &Service{
		Messages: records.NewService(stores.Messages, records.Descriptor[*Message]{
			Resource: MessagesResource,
			Validate: validateMessage,
		}, opts...),
		Subscribers: records.NewService(stores.Subscribers, records.Descriptor[*Subscriber]{
			Resource: SubscribersResource,
			Prepare: func(sub *Subscriber, _ time.Time) {
				sub.Email = normalizeEmail(sub.Email)
				sub.Name = strings.TrimSpace(sub.Name)
				sub.Locale = i18n.Coerce(sub.Locale)
				if sub.Source == "" {
					sub.Source = SourceNewsletter
				}
			},
			Validate: func(sub *Subscriber) error {
				return validation.ValidateStruct(sub,
					validation.Field(&sub.Email, validation.Required, rules.Email),
				)
			},
		}, opts...),
		files:  files,
		logger: logger,
		now:    time.Now,
	}
	s.submit = commands.NewHandler[SubmitMessageCommand](s.executeSubmit,
		commands.WithLogger[SubmitMessageCommand](logger),
		commands.WithOperation[SubmitMessageCommand]("contact.submit"),
	)
	s.subscribe = commands.NewHandler[SubscribeCommand](s.executeSubscribe,
		commands.WithLogger[SubscribeCommand](logger),
		commands.WithOperation[SubscribeCommand]("newsletter.subscribe"),
	)
	return s
}

func validateMessage(m *Message) error {
	return validation.ValidateStruct(m,
		validation.Field(&m.Name, validation.Required),
		validation.Field(&m.Email, validation.Required, rules.Email),
		validation.Field(&m.Body, validation.Required),
	)
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// Submit stores a contact message. An attachment is uploaded first and only
// its URL is kept on the row; a failed upload writes nothing.
func (s *Service) Submit(ctx context.Context, cmd SubmitMessageCommand) error {
	return s.submit.Execute(ctx, cmd)
}

// Subscribe adds or reactivates a newsletter subscription.
func (s *Service) Subscribe(ctx context.Context, cmd SubscribeCommand) error {
	return s.subscribe.Execute(ctx, cmd)
}

func (s *Service) executeSubmit(ctx context.Context, cmd SubmitMessageCommand) error {
	msg := &Message{
		Name:    strings.TrimSpace(cmd.Name),
		Email:   normalizeEmail(cmd.Email),
		Phone:   strings.TrimSpace(cmd.Phone),
		Subject: strings.TrimSpace(cmd.Subject),
		Body:    strings.TrimSpace(cmd.Message),
		Locale:  i18n.Coerce(cmd.Locale),
	}

	if cmd.Attachment != nil && cmd.Attachment.Body != nil {
		up, err := s.files.UploadAttachment(ctx, cmd.Attachment.Filename, cmd.Attachment.Body)
		if err != nil {
			return attachmentError(err)
		}
		msg.AttachmentURL = up.URL
	}

	if _, err := s.Messages.Save(ctx, msg); err != nil {
		if msg.AttachmentURL != "" {
			if rmErr := s.files.RemoveURL(ctx, msg.AttachmentURL); rmErr != nil {
				s.logger.Warn("contact.attachment.cleanup_failed", "url", msg.AttachmentURL, "error", rmErr)
			}
		}
		return err
	}

	if cmd.SubscribeNewsletter {
		if _, err := s.upsertSubscriber(ctx, SubscribeCommand{
			Email:  cmd.Email,
			Name:   cmd.Name,
			Locale: cmd.Locale,
			Source: SourceContact,
		}); err != nil {
			return err
		}
	}
	return nil
}

func attachmentError(err error) error {
	switch {
	case errors.Is(err, media.ErrFileTooLarge):
		return records.FieldError(MessagesResource, "attachment", "file is too large")
	case errors.Is(err, media.ErrUnsupportedType):
		return records.FieldError(MessagesResource, "attachment", "only images and PDF files are accepted")
	case errors.Is(err, media.ErrEmptyFile):
		return records.FieldError(MessagesResource, "attachment", "file is empty")
	default:
		return err
	}
}

func (s *Service) executeSubscribe(ctx context.Context, cmd SubscribeCommand) error {
	_, err := s.upsertSubscriber(ctx, cmd)
	return err
}

// upsertSubscriber keeps one row per email. Existing rows are reactivated and
// pick up a non-empty name and the latest locale. A concurrent insert of the
// same email is retried as an update.
func (s *Service) upsertSubscriber(ctx context.Context, cmd SubscribeCommand) (*Subscriber, error) {
	email := normalizeEmail(cmd.Email)
	for attempt := 0; ; attempt++ {
		existing, err := s.Subscribers.Store().FindOne(ctx, "email", email)
		switch {
		case err == nil:
			existing.Active = true
			if name := strings.TrimSpace(cmd.Name); name != "" {
				existing.Name = name
			}
			if cmd.Locale != "" {
				existing.Locale = cmd.Locale
			}
			return s.Subscribers.Save(ctx, existing)
		case !records.IsNotFound(err):
			return nil, err
		}

		created, err := s.Subscribers.Save(ctx, &Subscriber{
			Email:  email,
			Name:   cmd.Name,
			Locale: cmd.Locale,
			Source: cmd.Source,
			Active: true,
		})
		if errors.Is(err, records.ErrConflict) && attempt == 0 {
			continue
		}
		return created, err
	}
}

// MarkRead sets the read flag of a message.
func (s *Service) MarkRead(ctx context.Context, id uuid.UUID, read bool) (*Message, error) {
	msg, err := s.Messages.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	msg.IsRead = read
	msg.UpdatedAt = s.now().UTC()
	return s.Messages.Store().Update(ctx, msg, "is_read", "updated_at")
}

// DeleteMessage removes a message and its attachment.
func (s *Service) DeleteMessage(ctx context.Context, id uuid.UUID) error {
	msg, err := s.Messages.Get(ctx, id)
	if err != nil {
		return err
	}
	if err := s.Messages.Delete(ctx, id); err != nil {
		return err
	}
	if msg.AttachmentURL != "" {
		if err := s.files.RemoveURL(ctx, msg.AttachmentURL); err != nil {
			s.logger.Warn("contact.attachment.remove_failed", "url", msg.AttachmentURL, "error", err)
		}
	}
	return nil
}

// ExportSubscribersCSV writes every subscriber, newest first, as CSV.
func (s *Service) ExportSubscribersCSV(ctx context.Context, w io.Writer) error {
	rows, _, err := s.Subscribers.List(ctx, records.ListOptions[*Subscriber]{})
	if err != nil {
		return err
	}
	out := csv.NewWriter(w)
	if err := out.Write([]string{"email", "name", "locale", "source", "active", "created_at"}); err != nil {
		return err
	}
	for _, sub := range rows {
		if err := out.Write([]string{
			sub.Email,
			sub.Name,
			sub.Locale,
			sub.Source,
			strconv.FormatBool(sub.Active),
			sub.CreatedAt.UTC().Format(time.RFC3339),
		}); err != nil {
			return err
		}
	}
	out.Flush()
	return out.Error()
}
