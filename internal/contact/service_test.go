package contact

import (
	"bytes"
	"context"
	"errors"
	"image"
	"image/png"
	"io"
	"strings"
	"testing"

	goerrors "github.com/goliatone/go-errors"
	"github.com/spf13/afero"

	"github.com/goliatone/go-parish/internal/media"
	"github.com/goliatone/go-parish/internal/records"
	"github.com/goliatone/go-parish/pkg/testsupport"
)

// orderedFiles records how many message rows existed at upload time.
type orderedFiles struct {
	*media.Service
	rowsAtUpload []int
	countRows    func() int
}

func (f *orderedFiles) UploadAttachment(ctx context.Context, filename string, body io.Reader) (media.Upload, error) {
	f.rowsAtUpload = append(f.rowsAtUpload, f.countRows())
	return f.Service.UploadAttachment(ctx, filename, body)
}

type fixture struct {
	svc      *Service
	messages *records.MemoryStore[*Message]
	subs     *records.MemoryStore[*Subscriber]
	files    *orderedFiles
	storage  *media.Storage
}

func newFixture(t *testing.T) fixture {
	t.Helper()
	stores := NewMemoryStores()
	messages := stores.Messages.(*records.MemoryStore[*Message])
	storage := media.NewStorage(afero.NewMemMapFs(), "/media")
	files := &orderedFiles{Service: media.NewService(storage), countRows: messages.Len}
	return fixture{
		svc:      NewService(stores, files, nil),
		messages: messages,
		subs:     stores.Subscribers.(*records.MemoryStore[*Subscriber]),
		files:    files,
		storage:  storage,
	}
}

func pngAttachment(t *testing.T) *Attachment {
	t.Helper()
	var buf bytes.Buffer
	if err := png.Encode(&buf, image.NewRGBA(image.Rect(0, 0, 4, 4))); err != nil {
		t.Fatalf("encode: %v", err)
	}
	return &Attachment{Filename: "Affiche kermesse.png", Body: &buf}
}

func validForm() SubmitMessageCommand {
	return SubmitMessageCommand{
		Name:    "Anna Kowalska",
		Email:   "Anna@Example.org",
		Subject: "Baptême",
		Message: "Bonjour, je voudrais inscrire mon fils.",
		Locale:  "pl",
	}
}

func TestSubmitValidationWritesNothing(t *testing.T) {
	f := newFixture(t)
	cases := map[string]func(*SubmitMessageCommand){
		"missing name":    func(c *SubmitMessageCommand) { c.Name = "" },
		"invalid email":   func(c *SubmitMessageCommand) { c.Email = "anna" },
		"missing message": func(c *SubmitMessageCommand) { c.Message = "  " },
	}
	for name, mutate := range cases {
		t.Run(name, func(t *testing.T) {
			form := validForm()
			form.Attachment = pngAttachment(t)
			mutate(&form)
			err := f.svc.Submit(context.Background(), form)
			if !goerrors.IsCategory(err, goerrors.CategoryValidation) || !errors.Is(err, records.ErrValidation) {
				t.Fatalf("expected validation error, got %v", err)
			}
		})
	}
	if f.messages.Len() != 0 || len(f.files.rowsAtUpload) != 0 {
		t.Fatalf("expected no rows and no uploads, got %d rows %d uploads", f.messages.Len(), len(f.files.rowsAtUpload))
	}
}

func TestSubmitStoresAttachmentBeforeRow(t *testing.T) {
	f := newFixture(t)
	form := validForm()
	form.Attachment = pngAttachment(t)
	if err := f.svc.Submit(context.Background(), form); err != nil {
		t.Fatalf("submit: %v", err)
	}
	if len(f.files.rowsAtUpload) != 1 || f.files.rowsAtUpload[0] != 0 {
		t.Fatalf("expected upload before any row, got %v", f.files.rowsAtUpload)
	}
	rows, _, err := f.svc.Messages.List(context.Background(), records.ListOptions[*Message]{})
	if err != nil || len(rows) != 1 {
		t.Fatalf("expected one message, got %d (%v)", len(rows), err)
	}
	msg := rows[0]
	if msg.Email != "anna@example.org" || msg.Locale != "pl" || msg.IsRead {
		t.Fatalf("unexpected message %+v", msg)
	}
	bucket, objectPath, ok := f.storage.ParseURL(msg.AttachmentURL)
	if !ok || bucket != media.BucketAttachments {
		t.Fatalf("unexpected attachment url %q", msg.AttachmentURL)
	}
	if _, err := f.storage.Open(bucket, objectPath); err != nil {
		t.Fatalf("expected stored attachment: %v", err)
	}

	if err := f.svc.DeleteMessage(context.Background(), msg.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, err := f.storage.Open(bucket, objectPath); !errors.Is(err, media.ErrObjectMissing) {
		t.Fatalf("expected attachment removed, got %v", err)
	}
	if f.messages.Len() != 0 {
		t.Fatal("expected message deleted")
	}
}

func TestFailingUploadWritesNoRow(t *testing.T) {
	f := newFixture(t)
	form := validForm()
	form.Attachment = &Attachment{Filename: "virus.exe", Body: strings.NewReader("MZ\x90\x00 not an image")}
	err := f.svc.Submit(context.Background(), form)
	var verr *records.ValidationError
	if !errors.As(err, &verr) || verr.Issues["attachment"] == "" {
		t.Fatalf("expected attachment validation error, got %v", err)
	}
	if f.messages.Len() != 0 {
		t.Fatalf("expected no row, got %d", f.messages.Len())
	}
}

func TestSubscribeUpsertsAndReactivates(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	if err := f.svc.Subscribe(ctx, SubscribeCommand{Email: "jan@example.org", Locale: "fr"}); err != nil {
		t.Fatalf("subscribe: %v", err)
	}
	sub, err := f.subs.FindOne(ctx, "email", "jan@example.org")
	if err != nil {
		t.Fatalf("find: %v", err)
	}
	if _, err := f.svc.Subscribers.Toggle(ctx, sub.ID); err != nil {
		t.Fatalf("toggle: %v", err)
	}

	if err := f.svc.Subscribe(ctx, SubscribeCommand{Email: " JAN@example.org ", Name: "Jan", Locale: "pl"}); err != nil {
		t.Fatalf("resubscribe: %v", err)
	}
	if f.subs.Len() != 1 {
		t.Fatalf("expected a single subscriber row, got %d", f.subs.Len())
	}
	again, err := f.subs.Get(ctx, sub.ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if !again.Active || again.Name != "Jan" || again.Locale != "pl" || again.Source != SourceNewsletter {
		t.Fatalf("unexpected subscriber %+v", again)
	}

	if err := f.svc.Subscribe(ctx, SubscribeCommand{Email: "nope"}); !errors.Is(err, records.ErrValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestSubmitWithNewsletterOptIn(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	form := validForm()
	form.SubscribeNewsletter = true
	if err := f.svc.Submit(ctx, form); err != nil {
		t.Fatalf("submit: %v", err)
	}
	sub, err := f.subs.FindOne(ctx, "email", "anna@example.org")
	if err != nil {
		t.Fatalf("expected subscriber: %v", err)
	}
	if sub.Source != SourceContact || sub.Name != "Anna Kowalska" || !sub.Active {
		t.Fatalf("unexpected subscriber %+v", sub)
	}
}

func TestMarkReadAndExport(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	if err := f.svc.Submit(ctx, validForm()); err != nil {
		t.Fatalf("submit: %v", err)
	}
	rows, _, _ := f.svc.Messages.List(ctx, records.ListOptions[*Message]{})
	read, err := f.svc.MarkRead(ctx, rows[0].ID, true)
	if err != nil {
		t.Fatalf("mark read: %v", err)
	}
	if !read.IsRead || read.Body != rows[0].Body {
		t.Fatalf("unexpected message %+v", read)
	}

	if err := f.svc.Subscribe(ctx, SubscribeCommand{Email: "a@example.org", Name: "Dupont, Marie"}); err != nil {
		t.Fatalf("subscribe: %v", err)
	}
	var buf bytes.Buffer
	if err := f.svc.ExportSubscribersCSV(ctx, &buf); err != nil {
		t.Fatalf("export: %v", err)
	}
	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 2 || lines[0] != "email,name,locale,source,active,created_at" {
		t.Fatalf("unexpected csv %q", buf.String())
	}
	if !strings.HasPrefix(lines[1], `a@example.org,"Dupont, Marie",fr,newsletter,true,`) {
		t.Fatalf("unexpected csv row %q", lines[1])
	}
}

func TestSubscribeAgainstSQLite(t *testing.T) {
	ctx := context.Background()
	db := testsupport.NewMigratedDB(t)
	storage := media.NewStorage(afero.NewMemMapFs(), "/media")
	svc := NewService(NewBunStores(db), media.NewService(storage), nil)

	for i := 0; i < 2; i++ {
		if err := svc.Subscribe(ctx, SubscribeCommand{Email: "marie@example.org"}); err != nil {
			t.Fatalf("subscribe %d: %v", i, err)
		}
	}
	if n := testsupport.CountRows(t, db, "newsletter_subscribers"); n != 1 {
		t.Fatalf("expected one subscriber row, got %d", n)
	}

	if err := svc.Submit(ctx, validForm()); err != nil {
		t.Fatalf("submit: %v", err)
	}
	if n := testsupport.CountRows(t, db, "contact_messages"); n != 1 {
		t.Fatalf("expected one message row, got %d", n)
	}
}
