package markdown

import (
	"context"
	"errors"
	"strings"
	"testing"
	"testing/fstest"
)

func TestEmbeddedDocuments(t *testing.T) {
	svc := NewService(nil)
	for _, name := range Documents {
		doc, err := svc.Document(context.Background(), name, "fr")
		if err != nil {
			t.Fatalf("%s: %v", name, err)
		}
		if doc.Title == "" || doc.HTML == "" || doc.Locale != "fr" {
			t.Fatalf("%s: unexpected document %+v", name, doc)
		}
	}
}

func TestDocumentLocaleFallback(t *testing.T) {
	svc := NewService(nil)
	ctx := context.Background()

	privacy, err := svc.Document(ctx, "privacy", "pl")
	if err != nil || privacy.Locale != "pl" || privacy.Title != "Polityka prywatności" {
		t.Fatalf("expected polish privacy policy, got %+v (%v)", privacy, err)
	}

	cookies, err := svc.Document(ctx, "cookies", "pl")
	if err != nil {
		t.Fatalf("cookies: %v", err)
	}
	if cookies.Locale != "fr" || !strings.Contains(cookies.HTML, "<table>") {
		t.Fatalf("expected french fallback with table, got %+v", cookies)
	}

	if _, err := svc.Document(ctx, "terms", "fr"); !errors.Is(err, ErrDocumentNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestDocumentFromCustomFS(t *testing.T) {
	fsys := fstest.MapFS{
		"fr/legal.md": {Data: []byte("---\ntitle: Test\n---\nBonjour <b>x</b>\n")},
	}
	svc := NewService(fsys)
	doc, err := svc.Document(context.Background(), "legal", "en")
	if err != nil {
		t.Fatalf("document: %v", err)
	}
	if doc.Locale != "fr" || strings.Contains(doc.HTML, "<b>") {
		t.Fatalf("expected safe french rendering, got %+v", doc)
	}
	if _, err := svc.Document(context.Background(), "privacy", "fr"); !errors.Is(err, ErrDocumentNotFound) {
		t.Fatalf("expected missing file to be not found, got %v", err)
	}
}
