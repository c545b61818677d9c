package audio

import (
	"bytes"
	"context"
	"errors"
	"testing"

	"github.com/spf13/afero"

	"github.com/goliatone/go-parish/internal/media"
	"github.com/goliatone/go-parish/internal/records"
	"github.com/goliatone/go-parish/pkg/testsupport"
)

func mp3Bytes() []byte {
	return append([]byte("ID3\x03\x00\x00\x00\x00\x00\x00"), bytes.Repeat([]byte{0}, 64)...)
}

func newTestService(t *testing.T, store records.Store[*Track]) (*Service, *media.Storage) {
	t.Helper()
	storage := media.NewStorage(afero.NewMemMapFs(), "/media")
	return NewService(store, media.NewService(storage), nil), storage
}

func TestUploadStoresFileThenRow(t *testing.T) {
	ctx := context.Background()
	svc, storage := newTestService(t, NewBunStore(testsupport.NewMigratedDB(t), records.Caching{}))

	track, err := svc.Upload(ctx, "Homélie de Pâques.mp3", bytes.NewReader(mp3Bytes()), Track{TitlePL: "Homilia", Active: true})
	if err != nil {
		t.Fatalf("upload: %v", err)
	}
	if track.Title != "Homélie de Pâques" {
		t.Fatalf("expected title from file name, got %q", track.Title)
	}
	if track.MimeType != "audio/mpeg" || track.SizeBytes == 0 || track.StoragePath == "" {
		t.Fatalf("unexpected file metadata %+v", track)
	}
	if _, err := storage.Open(media.BucketAudio, track.StoragePath); err != nil {
		t.Fatalf("expected stored object: %v", err)
	}

	views, err := svc.Public(ctx, "pl")
	if err != nil {
		t.Fatalf("public: %v", err)
	}
	if len(views) != 1 || views[0].Title != "Homilia" || views[0].FileURL != track.FileURL {
		t.Fatalf("unexpected views %+v", views)
	}

	if err := svc.Delete(ctx, track.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, err := storage.Open(media.BucketAudio, track.StoragePath); !errors.Is(err, media.ErrObjectMissing) {
		t.Fatalf("expected stored object removed, got %v", err)
	}
	rows, _, err := svc.List(ctx, records.ListOptions[*Track]{})
	if err != nil || len(rows) != 0 {
		t.Fatalf("expected no rows after delete, got %d (%v)", len(rows), err)
	}
}

func TestUploadRejectsNonAudioWithoutRow(t *testing.T) {
	store := NewMemoryStore()
	svc, _ := newTestService(t, store)

	_, err := svc.Upload(context.Background(), "notes.txt", bytes.NewReader([]byte("plain text, not audio")), Track{Title: "Notes"})
	if !errors.Is(err, media.ErrUnsupportedType) {
		t.Fatalf("expected unsupported type, got %v", err)
	}
	if store.Len() != 0 {
		t.Fatalf("expected no row, got %d", store.Len())
	}
}

func TestSaveRequiresFileURL(t *testing.T) {
	svc, _ := newTestService(t, NewMemoryStore())
	if _, err := svc.Save(context.Background(), &Track{Title: "Sans fichier"}); !errors.Is(err, records.ErrValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
}
