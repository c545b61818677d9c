package media

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"path"
	"slices"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/afero"

	"github.com/goliatone/go-parish/internal/slugs"
	"github.com/goliatone/go-parish/pkg/interfaces"
)

const (
	BucketImages      = "images"
	BucketAudio       = "audio"
	BucketAttachments = "attachments"
)

// Buckets lists every storage bucket served under the public prefix.
var Buckets = []string{BucketImages, BucketAudio, BucketAttachments}

var (
	ErrUnknownBucket = errors.New("media: unknown bucket")
	ErrInvalidPath   = errors.New("media: invalid object path")
	ErrObjectMissing = errors.New("media: object not found")
)

// Storage keeps uploaded files on an afero filesystem, one directory per
// bucket, and serves them under a public URL prefix.
type Storage struct {
	fs     afero.Fs
	prefix string
	now    func() time.Time
	newID  func() uuid.UUID
}

var _ interfaces.ObjectStorage = (*Storage)(nil)

// StorageOption customises Storage.
type StorageOption func(*Storage)

func WithStorageClock(now func() time.Time) StorageOption {
	return func(s *Storage) {
		if now != nil {
			s.now = now
		}
	}
}

func WithStorageIDs(fn func() uuid.UUID) StorageOption {
	return func(s *Storage) {
		if fn != nil {
			s.newID = fn
		}
	}
}

// NewStorage roots storage at fs. publicPrefix is the URL path files are
// served under, e.g. "/media".
func NewStorage(fs afero.Fs, publicPrefix string, opts ...StorageOption) *Storage {
	s := &Storage{
		fs:     fs,
		prefix: "/" + strings.Trim(publicPrefix, "/"),
		now:    time.Now,
		newID:  uuid.New,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// NewDiskStorage stores files below root on the local disk.
func NewDiskStorage(root, publicPrefix string, opts ...StorageOption) (*Storage, error) {
	if err := os.MkdirAll(root, 0o755); err != nil {
		return nil, fmt.Errorf("media: create storage root: %w", err)
	}
	return NewStorage(afero.NewBasePathFs(afero.NewOsFs(), root), publicPrefix, opts...), nil
}

// Upload writes body to bucket under a dated, collision-free name derived
// from name: images/2025/06/3f2a9c1e-affiche-kermesse.jpg.
func (s *Storage) Upload(ctx context.Context, bucket, name string, body io.Reader) (interfaces.StoredObject, error) {
	if err := ctx.Err(); err != nil {
		return interfaces.StoredObject{}, err
	}
	if !slices.Contains(Buckets, bucket) {
		return interfaces.StoredObject{}, fmt.Errorf("%w: %s", ErrUnknownBucket, bucket)
	}

	objectPath := s.objectPath(name)
	full := path.Join("/", bucket, objectPath)
	if err := s.fs.MkdirAll(path.Dir(full), 0o755); err != nil {
		return interfaces.StoredObject{}, fmt.Errorf("media: create bucket dir: %w", err)
	}
	f, err := s.fs.Create(full)
	if err != nil {
		return interfaces.StoredObject{}, fmt.Errorf("media: create %s: %w", full, err)
	}
	size, copyErr := io.Copy(f, body)
	closeErr := f.Close()
	if err := errors.Join(copyErr, closeErr); err != nil {
		_ = s.fs.Remove(full)
		return interfaces.StoredObject{}, fmt.Errorf("media: write %s: %w", full, err)
	}

	return interfaces.StoredObject{
		Bucket: bucket,
		Path:   objectPath,
		URL:    s.PublicURL(bucket, objectPath),
		Size:   size,
	}, nil
}

func (s *Storage) objectPath(name string) string {
	ext := strings.ToLower(path.Ext(name))
	base := slugs.Slugify(strings.TrimSuffix(path.Base(name), path.Ext(name)))
	if base == "" {
		base = "file"
	}
	if len(base) > 48 {
		base = strings.Trim(base[:48], "-")
	}
	id := strings.SplitN(s.newID().String(), "-", 2)[0]
	return path.Join(s.now().UTC().Format("2006/01"), id+"-"+base+ext)
}

func (s *Storage) PublicURL(bucket, objectPath string) string {
	return path.Join(s.prefix, bucket, objectPath)
}

// Remove deletes an object. Removing a missing object is not an error.
func (s *Storage) Remove(ctx context.Context, bucket, objectPath string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	full, err := s.resolve(bucket, objectPath)
	if err != nil {
		return err
	}
	if err := s.fs.Remove(full); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("media: remove %s: %w", full, err)
	}
	return nil
}

// ParseURL splits a public URL produced by PublicURL back into bucket and path.
func (s *Storage) ParseURL(publicURL string) (bucket, objectPath string, ok bool) {
	rest, found := strings.CutPrefix(publicURL, s.prefix+"/")
	if !found {
		return "", "", false
	}
	bucket, objectPath, found = strings.Cut(rest, "/")
	if !found || !slices.Contains(Buckets, bucket) || objectPath == "" {
		return "", "", false
	}
	return bucket, objectPath, true
}

// Open returns a stored object for reading.
func (s *Storage) Open(bucket, objectPath string) (afero.File, error) {
	full, err := s.resolve(bucket, objectPath)
	if err != nil {
		return nil, err
	}
	f, err := s.fs.Open(full)
	if errors.Is(err, os.ErrNotExist) {
		return nil, ErrObjectMissing
	}
	return f, err
}

func (s *Storage) resolve(bucket, objectPath string) (string, error) {
	if !slices.Contains(Buckets, bucket) {
		return "", fmt.Errorf("%w: %s", ErrUnknownBucket, bucket)
	}
	cleaned := path.Clean("/" + objectPath)
	if cleaned == "/" || strings.Contains(objectPath, "..") {
		return "", fmt.Errorf("%w: %s", ErrInvalidPath, objectPath)
	}
	return path.Join("/", bucket, cleaned), nil
}

// ServeObject writes a stored file, or 404 for directories and missing files.
func (s *Storage) ServeObject(w http.ResponseWriter, r *http.Request, bucket, objectPath string) {
	f, err := s.Open(bucket, objectPath)
	if err != nil {
		http.NotFound(w, r)
		return
	}
	defer f.Close()
	info, err := f.Stat()
	if err != nil || info.IsDir() {
		http.NotFound(w, r)
		return
	}
	w.Header().Set("Cache-Control", "public, max-age=86400")
	http.ServeContent(w, r, info.Name(), info.ModTime(), f)
}
