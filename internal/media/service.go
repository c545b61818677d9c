package media

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"path"
	"slices"
	"strings"

	"github.com/gabriel-vasile/mimetype"

	"github.com/goliatone/go-parish/internal/logging"
	"github.com/goliatone/go-parish/pkg/interfaces"
)

var (
	ErrFileTooLarge    = errors.New("media: file too large")
	ErrUnsupportedType = errors.New("media: unsupported file type")
	ErrEmptyFile       = errors.New("media: file is empty")
)

var (
	imageTypes      = []string{"image/jpeg", "image/png", "image/gif", "image/webp"}
	audioTypes      = []string{"audio/mpeg", "audio/mp4", "audio/x-m4a", "audio/ogg", "audio/wav", "audio/x-wav", "audio/webm", "audio/aac", "audio/flac"}
	attachmentTypes = []string{"image/jpeg", "image/png", "image/gif", "image/webp", "application/pdf"}
)

// Limits bounds uploads per bucket.
type Limits struct {
	MaxImageBytes      int64
	MaxAudioBytes      int64
	MaxAttachmentBytes int64
	ImageMaxDimension  int
	JPEGQuality        int
}

func DefaultLimits() Limits {
	return Limits{
		MaxImageBytes:      10 << 20,
		MaxAudioBytes:      50 << 20,
		MaxAttachmentBytes: 10 << 20,
		ImageMaxDimension:  1920,
		JPEGQuality:        80,
	}
}

// Upload is the result of a successful upload.
type Upload struct {
	interfaces.StoredObject
	Width      int  `json:"width,omitempty"`
	Height     int  `json:"height,omitempty"`
	Compressed bool `json:"compressed"`
}

// Service validates files against bucket rules before handing them to
// storage.
type Service struct {
	storage interfaces.ObjectStorage
	limits  Limits
	logger  interfaces.Logger
}

type ServiceOption func(*Service)

func WithLimits(limits Limits) ServiceOption {
	return func(s *Service) {
		s.limits = limits
	}
}

func WithLogger(logger interfaces.Logger) ServiceOption {
	return func(s *Service) {
		if logger != nil {
			s.logger = logger
		}
	}
}

func NewService(storage interfaces.ObjectStorage, opts ...ServiceOption) *Service {
	s := &Service{storage: storage, limits: DefaultLimits(), logger: logging.NoOp()}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *Service) Limits() Limits {
	return s.limits
}

// UploadImage stores an editor or cover image. Large JPEG and PNG files are
// downscaled before storage.
func (s *Service) UploadImage(ctx context.Context, filename string, body io.Reader) (Upload, error) {
	data, mime, err := s.read(body, s.limits.MaxImageBytes, imageTypes)
	if err != nil {
		return Upload{}, err
	}
	result, err := Compress(data, mime.String(), s.limits.ImageMaxDimension, s.limits.JPEGQuality)
	if err != nil {
		return Upload{}, err
	}
	up, err := s.store(ctx, BucketImages, filename, mime, result.Data)
	if err != nil {
		return Upload{}, err
	}
	up.Width, up.Height, up.Compressed = result.Width, result.Height, result.Resized
	logging.WithFields(s.logger, map[string]any{
		"bucket":     BucketImages,
		"path":       up.Path,
		"size":       up.Size,
		"compressed": up.Compressed,
	}).Info("media.image.uploaded")
	return up, nil
}

// UploadAudio stores an audio file for the audio library or an audio node.
func (s *Service) UploadAudio(ctx context.Context, filename string, body io.Reader) (Upload, error) {
	data, mime, err := s.read(body, s.limits.MaxAudioBytes, audioTypes)
	if err != nil {
		return Upload{}, err
	}
	return s.store(ctx, BucketAudio, filename, mime, data)
}

// UploadAttachment stores a contact form attachment (images and PDF).
func (s *Service) UploadAttachment(ctx context.Context, filename string, body io.Reader) (Upload, error) {
	data, mime, err := s.read(body, s.limits.MaxAttachmentBytes, attachmentTypes)
	if err != nil {
		return Upload{}, err
	}
	return s.store(ctx, BucketAttachments, filename, mime, data)
}

// RemoveURL deletes the object behind a public URL. URLs that do not point
// into storage are ignored.
func (s *Service) RemoveURL(ctx context.Context, publicURL string) error {
	parser, ok := s.storage.(interface {
		ParseURL(string) (string, string, bool)
	})
	if !ok || strings.TrimSpace(publicURL) == "" {
		return nil
	}
	bucket, objectPath, ok := parser.ParseURL(publicURL)
	if !ok {
		return nil
	}
	return s.storage.Remove(ctx, bucket, objectPath)
}

func (s *Service) Remove(ctx context.Context, bucket, objectPath string) error {
	return s.storage.Remove(ctx, bucket, objectPath)
}

func (s *Service) read(body io.Reader, limit int64, allowed []string) ([]byte, *mimetype.MIME, error) {
	if body == nil {
		return nil, nil, ErrEmptyFile
	}
	data, err := io.ReadAll(io.LimitReader(body, limit+1))
	if err != nil {
		return nil, nil, fmt.Errorf("media: read upload: %w", err)
	}
	if len(data) == 0 {
		return nil, nil, ErrEmptyFile
	}
	if int64(len(data)) > limit {
		return nil, nil, fmt.Errorf("%w: limit is %d bytes", ErrFileTooLarge, limit)
	}
	mime := mimetype.Detect(data)
	for m := mime; m != nil; m = m.Parent() {
		if slices.Contains(allowed, m.String()) {
			return data, m, nil
		}
	}
	return nil, nil, fmt.Errorf("%w: %s", ErrUnsupportedType, mime.String())
}

func (s *Service) store(ctx context.Context, bucket, filename string, mime *mimetype.MIME, data []byte) (Upload, error) {
	name := strings.TrimSuffix(path.Base(filename), path.Ext(filename)) + mime.Extension()
	obj, err := s.storage.Upload(ctx, bucket, name, bytes.NewReader(data))
	if err != nil {
		return Upload{}, err
	}
	obj.ContentType = mime.String()
	return Upload{StoredObject: obj}, nil
}
