package markdown

import (
	"context"
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"path"
	"slices"
	"sync"

	"github.com/goliatone/go-parish/internal/i18n"
)

//go:embed content
var embedded embed.FS

// Documents lists the legal documents served at /api/legal/{doc}.
var Documents = []string{"legal", "privacy", "cookies"}

var ErrDocumentNotFound = errors.New("markdown: document not found")

// Document is a rendered legal document.
type Document struct {
	Name   string `json:"name"`
	Locale string `json:"locale"`
	FrontMatter
	HTML string `json:"html"`
}

// Service renders documents laid out as <locale>/<name>.md. Rendered
// documents are kept for the life of the process.
type Service struct {
	fs     fs.FS
	parser *GoldmarkParser

	mu    sync.RWMutex
	cache map[string]*Document
}

// NewService reads from fsys, or from the embedded documents when fsys is nil.
func NewService(fsys fs.FS) *Service {
	if fsys == nil {
		sub, err := fs.Sub(embedded, "content")
		if err != nil {
			panic(err)
		}
		fsys = sub
	}
	return &Service{
		fs:     fsys,
		parser: NewGoldmarkParser(ParseOptions{SafeMode: true}),
		cache:  map[string]*Document{},
	}
}

// Document returns name in locale. Polish falls back to the French file.
func (s *Service) Document(ctx context.Context, name, locale string) (*Document, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if !slices.Contains(Documents, name) {
		return nil, fmt.Errorf("%w: %s", ErrDocumentNotFound, name)
	}
	locale = i18n.Coerce(locale)
	candidates := []string{locale}
	if locale != i18n.French {
		candidates = append(candidates, i18n.French)
	}
	for _, candidate := range candidates {
		doc, err := s.load(name, candidate)
		if errors.Is(err, fs.ErrNotExist) {
			continue
		}
		return doc, err
	}
	return nil, fmt.Errorf("%w: %s", ErrDocumentNotFound, name)
}

func (s *Service) load(name, locale string) (*Document, error) {
	key := locale + "/" + name
	s.mu.RLock()
	doc, ok := s.cache[key]
	s.mu.RUnlock()
	if ok {
		return doc, nil
	}

	source, err := fs.ReadFile(s.fs, path.Join(locale, name+".md"))
	if err != nil {
		return nil, err
	}
	meta, body, err := ParseFrontMatter(source)
	if err != nil {
		return nil, fmt.Errorf("markdown %s: %w", key, err)
	}
	html, err := s.parser.Parse(body)
	if err != nil {
		return nil, fmt.Errorf("markdown %s: %w", key, err)
	}
	doc = &Document{Name: name, Locale: locale, FrontMatter: meta, HTML: string(html)}

	s.mu.Lock()
	s.cache[key] = doc
	s.mu.Unlock()
	return doc, nil
}
