package markdown

import (
	"bytes"
	"fmt"
	"maps"
	"time"

	"github.com/adrg/frontmatter"
)

// FrontMatter is the metadata block of a document.
type FrontMatter struct {
	Title   string         `json:"title"`
	Summary string         `json:"summary,omitempty"`
	Updated time.Time      `json:"updated"`
	Custom  map[string]any `json:"custom,omitempty"`
}

// ParseFrontMatter extracts metadata and returns the Markdown body without
// delimiters.
func ParseFrontMatter(source []byte) (FrontMatter, []byte, error) {
	var meta frontMatterEnvelope

	body, err := frontmatter.Parse(bytes.NewReader(source), &meta)
	if err != nil {
		return FrontMatter{}, nil, fmt.Errorf("parse frontmatter: %w", err)
	}

	return FrontMatter{
		Title:   meta.Title,
		Summary: meta.Summary,
		Updated: meta.Updated,
		Custom:  maps.Clone(meta.Custom),
	}, body, nil
}

type frontMatterEnvelope struct {
	Title   string         `yaml:"title"`
	Summary string         `yaml:"summary"`
	Updated time.Time      `yaml:"updated"`
	Custom  map[string]any `yaml:",inline"`
}
