package i18n

import (
	"embed"
	"encoding/json"
	"fmt"
	"io"
	"os"
)

// Catalog maps locale -> message key -> format string.
type Catalog map[string]map[string]string

//go:embed catalog/messages.json
var builtinCatalog embed.FS

// DefaultCatalog returns the notification messages shipped with the binary.
func DefaultCatalog() (Catalog, error) {
	f, err := builtinCatalog.Open("catalog/messages.json")
	if err != nil {
		return nil, fmt.Errorf("i18n: open embedded catalog: %w", err)
	}
	defer f.Close()
	return DecodeCatalog(f)
}

// LoadCatalog reads a catalog file from disk, e.g. to override wording.
func LoadCatalog(path string) (Catalog, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("i18n: open catalog %q: %w", path, err)
	}
	defer f.Close()
	return DecodeCatalog(f)
}

func DecodeCatalog(r io.Reader) (Catalog, error) {
	var raw map[string]map[string]string
	if err := json.NewDecoder(r).Decode(&raw); err != nil {
		return nil, fmt.Errorf("i18n: decode catalog: %w", err)
	}
	out := make(Catalog, len(raw))
	for loc, messages := range raw {
		out[Normalize(loc)] = messages
	}
	return out, nil
}

// Merge overlays other onto c and returns c.
func (c Catalog) Merge(other Catalog) Catalog {
	for loc, messages := range other {
		if c[loc] == nil {
			c[loc] = map[string]string{}
		}
		for key, msg := range messages {
			c[loc][key] = msg
		}
	}
	return c
}
