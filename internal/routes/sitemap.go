package routes

import (
	"bytes"
	"encoding/xml"
	"time"

	"github.com/goliatone/go-parish/internal/i18n"
)

// Entry is one sitemap location, emitted once per locale.
type Entry struct {
	Route    string
	Params   map[string]any
	Modified time.Time
}

type urlset struct {
	XMLName xml.Name `xml:"urlset"`
	NS      string   `xml:"xmlns,attr"`
	XHTML   string   `xml:"xmlns:xhtml,attr"`
	URLs    []url    `xml:"url"`
}

type url struct {
	Loc        string      `xml:"loc"`
	LastMod    string      `xml:"lastmod,omitempty"`
	Alternates []alternate `xml:"xhtml:link"`
}

type alternate struct {
	Rel      string `xml:"rel,attr"`
	Hreflang string `xml:"hreflang,attr"`
	Href     string `xml:"href,attr"`
}

// Sitemap renders the static routes followed by entries. Every location lists
// its French and Polish alternates.
func (u *URLs) Sitemap(entries []Entry) ([]byte, error) {
	all := make([]Entry, 0, len(Static)+len(entries))
	for _, route := range Static {
		all = append(all, Entry{Route: route})
	}
	all = append(all, entries...)

	set := urlset{
		NS:    "http://www.sitemaps.org/schemas/sitemap/0.9",
		XHTML: "http://www.w3.org/1999/xhtml",
	}
	for _, entry := range all {
		alts, err := u.Alternates(entry.Route, entry.Params)
		if err != nil {
			return nil, err
		}
		links := []alternate{
			{Rel: "alternate", Hreflang: i18n.French, Href: alts[i18n.French]},
			{Rel: "alternate", Hreflang: i18n.Polish, Href: alts[i18n.Polish]},
			{Rel: "alternate", Hreflang: "x-default", Href: alts[i18n.French]},
		}
		var lastmod string
		if !entry.Modified.IsZero() {
			lastmod = entry.Modified.UTC().Format(time.DateOnly)
		}
		for _, locale := range []string{i18n.French, i18n.Polish} {
			set.URLs = append(set.URLs, url{Loc: alts[locale], LastMod: lastmod, Alternates: links})
		}
	}

	var buf bytes.Buffer
	buf.WriteString(xml.Header)
	enc := xml.NewEncoder(&buf)
	enc.Indent("", "  ")
	if err := enc.Encode(set); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
