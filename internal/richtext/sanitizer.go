package richtext

import (
	"bytes"
	"io"
	"regexp"
	"strings"

	"github.com/microcosm-cc/bluemonday"
	"golang.org/x/net/html"
)

// Sanitizer cleans editor HTML before it is stored or previewed.
type Sanitizer struct {
	policy *bluemonday.Policy
	hosts  HostList
}

// Option customises a Sanitizer.
type Option func(*Sanitizer)

// WithTrustedHosts replaces the default iframe host list.
func WithTrustedHosts(hosts ...string) Option {
	return func(s *Sanitizer) {
		s.hosts = NewHostList(hosts...)
	}
}

func NewSanitizer(opts ...Option) *Sanitizer {
	s := &Sanitizer{hosts: NewHostList(DefaultTrustedHosts...)}
	for _, opt := range opts {
		if opt != nil {
			opt(s)
		}
	}
	s.policy = editorPolicy()
	return s
}

// AllowedTags lists the elements the editor may emit.
var AllowedTags = []string{
	"p", "br", "hr", "h1", "h2", "h3", "h4", "h5", "h6",
	"strong", "b", "em", "i", "u", "s", "mark", "sub", "sup",
	"ul", "ol", "li", "blockquote", "pre", "code",
	"a", "img", "figure", "figcaption",
	"table", "thead", "tbody", "tr", "th", "td",
	"div", "span", "audio", "source", "iframe",
}

func editorPolicy() *bluemonday.Policy {
	p := bluemonday.UGCPolicy()
	p.AllowElements(AllowedTags...)
	p.AllowURLSchemes("http", "https", "mailto", "tel")
	p.AllowAttrs("target").Matching(regexp.MustCompile(`^_blank$`)).OnElements("a")
	p.AllowAttrs("src", "alt", "width", "height", "loading").OnElements("img")
	p.AllowAttrs("src").OnElements("audio", "source", "iframe")
	p.AllowAttrs("controls", "preload").OnElements("audio")
	p.AllowAttrs("type").OnElements("source")
	p.AllowAttrs("width", "height", "title", "frameborder", "allow", "allowfullscreen", "loading").OnElements("iframe")
	p.AllowAttrs("colspan", "rowspan").OnElements("th", "td")
	p.AllowAttrs("lang").Matching(regexp.MustCompile(`^[a-zA-Z]{2}(-[a-zA-Z]{2})?$`)).Globally()
	p.AllowAttrs("spellcheck").Matching(regexp.MustCompile(`^(true|false)$`)).Globally()
	p.AllowDataAttributes()
	return p
}

// Sanitize removes scripts, event handlers, unsafe URLs, tags outside the
// allow-list and iframes whose source is not a trusted player.
func (s *Sanitizer) Sanitize(input string) string {
	if strings.TrimSpace(input) == "" {
		return ""
	}
	return strings.TrimSpace(s.policy.Sanitize(s.dropUntrustedFrames(input)))
}

// TrustedHosts returns the iframe host allow-list.
func (s *Sanitizer) TrustedHosts() []string {
	return s.hosts.Hosts()
}

// AllowsEmbed reports whether src may be used inside an iframe.
func (s *Sanitizer) AllowsEmbed(src string) bool {
	return s.hosts.Allows(src)
}

// dropUntrustedFrames removes <iframe> elements, including their content,
// when the src is missing or not on a trusted host.
func (s *Sanitizer) dropUntrustedFrames(input string) string {
	z := html.NewTokenizer(strings.NewReader(input))
	var out bytes.Buffer
	skipping := 0

	for {
		tt := z.Next()
		if tt == html.ErrorToken {
			if z.Err() != io.EOF {
				out.Write(z.Raw())
			}
			return out.String()
		}

		switch tt {
		case html.StartTagToken, html.SelfClosingTagToken:
			tok := z.Token()
			if tok.Data != "iframe" {
				if skipping == 0 {
					out.WriteString(tok.String())
				}
				continue
			}
			if skipping > 0 {
				if tt == html.StartTagToken {
					skipping++
				}
				continue
			}
			if !s.hosts.Allows(attr(tok, "src")) {
				if tt == html.StartTagToken {
					skipping = 1
				}
				continue
			}
			out.WriteString(tok.String())
		case html.EndTagToken:
			tok := z.Token()
			if skipping > 0 {
				if tok.Data == "iframe" {
					skipping--
				}
				continue
			}
			out.WriteString(tok.String())
		default:
			if skipping == 0 {
				out.Write(z.Raw())
			}
		}
	}
}

func attr(tok html.Token, key string) string {
	for _, a := range tok.Attr {
		if a.Key == key {
			return a.Val
		}
	}
	return ""
}
