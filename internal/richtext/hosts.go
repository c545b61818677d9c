package richtext

import (
	"net/url"
	"slices"
	"strings"
)

// DefaultTrustedHosts are the video and podcast players whose iframes survive
// sanitization. Subdomains of an entry are trusted too.
var DefaultTrustedHosts = []string{
	"youtube.com",
	"youtube-nocookie.com",
	"player.vimeo.com",
	"open.spotify.com",
	"w.soundcloud.com",
	"embed.podcasts.apple.com",
	"player.ausha.co",
	"dailymotion.com",
}

// HostList matches iframe sources against trusted hosts.
type HostList struct {
	hosts []string
}

func NewHostList(hosts ...string) HostList {
	var out []string
	for _, h := range hosts {
		h = strings.ToLower(strings.TrimSpace(h))
		if h != "" && !slices.Contains(out, h) {
			out = append(out, h)
		}
	}
	return HostList{hosts: out}
}

// Hosts returns the configured host suffixes.
func (l HostList) Hosts() []string {
	return slices.Clone(l.hosts)
}

// Allows reports whether raw is an https (or protocol-relative) URL on a
// trusted host.
func (l HostList) Allows(raw string) bool {
	raw = strings.TrimSpace(raw)
	if strings.HasPrefix(raw, "//") {
		raw = "https:" + raw
	}
	u, err := url.Parse(raw)
	if err != nil || u.Scheme != "https" || u.User != nil {
		return false
	}
	host := strings.ToLower(u.Hostname())
	for _, trusted := range l.hosts {
		if host == trusted || strings.HasSuffix(host, "."+trusted) {
			return true
		}
	}
	return false
}
