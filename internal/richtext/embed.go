package richtext

import (
	"errors"
	"fmt"
	"html"
	"net/url"
	"regexp"
	"strings"
)

var ErrUnsupportedEmbed = errors.New("richtext: unsupported embed url")

var (
	youtubeID     = regexp.MustCompile(`^[A-Za-z0-9_-]{6,20}$`)
	vimeoID       = regexp.MustCompile(`^[0-9]+$`)
	spotifyKinds  = []string{"episode", "show", "track", "playlist", "album"}
	dailymotionID = regexp.MustCompile(`^[A-Za-z0-9]+$`)
)

// ToEmbedURL turns a share or watch URL of a supported platform into the URL
// its player expects inside an iframe. URLs that are already player URLs on a
// trusted host are returned unchanged.
func (s *Sanitizer) ToEmbedURL(raw string) (string, error) {
	u, err := url.Parse(strings.TrimSpace(raw))
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") {
		return "", fmt.Errorf("%w: %q", ErrUnsupportedEmbed, raw)
	}
	host := strings.TrimPrefix(strings.ToLower(u.Hostname()), "www.")
	host = strings.TrimPrefix(host, "m.")
	parts := strings.Split(strings.Trim(u.Path, "/"), "/")

	switch host {
	case "youtube.com", "youtu.be":
		var id string
		switch {
		case host == "youtu.be":
			id = parts[0]
		case len(parts) >= 1 && parts[0] == "watch":
			id = u.Query().Get("v")
		case len(parts) == 2 && (parts[0] == "shorts" || parts[0] == "live" || parts[0] == "embed"):
			id = parts[1]
		}
		if youtubeID.MatchString(id) {
			return "https://www.youtube-nocookie.com/embed/" + id, nil
		}
	case "vimeo.com":
		if len(parts) >= 1 && vimeoID.MatchString(parts[len(parts)-1]) {
			return "https://player.vimeo.com/video/" + parts[len(parts)-1], nil
		}
	case "open.spotify.com":
		if len(parts) == 2 {
			for _, kind := range spotifyKinds {
				if parts[0] == kind {
					return "https://open.spotify.com/embed/" + kind + "/" + parts[1], nil
				}
			}
		}
	case "soundcloud.com":
		if len(parts) >= 2 {
			target := "https://soundcloud.com/" + strings.Join(parts, "/")
			return "https://w.soundcloud.com/player/?url=" + url.QueryEscape(target), nil
		}
	case "podcasts.apple.com":
		if len(parts) >= 2 {
			return "https://embed.podcasts.apple.com/" + strings.Join(parts, "/") + query(u), nil
		}
	case "dailymotion.com", "dai.ly":
		id := ""
		if host == "dai.ly" && len(parts) == 1 {
			id = parts[0]
		} else if len(parts) == 2 && parts[0] == "video" {
			id = parts[1]
		}
		if dailymotionID.MatchString(id) {
			return "https://www.dailymotion.com/embed/video/" + id, nil
		}
	}

	if u.Scheme == "https" && s.hosts.Allows(u.String()) {
		return u.String(), nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnsupportedEmbed, raw)
}

func query(u *url.URL) string {
	if u.RawQuery == "" {
		return ""
	}
	return "?" + u.RawQuery
}

// EmbedHTML renders the iframe-embed node for a player URL.
func EmbedHTML(src, title string) string {
	return fmt.Sprintf(
		`<div data-type="iframe-embed"><iframe src="%s" title="%s" width="100%%" height="352" frameborder="0" allow="autoplay; clipboard-write; encrypted-media; fullscreen; picture-in-picture" allowfullscreen></iframe></div>`,
		html.EscapeString(src), html.EscapeString(title),
	)
}

// AudioHTML renders the audio node for an uploaded audio file.
func AudioHTML(src, mimeType string) string {
	if mimeType == "" {
		mimeType = "audio/mpeg"
	}
	return fmt.Sprintf(
		`<div data-type="audio"><audio controls preload="metadata" src="%s"><source src="%s" type="%s"></audio></div>`,
		html.EscapeString(src), html.EscapeString(src), html.EscapeString(mimeType),
	)
}
