package richtext

// Limits are the upload bounds the editor enforces before sending files.
type Limits struct {
	MaxImageBytes     int64 `json:"max_image_bytes"`
	MaxAudioBytes     int64 `json:"max_audio_bytes"`
	ImageMaxDimension int   `json:"image_max_dimension"`
	JPEGQuality       int   `json:"jpeg_quality"`
}

// EditorConfig is served to the admin editor so client-side checks match the
// server's.
type EditorConfig struct {
	AllowedTags         []string `json:"allowed_tags"`
	TrustedEmbedHosts   []string `json:"trusted_embed_hosts"`
	SpellcheckLanguages []string `json:"spellcheck_languages"`
	Nodes               []string `json:"nodes"`
	Limits              Limits   `json:"limits"`
}

// EditorConfig describes the editor contract for the given upload limits and
// spell-check locales.
func (s *Sanitizer) EditorConfig(limits Limits, locales []string) EditorConfig {
	return EditorConfig{
		AllowedTags:         append([]string(nil), AllowedTags...),
		TrustedEmbedHosts:   s.TrustedHosts(),
		SpellcheckLanguages: append([]string(nil), locales...),
		Nodes:               []string{"audio", "iframe-embed", "image"},
		Limits:              limits,
	}
}
