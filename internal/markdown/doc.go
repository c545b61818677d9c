// Package markdown renders the legal documents (legal notice, privacy policy,
// cookie policy) shipped with the binary. Each document is a Markdown file
// with YAML front matter, one per locale.
package markdown
