package services

import (
	"bytes"
	"fmt"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	htmlrenderer "github.com/yuin/goldmark/renderer/html"
)

// MarkdownService renders post and comment bodies to HTML
type MarkdownService interface {
	Render(source string) (string, error)
}

// MarkdownServiceImpl implements MarkdownService with Goldmark
type MarkdownServiceImpl struct {
	md goldmark.Markdown
}

// NewMarkdownService creates a Goldmark renderer with the GFM extension set
func NewMarkdownService() MarkdownService {
	md := goldmark.New(
		goldmark.WithExtensions(
			extension.GFM,     // tables, strikethrough, task lists, autolinks (GFM set)
			extension.Linkify, // linkify raw URLs
		),
		goldmark.WithRendererOptions(
			htmlrenderer.WithHardWraps(),
		),
	)

	return &MarkdownServiceImpl{md: md}
}

// Render converts Markdown source to HTML. Raw HTML in the source is escaped
// because bodies come from untrusted users.
func (s *MarkdownServiceImpl) Render(source string) (string, error) {
	var buf bytes.Buffer
	if err := s.md.Convert([]byte(source), &buf); err != nil {
		return "", fmt.Errorf("failed to render markdown: %w", err)
	}
	return buf.String(), nil
}
