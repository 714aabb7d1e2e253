package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMarkdownRender(t *testing.T) {
	svc := NewMarkdownService()

	t.Run("BasicMarkdown", func(t *testing.T) {
		html, err := svc.Render("# Title\n\nSome **bold** text.")
		require.NoError(t, err)
		assert.Contains(t, html, "<h1>Title</h1>")
		assert.Contains(t, html, "<strong>bold</strong>")
	})

	t.Run("GFMTables", func(t *testing.T) {
		html, err := svc.Render("| a | b |\n|---|---|\n| 1 | 2 |")
		require.NoError(t, err)
		assert.Contains(t, html, "<table>")
	})

	t.Run("AutolinksBareURLs", func(t *testing.T) {
		html, err := svc.Render("see https://example.com for details")
		require.NoError(t, err)
		assert.Contains(t, html, `<a href="https://example.com"`)
	})

	t.Run("RawHTMLIsEscaped", func(t *testing.T) {
		html, err := svc.Render(`<script>alert("xss")</script>`)
		require.NoError(t, err)
		assert.NotContains(t, html, "<script>")
	})

	t.Run("EmptyInput", func(t *testing.T) {
		html, err := svc.Render("")
		require.NoError(t, err)
		assert.Empty(t, html)
	})
}
