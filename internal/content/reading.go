package content

import (
	"bytes"
	"html/template"
	"math"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/parser"
	gmhtml "github.com/yuin/goldmark/renderer/html"
)

const wordsPerMinute = 200

// CalculateReadingTime estimates minutes to read body, never less than one.
// Halves round to even.
func CalculateReadingTime(body string) int {
	words := len(strings.Fields(body))
	minutes := int(math.RoundToEven(float64(words) / wordsPerMinute))
	if minutes < 1 {
		return 1
	}
	return minutes
}

var markdown = goldmark.New(
	goldmark.WithExtensions(extension.GFM),
	goldmark.WithParserOptions(
		parser.WithAutoHeadingID(),
	),
	goldmark.WithRendererOptions(
		gmhtml.WithUnsafe(),
	),
)

// RenderMarkdown converts a post body to HTML.
func RenderMarkdown(body string) (template.HTML, error) {
	var buf bytes.Buffer
	if err := markdown.Convert([]byte(body), &buf); err != nil {
		return "", err
	}
	return template.HTML(buf.String()), nil
}
