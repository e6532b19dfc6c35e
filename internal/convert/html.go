package convert

import (
	"context"
	"fmt"

	md "github.com/JohannesKaufmann/html-to-markdown"
	"github.com/microcosm-cc/bluemonday"
)

// htmlConverter converts submitted HTML to markdown in two stages:
// sanitize first (scripts, event handlers, javascript: URLs go away),
// then convert what remains.
type htmlConverter struct {
	policy    *bluemonday.Policy
	converter *md.Converter
}

// NewHTMLConverter creates the HTML to markdown converter.
func NewHTMLConverter() ContentConverter {
	return &htmlConverter{
		policy:    bluemonday.UGCPolicy(),
		converter: md.NewConverter("", true, nil),
	}
}

// Convert sanitizes then converts HTML to markdown.
func (c *htmlConverter) Convert(ctx context.Context, input []byte) (string, error) {
	sanitized := c.policy.Sanitize(string(input))

	markdown, err := c.converter.ConvertString(sanitized)
	if err != nil {
		return "", fmt.Errorf("failed to convert HTML to markdown: %w", err)
	}
	return markdown, nil
}

// SupportedFormats returns HTML format names.
func (c *htmlConverter) SupportedFormats() []string {
	return []string{"html", "htm"}
}

// Name returns the converter name for logging.
func (c *htmlConverter) Name() string {
	return "html"
}
