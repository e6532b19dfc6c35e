package convert

import "context"

// markdownConverter is a passthrough: markdown is the native format.
type markdownConverter struct{}

// NewMarkdownConverter creates the markdown passthrough converter.
func NewMarkdownConverter() ContentConverter {
	return &markdownConverter{}
}

// Convert returns the input unchanged.
func (c *markdownConverter) Convert(ctx context.Context, input []byte) (string, error) {
	return string(input), nil
}

// SupportedFormats returns markdown format names.
func (c *markdownConverter) SupportedFormats() []string {
	return []string{"markdown", "md"}
}

// Name returns the converter name for logging.
func (c *markdownConverter) Name() string {
	return "markdown"
}
