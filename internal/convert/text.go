package convert

import "context"

// textConverter accepts plain text, which is valid markdown as-is.
type textConverter struct{}

// NewTextConverter creates the plain text converter.
func NewTextConverter() ContentConverter {
	return &textConverter{}
}

// Convert returns the input as-is since plain text is valid markdown.
func (c *textConverter) Convert(ctx context.Context, input []byte) (string, error) {
	return string(input), nil
}

// SupportedFormats returns plain text format names.
func (c *textConverter) SupportedFormats() []string {
	return []string{"text", "txt", "plain"}
}

// Name returns the converter name for logging.
func (c *textConverter) Name() string {
	return "plaintext"
}
