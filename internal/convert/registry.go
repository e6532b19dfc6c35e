// Package convert normalizes submitted post content to markdown, the
// native storage format. Submitted HTML is sanitized before conversion.
package convert

import (
	"context"
	"fmt"
	"strings"
	"sync"
)

// ContentConverter turns one inbound format into markdown.
type ContentConverter interface {
	// Convert transforms input into markdown.
	Convert(ctx context.Context, input []byte) (string, error)

	// SupportedFormats returns the format names this converter accepts.
	SupportedFormats() []string

	// Name returns the converter name for logging.
	Name() string
}

// Registry manages content converters and routes by declared format.
//
// Thread-safe for concurrent access.
type Registry struct {
	mu         sync.RWMutex
	converters map[string]ContentConverter
}

// NewRegistry creates a registry with the standard converters registered.
func NewRegistry() *Registry {
	r := &Registry{converters: make(map[string]ContentConverter)}
	r.Register(NewMarkdownConverter())
	r.Register(NewTextConverter())
	r.Register(NewHTMLConverter())
	return r
}

// Register adds a converter under its supported format names.
func (r *Registry) Register(converter ContentConverter) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, format := range converter.SupportedFormats() {
		r.converters[strings.ToLower(format)] = converter
	}
}

// Get retrieves a converter by format name, nil when unregistered.
func (r *Registry) Get(format string) ContentConverter {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.converters[strings.ToLower(format)]
}

// Convert routes content to the converter for the declared format.
// An empty format means markdown.
func (r *Registry) Convert(ctx context.Context, format string, content []byte) (string, error) {
	if format == "" {
		format = "markdown"
	}
	converter := r.Get(format)
	if converter == nil {
		return "", fmt.Errorf("unsupported content format: %s", format)
	}
	return converter.Convert(ctx, content)
}

// SupportedFormats returns all registered format names.
func (r *Registry) SupportedFormats() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	formats := make([]string, 0, len(r.converters))
	for format := range r.converters {
		formats = append(formats, format)
	}
	return formats
}
