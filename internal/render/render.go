// Package render converts content blocks into displayable documents.
//
// Conversion is total: every block type, known or not, produces some safe
// output. Unknown types degrade to a labeled stub rather than an error,
// so newly introduced upstream block types never break rendering.
package render

import (
	"fmt"
	"strings"
	"sync"

	"inkwell/internal/notion"
)

// Output format names.
const (
	FormatMarkdown = "markdown"
	FormatHTML     = "html"
)

// Renderer turns an ordered block sequence into one document.
type Renderer interface {
	// RenderBlocks assembles the full document. Blocks producing no
	// output (empty paragraphs) are dropped, not joined as blanks.
	RenderBlocks(blocks []notion.Block) string

	// Format returns the renderer's format name for registry lookup.
	Format() string
}

// Registry routes rendering requests by output format.
//
// Thread-safe for concurrent access.
type Registry struct {
	mu        sync.RWMutex
	renderers map[string]Renderer
}

// NewRegistry creates a registry with the standard renderers registered.
func NewRegistry(styles *Styles) *Registry {
	r := &Registry{renderers: make(map[string]Renderer)}
	r.Register(NewMarkdownRenderer())
	r.Register(NewHTMLRenderer(styles))
	return r
}

// Register adds a renderer under its format name.
func (r *Registry) Register(renderer Renderer) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.renderers[strings.ToLower(renderer.Format())] = renderer
}

// Get retrieves a renderer by format name, nil when unregistered.
func (r *Registry) Get(format string) Renderer {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.renderers[strings.ToLower(format)]
}

// Render assembles blocks in the requested format.
// Returns an error only for an unknown format; rendering itself is total.
func (r *Registry) Render(format string, blocks []notion.Block) (string, error) {
	renderer := r.Get(format)
	if renderer == nil {
		return "", fmt.Errorf("unsupported render format: %s", format)
	}
	return renderer.RenderBlocks(blocks), nil
}
