// Package search backs the experimental search widget with a hosted
// search API.
package search

import (
	"context"
	"time"
)

// Client defines the interface for external search APIs.
type Client interface {
	// Search performs a web search and returns results.
	Search(ctx context.Context, query string, opts Options) (*Response, error)
}

// Options configures search behavior.
type Options struct {
	MaxResults int // maximum number of results to return
}

// Response contains search results from the external API.
type Response struct {
	Results   []Result  `json:"results"`
	Query     string    `json:"query"`
	Timestamp time.Time `json:"timestamp"`
}

// Result represents a single search result.
type Result struct {
	Title   string  `json:"title"`
	URL     string  `json:"url"`
	Snippet string  `json:"snippet"`
	Score   float64 `json:"score,omitempty"`
}
