package config

import "time"

const (
	// PageCacheTTL is how long fetched page content stays valid in the
	// in-process cache. Expiry is lazy (checked on read); entry count is
	// bounded by distinct pages visited, so there is no sweep goroutine.
	PageCacheTTL = 5 * time.Minute

	// PrimaryFetchTimeout is how long the full recursive page fetch may
	// take before the degraded fallback path is used instead.
	PrimaryFetchTimeout = 3 * time.Second

	// DatabasePageSize is the page size used when querying the blog
	// database. 100 keeps a typical blog to a single request.
	DatabasePageSize = 100

	// FullFetchPageSize is the block page size used by the primary
	// (complete) fetch path. 100 is the upstream maximum.
	FullFetchPageSize = 100

	// FallbackChildPageSize is the number of top-level blocks fetched in
	// the first (and only) child page of the degraded path.
	FallbackChildPageSize = 50

	// FallbackPriorityChildren is how many children with nested content
	// get their grandchildren expanded on the degraded path. Remaining
	// children are included without expansion.
	FallbackPriorityChildren = 10

	// FallbackGrandchildPageSize bounds each grandchild expansion request.
	FallbackGrandchildPageSize = 20

	// MaxRenderDepth caps recursion when converting nested blocks.
	// Source data is a tree by construction, but the converter does not
	// assume it; past the cap, nested children render flat and unindented.
	MaxRenderDepth = 10

	// MaxChatHistoryTurns bounds the conversation history accepted by the
	// chat widget endpoint.
	MaxChatHistoryTurns = 50

	// MaxChatQueryLength bounds a single chat question.
	MaxChatQueryLength = 4000
)
