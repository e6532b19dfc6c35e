// Package content orchestrates page fetching: the cached, deduplicated
// read path and the primary/fallback fetch strategy behind it.
package content

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	"inkwell/internal/config"
	"inkwell/internal/domain"
	"inkwell/internal/notion"
	"inkwell/internal/pagecache"
	"inkwell/internal/render"
)

// API is the slice of the upstream client this service needs.
type API interface {
	QueryDatabase(ctx context.Context, databaseID string, query *notion.DatabaseQuery) (*notion.PageList, error)
	RetrievePage(ctx context.Context, pageID string) (*notion.Page, error)
	ListBlockChildren(ctx context.Context, blockID string, pageSize int, startCursor string) (*notion.BlockList, error)
	CreatePage(ctx context.Context, req *notion.CreatePageRequest) (*notion.Page, error)
}

// Metrics receives fetch outcome notifications; nil disables recording.
type Metrics interface {
	RecordFetch(path string, duration time.Duration, success bool)
}

// PageContent is what the rendering consumer receives: the complete path
// produces a markdown document, the degraded path produces page metadata
// plus partially expanded blocks, with Fallback marking which one it was.
type PageContent struct {
	Page     *notion.Page   `json:"page,omitempty"`
	Blocks   []notion.Block `json:"blocks,omitempty"`
	Markdown string         `json:"markdown,omitempty"`
	Fallback bool           `json:"fallback,omitempty"`
}

// blogStatuses are the workspace lanes considered blog-worthy.
var blogStatuses = map[string]bool{
	"Blogs":           true,
	"Daily Learnings": true,
	"Projects":        true,
	"Done":            true,
	"Musings":         true,
}

// Service implements the content-fetch strategy over the upstream API.
type Service struct {
	api            API
	renderers      *render.Registry
	logger         *slog.Logger
	metrics        Metrics
	databaseID     string
	primaryTimeout time.Duration

	cache *pagecache.Cache[*PageContent]
}

// NewService creates the content service. cacheOpts lets callers inject a
// clock or shorter TTL in tests.
func NewService(
	api API,
	renderers *render.Registry,
	databaseID string,
	logger *slog.Logger,
	metrics Metrics,
	cacheOpts ...pagecache.Option[*PageContent],
) *Service {
	s := &Service{
		api:            api,
		renderers:      renderers,
		logger:         logger,
		metrics:        metrics,
		databaseID:     databaseID,
		primaryTimeout: config.PrimaryFetchTimeout,
	}
	s.cache = pagecache.New(s.fetchPageContent, cacheOpts...)
	return s
}

// GetPage returns page content, cached and deduplicated. Concurrent
// callers for one page share a single upstream fetch.
func (s *Service) GetPage(ctx context.Context, pageID string) (*PageContent, error) {
	return s.cache.Get(ctx, pageID)
}

// ListPosts queries the blog database, newest first, and keeps only
// blog-worthy pages: a proper non-URL title and a blog-like (or absent)
// status lane.
func (s *Service) ListPosts(ctx context.Context) ([]notion.Page, error) {
	list, err := s.api.QueryDatabase(ctx, s.databaseID, &notion.DatabaseQuery{
		Sorts: []notion.Sort{
			{Timestamp: "created_time", Direction: "descending"},
		},
		PageSize: config.DatabasePageSize,
	})
	if err != nil {
		return nil, err
	}

	posts := make([]notion.Page, 0, len(list.Results))
	for _, page := range list.Results {
		if isBlogWorthy(&page) {
			posts = append(posts, page)
		}
	}
	return posts, nil
}

// CreatePostRequest describes a page to add to the blog database.
type CreatePostRequest struct {
	Title   string
	Status  string
	Content string // markdown body, split into paragraph blocks
}

// CreatePost adds a page to the blog database and invalidates any cached
// content for it.
func (s *Service) CreatePost(ctx context.Context, req *CreatePostRequest) (*notion.Page, error) {
	properties := map[string]notion.PropertyValue{
		"Name": {Title: []notion.RichText{notion.NewText(req.Title)}},
	}
	if req.Status != "" {
		properties["Status"] = notion.PropertyValue{Select: &notion.SelectOption{Name: req.Status}}
	}

	page, err := s.api.CreatePage(ctx, &notion.CreatePageRequest{
		Parent:     notion.Parent{DatabaseID: s.databaseID},
		Properties: properties,
		Children:   paragraphBlocks(req.Content),
	})
	if err != nil {
		return nil, err
	}

	s.cache.Invalidate(page.ID)
	s.logger.Info("post created", "id", page.ID, "title", req.Title)
	return page, nil
}

// fetchPageContent is the two-tier strategy: a complete recursive fetch
// raced against a timeout, then the degraded metadata+blocks path. The
// timeout cancels the losing primary request via its context rather than
// leaving it running.
func (s *Service) fetchPageContent(ctx context.Context, pageID string) (*PageContent, error) {
	start := time.Now()
	primaryCtx, cancel := context.WithTimeout(ctx, s.primaryTimeout)
	defer cancel()

	content, err := s.fetchFull(primaryCtx, pageID)
	s.recordFetch("primary", time.Since(start), err == nil)
	if err == nil {
		return content, nil
	}

	// Request-level problems (bad id, bad credentials) will not get
	// better on the degraded path; surface them now.
	if errors.Is(err, domain.ErrNotFound) || errors.Is(err, domain.ErrUnauthorized) || errors.Is(err, domain.ErrValidation) {
		return nil, err
	}

	s.logger.Warn("primary fetch failed, using fallback",
		"page_id", pageID,
		"error", err,
	)

	start = time.Now()
	content, fallbackErr := s.fetchDegraded(ctx, pageID)
	s.recordFetch("fallback", time.Since(start), fallbackErr == nil)
	if fallbackErr != nil {
		return nil, fmt.Errorf("page content unavailable: %w", fallbackErr)
	}
	return content, nil
}

// fetchFull retrieves page metadata and the complete block tree, then
// renders the markdown document ("record map" of the primary API).
func (s *Service) fetchFull(ctx context.Context, pageID string) (*PageContent, error) {
	var (
		page   *notion.Page
		blocks []notion.Block
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		page, err = s.api.RetrievePage(gctx, pageID)
		return err
	})
	g.Go(func() error {
		var err error
		blocks, err = s.fetchBlockTree(gctx, pageID, 0)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	markdown, err := s.renderers.Render(render.FormatMarkdown, blocks)
	if err != nil {
		return nil, err
	}
	return &PageContent{Page: page, Markdown: markdown}, nil
}

// fetchBlockTree pages through a block's children and recurses into
// nested ones. Depth is capped alongside the renderer's cap; deeper
// content is left unexpanded rather than fetched forever.
func (s *Service) fetchBlockTree(ctx context.Context, blockID string, depth int) ([]notion.Block, error) {
	var blocks []notion.Block
	cursor := ""
	for {
		list, err := s.api.ListBlockChildren(ctx, blockID, config.FullFetchPageSize, cursor)
		if err != nil {
			return nil, err
		}
		blocks = append(blocks, list.Results...)
		if !list.HasMore || list.NextCursor == "" {
			break
		}
		cursor = list.NextCursor
	}

	if depth >= config.MaxRenderDepth {
		return blocks, nil
	}
	for i := range blocks {
		if !blocks[i].HasChildren {
			continue
		}
		children, err := s.fetchBlockTree(ctx, blocks[i].ID, depth+1)
		if err != nil {
			return nil, err
		}
		blocks[i].Children = children
	}
	return blocks, nil
}

// fetchDegraded reconstructs partial content: page metadata and the
// first child page concurrently, then one grandchild page for each of
// the first FallbackPriorityChildren children that declare nested
// content. Expanded children precede the unexpanded remainder; original
// interleaving is deliberately not restored (kept for compatibility with
// consumers of the previous implementation).
func (s *Service) fetchDegraded(ctx context.Context, pageID string) (*PageContent, error) {
	var (
		page *notion.Page
		list *notion.BlockList
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		page, err = s.api.RetrievePage(gctx, pageID)
		return err
	})
	g.Go(func() error {
		var err error
		list, err = s.api.ListBlockChildren(gctx, pageID, config.FallbackChildPageSize, "")
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	// Pick the first N children with nested content for expansion.
	var priority []int
	for i := range list.Results {
		if len(priority) >= config.FallbackPriorityChildren {
			break
		}
		if list.Results[i].HasChildren {
			priority = append(priority, i)
		}
	}

	eg, egctx := errgroup.WithContext(ctx)
	for _, idx := range priority {
		idx := idx
		eg.Go(func() error {
			children, err := s.api.ListBlockChildren(egctx, list.Results[idx].ID, config.FallbackGrandchildPageSize, "")
			if err != nil {
				return err
			}
			list.Results[idx].Children = children.Results
			return nil
		})
	}
	if err := eg.Wait(); err != nil {
		return nil, err
	}

	expanded := make(map[int]bool, len(priority))
	blocks := make([]notion.Block, 0, len(list.Results))
	for _, idx := range priority {
		expanded[idx] = true
		blocks = append(blocks, list.Results[idx])
	}
	for i := range list.Results {
		if !expanded[i] {
			blocks = append(blocks, list.Results[i])
		}
	}

	return &PageContent{Page: page, Blocks: blocks, Fallback: true}, nil
}

// isBlogWorthy filters out pages without a presentable title or in a
// non-blog lane.
func isBlogWorthy(page *notion.Page) bool {
	title := page.Title()
	if title == "" || title == "Untitled" {
		return false
	}
	if strings.HasPrefix(title, "http://") || strings.HasPrefix(title, "https://") {
		return false
	}
	if len(strings.TrimSpace(title)) <= 2 {
		return false
	}
	status := page.Status()
	return status == "" || blogStatuses[status]
}

// paragraphBlocks splits markdown content into writable paragraph blocks.
func paragraphBlocks(content string) []notion.Block {
	content = strings.TrimSpace(content)
	if content == "" {
		return nil
	}
	var blocks []notion.Block
	for _, para := range strings.Split(content, "\n\n") {
		para = strings.TrimSpace(para)
		if para == "" {
			continue
		}
		blocks = append(blocks, notion.Block{
			Type: notion.TypeParagraph,
			Paragraph: &notion.RichTextPayload{
				RichText: []notion.RichText{notion.NewText(para)},
			},
		})
	}
	return blocks
}

func (s *Service) recordFetch(path string, d time.Duration, success bool) {
	if s.metrics != nil {
		s.metrics.RecordFetch(path, d, success)
	}
}
