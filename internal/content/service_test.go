package content

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"inkwell/internal/domain"
	"inkwell/internal/notion"
	"inkwell/internal/render"
)

// mockAPI implements the API interface with overridable function fields.
type mockAPI struct {
	queryDatabase     func(ctx context.Context, databaseID string, query *notion.DatabaseQuery) (*notion.PageList, error)
	retrievePage      func(ctx context.Context, pageID string) (*notion.Page, error)
	listBlockChildren func(ctx context.Context, blockID string, pageSize int, startCursor string) (*notion.BlockList, error)
	createPage        func(ctx context.Context, req *notion.CreatePageRequest) (*notion.Page, error)
}

func (m *mockAPI) QueryDatabase(ctx context.Context, databaseID string, query *notion.DatabaseQuery) (*notion.PageList, error) {
	return m.queryDatabase(ctx, databaseID, query)
}

func (m *mockAPI) RetrievePage(ctx context.Context, pageID string) (*notion.Page, error) {
	return m.retrievePage(ctx, pageID)
}

func (m *mockAPI) ListBlockChildren(ctx context.Context, blockID string, pageSize int, startCursor string) (*notion.BlockList, error) {
	return m.listBlockChildren(ctx, blockID, pageSize, startCursor)
}

func (m *mockAPI) CreatePage(ctx context.Context, req *notion.CreatePageRequest) (*notion.Page, error) {
	return m.createPage(ctx, req)
}

func testService(t *testing.T, api API) *Service {
	t.Helper()
	styles, err := render.LoadStyles()
	if err != nil {
		t.Fatalf("LoadStyles() error = %v", err)
	}
	logger := slog.New(slog.NewTextHandler(testWriter{t}, &slog.HandlerOptions{Level: slog.LevelError}))
	return NewService(api, render.NewRegistry(styles), "db-1", logger, nil)
}

type testWriter struct{ t *testing.T }

func (w testWriter) Write(p []byte) (int, error) {
	w.t.Log(strings.TrimSpace(string(p)))
	return len(p), nil
}

func textBlock(id, text string) notion.Block {
	return notion.Block{
		ID:   id,
		Type: notion.TypeParagraph,
		Paragraph: &notion.RichTextPayload{
			RichText: []notion.RichText{{Type: "text", PlainText: text}},
		},
	}
}

func pageWithTitle(id, title string) *notion.Page {
	props := fmt.Sprintf(`{"Name":{"type":"title","title":[{"plain_text":%q}]}}`, title)
	return &notion.Page{ID: id, CreatedTime: time.Now(), Properties: json.RawMessage(props)}
}

func TestService_GetPage_FullFetch(t *testing.T) {
	api := &mockAPI{
		retrievePage: func(ctx context.Context, pageID string) (*notion.Page, error) {
			return pageWithTitle(pageID, "My Post"), nil
		},
		listBlockChildren: func(ctx context.Context, blockID string, pageSize int, startCursor string) (*notion.BlockList, error) {
			return &notion.BlockList{Results: []notion.Block{
				{ID: "h", Type: notion.TypeHeading1, Heading1: &notion.RichTextPayload{
					RichText: []notion.RichText{{PlainText: "Title"}},
				}},
				textBlock("p", "body text"),
			}}, nil
		},
	}

	svc := testService(t, api)
	pc, err := svc.GetPage(context.Background(), "page-1")
	if err != nil {
		t.Fatalf("GetPage() error = %v", err)
	}

	if pc.Fallback {
		t.Error("full fetch marked as fallback")
	}
	if pc.Markdown != "# Title\n\nbody text" {
		t.Errorf("Markdown = %q", pc.Markdown)
	}
	if pc.Page == nil || pc.Page.Title() != "My Post" {
		t.Error("page metadata missing")
	}
}

func TestService_GetPage_FullFetchPaginates(t *testing.T) {
	var calls atomic.Int64
	api := &mockAPI{
		retrievePage: func(ctx context.Context, pageID string) (*notion.Page, error) {
			return pageWithTitle(pageID, "Paged"), nil
		},
		listBlockChildren: func(ctx context.Context, blockID string, pageSize int, startCursor string) (*notion.BlockList, error) {
			if calls.Add(1) == 1 {
				return &notion.BlockList{
					Results:    []notion.Block{textBlock("a", "first")},
					HasMore:    true,
					NextCursor: "cursor-2",
				}, nil
			}
			if startCursor != "cursor-2" {
				t.Errorf("second call cursor = %q, want cursor-2", startCursor)
			}
			return &notion.BlockList{Results: []notion.Block{textBlock("b", "second")}}, nil
		},
	}

	svc := testService(t, api)
	pc, err := svc.GetPage(context.Background(), "page-1")
	if err != nil {
		t.Fatalf("GetPage() error = %v", err)
	}
	if pc.Markdown != "first\n\nsecond" {
		t.Errorf("Markdown = %q", pc.Markdown)
	}
}

func TestService_GetPage_FallbackOnPrimaryTimeout(t *testing.T) {
	// Children of the page root: 12 declare nested content, so only the
	// first 10 may be expanded on the degraded path.
	rootChildren := make([]notion.Block, 0, 15)
	for i := 0; i < 15; i++ {
		b := textBlock(fmt.Sprintf("child-%02d", i), fmt.Sprintf("text %d", i))
		if i < 12 {
			b.HasChildren = true
		}
		rootChildren = append(rootChildren, b)
	}

	var grandchildFetches atomic.Int64
	api := &mockAPI{
		retrievePage: func(ctx context.Context, pageID string) (*notion.Page, error) {
			return pageWithTitle(pageID, "Slow Page"), nil
		},
		listBlockChildren: func(ctx context.Context, blockID string, pageSize int, startCursor string) (*notion.BlockList, error) {
			if blockID == "page-1" {
				if pageSize == 100 {
					// Primary path: never completes within its deadline.
					<-ctx.Done()
					return nil, ctx.Err()
				}
				return &notion.BlockList{Results: rootChildren}, nil
			}
			grandchildFetches.Add(1)
			return &notion.BlockList{Results: []notion.Block{textBlock(blockID+"-gc", "nested")}}, nil
		},
	}

	svc := testService(t, api)
	svc.primaryTimeout = 20 * time.Millisecond

	pc, err := svc.GetPage(context.Background(), "page-1")
	if err != nil {
		t.Fatalf("GetPage() error = %v", err)
	}

	if !pc.Fallback {
		t.Fatal("degraded content not marked as fallback")
	}
	if pc.Markdown != "" {
		t.Errorf("degraded content carries markdown: %q", pc.Markdown)
	}
	if len(pc.Blocks) != 15 {
		t.Fatalf("got %d blocks, want 15", len(pc.Blocks))
	}
	if grandchildFetches.Load() != 10 {
		t.Errorf("expanded %d children, want 10", grandchildFetches.Load())
	}

	// Expanded children come first, each carrying its grandchildren.
	for i := 0; i < 10; i++ {
		if len(pc.Blocks[i].Children) == 0 {
			t.Errorf("block %d (%s) not expanded", i, pc.Blocks[i].ID)
		}
	}
	for i := 10; i < 15; i++ {
		if len(pc.Blocks[i].Children) != 0 {
			t.Errorf("block %d (%s) unexpectedly expanded", i, pc.Blocks[i].ID)
		}
	}
}

func TestService_GetPage_RequestErrorsSkipFallback(t *testing.T) {
	tests := []struct {
		name string
		err  error
	}{
		{name: "not found", err: &domain.NotFoundError{Message: "no such page"}},
		{name: "unauthorized", err: &domain.UnauthorizedError{Message: "bad token"}},
		{name: "validation", err: &domain.ValidationError{Message: "bad id"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var fallbackTried atomic.Bool
			api := &mockAPI{
				retrievePage: func(ctx context.Context, pageID string) (*notion.Page, error) {
					return nil, tt.err
				},
				listBlockChildren: func(ctx context.Context, blockID string, pageSize int, startCursor string) (*notion.BlockList, error) {
					if pageSize != 100 {
						fallbackTried.Store(true)
					}
					return &notion.BlockList{}, nil
				},
			}

			svc := testService(t, api)
			_, err := svc.GetPage(context.Background(), "page-1")
			if !errors.Is(err, tt.err) && err.Error() != tt.err.Error() {
				t.Fatalf("GetPage() error = %v, want %v", err, tt.err)
			}
			if fallbackTried.Load() {
				t.Error("fallback attempted for a request-level error")
			}
		})
	}
}

func TestService_GetPage_FallbackFailureSurfaces(t *testing.T) {
	upstream := fmt.Errorf("%w: connection reset", domain.ErrUpstream)
	api := &mockAPI{
		retrievePage: func(ctx context.Context, pageID string) (*notion.Page, error) {
			return nil, upstream
		},
		listBlockChildren: func(ctx context.Context, blockID string, pageSize int, startCursor string) (*notion.BlockList, error) {
			return nil, upstream
		},
	}

	svc := testService(t, api)
	_, err := svc.GetPage(context.Background(), "page-1")
	if !errors.Is(err, domain.ErrUpstream) {
		t.Fatalf("GetPage() error = %v, want upstream failure", err)
	}
}

func TestService_ListPosts_FiltersBlogWorthy(t *testing.T) {
	makePage := func(id, title, status string) notion.Page {
		props := fmt.Sprintf(`{"Name":{"type":"title","title":[{"plain_text":%q}]}`, title)
		if status != "" {
			props += fmt.Sprintf(`,"Status":{"type":"select","select":{"name":%q}}`, status)
		}
		props += "}"
		return notion.Page{ID: id, CreatedTime: time.Now(), Properties: json.RawMessage(props)}
	}

	api := &mockAPI{
		queryDatabase: func(ctx context.Context, databaseID string, query *notion.DatabaseQuery) (*notion.PageList, error) {
			if databaseID != "db-1" {
				t.Errorf("databaseID = %q", databaseID)
			}
			if len(query.Sorts) != 1 || query.Sorts[0].Timestamp != "created_time" || query.Sorts[0].Direction != "descending" {
				t.Errorf("unexpected sort: %+v", query.Sorts)
			}
			return &notion.PageList{Results: []notion.Page{
				makePage("1", "A Real Post", "Blogs"),
				makePage("2", "https://example.com/link-dump", ""),
				makePage("3", "Secret Draft", "Archive"),
				makePage("4", "No Status Post", ""),
				makePage("5", "ab", "Blogs"),
			}}, nil
		},
	}

	svc := testService(t, api)
	posts, err := svc.ListPosts(context.Background())
	if err != nil {
		t.Fatalf("ListPosts() error = %v", err)
	}

	got := make([]string, len(posts))
	for i, p := range posts {
		got[i] = p.ID
	}
	want := []string{"1", "4"}
	if len(got) != len(want) {
		t.Fatalf("ListPosts() ids = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("ListPosts() ids = %v, want %v", got, want)
			break
		}
	}
}

func TestService_CreatePost(t *testing.T) {
	var captured *notion.CreatePageRequest
	api := &mockAPI{
		createPage: func(ctx context.Context, req *notion.CreatePageRequest) (*notion.Page, error) {
			captured = req
			return pageWithTitle("new-page", "Fresh"), nil
		},
	}

	svc := testService(t, api)
	page, err := svc.CreatePost(context.Background(), &CreatePostRequest{
		Title:   "Fresh",
		Status:  "Blogs",
		Content: "first paragraph\n\nsecond paragraph",
	})
	if err != nil {
		t.Fatalf("CreatePost() error = %v", err)
	}
	if page.ID != "new-page" {
		t.Errorf("page ID = %q", page.ID)
	}

	if captured.Parent.DatabaseID != "db-1" {
		t.Errorf("parent database = %q", captured.Parent.DatabaseID)
	}
	if len(captured.Properties["Name"].Title) != 1 {
		t.Error("title property missing")
	}
	if captured.Properties["Status"].Select == nil || captured.Properties["Status"].Select.Name != "Blogs" {
		t.Error("status property missing")
	}
	if len(captured.Children) != 2 {
		t.Fatalf("got %d children blocks, want 2", len(captured.Children))
	}
	if got := notion.PlainText(captured.Children[1].Paragraph.RichText); got != "second paragraph" {
		t.Errorf("second paragraph = %q", got)
	}
}

func TestIsBlogWorthy(t *testing.T) {
	tests := []struct {
		name     string
		title    string
		status   string
		expected bool
	}{
		{name: "titled post in blog lane", title: "Learning Go", status: "Blogs", expected: true},
		{name: "titled post without status", title: "Learning Go", status: "", expected: true},
		{name: "untitled", title: "", status: "Blogs", expected: false},
		{name: "placeholder title", title: "Untitled", status: "Blogs", expected: false},
		{name: "url title", title: "https://example.com", status: "Blogs", expected: false},
		{name: "too short", title: "ab", status: "Blogs", expected: false},
		{name: "non-blog lane", title: "Learning Go", status: "Archive", expected: false},
		{name: "done lane counts", title: "Learning Go", status: "Done", expected: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			props := fmt.Sprintf(`{"Name":{"type":"title","title":[{"plain_text":%q}]}`, tt.title)
			if tt.status != "" {
				props += fmt.Sprintf(`,"Status":{"type":"select","select":{"name":%q}}`, tt.status)
			}
			props += "}"
			page := &notion.Page{ID: "x", Properties: json.RawMessage(props)}

			if got := isBlogWorthy(page); got != tt.expected {
				t.Errorf("isBlogWorthy() = %v, want %v", got, tt.expected)
			}
		})
	}
}

func TestParagraphBlocks(t *testing.T) {
	tests := []struct {
		name     string
		content  string
		expected int
	}{
		{name: "empty", content: "", expected: 0},
		{name: "whitespace only", content: "  \n\n  ", expected: 0},
		{name: "single paragraph", content: "hello", expected: 1},
		{name: "blank lines split paragraphs", content: "a\n\nb\n\n\n\nc", expected: 3},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := paragraphBlocks(tt.content); len(got) != tt.expected {
				t.Errorf("paragraphBlocks() produced %d blocks, want %d", len(got), tt.expected)
			}
		})
	}
}
