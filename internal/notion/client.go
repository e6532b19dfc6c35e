package notion

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"inkwell/internal/domain"
)

const (
	// DefaultBaseURL is the upstream content API endpoint.
	DefaultBaseURL = "https://api.notion.com/v1"
	// APIVersion is the Notion-Version header sent with every request.
	APIVersion = "2022-06-28"
	// DefaultTimeout is the default HTTP timeout for upstream requests.
	// Individual operations may use tighter context deadlines.
	DefaultTimeout = 30 * time.Second
)

// Client is a thin REST client for the content source API.
type Client struct {
	apiKey     string
	baseURL    string
	httpClient *http.Client
}

// NewClient creates a client with the default endpoint and timeout.
func NewClient(apiKey string) *Client {
	return NewClientWithConfig(apiKey, DefaultBaseURL, DefaultTimeout)
}

// NewClientWithConfig creates a client with custom configuration.
func NewClientWithConfig(apiKey, baseURL string, timeout time.Duration) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	return &Client{
		apiKey:  apiKey,
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}
}

// DatabaseQuery is the body of a database query request.
type DatabaseQuery struct {
	Filter      *PropertyFilter `json:"filter,omitempty"`
	Sorts       []Sort          `json:"sorts,omitempty"`
	PageSize    int             `json:"page_size,omitempty"`
	StartCursor string          `json:"start_cursor,omitempty"`
}

// PropertyFilter matches pages whose named select property equals a value.
type PropertyFilter struct {
	Property string        `json:"property"`
	Select   *SelectEquals `json:"select,omitempty"`
}

// SelectEquals is the equality condition of a select filter.
type SelectEquals struct {
	Equals string `json:"equals"`
}

// Sort orders query results by a timestamp.
type Sort struct {
	Timestamp string `json:"timestamp,omitempty"`
	Direction string `json:"direction,omitempty"`
}

// CreatePageRequest creates a page under a database parent.
type CreatePageRequest struct {
	Parent     Parent                   `json:"parent"`
	Properties map[string]PropertyValue `json:"properties"`
	Children   []Block                  `json:"children,omitempty"`
}

// Parent identifies the database a created page belongs to.
type Parent struct {
	DatabaseID string `json:"database_id"`
}

// PropertyValue is the writable form of a page property.
type PropertyValue struct {
	Title    []RichText    `json:"title,omitempty"`
	RichText []RichText    `json:"rich_text,omitempty"`
	Select   *SelectOption `json:"select,omitempty"`
}

// SelectOption names a select value.
type SelectOption struct {
	Name string `json:"name"`
}

// QueryDatabase runs a filtered, sorted query against a database.
func (c *Client) QueryDatabase(ctx context.Context, databaseID string, query *DatabaseQuery) (*PageList, error) {
	if query == nil {
		query = &DatabaseQuery{}
	}
	var list PageList
	path := fmt.Sprintf("/databases/%s/query", url.PathEscape(databaseID))
	if err := c.do(ctx, http.MethodPost, path, query, &list); err != nil {
		return nil, err
	}
	return &list, nil
}

// RetrievePage fetches page metadata by ID.
func (c *Client) RetrievePage(ctx context.Context, pageID string) (*Page, error) {
	var page Page
	path := fmt.Sprintf("/pages/%s", url.PathEscape(pageID))
	if err := c.do(ctx, http.MethodGet, path, nil, &page); err != nil {
		return nil, err
	}
	return &page, nil
}

// ListBlockChildren fetches one page of a block's children. A pageID is a
// valid blockID: a page's top-level blocks are its children.
func (c *Client) ListBlockChildren(ctx context.Context, blockID string, pageSize int, startCursor string) (*BlockList, error) {
	q := url.Values{}
	if pageSize > 0 {
		q.Set("page_size", strconv.Itoa(pageSize))
	}
	if startCursor != "" {
		q.Set("start_cursor", startCursor)
	}
	path := fmt.Sprintf("/blocks/%s/children", url.PathEscape(blockID))
	if enc := q.Encode(); enc != "" {
		path += "?" + enc
	}

	var list BlockList
	if err := c.do(ctx, http.MethodGet, path, nil, &list); err != nil {
		return nil, err
	}
	return &list, nil
}

// CreatePage creates a page in a database.
func (c *Client) CreatePage(ctx context.Context, req *CreatePageRequest) (*Page, error) {
	var page Page
	if err := c.do(ctx, http.MethodPost, "/pages", req, &page); err != nil {
		return nil, err
	}
	return &page, nil
}

// apiError is the upstream error envelope.
type apiError struct {
	Object  string `json:"object"`
	Status  int    `json:"status"`
	Code    string `json:"code"`
	Message string `json:"message"`
}

// do executes one request and decodes the response, converting upstream
// error codes into domain errors at this boundary so nothing above it
// needs to know the wire format.
func (c *Client) do(ctx context.Context, method, path string, body, out interface{}) error {
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to marshal request: %w", err)
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("Notion-Version", APIVersion)
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", domain.ErrUpstream, err)
	}
	defer func() { _ = resp.Body.Close() }()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("%w: reading response: %v", domain.ErrUpstream, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return c.mapError(resp.StatusCode, data)
	}

	if out == nil {
		return nil
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("%w: decoding response: %v", domain.ErrUpstream, err)
	}
	return nil
}

// mapError converts an upstream error response into a domain error.
func (c *Client) mapError(status int, data []byte) error {
	var apiErr apiError
	_ = json.Unmarshal(data, &apiErr)

	msg := apiErr.Message
	if msg == "" {
		msg = fmt.Sprintf("upstream returned status %d", status)
	}

	switch apiErr.Code {
	case "unauthorized", "invalid_grant":
		return &domain.UnauthorizedError{Message: msg}
	case "object_not_found", "restricted_resource":
		return &domain.NotFoundError{Message: msg}
	case "validation_error", "invalid_request", "invalid_json", "missing_version":
		return &domain.ValidationError{Message: msg}
	}

	switch status {
	case http.StatusUnauthorized:
		return &domain.UnauthorizedError{Message: msg}
	case http.StatusNotFound:
		return &domain.NotFoundError{Message: msg}
	case http.StatusBadRequest:
		return &domain.ValidationError{Message: msg}
	}
	return fmt.Errorf("%w: %s (status %d)", domain.ErrUpstream, msg, status)
}
