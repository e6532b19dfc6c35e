package notion

import (
	"encoding/json"
	"testing"
	"time"
)

func TestPage_Title(t *testing.T) {
	tests := []struct {
		name     string
		props    string
		url      string
		expected string
	}{
		{
			name:     "title typed property under any name",
			props:    `{"Headline":{"type":"title","title":[{"plain_text":"From Typed"}]}}`,
			expected: "From Typed",
		},
		{
			name:     "write-shape content accepted",
			props:    `{"Name":{"type":"title","title":[{"text":{"content":"Write Shape"}}]}}`,
			expected: "Write Shape",
		},
		{
			name:     "named fallback when typed title is empty",
			props:    `{"Name":{"type":"rich_text","rich_text":[{"plain_text":"Named Fallback"}]}}`,
			expected: "Named Fallback",
		},
		{
			name:     "slug fallback",
			props:    `{}`,
			url:      "https://notion.so/my-first-post",
			expected: "My First Post",
		},
		{
			name:     "slug without hyphens rejected",
			props:    `{}`,
			url:      "https://notion.so/abcdef0123456789",
			expected: "Untitled",
		},
		{
			name:     "no usable source",
			props:    `{}`,
			expected: "Untitled",
		},
		{
			name:     "whitespace-only title skipped",
			props:    `{"Name":{"type":"title","title":[{"plain_text":"   "}]}}`,
			expected: "Untitled",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := &Page{URL: tt.url, Properties: json.RawMessage(tt.props)}
			if got := p.Title(); got != tt.expected {
				t.Errorf("Title() = %q, want %q", got, tt.expected)
			}
		})
	}
}

func TestPage_Description(t *testing.T) {
	tests := []struct {
		name     string
		props    string
		expected string
	}{
		{
			name:     "description property",
			props:    `{"Description":{"type":"rich_text","rich_text":[{"plain_text":"A summary."}]}}`,
			expected: "A summary.",
		},
		{
			name:     "falls through candidate names",
			props:    `{"Description":{"type":"rich_text","rich_text":[]},"Summary":{"type":"rich_text","rich_text":[{"plain_text":"Second choice"}]}}`,
			expected: "Second choice",
		},
		{
			name:     "multiple spans concatenated",
			props:    `{"Summary":{"type":"rich_text","rich_text":[{"plain_text":"one "},{"plain_text":"two"}]}}`,
			expected: "one two",
		},
		{
			name:     "absent",
			props:    `{}`,
			expected: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := &Page{Properties: json.RawMessage(tt.props)}
			if got := p.Description(); got != tt.expected {
				t.Errorf("Description() = %q, want %q", got, tt.expected)
			}
		})
	}
}

func TestPage_Date(t *testing.T) {
	created := time.Date(2025, 3, 9, 10, 30, 0, 0, time.UTC)

	tests := []struct {
		name     string
		page     Page
		expected string
	}{
		{
			name:     "created time wins",
			page:     Page{CreatedTime: created, LastEditedTime: created.AddDate(0, 1, 0)},
			expected: "March 9, 2025",
		},
		{
			name:     "last edited fallback",
			page:     Page{LastEditedTime: created},
			expected: "March 9, 2025",
		},
		{
			name: "created_time property fallback",
			page: Page{Properties: json.RawMessage(
				`{"Created":{"type":"created_time","created_time":"2025-03-09T10:30:00.000Z"}}`,
			)},
			expected: "March 9, 2025",
		},
		{
			name: "date property fallback",
			page: Page{Properties: json.RawMessage(
				`{"Published":{"type":"date","date":{"start":"2025-03-09"}}}`,
			)},
			expected: "March 9, 2025",
		},
		{
			name:     "nothing available",
			page:     Page{Properties: json.RawMessage(`{}`)},
			expected: "No date available",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.page.Date(); got != tt.expected {
				t.Errorf("Date() = %q, want %q", got, tt.expected)
			}
		})
	}
}

func TestPage_TagsAndStatus(t *testing.T) {
	p := &Page{Properties: json.RawMessage(`{
		"Tags":{"type":"multi_select","multi_select":[{"name":"go"},{"name":"notion"}]},
		"Status":{"type":"select","select":{"name":"Blogs"}}
	}`)}

	tags := p.Tags()
	if len(tags) != 2 || tags[0] != "go" || tags[1] != "notion" {
		t.Errorf("Tags() = %v", tags)
	}
	if got := p.Status(); got != "Blogs" {
		t.Errorf("Status() = %q", got)
	}
}
