package notion

import (
	"encoding/json"
	"strings"
	"time"
	"unicode"

	"github.com/tidwall/gjson"
)

// Page is the metadata record of a content page. Properties stay as raw
// JSON: the property schema is user-defined and loosely typed, so lookups
// go through gjson rather than a fixed struct.
type Page struct {
	ID             string          `json:"id"`
	CreatedTime    time.Time       `json:"created_time"`
	LastEditedTime time.Time       `json:"last_edited_time"`
	URL            string          `json:"url,omitempty"`
	Properties     json.RawMessage `json:"properties,omitempty"`
}

// candidate property names checked when no property of type "title"
// yields text. Mirrors what real workspaces actually name things.
var titleKeys = []string{"Title", "Name", "title", "name", "Page"}

var descriptionKeys = []string{
	"Description", "Content", "Summary",
	"description", "content", "summary",
	"Abstract", "Excerpt",
}

// Title extracts a display title. A well-formed page has exactly one
// property of type "title", but zero or many are tolerated: the search
// falls back to common property names, then to the URL slug, then to
// "Untitled".
func (p *Page) Title() string {
	props := gjson.ParseBytes(p.Properties)

	// Pass 1: any property of type "title".
	var found string
	props.ForEach(func(_, prop gjson.Result) bool {
		if prop.Get("type").String() != "title" {
			return true
		}
		if t := firstSpanText(prop.Get("title")); t != "" {
			found = t
			return false
		}
		return true
	})
	if found != "" {
		return found
	}

	// Pass 2: common property names, accepting rich_text stand-ins.
	for _, key := range titleKeys {
		prop := props.Get(key)
		if !prop.Exists() {
			continue
		}
		if t := firstSpanText(prop.Get("title")); t != "" {
			return t
		}
		if t := firstSpanText(prop.Get("rich_text")); t != "" {
			return t
		}
	}

	// Pass 3: a readable slug in the page URL.
	if t := titleFromSlug(p.URL); t != "" {
		return t
	}

	return "Untitled"
}

// Description searches the usual description-ish property names and
// returns the first non-blank rich text found.
func (p *Page) Description() string {
	props := gjson.ParseBytes(p.Properties)
	for _, key := range descriptionKeys {
		prop := props.Get(key)
		if !prop.Exists() {
			continue
		}
		if t := strings.TrimSpace(spansText(prop.Get("rich_text"))); t != "" {
			return t
		}
	}
	return ""
}

// Date returns the page's display date: created_time, then
// last_edited_time, then any created_time or date typed property.
func (p *Page) Date() string {
	if !p.CreatedTime.IsZero() {
		return formatDate(p.CreatedTime)
	}
	if !p.LastEditedTime.IsZero() {
		return formatDate(p.LastEditedTime)
	}

	var out string
	gjson.ParseBytes(p.Properties).ForEach(func(_, prop gjson.Result) bool {
		switch prop.Get("type").String() {
		case "created_time":
			if v := prop.Get("created_time").String(); v != "" {
				out = formatDateString(v)
				return false
			}
		case "date":
			if v := prop.Get("date.start").String(); v != "" {
				out = formatDateString(v)
				return false
			}
		}
		return true
	})
	if out != "" {
		return out
	}
	return "No date available"
}

// Tags collects multi_select values from a Tags property, if present.
func (p *Page) Tags() []string {
	var tags []string
	gjson.GetBytes(p.Properties, "Tags.multi_select").ForEach(func(_, tag gjson.Result) bool {
		if name := tag.Get("name").String(); name != "" {
			tags = append(tags, name)
		}
		return true
	})
	return tags
}

// Status returns the select value of the Status property, if any.
func (p *Page) Status() string {
	return gjson.GetBytes(p.Properties, "Status.select.name").String()
}

// firstSpanText returns the first span's text of a rich text array,
// handling both plain_text and text.content shapes.
func firstSpanText(spans gjson.Result) string {
	first := spans.Get("0")
	if !first.Exists() {
		return ""
	}
	if t := strings.TrimSpace(first.Get("plain_text").String()); t != "" {
		return t
	}
	return strings.TrimSpace(first.Get("text.content").String())
}

// spansText concatenates the plain content of a rich text array.
func spansText(spans gjson.Result) string {
	var sb strings.Builder
	spans.ForEach(func(_, span gjson.Result) bool {
		if t := span.Get("plain_text").String(); t != "" {
			sb.WriteString(t)
		} else {
			sb.WriteString(span.Get("text.content").String())
		}
		return true
	})
	return sb.String()
}

// titleFromSlug turns a hyphenated URL tail into a readable title.
// UUID-ish tails (long, no hyphens between words) are rejected.
func titleFromSlug(url string) string {
	if url == "" {
		return ""
	}
	tail := url
	if i := strings.LastIndex(url, "/"); i >= 0 {
		tail = url[i+1:]
	}
	if tail == "" || !strings.Contains(tail, "-") {
		return ""
	}

	words := strings.Split(tail, "-")
	for i, w := range words {
		if w == "" {
			continue
		}
		r := []rune(w)
		r[0] = unicode.ToUpper(r[0])
		words[i] = string(r)
	}
	title := strings.Join(words, " ")
	title = strings.TrimLeft(title, "0123456789 ")
	if len(title) <= 3 {
		return ""
	}
	return title
}

func formatDate(t time.Time) string {
	return t.Format("January 2, 2006")
}

// formatDateString parses an ISO-8601 date or datetime string; on failure
// the raw value is returned as-is rather than dropped.
func formatDateString(s string) string {
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return formatDate(t)
	}
	if t, err := time.Parse("2006-01-02", s); err == nil {
		return formatDate(t)
	}
	return s
}
