package notion

import (
	"encoding/json"
	"strings"

	"github.com/tidwall/gjson"
	"github.com/tidwall/sjson"
)

// Block type tags for the variants the renderer knows about. The set of
// types the upstream API emits is open-ended; anything else is handled by
// the catch-all arm of the converter, never rejected.
const (
	TypeParagraph        = "paragraph"
	TypeHeading1         = "heading_1"
	TypeHeading2         = "heading_2"
	TypeHeading3         = "heading_3"
	TypeBulletedListItem = "bulleted_list_item"
	TypeNumberedListItem = "numbered_list_item"
	TypeCode             = "code"
	TypeQuote            = "quote"
	TypeCallout          = "callout"
	TypeDivider          = "divider"
	TypeImage            = "image"
	TypeBookmark         = "bookmark"
	TypeToDo             = "to_do"
	TypeToggle           = "toggle"
	TypeTable            = "table"
	TypeTableRow         = "table_row"
	TypeEquation         = "equation"
)

// Block is one unit of structured content. The typed payload fields below
// cover the known variants; Raw retains the full block JSON so unknown
// types can still surface their rich text.
//
// A block exclusively owns its Children subtree. The upstream data is a
// tree by construction, but consumers must not rely on that (see the
// renderer's depth cap).
type Block struct {
	ID          string  `json:"id"`
	Type        string  `json:"type"`
	HasChildren bool    `json:"has_children,omitempty"`
	Children    []Block `json:"children,omitempty"`

	Paragraph *RichTextPayload `json:"paragraph,omitempty"`
	Heading1  *RichTextPayload `json:"heading_1,omitempty"`
	Heading2  *RichTextPayload `json:"heading_2,omitempty"`
	Heading3  *RichTextPayload `json:"heading_3,omitempty"`
	Bulleted  *RichTextPayload `json:"bulleted_list_item,omitempty"`
	Numbered  *RichTextPayload `json:"numbered_list_item,omitempty"`
	Quote     *RichTextPayload `json:"quote,omitempty"`
	Toggle    *RichTextPayload `json:"toggle,omitempty"`
	Code      *CodePayload     `json:"code,omitempty"`
	Callout   *CalloutPayload  `json:"callout,omitempty"`
	Image     *ImagePayload    `json:"image,omitempty"`
	Bookmark  *BookmarkPayload `json:"bookmark,omitempty"`
	ToDo      *ToDoPayload     `json:"to_do,omitempty"`
	Table     *TablePayload    `json:"table,omitempty"`
	TableRow  *TableRowPayload `json:"table_row,omitempty"`
	Equation  *EquationPayload `json:"equation,omitempty"`

	// Raw is the block as received, kept for the catch-all path.
	Raw json.RawMessage `json:"-"`
}

// UnmarshalJSON decodes the typed fields and retains the raw payload.
func (b *Block) UnmarshalJSON(data []byte) error {
	type alias Block
	var a alias
	if err := json.Unmarshal(data, &a); err != nil {
		return err
	}
	*b = Block(a)
	b.Raw = append([]byte(nil), data...)
	return nil
}

// MarshalJSON emits the raw block when available so unknown payloads
// survive a round trip through the HTTP boundary. Children fetched after
// the fact are spliced into the raw JSON.
func (b Block) MarshalJSON() ([]byte, error) {
	if len(b.Raw) == 0 {
		type alias Block
		return json.Marshal(alias(b))
	}
	if len(b.Children) == 0 {
		return b.Raw, nil
	}
	return sjson.SetBytes(b.Raw, "children", b.Children)
}

// PayloadRichText returns the rich_text sequence of the block's typed
// payload, falling back to a loose lookup in the raw JSON for unknown
// types. A nil result means the block carries no text at all.
func (b *Block) PayloadRichText() []RichText {
	switch b.Type {
	case TypeParagraph:
		return payloadText(b.Paragraph)
	case TypeHeading1:
		return payloadText(b.Heading1)
	case TypeHeading2:
		return payloadText(b.Heading2)
	case TypeHeading3:
		return payloadText(b.Heading3)
	case TypeBulletedListItem:
		return payloadText(b.Bulleted)
	case TypeNumberedListItem:
		return payloadText(b.Numbered)
	case TypeQuote:
		return payloadText(b.Quote)
	case TypeToggle:
		return payloadText(b.Toggle)
	case TypeCode:
		if b.Code != nil {
			return b.Code.RichText
		}
	case TypeCallout:
		if b.Callout != nil {
			return b.Callout.RichText
		}
	case TypeToDo:
		if b.ToDo != nil {
			return b.ToDo.RichText
		}
	}

	// Catch-all: probe "<type>.rich_text" in the raw block. gjson copes
	// with payload shapes this package has no struct for.
	if len(b.Raw) == 0 || b.Type == "" {
		return nil
	}
	res := gjson.GetBytes(b.Raw, b.Type+".rich_text")
	if !res.Exists() || !res.IsArray() {
		return nil
	}
	var spans []RichText
	if err := json.Unmarshal([]byte(res.Raw), &spans); err != nil {
		return nil
	}
	return spans
}

func payloadText(p *RichTextPayload) []RichText {
	if p == nil {
		return nil
	}
	return p.RichText
}

// RichTextPayload is the shared shape of text-bearing block payloads.
type RichTextPayload struct {
	RichText []RichText `json:"rich_text"`
}

// CodePayload carries a fenced code block.
type CodePayload struct {
	RichText []RichText `json:"rich_text"`
	Language string     `json:"language,omitempty"`
}

// CalloutPayload carries a callout with an optional emoji icon.
type CalloutPayload struct {
	RichText []RichText `json:"rich_text"`
	Icon     *Icon      `json:"icon,omitempty"`
}

// Icon is an emoji or file icon attached to a callout or page.
type Icon struct {
	Type  string `json:"type,omitempty"`
	Emoji string `json:"emoji,omitempty"`
}

// ImagePayload references either an uploaded file or an external URL.
type ImagePayload struct {
	File     *FileRef   `json:"file,omitempty"`
	External *FileRef   `json:"external,omitempty"`
	Caption  []RichText `json:"caption,omitempty"`
}

// URL picks whichever source is present; empty when neither is.
func (p *ImagePayload) URL() string {
	if p == nil {
		return ""
	}
	if p.File != nil && p.File.URL != "" {
		return p.File.URL
	}
	if p.External != nil {
		return p.External.URL
	}
	return ""
}

// FileRef is a URL-bearing file reference.
type FileRef struct {
	URL string `json:"url"`
}

// BookmarkPayload is an external link with an optional caption.
type BookmarkPayload struct {
	URL     string     `json:"url"`
	Caption []RichText `json:"caption,omitempty"`
}

// ToDoPayload is a checklist item.
type ToDoPayload struct {
	RichText []RichText `json:"rich_text"`
	Checked  bool       `json:"checked"`
}

// TablePayload describes a table block; its rows arrive as table_row
// children.
type TablePayload struct {
	TableWidth      int  `json:"table_width,omitempty"`
	HasColumnHeader bool `json:"has_column_header,omitempty"`
	HasRowHeader    bool `json:"has_row_header,omitempty"`
}

// TableRowPayload is one table row; each cell is its own rich-text run.
type TableRowPayload struct {
	Cells [][]RichText `json:"cells"`
}

// EquationPayload is a raw expression, rendered without formatting.
type EquationPayload struct {
	Expression string `json:"expression"`
}

// RichText is a run of text carrying independent style annotations and an
// optional link. All-false annotations are valid (unstyled text).
type RichText struct {
	Type        string       `json:"type,omitempty"`
	PlainText   string       `json:"plain_text,omitempty"`
	Href        string       `json:"href,omitempty"`
	Annotations *Annotations `json:"annotations,omitempty"`
	Text        *TextValue   `json:"text,omitempty"`
}

// TextValue is the writable form of a span (used when creating pages).
type TextValue struct {
	Content string `json:"content"`
	Link    *Link  `json:"link,omitempty"`
}

// Link is an inline link target.
type Link struct {
	URL string `json:"url"`
}

// Annotations are independently combinable style flags.
type Annotations struct {
	Bold          bool   `json:"bold,omitempty"`
	Italic        bool   `json:"italic,omitempty"`
	Strikethrough bool   `json:"strikethrough,omitempty"`
	Underline     bool   `json:"underline,omitempty"`
	Code          bool   `json:"code,omitempty"`
	Color         string `json:"color,omitempty"`
}

// Plain returns the span's text content, tolerating both the read shape
// (plain_text) and the write shape (text.content).
func (r RichText) Plain() string {
	if r.PlainText != "" {
		return r.PlainText
	}
	if r.Text != nil {
		return r.Text.Content
	}
	return ""
}

// PlainText concatenates the plain content of a span sequence.
func PlainText(spans []RichText) string {
	if len(spans) == 0 {
		return ""
	}
	var sb strings.Builder
	for _, s := range spans {
		sb.WriteString(s.Plain())
	}
	return sb.String()
}

// NewText builds a single unstyled writable span.
func NewText(content string) RichText {
	return RichText{Type: "text", PlainText: content, Text: &TextValue{Content: content}}
}

// BlockList is one page of block children.
type BlockList struct {
	Results    []Block `json:"results"`
	HasMore    bool    `json:"has_more"`
	NextCursor string  `json:"next_cursor,omitempty"`
}

// PageList is one page of database query results.
type PageList struct {
	Results    []Page `json:"results"`
	HasMore    bool   `json:"has_more"`
	NextCursor string `json:"next_cursor,omitempty"`
}
