package render

import (
	"fmt"
	"strings"

	"inkwell/internal/config"
	"inkwell/internal/notion"
)

// markdownRenderer converts blocks to a markdown document.
type markdownRenderer struct{}

// NewMarkdownRenderer creates the markdown renderer.
func NewMarkdownRenderer() Renderer {
	return &markdownRenderer{}
}

// Format returns the renderer's format name.
func (r *markdownRenderer) Format() string {
	return FormatMarkdown
}

// RenderBlocks joins converted top-level blocks with blank lines,
// dropping blocks that produce no output.
func (r *markdownRenderer) RenderBlocks(blocks []notion.Block) string {
	if len(blocks) == 0 {
		return ""
	}
	parts := make([]string, 0, len(blocks))
	for i := range blocks {
		if out := r.convertBlock(&blocks[i], i, 0); out != "" {
			parts = append(parts, out)
		}
	}
	return strings.Join(parts, "\n\n")
}

// convertBlock maps one block to markdown. index is the zero-based
// sibling position (used only for numbered list ordinals); depth drives
// list indentation and the recursion cap.
func (r *markdownRenderer) convertBlock(b *notion.Block, index, depth int) string {
	if b == nil || b.Type == "" {
		return ""
	}
	indent := strings.Repeat("  ", depth)

	switch b.Type {
	case notion.TypeParagraph:
		return richTextToMarkdown(b.PayloadRichText())

	case notion.TypeHeading1:
		return "# " + richTextToMarkdown(b.PayloadRichText())

	case notion.TypeHeading2:
		return "## " + richTextToMarkdown(b.PayloadRichText())

	case notion.TypeHeading3:
		return "### " + richTextToMarkdown(b.PayloadRichText())

	case notion.TypeBulletedListItem:
		item := indent + "- " + richTextToMarkdown(b.PayloadRichText())
		if children := r.convertChildren(b.Children, depth+1); children != "" {
			item += "\n" + children
		}
		return item

	case notion.TypeNumberedListItem:
		item := fmt.Sprintf("%s%d. %s", indent, index+1, richTextToMarkdown(b.PayloadRichText()))
		if children := r.convertChildren(b.Children, depth+1); children != "" {
			item += "\n" + children
		}
		return item

	case notion.TypeCode:
		language := "text"
		var body string
		if b.Code != nil {
			if b.Code.Language != "" {
				language = b.Code.Language
			}
			// Code bodies keep the raw plain text: no re-escaping, no
			// annotation wrapping.
			body = notion.PlainText(b.Code.RichText)
		}
		return "```" + language + "\n" + body + "\n```"

	case notion.TypeQuote:
		return "> " + richTextToMarkdown(b.PayloadRichText())

	case notion.TypeCallout:
		icon := "💡"
		if b.Callout != nil && b.Callout.Icon != nil && b.Callout.Icon.Emoji != "" {
			icon = b.Callout.Icon.Emoji
		}
		return "> " + icon + " **Note:** " + richTextToMarkdown(b.PayloadRichText())

	case notion.TypeDivider:
		return "---"

	case notion.TypeImage:
		url := b.Image.URL()
		if url == "" {
			return ""
		}
		caption := ""
		if b.Image != nil {
			caption = richTextToMarkdown(b.Image.Caption)
		}
		return "![" + caption + "](" + url + ")"

	case notion.TypeBookmark:
		if b.Bookmark == nil || b.Bookmark.URL == "" {
			return ""
		}
		label := richTextToMarkdown(b.Bookmark.Caption)
		if label == "" {
			label = b.Bookmark.URL
		}
		return "[🔗 " + label + "](" + b.Bookmark.URL + ")"

	case notion.TypeToDo:
		mark := " "
		if b.ToDo != nil && b.ToDo.Checked {
			mark = "x"
		}
		return indent + "- [" + mark + "] " + richTextToMarkdown(b.PayloadRichText())

	case notion.TypeToggle:
		summary := richTextToMarkdown(b.PayloadRichText())
		children := r.convertChildren(b.Children, depth+1)
		return "<details>\n<summary>" + summary + "</summary>\n\n" + children + "\n</details>"

	case notion.TypeTable:
		return r.convertTable(b)

	case notion.TypeTableRow:
		// A row outside its table still renders as one table line.
		if b.TableRow == nil {
			return ""
		}
		return tableLine(b.TableRow.Cells, richTextToMarkdown)

	case notion.TypeEquation:
		if b.Equation == nil || b.Equation.Expression == "" {
			return ""
		}
		return "`" + b.Equation.Expression + "`"

	default:
		// Fail-open: unknown types degrade to a labeled stub, never an
		// error. Any rich text they carry is still shown.
		marker := fmt.Sprintf("<!-- unsupported block type: %s -->", b.Type)
		if text := richTextToMarkdown(b.PayloadRichText()); text != "" {
			return text + "\n" + marker
		}
		return marker
	}
}

// convertChildren renders a child sequence, one block per line. Past the
// depth cap the children render as a flat, unindented stub instead of
// recursing further.
func (r *markdownRenderer) convertChildren(blocks []notion.Block, depth int) string {
	if len(blocks) == 0 {
		return ""
	}
	if depth > config.MaxRenderDepth {
		return flatStub(blocks)
	}
	parts := make([]string, 0, len(blocks))
	for i := range blocks {
		if out := r.convertBlock(&blocks[i], i, depth); out != "" {
			parts = append(parts, out)
		}
	}
	return strings.Join(parts, "\n")
}

// flatStub renders blocks as bare text lines without recursing into
// their subtrees, bounding stack usage against malformed input.
func flatStub(blocks []notion.Block) string {
	parts := make([]string, 0, len(blocks))
	for i := range blocks {
		if text := notion.PlainText(blocks[i].PayloadRichText()); text != "" {
			parts = append(parts, text)
		}
	}
	return strings.Join(parts, "\n")
}

// convertTable renders table_row children as a markdown table, first row
// as header.
func (r *markdownRenderer) convertTable(b *notion.Block) string {
	var rows [][][]notion.RichText
	for i := range b.Children {
		child := &b.Children[i]
		if child.Type == notion.TypeTableRow && child.TableRow != nil {
			rows = append(rows, child.TableRow.Cells)
		}
	}
	if len(rows) == 0 {
		return ""
	}

	lines := make([]string, 0, len(rows)+1)
	lines = append(lines, tableLine(rows[0], richTextToMarkdown))

	separator := make([]string, len(rows[0]))
	for i := range separator {
		separator[i] = "---"
	}
	lines = append(lines, "| "+strings.Join(separator, " | ")+" |")

	for _, row := range rows[1:] {
		lines = append(lines, tableLine(row, richTextToMarkdown))
	}
	return strings.Join(lines, "\n")
}

// tableLine formats one row of cells with the given cell formatter.
func tableLine(cells [][]notion.RichText, format func([]notion.RichText) string) string {
	out := make([]string, len(cells))
	for i, cell := range cells {
		out[i] = strings.ReplaceAll(format(cell), "|", "\\|")
	}
	return "| " + strings.Join(out, " | ") + " |"
}
