package render

import (
	"bytes"
	"fmt"
	"html"
	"regexp"
	"strings"

	"github.com/microcosm-cc/bluemonday"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"

	"inkwell/internal/config"
	"inkwell/internal/notion"
)

// markdownSyntax matches metacharacters that suggest a paragraph holds
// double-encoded markdown rather than prose.
var markdownSyntax = regexp.MustCompile("[*_`#\\[\\]()~]")

// htmlRenderer converts blocks to sanitized HTML.
type htmlRenderer struct {
	styles   *Styles
	markdown goldmark.Markdown
	policy   *bluemonday.Policy
}

// NewHTMLRenderer creates the HTML renderer. The whole assembled document
// passes through a bluemonday policy, so block output never reaches the
// client unsanitized even when upstream text embeds markup.
func NewHTMLRenderer(styles *Styles) Renderer {
	policy := bluemonday.UGCPolicy()
	policy.AllowAttrs("class").Globally()
	policy.AllowElements("details", "summary", "figure", "figcaption", "input")
	policy.AllowAttrs("type", "checked", "disabled").OnElements("input")
	policy.AllowAttrs("target", "rel").OnElements("a")

	return &htmlRenderer{
		styles:   styles,
		markdown: goldmark.New(goldmark.WithExtensions(extension.GFM)),
		policy:   policy,
	}
}

// Format returns the renderer's format name.
func (r *htmlRenderer) Format() string {
	return FormatHTML
}

// RenderBlocks assembles and sanitizes the document.
func (r *htmlRenderer) RenderBlocks(blocks []notion.Block) string {
	var sb strings.Builder
	for i := range blocks {
		if out := r.convertBlock(&blocks[i], i, 0); out != "" {
			sb.WriteString(out)
			sb.WriteString("\n")
		}
	}
	return r.policy.Sanitize(strings.TrimSuffix(sb.String(), "\n"))
}

func (r *htmlRenderer) convertBlock(b *notion.Block, index, depth int) string {
	if b == nil || b.Type == "" {
		return ""
	}

	switch b.Type {
	case notion.TypeParagraph:
		return r.convertParagraph(b)

	case notion.TypeHeading1:
		return "<h1>" + richTextToHTML(b.PayloadRichText(), r.styles) + "</h1>"

	case notion.TypeHeading2:
		return "<h2>" + richTextToHTML(b.PayloadRichText(), r.styles) + "</h2>"

	case notion.TypeHeading3:
		return "<h3>" + richTextToHTML(b.PayloadRichText(), r.styles) + "</h3>"

	case notion.TypeBulletedListItem:
		return r.convertListItem(b, `<span class="list-marker">•</span>`, depth)

	case notion.TypeNumberedListItem:
		marker := fmt.Sprintf(`<span class="list-marker">%d.</span>`, index+1)
		return r.convertListItem(b, marker, depth)

	case notion.TypeCode:
		language := r.styles.Defaults.CodeLanguage
		var body string
		if b.Code != nil {
			if b.Code.Language != "" {
				language = b.Code.Language
			}
			body = notion.PlainText(b.Code.RichText)
		}
		return `<div class="code-block"><div class="code-language">` + html.EscapeString(language) +
			`</div><pre><code>` + html.EscapeString(body) + `</code></pre></div>`

	case notion.TypeQuote:
		return "<blockquote>" + richTextToHTML(b.PayloadRichText(), r.styles) + "</blockquote>"

	case notion.TypeCallout:
		icon := r.styles.Defaults.CalloutIcon
		if b.Callout != nil && b.Callout.Icon != nil && b.Callout.Icon.Emoji != "" {
			icon = b.Callout.Icon.Emoji
		}
		return `<div class="callout"><span class="callout-icon">` + html.EscapeString(icon) +
			`</span> <strong>Note:</strong> ` + richTextToHTML(b.PayloadRichText(), r.styles) + `</div>`

	case notion.TypeDivider:
		return "<hr/>"

	case notion.TypeImage:
		url := b.Image.URL()
		if url == "" {
			return ""
		}
		caption := ""
		if b.Image != nil {
			caption = richTextToHTML(b.Image.Caption, r.styles)
		}
		out := `<figure><img src="` + html.EscapeString(url) + `" alt="` + html.EscapeString(notion.PlainText(b.Image.Caption)) + `"/>`
		if caption != "" {
			out += "<figcaption>" + caption + "</figcaption>"
		}
		return out + "</figure>"

	case notion.TypeBookmark:
		if b.Bookmark == nil || b.Bookmark.URL == "" {
			return ""
		}
		label := richTextToHTML(b.Bookmark.Caption, r.styles)
		if label == "" {
			label = html.EscapeString(b.Bookmark.URL)
		}
		out := `<div class="bookmark"><a href="` + html.EscapeString(b.Bookmark.URL) +
			`" target="_blank" rel="noopener noreferrer">🔗 ` + label + `</a>`
		if caption := notion.PlainText(b.Bookmark.Caption); caption != "" {
			out += `<div class="bookmark-caption">` + html.EscapeString(caption) + `</div>`
		}
		return out + "</div>"

	case notion.TypeToDo:
		checked := b.ToDo != nil && b.ToDo.Checked
		text := richTextToHTML(b.PayloadRichText(), r.styles)
		box := `<input type="checkbox" disabled/>`
		if checked {
			box = `<input type="checkbox" checked disabled/>`
			text = "<s>" + text + "</s>"
		}
		return `<div class="to-do">` + box + " " + text + "</div>"

	case notion.TypeToggle:
		summary := richTextToHTML(b.PayloadRichText(), r.styles)
		return "<details><summary>" + summary + "</summary>" + r.convertChildren(b.Children, depth+1) + "</details>"

	case notion.TypeTable:
		return r.convertTable(b)

	case notion.TypeTableRow:
		if b.TableRow == nil {
			return ""
		}
		return "<tr>" + r.tableCells(b.TableRow.Cells, "td") + "</tr>"

	case notion.TypeEquation:
		if b.Equation == nil || b.Equation.Expression == "" {
			return ""
		}
		return `<code class="equation">` + html.EscapeString(b.Equation.Expression) + `</code>`

	default:
		marker := `<div class="unsupported">Unsupported block type: ` + html.EscapeString(b.Type) + `</div>`
		if text := richTextToHTML(b.PayloadRichText(), r.styles); text != "" {
			return "<p>" + text + "</p>" + marker
		}
		return marker
	}
}

// convertParagraph applies the embedded-markdown heuristic: paragraphs
// that look like markdown source (metacharacters, more than 10 chars, no
// code-annotated span) came through double-encoded and go through the
// markdown interpreter instead of plain span formatting.
func (r *htmlRenderer) convertParagraph(b *notion.Block) string {
	spans := b.PayloadRichText()
	plain := notion.PlainText(spans)
	formatted := richTextToHTML(spans, r.styles)
	if plain == "" && formatted == "" {
		// Fully empty paragraphs are elided, not rendered as blank lines.
		return ""
	}

	if markdownSyntax.MatchString(plain) && len(plain) > 10 && !anyCodeAnnotation(spans) {
		var buf bytes.Buffer
		if err := r.markdown.Convert([]byte(plain), &buf); err == nil {
			return `<div class="markdown">` + strings.TrimSpace(buf.String()) + `</div>`
		}
	}
	return "<p>" + formatted + "</p>"
}

func anyCodeAnnotation(spans []notion.RichText) bool {
	for _, s := range spans {
		if s.Annotations != nil && s.Annotations.Code {
			return true
		}
	}
	return false
}

func (r *htmlRenderer) convertListItem(b *notion.Block, marker string, depth int) string {
	out := `<div class="list-item">` + marker + `<div class="list-content">` +
		richTextToHTML(b.PayloadRichText(), r.styles)
	if children := r.convertChildren(b.Children, depth+1); children != "" {
		out += `<div class="list-children">` + children + `</div>`
	}
	return out + "</div></div>"
}

// convertChildren mirrors the markdown renderer's depth cap: past the
// cap, children render flat rather than recursing.
func (r *htmlRenderer) convertChildren(blocks []notion.Block, depth int) string {
	if len(blocks) == 0 {
		return ""
	}
	if depth > config.MaxRenderDepth {
		return "<p>" + html.EscapeString(flatStub(blocks)) + "</p>"
	}
	var sb strings.Builder
	for i := range blocks {
		sb.WriteString(r.convertBlock(&blocks[i], i, depth))
	}
	return sb.String()
}

func (r *htmlRenderer) convertTable(b *notion.Block) string {
	var rows []*notion.TableRowPayload
	for i := range b.Children {
		child := &b.Children[i]
		if child.Type == notion.TypeTableRow && child.TableRow != nil {
			rows = append(rows, child.TableRow)
		}
	}
	if len(rows) == 0 {
		return ""
	}

	var sb strings.Builder
	sb.WriteString("<table><thead><tr>")
	sb.WriteString(r.tableCells(rows[0].Cells, "th"))
	sb.WriteString("</tr></thead><tbody>")
	for _, row := range rows[1:] {
		sb.WriteString("<tr>" + r.tableCells(row.Cells, "td") + "</tr>")
	}
	sb.WriteString("</tbody></table>")
	return sb.String()
}

func (r *htmlRenderer) tableCells(cells [][]notion.RichText, tag string) string {
	var sb strings.Builder
	for _, cell := range cells {
		sb.WriteString("<" + tag + ">" + richTextToHTML(cell, r.styles) + "</" + tag + ">")
	}
	return sb.String()
}
