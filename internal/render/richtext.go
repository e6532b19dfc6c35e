package render

import (
	"html"
	"strings"

	"inkwell/internal/notion"
)

// Annotation wrapping happens in a fixed order so nesting is
// deterministic no matter which flags are set: code first (innermost),
// then bold, italic, strikethrough, underline, and color last as the
// outer wrapper so inner styling survives visually. Span outputs are
// concatenated positionally; malformed spans contribute an empty string.

// richTextToMarkdown formats a span sequence as a single markdown string.
func richTextToMarkdown(spans []notion.RichText) string {
	if len(spans) == 0 {
		return ""
	}
	var sb strings.Builder
	for _, span := range spans {
		sb.WriteString(spanToMarkdown(span))
	}
	return sb.String()
}

func spanToMarkdown(span notion.RichText) string {
	content := span.Plain()
	if content == "" && span.Href == "" {
		return ""
	}

	if span.Href != "" {
		content = "[" + content + "](" + span.Href + ")"
	}

	if a := span.Annotations; a != nil {
		if a.Code {
			content = "`" + content + "`"
		}
		if a.Bold {
			content = "**" + content + "**"
		}
		if a.Italic {
			content = "*" + content + "*"
		}
		if a.Strikethrough {
			content = "~~" + content + "~~"
		}
		if a.Underline {
			content = "<u>" + content + "</u>"
		}
		// Markdown has no color syntax; color is a markup-mode concern.
	}
	return content
}

// richTextToHTML formats a span sequence as inline HTML. Text content is
// escaped; the styles table supplies color classes.
func richTextToHTML(spans []notion.RichText, styles *Styles) string {
	if len(spans) == 0 {
		return ""
	}
	var sb strings.Builder
	for _, span := range spans {
		sb.WriteString(spanToHTML(span, styles))
	}
	return sb.String()
}

func spanToHTML(span notion.RichText, styles *Styles) string {
	content := html.EscapeString(span.Plain())
	if content == "" && span.Href == "" {
		return ""
	}

	if span.Href != "" {
		content = `<a href="` + html.EscapeString(span.Href) + `" target="_blank" rel="noopener noreferrer">` + content + `</a>`
	}

	if a := span.Annotations; a != nil {
		if a.Code {
			content = "<code>" + content + "</code>"
		}
		if a.Bold {
			content = "<strong>" + content + "</strong>"
		}
		if a.Italic {
			content = "<em>" + content + "</em>"
		}
		if a.Strikethrough {
			content = "<s>" + content + "</s>"
		}
		if a.Underline {
			content = "<u>" + content + "</u>"
		}
		if cls := styles.ColorClass(a.Color); cls != "" {
			content = `<span class="` + cls + `">` + content + `</span>`
		}
	}
	return content
}
