package pipeline

import (
	"html"
	"regexp"
	"strings"

	"github.com/microcosm-cc/bluemonday"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/extension"
	east "github.com/yuin/goldmark/extension/ast"
	"github.com/yuin/goldmark/text"
)

// Section is one heading-delimited slice of a document's plain text.
type Section struct {
	Header  string
	Depth   int
	Content string
}

// stripPolicy removes every tag from embedded raw HTML. bluemonday policies
// are safe for concurrent use once built.
var stripPolicy = bluemonday.StrictPolicy()

// runsOfNewlines matches 3+ consecutive newlines for whitespace folding.
var runsOfNewlines = regexp.MustCompile(`\n{3,}`)

// ReduceSections parses Markdown and folds the syntax tree into sections
// keyed by heading boundaries, discarding markup. Index 0 is always the
// implicit depth-0 root section covering text before the first heading.
// Sections are never merged or reordered.
func ReduceSections(source string) []Section {
	md := goldmark.New(
		goldmark.WithExtensions(extension.GFM, extension.Footnote),
	)
	src := []byte(source)
	doc := md.Parser().Parse(text.NewReader(src))

	r := &reducer{src: src, sections: []Section{{Depth: 0}}}
	r.fold(doc)

	for i := range r.sections {
		r.sections[i].Header = normalizeField(r.sections[i].Header)
		r.sections[i].Content = normalizeField(r.sections[i].Content)
	}
	return r.sections
}

// FlattenSections assembles sections into a single plain-text string:
// header, blank line, content per section, sections joined by blank lines,
// folded whitespace, exactly one trailing newline.
func FlattenSections(sections []Section) string {
	parts := make([]string, 0, len(sections))
	for _, s := range sections {
		parts = append(parts, s.Header+"\n\n"+s.Content)
	}
	out := strings.TrimSpace(strings.Join(parts, "\n\n"))
	out = runsOfNewlines.ReplaceAllString(out, "\n")
	return out + "\n"
}

// reducer folds a token tree into section buckets. Two accumulators are
// live per open section: the header (while inside a heading's own inline
// content) and the content (otherwise).
type reducer struct {
	src      []byte
	sections []Section
	inHeader bool
}

func (r *reducer) active() *string {
	s := &r.sections[len(r.sections)-1]
	if r.inHeader {
		return &s.Header
	}
	return &s.Content
}

func (r *reducer) add(s string) {
	*r.active() += s
}

// trimTrailingNewlines removes newlines from the end of the active
// accumulator, never reaching past mark into text an item did not produce.
func (r *reducer) trimTrailingNewlines(mark int) {
	f := r.active()
	for len(*f) > mark && strings.HasSuffix(*f, "\n") {
		*f = (*f)[:len(*f)-1]
	}
}

func (r *reducer) foldChildren(n ast.Node) {
	for c := n.FirstChild(); c != nil; c = c.NextSibling() {
		r.fold(c)
	}
}

// fold dispatches on the node kind. Every kind has a defined policy; kinds
// without text of their own (emphasis, links, blockquotes, footnote
// machinery) fall through to the recurse-only default.
func (r *reducer) fold(n ast.Node) {
	switch n.Kind() {
	case ast.KindHeading:
		h := n.(*ast.Heading)
		r.sections = append(r.sections, Section{Depth: h.Level})
		r.inHeader = true
		r.foldChildren(n)
		r.inHeader = false

	case ast.KindText:
		t := n.(*ast.Text)
		r.add(string(t.Segment.Value(r.src)))
		if t.SoftLineBreak() || t.HardLineBreak() {
			r.add("\n")
		}

	case ast.KindString:
		r.add(string(n.(*ast.String).Value))

	case ast.KindCodeSpan:
		r.add(codeSpanText(n, r.src))

	case ast.KindFencedCodeBlock:
		// Math blocks contribute nothing to plain text.
		fc := n.(*ast.FencedCodeBlock)
		if normalizeLang(string(fc.Language(r.src))) != "math" {
			r.add(linesText(n, r.src))
			r.add("\n")
		}

	case ast.KindCodeBlock:
		r.add(linesText(n, r.src))
		r.add("\n")

	case ast.KindHTMLBlock:
		b := n.(*ast.HTMLBlock)
		raw := linesText(n, r.src)
		if b.HasClosure() {
			raw += string(b.ClosureLine.Value(r.src))
		}
		r.add(stripTags(raw))
		r.add("\n\n")

	case ast.KindRawHTML:
		rh := n.(*ast.RawHTML)
		var sb strings.Builder
		for i := 0; i < rh.Segments.Len(); i++ {
			seg := rh.Segments.At(i)
			sb.Write(seg.Value(r.src))
		}
		r.add(stripTags(sb.String()))

	case ast.KindImage:
		img := n.(*ast.Image)
		if len(img.Title) > 0 {
			r.add(string(img.Title))
		} else {
			r.add(string(nodeText(img, r.src)))
		}

	case ast.KindAutoLink:
		r.add(string(n.(*ast.AutoLink).Label(r.src)))

	case ast.KindParagraph:
		r.foldChildren(n)
		r.add("\n\n")

	case ast.KindTextBlock:
		r.foldChildren(n)
		r.add("\n")

	case ast.KindListItem:
		// One newline per item, however the item's last block terminated:
		// tight items (TextBlock) and loose items (Paragraph) space alike.
		mark := len(*r.active())
		r.foldChildren(n)
		r.trimTrailingNewlines(mark)
		r.add("\n")

	case east.KindTableHeader, east.KindTableRow:
		r.foldChildren(n)
		r.add("\n")

	case east.KindTableCell:
		r.foldChildren(n)
		r.add(" ")

	case ast.KindThematicBreak, east.KindTaskCheckBox:
		// No text contribution.

	default:
		// Document, blockquote, list, table, link, emphasis,
		// strikethrough, footnote machinery: recurse only.
		r.foldChildren(n)
	}
}

// codeSpanText returns the span's source text verbatim: one wrapping space
// pair is stripped (conventional inline-code trimming), but backslash
// escapes inside the span stay uninterpreted.
func codeSpanText(n ast.Node, source []byte) string {
	var sb strings.Builder
	for c := n.FirstChild(); c != nil; c = c.NextSibling() {
		if t, ok := c.(*ast.Text); ok {
			sb.Write(t.Segment.Value(source))
		}
	}
	s := sb.String()
	if len(s) >= 2 && s[0] == ' ' && s[len(s)-1] == ' ' && strings.TrimSpace(s) != "" {
		s = s[1 : len(s)-1]
	}
	return s
}

// stripTags reduces embedded HTML to its readable text content.
func stripTags(raw string) string {
	return strings.TrimSpace(html.UnescapeString(stripPolicy.Sanitize(raw)))
}

// normalizeField folds 3+ consecutive newlines to one and trims the field.
func normalizeField(s string) string {
	return strings.TrimSpace(runsOfNewlines.ReplaceAllString(s, "\n"))
}
