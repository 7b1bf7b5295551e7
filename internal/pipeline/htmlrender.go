package pipeline

import (
	"bytes"
	"fmt"
	"html"
	"net/url"
	"strings"

	"github.com/alecthomas/chroma/v2"
	chromahtml "github.com/alecthomas/chroma/v2/formatters/html"
	"github.com/alecthomas/chroma/v2/lexers"
	"github.com/alecthomas/chroma/v2/styles"
	"github.com/rs/zerolog"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/renderer"
	"github.com/yuin/goldmark/util"
)

// Hooks overrides individual render rules. Nil fields use the defaults.
type Hooks struct {
	Heading func(text string, level int, slug string) (string, bool)
	Image   func(src, title, alt string) (string, bool)
	Code    func(code, lang string) (string, bool)
	Link    func(href, title, text string) (string, bool)
}

// RenderConfig carries the per-call rendering configuration.
type RenderConfig struct {
	BaseURL    *url.URL // nil: links kept as written
	AllowMath  bool
	HardBreaks bool
	Math       MathRenderer
	Hooks      Hooks
	Logger     *zerolog.Logger
}

// Highlighting is shared across calls; the formatter and style carry no
// per-call state.
var (
	highlightFormatter = chromahtml.New(chromahtml.WithClasses(true))
	highlightStyle     = styles.Get("github")
)

// nodeRenderer renders headings, images, fenced code, and links in place of
// Goldmark's built-in rules. One instance lives for exactly one render call
// (it owns the slug registry).
type nodeRenderer struct {
	cfg   RenderConfig
	slugs *slugger

	// Set when a hook produced the whole element on entering, so the
	// closing-tag write on exit must be suppressed.
	hookedHeading bool
	hookedLink    bool
}

func newNodeRenderer(cfg RenderConfig) *nodeRenderer {
	return &nodeRenderer{cfg: cfg, slugs: newSlugger()}
}

// RegisterFuncs implements renderer.NodeRenderer.
func (r *nodeRenderer) RegisterFuncs(reg renderer.NodeRendererFuncRegisterer) {
	reg.Register(ast.KindHeading, r.renderHeading)
	reg.Register(ast.KindImage, r.renderImage)
	reg.Register(ast.KindFencedCodeBlock, r.renderFencedCode)
	reg.Register(ast.KindCodeBlock, r.renderIndentedCode)
	reg.Register(ast.KindLink, r.renderLink)
	reg.Register(ast.KindAutoLink, r.renderAutoLink)
}

// renderHeading emits <hN id="slug"> with a leading anchor link. The anchor
// is present even for empty headings; slugs are unique per document.
func (r *nodeRenderer) renderHeading(w util.BufWriter, source []byte, node ast.Node, entering bool) (ast.WalkStatus, error) {
	n := node.(*ast.Heading)
	if !entering {
		if r.hookedHeading {
			r.hookedHeading = false
			return ast.WalkContinue, nil
		}
		_, _ = fmt.Fprintf(w, "</h%d>\n", n.Level)
		return ast.WalkContinue, nil
	}

	raw := string(nodeText(n, source))
	slug := r.slugs.Slug(raw)

	if hook := r.cfg.Hooks.Heading; hook != nil {
		if out, ok := hook(raw, n.Level, slug); ok {
			_, _ = w.WriteString(out)
			r.hookedHeading = true
			return ast.WalkSkipChildren, nil
		}
	}

	_, _ = fmt.Fprintf(w, `<h%d id="%s"><a class="anchor" aria-hidden="true" href="#%s"></a>`,
		n.Level, html.EscapeString(slug), html.EscapeString(slug))
	return ast.WalkContinue, nil
}

// renderImage emits a self-closing img tag. Alt is always present; title
// defaults to the empty string. URL validation is deferred to sanitization.
func (r *nodeRenderer) renderImage(w util.BufWriter, source []byte, node ast.Node, entering bool) (ast.WalkStatus, error) {
	if !entering {
		return ast.WalkContinue, nil
	}
	n := node.(*ast.Image)
	src := string(n.Destination)
	title := string(n.Title)
	alt := string(nodeText(n, source))

	if hook := r.cfg.Hooks.Image; hook != nil {
		if out, ok := hook(src, title, alt); ok {
			_, _ = w.WriteString(out)
			return ast.WalkSkipChildren, nil
		}
	}

	_, _ = fmt.Fprintf(w, `<img src="%s" alt="%s" title="%s" />`,
		html.EscapeString(src), html.EscapeString(alt), html.EscapeString(title))
	return ast.WalkSkipChildren, nil
}

func (r *nodeRenderer) renderFencedCode(w util.BufWriter, source []byte, node ast.Node, entering bool) (ast.WalkStatus, error) {
	if !entering {
		return ast.WalkContinue, nil
	}
	n := node.(*ast.FencedCodeBlock)
	lang := normalizeLang(string(n.Language(source)))
	r.writeCode(w, linesText(n, source), lang)
	return ast.WalkSkipChildren, nil
}

func (r *nodeRenderer) renderIndentedCode(w util.BufWriter, source []byte, node ast.Node, entering bool) (ast.WalkStatus, error) {
	if !entering {
		return ast.WalkContinue, nil
	}
	r.writeCode(w, linesText(node, source), "")
	return ast.WalkSkipChildren, nil
}

// writeCode renders a code block: math delegation for "math" blocks,
// chroma highlighting for known languages, an escaped fallback otherwise.
// Total over its inputs; unknown languages and highlighter failures both
// fall back to the escaped block.
func (r *nodeRenderer) writeCode(w util.BufWriter, code, lang string) {
	if hook := r.cfg.Hooks.Code; hook != nil {
		if out, ok := hook(code, lang); ok {
			_, _ = w.WriteString(out)
			return
		}
	}

	if lang == "math" && r.cfg.AllowMath && r.cfg.Math != nil {
		fragment, err := r.cfg.Math.RenderDisplay(code)
		if err != nil {
			warnMathFailure(r.cfg.Logger, code, err)
			writeEscapedCode(w, code, lang)
			return
		}
		_, _ = w.WriteString(fragment)
		return
	}

	if lang == "" {
		writeEscapedCode(w, code, lang)
		return
	}
	lexer := lexers.Get(lang)
	if lexer == nil {
		writeEscapedCode(w, code, lang)
		return
	}
	iterator, err := chroma.Coalesce(lexer).Tokenise(nil, code)
	if err != nil {
		writeEscapedCode(w, code, lang)
		return
	}

	// Format into a scratch buffer so a mid-stream failure still falls
	// back to a complete escaped block.
	var buf bytes.Buffer
	if err := highlightFormatter.Format(&buf, highlightStyle, iterator); err != nil {
		writeEscapedCode(w, code, lang)
		return
	}
	_, _ = fmt.Fprintf(w, `<div class="highlight highlight-source-%s">`, html.EscapeString(lang))
	_, _ = w.Write(buf.Bytes())
	_, _ = w.WriteString("</div>\n")
}

// writeEscapedCode emits the unhighlighted fallback block. The notranslate
// class marks the content for machine-translation layers to skip.
func writeEscapedCode(w util.BufWriter, code, lang string) {
	class := "notranslate"
	if lang != "" {
		class = "language-" + lang + " notranslate"
	}
	_, _ = fmt.Fprintf(w, "<pre><code class=\"%s\">%s</code></pre>\n",
		html.EscapeString(class), html.EscapeString(code))
}

// renderLink resolves hrefs against the base URL and tags external-form
// links with rel="noopener noreferrer". In-document anchors get no rel.
func (r *nodeRenderer) renderLink(w util.BufWriter, source []byte, node ast.Node, entering bool) (ast.WalkStatus, error) {
	n := node.(*ast.Link)
	if !entering {
		if r.hookedLink {
			r.hookedLink = false
			return ast.WalkContinue, nil
		}
		_, _ = w.WriteString("</a>")
		return ast.WalkContinue, nil
	}

	href := string(n.Destination)
	title := string(n.Title)

	if hook := r.cfg.Hooks.Link; hook != nil {
		if out, ok := hook(href, title, string(nodeText(n, source))); ok {
			_, _ = w.WriteString(out)
			r.hookedLink = true
			return ast.WalkSkipChildren, nil
		}
	}

	r.writeLinkOpen(w, href, title)
	return ast.WalkContinue, nil
}

func (r *nodeRenderer) renderAutoLink(w util.BufWriter, source []byte, node ast.Node, entering bool) (ast.WalkStatus, error) {
	if !entering {
		return ast.WalkContinue, nil
	}
	n := node.(*ast.AutoLink)
	href := string(n.URL(source))
	label := string(n.Label(source))
	if n.AutoLinkType == ast.AutoLinkEmail && !strings.HasPrefix(href, "mailto:") {
		href = "mailto:" + href
	}

	if hook := r.cfg.Hooks.Link; hook != nil {
		if out, ok := hook(href, "", label); ok {
			_, _ = w.WriteString(out)
			return ast.WalkContinue, nil
		}
	}

	r.writeLinkOpen(w, href, "")
	_, _ = w.WriteString(html.EscapeString(label))
	_, _ = w.WriteString("</a>")
	return ast.WalkContinue, nil
}

// writeLinkOpen emits the opening <a> tag. Malformed hrefs are not errors:
// resolution failures keep the original value.
func (r *nodeRenderer) writeLinkOpen(w util.BufWriter, href, title string) {
	anchor := strings.HasPrefix(href, "#")
	if !anchor && r.cfg.BaseURL != nil {
		if u, err := url.Parse(href); err == nil {
			href = r.cfg.BaseURL.ResolveReference(u).String()
		}
	}

	_, _ = fmt.Fprintf(w, `<a href="%s"`, html.EscapeString(href))
	if title != "" {
		_, _ = fmt.Fprintf(w, ` title="%s"`, html.EscapeString(title))
	}
	if !anchor {
		_, _ = w.WriteString(` rel="noopener noreferrer"`)
	}
	_, _ = w.WriteString(">")
}

// normalizeLang reduces a fence info tag to its first comma segment,
// lowercased: "ts, ignore" -> "ts".
func normalizeLang(info string) string {
	lang, _, _ := strings.Cut(info, ",")
	return strings.ToLower(strings.TrimSpace(lang))
}

// nodeText collects the plain text beneath a node.
func nodeText(n ast.Node, source []byte) []byte {
	var buf bytes.Buffer
	var walk func(ast.Node)
	walk = func(n ast.Node) {
		for c := n.FirstChild(); c != nil; c = c.NextSibling() {
			switch t := c.(type) {
			case *ast.Text:
				buf.Write(t.Segment.Value(source))
			case *ast.String:
				buf.Write(t.Value)
			default:
				walk(c)
			}
		}
	}
	walk(n)
	return buf.Bytes()
}

// linesText collects the raw source lines of a block node.
func linesText(n ast.Node, source []byte) string {
	var buf bytes.Buffer
	lines := n.Lines()
	for i := 0; i < lines.Len(); i++ {
		seg := lines.At(i)
		buf.Write(seg.Value(source))
	}
	return buf.String()
}
