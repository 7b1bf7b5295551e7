package pipeline

import (
	"bytes"
	"errors"
	"fmt"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/renderer"
	gmhtml "github.com/yuin/goldmark/renderer/html"
	"github.com/yuin/goldmark/util"
)

// ErrHTMLConversion indicates HTML conversion failed.
var ErrHTMLConversion = errors.New("HTML conversion failed")

// RenderHTML converts Markdown to an HTML fragment using Goldmark with GFM
// and footnote extensions, with the custom node renderers registered ahead
// of the built-ins. The result is unsanitized.
//
// A Goldmark instance is built per call: the node renderer owns the
// per-document slug registry, so instances must not be shared.
func RenderHTML(source string, cfg RenderConfig) (string, error) {
	opts := []renderer.Option{
		renderer.WithNodeRenderers(util.Prioritized(newNodeRenderer(cfg), 200)),
		gmhtml.WithXHTML(),
		// Raw HTML passes through here; the sanitization gate downstream
		// is the sole XSS defense boundary.
		gmhtml.WithUnsafe(),
	}
	if cfg.HardBreaks {
		opts = append(opts, gmhtml.WithHardWraps())
	}

	md := goldmark.New(
		goldmark.WithExtensions(
			extension.GFM,      // Tables, strikethrough, autolinks, task lists
			extension.Footnote, // [^1] footnotes
		),
		goldmark.WithRendererOptions(opts...),
	)

	var buf bytes.Buffer
	if err := md.Convert([]byte(source), &buf); err != nil {
		return "", fmt.Errorf("%w: %v", ErrHTMLConversion, err)
	}
	return buf.String(), nil
}
