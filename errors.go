package mdrender

import "github.com/alnah/go-mdrender/internal/pipeline"

// ErrHTMLConversion indicates the Markdown-to-HTML converter failed.
// Dirty input never triggers it; it covers internal converter failures
// only.
var ErrHTMLConversion = pipeline.ErrHTMLConversion
