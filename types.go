package mdrender

import "github.com/rs/zerolog"

// Options controls rendering and plain-text reduction for a single call.
// The zero value is valid: no base URL, iframes and math disabled,
// sanitization enabled. Options are read-only inputs; the library operates
// on an internal copy and never mutates the caller's struct.
type Options struct {
	// BaseURL resolves relative link hrefs to absolute URLs.
	// Empty means links are kept as written.
	BaseURL string

	// MediaBaseURL resolves relative image and video src attributes.
	// Empty defaults to BaseURL.
	MediaBaseURL string

	// Inline renders a single paragraph without the wrapping <p> element.
	Inline bool

	// AllowIframes admits the iframe element family through sanitization.
	AllowIframes bool

	// AllowMath enables the math formula pre-pass (requires Math) and
	// admits MathML/KaTeX element families through sanitization.
	AllowMath bool

	// DisableSanitize skips the sanitization gate entirely.
	// Only safe for trusted input.
	DisableSanitize bool

	// HardBreaks treats single newlines as <br> elements.
	HardBreaks bool

	// Hooks overrides individual render rules. Nil fields fall back to
	// the default rules.
	Hooks *RenderHooks

	// Math renders formulas matched by the math pre-pass and fenced
	// "math" code blocks. Nil leaves formula text untouched.
	Math MathRenderer

	// TextFilters run over the raw Markdown before tokenization, in order.
	// This is the slot for emoji-name substitution and similar rewrites.
	TextFilters []TextFilter

	// ExtraTags, ExtraAttributes, and ExtraClasses extend the sanitizer
	// allow-lists. Extensions union with the defaults; they never replace
	// them. ExtraAttributes and ExtraClasses are keyed by tag name;
	// ExtraClasses values may use "*" wildcards.
	ExtraTags       []string
	ExtraAttributes map[string][]string
	ExtraClasses    map[string][]string

	// Logger receives warnings for recovered failures (math rendering).
	// Nil discards them.
	Logger *zerolog.Logger
}

// TextFilter transforms Markdown source text before tokenization.
type TextFilter func(string) string

// MathRenderer renders math formula source to trusted HTML/MathML
// fragments. Errors are recovered: the original formula text is kept and a
// warning is logged.
type MathRenderer interface {
	// RenderDisplay renders a block formula ($$ ... $$) in display mode.
	RenderDisplay(formula string) (string, error)
	// RenderInline renders an inline formula ($...$).
	RenderInline(formula string) (string, error)
}

// RenderHooks overrides the built-in render rules. Each hook returns the
// HTML fragment and true, or false to fall through to the default rule.
type RenderHooks struct {
	// Heading receives the heading's raw text, the level (1-6), and the
	// de-duplicated slug.
	Heading func(text string, level int, slug string) (string, bool)

	// Image receives src, title (empty when absent), and alt text.
	Image func(src, title, alt string) (string, bool)

	// Code receives the code text and the normalized language tag.
	Code func(code, lang string) (string, bool)

	// Link receives href, title (empty when absent), and the
	// inline-rendered link text.
	Link func(href, title, text string) (string, bool)
}

// Section is one heading-delimited slice of a document's plain text.
// A document always starts with an implicit root section of depth 0
// covering text that precedes the first heading.
type Section struct {
	// Header is the heading's own text. Empty for the root section.
	Header string `json:"header"`
	// Depth is the heading level; 0 for the root section.
	Depth int `json:"depth"`
	// Content is the text between this heading and the next.
	Content string `json:"content"`
}
