// Package mdrender renders GitHub-Flavored Markdown to sanitized HTML and
// reduces Markdown to plain-text sections.
//
// # Quick Start
//
// Render Markdown to HTML:
//
//	html, err := mdrender.Render("# Hello\n\nWorld", nil)
//
// Reduce Markdown to plain text, or to sections partitioned by headings:
//
//	text, err := mdrender.Strip(source, nil)
//	sections, err := mdrender.StripSections(source, nil)
//
// # Rendering Pipeline
//
// Rendering follows these stages:
//
//  1. Text pre-passes (caller-supplied filters, math formula substitution)
//  2. Markdown to HTML via Goldmark (GFM, footnotes, custom node renderers
//     for headings, images, fenced code, and links)
//  3. Sanitization against an allow-list of tags, attributes, and classes
//
// Plain-text reduction parses the same Markdown independently and folds the
// syntax tree into sections keyed by heading boundaries, discarding markup.
//
// # Options
//
// Both paths accept *Options. A nil Options renders with defaults: no base
// URL, iframes and math disabled, sanitization enabled.
//
//	html, err := mdrender.Render(source, &mdrender.Options{
//	    BaseURL:      "https://example.com/docs/",
//	    AllowIframes: true,
//	    ExtraTags:    []string{"center"},
//	})
//
// Options are never mutated; MediaBaseURL defaults to BaseURL internally.
//
// # Security
//
// Sanitization is the sole XSS defense boundary. Output contains no tag,
// attribute, or class outside the resolved allow-lists. Caller-supplied
// extras union with the defaults; they never replace them. Disabling
// sanitization (Options.DisableSanitize) is only safe for trusted input.
//
// # Error Handling
//
// The core never fails on dirty input: unknown code languages fall back to
// escaped blocks, malformed URLs keep their original form (links) or lose
// the attribute (media), and math rendering failures keep the raw formula
// text. Errors are returned only for internal converter failures.
package mdrender
