package mdrender

import (
	"strings"

	"github.com/alnah/go-mdrender/internal/pipeline"
	"github.com/alnah/go-mdrender/internal/sanitize"
)

// Render converts Markdown to sanitized HTML. A nil opts renders with
// defaults. Dirty or malformed input never fails: unknown languages,
// unresolvable URLs, and failing math formulas all degrade locally.
func Render(markdown string, opts *Options) (string, error) {
	o := resolve(opts)

	source := o.prefilter(markdown)

	var fragments []string
	if o.AllowMath && o.Math != nil {
		source, fragments = pipeline.ApplyMath(source, o.Math, o.Logger)
	}

	out, err := pipeline.RenderHTML(source, o.renderConfig())
	if err != nil {
		return "", err
	}

	// Math fragments re-enter before sanitization: they bypass Markdown
	// escaping but not the allow-lists.
	out = pipeline.RestoreMath(out, fragments)

	if !o.DisableSanitize {
		policy := sanitize.Default(o.AllowIframes, o.AllowMath)
		policy.Extend(o.ExtraTags, o.ExtraAttributes, o.ExtraClasses)
		out = sanitize.Sanitize(out, policy, o.mediaURL)
	}

	if o.Inline {
		out = unwrapParagraph(out)
	}
	return out, nil
}

// unwrapParagraph strips the wrapping <p> element from single-paragraph
// output. Multi-block output is returned unchanged.
func unwrapParagraph(out string) string {
	trimmed := strings.TrimSpace(out)
	if !strings.HasPrefix(trimmed, "<p>") || !strings.HasSuffix(trimmed, "</p>") {
		return out
	}
	inner := trimmed[len("<p>") : len(trimmed)-len("</p>")]
	if strings.Contains(inner, "<p>") {
		return out
	}
	return inner
}
