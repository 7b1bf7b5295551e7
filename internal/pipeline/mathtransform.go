package pipeline

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/rs/zerolog"
)

// Math placeholders use Unicode Private Use Area characters. They pass
// through Goldmark unchanged (no WithUnsafe needed) and are replaced with
// the rendered formula fragments after HTML conversion.
const (
	mathStartPlaceholder = "\uE000" // U+E000: Private Use Area start
	mathEndPlaceholder   = "\uE001" // U+E001: Private Use Area end
)

// Precompiled formula patterns. Block math is $$ ... $$ with mandatory
// whitespace inside the delimiters; inline math is $...$ with whitespace
// outside the delimiters and non-whitespace content at both boundaries.
// Overlapping matches (e.g. $$x$$ inside a larger $...$ span) resolve in
// block-first order.
var (
	blockMathPattern  = regexp.MustCompile(`(?s)\$\$\s(.+?)\s\$\$`)
	inlineMathPattern = regexp.MustCompile(`(?m)(^|\s)\$([^\s$](?:[^$\n]*[^\s$])?)\$(\s|$)`)
)

// MathRenderer renders formula source to trusted HTML/MathML fragments.
type MathRenderer interface {
	RenderDisplay(formula string) (string, error)
	RenderInline(formula string) (string, error)
}

// ApplyMath substitutes math formulas with placeholders and returns the
// rewritten source plus the rendered fragments, indexed by placeholder.
// A formula the renderer rejects is kept as its original matched text and
// logged as a warning; the render call itself never fails.
func ApplyMath(content string, r MathRenderer, logger *zerolog.Logger) (string, []string) {
	var fragments []string

	park := func(fragment string) string {
		fragments = append(fragments, fragment)
		return mathStartPlaceholder + strconv.Itoa(len(fragments)-1) + mathEndPlaceholder
	}

	content = blockMathPattern.ReplaceAllStringFunc(content, func(match string) string {
		formula := blockMathPattern.FindStringSubmatch(match)[1]
		fragment, err := r.RenderDisplay(formula)
		if err != nil {
			warnMathFailure(logger, formula, err)
			return match
		}
		return park(fragment)
	})

	content = inlineMathPattern.ReplaceAllStringFunc(content, func(match string) string {
		sub := inlineMathPattern.FindStringSubmatch(match)
		fragment, err := r.RenderInline(sub[2])
		if err != nil {
			warnMathFailure(logger, sub[2], err)
			return match
		}
		return sub[1] + park(fragment) + sub[3]
	})

	return content, fragments
}

// RestoreMath replaces math placeholders with their rendered fragments.
// The fragments re-enter the pipeline before sanitization.
func RestoreMath(content string, fragments []string) string {
	for i, fragment := range fragments {
		placeholder := mathStartPlaceholder + strconv.Itoa(i) + mathEndPlaceholder
		content = strings.Replace(content, placeholder, fragment, 1)
	}
	return content
}

// StripMath removes math formulas from the source. Used by the plain-text
// path, where formulas contribute nothing.
func StripMath(content string) string {
	content = blockMathPattern.ReplaceAllString(content, "\n\n")
	return inlineMathPattern.ReplaceAllString(content, "$1$3")
}

func warnMathFailure(logger *zerolog.Logger, formula string, err error) {
	if logger == nil {
		return
	}
	logger.Warn().Err(err).Str("formula", formula).Msg("math rendering failed, keeping raw text")
}
