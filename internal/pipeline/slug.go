package pipeline

import (
	"regexp"
	"strconv"
	"strings"
)

// Precompiled slug patterns.
var (
	slugDisallowed = regexp.MustCompile(`[^\p{L}\p{N}\s_-]`)
	slugWhitespace = regexp.MustCompile(`\s+`)
)

// slugger assigns unique URL fragments to headings within one document.
// One slugger lives for exactly one render call.
type slugger struct {
	seen map[string]int
}

func newSlugger() *slugger {
	return &slugger{seen: make(map[string]int)}
}

// Slug returns the fragment for a heading's raw text. Repeated headings get
// a numeric suffix: "foo", "foo-1", "foo-2".
func (s *slugger) Slug(text string) string {
	base := slugify(text)
	n := s.seen[base]
	s.seen[base] = n + 1
	if n == 0 {
		return base
	}
	return base + "-" + strconv.Itoa(n)
}

// slugify lowercases, strips punctuation, and hyphenates whitespace.
func slugify(text string) string {
	t := strings.ToLower(strings.TrimSpace(text))
	t = slugDisallowed.ReplaceAllString(t, "")
	return slugWhitespace.ReplaceAllString(t, "-")
}
