package sanitize

import "strings"

// Policy is a resolved allow-list of tags, per-tag attributes, per-tag
// class patterns, and URL schemes. Build one per call via Default and
// Extend; a Policy must not be mutated once sanitization has started.
type Policy struct {
	tags    map[string]bool
	attrs   map[string]map[string]bool // tag -> lowercased attribute names
	classes map[string][]string        // tag -> literal or "*" wildcard patterns
	schemes map[string]bool
}

// NewPolicy returns an empty policy: every tag is stripped.
func NewPolicy() *Policy {
	return &Policy{
		tags:    make(map[string]bool),
		attrs:   make(map[string]map[string]bool),
		classes: make(map[string][]string),
		schemes: make(map[string]bool),
	}
}

// AllowTags admits elements by name.
func (p *Policy) AllowTags(names ...string) *Policy {
	for _, n := range names {
		p.tags[strings.ToLower(n)] = true
	}
	return p
}

// AllowAttrs admits attributes on one tag. Matching is case-insensitive;
// the original attribute casing is preserved on output. The pseudo-tag "*"
// admits an attribute on every allowed tag.
func (p *Policy) AllowAttrs(tag string, names ...string) *Policy {
	tag = strings.ToLower(tag)
	set := p.attrs[tag]
	if set == nil {
		set = make(map[string]bool)
		p.attrs[tag] = set
	}
	for _, n := range names {
		set[strings.ToLower(n)] = true
	}
	return p
}

// AllowClasses admits class tokens on one tag. Patterns are literals or
// "*" wildcards ("language-*"). The pseudo-tag "*" applies everywhere.
func (p *Policy) AllowClasses(tag string, patterns ...string) *Policy {
	tag = strings.ToLower(tag)
	p.classes[tag] = append(p.classes[tag], patterns...)
	return p
}

// AllowSchemes admits URL schemes in href/src-like attributes.
// Relative and fragment-only URLs are always admitted.
func (p *Policy) AllowSchemes(schemes ...string) *Policy {
	for _, s := range schemes {
		p.schemes[strings.ToLower(s)] = true
	}
	return p
}

// Extend unions caller-supplied tags, attributes, and classes into the
// policy. Extensions add to the defaults; they never replace them.
func (p *Policy) Extend(tags []string, attrs map[string][]string, classes map[string][]string) *Policy {
	p.AllowTags(tags...)
	for tag, names := range attrs {
		p.AllowTags(tag)
		p.AllowAttrs(tag, names...)
	}
	for tag, patterns := range classes {
		p.AllowClasses(tag, patterns...)
	}
	return p
}

func (p *Policy) tagAllowed(tag string) bool {
	return p.tags[tag]
}

func (p *Policy) attrAllowed(tag, name string) bool {
	name = strings.ToLower(name)
	return p.attrs[tag][name] || p.attrs["*"][name]
}

func (p *Policy) classAllowed(tag, class string) bool {
	for _, pat := range p.classes[tag] {
		if matchPattern(pat, class) {
			return true
		}
	}
	for _, pat := range p.classes["*"] {
		if matchPattern(pat, class) {
			return true
		}
	}
	return false
}

func (p *Policy) schemeAllowed(scheme string) bool {
	return p.schemes[strings.ToLower(scheme)]
}

// matchPattern matches a class token against a literal or "*" wildcard
// pattern. "*" matches any run, including the empty one.
func matchPattern(pattern, s string) bool {
	if !strings.Contains(pattern, "*") {
		return pattern == s
	}
	parts := strings.Split(pattern, "*")
	if !strings.HasPrefix(s, parts[0]) {
		return false
	}
	s = s[len(parts[0]):]
	for _, part := range parts[1 : len(parts)-1] {
		i := strings.Index(s, part)
		if i < 0 {
			return false
		}
		s = s[i+len(part):]
	}
	return strings.HasSuffix(s, parts[len(parts)-1])
}

// chromaClasses are the short class names chroma's HTML formatter emits
// for syntax-highlight token types, plus its structural classes.
var chromaClasses = []string{
	"chroma", "bg", "line", "cl", "ln", "lnt", "hl", "lntable", "lntd", "lnlinks",
	"err", "x", "w",
	"k", "kc", "kd", "kn", "kp", "kr", "kt",
	"n", "na", "nb", "bp", "nc", "no", "nd", "ni", "ne", "nf", "fm", "py",
	"nl", "nn", "nx", "nt", "nv", "vc", "vg", "vi", "vm",
	"l", "ld",
	"s", "sa", "sb", "sc", "dl", "sd", "s2", "se", "sh", "si", "sx", "sr", "s1", "ss",
	"m", "mb", "mf", "mh", "mi", "il", "mo",
	"o", "ow", "p",
	"c", "ch", "cm", "c1", "cs", "cp", "cpf",
	"g", "gd", "ge", "gr", "gh", "gi", "go", "gp", "gs", "gu", "gt", "gl",
}

// Default builds the baseline policy: inline formatting, block structure,
// tables, task lists, footnote and alert constructs, and the classes the
// rendering projection legitimately emits. The iframe and math element
// families are gated by the flags.
func Default(allowIframes, allowMath bool) *Policy {
	p := NewPolicy()

	p.AllowSchemes("http", "https", "mailto")

	p.AllowTags(
		"p", "br", "hr", "wbr",
		"h1", "h2", "h3", "h4", "h5", "h6",
		"a", "em", "strong", "b", "i", "u", "del", "s", "ins", "mark",
		"sub", "sup", "q", "abbr", "kbd", "samp", "var",
		"code", "pre", "blockquote",
		"ul", "ol", "li", "dl", "dt", "dd",
		"table", "thead", "tbody", "tfoot", "tr", "th", "td",
		"img", "video",
		"div", "span", "section",
		"details", "summary",
		"input",
		"figure", "figcaption",
	)

	p.AllowAttrs("a", "href", "title", "rel", "id", "class", "role", "aria-hidden")
	p.AllowAttrs("img", "src", "alt", "title", "width", "height", "align", "loading")
	p.AllowAttrs("video", "src", "controls", "width", "height", "poster", "preload", "muted", "loop")
	for _, h := range []string{"h1", "h2", "h3", "h4", "h5", "h6"} {
		p.AllowAttrs(h, "id")
	}
	p.AllowAttrs("code", "class")
	p.AllowAttrs("pre", "class", "tabindex")
	p.AllowAttrs("div", "class", "role")
	p.AllowAttrs("span", "class")
	p.AllowAttrs("blockquote", "class", "cite")
	p.AllowAttrs("ol", "start")
	p.AllowAttrs("ul", "class")
	p.AllowAttrs("li", "id", "class")
	p.AllowAttrs("th", "align", "colspan", "rowspan", "scope")
	p.AllowAttrs("td", "align", "colspan", "rowspan")
	p.AllowAttrs("input", "type", "checked", "disabled")
	p.AllowAttrs("details", "open")
	p.AllowAttrs("section", "id", "class", "role")
	p.AllowAttrs("sup", "id", "class")
	p.AllowAttrs("abbr", "title")
	p.AllowAttrs("q", "cite")

	p.AllowClasses("a", "anchor", "footnote-ref", "footnote-backref")
	p.AllowClasses("code", "language-*", "notranslate")
	p.AllowClasses("pre", chromaClasses...)
	p.AllowClasses("span", chromaClasses...)
	p.AllowClasses("div", "highlight", "highlight-*", "chroma", "markdown-alert", "markdown-alert-*", "footnotes")
	p.AllowClasses("blockquote", "markdown-alert", "markdown-alert-*")
	p.AllowClasses("ul", "contains-task-list")
	p.AllowClasses("li", "task-list-item")
	p.AllowClasses("sup", "footnote-ref")
	p.AllowClasses("section", "footnotes")

	if allowIframes {
		p.AllowTags("iframe")
		p.AllowAttrs("iframe",
			"src", "title", "width", "height", "loading",
			"allow", "allowfullscreen", "frameborder", "sandbox")
	}

	if allowMath {
		p.AllowTags(
			"math", "semantics", "annotation", "annotation-xml",
			"mrow", "mi", "mo", "mn", "ms", "mtext", "mspace", "merror",
			"msup", "msub", "msubsup", "mfrac", "msqrt", "mroot",
			"mtable", "mtr", "mtd",
			"mover", "munder", "munderover",
			"mstyle", "mpadded", "mphantom", "menclose",
			"svg", "g", "path", "line", "rect",
		)
		p.AllowAttrs("math", "xmlns", "display")
		p.AllowAttrs("annotation", "encoding")
		p.AllowAttrs("annotation-xml", "encoding")
		p.AllowAttrs("mi", "mathvariant")
		p.AllowAttrs("mo", "fence", "stretchy", "separator", "lspace", "rspace")
		p.AllowAttrs("mfrac", "linethickness")
		p.AllowAttrs("mspace", "width", "height", "depth")
		p.AllowAttrs("mover", "accent")
		p.AllowAttrs("munder", "accentunder")
		p.AllowAttrs("mstyle", "displaystyle", "scriptlevel")
		p.AllowAttrs("mpadded", "width", "height", "depth", "lspace", "voffset")
		p.AllowAttrs("menclose", "notation")
		// SVG attribute names are case-sensitive; matching is relaxed but
		// the original casing (viewBox) is what survives to the output.
		p.AllowAttrs("svg", "xmlns", "width", "height", "viewBox", "preserveAspectRatio")
		p.AllowAttrs("g", "transform")
		p.AllowAttrs("path", "d")
		p.AllowAttrs("line", "x1", "y1", "x2", "y2")
		p.AllowAttrs("rect", "x", "y", "width", "height")
		p.AllowClasses("span", "katex", "katex-*")
		p.AllowClasses("math", "katex", "katex-*")
	}

	return p
}
