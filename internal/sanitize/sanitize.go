package sanitize

import (
	"net/url"
	"regexp"
	"strings"

	"golang.org/x/net/html"
)

// dropContent lists elements whose children are stripped along with the
// element when the element itself is disallowed. For everything else only
// the tags are removed and the children survive as regular content.
var dropContent = map[string]bool{
	"script":   true,
	"style":    true,
	"iframe":   true,
	"object":   true,
	"embed":    true,
	"noscript": true,
	"textarea": true,
	"title":    true,
	"svg":      true,
	"math":     true,
}

// voidElements never carry content, so a disallowed one is dropped without
// entering skip mode.
var voidElements = map[string]bool{
	"area": true, "base": true, "br": true, "col": true, "embed": true,
	"hr": true, "img": true, "input": true, "link": true, "meta": true,
	"source": true, "track": true, "wbr": true,
}

// urlAttrs are the attributes whose values carry URLs and go through
// scheme checking.
var urlAttrs = map[string]bool{
	"href": true, "src": true, "poster": true, "cite": true, "action": true,
}

var schemePattern = regexp.MustCompile(`^\s*([a-zA-Z][a-zA-Z0-9+.\-]*):`)

// Sanitize filters an HTML string against the policy. Text content passes
// through byte-for-byte; allowed tags are re-emitted with only their
// allowed attributes and class tokens. mediaBase, when non-nil, rewrites
// img/video src attributes to absolute URLs.
//
// Sanitize never fails: malformed markup degrades to whatever the
// tokenizer can make of it, filtered by the same rules.
func Sanitize(input string, p *Policy, mediaBase *url.URL) string {
	z := html.NewTokenizer(strings.NewReader(input))
	var b strings.Builder
	b.Grow(len(input))

	skipTag := ""
	skipDepth := 0

	for {
		tt := z.Next()
		if tt == html.ErrorToken {
			break
		}

		if skipDepth > 0 {
			switch tt {
			case html.StartTagToken:
				if name, _ := z.TagName(); string(name) == skipTag {
					skipDepth++
				}
			case html.EndTagToken:
				if name, _ := z.TagName(); string(name) == skipTag {
					skipDepth--
				}
			}
			continue
		}

		switch tt {
		case html.TextToken:
			b.Write(z.Raw())

		case html.CommentToken, html.DoctypeToken:
			// Dropped.

		case html.StartTagToken, html.SelfClosingTagToken:
			raw := z.Raw()
			name, _ := z.TagName()
			tag := string(name)
			if !p.tagAllowed(tag) {
				if tt == html.StartTagToken && dropContent[tag] && !voidElements[tag] {
					skipTag = tag
					skipDepth = 1
				}
				continue
			}
			writeTag(&b, p, tag, raw, tt == html.SelfClosingTagToken, mediaBase)

		case html.EndTagToken:
			name, _ := z.TagName()
			tag := string(name)
			if p.tagAllowed(tag) && !voidElements[tag] {
				b.WriteString("</" + tag + ">")
			}
		}
	}

	return b.String()
}

// attribute is one parsed attribute with its original name casing.
type attribute struct {
	name   string
	value  string
	hasVal bool
}

// writeTag re-emits an allowed tag with filtered attributes. Attribute
// names keep their original casing; values are re-emitted verbatim inside
// double quotes (rewritten URLs excepted).
func writeTag(b *strings.Builder, p *Policy, tag string, raw []byte, selfClosing bool, mediaBase *url.URL) {
	attrs := parseAttributes(raw)

	if tag == "img" || tag == "video" {
		attrs = rewriteMediaSource(attrs, mediaBase)
	}

	b.WriteByte('<')
	b.WriteString(tag)
	for _, a := range attrs {
		if !p.attrAllowed(tag, a.name) {
			continue
		}
		if urlAttrs[strings.ToLower(a.name)] && !urlValueAllowed(p, a.value) {
			continue
		}
		if strings.ToLower(a.name) == "class" {
			kept := filterClasses(p, tag, a.value)
			if kept == "" {
				continue
			}
			a.value = kept
			a.hasVal = true
		}
		b.WriteByte(' ')
		b.WriteString(a.name)
		if a.hasVal {
			b.WriteString(`="`)
			b.WriteString(strings.ReplaceAll(a.value, `"`, "&#34;"))
			b.WriteByte('"')
		}
	}
	if selfClosing {
		b.WriteString(" />")
	} else {
		b.WriteByte('>')
	}
}

// rewriteMediaSource resolves src against the media base URL.
// Protocol-relative URLs are rejected outright; any resolution failure
// removes src entirely rather than emitting a malformed attribute.
func rewriteMediaSource(attrs []attribute, mediaBase *url.URL) []attribute {
	kept := attrs[:0]
	for _, a := range attrs {
		if strings.ToLower(a.name) != "src" {
			kept = append(kept, a)
			continue
		}
		val := strings.TrimSpace(a.value)
		if strings.HasPrefix(val, "//") {
			continue
		}
		if mediaBase != nil {
			u, err := url.Parse(val)
			if err != nil {
				continue
			}
			a.value = mediaBase.ResolveReference(u).String()
		}
		kept = append(kept, a)
	}
	return kept
}

// urlValueAllowed checks a URL-carrying value against the scheme
// allow-list. Relative URLs and fragments pass; protocol-relative URLs and
// disallowed schemes (javascript:, data:, ...) do not. Entity-encoded
// scheme smuggling is checked on the decoded form.
func urlValueAllowed(p *Policy, value string) bool {
	decoded := strings.TrimSpace(html.UnescapeString(value))
	if strings.HasPrefix(decoded, "//") {
		return false
	}
	m := schemePattern.FindStringSubmatch(decoded)
	if m == nil {
		return true
	}
	return p.schemeAllowed(m[1])
}

// filterClasses keeps the class tokens matching the tag's patterns.
func filterClasses(p *Policy, tag, value string) string {
	var kept []string
	for _, c := range strings.Fields(value) {
		if p.classAllowed(tag, c) {
			kept = append(kept, c)
		}
	}
	return strings.Join(kept, " ")
}

// parseAttributes scans a raw start-tag token for attributes, preserving
// the original name casing and value text. The x/net/html tokenizer folds
// attribute names to lower case, which would corrupt case-sensitive names
// like SVG's viewBox, so the raw bytes are scanned directly.
func parseAttributes(raw []byte) []attribute {
	var attrs []attribute
	i := 1 // skip '<'

	// Skip the tag name.
	for i < len(raw) && !isSpace(raw[i]) && raw[i] != '>' && raw[i] != '/' {
		i++
	}

	for i < len(raw) {
		for i < len(raw) && (isSpace(raw[i]) || raw[i] == '/') {
			i++
		}
		if i >= len(raw) || raw[i] == '>' {
			break
		}

		start := i
		for i < len(raw) && !isSpace(raw[i]) && raw[i] != '=' && raw[i] != '>' && raw[i] != '/' {
			i++
		}
		a := attribute{name: string(raw[start:i])}

		for i < len(raw) && isSpace(raw[i]) {
			i++
		}
		if i < len(raw) && raw[i] == '=' {
			i++
			for i < len(raw) && isSpace(raw[i]) {
				i++
			}
			a.hasVal = true
			if i < len(raw) && (raw[i] == '"' || raw[i] == '\'') {
				quote := raw[i]
				i++
				start = i
				for i < len(raw) && raw[i] != quote {
					i++
				}
				a.value = string(raw[start:i])
				if i < len(raw) {
					i++ // closing quote
				}
			} else {
				start = i
				for i < len(raw) && !isSpace(raw[i]) && raw[i] != '>' {
					i++
				}
				a.value = string(raw[start:i])
			}
		}
		if a.name != "" {
			attrs = append(attrs, a)
		}
	}
	return attrs
}

func isSpace(c byte) bool {
	return c == ' ' || c == '\t' || c == '\n' || c == '\r' || c == '\f'
}
