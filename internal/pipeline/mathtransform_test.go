package pipeline

import (
	"errors"
	"strings"
	"testing"
)

// fakeMath renders formulas into recognizable fragments, or fails.
type fakeMath struct {
	fail bool
}

func (f fakeMath) RenderDisplay(formula string) (string, error) {
	if f.fail {
		return "", errors.New("malformed formula")
	}
	return `<span class="math-display">` + formula + `</span>`, nil
}

func (f fakeMath) RenderInline(formula string) (string, error) {
	if f.fail {
		return "", errors.New("malformed formula")
	}
	return `<span class="math-inline">` + formula + `</span>`, nil
}

func TestApplyMathBlock(t *testing.T) {
	t.Parallel()

	content, fragments := ApplyMath("before\n\n$$ x^2 $$\n\nafter", fakeMath{}, nil)

	if len(fragments) != 1 {
		t.Fatalf("fragments = %d, want 1", len(fragments))
	}
	if want := `<span class="math-display">x^2</span>`; fragments[0] != want {
		t.Errorf("fragment = %q, want %q", fragments[0], want)
	}
	if strings.Contains(content, "$$") {
		t.Errorf("content still contains delimiters: %q", content)
	}

	restored := RestoreMath(content, fragments)
	if !strings.Contains(restored, `math-display`) {
		t.Errorf("restored output missing fragment: %q", restored)
	}
}

func TestApplyMathInline(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		input    string
		rendered bool // whether a fragment should be produced
	}{
		{
			name:     "whitespace-delimited formula",
			input:    "the value $x+1$ grows",
			rendered: true,
		},
		{
			name:     "single character formula",
			input:    "let $x$ be",
			rendered: true,
		},
		{
			name:     "no surrounding whitespace is not math",
			input:    "costs US$5 and US$6 total",
			rendered: false,
		},
		{
			name:     "whitespace at content boundary is not math",
			input:    "a $ x $ b",
			rendered: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			_, fragments := ApplyMath(tt.input, fakeMath{}, nil)
			if got := len(fragments) > 0; got != tt.rendered {
				t.Errorf("rendered = %v, want %v (fragments %q)", got, tt.rendered, fragments)
			}
		})
	}
}

func TestApplyMathFailureKeepsOriginal(t *testing.T) {
	t.Parallel()

	input := `$$ \invalidcmd $$`
	content, fragments := ApplyMath(input, fakeMath{fail: true}, nil)

	if content != input {
		t.Errorf("content = %q, want original %q", content, input)
	}
	if len(fragments) != 0 {
		t.Errorf("fragments = %d, want 0", len(fragments))
	}
}

func TestStripMath(t *testing.T) {
	t.Parallel()

	got := StripMath("intro\n\n$$ x^2 $$\n\nthe $y$ term")
	if strings.Contains(got, "x^2") || strings.Contains(got, "$y$") {
		t.Errorf("StripMath left formula content: %q", got)
	}
	if !strings.Contains(got, "intro") || !strings.Contains(got, "term") {
		t.Errorf("StripMath removed surrounding text: %q", got)
	}
}
