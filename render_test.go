package mdrender

import (
	"errors"
	"fmt"
	"strings"
	"testing"
)

// katexStub is a stand-in formula renderer producing allow-listed markup.
type katexStub struct {
	fail bool
}

func (k katexStub) RenderDisplay(formula string) (string, error) {
	if k.fail {
		return "", errors.New("parse error")
	}
	return `<span class="katex katex-display">` + formula + `</span>`, nil
}

func (k katexStub) RenderInline(formula string) (string, error) {
	if k.fail {
		return "", errors.New("parse error")
	}
	return `<span class="katex">` + formula + `</span>`, nil
}

func TestRenderNilOptions(t *testing.T) {
	t.Parallel()

	got, err := Render("Some **bold** text.", nil)
	if err != nil {
		t.Fatalf("Render error: %v", err)
	}
	want := "<p>Some <strong>bold</strong> text.</p>\n"
	if got != want {
		t.Errorf("Render = %q, want %q", got, want)
	}
}

func TestRenderSanitizesByDefault(t *testing.T) {
	t.Parallel()

	got, err := Render("safe text\n\n<script>alert(1)</script>\n", nil)
	if err != nil {
		t.Fatalf("Render error: %v", err)
	}
	if strings.Contains(got, "script") || strings.Contains(got, "alert") {
		t.Errorf("script content survived: %q", got)
	}
	if !strings.Contains(got, "safe text") {
		t.Errorf("safe content lost: %q", got)
	}
}

func TestRenderDisableSanitize(t *testing.T) {
	t.Parallel()

	got, err := Render("<script>trusted()</script>\n", &Options{DisableSanitize: true})
	if err != nil {
		t.Fatalf("Render error: %v", err)
	}
	if !strings.Contains(got, "<script>trusted()</script>") {
		t.Errorf("trusted markup altered: %q", got)
	}
}

func TestRenderInline(t *testing.T) {
	t.Parallel()

	t.Run("single paragraph unwrapped", func(t *testing.T) {
		t.Parallel()

		got, err := Render("just *one* line", &Options{Inline: true})
		if err != nil {
			t.Fatalf("Render error: %v", err)
		}
		if want := "just <em>one</em> line"; got != want {
			t.Errorf("Render = %q, want %q", got, want)
		}
	})

	t.Run("multiple blocks unchanged", func(t *testing.T) {
		t.Parallel()

		got, err := Render("first\n\nsecond", &Options{Inline: true})
		if err != nil {
			t.Fatalf("Render error: %v", err)
		}
		if !strings.Contains(got, "<p>first</p>") || !strings.Contains(got, "<p>second</p>") {
			t.Errorf("multi-block output unwrapped: %q", got)
		}
	})
}

func TestRenderBaseURL(t *testing.T) {
	t.Parallel()

	got, err := Render("[guide](docs/guide.md)", &Options{BaseURL: "https://example.com/repo/"})
	if err != nil {
		t.Fatalf("Render error: %v", err)
	}
	if !strings.Contains(got, `href="https://example.com/repo/docs/guide.md"`) {
		t.Errorf("link not resolved: %q", got)
	}
}

func TestRenderMediaBaseDefaultsToBaseURL(t *testing.T) {
	t.Parallel()

	got, err := Render("![a chart](chart.png)", &Options{BaseURL: "https://example.com/repo/"})
	if err != nil {
		t.Fatalf("Render error: %v", err)
	}
	if !strings.Contains(got, `src="https://example.com/repo/chart.png"`) {
		t.Errorf("image src not resolved against the base URL: %q", got)
	}
}

func TestRenderMediaBaseURL(t *testing.T) {
	t.Parallel()

	got, err := Render("![a chart](chart.png)", &Options{
		BaseURL:      "https://example.com/repo/",
		MediaBaseURL: "https://cdn.example.com/assets/",
	})
	if err != nil {
		t.Fatalf("Render error: %v", err)
	}
	if !strings.Contains(got, `src="https://cdn.example.com/assets/chart.png"`) {
		t.Errorf("image src not resolved against the media base: %q", got)
	}
}

func TestRenderIframeGating(t *testing.T) {
	t.Parallel()

	source := "before\n\n<iframe src=\"https://player.example/v/1\"></iframe>\n\nafter\n"

	got, err := Render(source, nil)
	if err != nil {
		t.Fatalf("Render error: %v", err)
	}
	if strings.Contains(got, "iframe") {
		t.Errorf("iframe survived without the flag: %q", got)
	}

	got, err = Render(source, &Options{AllowIframes: true})
	if err != nil {
		t.Fatalf("Render error: %v", err)
	}
	if !strings.Contains(got, `<iframe src="https://player.example/v/1">`) {
		t.Errorf("iframe lost with the flag set: %q", got)
	}
}

func TestRenderMath(t *testing.T) {
	t.Parallel()

	t.Run("inline formula", func(t *testing.T) {
		t.Parallel()

		got, err := Render("the $x^2$ term", &Options{AllowMath: true, Math: katexStub{}})
		if err != nil {
			t.Fatalf("Render error: %v", err)
		}
		if !strings.Contains(got, `<span class="katex">x^2</span>`) {
			t.Errorf("inline formula not rendered: %q", got)
		}
	})

	t.Run("display formula", func(t *testing.T) {
		t.Parallel()

		got, err := Render("$$ E = mc^2 $$", &Options{AllowMath: true, Math: katexStub{}})
		if err != nil {
			t.Fatalf("Render error: %v", err)
		}
		if !strings.Contains(got, `<span class="katex katex-display">E = mc^2</span>`) {
			t.Errorf("display formula not rendered: %q", got)
		}
	})

	t.Run("failing formula keeps source text", func(t *testing.T) {
		t.Parallel()

		got, err := Render("the $x^2$ term", &Options{AllowMath: true, Math: katexStub{fail: true}})
		if err != nil {
			t.Fatalf("Render error: %v", err)
		}
		if !strings.Contains(got, "$x^2$") {
			t.Errorf("failed formula text lost: %q", got)
		}
	})

	t.Run("disabled without renderer", func(t *testing.T) {
		t.Parallel()

		got, err := Render("the $x^2$ term", &Options{AllowMath: true})
		if err != nil {
			t.Fatalf("Render error: %v", err)
		}
		if !strings.Contains(got, "$x^2$") {
			t.Errorf("formula text altered without a renderer: %q", got)
		}
	})
}

func TestRenderExtraAllowances(t *testing.T) {
	t.Parallel()

	source := `<center class="wide">centered</center>` + "\n"

	got, err := Render(source, nil)
	if err != nil {
		t.Fatalf("Render error: %v", err)
	}
	if strings.Contains(got, "<center") {
		t.Errorf("unlisted tag survived: %q", got)
	}

	got, err = Render(source, &Options{
		ExtraTags:       []string{"center"},
		ExtraAttributes: map[string][]string{"center": {"class"}},
		ExtraClasses:    map[string][]string{"center": {"wide"}},
	})
	if err != nil {
		t.Fatalf("Render error: %v", err)
	}
	if !strings.Contains(got, `<center class="wide">centered</center>`) {
		t.Errorf("extended allowances not applied: %q", got)
	}
}

func TestRenderHardBreaks(t *testing.T) {
	t.Parallel()

	got, err := Render("line one\nline two", nil)
	if err != nil {
		t.Fatalf("Render error: %v", err)
	}
	if strings.Contains(got, "<br") {
		t.Errorf("soft break rendered hard by default: %q", got)
	}

	got, err = Render("line one\nline two", &Options{HardBreaks: true})
	if err != nil {
		t.Fatalf("Render error: %v", err)
	}
	if !strings.Contains(got, "<br") {
		t.Errorf("hard break missing: %q", got)
	}
}

func TestRenderTextFilters(t *testing.T) {
	t.Parallel()

	emoji := func(s string) string { return strings.ReplaceAll(s, ":tada:", "\U0001F389") }
	upper := strings.ToUpper

	got, err := Render("release :tada:", &Options{TextFilters: []TextFilter{emoji, upper}})
	if err != nil {
		t.Fatalf("Render error: %v", err)
	}
	if !strings.Contains(got, "RELEASE \U0001F389") {
		t.Errorf("filters not applied in order: %q", got)
	}
}

func TestRenderHooks(t *testing.T) {
	t.Parallel()

	t.Run("link", func(t *testing.T) {
		t.Parallel()

		hooks := &RenderHooks{
			Link: func(href, title, text string) (string, bool) {
				return `<a href="` + href + `" class="anchor">` + strings.ToUpper(text) + `</a>`, true
			},
		}
		got, err := Render("[site](https://example.com/)", &Options{Hooks: hooks})
		if err != nil {
			t.Fatalf("Render error: %v", err)
		}
		if !strings.Contains(got, ">SITE</a>") {
			t.Errorf("link hook output missing: %q", got)
		}
	})

	t.Run("heading", func(t *testing.T) {
		t.Parallel()

		hooks := &RenderHooks{
			Heading: func(text string, level int, slug string) (string, bool) {
				return fmt.Sprintf(`<h%d id="custom-%s">%s</h%d>`, level, slug, text, level), true
			},
		}
		got, err := Render("## Install", &Options{Hooks: hooks})
		if err != nil {
			t.Fatalf("Render error: %v", err)
		}
		if !strings.Contains(got, `<h2 id="custom-install">Install</h2>`) {
			t.Errorf("heading hook output missing: %q", got)
		}
	})
}

func TestRenderGFM(t *testing.T) {
	t.Parallel()

	source := "| A | B |\n|---|---|\n| 1 | 2 |\n\n~~gone~~\n\n- [x] done\n"
	got, err := Render(source, nil)
	if err != nil {
		t.Fatalf("Render error: %v", err)
	}
	for _, want := range []string{"<table>", "<del>gone</del>", `<input`, "task-list-item"} {
		if !strings.Contains(got, want) {
			t.Errorf("output %q missing %q", got, want)
		}
	}
}

func TestRenderFootnotes(t *testing.T) {
	t.Parallel()

	got, err := Render("text[^1]\n\n[^1]: the note\n", nil)
	if err != nil {
		t.Fatalf("Render error: %v", err)
	}
	if !strings.Contains(got, "footnote-ref") {
		t.Errorf("footnote reference missing: %q", got)
	}
	if !strings.Contains(got, "the note") {
		t.Errorf("footnote body missing: %q", got)
	}
}

func TestRenderDoesNotMutateOptions(t *testing.T) {
	t.Parallel()

	opts := &Options{BaseURL: "https://example.com/"}
	if _, err := Render("![a](x.png) and [b](y.md)", opts); err != nil {
		t.Fatalf("Render error: %v", err)
	}
	if opts.MediaBaseURL != "" {
		t.Errorf("MediaBaseURL mutated to %q", opts.MediaBaseURL)
	}
	if opts.BaseURL != "https://example.com/" {
		t.Errorf("BaseURL mutated to %q", opts.BaseURL)
	}
}

func TestRenderMalformedBaseURL(t *testing.T) {
	t.Parallel()

	got, err := Render("[x](docs/a.md)", &Options{BaseURL: "https://%zz"})
	if err != nil {
		t.Fatalf("Render error: %v", err)
	}
	if !strings.Contains(got, `href="docs/a.md"`) {
		t.Errorf("malformed base must leave links as written: %q", got)
	}
}
