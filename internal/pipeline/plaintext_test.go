package pipeline

import (
	"strings"
	"testing"
)

func TestReduceSectionsPartitioning(t *testing.T) {
	t.Parallel()

	source := "intro text\n\n# One\n\nbody one\n\n## Two\n\nbody two\n"
	sections := ReduceSections(source)

	want := []Section{
		{Header: "", Depth: 0, Content: "intro text"},
		{Header: "One", Depth: 1, Content: "body one"},
		{Header: "Two", Depth: 2, Content: "body two"},
	}
	if len(sections) != len(want) {
		t.Fatalf("sections = %d, want %d: %+v", len(sections), len(want), sections)
	}
	for i, w := range want {
		if sections[i] != w {
			t.Errorf("section %d = %+v, want %+v", i, sections[i], w)
		}
	}
}

func TestReduceSectionsRootAlwaysFirst(t *testing.T) {
	t.Parallel()

	sections := ReduceSections("# Immediate Heading\n\nbody\n")

	if len(sections) < 2 {
		t.Fatalf("sections = %d, want at least 2", len(sections))
	}
	if sections[0].Depth != 0 || sections[0].Header != "" || sections[0].Content != "" {
		t.Errorf("root section = %+v, want empty depth-0 section", sections[0])
	}
	if sections[1].Header != "Immediate Heading" {
		t.Errorf("section 1 header = %q", sections[1].Header)
	}
}

func TestReduceSectionsDropsMarkup(t *testing.T) {
	t.Parallel()

	source := "Some **bold**, _emphasis_, a [link](https://example.com), and `inline code` text.\n"
	sections := ReduceSections(source)

	got := sections[0].Content
	want := "Some bold, emphasis, a link, and inline code text."
	if got != want {
		t.Errorf("content = %q, want %q", got, want)
	}
}

func TestReduceSectionsCodeSpanEscapes(t *testing.T) {
	t.Parallel()

	sections := ReduceSections("run `a \\* b` now\n")

	if got, want := sections[0].Content, `run a \* b now`; got != want {
		t.Errorf("content = %q, want %q (escapes inside spans stay literal)", got, want)
	}
}

func TestReduceSectionsFencedCode(t *testing.T) {
	t.Parallel()

	t.Run("code content kept", func(t *testing.T) {
		t.Parallel()

		sections := ReduceSections("```go\npackage main\n```\n")
		if !strings.Contains(sections[0].Content, "package main") {
			t.Errorf("content = %q", sections[0].Content)
		}
	})

	t.Run("math fences contribute nothing", func(t *testing.T) {
		t.Parallel()

		sections := ReduceSections("before\n\n```math\nx^2\n```\n\nafter\n")
		if got, want := sections[0].Content, "before\n\nafter"; got != want {
			t.Errorf("content = %q, want %q", got, want)
		}
	})
}

func TestReduceSectionsHTML(t *testing.T) {
	t.Parallel()

	t.Run("block html reduced to text", func(t *testing.T) {
		t.Parallel()

		sections := ReduceSections("<div>hello <b>world</b></div>\n")
		if got, want := sections[0].Content, "hello world"; got != want {
			t.Errorf("content = %q, want %q", got, want)
		}
	})

	t.Run("inline html tags dropped", func(t *testing.T) {
		t.Parallel()

		sections := ReduceSections("before <span>kept</span> after\n")
		if got, want := sections[0].Content, "before kept after"; got != want {
			t.Errorf("content = %q, want %q", got, want)
		}
	})
}

func TestReduceSectionsImage(t *testing.T) {
	t.Parallel()

	t.Run("title preferred", func(t *testing.T) {
		t.Parallel()

		sections := ReduceSections(`![an alt](pic.png "The Title")` + "\n")
		if got, want := sections[0].Content, "The Title"; got != want {
			t.Errorf("content = %q, want %q", got, want)
		}
	})

	t.Run("alt fallback", func(t *testing.T) {
		t.Parallel()

		sections := ReduceSections("![an alt](pic.png)\n")
		if got, want := sections[0].Content, "an alt"; got != want {
			t.Errorf("content = %q, want %q", got, want)
		}
	})
}

func TestReduceSectionsLists(t *testing.T) {
	t.Parallel()

	t.Run("one newline per item", func(t *testing.T) {
		t.Parallel()

		sections := ReduceSections("- one\n- two\n")
		if got, want := sections[0].Content, "one\ntwo"; got != want {
			t.Errorf("content = %q, want %q", got, want)
		}
	})

	t.Run("loose items spaced like tight items", func(t *testing.T) {
		t.Parallel()

		tight := ReduceSections("- one\n- two\n")[0].Content
		loose := ReduceSections("- one\n\n- two\n")[0].Content
		if tight != loose {
			t.Errorf("tight = %q, loose = %q, want identical spacing", tight, loose)
		}
	})

	t.Run("nested list", func(t *testing.T) {
		t.Parallel()

		sections := ReduceSections("- outer\n  - inner\n- last\n")
		if got, want := sections[0].Content, "outer\ninner\nlast"; got != want {
			t.Errorf("content = %q, want %q", got, want)
		}
	})
}

func TestReduceSectionsTable(t *testing.T) {
	t.Parallel()

	sections := ReduceSections("| Name | Age |\n| ---- | --- |\n| Ann  | 34  |\n")

	content := sections[0].Content
	for _, cell := range []string{"Name", "Age", "Ann", "34"} {
		if !strings.Contains(content, cell) {
			t.Errorf("content %q missing cell %q", content, cell)
		}
	}
	if strings.Contains(content, "|") || strings.Contains(content, "-") {
		t.Errorf("table markup leaked into content: %q", content)
	}
}

func TestReduceSectionsTaskList(t *testing.T) {
	t.Parallel()

	sections := ReduceSections("- [x] done\n- [ ] pending\n")

	content := sections[0].Content
	if strings.Contains(content, "[x]") || strings.Contains(content, "[ ]") {
		t.Errorf("checkbox markup leaked: %q", content)
	}
	if !strings.Contains(content, "done") || !strings.Contains(content, "pending") {
		t.Errorf("item text missing: %q", content)
	}
}

func TestReduceSectionsAutoLink(t *testing.T) {
	t.Parallel()

	sections := ReduceSections("see <https://example.com/> here\n")

	if got, want := sections[0].Content, "see https://example.com/ here"; got != want {
		t.Errorf("content = %q, want %q", got, want)
	}
}

func TestFlattenSections(t *testing.T) {
	t.Parallel()

	got := FlattenSections([]Section{
		{Header: "", Depth: 0, Content: "intro"},
		{Header: "One", Depth: 1, Content: "body one"},
	})

	want := "intro\n\nOne\n\nbody one\n"
	if got != want {
		t.Errorf("flattened = %q, want %q", got, want)
	}
}

func TestFlattenSectionsEmptyDocument(t *testing.T) {
	t.Parallel()

	got := FlattenSections(ReduceSections(""))

	if got != "\n" {
		t.Errorf("flattened empty document = %q, want %q", got, "\n")
	}
}
