package mdrender

import (
	"github.com/alnah/go-mdrender/internal/pipeline"
)

// Strip reduces Markdown to plain text: a single newline-terminated string
// with no markup and no runs of blank lines.
func Strip(markdown string, opts *Options) (string, error) {
	sections, err := stripSections(markdown, opts)
	if err != nil {
		return "", err
	}
	return pipeline.FlattenSections(sections), nil
}

// StripSections reduces Markdown to an ordered sequence of sections
// partitioned by headings. Index 0 is always the implicit depth-0 root
// section covering text before the first heading.
func StripSections(markdown string, opts *Options) ([]Section, error) {
	parts, err := stripSections(markdown, opts)
	if err != nil {
		return nil, err
	}
	sections := make([]Section, len(parts))
	for i, p := range parts {
		sections[i] = Section{Header: p.Header, Depth: p.Depth, Content: p.Content}
	}
	return sections, nil
}

func stripSections(markdown string, opts *Options) ([]pipeline.Section, error) {
	o := resolve(opts)

	source := o.prefilter(markdown)
	if o.AllowMath {
		// Removal only: formulas contribute nothing to plain text.
		source = pipeline.StripMath(source)
	}

	return pipeline.ReduceSections(source), nil
}
