package main

import (
	"fmt"

	flag "github.com/spf13/pflag"
)

// cliFlags holds the parsed command line.
type cliFlags struct {
	config       string
	output       string
	baseURL      string
	mediaBaseURL string

	strip    bool
	sections bool

	inline     bool
	iframes    bool
	math       bool
	noSanitize bool
	hardBreaks bool

	verbose bool
	version bool

	fs *flag.FlagSet
}

// changed reports whether a flag was set explicitly, so flags can override
// config file values without clobbering them with zero values.
func (f *cliFlags) changed(name string) bool {
	return f.fs.Changed(name)
}

// parseFlags parses the command line and returns the flags plus positional
// arguments (the input path, "-" for stdin).
func parseFlags(args []string) (*cliFlags, []string, error) {
	f := &cliFlags{}
	fs := flag.NewFlagSet("mdrender", flag.ContinueOnError)
	f.fs = fs

	fs.StringVarP(&f.config, "config", "c", "", "YAML config file")
	fs.StringVarP(&f.output, "output", "o", "", "output file (default stdout)")
	fs.StringVar(&f.baseURL, "base-url", "", "base URL for resolving relative links")
	fs.StringVar(&f.mediaBaseURL, "media-base-url", "", "base URL for resolving media sources (default: base URL)")

	fs.BoolVar(&f.strip, "strip", false, "output plain text instead of HTML")
	fs.BoolVar(&f.sections, "sections", false, "output heading-delimited sections as JSON")

	fs.BoolVar(&f.inline, "inline", false, "unwrap single-paragraph output")
	fs.BoolVar(&f.iframes, "iframes", false, "allow the iframe element family")
	fs.BoolVar(&f.math, "math", false, "allow MathML/KaTeX element families")
	fs.BoolVar(&f.noSanitize, "no-sanitize", false, "skip sanitization (trusted input only)")
	fs.BoolVar(&f.hardBreaks, "hard-breaks", false, "treat single newlines as <br>")

	fs.BoolVarP(&f.verbose, "verbose", "v", false, "verbose logging")
	fs.BoolVar(&f.version, "version", false, "print version and exit")

	fs.Usage = func() {
		fmt.Fprintf(fs.Output(), "Usage: mdrender [flags] [file|-]\n\nFlags:\n%s", fs.FlagUsages())
	}

	if err := fs.Parse(args); err != nil {
		return nil, nil, err
	}
	rest := fs.Args()
	if len(rest) > 1 {
		return nil, nil, fmt.Errorf("expected at most one input file, got %d", len(rest))
	}
	if f.strip && f.sections {
		return nil, nil, fmt.Errorf("--strip and --sections are mutually exclusive")
	}
	return f, rest, nil
}
