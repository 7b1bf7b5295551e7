// Command mdrender renders GitHub-Flavored Markdown to sanitized HTML, or
// reduces it to plain text or heading-delimited sections.
package main

import (
	"fmt"
	"os"

	"github.com/rs/zerolog"
	"go.uber.org/automaxprocs/maxprocs"
)

// Version is set at build time via ldflags.
var Version = "dev"

// Exit codes.
const (
	exitOK    = 0
	exitError = 1
	exitUsage = 2
)

func main() {
	flags, args, err := parseFlags(os.Args[1:])
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(exitUsage)
	}
	if flags.version {
		fmt.Println("mdrender " + Version)
		os.Exit(exitOK)
	}

	// Error ignored: maxprocs.Set only fails if the GOMAXPROCS env var is
	// invalid, in which case Go runtime defaults apply and the program
	// continues safely.
	_, _ = maxprocs.Set(maxprocs.Logger(func(string, ...interface{}) {}))

	logger := newLogger(flags.verbose)

	if err := run(flags, args, &logger); err != nil {
		logger.Error().Err(err).Msg("render failed")
		os.Exit(exitError)
	}
}

func newLogger(verbose bool) zerolog.Logger {
	level := zerolog.WarnLevel
	if verbose {
		level = zerolog.DebugLevel
	}
	return zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).
		Level(level).
		With().Timestamp().Logger()
}
