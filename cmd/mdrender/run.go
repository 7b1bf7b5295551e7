package main

import (
	"fmt"

	jsoniter "github.com/json-iterator/go"
	"github.com/rs/zerolog"

	mdrender "github.com/alnah/go-mdrender"
	"github.com/alnah/go-mdrender/internal/config"
	"github.com/alnah/go-mdrender/internal/fileutil"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// run executes one render: resolve settings, read input, transform, write.
func run(flags *cliFlags, args []string, logger *zerolog.Logger) error {
	cfg, err := loadConfig(flags)
	if err != nil {
		return err
	}
	opts, mode := buildOptions(flags, cfg, logger)

	input := "-"
	if len(args) == 1 {
		input = args[0]
	}
	source, err := fileutil.ReadSource(input)
	if err != nil {
		return err
	}

	logger.Debug().Str("input", input).Str("mode", mode).Msg("rendering")

	var out string
	switch mode {
	case config.ModeText:
		out, err = mdrender.Strip(source, opts)
	case config.ModeSections:
		var sections []mdrender.Section
		sections, err = mdrender.StripSections(source, opts)
		if err == nil {
			var data []byte
			data, err = json.MarshalIndent(sections, "", "  ")
			out = string(data) + "\n"
		}
	default:
		out, err = mdrender.Render(source, opts)
	}
	if err != nil {
		return fmt.Errorf("rendering %s: %w", input, err)
	}

	return fileutil.WriteOutput(flags.output, out)
}

// loadConfig loads the YAML config when given; absent config is not an
// error, flags alone fully describe a render.
func loadConfig(flags *cliFlags) (*config.Config, error) {
	if flags.config == "" {
		return &config.Config{}, nil
	}
	return config.Load(flags.config)
}

// buildOptions merges the config file and the command line into render
// options. Flags set explicitly override config values.
func buildOptions(flags *cliFlags, cfg *config.Config, logger *zerolog.Logger) (*mdrender.Options, string) {
	opts := &mdrender.Options{
		BaseURL:         cfg.Render.BaseURL,
		MediaBaseURL:    cfg.Render.MediaBaseURL,
		Inline:          cfg.Render.Inline,
		HardBreaks:      cfg.Render.HardBreaks,
		AllowIframes:    cfg.Sanitize.Iframes,
		AllowMath:       cfg.Sanitize.Math,
		DisableSanitize: cfg.Sanitize.Disable,
		ExtraTags:       cfg.Sanitize.ExtraTags,
		ExtraAttributes: cfg.Sanitize.ExtraAttributes,
		ExtraClasses:    cfg.Sanitize.ExtraClasses,
		Logger:          logger,
	}

	if flags.changed("base-url") {
		opts.BaseURL = flags.baseURL
	}
	if flags.changed("media-base-url") {
		opts.MediaBaseURL = flags.mediaBaseURL
	}
	if flags.changed("inline") {
		opts.Inline = flags.inline
	}
	if flags.changed("hard-breaks") {
		opts.HardBreaks = flags.hardBreaks
	}
	if flags.changed("iframes") {
		opts.AllowIframes = flags.iframes
	}
	if flags.changed("math") {
		opts.AllowMath = flags.math
	}
	if flags.changed("no-sanitize") {
		opts.DisableSanitize = flags.noSanitize
	}

	mode := cfg.Output.Mode
	if mode == "" {
		mode = config.ModeHTML
	}
	if flags.strip {
		mode = config.ModeText
	}
	if flags.sections {
		mode = config.ModeSections
	}
	return opts, mode
}
