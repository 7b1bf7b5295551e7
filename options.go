package mdrender

import (
	"net/url"

	"github.com/alnah/go-mdrender/internal/pipeline"
)

// resolvedOptions is the per-call view of Options with URLs parsed and the
// media base defaulted. Building it copies everything it needs, so the
// caller's Options struct is never touched.
type resolvedOptions struct {
	Options
	baseURL  *url.URL
	mediaURL *url.URL
}

// resolve fills defaults and parses base URLs. Malformed base URLs are not
// errors: resolution is simply skipped and original values kept, matching
// the recover-locally policy for all URL handling.
func resolve(opts *Options) resolvedOptions {
	r := resolvedOptions{}
	if opts != nil {
		r.Options = *opts
	}
	if r.MediaBaseURL == "" {
		r.MediaBaseURL = r.BaseURL
	}
	r.baseURL = parseBase(r.BaseURL)
	r.mediaURL = parseBase(r.MediaBaseURL)
	return r
}

func parseBase(s string) *url.URL {
	if s == "" {
		return nil
	}
	u, err := url.Parse(s)
	if err != nil {
		return nil
	}
	return u
}

// renderConfig maps the public options onto the pipeline configuration.
func (r *resolvedOptions) renderConfig() pipeline.RenderConfig {
	cfg := pipeline.RenderConfig{
		BaseURL:    r.baseURL,
		AllowMath:  r.AllowMath,
		HardBreaks: r.HardBreaks,
		Math:       r.Math,
		Logger:     r.Logger,
	}
	if h := r.Hooks; h != nil {
		cfg.Hooks = pipeline.Hooks{
			Heading: h.Heading,
			Image:   h.Image,
			Code:    h.Code,
			Link:    h.Link,
		}
	}
	return cfg
}

// prefilter applies the caller's text filters in order.
func (r *resolvedOptions) prefilter(source string) string {
	for _, f := range r.TextFilters {
		if f != nil {
			source = f(source)
		}
	}
	return source
}
