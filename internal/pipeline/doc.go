// Package pipeline implements the Markdown transformation stages: text
// pre-passes (math formula substitution), Markdown-to-HTML conversion with
// custom node renderers, and plain-text reduction into heading-delimited
// sections.
//
// Stages are pure functions over their input; per-call state (slug
// registry, section accumulators) is allocated fresh for every call, so all
// entry points are safe for concurrent use.
package pipeline
