// Package sanitize filters HTML down to an allow-listed set of tags,
// attributes, and classes. It is the sole XSS defense boundary of the
// rendering pipeline: no other component may be trusted to prevent script
// injection.
//
// Sanitization is a filter, not a validator. Disallowed markup is silently
// stripped; dirty input never produces an error. The filter is idempotent:
// sanitizing already-sanitized output yields byte-identical output.
//
// Media URL handling also lives here: img and video src attributes are
// resolved against a configured media base URL, protocol-relative URLs are
// rejected outright, and any resolution failure drops the attribute rather
// than emitting a malformed value.
package sanitize
