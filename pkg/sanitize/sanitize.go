// Package sanitize strips markup from externally supplied strings before
// they are treated as trusted display data. Both entry points are idempotent
// so call sites may double-apply them defensively.
package sanitize

import (
	"html"
	"strings"

	"github.com/microcosm-cc/bluemonday"
)

var (
	strictPolicy = bluemonday.StrictPolicy()
	inlinePolicy = newInlinePolicy()
)

// newInlinePolicy allows only inert inline formatting. Script content,
// event handlers, and foreign-protocol links are stripped.
func newInlinePolicy() *bluemonday.Policy {
	p := bluemonday.NewPolicy()
	p.AllowElements("b", "i", "em", "strong", "br")
	return p
}

// Text strips all markup and returns plain text. Script and style contents
// are removed entirely, not just their tags. Empty input maps to empty
// output; Text never fails.
//
// StrictPolicy entity-escapes its output, so a single unescape could turn
// entity-encoded markup ("&lt;script&gt;...") back into live markup.
// Stripping therefore runs to a fixed point: each pass removes one layer of
// markup or encoding, and the loop ends when the value stops changing, which
// makes Text(Text(x)) == Text(x) for all inputs.
func Text(input string) string {
	out := input
	for {
		next := html.UnescapeString(strictPolicy.Sanitize(out))
		if next == out {
			return out
		}
		out = next
	}
}

// HTML strips markup except a small allow-list of inline formatting tags
// (b, i, em, strong, br). The result is safe to render as HTML.
func HTML(input string) string {
	if input == "" {
		return ""
	}
	return inlinePolicy.Sanitize(input)
}

// TrimmedText is Text followed by whitespace trimming. Useful for fields
// where surrounding markup leaves stray newlines behind.
func TrimmedText(input string) string {
	return strings.TrimSpace(Text(input))
}
