package sanitize

import "strings"

// strictEncoder covers the full reserved set, not just the display-safe
// subset. Used where no markup should ever survive. Replacement is a single
// pass, so emitted entities are not themselves re-encoded.
var strictEncoder = strings.NewReplacer(
	"&", "&amp;",
	"<", "&lt;",
	">", "&gt;",
	`"`, "&quot;",
	"'", "&#39;",
	"/", "&#47;",
	"\\", "&#92;",
	"`", "&#96;",
	"=", "&#61;",
	"(", "&#40;",
	")", "&#41;",
	"[", "&#91;",
	"]", "&#93;",
	"{", "&#123;",
	"}", "&#125;",
)

// EncodeStrict HTML-entity-encodes every character that could open a markup,
// attribute or script context. Stronger than display encoding; intended for
// contexts where HTML is never allowed.
func EncodeStrict(s string) string {
	return strictEncoder.Replace(s)
}
