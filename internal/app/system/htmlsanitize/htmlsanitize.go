// Package htmlsanitize cleans text before it is stored or rendered.
// Combination labels are typed by viewers and must come out as plain text;
// event and group descriptions arrive from the upstream catalog as limited
// rich text and keep safe formatting only.
package htmlsanitize

import (
	"strings"
	"sync"
	"unicode/utf8"

	"github.com/microcosm-cc/bluemonday"
)

// MaxLabelLen caps stored combination labels. Longer input is truncated, not
// rejected, since labels are cosmetic.
const MaxLabelLen = 120

var (
	strictPolicy *bluemonday.Policy
	richPolicy   *bluemonday.Policy
	policyOnce   sync.Once
)

func policies() (*bluemonday.Policy, *bluemonday.Policy) {
	policyOnce.Do(func() {
		strictPolicy = bluemonday.StrictPolicy()

		// Descriptions may carry basic formatting from the catalog editor.
		richPolicy = bluemonday.UGCPolicy()
		richPolicy.AllowElements("u", "s", "sub", "sup", "mark")
	})
	return strictPolicy, richPolicy
}

// Label strips all markup from a user-typed label, collapses runs of
// whitespace and truncates to MaxLabelLen. The result is safe to echo back
// in JSON and templates.
func Label(s string) string {
	if s == "" {
		return ""
	}
	strict, _ := policies()
	clean := strict.Sanitize(s)
	clean = strings.Join(strings.Fields(clean), " ")
	if len(clean) > MaxLabelLen {
		// Back up to a rune boundary so an accented character is never cut
		// in half.
		cut := MaxLabelLen
		for cut > 0 && !utf8.RuneStart(clean[cut]) {
			cut--
		}
		clean = strings.TrimRight(clean[:cut], " ")
	}
	return clean
}

// Description sanitizes catalog rich text, keeping safe formatting. The
// group and event stores run descriptions through it on write, since the
// catalog is loaded from external sources.
func Description(html string) string {
	if html == "" {
		return ""
	}
	_, rich := policies()
	return rich.Sanitize(html)
}
