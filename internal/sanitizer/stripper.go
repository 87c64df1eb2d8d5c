package sanitizer

import (
	"html"
	"strings"

	"github.com/microcosm-cc/bluemonday"
)

// HTMLStripperer turns user or ledger supplied text into plain text
type HTMLStripperer interface {
	StripHTML(s string) string
}

// HTMLStripper is backed by a strict bluemonday policy. The policy escapes
// entities on output, so the result is unescaped again before it is returned
// as plain text. Runs of whitespace collapse to a single space.
type HTMLStripper struct {
	policy *bluemonday.Policy
}

func NewHTMLStripper() *HTMLStripper {
	return &HTMLStripper{policy: bluemonday.StrictPolicy()}
}

func (hs *HTMLStripper) StripHTML(s string) string {
	if s == "" {
		return s
	}
	plain := html.UnescapeString(hs.policy.Sanitize(s))
	return strings.Join(strings.Fields(plain), " ")
}
