package services

import (
	"html"
	"strings"

	"github.com/microcosm-cc/bluemonday"
)

// strictPolicy strips all HTML. Applied to every piece of text that reaches
// the store from an untrusted source: AI completions and respondent answers.
var strictPolicy = bluemonday.StrictPolicy()

// SanitizeText removes HTML markup and surrounding whitespace from
// externally supplied text before it is persisted
func SanitizeText(s string) string {
	return strings.TrimSpace(html.UnescapeString(strictPolicy.Sanitize(s)))
}
