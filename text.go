package hackernews

import (
	"html"
	"strings"

	"github.com/microcosm-cc/bluemonday"
)

// plainTextPolicy strips every tag. Policies are safe for concurrent use once built.
var plainTextPolicy = bluemonday.StrictPolicy()

// paragraphs maps the markup the store uses to separate paragraphs onto blank lines
// before the tags are stripped.
var paragraphs = strings.NewReplacer("<p>", "\n\n", "<P>", "\n\n", "</p>", "")

// PlainText renders an HTML-bearing field such as Item.Text or User.About as plain text.
func PlainText(s string) string {
	if s == "" {
		return ""
	}

	stripped := plainTextPolicy.Sanitize(paragraphs.Replace(s))

	return strings.TrimSpace(html.UnescapeString(stripped))
}

// PlainText returns the item's text with its HTML markup removed.
func (i Item) PlainText() (string, bool) {
	text, ok := i.Text()
	if !ok {
		return "", false
	}

	return PlainText(text), true
}
