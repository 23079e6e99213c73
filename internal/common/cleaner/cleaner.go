package cleaner

import (
	"html"
	"regexp"
	"strings"

	"github.com/microcosm-cc/bluemonday"
)

// Cleaner sanitizes rich-text HTML from the posting editor using Bluemonday
type Cleaner struct {
	policy *bluemonday.Policy
	strict *bluemonday.Policy
}

// NewCleaner creates a new HTML cleaner with a safe policy
func NewCleaner() *Cleaner {
	// Create a policy that allows basic formatting but strips dangerous elements
	policy := bluemonday.NewPolicy()

	// Allow basic text formatting
	policy.AllowElements("p", "br", "div", "span")
	policy.AllowElements("strong", "b", "em", "i", "u")
	policy.AllowElements("ul", "ol", "li")
	policy.AllowElements("h1", "h2", "h3", "h4", "h5", "h6")

	// Allow links but strip javascript:
	policy.AllowAttrs("href").OnElements("a")
	policy.AllowRelativeURLs(true)
	policy.RequireParseableURLs(true)
	policy.AllowURLSchemes("http", "https", "mailto")

	return &Cleaner{policy: policy, strict: bluemonday.StrictPolicy()}
}

// Clean sanitizes HTML content, keeping basic formatting
func (c *Cleaner) Clean(content string) string {
	return strings.TrimSpace(c.policy.Sanitize(content))
}

var (
	// block-level tags become line breaks so adjacent paragraphs don't merge
	blockTag   = regexp.MustCompile(`(?i)<\s*(/?\s*(p|div|li|ul|ol|h[1-6]|blockquote|tr)\b[^>]*|br\s*/?)>`)
	spaceRun   = regexp.MustCompile(`[ \t\x{00a0}]+`)
	blankLines = regexp.MustCompile(`\n{3,}`)
)

// CleanToText removes all HTML and returns plain text
func (c *Cleaner) CleanToText(content string) string {
	text := blockTag.ReplaceAllString(content, "\n")
	text = c.strict.Sanitize(text)
	// StrictPolicy escapes entities in the remaining text
	text = html.UnescapeString(text)

	lines := strings.Split(text, "\n")
	for i, line := range lines {
		lines[i] = strings.TrimSpace(spaceRun.ReplaceAllString(line, " "))
	}
	text = strings.Join(lines, "\n")

	// Clean up whitespace
	text = blankLines.ReplaceAllString(text, "\n\n")
	return strings.TrimSpace(text)
}
