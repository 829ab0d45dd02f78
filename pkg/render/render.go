package render

import (
	"regexp"
	"strings"

	"github.com/microcosm-cc/bluemonday"
	"github.com/russross/blackfriday/v2"
)

var (
	paragraphPattern = regexp.MustCompile(`<p>(.*?)</p>`)
	codeBlockPattern = regexp.MustCompile(`<pre><code(?: class="[^"]*")?>((?s).*?)</code></pre>`)

	displayPolicy = bluemonday.UGCPolicy()
)

// ToDisplayHTML converts a markdown assistant answer into sanitized HTML for
// the storefront panel.
func ToDisplayHTML(markdown string) string {
	if markdown == "" {
		return ""
	}

	html := string(blackfriday.Run([]byte(markdown), blackfriday.WithExtensions(blackfriday.CommonExtensions)))
	html = normalizeHTML(html)

	return displayPolicy.Sanitize(html)
}

// normalizeHTML flattens blackfriday's output to the small tag set the panel
// renders
func normalizeHTML(html string) string {
	html = paragraphPattern.ReplaceAllString(html, "$1\n")

	html = strings.ReplaceAll(html, "<strong>", "<b>")
	html = strings.ReplaceAll(html, "</strong>", "</b>")
	html = strings.ReplaceAll(html, "<em>", "<i>")
	html = strings.ReplaceAll(html, "</em>", "</i>")

	html = codeBlockPattern.ReplaceAllString(html, "<pre>$1</pre>")

	html = strings.ReplaceAll(html, "<ul>", "")
	html = strings.ReplaceAll(html, "</ul>", "")
	html = strings.ReplaceAll(html, "<ol>", "")
	html = strings.ReplaceAll(html, "</ol>", "")
	html = strings.ReplaceAll(html, "<li>", "• ")
	html = strings.ReplaceAll(html, "</li>", "\n")

	html = regexp.MustCompile(`\n{3,}`).ReplaceAllString(html, "\n\n")

	return strings.TrimSpace(html)
}
