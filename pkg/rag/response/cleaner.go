package response

import (
	"regexp"
	"strings"

	"cubie-assistant/pkg/navigation"
)

// LinkPolicy knows which application URLs are real.
type LinkPolicy interface {
	KnownURL(url string) bool
}

var (
	promptTags    = regexp.MustCompile(`(?i)</?(task|guidelines|reference_material|user_question|style|system)>`)
	promptEcho    = regexp.MustCompile(`(?im)^\s*(now provide your answer[^\n]*|answer:)\s*`)
	htmlComment   = regexp.MustCompile(`(?s)<!--.*?-->`)
	markdownLink  = regexp.MustCompile(`\[([^\]]+)\]\(([^)\s]+)\)`)
	anchorLink    = regexp.MustCompile(`(?is)<a\s[^>]*href=["']([^"']+)["'][^>]*>(.*?)</a>`)
	blankLineRuns = regexp.MustCompile(`\n{3,}`)
)

// Clean removes anything in a help answer that is not explanatory text:
// echoed prompt scaffolding, navigation markers, and links outside the help
// site or the navigation table. Link text is kept.
func Clean(text, helpBaseURL string, links LinkPolicy) string {
	text, _ = navigation.StripMarker(text)
	text = htmlComment.ReplaceAllString(text, "")
	text = promptTags.ReplaceAllString(text, "")
	text = promptEcho.ReplaceAllString(text, "")

	allowed := func(url string) bool {
		if helpBaseURL != "" && strings.HasPrefix(strings.ToLower(url), strings.ToLower(helpBaseURL)) {
			return true
		}
		return links != nil && links.KnownURL(url)
	}

	text = markdownLink.ReplaceAllStringFunc(text, func(m string) string {
		parts := markdownLink.FindStringSubmatch(m)
		if allowed(parts[2]) {
			return m
		}
		return parts[1]
	})
	text = anchorLink.ReplaceAllStringFunc(text, func(m string) string {
		parts := anchorLink.FindStringSubmatch(m)
		if allowed(parts[1]) {
			return m
		}
		return parts[2]
	})

	return strings.TrimSpace(blankLineRuns.ReplaceAllString(text, "\n\n"))
}
