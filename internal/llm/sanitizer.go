package llm

import (
	"regexp"
	"strings"
)

var (
	boldRe       = regexp.MustCompile(`\*\*([^*]+)\*\*`)
	italicRe     = regexp.MustCompile(`\*([^*]+)\*`)
	headerRe     = regexp.MustCompile(`(?m)^#+\s*`)
	starBulletRe = regexp.MustCompile(`(?m)^\*\s+`)
	dashBulletRe = regexp.MustCompile(`(?m)^-\s+`)
)

// Sanitize strips markdown that slips through the prompt instructions.
// The assistant's outward voice is plain text: emphasis markers are
// removed, headers unwrapped, and list markers normalized to a bullet
// glyph.
func Sanitize(text string) string {
	out := strings.TrimSpace(text)
	out = boldRe.ReplaceAllString(out, "$1")
	out = italicRe.ReplaceAllString(out, "$1")
	out = headerRe.ReplaceAllString(out, "")
	out = starBulletRe.ReplaceAllString(out, "• ")
	out = dashBulletRe.ReplaceAllString(out, "• ")
	return out
}
