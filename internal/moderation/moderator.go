package moderation

import (
	"context"
	"regexp"
)

// Severity classifies a flagged message. Report implies the message is
// logged for review; Warn asks the user to stay respectful.
type Severity string

const (
	SeverityWarn   Severity = "warn"
	SeverityReport Severity = "report"
)

// pattern pairs a compiled expression with its severity. Severity is
// attached at definition time instead of being re-derived from the
// pattern text.
type pattern struct {
	re       *regexp.Regexp
	severity Severity
}

var patterns = []pattern{
	{regexp.MustCompile(`(?i)\b(fuck|shit|ass|bitch|dick|cock|pussy|cunt|whore|slut)\b`), SeverityWarn},
	{regexp.MustCompile(`(?i)\b(f+u+c+k+|s+h+i+t+|a+s+s+)\b`), SeverityWarn},
	{regexp.MustCompile(`(?i)\b(sex|porn|nude|naked|horny|cum|orgasm)\b`), SeverityReport},
	{regexp.MustCompile(`(?i)\bsend\s*(me\s*)?(nudes?|pics?|photos?)\b`), SeverityReport},
	{regexp.MustCompile(`(?i)\b(kill\s*(your)?self|kys|die|murder)\b`), SeverityReport},
	{regexp.MustCompile(`(?i)\b(hate\s*you|stupid\s*(bot|ai)|dumb\s*(bot|ai))\b`), SeverityWarn},
}

// repeatThreshold is the number of consecutive identical characters that
// counts as spam.
const repeatThreshold = 6

// excerptLen bounds how much of the original message is handed to the
// audit sink.
const excerptLen = 100

// AuditSink records every moderation hit for later review.
type AuditSink interface {
	Record(ctx context.Context, userID string, severity Severity, excerpt string)
}

// Moderator screens inbound chat messages against an ordered pattern
// list. The first matching pattern determines the outcome.
type Moderator struct {
	audit AuditSink
}

func New(audit AuditSink) *Moderator {
	return &Moderator{audit: audit}
}

// Check reports whether the text is disallowed and, if so, at which
// severity. It has no side effects; see Screen for the auditing variant.
func (m *Moderator) Check(text string) (bool, Severity) {
	for _, p := range patterns {
		if p.re.MatchString(text) {
			return true, p.severity
		}
	}
	if hasRepeatedRun(text, repeatThreshold) {
		return true, SeverityWarn
	}
	return false, ""
}

// Screen checks the text and records any hit through the audit sink.
func (m *Moderator) Screen(ctx context.Context, userID, text string) (bool, Severity) {
	flagged, severity := m.Check(text)
	if flagged && m.audit != nil {
		m.audit.Record(ctx, userID, severity, excerpt(text))
	}
	return flagged, severity
}

// WarningResponse returns the fixed user-facing reply for a severity.
func WarningResponse(severity Severity) string {
	if severity == SeverityReport {
		return "Your message has been flagged and reported. " +
			"This incident has been logged for review.\n\n" +
			"I'm happy to help you with finding artworks, " +
			"planning itineraries, or navigating the website."
	}
	return "Please keep our conversation respectful.\n\n" +
		"Let's focus on exploring NYC public art! " +
		"How can I help you today?"
}

// hasRepeatedRun reports whether any rune repeats at least n times in a
// row. RE2 has no backreferences, so this rule is a plain scan rather
// than a pattern.
func hasRepeatedRun(text string, n int) bool {
	var prev rune
	run := 0
	for _, r := range text {
		if r == prev {
			run++
			if run >= n {
				return true
			}
		} else {
			prev = r
			run = 1
		}
	}
	return false
}

func excerpt(text string) string {
	runes := []rune(text)
	if len(runes) <= excerptLen {
		return text
	}
	return string(runes[:excerptLen])
}
