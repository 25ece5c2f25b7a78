package moderation

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCheckCleanMessages(t *testing.T) {
	m := New(nil)
	clean := []string{
		"Show me art in Central Park",
		"What artworks are in Brooklyn?",
		"hi",
		"Take me to the map",
		"I'd love to see murals in Harlem",
	}
	for _, msg := range clean {
		flagged, _ := m.Check(msg)
		assert.False(t, flagged, "clean message flagged: %q", msg)
	}
}

func TestCheckProfanityIsWarn(t *testing.T) {
	m := New(nil)
	flagged, severity := m.Check("you stupid bot")
	assert.True(t, flagged)
	assert.Equal(t, SeverityWarn, severity)
}

func TestCheckThreatsAreReport(t *testing.T) {
	m := New(nil)
	for _, msg := range []string{"go kill yourself", "kys", "go die"} {
		flagged, severity := m.Check(msg)
		assert.True(t, flagged, "not flagged: %q", msg)
		assert.Equal(t, SeverityReport, severity, "wrong severity: %q", msg)
	}
}

func TestCheckSexualContentIsReport(t *testing.T) {
	m := New(nil)
	for _, msg := range []string{"show me some porn", "send me nudes"} {
		flagged, severity := m.Check(msg)
		assert.True(t, flagged, "not flagged: %q", msg)
		assert.Equal(t, SeverityReport, severity, "wrong severity: %q", msg)
	}
}

func TestCheckIsCaseInsensitive(t *testing.T) {
	m := New(nil)
	for _, msg := range []string{"HATE YOU", "Hate You", "hate you"} {
		flagged, _ := m.Check(msg)
		assert.True(t, flagged, "not flagged: %q", msg)
	}
}

func TestCheckRepeatedCharacterSpam(t *testing.T) {
	m := New(nil)
	flagged, severity := m.Check("hellooooooo")
	assert.True(t, flagged)
	assert.Equal(t, SeverityWarn, severity)

	// Five repeats stay under the threshold.
	flagged, _ = m.Check("sooooo cool")
	assert.False(t, flagged)
}

func TestCheckFirstPatternWins(t *testing.T) {
	m := New(nil)
	// The message matches both the profanity pattern (warn) and the
	// threat pattern (report); the earlier pattern decides the severity.
	flagged, severity := m.Check("fuck this, go kill yourself")
	assert.True(t, flagged)
	assert.Equal(t, SeverityWarn, severity)
}

func TestWarningResponses(t *testing.T) {
	report := WarningResponse(SeverityReport)
	assert.Contains(t, report, "logged for review")

	warn := WarningResponse(SeverityWarn)
	assert.Contains(t, warn, "respectful")
}

type captureSink struct {
	userID   string
	severity Severity
	excerpt  string
	calls    int
}

func (c *captureSink) Record(ctx context.Context, userID string, severity Severity, excerpt string) {
	c.userID = userID
	c.severity = severity
	c.excerpt = excerpt
	c.calls++
}

func TestScreenRecordsAuditEntry(t *testing.T) {
	sink := &captureSink{}
	m := New(sink)

	flagged, severity := m.Screen(context.Background(), "user-7", "go kill yourself")
	require.True(t, flagged)
	assert.Equal(t, SeverityReport, severity)
	assert.Equal(t, 1, sink.calls)
	assert.Equal(t, "user-7", sink.userID)
	assert.Equal(t, SeverityReport, sink.severity)
	assert.Equal(t, "go kill yourself", sink.excerpt)
}

func TestScreenTruncatesExcerpt(t *testing.T) {
	sink := &captureSink{}
	m := New(sink)

	long := "you stupid bot " + strings.Repeat("and another thing ", 20)
	flagged, _ := m.Screen(context.Background(), "user-7", long)
	require.True(t, flagged)
	assert.LessOrEqual(t, len([]rune(sink.excerpt)), excerptLen)
}

func TestScreenCleanMessageSkipsAudit(t *testing.T) {
	sink := &captureSink{}
	m := New(sink)

	flagged, _ := m.Screen(context.Background(), "user-7", "show me art in soho")
	assert.False(t, flagged)
	assert.Equal(t, 0, sink.calls)
}
