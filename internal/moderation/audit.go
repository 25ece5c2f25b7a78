package moderation

import (
	"context"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// LogAudit writes moderation hits to the structured log. The web layer
// can swap in a database-backed sink without touching the moderator.
type LogAudit struct {
	logger zerolog.Logger
}

func NewLogAudit() *LogAudit {
	return &LogAudit{
		logger: log.With().Str("component", "moderation").Logger(),
	}
}

func (a *LogAudit) Record(ctx context.Context, userID string, severity Severity, excerpt string) {
	a.logger.Warn().
		Str("user_id", userID).
		Str("severity", string(severity)).
		Str("excerpt", excerpt).
		Msg("Content flagged")
}
