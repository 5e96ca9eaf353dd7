package publish

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/androidtrackers/certified-android-devices/internal/logging"
)

// CommitMessage returns the sync commit message for date. The "[skip ci]"
// marker keeps CI from running on the bot's own commits.
func CommitMessage(date string) string {
	return fmt.Sprintf("[skip ci] sync: %s", date)
}

// Publisher hands the sync artifacts to a Committer.
type Publisher struct {
	committer Committer
	log       zerolog.Logger
}

// New creates a Publisher.
func New(c Committer) *Publisher {
	return &Publisher{
		committer: c,
		log:       logging.WithComponent("publish"),
	}
}

// Publish commits paths with the sync message for date.
func (p *Publisher) Publish(ctx context.Context, paths []string, date string) error {
	msg := CommitMessage(date)
	if err := p.committer.Commit(ctx, paths, msg); err != nil {
		p.log.Error().Err(err).Msg("publish failed")
		return fmt.Errorf("failed to publish: %w", err)
	}
	p.log.Info().Strs("paths", paths).Str("message", msg).Msg("published")
	return nil
}
