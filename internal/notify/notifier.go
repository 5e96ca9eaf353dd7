package notify

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"github.com/androidtrackers/certified-android-devices/internal/delta"
	"github.com/androidtrackers/certified-android-devices/internal/logging"
)

// DefaultPace is the pause between two consecutive deliveries.
const DefaultPace = 3 * time.Second

// Result summarizes one Announce call.
type Result struct {
	Sent   int
	Failed int
}

// Notifier delivers one announcement per addition, sequentially.
type Notifier struct {
	sender Sender
	pace   time.Duration
	log    zerolog.Logger
}

// New creates a Notifier that pauses pace between deliveries.
func New(sender Sender, pace time.Duration) *Notifier {
	return &Notifier{
		sender: sender,
		pace:   pace,
		log:    logging.WithComponent("notify"),
	}
}

// Announce sends a message for each addition in order. A failed delivery is
// logged and counted; it is not retried and does not stop the loop. Only
// context cancellation ends the loop early, returning the context error.
func (n *Notifier) Announce(ctx context.Context, additions []delta.Addition) (Result, error) {
	var res Result

	for i, a := range additions {
		if i > 0 && n.pace > 0 {
			if err := pause(ctx, n.pace); err != nil {
				return res, err
			}
		}

		if err := n.sender.Send(ctx, Message(a)); err != nil {
			if ctx.Err() != nil {
				return res, ctx.Err()
			}
			res.Failed++
			n.log.Warn().Err(err).Str("codename", a.Codename).Str("name", a.Name).Msg("announcement failed")
			continue
		}

		res.Sent++
		n.log.Info().Str("codename", a.Codename).Str("name", a.Name).Msg("announcement sent")
	}

	return res, nil
}

func pause(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-timer.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
