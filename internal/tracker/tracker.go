// Package tracker runs one sync: fetch the feed, render snapshot artifacts,
// diff against the previous snapshot, announce additions, and publish.
package tracker

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/androidtrackers/certified-android-devices/internal/delta"
	"github.com/androidtrackers/certified-android-devices/internal/device"
	"github.com/androidtrackers/certified-android-devices/internal/logging"
	"github.com/androidtrackers/certified-android-devices/internal/notify"
	"github.com/androidtrackers/certified-android-devices/internal/snapshots"
)

// DateLayout is the format of the sync date in the table and commit message.
const DateLayout = "2006-01-02"

// Source returns the decoded feed text.
type Source interface {
	Fetch(ctx context.Context) (string, error)
}

// Announcer delivers announcements for additions.
type Announcer interface {
	Announce(ctx context.Context, additions []delta.Addition) (notify.Result, error)
}

// Publisher commits and pushes the listed artifacts.
type Publisher interface {
	Publish(ctx context.Context, paths []string, date string) error
}

// DeviceStore mirrors the current record set.
type DeviceStore interface {
	ReplaceDevices(records []device.Record, syncedAt string) error
}

// Tracker holds the collaborators for a sync run. Announcer and Publisher
// are only used when Local is false.
type Tracker struct {
	Snapshots *snapshots.Manager
	Source    Source
	Store     DeviceStore
	Announcer Announcer
	Publisher Publisher
	Local     bool
	Now       func() time.Time

	// Progress, if set, is told which phase the run has entered.
	Progress func(phase string)
}

// Report describes the outcome of one run.
type Report struct {
	RunID     string
	Date      string
	Local     bool
	Records   int
	Skipped   int
	Additions []delta.Addition
	Notify    notify.Result
	Published bool
}

// Run performs one sync. A fetch failure aborts before any file is touched.
// Store and delivery failures are logged and the run continues; a publish
// failure is returned after all local artifacts are written.
func (t *Tracker) Run(ctx context.Context) (*Report, error) {
	now := time.Now
	if t.Now != nil {
		now = t.Now
	}

	report := &Report{
		RunID: uuid.NewString(),
		Date:  now().Format(DateLayout),
		Local: t.Local,
	}
	log := logging.WithComponent("tracker").With().Str("run_id", report.RunID).Logger()

	if t.Local {
		log.Info().Msg("running in local mode, no notifications or publishing")
	}

	t.phase("Downloading feed")
	text, err := t.Source.Fetch(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch feed: %w", err)
	}

	records, skipped := device.ParseFeed(text)
	report.Records = len(records)
	report.Skipped = skipped
	if skipped > 0 {
		log.Debug().Int("skipped", skipped).Msg("skipped malformed feed rows")
	}
	log.Info().Int("records", len(records)).Msg("feed parsed")

	t.phase(fmt.Sprintf("Writing %d devices", len(records)))
	if err := t.Snapshots.Rotate(); err != nil {
		return nil, err
	}

	table := snapshots.RenderTable(records, report.Date)
	if err := t.Snapshots.WriteTable(table); err != nil {
		return nil, err
	}
	if err := t.Snapshots.WriteIndices(device.BuildIndices(records)); err != nil {
		return nil, err
	}

	if t.Store != nil {
		if err := t.Store.ReplaceDevices(records, report.Date); err != nil {
			log.Error().Err(err).Msg("failed to update device store")
		}
	}

	t.phase("Comparing with previous snapshot")
	additions, err := delta.FromSnapshots(t.Snapshots, table)
	if err != nil {
		return nil, err
	}
	if err := delta.WriteChanges(t.Snapshots, additions); err != nil {
		return nil, err
	}
	report.Additions = additions
	log.Info().Int("additions", len(additions)).Msg("snapshot diffed")

	if t.Local {
		return report, nil
	}

	return report, t.announceAndPublish(ctx, log, report)
}

func (t *Tracker) announceAndPublish(ctx context.Context, log zerolog.Logger, report *Report) error {
	if t.Announcer != nil && len(report.Additions) > 0 {
		t.phase(fmt.Sprintf("Announcing %d new device(s)", len(report.Additions)))
		res, err := t.Announcer.Announce(ctx, report.Additions)
		report.Notify = res
		if err != nil {
			return fmt.Errorf("announcements interrupted: %w", err)
		}
		if res.Failed > 0 {
			log.Warn().Int("failed", res.Failed).Int("sent", res.Sent).Msg("some announcements failed")
		}
	}

	if t.Publisher == nil {
		return nil
	}
	t.phase("Publishing")
	if err := t.Publisher.Publish(ctx, snapshots.Artifacts(), report.Date); err != nil {
		return err
	}
	report.Published = true
	return nil
}

func (t *Tracker) phase(name string) {
	if t.Progress != nil {
		t.Progress(name)
	}
}
