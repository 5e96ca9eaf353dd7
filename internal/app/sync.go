package app

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/androidtrackers/certified-android-devices/internal/config"
	"github.com/androidtrackers/certified-android-devices/internal/feed"
	"github.com/androidtrackers/certified-android-devices/internal/logging"
	"github.com/androidtrackers/certified-android-devices/internal/notify"
	"github.com/androidtrackers/certified-android-devices/internal/output"
	"github.com/androidtrackers/certified-android-devices/internal/publish"
	"github.com/androidtrackers/certified-android-devices/internal/snapshots"
	"github.com/androidtrackers/certified-android-devices/internal/store"
	"github.com/androidtrackers/certified-android-devices/internal/tracker"
)

var (
	syncLocal bool
	syncQuiet bool

	syncCmd = &cobra.Command{
		Use:   "sync",
		Short: "Download the feed, update snapshots, and announce new devices",
		Long: `Download the certified devices feed and regenerate README.md and the
by_device/by_model/by_brand/by_name JSON indices.

The previous README.md is kept as old.md and diffed against the new one;
rows added since then are written to the "changes" file. Unless running in
local mode, each new row is announced on Telegram (one message every few
seconds) and the regenerated files are committed and pushed.

Local mode is used when --local is given or when GIT_OAUTH_TOKEN_XFU or
BOTTOKEN is unset.`,
		Example: `  # Scheduled run with credentials in the environment
  certdevices sync

  # Try it out without side effects
  certdevices sync --local --dir /tmp/devices`,
		RunE: runSync,
	}
)

func init() {
	syncCmd.Flags().BoolVar(&syncLocal, "local", false, "skip Telegram and git even if credentials are set")
	syncCmd.Flags().BoolVar(&syncQuiet, "quiet", false, "suppress the summary")
}

func runSync(cmd *cobra.Command, args []string) error {
	cfg := appConfig

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	t, cleanup, err := newTracker(cfg, cfg.LocalMode(syncLocal))
	if err != nil {
		return err
	}
	defer cleanup()

	if syncQuiet {
		_, err := t.Run(ctx)
		return err
	}

	spinner := output.NewSpinner(os.Stdout)
	t.Progress = spinner.Phase
	report, err := t.Run(ctx)
	spinner.Stop()

	if report != nil {
		printReport(report)
	}
	return err
}

// newTracker wires the collaborators for cfg. In local mode no Telegram or
// git client is created.
func newTracker(cfg *config.Config, local bool) (*tracker.Tracker, func(), error) {
	t := &tracker.Tracker{
		Snapshots: snapshots.New(cfg.OutputDir),
		Source:    feed.New(cfg.FeedURL, cfg.FeedTimeout),
		Local:     local,
	}
	cleanup := func() {}

	if err := os.MkdirAll(cfg.OutputDir, 0755); err != nil {
		return nil, nil, fmt.Errorf("failed to create output directory: %w", err)
	}

	db, err := openStore(cfg)
	if err != nil {
		// The store only backs lookups; a sync works without it.
		logging.Warn().Err(err).Msg("device store unavailable")
	} else {
		t.Store = db
		cleanup = func() { db.Close() }
	}

	if !local {
		sender := notify.NewTelegramSender(cfg.Telegram.APIBase, cfg.BotToken, cfg.Telegram.Chat, cfg.Telegram.Timeout)
		t.Announcer = notify.New(sender, cfg.Telegram.Pace)
		t.Publisher = publish.New(&publish.GitCommitter{
			Dir:       cfg.OutputDir,
			RemoteURL: cfg.RemoteURL(),
			Branch:    cfg.Git.Branch,
			UserName:  cfg.Git.UserName,
			UserEmail: cfg.Git.UserEmail,
			Token:     cfg.GitToken,
		})
	}

	return t, cleanup, nil
}

func openStore(cfg *config.Config) (*store.Store, error) {
	db, err := store.New(cfg.ResolveStorePath())
	if err != nil {
		return nil, err
	}
	if err := db.CreateSchema(); err != nil {
		db.Close()
		return nil, err
	}
	return db, nil
}

func printReport(r *tracker.Report) {
	fmt.Printf("✓ %s devices synced (%s)\n", humanize.Comma(int64(r.Records)), r.Date)
	if r.Skipped > 0 {
		fmt.Printf("  %d malformed feed row(s) skipped\n", r.Skipped)
	}
	fmt.Print(output.RenderAdditions(r.Additions))

	if r.Local {
		fmt.Println("Local mode: nothing announced or published.")
		return
	}
	if len(r.Additions) > 0 {
		fmt.Printf("Announced %d, failed %d\n", r.Notify.Sent, r.Notify.Failed)
	}
	if r.Published {
		fmt.Println("✓ Changes published")
	}
}
