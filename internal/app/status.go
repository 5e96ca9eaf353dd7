package app

import (
	"errors"
	"fmt"
	"io"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/androidtrackers/certified-android-devices/internal/config"
	"github.com/androidtrackers/certified-android-devices/internal/delta"
	"github.com/androidtrackers/certified-android-devices/internal/output"
	"github.com/androidtrackers/certified-android-devices/internal/snapshots"
	"github.com/androidtrackers/certified-android-devices/internal/store"
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show snapshot and device store status",
	Long: `Display the state of the output directory: whether the current and
previous snapshots exist, the date of the last sync, how many devices the
snapshot lists, and what the device store holds.`,
	Args: cobra.NoArgs,
	RunE: runStatus,
}

func runStatus(cmd *cobra.Command, args []string) error {
	out := cmd.OutOrStdout()
	cfg := appConfig
	m := snapshots.New(cfg.OutputDir)

	current, exists, err := m.ReadCurrent()
	if err != nil {
		return err
	}
	_, hasPrevious, err := m.ReadPrevious()
	if err != nil {
		return err
	}

	fmt.Fprintf(out, "Output dir:  %s\n", m.Dir())
	if !exists {
		fmt.Fprintf(out, "Snapshot:    none (run 'certdevices sync')\n")
		return nil
	}
	records := snapshots.ParseTable(current)
	fmt.Fprintf(out, "Last sync:   %s\n", valueOr(snapshots.SyncDate(current), "unknown"))
	fmt.Fprintf(out, "Devices:     %s\n", humanize.Comma(int64(len(records))))
	fmt.Fprintf(out, "Previous:    %s\n", yesNo(hasPrevious))

	additions, err := delta.ReadChanges(m)
	if err != nil {
		return err
	}
	fmt.Fprintf(out, "Last delta:  %d new device(s)\n", len(additions))

	return printStoreStatus(out, cfg)
}

func printStoreStatus(out io.Writer, cfg *config.Config) error {
	path := cfg.ResolveStorePath()
	db, err := openExistingStore(cfg)
	if errors.Is(err, store.ErrNotInitialized) {
		fmt.Fprintf(out, "Store:       not initialized\n")
		return nil
	}
	if err != nil {
		return err
	}
	defer db.Close()

	syncedAt, count, ok, err := db.LastSync()
	if err != nil {
		return err
	}
	if !ok {
		fmt.Fprintf(out, "Store:       empty (%s)\n", path)
		return nil
	}
	fmt.Fprintf(out, "Store:       %s devices as of %s (%s)\n", humanize.Comma(int64(count)), syncedAt, path)

	top, err := db.TopBrands(10)
	if err != nil {
		return err
	}
	if len(top) > 0 {
		fmt.Fprintln(out)
		fmt.Fprint(out, output.RenderBrandCounts(top))
	}
	return nil
}

func yesNo(b bool) string {
	if b {
		return "yes"
	}
	return "no"
}

func valueOr(s, fallback string) string {
	if s == "" {
		return fallback
	}
	return s
}
