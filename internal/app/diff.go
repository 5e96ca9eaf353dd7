package app

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/androidtrackers/certified-android-devices/internal/delta"
	"github.com/androidtrackers/certified-android-devices/internal/output"
	"github.com/androidtrackers/certified-android-devices/internal/snapshots"
)

var diffCmd = &cobra.Command{
	Use:   "diff",
	Short: "Show devices added between old.md and README.md",
	Long: `Recompute the rows added between the previous snapshot (old.md) and the
current one (README.md) without downloading anything.

Rows that moved within the table are reported as additions too, the same
way a sync reports them.`,
	Args: cobra.NoArgs,
	RunE: runDiff,
}

func runDiff(cmd *cobra.Command, args []string) error {
	m := snapshots.New(appConfig.OutputDir)

	current, exists, err := m.ReadCurrent()
	if err != nil {
		return err
	}
	if !exists {
		return errNoSnapshot
	}

	additions, err := delta.FromSnapshots(m, current)
	if err != nil {
		return fmt.Errorf("failed to compute changes: %w", err)
	}

	fmt.Fprint(cmd.OutOrStdout(), output.RenderAdditions(additions))
	return nil
}
