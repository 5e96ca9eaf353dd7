package app

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/androidtrackers/certified-android-devices/internal/device"
	"github.com/androidtrackers/certified-android-devices/internal/logging"
	"github.com/androidtrackers/certified-android-devices/internal/output"
	"github.com/androidtrackers/certified-android-devices/internal/snapshots"
	"github.com/androidtrackers/certified-android-devices/internal/store"
)

var (
	lookupBy string

	lookupCmd = &cobra.Command{
		Use:   "lookup KEY",
		Short: "Find certified devices by codename, model, brand, or name",
		Long: `Look up devices from the last sync. Matching is exact and results are
listed in feed order.

The SQLite device store is queried first; if it has not been created yet the
by_*.json index files are used instead.`,
		Example: `  certdevices lookup sunfish
  certdevices lookup --by model "Pixel 4a"
  certdevices lookup --by brand Google`,
		Args: cobra.ExactArgs(1),
		RunE: runLookup,
	}
)

func init() {
	lookupCmd.Flags().StringVar(&lookupBy, "by", string(device.FieldDevice), "field to match: device, model, brand, name")
}

func runLookup(cmd *cobra.Command, args []string) error {
	field, ok := device.ParseField(lookupBy)
	if !ok {
		return fmt.Errorf("unknown lookup field %q (want device, model, brand, or name)", lookupBy)
	}
	key := args[0]

	records, err := lookupStore(field, key)
	if err != nil {
		if !errors.Is(err, store.ErrNotInitialized) {
			return err
		}
		logging.Debug().Msg("device store not initialized, using JSON index")
		records, err = lookupIndex(snapshots.New(appConfig.OutputDir), field, key)
		if err != nil {
			return err
		}
	}

	fmt.Fprint(cmd.OutOrStdout(), output.RenderDeviceTable(records))
	return nil
}

func lookupStore(field device.Field, key string) ([]device.Record, error) {
	db, err := openExistingStore(appConfig)
	if err != nil {
		return nil, err
	}
	defer db.Close()

	if _, _, ok, err := db.LastSync(); err != nil {
		return nil, err
	} else if !ok {
		return nil, store.ErrNotInitialized
	}
	return db.Lookup(field, key)
}
