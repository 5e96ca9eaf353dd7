package app

import (
	"errors"
	"fmt"
	"os"

	"github.com/androidtrackers/certified-android-devices/internal/config"
	"github.com/androidtrackers/certified-android-devices/internal/device"
	"github.com/androidtrackers/certified-android-devices/internal/snapshots"
	"github.com/androidtrackers/certified-android-devices/internal/store"
)

// errNoSnapshot is returned by read-only commands run before the first sync.
var errNoSnapshot = errors.New("no snapshot found; run 'certdevices sync' first")

// openExistingStore opens the device store without creating it. A missing
// database file yields store.ErrNotInitialized.
func openExistingStore(cfg *config.Config) (*store.Store, error) {
	path := cfg.ResolveStorePath()
	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			return nil, store.ErrNotInitialized
		}
		return nil, fmt.Errorf("failed to access database: %w", err)
	}
	return store.New(path)
}

// lookupIndex answers a lookup from the JSON index files written by sync.
// Entries carry every field except the key, which is restored here.
func lookupIndex(m *snapshots.Manager, field device.Field, key string) ([]device.Record, error) {
	idx, err := m.LoadIndex(field)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, errNoSnapshot
		}
		return nil, err
	}

	entries := idx[key]
	records := make([]device.Record, 0, len(entries))
	for _, e := range entries {
		r := device.Record{Brand: e.Brand, Name: e.Name, Device: e.Device, Model: e.Model}
		switch field {
		case device.FieldDevice:
			r.Device = key
		case device.FieldModel:
			r.Model = key
		case device.FieldBrand:
			r.Brand = key
		case device.FieldName:
			r.Name = key
		}
		records = append(records, r)
	}
	return records, nil
}
