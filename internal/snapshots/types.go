// Package snapshots renders the certified device table and indices and
// manages the current/previous snapshot files in the output directory.
package snapshots

import (
	"path/filepath"

	"github.com/androidtrackers/certified-android-devices/internal/device"
)

// Artifact file names, relative to the output directory.
const (
	TableFile    = "README.md"
	PreviousFile = "old.md"
	ChangesFile  = "changes"
)

// Manager reads and writes snapshot artifacts in one directory.
type Manager struct {
	dir string
}

// New creates a new snapshot Manager rooted at dir.
func New(dir string) *Manager {
	return &Manager{dir: dir}
}

// Dir returns the output directory.
func (m *Manager) Dir() string {
	return m.dir
}

// Path returns the full path of an artifact.
func (m *Manager) Path(name string) string {
	return filepath.Join(m.dir, name)
}

// IndexFile returns the file name of the index keyed on f, e.g. by_device.json.
func IndexFile(f device.Field) string {
	return "by_" + string(f) + ".json"
}

// Artifacts lists the files a sync publishes: the table and the four indices.
func Artifacts() []string {
	names := []string{TableFile}
	for _, f := range device.Fields {
		names = append(names, IndexFile(f))
	}
	return names
}
