package snapshots

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"github.com/androidtrackers/certified-android-devices/internal/device"
)

// Rotate moves the current table to the previous-snapshot slot, replacing any
// older previous snapshot. It is a no-op when there is no current table.
func (m *Manager) Rotate() error {
	current := m.Path(TableFile)
	previous := m.Path(PreviousFile)

	if _, err := os.Stat(current); errors.Is(err, os.ErrNotExist) {
		return nil
	} else if err != nil {
		return fmt.Errorf("failed to stat %s: %w", current, err)
	}

	if err := os.Remove(previous); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("failed to remove previous snapshot: %w", err)
	}

	if err := os.Rename(current, previous); err != nil {
		return fmt.Errorf("failed to rotate snapshot: %w", err)
	}

	return nil
}

// WriteTable writes the rendered table as the current snapshot.
func (m *Manager) WriteTable(table string) error {
	if err := os.MkdirAll(m.dir, 0755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}
	if err := os.WriteFile(m.Path(TableFile), []byte(table), 0644); err != nil {
		return fmt.Errorf("failed to write table: %w", err)
	}
	return nil
}

// ReadCurrent returns the current table. exists is false if there is none.
func (m *Manager) ReadCurrent() (string, bool, error) {
	return m.read(TableFile)
}

// ReadPrevious returns the previous table. exists is false if there is none.
func (m *Manager) ReadPrevious() (string, bool, error) {
	return m.read(PreviousFile)
}

func (m *Manager) read(name string) (string, bool, error) {
	data, err := os.ReadFile(m.Path(name))
	if errors.Is(err, os.ErrNotExist) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("failed to read %s: %w", name, err)
	}
	return string(data), true, nil
}

// WriteIndices writes the four index files.
func (m *Manager) WriteIndices(ix device.Indices) error {
	if err := os.MkdirAll(m.dir, 0755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}

	for _, f := range device.Fields {
		data, err := EncodeIndex(f, ix.Get(f))
		if err != nil {
			return err
		}
		if err := os.WriteFile(m.Path(IndexFile(f)), data, 0644); err != nil {
			return fmt.Errorf("failed to write %s: %w", IndexFile(f), err)
		}
	}

	return nil
}

// LoadIndex reads back the index keyed on f.
func (m *Manager) LoadIndex(f device.Field) (device.Index, error) {
	data, err := os.ReadFile(m.Path(IndexFile(f)))
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", IndexFile(f), err)
	}

	var idx device.Index
	if err := json.Unmarshal(data, &idx); err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", IndexFile(f), err)
	}
	return idx, nil
}

// The entry shapes below fix the JSON member order per index.

type deviceEntry struct {
	Brand string `json:"brand"`
	Name  string `json:"name"`
	Model string `json:"model"`
}

type modelEntry struct {
	Brand  string `json:"brand"`
	Name   string `json:"name"`
	Device string `json:"device"`
}

type brandEntry struct {
	Device string `json:"device"`
	Name   string `json:"name"`
	Model  string `json:"model"`
}

type nameEntry struct {
	Brand  string `json:"brand"`
	Device string `json:"device"`
	Model  string `json:"model"`
}

// EncodeIndex serializes an index as indented UTF-8 JSON with keys sorted.
// Only the three non-key fields of each entry are written.
func EncodeIndex(f device.Field, idx device.Index) ([]byte, error) {
	var v any
	switch f {
	case device.FieldDevice:
		out := make(map[string][]deviceEntry, len(idx))
		for k, entries := range idx {
			for _, e := range entries {
				out[k] = append(out[k], deviceEntry{e.Brand, e.Name, e.Model})
			}
		}
		v = out
	case device.FieldModel:
		out := make(map[string][]modelEntry, len(idx))
		for k, entries := range idx {
			for _, e := range entries {
				out[k] = append(out[k], modelEntry{e.Brand, e.Name, e.Device})
			}
		}
		v = out
	case device.FieldBrand:
		out := make(map[string][]brandEntry, len(idx))
		for k, entries := range idx {
			for _, e := range entries {
				out[k] = append(out[k], brandEntry{e.Device, e.Name, e.Model})
			}
		}
		v = out
	case device.FieldName:
		out := make(map[string][]nameEntry, len(idx))
		for k, entries := range idx {
			for _, e := range entries {
				out[k] = append(out[k], nameEntry{e.Brand, e.Device, e.Model})
			}
		}
		v = out
	default:
		return nil, fmt.Errorf("unknown index field %q", f)
	}

	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", " ")
	if err := enc.Encode(v); err != nil {
		return nil, fmt.Errorf("failed to encode %s index: %w", f, err)
	}
	return buf.Bytes(), nil
}
