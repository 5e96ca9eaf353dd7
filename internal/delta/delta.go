// Package delta finds the device rows added between two rendered snapshots.
//
// Additions are inferred from a line-based unified diff of the previous and
// current tables. Rows that only moved (for example after the upstream feed
// is re-sorted) show up as additions too, and a row whose fields changed
// shows up as a removal plus an addition. Only the addition half is reported.
package delta

import (
	"fmt"
	"os"
	"strings"

	"github.com/pmezard/go-difflib/difflib"

	"github.com/androidtrackers/certified-android-devices/internal/snapshots"
)

// Addition is a device row newly present in the current snapshot.
type Addition struct {
	Brand    string
	Name     string
	Codename string
	Model    string
}

// Row renders the addition back into table row syntax.
func (a Addition) Row() string {
	return snapshots.FormatRow(a.Brand, a.Name, a.Codename, a.Model)
}

// AddedLines returns the lines that a unified diff of previous against
// current marks as added, without the "+" marker or line terminator.
func AddedLines(previous, current string) ([]string, error) {
	diff := difflib.UnifiedDiff{
		A:        difflib.SplitLines(previous),
		B:        difflib.SplitLines(current),
		FromFile: "old",
		ToFile:   "new",
		Context:  3,
	}

	text, err := difflib.GetUnifiedDiffString(diff)
	if err != nil {
		return nil, fmt.Errorf("failed to diff snapshots: %w", err)
	}

	var added []string
	for _, line := range strings.SplitAfter(text, "\n") {
		if !strings.HasPrefix(line, "+") || strings.HasPrefix(line, "+++") {
			continue
		}
		added = append(added, strings.TrimRight(line[1:], "\r\n"))
	}
	return added, nil
}

// Compute returns the data rows added in current relative to previous, in
// diff order. Header rows, metadata lines, and malformed rows are dropped.
func Compute(previous, current string) ([]Addition, error) {
	lines, err := AddedLines(previous, current)
	if err != nil {
		return nil, err
	}

	var additions []Addition
	for _, line := range lines {
		if !isDataRow(line) {
			continue
		}
		a, ok := ParseRow(line)
		if !ok {
			continue
		}
		additions = append(additions, a)
	}
	return additions, nil
}

// ParseRow extracts an Addition from a "|brand|name|codename|model|" row.
// ok is false when the row has fewer than four cells.
func ParseRow(line string) (Addition, bool) {
	cells := snapshots.SplitRow(strings.TrimSpace(line))
	if len(cells) < 4 {
		return Addition{}, false
	}
	return Addition{
		Brand:    strings.TrimSpace(cells[0]),
		Name:     strings.TrimSpace(cells[1]),
		Codename: strings.TrimSpace(cells[2]),
		Model:    strings.TrimSpace(cells[3]),
	}, true
}

func isDataRow(line string) bool {
	if !strings.HasPrefix(line, "|") {
		return false
	}
	return !snapshots.IsHeaderRow(line)
}

// FromSnapshots diffs the previous snapshot in m against current. Without a
// previous snapshot there is nothing to compare and the result is empty.
func FromSnapshots(m *snapshots.Manager, current string) ([]Addition, error) {
	previous, exists, err := m.ReadPrevious()
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, nil
	}
	return Compute(previous, current)
}

// WriteChanges writes the changes artifact: one row per addition.
func WriteChanges(m *snapshots.Manager, additions []Addition) error {
	var sb strings.Builder
	for _, a := range additions {
		sb.WriteString(a.Row())
		sb.WriteString("\n")
	}
	if err := os.WriteFile(m.Path(snapshots.ChangesFile), []byte(sb.String()), 0644); err != nil {
		return fmt.Errorf("failed to write changes: %w", err)
	}
	return nil
}

// ReadChanges parses a changes artifact written by WriteChanges.
func ReadChanges(m *snapshots.Manager) ([]Addition, error) {
	data, err := os.ReadFile(m.Path(snapshots.ChangesFile))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to read changes: %w", err)
	}

	var additions []Addition
	for _, line := range strings.Split(string(data), "\n") {
		if !isDataRow(line) {
			continue
		}
		if a, ok := ParseRow(line); ok {
			additions = append(additions, a)
		}
	}
	return additions, nil
}
