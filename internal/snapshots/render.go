package snapshots

import (
	"strings"

	"github.com/androidtrackers/certified-android-devices/internal/device"
)

const (
	tableTitle     = "# Google Play Certified Android devices"
	syncPrefix     = "Last sync is "
	docLink        = "https://support.google.com/googleplay/answer/1727131?hl=en"
	tableHeader    = "|Retail Branding|Marketing Name|Device|Model|"
	tableSeparator = "|---|---|---|---|"
)

// RenderTable renders records as the Markdown snapshot. date is written into
// the sync line verbatim (YYYY-MM-DD). Output is byte-for-byte deterministic
// for the same records and date.
func RenderTable(records []device.Record, date string) string {
	var sb strings.Builder

	sb.WriteString(tableTitle + "\n")
	sb.WriteString(syncPrefix + date + "\n\n")
	sb.WriteString(docLink + "\n\n")
	sb.WriteString(tableHeader + "\n")
	sb.WriteString(tableSeparator + "\n")

	for _, r := range records {
		sb.WriteString(FormatRow(r.Brand, r.Name, r.Device, r.Model))
		sb.WriteString("\n")
	}

	return sb.String()
}

// FormatRow formats one table row without the trailing newline.
func FormatRow(brand, name, device, model string) string {
	return "|" + brand + "|" + name + "|" + device + "|" + model + "|"
}

// ParseTable recovers the records from a rendered table. Lines that are not
// data rows are ignored, as are rows with fewer than four cells.
func ParseTable(text string) []device.Record {
	var records []device.Record
	for _, line := range strings.Split(text, "\n") {
		if !strings.HasPrefix(line, "|") || IsHeaderRow(line) {
			continue
		}
		cells := SplitRow(line)
		if len(cells) < 4 {
			continue
		}
		records = append(records, device.Record{
			Brand:  cells[0],
			Name:   cells[1],
			Device: cells[2],
			Model:  cells[3],
		})
	}
	return records
}

// SyncDate returns the date from the table's sync line, or "" if absent.
func SyncDate(text string) string {
	for _, line := range strings.SplitN(text, "\n", 4) {
		if strings.HasPrefix(line, syncPrefix) {
			return strings.TrimSpace(strings.TrimPrefix(line, syncPrefix))
		}
	}
	return ""
}

// SplitRow splits a "|a|b|c|d|" row into its cells. Only the outer delimiters
// are removed, so blank leading or trailing cells survive.
func SplitRow(line string) []string {
	line = strings.TrimSuffix(strings.TrimPrefix(line, "|"), "|")
	return strings.Split(line, "|")
}

// IsHeaderRow reports whether line is the table's column header or separator.
func IsHeaderRow(line string) bool {
	return line == tableHeader || line == tableSeparator
}
