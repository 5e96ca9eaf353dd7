package device

import "strings"

const fieldCount = 4

// ParseLine extracts a Record from one feed line. Quotes are dropped and only
// the first four comma-separated fields are used. ok is false when the line
// has fewer than four fields.
func ParseLine(line string) (Record, bool) {
	line = strings.ReplaceAll(strings.TrimSpace(line), `"`, "")
	parts := strings.Split(line, ",")
	if len(parts) < fieldCount {
		return Record{}, false
	}

	return Record{
		Brand:  strings.TrimSpace(parts[0]),
		Name:   strings.TrimSpace(parts[1]),
		Device: strings.TrimSpace(parts[2]),
		Model:  strings.TrimSpace(parts[3]),
	}, true
}

// ParseFeed converts decoded feed text into records, preserving feed order.
// The first line is the column header and is discarded. Lines with too few
// fields are skipped; skipped counts the non-blank ones so callers can log it.
func ParseFeed(text string) (records []Record, skipped int) {
	lines := strings.Split(text, "\n")
	if len(lines) <= 1 {
		return nil, 0
	}

	records = make([]Record, 0, len(lines)-1)
	for _, line := range lines[1:] {
		rec, ok := ParseLine(line)
		if !ok {
			if strings.TrimSpace(line) != "" {
				skipped++
			}
			continue
		}
		records = append(records, rec)
	}

	return records, skipped
}
