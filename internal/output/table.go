// Package output provides terminal output utilities for certdevices.
//
// This package includes:
//   - Table rendering for device records, additions, and brand counts
//   - Spinners for long network operations
//
// All table rendering functions use ASCII characters and ANSI color codes for terminal output.
package output

import (
	"fmt"
	"os"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/mattn/go-isatty"

	"github.com/androidtrackers/certified-android-devices/internal/delta"
	"github.com/androidtrackers/certified-android-devices/internal/device"
	"github.com/androidtrackers/certified-android-devices/internal/store"
)

// ANSI color codes
const (
	colorReset = "\033[0m"
	colorGreen = "\033[32m"
	colorGray  = "\033[90m"
)

// IsColorEnabled returns true if ANSI color codes should be emitted.
// It checks that os.Stdout is a TTY and that the NO_COLOR env var is not set.
func IsColorEnabled() bool {
	if os.Getenv("NO_COLOR") != "" {
		return false
	}
	return isatty.IsTerminal(os.Stdout.Fd())
}

func colorize(color, text string) string {
	if !IsColorEnabled() {
		return text
	}
	return color + text + colorReset
}

// RenderDeviceTable renders device records in feed order.
func RenderDeviceTable(records []device.Record) string {
	if len(records) == 0 {
		return "No devices found.\n"
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("%-16s %-30s %-20s %-20s\n", "Brand", "Name", "Codename", "Model"))
	sb.WriteString(strings.Repeat("─", 89))
	sb.WriteString("\n")

	for _, r := range records {
		sb.WriteString(fmt.Sprintf("%-16s %-30s %-20s %-20s\n",
			truncate(r.Brand, 16),
			truncate(r.Name, 30),
			truncate(r.Device, 20),
			truncate(r.Model, 20)))
	}

	sb.WriteString(colorize(colorGray, fmt.Sprintf("%s device(s)", humanize.Comma(int64(len(records))))))
	sb.WriteString("\n")
	return sb.String()
}

// RenderAdditions renders newly added devices as "+ " prefixed lines.
func RenderAdditions(additions []delta.Addition) string {
	if len(additions) == 0 {
		return "No new devices.\n"
	}

	var sb strings.Builder
	for _, a := range additions {
		sb.WriteString(colorize(colorGreen, "+ "+a.Row()))
		sb.WriteString("\n")
	}
	sb.WriteString(fmt.Sprintf("%s new device(s)\n", humanize.Comma(int64(len(additions)))))
	return sb.String()
}

// RenderBrandCounts renders a two-column brand/count table.
func RenderBrandCounts(counts []store.BrandCount) string {
	if len(counts) == 0 {
		return ""
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("%-24s %8s\n", "Brand", "Devices"))
	sb.WriteString(strings.Repeat("─", 33))
	sb.WriteString("\n")
	for _, bc := range counts {
		sb.WriteString(fmt.Sprintf("%-24s %8s\n", truncate(bc.Brand, 24), humanize.Comma(int64(bc.Count))))
	}
	return sb.String()
}

// truncate shortens s to maxLen runes, marking the cut with "...".
func truncate(s string, maxLen int) string {
	r := []rune(s)
	if len(r) <= maxLen {
		return s
	}
	if maxLen <= 3 {
		return string(r[:maxLen])
	}
	return string(r[:maxLen-3]) + "..."
}
