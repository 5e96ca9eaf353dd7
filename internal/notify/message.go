// Package notify announces newly certified devices to a Telegram channel.
package notify

import (
	"fmt"

	"github.com/androidtrackers/certified-android-devices/internal/delta"
)

// Message renders the Markdown announcement for one addition.
func Message(a delta.Addition) string {
	return fmt.Sprintf("New certified device added:\n"+
		"Brand: *%s*\n"+
		"Name: *%s*\n"+
		"*Codename:* `%s`\n"+
		"Model: *%s*",
		a.Brand, a.Name, a.Codename, a.Model)
}
