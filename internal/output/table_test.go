package output

import (
	"strings"
	"testing"

	"github.com/androidtrackers/certified-android-devices/internal/delta"
	"github.com/androidtrackers/certified-android-devices/internal/device"
	"github.com/androidtrackers/certified-android-devices/internal/store"
)

func TestRenderDeviceTable(t *testing.T) {
	t.Setenv("NO_COLOR", "1")

	out := RenderDeviceTable([]device.Record{
		{Brand: "BrandX", Name: "NameY", Device: "codename1", Model: "modelZ"},
	})

	for _, want := range []string{"Brand", "Codename", "BrandX", "codename1", "modelZ", "1 device(s)"} {
		if !strings.Contains(out, want) {
			t.Errorf("expected %q in output:\n%s", want, out)
		}
	}
}

func TestRenderDeviceTable_Empty(t *testing.T) {
	if got := RenderDeviceTable(nil); got != "No devices found.\n" {
		t.Errorf("RenderDeviceTable(nil) = %q", got)
	}
}

func TestRenderAdditions(t *testing.T) {
	t.Setenv("NO_COLOR", "1")

	out := RenderAdditions([]delta.Addition{{Brand: "B", Name: "N", Codename: "c", Model: "m"}})
	if !strings.Contains(out, "+ |B|N|c|m|") {
		t.Errorf("expected added row, got %q", out)
	}
	if !strings.Contains(out, "1 new device(s)") {
		t.Errorf("expected count, got %q", out)
	}

	if got := RenderAdditions(nil); got != "No new devices.\n" {
		t.Errorf("RenderAdditions(nil) = %q", got)
	}
}

func TestRenderBrandCounts(t *testing.T) {
	out := RenderBrandCounts([]store.BrandCount{{Brand: "Samsung", Count: 12345}})
	if !strings.Contains(out, "Samsung") || !strings.Contains(out, "12,345") {
		t.Errorf("unexpected output:\n%s", out)
	}
	if RenderBrandCounts(nil) != "" {
		t.Error("expected empty output for no brands")
	}
}

func TestTruncate(t *testing.T) {
	tests := []struct {
		in   string
		max  int
		want string
	}{
		{"short", 10, "short"},
		{"exactly10!", 10, "exactly10!"},
		{"a much longer name", 10, "a much ..."},
		{"abcdef", 3, "abc"},
		{"Ünïcödé names", 8, "Ünïcö..."},
	}
	for _, tt := range tests {
		if got := truncate(tt.in, tt.max); got != tt.want {
			t.Errorf("truncate(%q, %d) = %q, want %q", tt.in, tt.max, got, tt.want)
		}
	}
}
