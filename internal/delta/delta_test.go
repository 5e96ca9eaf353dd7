package delta

import (
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/androidtrackers/certified-android-devices/internal/device"
	"github.com/androidtrackers/certified-android-devices/internal/snapshots"
)

var (
	recA = device.Record{Brand: "BrandA", Name: "Alpha", Device: "alpha", Model: "A1"}
	recB = device.Record{Brand: "BrandB", Name: "Beta", Device: "beta", Model: "B1"}
	recC = device.Record{Brand: "BrandC", Name: "Gamma", Device: "gamma", Model: "C1"}
)

func table(date string, records ...device.Record) string {
	return snapshots.RenderTable(records, date)
}

func TestCompute_Identical(t *testing.T) {
	tbl := table("2026-10-18", recA, recB, recC)

	additions, err := Compute(tbl, tbl)
	require.NoError(t, err)
	assert.Empty(t, additions)
}

func TestCompute_SingleAddition(t *testing.T) {
	prev := table("2026-10-18", recA, recB)
	curr := table("2026-10-19", recA, recB, recC)

	additions, err := Compute(prev, curr)
	require.NoError(t, err)
	require.Len(t, additions, 1)
	assert.Equal(t, Addition{Brand: "BrandC", Name: "Gamma", Codename: "gamma", Model: "C1"}, additions[0])
}

func TestCompute_IgnoresMetadataChanges(t *testing.T) {
	prev := table("2026-10-18", recA)
	curr := table("2026-10-19", recA)

	additions, err := Compute(prev, curr)
	require.NoError(t, err)
	assert.Empty(t, additions)
}

func TestCompute_AgainstEmptyPrevious(t *testing.T) {
	curr := table("2026-10-19", recA, recB)

	additions, err := Compute("", curr)
	require.NoError(t, err)
	assert.Len(t, additions, 2, "header rows must not be reported")
	assert.Equal(t, "alpha", additions[0].Codename)
	assert.Equal(t, "beta", additions[1].Codename)
}

func TestCompute_ModifiedRowReportedAsAddition(t *testing.T) {
	changed := recB
	changed.Model = "B2"

	additions, err := Compute(table("d", recA, recB), table("d", recA, changed))
	require.NoError(t, err)
	require.Len(t, additions, 1)
	assert.Equal(t, "B2", additions[0].Model)
}

// Line diffing cannot tell a moved row from a new one.
func TestCompute_ReorderIsReported(t *testing.T) {
	additions, err := Compute(table("d", recA, recB, recC), table("d", recC, recA, recB))
	require.NoError(t, err)
	require.Len(t, additions, 1)
	assert.Equal(t, "gamma", additions[0].Codename)
}

func TestCompute_SkipsMalformedRows(t *testing.T) {
	prev := table("d", recA)
	curr := prev + "|only|two|\n" + snapshots.FormatRow("X", "Y", "z", "W") + "\n"

	additions, err := Compute(prev, curr)
	require.NoError(t, err)
	require.Len(t, additions, 1)
	assert.Equal(t, "z", additions[0].Codename)
}

func TestParseRow(t *testing.T) {
	tests := []struct {
		line string
		want Addition
		ok   bool
	}{
		{"|BrandX|NameY|codename1|modelZ|", Addition{"BrandX", "NameY", "codename1", "modelZ"}, true},
		{"| BrandX | NameY |codename1|modelZ|extra|", Addition{"BrandX", "NameY", "codename1", "modelZ"}, true},
		{"||NameY|codename1||", Addition{"", "NameY", "codename1", ""}, true},
		{"|a|b|", Addition{}, false},
		{"", Addition{}, false},
	}
	for _, tt := range tests {
		got, ok := ParseRow(tt.line)
		assert.Equal(t, tt.ok, ok, tt.line)
		assert.Equal(t, tt.want, got, tt.line)
	}
}

func TestFromSnapshots_FirstRun(t *testing.T) {
	m := snapshots.New(t.TempDir())

	additions, err := FromSnapshots(m, table("d", recA))
	require.NoError(t, err)
	assert.Empty(t, additions)
}

func TestFromSnapshots_WithPrevious(t *testing.T) {
	m := snapshots.New(t.TempDir())
	require.NoError(t, m.WriteTable(table("d", recA)))
	require.NoError(t, m.Rotate())

	additions, err := FromSnapshots(m, table("e", recA, recB))
	require.NoError(t, err)
	require.Len(t, additions, 1)
	assert.Equal(t, "beta", additions[0].Codename)
}

func TestWriteAndReadChanges(t *testing.T) {
	m := snapshots.New(t.TempDir())
	additions := []Addition{
		{Brand: "BrandX", Name: "NameY", Codename: "codename1", Model: "modelZ"},
		{Brand: "B", Name: "N", Codename: "c", Model: "m"},
	}

	require.NoError(t, WriteChanges(m, additions))

	data, err := os.ReadFile(m.Path(snapshots.ChangesFile))
	require.NoError(t, err)
	assert.Equal(t, "|BrandX|NameY|codename1|modelZ|\n|B|N|c|m|\n", string(data))

	got, err := ReadChanges(m)
	require.NoError(t, err)
	assert.Equal(t, additions, got)
}

func TestWriteChanges_Empty(t *testing.T) {
	m := snapshots.New(t.TempDir())
	require.NoError(t, WriteChanges(m, nil))

	data, err := os.ReadFile(m.Path(snapshots.ChangesFile))
	require.NoError(t, err)
	assert.Empty(t, data)
}

func TestReadChanges_Missing(t *testing.T) {
	got, err := ReadChanges(snapshots.New(t.TempDir()))
	require.NoError(t, err)
	assert.Empty(t, got)
}
