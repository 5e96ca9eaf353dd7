package tracker

import (
	"context"
	"errors"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/androidtrackers/certified-android-devices/internal/delta"
	"github.com/androidtrackers/certified-android-devices/internal/device"
	"github.com/androidtrackers/certified-android-devices/internal/notify"
	"github.com/androidtrackers/certified-android-devices/internal/snapshots"
)

const feedHeader = "Retail Branding,Marketing Name,Device,Model\n"

type fakeSource struct {
	text string
	err  error
}

func (f *fakeSource) Fetch(ctx context.Context) (string, error) {
	return f.text, f.err
}

type fakeAnnouncer struct {
	calls [][]delta.Addition
}

func (f *fakeAnnouncer) Announce(ctx context.Context, additions []delta.Addition) (notify.Result, error) {
	f.calls = append(f.calls, additions)
	return notify.Result{Sent: len(additions)}, nil
}

type fakePublisher struct {
	paths []string
	date  string
	calls int
	err   error
}

func (f *fakePublisher) Publish(ctx context.Context, paths []string, date string) error {
	f.calls++
	f.paths = paths
	f.date = date
	return f.err
}

type fakeStore struct {
	records []device.Record
	err     error
}

func (f *fakeStore) ReplaceDevices(records []device.Record, syncedAt string) error {
	f.records = records
	return f.err
}

func fixedNow() time.Time {
	return time.Date(2026, 10, 19, 8, 0, 0, 0, time.UTC)
}

func newTracker(t *testing.T, src *fakeSource, local bool) (*Tracker, *fakeAnnouncer, *fakePublisher) {
	t.Helper()
	ann := &fakeAnnouncer{}
	pub := &fakePublisher{}
	return &Tracker{
		Snapshots: snapshots.New(t.TempDir()),
		Source:    src,
		Store:     &fakeStore{},
		Announcer: ann,
		Publisher: pub,
		Local:     local,
		Now:       fixedNow,
	}, ann, pub
}

func TestRun_EndToEndExample(t *testing.T) {
	src := &fakeSource{text: feedHeader + `"BrandX,NameY,codename1,modelZ"` + "\n"}
	tr, _, _ := newTracker(t, src, true)

	report, err := tr.Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, report.Records)
	assert.Equal(t, "2026-10-19", report.Date)

	table, exists, err := tr.Snapshots.ReadCurrent()
	require.NoError(t, err)
	require.True(t, exists)
	assert.Contains(t, table, "|BrandX|NameY|codename1|modelZ|\n")
	assert.Contains(t, table, "Last sync is 2026-10-19\n")

	idx, err := tr.Snapshots.LoadIndex(device.FieldDevice)
	require.NoError(t, err)
	assert.Equal(t, device.Index{"codename1": {{Brand: "BrandX", Name: "NameY", Model: "modelZ"}}}, idx)
}

func TestRun_FirstRunIsBaseline(t *testing.T) {
	src := &fakeSource{text: feedHeader + "A,B,c,d\nE,F,g,h\n"}
	tr, ann, pub := newTracker(t, src, false)

	report, err := tr.Run(context.Background())
	require.NoError(t, err)
	assert.Empty(t, report.Additions)
	assert.Empty(t, ann.calls, "first run must not announce")
	assert.Equal(t, 1, pub.calls)
	assert.True(t, report.Published)

	changes, err := os.ReadFile(tr.Snapshots.Path(snapshots.ChangesFile))
	require.NoError(t, err)
	assert.Empty(t, changes)
}

func TestRun_AnnouncesAndPublishesAdditions(t *testing.T) {
	src := &fakeSource{text: feedHeader + "A,B,c,d\nE,F,g,h\n"}
	tr, ann, pub := newTracker(t, src, false)

	_, err := tr.Run(context.Background())
	require.NoError(t, err)

	src.text = feedHeader + "A,B,c,d\nE,F,g,h\nNew,Phone,newdev,N1\n"
	report, err := tr.Run(context.Background())
	require.NoError(t, err)

	require.Len(t, report.Additions, 1)
	assert.Equal(t, delta.Addition{Brand: "New", Name: "Phone", Codename: "newdev", Model: "N1"}, report.Additions[0])
	require.Len(t, ann.calls, 1)
	assert.Equal(t, report.Additions, ann.calls[0])
	assert.Equal(t, 1, report.Notify.Sent)

	assert.Equal(t, 2, pub.calls)
	assert.Equal(t, snapshots.Artifacts(), pub.paths)
	assert.Equal(t, "2026-10-19", pub.date)

	changes, err := os.ReadFile(tr.Snapshots.Path(snapshots.ChangesFile))
	require.NoError(t, err)
	assert.Equal(t, "|New|Phone|newdev|N1|\n", string(changes))

	_, exists, _ := tr.Snapshots.ReadPrevious()
	assert.True(t, exists)
}

func TestRun_LocalModeSkipsSideEffects(t *testing.T) {
	src := &fakeSource{text: feedHeader + "A,B,c,d\n"}
	tr, ann, pub := newTracker(t, src, true)

	_, err := tr.Run(context.Background())
	require.NoError(t, err)

	src.text = feedHeader + "A,B,c,d\nX,Y,z,w\n"
	report, err := tr.Run(context.Background())
	require.NoError(t, err)

	assert.True(t, report.Local)
	assert.Len(t, report.Additions, 1)
	assert.Empty(t, ann.calls)
	assert.Zero(t, pub.calls)
	assert.False(t, report.Published)

	for _, name := range append(snapshots.Artifacts(), snapshots.ChangesFile, snapshots.PreviousFile) {
		_, err := os.Stat(tr.Snapshots.Path(name))
		assert.NoError(t, err, name)
	}
}

func TestRun_FetchFailureLeavesSnapshotsIntact(t *testing.T) {
	src := &fakeSource{text: feedHeader + "A,B,c,d\n"}
	tr, _, _ := newTracker(t, src, true)

	_, err := tr.Run(context.Background())
	require.NoError(t, err)
	before, _, _ := tr.Snapshots.ReadCurrent()

	src.err = errors.New("connection refused")
	_, err = tr.Run(context.Background())
	require.Error(t, err)

	after, exists, _ := tr.Snapshots.ReadCurrent()
	assert.True(t, exists)
	assert.Equal(t, before, after)
	_, prevExists, _ := tr.Snapshots.ReadPrevious()
	assert.False(t, prevExists, "no rotation may happen before a successful fetch")
}

func TestRun_PublishFailureKeepsArtifacts(t *testing.T) {
	src := &fakeSource{text: feedHeader + "A,B,c,d\n"}
	tr, _, pub := newTracker(t, src, false)
	pub.err = errors.New("authentication failed")

	report, err := tr.Run(context.Background())
	require.Error(t, err)
	require.NotNil(t, report)
	assert.False(t, report.Published)

	table, exists, _ := tr.Snapshots.ReadCurrent()
	assert.True(t, exists)
	assert.True(t, strings.Contains(table, "|A|B|c|d|"))
}

func TestRun_StoreFailureIsNotFatal(t *testing.T) {
	src := &fakeSource{text: feedHeader + "A,B,c,d\n"}
	tr, _, _ := newTracker(t, src, true)
	tr.Store = &fakeStore{err: errors.New("disk full")}

	report, err := tr.Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, report.Records)
}

func TestRun_MalformedRowsCounted(t *testing.T) {
	src := &fakeSource{text: feedHeader + "A,B,c,d\nonly,two\n"}
	tr, _, _ := newTracker(t, src, true)
	st := &fakeStore{}
	tr.Store = st

	report, err := tr.Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, report.Records)
	assert.Equal(t, 1, report.Skipped)
	assert.Len(t, st.records, 1)
}

func TestRun_ReportsPhases(t *testing.T) {
	src := &fakeSource{text: feedHeader + "A,B,c,d\n"}
	tr, _, _ := newTracker(t, src, false)

	_, err := tr.Run(context.Background())
	require.NoError(t, err)

	var phases []string
	tr.Progress = func(phase string) { phases = append(phases, phase) }
	src.text = feedHeader + "A,B,c,d\nNew,Phone,newdev,N1\nNew,Phone 2,newdev2,N2\n"
	_, err = tr.Run(context.Background())
	require.NoError(t, err)

	assert.Equal(t, []string{
		"Downloading feed",
		"Writing 3 devices",
		"Comparing with previous snapshot",
		"Announcing 2 new device(s)",
		"Publishing",
	}, phases)
}

func TestRun_LocalStopsReportingAfterDiff(t *testing.T) {
	src := &fakeSource{text: feedHeader + "A,B,c,d\n"}
	tr, _, _ := newTracker(t, src, true)

	var phases []string
	tr.Progress = func(phase string) { phases = append(phases, phase) }
	_, err := tr.Run(context.Background())
	require.NoError(t, err)

	assert.Equal(t, []string{"Downloading feed", "Writing 1 devices", "Comparing with previous snapshot"}, phases)
}
