package store

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"codeberg.org/mutker/sensord/internal/classify"
	"codeberg.org/mutker/sensord/internal/sensor"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func tempLog(t *testing.T) *CSVLog {
	t.Helper()
	return NewCSVLog(filepath.Join(t.TempDir(), "essentials_log.csv"))
}

func makeRecord(ts time.Time, temp, distance sensor.Measurement, gas, anomalous bool) Record {
	return Record{
		Sample: sensor.Sample{
			Timestamp:   ts,
			Temperature: temp,
			GasPresent:  gas,
			Distance:    distance,
		},
		Verdict: classify.Verdict{Anomalous: anomalous},
	}
}

func TestEnsureInitializedWritesHeaderOnce(t *testing.T) {
	log := tempLog(t)

	require.NoError(t, log.EnsureInitialized())
	require.NoError(t, log.EnsureInitialized())

	data, err := os.ReadFile(log.path)
	require.NoError(t, err)
	assert.Equal(t, 1, strings.Count(string(data), "Timestamp,TEMP,PPM,LEVEL,Anomaly"))
}

func TestEnsureInitializedPreservesExistingRows(t *testing.T) {
	log := tempLog(t)
	require.NoError(t, log.EnsureInitialized())

	ts := time.Date(2025, 1, 1, 12, 0, 0, 0, time.Local)
	require.NoError(t, log.Append(makeRecord(ts, sensor.Some(23.5), sensor.Some(120.34), false, false)))

	before, err := os.ReadFile(log.path)
	require.NoError(t, err)

	require.NoError(t, log.EnsureInitialized())

	after, err := os.ReadFile(log.path)
	require.NoError(t, err)
	assert.Equal(t, before, after, "init on a non-empty store must not rewrite anything")
}

func TestAppendSerialization(t *testing.T) {
	log := tempLog(t)
	require.NoError(t, log.EnsureInitialized())

	ts := time.Date(2025, 1, 1, 12, 0, 0, 0, time.Local)
	require.NoError(t, log.Append(makeRecord(ts, sensor.Some(23.5), sensor.Some(120.34), false, false)))
	require.NoError(t, log.Append(makeRecord(ts.Add(time.Second), sensor.None(), sensor.None(), true, true)))

	data, err := os.ReadFile(log.path)
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	require.Len(t, lines, 3)
	assert.Equal(t, "2025-01-01 12:00:00,23.5,0,120.34,No", lines[1])
	assert.Equal(t, "2025-01-01 12:00:01,N/A,1,N/A,Yes", lines[2])
}

func TestRoundTrip(t *testing.T) {
	log := tempLog(t)
	require.NoError(t, log.EnsureInitialized())

	ts := time.Date(2025, 1, 1, 12, 0, 0, 0, time.Local)
	want := []Record{
		makeRecord(ts, sensor.Some(23.5), sensor.Some(120.34), false, false),
		makeRecord(ts.Add(time.Second), sensor.None(), sensor.None(), true, true),
		makeRecord(ts.Add(2*time.Second), sensor.Some(55), sensor.Some(120), false, true),
	}
	for _, r := range want {
		require.NoError(t, log.Append(r))
	}

	got, err := log.Load()
	require.NoError(t, err)
	require.Len(t, got, 3)

	for i, r := range got {
		assert.True(t, r.Sample.Timestamp.Equal(want[i].Sample.Timestamp))
		assert.Equal(t, want[i].Sample.Temperature, r.Sample.Temperature)
		assert.Equal(t, want[i].Sample.GasPresent, r.Sample.GasPresent)
		assert.Equal(t, want[i].Sample.Distance, r.Sample.Distance)
		assert.Equal(t, want[i].Verdict, r.Verdict)
	}
}

func TestLoadSkipsMalformedRows(t *testing.T) {
	log := tempLog(t)
	require.NoError(t, log.EnsureInitialized())

	ts := time.Date(2025, 1, 1, 12, 0, 0, 0, time.Local)
	require.NoError(t, log.Append(makeRecord(ts, sensor.Some(23.5), sensor.Some(120.34), false, false)))

	f, err := os.OpenFile(log.path, os.O_APPEND|os.O_WRONLY, 0o644)
	require.NoError(t, err)
	_, err = f.WriteString("not,a,valid\ngarbage timestamp,23.5,0,120.34,No\nab\"cd,23.5,0,120.34,No\n")
	require.NoError(t, err)
	require.NoError(t, f.Close())

	require.NoError(t, log.Append(makeRecord(ts.Add(time.Second), sensor.Some(24), sensor.Some(121), false, false)))

	got, err := log.Load()
	require.NoError(t, err)
	require.Len(t, got, 2, "malformed rows are skipped, parsing continues")
	assert.InDelta(t, 23.5, got[0].Sample.Temperature.Value, 0.001)
	assert.InDelta(t, 24.0, got[1].Sample.Temperature.Value, 0.001)
}

func TestLoadSurfacesReadError(t *testing.T) {
	// A directory path makes every read fail the same way, so a retry
	// can never make progress.
	log := NewCSVLog(t.TempDir())

	done := make(chan struct{})
	var (
		got     []Record
		loadErr error
	)
	go func() {
		got, loadErr = log.Load()
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("Load did not return on a persistent read error")
	}

	require.Error(t, loadErr)
	assert.Nil(t, got)
}

func TestLoadMissingFile(t *testing.T) {
	log := tempLog(t)

	got, err := log.Load()
	require.NoError(t, err)
	assert.Empty(t, got)
}
