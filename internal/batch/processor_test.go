package batch

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mstgis/radio-coverage/internal/profile"
	"github.com/mstgis/radio-coverage/internal/propagation"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// constantModel returns fixed values and records how often it ran.
func constantModel(lb, ep float64, calls *int) propagation.Model {
	return propagation.ModelFunc(func(p propagation.Params) (float64, float64, error) {
		if calls != nil {
			*calls++
		}
		return lb, ep, nil
	})
}

// writeProfileFile writes a semicolon CSV with the given profile point
// counts, one row per entry, using a valid smart filename.
func writeProfileFile(t *testing.T, dir string, pointCounts []int) string {
	t.Helper()

	points := make([]profile.Point, 0)
	for d := 0.25; d <= 2.0+1e-9; d += 0.25 {
		points = append(points, profile.Point{
			AzimuthDeg: 0,
			DistanceKm: d,
			ElevationM: 100,
			Clutter:    2,
			Resistance: 30,
			Zone:       4,
			TxID:       "TX_0001",
		})
	}
	profiles, err := profile.NewFormatter(points).Format(0.7, 50, 1, 30, 10)
	require.NoError(t, err)
	require.NotEmpty(t, profiles)

	template := profiles[len(profiles)-1] // the longest one

	var rows []profile.Profile
	for _, n := range pointCounts {
		p := template
		p.Distances = p.Distances[:n]
		p.Heights = p.Heights[:n]
		p.Resistances = p.Resistances[:n]
		p.Clutter = p.Clutter[:n]
		p.Zones = p.Zones[:n]
		rows = append(rows, p)
	}

	path, err := profile.Export(rows, dir)
	require.NoError(t, err)
	return path
}

func TestRunSkipBoundary(t *testing.T) {
	dir := t.TempDir()
	writeProfileFile(t, dir, []int{4, 5})

	var calls int
	p := NewProcessor(constantModel(120, -5, &calls), testLogger())

	outcome, err := p.Run(context.Background(), dir)
	require.NoError(t, err)

	// Exactly 4 points is skipped, 5 is computed.
	require.Len(t, outcome.Skipped, 1)
	assert.Equal(t, 1, outcome.Skipped[0].Index)
	assert.Contains(t, outcome.Skipped[0].Reason, "insufficient points")

	require.Len(t, outcome.Results, 1)
	assert.Equal(t, 2, outcome.Results[0].Index)
	assert.Equal(t, 1, calls)
}

func TestRunIndexTracksSourcePosition(t *testing.T) {
	dir := t.TempDir()
	writeProfileFile(t, dir, []int{6, 3, 7, 2, 8})

	p := NewProcessor(constantModel(120, -5, nil), testLogger())
	outcome, err := p.Run(context.Background(), dir)
	require.NoError(t, err)

	require.Len(t, outcome.Results, 3)
	assert.Equal(t, []int{1, 3, 5}, []int{
		outcome.Results[0].Index,
		outcome.Results[1].Index,
		outcome.Results[2].Index,
	})
	require.Len(t, outcome.Skipped, 2)
	assert.Equal(t, 2, outcome.Skipped[0].Index)
	assert.Equal(t, 4, outcome.Skipped[1].Index)
}

func TestRunCarriesMetadataThrough(t *testing.T) {
	dir := t.TempDir()
	writeProfileFile(t, dir, []int{9})

	p := NewProcessor(constantModel(120.5, -7.25, nil), testLogger())
	outcome, err := p.Run(context.Background(), dir)
	require.NoError(t, err)

	require.Len(t, outcome.Results, 1)
	r := outcome.Results[0]
	assert.Equal(t, "TX_0001", r.TxID)
	assert.Equal(t, 9, r.NumDistancePoints)
	assert.Equal(t, 120.5, r.Lb)
	assert.Equal(t, -7.25, r.Ep)
	assert.Equal(t, 0.7, r.FrequencyGHz)
	assert.Equal(t, 50, r.TimePercentage)
	assert.Equal(t, 1, r.Polarization)
	assert.Equal(t, 30.0, r.TxAntennaHeightM)
	assert.Equal(t, 10.0, r.RxAntennaHeightM)
	require.NotNil(t, r.DistanceRing)
	assert.GreaterOrEqual(t, r.ElapsedS, 0.0)
}

func TestRunAllSkippedIsNotAnError(t *testing.T) {
	dir := t.TempDir()
	writeProfileFile(t, dir, []int{2, 3, 4})

	p := NewProcessor(constantModel(120, -5, nil), testLogger())
	outcome, err := p.Run(context.Background(), dir)
	require.NoError(t, err)

	assert.Empty(t, outcome.Results)
	assert.Len(t, outcome.Skipped, 3)
	assert.Equal(t, 0, outcome.Summary.Processed)
	assert.Equal(t, 3, outcome.Summary.Skipped)
}

func TestRunEmptyProfileFile(t *testing.T) {
	dir := t.TempDir()

	name := "profiles_TX_0001_0p_0az_0km_v20260209_094148_6e44e765.csv"
	header := strings.Join(profile.Header, ";") + "\n"
	require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(header), 0o644))

	p := NewProcessor(constantModel(120, -5, nil), testLogger())
	outcome, err := p.Run(context.Background(), dir)
	require.NoError(t, err)
	assert.Empty(t, outcome.Results)
	assert.Empty(t, outcome.Skipped)
}

func TestRunNoProfileFileIsFatal(t *testing.T) {
	p := NewProcessor(constantModel(120, -5, nil), testLogger())
	_, err := p.Run(context.Background(), t.TempDir())
	assert.ErrorIs(t, err, profile.ErrNoProfileFile)
}

func TestRunDecodeErrorIsFatal(t *testing.T) {
	dir := t.TempDir()
	path := writeProfileFile(t, dir, []int{6})

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	corrupted := strings.Replace(string(data), "[0, ", "[oops, ", 1)
	require.NoError(t, os.WriteFile(path, []byte(corrupted), 0o644))

	p := NewProcessor(constantModel(120, -5, nil), testLogger())
	_, err = p.Run(context.Background(), dir)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "decoding profile 1")
}

func TestRunModelErrorIsFatal(t *testing.T) {
	dir := t.TempDir()
	writeProfileFile(t, dir, []int{6, 7})

	boom := errors.New("negative clearance out of range")
	model := propagation.ModelFunc(func(p propagation.Params) (float64, float64, error) {
		return 0, 0, boom
	})

	p := NewProcessor(model, testLogger())
	_, err := p.Run(context.Background(), dir)
	assert.ErrorIs(t, err, boom)
}

func TestSummarize(t *testing.T) {
	results := []Result{
		{Lb: 100, Ep: 10, ElapsedS: 0.2},
		{Lb: 110, Ep: 0, ElapsedS: 0.4},
		{Lb: 120, Ep: -10, ElapsedS: 0.6},
	}

	s := summarize(results, []Skip{{Index: 4, Reason: "insufficient points"}})
	assert.Equal(t, 3, s.Processed)
	assert.Equal(t, 1, s.Skipped)
	assert.InDelta(t, 1.2, s.TotalElapsedS, 1e-9)
	assert.InDelta(t, 0.4, s.MeanElapsedS, 1e-9)
	assert.Equal(t, 100.0, s.LbMin)
	assert.InDelta(t, 110.0, s.LbMean, 1e-9)
	assert.Equal(t, 120.0, s.LbMax)
	assert.InDelta(t, 0.0, s.EpMean, 1e-9)
}
