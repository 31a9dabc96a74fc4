package profile

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mstgis/radio-coverage/internal/naming"
)

func sampleProfile() Profile {
	return Profile{
		FrequencyGHz:   0.7,
		TimePercentage: 50,
		Distances:      []float64{0, 0.25, 0.5, 0.75, 1},
		Heights:        []float64{100, 100, 102, 105, 103},
		Resistances:    []float64{30, 30, 30, 15, 15},
		Clutter:        []int{2, 2, 2, 4, 4},
		Zones:          []int{4, 4, 4, 4, 4},
		TxHeightM:      30,
		RxHeightM:      10,
		Polarization:   1,
		TxLat:          -33.8688,
		RxLat:          -33.8775,
		TxLon:          151.2093,
		RxLon:          151.2099,
		AzimuthDeg:     45,
		RingKm:         1,
		TxID:           "TX_0001",
	}
}

func TestRowRoundTrip(t *testing.T) {
	p := sampleProfile()

	decoded, err := DecodeRow(SerializeRow(&p), UnknownTxID)
	require.NoError(t, err)

	assert.Equal(t, p.FrequencyGHz, decoded.Params.FrequencyGHz)
	assert.Equal(t, float64(p.TimePercentage), decoded.Params.TimePercentage)
	assert.Equal(t, p.Distances, decoded.Params.Distances)
	assert.Equal(t, p.Heights, decoded.Params.Heights)
	assert.Equal(t, p.Resistances, decoded.Params.Resistances)
	assert.Equal(t, p.Clutter, decoded.Params.Clutter)
	assert.Equal(t, p.Zones, decoded.Params.Zones)
	assert.Equal(t, p.TxHeightM, decoded.Params.TxHeightM)
	assert.Equal(t, p.RxHeightM, decoded.Params.RxHeightM)
	assert.Equal(t, p.Polarization, decoded.Params.Polarization)
	assert.Equal(t, p.TxLat, decoded.Params.TxLat)
	assert.Equal(t, p.RxLat, decoded.Params.RxLat)
	assert.Equal(t, p.TxLon, decoded.Params.TxLon)
	assert.Equal(t, p.RxLon, decoded.Params.RxLon)
	assert.Equal(t, p.AzimuthDeg, decoded.AzimuthDeg)
	require.NotNil(t, decoded.RingKm)
	assert.Equal(t, p.RingKm, *decoded.RingKm)
	assert.Equal(t, p.TxID, decoded.TxID)
}

func TestDecodeRowMalformedLiteral(t *testing.T) {
	p := sampleProfile()

	for _, field := range []int{0, 2, 5, 9} {
		row := SerializeRow(&p)
		row[field] = "not-a-literal"
		_, err := DecodeRow(row, UnknownTxID)
		assert.Error(t, err, "field %d", field)
	}
}

func TestDecodeRowRaggedArrays(t *testing.T) {
	p := sampleProfile()
	p.Heights = p.Heights[:4]

	_, err := DecodeRow(SerializeRow(&p), UnknownTxID)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not parallel")
}

func TestDecodeRowTooFewFields(t *testing.T) {
	p := sampleProfile()
	_, err := DecodeRow(SerializeRow(&p)[:10], UnknownTxID)
	assert.Error(t, err)
}

func TestDecodeRowTrailingMetadataOptional(t *testing.T) {
	p := sampleProfile()

	// Only the 15 mandatory fields present.
	decoded, err := DecodeRow(SerializeRow(&p)[:15], "FALLBACK_TX")
	require.NoError(t, err)
	assert.Nil(t, decoded.RingKm)
	assert.Equal(t, "FALLBACK_TX", decoded.TxID)

	// tx_id written as Python None falls back too.
	row := SerializeRow(&p)
	row[16] = "None"
	decoded, err = DecodeRow(row, "FALLBACK_TX")
	require.NoError(t, err)
	assert.Equal(t, "FALLBACK_TX", decoded.TxID)
}

func TestExportAndLoadLatestRoundTrip(t *testing.T) {
	dir := t.TempDir()

	points := gridPoints([]float64{0, 45, 90}, 2, 0.25, "TX_0001")
	profiles, err := NewFormatter(points).Format(0.7, 50, 1, 30, 10)
	require.NoError(t, err)

	path, err := Export(profiles, dir)
	require.NoError(t, err)

	kind, meta, err := naming.Parse(filepath.Base(path))
	require.NoError(t, err)
	assert.Equal(t, naming.KindProfiles, kind)
	assert.Equal(t, "TX_0001", meta.TxID)
	assert.Equal(t, len(profiles), meta.Profiles)
	assert.Equal(t, 3, meta.Azimuths)
	assert.Equal(t, 2, meta.DistanceKm)

	rows, loaded, err := LoadLatest(dir)
	require.NoError(t, err)
	assert.Equal(t, path, loaded)
	require.Len(t, rows, len(profiles))

	for i, row := range rows {
		decoded, err := DecodeRow(row, UnknownTxID)
		require.NoError(t, err, "row %d", i)
		assert.Equal(t, profiles[i].Distances, decoded.Params.Distances)
		assert.Equal(t, profiles[i].Heights, decoded.Params.Heights)
		assert.Equal(t, profiles[i].AzimuthDeg, decoded.AzimuthDeg)
		assert.Equal(t, "TX_0001", decoded.TxID)
	}
}

func TestLoadLatestPicksNewestFile(t *testing.T) {
	dir := t.TempDir()

	points := gridPoints([]float64{0}, 1, 0.25, "TX_OLD")
	profiles, err := NewFormatter(points).Format(0.7, 50, 1, 30, 10)
	require.NoError(t, err)

	older, err := Export(profiles, dir)
	require.NoError(t, err)
	// Backdate so the second export wins regardless of fs timestamp
	// resolution.
	past := time.Now().Add(-time.Hour)
	require.NoError(t, os.Chtimes(older, past, past))

	for i := range profiles {
		profiles[i].TxID = "TX_NEW"
	}
	newer, err := Export(profiles, dir)
	require.NoError(t, err)

	rows, loaded, err := LoadLatest(dir)
	require.NoError(t, err)
	assert.Equal(t, newer, loaded)
	require.NotEmpty(t, rows)

	decoded, err := DecodeRow(rows[0], UnknownTxID)
	require.NoError(t, err)
	assert.Equal(t, "TX_NEW", decoded.TxID)
}

func TestLoadLatestNoFile(t *testing.T) {
	_, _, err := LoadLatest(t.TempDir())
	assert.ErrorIs(t, err, ErrNoProfileFile)
}

func TestExportEmpty(t *testing.T) {
	_, err := Export(nil, t.TempDir())
	assert.Error(t, err)
}
