package naming

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFilenameRoundTrip(t *testing.T) {
	ts := time.Date(2026, 2, 9, 9, 41, 48, 0, time.Local)
	m := Metadata{
		TxID:       "TX_0001",
		Profiles:   432,
		Azimuths:   36,
		DistanceKm: 11,
		Timestamp:  ts,
		Hash:       "6e44e765",
	}

	name := m.Filename(KindProfiles, "csv")
	assert.Equal(t, "profiles_TX_0001_432p_36az_11km_v20260209_094148_6e44e765.csv", name)

	kind, parsed, err := Parse(name)
	require.NoError(t, err)
	assert.Equal(t, KindProfiles, kind)
	assert.Equal(t, m, parsed)
}

func TestFilenameTokens(t *testing.T) {
	m := Metadata{
		TxID:       "TX0",
		Profiles:   88,
		Azimuths:   8,
		DistanceKm: 11,
		Timestamp:  time.Now(),
		Hash:       "deadbeef",
	}

	name := m.Filename(KindProfiles, "csv")
	assert.Contains(t, name, "88p")
	assert.Contains(t, name, "8az")
	assert.Contains(t, name, "11km")
}

func TestParseResultsKind(t *testing.T) {
	m := Metadata{TxID: "TX9", Profiles: 1, Azimuths: 1, DistanceKm: 2, Timestamp: time.Now(), Hash: "0a1b2c3d"}

	kind, _, err := Parse(m.Filename(KindResults, "xlsx"))
	require.NoError(t, err)
	assert.Equal(t, KindResults, kind)
}

func TestParseRejectsMalformedNames(t *testing.T) {
	for _, name := range []string{
		"profiles.csv",
		"profiles_TX1_88p_8az.csv",
		"profiles_TX1_88p_8az_11km_v2026_6e44e765.csv",
		"sweep_TX1_88p_8az_11km_v20260209_094148_6e44e765.csv",
		"profiles_TX1_88p_8az_11km_v20260209_094148_ZZZZZZZZ.csv",
	} {
		_, _, err := Parse(name)
		assert.Error(t, err, name)
	}
}

func TestHashBytes(t *testing.T) {
	h := HashBytes([]byte("f;p;d\n"))
	assert.Len(t, h, 8)
	assert.Equal(t, strings.ToLower(h), h)
	assert.Equal(t, h, HashBytes([]byte("f;p;d\n")))
	assert.NotEqual(t, h, HashBytes([]byte("f;p;d;h\n")))
}
