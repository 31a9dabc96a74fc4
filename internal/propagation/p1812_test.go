package propagation

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func flatParams(distances []float64) Params {
	n := len(distances)
	heights := make([]float64, n)
	resistances := make([]float64, n)
	clutter := make([]int, n)
	zones := make([]int, n)
	for i := range zones {
		heights[i] = 100
		resistances[i] = 30
		clutter[i] = 2
		zones[i] = 4
	}

	return Params{
		FrequencyGHz:   0.7,
		TimePercentage: 50,
		Distances:      distances,
		Heights:        heights,
		Resistances:    resistances,
		Clutter:        clutter,
		Zones:          zones,
		TxHeightM:      30,
		RxHeightM:      10,
		Polarization:   PolarizationHorizontal,
		TxLat:          -33.86,
		RxLat:          -33.95,
		TxLon:          151.20,
		RxLon:          151.20,
	}
}

func TestBtLossGrowsWithDistance(t *testing.T) {
	model := NewP1812()

	near, _, err := model.BtLoss(flatParams([]float64{0, 0.25, 0.5, 0.75, 1}))
	require.NoError(t, err)

	far, _, err := model.BtLoss(flatParams([]float64{0, 2.5, 5, 7.5, 10}))
	require.NoError(t, err)

	assert.Greater(t, far, near)
}

func TestBtLossDeterministic(t *testing.T) {
	model := NewP1812()
	p := flatParams([]float64{0, 1, 2, 3, 4, 5})

	lb1, ep1, err := model.BtLoss(p)
	require.NoError(t, err)
	lb2, ep2, err := model.BtLoss(p)
	require.NoError(t, err)

	assert.Equal(t, lb1, lb2)
	assert.Equal(t, ep1, ep2)
}

func TestFieldStrengthRelation(t *testing.T) {
	model := NewP1812()
	p := flatParams([]float64{0, 1, 2, 3, 4, 5})

	lb, ep, err := model.BtLoss(p)
	require.NoError(t, err)

	want := 199.36 + 20*math.Log10(p.FrequencyGHz) - lb
	assert.InDelta(t, want, ep, 1e-9)
}

func TestObstructedPathLosesMore(t *testing.T) {
	model := NewP1812()

	flat := flatParams([]float64{0, 2, 4, 6, 8, 10})

	obstructed := flatParams([]float64{0, 2, 4, 6, 8, 10})
	obstructed.Heights[3] = 400 // ridge between the antennas

	lbFlat, _, err := model.BtLoss(flat)
	require.NoError(t, err)
	lbObstructed, _, err := model.BtLoss(obstructed)
	require.NoError(t, err)

	assert.Greater(t, lbObstructed, lbFlat)
}

func TestLowTimePercentageReducesLoss(t *testing.T) {
	model := NewP1812()

	median := flatParams([]float64{0, 2, 4, 6, 8, 10})
	rare := flatParams([]float64{0, 2, 4, 6, 8, 10})
	rare.TimePercentage = 1

	lbMedian, _, err := model.BtLoss(median)
	require.NoError(t, err)
	lbRare, _, err := model.BtLoss(rare)
	require.NoError(t, err)

	assert.Less(t, lbRare, lbMedian)
}

func TestValidateRejectsBadInput(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Params)
	}{
		{"frequency too low", func(p *Params) { p.FrequencyGHz = 0.01 }},
		{"frequency too high", func(p *Params) { p.FrequencyGHz = 10 }},
		{"time percentage too high", func(p *Params) { p.TimePercentage = 75 }},
		{"bad polarization", func(p *Params) { p.Polarization = 3 }},
		{"nonzero first distance", func(p *Params) { p.Distances[0] = 0.1 }},
		{"decreasing distances", func(p *Params) { p.Distances[2] = 0.1 }},
		{"ragged arrays", func(p *Params) { p.Heights = p.Heights[:3] }},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			p := flatParams([]float64{0, 1, 2, 3, 4, 5})
			tc.mutate(&p)
			_, _, err := NewP1812().BtLoss(p)
			assert.Error(t, err)
		})
	}
}

func TestShortProfileRejected(t *testing.T) {
	p := flatParams([]float64{0, 1, 2, 3})
	_, _, err := NewP1812().BtLoss(p)
	assert.ErrorIs(t, err, ErrProfileTooShort)
}
