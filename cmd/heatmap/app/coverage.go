package app

import (
	"math"
	"sort"

	"gonum.org/v1/gonum/stat"

	"github.com/mstgis/radio-coverage/internal/batch"
)

// CoverageData is the polar grid of one batch run: a metric value per
// (distance ring, azimuth) sector, plus the value distribution for
// color scaling.
type CoverageData struct {
	TxID         string
	FrequencyGHz float64

	rings    []float64
	azimuths []float64
	values   map[sectorKey]float64
	samples  []float64
}

type sectorKey struct {
	ring    float64
	azimuth float64
}

// NewCoverageData creates an empty coverage grid.
func NewCoverageData() *CoverageData {
	return &CoverageData{values: make(map[sectorKey]float64)}
}

// Update folds one batch result into the grid. Results without a ring
// column fall back to their rounded path length.
func (c *CoverageData) Update(r batch.Result, metric Metric) {
	if c.TxID == "" {
		c.TxID = r.TxID
	}
	if c.FrequencyGHz == 0 {
		c.FrequencyGHz = r.FrequencyGHz
	}

	ring := math.Round(r.DistanceKm)
	if r.DistanceRing != nil {
		ring = *r.DistanceRing
	}

	value := r.Lb
	if metric == MetricFieldStrength {
		value = r.Ep
	}

	key := sectorKey{ring: ring, azimuth: r.Azimuth}
	if _, seen := c.values[key]; !seen {
		c.insertRing(ring)
		c.insertAzimuth(r.Azimuth)
	}
	c.values[key] = value
	c.samples = append(c.samples, value)
}

// Value returns the metric value of a sector, if computed.
func (c *CoverageData) Value(ring, azimuth float64) (float64, bool) {
	v, ok := c.values[sectorKey{ring: ring, azimuth: azimuth}]
	return v, ok
}

// Rings returns the distinct ring radii in ascending order.
func (c *CoverageData) Rings() []float64 {
	return c.rings
}

// Azimuths returns the distinct azimuths in ascending order.
func (c *CoverageData) Azimuths() []float64 {
	return c.azimuths
}

// Sectors returns the number of populated sectors.
func (c *CoverageData) Sectors() int {
	return len(c.values)
}

// Bounds returns the 5th and 95th percentiles of the collected values,
// so a handful of outliers cannot wash out the gradient. Either side
// can be pinned by a manual override.
func (c *CoverageData) Bounds(minOverride, maxOverride *float64) (min, max float64) {
	if len(c.samples) == 0 {
		return 0, 1
	}

	sorted := append([]float64(nil), c.samples...)
	sort.Float64s(sorted)
	min = stat.Quantile(0.05, stat.Empirical, sorted, nil)
	max = stat.Quantile(0.95, stat.Empirical, sorted, nil)

	if minOverride != nil {
		min = *minOverride
	}
	if maxOverride != nil {
		max = *maxOverride
	}
	if max <= min {
		max = min + 1
	}
	return min, max
}

func (c *CoverageData) insertRing(ring float64) {
	i := sort.SearchFloat64s(c.rings, ring)
	if i < len(c.rings) && c.rings[i] == ring {
		return
	}
	c.rings = append(c.rings, 0)
	copy(c.rings[i+1:], c.rings[i:])
	c.rings[i] = ring
}

func (c *CoverageData) insertAzimuth(azimuth float64) {
	i := sort.SearchFloat64s(c.azimuths, azimuth)
	if i < len(c.azimuths) && c.azimuths[i] == azimuth {
		return
	}
	c.azimuths = append(c.azimuths, 0)
	copy(c.azimuths[i+1:], c.azimuths[i:])
	c.azimuths[i] = azimuth
}
