// Package profile builds, serializes and parses the path profiles
// consumed by the propagation model. Enriched receiver points are
// grouped into one profile per (distance ring, azimuth) pair, exported
// to a semicolon-delimited CSV with a smart filename, and decoded back
// into the model's positional parameter set by the batch processor.
package profile

import (
	"fmt"

	"github.com/mstgis/radio-coverage/internal/propagation"
)

// UnknownTxID labels profiles whose source points carry no transmitter
// identifier.
const UnknownTxID = "UNKNOWN_TX"

// Point is one enriched receiver sample along a radial: geometry from
// the grid stage plus elevation, clutter and zone attributes from the
// raster extraction stage.
type Point struct {
	Longitude  float64 `csv:"lon"`
	Latitude   float64 `csv:"lat"`
	AzimuthDeg float64 `csv:"azimuth_deg"`
	DistanceKm float64 `csv:"distance_km"`
	ElevationM float64 `csv:"h"`
	Clutter    int     `csv:"Ct"`
	Resistance float64 `csv:"R"`
	Zone       int     `csv:"zone"`
	TxID       string  `csv:"tx_id,omitempty"`
}

// Profile is one directional path from the transmitter to a ring
// endpoint. All point-wise slices are parallel and start with a
// synthetic transmitter sample at distance 0.
type Profile struct {
	FrequencyGHz   float64
	TimePercentage int
	Distances      []float64 // km, Distances[0] == 0
	Heights        []float64 // m, rounded to whole metres
	Resistances    []float64
	Clutter        []int
	Zones          []int
	TxHeightM      float64
	RxHeightM      float64
	Polarization   int
	TxLat          float64
	RxLat          float64
	TxLon          float64
	RxLon          float64
	AzimuthDeg     float64
	RingKm         float64
	TxID           string
}

// NumPoints returns the number of points in the profile, including the
// synthetic transmitter sample.
func (p *Profile) NumPoints() int {
	return len(p.Distances)
}

// MaxDistanceKm returns the farthest distance in the profile.
func (p *Profile) MaxDistanceKm() float64 {
	if len(p.Distances) == 0 {
		return 0
	}
	return p.Distances[len(p.Distances)-1]
}

// ValidationError reports a formatter precondition violation, naming
// the offending field and value.
type ValidationError struct {
	Field  string
	Value  any
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s, got %v", e.Field, e.Reason, e.Value)
}

// Decoded is one deserialized profile row: the model parameters plus
// the trailing metadata columns recovered for traceability.
type Decoded struct {
	Params     propagation.Params
	AzimuthDeg float64
	RingKm     *float64 // nil when the optional ring column is absent
	TxID       string
}
