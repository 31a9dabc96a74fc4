// Package propagation defines the boundary to the terrestrial
// path-loss model and provides a built-in implementation. The batch
// processor depends only on the Model interface, so a reimplementation
// or a foreign-function binding can be substituted without touching
// the pipeline.
package propagation

import (
	"errors"
	"fmt"
)

const (
	// MinFrequencyGHz and MaxFrequencyGHz bound the model's valid
	// frequency range.
	MinFrequencyGHz = 0.03
	MaxFrequencyGHz = 6.0

	// MinProfilePoints is the smallest profile the model accepts.
	// Below five points the diffraction terms are undefined.
	MinProfilePoints = 5

	PolarizationHorizontal = 1
	PolarizationVertical   = 2
)

// ErrProfileTooShort is returned by models when a profile carries
// MinProfilePoints-1 or fewer distance points.
var ErrProfileTooShort = errors.New("profile has too few points")

// Params carries the ordered parameter set of the path-loss model.
// The field order mirrors the serialized profile row (fields 0-13) and
// must not be rearranged: positional decoding depends on it.
type Params struct {
	FrequencyGHz   float64   // f: 0.03-6 GHz
	TimePercentage float64   // p: 1-50, percentage of time the loss is not exceeded
	Distances      []float64 // d: km, d[0] == 0 at the transmitter, non-decreasing
	Heights        []float64 // h: terrain height in m, parallel to d
	Resistances    []float64 // R: surface resistance per point, parallel to d
	Clutter        []int     // Ct: clutter category per point, parallel to d
	Zones          []int     // zone: propagation zone per point, parallel to d
	TxHeightM      float64   // htg: transmitter antenna height above ground
	RxHeightM      float64   // hrg: receiver antenna height above ground
	Polarization   int       // pol: 1 horizontal, 2 vertical
	TxLat          float64   // phi_t: degrees
	RxLat          float64   // phi_r: degrees
	TxLon          float64   // lam_t: degrees
	RxLon          float64   // lam_r: degrees
}

// NumPoints returns the number of points in the path profile.
func (p *Params) NumPoints() int {
	return len(p.Distances)
}

// PathLengthKm returns the length of the path profile in km.
func (p *Params) PathLengthKm() float64 {
	if len(p.Distances) == 0 {
		return 0
	}
	return p.Distances[len(p.Distances)-1]
}

// Validate checks the numeric contract of the model input. It is the
// caller's responsibility to have applied the short-profile skip
// policy before invoking a model; Validate still rejects short
// profiles so that an invalid input cannot slip through.
func (p *Params) Validate() error {
	if p.FrequencyGHz < MinFrequencyGHz || p.FrequencyGHz > MaxFrequencyGHz {
		return fmt.Errorf("frequency must be %.2f-%.0f GHz, got %g", MinFrequencyGHz, MaxFrequencyGHz, p.FrequencyGHz)
	}
	if p.TimePercentage < 1 || p.TimePercentage > 50 {
		return fmt.Errorf("time percentage must be 1-50, got %g", p.TimePercentage)
	}
	if p.Polarization != PolarizationHorizontal && p.Polarization != PolarizationVertical {
		return fmt.Errorf("polarization must be 1 or 2, got %d", p.Polarization)
	}

	n := len(p.Distances)
	if n < MinProfilePoints {
		return fmt.Errorf("%w: %d points (need at least %d)", ErrProfileTooShort, n, MinProfilePoints)
	}
	if len(p.Heights) != n || len(p.Resistances) != n || len(p.Clutter) != n || len(p.Zones) != n {
		return fmt.Errorf("profile arrays are not parallel: d=%d h=%d R=%d Ct=%d zone=%d",
			n, len(p.Heights), len(p.Resistances), len(p.Clutter), len(p.Zones))
	}
	if p.Distances[0] != 0 {
		return fmt.Errorf("distance array must start at 0, got %g", p.Distances[0])
	}
	for i := 1; i < n; i++ {
		if p.Distances[i] < p.Distances[i-1] {
			return fmt.Errorf("distance array must be non-decreasing, d[%d]=%g < d[%d]=%g",
				i, p.Distances[i], i-1, p.Distances[i-1])
		}
	}

	return nil
}

// Model computes basic transmission loss Lb (dB) and field strength
// Ep (dB uV/m) for a path profile. Implementations are deterministic
// and must return an error, never a sentinel value, on invalid input.
type Model interface {
	BtLoss(p Params) (lb, ep float64, err error)
}

// ModelFunc adapts a plain function to the Model interface.
type ModelFunc func(p Params) (lb, ep float64, err error)

func (f ModelFunc) BtLoss(p Params) (lb, ep float64, err error) {
	return f(p)
}
