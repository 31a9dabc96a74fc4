package propagation

import (
	"math"
)

const (
	// Median effective Earth radius, km (k-factor 4/3).
	effectiveEarthRadiusKm = 8500.0

	speedOfLight = 299792458.0 // m/s

	// Free-space constant for f in GHz and d in km.
	freeSpaceConstant = 92.45

	// Ep/Lb relation constant for 1 kW e.r.p., f in GHz.
	fieldStrengthConstant = 199.36
)

// Representative clutter heights in metres per clutter category,
// indexed 1-5: water/open, open/rural, suburban, urban/trees, dense urban.
var clutterHeights = [...]float64{0, 0, 4, 9, 12, 20}

// P1812 is the built-in terrestrial path-loss model. It combines
// free-space loss, spherical-earth/knife-edge diffraction over the
// terrain profile, a clutter correction at the receiver and a
// time-percentage variability term. Losses grow monotonically with
// distance for a flat profile.
type P1812 struct{}

// NewP1812 returns the built-in model.
func NewP1812() *P1812 {
	return &P1812{}
}

// BtLoss computes basic transmission loss and field strength for the
// given path profile.
func (m *P1812) BtLoss(p Params) (lb, ep float64, err error) {
	if err := p.Validate(); err != nil {
		return 0, 0, err
	}

	dTotal := p.PathLengthKm()
	if dTotal <= 0 {
		lb = freeSpaceLoss(p.FrequencyGHz, 0.001)
		return lb, fieldStrength(p.FrequencyGHz, lb), nil
	}

	lb = freeSpaceLoss(p.FrequencyGHz, dTotal)
	lb += diffractionLoss(&p)
	lb += clutterLoss(&p)
	lb += zoneCorrection(&p)
	lb -= timeVariability(p.TimePercentage, dTotal)

	if p.Polarization == PolarizationVertical {
		// Vertical polarization couples slightly better to ground
		// waves over resistive terrain at these frequencies.
		lb -= 0.5
	}

	return lb, fieldStrength(p.FrequencyGHz, lb), nil
}

// freeSpaceLoss returns the free-space basic transmission loss in dB
// for f in GHz and d in km.
func freeSpaceLoss(fGHz, dKm float64) float64 {
	return freeSpaceConstant + 20*math.Log10(fGHz) + 20*math.Log10(dKm)
}

// fieldStrength converts basic transmission loss to field strength in
// dB uV/m for 1 kW effective radiated power.
func fieldStrength(fGHz, lb float64) float64 {
	return fieldStrengthConstant + 20*math.Log10(fGHz) - lb
}

// diffractionLoss evaluates a Bullington-style construction over the
// terrain profile: the dominant knife-edge is the interior point with
// the largest diffraction parameter relative to the antenna-to-antenna
// line of sight, with Earth curvature added to each terrain height.
func diffractionLoss(p *Params) float64 {
	n := len(p.Distances)
	dTotal := p.Distances[n-1]

	txAmsl := p.Heights[0] + p.TxHeightM
	rxAmsl := p.Heights[n-1] + p.RxHeightM

	lambda := speedOfLight / (p.FrequencyGHz * 1e9) // m

	nuMax := math.Inf(-1)
	for i := 1; i < n-1; i++ {
		d1 := p.Distances[i]
		d2 := dTotal - d1
		if d1 <= 0 || d2 <= 0 {
			continue
		}

		// Earth bulge in metres for d1, d2 in km.
		bulge := 1000 * d1 * d2 / (2 * effectiveEarthRadiusKm)
		losHeight := txAmsl + (rxAmsl-txAmsl)*d1/dTotal
		clearance := p.Heights[i] + bulge - losHeight

		nu := clearance * math.Sqrt(2/(lambda*1000)*(1/d1+1/d2)) / math.Sqrt(1000)
		if nu > nuMax {
			nuMax = nu
		}
	}

	return knifeEdgeLoss(nuMax)
}

// knifeEdgeLoss is the single knife-edge diffraction loss J(nu) in dB.
func knifeEdgeLoss(nu float64) float64 {
	if nu <= -0.78 {
		return 0
	}
	return 6.9 + 20*math.Log10(math.Sqrt(math.Pow(nu-0.1, 2)+1)+nu-0.1)
}

// clutterLoss estimates the additional loss from land cover at the
// receiver end. A receiver below the representative clutter height of
// its category is shadowed by it.
func clutterLoss(p *Params) float64 {
	ct := p.Clutter[len(p.Clutter)-1]
	if ct < 0 || ct >= len(clutterHeights) {
		ct = 0
	}

	hc := clutterHeights[ct]
	if hc <= 0 || p.RxHeightM >= hc {
		return 0
	}

	// Height-gain style correction, capped to keep the term from
	// dominating short urban paths.
	loss := 10.25 * math.Exp(-hc/20) * (1 - math.Tanh(6*(p.RxHeightM/hc-0.625)))
	return math.Min(loss, 20)
}

// zoneCorrection lowers the loss for paths that are predominantly over
// sea or coastal zones (zone codes 1 and 2; 3+ is inland).
func zoneCorrection(p *Params) float64 {
	var sea int
	for _, z := range p.Zones {
		if z <= 2 {
			sea++
		}
	}

	frac := float64(sea) / float64(len(p.Zones))
	return -3 * frac
}

// timeVariability is the reduction in loss not exceeded for p% of time
// relative to the median (p=50). Smaller p means rarer, stronger
// signal enhancement, growing slowly with path length.
func timeVariability(pct, dKm float64) float64 {
	if pct >= 50 {
		return 0
	}
	return (1.2 + 0.01*dKm) * math.Log10(50/pct)
}
