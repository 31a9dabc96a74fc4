package profile

import (
	"math"
	"sort"

	"github.com/mstgis/radio-coverage/internal/propagation"
)

// ringTolerance absorbs floating-point misalignment between a point's
// distance and its nominal integer-kilometre ring.
const ringTolerance = 0.05

// Formatter groups enriched receiver points into path profiles, one
// per (distance ring, azimuth) pair. The transmitter-side sample of
// each profile is synthetic: distance 0 with terrain attributes copied
// from the first real point rather than sampled at the transmitter
// coordinates. This mirrors the reference pipeline; changing it would
// shift numerical results silently.
type Formatter struct {
	points []Point
	txID   string
}

// NewFormatter creates a formatter over the given enriched points.
func NewFormatter(points []Point) *Formatter {
	return &Formatter{points: points}
}

// TxID returns the transmitter identifier of the point set: the first
// non-empty tx_id value, or UnknownTxID when none is present.
func (f *Formatter) TxID() string {
	if f.txID != "" {
		return f.txID
	}

	f.txID = UnknownTxID
	for _, p := range f.points {
		if p.TxID != "" {
			f.txID = p.TxID
			break
		}
	}
	return f.txID
}

// Format builds one profile per populated (ring, azimuth) pair,
// ring-major then azimuth ascending. Rings are the distinct positive
// point distances rounded to whole kilometres; a profile at ring D
// along azimuth A contains every point at azimuth A with distance
// <= D + tolerance, sorted by distance, behind the synthetic
// transmitter sample.
func (f *Formatter) Format(frequencyGHz float64, timePercentage, polarization int, txHeightM, rxHeightM float64) ([]Profile, error) {
	if len(f.points) == 0 {
		return nil, &ValidationError{Field: "points", Value: 0, Reason: "at least one enriched point is required"}
	}
	if frequencyGHz < propagation.MinFrequencyGHz || frequencyGHz > propagation.MaxFrequencyGHz {
		return nil, &ValidationError{Field: "frequency_ghz", Value: frequencyGHz, Reason: "must be 0.03-6 GHz"}
	}
	if timePercentage < 1 || timePercentage > 50 {
		return nil, &ValidationError{Field: "time_percentage", Value: timePercentage, Reason: "must be 1-50%"}
	}
	if polarization != propagation.PolarizationHorizontal && polarization != propagation.PolarizationVertical {
		return nil, &ValidationError{Field: "polarization", Value: polarization, Reason: "must be 1 (horizontal) or 2 (vertical)"}
	}

	rings := f.distanceRings()
	azimuths := f.azimuths()

	var profiles []Profile
	for _, ring := range rings {
		for _, azimuth := range azimuths {
			subset := f.selectPoints(azimuth, float64(ring)+ringTolerance)
			if len(subset) == 0 {
				continue
			}

			profiles = append(profiles, buildProfile(subset, profileSettings{
				frequencyGHz:   frequencyGHz,
				timePercentage: timePercentage,
				polarization:   polarization,
				txHeightM:      txHeightM,
				rxHeightM:      rxHeightM,
				azimuthDeg:     azimuth,
				ringKm:         float64(ring),
				txID:           f.TxID(),
			}))
		}
	}

	return profiles, nil
}

// distanceRings returns the sorted distinct positive point distances
// rounded to whole kilometres.
func (f *Formatter) distanceRings() []int {
	seen := make(map[int]struct{})
	for _, p := range f.points {
		if p.DistanceKm <= 0 {
			continue
		}
		seen[int(math.Round(p.DistanceKm))] = struct{}{}
	}

	rings := make([]int, 0, len(seen))
	for r := range seen {
		rings = append(rings, r)
	}
	sort.Ints(rings)
	return rings
}

// azimuths returns the sorted distinct azimuth values of the point set.
func (f *Formatter) azimuths() []float64 {
	seen := make(map[float64]struct{})
	for _, p := range f.points {
		seen[p.AzimuthDeg] = struct{}{}
	}

	azimuths := make([]float64, 0, len(seen))
	for a := range seen {
		azimuths = append(azimuths, a)
	}
	sort.Float64s(azimuths)
	return azimuths
}

// selectPoints returns the points on the given azimuth within maxDist,
// sorted by ascending distance.
func (f *Formatter) selectPoints(azimuth, maxDist float64) []Point {
	var subset []Point
	for _, p := range f.points {
		if p.AzimuthDeg == azimuth && p.DistanceKm <= maxDist {
			subset = append(subset, p)
		}
	}

	sort.SliceStable(subset, func(i, j int) bool {
		return subset[i].DistanceKm < subset[j].DistanceKm
	})
	return subset
}

type profileSettings struct {
	frequencyGHz   float64
	timePercentage int
	polarization   int
	txHeightM      float64
	rxHeightM      float64
	azimuthDeg     float64
	ringKm         float64
	txID           string
}

func buildProfile(subset []Point, s profileSettings) Profile {
	n := len(subset) + 1 // synthetic transmitter sample in front

	p := Profile{
		FrequencyGHz:   s.frequencyGHz,
		TimePercentage: s.timePercentage,
		Distances:      make([]float64, n),
		Heights:        make([]float64, n),
		Resistances:    make([]float64, n),
		Clutter:        make([]int, n),
		Zones:          make([]int, n),
		TxHeightM:      s.txHeightM,
		RxHeightM:      s.rxHeightM,
		Polarization:   s.polarization,
		AzimuthDeg:     s.azimuthDeg,
		RingKm:         s.ringKm,
		TxID:           s.txID,
	}

	for i, pt := range subset {
		p.Distances[i+1] = pt.DistanceKm
		p.Heights[i+1] = math.Round(pt.ElevationM)
		p.Resistances[i+1] = pt.Resistance
		p.Clutter[i+1] = pt.Clutter
		p.Zones[i+1] = pt.Zone
	}

	// Transmitter sample: distance 0, ground attributes of the first
	// real point.
	p.Distances[0] = 0
	p.Heights[0] = p.Heights[1]
	p.Resistances[0] = p.Resistances[1]
	p.Clutter[0] = p.Clutter[1]
	p.Zones[0] = p.Zones[1]

	// Endpoint geometry comes from the first and last real points, not
	// the synthetic sample.
	p.TxLat = subset[0].Latitude
	p.TxLon = subset[0].Longitude
	p.RxLat = subset[len(subset)-1].Latitude
	p.RxLon = subset[len(subset)-1].Longitude

	return p
}
