package app

import (
	"fmt"
	"image"
	"image/draw"
	"math"

	"github.com/dustin/go-humanize"
	"github.com/golang/freetype"
	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/goregular"
)

const (
	dpi      = 72.0
	fontSize = 13.0
	spacing  = 1.2

	mapRadius  = 360 // px, radius of the polar map
	mapPadding = 24  // px, white space around the disc

	legendHeight    = 96 // px, info strip below the map
	legendBarWidth  = 256
	legendBarHeight = 14
)

// CoverageRenderer draws a polar coverage map: the transmitter in the
// middle, north up, one colored sector per (ring, azimuth) pair.
type CoverageRenderer struct {
	theme   ColorTheme
	context *freetype.Context
}

// NewCoverageRenderer creates a renderer with the given color theme.
func NewCoverageRenderer(theme ColorTheme) (*CoverageRenderer, error) {
	parsedFont, err := freetype.ParseFont(goregular.TTF)
	if err != nil {
		return nil, fmt.Errorf("parsing font: %w", err)
	}

	context := freetype.NewContext()
	context.SetDPI(dpi)
	context.SetFont(parsedFont)
	context.SetFontSize(fontSize)
	context.SetSrc(image.Black)
	context.SetHinting(font.HintingFull)

	return &CoverageRenderer{theme: theme, context: context}, nil
}

// Render creates the coverage image for one run.
func (r *CoverageRenderer) Render(cov *CoverageData, metric Metric, minOverride, maxOverride *float64) (*image.RGBA, error) {
	rings := cov.Rings()
	azimuths := cov.Azimuths()
	if len(rings) == 0 || len(azimuths) == 0 {
		return nil, fmt.Errorf("no sectors to render")
	}

	side := 2 * (mapRadius + mapPadding)
	img := image.NewRGBA(image.Rect(0, 0, side, side+legendHeight))
	draw.Draw(img, img.Bounds(), image.White, image.Point{}, draw.Src)

	min, max := cov.Bounds(minOverride, maxOverride)
	mapper := NewColorMapper(r.theme, min, max)

	r.drawSectors(img, cov, mapper)

	if err := r.annotate(img, cov, metric, mapper, min, max); err != nil {
		return nil, fmt.Errorf("annotating: %w", err)
	}
	return img, nil
}

func (r *CoverageRenderer) drawSectors(img *image.RGBA, cov *CoverageData, mapper *ColorMapper) {
	rings := cov.Rings()
	azimuths := cov.Azimuths()

	cx, cy := mapRadius+mapPadding, mapRadius+mapPadding
	maxRing := rings[len(rings)-1]
	pxPerKm := float64(mapRadius) / maxRing

	for y := 0; y < 2*(mapRadius+mapPadding); y++ {
		for x := 0; x < 2*(mapRadius+mapPadding); x++ {
			dx := float64(x - cx)
			dy := float64(y - cy)

			rKm := math.Hypot(dx, dy) / pxPerKm
			if rKm > maxRing {
				continue
			}

			// Bearing with north up, clockwise positive.
			bearing := math.Mod(math.Atan2(dx, -dy)*180/math.Pi+360, 360)

			ring := rings[ringIndex(rings, rKm)]
			azimuth := nearestAzimuth(azimuths, bearing)

			if v, ok := cov.Value(ring, azimuth); ok {
				img.Set(x, y, mapper.GetColor(v))
			} else {
				img.Set(x, y, NoDataColor)
			}
		}
	}
}

// ringIndex finds the band a radius falls into: the first ring at or
// beyond it.
func ringIndex(rings []float64, rKm float64) int {
	for i, ring := range rings {
		if rKm <= ring {
			return i
		}
	}
	return len(rings) - 1
}

// nearestAzimuth picks the azimuth with the smallest circular distance
// to the bearing.
func nearestAzimuth(azimuths []float64, bearing float64) float64 {
	best := azimuths[0]
	bestDiff := math.Inf(1)
	for _, az := range azimuths {
		diff := math.Abs(math.Mod(bearing-az+540, 360) - 180)
		if diff < bestDiff {
			best, bestDiff = az, diff
		}
	}
	return best
}

func (r *CoverageRenderer) annotate(img *image.RGBA, cov *CoverageData, metric Metric, mapper *ColorMapper, min, max float64) error {
	r.context.SetClip(img.Bounds())
	r.context.SetDst(img)

	// North marker above the disc.
	pt := freetype.Pt(mapRadius+mapPadding-4, mapPadding-8)
	if _, err := r.context.DrawString("N", pt); err != nil {
		return err
	}

	// Legend bar with the metric gradient.
	barLeft := mapPadding
	barTop := 2*(mapRadius+mapPadding) + 16
	for i := 0; i < legendBarWidth; i++ {
		c := mapper.Gradient(float64(i) / float64(legendBarWidth-1))
		for j := 0; j < legendBarHeight; j++ {
			img.Set(barLeft+i, barTop+j, c)
		}
	}

	labels := fmt.Sprintf("%.1f", min)
	pt = freetype.Pt(barLeft, barTop+legendBarHeight+16)
	if _, err := r.context.DrawString(labels, pt); err != nil {
		return err
	}
	labels = fmt.Sprintf("%.1f %s", max, metricUnit(metric))
	pt = freetype.Pt(barLeft+legendBarWidth-40, barTop+legendBarHeight+16)
	if _, err := r.context.DrawString(labels, pt); err != nil {
		return err
	}

	// Run description to the right of the bar.
	freq, suffix := humanize.ComputeSI(cov.FrequencyGHz * 1e9)
	rings := cov.Rings()
	info := []string{
		fmt.Sprintf("TX: %s at %0.2f %sHz", cov.TxID, freq, suffix),
		fmt.Sprintf("%s, %d sectors, max %gkm", metricName(metric), cov.Sectors(), rings[len(rings)-1]),
	}

	pt = freetype.Pt(barLeft+legendBarWidth+24, barTop+12)
	for _, s := range info {
		if _, err := r.context.DrawString(s, pt); err != nil {
			return err
		}
		pt.Y += r.context.PointToFixed(fontSize * spacing)
	}

	return nil
}

func metricName(metric Metric) string {
	if metric == MetricFieldStrength {
		return "field strength"
	}
	return "basic transmission loss"
}

func metricUnit(metric Metric) string {
	if metric == MetricFieldStrength {
		return "dBuV/m"
	}
	return "dB"
}
