package app

import (
	"image/color"
	"math"
)

// ColorTheme selects a predefined color scheme for the coverage map:
// - ClassicTheme: rainbow ramp (blue to red)
// - GrayscaleTheme: monochrome
// - JungleTheme: dark green to yellow
// - ThermalTheme: black to red to yellow to white
// - MarineTheme: deep blue to cyan to white
type ColorTheme string

const (
	ClassicTheme   ColorTheme = "classic"
	GrayscaleTheme ColorTheme = "grayscale"
	JungleTheme    ColorTheme = "jungle"
	ThermalTheme   ColorTheme = "thermal"
	MarineTheme    ColorTheme = "marine"

	colorMapSize = 256
)

// NoDataColor fills sectors without a computed result.
var NoDataColor = color.RGBA{R: 0xe8, G: 0xe8, B: 0xe8, A: 0xff}

var colorThemes = map[ColorTheme]func(float64) color.Color{
	ClassicTheme:   classicColor,
	GrayscaleTheme: grayscaleColor,
	JungleTheme:    jungleColor,
	ThermalTheme:   thermalColor,
	MarineTheme:    marineColor,
}

// ColorMapper maps metric values onto a pre-computed gradient between
// fixed bounds.
type ColorMapper struct {
	colorMap      []color.Color
	min           float64
	valuePerIndex float64
}

// NewColorMapper pre-computes the gradient of the given theme over
// [min, max].
func NewColorMapper(theme ColorTheme, min, max float64) *ColorMapper {
	fn, ok := colorThemes[theme]
	if !ok {
		fn = thermalColor
	}
	if max <= min {
		max = min + 1
	}

	cm := &ColorMapper{
		colorMap:      make([]color.Color, colorMapSize),
		min:           min,
		valuePerIndex: (max - min) / float64(colorMapSize-1),
	}
	for i := range cm.colorMap {
		cm.colorMap[i] = fn(float64(i) / float64(colorMapSize-1))
	}
	return cm
}

// GetColor returns the gradient color for a metric value, clamped to
// the mapper's bounds.
func (cm *ColorMapper) GetColor(value float64) color.Color {
	index := int((value - cm.min) / cm.valuePerIndex)
	if index < 0 {
		return cm.colorMap[0]
	}
	if index >= len(cm.colorMap) {
		return cm.colorMap[len(cm.colorMap)-1]
	}
	return cm.colorMap[index]
}

// Gradient returns the normalized gradient color at t in [0, 1],
// used to draw the legend bar.
func (cm *ColorMapper) Gradient(t float64) color.Color {
	index := int(t * float64(len(cm.colorMap)-1))
	if index < 0 {
		index = 0
	}
	if index >= len(cm.colorMap) {
		index = len(cm.colorMap) - 1
	}
	return cm.colorMap[index]
}

func classicColor(t float64) color.Color {
	// Blue through cyan, green, yellow to red.
	r := clampChannel(1.5 - math.Abs(4*t-3))
	g := clampChannel(1.5 - math.Abs(4*t-2))
	b := clampChannel(1.5 - math.Abs(4*t-1))
	return color.RGBA{R: r, G: g, B: b, A: 0xff}
}

func grayscaleColor(t float64) color.Color {
	v := clampChannel(t)
	return color.RGBA{R: v, G: v, B: v, A: 0xff}
}

func jungleColor(t float64) color.Color {
	return color.RGBA{
		R: clampChannel(t * t),
		G: clampChannel(0.2 + 0.8*t),
		B: clampChannel(0.1 * (1 - t)),
		A: 0xff,
	}
}

func thermalColor(t float64) color.Color {
	return color.RGBA{
		R: clampChannel(3 * t),
		G: clampChannel(3*t - 1),
		B: clampChannel(3*t - 2),
		A: 0xff,
	}
}

func marineColor(t float64) color.Color {
	return color.RGBA{
		R: clampChannel(t * t * t),
		G: clampChannel(t * t),
		B: clampChannel(0.4 + 0.6*t),
		A: 0xff,
	}
}

func clampChannel(v float64) uint8 {
	if v <= 0 {
		return 0
	}
	if v >= 1 {
		return 0xff
	}
	return uint8(v * 255)
}
