package app

import (
	"errors"
	"flag"
	"fmt"
	"strings"
)

const (
	ImagePNG  = "png"
	ImageJPEG = "jpeg"

	MetricLoss          = "lb"
	MetricFieldStrength = "ep"
)

type ImageFormat string

type Metric string

type Config struct {
	DBPath     string
	RunID      int64
	Metric     Metric
	OutputFile string
	Format     ImageFormat
	Theme      ColorTheme
	MaxValue   *float64
	MinValue   *float64
	Verbose    bool
}

var validImageFormats = map[ImageFormat]struct{}{
	ImagePNG:  {},
	ImageJPEG: {},
}

var validMetrics = map[Metric]struct{}{
	MetricLoss:          {},
	MetricFieldStrength: {},
}

func NewConfig() *Config {
	return &Config{
		Format: ImagePNG,
		Metric: MetricLoss,
		Theme:  ThermalTheme,
	}
}

func NewConfigFromCLI() (*Config, error) {
	c := NewConfig()

	var imageFormat, metric, theme string
	var minValue, maxValue float64
	flag.StringVar(&c.DBPath, "db", "", "Path to the run history database")
	flag.Int64Var(&c.RunID, "r", 0, "Run ID (0 renders the most recent run)")
	flag.StringVar(&metric, "m", string(MetricLoss), "Metric to render. [lb, ep]")
	flag.StringVar(&c.OutputFile, "o", "", "Path to the output file")
	flag.StringVar(&imageFormat, "f", string(ImagePNG), "Output image format. [png, jpeg]")
	flag.StringVar(&theme, "theme", string(ThermalTheme), "Color theme. [classic, grayscale, jungle, thermal, marine]")
	flag.Float64Var(&minValue, "min", 0, "Define a manual scale minimum (format nn.n)")
	flag.Float64Var(&maxValue, "max", 0, "Define a manual scale maximum (format nn.n)")
	flag.BoolVar(&c.Verbose, "verbose", false, "Enable more verbose output")
	flag.Parse()

	imageFormat = strings.ToLower(imageFormat)
	metric = strings.ToLower(metric)

	flag.Visit(func(f *flag.Flag) {
		if f.Name == "min" {
			c.MinValue = &minValue
		}
		if f.Name == "max" {
			c.MaxValue = &maxValue
		}
	})

	var err error
	if c.DBPath == "" {
		err = errors.New("db path is required")
	} else if c.OutputFile == "" {
		err = errors.New("output file is required")
	} else if _, ok := validImageFormats[ImageFormat(imageFormat)]; !ok {
		err = fmt.Errorf("invalid image format: %s", imageFormat)
	} else if _, ok := validMetrics[Metric(metric)]; !ok {
		err = fmt.Errorf("invalid metric: %s", metric)
	} else if _, ok := colorThemes[ColorTheme(theme)]; !ok {
		err = fmt.Errorf("invalid color theme: %s", theme)
	}

	if err != nil {
		flag.Usage()
		return nil, err
	}

	c.Format = ImageFormat(imageFormat)
	c.Metric = Metric(metric)
	c.Theme = ColorTheme(theme)
	c.OutputFile = fmt.Sprintf("%s.%s", c.OutputFile, c.Format)
	return c, nil
}
