package app

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/dustin/go-humanize"

	"github.com/mstgis/radio-coverage/internal/profile"
)

// Run formats enriched receiver points into path profiles and exports
// them as a semicolon-delimited CSV with a smart filename.
func Run(ctx context.Context, config *Config, logger *slog.Logger) error {
	points, err := profile.ReadPoints(config.Input.PointsFile)
	if err != nil {
		return fmt.Errorf("failed to read points: %w", err)
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	logger.Info("formatting profiles",
		slog.Int("points", len(points)),
		slog.String("source", config.Input.PointsFile))

	formatter := profile.NewFormatter(points)
	profiles, err := formatter.Format(
		config.Model.FrequencyGHz,
		config.Model.TimePercentage,
		config.Model.Polarization,
		config.Model.TxAntennaHeightM,
		config.Model.RxAntennaHeightM,
	)
	if err != nil {
		return fmt.Errorf("failed to format profiles: %w", err)
	}
	if len(profiles) == 0 {
		return fmt.Errorf("no profiles produced from %d points", len(points))
	}

	if err := os.MkdirAll(config.Output.ProfilesDirectory, 0o755); err != nil {
		return fmt.Errorf("creating output directory: %w", err)
	}

	path, err := profile.Export(profiles, config.Output.ProfilesDirectory)
	if err != nil {
		return fmt.Errorf("failed to export profiles: %w", err)
	}

	stat, err := os.Stat(path)
	if err != nil {
		return fmt.Errorf("inspecting exported file: %w", err)
	}

	azimuths := make(map[float64]struct{})
	for i := range profiles {
		azimuths[profiles[i].AzimuthDeg] = struct{}{}
	}

	logger.Info("profiles exported",
		slog.String("txID", formatter.TxID()),
		slog.Int("profiles", len(profiles)),
		slog.Int("azimuths", len(azimuths)),
		slog.String("file", filepath.Base(path)),
		slog.String("size", humanize.Bytes(uint64(stat.Size()))))

	return nil
}
