package app

import (
	"context"
	"errors"
	"fmt"
	"image"
	"image/jpeg"
	"image/png"
	"log/slog"
	"os"

	"github.com/dustin/go-humanize"

	"github.com/mstgis/radio-coverage/internal/storage"
)

const jpegQuality = 90

// Run renders the coverage map of one recorded batch run to an image
// file.
func Run(ctx context.Context, config *Config, logger *slog.Logger) error {
	store := storage.New(config.DBPath)
	defer store.Close()

	runID := config.RunID
	if runID == 0 {
		runs, err := store.Runs(ctx)
		if err != nil {
			return fmt.Errorf("listing runs: %w", err)
		}
		if len(runs) == 0 {
			return errors.New("no runs recorded in the database")
		}
		runID = runs[len(runs)-1].ID
	}

	run, err := store.Run(ctx, runID)
	if err != nil {
		return err
	}
	logger.Info("rendering run",
		slog.Int64("run", run.ID),
		slog.String("input", run.InputFile),
		slog.String("model", run.Model),
		slog.Time("createdAt", run.CreatedAt))

	cov, err := loadCoverage(ctx, store, runID, config.Metric)
	if err != nil {
		return err
	}
	if cov.Sectors() == 0 {
		return fmt.Errorf("run %d has no results to render", runID)
	}
	if run.FrequencyGHz != nil {
		cov.FrequencyGHz = *run.FrequencyGHz
	}

	logger.Debug("coverage grid assembled",
		slog.Int("rings", len(cov.Rings())),
		slog.Int("azimuths", len(cov.Azimuths())),
		slog.Int("sectors", cov.Sectors()))

	renderer, err := NewCoverageRenderer(config.Theme)
	if err != nil {
		return err
	}

	img, err := renderer.Render(cov, config.Metric, config.MinValue, config.MaxValue)
	if err != nil {
		return fmt.Errorf("rendering coverage map: %w", err)
	}

	if err := writeImage(config.OutputFile, config.Format, img); err != nil {
		return err
	}

	attrs := []any{slog.String("file", config.OutputFile)}
	if stat, err := os.Stat(config.OutputFile); err == nil {
		attrs = append(attrs, slog.String("size", humanize.Bytes(uint64(stat.Size()))))
	}
	logger.Info("coverage map written", attrs...)
	return nil
}

func loadCoverage(ctx context.Context, store *storage.Store, runID int64, metric Metric) (*CoverageData, error) {
	it, err := store.Results(ctx, runID)
	if err != nil {
		return nil, err
	}
	defer it.Close()

	cov := NewCoverageData()
	for it.Next() {
		cov.Update(it.Current(), metric)
	}
	if err := it.Err(); err != nil {
		return nil, fmt.Errorf("reading results for run %d: %w", runID, err)
	}
	return cov, nil
}

func writeImage(path string, format ImageFormat, img *image.RGBA) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating output file: %w", err)
	}

	switch format {
	case ImageJPEG:
		err = jpeg.Encode(f, img, &jpeg.Options{Quality: jpegQuality})
	default:
		err = png.Encode(f, img)
	}
	if err != nil {
		_ = f.Close()
		return fmt.Errorf("encoding %s image: %w", format, err)
	}

	if err := f.Close(); err != nil {
		return fmt.Errorf("closing output file: %w", err)
	}
	return nil
}
