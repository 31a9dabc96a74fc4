package app

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/dustin/go-humanize"

	"github.com/mstgis/radio-coverage/internal/batch"
	"github.com/mstgis/radio-coverage/internal/propagation"
	"github.com/mstgis/radio-coverage/internal/storage"
)

const modelName = "p1812"

// Run processes the most recent profile file and writes the results
// table as CSV and XLSX, optionally recording the run in the history
// database.
func Run(ctx context.Context, config *Config, logger *slog.Logger) error {
	processor := batch.NewProcessor(propagation.NewP1812(), logger)

	outcome, err := processor.Run(ctx, config.Input.ProfilesDirectory)
	if err != nil {
		return fmt.Errorf("batch processing failed: %w", err)
	}

	summary := outcome.Summary
	logger.Info("batch complete",
		slog.Int("processed", summary.Processed),
		slog.Int("skipped", summary.Skipped),
		slog.String("totalTime", fmt.Sprintf("%.2fs", summary.TotalElapsedS)),
		slog.String("meanTime", fmt.Sprintf("%.3fs", summary.MeanElapsedS)))
	if summary.Processed > 0 {
		logger.Info("loss statistics",
			slog.String("lbMin", fmt.Sprintf("%.2fdB", summary.LbMin)),
			slog.String("lbMean", fmt.Sprintf("%.2fdB", summary.LbMean)),
			slog.String("lbMax", fmt.Sprintf("%.2fdB", summary.LbMax)),
			slog.String("epMean", fmt.Sprintf("%.2fdBuV/m", summary.EpMean)))
	}

	if err := os.MkdirAll(config.Output.ResultsDirectory, 0o755); err != nil {
		return fmt.Errorf("creating results directory: %w", err)
	}

	meta := batch.OutputMetadata(outcome.InputPath, outcome.Results)

	csvPath, err := batch.WriteCSV(outcome.Results, config.Output.ResultsDirectory, meta)
	if err != nil {
		return fmt.Errorf("failed to write results CSV: %w", err)
	}
	logArtifact(logger, "results CSV written", csvPath)

	xlsxPath, err := batch.WriteXLSX(outcome.Results, config.Output.ResultsDirectory, meta)
	if err != nil {
		return fmt.Errorf("failed to write results spreadsheet: %w", err)
	}
	logArtifact(logger, "results spreadsheet written", xlsxPath)

	if config.Storage.DatabasePath != "" {
		// History is secondary to the file artifacts: report persistence
		// failures, do not fail the run on them.
		if err := persistRun(ctx, config.Storage.DatabasePath, outcome); err != nil {
			logger.Warn("failed to record run in history database", slog.String("error", err.Error()))
		}
	}

	return nil
}

func persistRun(ctx context.Context, dbPath string, outcome *batch.Outcome) error {
	store := storage.New(dbPath)
	defer store.Close()

	run := storage.Run{
		InputFile: filepath.Base(outcome.InputPath),
		Model:     modelName,
		Processed: len(outcome.Results),
		Skipped:   len(outcome.Skipped),
	}
	if len(outcome.Results) > 0 {
		r := outcome.Results[0]
		run.FrequencyGHz = &r.FrequencyGHz
		run.TimePercentage = &r.TimePercentage
		run.Polarization = &r.Polarization
	}

	runID, err := store.CreateRun(ctx, &run)
	if err != nil {
		return err
	}
	return store.StoreResults(ctx, runID, outcome.Results)
}

func logArtifact(logger *slog.Logger, msg, path string) {
	attrs := []any{slog.String("file", filepath.Base(path))}
	if stat, err := os.Stat(path); err == nil {
		attrs = append(attrs, slog.String("size", humanize.Bytes(uint64(stat.Size()))))
	}
	logger.Info(msg, attrs...)
}
